package repository

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrLoadFailed = errors.New("failed to load records")
	ErrStopping   = errors.New("repository is stopping")
)

// Records skipped during a full load. Logged and counted, never fails the load.
type LoadPartialFailure struct {
	Failures map[string]error
}

func (self *LoadPartialFailure) add(businessId string, err error) {
	if self.Failures == nil {
		self.Failures = make(map[string]error)
	}
	self.Failures[businessId] = err
}

func (self *LoadPartialFailure) Ids() []string {
	ids := make([]string, 0, len(self.Failures))
	for id := range self.Failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (self *LoadPartialFailure) Error() string {
	return fmt.Sprintf("skipped %d record(s): %s", len(self.Failures), strings.Join(self.Ids(), ", "))
}
