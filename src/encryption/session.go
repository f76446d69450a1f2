package encryption

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (self State) String() string {
	switch self {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// One-time initialization state of the encryption service, bound to the connected address.
// All transitions are guarded, only one initialization may be in flight.
type Session struct {
	mtx     sync.Mutex
	state   State
	address common.Address
	keyInfo *KeyInfo
	err     error

	// Id of the latest initialization attempt
	attempt uint64
}

func NewSession() *Session {
	return new(Session)
}

// Moves to initializing and returns the attempt id.
// Returns 0 if the session is already ready for this address.
func (self *Session) Begin(address common.Address) (attempt uint64, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	switch self.state {
	case StateInitializing:
		return 0, ErrInitializing
	case StateReady:
		if self.address == address {
			return 0, nil
		}
	}

	self.attempt++
	self.state = StateInitializing
	self.address = address
	self.keyInfo = nil
	self.err = nil
	return self.attempt, nil
}

// Finishes the attempt started with Begin. Results of stale attempts are dropped.
func (self *Session) Complete(attempt uint64, keyInfo *KeyInfo, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.state != StateInitializing || self.attempt != attempt {
		return
	}

	if err != nil {
		self.state = StateFailed
		self.err = err
		return
	}

	self.state = StateReady
	self.keyInfo = keyInfo
}

// Forgets the connected address, next use needs a new initialization
func (self *Session) Reset() {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	// Invalidates the attempt in flight
	self.attempt++
	self.state = StateUninitialized
	self.address = common.Address{}
	self.keyInfo = nil
	self.err = nil
}

func (self *Session) State() State {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.state
}

func (self *Session) Address() common.Address {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.address
}

// Last initialization error, nil unless failed
func (self *Session) Err() error {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.err
}

func (self *Session) IsReady() bool {
	return self.State() == StateReady
}

func (self *Session) IsReadyFor(address common.Address) bool {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.state == StateReady && self.address == address
}
