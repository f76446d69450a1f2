package notify

import (
	"testing"
	"time"

	"github.com/warp-contracts/mindshare/src/utils/config"
	"github.com/warp-contracts/mindshare/src/utils/model"

	"github.com/stretchr/testify/suite"
)

func TestNotifierTestSuite(t *testing.T) {
	suite.Run(t, new(NotifierTestSuite))
}

type NotifierTestSuite struct {
	suite.Suite
	config   *config.Config
	notifier *Notifier
}

func (s *NotifierTestSuite) SetupTest() {
	s.config = config.Default()
	s.config.Notifier.SuccessDelay = 30 * time.Millisecond
	s.config.Notifier.ErrorDelay = 60 * time.Millisecond
	s.config.Notifier.HistorySize = 3
	s.notifier = NewNotifier(&s.config.Notifier)
}

func (s *NotifierTestSuite) TestInitiallyHidden() {
	s.Require().False(s.notifier.Current().Visible)
	s.Require().Empty(s.notifier.History())
}

func (s *NotifierTestSuite) TestPendingStaysVisible() {
	s.notifier.Pending("Waiting for transaction confirmation...")

	time.Sleep(100 * time.Millisecond)
	current := s.notifier.Current()
	s.Require().True(current.Visible)
	s.Require().Equal(model.StatusPending, current.Status)
	s.Require().Equal("Waiting for transaction confirmation...", current.Message)
}

func (s *NotifierTestSuite) TestSuccessHides() {
	s.notifier.Success("Experience shared securely!")
	s.Require().True(s.notifier.Current().Visible)

	s.Require().Eventually(func() bool {
		return !s.notifier.Current().Visible
	}, time.Second, 5*time.Millisecond)
	s.Require().Equal("Experience shared securely!", s.notifier.Current().Message)
}

func (s *NotifierTestSuite) TestErrorHidesLaterThanSuccess() {
	s.notifier.Error("Submission failed")

	time.Sleep(40 * time.Millisecond)
	s.Require().True(s.notifier.Current().Visible)

	s.Require().Eventually(func() bool {
		return !s.notifier.Current().Visible
	}, time.Second, 5*time.Millisecond)
}

func (s *NotifierTestSuite) TestLastWriteWins() {
	s.notifier.Success("first")
	s.notifier.Error("second")
	s.notifier.Pending("third")

	// Neither of the earlier dismissals may hide the pending status
	time.Sleep(100 * time.Millisecond)
	current := s.notifier.Current()
	s.Require().True(current.Visible)
	s.Require().Equal("third", current.Message)
}

func (s *NotifierTestSuite) TestRapidWrites() {
	for i := 0; i < 100; i++ {
		s.notifier.Success("done")
	}
	s.notifier.Error("failed")

	time.Sleep(40 * time.Millisecond)
	s.Require().True(s.notifier.Current().Visible)
	s.Require().Equal(model.StatusError, s.notifier.Current().Status)
}

func (s *NotifierTestSuite) TestHideIsIdempotent() {
	s.notifier.Hide()
	s.notifier.Pending("x")
	s.notifier.Hide()
	s.notifier.Hide()
	s.Require().False(s.notifier.Current().Visible)
}

func (s *NotifierTestSuite) TestHistoryIsBounded() {
	for _, msg := range []string{"a", "b", "c", "d"} {
		s.notifier.Pending(msg)
	}

	history := s.notifier.History()
	s.Require().Len(history, 3)
	s.Require().Equal("b", history[0].Message)
	s.Require().Equal("d", history[2].Message)
}

func (s *NotifierTestSuite) TestSubscribe() {
	ch, unsubscribe := s.notifier.Subscribe()

	s.notifier.Success("ok")
	status := <-ch
	s.Require().True(status.Visible)
	s.Require().Equal("ok", status.Message)

	status = <-ch
	s.Require().False(status.Visible)

	unsubscribe()
	unsubscribe()
	_, ok := <-ch
	s.Require().False(ok)

	// No panic after unsubscribing
	s.notifier.Pending("after")
}
