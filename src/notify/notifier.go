package notify

import (
	"sync"
	"time"

	"github.com/warp-contracts/mindshare/src/utils/config"
	"github.com/warp-contracts/mindshare/src/utils/logger"
	"github.com/warp-contracts/mindshare/src/utils/model"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

const subscriberCapacity = 16

// Single slot status holder. The last write wins, success and error statuses hide themselves after a delay.
type Notifier struct {
	log    *logrus.Entry
	config *config.Notifier
	now    func() time.Time

	mtx     sync.Mutex
	current model.TransactionStatus

	// Incremented on every write, a dismissal scheduled for an older generation is a no-op
	generation uint64
	timer      *time.Timer

	history *deque.Deque[model.TransactionStatus]

	subscribers  map[uint64]chan model.TransactionStatus
	subscriberId uint64
}

func NewNotifier(config *config.Notifier) (self *Notifier) {
	self = new(Notifier)
	self.log = logger.NewSublogger("notifier")
	self.config = config
	self.now = time.Now
	self.current = model.HiddenStatus()
	self.history = deque.New[model.TransactionStatus](config.HistorySize)
	self.subscribers = make(map[uint64]chan model.TransactionStatus)
	return
}

func (self *Notifier) Pending(message string) {
	self.set(model.StatusPending, message, 0)
}

func (self *Notifier) Success(message string) {
	self.set(model.StatusSuccess, message, self.config.SuccessDelay)
}

func (self *Notifier) Error(message string) {
	self.set(model.StatusError, message, self.config.ErrorDelay)
}

// Hides the current status. Hiding a hidden status does nothing.
func (self *Notifier) Hide() {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	self.stopTimer()
	self.generation++
	self.hide()
}

func (self *Notifier) Current() model.TransactionStatus {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.current
}

// Past visible statuses, oldest first
func (self *Notifier) History() []model.TransactionStatus {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	out := make([]model.TransactionStatus, self.history.Len())
	for i := range out {
		out[i] = self.history.At(i)
	}
	return out
}

// Channel receiving every status change. Slow subscribers miss updates.
func (self *Notifier) Subscribe() (out <-chan model.TransactionStatus, unsubscribe func()) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.subscriberId++
	id := self.subscriberId
	ch := make(chan model.TransactionStatus, subscriberCapacity)
	self.subscribers[id] = ch

	var once sync.Once
	unsubscribe = func() {
		once.Do(func() {
			self.mtx.Lock()
			defer self.mtx.Unlock()
			delete(self.subscribers, id)
			close(ch)
		})
	}
	return ch, unsubscribe
}

func (self *Notifier) set(status model.StatusKind, message string, delay time.Duration) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	self.stopTimer()
	self.generation++

	self.current = model.TransactionStatus{
		Visible:   true,
		Status:    status,
		Message:   message,
		UpdatedAt: self.now(),
	}

	if self.config.HistorySize > 0 {
		for self.history.Len() >= self.config.HistorySize {
			self.history.PopFront()
		}
		self.history.PushBack(self.current)
	}

	self.log.WithField("status", status).Debug(message)
	self.broadcast()

	if delay <= 0 {
		return
	}

	generation := self.generation
	self.timer = time.AfterFunc(delay, func() {
		self.mtx.Lock()
		defer self.mtx.Unlock()
		if generation != self.generation {
			return
		}
		self.timer = nil
		self.hide()
	})
}

// Requires the lock
func (self *Notifier) hide() {
	if !self.current.Visible {
		return
	}
	self.current.Visible = false
	self.current.UpdatedAt = self.now()
	self.broadcast()
}

// Requires the lock
func (self *Notifier) stopTimer() {
	if self.timer != nil {
		self.timer.Stop()
		self.timer = nil
	}
}

// Requires the lock
func (self *Notifier) broadcast() {
	for _, ch := range self.subscribers {
		select {
		case ch <- self.current:
		default:
		}
	}
}
