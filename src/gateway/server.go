package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/warp-contracts/mindshare/src/encryption"
	"github.com/warp-contracts/mindshare/src/journal"
	"github.com/warp-contracts/mindshare/src/lifecycle"
	"github.com/warp-contracts/mindshare/src/notify"
	"github.com/warp-contracts/mindshare/src/utils/config"
	"github.com/warp-contracts/mindshare/src/utils/task"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTime = 10 * time.Minute

// REST API used by the presentation layer
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine
	limiter    *IPRateLimiter

	controller *lifecycle.Controller
	notifier   *notify.Notifier
	journal    *journal.Journal
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "api").
		WithSubtaskFunc(self.run).
		WithPeriodicSubtaskFunc(limiterIdleTime, func() error {
			self.limiter.Cleanup(limiterIdleTime)
			return nil
		}).
		WithOnStop(self.stop)

	if !config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	self.limiter = NewIPRateLimiter(rate.Limit(config.Api.RateLimit), config.Api.RateBurst)

	self.Router = gin.New()
	self.Router.Use(gin.Recovery())
	self.Router.Use(cors.New(cors.Config{
		AllowOrigins:  config.Api.AllowOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	self.httpServer = &http.Server{
		Addr:    config.Api.ListenAddress,
		Handler: self.Router,
	}

	return
}

func (self *Server) WithController(v *lifecycle.Controller) *Server {
	self.controller = v
	return self
}

func (self *Server) WithNotifier(v *notify.Notifier) *Server {
	self.notifier = v
	return self
}

func (self *Server) WithJournal(v *journal.Journal) *Server {
	self.journal = v
	return self
}

// Registers handlers, call after all dependencies are set
func (self *Server) WithRoutes() *Server {
	v1 := self.Router.Group("v1")
	{
		v1.GET("records", self.onGetRecords)
		v1.GET("records/:id", self.onGetRecord)
		v1.GET("stats", self.onGetStats)
		v1.GET("status", self.onGetStatus)
		v1.GET("status/stream", self.onStatusStream)
		v1.GET("availability", self.onGetAvailability)
		v1.GET("operations", self.onGetOperations)

		mutating := v1.Group("", self.limiter.Middleware())
		mutating.POST("records", self.onSubmitRecord)
		mutating.POST("records/:id/verify", self.onVerifyRecord)
		mutating.POST("reload", self.onReload)
	}
	return self
}

// Maps controller errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, lifecycle.ErrNotConnected):
		return http.StatusPreconditionFailed
	case errors.Is(err, lifecycle.ErrSubmissionRejected),
		errors.Is(err, encryption.ErrDecryptionDenied):
		return http.StatusForbidden
	case errors.Is(err, encryption.ErrEncryptionUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, lifecycle.ErrSubmissionFailed),
		errors.Is(err, lifecycle.ErrVerificationFailed),
		errors.Is(err, lifecycle.ErrReloadFailed),
		errors.Is(err, lifecycle.ErrAvailabilityFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (self *Server) run() (err error) {
	self.Log.WithField("address", self.httpServer.Addr).Info("Starting API server")
	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start API server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown API server")
		return
	}
}
