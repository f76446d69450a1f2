package gateway

import (
	"net/http"
	"strings"

	"github.com/warp-contracts/mindshare/src/gateway/request"
	"github.com/warp-contracts/mindshare/src/gateway/response"
	. "github.com/warp-contracts/mindshare/src/utils/logger"

	"github.com/gin-gonic/gin"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

func (self *Server) onGetStatus(c *gin.Context) {
	out := response.Status{
		TransactionStatus: self.notifier.Current(),
		ContractAddress:   self.controller.ContractAddress(),
		Encryption:        self.controller.EncryptionState().String(),
		IsSubmitting:      self.controller.IsSubmitting(),
		IsVerifying:       self.controller.IsVerifying(),
		History:           self.notifier.History(),
	}
	if address, ok := self.controller.Address(); ok {
		out.Address = address.Hex()
	}

	c.JSON(http.StatusOK, out)
}

// Pushes every status change to the client until it disconnects
func (self *Server) onStatusStream(c *gin.Context) {
	opts := &websocket.AcceptOptions{}
	for _, origin := range self.Config.Api.AllowOrigins {
		if origin == "*" {
			opts.InsecureSkipVerify = true
			break
		}
		opts.OriginPatterns = append(opts.OriginPatterns, strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://"))
	}

	conn, err := websocket.Accept(c.Writer, c.Request, opts)
	if err != nil {
		LOG(c).WithError(err).Warn("Failed to accept websocket")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	updates, unsubscribe := self.notifier.Subscribe()
	defer unsubscribe()

	// Only closing frames are expected from the client
	ctx := conn.CloseRead(c.Request.Context())

	err = wsjson.Write(ctx, conn, self.notifier.Current())
	if err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-self.Ctx.Done():
			conn.Close(websocket.StatusGoingAway, "server stopping")
			return
		case status, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			err = wsjson.Write(ctx, conn, status)
			if err != nil {
				LOG(c).WithError(err).Debug("Status stream closed")
				return
			}
		}
	}
}

func (self *Server) onGetAvailability(c *gin.Context) {
	available, err := self.controller.CheckAvailability(c.Request.Context())
	if err != nil {
		LOGE(c, err, statusOf(err)).Warn("Availability check failed")
		return
	}

	c.JSON(http.StatusOK, response.Availability{Available: available})
}

func (self *Server) onGetOperations(c *gin.Context) {
	if self.journal == nil {
		c.JSON(http.StatusOK, []response.Operation{})
		return
	}

	var in = new(request.ListOperations)
	err := c.ShouldBindQuery(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Error("Failed to parse request")
		return
	}

	ops, err := self.journal.List(c.Request.Context(), in.Limit)
	if err != nil {
		LOGE(c, err, http.StatusInternalServerError).Error("Failed to list operations")
		return
	}

	c.JSON(http.StatusOK, response.OperationsToResponse(ops))
}
