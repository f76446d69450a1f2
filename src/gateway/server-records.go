package gateway

import (
	"net/http"

	"github.com/warp-contracts/mindshare/src/gateway/request"
	"github.com/warp-contracts/mindshare/src/gateway/response"
	"github.com/warp-contracts/mindshare/src/lifecycle"
	. "github.com/warp-contracts/mindshare/src/utils/logger"
	"github.com/warp-contracts/mindshare/src/utils/model"

	"github.com/gin-gonic/gin"
)

func (self *Server) onGetRecords(c *gin.Context) {
	records, err := self.controller.Records(c.Request.Context())
	if err != nil {
		LOGE(c, err, statusOf(err)).Error("Failed to get records")
		return
	}

	c.JSON(http.StatusOK, response.RecordsToResponse(records, self.controller.Reveal))
}

func (self *Server) onGetRecord(c *gin.Context) {
	businessId := c.Param("id")
	record, err := self.controller.Record(c.Request.Context(), businessId)
	if err != nil {
		LOGE(c, err, statusOf(err)).Error("Failed to get record")
		return
	}
	if record == nil {
		LOGE(c, nil, http.StatusNotFound).WithField("businessId", businessId).Debug("Record not found")
		return
	}

	c.JSON(http.StatusOK, response.RecordToResponse(record, self.controller.Reveal(businessId)))
}

func (self *Server) onGetStats(c *gin.Context) {
	stats, err := self.controller.Stats(c.Request.Context())
	if err != nil {
		LOGE(c, err, statusOf(err)).Error("Failed to get stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (self *Server) onSubmitRecord(c *gin.Context) {
	var in = new(request.SubmitRecord)
	err := c.ShouldBindJSON(in)
	if err != nil {
		LOGE(c, err, http.StatusBadRequest).Error("Failed to parse request")
		return
	}

	businessId, err := self.controller.Submit(c.Request.Context(), lifecycle.SubmitRequest{
		Title:       in.Title,
		MoodScore:   in.MoodScore,
		SupportType: model.SupportType(in.SupportType),
	})
	if err != nil {
		LOGE(c, err, statusOf(err)).Warn("Failed to submit record")
		return
	}

	LOG(c).WithField("businessId", businessId).Info("Record submitted")
	c.JSON(http.StatusCreated, response.SubmitRecord{BusinessId: businessId})
}

func (self *Server) onVerifyRecord(c *gin.Context) {
	businessId := c.Param("id")
	value, err := self.controller.Verify(c.Request.Context(), businessId)
	if err != nil {
		LOGE(c, err, statusOf(err)).WithField("businessId", businessId).Warn("Failed to verify record")
		return
	}

	c.JSON(http.StatusOK, response.VerifyRecord{BusinessId: businessId, Value: value})
}

func (self *Server) onReload(c *gin.Context) {
	records, err := self.controller.Reload(c.Request.Context())
	if err != nil {
		LOGE(c, err, statusOf(err)).Error("Failed to reload records")
		return
	}

	c.JSON(http.StatusOK, response.RecordsToResponse(records, self.controller.Reveal))
}
