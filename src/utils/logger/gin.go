package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var httpLogger = NewSublogger("http")

// Logger bound to the request
func LOG(c *gin.Context) *logrus.Entry {
	return httpLogger.WithField("method", c.Request.Method).
		WithField("path", c.FullPath()).
		WithField("ip", c.ClientIP())
}

// Logs the error and aborts the request with the status code. The error message is sent to the client.
func LOGE(c *gin.Context, err error, status int) *logrus.Entry {
	entry := LOG(c).WithField("status", status)
	body := gin.H{"status": status}
	if err != nil {
		entry = entry.WithError(err)
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
	return entry
}
