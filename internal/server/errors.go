package server

import (
	"errors"
	"net/http"

	"github.com/dori/projboard/internal/backup"
	"github.com/dori/projboard/internal/db"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps store and backup errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrConstraint):
		return http.StatusConflict
	case errors.Is(err, backup.ErrMalformed):
		return http.StatusBadRequest
	case errors.Is(err, db.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes an error response. Server-side failures get a generic body;
// the cause is only logged.
func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", code),
		zap.String("request_id", c.GetString(requestIDKey)),
	}

	msg := err.Error()
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
		msg = http.StatusText(code)
	} else {
		s.logger.Debug("request rejected", fields...)
	}
	c.String(code, msg)
	c.Abort()
}

// badRequest rejects malformed input before it reaches the store
func (s *Server) badRequest(c *gin.Context, msg string) {
	c.String(http.StatusBadRequest, msg)
	c.Abort()
}
