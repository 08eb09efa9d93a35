package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/learnloop/internal/apperr"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func badRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, message)
}

// statusOf maps the error taxonomy onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidEvent):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnknownEntity):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrConfiguration):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeError replies with the status of err. Server-side failures are logged
// and their details withheld from the client.
func (s *Server) writeError(c *gin.Context, err error) {
	code := statusOf(err)
	if code < http.StatusInternalServerError {
		fail(c, code, err.Error())
		return
	}

	s.logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("class", apperr.Class(err)),
		zap.Error(err),
	)
	fail(c, code, "Internal server error")
}
