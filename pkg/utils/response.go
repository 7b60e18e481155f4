package utils

import (
	"github.com/gin-gonic/gin"

	"fleettrack/internal/middleware"
)

// Response is the envelope every dashboard endpoint answers with. RequestID
// echoes the id assigned by the middleware so UI error reports can be matched
// to server logs.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: middleware.GetRequestID(c),
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success:   false,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}
