package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform envelope for every handler. Success responses
// carry statusCode, data and message; error responses carry statusCode,
// message and optional errors.
type APIResponse[T any] struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       T           `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
	RequestID  string      `json:"requestId,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Success writes a success envelope to the response and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		StatusCode: status,
		Success:    true,
		Message:    message,
		Data:       data,
		RequestID:  ctx.GetString("request_id"),
		Timestamp:  time.Now(),
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope to the response and returns it. Every
// failure path must flow through here; no handler swallows an error into a
// log line only.
func Error[T any](ctx *gin.Context, status int, message string, errs interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		StatusCode: status,
		Success:    false,
		Message:    message,
		Errors:     errs,
		RequestID:  ctx.GetString("request_id"),
		Timestamp:  time.Now(),
	}
	ctx.JSON(status, resp)
	return resp
}
