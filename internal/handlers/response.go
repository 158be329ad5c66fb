package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response shape for every API call: success carries
// data with HTTP 200, failure carries error with HTTP 400.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func successfulRequest(ctx *gin.Context, status, message string, data interface{}) {
	ctx.JSON(http.StatusOK, Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func failedRequest(ctx *gin.Context, status, message string, errDetail interface{}) {
	ctx.JSON(http.StatusBadRequest, Envelope{
		Status:  status,
		Message: message,
		Error:   errDetail,
	})
}
