package utils

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the body shape of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
	Message string      `json:"message,omitempty"`
}

func RespondWithData(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func RespondWithErrorDetails(c *gin.Context, status int, message, details string) {
	c.JSON(status, Envelope{Success: false, Error: message, Details: details})
}
