package utils

import "github.com/gin-gonic/gin"

// ErrorResponse is the uniform error body for API responses. Success bodies
// carry the entity (or message) directly.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes a JSON error body with the given status code.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, ErrorResponse{Error: message})
}
