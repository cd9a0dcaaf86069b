package utils

import "github.com/gin-gonic/gin"

// JSONResponse is the body shape of every intake API reply.
type JSONResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Success writes a 200 confirmation.
func Success(ctx *gin.Context, message string) {
	ctx.JSON(200, JSONResponse{OK: true, Message: message})
}

// Fail writes an error reply. message is shown to the client as-is, so it
// must never carry internal error detail.
func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, JSONResponse{OK: false, Error: message})
}
