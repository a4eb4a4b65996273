package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/categorizer/internal/integration/entrypoint/dto"
)

// respondInternalError logs an unexpected error and hides it from the client.
func respondInternalError(ctx *gin.Context, err error) {
	slog.Error("Request failed",
		"method", ctx.Request.Method,
		"path", ctx.FullPath(),
		"error", err,
	)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
