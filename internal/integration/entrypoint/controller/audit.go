package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/usecase/audit"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
	"github.com/finance-tracker/categorizer/internal/integration/entrypoint/dto"
)

// AuditLogController handles audit log endpoints.
type AuditLogController struct {
	listUseCase *audit.ListAuditLogsUseCase
}

// NewAuditLogController creates a new audit log controller instance.
func NewAuditLogController(listUseCase *audit.ListAuditLogsUseCase) *AuditLogController {
	return &AuditLogController{
		listUseCase: listUseCase,
	}
}

// List handles GET /audit-logs requests.
func (c *AuditLogController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := audit.ListAuditLogsInput{
		UserID:     userID,
		EntityType: ctx.Query("entity_type"),
	}
	if entityIDStr := ctx.Query("entity_id"); entityIDStr != "" {
		entityID, err := uuid.Parse(entityIDStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid entity ID format",
				Code:  string(domainerror.ErrCodeInvalidAuditFilter),
			})
			return
		}
		input.EntityID = &entityID
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		input.Limit = limit
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		var auditErr *domainerror.AuditError
		if errors.As(err, &auditErr) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: auditErr.Message,
				Code:  string(auditErr.Code),
			})
			return
		}
		respondInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAuditLogListResponse(output))
}
