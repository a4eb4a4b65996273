// Package audit contains audit log use cases.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
)

const (
	// DefaultLimit is the number of entries returned when no limit is given.
	DefaultLimit = 50
	// MaxLimit is the largest number of entries returned.
	MaxLimit = 200
)

var knownEntityTypes = map[string]struct{}{
	entity.AuditEntityCategoryRule: {},
}

// ListAuditLogsInput represents the input for listing audit entries.
type ListAuditLogsInput struct {
	UserID     uuid.UUID
	EntityType string     // Optional
	EntityID   *uuid.UUID // Optional
	Limit      int
}

// AuditLogOutput represents a single audit entry in the output.
type AuditLogOutput struct {
	ID            uuid.UUID
	EntityType    string
	EntityID      uuid.UUID
	Action        entity.AuditAction
	ChangedFields []string
	CreatedAt     time.Time
}

// ListAuditLogsOutput represents the output of listing audit entries.
type ListAuditLogsOutput struct {
	Entries []*AuditLogOutput
}

// ListAuditLogsUseCase lists a user's audit entries, newest first.
type ListAuditLogsUseCase struct {
	auditRepo adapter.AuditLogRepository
}

// NewListAuditLogsUseCase creates a new ListAuditLogsUseCase instance.
func NewListAuditLogsUseCase(auditRepo adapter.AuditLogRepository) *ListAuditLogsUseCase {
	return &ListAuditLogsUseCase{
		auditRepo: auditRepo,
	}
}

// Execute performs the audit log listing.
func (uc *ListAuditLogsUseCase) Execute(ctx context.Context, input ListAuditLogsInput) (*ListAuditLogsOutput, error) {
	if input.EntityType != "" {
		if _, ok := knownEntityTypes[input.EntityType]; !ok {
			return nil, domainerror.NewAuditError(
				domainerror.ErrCodeInvalidAuditFilter,
				fmt.Sprintf("unknown entity type: %s", input.EntityType),
				domainerror.ErrInvalidAuditFilter,
			)
		}
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}

	entries, err := uc.auditRepo.FindByFilter(ctx, adapter.AuditLogFilter{
		UserID:     input.UserID,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	output := &ListAuditLogsOutput{
		Entries: make([]*AuditLogOutput, len(entries)),
	}
	for i, e := range entries {
		output.Entries[i] = &AuditLogOutput{
			ID:            e.ID,
			EntityType:    e.EntityType,
			EntityID:      e.EntityID,
			Action:        e.Action,
			ChangedFields: e.ChangedFields,
			CreatedAt:     e.CreatedAt,
		}
	}

	return output, nil
}
