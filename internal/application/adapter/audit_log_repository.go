package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// AuditLogFilter narrows an audit log query.
type AuditLogFilter struct {
	UserID     uuid.UUID
	EntityType string
	EntityID   *uuid.UUID
	Limit      int
}

// AuditLogRepository defines the interface for audit log persistence operations.
type AuditLogRepository interface {
	// Create appends an entry to the audit log.
	Create(ctx context.Context, log *entity.AuditLog) error

	// FindByFilter returns entries newest first.
	FindByFilter(ctx context.Context, filter AuditLogFilter) ([]*entity.AuditLog, error)
}
