// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction is the kind of change an audit entry records.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

// AuditEntityCategoryRule is the entity type recorded for rule changes.
const AuditEntityCategoryRule = "category_rule"

// AuditLog records a change made by a user to one of their entities.
type AuditLog struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	EntityType    string
	EntityID      uuid.UUID
	Action        AuditAction
	ChangedFields []string
	CreatedAt     time.Time
}

// NewAuditLog creates a new AuditLog entry.
func NewAuditLog(userID uuid.UUID, entityType string, entityID uuid.UUID, action AuditAction, changedFields []string) *AuditLog {
	return &AuditLog{
		ID:            uuid.New(),
		UserID:        userID,
		EntityType:    entityType,
		EntityID:      entityID,
		Action:        action,
		ChangedFields: changedFields,
		CreatedAt:     time.Now().UTC(),
	}
}
