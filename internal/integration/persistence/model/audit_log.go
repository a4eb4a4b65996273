package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// AuditLogModel represents the audit_logs table in the database.
type AuditLogModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	EntityType    string         `gorm:"type:varchar(50);not null;index"`
	EntityID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Action        string         `gorm:"type:varchar(10);not null"`
	ChangedFields pq.StringArray `gorm:"type:text"` // Postgres array literal, readable on any driver
	CreatedAt     time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for the AuditLogModel.
func (AuditLogModel) TableName() string {
	return "audit_logs"
}

// ToEntity converts an AuditLogModel to a domain AuditLog entity.
func (m *AuditLogModel) ToEntity() *entity.AuditLog {
	fields := make([]string, len(m.ChangedFields))
	copy(fields, m.ChangedFields)

	return &entity.AuditLog{
		ID:            m.ID,
		UserID:        m.UserID,
		EntityType:    m.EntityType,
		EntityID:      m.EntityID,
		Action:        entity.AuditAction(m.Action),
		ChangedFields: fields,
		CreatedAt:     m.CreatedAt,
	}
}

// AuditLogFromEntity creates an AuditLogModel from a domain AuditLog entity.
func AuditLogFromEntity(log *entity.AuditLog) *AuditLogModel {
	return &AuditLogModel{
		ID:            log.ID,
		UserID:        log.UserID,
		EntityType:    log.EntityType,
		EntityID:      log.EntityID,
		Action:        string(log.Action),
		ChangedFields: pq.StringArray(log.ChangedFields),
		CreatedAt:     log.CreatedAt,
	}
}
