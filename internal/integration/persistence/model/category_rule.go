// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// CategoryRuleModel represents the category_rules table in the database.
type CategoryRuleModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name        string         `gorm:"type:varchar(100);not null"`
	Description string         `gorm:"type:varchar(500)"`
	Pattern     string         `gorm:"type:varchar(255);not null"`
	CategoryID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	Priority    int            `gorm:"not null;default:0;index:idx_rules_owner_priority,priority:2"`
	Enabled     bool           `gorm:"not null"`
	OwnerID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_rules_owner_priority,priority:1"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	// Relationships (not loaded by default, use Preload)
	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the CategoryRuleModel.
func (CategoryRuleModel) TableName() string {
	return "category_rules"
}

// ToEntity converts a CategoryRuleModel to a domain CategoryRule entity.
func (m *CategoryRuleModel) ToEntity() *entity.CategoryRule {
	return &entity.CategoryRule{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Pattern:     m.Pattern,
		CategoryID:  m.CategoryID,
		Priority:    m.Priority,
		Enabled:     m.Enabled,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   deletedAtFromGorm(m.DeletedAt),
	}
}

// ToEntityWithCategory converts a CategoryRuleModel with its Category to a CategoryRuleWithCategory entity.
func (m *CategoryRuleModel) ToEntityWithCategory() *entity.CategoryRuleWithCategory {
	result := &entity.CategoryRuleWithCategory{
		Rule: m.ToEntity(),
	}
	if m.Category != nil {
		result.Category = m.Category.ToEntity()
	}
	return result
}

// CategoryRuleFromEntity creates a CategoryRuleModel from a domain CategoryRule entity.
func CategoryRuleFromEntity(rule *entity.CategoryRule) *CategoryRuleModel {
	return &CategoryRuleModel{
		ID:          rule.ID,
		Name:        rule.Name,
		Description: rule.Description,
		Pattern:     rule.Pattern,
		CategoryID:  rule.CategoryID,
		Priority:    rule.Priority,
		Enabled:     rule.Enabled,
		OwnerID:     rule.OwnerID,
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
		DeletedAt:   deletedAtToGorm(rule.DeletedAt),
	}
}
