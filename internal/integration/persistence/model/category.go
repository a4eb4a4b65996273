package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// CategoryModel is a rule target. Names are looked up per owner, hence the composite index.
type CategoryModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_categories_owner_name,priority:1"`
	Name      string         `gorm:"type:varchar(50);not null;index:idx_categories_owner_name,priority:2"`
	Type      string         `gorm:"type:varchar(10);not null"`
	Color     string         `gorm:"type:varchar(7);default:'#6366F1'"`
	Icon      string         `gorm:"type:varchar(50);default:'tag'"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

// ToEntity converts the row to a domain Category.
func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		Type:      entity.CategoryType(m.Type),
		Color:     m.Color,
		Icon:      m.Icon,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: deletedAtFromGorm(m.DeletedAt),
	}
}

// CategoryFromEntity builds the row for a domain Category.
func CategoryFromEntity(c *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		Type:      string(c.Type),
		Color:     c.Color,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		DeletedAt: deletedAtToGorm(c.DeletedAt),
	}
}
