// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType represents the type of category (expense or income).
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// DefaultCategoryColor is the default color for categories.
const DefaultCategoryColor = "#6366F1"

// DefaultCategoryIcon is the default icon for categories.
const DefaultCategoryIcon = "tag"

// Category is the target a rule assigns to matching transactions.
type Category struct {
	ID        uuid.UUID
	Name      string
	Color     string
	Icon      string
	OwnerID   uuid.UUID
	Type      CategoryType
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewCategory creates a new Category entity. Color and icon defaults are applied by the caller.
func NewCategory(name, color, icon string, ownerID uuid.UUID, categoryType CategoryType) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		OwnerID:   ownerID,
		Type:      categoryType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CategoryWithStats represents a category with usage counts.
type CategoryWithStats struct {
	Category         *Category
	TransactionCount int
	RuleCount        int
}
