// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// CategoryRuleRepository defines the interface for category rule persistence operations.
// Every list it returns is ordered by priority ascending, then creation time.
type CategoryRuleRepository interface {
	// Create creates a new category rule in the database.
	Create(ctx context.Context, rule *entity.CategoryRule) error

	// FindByID retrieves a category rule by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CategoryRule, error)

	// FindByIDWithCategory retrieves a category rule with its category by ID.
	FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.CategoryRuleWithCategory, error)

	// FindByOwner retrieves all category rules for a given owner.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRule, error)

	// FindByOwnerWithCategories retrieves all category rules with their categories for a given owner.
	FindByOwnerWithCategories(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRuleWithCategory, error)

	// FindEnabledByOwner retrieves only enabled category rules for a given owner.
	FindEnabledByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRule, error)

	// Update updates an existing category rule in the database.
	Update(ctx context.Context, rule *entity.CategoryRule) error

	// Delete soft-deletes a category rule.
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdatePriorities sets the priority of each listed rule in a single transaction.
	UpdatePriorities(ctx context.Context, ownerID uuid.UUID, updates []entity.RulePriorityUpdate) error

	// GetMaxPriorityByOwner returns the highest priority in use, or -1 when the owner has no rules.
	GetMaxPriorityByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)

	// CountByCategory counts the rules that target a category.
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
