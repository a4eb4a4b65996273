package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByOwner retrieves all categories for a given owner.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Category, error)

	// FindByOwnerAndType retrieves categories for a given owner filtered by type.
	FindByOwnerAndType(ctx context.Context, ownerID uuid.UUID, categoryType entity.CategoryType) ([]*entity.Category, error)

	// Update updates an existing category in the database.
	Update(ctx context.Context, category *entity.Category) error

	// Delete soft-deletes a category.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByNameAndOwner checks if a category with the given name exists for the owner.
	ExistsByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) (bool, error)

	// GetUsageStats counts transactions and rules per category.
	GetUsageStats(ctx context.Context, categoryIDs []uuid.UUID) (map[uuid.UUID]*CategoryStats, error)
}

// CategoryStats represents usage statistics for a category.
type CategoryStats struct {
	TransactionCount int
	RuleCount        int
}
