package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// TransactionFilter defines filter options for listing transactions.
type TransactionFilter struct {
	UserID        uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	CategoryIDs   []uuid.UUID
	Uncategorized bool
	Type          *entity.TransactionType
	Search        string // Case-insensitive description or merchant match
}

// TransactionPagination defines pagination options.
type TransactionPagination struct {
	Page  int
	Limit int
}

// CategoryAssignment is a category chosen for a transaction, optionally by a rule.
type CategoryAssignment struct {
	TransactionID uuid.UUID
	CategoryID    uuid.UUID
	RuleID        *uuid.UUID
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// BulkCreate creates several transactions in one database transaction.
	BulkCreate(ctx context.Context, transactions []*entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByIDWithCategory retrieves a transaction with its category by ID.
	FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.TransactionWithCategory, error)

	// FindByFilter retrieves transactions based on filter criteria with pagination.
	FindByFilter(ctx context.Context, filter TransactionFilter, pagination TransactionPagination) (*entity.TransactionListResult, error)

	// FindByUser retrieves every transaction of a user, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error)

	// FindUncategorizedByUser retrieves the user's transactions without a category.
	FindUncategorizedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error)

	// Update updates an existing transaction in the database.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete soft-deletes a transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	// BulkUpdateCategory sets the category of the listed transactions and clears their rule.
	// Returns the count of updated transactions.
	BulkUpdateCategory(ctx context.Context, ids []uuid.UUID, categoryID uuid.UUID, userID uuid.UUID) (int64, error)

	// AssignCategories applies rule assignments to still-uncategorized transactions.
	// Returns the count of updated transactions.
	AssignCategories(ctx context.Context, userID uuid.UUID, assignments []CategoryAssignment) (int64, error)

	// ExistsAllByIDsAndUser checks if all transactions exist for the given IDs and user.
	ExistsAllByIDsAndUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (bool, error)
}
