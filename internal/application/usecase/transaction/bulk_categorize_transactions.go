package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
)

// BulkCategorizeTransactionsInput represents the input for bulk categorization.
type BulkCategorizeTransactionsInput struct {
	TransactionIDs []uuid.UUID
	CategoryID     uuid.UUID
	UserID         uuid.UUID
}

// BulkCategorizeTransactionsOutput represents the output of bulk categorization.
type BulkCategorizeTransactionsOutput struct {
	UpdatedCount int64
}

// BulkCategorizeTransactionsUseCase assigns one category to many transactions by hand.
type BulkCategorizeTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
}

// NewBulkCategorizeTransactionsUseCase creates a new BulkCategorizeTransactionsUseCase instance.
func NewBulkCategorizeTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
) *BulkCategorizeTransactionsUseCase {
	return &BulkCategorizeTransactionsUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// Execute performs the bulk categorization.
func (uc *BulkCategorizeTransactionsUseCase) Execute(ctx context.Context, input BulkCategorizeTransactionsInput) (*BulkCategorizeTransactionsOutput, error) {
	if len(input.TransactionIDs) == 0 {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeEmptyTransactionIDs,
			"transaction IDs list cannot be empty",
			domainerror.ErrEmptyTransactionIDs,
		)
	}

	if _, err := findOwnedCategory(ctx, uc.categoryRepo, input.CategoryID, input.UserID); err != nil {
		return nil, err
	}

	allExist, err := uc.transactionRepo.ExistsAllByIDsAndUser(ctx, input.TransactionIDs, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify transactions: %w", err)
	}
	if !allExist {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionIDsNotFound,
			"one or more transactions not found",
			domainerror.ErrTransactionIDsNotFound,
		)
	}

	updated, err := uc.transactionRepo.BulkUpdateCategory(ctx, input.TransactionIDs, input.CategoryID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to categorize transactions: %w", err)
	}

	return &BulkCategorizeTransactionsOutput{
		UpdatedCount: updated,
	}, nil
}
