package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// UpdateTransactionInput represents the input for transaction update.
// Nil fields are left unchanged.
type UpdateTransactionInput struct {
	TransactionID uuid.UUID
	UserID        uuid.UUID
	Date          *time.Time
	Description   *string
	Merchant      *string
	Amount        *decimal.Decimal
	Type          *entity.TransactionType
	CategoryID    *uuid.UUID
	Notes         *string
	// Recategorize re-runs the user's rules after the other changes are applied.
	// It is ignored when CategoryID is set.
	Recategorize bool
}

// UpdateTransactionOutput represents the output of transaction update.
type UpdateTransactionOutput struct {
	Transaction   *TransactionOutput
	Recategorized bool
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	classifier      classifier
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	snapshots adapter.RuleSnapshotProvider,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		classifier:      classifier{snapshots: snapshots},
	}
}

// Execute performs the transaction update.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	txn, err := findOwnedTransaction(ctx, uc.transactionRepo, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		txn.Date = *input.Date
	}
	if input.Description != nil {
		txn.Description = *input.Description
	}
	if input.Merchant != nil {
		txn.Merchant = *input.Merchant
	}
	if input.Amount != nil {
		txn.Amount = *input.Amount
	}
	if input.Type != nil {
		txn.Type = *input.Type
	}
	if input.Notes != nil {
		txn.Notes = *input.Notes
	}

	fields := transactionFields{
		Description: txn.Description,
		Merchant:    txn.Merchant,
		Notes:       txn.Notes,
		Type:        txn.Type,
		Date:        txn.Date,
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}

	var category *entity.Category
	recategorized := false
	switch {
	case input.CategoryID != nil:
		category, err = findOwnedCategory(ctx, uc.categoryRepo, *input.CategoryID, input.UserID)
		if err != nil {
			return nil, err
		}
		categoryID := *input.CategoryID
		txn.CategoryID = &categoryID
		txn.RuleID = nil
	case input.Recategorize:
		// A transaction no rule matches keeps its current category.
		recategorized = apply(uc.classifier.matcher(ctx, input.UserID), txn)
		category = categoryOf(ctx, uc.categoryRepo, txn.CategoryID)
	default:
		category = categoryOf(ctx, uc.categoryRepo, txn.CategoryID)
	}

	txn.UpdatedAt = time.Now().UTC()
	if err := uc.transactionRepo.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	if recategorized {
		slog.Debug("Transaction recategorized",
			"transaction_id", txn.ID,
			"rule_id", *txn.RuleID,
		)
	}

	return &UpdateTransactionOutput{
		Transaction:   toTransactionOutput(txn, category),
		Recategorized: recategorized,
	}, nil
}
