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

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID      uuid.UUID
	Date        time.Time
	Description string
	Merchant    string
	Amount      decimal.Decimal
	Type        entity.TransactionType
	CategoryID  *uuid.UUID // Optional; when nil the user's rules pick one
	Notes       string
}

// CreateTransactionOutput represents the output of transaction creation.
type CreateTransactionOutput struct {
	Transaction     *TransactionOutput
	AutoCategorized bool
}

// CreateTransactionUseCase handles transaction creation logic.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	classifier      classifier
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	snapshots adapter.RuleSnapshotProvider,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		classifier:      classifier{snapshots: snapshots},
	}
}

// Execute performs the transaction creation.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*CreateTransactionOutput, error) {
	fields := transactionFields{
		Description: input.Description,
		Merchant:    input.Merchant,
		Notes:       input.Notes,
		Type:        input.Type,
		Date:        input.Date,
	}
	if err := fields.validate(); err != nil {
		return nil, err
	}

	var category *entity.Category
	if input.CategoryID != nil {
		cat, err := findOwnedCategory(ctx, uc.categoryRepo, *input.CategoryID, input.UserID)
		if err != nil {
			return nil, err
		}
		category = cat
	}

	transaction := entity.NewTransaction(
		input.UserID,
		input.Date,
		input.Description,
		input.Merchant,
		input.Amount,
		input.Type,
		input.CategoryID,
		input.Notes,
	)

	autoCategorized := false
	if input.CategoryID == nil {
		autoCategorized = apply(uc.classifier.matcher(ctx, input.UserID), transaction)
		if autoCategorized {
			category = categoryOf(ctx, uc.categoryRepo, transaction.CategoryID)
			slog.Debug("Auto-categorized transaction",
				"user_id", input.UserID,
				"rule_id", *transaction.RuleID,
				"category_id", *transaction.CategoryID,
			)
		}
	}

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &CreateTransactionOutput{
		Transaction:     toTransactionOutput(transaction, category),
		AutoCategorized: autoCategorized,
	}, nil
}
