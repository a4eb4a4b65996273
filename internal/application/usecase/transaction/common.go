// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
	"github.com/finance-tracker/categorizer/internal/domain/rulematch"
)

const (
	// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
	MaxDescriptionLength = 255
	// MaxMerchantLength is the maximum allowed length for merchant names.
	MaxMerchantLength = 255
	// MaxNotesLength is the maximum allowed length for transaction notes.
	MaxNotesLength = 1000
)

// TransactionOutput represents a single transaction in the output.
type TransactionOutput struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
	Description string
	Merchant    string
	Amount      decimal.Decimal
	Type        entity.TransactionType
	CategoryID  *uuid.UUID
	RuleID      *uuid.UUID
	Category    *CategoryOutput
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryOutput represents category information in transaction output.
type CategoryOutput struct {
	ID    uuid.UUID
	Name  string
	Color string
	Icon  string
	Type  entity.CategoryType
}

func toTransactionOutput(txn *entity.Transaction, category *entity.Category) *TransactionOutput {
	out := &TransactionOutput{
		ID:          txn.ID,
		UserID:      txn.UserID,
		Date:        txn.Date,
		Description: txn.Description,
		Merchant:    txn.Merchant,
		Amount:      txn.Amount,
		Type:        txn.Type,
		CategoryID:  txn.CategoryID,
		RuleID:      txn.RuleID,
		Notes:       txn.Notes,
		CreatedAt:   txn.CreatedAt,
		UpdatedAt:   txn.UpdatedAt,
	}
	if category != nil {
		out.Category = &CategoryOutput{
			ID:    category.ID,
			Name:  category.Name,
			Color: category.Color,
			Icon:  category.Icon,
			Type:  category.Type,
		}
	}
	return out
}

func isValidTransactionType(transactionType entity.TransactionType) bool {
	return transactionType == entity.TransactionTypeExpense || transactionType == entity.TransactionTypeIncome
}

// transactionFields holds the user-editable text and type of a transaction for validation.
type transactionFields struct {
	Description string
	Merchant    string
	Notes       string
	Type        entity.TransactionType
	Date        time.Time
}

func (f transactionFields) validate() error {
	if f.Description == "" {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeMissingTransactionFields,
			"description is required",
			domainerror.ErrMissingTransactionFields,
		)
	}
	if f.Date.IsZero() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"date is required",
			domainerror.ErrInvalidTransactionDate,
		)
	}
	if utf8.RuneCountInString(f.Description) > MaxDescriptionLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	if utf8.RuneCountInString(f.Merchant) > MaxMerchantLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeMerchantTooLong,
			fmt.Sprintf("merchant must not exceed %d characters", MaxMerchantLength),
			domainerror.ErrMerchantTooLong,
		)
	}
	if utf8.RuneCountInString(f.Notes) > MaxNotesLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeNotesTooLong,
			fmt.Sprintf("notes must not exceed %d characters", MaxNotesLength),
			domainerror.ErrNotesTooLong,
		)
	}
	if !isValidTransactionType(f.Type) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}
	return nil
}

// findOwnedTransaction loads a transaction. Transactions of other users are reported as not found.
func findOwnedTransaction(ctx context.Context, repo adapter.TransactionRepository, id, userID uuid.UUID) (*entity.Transaction, error) {
	txn, err := repo.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domainerror.ErrTransactionNotFound) {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	if err != nil || txn.UserID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}
	return txn, nil
}

// findOwnedCategory loads a category the user picked by hand.
func findOwnedCategory(ctx context.Context, repo adapter.CategoryRepository, categoryID, userID uuid.UUID) (*entity.Category, error) {
	category, err := repo.FindByID(ctx, categoryID)
	if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if err != nil || category.OwnerID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnCategoryNotFound,
			"category not found",
			domainerror.ErrCategoryNotFoundForTransaction,
		)
	}
	return category, nil
}

// classifier runs the user's enabled rule snapshot against transactions.
// Failing to load the snapshot never fails the write; the transaction stays uncategorized.
type classifier struct {
	snapshots adapter.RuleSnapshotProvider
}

func (c classifier) matcher(ctx context.Context, userID uuid.UUID) *rulematch.Matcher {
	rules, err := c.snapshots.EnabledRules(ctx, userID)
	if err != nil {
		slog.Warn("Failed to load rule snapshot, leaving transactions uncategorized",
			"user_id", userID,
			"error", err,
		)
		return rulematch.Compile(nil)
	}
	return rulematch.Compile(entity.MatchRules(rules))
}

// apply sets the category and rule of txn from the first matching rule.
func apply(matcher *rulematch.Matcher, txn *entity.Transaction) bool {
	rule, ok := matcher.Match(txn.MatchText())
	if !ok {
		return false
	}
	categoryID, err := uuid.Parse(rule.TargetCategoryID)
	if err != nil {
		slog.Warn("Ignoring rule with malformed category id", "rule_id", rule.ID, "error", err)
		return false
	}
	ruleID, err := uuid.Parse(rule.ID)
	if err != nil {
		slog.Warn("Ignoring rule with malformed id", "rule_id", rule.ID, "error", err)
		return false
	}
	txn.CategoryID = &categoryID
	txn.RuleID = &ruleID
	return true
}

// categoryOf loads the category for output, tolerating a missing one.
func categoryOf(ctx context.Context, repo adapter.CategoryRepository, categoryID *uuid.UUID) *entity.Category {
	if categoryID == nil {
		return nil
	}
	category, err := repo.FindByID(ctx, *categoryID)
	if err != nil {
		slog.Debug("Failed to load category for transaction output", "category_id", *categoryID, "error", err)
		return nil
	}
	return category
}
