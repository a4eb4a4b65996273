// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/categorizer/internal/domain/rulematch"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// Transaction represents a financial transaction.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
	Description string
	Merchant    string
	Amount      decimal.Decimal // Negative for expenses, positive for income
	Type        TransactionType
	CategoryID  *uuid.UUID // nil while uncategorized
	RuleID      *uuid.UUID // rule that assigned CategoryID, if any
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	userID uuid.UUID,
	date time.Time,
	description string,
	merchant string,
	amount decimal.Decimal,
	transactionType TransactionType,
	categoryID *uuid.UUID,
	notes string,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Date:        date,
		Description: description,
		Merchant:    merchant,
		Amount:      amount,
		Type:        transactionType,
		CategoryID:  categoryID,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MatchText projects the transaction onto the fields rules are matched against.
func (t *Transaction) MatchText() rulematch.Transaction {
	return rulematch.Transaction{
		Description: t.Description,
		Merchant:    t.Merchant,
	}
}

// IsCategorized reports whether a category has been assigned.
func (t *Transaction) IsCategorized() bool {
	return t.CategoryID != nil
}

// TransactionWithCategory represents a transaction with its associated category.
type TransactionWithCategory struct {
	Transaction *Transaction
	Category    *Category
}

// TransactionListResult represents the result of listing transactions.
type TransactionListResult struct {
	Transactions []*TransactionWithCategory
	Total        int64
	Page         int
	Limit        int
	TotalPages   int
}
