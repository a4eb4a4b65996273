package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/categorizer/internal/application/usecase/transaction"
)

// DateLayout is the wire format of transaction dates.
const DateLayout = "2006-01-02"

// CreateTransactionRequest represents the request body for transaction creation.
// Amount accepts a JSON number or a decimal string.
type CreateTransactionRequest struct {
	Date        string          `json:"date" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Merchant    string          `json:"merchant,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type" binding:"required,oneof=expense income"`
	CategoryID  *string         `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Notes       string          `json:"notes,omitempty"`
}

// UpdateTransactionRequest represents the request body for transaction update.
type UpdateTransactionRequest struct {
	Date         *string          `json:"date,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Merchant     *string          `json:"merchant,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Type         *string          `json:"type,omitempty" binding:"omitempty,oneof=expense income"`
	CategoryID   *string          `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Notes        *string          `json:"notes,omitempty"`
	Recategorize bool             `json:"recategorize,omitempty"`
}

// BulkCategorizeTransactionsRequest represents the request body for bulk transaction categorization.
type BulkCategorizeTransactionsRequest struct {
	TransactionIDs []string `json:"transaction_ids" binding:"required,min=1,dive,uuid"`
	CategoryID     string   `json:"category_id" binding:"required,uuid"`
}

// ImportTransactionsRequest represents the request body for a batch import.
type ImportTransactionsRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions" binding:"required,min=1,dive"`
}

// TransactionCategoryResponse represents category information in transaction response.
type TransactionCategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Type  string `json:"type"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID          string                       `json:"id"`
	UserID      string                       `json:"user_id"`
	Date        string                       `json:"date"`
	Description string                       `json:"description"`
	Merchant    string                       `json:"merchant,omitempty"`
	Amount      string                       `json:"amount"`
	Type        string                       `json:"type"`
	CategoryID  *string                      `json:"category_id,omitempty"`
	RuleID      *string                      `json:"rule_id,omitempty"`
	Category    *TransactionCategoryResponse `json:"category,omitempty"`
	Notes       string                       `json:"notes"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// CreateTransactionResponse is a created transaction and whether a rule categorized it.
type CreateTransactionResponse struct {
	TransactionResponse
	AutoCategorized bool `json:"auto_categorized"`
}

// UpdateTransactionResponse is an updated transaction and whether the rules re-ran.
type UpdateTransactionResponse struct {
	TransactionResponse
	Recategorized bool `json:"recategorized"`
}

// TransactionPaginationResponse represents pagination information in API responses.
type TransactionPaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse         `json:"transactions"`
	Pagination   TransactionPaginationResponse `json:"pagination"`
}

// BulkCategorizeTransactionsResponse represents the response for bulk transaction categorization.
type BulkCategorizeTransactionsResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}

// ImportedRowResponse reports the category assigned to one imported row.
type ImportedRowResponse struct {
	Index         int     `json:"index"`
	TransactionID string  `json:"transaction_id"`
	CategoryID    *string `json:"category_id,omitempty"`
	RuleID        *string `json:"rule_id,omitempty"`
}

// ImportTransactionsResponse summarizes a batch import.
type ImportTransactionsResponse struct {
	Imported     int                   `json:"imported"`
	Categorized  int                   `json:"categorized"`
	Rows         []ImportedRowResponse `json:"rows"`
	SkippedRules []string              `json:"skipped_rules"`
}

// ToTransactionResponse converts a TransactionOutput to a TransactionResponse DTO.
func ToTransactionResponse(txn *transaction.TransactionOutput) TransactionResponse {
	response := TransactionResponse{
		ID:          txn.ID.String(),
		UserID:      txn.UserID.String(),
		Date:        txn.Date.Format(DateLayout),
		Description: txn.Description,
		Merchant:    txn.Merchant,
		Amount:      txn.Amount.StringFixed(2),
		Type:        string(txn.Type),
		CategoryID:  uuidString(txn.CategoryID),
		RuleID:      uuidString(txn.RuleID),
		Notes:       txn.Notes,
		CreatedAt:   txn.CreatedAt,
		UpdatedAt:   txn.UpdatedAt,
	}

	if txn.Category != nil {
		response.Category = &TransactionCategoryResponse{
			ID:    txn.Category.ID.String(),
			Name:  txn.Category.Name,
			Color: txn.Category.Color,
			Icon:  txn.Category.Icon,
			Type:  string(txn.Category.Type),
		}
	}

	return response
}

// ToTransactionListResponse converts a ListTransactionsOutput to TransactionListResponse.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	transactions := make([]TransactionResponse, len(output.Transactions))
	for i, txn := range output.Transactions {
		transactions[i] = ToTransactionResponse(txn)
	}
	return TransactionListResponse{
		Transactions: transactions,
		Pagination: TransactionPaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
	}
}

// ToImportTransactionsResponse converts an ImportTransactionsOutput to ImportTransactionsResponse.
func ToImportTransactionsResponse(output *transaction.ImportTransactionsOutput) ImportTransactionsResponse {
	rows := make([]ImportedRowResponse, len(output.Rows))
	for i, row := range output.Rows {
		rows[i] = ImportedRowResponse{
			Index:         row.Index,
			TransactionID: row.TransactionID.String(),
			CategoryID:    uuidString(row.CategoryID),
			RuleID:        uuidString(row.RuleID),
		}
	}
	skipped := output.SkippedRules
	if skipped == nil {
		skipped = []string{}
	}
	return ImportTransactionsResponse{
		Imported:     output.Imported,
		Categorized:  output.Categorized,
		Rows:         rows,
		SkippedRules: skipped,
	}
}
