package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

const (
	// DefaultPageSize is the page size used when none is requested.
	DefaultPageSize = 20
	// MaxPageSize is the largest page size accepted.
	MaxPageSize = 100
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID        uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	CategoryIDs   []uuid.UUID
	Uncategorized bool
	Type          *entity.TransactionType
	Search        string
	Page          int
	Limit         int
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*TransactionOutput
	Pagination   PaginationOutput
}

// ListTransactionsUseCase handles listing transactions logic.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute performs the transaction listing.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = DefaultPageSize
	} else if limit > MaxPageSize {
		limit = MaxPageSize
	}

	filter := adapter.TransactionFilter{
		UserID:        input.UserID,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		CategoryIDs:   input.CategoryIDs,
		Uncategorized: input.Uncategorized,
		Type:          input.Type,
		Search:        input.Search,
	}

	result, err := uc.transactionRepo.FindByFilter(ctx, filter, adapter.TransactionPagination{Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	output := &ListTransactionsOutput{
		Transactions: make([]*TransactionOutput, len(result.Transactions)),
		Pagination: PaginationOutput{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}
	for i, twc := range result.Transactions {
		output.Transactions[i] = toTransactionOutput(twc.Transaction, twc.Category)
	}

	return output, nil
}
