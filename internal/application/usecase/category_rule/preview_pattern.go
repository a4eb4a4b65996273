package categoryrule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/rulematch"
)

const (
	// DefaultMatchLimit is the default number of matching transactions to return.
	DefaultMatchLimit = 10
	// MaxMatchLimit is the maximum number of matching transactions to return.
	MaxMatchLimit = 100
)

// PreviewPatternInput represents the input for previewing a pattern against stored transactions.
type PreviewPatternInput struct {
	Pattern string
	Limit   int // Optional, defaults to DefaultMatchLimit
	OwnerID uuid.UUID
}

// PreviewPatternOutput lists the first matching transactions and the total match count.
type PreviewPatternOutput struct {
	MatchingTransactions []*MatchingTransactionOutput
	MatchCount           int
}

// MatchingTransactionOutput represents a transaction that matches the pattern.
type MatchingTransactionOutput struct {
	ID          string
	Description string
	Merchant    string
	MatchedText string
	Amount      string
	Date        string
}

// PreviewPatternUseCase shows which of the owner's transactions a pattern would match.
type PreviewPatternUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewPreviewPatternUseCase creates a new PreviewPatternUseCase instance.
func NewPreviewPatternUseCase(transactionRepo adapter.TransactionRepository) *PreviewPatternUseCase {
	return &PreviewPatternUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute evaluates the pattern against every transaction of the owner.
func (uc *PreviewPatternUseCase) Execute(ctx context.Context, input PreviewPatternInput) (*PreviewPatternOutput, error) {
	if err := validateStoredPattern(input.Pattern); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultMatchLimit
	} else if limit > MaxMatchLimit {
		limit = MaxMatchLimit
	}

	transactions, err := uc.transactionRepo.FindByUser(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	pattern, err := rulematch.CompilePattern(input.Pattern)
	if err != nil {
		return nil, invalidPatternError(err)
	}

	output := &PreviewPatternOutput{
		MatchingTransactions: make([]*MatchingTransactionOutput, 0, limit),
	}
	for _, txn := range transactions {
		result := pattern.Find(txn.Description)
		if !result.Matches && txn.Merchant != "" {
			result = pattern.Find(txn.Merchant)
		}
		if !result.Matches {
			continue
		}

		output.MatchCount++
		if len(output.MatchingTransactions) < limit {
			output.MatchingTransactions = append(output.MatchingTransactions, &MatchingTransactionOutput{
				ID:          txn.ID.String(),
				Description: txn.Description,
				Merchant:    txn.Merchant,
				MatchedText: result.MatchedText,
				Amount:      txn.Amount.StringFixed(2),
				Date:        txn.Date.Format("2006-01-02"),
			})
		}
	}

	return output, nil
}
