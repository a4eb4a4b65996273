package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
)

const (
	// DefaultImportWorkers is the classification parallelism when none is configured.
	DefaultImportWorkers = 4
	// DefaultMaxImportRows is the row limit when none is configured.
	DefaultMaxImportRows = 1000
)

// ImportOptions tunes the import use case.
type ImportOptions struct {
	Workers int
	MaxRows int
}

// ImportRow is a single transaction to import.
type ImportRow struct {
	Date        time.Time
	Description string
	Merchant    string
	Amount      decimal.Decimal
	Type        entity.TransactionType
	CategoryID  *uuid.UUID // Optional; rows without one are classified by the user's rules
	Notes       string
}

// ImportTransactionsInput represents the input for a batch import.
type ImportTransactionsInput struct {
	UserID uuid.UUID
	Rows   []ImportRow
}

// ImportedRowOutput reports what happened to one imported row.
type ImportedRowOutput struct {
	Index         int
	TransactionID uuid.UUID
	CategoryID    *uuid.UUID
	RuleID        *uuid.UUID
}

// ImportTransactionsOutput summarizes a batch import.
type ImportTransactionsOutput struct {
	Imported     int
	Categorized  int
	Rows         []*ImportedRowOutput
	SkippedRules []string
}

// ImportTransactionsUseCase creates many transactions at once, classifying
// the rows in parallel against a single compiled rule snapshot.
type ImportTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	classifier      classifier
	workers         int
	maxRows         int
}

// NewImportTransactionsUseCase creates a new ImportTransactionsUseCase instance.
func NewImportTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	snapshots adapter.RuleSnapshotProvider,
	opts ImportOptions,
) *ImportTransactionsUseCase {
	if opts.Workers < 1 {
		opts.Workers = DefaultImportWorkers
	}
	if opts.MaxRows < 1 {
		opts.MaxRows = DefaultMaxImportRows
	}
	return &ImportTransactionsUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		classifier:      classifier{snapshots: snapshots},
		workers:         opts.Workers,
		maxRows:         opts.MaxRows,
	}
}

// Execute validates every row, classifies the uncategorized ones and stores the batch.
// Nothing is stored if any row is invalid.
func (uc *ImportTransactionsUseCase) Execute(ctx context.Context, input ImportTransactionsInput) (*ImportTransactionsOutput, error) {
	if len(input.Rows) == 0 {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeEmptyImport,
			"import contains no transactions",
			domainerror.ErrEmptyImport,
		)
	}
	if len(input.Rows) > uc.maxRows {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeImportTooLarge,
			fmt.Sprintf("import must not exceed %d transactions", uc.maxRows),
			domainerror.ErrImportTooLarge,
		)
	}

	if err := uc.validateRows(ctx, input); err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(input.Rows))
	for i, row := range input.Rows {
		transactions[i] = entity.NewTransaction(
			input.UserID,
			row.Date,
			row.Description,
			row.Merchant,
			row.Amount,
			row.Type,
			row.CategoryID,
			row.Notes,
		)
	}

	matcher := uc.classifier.matcher(ctx, input.UserID)
	matched := make([]bool, len(transactions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for i, txn := range transactions {
		if txn.CategoryID != nil {
			continue
		}
		i, txn := i, txn
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matched[i] = apply(matcher, txn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to classify import: %w", err)
	}

	if err := uc.transactionRepo.BulkCreate(ctx, transactions); err != nil {
		return nil, fmt.Errorf("failed to store imported transactions: %w", err)
	}

	output := &ImportTransactionsOutput{
		Imported:     len(transactions),
		Rows:         make([]*ImportedRowOutput, len(transactions)),
		SkippedRules: matcher.Skipped(),
	}
	for i, txn := range transactions {
		if matched[i] {
			output.Categorized++
		}
		output.Rows[i] = &ImportedRowOutput{
			Index:         i,
			TransactionID: txn.ID,
			CategoryID:    txn.CategoryID,
			RuleID:        txn.RuleID,
		}
	}

	slog.Info("Transactions imported",
		"user_id", input.UserID,
		"imported", output.Imported,
		"categorized", output.Categorized,
	)

	return output, nil
}

func (uc *ImportTransactionsUseCase) validateRows(ctx context.Context, input ImportTransactionsInput) error {
	checked := make(map[uuid.UUID]struct{})
	for i, row := range input.Rows {
		fields := transactionFields{
			Description: row.Description,
			Merchant:    row.Merchant,
			Notes:       row.Notes,
			Type:        row.Type,
			Date:        row.Date,
		}
		if err := fields.validate(); err != nil {
			return rowError(i, err)
		}

		if row.CategoryID == nil {
			continue
		}
		if _, ok := checked[*row.CategoryID]; ok {
			continue
		}
		if _, err := findOwnedCategory(ctx, uc.categoryRepo, *row.CategoryID, input.UserID); err != nil {
			return rowError(i, err)
		}
		checked[*row.CategoryID] = struct{}{}
	}
	return nil
}

// rowError prefixes a validation error's message with the offending row.
func rowError(index int, err error) error {
	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		return domainerror.NewTransactionError(
			txnErr.Code,
			fmt.Sprintf("row %d: %s", index, txnErr.Message),
			txnErr.Err,
		)
	}
	return err
}
