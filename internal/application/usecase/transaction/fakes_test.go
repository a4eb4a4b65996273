package transaction

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
)

type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*entity.Transaction
	order        []uuid.UUID
	lastFilter   adapter.TransactionFilter
	lastPage     adapter.TransactionPagination
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: map[uuid.UUID]*entity.Transaction{}}
}

func (r *fakeTransactionRepo) Create(_ context.Context, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *txn
	r.transactions[txn.ID] = &copied
	r.order = append(r.order, txn.ID)
	return nil
}

func (r *fakeTransactionRepo) BulkCreate(ctx context.Context, transactions []*entity.Transaction) error {
	for _, txn := range transactions {
		_ = r.Create(ctx, txn)
	}
	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	txn, ok := r.transactions[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	copied := *txn
	return &copied, nil
}

func (r *fakeTransactionRepo) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.TransactionWithCategory, error) {
	txn, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.TransactionWithCategory{Transaction: txn}, nil
}

func (r *fakeTransactionRepo) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*entity.TransactionListResult, error) {
	r.lastFilter = filter
	r.lastPage = pagination
	all, _ := r.FindByUser(ctx, filter.UserID)
	out := make([]*entity.TransactionWithCategory, len(all))
	for i, txn := range all {
		out[i] = &entity.TransactionWithCategory{Transaction: txn}
	}
	return &entity.TransactionListResult{
		Transactions: out,
		Total:        int64(len(out)),
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   1,
	}, nil
}

func (r *fakeTransactionRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Transaction, 0)
	for _, id := range r.order {
		if txn, ok := r.transactions[id]; ok && txn.UserID == userID {
			copied := *txn
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindUncategorizedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	all, _ := r.FindByUser(ctx, userID)
	out := make([]*entity.Transaction, 0)
	for _, txn := range all {
		if txn.CategoryID == nil {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) Update(_ context.Context, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *txn
	r.transactions[txn.ID] = &copied
	return nil
}

func (r *fakeTransactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.transactions, id)
	return nil
}

func (r *fakeTransactionRepo) BulkUpdateCategory(_ context.Context, ids []uuid.UUID, categoryID uuid.UUID, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if txn, ok := r.transactions[id]; ok && txn.UserID == userID {
			c := categoryID
			txn.CategoryID = &c
			txn.RuleID = nil
			n++
		}
	}
	return n, nil
}

func (r *fakeTransactionRepo) AssignCategories(_ context.Context, _ uuid.UUID, _ []adapter.CategoryAssignment) (int64, error) {
	return 0, errors.New("not used")
}

func (r *fakeTransactionRepo) ExistsAllByIDsAndUser(_ context.Context, ids []uuid.UUID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		txn, ok := r.transactions[id]
		if !ok || txn.UserID != userID {
			return false, nil
		}
	}
	return true, nil
}

type fakeCategoryRepo struct {
	adapter.CategoryRepository
	categories map[uuid.UUID]*entity.Category
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	return category, nil
}

type fakeSnapshots struct {
	rules []*entity.CategoryRule
	err   error
}

func (s *fakeSnapshots) EnabledRules(_ context.Context, _ uuid.UUID) ([]*entity.CategoryRule, error) {
	return s.rules, s.err
}

func (s *fakeSnapshots) Invalidate(_ context.Context, _ uuid.UUID) error {
	return nil
}
