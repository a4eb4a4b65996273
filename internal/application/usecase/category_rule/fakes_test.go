package categoryrule

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
)

type fakeRuleRepo struct {
	mu         sync.Mutex
	rules      map[uuid.UUID]*entity.CategoryRule
	insertion  []uuid.UUID
	categories *fakeCategoryRepo
}

func newFakeRuleRepo(categories *fakeCategoryRepo) *fakeRuleRepo {
	return &fakeRuleRepo{rules: map[uuid.UUID]*entity.CategoryRule{}, categories: categories}
}

func (r *fakeRuleRepo) ordered(ownerID uuid.UUID, enabledOnly bool) []*entity.CategoryRule {
	out := make([]*entity.CategoryRule, 0)
	for _, id := range r.insertion {
		rule, ok := r.rules[id]
		if !ok || rule.OwnerID != ownerID || (enabledOnly && !rule.Enabled) {
			continue
		}
		copied := *rule
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func (r *fakeRuleRepo) Create(_ context.Context, rule *entity.CategoryRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *rule
	r.rules[rule.ID] = &copied
	r.insertion = append(r.insertion, rule.ID)
	return nil
}

func (r *fakeRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.CategoryRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok {
		return nil, domainerror.ErrCategoryRuleNotFound
	}
	copied := *rule
	return &copied, nil
}

func (r *fakeRuleRepo) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.CategoryRuleWithCategory, error) {
	rule, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category, _ := r.categories.FindByID(ctx, rule.CategoryID)
	return &entity.CategoryRuleWithCategory{Rule: rule, Category: category}, nil
}

func (r *fakeRuleRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.CategoryRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ordered(ownerID, false), nil
}

func (r *fakeRuleRepo) FindByOwnerWithCategories(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRuleWithCategory, error) {
	rules, _ := r.FindByOwner(ctx, ownerID)
	out := make([]*entity.CategoryRuleWithCategory, len(rules))
	for i, rule := range rules {
		category, _ := r.categories.FindByID(ctx, rule.CategoryID)
		out[i] = &entity.CategoryRuleWithCategory{Rule: rule, Category: category}
	}
	return out, nil
}

func (r *fakeRuleRepo) FindEnabledByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.CategoryRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ordered(ownerID, true), nil
}

func (r *fakeRuleRepo) Update(_ context.Context, rule *entity.CategoryRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *rule
	r.rules[rule.ID] = &copied
	return nil
}

func (r *fakeRuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rules, id)
	return nil
}

func (r *fakeRuleRepo) UpdatePriorities(_ context.Context, _ uuid.UUID, updates []entity.RulePriorityUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range updates {
		if rule, ok := r.rules[u.ID]; ok {
			rule.Priority = u.Priority
		}
	}
	return nil
}

func (r *fakeRuleRepo) GetMaxPriorityByOwner(_ context.Context, ownerID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maxPriority := -1
	for _, rule := range r.rules {
		if rule.OwnerID == ownerID && rule.Priority > maxPriority {
			maxPriority = rule.Priority
		}
	}
	return maxPriority, nil
}

func (r *fakeRuleRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rule := range r.rules {
		if rule.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*entity.Category
}

func newFakeCategoryRepo(categories ...*entity.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{categories: map[uuid.UUID]*entity.Category{}}
	for _, c := range categories {
		repo.categories[c.ID] = c
	}
	return repo
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	return category, nil
}

func (r *fakeCategoryRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0)
	for _, c := range r.categories {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) FindByOwnerAndType(ctx context.Context, ownerID uuid.UUID, categoryType entity.CategoryType) ([]*entity.Category, error) {
	all, _ := r.FindByOwner(ctx, ownerID)
	out := make([]*entity.Category, 0)
	for _, c := range all {
		if c.Type == categoryType {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.categories[category.ID] = category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) ExistsByNameAndOwner(_ context.Context, name string, ownerID uuid.UUID) (bool, error) {
	for _, c := range r.categories {
		if c.OwnerID == ownerID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCategoryRepo) GetUsageStats(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]*adapter.CategoryStats, error) {
	return map[uuid.UUID]*adapter.CategoryStats{}, nil
}

type fakeTransactionRepo struct {
	adapter.TransactionRepository
	transactions []*entity.Transaction
	assigned     []adapter.CategoryAssignment
}

func (r *fakeTransactionRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	out := make([]*entity.Transaction, 0)
	for _, txn := range r.transactions {
		if txn.UserID == userID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindUncategorizedByUser(_ context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	out := make([]*entity.Transaction, 0)
	for _, txn := range r.transactions {
		if txn.UserID == userID && txn.CategoryID == nil {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) AssignCategories(_ context.Context, _ uuid.UUID, assignments []adapter.CategoryAssignment) (int64, error) {
	r.assigned = append(r.assigned, assignments...)
	for _, a := range assignments {
		for _, txn := range r.transactions {
			if txn.ID == a.TransactionID {
				categoryID := a.CategoryID
				txn.CategoryID = &categoryID
			}
		}
	}
	return int64(len(assignments)), nil
}

type fakeAuditRepo struct {
	entries []*entity.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, log *entity.AuditLog) error {
	r.entries = append(r.entries, log)
	return nil
}

func (r *fakeAuditRepo) FindByFilter(_ context.Context, _ adapter.AuditLogFilter) ([]*entity.AuditLog, error) {
	return r.entries, nil
}

// fakeSnapshots reads straight from the rule repository and counts invalidations.
type fakeSnapshots struct {
	repo        *fakeRuleRepo
	invalidated int
}

func (s *fakeSnapshots) EnabledRules(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRule, error) {
	return s.repo.FindEnabledByOwner(ctx, ownerID)
}

func (s *fakeSnapshots) Invalidate(_ context.Context, _ uuid.UUID) error {
	s.invalidated++
	return nil
}
