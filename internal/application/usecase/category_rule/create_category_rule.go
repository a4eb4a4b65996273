package categoryrule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	"github.com/finance-tracker/categorizer/internal/domain/rulematch"
)

// CreateCategoryRuleInput represents the input for category rule creation.
type CreateCategoryRuleInput struct {
	Name            string
	Description     string
	Pattern         string
	CategoryID      uuid.UUID
	Priority        *int  // Optional, defaults to max priority + 1
	Enabled         *bool // Optional, defaults to true
	ApplyToExisting bool
	OwnerID         uuid.UUID
}

// CreateCategoryRuleOutput represents the output of category rule creation.
type CreateCategoryRuleOutput struct {
	Rule                *CategoryRuleOutput
	TransactionsUpdated int
}

// CreateCategoryRuleUseCase handles category rule creation logic.
type CreateCategoryRuleUseCase struct {
	ruleRepo        adapter.CategoryRuleRepository
	categoryRepo    adapter.CategoryRepository
	transactionRepo adapter.TransactionRepository
	hooks           ruleWriteHooks
}

// NewCreateCategoryRuleUseCase creates a new CreateCategoryRuleUseCase instance.
func NewCreateCategoryRuleUseCase(
	ruleRepo adapter.CategoryRuleRepository,
	categoryRepo adapter.CategoryRepository,
	transactionRepo adapter.TransactionRepository,
	auditRepo adapter.AuditLogRepository,
	snapshots adapter.RuleSnapshotProvider,
) *CreateCategoryRuleUseCase {
	return &CreateCategoryRuleUseCase{
		ruleRepo:        ruleRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		hooks:           ruleWriteHooks{auditRepo: auditRepo, snapshots: snapshots},
	}
}

// Execute performs the category rule creation.
func (uc *CreateCategoryRuleUseCase) Execute(ctx context.Context, input CreateCategoryRuleInput) (*CreateCategoryRuleOutput, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validateStoredPattern(input.Pattern); err != nil {
		return nil, err
	}

	category, err := findOwnedCategory(ctx, uc.categoryRepo, input.CategoryID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	// Determine priority
	var priority int
	if input.Priority != nil {
		priority = *input.Priority
	} else {
		maxPriority, err := uc.ruleRepo.GetMaxPriorityByOwner(ctx, input.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get max priority: %w", err)
		}
		priority = maxPriority + 1
	}

	rule := entity.NewCategoryRule(
		input.Name,
		input.Description,
		input.Pattern,
		input.CategoryID,
		priority,
		input.OwnerID,
	)
	if input.Enabled != nil {
		rule.Enabled = *input.Enabled
	}

	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create category rule: %w", err)
	}

	uc.hooks.afterWrite(ctx, input.OwnerID, rule.ID, entity.AuditActionCreate,
		[]string{"name", "description", "pattern", "category_id", "priority", "enabled"})

	slog.Info("Category rule created",
		"rule_id", rule.ID,
		"owner_id", input.OwnerID,
		"priority", rule.Priority,
	)

	updatedCount := 0
	if input.ApplyToExisting && rule.Enabled {
		count, err := uc.applyToUncategorized(ctx, rule)
		if err != nil {
			// The rule is saved; a failed backfill only leaves transactions uncategorized.
			slog.Warn("Failed to apply new rule to existing transactions",
				"rule_id", rule.ID,
				"error", err,
			)
		} else {
			updatedCount = count
		}
	}

	return &CreateCategoryRuleOutput{
		Rule:                toRuleOutput(rule, category),
		TransactionsUpdated: updatedCount,
	}, nil
}

func (uc *CreateCategoryRuleUseCase) applyToUncategorized(ctx context.Context, rule *entity.CategoryRule) (int, error) {
	transactions, err := uc.transactionRepo.FindUncategorizedByUser(ctx, rule.OwnerID)
	if err != nil {
		return 0, fmt.Errorf("failed to load uncategorized transactions: %w", err)
	}

	matcher := rulematch.Compile([]rulematch.Rule{rule.MatchRule()})
	assignments := make([]adapter.CategoryAssignment, 0)
	for _, txn := range transactions {
		if _, ok := matcher.Classify(txn.MatchText()); ok {
			ruleID := rule.ID
			assignments = append(assignments, adapter.CategoryAssignment{
				TransactionID: txn.ID,
				CategoryID:    rule.CategoryID,
				RuleID:        &ruleID,
			})
		}
	}
	if len(assignments) == 0 {
		return 0, nil
	}

	count, err := uc.transactionRepo.AssignCategories(ctx, rule.OwnerID, assignments)
	if err != nil {
		return 0, fmt.Errorf("failed to assign categories: %w", err)
	}
	return int(count), nil
}
