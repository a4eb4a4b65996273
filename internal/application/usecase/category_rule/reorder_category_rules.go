package categoryrule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
	"github.com/finance-tracker/categorizer/internal/domain/rulematch"
)

// ReorderCategoryRulesInput lists every rule of the owner in the desired evaluation order.
type ReorderCategoryRulesInput struct {
	RuleIDs []uuid.UUID
	OwnerID uuid.UUID
}

// ReorderCategoryRulesOutput represents the output of reordering category rules.
type ReorderCategoryRulesOutput struct {
	Rules []*CategoryRuleOutput
}

// ReorderCategoryRulesUseCase handles category rules reordering logic.
type ReorderCategoryRulesUseCase struct {
	ruleRepo adapter.CategoryRuleRepository
	hooks    ruleWriteHooks
}

// NewReorderCategoryRulesUseCase creates a new ReorderCategoryRulesUseCase instance.
func NewReorderCategoryRulesUseCase(
	ruleRepo adapter.CategoryRuleRepository,
	auditRepo adapter.AuditLogRepository,
	snapshots adapter.RuleSnapshotProvider,
) *ReorderCategoryRulesUseCase {
	return &ReorderCategoryRulesUseCase{
		ruleRepo: ruleRepo,
		hooks:    ruleWriteHooks{auditRepo: auditRepo, snapshots: snapshots},
	}
}

// Execute persists priority = position for each listed rule.
func (uc *ReorderCategoryRulesUseCase) Execute(ctx context.Context, input ReorderCategoryRulesInput) (*ReorderCategoryRulesOutput, error) {
	if len(input.RuleIDs) == 0 {
		return nil, domainerror.NewCategoryRuleError(
			domainerror.ErrCodeMissingRuleFields,
			"at least one rule must be provided",
			domainerror.ErrCategoryRuleMissingFields,
		)
	}

	owned, err := uc.ruleRepo.FindByOwner(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}
	ownedByID := make(map[uuid.UUID]*entity.CategoryRule, len(owned))
	for _, rule := range owned {
		ownedByID[rule.ID] = rule
	}

	seen := make(map[uuid.UUID]struct{}, len(input.RuleIDs))
	ids := make([]string, len(input.RuleIDs))
	for i, id := range input.RuleIDs {
		if _, dup := seen[id]; dup {
			return nil, domainerror.NewCategoryRuleError(
				domainerror.ErrCodeDuplicateRuleInOrder,
				fmt.Sprintf("rule listed more than once: %s", id),
				domainerror.ErrDuplicateRuleInOrder,
			)
		}
		seen[id] = struct{}{}

		if _, ok := ownedByID[id]; !ok {
			return nil, domainerror.NewCategoryRuleError(
				domainerror.ErrCodeCategoryRuleNotFound,
				fmt.Sprintf("category rule not found: %s", id),
				domainerror.ErrCategoryRuleNotFound,
			)
		}
		ids[i] = id.String()
	}

	if len(seen) != len(ownedByID) {
		return nil, domainerror.NewCategoryRuleError(
			domainerror.ErrCodeIncompleteRuleOrder,
			fmt.Sprintf("expected %d rules, got %d", len(ownedByID), len(seen)),
			domainerror.ErrIncompleteRuleOrder,
		)
	}

	assignments := rulematch.Reorder(ids)
	updates := make([]entity.RulePriorityUpdate, len(assignments))
	for i, a := range assignments {
		updates[i] = entity.RulePriorityUpdate{
			ID:       input.RuleIDs[i],
			Priority: a.Priority,
		}
	}

	if err := uc.ruleRepo.UpdatePriorities(ctx, input.OwnerID, updates); err != nil {
		return nil, fmt.Errorf("failed to update rule priorities: %w", err)
	}

	for _, update := range updates {
		if ownedByID[update.ID].Priority != update.Priority {
			uc.hooks.afterWrite(ctx, input.OwnerID, update.ID, entity.AuditActionUpdate, []string{"priority"})
		}
	}

	slog.Info("Category rules reordered",
		"owner_id", input.OwnerID,
		"count", len(updates),
	)

	rulesWithCategories, err := uc.ruleRepo.FindByOwnerWithCategories(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated rules: %w", err)
	}

	return &ReorderCategoryRulesOutput{
		Rules: toRuleOutputs(rulesWithCategories),
	}, nil
}
