package categoryrule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// DeleteCategoryRuleInput represents the input for category rule deletion.
type DeleteCategoryRuleInput struct {
	RuleID  uuid.UUID
	OwnerID uuid.UUID
}

// DeleteCategoryRuleOutput represents the output of category rule deletion.
type DeleteCategoryRuleOutput struct {
	Success bool
}

// DeleteCategoryRuleUseCase handles category rule deletion logic.
type DeleteCategoryRuleUseCase struct {
	ruleRepo adapter.CategoryRuleRepository
	hooks    ruleWriteHooks
}

// NewDeleteCategoryRuleUseCase creates a new DeleteCategoryRuleUseCase instance.
func NewDeleteCategoryRuleUseCase(
	ruleRepo adapter.CategoryRuleRepository,
	auditRepo adapter.AuditLogRepository,
	snapshots adapter.RuleSnapshotProvider,
) *DeleteCategoryRuleUseCase {
	return &DeleteCategoryRuleUseCase{
		ruleRepo: ruleRepo,
		hooks:    ruleWriteHooks{auditRepo: auditRepo, snapshots: snapshots},
	}
}

// Execute performs the category rule deletion.
func (uc *DeleteCategoryRuleUseCase) Execute(ctx context.Context, input DeleteCategoryRuleInput) (*DeleteCategoryRuleOutput, error) {
	if _, err := findOwnedRule(ctx, uc.ruleRepo, input.RuleID, input.OwnerID); err != nil {
		return nil, err
	}

	if err := uc.ruleRepo.Delete(ctx, input.RuleID); err != nil {
		return nil, fmt.Errorf("failed to delete category rule: %w", err)
	}

	uc.hooks.afterWrite(ctx, input.OwnerID, input.RuleID, entity.AuditActionDelete, nil)

	slog.Info("Category rule deleted", "rule_id", input.RuleID)

	return &DeleteCategoryRuleOutput{Success: true}, nil
}
