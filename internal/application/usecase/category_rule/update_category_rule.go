package categoryrule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// UpdateCategoryRuleInput represents the input for category rule update.
// Nil fields are left unchanged.
type UpdateCategoryRuleInput struct {
	RuleID      uuid.UUID
	Name        *string
	Description *string
	Pattern     *string
	CategoryID  *uuid.UUID
	Priority    *int
	Enabled     *bool
	OwnerID     uuid.UUID
}

// UpdateCategoryRuleOutput represents the output of category rule update.
type UpdateCategoryRuleOutput struct {
	Rule          *CategoryRuleOutput
	ChangedFields []string
}

// UpdateCategoryRuleUseCase handles category rule update logic.
type UpdateCategoryRuleUseCase struct {
	ruleRepo     adapter.CategoryRuleRepository
	categoryRepo adapter.CategoryRepository
	hooks        ruleWriteHooks
}

// NewUpdateCategoryRuleUseCase creates a new UpdateCategoryRuleUseCase instance.
func NewUpdateCategoryRuleUseCase(
	ruleRepo adapter.CategoryRuleRepository,
	categoryRepo adapter.CategoryRepository,
	auditRepo adapter.AuditLogRepository,
	snapshots adapter.RuleSnapshotProvider,
) *UpdateCategoryRuleUseCase {
	return &UpdateCategoryRuleUseCase{
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
		hooks:        ruleWriteHooks{auditRepo: auditRepo, snapshots: snapshots},
	}
}

// Execute performs the category rule update.
func (uc *UpdateCategoryRuleUseCase) Execute(ctx context.Context, input UpdateCategoryRuleInput) (*UpdateCategoryRuleOutput, error) {
	rule, err := findOwnedRule(ctx, uc.ruleRepo, input.RuleID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	changed := make([]string, 0, 6)

	if input.Name != nil && *input.Name != rule.Name {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
		rule.Name = *input.Name
		changed = append(changed, "name")
	}

	if input.Description != nil && *input.Description != rule.Description {
		if err := validateDescription(*input.Description); err != nil {
			return nil, err
		}
		rule.Description = *input.Description
		changed = append(changed, "description")
	}

	if input.Pattern != nil && *input.Pattern != rule.Pattern {
		if err := validateStoredPattern(*input.Pattern); err != nil {
			return nil, err
		}
		rule.Pattern = *input.Pattern
		changed = append(changed, "pattern")
	}

	var category *entity.Category
	if input.CategoryID != nil && *input.CategoryID != rule.CategoryID {
		category, err = findOwnedCategory(ctx, uc.categoryRepo, *input.CategoryID, input.OwnerID)
		if err != nil {
			return nil, err
		}
		rule.CategoryID = *input.CategoryID
		changed = append(changed, "category_id")
	} else {
		category, _ = uc.categoryRepo.FindByID(ctx, rule.CategoryID)
	}

	if input.Priority != nil && *input.Priority != rule.Priority {
		rule.Priority = *input.Priority
		changed = append(changed, "priority")
	}

	if input.Enabled != nil && *input.Enabled != rule.Enabled {
		rule.Enabled = *input.Enabled
		changed = append(changed, "enabled")
	}

	output := &UpdateCategoryRuleOutput{ChangedFields: changed}
	if len(changed) == 0 {
		output.Rule = toRuleOutput(rule, category)
		return output, nil
	}

	rule.UpdatedAt = time.Now().UTC()
	if err := uc.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update category rule: %w", err)
	}

	uc.hooks.afterWrite(ctx, input.OwnerID, rule.ID, entity.AuditActionUpdate, changed)

	slog.Info("Category rule updated",
		"rule_id", rule.ID,
		"changed_fields", changed,
	)

	output.Rule = toRuleOutput(rule, category)
	return output, nil
}
