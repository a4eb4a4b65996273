package categoryrule

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// ListCategoryRulesInput represents the input for listing category rules.
type ListCategoryRulesInput struct {
	OwnerID     uuid.UUID
	EnabledOnly bool
}

// ListCategoryRulesOutput represents the output of listing category rules.
type ListCategoryRulesOutput struct {
	Rules []*CategoryRuleOutput
}

// ListCategoryRulesUseCase handles listing category rules logic.
type ListCategoryRulesUseCase struct {
	ruleRepo adapter.CategoryRuleRepository
}

// NewListCategoryRulesUseCase creates a new ListCategoryRulesUseCase instance.
func NewListCategoryRulesUseCase(ruleRepo adapter.CategoryRuleRepository) *ListCategoryRulesUseCase {
	return &ListCategoryRulesUseCase{
		ruleRepo: ruleRepo,
	}
}

// Execute lists the owner's rules in evaluation order.
func (uc *ListCategoryRulesUseCase) Execute(ctx context.Context, input ListCategoryRulesInput) (*ListCategoryRulesOutput, error) {
	rulesWithCategories, err := uc.ruleRepo.FindByOwnerWithCategories(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category rules: %w", err)
	}

	if input.EnabledOnly {
		filtered := make([]*entity.CategoryRuleWithCategory, 0, len(rulesWithCategories))
		for _, rwc := range rulesWithCategories {
			if rwc.Rule.Enabled {
				filtered = append(filtered, rwc)
			}
		}
		rulesWithCategories = filtered
	}

	return &ListCategoryRulesOutput{
		Rules: toRuleOutputs(rulesWithCategories),
	}, nil
}
