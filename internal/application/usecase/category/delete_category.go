package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
)

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	CategoryID uuid.UUID
	OwnerID    uuid.UUID
}

// DeleteCategoryOutput represents the output of category deletion.
type DeleteCategoryOutput struct {
	Success bool
}

// DeleteCategoryUseCase handles category deletion logic.
type DeleteCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	ruleRepo     adapter.CategoryRuleRepository
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(
	categoryRepo adapter.CategoryRepository,
	ruleRepo adapter.CategoryRuleRepository,
) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryRepo: categoryRepo,
		ruleRepo:     ruleRepo,
	}
}

// Execute deletes the category unless a rule still targets it.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) (*DeleteCategoryOutput, error) {
	if _, err := findOwnedCategory(ctx, uc.categoryRepo, input.CategoryID, input.OwnerID); err != nil {
		return nil, err
	}

	ruleCount, err := uc.ruleRepo.CountByCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to count rules for category: %w", err)
	}
	if ruleCount > 0 {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryInUse,
			fmt.Sprintf("category is targeted by %d rule(s); delete or retarget them first", ruleCount),
			domainerror.ErrCategoryInUse,
		)
	}

	if err := uc.categoryRepo.Delete(ctx, input.CategoryID); err != nil {
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	slog.Info("Category deleted", "category_id", input.CategoryID)

	return &DeleteCategoryOutput{
		Success: true,
	}, nil
}
