package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
)

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	Name    string
	Color   string // Optional, defaults to DefaultCategoryColor
	Icon    string // Optional, defaults to DefaultCategoryIcon
	OwnerID uuid.UUID
	Type    entity.CategoryType
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *CategoryOutput
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateColor(input.Color); err != nil {
		return nil, err
	}
	if len(input.Icon) > MaxIconLength {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeMissingCategoryFields,
			fmt.Sprintf("icon must not exceed %d characters", MaxIconLength),
			domainerror.ErrCategoryMissingFields,
		)
	}

	categoryType := input.Type
	if categoryType == "" {
		categoryType = entity.CategoryTypeExpense
	}
	if !isValidCategoryType(categoryType) {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryType,
			"category type must be 'expense' or 'income'",
			domainerror.ErrInvalidCategoryType,
		)
	}

	if err := ensureUniqueName(ctx, uc.categoryRepo, input.Name, input.OwnerID); err != nil {
		return nil, err
	}

	color := input.Color
	if color == "" {
		color = entity.DefaultCategoryColor
	}
	icon := input.Icon
	if icon == "" {
		icon = entity.DefaultCategoryIcon
	}

	category := entity.NewCategory(input.Name, color, icon, input.OwnerID, categoryType)
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("Category created", "category_id", category.ID, "owner_id", input.OwnerID)

	return &CreateCategoryOutput{
		Category: toCategoryOutput(category),
	}, nil
}
