package category

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
)

// UpdateCategoryInput represents the input for category update.
type UpdateCategoryInput struct {
	CategoryID uuid.UUID
	Name       *string // Optional
	Color      *string // Optional
	Icon       *string // Optional
	OwnerID    uuid.UUID
}

// UpdateCategoryOutput represents the output of category update.
type UpdateCategoryOutput struct {
	Category *CategoryOutput
}

// UpdateCategoryUseCase handles category update logic.
type UpdateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewUpdateCategoryUseCase creates a new UpdateCategoryUseCase instance.
func NewUpdateCategoryUseCase(categoryRepo adapter.CategoryRepository) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category update.
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, input UpdateCategoryInput) (*UpdateCategoryOutput, error) {
	category, err := findOwnedCategory(ctx, uc.categoryRepo, input.CategoryID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != category.Name {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
		if err := ensureUniqueName(ctx, uc.categoryRepo, *input.Name, input.OwnerID); err != nil {
			return nil, err
		}
		category.Name = *input.Name
	}

	if input.Color != nil {
		if err := validateColor(*input.Color); err != nil {
			return nil, err
		}
		category.Color = *input.Color
	}

	if input.Icon != nil {
		category.Icon = *input.Icon
	}

	category.UpdatedAt = time.Now().UTC()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &UpdateCategoryOutput{
		Category: toCategoryOutput(category),
	}, nil
}
