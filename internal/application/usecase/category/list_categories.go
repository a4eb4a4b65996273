package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	OwnerID      uuid.UUID
	CategoryType *entity.CategoryType // Optional filter by category type
	WithStats    bool
}

// ListCategoriesOutput represents the output of listing categories.
type ListCategoriesOutput struct {
	Categories []*CategoryOutput
}

// ListCategoriesUseCase handles listing categories logic.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category listing.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	var categories []*entity.Category
	var err error

	if input.CategoryType != nil {
		categories, err = uc.categoryRepo.FindByOwnerAndType(ctx, input.OwnerID, *input.CategoryType)
	} else {
		categories, err = uc.categoryRepo.FindByOwner(ctx, input.OwnerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var stats map[uuid.UUID]*adapter.CategoryStats
	if input.WithStats && len(categories) > 0 {
		categoryIDs := make([]uuid.UUID, len(categories))
		for i, cat := range categories {
			categoryIDs[i] = cat.ID
		}
		stats, err = uc.categoryRepo.GetUsageStats(ctx, categoryIDs)
		if err != nil {
			slog.Warn("Failed to load category usage stats", "owner_id", input.OwnerID, "error", err)
			stats = nil
		}
	}

	output := &ListCategoriesOutput{
		Categories: make([]*CategoryOutput, len(categories)),
	}
	for i, cat := range categories {
		categoryOutput := toCategoryOutput(cat)
		if catStats, ok := stats[cat.ID]; ok {
			categoryOutput.TransactionCount = catStats.TransactionCount
			categoryOutput.RuleCount = catStats.RuleCount
		}
		output.Categories[i] = categoryOutput
	}

	return output, nil
}
