// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
)

const (
	// MaxCategoryNameLength is the maximum allowed length for category names.
	MaxCategoryNameLength = 50
	// MaxIconLength is the maximum allowed length for icon names.
	MaxIconLength = 50
)

var hexColorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// CategoryOutput represents a single category in the output.
type CategoryOutput struct {
	ID               uuid.UUID
	Name             string
	Color            string
	Icon             string
	Type             entity.CategoryType
	TransactionCount int
	RuleCount        int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func toCategoryOutput(category *entity.Category) *CategoryOutput {
	return &CategoryOutput{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		Icon:      category.Icon,
		Type:      category.Type,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeMissingCategoryFields,
			"category name is required",
			domainerror.ErrCategoryMissingFields,
		)
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameTooLong,
			fmt.Sprintf("category name must not exceed %d characters", MaxCategoryNameLength),
			domainerror.ErrCategoryNameTooLong,
		)
	}
	return nil
}

func validateColor(color string) error {
	if color != "" && !hexColorRegex.MatchString(color) {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidColorFormat,
			"color must be a valid hex format (#XXXXXX)",
			domainerror.ErrInvalidColorFormat,
		)
	}
	return nil
}

func isValidCategoryType(categoryType entity.CategoryType) bool {
	return categoryType == entity.CategoryTypeExpense || categoryType == entity.CategoryTypeIncome
}

// findOwnedCategory loads a category. Categories of other owners are reported as not found.
func findOwnedCategory(ctx context.Context, repo adapter.CategoryRepository, categoryID, ownerID uuid.UUID) (*entity.Category, error) {
	category, err := repo.FindByID(ctx, categoryID)
	if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if err != nil || category.OwnerID != ownerID {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNotFound,
			"category not found",
			domainerror.ErrCategoryNotFound,
		)
	}
	return category, nil
}

func ensureUniqueName(ctx context.Context, repo adapter.CategoryRepository, name string, ownerID uuid.UUID) error {
	exists, err := repo.ExistsByNameAndOwner(ctx, name, ownerID)
	if err != nil {
		return fmt.Errorf("failed to check category name existence: %w", err)
	}
	if exists {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameExists,
			"a category with this name already exists",
			domainerror.ErrCategoryNameExists,
		)
	}
	return nil
}
