package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
	"github.com/finance-tracker/categorizer/internal/integration/persistence/model"
)

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// Create creates a new category in the database.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Create(model.CategoryFromEntity(category)).Error
}

// FindByID retrieves a category by its ID.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// FindByOwner retrieves all categories of an owner, sorted by name.
func (r *categoryRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Category, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

// FindByOwnerAndType retrieves the owner's categories of one type, sorted by name.
func (r *categoryRepository) FindByOwnerAndType(ctx context.Context, ownerID uuid.UUID, categoryType entity.CategoryType) ([]*entity.Category, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("owner_id = ? AND type = ?", ownerID, string(categoryType)))
}

func (r *categoryRepository) find(_ context.Context, query *gorm.DB) ([]*entity.Category, error) {
	var categoryModels []model.CategoryModel
	if err := query.Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = categoryModels[i].ToEntity()
	}
	return categories, nil
}

// Update updates an existing category in the database.
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Save(model.CategoryFromEntity(category)).Error
}

// Delete soft-deletes a category.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CategoryModel{}, "id = ?", id).Error
}

// ExistsByNameAndOwner checks if a category with the given name exists for the owner.
func (r *categoryRepository) ExistsByNameAndOwner(ctx context.Context, name string, ownerID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("owner_id = ? AND LOWER(name) = LOWER(?)", ownerID, name).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

type categoryCount struct {
	CategoryID uuid.UUID
	Count      int
}

// GetUsageStats counts live transactions and rules per category.
func (r *categoryRepository) GetUsageStats(ctx context.Context, categoryIDs []uuid.UUID) (map[uuid.UUID]*adapter.CategoryStats, error) {
	stats := make(map[uuid.UUID]*adapter.CategoryStats, len(categoryIDs))
	for _, id := range categoryIDs {
		stats[id] = &adapter.CategoryStats{}
	}
	if len(categoryIDs) == 0 {
		return stats, nil
	}

	var txnCounts []categoryCount
	if err := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("category_id, COUNT(*) AS count").
		Where("category_id IN ?", categoryIDs).
		Group("category_id").
		Scan(&txnCounts).Error; err != nil {
		return nil, err
	}
	for _, c := range txnCounts {
		stats[c.CategoryID].TransactionCount = c.Count
	}

	var ruleCounts []categoryCount
	if err := r.db.WithContext(ctx).
		Model(&model.CategoryRuleModel{}).
		Select("category_id, COUNT(*) AS count").
		Where("category_id IN ?", categoryIDs).
		Group("category_id").
		Scan(&ruleCounts).Error; err != nil {
		return nil, err
	}
	for _, c := range ruleCounts {
		stats[c.CategoryID].RuleCount = c.Count
	}

	return stats, nil
}
