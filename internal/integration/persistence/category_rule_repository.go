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

// ruleOrder keeps ties on priority in creation order.
const ruleOrder = "priority ASC, created_at ASC"

// categoryRuleRepository implements the adapter.CategoryRuleRepository interface.
type categoryRuleRepository struct {
	db *gorm.DB
}

// NewCategoryRuleRepository creates a new category rule repository instance.
func NewCategoryRuleRepository(db *gorm.DB) adapter.CategoryRuleRepository {
	return &categoryRuleRepository{
		db: db,
	}
}

// Create creates a new category rule in the database.
func (r *categoryRuleRepository) Create(ctx context.Context, rule *entity.CategoryRule) error {
	return r.db.WithContext(ctx).Create(model.CategoryRuleFromEntity(rule)).Error
}

// FindByID retrieves a category rule by its ID.
func (r *categoryRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CategoryRule, error) {
	var ruleModel model.CategoryRuleModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryRuleNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntity(), nil
}

// FindByIDWithCategory retrieves a category rule with its category by ID.
func (r *categoryRuleRepository) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.CategoryRuleWithCategory, error) {
	var ruleModel model.CategoryRuleModel
	result := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryRuleNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntityWithCategory(), nil
}

// FindByOwner retrieves all category rules for a given owner.
func (r *categoryRuleRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRule, error) {
	var ruleModels []model.CategoryRuleModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order(ruleOrder).
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toRuleEntities(ruleModels), nil
}

// FindByOwnerWithCategories retrieves all category rules with their categories for a given owner.
func (r *categoryRuleRepository) FindByOwnerWithCategories(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRuleWithCategory, error) {
	var ruleModels []model.CategoryRuleModel
	result := r.db.WithContext(ctx).
		Preload("Category").
		Where("owner_id = ?", ownerID).
		Order(ruleOrder).
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.CategoryRuleWithCategory, len(ruleModels))
	for i := range ruleModels {
		rules[i] = ruleModels[i].ToEntityWithCategory()
	}
	return rules, nil
}

// FindEnabledByOwner retrieves only enabled category rules for a given owner.
func (r *categoryRuleRepository) FindEnabledByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRule, error) {
	var ruleModels []model.CategoryRuleModel
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND enabled = ?", ownerID, true).
		Order(ruleOrder).
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toRuleEntities(ruleModels), nil
}

// Update updates an existing category rule in the database.
func (r *categoryRuleRepository) Update(ctx context.Context, rule *entity.CategoryRule) error {
	return r.db.WithContext(ctx).Save(model.CategoryRuleFromEntity(rule)).Error
}

// Delete soft-deletes a category rule.
func (r *categoryRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CategoryRuleModel{}, "id = ?", id).Error
}

// UpdatePriorities sets the priority of each listed rule in a single transaction.
// Rules that do not belong to the owner are left untouched and fail the whole update.
func (r *categoryRuleRepository) UpdatePriorities(ctx context.Context, ownerID uuid.UUID, updates []entity.RulePriorityUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			result := tx.Model(&model.CategoryRuleModel{}).
				Where("id = ? AND owner_id = ?", update.ID, ownerID).
				Update("priority", update.Priority)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domainerror.ErrCategoryRuleNotFound
			}
		}
		return nil
	})
}

// GetMaxPriorityByOwner returns the highest priority in use, or -1 when the owner has no rules.
func (r *categoryRuleRepository) GetMaxPriorityByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var maxPriority int
	result := r.db.WithContext(ctx).
		Model(&model.CategoryRuleModel{}).
		Select("COALESCE(MAX(priority), -1)").
		Where("owner_id = ?", ownerID).
		Scan(&maxPriority)
	if result.Error != nil {
		return 0, result.Error
	}
	return maxPriority, nil
}

// CountByCategory counts the rules that target a category.
func (r *categoryRuleRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.CategoryRuleModel{}).
		Where("category_id = ?", categoryID).
		Count(&count)
	return count, result.Error
}

func toRuleEntities(ruleModels []model.CategoryRuleModel) []*entity.CategoryRule {
	rules := make([]*entity.CategoryRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = ruleModels[i].ToEntity()
	}
	return rules
}
