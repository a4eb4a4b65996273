package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
	"github.com/finance-tracker/categorizer/internal/integration/persistence/model"
)

// importBatchSize bounds the rows sent in a single INSERT during BulkCreate.
const importBatchSize = 200

const transactionOrder = "date DESC, created_at DESC"

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(model.TransactionFromEntity(transaction)).Error
}

// BulkCreate creates several transactions in one database transaction.
func (r *transactionRepository) BulkCreate(ctx context.Context, transactions []*entity.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	transactionModels := make([]*model.TransactionModel, len(transactions))
	for i, txn := range transactions {
		transactionModels[i] = model.TransactionFromEntity(txn)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(transactionModels, importBatchSize).Error
	})
}

// FindByID retrieves a transaction by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByIDWithCategory retrieves a transaction with its category by ID.
func (r *transactionRepository) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.TransactionWithCategory, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntityWithCategory(), nil
}

// FindByFilter retrieves transactions based on filter criteria with pagination.
func (r *transactionRepository) FindByFilter(ctx context.Context, filter adapter.TransactionFilter, pagination adapter.TransactionPagination) (*entity.TransactionListResult, error) {
	query := r.db.WithContext(ctx).Model(&model.TransactionModel{})

	// Apply filters
	query = query.Where("user_id = ?", filter.UserID)

	if filter.StartDate != nil {
		query = query.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", filter.EndDate)
	}
	if filter.Uncategorized {
		query = query.Where("category_id IS NULL")
	} else if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(description) LIKE ? OR LOWER(merchant) LIKE ?", searchPattern, searchPattern)
	}

	// Get total count
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (pagination.Page - 1) * pagination.Limit
	totalPages := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))
	if totalPages == 0 {
		totalPages = 1
	}

	var transactionModels []model.TransactionModel
	result := query.
		Preload("Category").
		Order(transactionOrder).
		Offset(offset).
		Limit(pagination.Limit).
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.TransactionWithCategory, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToEntityWithCategory()
	}

	return &entity.TransactionListResult{
		Transactions: transactions,
		Total:        total,
		Page:         pagination.Page,
		Limit:        pagination.Limit,
		TotalPages:   totalPages,
	}, nil
}

// FindByUser retrieves every transaction of a user, newest first.
func (r *transactionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

// FindUncategorizedByUser retrieves the user's transactions without a category.
func (r *transactionRepository) FindUncategorizedByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ? AND category_id IS NULL", userID))
}

func (r *transactionRepository) find(query *gorm.DB) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	if err := query.Order(transactionOrder).Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToEntity()
	}
	return transactions, nil
}

// Update updates an existing transaction in the database.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Save(model.TransactionFromEntity(transaction)).Error
}

// Delete soft-deletes a transaction from the database.
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TransactionModel{}, "id = ?", id).Error
}

// BulkUpdateCategory sets the category of the listed transactions and clears their rule.
func (r *transactionRepository) BulkUpdateCategory(ctx context.Context, ids []uuid.UUID, categoryID uuid.UUID, userID uuid.UUID) (int64, error) {
	var updatedCount int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.TransactionModel{}).
			Where("id IN ? AND user_id = ?", ids, userID).
			Updates(map[string]interface{}{
				"category_id": categoryID,
				"rule_id":     nil,
				"updated_at":  time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		updatedCount = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updatedCount, nil
}

// AssignCategories applies rule assignments to still-uncategorized transactions.
// A transaction categorized in the meantime keeps its category.
func (r *transactionRepository) AssignCategories(ctx context.Context, userID uuid.UUID, assignments []adapter.CategoryAssignment) (int64, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	var updatedCount int64
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range assignments {
			result := tx.Model(&model.TransactionModel{}).
				Where("id = ? AND user_id = ? AND category_id IS NULL", a.TransactionID, userID).
				Updates(map[string]interface{}{
					"category_id": a.CategoryID,
					"rule_id":     a.RuleID,
					"updated_at":  now,
				})
			if result.Error != nil {
				return result.Error
			}
			updatedCount += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updatedCount, nil
}

// ExistsAllByIDsAndUser checks if all transactions exist for the given IDs and user.
func (r *transactionRepository) ExistsAllByIDsAndUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (bool, error) {
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count == int64(len(unique)), nil
}
