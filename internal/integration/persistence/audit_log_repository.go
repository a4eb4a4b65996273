package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	"github.com/finance-tracker/categorizer/internal/integration/persistence/model"
)

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository instance.
func NewAuditLogRepository(db *gorm.DB) adapter.AuditLogRepository {
	return &auditLogRepository{
		db: db,
	}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.db.WithContext(ctx).Create(model.AuditLogFromEntity(log)).Error
}

func (r *auditLogRepository) FindByFilter(ctx context.Context, filter adapter.AuditLogFilter) ([]*entity.AuditLog, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var logModels []model.AuditLogModel
	if err := query.Order("created_at DESC").Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]*entity.AuditLog, len(logModels))
	for i := range logModels {
		logs[i] = logModels[i].ToEntity()
	}
	return logs, nil
}
