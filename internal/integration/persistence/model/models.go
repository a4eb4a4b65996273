// Package model maps domain entities to gorm tables.
package model

import (
	"time"

	"gorm.io/gorm"
)

// All returns every model, in dependency order, for schema migration.
func All() []any {
	return []any{
		&UserModel{},
		&CategoryModel{},
		&CategoryRuleModel{},
		&TransactionModel{},
		&AuditLogModel{},
	}
}

func deletedAtFromGorm(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func deletedAtToGorm(t *time.Time) gorm.DeletedAt {
	if t == nil {
		return gorm.DeletedAt{}
	}
	return gorm.DeletedAt{Time: *t, Valid: true}
}
