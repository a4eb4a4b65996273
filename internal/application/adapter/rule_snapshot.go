package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

// RuleSnapshotProvider supplies the enabled rules of an owner for classification.
type RuleSnapshotProvider interface {
	// EnabledRules returns the owner's enabled rules ordered by priority.
	EnabledRules(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRule, error)

	// Invalidate drops any snapshot held for the owner. It is called after every rule write.
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}
