// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/domain/rulematch"
)

// CategoryRule assigns CategoryID to transactions whose description or merchant
// matches Pattern. Lower Priority values are evaluated first.
type CategoryRule struct {
	ID          uuid.UUID
	Name        string
	Description string
	Pattern     string
	CategoryID  uuid.UUID
	Priority    int
	Enabled     bool
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time // Soft-delete support
}

// NewCategoryRule creates a new enabled CategoryRule.
func NewCategoryRule(
	name string,
	description string,
	pattern string,
	categoryID uuid.UUID,
	priority int,
	ownerID uuid.UUID,
) *CategoryRule {
	now := time.Now().UTC()

	return &CategoryRule{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Pattern:     pattern,
		CategoryID:  categoryID,
		Priority:    priority,
		Enabled:     true,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MatchRule projects the rule onto the matching engine's rule type.
func (r *CategoryRule) MatchRule() rulematch.Rule {
	return rulematch.Rule{
		ID:               r.ID.String(),
		Name:             r.Name,
		Description:      r.Description,
		Pattern:          r.Pattern,
		TargetCategoryID: r.CategoryID.String(),
		Priority:         r.Priority,
		Enabled:          r.Enabled,
	}
}

// MatchRules projects a rule snapshot, keeping its order.
func MatchRules(rules []*CategoryRule) []rulematch.Rule {
	out := make([]rulematch.Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.MatchRule())
	}
	return out
}

// CategoryRuleWithCategory represents a category rule with its associated category.
type CategoryRuleWithCategory struct {
	Rule     *CategoryRule
	Category *Category
}

// RulePriorityUpdate represents a priority update for a single rule.
type RulePriorityUpdate struct {
	ID       uuid.UUID
	Priority int
}

// MatchingTransaction is a transaction matched by a pattern preview.
type MatchingTransaction struct {
	ID          uuid.UUID
	Description string
	Merchant    string
	MatchedText string
	Amount      string
	Date        time.Time
}

// PatternPreviewResult lists the owner's transactions a pattern would match.
type PatternPreviewResult struct {
	MatchingTransactions []*MatchingTransaction
	MatchCount           int
}
