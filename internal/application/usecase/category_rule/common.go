// Package categoryrule contains category rule-related use cases.
package categoryrule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
	"github.com/finance-tracker/categorizer/internal/domain/rulematch"
)

const (
	// MaxPatternLength is the maximum allowed length for regex patterns.
	MaxPatternLength = 255
	// MaxNameLength is the maximum allowed length for rule names.
	MaxNameLength = 100
	// MaxDescriptionLength is the maximum allowed length for rule descriptions.
	MaxDescriptionLength = 500
)

// CategoryRuleOutput represents a single category rule in the output.
type CategoryRuleOutput struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Pattern       string
	CategoryID    uuid.UUID
	CategoryName  string
	CategoryIcon  string
	CategoryColor string
	Priority      int
	Enabled       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func toRuleOutput(rule *entity.CategoryRule, category *entity.Category) *CategoryRuleOutput {
	out := &CategoryRuleOutput{
		ID:          rule.ID,
		Name:        rule.Name,
		Description: rule.Description,
		Pattern:     rule.Pattern,
		CategoryID:  rule.CategoryID,
		Priority:    rule.Priority,
		Enabled:     rule.Enabled,
		CreatedAt:   rule.CreatedAt,
		UpdatedAt:   rule.UpdatedAt,
	}
	if category != nil {
		out.CategoryName = category.Name
		out.CategoryIcon = category.Icon
		out.CategoryColor = category.Color
	}
	return out
}

func toRuleOutputs(rules []*entity.CategoryRuleWithCategory) []*CategoryRuleOutput {
	out := make([]*CategoryRuleOutput, len(rules))
	for i, rwc := range rules {
		out[i] = toRuleOutput(rwc.Rule, rwc.Category)
	}
	return out
}

func validateName(name string) error {
	if isBlank(name) {
		return domainerror.NewCategoryRuleError(
			domainerror.ErrCodeMissingRuleFields,
			"name is required",
			domainerror.ErrCategoryRuleMissingFields,
		)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return domainerror.NewCategoryRuleError(
			domainerror.ErrCodeRuleNameTooLong,
			fmt.Sprintf("name must not exceed %d characters", MaxNameLength),
			domainerror.ErrRuleNameTooLong,
		)
	}
	return nil
}

func validateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return domainerror.NewCategoryRuleError(
			domainerror.ErrCodeRuleDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrRuleDescriptionTooLong,
		)
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// validateStoredPattern checks a pattern that is about to be saved on a rule.
// Unlike the interactive checks, a stored pattern may not be blank.
func validateStoredPattern(pattern string) error {
	if isBlank(pattern) {
		return domainerror.NewCategoryRuleError(
			domainerror.ErrCodeMissingRuleFields,
			"pattern is required",
			domainerror.ErrCategoryRuleMissingFields,
		)
	}
	return validatePattern(pattern)
}

func validatePattern(pattern string) error {
	if len(pattern) > MaxPatternLength {
		return domainerror.NewCategoryRuleError(
			domainerror.ErrCodePatternTooLong,
			fmt.Sprintf("pattern must not exceed %d characters", MaxPatternLength),
			domainerror.ErrPatternTooLong,
		)
	}
	if err := rulematch.ValidatePattern(pattern); err != nil {
		return invalidPatternError(err)
	}
	return nil
}

func invalidPatternError(err error) error {
	reason := err.Error()
	var patternErr *rulematch.InvalidPatternError
	if errors.As(err, &patternErr) && patternErr.Reason != "" {
		reason = patternErr.Reason
	}
	return domainerror.NewCategoryRuleError(
		domainerror.ErrCodeInvalidPattern,
		"Invalid regular expression pattern",
		fmt.Errorf("%w: %s", domainerror.ErrInvalidPattern, reason),
	)
}

// findOwnedRule loads a rule and checks that ownerID owns it.
func findOwnedRule(ctx context.Context, repo adapter.CategoryRuleRepository, ruleID, ownerID uuid.UUID) (*entity.CategoryRule, error) {
	rule, err := repo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryRuleNotFound) {
			return nil, domainerror.NewCategoryRuleError(
				domainerror.ErrCodeCategoryRuleNotFound,
				"category rule not found",
				domainerror.ErrCategoryRuleNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find category rule: %w", err)
	}

	if rule.OwnerID != ownerID {
		return nil, domainerror.NewCategoryRuleError(
			domainerror.ErrCodeNotAuthorizedRule,
			"not authorized to modify this rule",
			domainerror.ErrNotAuthorizedToModifyRule,
		)
	}
	return rule, nil
}

// findOwnedCategory loads the target category of a rule and checks its owner.
func findOwnedCategory(ctx context.Context, repo adapter.CategoryRepository, categoryID, ownerID uuid.UUID) (*entity.Category, error) {
	category, err := repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewCategoryRuleError(
				domainerror.ErrCodeCategoryNotFoundForRule,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if category.OwnerID != ownerID {
		return nil, domainerror.NewCategoryRuleError(
			domainerror.ErrCodeNotAuthorizedRule,
			"category does not belong to the rule owner",
			domainerror.ErrNotAuthorizedToModifyRule,
		)
	}
	return category, nil
}

// ruleWriteHooks runs the bookkeeping that follows every rule write: the audit
// entry and the snapshot invalidation. Neither failure undoes the write.
type ruleWriteHooks struct {
	auditRepo adapter.AuditLogRepository
	snapshots adapter.RuleSnapshotProvider
}

func (h ruleWriteHooks) afterWrite(ctx context.Context, ownerID, ruleID uuid.UUID, action entity.AuditAction, changedFields []string) {
	if h.auditRepo != nil {
		entry := entity.NewAuditLog(ownerID, entity.AuditEntityCategoryRule, ruleID, action, changedFields)
		if err := h.auditRepo.Create(ctx, entry); err != nil {
			slog.Warn("Failed to record rule audit entry",
				"rule_id", ruleID,
				"action", action,
				"error", err,
			)
		}
	}

	if h.snapshots != nil {
		if err := h.snapshots.Invalidate(ctx, ownerID); err != nil {
			slog.Warn("Failed to invalidate rule snapshot",
				"owner_id", ownerID,
				"error", err,
			)
		}
	}
}
