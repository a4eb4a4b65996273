package dto

import (
	"time"

	categoryrule "github.com/finance-tracker/categorizer/internal/application/usecase/category_rule"
)

// CreateCategoryRuleRequest represents the request body for category rule creation.
type CreateCategoryRuleRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description,omitempty"`
	Pattern         string `json:"pattern" binding:"required"`
	CategoryID      string `json:"category_id" binding:"required,uuid"`
	Priority        *int   `json:"priority,omitempty" binding:"omitempty,min=0"`
	Enabled         *bool  `json:"enabled,omitempty"`
	ApplyToExisting bool   `json:"apply_to_existing,omitempty"`
}

// UpdateCategoryRuleRequest represents the request body for category rule update.
type UpdateCategoryRuleRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Pattern     *string `json:"pattern,omitempty"`
	CategoryID  *string `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Priority    *int    `json:"priority,omitempty" binding:"omitempty,min=0"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

// ReorderCategoryRulesRequest lists every rule of the user in the new evaluation order.
type ReorderCategoryRulesRequest struct {
	RuleIDs []string `json:"rule_ids" binding:"required,min=1,dive,uuid"`
}

// TestPatternRequest represents the request body for pattern testing.
type TestPatternRequest struct {
	Pattern  string `json:"pattern"`
	TestText string `json:"test_text"`
}

// ValidatePatternRequest represents the request body for pattern validation.
type ValidatePatternRequest struct {
	Pattern string `json:"pattern"`
}

// PreviewPatternRequest represents the request body for a pattern preview.
type PreviewPatternRequest struct {
	Pattern string `json:"pattern" binding:"required"`
	Limit   int    `json:"limit,omitempty" binding:"omitempty,min=1"`
}

// CategoryRuleResponse represents a single category rule in API responses.
type CategoryRuleResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	Pattern             string    `json:"pattern"`
	CategoryID          string    `json:"category_id"`
	CategoryName        string    `json:"category_name,omitempty"`
	CategoryIcon        string    `json:"category_icon,omitempty"`
	CategoryColor       string    `json:"category_color,omitempty"`
	Priority            int       `json:"priority"`
	Enabled             bool      `json:"enabled"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	TransactionsUpdated int       `json:"transactions_updated,omitempty"`
	ChangedFields       []string  `json:"changed_fields,omitempty"`
}

// CategoryRuleListResponse represents the response for listing category rules.
type CategoryRuleListResponse struct {
	Rules []CategoryRuleResponse `json:"rules"`
}

// TestPatternResponse reports the outcome of a single pattern test.
type TestPatternResponse struct {
	Matches     bool   `json:"matches"`
	MatchedText string `json:"matched_text"`
}

// ValidatePatternResponse reports whether a pattern may be saved.
type ValidatePatternResponse struct {
	Valid bool   `json:"valid"`
	Inert bool   `json:"inert,omitempty"`
	Error string `json:"error,omitempty"`
}

// PreviewPatternResponse lists the transactions a pattern would match.
type PreviewPatternResponse struct {
	MatchingTransactions []MatchingTransactionResponse `json:"matching_transactions"`
	MatchCount           int                           `json:"match_count"`
}

// MatchingTransactionResponse represents a matching transaction in the response.
type MatchingTransactionResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Merchant    string `json:"merchant,omitempty"`
	MatchedText string `json:"matched_text"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

// ApplyRulesResponse summarizes a rules run.
type ApplyRulesResponse struct {
	Evaluated    int      `json:"evaluated"`
	Categorized  int      `json:"categorized"`
	SkippedRules []string `json:"skipped_rules"`
}

// ToCategoryRuleResponse converts a CategoryRuleOutput to a CategoryRuleResponse DTO.
func ToCategoryRuleResponse(output *categoryrule.CategoryRuleOutput) CategoryRuleResponse {
	return CategoryRuleResponse{
		ID:            output.ID.String(),
		Name:          output.Name,
		Description:   output.Description,
		Pattern:       output.Pattern,
		CategoryID:    output.CategoryID.String(),
		CategoryName:  output.CategoryName,
		CategoryIcon:  output.CategoryIcon,
		CategoryColor: output.CategoryColor,
		Priority:      output.Priority,
		Enabled:       output.Enabled,
		CreatedAt:     output.CreatedAt,
		UpdatedAt:     output.UpdatedAt,
	}
}

// ToCategoryRuleListResponse converts a list of CategoryRuleOutput to CategoryRuleListResponse.
func ToCategoryRuleListResponse(outputs []*categoryrule.CategoryRuleOutput) CategoryRuleListResponse {
	rules := make([]CategoryRuleResponse, len(outputs))
	for i, output := range outputs {
		rules[i] = ToCategoryRuleResponse(output)
	}
	return CategoryRuleListResponse{
		Rules: rules,
	}
}

// ToPreviewPatternResponse converts a PreviewPatternOutput to PreviewPatternResponse.
func ToPreviewPatternResponse(output *categoryrule.PreviewPatternOutput) PreviewPatternResponse {
	transactions := make([]MatchingTransactionResponse, len(output.MatchingTransactions))
	for i, tx := range output.MatchingTransactions {
		transactions[i] = MatchingTransactionResponse{
			ID:          tx.ID,
			Description: tx.Description,
			Merchant:    tx.Merchant,
			MatchedText: tx.MatchedText,
			Amount:      tx.Amount,
			Date:        tx.Date,
		}
	}
	return PreviewPatternResponse{
		MatchingTransactions: transactions,
		MatchCount:           output.MatchCount,
	}
}

// ToApplyRulesResponse converts an ApplyRulesOutput to ApplyRulesResponse.
func ToApplyRulesResponse(output *categoryrule.ApplyRulesOutput) ApplyRulesResponse {
	skipped := output.SkippedRules
	if skipped == nil {
		skipped = []string{}
	}
	return ApplyRulesResponse{
		Evaluated:    output.Evaluated,
		Categorized:  output.Categorized,
		SkippedRules: skipped,
	}
}
