package categoryrule

import (
	"context"
	"errors"

	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
)

// ValidatePatternInput represents the input for pattern validation.
type ValidatePatternInput struct {
	Pattern string
}

// ValidatePatternOutput reports whether the pattern may be saved on a rule.
// Reason is set only when Valid is false.
type ValidatePatternOutput struct {
	Valid  bool
	Inert  bool
	Reason string
}

// ValidatePatternUseCase checks a pattern while the user is still typing it.
type ValidatePatternUseCase struct{}

// NewValidatePatternUseCase creates a new ValidatePatternUseCase instance.
func NewValidatePatternUseCase() *ValidatePatternUseCase {
	return &ValidatePatternUseCase{}
}

// Execute validates the pattern. Validation failures are reported in the output,
// not as an error.
func (uc *ValidatePatternUseCase) Execute(_ context.Context, input ValidatePatternInput) (*ValidatePatternOutput, error) {
	err := validatePattern(input.Pattern)
	if err == nil {
		return &ValidatePatternOutput{
			Valid: true,
			Inert: isBlank(input.Pattern),
		}, nil
	}

	var ruleErr *domainerror.CategoryRuleError
	if errors.As(err, &ruleErr) {
		reason := ruleErr.Message
		if ruleErr.Code == domainerror.ErrCodeInvalidPattern {
			reason = ruleErr.Err.Error()
		}
		return &ValidatePatternOutput{Valid: false, Reason: reason}, nil
	}
	return nil, err
}
