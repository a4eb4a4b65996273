package categoryrule

import (
	"context"

	"github.com/finance-tracker/categorizer/internal/domain/rulematch"
)

// TestPatternInput is a pattern and the sample text to run it against.
type TestPatternInput struct {
	Pattern  string
	TestText string
}

// TestPatternOutput reports whether the pattern matched and the first matched substring.
type TestPatternOutput struct {
	Matches     bool
	MatchedText string
}

// TestPatternUseCase runs a single pattern against sample text for the rule editor.
type TestPatternUseCase struct{}

// NewTestPatternUseCase creates a new TestPatternUseCase instance.
func NewTestPatternUseCase() *TestPatternUseCase {
	return &TestPatternUseCase{}
}

// Execute performs the pattern test. A blank pattern never matches.
func (uc *TestPatternUseCase) Execute(_ context.Context, input TestPatternInput) (*TestPatternOutput, error) {
	if len(input.Pattern) > MaxPatternLength {
		return nil, validatePattern(input.Pattern)
	}

	result, err := rulematch.TestPattern(input.Pattern, input.TestText)
	if err != nil {
		return nil, invalidPatternError(err)
	}

	return &TestPatternOutput{
		Matches:     result.Matches,
		MatchedText: result.MatchedText,
	}, nil
}
