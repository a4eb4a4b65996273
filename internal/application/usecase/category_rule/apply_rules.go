package categoryrule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	"github.com/finance-tracker/categorizer/internal/domain/rulematch"
)

// ApplyRulesInput represents the input for re-running the owner's rules.
type ApplyRulesInput struct {
	OwnerID uuid.UUID
}

// ApplyRulesOutput summarizes a rules run over uncategorized transactions.
type ApplyRulesOutput struct {
	Evaluated    int
	Categorized  int
	SkippedRules []string
}

// ApplyRulesUseCase classifies every uncategorized transaction of the owner
// against the current enabled rule snapshot.
type ApplyRulesUseCase struct {
	snapshots       adapter.RuleSnapshotProvider
	transactionRepo adapter.TransactionRepository
}

// NewApplyRulesUseCase creates a new ApplyRulesUseCase instance.
func NewApplyRulesUseCase(
	snapshots adapter.RuleSnapshotProvider,
	transactionRepo adapter.TransactionRepository,
) *ApplyRulesUseCase {
	return &ApplyRulesUseCase{
		snapshots:       snapshots,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the rules. A rule with a broken pattern is skipped and reported.
func (uc *ApplyRulesUseCase) Execute(ctx context.Context, input ApplyRulesInput) (*ApplyRulesOutput, error) {
	rules, err := uc.snapshots.EnabledRules(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule snapshot: %w", err)
	}

	transactions, err := uc.transactionRepo.FindUncategorizedByUser(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load uncategorized transactions: %w", err)
	}

	matcher := rulematch.Compile(entity.MatchRules(rules))
	output := &ApplyRulesOutput{
		Evaluated:    len(transactions),
		SkippedRules: matcher.Skipped(),
	}

	assignments := make([]adapter.CategoryAssignment, 0)
	for _, txn := range transactions {
		rule, ok := matcher.Match(txn.MatchText())
		if !ok {
			continue
		}
		assignment, err := toAssignment(txn.ID, rule)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if len(assignments) > 0 {
		count, err := uc.transactionRepo.AssignCategories(ctx, input.OwnerID, assignments)
		if err != nil {
			return nil, fmt.Errorf("failed to assign categories: %w", err)
		}
		output.Categorized = int(count)
	}

	slog.Info("Category rules applied",
		"owner_id", input.OwnerID,
		"evaluated", output.Evaluated,
		"categorized", output.Categorized,
		"skipped_rules", len(output.SkippedRules),
	)

	return output, nil
}

func toAssignment(transactionID uuid.UUID, rule rulematch.Rule) (adapter.CategoryAssignment, error) {
	categoryID, err := uuid.Parse(rule.TargetCategoryID)
	if err != nil {
		return adapter.CategoryAssignment{}, fmt.Errorf("invalid category id on rule %s: %w", rule.ID, err)
	}
	ruleID, err := uuid.Parse(rule.ID)
	if err != nil {
		return adapter.CategoryAssignment{}, fmt.Errorf("invalid rule id %s: %w", rule.ID, err)
	}
	return adapter.CategoryAssignment{
		TransactionID: transactionID,
		CategoryID:    categoryID,
		RuleID:        &ruleID,
	}, nil
}
