package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finance-tracker/categorizer/internal/domain/rulematch"
)

// ruleFile is one rule in a rules JSON file. Enabled defaults to true.
type ruleFile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Pattern    string `json:"pattern"`
	CategoryID string `json:"category_id"`
	Priority   int    `json:"priority"`
	Enabled    *bool  `json:"enabled,omitempty"`
}

// transactionFile is one transaction in a transactions JSON file.
type transactionFile struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Merchant    string `json:"merchant,omitempty"`
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <pattern>",
		Short: "Check that a pattern compiles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rulematch.ValidatePattern(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func testCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <pattern> <text>",
		Short: "Run a pattern against a sample text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := rulematch.TestPattern(args[0], args[1])
			if err != nil {
				return err
			}
			if !result.Matches {
				fmt.Fprintln(cmd.OutOrStdout(), "no match")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "match: %q\n", result.MatchedText)
			return nil
		},
	}
}

func classifyCmd() *cobra.Command {
	var rulesPath, transactionsPath string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify transactions with a rule set",
		Long: `Classify every transaction of the transactions file with the rules file
and print one tab-separated row per transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rules []ruleFile
			if err := readJSON(rulesPath, &rules); err != nil {
				return err
			}
			var transactions []transactionFile
			if err := readJSON(transactionsPath, &transactions); err != nil {
				return err
			}

			matcher := rulematch.Compile(toRules(rules))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TRANSACTION\tDESCRIPTION\tCATEGORY\tRULE")
			for _, txn := range transactions {
				category, rule := "-", "-"
				if matched, ok := matcher.Match(rulematch.Transaction{
					Description: txn.Description,
					Merchant:    txn.Merchant,
				}); ok {
					category, rule = matched.TargetCategoryID, matched.ID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", txn.ID, txn.Description, category, rule)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, id := range matcher.Skipped() {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped rule %s: invalid pattern\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "path to the rules JSON file")
	cmd.Flags().StringVar(&transactionsPath, "transactions", "", "path to the transactions JSON file")
	_ = cmd.MarkFlagRequired("rules")
	_ = cmd.MarkFlagRequired("transactions")

	return cmd
}

func reorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Print the priorities for a rule order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seen := make(map[string]struct{}, len(args))
			for _, id := range args {
				if _, dup := seen[id]; dup {
					return fmt.Errorf("rule %s listed twice", id)
				}
				seen[id] = struct{}{}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RULE\tPRIORITY")
			for _, assignment := range rulematch.Reorder(args) {
				fmt.Fprintf(w, "%s\t%d\n", assignment.ID, assignment.Priority)
			}
			return w.Flush()
		},
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func toRules(files []ruleFile) []rulematch.Rule {
	rules := make([]rulematch.Rule, len(files))
	for i, f := range files {
		enabled := true
		if f.Enabled != nil {
			enabled = *f.Enabled
		}
		rules[i] = rulematch.Rule{
			ID:               f.ID,
			Name:             f.Name,
			Pattern:          f.Pattern,
			TargetCategoryID: f.CategoryID,
			Priority:         f.Priority,
			Enabled:          enabled,
		}
	}
	return rules
}
