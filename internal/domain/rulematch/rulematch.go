// Package rulematch evaluates categorization rules against transaction text.
//
// Every function in this package is pure: rules and transactions are passed in as
// snapshots and nothing is retained between calls, so all of them are safe for
// concurrent use.
package rulematch

import (
	"errors"
	"log/slog"
	"regexp"
	"regexp/syntax"
	"sort"
	"strings"
)

// caseInsensitiveFlag is prepended to every pattern before compiling.
const caseInsensitiveFlag = "(?i)"

// ErrInvalidPattern is matched by every error returned for a pattern that does not compile.
var ErrInvalidPattern = errors.New("invalid regular expression pattern")

// InvalidPatternError carries the compiler's reason for rejecting a pattern.
type InvalidPatternError struct {
	Pattern string
	Reason  string
}

func (e *InvalidPatternError) Error() string {
	if e.Reason == "" {
		return ErrInvalidPattern.Error()
	}
	return ErrInvalidPattern.Error() + ": " + e.Reason
}

// Is reports ErrInvalidPattern as the error's kind.
func (e *InvalidPatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// Rule is a single categorization rule.
type Rule struct {
	ID               string
	Name             string
	Description      string
	Pattern          string
	TargetCategoryID string
	Priority         int
	Enabled          bool
}

// Transaction is the matchable projection of a transaction.
// An empty Merchant is treated as absent.
type Transaction struct {
	Description string
	Merchant    string
}

// MatchResult is the outcome of testing one pattern against one text sample.
type MatchResult struct {
	Matches     bool
	MatchedText string
}

// PriorityAssignment is the priority a rule receives after a reorder.
type PriorityAssignment struct {
	ID       string
	Priority int
}

// isInert reports whether the pattern is empty or whitespace only.
func isInert(pattern string) bool {
	return strings.TrimSpace(pattern) == ""
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(caseInsensitiveFlag + pattern)
	if err != nil {
		reason := err.Error()
		var syntaxErr *syntax.Error
		if errors.As(err, &syntaxErr) {
			reason = string(syntaxErr.Code)
			if expr := strings.TrimPrefix(syntaxErr.Expr, caseInsensitiveFlag); expr != "" {
				reason += ": `" + expr + "`"
			}
		}
		return nil, &InvalidPatternError{Pattern: pattern, Reason: reason}
	}
	return re, nil
}

// ValidatePattern checks that pattern compiles. Empty or whitespace-only patterns
// are accepted: they are inert and never match anything.
func ValidatePattern(pattern string) error {
	if isInert(pattern) {
		return nil
	}
	_, err := compile(pattern)
	return err
}

// TestPattern runs pattern against sampleText and reports the leftmost match.
// Matching is case-insensitive and the matched text keeps the sample's casing.
func TestPattern(pattern, sampleText string) (MatchResult, error) {
	p, err := CompilePattern(pattern)
	if err != nil {
		return MatchResult{}, err
	}
	return p.Find(sampleText), nil
}

// Pattern is a compiled pattern for testing many samples.
type Pattern struct {
	re *regexp.Regexp // nil when the pattern is inert
}

// CompilePattern compiles pattern with the same rules as TestPattern.
func CompilePattern(pattern string) (*Pattern, error) {
	if isInert(pattern) {
		return &Pattern{}, nil
	}
	re, err := compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Pattern{re: re}, nil
}

// Find reports the leftmost match of the pattern in text.
func (p *Pattern) Find(text string) MatchResult {
	if p.re == nil {
		return MatchResult{}
	}
	loc := p.re.FindStringIndex(text)
	if loc == nil {
		return MatchResult{}
	}
	return MatchResult{Matches: true, MatchedText: text[loc[0]:loc[1]]}
}

// Classify returns the target category of the first enabled rule, in ascending
// priority order, whose pattern matches the transaction's description or merchant.
// Rules sharing a priority keep their order in the supplied slice. Rules with an
// invalid pattern are skipped.
func Classify(txn Transaction, rules []Rule) (string, bool) {
	return Compile(rules).Classify(txn)
}

// Reorder maps an ordered list of rule IDs to priorities equal to their position.
func Reorder(ids []string) []PriorityAssignment {
	assignments := make([]PriorityAssignment, len(ids))
	for i, id := range ids {
		assignments[i] = PriorityAssignment{ID: id, Priority: i}
	}
	return assignments
}

// Order returns the enabled rules sorted by ascending priority, ties kept in input order.
// The input slice is not modified.
func Order(rules []Rule) []Rule {
	ordered := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Enabled {
			ordered = append(ordered, rule)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Matcher is a rule snapshot with every pattern compiled once. It is immutable
// after Compile and may be shared between goroutines.
type Matcher struct {
	rules   []compiledRule
	skipped []string
}

// Compile orders the enabled rules and compiles their patterns. Rules whose
// pattern is inert are dropped; rules whose pattern does not compile are
// recorded as skipped and logged.
func Compile(rules []Rule) *Matcher {
	ordered := Order(rules)
	m := &Matcher{rules: make([]compiledRule, 0, len(ordered))}
	for _, rule := range ordered {
		if isInert(rule.Pattern) {
			continue
		}
		re, err := compile(rule.Pattern)
		if err != nil {
			slog.Warn("Skipping rule with invalid pattern",
				"rule_id", rule.ID,
				"pattern", rule.Pattern,
				"error", err,
			)
			m.skipped = append(m.skipped, rule.ID)
			continue
		}
		m.rules = append(m.rules, compiledRule{rule: rule, re: re})
	}
	return m
}

// Classify returns the target category of the first matching rule.
func (m *Matcher) Classify(txn Transaction) (string, bool) {
	rule, ok := m.Match(txn)
	if !ok {
		return "", false
	}
	return rule.TargetCategoryID, true
}

// Match returns the first rule matching the transaction's description, then merchant.
func (m *Matcher) Match(txn Transaction) (Rule, bool) {
	for _, cr := range m.rules {
		if cr.re.MatchString(txn.Description) {
			return cr.rule, true
		}
		if txn.Merchant != "" && cr.re.MatchString(txn.Merchant) {
			return cr.rule, true
		}
	}
	return Rule{}, false
}

// Skipped returns the IDs of rules left out because their pattern did not compile.
func (m *Matcher) Skipped() []string {
	out := make([]string, len(m.skipped))
	copy(out, m.skipped)
	return out
}

// Len returns the number of rules the matcher evaluates.
func (m *Matcher) Len() int {
	return len(m.rules)
}
