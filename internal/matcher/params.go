// Package matcher implements the reconciliation matching engine.
//
// The engine pairs bank-reported transactions against internally recorded
// ledger transactions for one account over a statement period, producing a
// best-effort one-to-one pairing plus the residual unmatched items on both
// sides.
//
// The matching pipeline has four stages:
//  1. Candidate generation: every (bank, ledger) pair that survives a cheap
//     amount-tolerance prefilter is scored for confidence
//  2. Scoring: a weighted blend of amount closeness, date closeness, and
//     description similarity
//  3. Global assignment: candidates are resolved into a conflict-free
//     one-to-one pairing by a deterministic priority-greedy pass
//  4. Aggregation: summary statistics and residual unmatched sets
//
// Example usage:
//
//	params := matcher.DefaultMatchParameters()
//	params.DateRangeToleranceDays = 3
//
//	engine := matcher.NewMatchingEngine(params)
//	result, err := engine.Reconcile(ctx, bankTxns, ledgerTxns)
package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MatchMethod represents how an accepted pair was matched.
type MatchMethod string

const (
	// MethodExact represents a pair satisfying the strict amount/date/description
	// criteria, or one with near-certain confidence. These pairs usually require
	// no manual review.
	MethodExact MatchMethod = "EXACT"

	// MethodFuzzy represents any accepted pair that is not an exact match.
	// These pairs usually require manual review before acceptance.
	MethodFuzzy MatchMethod = "FUZZY"
)

// String returns the string representation of MatchMethod
func (m MatchMethod) String() string {
	return string(m)
}

// Confidence factor weights. Fixed: amount closeness dominates, with date and
// description splitting the remainder. Disabling a factor zeroes its weight's
// contribution rather than renormalizing, which lowers the achievable ceiling.
const (
	amountWeight      = 0.4
	dateWeight        = 0.3
	descriptionWeight = 0.3
)

// minConfidenceFloor is the absolute acceptance floor for candidate pairs,
// enforced independently of the configured MinConfidence.
const minConfidenceFloor = 0.5

// exactConfidenceThreshold is the raw-confidence level at which a pair is
// classified exact regardless of the strict criteria.
const exactConfidenceThreshold = 0.95

// exactDescriptionThreshold is the minimum description similarity for the
// strict exact-match criteria.
const exactDescriptionThreshold = 0.8

// MatchParameters holds the tunable knobs for one reconciliation run.
//
// Use the provided factory functions for common scenarios:
//   - DefaultMatchParameters(): balanced settings for typical statement periods
//   - StrictMatchParameters(): exact amounts and same-day dates only
//   - RelaxedMatchParameters(): loose tolerances for exploratory matching
type MatchParameters struct {
	// AmountTolerance is the maximum absolute amount difference for a
	// (bank, ledger) pair to be considered at all
	AmountTolerance decimal.Decimal `json:"amount_tolerance"`

	// UseDescriptionMatching enables the description similarity factor
	UseDescriptionMatching bool `json:"use_description_matching"`

	// UseDateRangeMatching enables the date proximity factor
	UseDateRangeMatching bool `json:"use_date_range_matching"`

	// DateRangeToleranceDays is the maximum calendar-day gap that still
	// contributes date score
	DateRangeToleranceDays int `json:"date_range_tolerance_days"`

	// MinConfidence is the minimum confidence score for an accepted pair.
	// Values below 0.5 are still subject to the absolute acceptance floor.
	MinConfidence float64 `json:"min_confidence"`
}

// DefaultMatchParameters returns parameters with sensible defaults
func DefaultMatchParameters() *MatchParameters {
	return &MatchParameters{
		AmountTolerance:        decimal.NewFromFloat(0.01),
		UseDescriptionMatching: true,
		UseDateRangeMatching:   true,
		DateRangeToleranceDays: 2,
		MinConfidence:          0.5,
	}
}

// StrictMatchParameters returns parameters for strict matching
func StrictMatchParameters() *MatchParameters {
	return &MatchParameters{
		AmountTolerance:        decimal.Zero,
		UseDescriptionMatching: true,
		UseDateRangeMatching:   true,
		DateRangeToleranceDays: 0,
		MinConfidence:          0.9,
	}
}

// RelaxedMatchParameters returns parameters for relaxed matching
func RelaxedMatchParameters() *MatchParameters {
	return &MatchParameters{
		AmountTolerance:        decimal.NewFromFloat(0.10),
		UseDescriptionMatching: true,
		UseDateRangeMatching:   true,
		DateRangeToleranceDays: 5,
		MinConfidence:          0.5,
	}
}

// Validate checks if the match parameters are valid
func (p *MatchParameters) Validate() error {
	if p.AmountTolerance.IsNegative() {
		return fmt.Errorf("amount tolerance cannot be negative: %s", p.AmountTolerance.String())
	}

	if p.DateRangeToleranceDays < 0 {
		return fmt.Errorf("date range tolerance days cannot be negative: %d", p.DateRangeToleranceDays)
	}

	if p.MinConfidence < 0.0 || p.MinConfidence > 1.0 {
		return fmt.Errorf("minimum confidence must be between 0.0 and 1.0: %f", p.MinConfidence)
	}

	return nil
}

// Clone creates a deep copy of the match parameters
func (p *MatchParameters) Clone() *MatchParameters {
	if p == nil {
		return nil
	}

	return &MatchParameters{
		AmountTolerance:        p.AmountTolerance,
		UseDescriptionMatching: p.UseDescriptionMatching,
		UseDateRangeMatching:   p.UseDateRangeMatching,
		DateRangeToleranceDays: p.DateRangeToleranceDays,
		MinConfidence:          p.MinConfidence,
	}
}

// threshold returns the effective acceptance threshold, never below the
// absolute floor.
func (p *MatchParameters) threshold() float64 {
	if p.MinConfidence > minConfidenceFloor {
		return p.MinConfidence
	}
	return minConfidenceFloor
}

// String returns a human-readable description of the parameters
func (p *MatchParameters) String() string {
	return fmt.Sprintf("MatchParameters{AmountTolerance: %s, Description: %t, DateRange: %t, DateToleranceDays: %d, MinConfidence: %.2f}",
		p.AmountTolerance.String(), p.UseDescriptionMatching, p.UseDateRangeMatching, p.DateRangeToleranceDays, p.MinConfidence)
}
