package matcher

import (
	"context"
	"strings"
	"time"

	"bank-ledger-reconciler/internal/models"
	"bank-ledger-reconciler/pkg/errors"
	"bank-ledger-reconciler/pkg/logger"
)

// MatchingEngine pairs bank transactions against ledger transactions for one
// account's statement period. The engine is a pure function of its inputs: it
// never mutates them, persists nothing, and returns an identical result when
// called twice on identical input order.
type MatchingEngine struct {
	Params *MatchParameters
	logger logger.Logger
}

// MatchedPair is one committed pairing in the final result
type MatchedPair struct {
	Bank       models.BankTransaction   `json:"bank_transaction"`
	Ledger     models.LedgerTransaction `json:"ledger_transaction"`
	Confidence float64                  `json:"confidence"`
	Method     MatchMethod              `json:"method"`
	Reason     string                   `json:"reason"`
}

// MatchingResult is the complete output of one reconciliation run
type MatchingResult struct {
	Matched         []MatchedPair                    `json:"matched"`
	UnmatchedBank   []models.BankTransaction         `json:"unmatched_bank"`
	UnmatchedLedger []models.LedgerTransactionDetail `json:"unmatched_ledger"`
	Summary         MatchSummary                     `json:"summary"`
}

// MatchSummary provides aggregate statistics about the reconciliation
type MatchSummary struct {
	TotalBank              int     `json:"total_bank"`
	TotalLedger            int     `json:"total_ledger"`
	MatchedCount           int     `json:"matched_count"`
	ExactCount             int     `json:"exact_count"`
	FuzzyCount             int     `json:"fuzzy_count"`
	UnmatchedBankCount     int     `json:"unmatched_bank_count"`
	UnmatchedLedgerCount   int     `json:"unmatched_ledger_count"`
	OverallMatchPercentage float64 `json:"overall_match_percentage"`
}

// NewMatchingEngine creates a new matching engine with the specified parameters
func NewMatchingEngine(params *MatchParameters) *MatchingEngine {
	if params == nil {
		params = DefaultMatchParameters()
	}

	return &MatchingEngine{
		Params: params,
		logger: logger.GetGlobalLogger().WithComponent("matching_engine"),
	}
}

// Reconcile performs one complete reconciliation run.
//
// Degenerate inputs (empty bank list, empty ledger list, no candidates above
// threshold) are normal outcomes and return a complete result with both lists
// fully represented in the unmatched sets. The only error paths are invalid
// parameters, context cancellation, and the resolver's internal-consistency
// check.
func (me *MatchingEngine) Reconcile(ctx context.Context, bank []models.BankTransaction, ledger []models.LedgerTransaction) (*MatchingResult, error) {
	if err := me.Params.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidParameters, "match_parameters", me.Params, err)
	}

	start := time.Now()
	me.logger.WithFields(logger.Fields{
		"bank_count":   len(bank),
		"ledger_count": len(ledger),
	}).Info("Starting reconciliation run")

	candidates := generateCandidates(bank, ledger, me.Params)
	me.logger.WithField("candidate_count", len(candidates)).Debug("Candidate generation complete")

	// Cancellation is coarse-grained: resolution is one linear pass, so the
	// only useful checkpoint is between generation and resolution.
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryReconciliation, errors.CodeProcessingError, "reconciliation cancelled")
	}

	assigned, err := resolveAssignments(candidates, len(bank), len(ledger))
	if err != nil {
		me.logger.WithError(err).Error("Assignment resolution failed internal consistency check")
		return nil, err
	}

	result := me.aggregate(bank, ledger, assigned)

	me.logger.WithFields(logger.Fields{
		"matched":          result.Summary.MatchedCount,
		"exact":            result.Summary.ExactCount,
		"fuzzy":            result.Summary.FuzzyCount,
		"unmatched_bank":   result.Summary.UnmatchedBankCount,
		"unmatched_ledger": result.Summary.UnmatchedLedgerCount,
		"elapsed":          time.Since(start),
	}).Info("Reconciliation run complete")

	return result, nil
}

// aggregate assembles the final report from the committed assignment
func (me *MatchingEngine) aggregate(bank []models.BankTransaction, ledger []models.LedgerTransaction, assigned *assignment) *MatchingResult {
	result := &MatchingResult{
		Matched:         make([]MatchedPair, 0, len(assigned.committed)),
		UnmatchedBank:   []models.BankTransaction{},
		UnmatchedLedger: []models.LedgerTransactionDetail{},
	}

	for _, cand := range assigned.committed {
		bt := bank[cand.BankIdx]
		lt := ledger[cand.LedgerIdx]

		result.Matched = append(result.Matched, MatchedPair{
			Bank:       bt,
			Ledger:     lt,
			Confidence: cand.Confidence,
			Method:     cand.Method,
			Reason:     strings.Join(matchReasons(&bt, &lt, me.Params), "; "),
		})

		switch cand.Method {
		case MethodExact:
			result.Summary.ExactCount++
		case MethodFuzzy:
			result.Summary.FuzzyCount++
		}
	}

	for i := range bank {
		if !assigned.bankCommitted[i] {
			result.UnmatchedBank = append(result.UnmatchedBank, bank[i])
		}
	}

	for i := range ledger {
		if !assigned.ledgerCommitted[i] {
			result.UnmatchedLedger = append(result.UnmatchedLedger, ledger[i].Detail())
		}
	}

	result.Summary.TotalBank = len(bank)
	result.Summary.TotalLedger = len(ledger)
	result.Summary.MatchedCount = len(result.Matched)
	result.Summary.UnmatchedBankCount = len(result.UnmatchedBank)
	result.Summary.UnmatchedLedgerCount = len(result.UnmatchedLedger)
	result.Summary.OverallMatchPercentage = matchPercentage(result.Summary.MatchedCount, len(bank), len(ledger))

	return result
}

// matchPercentage is the share of all input transactions (both sides) that
// ended up in a committed pair, as a percentage. Zero when there is no input.
func matchPercentage(matched, totalBank, totalLedger int) float64 {
	denominator := totalBank + totalLedger
	if denominator == 0 {
		return 0
	}
	return float64(matched*2) / float64(denominator) * 100
}

// GetParameters returns a copy of the current match parameters
func (me *MatchingEngine) GetParameters() *MatchParameters {
	return me.Params.Clone()
}

// UpdateParameters replaces the match parameters after validating them
func (me *MatchingEngine) UpdateParameters(params *MatchParameters) error {
	if err := params.Validate(); err != nil {
		return errors.ConfigurationError(errors.CodeInvalidParameters, "match_parameters", params, err)
	}

	me.Params = params.Clone()
	return nil
}
