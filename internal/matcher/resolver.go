package matcher

import (
	"sort"

	"bank-ledger-reconciler/pkg/errors"
)

// assignment is the conflict-free subset of candidates selected by the
// resolver, expressed as dense input indexes.
type assignment struct {
	committed       []MatchCandidate
	bankCommitted   []bool
	ledgerCommitted []bool
}

// candidateLess is the single comparator that defines global assignment
// priority. Multi-key tie-break, in order:
//  1. exact-flagged candidates outrank fuzzy ones regardless of raw confidence
//  2. higher confidence wins within a tier
//  3. equal (isExact, confidence) keeps generation order, via the stable sort
//
// Keeping the ordering in one named function keeps the determinism contract
// provable and testable in isolation.
func candidateLess(a, b MatchCandidate) bool {
	if a.IsExact != b.IsExact {
		return a.IsExact
	}
	return a.Confidence > b.Confidence
}

// resolveAssignments selects a conflict-free one-to-one subset of the
// candidate list.
//
// This is a priority greedy pass, not optimal bipartite assignment: match
// quality is dominated by the exact/fuzzy tier and batches are small, so the
// greedy walk converges to the optimal pairing whenever exact matches exist.
// The candidate slice is sorted in place.
func resolveAssignments(candidates []MatchCandidate, bankCount, ledgerCount int) (*assignment, error) {
	// Stable sort preserves generation order between equal candidates, which
	// makes results reproducible across runs on identical input order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidateLess(candidates[i], candidates[j])
	})

	result := &assignment{
		bankCommitted:   make([]bool, bankCount),
		ledgerCommitted: make([]bool, ledgerCount),
	}

	for _, cand := range candidates {
		if result.bankCommitted[cand.BankIdx] || result.ledgerCommitted[cand.LedgerIdx] {
			// Skipped candidates are never reconsidered.
			continue
		}

		result.bankCommitted[cand.BankIdx] = true
		result.ledgerCommitted[cand.LedgerIdx] = true
		result.committed = append(result.committed, cand)
	}

	if err := result.verify(); err != nil {
		return nil, err
	}

	return result, nil
}

// verify checks the one-to-one post-condition: no bank or ledger index
// appears in more than one committed pair. A violation signals a resolver
// bug and is fatal; silently dropping one of the pairs would lose a money
// movement.
func (a *assignment) verify() error {
	bankSeen := make([]bool, len(a.bankCommitted))
	ledgerSeen := make([]bool, len(a.ledgerCommitted))

	for _, cand := range a.committed {
		if bankSeen[cand.BankIdx] {
			return errors.ReconciliationError(
				errors.CodeDuplicateCommitment,
				"assignment resolution",
				nil,
			).WithContext("bank_index", cand.BankIdx)
		}
		if ledgerSeen[cand.LedgerIdx] {
			return errors.ReconciliationError(
				errors.CodeDuplicateCommitment,
				"assignment resolution",
				nil,
			).WithContext("ledger_index", cand.LedgerIdx)
		}
		bankSeen[cand.BankIdx] = true
		ledgerSeen[cand.LedgerIdx] = true
	}

	return nil
}
