package matcher

import (
	"bank-ledger-reconciler/internal/models"
)

// MatchCandidate is an ephemeral scored (bank, ledger) pairing considered
// during one reconciliation run. BankIdx and LedgerIdx are dense positions
// into the run's input slices, assigned once per run so the resolver can
// track commitments with plain boolean arrays instead of hash sets.
type MatchCandidate struct {
	BankIdx    int
	LedgerIdx  int
	Confidence float64
	Method     MatchMethod
	IsExact    bool
}

// generateCandidates builds the full candidate list for one run.
//
// Every (bank, ledger) pair is first filtered on the cheap amount-tolerance
// check; survivors are scored and kept only when confidence clears the
// acceptance threshold. The loop is intentionally O(B*L): reconciliation
// batches are bounded by a single statement period, typically tens to low
// hundreds of transactions per side.
func generateCandidates(bank []models.BankTransaction, ledger []models.LedgerTransaction, params *MatchParameters) []MatchCandidate {
	var candidates []MatchCandidate
	threshold := params.threshold()

	for bi := range bank {
		bt := &bank[bi]
		for li := range ledger {
			lt := &ledger[li]

			if bt.Amount.Sub(lt.Amount).Abs().GreaterThan(params.AmountTolerance) {
				continue
			}

			confidence := ConfidenceScore(bt, lt, params)
			if confidence < threshold {
				continue
			}

			candidates = append(candidates, MatchCandidate{
				BankIdx:    bi,
				LedgerIdx:  li,
				Confidence: confidence,
				Method:     DetermineMethod(bt, lt, confidence),
				IsExact:    IsExactMatch(bt, lt, params.AmountTolerance),
			})
		}
	}

	return candidates
}
