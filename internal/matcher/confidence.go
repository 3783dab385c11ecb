package matcher

import (
	"math"
	"time"

	"bank-ledger-reconciler/internal/models"

	"github.com/shopspring/decimal"
)

// amountPenaltySlope is the per-unit linear penalty on amount difference.
// The amount factor reaches zero at a 0.10 difference.
const amountPenaltySlope = 10.0

// exactAmountEpsilon is the amount difference below which the strict
// exact-match criteria treat two amounts as identical.
var exactAmountEpsilon = decimal.NewFromFloat(0.01)

// ConfidenceScore computes the weighted confidence score in [0, 1] for a
// (bank, ledger) candidate pair.
//
// The score is a weighted sum of up to three factors: amount closeness
// (always included), date closeness (when date-range matching is enabled) and
// description similarity (when description matching is enabled). Disabled
// factors contribute zero; the sum is NOT renormalized, so disabling a factor
// lowers the achievable ceiling.
func ConfidenceScore(bank *models.BankTransaction, ledger *models.LedgerTransaction, params *MatchParameters) float64 {
	score := amountScore(bank.Amount, ledger.Amount) * amountWeight

	if params.UseDateRangeMatching {
		score += dateScore(bank.Date, ledger.Date, params.DateRangeToleranceDays) * dateWeight
	}

	if params.UseDescriptionMatching {
		score += DescriptionSimilarity(bank.Description, ledger.Description) * descriptionWeight
	}

	return score
}

// amountScore is 1.0 for exactly equal amounts, decaying linearly with the
// absolute difference and reaching zero at a 0.10 gap.
func amountScore(bankAmount, ledgerAmount decimal.Decimal) float64 {
	if bankAmount.Equal(ledgerAmount) {
		return 1.0
	}

	difference := bankAmount.Sub(ledgerAmount).Abs().InexactFloat64()
	return math.Max(0, 1.0-difference*amountPenaltySlope)
}

// dateScore decays by 0.1 per calendar day of separation, and is zero beyond
// the configured tolerance.
func dateScore(bankDate, ledgerDate time.Time, toleranceDays int) float64 {
	days := models.DaysBetween(bankDate, ledgerDate)
	if days > toleranceDays {
		return 0
	}
	return math.Max(0, 1.0-float64(days)*0.1)
}

// IsExactMatch independently checks the strict exact-match criteria: amount
// difference within tolerance, same calendar date, and description similarity
// of at least 0.8. Used for assignment priority ordering, not for acceptance.
func IsExactMatch(bank *models.BankTransaction, ledger *models.LedgerTransaction, amountTolerance decimal.Decimal) bool {
	if bank.Amount.Sub(ledger.Amount).Abs().GreaterThan(amountTolerance) {
		return false
	}

	if !models.SameCalendarDate(bank.Date, ledger.Date) {
		return false
	}

	return DescriptionSimilarity(bank.Description, ledger.Description) >= exactDescriptionThreshold
}

// DetermineMethod classifies a candidate pair. A pair is exact when it meets
// the strict amount/date/description criteria, or when raw confidence alone
// is near-certain; everything else accepted is fuzzy.
func DetermineMethod(bank *models.BankTransaction, ledger *models.LedgerTransaction, confidence float64) MatchMethod {
	if confidence >= exactConfidenceThreshold {
		return MethodExact
	}

	if bank.Amount.Sub(ledger.Amount).Abs().LessThan(exactAmountEpsilon) &&
		models.SameCalendarDate(bank.Date, ledger.Date) &&
		DescriptionSimilarity(bank.Description, ledger.Description) >= exactDescriptionThreshold {
		return MethodExact
	}

	return MethodFuzzy
}

// matchReasons generates the human-readable factor breakdown for an accepted
// pair, listing which of amount, date and description contributed.
func matchReasons(bank *models.BankTransaction, ledger *models.LedgerTransaction, params *MatchParameters) []string {
	var reasons []string

	if bank.Amount.Equal(ledger.Amount) {
		reasons = append(reasons, "exact amount match")
	} else if s := amountScore(bank.Amount, ledger.Amount); s > 0 {
		reasons = append(reasons, "amount within tolerance")
	}

	if params.UseDateRangeMatching {
		if models.SameCalendarDate(bank.Date, ledger.Date) {
			reasons = append(reasons, "same date")
		} else if models.DaysBetween(bank.Date, ledger.Date) <= params.DateRangeToleranceDays {
			reasons = append(reasons, "date within tolerance")
		}
	}

	if params.UseDescriptionMatching {
		if sim := DescriptionSimilarity(bank.Description, ledger.Description); sim >= 1.0 {
			reasons = append(reasons, "identical description")
		} else if sim >= exactDescriptionThreshold {
			reasons = append(reasons, "similar description")
		} else if sim > 0 {
			reasons = append(reasons, "partial description overlap")
		}
	}

	return reasons
}
