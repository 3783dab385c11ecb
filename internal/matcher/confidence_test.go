package matcher

import (
	"math"
	"testing"
	"time"

	"bank-ledger-reconciler/internal/models"

	"github.com/shopspring/decimal"
)

func makeBankTxn(amount string, date time.Time, description string) *models.BankTransaction {
	d, _ := decimal.NewFromString(amount)
	return models.NewBankTransaction("B1", d, date, description)
}

func makeLedgerTxn(amount string, date time.Time, description string) *models.LedgerTransaction {
	d, _ := decimal.NewFromString(amount)
	return models.NewLedgerTransaction(1, d, date, description, models.LedgerStatusPending)
}

var testDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func TestConfidenceScore_PerfectMatch(t *testing.T) {
	bank := makeBankTxn("-42.50", testDate, "COFFEE SHOP")
	ledger := makeLedgerTxn("-42.50", testDate, "COFFEE SHOP")

	score := ConfidenceScore(bank, ledger, DefaultMatchParameters())
	if math.Abs(score-1.0) > 1e-9 {
		t.Errorf("expected confidence 1.0 for identical pair, got %v", score)
	}
}

func TestConfidenceScore_AmountOnly(t *testing.T) {
	// Equal amounts, date out of tolerance, disjoint descriptions: only the
	// amount factor contributes.
	bank := makeBankTxn("100.00", testDate, "COFFEE SHOP")
	ledger := makeLedgerTxn("100.00", testDate.AddDate(0, 0, 10), "HARDWARE STORE")

	score := ConfidenceScore(bank, ledger, DefaultMatchParameters())
	if math.Abs(score-0.4) > 1e-9 {
		t.Errorf("expected confidence 0.4, got %v", score)
	}
}

func TestConfidenceScore_DisabledFactorsLowerCeiling(t *testing.T) {
	bank := makeBankTxn("100.00", testDate, "COFFEE SHOP")
	ledger := makeLedgerTxn("100.00", testDate, "COFFEE SHOP")

	params := DefaultMatchParameters()
	params.UseDescriptionMatching = false

	score := ConfidenceScore(bank, ledger, params)
	if math.Abs(score-0.7) > 1e-9 {
		t.Errorf("expected confidence 0.7 with description disabled, got %v", score)
	}

	params.UseDateRangeMatching = false
	score = ConfidenceScore(bank, ledger, params)
	if math.Abs(score-0.4) > 1e-9 {
		t.Errorf("expected confidence 0.4 with both optional factors disabled, got %v", score)
	}
}

func TestAmountScore(t *testing.T) {
	tests := []struct {
		name   string
		bank   string
		ledger string
		want   float64
	}{
		{"equal", "100.00", "100.00", 1.0},
		{"equal with trailing zeros", "100.0", "100.00", 1.0},
		{"five cents apart", "100.05", "100.00", 0.5},
		{"nine cents apart", "100.09", "100.00", 0.1},
		{"ten cents apart", "100.10", "100.00", 0.0},
		{"one dollar apart", "101.00", "100.00", 0.0},
		{"sign matters", "100.00", "-100.00", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := decimal.NewFromString(tt.bank)
			l, _ := decimal.NewFromString(tt.ledger)
			got := amountScore(b, l)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("amountScore(%s, %s) = %v, want %v", tt.bank, tt.ledger, got, tt.want)
			}
		})
	}
}

func TestDateScore(t *testing.T) {
	tests := []struct {
		name      string
		daysApart int
		tolerance int
		want      float64
	}{
		{"same day", 0, 2, 1.0},
		{"one day", 1, 2, 0.9},
		{"two days at tolerance edge", 2, 2, 0.8},
		{"beyond tolerance", 3, 2, 0.0},
		{"zero tolerance same day", 0, 0, 1.0},
		{"zero tolerance one day", 1, 0, 0.0},
		{"wide tolerance far apart", 7, 10, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dateScore(testDate, testDate.AddDate(0, 0, tt.daysApart), tt.tolerance)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("dateScore(%d days, tolerance %d) = %v, want %v", tt.daysApart, tt.tolerance, got, tt.want)
			}
		})
	}
}

func TestDateScore_TimeOfDayIgnored(t *testing.T) {
	morning := time.Date(2024, 3, 15, 1, 0, 0, 0, time.UTC)
	night := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)

	if got := dateScore(morning, night, 2); got != 1.0 {
		t.Errorf("expected 1.0 for same calendar date, got %v", got)
	}
}

func TestIsExactMatch(t *testing.T) {
	tolerance := decimal.NewFromFloat(0.01)

	tests := []struct {
		name   string
		bank   *models.BankTransaction
		ledger *models.LedgerTransaction
		want   bool
	}{
		{
			"identical",
			makeBankTxn("50.00", testDate, "COFFEE SHOP"),
			makeLedgerTxn("50.00", testDate, "COFFEE SHOP"),
			true,
		},
		{
			"amount at tolerance edge",
			makeBankTxn("50.01", testDate, "COFFEE SHOP"),
			makeLedgerTxn("50.00", testDate, "COFFEE SHOP"),
			true,
		},
		{
			"amount over tolerance",
			makeBankTxn("50.02", testDate, "COFFEE SHOP"),
			makeLedgerTxn("50.00", testDate, "COFFEE SHOP"),
			false,
		},
		{
			"different calendar date",
			makeBankTxn("50.00", testDate.AddDate(0, 0, 1), "COFFEE SHOP"),
			makeLedgerTxn("50.00", testDate, "COFFEE SHOP"),
			false,
		},
		{
			"containment similarity passes",
			makeBankTxn("50.00", testDate, "EFTPOS COFFEE SHOP DOWNTOWN"),
			makeLedgerTxn("50.00", testDate, "COFFEE SHOP DOWNTOWN"),
			true,
		},
		{
			"weak description overlap fails",
			makeBankTxn("50.00", testDate, "ACME STORE DOWNTOWN"),
			makeLedgerTxn("50.00", testDate, "ACME MARKET"),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExactMatch(tt.bank, tt.ledger, tolerance); got != tt.want {
				t.Errorf("IsExactMatch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetermineMethod(t *testing.T) {
	tests := []struct {
		name       string
		bank       *models.BankTransaction
		ledger     *models.LedgerTransaction
		confidence float64
		want       MatchMethod
	}{
		{
			"high confidence alone",
			makeBankTxn("50.00", testDate, "A"),
			makeLedgerTxn("50.00", testDate.AddDate(0, 0, 1), "B"),
			0.95,
			MethodExact,
		},
		{
			"strict criteria with moderate confidence",
			makeBankTxn("50.00", testDate, "COFFEE SHOP"),
			makeLedgerTxn("50.00", testDate, "COFFEE SHOP"),
			0.80,
			MethodExact,
		},
		{
			"amount gap at epsilon is not strict-exact",
			makeBankTxn("50.01", testDate, "COFFEE SHOP"),
			makeLedgerTxn("50.00", testDate, "COFFEE SHOP"),
			0.80,
			MethodFuzzy,
		},
		{
			"moderate confidence different date",
			makeBankTxn("50.00", testDate.AddDate(0, 0, 1), "COFFEE SHOP"),
			makeLedgerTxn("50.00", testDate, "COFFEE SHOP"),
			0.90,
			MethodFuzzy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineMethod(tt.bank, tt.ledger, tt.confidence); got != tt.want {
				t.Errorf("DetermineMethod = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchReasons(t *testing.T) {
	params := DefaultMatchParameters()

	bank := makeBankTxn("50.00", testDate, "COFFEE SHOP")
	ledger := makeLedgerTxn("50.00", testDate, "COFFEE SHOP")

	reasons := matchReasons(bank, ledger, params)
	want := []string{"exact amount match", "same date", "identical description"}
	if len(reasons) != len(want) {
		t.Fatalf("expected %d reasons, got %v", len(want), reasons)
	}
	for i := range want {
		if reasons[i] != want[i] {
			t.Errorf("reason[%d] = %q, want %q", i, reasons[i], want[i])
		}
	}
}

func TestMatchReasons_DisabledFactorsOmitted(t *testing.T) {
	params := DefaultMatchParameters()
	params.UseDateRangeMatching = false
	params.UseDescriptionMatching = false

	bank := makeBankTxn("50.00", testDate, "COFFEE SHOP")
	ledger := makeLedgerTxn("50.00", testDate, "COFFEE SHOP")

	reasons := matchReasons(bank, ledger, params)
	if len(reasons) != 1 || reasons[0] != "exact amount match" {
		t.Errorf("expected only the amount reason, got %v", reasons)
	}
}
