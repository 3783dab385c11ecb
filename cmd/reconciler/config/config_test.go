package config

import (
	"testing"

	"bank-ledger-reconciler/internal/reporter"

	"github.com/shopspring/decimal"
)

func TestCreateMatchParameters(t *testing.T) {
	params := CreateMatchParameters(0.05, 3, false, true, 0.7)

	if !params.AmountTolerance.Equal(decimal.NewFromFloat(0.05)) {
		t.Errorf("AmountTolerance = %s", params.AmountTolerance)
	}
	if params.DateRangeToleranceDays != 3 {
		t.Errorf("DateRangeToleranceDays = %d", params.DateRangeToleranceDays)
	}
	if params.UseDescriptionMatching {
		t.Error("expected description matching disabled")
	}
	if !params.UseDateRangeMatching {
		t.Error("expected date range matching enabled")
	}
	if params.MinConfidence != 0.7 {
		t.Errorf("MinConfidence = %v", params.MinConfidence)
	}

	if err := params.Validate(); err != nil {
		t.Errorf("expected valid parameters: %v", err)
	}
}

func TestCreateReportConfig(t *testing.T) {
	tests := []struct {
		format string
		want   reporter.OutputFormat
	}{
		{"console", reporter.FormatConsole},
		{"json", reporter.FormatJSON},
		{"csv", reporter.FormatCSV},
		{"unknown", reporter.FormatConsole},
	}

	for _, tt := range tests {
		config := CreateReportConfig(tt.format)
		if config.Format != tt.want {
			t.Errorf("CreateReportConfig(%q).Format = %s, want %s", tt.format, config.Format, tt.want)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config for %q: %v", tt.format, err)
		}
	}
}
