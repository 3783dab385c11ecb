// Package config builds engine and reporter configurations from CLI inputs.
package config

import (
	"github.com/shopspring/decimal"

	"bank-ledger-reconciler/internal/matcher"
	"bank-ledger-reconciler/internal/reporter"
)

// CreateMatchParameters creates match parameters with the specified CLI overrides
func CreateMatchParameters(amountTolerance float64, dateTolerance int, useDescription, useDateRange bool, minConfidence float64) *matcher.MatchParameters {
	params := matcher.DefaultMatchParameters()

	params.AmountTolerance = decimal.NewFromFloat(amountTolerance)
	params.DateRangeToleranceDays = dateTolerance
	params.UseDescriptionMatching = useDescription
	params.UseDateRangeMatching = useDateRange
	params.MinConfidence = minConfidence

	return params
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
	case "json":
		config.Format = reporter.FormatJSON
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
	}

	return config
}
