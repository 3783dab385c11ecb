// Package reporter renders reconciliation match reports in multiple formats.
//
// Supported output formats:
//   - Console: human-readable tabular output for terminal display
//   - JSON: structured data format for programmatic consumption
//   - CSV: comma-separated format for spreadsheet applications
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"bank-ledger-reconciler/internal/matcher"
	"bank-ledger-reconciler/internal/models"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	// Output format
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeMatchedPairs    bool `json:"include_matched_pairs"`
	IncludeUnmatchedBank   bool `json:"include_unmatched_bank"`
	IncludeUnmatchedLedger bool `json:"include_unmatched_ledger"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:                 FormatConsole,
		IncludeMatchedPairs:    true,
		IncludeUnmatchedBank:   true,
		IncludeUnmatchedLedger: true,
		CSVDelimiter:           ',',
		CSVHeaders:             true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}

	if c.CSVDelimiter == 0 {
		return fmt.Errorf("csv delimiter cannot be empty")
	}

	return nil
}

// ReportGenerator generates match reports in various formats
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{
		config: config,
	}, nil
}

// GenerateReport renders the match result and writes it to the provided writer
func (rg *ReportGenerator) GenerateReport(result *matcher.MatchingResult, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("matching result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(result, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, writer)
	case FormatCSV:
		return rg.generateCSVReport(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// generateConsoleReport generates a human-readable console report
func (rg *ReportGenerator) generateConsoleReport(result *matcher.MatchingResult, writer io.Writer) error {
	fmt.Fprintf(writer, "RECONCILIATION MATCH REPORT\n\n")

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	rg.printSummary(result.Summary, writer)
	fmt.Fprintf(writer, "\n")

	if rg.config.IncludeMatchedPairs && len(result.Matched) > 0 {
		fmt.Fprintf(writer, "=== MATCHED PAIRS (%d) ===\n", len(result.Matched))
		for _, pair := range result.Matched {
			fmt.Fprintf(writer, "  [%s] bank %s <-> ledger %d  %s on %s (confidence %.2f)\n",
				pair.Method, pair.Bank.ID, pair.Ledger.ID,
				pair.Bank.Amount.StringFixed(2), pair.Bank.Date.Format("2006-01-02"),
				pair.Confidence)
			if pair.Reason != "" {
				fmt.Fprintf(writer, "      %s\n", pair.Reason)
			}
		}
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeUnmatchedBank && len(result.UnmatchedBank) > 0 {
		fmt.Fprintf(writer, "=== UNMATCHED BANK TRANSACTIONS (%d) ===\n", len(result.UnmatchedBank))
		for _, bt := range result.UnmatchedBank {
			fmt.Fprintf(writer, "  %s  %s %s on %s  %q\n",
				bt.ID, bt.Amount.StringFixed(2), amountDirection(&bt), bt.Date.Format("2006-01-02"), bt.Description)
		}
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeUnmatchedLedger && len(result.UnmatchedLedger) > 0 {
		fmt.Fprintf(writer, "=== UNMATCHED LEDGER TRANSACTIONS (%d) ===\n", len(result.UnmatchedLedger))
		for _, lt := range result.UnmatchedLedger {
			fmt.Fprintf(writer, "  %d  %s on %s  %q  [%s]\n",
				lt.ID, lt.Amount.StringFixed(2), lt.Date.Format("2006-01-02"), lt.Description, lt.Status)
		}
		fmt.Fprintf(writer, "\n")
	}

	return nil
}

// amountDirection labels a bank amount for display
func amountDirection(bt *models.BankTransaction) string {
	switch {
	case bt.IsDebit():
		return "(debit)"
	case bt.IsCredit():
		return "(credit)"
	default:
		return "(zero)"
	}
}

// printSummary prints the summary statistics table
func (rg *ReportGenerator) printSummary(summary matcher.MatchSummary, writer io.Writer) {
	fmt.Fprintf(writer, "  Bank transactions:      %d\n", summary.TotalBank)
	fmt.Fprintf(writer, "  Ledger transactions:    %d\n", summary.TotalLedger)
	fmt.Fprintf(writer, "  Matched pairs:          %d (exact: %d, fuzzy: %d)\n",
		summary.MatchedCount, summary.ExactCount, summary.FuzzyCount)
	fmt.Fprintf(writer, "  Unmatched bank:         %d\n", summary.UnmatchedBankCount)
	fmt.Fprintf(writer, "  Unmatched ledger:       %d\n", summary.UnmatchedLedgerCount)
	fmt.Fprintf(writer, "  Overall match rate:     %.1f%%\n", summary.OverallMatchPercentage)
}

// generateJSONReport generates a structured JSON report
func (rg *ReportGenerator) generateJSONReport(result *matcher.MatchingResult, writer io.Writer) error {
	output := struct {
		Summary         matcher.MatchSummary `json:"summary"`
		Matched         interface{}          `json:"matched,omitempty"`
		UnmatchedBank   interface{}          `json:"unmatched_bank,omitempty"`
		UnmatchedLedger interface{}          `json:"unmatched_ledger,omitempty"`
	}{
		Summary: result.Summary,
	}

	if rg.config.IncludeMatchedPairs {
		output.Matched = result.Matched
	}
	if rg.config.IncludeUnmatchedBank {
		output.UnmatchedBank = result.UnmatchedBank
	}
	if rg.config.IncludeUnmatchedLedger {
		output.UnmatchedLedger = result.UnmatchedLedger
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// generateCSVReport generates a CSV report with one row per transaction,
// matched pairs first, then unmatched items on both sides
func (rg *ReportGenerator) generateCSVReport(result *matcher.MatchingResult, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		header := []string{"record_type", "bank_id", "ledger_id", "amount", "date", "description", "method", "confidence", "reason"}
		if err := csvWriter.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}

	if rg.config.IncludeMatchedPairs {
		for _, pair := range result.Matched {
			row := []string{
				"matched",
				pair.Bank.ID,
				strconv.FormatInt(pair.Ledger.ID, 10),
				pair.Bank.Amount.StringFixed(2),
				pair.Bank.Date.Format("2006-01-02"),
				pair.Bank.Description,
				pair.Method.String(),
				strconv.FormatFloat(pair.Confidence, 'f', 4, 64),
				pair.Reason,
			}
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write matched pair row: %w", err)
			}
		}
	}

	if rg.config.IncludeUnmatchedBank {
		for _, bt := range result.UnmatchedBank {
			row := []string{
				"unmatched_bank",
				bt.ID,
				"",
				bt.Amount.StringFixed(2),
				bt.Date.Format("2006-01-02"),
				bt.Description,
				"", "", "",
			}
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write unmatched bank row: %w", err)
			}
		}
	}

	if rg.config.IncludeUnmatchedLedger {
		for _, lt := range result.UnmatchedLedger {
			row := []string{
				"unmatched_ledger",
				"",
				strconv.FormatInt(lt.ID, 10),
				lt.Amount.StringFixed(2),
				lt.Date.Format("2006-01-02"),
				lt.Description,
				"", "", "",
			}
			if err := csvWriter.Write(row); err != nil {
				return fmt.Errorf("failed to write unmatched ledger row: %w", err)
			}
		}
	}

	return nil
}
