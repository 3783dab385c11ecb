package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"bank-ledger-reconciler/cmd/reconciler/config"
	"bank-ledger-reconciler/internal/loader"
	"bank-ledger-reconciler/internal/matcher"
	"bank-ledger-reconciler/internal/reporter"
	"bank-ledger-reconciler/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the match command
var (
	bankFile     string
	ledgerFile   string
	outputFormat string
	outputFile   string

	amountTolerance float64
	dateTolerance   int
	useDescription  bool
	useDateRange    bool
	minConfidence   float64
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match bank transactions against ledger transactions",
	Long: `Match compares bank-reported transactions with internally recorded ledger
transactions to produce a conflict-free one-to-one pairing plus the residual
unmatched items on both sides.

This command requires:
- A bank transaction file (JSON array)
- A ledger transaction file (JSON array)

Both files must already be filtered to one account and statement period, and
must not contain duplicate identifiers.

Examples:
  # Basic matching
  reconciler match --bank-file bank.json --ledger-file ledger.json

  # Custom tolerances and output format
  reconciler match --bank-file bank.json --ledger-file ledger.json \
    --amount-tolerance 0.05 --date-tolerance 3 \
    --output-format json --output-file report.json

  # Amount-and-date-only matching
  reconciler match --bank-file bank.json --ledger-file ledger.json \
    --description-matching=false`,

	PreRunE: validateMatchFlags,
	RunE:    runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	// Required flags
	matchCmd.Flags().StringVarP(&bankFile, "bank-file", "b", "", "path to bank transaction JSON file (required)")
	matchCmd.Flags().StringVarP(&ledgerFile, "ledger-file", "l", "", "path to ledger transaction JSON file (required)")

	// Output flags
	matchCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	matchCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Matching parameter flags
	matchCmd.Flags().Float64VarP(&amountTolerance, "amount-tolerance", "a", 0.01, "maximum absolute amount difference for candidate pairs")
	matchCmd.Flags().IntVarP(&dateTolerance, "date-tolerance", "d", 2, "date matching tolerance in days")
	matchCmd.Flags().BoolVar(&useDescription, "description-matching", true, "include description similarity in confidence scoring")
	matchCmd.Flags().BoolVar(&useDateRange, "date-range-matching", true, "include date proximity in confidence scoring")
	matchCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.5, "minimum confidence score for accepted pairs")

	// Mark required flags
	matchCmd.MarkFlagRequired("bank-file")
	matchCmd.MarkFlagRequired("ledger-file")

	// Bind flags to viper
	viper.BindPFlag("bank-file", matchCmd.Flags().Lookup("bank-file"))
	viper.BindPFlag("ledger-file", matchCmd.Flags().Lookup("ledger-file"))
	viper.BindPFlag("output-format", matchCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", matchCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("amount-tolerance", matchCmd.Flags().Lookup("amount-tolerance"))
	viper.BindPFlag("date-tolerance", matchCmd.Flags().Lookup("date-tolerance"))
	viper.BindPFlag("description-matching", matchCmd.Flags().Lookup("description-matching"))
	viper.BindPFlag("date-range-matching", matchCmd.Flags().Lookup("date-range-matching"))
	viper.BindPFlag("min-confidence", matchCmd.Flags().Lookup("min-confidence"))
}

func validateMatchFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	bankFile = viper.GetString("bank-file")
	ledgerFile = viper.GetString("ledger-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	amountTolerance = viper.GetFloat64("amount-tolerance")
	dateTolerance = viper.GetInt("date-tolerance")
	useDescription = viper.GetBool("description-matching")
	useDateRange = viper.GetBool("date-range-matching")
	minConfidence = viper.GetFloat64("min-confidence")

	// Validate required flags
	if bankFile == "" {
		return fmt.Errorf("bank-file is required")
	}
	if ledgerFile == "" {
		return fmt.Errorf("ledger-file is required")
	}

	// Validate file existence
	if err := validateFileExists(bankFile, "bank transaction file"); err != nil {
		return err
	}
	if err := validateFileExists(ledgerFile, "ledger transaction file"); err != nil {
		return err
	}

	// Validate output format
	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	// Validate tolerances
	if amountTolerance < 0 {
		return fmt.Errorf("amount tolerance cannot be negative")
	}
	if dateTolerance < 0 {
		return fmt.Errorf("date tolerance cannot be negative")
	}
	if minConfidence < 0.0 || minConfidence > 1.0 {
		return fmt.Errorf("min confidence must be between 0.0 and 1.0")
	}

	// Validate output file directory exists if specified
	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	errorHandler := NewCLIErrorHandler()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting reconciliation...\n")
		fmt.Fprintf(os.Stderr, "Bank file: %s\n", bankFile)
		fmt.Fprintf(os.Stderr, "Ledger file: %s\n", ledgerFile)
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
	}

	// Load input record sets
	bankTxns, err := loader.LoadBankTransactions(bankFile)
	if err != nil {
		os.Exit(errorHandler.HandleError(err))
	}

	ledgerTxns, err := loader.LoadLedgerTransactions(ledgerFile)
	if err != nil {
		os.Exit(errorHandler.HandleError(err))
	}

	// Build engine parameters from flags
	params := config.CreateMatchParameters(amountTolerance, dateTolerance, useDescription, useDateRange, minConfidence)

	engine := matcher.NewMatchingEngine(params)

	result, err := engine.Reconcile(ctx, bankTxns, ledgerTxns)
	if err != nil {
		os.Exit(errorHandler.HandleError(err))
	}

	// Generate report
	reportConfig := config.CreateReportConfig(outputFormat)
	reportGenerator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	// Determine output destination
	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			os.Exit(errorHandler.HandleError(
				errors.WrapIfNeeded(err, errors.CategoryFile, errors.CodeFilePermission, "failed to create output file")))
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := reportGenerator.GenerateReport(result, output); err != nil {
		os.Exit(errorHandler.HandleError(
			errors.InternalError(errors.CodeUnexpectedError, "report generation", err)))
	}

	// Show completion message
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nReconciliation completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d bank transactions and %d ledger transactions.\n",
			result.Summary.TotalBank, result.Summary.TotalLedger)
		fmt.Fprintf(os.Stderr, "Found %d matches (%d exact, %d fuzzy), %d unmatched bank, %d unmatched ledger.\n",
			result.Summary.MatchedCount, result.Summary.ExactCount, result.Summary.FuzzyCount,
			result.Summary.UnmatchedBankCount, result.Summary.UnmatchedLedgerCount)
	}

	return nil
}
