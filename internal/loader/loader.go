// Package loader reads materialized transaction sets from JSON files for the
// CLI harness. It stands in for the upstream collaborator that normally
// supplies the two record sets already filtered to one account and statement
// period, and enforces that collaborator's contract: no duplicate identifiers
// within either list.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"bank-ledger-reconciler/internal/models"
	"bank-ledger-reconciler/pkg/errors"
	"bank-ledger-reconciler/pkg/logger"
)

// collectRecordErrors folds per-record validation failures into a single
// returnable error: nil for none, the error itself for one, an ErrorSummary
// for several.
func collectRecordErrors(recordErrs []*errors.ReconcilerError) error {
	switch len(recordErrs) {
	case 0:
		return nil
	case 1:
		return recordErrs[0]
	default:
		return errors.NewErrorSummary(recordErrs)
	}
}

// LoadBankTransactions reads a JSON array of bank transactions from path
func LoadBankTransactions(path string) ([]models.BankTransaction, error) {
	log := logger.GetGlobalLogger().WithComponent("loader")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		return nil, errors.FileError(errors.CodeFilePermission, path, err)
	}

	var transactions []models.BankTransaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, path, err)
	}

	// Validate every record before giving up, so one pass reports all
	// problems in the file rather than the first.
	var recordErrs []*errors.ReconcilerError
	seen := make(map[string]bool, len(transactions))
	for i := range transactions {
		bt := &transactions[i]
		if err := bt.Validate(); err != nil {
			recordErrs = append(recordErrs, errors.ValidationError(errors.CodeInvalidData, "bank_transaction", bt.ID, err).
				WithContext("file", path).
				WithContext("index", i))
			continue
		}
		if seen[bt.ID] {
			recordErrs = append(recordErrs, errors.ValidationError(errors.CodeDuplicateIdentifier, "bank_transaction", bt.ID, nil).
				WithContext("file", path).
				WithContext("index", i))
			continue
		}
		seen[bt.ID] = true
	}
	if err := collectRecordErrors(recordErrs); err != nil {
		return nil, err
	}

	log.WithFields(logger.Fields{
		"file":  path,
		"count": len(transactions),
	}).Debug("Loaded bank transactions")

	return transactions, nil
}

// LoadLedgerTransactions reads a JSON array of ledger transactions from path
func LoadLedgerTransactions(path string) ([]models.LedgerTransaction, error) {
	log := logger.GetGlobalLogger().WithComponent("loader")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		return nil, errors.FileError(errors.CodeFilePermission, path, err)
	}

	var transactions []models.LedgerTransaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, path, err)
	}

	var recordErrs []*errors.ReconcilerError
	seen := make(map[int64]bool, len(transactions))
	for i := range transactions {
		lt := &transactions[i]
		if err := lt.Validate(); err != nil {
			recordErrs = append(recordErrs, errors.ValidationError(errors.CodeInvalidData, "ledger_transaction", lt.ID, err).
				WithContext("file", path).
				WithContext("index", i))
			continue
		}
		if seen[lt.ID] {
			recordErrs = append(recordErrs, errors.ValidationError(errors.CodeDuplicateIdentifier, "ledger_transaction", fmt.Sprintf("%d", lt.ID), nil).
				WithContext("file", path).
				WithContext("index", i))
			continue
		}
		seen[lt.ID] = true
	}
	if err := collectRecordErrors(recordErrs); err != nil {
		return nil, err
	}

	log.WithFields(logger.Fields{
		"file":  path,
		"count": len(transactions),
	}).Debug("Loaded ledger transactions")

	return transactions, nil
}
