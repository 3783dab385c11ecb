package loader

import (
	"os"
	"path/filepath"
	"testing"

	"bank-ledger-reconciler/internal/models"
	"bank-ledger-reconciler/pkg/errors"

	"github.com/shopspring/decimal"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadBankTransactions(t *testing.T) {
	path := writeTempFile(t, "bank.json", `[
		{"id": "BNK001", "amount": "-42.50", "date": "2024-01-15", "description": "EFTPOS COFFEE SHOP"},
		{"id": "BNK002", "amount": "1500.00", "date": "2024-01-31", "description": "SALARY", "category": "Income"}
	]`)

	transactions, err := LoadBankTransactions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}
	if transactions[0].ID != "BNK001" {
		t.Errorf("ID = %q", transactions[0].ID)
	}
	if !transactions[0].Amount.Equal(decimal.NewFromFloat(-42.50)) {
		t.Errorf("Amount = %s", transactions[0].Amount)
	}
	if transactions[1].Category != "Income" {
		t.Errorf("Category = %q", transactions[1].Category)
	}
}

func TestLoadBankTransactions_EmptyArray(t *testing.T) {
	path := writeTempFile(t, "bank.json", `[]`)

	transactions, err := LoadBankTransactions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transactions) != 0 {
		t.Errorf("expected no transactions, got %d", len(transactions))
	}
}

func TestLoadBankTransactions_FileNotFound(t *testing.T) {
	_, err := LoadBankTransactions("/nonexistent/bank.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	reconcilerErr, ok := errors.AsReconcilerError(err)
	if !ok {
		t.Fatalf("expected a ReconcilerError, got %T", err)
	}
	if reconcilerErr.Code != errors.CodeFileNotFound {
		t.Errorf("expected code %s, got %s", errors.CodeFileNotFound, reconcilerErr.Code)
	}
}

func TestLoadBankTransactions_InvalidJSON(t *testing.T) {
	path := writeTempFile(t, "bank.json", `{"not": "an array"}`)

	_, err := LoadBankTransactions(path)
	if err == nil {
		t.Fatal("expected error for non-array input")
	}

	reconcilerErr, ok := errors.AsReconcilerError(err)
	if !ok {
		t.Fatalf("expected a ReconcilerError, got %T", err)
	}
	if reconcilerErr.Category != errors.CategoryParse {
		t.Errorf("expected parse category, got %s", reconcilerErr.Category)
	}
}

func TestLoadBankTransactions_DuplicateIdentifier(t *testing.T) {
	path := writeTempFile(t, "bank.json", `[
		{"id": "BNK001", "amount": "-42.50", "date": "2024-01-15", "description": "COFFEE"},
		{"id": "BNK001", "amount": "-9.99", "date": "2024-01-16", "description": "NETFLIX"}
	]`)

	_, err := LoadBankTransactions(path)
	if err == nil {
		t.Fatal("expected error for duplicate identifier")
	}

	reconcilerErr, ok := errors.AsReconcilerError(err)
	if !ok {
		t.Fatalf("expected a ReconcilerError, got %T", err)
	}
	if reconcilerErr.Code != errors.CodeDuplicateIdentifier {
		t.Errorf("expected code %s, got %s", errors.CodeDuplicateIdentifier, reconcilerErr.Code)
	}
}

func TestLoadBankTransactions_InvalidRecord(t *testing.T) {
	path := writeTempFile(t, "bank.json", `[
		{"id": "  ", "amount": "-42.50", "date": "2024-01-15", "description": "COFFEE"}
	]`)

	_, err := LoadBankTransactions(path)
	if err == nil {
		t.Fatal("expected error for blank identifier")
	}

	reconcilerErr, ok := errors.AsReconcilerError(err)
	if !ok {
		t.Fatalf("expected a ReconcilerError, got %T", err)
	}
	if reconcilerErr.Category != errors.CategoryValidation {
		t.Errorf("expected validation category, got %s", reconcilerErr.Category)
	}
}

func TestLoadLedgerTransactions(t *testing.T) {
	path := writeTempFile(t, "ledger.json", `[
		{"id": 1, "amount": "-42.50", "date": "2024-01-15", "description": "Coffee Shop", "status": "PENDING"},
		{"id": 2, "amount": "1500.00", "date": "2024-01-31", "description": "Salary", "category_name": "Income", "status": "CLEARED"}
	]`)

	transactions, err := LoadLedgerTransactions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}
	if transactions[0].ID != 1 {
		t.Errorf("ID = %d", transactions[0].ID)
	}
	if transactions[1].CategoryName != "Income" {
		t.Errorf("CategoryName = %q", transactions[1].CategoryName)
	}
}

func TestLoadLedgerTransactions_DuplicateIdentifier(t *testing.T) {
	path := writeTempFile(t, "ledger.json", `[
		{"id": 1, "amount": "-42.50", "date": "2024-01-15", "description": "Coffee", "status": "PENDING"},
		{"id": 1, "amount": "-9.99", "date": "2024-01-16", "description": "Netflix", "status": "PENDING"}
	]`)

	_, err := LoadLedgerTransactions(path)
	if err == nil {
		t.Fatal("expected error for duplicate identifier")
	}

	reconcilerErr, ok := errors.AsReconcilerError(err)
	if !ok {
		t.Fatalf("expected a ReconcilerError, got %T", err)
	}
	if reconcilerErr.Code != errors.CodeDuplicateIdentifier {
		t.Errorf("expected code %s, got %s", errors.CodeDuplicateIdentifier, reconcilerErr.Code)
	}
}

func TestLoadBankTransactions_CollectsAllRecordErrors(t *testing.T) {
	// One blank identifier and one duplicate: both reported in a single pass.
	path := writeTempFile(t, "bank.json", `[
		{"id": "BNK001", "amount": "-42.50", "date": "2024-01-15", "description": "COFFEE"},
		{"id": "  ", "amount": "-9.99", "date": "2024-01-16", "description": "NETFLIX"},
		{"id": "BNK001", "amount": "-120.00", "date": "2024-01-18", "description": "POWER"}
	]`)

	_, err := LoadBankTransactions(path)
	if err == nil {
		t.Fatal("expected record errors")
	}

	summary, ok := err.(*errors.ErrorSummary)
	if !ok {
		t.Fatalf("expected an ErrorSummary for multiple record errors, got %T", err)
	}

	if summary.Total != 2 {
		t.Errorf("Total = %d, want 2", summary.Total)
	}
	if !summary.HasCategory(errors.CategoryValidation) {
		t.Error("expected validation category in summary")
	}
	if summary.ByCode[errors.CodeInvalidData] != 1 || summary.ByCode[errors.CodeDuplicateIdentifier] != 1 {
		t.Errorf("ByCode = %v", summary.ByCode)
	}
	if summary.GetExitCode() != 3 {
		t.Errorf("GetExitCode = %d, want 3", summary.GetExitCode())
	}
}

func TestLoadBankTransactions_SingleRecordErrorNotSummarized(t *testing.T) {
	path := writeTempFile(t, "bank.json", `[
		{"id": "  ", "amount": "-42.50", "date": "2024-01-15", "description": "COFFEE"}
	]`)

	_, err := LoadBankTransactions(path)
	if err == nil {
		t.Fatal("expected a record error")
	}
	if _, ok := err.(*errors.ErrorSummary); ok {
		t.Error("a single record error must be returned directly, not summarized")
	}
	if _, ok := errors.AsReconcilerError(err); !ok {
		t.Errorf("expected a ReconcilerError, got %T", err)
	}
}

func TestLoadLedgerTransactions_CollectsAllRecordErrors(t *testing.T) {
	path := writeTempFile(t, "ledger.json", `[
		{"id": 1, "amount": "-42.50", "date": "2024-01-15", "description": "Coffee", "status": "PENDING"},
		{"id": 0, "amount": "-9.99", "date": "2024-01-16", "description": "Netflix", "status": "PENDING"},
		{"id": 1, "amount": "-120.00", "date": "2024-01-18", "description": "Power", "status": "PENDING"}
	]`)

	_, err := LoadLedgerTransactions(path)
	if err == nil {
		t.Fatal("expected record errors")
	}

	summary, ok := err.(*errors.ErrorSummary)
	if !ok {
		t.Fatalf("expected an ErrorSummary for multiple record errors, got %T", err)
	}
	if summary.Total != 2 {
		t.Errorf("Total = %d, want 2", summary.Total)
	}
}

func TestLoadLedgerTransactions_LowercaseStatus(t *testing.T) {
	path := writeTempFile(t, "ledger.json", `[
		{"id": 1, "amount": "-42.50", "date": "2024-01-15", "description": "Coffee Shop", "status": "pending"}
	]`)

	transactions, err := LoadLedgerTransactions(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(transactions))
	}
	if transactions[0].Status != models.LedgerStatusPending {
		t.Errorf("Status = %v, want %v", transactions[0].Status, models.LedgerStatusPending)
	}
}

func TestLoadLedgerTransactions_InvalidStatus(t *testing.T) {
	path := writeTempFile(t, "ledger.json", `[
		{"id": 1, "amount": "-42.50", "date": "2024-01-15", "description": "Coffee", "status": "VOID"}
	]`)

	_, err := LoadLedgerTransactions(path)
	if err == nil {
		t.Fatal("expected error for invalid status")
	}
}
