package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerStatus represents the lifecycle state of a ledger transaction
type LedgerStatus string

const (
	// LedgerStatusPending represents a transaction entered but not yet cleared
	LedgerStatusPending LedgerStatus = "PENDING"
	// LedgerStatusCleared represents a transaction confirmed by the bank
	LedgerStatusCleared LedgerStatus = "CLEARED"
	// LedgerStatusReconciled represents a transaction already paired in a prior run
	LedgerStatusReconciled LedgerStatus = "RECONCILED"
)

// String returns the string representation of LedgerStatus
func (s LedgerStatus) String() string {
	return string(s)
}

// IsValid checks if the ledger status is valid
func (s LedgerStatus) IsValid() bool {
	return s == LedgerStatusPending || s == LedgerStatusCleared || s == LedgerStatusReconciled
}

// BankReference holds the optional structured reference fields a bank feed may
// attach to a transaction. Field names vary by upstream bank format, so each
// field is independently optional; an empty string means the bank did not
// supply that field.
type BankReference struct {
	Payee       string `json:"payee,omitempty"`
	Particulars string `json:"particulars,omitempty"`
	Code        string `json:"code,omitempty"`
	Receipt     string `json:"receipt,omitempty"`
}

// IsEmpty returns true when the bank supplied no reference fields at all
func (r *BankReference) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Payee == "" && r.Particulars == "" && r.Code == "" && r.Receipt == ""
}

// BankTransaction represents a transaction reported by an external bank
// statement or feed. It is read-only input to the matching engine; only the
// calendar date component of Date is significant.
type BankTransaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Reference   *BankReference  `json:"reference,omitempty"`
}

// NewBankTransaction creates a new BankTransaction instance
func NewBankTransaction(id string, amount decimal.Decimal, date time.Time, description string) *BankTransaction {
	return &BankTransaction{
		ID:          id,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
}

// Validate performs basic validation on the BankTransaction
func (bt *BankTransaction) Validate() error {
	if strings.TrimSpace(bt.ID) == "" {
		return fmt.Errorf("bank transaction identifier cannot be empty")
	}

	if bt.Date.IsZero() {
		return fmt.Errorf("bank transaction date cannot be zero")
	}

	return nil
}

// String returns a string representation of the BankTransaction
func (bt *BankTransaction) String() string {
	return fmt.Sprintf("BankTransaction{ID: %s, Amount: %s, Date: %s, Description: %q}",
		bt.ID, bt.Amount.String(), bt.Date.Format("2006-01-02"), bt.Description)
}

// MarshalJSON implements custom JSON marshaling for BankTransaction
func (bt *BankTransaction) MarshalJSON() ([]byte, error) {
	type Alias BankTransaction
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Amount: bt.Amount.String(),
		Date:   bt.Date.Format("2006-01-02"),
		Alias:  (*Alias)(bt),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for BankTransaction
func (bt *BankTransaction) UnmarshalJSON(data []byte) error {
	type Alias BankTransaction
	aux := &struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Alias: (*Alias)(bt),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	bt.Amount, err = ParseDecimalFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	bt.Date, err = ParseDateWithFormats(aux.Date)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}

	return nil
}

// Equals compares two BankTransaction instances for equality
func (bt *BankTransaction) Equals(other *BankTransaction) bool {
	if other == nil {
		return false
	}

	return bt.ID == other.ID &&
		bt.Amount.Equal(other.Amount) &&
		bt.Date.Format("2006-01-02") == other.Date.Format("2006-01-02") &&
		bt.Description == other.Description
}

// IsDebit returns true if the bank transaction amount represents a debit (negative amount)
func (bt *BankTransaction) IsDebit() bool {
	return bt.Amount.IsNegative()
}

// IsCredit returns true if the bank transaction amount represents a credit (positive amount)
func (bt *BankTransaction) IsCredit() bool {
	return bt.Amount.IsPositive()
}

// LedgerTransaction represents a transaction the user entered or imported into
// their own account history. Read-only input to the matching engine.
type LedgerTransaction struct {
	ID           int64           `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Status       LedgerStatus    `json:"status"`
}

// NewLedgerTransaction creates a new LedgerTransaction instance
func NewLedgerTransaction(id int64, amount decimal.Decimal, date time.Time, description string, status LedgerStatus) *LedgerTransaction {
	return &LedgerTransaction{
		ID:          id,
		Amount:      amount,
		Date:        date,
		Description: description,
		Status:      status,
	}
}

// Validate performs basic validation on the LedgerTransaction
func (lt *LedgerTransaction) Validate() error {
	if lt.ID <= 0 {
		return fmt.Errorf("ledger transaction identifier must be positive: %d", lt.ID)
	}

	if lt.Date.IsZero() {
		return fmt.Errorf("ledger transaction date cannot be zero")
	}

	if !lt.Status.IsValid() {
		return fmt.Errorf("invalid ledger status: %s", lt.Status)
	}

	return nil
}

// String returns a string representation of the LedgerTransaction
func (lt *LedgerTransaction) String() string {
	return fmt.Sprintf("LedgerTransaction{ID: %d, Amount: %s, Date: %s, Description: %q, Status: %s}",
		lt.ID, lt.Amount.String(), lt.Date.Format("2006-01-02"), lt.Description, lt.Status)
}

// MarshalJSON implements custom JSON marshaling for LedgerTransaction
func (lt *LedgerTransaction) MarshalJSON() ([]byte, error) {
	type Alias LedgerTransaction
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		*Alias
	}{
		Amount: lt.Amount.String(),
		Date:   lt.Date.Format("2006-01-02"),
		Alias:  (*Alias)(lt),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for LedgerTransaction.
// Status tokens are accepted case-insensitively via ParseLedgerStatus.
func (lt *LedgerTransaction) UnmarshalJSON(data []byte) error {
	type Alias LedgerTransaction
	aux := &struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		Status string `json:"status"`
		*Alias
	}{
		Alias: (*Alias)(lt),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	lt.Amount, err = ParseDecimalFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	lt.Date, err = ParseDateWithFormats(aux.Date)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}

	lt.Status, err = ParseLedgerStatus(aux.Status)
	if err != nil {
		return fmt.Errorf("invalid status: %w", err)
	}

	return nil
}

// Detail returns the lightweight display projection used for unmatched
// ledger transactions in match reports.
func (lt *LedgerTransaction) Detail() LedgerTransactionDetail {
	return LedgerTransactionDetail{
		ID:           lt.ID,
		Amount:       lt.Amount,
		Description:  lt.Description,
		Date:         lt.Date,
		CategoryName: lt.CategoryName,
		Status:       lt.Status,
	}
}

// LedgerTransactionDetail is a display projection of a ledger transaction.
// Report consumers only need these fields, not the full entity.
type LedgerTransactionDetail struct {
	ID           int64           `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
	CategoryName string          `json:"category_name,omitempty"`
	Status       LedgerStatus    `json:"status"`
}

// MarshalJSON implements custom JSON marshaling for LedgerTransactionDetail
func (d LedgerTransactionDetail) MarshalJSON() ([]byte, error) {
	type Alias LedgerTransactionDetail
	return json.Marshal(&struct {
		Amount string `json:"amount"`
		Date   string `json:"date"`
		Alias
	}{
		Amount: d.Amount.String(),
		Date:   d.Date.Format("2006-01-02"),
		Alias:  (Alias)(d),
	})
}

// Utility functions for type conversion and validation

// ParseDecimalFromString parses a decimal value from string with validation
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	// Remove common currency symbols and thousand separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseLedgerStatus parses and validates a ledger status from string
func ParseLedgerStatus(s string) (LedgerStatus, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	switch s {
	case "PENDING", "P":
		return LedgerStatusPending, nil
	case "CLEARED", "C":
		return LedgerStatusCleared, nil
	case "RECONCILED", "R":
		return LedgerStatusReconciled, nil
	default:
		return "", fmt.Errorf("invalid ledger status '%s': must be PENDING, CLEARED or RECONCILED", s)
	}
}

// ParseDateWithFormats attempts to parse a date from string using multiple common formats
func ParseDateWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date string cannot be empty")
	}

	// Common date formats used by bank feeds and exports
	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"01/02/2006",
		"02-01-2006",
		"2006/01/02",
		"Jan 2, 2006",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date '%s': %w", s, lastErr)
}

// DateOnly truncates a time to its calendar date (midnight UTC). Matching
// compares calendar dates only; time-of-day is not significant.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the absolute number of calendar days between two dates
func DaysBetween(a, b time.Time) int {
	diff := DateOnly(a).Sub(DateOnly(b))
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

// SameCalendarDate reports whether two times fall on the same calendar date
func SameCalendarDate(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}
