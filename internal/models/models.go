package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	// InvoiceStatusOpen represents an invoice awaiting payment
	InvoiceStatusOpen InvoiceStatus = "Open"
	// InvoiceStatusPaid represents a fully settled invoice
	InvoiceStatusPaid InvoiceStatus = "Paid"
	// InvoiceStatusOverdue represents an invoice past its due date
	InvoiceStatusOverdue InvoiceStatus = "Overdue"
)

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsValid checks if the invoice status is valid
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusOpen || s == InvoiceStatusPaid || s == InvoiceStatusOverdue
}

// PaymentMethod represents the channel a payment arrived through
type PaymentMethod string

const (
	PaymentMethodACH        PaymentMethod = "ACH"
	PaymentMethodWire       PaymentMethod = "Wire"
	PaymentMethodCheck      PaymentMethod = "Check"
	PaymentMethodCreditCard PaymentMethod = "CreditCard"
)

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodACH, PaymentMethodWire, PaymentMethodCheck, PaymentMethodCreditCard:
		return true
	default:
		return false
	}
}

// Invoice represents an outstanding receivable record. Invoices are
// immutable inputs to the reconciliation engine.
type Invoice struct {
	InvoiceID    string          `json:"invoice_id" csv:"invoice_id"`
	CustomerName string          `json:"customer_name" csv:"customer_name"`
	AmountDue    decimal.Decimal `json:"amount_due" csv:"amount_due"`
	DueDate      time.Time       `json:"due_date" csv:"due_date"`
	Status       InvoiceStatus   `json:"status" csv:"status"`
}

// NewInvoice creates a new Invoice instance
func NewInvoice(invoiceID, customerName string, amountDue decimal.Decimal, dueDate time.Time, status InvoiceStatus) *Invoice {
	return &Invoice{
		InvoiceID:    invoiceID,
		CustomerName: customerName,
		AmountDue:    amountDue,
		DueDate:      dueDate,
		Status:       status,
	}
}

// Validate performs basic validation on the Invoice
func (inv *Invoice) Validate() error {
	if strings.TrimSpace(inv.InvoiceID) == "" {
		return fmt.Errorf("invoice ID cannot be empty")
	}

	if strings.TrimSpace(inv.CustomerName) == "" {
		return fmt.Errorf("invoice customer name cannot be empty")
	}

	if inv.AmountDue.IsNegative() {
		return fmt.Errorf("invoice amount due cannot be negative")
	}

	if !inv.Status.IsValid() {
		return fmt.Errorf("invalid invoice status: %s", inv.Status)
	}

	return nil
}

// String returns a string representation of the Invoice
func (inv *Invoice) String() string {
	return fmt.Sprintf("Invoice{ID: %s, Customer: %s, AmountDue: %s, Due: %s, Status: %s}",
		inv.InvoiceID, inv.CustomerName, inv.AmountDue.String(), inv.DueDate.Format("2006-01-02"), inv.Status)
}

// MarshalJSON implements custom JSON marshaling for Invoice
func (inv *Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		AmountDue string `json:"amount_due"`
		DueDate   string `json:"due_date"`
		*Alias
	}{
		AmountDue: inv.AmountDue.String(),
		DueDate:   inv.DueDate.Format("2006-01-02"),
		Alias:     (*Alias)(inv),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Invoice
func (inv *Invoice) UnmarshalJSON(data []byte) error {
	type Alias Invoice
	aux := &struct {
		AmountDue string `json:"amount_due"`
		DueDate   string `json:"due_date"`
		*Alias
	}{
		Alias: (*Alias)(inv),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	inv.AmountDue, err = decimal.NewFromString(aux.AmountDue)
	if err != nil {
		return fmt.Errorf("invalid amount due format: %w", err)
	}

	inv.DueDate, err = ParseTimeWithFormats(aux.DueDate)
	if err != nil {
		return fmt.Errorf("invalid due date format: %w", err)
	}

	return nil
}

// Equals compares two Invoice instances for equality
func (inv *Invoice) Equals(other *Invoice) bool {
	if other == nil {
		return false
	}

	return inv.InvoiceID == other.InvoiceID &&
		inv.CustomerName == other.CustomerName &&
		inv.AmountDue.Equal(other.AmountDue) &&
		inv.DueDate.Equal(other.DueDate) &&
		inv.Status == other.Status
}

// Payment represents an incoming payment record. Payments are immutable
// inputs to the reconciliation engine. ReferenceNote is free text and
// frequently carries the invoice ID the payer intended to settle.
type Payment struct {
	PaymentID     string          `json:"payment_id" csv:"payment_id"`
	PayerName     string          `json:"payer_name" csv:"payer_name"`
	Amount        decimal.Decimal `json:"amount" csv:"amount"`
	PaymentDate   time.Time       `json:"payment_date" csv:"payment_date"`
	Method        PaymentMethod   `json:"method" csv:"method"`
	ReferenceNote string          `json:"reference_note" csv:"reference_note"`
}

// NewPayment creates a new Payment instance
func NewPayment(paymentID, payerName string, amount decimal.Decimal, paymentDate time.Time, method PaymentMethod, referenceNote string) *Payment {
	return &Payment{
		PaymentID:     paymentID,
		PayerName:     payerName,
		Amount:        amount,
		PaymentDate:   paymentDate,
		Method:        method,
		ReferenceNote: referenceNote,
	}
}

// Validate performs basic validation on the Payment
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.PaymentID) == "" {
		return fmt.Errorf("payment ID cannot be empty")
	}

	if strings.TrimSpace(p.PayerName) == "" {
		return fmt.Errorf("payer name cannot be empty")
	}

	if !p.Amount.IsPositive() {
		return fmt.Errorf("payment amount must be positive")
	}

	if !p.Method.IsValid() {
		return fmt.Errorf("invalid payment method: %s", p.Method)
	}

	return nil
}

// String returns a string representation of the Payment
func (p *Payment) String() string {
	return fmt.Sprintf("Payment{ID: %s, Payer: %s, Amount: %s, Date: %s, Method: %s, Ref: %s}",
		p.PaymentID, p.PayerName, p.Amount.String(), p.PaymentDate.Format("2006-01-02"), p.Method, p.ReferenceNote)
}

// MarshalJSON implements custom JSON marshaling for Payment
func (p *Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Amount      string `json:"amount"`
		PaymentDate string `json:"payment_date"`
		*Alias
	}{
		Amount:      p.Amount.String(),
		PaymentDate: p.PaymentDate.Format("2006-01-02"),
		Alias:       (*Alias)(p),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Payment
func (p *Payment) UnmarshalJSON(data []byte) error {
	type Alias Payment
	aux := &struct {
		Amount      string `json:"amount"`
		PaymentDate string `json:"payment_date"`
		*Alias
	}{
		Alias: (*Alias)(p),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	p.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	p.PaymentDate, err = ParseTimeWithFormats(aux.PaymentDate)
	if err != nil {
		return fmt.Errorf("invalid payment date format: %w", err)
	}

	return nil
}

// Equals compares two Payment instances for equality
func (p *Payment) Equals(other *Payment) bool {
	if other == nil {
		return false
	}

	return p.PaymentID == other.PaymentID &&
		p.PayerName == other.PayerName &&
		p.Amount.Equal(other.Amount) &&
		p.PaymentDate.Equal(other.PaymentDate) &&
		p.Method == other.Method &&
		p.ReferenceNote == other.ReferenceNote
}

// LedgerEntry represents a general-ledger posting expected to corroborate
// a payment/invoice pairing. Immutable input record.
type LedgerEntry struct {
	LedgerEntryID string          `json:"ledger_entry_id" csv:"ledger_entry_id"`
	InvoiceID     string          `json:"invoice_id" csv:"invoice_id"`
	PaymentID     string          `json:"payment_id" csv:"payment_id"`
	Amount        decimal.Decimal `json:"amount" csv:"amount"`
	EntryDate     time.Time       `json:"entry_date" csv:"entry_date"`
}

// NewLedgerEntry creates a new LedgerEntry instance
func NewLedgerEntry(ledgerEntryID, invoiceID, paymentID string, amount decimal.Decimal, entryDate time.Time) *LedgerEntry {
	return &LedgerEntry{
		LedgerEntryID: ledgerEntryID,
		InvoiceID:     invoiceID,
		PaymentID:     paymentID,
		Amount:        amount,
		EntryDate:     entryDate,
	}
}

// Validate performs basic validation on the LedgerEntry
func (le *LedgerEntry) Validate() error {
	if strings.TrimSpace(le.LedgerEntryID) == "" {
		return fmt.Errorf("ledger entry ID cannot be empty")
	}

	if strings.TrimSpace(le.PaymentID) == "" {
		return fmt.Errorf("ledger entry payment ID cannot be empty")
	}

	if le.Amount.IsNegative() {
		return fmt.Errorf("ledger entry amount cannot be negative")
	}

	return nil
}

// String returns a string representation of the LedgerEntry
func (le *LedgerEntry) String() string {
	return fmt.Sprintf("LedgerEntry{ID: %s, Invoice: %s, Payment: %s, Amount: %s, Date: %s}",
		le.LedgerEntryID, le.InvoiceID, le.PaymentID, le.Amount.String(), le.EntryDate.Format("2006-01-02"))
}

// MarshalJSON implements custom JSON marshaling for LedgerEntry
func (le *LedgerEntry) MarshalJSON() ([]byte, error) {
	type Alias LedgerEntry
	return json.Marshal(&struct {
		Amount    string `json:"amount"`
		EntryDate string `json:"entry_date"`
		*Alias
	}{
		Amount:    le.Amount.String(),
		EntryDate: le.EntryDate.Format("2006-01-02"),
		Alias:     (*Alias)(le),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for LedgerEntry
func (le *LedgerEntry) UnmarshalJSON(data []byte) error {
	type Alias LedgerEntry
	aux := &struct {
		Amount    string `json:"amount"`
		EntryDate string `json:"entry_date"`
		*Alias
	}{
		Alias: (*Alias)(le),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	le.Amount, err = decimal.NewFromString(aux.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	le.EntryDate, err = ParseTimeWithFormats(aux.EntryDate)
	if err != nil {
		return fmt.Errorf("invalid entry date format: %w", err)
	}

	return nil
}

// Utility functions for type conversion and validation

// ParseDecimalFromString parses a decimal currency value from string,
// tolerating common formatting like currency symbols and thousand
// separators.
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseInvoiceStatus parses and validates an invoice status from string
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return InvoiceStatusOpen, nil
	case "paid":
		return InvoiceStatusPaid, nil
	case "overdue":
		return InvoiceStatusOverdue, nil
	default:
		return "", fmt.Errorf("invalid invoice status '%s': must be Open, Paid or Overdue", s)
	}
}

// ParsePaymentMethod parses and validates a payment method from string
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ach":
		return PaymentMethodACH, nil
	case "wire", "wire transfer":
		return PaymentMethodWire, nil
	case "check", "cheque":
		return PaymentMethodCheck, nil
	case "creditcard", "credit card", "credit_card", "card":
		return PaymentMethodCreditCard, nil
	default:
		return "", fmt.Errorf("invalid payment method '%s': must be ACH, Wire, Check or CreditCard", s)
	}
}

// ParseTimeWithFormats attempts to parse time from string using multiple common formats
func ParseTimeWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("time string cannot be empty")
	}

	formats := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"01/02/2006",
		"2006/01/02",
		"Jan 2, 2006",
		"January 2, 2006",
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time '%s': %w", s, lastErr)
}
