package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IssueType identifies the kind of reconciliation issue detected for a
// payment. The set of types is closed; every detected condition maps to
// exactly one entry in a result's issue list.
type IssueType string

const (
	IssueDuplicatePayment   IssueType = "duplicate_payment"
	IssueMissingInvoice     IssueType = "missing_invoice"
	IssueAmountMismatch     IssueType = "amount_mismatch"
	IssueMissingLedgerEntry IssueType = "missing_ledger_entry"
	IssueReferenceMismatch  IssueType = "reference_mismatch"
	IssuePayerNameMismatch  IssueType = "payer_name_mismatch"
)

// String returns the string representation of IssueType
func (t IssueType) String() string {
	return string(t)
}

// IsValid checks if the issue type is one of the known variants
func (t IssueType) IsValid() bool {
	switch t {
	case IssueDuplicatePayment, IssueMissingInvoice, IssueAmountMismatch,
		IssueMissingLedgerEntry, IssueReferenceMismatch, IssuePayerNameMismatch:
		return true
	default:
		return false
	}
}

// Issue is the closed sum type for reconciliation issues. Each variant
// carries its own payload; consumers switch on the concrete type or on
// Type(). The unexported marker method keeps the set of variants closed
// to this package.
type Issue interface {
	Type() IssueType
	isIssue()
}

// DuplicatePaymentIssue flags another payment that shares this payment's
// reference note and amount. The relation is symmetric: if A duplicates
// B, B's result independently flags A. No canonical original is chosen.
type DuplicatePaymentIssue struct {
	Duplicate *Payment `json:"duplicate"`
}

func (DuplicatePaymentIssue) Type() IssueType { return IssueDuplicatePayment }
func (DuplicatePaymentIssue) isIssue()        {}

// MissingInvoiceIssue flags a payment for which no invoice candidate met
// the minimum confidence score.
type MissingInvoiceIssue struct {
	Message string `json:"message"`
}

func (MissingInvoiceIssue) Type() IssueType { return IssueMissingInvoice }
func (MissingInvoiceIssue) isIssue()        {}

// AmountMismatchIssue flags a payment whose amount is outside the
// configured tolerance of the expected amount and does not qualify as a
// partial payment.
type AmountMismatchIssue struct {
	InvoiceAmount decimal.Decimal `json:"invoice_amount"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
}

func (AmountMismatchIssue) Type() IssueType { return IssueAmountMismatch }
func (AmountMismatchIssue) isIssue()        {}

// MissingLedgerEntryIssue flags a payment with no corroborating
// general-ledger entry.
type MissingLedgerEntryIssue struct {
	Message string `json:"message"`
}

func (MissingLedgerEntryIssue) Type() IssueType { return IssueMissingLedgerEntry }
func (MissingLedgerEntryIssue) isIssue()        {}

// ReferenceMismatchIssue flags a payment matched to an invoice whose ID
// differs from the payment's stated reference note.
type ReferenceMismatchIssue struct {
	InvoiceID     string `json:"invoice_id"`
	ReferenceNote string `json:"reference_note"`
}

func (ReferenceMismatchIssue) Type() IssueType { return IssueReferenceMismatch }
func (ReferenceMismatchIssue) isIssue()        {}

// PayerNameMismatchIssue flags a matched payment whose payer name is not
// similar enough to the invoice's customer name.
type PayerNameMismatchIssue struct {
	CustomerName string `json:"customer_name"`
	PayerName    string `json:"payer_name"`
}

func (PayerNameMismatchIssue) Type() IssueType { return IssuePayerNameMismatch }
func (PayerNameMismatchIssue) isIssue()        {}

// DescribeIssue renders a human-readable description of an issue. Pure
// formatting; reporting layers use it for display columns.
func DescribeIssue(issue Issue) string {
	switch i := issue.(type) {
	case DuplicatePaymentIssue:
		return fmt.Sprintf("likely duplicate of payment %s (%s on %s)",
			i.Duplicate.PaymentID, i.Duplicate.Amount.String(), i.Duplicate.PaymentDate.Format("2006-01-02"))
	case MissingInvoiceIssue:
		return i.Message
	case AmountMismatchIssue:
		return fmt.Sprintf("payment amount %s does not match expected amount %s",
			i.PaymentAmount.String(), i.InvoiceAmount.String())
	case MissingLedgerEntryIssue:
		return i.Message
	case ReferenceMismatchIssue:
		return fmt.Sprintf("matched invoice %s but payment references '%s'",
			i.InvoiceID, i.ReferenceNote)
	case PayerNameMismatchIssue:
		return fmt.Sprintf("payer name '%s' does not match customer name '%s'",
			i.PayerName, i.CustomerName)
	default:
		return fmt.Sprintf("unknown issue type %s", issue.Type())
	}
}

// HasIssueType reports whether any issue in the list has the given type
func HasIssueType(issues []Issue, t IssueType) bool {
	for _, issue := range issues {
		if issue.Type() == t {
			return true
		}
	}
	return false
}
