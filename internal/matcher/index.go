package matcher

import (
	"sort"

	"payment-reconciliation-engine/internal/models"

	"github.com/shopspring/decimal"
)

// duplicateAmountEpsilon is the maximum amount difference under which two
// payments sharing a reference note are considered duplicates.
var duplicateAmountEpsilon = decimal.NewFromFloat(0.01)

// InvoiceIndex provides lookup structures over an immutable invoice
// batch: an exact-ID map for reference matching and an ID-sorted slice
// that fixes the scan order, making tie-breaks on equal scores
// deterministic regardless of input order.
type InvoiceIndex struct {
	byID   map[string]*models.Invoice
	sorted []*models.Invoice
}

// NewInvoiceIndex builds an index from a slice of invoices. When two
// invoices share an ID the first one wins, matching first-match lookup
// semantics.
func NewInvoiceIndex(invoices []*models.Invoice) *InvoiceIndex {
	index := &InvoiceIndex{
		byID:   make(map[string]*models.Invoice, len(invoices)),
		sorted: make([]*models.Invoice, len(invoices)),
	}

	copy(index.sorted, invoices)
	sort.SliceStable(index.sorted, func(i, j int) bool {
		return index.sorted[i].InvoiceID < index.sorted[j].InvoiceID
	})

	for _, inv := range invoices {
		if _, exists := index.byID[inv.InvoiceID]; !exists {
			index.byID[inv.InvoiceID] = inv
		}
	}

	return index
}

// ByID returns the invoice with the given ID, if any
func (ii *InvoiceIndex) ByID(invoiceID string) (*models.Invoice, bool) {
	inv, ok := ii.byID[invoiceID]
	return inv, ok
}

// All returns the indexed invoices in ID order
func (ii *InvoiceIndex) All() []*models.Invoice {
	return ii.sorted
}

// Len returns the number of indexed invoices
func (ii *InvoiceIndex) Len() int {
	return len(ii.sorted)
}

// PaymentIndex groups a payment batch by reference note for duplicate
// detection. Duplicate detection needs the complete batch before any
// payment's result can be finalized, so the index is built once up front.
type PaymentIndex struct {
	byReference map[string][]*models.Payment
	count       int
}

// NewPaymentIndex builds a reference-note index from a slice of payments
func NewPaymentIndex(payments []*models.Payment) *PaymentIndex {
	index := &PaymentIndex{
		byReference: make(map[string][]*models.Payment),
		count:       len(payments),
	}

	for _, p := range payments {
		index.byReference[p.ReferenceNote] = append(index.byReference[p.ReferenceNote], p)
	}

	return index
}

// Duplicates returns, in batch order, the other payments sharing the
// given payment's reference note with an amount difference below the
// duplicate epsilon. The relation is symmetric: both sides of a
// duplicate pair report each other. Two payments with empty reference
// notes compare equal on reference.
func (pi *PaymentIndex) Duplicates(payment *models.Payment) []*models.Payment {
	var duplicates []*models.Payment

	for _, candidate := range pi.byReference[payment.ReferenceNote] {
		if candidate.PaymentID == payment.PaymentID {
			continue
		}

		diff := candidate.Amount.Sub(payment.Amount).Abs()
		if diff.LessThan(duplicateAmountEpsilon) {
			duplicates = append(duplicates, candidate)
		}
	}

	return duplicates
}

// Len returns the number of indexed payments
func (pi *PaymentIndex) Len() int {
	return pi.count
}

// LedgerIndex maps payment IDs to their corroborating ledger entry. At
// most one entry per payment is retained: the first one in batch order.
type LedgerIndex struct {
	byPaymentID map[string]*models.LedgerEntry
	count       int
}

// NewLedgerIndex builds a payment-ID index from a slice of ledger entries
func NewLedgerIndex(entries []*models.LedgerEntry) *LedgerIndex {
	index := &LedgerIndex{
		byPaymentID: make(map[string]*models.LedgerEntry, len(entries)),
		count:       len(entries),
	}

	for _, entry := range entries {
		if _, exists := index.byPaymentID[entry.PaymentID]; !exists {
			index.byPaymentID[entry.PaymentID] = entry
		}
	}

	return index
}

// ForPayment returns the first ledger entry recorded for the given
// payment ID, if any
func (li *LedgerIndex) ForPayment(paymentID string) (*models.LedgerEntry, bool) {
	entry, ok := li.byPaymentID[paymentID]
	return entry, ok
}

// Len returns the number of indexed ledger entries
func (li *LedgerIndex) Len() int {
	return li.count
}
