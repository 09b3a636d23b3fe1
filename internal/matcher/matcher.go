package matcher

import (
	"fmt"

	"payment-reconciliation-engine/internal/models"
)

// MatchOutcome is the result of matching one payment against the invoice
// batch. Invoice is nil when no candidate met the minimum confidence
// score; Issues carries the match-side issues only (duplicate and ledger
// issues are appended by the reconciliation engine).
type MatchOutcome struct {
	Invoice    *models.Invoice
	Confidence float64
	Issues     []models.Issue
}

// InvoiceMatcher finds the best invoice for individual payments. It is
// built once per batch and is safe for concurrent use: the invoice index
// and rules are read-only after construction.
type InvoiceMatcher struct {
	rules *ReconciliationRules
	index *InvoiceIndex
}

// NewInvoiceMatcher creates a matcher over the given invoice batch. The
// rules are cloned; nil rules fall back to DefaultRules.
func NewInvoiceMatcher(rules *ReconciliationRules, invoices []*models.Invoice) *InvoiceMatcher {
	if rules == nil {
		rules = DefaultRules()
	}

	return &InvoiceMatcher{
		rules: rules.Clone(),
		index: NewInvoiceIndex(invoices),
	}
}

// Rules returns the matcher's effective rules
func (m *InvoiceMatcher) Rules() *ReconciliationRules {
	return m.rules
}

// Index returns the matcher's invoice index
func (m *InvoiceMatcher) Index() *InvoiceIndex {
	return m.index
}

// Match finds the best invoice for a payment.
//
// Selection proceeds in two stages. An exact reference lookup tries the
// payment's reference note as an invoice ID. A full scan runs when the
// lookup produced nothing, or when fuzzy matching is enabled and the
// exact candidate scored below the minimum confidence; the scan visits
// invoices in ID order and keeps a candidate only on a strictly greater
// score, so ties resolve to the smallest invoice ID. The winner is
// accepted only at or above the minimum confidence score.
func (m *InvoiceMatcher) Match(payment *models.Payment) MatchOutcome {
	var best *models.Invoice
	bestScore := 0.0

	if m.rules.Enabled.ExactReferenceMatch && payment.ReferenceNote != "" {
		if candidate, ok := m.index.ByID(payment.ReferenceNote); ok {
			best = candidate
			bestScore = ConfidenceScore(payment, candidate, m.rules)
		}
	}

	if best == nil || (m.rules.Enabled.FuzzyCustomerMatch && bestScore < m.rules.Thresholds.MinConfidenceScore) {
		for _, candidate := range m.index.All() {
			score := ConfidenceScore(payment, candidate, m.rules)
			if score > bestScore || best == nil {
				best = candidate
				bestScore = score
			}
		}
	}

	if best == nil || bestScore < m.rules.Thresholds.MinConfidenceScore {
		return MatchOutcome{
			Issues: []models.Issue{models.MissingInvoiceIssue{
				Message: fmt.Sprintf("no matching invoice found for payment %s (reference '%s')",
					payment.PaymentID, payment.ReferenceNote),
			}},
		}
	}

	return MatchOutcome{
		Invoice:    best,
		Confidence: bestScore,
		Issues:     m.matchIssues(payment, best),
	}
}

// matchIssues detects the issues visible from the payment/invoice pair
// alone, in stable order: reference mismatch, payer name mismatch,
// amount mismatch.
func (m *InvoiceMatcher) matchIssues(payment *models.Payment, invoice *models.Invoice) []models.Issue {
	var issues []models.Issue

	if payment.ReferenceNote != "" && payment.ReferenceNote != invoice.InvoiceID {
		issues = append(issues, models.ReferenceMismatchIssue{
			InvoiceID:     invoice.InvoiceID,
			ReferenceNote: payment.ReferenceNote,
		})
	}

	similarity := NameSimilarity(payment.PayerName, invoice.CustomerName)
	if similarity < m.rules.Thresholds.NameMatchSensitivity/100.0 {
		issues = append(issues, models.PayerNameMismatchIssue{
			CustomerName: invoice.CustomerName,
			PayerName:    payment.PayerName,
		})
	}

	if !m.rules.WithinAmountTolerance(payment.Amount, invoice.AmountDue) {
		if _, ok := m.rules.PartialPaymentRatio(payment.Amount, invoice.AmountDue); !ok {
			issues = append(issues, models.AmountMismatchIssue{
				InvoiceAmount: invoice.AmountDue,
				PaymentAmount: payment.Amount,
			})
		}
	}

	return issues
}
