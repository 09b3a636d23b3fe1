package reconciler

import (
	"encoding/json"
	"fmt"

	"payment-reconciliation-engine/internal/models"
)

// ReconciliationStatus classifies a payment's outcome after all
// algorithms have run.
type ReconciliationStatus string

const (
	// StatusReconciled means the payment matched an invoice and no
	// issues were detected
	StatusReconciled ReconciliationStatus = "reconciled"

	// StatusPartiallyReconciled means the payment matched an invoice but
	// at least one issue was detected
	StatusPartiallyReconciled ReconciliationStatus = "partially_reconciled"

	// StatusUnreconciled means no invoice met the minimum confidence
	StatusUnreconciled ReconciliationStatus = "unreconciled"
)

// String returns the string representation of the status
func (s ReconciliationStatus) String() string {
	return string(s)
}

// IsValid checks if the status is one of the known values
func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case StatusReconciled, StatusPartiallyReconciled, StatusUnreconciled:
		return true
	default:
		return false
	}
}

// ReconciliationResult is the complete outcome for a single payment:
// the matched invoice (nil when unmatched), the corroborating ledger
// entry (nil when absent or verification is disabled), the resolved
// status, every detected issue, and the confidence score of the match.
type ReconciliationResult struct {
	Payment         *models.Payment      `json:"payment"`
	MatchedInvoice  *models.Invoice      `json:"matched_invoice,omitempty"`
	LedgerEntry     *models.LedgerEntry  `json:"ledger_entry,omitempty"`
	Status          ReconciliationStatus `json:"status"`
	Issues          []models.Issue       `json:"issues"`
	ConfidenceScore float64              `json:"confidence_score"`
}

// IsMatched reports whether the payment was matched to an invoice
func (r *ReconciliationResult) IsMatched() bool {
	return r.MatchedInvoice != nil
}

// HasIssue reports whether the result carries an issue of the given type
func (r *ReconciliationResult) HasIssue(t models.IssueType) bool {
	return models.HasIssueType(r.Issues, t)
}

// String returns a one-line summary of the result
func (r *ReconciliationResult) String() string {
	invoiceID := "-"
	if r.MatchedInvoice != nil {
		invoiceID = r.MatchedInvoice.InvoiceID
	}
	return fmt.Sprintf("Result{Payment: %s, Invoice: %s, Status: %s, Issues: %d, Confidence: %.1f}",
		r.Payment.PaymentID, invoiceID, r.Status, len(r.Issues), r.ConfidenceScore)
}

// issueEnvelope is the serialized form of an issue: the discriminator
// tag plus the rendered description and the variant payload.
type issueEnvelope struct {
	Type        models.IssueType `json:"type"`
	Description string           `json:"description"`
	Detail      models.Issue     `json:"detail,omitempty"`
}

// MarshalJSON serializes the result with each issue wrapped in a typed
// envelope, so downstream consumers can switch on the type tag without
// knowing the Go variant types.
func (r *ReconciliationResult) MarshalJSON() ([]byte, error) {
	envelopes := make([]issueEnvelope, len(r.Issues))
	for i, issue := range r.Issues {
		envelopes[i] = issueEnvelope{
			Type:        issue.Type(),
			Description: models.DescribeIssue(issue),
			Detail:      issue,
		}
	}

	type Alias ReconciliationResult
	return json.Marshal(&struct {
		*Alias
		Issues []issueEnvelope `json:"issues"`
	}{
		Alias:  (*Alias)(r),
		Issues: envelopes,
	})
}
