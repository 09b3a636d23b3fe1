package reconciler

import (
	"strings"
	"time"

	"payment-reconciliation-engine/internal/models"
)

// ReconciliationSummary aggregates a result set into headline counts.
type ReconciliationSummary struct {
	TotalPayments             int     `json:"total_payments"`
	ReconciledCount           int     `json:"reconciled_count"`
	PartiallyReconciledCount  int     `json:"partially_reconciled_count"`
	UnreconciledCount         int     `json:"unreconciled_count"`
	TotalIssues               int     `json:"total_issues"`

	// IssueCounts maps each issue type to its total occurrence count
	// across all results
	IssueCounts map[models.IssueType]int `json:"issue_counts"`

	// ReconciliationRate is the fraction of payments fully reconciled,
	// in [0,1]. Zero for an empty batch.
	ReconciliationRate float64 `json:"reconciliation_rate"`
}

// Summarize computes summary statistics over a result set
func Summarize(results []*ReconciliationResult) *ReconciliationSummary {
	summary := &ReconciliationSummary{
		TotalPayments: len(results),
		IssueCounts:   make(map[models.IssueType]int),
	}

	for _, result := range results {
		switch result.Status {
		case StatusReconciled:
			summary.ReconciledCount++
		case StatusPartiallyReconciled:
			summary.PartiallyReconciledCount++
		default:
			summary.UnreconciledCount++
		}

		summary.TotalIssues += len(result.Issues)
		for _, issue := range result.Issues {
			summary.IssueCounts[issue.Type()]++
		}
	}

	if summary.TotalPayments > 0 {
		summary.ReconciliationRate = float64(summary.ReconciledCount) / float64(summary.TotalPayments)
	}

	return summary
}

// FilterCriteria selects a subset of results. Zero-valued fields are
// inactive; active fields combine with AND.
type FilterCriteria struct {
	// Status keeps only results with the given status
	Status ReconciliationStatus `json:"status,omitempty"`

	// IssueType keeps only results carrying at least one issue of the
	// given type
	IssueType models.IssueType `json:"issue_type,omitempty"`

	// MinConfidence keeps only matched results scoring at or above the
	// given value. Unmatched results have no score and never pass.
	MinConfidence float64 `json:"min_confidence,omitempty"`

	// NameContains keeps results whose payer name or matched customer
	// name contains the given substring, case-insensitively
	NameContains string `json:"name_contains,omitempty"`

	// StartDate keeps results whose payment date is on or after the
	// given date
	StartDate time.Time `json:"start_date,omitempty"`

	// EndDate keeps results whose payment date is on or before the
	// given date
	EndDate time.Time `json:"end_date,omitempty"`
}

// IsActive reports whether any criterion is set
func (c FilterCriteria) IsActive() bool {
	return c.Status != "" || c.IssueType != "" || c.MinConfidence > 0 ||
		c.NameContains != "" || !c.StartDate.IsZero() || !c.EndDate.IsZero()
}

// FilterResults returns the results matching every active criterion, in
// input order. The input slice is never modified.
func FilterResults(results []*ReconciliationResult, criteria FilterCriteria) []*ReconciliationResult {
	if !criteria.IsActive() {
		return results
	}

	filtered := make([]*ReconciliationResult, 0, len(results))
	for _, result := range results {
		if matchesCriteria(result, criteria) {
			filtered = append(filtered, result)
		}
	}

	return filtered
}

func matchesCriteria(result *ReconciliationResult, criteria FilterCriteria) bool {
	if criteria.Status != "" && result.Status != criteria.Status {
		return false
	}

	if criteria.IssueType != "" && !result.HasIssue(criteria.IssueType) {
		return false
	}

	if criteria.MinConfidence > 0 {
		if !result.IsMatched() || result.ConfidenceScore < criteria.MinConfidence {
			return false
		}
	}

	if criteria.NameContains != "" && !matchesName(result, criteria.NameContains) {
		return false
	}

	// Both date bounds are inclusive
	if !criteria.StartDate.IsZero() && result.Payment.PaymentDate.Before(criteria.StartDate) {
		return false
	}
	if !criteria.EndDate.IsZero() && result.Payment.PaymentDate.After(criteria.EndDate) {
		return false
	}

	return true
}

func matchesName(result *ReconciliationResult, substring string) bool {
	needle := strings.ToLower(substring)

	if strings.Contains(strings.ToLower(result.Payment.PayerName), needle) {
		return true
	}

	if result.MatchedInvoice != nil &&
		strings.Contains(strings.ToLower(result.MatchedInvoice.CustomerName), needle) {
		return true
	}

	return false
}
