// Package reconciler runs the full reconciliation pipeline over a batch
// of payments: invoice matching, duplicate detection, ledger
// verification, status resolution, and summary aggregation.
//
// The engine is deterministic and stateless across runs. Each payment's
// result depends only on the payment itself, the immutable input
// batches, and the rules, which is what allows the per-payment work to
// run in parallel.
//
//	engine := reconciler.NewEngine(matcher.DefaultRules())
//	results, err := engine.Reconcile(ctx, invoices, payments, entries)
package reconciler

import (
	"context"
	"fmt"
	"time"

	"payment-reconciliation-engine/internal/matcher"
	"payment-reconciliation-engine/internal/models"
	"payment-reconciliation-engine/pkg/logger"

	"github.com/sourcegraph/conc/iter"
)

// Engine reconciles payment batches against invoice and ledger batches
// under a fixed rule set.
type Engine struct {
	rules  *matcher.ReconciliationRules
	logger logger.Logger
}

// NewEngine creates an engine with the given rules. The rules are
// cloned; nil rules fall back to matcher.DefaultRules.
func NewEngine(rules *matcher.ReconciliationRules) *Engine {
	if rules == nil {
		rules = matcher.DefaultRules()
	}

	return &Engine{
		rules:  rules.Clone(),
		logger: logger.GetGlobalLogger().WithComponent("reconciler"),
	}
}

// Rules returns the engine's effective rules
func (e *Engine) Rules() *matcher.ReconciliationRules {
	return e.rules
}

// Reconcile evaluates every payment in the batch and returns one result
// per payment, in input order. The input slices are never modified.
func (e *Engine) Reconcile(ctx context.Context, invoices []*models.Invoice, payments []*models.Payment, entries []*models.LedgerEntry) ([]*ReconciliationResult, error) {
	if err := e.rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reconciliation rules: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	e.logger.WithFields(logger.Fields{
		"invoices": len(invoices),
		"payments": len(payments),
		"entries":  len(entries),
	}).Info("Starting reconciliation")

	invoiceMatcher := matcher.NewInvoiceMatcher(e.rules, invoices)
	paymentIndex := matcher.NewPaymentIndex(payments)
	ledgerIndex := matcher.NewLedgerIndex(entries)

	results := iter.Map(payments, func(p **models.Payment) *ReconciliationResult {
		return e.reconcilePayment(*p, invoiceMatcher, paymentIndex, ledgerIndex)
	})

	e.logger.WithFields(logger.Fields{
		"results":  len(results),
		"duration": time.Since(start).String(),
	}).Info("Reconciliation complete")

	return results, nil
}

// reconcilePayment evaluates a single payment against the prepared
// indexes. Issues accumulate in a fixed order: match-side issues first,
// then duplicates, then ledger issues.
func (e *Engine) reconcilePayment(payment *models.Payment, invoiceMatcher *matcher.InvoiceMatcher, paymentIndex *matcher.PaymentIndex, ledgerIndex *matcher.LedgerIndex) *ReconciliationResult {
	outcome := invoiceMatcher.Match(payment)

	result := &ReconciliationResult{
		Payment:         payment,
		MatchedInvoice:  outcome.Invoice,
		ConfidenceScore: outcome.Confidence,
		Issues:          outcome.Issues,
	}

	if e.rules.Enabled.DuplicateDetection {
		for _, dup := range paymentIndex.Duplicates(payment) {
			result.Issues = append(result.Issues, models.DuplicatePaymentIssue{Duplicate: dup})
		}
	}

	if e.rules.Enabled.LedgerVerification {
		e.verifyLedger(payment, ledgerIndex, result)
	}

	result.Status = resolveStatus(result)
	return result
}

// verifyLedger checks the payment's corroborating ledger entry and
// appends ledger issues to the result
func (e *Engine) verifyLedger(payment *models.Payment, ledgerIndex *matcher.LedgerIndex, result *ReconciliationResult) {
	entry, ok := ledgerIndex.ForPayment(payment.PaymentID)
	if !ok {
		result.Issues = append(result.Issues, models.MissingLedgerEntryIssue{
			Message: fmt.Sprintf("no ledger entry found for payment %s", payment.PaymentID),
		})
		return
	}

	result.LedgerEntry = entry

	if e.rules.Enabled.LedgerAmountCheck && !entry.Amount.Equal(payment.Amount) {
		result.Issues = append(result.Issues, models.AmountMismatchIssue{
			InvoiceAmount: entry.Amount,
			PaymentAmount: payment.Amount,
		})
	}
}

// resolveStatus derives the final status from the match and the issue
// list. A matched payment with no issues is reconciled; a matched
// payment with issues is partially reconciled; an unmatched payment is
// unreconciled regardless of its other issues.
func resolveStatus(result *ReconciliationResult) ReconciliationStatus {
	switch {
	case result.MatchedInvoice != nil && len(result.Issues) == 0:
		return StatusReconciled
	case result.MatchedInvoice != nil:
		return StatusPartiallyReconciled
	default:
		return StatusUnreconciled
	}
}
