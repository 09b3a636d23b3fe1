package matcher

import (
	"math"

	"payment-reconciliation-engine/internal/models"
)

// ConfidenceScore computes the weighted match confidence between a
// payment and an invoice under the given rules. With default weights a
// perfect match scores 100; the value is unbounded in principle because
// weights are caller-supplied points, not normalized fractions.
//
// Components:
//   - reference: full weight on exact reference-note / invoice-ID equality
//   - amount: full weight within tolerance, proportional weight for a
//     valid partial payment
//   - name: weight scaled by NameSimilarity
//   - date: weight decaying linearly to zero at the day threshold
func ConfidenceScore(payment *models.Payment, invoice *models.Invoice, rules *ReconciliationRules) float64 {
	score := 0.0

	if payment.ReferenceNote == invoice.InvoiceID {
		score += rules.Weights.ReferenceMatch
	}

	score += amountScore(payment, invoice, rules)
	score += rules.Weights.NameMatch * NameSimilarity(payment.PayerName, invoice.CustomerName)
	score += dateScore(payment, invoice, rules)

	return score
}

// amountScore returns the amount component of the confidence score
func amountScore(payment *models.Payment, invoice *models.Invoice, rules *ReconciliationRules) float64 {
	if rules.WithinAmountTolerance(payment.Amount, invoice.AmountDue) {
		return rules.Weights.AmountMatch
	}

	if ratio, ok := rules.PartialPaymentRatio(payment.Amount, invoice.AmountDue); ok {
		return rules.Weights.AmountMatch * ratio
	}

	return 0
}

// dateScore returns the date-proximity component of the confidence score.
// Zero-value dates (unparseable upstream) contribute nothing; that is not
// an error.
func dateScore(payment *models.Payment, invoice *models.Invoice, rules *ReconciliationRules) float64 {
	if !rules.Enabled.DateProximityMatch {
		return 0
	}

	threshold := rules.Thresholds.DateDifferenceThreshold
	if threshold <= 0 {
		return 0
	}

	if payment.PaymentDate.IsZero() || invoice.DueDate.IsZero() {
		return 0
	}

	daysDiff := math.Abs(payment.PaymentDate.Sub(invoice.DueDate).Hours() / 24)
	if daysDiff > float64(threshold) {
		return 0
	}

	return rules.Weights.DateMatch * (1 - daysDiff/float64(threshold))
}
