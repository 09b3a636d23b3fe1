// Package matcher implements the decision core of payment reconciliation:
// fuzzy entity-name comparison, weighted match-confidence scoring, and
// best-invoice selection for individual payments.
//
// The matching pipeline for a single payment:
//  1. Exact reference lookup against the invoice index
//  2. Full scan with confidence scoring when the reference misses or
//     scores below the minimum
//  3. Threshold acceptance and match-side issue detection
//
// All behavior is driven by a caller-supplied ReconciliationRules value;
// the package holds no mutable state. Use the preset constructors for
// common configurations:
//
//	rules := matcher.DefaultRules()
//	rules.Thresholds.MinConfidenceScore = 60
//
//	m := matcher.NewInvoiceMatcher(rules, invoices)
//	outcome := m.Match(payment)
package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EnabledRules toggles the individual reconciliation algorithms. A
// disabled algorithm contributes nothing: no score component and no
// issues.
type EnabledRules struct {
	// ExactReferenceMatch looks the payment's reference note up as an
	// invoice ID before any scanning
	ExactReferenceMatch bool `json:"exact_reference_match"`

	// FuzzyCustomerMatch rescans all invoices when the exact reference
	// candidate scores below the minimum confidence
	FuzzyCustomerMatch bool `json:"fuzzy_customer_match"`

	// PartialPaymentMatching credits a proportional amount score to
	// payments covering at least the minimum percentage of an invoice
	PartialPaymentMatching bool `json:"partial_payment_matching"`

	// DateProximityMatch adds a decaying score for payments dated near
	// the invoice due date
	DateProximityMatch bool `json:"date_proximity_match"`

	// DuplicateDetection flags payments sharing a reference note and
	// amount with another payment in the batch
	DuplicateDetection bool `json:"duplicate_detection"`

	// LedgerVerification checks that a ledger entry exists per payment
	LedgerVerification bool `json:"ledger_verification"`

	// LedgerAmountCheck additionally compares the ledger entry amount
	// against the payment amount. Off by default; enabling it changes
	// visible classifications.
	LedgerAmountCheck bool `json:"ledger_amount_check"`
}

// Thresholds holds the numeric cutoffs for the matching algorithms.
// Percentage fields are expressed in whole percent (0-100).
type Thresholds struct {
	// MinConfidenceScore is the minimum weighted score for a candidate
	// invoice to become the match
	MinConfidenceScore float64 `json:"min_confidence_score"`

	// NameMatchSensitivity is the minimum name similarity, in percent,
	// below which a matched payment gets a payer-name-mismatch issue
	NameMatchSensitivity float64 `json:"name_match_sensitivity"`

	// AmountMatchTolerance is the allowed amount deviation as a
	// percentage of the invoice amount
	AmountMatchTolerance float64 `json:"amount_match_tolerance"`

	// DateDifferenceThreshold is the maximum day distance that still
	// earns a date-proximity score
	DateDifferenceThreshold int `json:"date_difference_threshold"`

	// PartialPaymentMinPercentage is the minimum share of the invoice
	// amount for a smaller payment to count as a valid installment
	PartialPaymentMinPercentage float64 `json:"partial_payment_min_percentage"`
}

// Weights assigns the points each matching criterion contributes to the
// confidence score. The defaults sum to 100 so a perfect match scores
// 100.
type Weights struct {
	ReferenceMatch float64 `json:"reference_match"`
	AmountMatch    float64 `json:"amount_match"`
	NameMatch      float64 `json:"name_match"`
	DateMatch      float64 `json:"date_match"`
}

// Total returns the sum of all weights
func (w Weights) Total() float64 {
	return w.ReferenceMatch + w.AmountMatch + w.NameMatch + w.DateMatch
}

// Validate checks if the weights are valid
func (w Weights) Validate() error {
	for name, value := range map[string]float64{
		"reference_match": w.ReferenceMatch,
		"amount_match":    w.AmountMatch,
		"name_match":      w.NameMatch,
		"date_match":      w.DateMatch,
	} {
		if value < 0 {
			return fmt.Errorf("weight %s cannot be negative: %f", name, value)
		}
	}

	// Weights are nominal points out of 100; allow some drift
	if total := w.Total(); total < 90 || total > 110 {
		return fmt.Errorf("weights should sum to approximately 100 points, got %f", total)
	}

	return nil
}

// ReconciliationRules is the complete, caller-supplied configuration for
// a reconciliation run. Rules are immutable per run; the engine clones
// the value it is given and never writes to it.
type ReconciliationRules struct {
	Enabled    EnabledRules `json:"enabled_rules"`
	Thresholds Thresholds   `json:"thresholds"`
	Weights    Weights      `json:"weights"`
}

// DefaultRules returns the balanced rule set used when the caller
// supplies none. Every call returns a fresh value; there is no shared
// default to mutate.
func DefaultRules() *ReconciliationRules {
	return &ReconciliationRules{
		Enabled: EnabledRules{
			ExactReferenceMatch:    true,
			FuzzyCustomerMatch:     true,
			PartialPaymentMatching: true,
			DateProximityMatch:     true,
			DuplicateDetection:     true,
			LedgerVerification:     true,
			LedgerAmountCheck:      false,
		},
		Thresholds: Thresholds{
			MinConfidenceScore:          50,
			NameMatchSensitivity:        70,
			AmountMatchTolerance:        1.0,
			DateDifferenceThreshold:     30,
			PartialPaymentMinPercentage: 25,
		},
		Weights: Weights{
			ReferenceMatch: 40,
			AmountMatch:    30,
			NameMatch:      20,
			DateMatch:      10,
		},
	}
}

// StrictRules returns a rule set for tight reconciliation: exact
// references only, no partial payments, high acceptance threshold.
func StrictRules() *ReconciliationRules {
	return &ReconciliationRules{
		Enabled: EnabledRules{
			ExactReferenceMatch:    true,
			FuzzyCustomerMatch:     false,
			PartialPaymentMatching: false,
			DateProximityMatch:     true,
			DuplicateDetection:     true,
			LedgerVerification:     true,
			LedgerAmountCheck:      true,
		},
		Thresholds: Thresholds{
			MinConfidenceScore:          80,
			NameMatchSensitivity:        85,
			AmountMatchTolerance:        0.0,
			DateDifferenceThreshold:     7,
			PartialPaymentMinPercentage: 100,
		},
		Weights: Weights{
			ReferenceMatch: 50,
			AmountMatch:    30,
			NameMatch:      15,
			DateMatch:      5,
		},
	}
}

// RelaxedRules returns a rule set for exploratory matching with loose
// tolerances.
func RelaxedRules() *ReconciliationRules {
	return &ReconciliationRules{
		Enabled: EnabledRules{
			ExactReferenceMatch:    true,
			FuzzyCustomerMatch:     true,
			PartialPaymentMatching: true,
			DateProximityMatch:     true,
			DuplicateDetection:     true,
			LedgerVerification:     false,
			LedgerAmountCheck:      false,
		},
		Thresholds: Thresholds{
			MinConfidenceScore:          35,
			NameMatchSensitivity:        50,
			AmountMatchTolerance:        5.0,
			DateDifferenceThreshold:     90,
			PartialPaymentMinPercentage: 10,
		},
		Weights: Weights{
			ReferenceMatch: 35,
			AmountMatch:    30,
			NameMatch:      25,
			DateMatch:      10,
		},
	}
}

// Validate checks if the rules are internally consistent
func (r *ReconciliationRules) Validate() error {
	if r.Thresholds.MinConfidenceScore < 0 || r.Thresholds.MinConfidenceScore > r.Weights.Total() {
		return fmt.Errorf("minimum confidence score must be between 0 and the weight total %f: %f",
			r.Weights.Total(), r.Thresholds.MinConfidenceScore)
	}

	if r.Thresholds.NameMatchSensitivity < 0 || r.Thresholds.NameMatchSensitivity > 100 {
		return fmt.Errorf("name match sensitivity must be between 0 and 100 percent: %f",
			r.Thresholds.NameMatchSensitivity)
	}

	if r.Thresholds.AmountMatchTolerance < 0 || r.Thresholds.AmountMatchTolerance > 100 {
		return fmt.Errorf("amount match tolerance must be between 0 and 100 percent: %f",
			r.Thresholds.AmountMatchTolerance)
	}

	if r.Thresholds.DateDifferenceThreshold < 0 {
		return fmt.Errorf("date difference threshold cannot be negative: %d",
			r.Thresholds.DateDifferenceThreshold)
	}

	if r.Thresholds.PartialPaymentMinPercentage < 0 || r.Thresholds.PartialPaymentMinPercentage > 100 {
		return fmt.Errorf("partial payment minimum percentage must be between 0 and 100: %f",
			r.Thresholds.PartialPaymentMinPercentage)
	}

	if err := r.Weights.Validate(); err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}

	return nil
}

// Clone creates a copy of the rules. All fields are value types, so a
// shallow copy is a full copy.
func (r *ReconciliationRules) Clone() *ReconciliationRules {
	if r == nil {
		return nil
	}

	clone := *r
	return &clone
}

// AmountTolerance returns the absolute amount deviation allowed for the
// given invoice amount
func (r *ReconciliationRules) AmountTolerance(amountDue decimal.Decimal) decimal.Decimal {
	if r.Thresholds.AmountMatchTolerance == 0 {
		return decimal.Zero
	}

	percentage := decimal.NewFromFloat(r.Thresholds.AmountMatchTolerance / 100.0)
	return amountDue.Abs().Mul(percentage)
}

// WithinAmountTolerance reports whether a payment amount is within the
// configured tolerance of the invoice amount
func (r *ReconciliationRules) WithinAmountTolerance(paymentAmount, amountDue decimal.Decimal) bool {
	diff := paymentAmount.Sub(amountDue).Abs()
	return diff.LessThanOrEqual(r.AmountTolerance(amountDue))
}

// PartialPaymentRatio returns the payment/invoice ratio when the payment
// qualifies as a valid partial payment under the configured minimum
// percentage, and ok=false otherwise. Zero invoice amounts never qualify.
func (r *ReconciliationRules) PartialPaymentRatio(paymentAmount, amountDue decimal.Decimal) (float64, bool) {
	if !r.Enabled.PartialPaymentMatching {
		return 0, false
	}

	// Division-by-zero guard: a zero invoice has no partial-payment path
	if !amountDue.IsPositive() {
		return 0, false
	}

	if !paymentAmount.LessThan(amountDue) {
		return 0, false
	}

	ratio := paymentAmount.Div(amountDue).InexactFloat64()
	if ratio < r.Thresholds.PartialPaymentMinPercentage/100.0 {
		return 0, false
	}

	return ratio, true
}

// String returns a human-readable description of the rules
func (r *ReconciliationRules) String() string {
	return fmt.Sprintf("ReconciliationRules{MinConfidence: %.1f, NameSensitivity: %.0f%%, AmountTolerance: %.2f%%, DateThreshold: %dd, PartialMin: %.0f%%}",
		r.Thresholds.MinConfidenceScore, r.Thresholds.NameMatchSensitivity,
		r.Thresholds.AmountMatchTolerance, r.Thresholds.DateDifferenceThreshold,
		r.Thresholds.PartialPaymentMinPercentage)
}
