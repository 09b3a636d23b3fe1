package matcher

import (
	"math"
	"testing"
	"time"

	"payment-reconciliation-engine/internal/models"

	"github.com/shopspring/decimal"
)

func testInvoice(id, customer string, amount float64, due time.Time) *models.Invoice {
	return models.NewInvoice(id, customer, decimal.NewFromFloat(amount), due, models.InvoiceStatusOpen)
}

func testPayment(id, payer string, amount float64, date time.Time, ref string) *models.Payment {
	return models.NewPayment(id, payer, decimal.NewFromFloat(amount), date, models.PaymentMethodACH, ref)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConfidenceScorePerfectMatch(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	invoice := testInvoice("INV-1001", "Acme Corp", 1200, due)
	payment := testPayment("PAY-501", "Acme Corp", 1200, due, "INV-1001")

	score := ConfidenceScore(payment, invoice, DefaultRules())
	if !almostEqual(score, 100) {
		t.Errorf("perfect match score = %v, want 100", score)
	}
}

func TestConfidenceScoreNoReference(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	invoice := testInvoice("INV-1001", "Acme Corp", 1200, due)
	payment := testPayment("PAY-501", "Acme Corp", 1200, due, "")

	// Amount 30 + name 20 + date 10, no reference credit
	score := ConfidenceScore(payment, invoice, DefaultRules())
	if !almostEqual(score, 60) {
		t.Errorf("score without reference = %v, want 60", score)
	}
}

func TestConfidenceScorePartialPayment(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	invoice := testInvoice("INV-1001", "Acme Corp", 1200, due)

	// 30% installment: amount component is 30 * 0.3 = 9
	payment := testPayment("PAY-501", "Acme Corp", 360, due, "INV-1001")
	score := ConfidenceScore(payment, invoice, DefaultRules())
	if !almostEqual(score, 40+9+20+10) {
		t.Errorf("partial payment score = %v, want 79", score)
	}

	// 20% is below the partial minimum: no amount credit at all
	payment = testPayment("PAY-502", "Acme Corp", 240, due, "INV-1001")
	score = ConfidenceScore(payment, invoice, DefaultRules())
	if !almostEqual(score, 40+0+20+10) {
		t.Errorf("sub-minimum partial score = %v, want 70", score)
	}
}

func TestConfidenceScoreDateDecay(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	invoice := testInvoice("INV-1001", "Acme Corp", 1200, due)
	rules := DefaultRules()

	// 15 days of a 30-day threshold: half the date weight
	payment := testPayment("PAY-501", "Acme Corp", 1200, due.AddDate(0, 0, 15), "INV-1001")
	score := ConfidenceScore(payment, invoice, rules)
	if !almostEqual(score, 40+30+20+5) {
		t.Errorf("mid-window date score = %v, want 95", score)
	}

	// Past the threshold: no date credit
	payment = testPayment("PAY-502", "Acme Corp", 1200, due.AddDate(0, 0, 31), "INV-1001")
	score = ConfidenceScore(payment, invoice, rules)
	if !almostEqual(score, 90) {
		t.Errorf("out-of-window date score = %v, want 90", score)
	}

	// Early payments count the same as late ones
	early := ConfidenceScore(testPayment("PAY-503", "Acme Corp", 1200, due.AddDate(0, 0, -15), "INV-1001"), invoice, rules)
	late := ConfidenceScore(testPayment("PAY-504", "Acme Corp", 1200, due.AddDate(0, 0, 15), "INV-1001"), invoice, rules)
	if !almostEqual(early, late) {
		t.Errorf("date decay should be symmetric: early %v, late %v", early, late)
	}
}

func TestConfidenceScoreDateRuleDisabled(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	invoice := testInvoice("INV-1001", "Acme Corp", 1200, due)
	payment := testPayment("PAY-501", "Acme Corp", 1200, due, "INV-1001")

	rules := DefaultRules()
	rules.Enabled.DateProximityMatch = false

	score := ConfidenceScore(payment, invoice, rules)
	if !almostEqual(score, 90) {
		t.Errorf("score with date rule disabled = %v, want 90", score)
	}
}

func TestConfidenceScoreZeroDates(t *testing.T) {
	invoice := testInvoice("INV-1001", "Acme Corp", 1200, time.Time{})
	payment := testPayment("PAY-501", "Acme Corp", 1200, time.Time{}, "INV-1001")

	// Zero dates earn no date score but are not an error
	score := ConfidenceScore(payment, invoice, DefaultRules())
	if !almostEqual(score, 90) {
		t.Errorf("score with zero dates = %v, want 90", score)
	}
}

func TestConfidenceScoreDeterministic(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	invoice := testInvoice("INV-1001", "Acme Corporation", 1200, due)
	payment := testPayment("PAY-501", "Acme Corp", 610, due.AddDate(0, 0, 3), "INV-9999")
	rules := DefaultRules()

	first := ConfidenceScore(payment, invoice, rules)
	for i := 0; i < 10; i++ {
		if got := ConfidenceScore(payment, invoice, rules); got != first {
			t.Fatalf("score changed between calls: %v then %v", first, got)
		}
	}
}
