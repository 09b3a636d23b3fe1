package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDecimalFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1200.00", "1200", false},
		{"$1,200.00", "1200", false},
		{" 850.50 ", "850.5", false},
		{"-99.99", "-99.99", false},
		{"", "", true},
		{"abc", "", true},
		{"12.34.56", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDecimalFromString(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalFromString(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalFromString(%q) failed: %v", tt.input, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseDecimalFromString(%q) = %s, want %s", tt.input, got.String(), tt.want)
		}
	}
}

func TestParseTimeWithFormats(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-07-15", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-07-15 10:30:00", time.Date(2025, 7, 15, 10, 30, 0, 0, time.UTC)},
		{"07/15/2025", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)},
		{"Jan 2, 2025", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseTimeWithFormats(tt.input)
		if err != nil {
			t.Errorf("ParseTimeWithFormats(%q) failed: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimeWithFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	if _, err := ParseTimeWithFormats(""); err == nil {
		t.Error("empty time string should fail")
	}
	if _, err := ParseTimeWithFormats("not a date"); err == nil {
		t.Error("garbage time string should fail")
	}
}

func TestParseInvoiceStatus(t *testing.T) {
	for input, want := range map[string]InvoiceStatus{
		"Open":    InvoiceStatusOpen,
		"paid":    InvoiceStatusPaid,
		"OVERDUE": InvoiceStatusOverdue,
		" open ":  InvoiceStatusOpen,
	} {
		got, err := ParseInvoiceStatus(input)
		if err != nil || got != want {
			t.Errorf("ParseInvoiceStatus(%q) = %v, %v; want %v", input, got, err, want)
		}
	}

	if _, err := ParseInvoiceStatus("cancelled"); err == nil {
		t.Error("unknown status should fail")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for input, want := range map[string]PaymentMethod{
		"ACH":         PaymentMethodACH,
		"wire":        PaymentMethodWire,
		"Cheque":      PaymentMethodCheck,
		"credit card": PaymentMethodCreditCard,
		"credit_card": PaymentMethodCreditCard,
	} {
		got, err := ParsePaymentMethod(input)
		if err != nil || got != want {
			t.Errorf("ParsePaymentMethod(%q) = %v, %v; want %v", input, got, err, want)
		}
	}

	if _, err := ParsePaymentMethod("cash"); err == nil {
		t.Error("unknown method should fail")
	}
}

func TestInvoiceValidate(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	valid := NewInvoice("INV-1", "Acme Corp", decimal.NewFromFloat(1200), due, InvoiceStatusOpen)
	if err := valid.Validate(); err != nil {
		t.Errorf("valid invoice failed validation: %v", err)
	}

	tests := []struct {
		name    string
		invoice *Invoice
	}{
		{"empty ID", NewInvoice("", "Acme", decimal.NewFromFloat(1), due, InvoiceStatusOpen)},
		{"empty customer", NewInvoice("INV-1", "  ", decimal.NewFromFloat(1), due, InvoiceStatusOpen)},
		{"negative amount", NewInvoice("INV-1", "Acme", decimal.NewFromFloat(-1), due, InvoiceStatusOpen)},
		{"bad status", NewInvoice("INV-1", "Acme", decimal.NewFromFloat(1), due, InvoiceStatus("void"))},
	}
	for _, tt := range tests {
		if err := tt.invoice.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestPaymentValidate(t *testing.T) {
	date := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	valid := NewPayment("PAY-1", "Acme Corp", decimal.NewFromFloat(1200), date, PaymentMethodACH, "INV-1")
	if err := valid.Validate(); err != nil {
		t.Errorf("valid payment failed validation: %v", err)
	}

	// An empty reference note is legal
	noRef := NewPayment("PAY-2", "Acme Corp", decimal.NewFromFloat(10), date, PaymentMethodCheck, "")
	if err := noRef.Validate(); err != nil {
		t.Errorf("payment without reference failed validation: %v", err)
	}

	tests := []struct {
		name    string
		payment *Payment
	}{
		{"empty ID", NewPayment("", "Acme", decimal.NewFromFloat(1), date, PaymentMethodACH, "")},
		{"empty payer", NewPayment("PAY-1", "", decimal.NewFromFloat(1), date, PaymentMethodACH, "")},
		{"zero amount", NewPayment("PAY-1", "Acme", decimal.Zero, date, PaymentMethodACH, "")},
		{"negative amount", NewPayment("PAY-1", "Acme", decimal.NewFromFloat(-5), date, PaymentMethodACH, "")},
		{"bad method", NewPayment("PAY-1", "Acme", decimal.NewFromFloat(1), date, PaymentMethod("iou"), "")},
	}
	for _, tt := range tests {
		if err := tt.payment.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLedgerEntryValidate(t *testing.T) {
	date := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	valid := NewLedgerEntry("LED-1", "INV-1", "PAY-1", decimal.NewFromFloat(1200), date)
	if err := valid.Validate(); err != nil {
		t.Errorf("valid ledger entry failed validation: %v", err)
	}

	missing := NewLedgerEntry("LED-1", "INV-1", "", decimal.NewFromFloat(1200), date)
	if err := missing.Validate(); err == nil {
		t.Error("ledger entry without payment ID should fail validation")
	}
}

func TestPaymentJSONRoundTrip(t *testing.T) {
	date := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	original := NewPayment("PAY-1", "Acme Corp", decimal.NewFromFloat(1200.50), date, PaymentMethodWire, "INV-1")

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Amounts serialize as strings, never floats
	if !strings.Contains(string(data), `"amount":"1200.5"`) {
		t.Errorf("amount not serialized as string: %s", data)
	}

	var decoded Payment
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !original.Equals(&decoded) {
		t.Errorf("round trip mismatch: %v vs %v", original, &decoded)
	}
}

func TestInvoiceEquals(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	a := NewInvoice("INV-1", "Acme", decimal.NewFromFloat(1200), due, InvoiceStatusOpen)
	b := NewInvoice("INV-1", "Acme", decimal.NewFromFloat(1200.00), due, InvoiceStatusOpen)
	c := NewInvoice("INV-2", "Acme", decimal.NewFromFloat(1200), due, InvoiceStatusOpen)

	if !a.Equals(b) {
		t.Error("equal invoices with different decimal representations should compare equal")
	}
	if a.Equals(c) {
		t.Error("different invoice IDs should not compare equal")
	}
	if a.Equals(nil) {
		t.Error("nil comparison should be false")
	}
}
