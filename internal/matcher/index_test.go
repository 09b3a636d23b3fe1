package matcher

import (
	"testing"
	"time"

	"payment-reconciliation-engine/internal/models"

	"github.com/shopspring/decimal"
)

func TestInvoiceIndexLookupAndOrder(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	invoices := []*models.Invoice{
		testInvoice("INV-3", "Gamma", 300, due),
		testInvoice("INV-1", "Alpha", 100, due),
		testInvoice("INV-2", "Beta", 200, due),
	}

	index := NewInvoiceIndex(invoices)

	if index.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", index.Len())
	}

	inv, ok := index.ByID("INV-2")
	if !ok || inv.CustomerName != "Beta" {
		t.Errorf("ByID(INV-2) = %v, %v", inv, ok)
	}

	if _, ok := index.ByID("INV-9"); ok {
		t.Error("ByID should miss for unknown IDs")
	}

	all := index.All()
	for i, want := range []string{"INV-1", "INV-2", "INV-3"} {
		if all[i].InvoiceID != want {
			t.Errorf("All()[%d] = %s, want %s", i, all[i].InvoiceID, want)
		}
	}
}

func TestInvoiceIndexDuplicateIDsFirstWins(t *testing.T) {
	due := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	index := NewInvoiceIndex([]*models.Invoice{
		testInvoice("INV-1", "First", 100, due),
		testInvoice("INV-1", "Second", 200, due),
	})

	inv, _ := index.ByID("INV-1")
	if inv.CustomerName != "First" {
		t.Errorf("duplicate invoice ID lookup = %s, want First", inv.CustomerName)
	}
}

func TestPaymentIndexDuplicates(t *testing.T) {
	date := time.Date(2025, 7, 30, 0, 0, 0, 0, time.UTC)
	a := testPayment("PAY-1", "Stark", 15000, date, "INV-1004")
	b := testPayment("PAY-2", "Stark", 15000, date.AddDate(0, 0, 1), "INV-1004")
	c := testPayment("PAY-3", "Stark", 14000, date, "INV-1004")
	d := testPayment("PAY-4", "Other", 15000, date, "INV-2000")

	index := NewPaymentIndex([]*models.Payment{a, b, c, d})

	dupsA := index.Duplicates(a)
	if len(dupsA) != 1 || dupsA[0].PaymentID != "PAY-2" {
		t.Errorf("Duplicates(a) = %v, want [PAY-2]", dupsA)
	}

	// Symmetric: b reports a as well
	dupsB := index.Duplicates(b)
	if len(dupsB) != 1 || dupsB[0].PaymentID != "PAY-1" {
		t.Errorf("Duplicates(b) = %v, want [PAY-1]", dupsB)
	}

	// Different amount, same reference: not a duplicate
	if dups := index.Duplicates(c); len(dups) != 0 {
		t.Errorf("Duplicates(c) = %v, want none", dups)
	}

	// Different reference: not a duplicate
	if dups := index.Duplicates(d); len(dups) != 0 {
		t.Errorf("Duplicates(d) = %v, want none", dups)
	}
}

func TestPaymentIndexDuplicateEpsilon(t *testing.T) {
	date := time.Date(2025, 7, 30, 0, 0, 0, 0, time.UTC)
	a := testPayment("PAY-1", "Stark", 100.00, date, "INV-1")
	b := testPayment("PAY-2", "Stark", 100.005, date, "INV-1")
	c := testPayment("PAY-3", "Stark", 100.01, date, "INV-1")

	index := NewPaymentIndex([]*models.Payment{a, b, c})

	dups := index.Duplicates(a)
	if len(dups) != 1 || dups[0].PaymentID != "PAY-2" {
		t.Errorf("Duplicates(a) = %v, want only PAY-2 (diff below 0.01)", dups)
	}
}

func TestPaymentIndexEmptyReferenceNotes(t *testing.T) {
	date := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	a := testPayment("PAY-1", "Unknown", 99.99, date, "")
	b := testPayment("PAY-2", "Unknown", 99.99, date, "")

	index := NewPaymentIndex([]*models.Payment{a, b})

	// Empty reference notes compare equal on reference
	if dups := index.Duplicates(a); len(dups) != 1 {
		t.Errorf("empty-reference duplicates = %v, want one", dups)
	}
}

func TestLedgerIndexFirstEntryWins(t *testing.T) {
	date := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)
	entries := []*models.LedgerEntry{
		models.NewLedgerEntry("LED-1", "INV-1", "PAY-1", decimal.NewFromFloat(100), date),
		models.NewLedgerEntry("LED-2", "INV-1", "PAY-1", decimal.NewFromFloat(200), date),
		models.NewLedgerEntry("LED-3", "INV-2", "PAY-2", decimal.NewFromFloat(300), date),
	}

	index := NewLedgerIndex(entries)

	entry, ok := index.ForPayment("PAY-1")
	if !ok || entry.LedgerEntryID != "LED-1" {
		t.Errorf("ForPayment(PAY-1) = %v, want LED-1", entry)
	}

	if _, ok := index.ForPayment("PAY-9"); ok {
		t.Error("ForPayment should miss for unknown payment IDs")
	}

	if index.Len() != 3 {
		t.Errorf("Len() = %d, want 3", index.Len())
	}
}
