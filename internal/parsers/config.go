package parsers

import (
	"fmt"
	"strings"
)

// InvoiceParserConfig holds column mapping for invoice CSV files
type InvoiceParserConfig struct {
	InvoiceIDColumn    string            `json:"invoice_id_column"`
	CustomerNameColumn string            `json:"customer_name_column"`
	AmountDueColumn    string            `json:"amount_due_column"`
	DueDateColumn      string            `json:"due_date_column"`
	StatusColumn       string            `json:"status_column"`
	HasHeader          bool              `json:"has_header"`
	Delimiter          rune              `json:"delimiter"`
	ColumnAliases      map[string]string `json:"column_aliases,omitempty"`
}

// DefaultInvoiceParserConfig returns a configuration matching the
// standard invoice export format
func DefaultInvoiceParserConfig() *InvoiceParserConfig {
	return &InvoiceParserConfig{
		InvoiceIDColumn:    "invoice_id",
		CustomerNameColumn: "customer_name",
		AmountDueColumn:    "amount_due",
		DueDateColumn:      "due_date",
		StatusColumn:       "status",
		HasHeader:          true,
		Delimiter:          ',',
		ColumnAliases:      make(map[string]string),
	}
}

// Validate checks if the invoice parser configuration is valid
func (c *InvoiceParserConfig) Validate() error {
	for name, value := range map[string]string{
		"invoice ID":    c.InvoiceIDColumn,
		"customer name": c.CustomerNameColumn,
		"amount due":    c.AmountDueColumn,
		"due date":      c.DueDateColumn,
		"status":        c.StatusColumn,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s column cannot be empty", name)
		}
	}
	return nil
}

// GetColumnName returns the actual column name, checking aliases first
func (c *InvoiceParserConfig) GetColumnName(standardName string) string {
	if alias, exists := c.ColumnAliases[standardName]; exists {
		return alias
	}

	switch standardName {
	case "invoice_id":
		return c.InvoiceIDColumn
	case "customer_name":
		return c.CustomerNameColumn
	case "amount_due":
		return c.AmountDueColumn
	case "due_date":
		return c.DueDateColumn
	case "status":
		return c.StatusColumn
	default:
		return standardName
	}
}

// PaymentParserConfig holds column mapping for payment CSV files
type PaymentParserConfig struct {
	PaymentIDColumn     string            `json:"payment_id_column"`
	PayerNameColumn     string            `json:"payer_name_column"`
	AmountColumn        string            `json:"amount_column"`
	PaymentDateColumn   string            `json:"payment_date_column"`
	MethodColumn        string            `json:"method_column"`
	ReferenceNoteColumn string            `json:"reference_note_column"`
	HasHeader           bool              `json:"has_header"`
	Delimiter           rune              `json:"delimiter"`
	ColumnAliases       map[string]string `json:"column_aliases,omitempty"`
}

// DefaultPaymentParserConfig returns a configuration matching the
// standard payment export format
func DefaultPaymentParserConfig() *PaymentParserConfig {
	return &PaymentParserConfig{
		PaymentIDColumn:     "payment_id",
		PayerNameColumn:     "payer_name",
		AmountColumn:        "amount",
		PaymentDateColumn:   "payment_date",
		MethodColumn:        "method",
		ReferenceNoteColumn: "reference_note",
		HasHeader:           true,
		Delimiter:           ',',
		ColumnAliases:       make(map[string]string),
	}
}

// Validate checks if the payment parser configuration is valid. The
// reference note column may be absent in some exports, so it is not
// required.
func (c *PaymentParserConfig) Validate() error {
	for name, value := range map[string]string{
		"payment ID":   c.PaymentIDColumn,
		"payer name":   c.PayerNameColumn,
		"amount":       c.AmountColumn,
		"payment date": c.PaymentDateColumn,
		"method":       c.MethodColumn,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s column cannot be empty", name)
		}
	}
	return nil
}

// GetColumnName returns the actual column name, checking aliases first
func (c *PaymentParserConfig) GetColumnName(standardName string) string {
	if alias, exists := c.ColumnAliases[standardName]; exists {
		return alias
	}

	switch standardName {
	case "payment_id":
		return c.PaymentIDColumn
	case "payer_name":
		return c.PayerNameColumn
	case "amount":
		return c.AmountColumn
	case "payment_date":
		return c.PaymentDateColumn
	case "method":
		return c.MethodColumn
	case "reference_note":
		return c.ReferenceNoteColumn
	default:
		return standardName
	}
}

// LedgerParserConfig holds column mapping for general-ledger CSV files
type LedgerParserConfig struct {
	LedgerEntryIDColumn string            `json:"ledger_entry_id_column"`
	InvoiceIDColumn     string            `json:"invoice_id_column"`
	PaymentIDColumn     string            `json:"payment_id_column"`
	AmountColumn        string            `json:"amount_column"`
	EntryDateColumn     string            `json:"entry_date_column"`
	HasHeader           bool              `json:"has_header"`
	Delimiter           rune              `json:"delimiter"`
	ColumnAliases       map[string]string `json:"column_aliases,omitempty"`
}

// DefaultLedgerParserConfig returns a configuration matching the
// standard general-ledger export format
func DefaultLedgerParserConfig() *LedgerParserConfig {
	return &LedgerParserConfig{
		LedgerEntryIDColumn: "ledger_entry_id",
		InvoiceIDColumn:     "invoice_id",
		PaymentIDColumn:     "payment_id",
		AmountColumn:        "amount",
		EntryDateColumn:     "entry_date",
		HasHeader:           true,
		Delimiter:           ',',
		ColumnAliases:       make(map[string]string),
	}
}

// Validate checks if the ledger parser configuration is valid
func (c *LedgerParserConfig) Validate() error {
	for name, value := range map[string]string{
		"ledger entry ID": c.LedgerEntryIDColumn,
		"payment ID":      c.PaymentIDColumn,
		"amount":          c.AmountColumn,
		"entry date":      c.EntryDateColumn,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s column cannot be empty", name)
		}
	}
	return nil
}

// GetColumnName returns the actual column name, checking aliases first
func (c *LedgerParserConfig) GetColumnName(standardName string) string {
	if alias, exists := c.ColumnAliases[standardName]; exists {
		return alias
	}

	switch standardName {
	case "ledger_entry_id":
		return c.LedgerEntryIDColumn
	case "invoice_id":
		return c.InvoiceIDColumn
	case "payment_id":
		return c.PaymentIDColumn
	case "amount":
		return c.AmountColumn
	case "entry_date":
		return c.EntryDateColumn
	default:
		return standardName
	}
}
