// Package reporter renders reconciliation results for people and
// machines.
//
// Supported output formats:
//   - Console: human-readable summary plus per-payment detail rows
//   - JSON: the full result set with a summary header
//   - CSV: one row per payment for spreadsheet analysis
//
// Example usage:
//
//	gen, err := reporter.NewReportGenerator(nil)
//	err = gen.GenerateReport(results, os.Stdout)
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"payment-reconciliation-engine/internal/models"
	"payment-reconciliation-engine/internal/reconciler"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// IncludeReconciled adds fully reconciled payments to the detail
	// sections; headline counts always cover every payment
	IncludeReconciled bool `json:"include_reconciled"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:            FormatConsole,
		IncludeReconciled: false,
		CSVDelimiter:      ',',
		CSVHeaders:        true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	return nil
}

// ReportGenerator renders result sets in the configured format
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified
// configuration. A nil config uses defaults.
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// GenerateReport renders the result set to the writer in the configured
// format
func (rg *ReportGenerator) GenerateReport(results []*reconciler.ReconciliationResult, writer io.Writer) error {
	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(results, writer)
	case FormatJSON:
		return rg.generateJSONReport(results, writer)
	case FormatCSV:
		return rg.generateCSVReport(results, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

func (rg *ReportGenerator) generateConsoleReport(results []*reconciler.ReconciliationResult, writer io.Writer) error {
	summary := reconciler.Summarize(results)

	fmt.Fprintf(writer, "PAYMENT RECONCILIATION REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n\n", time.Now().Format(time.RFC3339))

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	fmt.Fprintf(writer, "Total Payments:        %d\n", summary.TotalPayments)
	fmt.Fprintf(writer, "Reconciled:            %d\n", summary.ReconciledCount)
	fmt.Fprintf(writer, "Partially Reconciled:  %d\n", summary.PartiallyReconciledCount)
	fmt.Fprintf(writer, "Unreconciled:          %d\n", summary.UnreconciledCount)
	fmt.Fprintf(writer, "Reconciliation Rate:   %.1f%%\n\n", summary.ReconciliationRate*100)

	if summary.TotalIssues > 0 {
		fmt.Fprintf(writer, "=== ISSUES ===\n")
		for _, issueType := range []models.IssueType{
			models.IssueMissingInvoice,
			models.IssueDuplicatePayment,
			models.IssueAmountMismatch,
			models.IssueMissingLedgerEntry,
			models.IssueReferenceMismatch,
			models.IssuePayerNameMismatch,
		} {
			if count := summary.IssueCounts[issueType]; count > 0 {
				fmt.Fprintf(writer, "%-22s %d\n", issueType.String()+":", count)
			}
		}
		fmt.Fprintf(writer, "\n")
	}

	fmt.Fprintf(writer, "=== DETAILS ===\n")
	for _, result := range results {
		if result.Status == reconciler.StatusReconciled && !rg.config.IncludeReconciled {
			continue
		}
		rg.printResultDetail(result, writer)
	}

	return nil
}

func (rg *ReportGenerator) printResultDetail(result *reconciler.ReconciliationResult, writer io.Writer) {
	invoiceID := "-"
	if result.MatchedInvoice != nil {
		invoiceID = result.MatchedInvoice.InvoiceID
	}

	fmt.Fprintf(writer, "%s  %-12s  invoice=%s  amount=%s  confidence=%.1f\n",
		result.Payment.PaymentID, result.Status, invoiceID,
		result.Payment.Amount.String(), result.ConfidenceScore)

	for _, issue := range result.Issues {
		fmt.Fprintf(writer, "    [%s] %s\n", issue.Type(), models.DescribeIssue(issue))
	}
}

// jsonReport is the top-level JSON document: summary first, then the
// full result list.
type jsonReport struct {
	GeneratedAt time.Time                          `json:"generated_at"`
	Summary     *reconciler.ReconciliationSummary  `json:"summary"`
	Results     []*reconciler.ReconciliationResult `json:"results"`
}

func (rg *ReportGenerator) generateJSONReport(results []*reconciler.ReconciliationResult, writer io.Writer) error {
	report := &jsonReport{
		GeneratedAt: time.Now().UTC(),
		Summary:     reconciler.Summarize(results),
		Results:     results,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (rg *ReportGenerator) generateCSVReport(results []*reconciler.ReconciliationResult, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{
			"payment_id",
			"payer_name",
			"amount",
			"payment_date",
			"reference_note",
			"matched_invoice",
			"status",
			"confidence_score",
			"issues",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, result := range results {
		invoiceID := ""
		if result.MatchedInvoice != nil {
			invoiceID = result.MatchedInvoice.InvoiceID
		}

		issues := make([]string, len(result.Issues))
		for i, issue := range result.Issues {
			issues[i] = issue.Type().String()
		}

		record := []string{
			result.Payment.PaymentID,
			result.Payment.PayerName,
			result.Payment.Amount.String(),
			result.Payment.PaymentDate.Format("2006-01-02"),
			result.Payment.ReferenceNote,
			invoiceID,
			result.Status.String(),
			strconv.FormatFloat(result.ConfidenceScore, 'f', 1, 64),
			strings.Join(issues, ";"),
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}
