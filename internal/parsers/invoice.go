package parsers

import (
	"context"
	"io"

	"payment-reconciliation-engine/internal/models"
	"payment-reconciliation-engine/pkg/errors"
	"payment-reconciliation-engine/pkg/logger"
)

// InvoiceParser handles parsing of invoice CSV files
type InvoiceParser struct {
	*BaseParser
	config *InvoiceParserConfig
	logger logger.Logger
}

// NewInvoiceParser creates a new InvoiceParser with the given
// configuration. A nil config uses the default column mapping.
func NewInvoiceParser(config *InvoiceParserConfig) (*InvoiceParser, error) {
	if config == nil {
		config = DefaultInvoiceParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "invoice_parser_config", config, err)
	}

	parseConfig := DefaultParseConfig()
	parseConfig.HasHeader = config.HasHeader
	parseConfig.Delimiter = config.Delimiter

	return &InvoiceParser{
		BaseParser: NewBaseParser(parseConfig),
		config:     config,
		logger:     logger.GetGlobalLogger().WithComponent("invoice_parser"),
	}, nil
}

// ParseInvoices parses a CSV file containing invoices
func (ip *InvoiceParser) ParseInvoices(filePath string) ([]*models.Invoice, *ParseStats, error) {
	return ip.ParseInvoicesWithContext(context.Background(), filePath)
}

// ParseInvoicesWithContext parses invoices with cancellation support.
// Malformed rows are recorded in the stats and skipped.
func (ip *InvoiceParser) ParseInvoicesWithContext(ctx context.Context, filePath string) ([]*models.Invoice, *ParseStats, error) {
	ip.logger.WithField("file_path", filePath).Info("Starting invoice parsing")

	file, reader, err := ip.OpenFile(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	parseCtx := NewParseContext(ctx)
	stats := NewParseStats()

	requiredHeaders := []string{
		ip.config.GetColumnName("invoice_id"),
		ip.config.GetColumnName("customer_name"),
		ip.config.GetColumnName("amount_due"),
		ip.config.GetColumnName("due_date"),
		ip.config.GetColumnName("status"),
	}
	if err := ip.ReadHeaders(reader, parseCtx, requiredHeaders); err != nil {
		return nil, stats, err
	}

	var invoices []*models.Invoice

	for {
		record, err := ip.ReadRecord(reader, parseCtx)
		if err != nil {
			if err == io.EOF {
				break
			}
			if parseCtx.IsCancelled() {
				return invoices, stats, err
			}
			stats.AddError(&ParseError{
				Line:    parseCtx.LineNumber,
				Message: "failed to read record",
				Err:     err,
			})
			continue
		}

		stats.RecordsParsed++

		invoice, parseErr := ip.parseInvoiceFromRecord(record, parseCtx)
		if parseErr != nil {
			stats.AddError(parseErr)
			continue
		}

		if err := invoice.Validate(); err != nil {
			stats.AddError(&ParseError{
				Line:    parseCtx.LineNumber,
				Field:   "invoice",
				Value:   invoice.InvoiceID,
				Message: "invoice validation failed",
				Err:     err,
			})
			continue
		}

		invoices = append(invoices, invoice)
		stats.RecordsValid++
	}

	stats.TotalLines = parseCtx.LineNumber

	ip.logger.WithFields(logger.Fields{
		"file_path":     filePath,
		"records_valid": stats.RecordsValid,
		"error_count":   stats.ErrorCount,
	}).Info("Invoice parsing completed")

	if stats.HasErrors() {
		ip.logger.WithField("sample_errors", stats.GetSampleErrors(3)).Warn("Encountered errors during parsing")
	}

	return invoices, stats, nil
}

func (ip *InvoiceParser) parseInvoiceFromRecord(record []string, parseCtx *ParseContext) (*models.Invoice, *ParseError) {
	fields := make(map[string]string, 5)
	for _, name := range []string{"invoice_id", "customer_name", "amount_due", "due_date", "status"} {
		value, err := ip.GetFieldValue(record, parseCtx, ip.config.GetColumnName(name))
		if err != nil {
			return nil, &ParseError{
				Line:    parseCtx.LineNumber,
				Field:   ip.config.GetColumnName(name),
				Message: "missing field",
				Err:     err,
			}
		}
		fields[name] = value
	}

	amountDue, err := models.ParseDecimalFromString(fields["amount_due"])
	if err != nil {
		return nil, &ParseError{
			Line:    parseCtx.LineNumber,
			Field:   ip.config.GetColumnName("amount_due"),
			Value:   fields["amount_due"],
			Message: "invalid amount",
			Err:     err,
		}
	}

	dueDate, err := models.ParseTimeWithFormats(fields["due_date"])
	if err != nil {
		return nil, &ParseError{
			Line:    parseCtx.LineNumber,
			Field:   ip.config.GetColumnName("due_date"),
			Value:   fields["due_date"],
			Message: "invalid date",
			Err:     err,
		}
	}

	status, err := models.ParseInvoiceStatus(fields["status"])
	if err != nil {
		return nil, &ParseError{
			Line:    parseCtx.LineNumber,
			Field:   ip.config.GetColumnName("status"),
			Value:   fields["status"],
			Message: "invalid status",
			Err:     err,
		}
	}

	return models.NewInvoice(fields["invoice_id"], fields["customer_name"], amountDue, dueDate, status), nil
}
