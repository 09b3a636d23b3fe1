package parsers

import (
	"context"
	"io"

	"payment-reconciliation-engine/internal/models"
	"payment-reconciliation-engine/pkg/errors"
	"payment-reconciliation-engine/pkg/logger"
)

// PaymentParser handles parsing of payment CSV files
type PaymentParser struct {
	*BaseParser
	config *PaymentParserConfig
	logger logger.Logger
}

// NewPaymentParser creates a new PaymentParser with the given
// configuration. A nil config uses the default column mapping.
func NewPaymentParser(config *PaymentParserConfig) (*PaymentParser, error) {
	if config == nil {
		config = DefaultPaymentParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "payment_parser_config", config, err)
	}

	parseConfig := DefaultParseConfig()
	parseConfig.HasHeader = config.HasHeader
	parseConfig.Delimiter = config.Delimiter

	return &PaymentParser{
		BaseParser: NewBaseParser(parseConfig),
		config:     config,
		logger:     logger.GetGlobalLogger().WithComponent("payment_parser"),
	}, nil
}

// ParsePayments parses a CSV file containing payments
func (pp *PaymentParser) ParsePayments(filePath string) ([]*models.Payment, *ParseStats, error) {
	return pp.ParsePaymentsWithContext(context.Background(), filePath)
}

// ParsePaymentsWithContext parses payments with cancellation support.
// Malformed rows are recorded in the stats and skipped.
func (pp *PaymentParser) ParsePaymentsWithContext(ctx context.Context, filePath string) ([]*models.Payment, *ParseStats, error) {
	pp.logger.WithField("file_path", filePath).Info("Starting payment parsing")

	file, reader, err := pp.OpenFile(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	parseCtx := NewParseContext(ctx)
	stats := NewParseStats()

	// The reference note column is optional; empty notes are legal
	requiredHeaders := []string{
		pp.config.GetColumnName("payment_id"),
		pp.config.GetColumnName("payer_name"),
		pp.config.GetColumnName("amount"),
		pp.config.GetColumnName("payment_date"),
		pp.config.GetColumnName("method"),
	}
	if err := pp.ReadHeaders(reader, parseCtx, requiredHeaders); err != nil {
		return nil, stats, err
	}

	var payments []*models.Payment

	for {
		record, err := pp.ReadRecord(reader, parseCtx)
		if err != nil {
			if err == io.EOF {
				break
			}
			if parseCtx.IsCancelled() {
				return payments, stats, err
			}
			stats.AddError(&ParseError{
				Line:    parseCtx.LineNumber,
				Message: "failed to read record",
				Err:     err,
			})
			continue
		}

		stats.RecordsParsed++

		payment, parseErr := pp.parsePaymentFromRecord(record, parseCtx)
		if parseErr != nil {
			stats.AddError(parseErr)
			continue
		}

		if err := payment.Validate(); err != nil {
			stats.AddError(&ParseError{
				Line:    parseCtx.LineNumber,
				Field:   "payment",
				Value:   payment.PaymentID,
				Message: "payment validation failed",
				Err:     err,
			})
			continue
		}

		payments = append(payments, payment)
		stats.RecordsValid++
	}

	stats.TotalLines = parseCtx.LineNumber

	pp.logger.WithFields(logger.Fields{
		"file_path":     filePath,
		"records_valid": stats.RecordsValid,
		"error_count":   stats.ErrorCount,
	}).Info("Payment parsing completed")

	if stats.HasErrors() {
		pp.logger.WithField("sample_errors", stats.GetSampleErrors(3)).Warn("Encountered errors during parsing")
	}

	return payments, stats, nil
}

func (pp *PaymentParser) parsePaymentFromRecord(record []string, parseCtx *ParseContext) (*models.Payment, *ParseError) {
	fields := make(map[string]string, 5)
	for _, name := range []string{"payment_id", "payer_name", "amount", "payment_date", "method"} {
		value, err := pp.GetFieldValue(record, parseCtx, pp.config.GetColumnName(name))
		if err != nil {
			return nil, &ParseError{
				Line:    parseCtx.LineNumber,
				Field:   pp.config.GetColumnName(name),
				Message: "missing field",
				Err:     err,
			}
		}
		fields[name] = value
	}

	// Missing reference notes are tolerated
	referenceNote, _ := pp.GetFieldValue(record, parseCtx, pp.config.GetColumnName("reference_note"))

	amount, err := models.ParseDecimalFromString(fields["amount"])
	if err != nil {
		return nil, &ParseError{
			Line:    parseCtx.LineNumber,
			Field:   pp.config.GetColumnName("amount"),
			Value:   fields["amount"],
			Message: "invalid amount",
			Err:     err,
		}
	}

	paymentDate, err := models.ParseTimeWithFormats(fields["payment_date"])
	if err != nil {
		return nil, &ParseError{
			Line:    parseCtx.LineNumber,
			Field:   pp.config.GetColumnName("payment_date"),
			Value:   fields["payment_date"],
			Message: "invalid date",
			Err:     err,
		}
	}

	method, err := models.ParsePaymentMethod(fields["method"])
	if err != nil {
		return nil, &ParseError{
			Line:    parseCtx.LineNumber,
			Field:   pp.config.GetColumnName("method"),
			Value:   fields["method"],
			Message: "invalid payment method",
			Err:     err,
		}
	}

	return models.NewPayment(fields["payment_id"], fields["payer_name"], amount, paymentDate, method, referenceNote), nil
}
