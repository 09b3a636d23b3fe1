package parsers

import (
	"context"
	"io"

	"payment-reconciliation-engine/internal/models"
	"payment-reconciliation-engine/pkg/errors"
	"payment-reconciliation-engine/pkg/logger"
)

// LedgerParser handles parsing of general-ledger CSV files
type LedgerParser struct {
	*BaseParser
	config *LedgerParserConfig
	logger logger.Logger
}

// NewLedgerParser creates a new LedgerParser with the given
// configuration. A nil config uses the default column mapping.
func NewLedgerParser(config *LedgerParserConfig) (*LedgerParser, error) {
	if config == nil {
		config = DefaultLedgerParserConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "ledger_parser_config", config, err)
	}

	parseConfig := DefaultParseConfig()
	parseConfig.HasHeader = config.HasHeader
	parseConfig.Delimiter = config.Delimiter

	return &LedgerParser{
		BaseParser: NewBaseParser(parseConfig),
		config:     config,
		logger:     logger.GetGlobalLogger().WithComponent("ledger_parser"),
	}, nil
}

// ParseEntries parses a CSV file containing general-ledger entries
func (lp *LedgerParser) ParseEntries(filePath string) ([]*models.LedgerEntry, *ParseStats, error) {
	return lp.ParseEntriesWithContext(context.Background(), filePath)
}

// ParseEntriesWithContext parses ledger entries with cancellation
// support. Malformed rows are recorded in the stats and skipped.
func (lp *LedgerParser) ParseEntriesWithContext(ctx context.Context, filePath string) ([]*models.LedgerEntry, *ParseStats, error) {
	lp.logger.WithField("file_path", filePath).Info("Starting ledger parsing")

	file, reader, err := lp.OpenFile(filePath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	parseCtx := NewParseContext(ctx)
	stats := NewParseStats()

	requiredHeaders := []string{
		lp.config.GetColumnName("ledger_entry_id"),
		lp.config.GetColumnName("invoice_id"),
		lp.config.GetColumnName("payment_id"),
		lp.config.GetColumnName("amount"),
		lp.config.GetColumnName("entry_date"),
	}
	if err := lp.ReadHeaders(reader, parseCtx, requiredHeaders); err != nil {
		return nil, stats, err
	}

	var entries []*models.LedgerEntry

	for {
		record, err := lp.ReadRecord(reader, parseCtx)
		if err != nil {
			if err == io.EOF {
				break
			}
			if parseCtx.IsCancelled() {
				return entries, stats, err
			}
			stats.AddError(&ParseError{
				Line:    parseCtx.LineNumber,
				Message: "failed to read record",
				Err:     err,
			})
			continue
		}

		stats.RecordsParsed++

		entry, parseErr := lp.parseEntryFromRecord(record, parseCtx)
		if parseErr != nil {
			stats.AddError(parseErr)
			continue
		}

		if err := entry.Validate(); err != nil {
			stats.AddError(&ParseError{
				Line:    parseCtx.LineNumber,
				Field:   "ledger_entry",
				Value:   entry.LedgerEntryID,
				Message: "ledger entry validation failed",
				Err:     err,
			})
			continue
		}

		entries = append(entries, entry)
		stats.RecordsValid++
	}

	stats.TotalLines = parseCtx.LineNumber

	lp.logger.WithFields(logger.Fields{
		"file_path":     filePath,
		"records_valid": stats.RecordsValid,
		"error_count":   stats.ErrorCount,
	}).Info("Ledger parsing completed")

	if stats.HasErrors() {
		lp.logger.WithField("sample_errors", stats.GetSampleErrors(3)).Warn("Encountered errors during parsing")
	}

	return entries, stats, nil
}

func (lp *LedgerParser) parseEntryFromRecord(record []string, parseCtx *ParseContext) (*models.LedgerEntry, *ParseError) {
	fields := make(map[string]string, 5)
	for _, name := range []string{"ledger_entry_id", "invoice_id", "payment_id", "amount", "entry_date"} {
		value, err := lp.GetFieldValue(record, parseCtx, lp.config.GetColumnName(name))
		if err != nil {
			return nil, &ParseError{
				Line:    parseCtx.LineNumber,
				Field:   lp.config.GetColumnName(name),
				Message: "missing field",
				Err:     err,
			}
		}
		fields[name] = value
	}

	amount, err := models.ParseDecimalFromString(fields["amount"])
	if err != nil {
		return nil, &ParseError{
			Line:    parseCtx.LineNumber,
			Field:   lp.config.GetColumnName("amount"),
			Value:   fields["amount"],
			Message: "invalid amount",
			Err:     err,
		}
	}

	entryDate, err := models.ParseTimeWithFormats(fields["entry_date"])
	if err != nil {
		return nil, &ParseError{
			Line:    parseCtx.LineNumber,
			Field:   lp.config.GetColumnName("entry_date"),
			Value:   fields["entry_date"],
			Message: "invalid date",
			Err:     err,
		}
	}

	return models.NewLedgerEntry(fields["ledger_entry_id"], fields["invoice_id"], fields["payment_id"], amount, entryDate), nil
}
