package reconciler

import (
	"context"

	"payment-reconciliation-engine/internal/matcher"
	"payment-reconciliation-engine/internal/models"
	"payment-reconciliation-engine/internal/parsers"
	"payment-reconciliation-engine/pkg/errors"
	"payment-reconciliation-engine/pkg/logger"
)

// ServiceConfig wires file parsing and the engine together for one run
type ServiceConfig struct {
	Rules *matcher.ReconciliationRules

	InvoiceParserConfig *parsers.InvoiceParserConfig
	PaymentParserConfig *parsers.PaymentParserConfig
	LedgerParserConfig  *parsers.LedgerParserConfig
}

// DefaultServiceConfig returns a configuration with default rules and
// standard column mappings
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Rules:               matcher.DefaultRules(),
		InvoiceParserConfig: parsers.DefaultInvoiceParserConfig(),
		PaymentParserConfig: parsers.DefaultPaymentParserConfig(),
		LedgerParserConfig:  parsers.DefaultLedgerParserConfig(),
	}
}

// ReconciliationService loads the input files and runs the engine over
// them. It is the programmatic entry point the CLI builds on.
type ReconciliationService struct {
	engine        *Engine
	invoiceParser *parsers.InvoiceParser
	paymentParser *parsers.PaymentParser
	ledgerParser  *parsers.LedgerParser
	logger        logger.Logger
}

// NewReconciliationService creates a service from the given
// configuration. A nil config uses defaults throughout.
func NewReconciliationService(config *ServiceConfig) (*ReconciliationService, error) {
	if config == nil {
		config = DefaultServiceConfig()
	}

	invoiceParser, err := parsers.NewInvoiceParser(config.InvoiceParserConfig)
	if err != nil {
		return nil, err
	}

	paymentParser, err := parsers.NewPaymentParser(config.PaymentParserConfig)
	if err != nil {
		return nil, err
	}

	ledgerParser, err := parsers.NewLedgerParser(config.LedgerParserConfig)
	if err != nil {
		return nil, err
	}

	return &ReconciliationService{
		engine:        NewEngine(config.Rules),
		invoiceParser: invoiceParser,
		paymentParser: paymentParser,
		ledgerParser:  ledgerParser,
		logger:        logger.GetGlobalLogger().WithComponent("reconciliation_service"),
	}, nil
}

// Engine returns the underlying reconciliation engine
func (s *ReconciliationService) Engine() *Engine {
	return s.engine
}

// RunReport bundles the per-payment results with their summary
type RunReport struct {
	Results []*ReconciliationResult `json:"results"`
	Summary *ReconciliationSummary  `json:"summary"`
}

// Run loads the input files and reconciles them. The ledger path may be
// empty, in which case ledger verification sees an empty ledger (and
// should normally be disabled in the rules).
func (s *ReconciliationService) Run(ctx context.Context, invoicesPath, paymentsPath, ledgerPath string) (*RunReport, error) {
	invoices, invoiceStats, err := s.invoiceParser.ParseInvoicesWithContext(ctx, invoicesPath)
	if err != nil {
		return nil, errors.WrapIfNeeded(err, errors.CategoryFile, errors.CodeFileNotFound, "failed to load invoices")
	}

	payments, paymentStats, err := s.paymentParser.ParsePaymentsWithContext(ctx, paymentsPath)
	if err != nil {
		return nil, errors.WrapIfNeeded(err, errors.CategoryFile, errors.CodeFileNotFound, "failed to load payments")
	}

	var entries []*models.LedgerEntry
	if ledgerPath != "" {
		var ledgerStats *parsers.ParseStats
		entries, ledgerStats, err = s.ledgerParser.ParseEntriesWithContext(ctx, ledgerPath)
		if err != nil {
			return nil, errors.WrapIfNeeded(err, errors.CategoryFile, errors.CodeFileNotFound, "failed to load ledger")
		}
		s.logInputStats("ledger", ledgerPath, ledgerStats)
	}

	s.logInputStats("invoices", invoicesPath, invoiceStats)
	s.logInputStats("payments", paymentsPath, paymentStats)

	results, err := s.engine.Reconcile(ctx, invoices, payments, entries)
	if err != nil {
		return nil, errors.ReconciliationError(errors.CodeProcessingError, "reconcile", err)
	}

	return &RunReport{
		Results: results,
		Summary: Summarize(results),
	}, nil
}

func (s *ReconciliationService) logInputStats(kind, path string, stats *parsers.ParseStats) {
	s.logger.WithFields(logger.Fields{
		"input":         kind,
		"file_path":     path,
		"records_valid": stats.RecordsValid,
		"error_count":   stats.ErrorCount,
	}).Debug("Loaded input file")
}
