package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"payment-reconciliation-engine/cmd/reconciler/config"
	"payment-reconciliation-engine/internal/reconciler"
	"payment-reconciliation-engine/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the reconcile command
var (
	invoicesFile string
	paymentsFile string
	ledgerFile   string

	rulePreset      string
	minConfidence   float64
	nameSensitivity float64
	amountTolerance float64
	dateThreshold   int
	partialMin      float64

	detectDuplicates   bool
	verifyLedger       bool
	checkLedgerAmounts bool

	outputFormat      string
	outputFile        string
	includeReconciled bool

	filterStatus        string
	filterIssueType     string
	filterMinConfidence float64
	filterName          string
	filterStartDate     string
	filterEndDate       string
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile payments against invoices and the general ledger",
	Long: `Reconcile matches each payment to its best invoice candidate, detects
duplicate payments, and verifies payments against general-ledger entries.

This command requires:
- An invoice file (CSV format)
- A payment file (CSV format)

The ledger file is optional; without it, ledger verification is skipped.

Examples:
  # Basic reconciliation
  reconciler reconcile --invoices invoices.csv --payments payments.csv --ledger ledger.csv

  # Strict preset with a custom acceptance threshold
  reconciler reconcile --invoices inv.csv --payments pay.csv \
    --rules strict --min-confidence 85

  # JSON report written to a file
  reconciler reconcile --invoices inv.csv --payments pay.csv --ledger led.csv \
    --output-format json --output-file report.json

  # Only unreconciled payments for a given payer
  reconciler reconcile --invoices inv.csv --payments pay.csv \
    --filter-status unreconciled --filter-name acme`,

	PreRunE: validateReconcileFlags,
	RunE:    runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	// Input files
	reconcileCmd.Flags().StringVarP(&invoicesFile, "invoices", "i", "", "path to invoice CSV file (required)")
	reconcileCmd.Flags().StringVarP(&paymentsFile, "payments", "p", "", "path to payment CSV file (required)")
	reconcileCmd.Flags().StringVarP(&ledgerFile, "ledger", "l", "", "path to general-ledger CSV file (optional)")

	// Matching rules
	reconcileCmd.Flags().StringVar(&rulePreset, "rules", "default", "rule preset: default, strict, relaxed")
	reconcileCmd.Flags().Float64Var(&minConfidence, "min-confidence", -1, "minimum confidence score to accept a match")
	reconcileCmd.Flags().Float64Var(&nameSensitivity, "name-sensitivity", -1, "name similarity percentage below which a mismatch is flagged (0-100)")
	reconcileCmd.Flags().Float64VarP(&amountTolerance, "amount-tolerance", "a", -1, "amount tolerance percentage (0-100)")
	reconcileCmd.Flags().IntVarP(&dateThreshold, "date-threshold", "d", -1, "maximum day distance earning a date score")
	reconcileCmd.Flags().Float64Var(&partialMin, "partial-min", -1, "minimum percentage for a valid partial payment (0-100)")

	// Algorithm toggles
	reconcileCmd.Flags().BoolVar(&detectDuplicates, "detect-duplicates", true, "detect duplicate payments")
	reconcileCmd.Flags().BoolVar(&verifyLedger, "verify-ledger", true, "verify payments against the general ledger")
	reconcileCmd.Flags().BoolVar(&checkLedgerAmounts, "check-ledger-amounts", false, "also compare ledger entry amounts against payment amounts")

	// Output
	reconcileCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	reconcileCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
	reconcileCmd.Flags().BoolVar(&includeReconciled, "include-reconciled", false, "include fully reconciled payments in detail output")

	// Result filters
	reconcileCmd.Flags().StringVar(&filterStatus, "filter-status", "", "keep only results with this status")
	reconcileCmd.Flags().StringVar(&filterIssueType, "filter-issue", "", "keep only results with this issue type")
	reconcileCmd.Flags().Float64Var(&filterMinConfidence, "filter-min-confidence", 0, "keep only matched results at or above this score")
	reconcileCmd.Flags().StringVar(&filterName, "filter-name", "", "keep only results whose payer or customer name contains this substring")
	reconcileCmd.Flags().StringVar(&filterStartDate, "filter-start-date", "", "keep only payments dated on or after this date (e.g. 2025-07-01)")
	reconcileCmd.Flags().StringVar(&filterEndDate, "filter-end-date", "", "keep only payments dated on or before this date (e.g. 2025-07-31)")

	reconcileCmd.MarkFlagRequired("invoices")
	reconcileCmd.MarkFlagRequired("payments")

	viper.BindPFlag("invoices", reconcileCmd.Flags().Lookup("invoices"))
	viper.BindPFlag("payments", reconcileCmd.Flags().Lookup("payments"))
	viper.BindPFlag("ledger", reconcileCmd.Flags().Lookup("ledger"))
	viper.BindPFlag("rules", reconcileCmd.Flags().Lookup("rules"))
	viper.BindPFlag("output-format", reconcileCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", reconcileCmd.Flags().Lookup("output-file"))
}

func validateReconcileFlags(cmd *cobra.Command, args []string) error {
	// Viper values win so the config file and environment can override
	invoicesFile = viper.GetString("invoices")
	paymentsFile = viper.GetString("payments")
	ledgerFile = viper.GetString("ledger")
	rulePreset = viper.GetString("rules")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")

	if invoicesFile == "" {
		return fmt.Errorf("invoices file is required")
	}
	if paymentsFile == "" {
		return fmt.Errorf("payments file is required")
	}

	if err := validateFileExists(invoicesFile, "invoice file"); err != nil {
		return err
	}
	if err := validateFileExists(paymentsFile, "payment file"); err != nil {
		return err
	}
	if ledgerFile != "" {
		if err := validateFileExists(ledgerFile, "ledger file"); err != nil {
			return err
		}
	}

	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	overrides := config.RuleOverrides{
		MinConfidence:   minConfidence,
		NameSensitivity: nameSensitivity,
		AmountTolerance: amountTolerance,
		DateThreshold:   dateThreshold,
		PartialMin:      partialMin,
	}
	if cmd.Flags().Changed("detect-duplicates") {
		overrides.DetectDuplicates = &detectDuplicates
	}
	if cmd.Flags().Changed("verify-ledger") {
		overrides.VerifyLedger = &verifyLedger
	}
	if cmd.Flags().Changed("check-ledger-amounts") {
		overrides.CheckLedgerAmounts = &checkLedgerAmounts
	}

	// A missing ledger file must not flood every payment with
	// missing-ledger-entry issues
	if ledgerFile == "" && overrides.VerifyLedger == nil {
		disabled := false
		overrides.VerifyLedger = &disabled
	}

	rules, err := config.CreateRules(rulePreset, overrides)
	if err != nil {
		return err
	}

	service, err := reconciler.NewReconciliationService(config.CreateServiceConfig(rules))
	if err != nil {
		return fmt.Errorf("failed to create reconciliation service: %w", err)
	}

	report, err := service.Run(ctx, invoicesFile, paymentsFile, ledgerFile)
	if err != nil {
		return err
	}

	results := report.Results
	criteria, err := config.CreateFilterCriteria(filterStatus, filterIssueType, filterMinConfidence, filterName, filterStartDate, filterEndDate)
	if err != nil {
		return err
	}
	if criteria.IsActive() {
		results = reconciler.FilterResults(results, criteria)
	}

	reportConfig, err := config.CreateReportConfig(outputFormat, includeReconciled)
	if err != nil {
		return err
	}
	generator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	var output *os.File
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	if err := generator.GenerateReport(results, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nReconciliation completed.\n")
		fmt.Fprintf(os.Stderr, "Processed %d payments: %d reconciled, %d partial, %d unreconciled.\n",
			report.Summary.TotalPayments, report.Summary.ReconciledCount,
			report.Summary.PartiallyReconciledCount, report.Summary.UnreconciledCount)
	}

	return nil
}
