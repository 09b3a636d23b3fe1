// Package config translates CLI flag and environment values into the
// engine's configuration types.
package config

import (
	"fmt"
	"strings"

	"payment-reconciliation-engine/internal/matcher"
	"payment-reconciliation-engine/internal/models"
	"payment-reconciliation-engine/internal/reconciler"
	"payment-reconciliation-engine/internal/reporter"
	"payment-reconciliation-engine/pkg/logger"
)

// RuleOverrides carries the optional flag values that override the
// selected preset. Negative numeric values mean "not set".
type RuleOverrides struct {
	MinConfidence      float64
	NameSensitivity    float64
	AmountTolerance    float64
	DateThreshold      int
	PartialMin         float64
	DetectDuplicates   *bool
	VerifyLedger       *bool
	CheckLedgerAmounts *bool
}

// CreateRules builds the reconciliation rules from a preset name plus
// flag overrides
func CreateRules(preset string, overrides RuleOverrides) (*matcher.ReconciliationRules, error) {
	var rules *matcher.ReconciliationRules

	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "", "default":
		rules = matcher.DefaultRules()
	case "strict":
		rules = matcher.StrictRules()
	case "relaxed":
		rules = matcher.RelaxedRules()
	default:
		return nil, fmt.Errorf("unknown rule preset '%s': use default, strict or relaxed", preset)
	}

	if overrides.MinConfidence >= 0 {
		rules.Thresholds.MinConfidenceScore = overrides.MinConfidence
	}
	if overrides.NameSensitivity >= 0 {
		rules.Thresholds.NameMatchSensitivity = overrides.NameSensitivity
	}
	if overrides.AmountTolerance >= 0 {
		rules.Thresholds.AmountMatchTolerance = overrides.AmountTolerance
	}
	if overrides.DateThreshold >= 0 {
		rules.Thresholds.DateDifferenceThreshold = overrides.DateThreshold
	}
	if overrides.PartialMin >= 0 {
		rules.Thresholds.PartialPaymentMinPercentage = overrides.PartialMin
	}
	if overrides.DetectDuplicates != nil {
		rules.Enabled.DuplicateDetection = *overrides.DetectDuplicates
	}
	if overrides.VerifyLedger != nil {
		rules.Enabled.LedgerVerification = *overrides.VerifyLedger
	}
	if overrides.CheckLedgerAmounts != nil {
		rules.Enabled.LedgerAmountCheck = *overrides.CheckLedgerAmounts
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule configuration: %w", err)
	}

	return rules, nil
}

// CreateServiceConfig builds the service configuration for a run
func CreateServiceConfig(rules *matcher.ReconciliationRules) *reconciler.ServiceConfig {
	config := reconciler.DefaultServiceConfig()
	config.Rules = rules
	return config
}

// CreateReportConfig builds the report configuration from flag values
func CreateReportConfig(format string, includeReconciled bool) (*reporter.ReportConfig, error) {
	config := reporter.DefaultReportConfig()
	config.Format = reporter.OutputFormat(strings.ToLower(strings.TrimSpace(format)))
	config.IncludeReconciled = includeReconciled

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// CreateFilterCriteria builds result filter criteria from flag values.
// Date bounds accept any of the supported input date formats and are
// inclusive.
func CreateFilterCriteria(status, issueType string, minConfidence float64, nameContains, startDate, endDate string) (reconciler.FilterCriteria, error) {
	criteria := reconciler.FilterCriteria{
		MinConfidence: minConfidence,
		NameContains:  nameContains,
	}

	if status != "" {
		s := reconciler.ReconciliationStatus(strings.ToLower(strings.TrimSpace(status)))
		if !s.IsValid() {
			return criteria, fmt.Errorf("invalid status filter '%s': use reconciled, partially_reconciled or unreconciled", status)
		}
		criteria.Status = s
	}

	if issueType != "" {
		t := models.IssueType(strings.ToLower(strings.TrimSpace(issueType)))
		if !t.IsValid() {
			return criteria, fmt.Errorf("invalid issue type filter '%s'", issueType)
		}
		criteria.IssueType = t
	}

	if startDate != "" {
		d, err := models.ParseTimeWithFormats(startDate)
		if err != nil {
			return criteria, fmt.Errorf("invalid start date filter '%s': %w", startDate, err)
		}
		criteria.StartDate = d
	}

	if endDate != "" {
		d, err := models.ParseTimeWithFormats(endDate)
		if err != nil {
			return criteria, fmt.Errorf("invalid end date filter '%s': %w", endDate, err)
		}
		criteria.EndDate = d
	}

	if !criteria.StartDate.IsZero() && !criteria.EndDate.IsZero() &&
		criteria.EndDate.Before(criteria.StartDate) {
		return criteria, fmt.Errorf("end date filter %s is before start date filter %s", endDate, startDate)
	}

	return criteria, nil
}

// CreateLoggerConfig builds the logger configuration from flag values
func CreateLoggerConfig(verbose bool) *logger.Config {
	if verbose {
		return logger.DebugConfig()
	}
	return logger.DefaultConfig()
}
