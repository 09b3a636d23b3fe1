package config

import (
	"testing"

	"payment-reconciliation-engine/internal/matcher"
	"payment-reconciliation-engine/internal/models"
	"payment-reconciliation-engine/internal/reconciler"
	"payment-reconciliation-engine/internal/reporter"
)

func unsetOverrides() RuleOverrides {
	return RuleOverrides{
		MinConfidence:   -1,
		NameSensitivity: -1,
		AmountTolerance: -1,
		DateThreshold:   -1,
		PartialMin:      -1,
	}
}

func TestCreateRulesPresets(t *testing.T) {
	tests := []struct {
		preset string
		want   *matcher.ReconciliationRules
	}{
		{"default", matcher.DefaultRules()},
		{"", matcher.DefaultRules()},
		{"strict", matcher.StrictRules()},
		{"Relaxed", matcher.RelaxedRules()},
	}

	for _, tt := range tests {
		rules, err := CreateRules(tt.preset, unsetOverrides())
		if err != nil {
			t.Errorf("CreateRules(%q) failed: %v", tt.preset, err)
			continue
		}
		if rules.Thresholds.MinConfidenceScore != tt.want.Thresholds.MinConfidenceScore {
			t.Errorf("CreateRules(%q) MinConfidenceScore = %v, want %v",
				tt.preset, rules.Thresholds.MinConfidenceScore, tt.want.Thresholds.MinConfidenceScore)
		}
	}
}

func TestCreateRulesUnknownPreset(t *testing.T) {
	if _, err := CreateRules("aggressive", unsetOverrides()); err == nil {
		t.Error("expected an error for an unknown preset")
	}
}

func TestCreateRulesOverrides(t *testing.T) {
	overrides := unsetOverrides()
	overrides.MinConfidence = 75
	overrides.DateThreshold = 10
	off := false
	overrides.DetectDuplicates = &off

	rules, err := CreateRules("default", overrides)
	if err != nil {
		t.Fatalf("CreateRules failed: %v", err)
	}

	if rules.Thresholds.MinConfidenceScore != 75 {
		t.Errorf("MinConfidenceScore = %v, want 75", rules.Thresholds.MinConfidenceScore)
	}
	if rules.Thresholds.DateDifferenceThreshold != 10 {
		t.Errorf("DateDifferenceThreshold = %v, want 10", rules.Thresholds.DateDifferenceThreshold)
	}
	if rules.Enabled.DuplicateDetection {
		t.Error("DuplicateDetection should be disabled by the override")
	}

	// Untouched thresholds keep their preset values
	if rules.Thresholds.AmountMatchTolerance != matcher.DefaultRules().Thresholds.AmountMatchTolerance {
		t.Errorf("AmountMatchTolerance = %v, want the preset value", rules.Thresholds.AmountMatchTolerance)
	}
}

func TestCreateRulesInvalidOverride(t *testing.T) {
	overrides := unsetOverrides()
	overrides.MinConfidence = 150

	if _, err := CreateRules("default", overrides); err == nil {
		t.Error("expected a validation error for a confidence above 100")
	}
}

func TestCreateReportConfig(t *testing.T) {
	config, err := CreateReportConfig("JSON", true)
	if err != nil {
		t.Fatalf("CreateReportConfig failed: %v", err)
	}
	if config.Format != reporter.FormatJSON {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if !config.IncludeReconciled {
		t.Error("IncludeReconciled should be set")
	}

	if _, err := CreateReportConfig("xml", false); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestCreateFilterCriteria(t *testing.T) {
	criteria, err := CreateFilterCriteria("unreconciled", "missing_invoice", 50, "acme", "", "")
	if err != nil {
		t.Fatalf("CreateFilterCriteria failed: %v", err)
	}

	if criteria.Status != reconciler.StatusUnreconciled {
		t.Errorf("Status = %s, want unreconciled", criteria.Status)
	}
	if criteria.IssueType != models.IssueMissingInvoice {
		t.Errorf("IssueType = %s, want missing_invoice", criteria.IssueType)
	}
	if criteria.MinConfidence != 50 || criteria.NameContains != "acme" {
		t.Errorf("criteria = %+v", criteria)
	}

	if _, err := CreateFilterCriteria("settled", "", 0, "", "", ""); err == nil {
		t.Error("expected an error for an invalid status filter")
	}
	if _, err := CreateFilterCriteria("", "late_payment", 0, "", "", ""); err == nil {
		t.Error("expected an error for an invalid issue type filter")
	}
}

func TestCreateFilterCriteriaDateRange(t *testing.T) {
	criteria, err := CreateFilterCriteria("", "", 0, "", "2025-07-01", "2025-07-31")
	if err != nil {
		t.Fatalf("CreateFilterCriteria failed: %v", err)
	}

	if got := criteria.StartDate.Format("2006-01-02"); got != "2025-07-01" {
		t.Errorf("StartDate = %s, want 2025-07-01", got)
	}
	if got := criteria.EndDate.Format("2006-01-02"); got != "2025-07-31" {
		t.Errorf("EndDate = %s, want 2025-07-31", got)
	}
	if !criteria.IsActive() {
		t.Error("date-only criteria should be active")
	}

	if _, err := CreateFilterCriteria("", "", 0, "", "not-a-date", ""); err == nil {
		t.Error("expected an error for an unparseable start date")
	}
	if _, err := CreateFilterCriteria("", "", 0, "", "", "soon"); err == nil {
		t.Error("expected an error for an unparseable end date")
	}
	if _, err := CreateFilterCriteria("", "", 0, "", "2025-08-01", "2025-07-01"); err == nil {
		t.Error("expected an error for an inverted date range")
	}
}

func TestCreateServiceConfig(t *testing.T) {
	rules := matcher.StrictRules()
	config := CreateServiceConfig(rules)

	if config.Rules != rules {
		t.Error("service config should carry the provided rules")
	}
	if config.InvoiceParserConfig == nil || config.PaymentParserConfig == nil || config.LedgerParserConfig == nil {
		t.Error("service config should carry default parser configs")
	}
}
