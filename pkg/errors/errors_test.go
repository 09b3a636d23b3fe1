package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     int
	}{
		{CategoryFile, 2},
		{CategoryParse, 3},
		{CategoryValidation, 3},
		{CategoryConfiguration, 4},
		{CategoryReconciliation, 5},
		{CategoryInternal, 5},
		{ErrorCategory("unknown"), 1},
	}

	for _, tt := range tests {
		err := New(tt.category, CodeUnexpectedError, "test")
		if got := err.GetExitCode(); got != tt.want {
			t.Errorf("GetExitCode(%s) = %d, want %d", tt.category, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(CategoryFile, CodeFileNotFound, "file not found: data.csv")
	if err.Error() != "file not found: data.csv" {
		t.Errorf("Error() = %q", err.Error())
	}

	err.WithSuggestion("check the path")
	if !strings.Contains(err.Error(), "suggestion: check the path") {
		t.Errorf("Error() with suggestion = %q", err.Error())
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(cause, CategoryParse, CodeInvalidFormat, "parse failed")

	if err.Cause != cause {
		t.Error("Cause not preserved")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
	if err.StackTrace == nil {
		t.Error("wrapped error should carry a stack trace")
	}

	if Wrap(nil, CategoryParse, CodeInvalidFormat, "x") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWithContext(t *testing.T) {
	err := New(CategoryValidation, CodeMissingField, "missing field").
		WithContext("field", "amount").
		WithContext("line", 12)

	if err.Context["field"] != "amount" {
		t.Errorf("Context[field] = %v", err.Context["field"])
	}
	if err.Context["line"] != 12 {
		t.Errorf("Context[line] = %v", err.Context["line"])
	}
}

func TestFileError(t *testing.T) {
	err := FileError(CodeFileNotFound, "/tmp/missing.csv", nil)

	if err.Category != CategoryFile || err.Code != CodeFileNotFound {
		t.Errorf("category/code = %s/%s", err.Category, err.Code)
	}
	if !strings.Contains(err.Message, "/tmp/missing.csv") {
		t.Errorf("Message = %q, want the path", err.Message)
	}
	if err.Suggestion == "" {
		t.Error("file errors should carry a suggestion")
	}
	if err.Context["file_path"] != "/tmp/missing.csv" {
		t.Errorf("Context[file_path] = %v", err.Context["file_path"])
	}
}

func TestParseErrorContext(t *testing.T) {
	err := ParseError(CodeInvalidData, "payments.csv", 7, "amount", "abc", nil)

	if err.Category != CategoryParse {
		t.Errorf("Category = %s, want parse", err.Category)
	}
	if err.Context["line"] != 7 || err.Context["column"] != "amount" || err.Context["value"] != "abc" {
		t.Errorf("Context = %v", err.Context)
	}
	if !strings.Contains(err.Message, "line 7") {
		t.Errorf("Message = %q, want the line number", err.Message)
	}
}

func TestReconciliationError(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := ReconciliationError(CodeProcessingError, "payment matching", cause)

	if err.GetExitCode() != 5 {
		t.Errorf("exit code = %d, want 5", err.GetExitCode())
	}
	if err.Context["operation"] != "payment matching" {
		t.Errorf("Context[operation] = %v", err.Context["operation"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("cause should be reachable")
	}
}

func TestAsReconcilerError(t *testing.T) {
	inner := New(CategoryConfiguration, CodeInvalidConfig, "bad config")
	wrapped := fmt.Errorf("while loading: %w", inner)

	got, ok := AsReconcilerError(wrapped)
	if !ok || got != inner {
		t.Errorf("AsReconcilerError = %v, %v; want the inner error", got, ok)
	}

	if _, ok := AsReconcilerError(fmt.Errorf("plain")); ok {
		t.Error("plain error should not extract")
	}
}

func TestWrapIfNeeded(t *testing.T) {
	inner := New(CategoryFile, CodeFileNotFound, "gone")
	if got := WrapIfNeeded(inner, CategoryInternal, CodeUnexpectedError, "x"); got != inner {
		t.Error("existing ReconcilerError should pass through unchanged")
	}

	plain := fmt.Errorf("plain")
	got := WrapIfNeeded(plain, CategoryInternal, CodeUnexpectedError, "wrapped")
	if got.Category != CategoryInternal || got.Cause != plain {
		t.Errorf("WrapIfNeeded = %+v", got)
	}

	if WrapIfNeeded(nil, CategoryInternal, CodeUnexpectedError, "x") != nil {
		t.Error("nil should stay nil")
	}
}

func TestErrorSummary(t *testing.T) {
	errs := []*ReconcilerError{
		New(CategoryFile, CodeFileNotFound, "a"),
		New(CategoryParse, CodeInvalidFormat, "b"),
		New(CategoryReconciliation, CodeProcessingError, "c"),
	}

	summary := NewErrorSummary(errs)
	if summary.Total != 3 {
		t.Errorf("Total = %d, want 3", summary.Total)
	}
	if !summary.HasCategory(CategoryParse) || summary.HasCategory(CategoryInternal) {
		t.Error("HasCategory mismatch")
	}
	if summary.GetExitCode() != 5 {
		t.Errorf("summary exit code = %d, want the highest (5)", summary.GetExitCode())
	}
	if !strings.Contains(summary.Error(), "3 errors occurred") {
		t.Errorf("summary Error() = %q", summary.Error())
	}

	empty := NewErrorSummary(nil)
	if empty.GetExitCode() != 0 || empty.Error() != "no errors" {
		t.Errorf("empty summary = %d, %q", empty.GetExitCode(), empty.Error())
	}

	single := NewErrorSummary(errs[:1])
	if single.Error() != "a" {
		t.Errorf("single summary Error() = %q, want the error's own message", single.Error())
	}
}
