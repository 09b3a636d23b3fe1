package matcher

import "testing"

func TestNameSimilarityExactAfterSuffixStrip(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"Acme Corp", "Acme Corp"},
		{"Acme Corp", "acme corp"},
		{"Acme Corp", "Acme, Inc."},
		{"Globex, LLC", "Globex"},
		{"Initech Ltd", "Initech Co."},
	}

	for _, tt := range tests {
		if got := NameSimilarity(tt.a, tt.b); got != 1.0 {
			t.Errorf("NameSimilarity(%q, %q) = %v, want 1.0", tt.a, tt.b, got)
		}
	}
}

func TestNameSimilarityContainment(t *testing.T) {
	if got := NameSimilarity("Stark Industries", "Stark"); got != 0.9 {
		t.Errorf("NameSimilarity containment = %v, want 0.9", got)
	}

	// Symmetric
	if got := NameSimilarity("Stark", "Stark Industries"); got != 0.9 {
		t.Errorf("NameSimilarity reverse containment = %v, want 0.9", got)
	}
}

func TestNameSimilarityTokenOverlap(t *testing.T) {
	// Tokens: [wayne enterprises group] vs [wayne holdings group],
	// two of three match
	got := NameSimilarity("Wayne Enterprises Group", "Wayne Holdings Group")
	want := 2.0 / 3.0
	if got != want {
		t.Errorf("NameSimilarity token overlap = %v, want %v", got, want)
	}
}

func TestNameSimilarityAsymmetricTokenCounts(t *testing.T) {
	// One shared token out of max(1, 3)
	got := NameSimilarity("Wayne", "Wayne Consolidated Holdings")
	// Containment applies first: "wayne" is contained in the longer name
	if got != 0.9 {
		t.Errorf("NameSimilarity = %v, want 0.9", got)
	}

	got = NameSimilarity("Wayne Partners", "Wayne Consolidated Holdings")
	want := 1.0 / 3.0
	if got != want {
		t.Errorf("NameSimilarity = %v, want %v", got, want)
	}
}

func TestNameSimilarityLongTokenSubstring(t *testing.T) {
	// "international" matches inside "internationale"
	got := NameSimilarity("International Shipping", "Internationale Shipping")
	if got != 1.0 {
		t.Errorf("NameSimilarity long-token substring = %v, want 1.0", got)
	}
}

func TestNameSimilarityShortTokensDiscarded(t *testing.T) {
	// Every token is under three characters, so neither side has
	// comparable tokens
	if got := NameSimilarity("A B", "C D"); got != 0.5 {
		t.Errorf("NameSimilarity short tokens = %v, want neutral 0.5", got)
	}
}

func TestNameSimilarityEmptyInput(t *testing.T) {
	if got := NameSimilarity("", "Acme Corp"); got != 0.5 {
		t.Errorf("NameSimilarity empty side = %v, want neutral 0.5", got)
	}

	// Two empty names normalize to equal strings
	if got := NameSimilarity("", ""); got != 1.0 {
		t.Errorf("NameSimilarity both empty = %v, want 1.0", got)
	}
}

func TestNameSimilarityDisjointNames(t *testing.T) {
	if got := NameSimilarity("Acme Widgets", "Globex Holdings"); got != 0.0 {
		t.Errorf("NameSimilarity disjoint = %v, want 0.0", got)
	}
}

func TestNameSimilaritySuffixOnlyInMiddle(t *testing.T) {
	// The suffix is stripped only at the end of the name
	got := NameSimilarity("Corp Acme", "Acme")
	if got == 1.0 {
		t.Errorf("NameSimilarity should not strip mid-name suffix, got %v", got)
	}
}
