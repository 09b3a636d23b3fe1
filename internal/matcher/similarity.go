package matcher

import (
	"regexp"
	"strings"
)

// Entity-name comparison is a deliberately small heuristic, not a
// statistical model: strip a corporate suffix, check for equality and
// containment, then fall back to token overlap. The suffix table and
// token rules are fixed constants tuned for payer/customer name data.

// corporateSuffixes lists the trailing corporate forms stripped before
// comparison. Matched case-insensitively, with an optional trailing
// period.
var corporateSuffixes = []string{"inc", "corp", "llc", "ltd", "co"}

var (
	suffixPattern = regexp.MustCompile(`(?i)[\s,]+(` + strings.Join(corporateSuffixes, "|") + `)\.?\s*$`)
	tokenPattern  = regexp.MustCompile(`\W+`)
)

const (
	exactNameScore       = 1.0
	containmentNameScore = 0.9
	neutralNameScore     = 0.5

	// Tokens this short carry no signal (initials, "of", "the").
	minTokenLength = 3

	// Tokens longer than this also match by substring containment,
	// covering truncations like "International" vs "Intl...".
	substringTokenLength = 5
)

// NameSimilarity compares two free-text entity names and returns a score
// in [0,1]. 1.0 means the cleaned names are identical, 0.9 means one
// contains the other, otherwise the score is the ratio of matched tokens
// to the larger token count. Returns a neutral 0.5 when either side has
// no comparable tokens. Stateless.
func NameSimilarity(a, b string) float64 {
	cleanA := normalizeEntityName(a)
	cleanB := normalizeEntityName(b)

	if cleanA == cleanB {
		return exactNameScore
	}

	if cleanA != "" && cleanB != "" &&
		(strings.Contains(cleanA, cleanB) || strings.Contains(cleanB, cleanA)) {
		return containmentNameScore
	}

	tokensA := comparableTokens(cleanA)
	tokensB := comparableTokens(cleanB)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return neutralNameScore
	}

	matched := 0
	for _, ta := range tokensA {
		for _, tb := range tokensB {
			if tokensMatch(ta, tb) {
				matched++
				break
			}
		}
	}

	maxTokens := len(tokensA)
	if len(tokensB) > maxTokens {
		maxTokens = len(tokensB)
	}

	return float64(matched) / float64(maxTokens)
}

// normalizeEntityName strips a trailing corporate suffix and lowercases
func normalizeEntityName(name string) string {
	name = strings.TrimSpace(name)
	name = suffixPattern.ReplaceAllString(name, "")
	return strings.ToLower(strings.TrimSpace(name))
}

// comparableTokens splits a cleaned name on non-word boundaries and
// discards tokens too short to compare
func comparableTokens(name string) []string {
	var tokens []string
	for _, tok := range tokenPattern.Split(name, -1) {
		if len(tok) >= minTokenLength {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// tokensMatch reports whether two tokens are equal, or whether one long
// token contains the other
func tokensMatch(a, b string) bool {
	if a == b {
		return true
	}

	if len(a) > substringTokenLength && strings.Contains(b, a) {
		return true
	}

	if len(b) > substringTokenLength && strings.Contains(a, b) {
		return true
	}

	return false
}
