// Package document cross-checks user-claimed identity fields against the
// fields the extraction oracle read from a travel document.
package document

import "strings"

// nameMatchThreshold is the minimum percentage of the provided name's
// characters that must be covered by the extracted name.
const nameMatchThreshold = 95.0

// normalizeName lowercases a name and strips everything outside a-z:
// whitespace, digits, punctuation and diacritics as typed.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NamesMatch fuzzily compares a user-provided name against an extracted
// name using character-frequency overlap. The multiset intersection of the
// two normalized names must cover at least 95% of the provided name's
// length. Order-independent on purpose: extracted names may swap surname
// and given names. Not symmetric: the percentage is normalized by the
// provided name's length.
func NamesMatch(provided, extracted string) bool {
	normalizedProvided := normalizeName(provided)
	normalizedExtracted := normalizeName(extracted)

	// Fail closed when either side normalizes to nothing.
	if normalizedExtracted == "" || normalizedProvided == "" {
		return false
	}

	var providedFreq, extractedFreq [26]int
	for i := 0; i < len(normalizedProvided); i++ {
		providedFreq[normalizedProvided[i]-'a']++
	}
	for i := 0; i < len(normalizedExtracted); i++ {
		extractedFreq[normalizedExtracted[i]-'a']++
	}

	matchCount := 0
	for i := 0; i < 26; i++ {
		matchCount += min(providedFreq[i], extractedFreq[i])
	}

	matchPercentage := float64(matchCount) / float64(len(normalizedProvided)) * 100
	return matchPercentage >= nameMatchThreshold
}
