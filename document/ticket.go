package document

import "strings"

// NameTokensContained reports whether every whitespace-delimited token of
// the verified passport name occurs, case-insensitively, somewhere in the
// extracted passenger name. Deliberately looser than NamesMatch: tickets
// abbreviate middle names and prepend titles ("Mr. Ravi K Sharma").
func NameTokensContained(passportName, passengerName string) bool {
	haystack := strings.ToLower(passengerName)
	for _, token := range strings.Fields(strings.ToLower(passportName)) {
		if !strings.Contains(haystack, token) {
			return false
		}
	}
	return true
}
