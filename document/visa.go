package document

import (
	"fmt"
	"regexp"
	"strings"
)

// visaKeywords must all appear (case-insensitively) in the text extracted
// from an e-visa document for it to count as a visa at all.
var visaKeywords = []string{
	"e-visa number",
	"name",
	"date of birth",
	"nationality",
	"visa issue date",
	"visa valid till",
	"type of visa",
	"visa issuing authority",
}

// dayMonthYearPattern finds the first DD/MM/YYYY date in the visa text.
var dayMonthYearPattern = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b`)

// VisaCheckResult itemizes the outcome of the visa document checks so a
// failed upload can explain exactly what was missing or mismatched.
type VisaCheckResult struct {
	MissingKeywords []string
	NameMatches     bool
	DOBMatches      bool
}

// Passed reports whether every visa check succeeded.
func (r VisaCheckResult) Passed() bool {
	return len(r.MissingKeywords) == 0 && r.NameMatches && r.DOBMatches
}

// CheckVisaText runs the visa-path checks over the text extracted from the
// uploaded document: the fixed keyword set must be present, every token of
// the verified passport name must appear in the text, and the first
// DD/MM/YYYY date found must equal the verified date of birth once
// converted to YYYY-MM-DD.
func CheckVisaText(text, passportName, passportDOB string) VisaCheckResult {
	lower := strings.ToLower(text)

	var result VisaCheckResult
	for _, keyword := range visaKeywords {
		if !strings.Contains(lower, keyword) {
			result.MissingKeywords = append(result.MissingKeywords, keyword)
		}
	}

	result.NameMatches = NameTokensContained(passportName, text)

	if match := dayMonthYearPattern.FindStringSubmatch(text); match != nil {
		iso := fmt.Sprintf("%s-%s-%s", match[3], match[2], match[1])
		result.DOBMatches = iso == passportDOB
	}

	return result
}
