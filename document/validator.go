package document

import (
	"log/slog"
	"time"

	"go-travel-verifier/document/mrz"
	"go-travel-verifier/models"
)

// requiredNationality restricts the service to Indian passports.
const requiredNationality = "IND"

const isoDateLayout = "2006-01-02"

// Validate cross-checks the user-claimed identity against the extracted
// document fields and the MRZ's own checksum data. Every flag is computed
// independently, with no short-circuiting, so a failed verdict can report
// all mismatched fields at once. A malformed MRZ is a failed check, not an
// error: the MRZ and nationality flags simply stay false.
func Validate(inputName, inputDOB, inputPassportNumber string, extracted models.ExtractedPassportFields, rawMRZ string) models.ValidationVerdict {
	details := models.ValidationDetails{
		IsValidName:     NamesMatch(inputName, extracted.Name),
		IsValidDOB:      extracted.DateOfBirth == inputDOB,
		IsValidPassport: extracted.PassportNumber == inputPassportNumber,
		IsValidExpiry:   expiryInFuture(extracted.ExpiryDate),
	}

	record, err := mrz.Parse(rawMRZ)
	if err != nil {
		slog.Warn("mrz did not parse, failing mrz checks", "error", err)
	} else {
		details.IsValidMRZ = mrz.Verify(record)
		details.IsValidCountry = record.Nationality == requiredNationality
	}

	return models.ValidationVerdict{
		IsValid: details.IsValidName &&
			details.IsValidDOB &&
			details.IsValidPassport &&
			details.IsValidMRZ &&
			details.IsValidExpiry &&
			details.IsValidCountry,
		Details: details,
	}
}

// expiryInFuture reports whether the document expiry is strictly after the
// server clock. A missing or unparsable expiry fails closed.
func expiryInFuture(expiryDate string) bool {
	if expiryDate == "" {
		return false
	}
	expiry, err := time.Parse(isoDateLayout, expiryDate)
	if err != nil {
		return false
	}
	return expiry.After(time.Now())
}
