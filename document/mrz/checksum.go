package mrz

// ICAO 9303 check-digit weights, cycling over the field characters.
var weights = [3]int{7, 3, 1}

// charValue maps an MRZ character to its check-digit value: digits keep
// their numeric value, letters map A=10..Z=35, filler '<' and anything
// unexpected count as zero.
func charValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 0
	}
}

// CheckDigit computes the ICAO 9303 check digit for a field.
func CheckDigit(field string) int {
	total := 0
	for i := 0; i < len(field); i++ {
		total += charValue(field[i]) * weights[i%3]
	}
	return total % 10
}

func digitMatches(field string, check byte) bool {
	if check < '0' || check > '9' {
		return false
	}
	return CheckDigit(field) == int(check-'0')
}

// Verify recomputes the check digits for the passport number, date of
// birth and expiry fields and compares them to the embedded digits.
// The personal-number and final composite check digits are parsed but not
// verified; the personal-number field is usually filler on the passports
// this service handles.
func Verify(r Record) bool {
	passportValid := digitMatches(r.PassportNumber, r.PassportCheckDigit)
	dobValid := digitMatches(r.DateOfBirth, r.DOBCheckDigit)
	expiryValid := digitMatches(r.Expiry, r.ExpiryCheckDigit)
	return passportValid && dobValid && expiryValid
}
