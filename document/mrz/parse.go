// Package mrz decodes and checksum-verifies the machine-readable zone of a
// TD3 passport per ICAO Doc 9303.
package mrz

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormat reports a structurally malformed MRZ string: a missing second
// line or a second line too short to hold all fixed-width fields.
var ErrFormat = errors.New("invalid mrz format")

// Field boundaries on the second MRZ line of a TD3 document.
const (
	passportNumberStart = 0
	passportNumberEnd   = 9
	passportCheckPos    = 9
	nationalityStart    = 10
	nationalityEnd      = 13
	dateOfBirthStart    = 13
	dateOfBirthEnd      = 19
	dobCheckPos         = 19
	sexPos              = 20
	expiryStart         = 21
	expiryEnd           = 27
	expiryCheckPos      = 27
	personalNumberStart = 28
	personalNumberEnd   = 42
	finalCheckPos       = 42

	// minLineLength is the shortest second line that still contains the
	// final check digit.
	minLineLength = finalCheckPos + 1
)

// Record holds the decoded fields of the second MRZ line. It is derived
// data: recompute it from the raw string rather than persisting it.
type Record struct {
	PassportNumber     string
	PassportCheckDigit byte
	Nationality        string
	DateOfBirth        string // YYMMDD
	DOBCheckDigit      byte
	Sex                byte
	Expiry             string // YYMMDD
	ExpiryCheckDigit   byte
	PersonalNumber     string
	FinalCheckDigit    byte
}

// Parse splits the raw MRZ on newlines and decodes the second line at the
// fixed TD3 offsets. Character classes are not validated here; that is the
// checksum verifier's job.
func Parse(raw string) (Record, error) {
	lines := strings.Split(raw, "\n")
	if len(lines) < 2 {
		return Record{}, fmt.Errorf("%w: expected two lines, got %d", ErrFormat, len(lines))
	}

	line2 := lines[1]
	if len(line2) < minLineLength {
		return Record{}, fmt.Errorf("%w: second line has %d characters, need at least %d", ErrFormat, len(line2), minLineLength)
	}

	return Record{
		PassportNumber:     line2[passportNumberStart:passportNumberEnd],
		PassportCheckDigit: line2[passportCheckPos],
		Nationality:        line2[nationalityStart:nationalityEnd],
		DateOfBirth:        line2[dateOfBirthStart:dateOfBirthEnd],
		DOBCheckDigit:      line2[dobCheckPos],
		Sex:                line2[sexPos],
		Expiry:             line2[expiryStart:expiryEnd],
		ExpiryCheckDigit:   line2[expiryCheckPos],
		PersonalNumber:     line2[personalNumberStart:personalNumberEnd],
		FinalCheckDigit:    line2[finalCheckPos],
	}, nil
}
