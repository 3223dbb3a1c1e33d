package mrz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckDigitKnownValues(t *testing.T) {
	tests := []struct {
		field string
		want  int
	}{
		// ICAO 9303 specimen fields.
		{"L898902C3", 6},
		{"740812", 2},
		{"120415", 9},
		// Digits only.
		{"900512", 3},
		{"300101", 9},
		// Filler counts as zero.
		{"<<<<<<", 0},
		{"", 0},
		// Letters map A=10..Z=35.
		{"A", 0},   // 10*7 = 70
		{"Z", 5},   // 35*7 = 245
		{"AB", 3},  // 70 + 33 = 103
		{"A1234567<", 6},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			require.Equal(t, tt.want, CheckDigit(tt.field))
		})
	}
}

func TestCheckDigitSpecimen(t *testing.T) {
	// The specimen passport number embeds check digit 6.
	require.Equal(t, 6, CheckDigit("L898902C3"))
}

func TestVerifySpecimen(t *testing.T) {
	record, err := Parse(specimenLine1 + "\n" + specimenLine2)
	require.NoError(t, err)
	require.True(t, Verify(record))
}

func TestVerifyRoundTrip(t *testing.T) {
	// A field with its freshly computed check digit must always verify.
	fields := []struct {
		passport, dob, expiry string
	}{
		{"A1234567<", "900512", "300101"},
		{"L898902C3", "740812", "120415"},
		{"<<<<<<<<<", "000101", "991231"},
		{"X9P0Q1R2S", "850615", "321105"},
	}

	for _, f := range fields {
		t.Run(f.passport, func(t *testing.T) {
			record := Record{
				PassportNumber:     f.passport,
				PassportCheckDigit: byte('0' + CheckDigit(f.passport)),
				DateOfBirth:        f.dob,
				DOBCheckDigit:      byte('0' + CheckDigit(f.dob)),
				Expiry:             f.expiry,
				ExpiryCheckDigit:   byte('0' + CheckDigit(f.expiry)),
			}
			require.True(t, Verify(record))
		})
	}
}

func TestVerifyRejectsWrongDigit(t *testing.T) {
	valid := Record{
		PassportNumber:     "A1234567<",
		PassportCheckDigit: '6',
		DateOfBirth:        "900512",
		DOBCheckDigit:      '3',
		Expiry:             "300101",
		ExpiryCheckDigit:   '9',
	}
	require.True(t, Verify(valid))

	t.Run("passport digit off by one", func(t *testing.T) {
		r := valid
		r.PassportCheckDigit = '7'
		require.False(t, Verify(r))
	})

	t.Run("dob digit wrong", func(t *testing.T) {
		r := valid
		r.DOBCheckDigit = '0'
		require.False(t, Verify(r))
	})

	t.Run("expiry digit wrong", func(t *testing.T) {
		r := valid
		r.ExpiryCheckDigit = '8'
		require.False(t, Verify(r))
	})

	t.Run("non-numeric check digit fails closed", func(t *testing.T) {
		r := valid
		r.PassportCheckDigit = '<'
		require.False(t, Verify(r))

		r = valid
		r.DOBCheckDigit = 'X'
		require.False(t, Verify(r))
	})
}

func TestVerifyIsDeterministic(t *testing.T) {
	record, err := Parse(specimenLine1 + "\n" + specimenLine2)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.True(t, Verify(record), fmt.Sprintf("run %d", i))
	}
}
