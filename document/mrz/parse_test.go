package mrz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ICAO 9303 specimen passport (Utopia, Anna Maria Eriksson).
const specimenLine1 = "P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<"
const specimenLine2 = "L898902C36UTO7408122F1204159ZE184226B<<<<<10"

func TestParseSpecimen(t *testing.T) {
	record, err := Parse(specimenLine1 + "\n" + specimenLine2)
	require.NoError(t, err)

	require.Equal(t, "L898902C3", record.PassportNumber)
	require.Equal(t, byte('6'), record.PassportCheckDigit)
	require.Equal(t, "UTO", record.Nationality)
	require.Equal(t, "740812", record.DateOfBirth)
	require.Equal(t, byte('2'), record.DOBCheckDigit)
	require.Equal(t, byte('F'), record.Sex)
	require.Equal(t, "120415", record.Expiry)
	require.Equal(t, byte('9'), record.ExpiryCheckDigit)
	require.Equal(t, "ZE184226B<<<<<", record.PersonalNumber)
	require.Equal(t, byte('0'), record.FinalCheckDigit)
}

func TestParseRequiresTwoLines(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		_, err := Parse("")
		require.ErrorIs(t, err, ErrFormat)
	})

	t.Run("single line", func(t *testing.T) {
		_, err := Parse(specimenLine2)
		require.ErrorIs(t, err, ErrFormat)
	})

	t.Run("two lines present", func(t *testing.T) {
		_, err := Parse(specimenLine1 + "\n" + specimenLine2)
		require.NoError(t, err)
	})
}

func TestParseSecondLineTooShort(t *testing.T) {
	// 43 characters is the minimum; anything shorter must fail.
	for length := 0; length < 43; length += 7 {
		_, err := Parse(specimenLine1 + "\n" + specimenLine2[:length])
		require.ErrorIs(t, err, ErrFormat, "line of length %d should be rejected", length)
	}

	_, err := Parse(specimenLine1 + "\n" + specimenLine2[:43])
	require.NoError(t, err, "43-character line carries all fields")
}

func TestParseDoesNotValidateCharacterClasses(t *testing.T) {
	// Garbage of the right shape parses; the checksum verifier decides.
	line2 := "?????????xINDzzzzzz!X??????y<<<<<<<<<<<<<<?"
	record, err := Parse("junk\n" + line2)
	require.NoError(t, err)
	require.Equal(t, "IND", record.Nationality)
	require.Equal(t, byte('x'), record.PassportCheckDigit)
}
