package main

import (
	"go-travel-verifier/document"
	"go-travel-verifier/models"
)

// DocumentValidator checks the user's claimed identity against the fields
// the oracle read from the passport.
type DocumentValidator interface {
	Validate(submission models.PassportSubmission, extracted *models.ExtractedPassportFields) models.ValidationVerdict
}

// PassportValidator is the production DocumentValidator backed by the
// document package.
type PassportValidator struct{}

func NewPassportValidator() *PassportValidator {
	return &PassportValidator{}
}

func (v *PassportValidator) Validate(submission models.PassportSubmission, extracted *models.ExtractedPassportFields) models.ValidationVerdict {
	return document.Validate(
		submission.FullName,
		submission.DateOfBirth,
		submission.PassportNumber,
		*extracted,
		extracted.MRZ,
	)
}

// contactDetailsFromExtraction lifts the back-page address fields into the
// session's contact record. Returns nil when no address was read at all.
func contactDetailsFromExtraction(extracted *models.ExtractedPassportFields) *models.ContactDetails {
	if extracted.Address1 == "" && extracted.City == "" && extracted.Country == "" {
		return nil
	}
	return &models.ContactDetails{
		Address1:   extracted.Address1,
		Address2:   extracted.Address2,
		City:       extracted.City,
		State:      extracted.State,
		PostalCode: extracted.PostalCode,
		Country:    extracted.Country,
	}
}
