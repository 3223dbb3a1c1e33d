// Package session holds the verification state machine. All progression
// through the flow (passport, destination, ticket or visa, success) is
// derived from the stored VerificationSession record on every call; nothing
// here caches a "current step".
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-travel-verifier/models"
)

// Step is a position in the verification flow, expressed as the frontend
// route the client should navigate to.
type Step string

const (
	StepStart         Step = "/"
	StepSelectCountry Step = "/select-country"
	StepUploadTicket  Step = "/upload-ticket"
	StepUploadVisa    Step = "/upload-visa"
	StepSuccess       Step = "/success"
	StepFailed        Step = "/verification-failed"
)

// TicketCountry is the only destination whose onward document is a flight
// ticket; every other destination requires a visa.
const TicketCountry = "thailand"

// ErrStepNotAllowed is returned when a request tries to enter a stage its
// session has not earned. Callers should route the client back to Start.
var ErrStepNotAllowed = errors.New("step not allowed for current session state")

// New creates an empty session. Nothing is verified yet.
func New(id string) models.VerificationSession {
	return models.VerificationSession{
		Id:        id,
		CreatedAt: time.Now().UTC(),
	}
}

// PassportVerified reports whether the passport stage has succeeded.
func PassportVerified(s *models.VerificationSession) bool {
	return s.PassportDetails.IsVerified
}

// CountryPath maps a destination country to its document-upload step.
func CountryPath(country string) Step {
	if strings.EqualFold(strings.TrimSpace(country), TicketCountry) {
		return StepUploadTicket
	}
	return StepUploadVisa
}

// RecordPassportVerdict applies a document-validator verdict to the
// session. The verdict details are always stored; passport and contact
// details are recorded only on success. A failed verdict never advances
// the session and never destroys previously recorded state.
func RecordPassportVerdict(s *models.VerificationSession, submission models.PassportSubmission, verdict models.ValidationVerdict, contact *models.ContactDetails) {
	details := verdict.Details
	s.ValidationDetails = &details

	if !verdict.IsValid {
		return
	}

	s.PassportDetails = models.PassportDetails{
		Name:           submission.FullName,
		DateOfBirth:    submission.DateOfBirth,
		PassportNumber: submission.PassportNumber,
		IsVerified:     true,
	}
	s.ContactDetails = contact
}

// SelectCountry records the destination, guarded on a verified passport.
func SelectCountry(s *models.VerificationSession, country string) (Step, error) {
	if !PassportVerified(s) {
		return StepStart, fmt.Errorf("%w: passport not verified", ErrStepNotAllowed)
	}
	if strings.TrimSpace(country) == "" {
		return StepSelectCountry, fmt.Errorf("country must not be empty")
	}
	s.SelectedCountry = country
	return CountryPath(country), nil
}

// CanUploadTicket reports whether the session may enter the ticket stage.
func CanUploadTicket(s *models.VerificationSession) bool {
	return PassportVerified(s) && s.SelectedCountry != "" && CountryPath(s.SelectedCountry) == StepUploadTicket
}

// CanUploadVisa reports whether the session may enter the visa stage.
func CanUploadVisa(s *models.VerificationSession) bool {
	return PassportVerified(s) && s.SelectedCountry != "" && CountryPath(s.SelectedCountry) == StepUploadVisa
}

// RecordTicket marks the ticket stage verified, guarded on the ticket path.
func RecordTicket(s *models.VerificationSession, details models.TicketDetails) error {
	if !CanUploadTicket(s) {
		return fmt.Errorf("%w: ticket upload not reachable", ErrStepNotAllowed)
	}
	details.IsVerified = true
	s.TicketDetails = &details
	return nil
}

// RecordVisa marks the visa stage verified, guarded on the visa path.
func RecordVisa(s *models.VerificationSession) error {
	if !CanUploadVisa(s) {
		return fmt.Errorf("%w: visa upload not reachable", ErrStepNotAllowed)
	}
	s.VisaDetails = &models.VisaDetails{IsVerified: true}
	return nil
}

// Complete reports whether the whole flow has succeeded: verified passport
// plus a verified ticket or visa.
func Complete(s *models.VerificationSession) bool {
	if !PassportVerified(s) {
		return false
	}
	ticketDone := s.TicketDetails != nil && s.TicketDetails.IsVerified
	visaDone := s.VisaDetails != nil && s.VisaDetails.IsVerified
	return ticketDone || visaDone
}

// NextStep derives the step the session may access next. Re-evaluated on
// every navigation.
func NextStep(s *models.VerificationSession) Step {
	switch {
	case Complete(s):
		return StepSuccess
	case !PassportVerified(s):
		if s.ValidationDetails != nil {
			return StepFailed
		}
		return StepStart
	case s.SelectedCountry == "":
		return StepSelectCountry
	default:
		return CountryPath(s.SelectedCountry)
	}
}
