package models

import "time"

type PassportDetails struct {
	Name           string `json:"name"`
	DateOfBirth    string `json:"date_of_birth"`
	PassportNumber string `json:"passport_number"`
	IsVerified     bool   `json:"is_verified"`
}

type ContactDetails struct {
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ValidationDetails carries one flag per independent document check.
type ValidationDetails struct {
	IsValidName     bool `json:"is_valid_name"`
	IsValidDOB      bool `json:"is_valid_dob"`
	IsValidPassport bool `json:"is_valid_passport"`
	IsValidMRZ      bool `json:"is_valid_mrz"`
	IsValidExpiry   bool `json:"is_valid_expiry"`
	IsValidCountry  bool `json:"is_valid_country"`
}

// Failures lists a human-readable reason for every flag that is false.
func (d ValidationDetails) Failures() []string {
	var reasons []string
	if !d.IsValidName {
		reasons = append(reasons, "name mismatch")
	}
	if !d.IsValidDOB {
		reasons = append(reasons, "date of birth mismatch")
	}
	if !d.IsValidPassport {
		reasons = append(reasons, "passport number mismatch")
	}
	if !d.IsValidMRZ {
		reasons = append(reasons, "mrz checksum failed")
	}
	if !d.IsValidExpiry {
		reasons = append(reasons, "document expired")
	}
	if !d.IsValidCountry {
		reasons = append(reasons, "nationality not supported")
	}
	return reasons
}

// ValidationVerdict is the aggregate outcome of the document validator.
// IsValid is true iff every flag in Details is true.
type ValidationVerdict struct {
	IsValid bool              `json:"is_valid"`
	Details ValidationDetails `json:"details"`
}

type TicketDetails struct {
	PassengerName string `json:"passenger_name"`
	FlightNumber  string `json:"flight_number"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	IsVerified    bool   `json:"is_verified"`
}

type VisaDetails struct {
	IsVerified bool `json:"is_verified"`
}

// VerificationSession is the server-held record of a traveler's progress
// through the verification flow. Every route guard is derived from this
// record; there is no separate "current step" pointer.
type VerificationSession struct {
	Id                string             `json:"id"`
	PassportDetails   PassportDetails    `json:"passport_details"`
	ValidationDetails *ValidationDetails `json:"validation_details,omitempty"`
	ContactDetails    *ContactDetails    `json:"contact_details,omitempty"`
	SelectedCountry   string             `json:"selected_country,omitempty"`
	TicketDetails     *TicketDetails     `json:"ticket_details,omitempty"`
	VisaDetails       *VisaDetails       `json:"visa_details,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}
