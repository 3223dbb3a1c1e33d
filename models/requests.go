package models

// PassportSubmission is the user-claimed identity from the passport form.
type PassportSubmission struct {
	FullName       string `validate:"required"`
	DateOfBirth    string `validate:"required,datetime=2006-01-02"`
	PassportNumber string `validate:"required"`
}

type StartSessionResponse struct {
	SessionId string `json:"session_id"`
	Token     string `json:"token"`
}

type PassportVerificationResponse struct {
	Success           bool               `json:"success"`
	Message           string             `json:"message,omitempty"`
	IsValid           bool               `json:"is_valid"`
	PassportDetails   *PassportDetails   `json:"passport_details,omitempty"`
	ContactDetails    *ContactDetails    `json:"contact_details,omitempty"`
	ValidationDetails *ValidationDetails `json:"validation_details,omitempty"`
	FailureReasons    []string           `json:"failure_reasons,omitempty"`
	NextStep          string             `json:"next_step"`
}

type SelectCountryRequest struct {
	Country string `json:"country"`
}

type SelectCountryResponse struct {
	Success  bool   `json:"success"`
	NextStep string `json:"next_step"`
}

type TicketVerificationResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message,omitempty"`
	TicketDetails *TicketDetails `json:"ticket_details,omitempty"`
	NextStep      string         `json:"next_step,omitempty"`
}

type VisaVerificationResponse struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message,omitempty"`
	MissingKeywords []string `json:"missing_keywords,omitempty"`
	NextStep        string   `json:"next_step,omitempty"`
}

type SessionStateResponse struct {
	SessionId        string `json:"session_id"`
	PassportVerified bool   `json:"passport_verified"`
	SelectedCountry  string `json:"selected_country,omitempty"`
	TicketVerified   bool   `json:"ticket_verified"`
	VisaVerified     bool   `json:"visa_verified"`
	NextStep         string `json:"next_step"`
}
