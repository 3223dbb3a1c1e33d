package models

// ExtractedPassportFields is the single JSON object the extraction oracle
// returns for a passport upload. Field names follow the oracle contract:
// dates are ISO YYYY-MM-DD and the MRZ uses \n between its two lines.
type ExtractedPassportFields struct {
	Name           string `json:"name"`
	DateOfBirth    string `json:"date_of_birth"`
	PassportNumber string `json:"passport_number"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
	MRZ            string `json:"mrz"`
	Address1       string `json:"address1,omitempty"`
	Address2       string `json:"address2,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	PostalCode     string `json:"postalCode,omitempty"`
	Country        string `json:"country,omitempty"`
}

// ExtractedTicketFields is the oracle output for a flight ticket image.
type ExtractedTicketFields struct {
	PassengerName string `json:"passengerName"`
	FlightNumber  string `json:"flightNumber"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
}
