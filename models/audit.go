package models

import "time"

// AuditRecord is the flat record posted to the audit sink after every
// passport verification attempt. JSON keys match the sink's sheet columns.
type AuditRecord struct {
	RecordId       string    `json:"record_id"`
	Name           string    `json:"name"`
	InputDOB       string    `json:"inputDOB"`
	PassportNumber string    `json:"passportNumber"`
	IsValid        bool      `json:"isValid"`
	Expiry         string    `json:"expiry"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	Country        string    `json:"country,omitempty"`
	Pincode        string    `json:"pincode,omitempty"`
	Address1       string    `json:"address1,omitempty"`
	Address2       string    `json:"address2,omitempty"`
	FrontImage     string    `json:"frontImage"`
	BackImage      string    `json:"backImage"`
	RecordedAt     time.Time `json:"recorded_at"`
}
