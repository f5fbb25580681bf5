package requests

import "encoding/json"

// Fields are kept as raw JSON so values reach the upstream exactly as the caller
// sent them (a numeric rollNo stays numeric). Absent fields are omitted.

type RegisterRequest struct {
	CompanyName json.RawMessage `json:"companyName,omitempty"`
	OwnerName   json.RawMessage `json:"ownerName,omitempty"`
	RollNo      json.RawMessage `json:"rollNo,omitempty"`
	OwnerEmail  json.RawMessage `json:"ownerEmail,omitempty"`
	AccessCode  json.RawMessage `json:"accessCode,omitempty"`
}

type AuthRequest struct {
	CompanyName  json.RawMessage `json:"companyName,omitempty"`
	ClientID     json.RawMessage `json:"clientId,omitempty"`
	ClientSecret json.RawMessage `json:"clientSecret,omitempty"`
	OwnerName    json.RawMessage `json:"ownerName,omitempty"`
	OwnerEmail   json.RawMessage `json:"ownerEmail,omitempty"`
	RollNo       json.RawMessage `json:"rollNo,omitempty"`
}
