// Package waitlist defines the domain model for waitlist admission.
package waitlist

import (
	"encoding/json"
	"time"
)

// Entry represents a persisted waitlist entry. Entries are created once by
// the admission flow and never mutated afterward.
type Entry struct {
	ID               string          `json:"id"`
	Fid              string          `json:"fid"`
	Username         string          `json:"username"`
	DisplayName      string          `json:"displayName,omitempty"`
	PfpURL           string          `json:"pfpUrl,omitempty"`
	Location         string          `json:"location,omitempty"`
	WalletAddress    string          `json:"walletAddress,omitempty"`
	Signature        string          `json:"signature"`
	SignatureMessage string          `json:"signatureMessage,omitempty"`
	ChainID          string          `json:"chainId,omitempty"`
	ClientFid        string          `json:"clientFid,omitempty"`
	PlatformType     string          `json:"platformType,omitempty"`
	CardNumber       int             `json:"cardNumber"`
	FullContext      json.RawMessage `json:"fullContext,omitempty"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// Location accepts either a plain string or a structured
// {"placeId": ..., "description": ...} object and flattens it to
// description, falling back to placeId, then to "".
type Location string

// UnmarshalJSON implements the dual string-or-object shape.
func (l *Location) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Location(s)
		return nil
	}

	var obj struct {
		PlaceID     string `json:"placeId"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Description != "" {
		*l = Location(obj.Description)
	} else {
		*l = Location(obj.PlaceID)
	}
	return nil
}

// Submission is the admission request payload.
type Submission struct {
	Fid              string          `json:"fid" validate:"required"`
	Username         string          `json:"username" validate:"required"`
	DisplayName      string          `json:"displayName"`
	PfpURL           string          `json:"pfpUrl"`
	Location         Location        `json:"location"`
	WalletAddress    string          `json:"walletAddress"`
	Signature        string          `json:"signature" validate:"required"`
	SignatureMessage string          `json:"signatureMessage"`
	ChainID          string          `json:"chainId"`
	ClientFid        string          `json:"clientFid"`
	PlatformType     string          `json:"platformType"`
	FullContext      json.RawMessage `json:"fullContext"`
}

// AdmissionResult reports the generated identity of an admitted entry.
type AdmissionResult struct {
	ID         string `json:"id"`
	CardNumber int    `json:"cardNumber"`
}

// Stats summarizes waitlist size.
type Stats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}
