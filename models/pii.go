package models

import "time"

// PiiRequest is an access request for a gated profile field
type PiiRequest struct {
	ID                string `json:"id"`
	RequesterUsername string `json:"requesterUsername"`
	ProfileUsername   string `json:"profileUsername"`
	RequestType       string `json:"requestType"`
	Status            string `json:"status"`
	Message           string `json:"message,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	RespondedAt       string `json:"respondedAt,omitempty"`
}

// ProfileRef is the minimal profile embedded in access responses
type ProfileRef struct {
	Username string `json:"username"`
}

// ReceivedAccess lists the access types a granter has actively given the viewer
type ReceivedAccess struct {
	UserProfile ProfileRef `json:"userProfile"`
	AccessTypes []string   `json:"accessTypes"`
}

// PiiRequestInput is the body of a new access request
type PiiRequestInput struct {
	ProfileUsername string   `json:"profileUsername"`
	RequestTypes    []string `json:"requestTypes"`
	Message         string   `json:"message,omitempty"`
}

// ApproveInput optionally bounds how long an approval lasts
type ApproveInput struct {
	DurationDays int `json:"durationDays,omitempty"`
}

// ImageVisibility is the backend's per-image privacy record for one profile
type ImageVisibility struct {
	ImageID           string            `json:"imageId"`
	ImageKey          string            `json:"imageKey"`
	ImageOrder        int               `json:"imageOrder"`
	IsProfilePic      bool              `json:"isProfilePic"`
	InitialVisibility InitialVisibility `json:"initialVisibility"`
	AccessExpiresAt   *time.Time        `json:"accessExpiresAt,omitempty"`
}

// InitialVisibility is how an image is shown before any access grant
type InitialVisibility struct {
	Type string `json:"type"` // clear or blurred
}

// ImageView is what a viewer is allowed to see of one image
type ImageView struct {
	ImageID      string     `json:"imageId"`
	ImageOrder   int        `json:"imageOrder"`
	IsProfilePic bool       `json:"isProfilePic"`
	URL          string     `json:"url,omitempty"`
	Blurred      bool       `json:"blurred"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}
