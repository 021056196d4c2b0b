package models

// PII request types
const (
	PiiTypeContactInfo = "contact_info"
	PiiTypeImages      = "images"
)

// PII request statuses
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusDenied    = "denied"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Roles whose profiles never show up in search results
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// Socket events pushed to a viewer's room
const (
	EventRelationshipsChanged = "relationships:changed"
	EventPiiChanged           = "pii:changed"
	EventPiiRefresh           = "pii:refresh"
)

// Image visibility types
const (
	VisibilityClear   = "clear"
	VisibilityBlurred = "blurred"
)

// Search buffer limits
const (
	DefaultSearchBufferCap = 500
	DefaultPageSize        = 20
)
