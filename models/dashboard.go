package models

// Dashboard aggregates one viewer's activity counts
type Dashboard struct {
	Username            string `json:"username"`
	Favorites           int    `json:"favorites"`
	Shortlist           int    `json:"shortlist"`
	Exclusions          int    `json:"exclusions"`
	PendingIncomingPii  int    `json:"pendingIncomingPii"`
	PendingOutgoingPii  int    `json:"pendingOutgoingPii"`
	ActiveReceivedGrant int    `json:"activeReceivedGrants"`
	SavedSearches       int    `json:"savedSearches"`
	OnlineNow           int    `json:"onlineNow"`
}
