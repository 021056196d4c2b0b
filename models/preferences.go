package models

// Preferences holds per-viewer UI state that used to live in browser storage
type Preferences struct {
	Username             string          `dynamodbav:"username" json:"username"` // Partition Key
	PageSize             int             `dynamodbav:"pageSize,omitempty" json:"pageSize,omitempty"`
	CollapsedSections    map[string]bool `dynamodbav:"collapsedSections,omitempty" json:"collapsedSections,omitempty"`
	DefaultSavedSearchID string          `dynamodbav:"defaultSavedSearchId,omitempty" json:"defaultSavedSearchId,omitempty"`
	UpdatedAt            string          `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// PreferencesTable is the default DynamoDB table name for preferences
const PreferencesTable = "ViewerPreferences"
