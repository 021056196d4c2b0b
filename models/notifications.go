package models

// NotificationPreferences maps each trigger to the channels it is delivered on
type NotificationPreferences struct {
	Username   string              `json:"username,omitempty"`
	Channels   map[string][]string `json:"channels"`
	QuietHours *QuietHours         `json:"quietHours,omitempty"`
}

// QuietHours suppresses non-urgent delivery between Start and End (HH:MM, viewer timezone)
type QuietHours struct {
	Enabled  bool   `json:"enabled"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone,omitempty"`
}
