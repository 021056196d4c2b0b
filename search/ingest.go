package search

import (
	"strings"

	"matchview/models"
)

// Ingest appends a page of backend results to buffer. The viewer's own profile,
// admin/moderator profiles and usernames already buffered are skipped, and the
// buffer never grows past capacity. Self and role exclusion happen here and
// nowhere else, so every view of the buffer agrees on them.
func Ingest(buffer, incoming []models.UserSummary, viewer string, capacity int) []models.UserSummary {
	seen := make(models.UsernameSet, len(buffer))
	for _, u := range buffer {
		seen.Add(u.Username)
	}
	for _, u := range incoming {
		if capacity > 0 && len(buffer) >= capacity {
			break
		}
		if u.Username == "" || u.Username == viewer || seen.Has(u.Username) {
			continue
		}
		if isPrivileged(u.Role) {
			continue
		}
		seen.Add(u.Username)
		buffer = append(buffer, u)
	}
	return buffer
}

func isPrivileged(role string) bool {
	return strings.EqualFold(role, models.RoleAdmin) || strings.EqualFold(role, models.RoleModerator)
}
