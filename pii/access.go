// Package pii derives what a viewer may see of other profiles' gated fields.
//
// Access state comes from two backend lists. Outgoing requests say what the
// viewer has asked for; the received-access list says what is currently
// granted. Pending is read only from outgoing requests still pending, approved
// is read only from received access, and approved wins. An outgoing request
// whose status reads approved is ignored because the grant may since have
// expired or been revoked.
package pii

import (
	"strings"

	"matchview/models"
)

// AccessState is the viewer's access to one field type of one profile
type AccessState int

const (
	Absent AccessState = iota
	Pending
	Approved
)

func (s AccessState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Approved:
		return "approved"
	default:
		return "absent"
	}
}

// MarshalText renders the state as its name
func (s AccessState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AccessMap is keyed by target username, then request type
type AccessMap map[string]map[string]AccessState

// Get returns the state for (target, requestType), Absent when unknown
func (m AccessMap) Get(target, requestType string) AccessState {
	return m[target][requestType]
}

// Has reports approved access
func (m AccessMap) Has(target, requestType string) bool {
	return m.Get(target, requestType) == Approved
}

func (m AccessMap) set(target, requestType string, state AccessState) {
	if target == "" || requestType == "" {
		return
	}
	types, ok := m[target]
	if !ok {
		types = make(map[string]AccessState)
		m[target] = types
	}
	if state > types[requestType] {
		types[requestType] = state
	}
}

// Merge combines outgoing requests and received grants into one map
func Merge(outgoing []models.PiiRequest, received []models.ReceivedAccess) AccessMap {
	m := make(AccessMap)
	for _, req := range outgoing {
		if strings.EqualFold(req.Status, models.StatusPending) {
			m.set(req.ProfileUsername, req.RequestType, Pending)
		}
	}
	for _, grant := range received {
		for _, t := range grant.AccessTypes {
			m.set(grant.UserProfile.Username, t, Approved)
		}
	}
	return m
}

// MarkPending records a request that was just made, without downgrading approved access
func (m AccessMap) MarkPending(target string, requestTypes ...string) {
	for _, t := range requestTypes {
		m.set(target, t, Pending)
	}
}

// Clone deep-copies the map
func (m AccessMap) Clone() AccessMap {
	c := make(AccessMap, len(m))
	for target, types := range m {
		inner := make(map[string]AccessState, len(types))
		for t, s := range types {
			inner[t] = s
		}
		c[target] = inner
	}
	return c
}
