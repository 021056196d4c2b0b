package models

// Session is the viewer identity threaded through every request
type Session struct {
	Username string
	Token    string
	Role     string
}

// Valid reports whether the session carries an identity
func (s Session) Valid() bool {
	return s.Username != "" && s.Token != ""
}
