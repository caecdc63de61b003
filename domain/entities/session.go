package entities

import "fmt"

// Session identifies one of the two daily wagering windows
type Session string

const (
	SessionMorning Session = "morning"
	SessionEvening Session = "evening"
)

// ParseSession converts a raw string into a Session
func ParseSession(raw string) (Session, error) {
	switch Session(raw) {
	case SessionMorning, SessionEvening:
		return Session(raw), nil
	default:
		return "", &ValidationError{Reason: fmt.Sprintf("unknown session %q", raw)}
	}
}

// IsValid returns true if the session is one of the known windows
func (s Session) IsValid() bool {
	return s == SessionMorning || s == SessionEvening
}
