package services

import (
	"fmt"
	"time"

	"huay/domain/entities"
)

// SessionSchedule maps wall-clock time to the currently open betting session.
// Times before the morning close belong to the morning session, times before
// the evening close to the evening session, anything later is closed until
// the next day.
type SessionSchedule struct {
	location     *time.Location
	morningClose int // minutes past midnight
	eveningClose int
}

// NewSessionSchedule builds a schedule for the given IANA timezone and
// close times formatted as "15:04"
func NewSessionSchedule(timezone, morningClose, eveningClose string) (*SessionSchedule, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}

	morning, err := parseMinutes(morningClose)
	if err != nil {
		return nil, fmt.Errorf("invalid morning close time: %w", err)
	}
	evening, err := parseMinutes(eveningClose)
	if err != nil {
		return nil, fmt.Errorf("invalid evening close time: %w", err)
	}
	if evening <= morning {
		return nil, fmt.Errorf("evening close %s must be after morning close %s", eveningClose, morningClose)
	}

	return &SessionSchedule{
		location:     loc,
		morningClose: morning,
		eveningClose: evening,
	}, nil
}

// OpenSession returns the session open at the given instant, or false when
// the market is closed. Pure and deterministic.
func (s *SessionSchedule) OpenSession(now time.Time) (entities.Session, bool) {
	local := now.In(s.location)
	minutes := local.Hour()*60 + local.Minute()

	switch {
	case minutes < s.morningClose:
		return entities.SessionMorning, true
	case minutes < s.eveningClose:
		return entities.SessionEvening, true
	default:
		return "", false
	}
}

// DrawDate returns the civil draw date for the given instant
func (s *SessionSchedule) DrawDate(now time.Time) time.Time {
	return entities.DrawDay(now.In(s.location))
}

func parseMinutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
