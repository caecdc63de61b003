package services

import (
	"testing"
	"time"

	"huay/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bangkokSchedule(t *testing.T) *SessionSchedule {
	schedule, err := NewSessionSchedule("Asia/Bangkok", "12:00", "16:30")
	require.NoError(t, err)
	return schedule
}

func TestSessionSchedule_OpenSession(t *testing.T) {
	schedule := bangkokSchedule(t)
	bangkok, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		session entities.Session
		open    bool
	}{
		{"midnight is morning", time.Date(2025, 3, 14, 0, 0, 0, 0, bangkok), entities.SessionMorning, true},
		{"just before morning close", time.Date(2025, 3, 14, 11, 59, 59, 0, bangkok), entities.SessionMorning, true},
		{"morning close boundary is evening", time.Date(2025, 3, 14, 12, 0, 0, 0, bangkok), entities.SessionEvening, true},
		{"mid afternoon", time.Date(2025, 3, 14, 14, 15, 0, 0, bangkok), entities.SessionEvening, true},
		{"just before evening close", time.Date(2025, 3, 14, 16, 29, 59, 0, bangkok), entities.SessionEvening, true},
		{"evening close boundary is closed", time.Date(2025, 3, 14, 16, 30, 0, 0, bangkok), "", false},
		{"late night is closed", time.Date(2025, 3, 14, 23, 0, 0, 0, bangkok), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, open := schedule.OpenSession(tt.now)
			assert.Equal(t, tt.open, open)
			assert.Equal(t, tt.session, session)
		})
	}
}

func TestSessionSchedule_OpenSession_ConvertsTimezone(t *testing.T) {
	schedule := bangkokSchedule(t)

	// 04:00 UTC is 11:00 in Bangkok, still morning
	session, open := schedule.OpenSession(time.Date(2025, 3, 14, 4, 0, 0, 0, time.UTC))
	assert.True(t, open)
	assert.Equal(t, entities.SessionMorning, session)

	// 10:00 UTC is 17:00 in Bangkok, already closed
	_, open = schedule.OpenSession(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))
	assert.False(t, open)
}

func TestSessionSchedule_DrawDate(t *testing.T) {
	schedule := bangkokSchedule(t)

	// 19:00 UTC on the 14th is already the 15th in Bangkok
	drawDate := schedule.DrawDate(time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), drawDate)
}

func TestNewSessionSchedule_Validation(t *testing.T) {
	_, err := NewSessionSchedule("Not/AZone", "12:00", "16:30")
	assert.Error(t, err)

	_, err = NewSessionSchedule("Asia/Bangkok", "noon", "16:30")
	assert.Error(t, err)

	_, err = NewSessionSchedule("Asia/Bangkok", "12:00", "25:00")
	assert.Error(t, err)

	// Evening close must come after morning close
	_, err = NewSessionSchedule("Asia/Bangkok", "16:30", "12:00")
	assert.Error(t, err)
}
