package models

import (
	"time"

	"github.com/google/uuid"
)

// Fixed point values per rewarded action.
const (
	PointsMicroStep    = 10
	PointsTaskDone     = 25
	PointsInboxTriage  = 15
	PointsCheckIn      = 20
	PointsVoiceCapture = 5
	PointsFocusSession = 15

	// TriageRewardThreshold is the minimum number of triaged items in
	// one sweep that earns the triage reward.
	TriageRewardThreshold = 5

	// PointsPerLevel is the level width: every 100 points is a level.
	PointsPerLevel = 100
)

// UserStats is the singleton per-user gamification state. Counters
// only ever increase; Level is derived from TotalPoints.
type UserStats struct {
	ID                     uuid.UUID  `json:"id"`
	TotalPoints            int        `json:"total_points"`
	CurrentStreak          int        `json:"current_streak"`
	LongestStreak          int        `json:"longest_streak"`
	LastCheckInDate        *time.Time `json:"last_check_in_date,omitempty"`
	TasksCompleted         int        `json:"tasks_completed"`
	MicroStepsCompleted    int        `json:"micro_steps_completed"`
	InboxTriaged           int        `json:"inbox_triaged"`
	VoiceCapturesUsed      int        `json:"voice_captures_used"`
	FocusSessionsCompleted int        `json:"focus_sessions_completed"`
	Level                  int        `json:"level"`
	CreatedAt              time.Time  `json:"created_at"`
}

// NewUserStats creates a fresh stats record at level 1.
func NewUserStats() *UserStats {
	return &UserStats{
		ID:        uuid.New(),
		Level:     1,
		CreatedAt: time.Now(),
	}
}

// PointsToNextLevel returns how many points remain until the next level.
func (s *UserStats) PointsToNextLevel() int {
	remaining := s.Level*PointsPerLevel - s.TotalPoints
	if remaining < 0 {
		return 0
	}
	return remaining
}

// LevelProgress returns progress through the current level in [0, 1].
func (s *UserStats) LevelProgress() float64 {
	inLevel := s.TotalPoints - (s.Level-1)*PointsPerLevel
	progress := float64(inLevel) / float64(PointsPerLevel)
	if progress > 1 {
		return 1
	}
	if progress < 0 {
		return 0
	}
	return progress
}

// HasCheckedInToday reports whether the last check-in fell on the
// calendar day containing now.
func (s *UserStats) HasCheckedInToday(now time.Time) bool {
	if s.LastCheckInDate == nil {
		return false
	}
	y1, m1, d1 := s.LastCheckInDate.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
