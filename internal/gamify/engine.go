// Package gamify implements the scoring engine and badge evaluation
// behind the points, levels, streaks, and achievements surface.
package gamify

import (
	"time"

	"github.com/werkgeheugen/backend/internal/models"
)

// Engine mutates a caller-owned UserStats in response to rewarded user
// actions. Every awarding method returns the points granted so the
// caller can surface the award event. The engine holds no state of its
// own and a zero-value Engine is ready to use.
type Engine struct {
	// Now allows tests to pin the clock; defaults to time.Now.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// AddPoints adds n points and recomputes the derived level. The level
// never decreases because points never decrease.
func (e *Engine) AddPoints(stats *models.UserStats, n int) {
	stats.TotalPoints += n
	level := stats.TotalPoints/models.PointsPerLevel + 1
	if level < 1 {
		level = 1
	}
	stats.Level = level
}

// CompleteMicroStep records a finished micro-step.
func (e *Engine) CompleteMicroStep(stats *models.UserStats) int {
	stats.MicroStepsCompleted++
	e.AddPoints(stats, models.PointsMicroStep)
	return models.PointsMicroStep
}

// CompleteTask records a finished task.
func (e *Engine) CompleteTask(stats *models.UserStats) int {
	stats.TasksCompleted++
	e.AddPoints(stats, models.PointsTaskDone)
	return models.PointsTaskDone
}

// TriageInbox records count triaged inbox items. The reward only lands
// when at least TriageRewardThreshold items were handled in one sweep.
func (e *Engine) TriageInbox(stats *models.UserStats, count int) int {
	stats.InboxTriaged += count
	if count >= models.TriageRewardThreshold {
		e.AddPoints(stats, models.PointsInboxTriage)
		return models.PointsInboxTriage
	}
	return 0
}

// CompleteCheckIn advances the day streak and awards check-in points.
//
// Streaks count consecutive calendar days in the caller's local day
// boundary. A repeat check-in on the same day leaves the streak
// unchanged; a one-day gap extends it; a larger gap resets it to 1.
// A negative day difference (clock skew) is clamped to a same-day
// repeat rather than resetting the streak.
func (e *Engine) CompleteCheckIn(stats *models.UserStats) int {
	now := e.now()
	today := startOfDay(now)

	if stats.LastCheckInDate == nil {
		stats.CurrentStreak = 1
	} else {
		daysDiff := daysBetween(startOfDay(*stats.LastCheckInDate), today)
		if daysDiff < 0 {
			daysDiff = 0
		}
		switch {
		case daysDiff == 1:
			stats.CurrentStreak++
		case daysDiff > 1:
			stats.CurrentStreak = 1
		}
	}

	if stats.CurrentStreak > stats.LongestStreak {
		stats.LongestStreak = stats.CurrentStreak
	}

	stats.LastCheckInDate = &today
	e.AddPoints(stats, models.PointsCheckIn)
	return models.PointsCheckIn
}

// UseVoiceCapture records one use of voice capture.
func (e *Engine) UseVoiceCapture(stats *models.UserStats) int {
	stats.VoiceCapturesUsed++
	e.AddPoints(stats, models.PointsVoiceCapture)
	return models.PointsVoiceCapture
}

// CompleteFocusSession records one finished focus session.
func (e *Engine) CompleteFocusSession(stats *models.UserStats) int {
	stats.FocusSessionsCompleted++
	e.AddPoints(stats, models.PointsFocusSession)
	return models.PointsFocusSession
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from a to b. The dates are
// re-anchored in UTC so DST transitions cannot skew the count.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
