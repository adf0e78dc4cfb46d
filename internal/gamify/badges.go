package gamify

import (
	"github.com/werkgeheugen/backend/internal/models"
)

// KindSet is the set of already-unlocked badge kinds.
type KindSet map[models.BadgeKind]struct{}

// NewKindSet builds a KindSet from existing badges.
func NewKindSet(badges []*models.Badge) KindSet {
	set := make(KindSet, len(badges))
	for _, b := range badges {
		set[b.Kind] = struct{}{}
	}
	return set
}

// Has reports whether the kind is already unlocked.
func (s KindSet) Has(kind models.BadgeKind) bool {
	_, ok := s[kind]
	return ok
}

// EvaluateBadges returns the kinds newly unlocked by the current stats.
// A kind already present in unlocked is never re-emitted, so at most
// one unlock event per kind can ever happen.
//
// earlyBird and nightOwl carry thresholds in the badge table but are
// intentionally not evaluated here; no trigger path exists for them.
func EvaluateBadges(stats *models.UserStats, unlocked KindSet) []models.BadgeKind {
	var newKinds []models.BadgeKind

	check := func(kind models.BadgeKind, value int) {
		if !unlocked.Has(kind) && value >= kind.Threshold() {
			newKinds = append(newKinds, kind)
		}
	}

	check(models.BadgeOpDreef, stats.CurrentStreak)
	check(models.BadgeWeekWarrior, stats.CurrentStreak)
	check(models.BadgeMicroMaster, stats.MicroStepsCompleted)
	check(models.BadgeFocusHeld, stats.FocusSessionsCompleted)
	check(models.BadgeCenturyClub, stats.TasksCompleted)
	check(models.BadgeVoiceChampion, stats.VoiceCapturesUsed)

	return newKinds
}

// CheckFinancienNinja reports whether the finance badge unlocks given
// the number of completed finance-category tasks, which is not a stats
// counter and must be supplied by the task store.
func CheckFinancienNinja(financeTasksCompleted int, unlocked KindSet) bool {
	return !unlocked.Has(models.BadgeFinancienNinja) &&
		financeTasksCompleted >= models.BadgeFinancienNinja.Threshold()
}

// CheckInboxZero reports whether the inbox-zero badge unlocks given the
// live inbox size. This is a zero-crossing check, not a threshold.
func CheckInboxZero(inboxCount int, unlocked KindSet) bool {
	return !unlocked.Has(models.BadgeInboxZero) && inboxCount == 0
}
