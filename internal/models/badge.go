package models

import (
	"time"

	"github.com/google/uuid"
)

// BadgeKind identifies one of the ten fixed achievement kinds.
type BadgeKind string

const (
	BadgeOpDreef        BadgeKind = "opDreef"        // 3-day check-in streak
	BadgeFinancienNinja BadgeKind = "financienNinja" // 5 finance tasks completed
	BadgeMicroMaster    BadgeKind = "microMaster"    // 25 micro-steps completed
	BadgeInboxZero      BadgeKind = "inboxZero"      // inbox emptied
	BadgeFocusHeld      BadgeKind = "focusHeld"      // 10 focus sessions
	BadgeWeekWarrior    BadgeKind = "weekWarrior"    // 7-day streak
	BadgeCenturyClub    BadgeKind = "centuryClub"    // 100 tasks completed
	BadgeVoiceChampion  BadgeKind = "voiceChampion"  // 20 voice captures
	BadgeEarlyBird      BadgeKind = "earlyBird"      // check-in before 09:00
	BadgeNightOwl       BadgeKind = "nightOwl"       // 5 evening check-ins
)

// AllBadgeKinds lists every kind in enumeration order.
var AllBadgeKinds = []BadgeKind{
	BadgeOpDreef,
	BadgeFinancienNinja,
	BadgeMicroMaster,
	BadgeInboxZero,
	BadgeFocusHeld,
	BadgeWeekWarrior,
	BadgeCenturyClub,
	BadgeVoiceChampion,
	BadgeEarlyBird,
	BadgeNightOwl,
}

// badgeInfo holds the fixed title, description, and trigger threshold
// for one kind.
type badgeInfo struct {
	Title       string
	Description string
	Threshold   int
}

var badgeTable = map[BadgeKind]badgeInfo{
	BadgeOpDreef:        {"Op Dreef", "3 dagen op rij check-in gedaan", 3},
	BadgeFinancienNinja: {"Financiën Ninja", "5 financiën-taken afgerond", 5},
	BadgeMicroMaster:    {"Micro Master", "25 microstappen voltooid", 25},
	BadgeInboxZero:      {"Inbox Zero", "Inbox volledig leeg gemaakt", 1},
	BadgeFocusHeld:      {"Focus Held", "10 Focus Mode sessies voltooid", 10},
	BadgeWeekWarrior:    {"Week Warrior", "7 dagen streak behaald", 7},
	BadgeCenturyClub:    {"Century Club", "100 taken afgerond", 100},
	BadgeVoiceChampion:  {"Voice Champion", "20 voice captures gemaakt", 20},
	BadgeEarlyBird:      {"Early Bird", "Check-in gedaan voor 9:00", 1},
	BadgeNightOwl:       {"Night Owl", "5x avond check-in voltooid", 5},
}

// ParseBadgeKind decodes a raw kind, defaulting to the first
// enumerated kind for forward compatibility.
func ParseBadgeKind(raw string) BadgeKind {
	k := BadgeKind(raw)
	if _, ok := badgeTable[k]; ok {
		return k
	}
	return BadgeOpDreef
}

// Title returns the display title for the kind.
func (k BadgeKind) Title() string { return badgeTable[k].Title }

// Description returns the unlock description for the kind.
func (k BadgeKind) Description() string { return badgeTable[k].Description }

// Threshold returns the fixed trigger value for the kind.
func (k BadgeKind) Threshold() int { return badgeTable[k].Threshold }

// Badge is one unlocked achievement. At most one Badge exists per kind
// per user; badges are never deleted.
type Badge struct {
	ID       uuid.UUID `json:"id"`
	Kind     BadgeKind `json:"kind"`
	EarnedAt time.Time `json:"earned_at"`
	IsNew    bool      `json:"is_new"`
}

// NewBadge creates an unseen badge for the kind.
func NewBadge(kind BadgeKind) *Badge {
	return &Badge{
		ID:       uuid.New(),
		Kind:     kind,
		EarnedAt: time.Now(),
		IsNew:    true,
	}
}

// MarkSeen clears the is-new flag once the unlock has been displayed.
func (b *Badge) MarkSeen() {
	b.IsNew = false
}
