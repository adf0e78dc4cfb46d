package models

import (
	"testing"
	"time"
)

func TestParseCategory_Defaulting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want TaskCategory
	}{
		{"known category", "werk", CategoryWerk},
		{"known category gezin", "gezin", CategoryGezin},
		{"unknown falls back to overig", "sport", CategoryOverig},
		{"empty falls back to overig", "", CategoryOverig},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseCategory(tt.raw); got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParsePriority_Defaulting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  int
		want TaskPriority
	}{
		{"p1", 1, PriorityP1},
		{"p2", 2, PriorityP2},
		{"p3", 3, PriorityP3},
		{"zero falls back to p3", 0, PriorityP3},
		{"out of range falls back to p3", 9, PriorityP3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParsePriority(tt.raw); got != tt.want {
				t.Errorf("ParsePriority(%d) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseEffort_Defaulting(t *testing.T) {
	t.Parallel()

	if got := ParseEffort("groot"); got != EffortGroot {
		t.Errorf("ParseEffort(groot) = %q, want groot", got)
	}
	if got := ParseEffort("enormous"); got != EffortKlein {
		t.Errorf("ParseEffort(enormous) = %q, want klein fallback", got)
	}
}

func TestParseStatus_Defaulting(t *testing.T) {
	t.Parallel()

	if got := ParseStatus("snoozed"); got != StatusSnoozed {
		t.Errorf("ParseStatus(snoozed) = %q, want snoozed", got)
	}
	if got := ParseStatus("archived"); got != StatusInbox {
		t.Errorf("ParseStatus(archived) = %q, want inbox fallback", got)
	}
}

func TestEffort_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		effort   TaskEffort
		minutes  int
		sortRank int
	}{
		{EffortMicro, 2, 1},
		{EffortKlein, 15, 2},
		{EffortMiddel, 60, 3},
		{EffortGroot, 120, 4},
	}

	for _, tt := range tests {
		tt := tt
		if got := tt.effort.Minutes(); got != tt.minutes {
			t.Errorf("%s.Minutes() = %d, want %d", tt.effort, got, tt.minutes)
		}
		if got := tt.effort.SortRank(); got != tt.sortRank {
			t.Errorf("%s.SortRank() = %d, want %d", tt.effort, got, tt.sortRank)
		}
	}
}

func TestTask_DisplayMicroStep(t *testing.T) {
	t.Parallel()

	task := NewTask("Belastingaangifte")
	task.Category = CategoryFinancien
	if got := task.DisplayMicroStep(); got != "Check 1 rekening" {
		t.Errorf("empty micro step should fall back to category default, got %q", got)
	}

	task.MicroStep = "Open de aangifte-app"
	if got := task.DisplayMicroStep(); got != "Open de aangifte-app" {
		t.Errorf("expected explicit micro step, got %q", got)
	}
}

func TestTask_Lifecycle(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	task := NewTask("Teamapp checken")

	task.Activate(now)
	if task.Status != StatusActive {
		t.Fatalf("expected active, got %s", task.Status)
	}

	task.Snooze(now, 2)
	if task.Status != StatusSnoozed {
		t.Fatalf("expected snoozed, got %s", task.Status)
	}
	if task.SnoozeUntil == nil || !task.SnoozeUntil.Equal(now.Add(2*time.Hour)) {
		t.Errorf("expected snooze until %v, got %v", now.Add(2*time.Hour), task.SnoozeUntil)
	}

	if task.IsSnoozedAndReady(now.Add(time.Hour)) {
		t.Error("task should not be ready before snooze lapses")
	}
	if !task.IsSnoozedAndReady(now.Add(3 * time.Hour)) {
		t.Error("task should be ready after snooze lapses")
	}

	task.Activate(now.Add(3 * time.Hour))
	if task.SnoozeUntil != nil {
		t.Error("activate should clear snooze")
	}

	task.MarkDone(now.Add(4 * time.Hour))
	if task.Status != StatusDone || task.CompletedAt == nil {
		t.Error("mark done should set status and completion time")
	}
}

func TestUserStats_LevelHelpers(t *testing.T) {
	t.Parallel()

	stats := NewUserStats()
	stats.TotalPoints = 130
	stats.Level = 2

	if got := stats.PointsToNextLevel(); got != 70 {
		t.Errorf("PointsToNextLevel() = %d, want 70", got)
	}
	if got := stats.LevelProgress(); got != 0.3 {
		t.Errorf("LevelProgress() = %v, want 0.3", got)
	}
}

func TestUserStats_HasCheckedInToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)
	stats := NewUserStats()

	if stats.HasCheckedInToday(now) {
		t.Error("fresh stats should not report a check-in")
	}

	morning := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	stats.LastCheckInDate = &morning
	if !stats.HasCheckedInToday(now) {
		t.Error("same-day check-in should be reported")
	}

	yesterday := morning.AddDate(0, 0, -1)
	stats.LastCheckInDate = &yesterday
	if stats.HasCheckedInToday(now) {
		t.Error("yesterday's check-in must not count as today")
	}
}

func TestParseBadgeKind_Defaulting(t *testing.T) {
	t.Parallel()

	if got := ParseBadgeKind("weekWarrior"); got != BadgeWeekWarrior {
		t.Errorf("ParseBadgeKind(weekWarrior) = %q", got)
	}
	if got := ParseBadgeKind("goldStar"); got != BadgeOpDreef {
		t.Errorf("unknown kind should fall back to opDreef, got %q", got)
	}
}
