package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskCategory is one of the seven fixed life areas a task belongs to.
type TaskCategory string

const (
	CategoryWerk               TaskCategory = "werk"
	CategoryApps               TaskCategory = "apps"
	CategoryVoetbal            TaskCategory = "voetbal"
	CategoryStraatambassadeurs TaskCategory = "straatambassadeurs"
	CategoryGezin              TaskCategory = "gezin"
	CategoryFinancien          TaskCategory = "financien"
	CategoryOverig             TaskCategory = "overig"
)

// AllCategories lists every category in display order.
var AllCategories = []TaskCategory{
	CategoryWerk,
	CategoryApps,
	CategoryVoetbal,
	CategoryStraatambassadeurs,
	CategoryGezin,
	CategoryFinancien,
	CategoryOverig,
}

// categoryDefaultActions maps each category to its canned micro-action,
// used when a task carries no micro-step of its own.
var categoryDefaultActions = map[TaskCategory]string{
	CategoryWerk:               "Check 1 mail",
	CategoryApps:               "Open project, lees 1 TODO",
	CategoryVoetbal:            "Check teamapp",
	CategoryStraatambassadeurs: "Plan 1 wandeling",
	CategoryGezin:              "Stuur 1 berichtje",
	CategoryFinancien:          "Check 1 rekening",
	CategoryOverig:             "Bekijk 1 item",
}

// ParseCategory decodes a raw category value. Unknown values fall back
// to "overig" so older clients with drifted schemas keep working.
func ParseCategory(raw string) TaskCategory {
	c := TaskCategory(raw)
	switch c {
	case CategoryWerk, CategoryApps, CategoryVoetbal, CategoryStraatambassadeurs,
		CategoryGezin, CategoryFinancien, CategoryOverig:
		return c
	default:
		return CategoryOverig
	}
}

// DefaultMicroAction returns the canned micro-action for the category.
func (c TaskCategory) DefaultMicroAction() string {
	if action, ok := categoryDefaultActions[c]; ok {
		return action
	}
	return categoryDefaultActions[CategoryOverig]
}

// TaskPriority is an ordinal priority, 1 = highest.
type TaskPriority int

const (
	PriorityP1 TaskPriority = 1
	PriorityP2 TaskPriority = 2
	PriorityP3 TaskPriority = 3
)

// ParsePriority decodes a raw priority value, defaulting to P3.
func ParsePriority(raw int) TaskPriority {
	switch TaskPriority(raw) {
	case PriorityP1, PriorityP2, PriorityP3:
		return TaskPriority(raw)
	default:
		return PriorityP3
	}
}

// TaskEffort is one of four fixed effort tiers.
type TaskEffort string

const (
	EffortMicro  TaskEffort = "micro"  // < 2 min
	EffortKlein  TaskEffort = "klein"  // 2-15 min
	EffortMiddel TaskEffort = "middel" // 15-60 min
	EffortGroot  TaskEffort = "groot"  // > 60 min
)

// effortInfo carries the fixed per-tier minute estimate and sort rank.
type effortInfo struct {
	Minutes  int
	SortRank int
}

var effortTable = map[TaskEffort]effortInfo{
	EffortMicro:  {Minutes: 2, SortRank: 1},
	EffortKlein:  {Minutes: 15, SortRank: 2},
	EffortMiddel: {Minutes: 60, SortRank: 3},
	EffortGroot:  {Minutes: 120, SortRank: 4},
}

// ParseEffort decodes a raw effort value, defaulting to "klein".
func ParseEffort(raw string) TaskEffort {
	e := TaskEffort(raw)
	if _, ok := effortTable[e]; ok {
		return e
	}
	return EffortKlein
}

// Minutes returns the estimated minutes for the effort tier.
func (e TaskEffort) Minutes() int {
	if info, ok := effortTable[e]; ok {
		return info.Minutes
	}
	return effortTable[EffortKlein].Minutes
}

// SortRank returns the ascending sort rank (1 = smallest effort).
func (e TaskEffort) SortRank() int {
	if info, ok := effortTable[e]; ok {
		return info.SortRank
	}
	return effortTable[EffortKlein].SortRank
}

// TaskStatus represents where a task sits in its lifecycle.
type TaskStatus string

const (
	StatusInbox   TaskStatus = "inbox"
	StatusActive  TaskStatus = "active"
	StatusDone    TaskStatus = "done"
	StatusSnoozed TaskStatus = "snoozed"
)

// ParseStatus decodes a raw status value, defaulting to "inbox".
func ParseStatus(raw string) TaskStatus {
	s := TaskStatus(raw)
	switch s {
	case StatusInbox, StatusActive, StatusDone, StatusSnoozed:
		return s
	default:
		return StatusInbox
	}
}

// Task is a single to-do item.
type Task struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Notes        string       `json:"notes"`
	Category     TaskCategory `json:"category"`
	Priority     TaskPriority `json:"priority"`
	Effort       TaskEffort   `json:"effort"`
	Status       TaskStatus   `json:"status"`
	IsUrgent     bool         `json:"is_urgent"`
	DueDate      *time.Time   `json:"due_date,omitempty"`
	SnoozeUntil  *time.Time   `json:"snooze_until,omitempty"`
	MicroStep    string       `json:"micro_step"`
	PointsEarned int          `json:"points_earned"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// NewTask creates a task with the documented defaults.
func NewTask(title string) *Task {
	now := time.Now()
	return &Task{
		ID:        uuid.New(),
		Title:     title,
		Category:  CategoryOverig,
		Priority:  PriorityP3,
		Effort:    EffortKlein,
		Status:    StatusInbox,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DisplayMicroStep returns the task's micro-step, or the category's
// default micro-action when none is set.
func (t *Task) DisplayMicroStep() string {
	if t.MicroStep == "" {
		return t.Category.DefaultMicroAction()
	}
	return t.MicroStep
}

// MarkDone transitions the task to done and stamps completion.
func (t *Task) MarkDone(now time.Time) {
	t.Status = StatusDone
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// Snooze parks the task until now plus the given number of hours.
func (t *Task) Snooze(now time.Time, hours int) {
	until := now.Add(time.Duration(hours) * time.Hour)
	t.Status = StatusSnoozed
	t.SnoozeUntil = &until
	t.UpdatedAt = now
}

// Activate moves the task to active and clears any snooze.
func (t *Task) Activate(now time.Time) {
	t.Status = StatusActive
	t.SnoozeUntil = nil
	t.UpdatedAt = now
}

// MoveToInbox returns the task to the inbox for re-triage.
func (t *Task) MoveToInbox(now time.Time) {
	t.Status = StatusInbox
	t.UpdatedAt = now
}

// IsSnoozedAndReady reports whether a snoozed task's snooze has lapsed.
func (t *Task) IsSnoozedAndReady(now time.Time) bool {
	if t.Status != StatusSnoozed || t.SnoozeUntil == nil {
		return false
	}
	return !now.Before(*t.SnoozeUntil)
}
