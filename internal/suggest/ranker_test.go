package suggest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/werkgeheugen/backend/internal/models"
)

var baseTime = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type taskSpec struct {
	title    string
	category models.TaskCategory
	priority models.TaskPriority
	effort   models.TaskEffort
	status   models.TaskStatus
	urgent   bool
	due      *time.Time
	created  time.Time
}

func makeTask(spec taskSpec) *models.Task {
	return &models.Task{
		ID:        uuid.New(),
		Title:     spec.title,
		Category:  spec.category,
		Priority:  spec.priority,
		Effort:    spec.effort,
		Status:    spec.status,
		IsUrgent:  spec.urgent,
		DueDate:   spec.due,
		CreatedAt: spec.created,
		UpdatedAt: spec.created,
	}
}

func TestBestSuggestion_EmptyCategoryReturnsDefault(t *testing.T) {
	t.Parallel()

	r := &Ranker{}
	got := r.BestSuggestion(models.CategoryVoetbal, nil)

	if !got.IsDefaultAction {
		t.Error("empty category must yield a default suggestion")
	}
	if got.MicroStep != "Check teamapp" {
		t.Errorf("micro step = %q, want category default", got.MicroStep)
	}
	if got.EstimatedMinutes != 2 {
		t.Errorf("estimated minutes = %d, want 2", got.EstimatedMinutes)
	}
	if got.Task != nil {
		t.Error("default suggestion must not carry a task")
	}
}

func TestBestSuggestion_SmallestEffortWins(t *testing.T) {
	t.Parallel()

	r := &Ranker{}
	big := makeTask(taskSpec{title: "Rapport schrijven", category: models.CategoryWerk,
		priority: models.PriorityP1, effort: models.EffortGroot, status: models.StatusActive, created: baseTime})
	small := makeTask(taskSpec{title: "Mail beantwoorden", category: models.CategoryWerk,
		priority: models.PriorityP3, effort: models.EffortMicro, status: models.StatusActive, created: baseTime})

	got := r.BestSuggestion(models.CategoryWerk, []*models.Task{big, small})
	if got.Task != small {
		t.Error("smallest effort should win even at lower priority")
	}
	if got.EstimatedMinutes != 2 {
		t.Errorf("estimated minutes = %d, want effort-derived 2", got.EstimatedMinutes)
	}
}

func TestBestSuggestion_TieBreaks(t *testing.T) {
	t.Parallel()

	r := &Ranker{}

	// Same effort, different priority: higher priority (lower rank) wins.
	p2 := makeTask(taskSpec{title: "B", category: models.CategoryWerk,
		priority: models.PriorityP2, effort: models.EffortKlein, status: models.StatusActive, created: baseTime})
	p1 := makeTask(taskSpec{title: "A", category: models.CategoryWerk,
		priority: models.PriorityP1, effort: models.EffortKlein, status: models.StatusActive, created: baseTime.Add(time.Hour)})

	if got := r.BestSuggestion(models.CategoryWerk, []*models.Task{p2, p1}); got.Task != p1 {
		t.Error("same effort: higher priority must win")
	}

	// Same effort and priority: earlier creation wins.
	older := makeTask(taskSpec{title: "Oud", category: models.CategoryWerk,
		priority: models.PriorityP2, effort: models.EffortKlein, status: models.StatusActive, created: baseTime})
	newer := makeTask(taskSpec{title: "Nieuw", category: models.CategoryWerk,
		priority: models.PriorityP2, effort: models.EffortKlein, status: models.StatusActive, created: baseTime.Add(time.Hour)})

	if got := r.BestSuggestion(models.CategoryWerk, []*models.Task{newer, older}); got.Task != older {
		t.Error("same effort and priority: earlier creation must win")
	}
}

func TestBestSuggestion_IgnoresInactiveTasks(t *testing.T) {
	t.Parallel()

	r := &Ranker{}
	done := makeTask(taskSpec{title: "Klaar", category: models.CategoryWerk,
		priority: models.PriorityP1, effort: models.EffortMicro, status: models.StatusDone, created: baseTime})
	inbox := makeTask(taskSpec{title: "Nog triagen", category: models.CategoryWerk,
		priority: models.PriorityP1, effort: models.EffortMicro, status: models.StatusInbox, created: baseTime})

	got := r.BestSuggestion(models.CategoryWerk, []*models.Task{done, inbox})
	if !got.IsDefaultAction {
		t.Error("done and inbox tasks must not be suggested")
	}
}

func TestFindQuickWin(t *testing.T) {
	t.Parallel()

	r := &Ranker{}

	if got := r.FindQuickWin(nil); !got.IsDefaultAction {
		t.Error("no candidates must yield the generic default")
	}

	slow := makeTask(taskSpec{title: "Groot werk", category: models.CategoryApps,
		priority: models.PriorityP1, effort: models.EffortGroot, status: models.StatusActive, created: baseTime})
	quick := makeTask(taskSpec{title: "Snelle klus", category: models.CategoryApps,
		priority: models.PriorityP2, effort: models.EffortMicro, status: models.StatusActive, created: baseTime})
	quickHighPrio := makeTask(taskSpec{title: "Snel en belangrijk", category: models.CategoryGezin,
		priority: models.PriorityP1, effort: models.EffortKlein, status: models.StatusActive, created: baseTime})

	got := r.FindQuickWin([]*models.Task{slow, quick, quickHighPrio})
	if got.Task != quickHighPrio {
		t.Errorf("quick win = %q, want priority-first among micro/klein", got.Task.Title)
	}
}

func TestGenerateSuggestions_BackfillsToThree(t *testing.T) {
	t.Parallel()

	r := &Ranker{}
	got := r.GenerateSuggestions(nil)

	if len(got.Suggestions) != 3 {
		t.Fatalf("expected 3 daily suggestions, got %d", len(got.Suggestions))
	}
	seen := map[models.TaskCategory]bool{}
	for _, s := range got.Suggestions {
		if seen[s.Category] {
			t.Errorf("category %q appears twice", s.Category)
		}
		seen[s.Category] = true
		if !s.IsDefaultAction {
			t.Errorf("suggestion for %q should be a default with no tasks", s.Category)
		}
	}
	if got.QuickWin == nil {
		t.Fatal("quick win must always be computed")
	}
}

func TestHasCategory(t *testing.T) {
	t.Parallel()

	daily := []Suggestion{
		{Category: models.CategoryWerk},
		{Category: models.CategoryGezin},
	}

	if !hasCategory(daily, models.CategoryWerk) {
		t.Error("expected werk to be present")
	}
	if hasCategory(daily, models.CategoryFinancien) {
		t.Error("expected financien to be absent")
	}
	if hasCategory(nil, models.CategoryWerk) {
		t.Error("empty list must not report any category")
	}
}

func TestGenerateSuggestions_UsesLiveTasks(t *testing.T) {
	t.Parallel()

	r := &Ranker{}
	werk := makeTask(taskSpec{title: "Offerte nakijken", category: models.CategoryWerk,
		priority: models.PriorityP1, effort: models.EffortKlein, status: models.StatusActive, created: baseTime})

	got := r.GenerateSuggestions([]*models.Task{werk})
	if len(got.Suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(got.Suggestions))
	}
	if got.Suggestions[0].Task != werk {
		t.Error("werk slot should carry the live task")
	}
}

func TestTodaysFocus_OrderingAndCap(t *testing.T) {
	t.Parallel()

	r := &Ranker{}
	urgentP1 := makeTask(taskSpec{title: "Brand blussen", category: models.CategoryWerk,
		priority: models.PriorityP1, effort: models.EffortGroot, status: models.StatusActive, urgent: true, created: baseTime})
	plainP1 := makeTask(taskSpec{title: "Belangrijk", category: models.CategoryWerk,
		priority: models.PriorityP1, effort: models.EffortMicro, status: models.StatusActive, created: baseTime})
	p2 := makeTask(taskSpec{title: "Kan later", category: models.CategoryGezin,
		priority: models.PriorityP2, effort: models.EffortMicro, status: models.StatusActive, created: baseTime})
	p3a := makeTask(taskSpec{title: "Ooit", category: models.CategoryOverig,
		priority: models.PriorityP3, effort: models.EffortMicro, status: models.StatusActive, created: baseTime})
	p3b := makeTask(taskSpec{title: "Ook ooit", category: models.CategoryOverig,
		priority: models.PriorityP3, effort: models.EffortMicro, status: models.StatusActive, created: baseTime})

	got := r.TodaysFocus([]*models.Task{p3a, p2, plainP1, urgentP1, p3b})
	if len(got) != 3 {
		t.Fatalf("focus list length = %d, want 3", len(got))
	}
	if got[0] != urgentP1 {
		t.Errorf("first = %q, want urgent P1 override despite larger effort", got[0].Title)
	}
	if got[1] != plainP1 {
		t.Errorf("second = %q, want plain P1", got[1].Title)
	}
	if got[2] != p2 {
		t.Errorf("third = %q, want P2 ahead of any P3", got[2].Title)
	}
}

func TestTodaysFocus_DueDateBreaksTies(t *testing.T) {
	t.Parallel()

	r := &Ranker{}
	soon := baseTime.AddDate(0, 0, 1)
	later := baseTime.AddDate(0, 0, 5)

	withSoonDue := makeTask(taskSpec{title: "Morgen af", category: models.CategoryWerk,
		priority: models.PriorityP2, effort: models.EffortKlein, status: models.StatusActive, due: &soon, created: baseTime})
	withLaterDue := makeTask(taskSpec{title: "Volgende week", category: models.CategoryWerk,
		priority: models.PriorityP2, effort: models.EffortKlein, status: models.StatusActive, due: &later, created: baseTime})
	noDue := makeTask(taskSpec{title: "Geen deadline", category: models.CategoryWerk,
		priority: models.PriorityP2, effort: models.EffortKlein, status: models.StatusActive, created: baseTime})

	got := r.TodaysFocus([]*models.Task{noDue, withLaterDue, withSoonDue})
	if got[0] != withSoonDue || got[1] != withLaterDue || got[2] != noDue {
		t.Errorf("due-date tiebreak order wrong: %q, %q, %q", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestTomorrowTopPick(t *testing.T) {
	t.Parallel()

	r := &Ranker{Now: func() time.Time { return baseTime }}

	if got := r.TomorrowTopPick(nil); got != nil {
		t.Error("no active tasks must yield nil")
	}

	dueSoon := baseTime.AddDate(0, 0, 2)
	dueFar := baseTime.AddDate(0, 0, 10)

	p2Soon := makeTask(taskSpec{title: "P2 deadline nabij", category: models.CategoryWerk,
		priority: models.PriorityP2, effort: models.EffortMiddel, status: models.StatusActive, due: &dueSoon, created: baseTime})
	p1Far := makeTask(taskSpec{title: "P1 zonder haast", category: models.CategoryWerk,
		priority: models.PriorityP1, effort: models.EffortMiddel, status: models.StatusActive, due: &dueFar, created: baseTime})

	if got := r.TomorrowTopPick([]*models.Task{p2Soon, p1Far}); got != p1Far {
		t.Errorf("top pick = %q, want priority to dominate due date", got.Title)
	}

	// Among equal priority, the near due date wins.
	p1Soon := makeTask(taskSpec{title: "P1 deadline nabij", category: models.CategoryWerk,
		priority: models.PriorityP1, effort: models.EffortMiddel, status: models.StatusActive, due: &dueSoon, created: baseTime.Add(time.Hour)})

	if got := r.TomorrowTopPick([]*models.Task{p1Far, p1Soon}); got != p1Soon {
		t.Errorf("top pick = %q, want due-within-3-days boost", got.Title)
	}
}
