// Package suggest picks "what should I do next" recommendations from
// the current task collection using deterministic multi-key sorts.
package suggest

import (
	"sort"
	"time"

	"github.com/werkgeheugen/backend/internal/models"
)

// Suggestion is one recommended next action. When Task is nil the
// suggestion is a synthetic default and not directly actionable.
type Suggestion struct {
	Task             *models.Task        `json:"task,omitempty"`
	Category         models.TaskCategory `json:"category"`
	MicroStep        string              `json:"micro_step"`
	EstimatedMinutes int                 `json:"estimated_minutes"`
	IsDefaultAction  bool                `json:"is_default_action"`
}

// DailySuggestions bundles the daily recommendation set.
type DailySuggestions struct {
	Suggestions []Suggestion `json:"suggestions"`
	QuickWin    *Suggestion  `json:"quick_win,omitempty"`
}

// priorityCategories are the categories that always get a daily slot.
var priorityCategories = []models.TaskCategory{
	models.CategoryWerk,
	models.CategoryGezin,
	models.CategoryFinancien,
}

// backfill provides canned suggestions when too few categories have
// live tasks.
var backfill = []struct {
	category models.TaskCategory
	action   string
	minutes  int
}{
	{models.CategoryWerk, "Check je mail inbox", 5},
	{models.CategoryGezin, "Stuur een berichtje naar iemand", 2},
	{models.CategoryFinancien, "Bekijk 1 bankafschrift", 3},
}

// Ranker computes suggestions over a task snapshot. The Now hook pins
// the clock in tests; zero value uses time.Now.
type Ranker struct {
	Now func() time.Time
}

func (r *Ranker) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// BestSuggestion picks the best active task in the category: smallest
// effort first, ties broken by higher priority, then earliest
// creation. An empty category yields the category's canned
// micro-action as a 2-minute default.
func (r *Ranker) BestSuggestion(category models.TaskCategory, tasks []*models.Task) Suggestion {
	candidates := filter(tasks, func(t *models.Task) bool {
		return t.Category == category && t.Status == models.StatusActive
	})

	if len(candidates) == 0 {
		return Suggestion{
			Category:         category,
			MicroStep:        category.DefaultMicroAction(),
			EstimatedMinutes: 2,
			IsDefaultAction:  true,
		}
	}

	sortTasks(candidates, func(a, b *models.Task) int {
		if c := cmpInt(a.Effort.SortRank(), b.Effort.SortRank()); c != 0 {
			return c
		}
		return cmpInt(int(a.Priority), int(b.Priority))
	})

	best := candidates[0]
	return Suggestion{
		Task:             best,
		Category:         category,
		MicroStep:        best.DisplayMicroStep(),
		EstimatedMinutes: best.Effort.Minutes(),
		IsDefaultAction:  false,
	}
}

// FindQuickWin picks the lowest-effort highest-priority active task
// among micro and klein efforts, or a generic default when none exist.
func (r *Ranker) FindQuickWin(tasks []*models.Task) Suggestion {
	candidates := filter(tasks, func(t *models.Task) bool {
		return t.Status == models.StatusActive &&
			(t.Effort == models.EffortMicro || t.Effort == models.EffortKlein)
	})

	if len(candidates) == 0 {
		return Suggestion{
			Category:         models.CategoryOverig,
			MicroStep:        "Kies 1 kleine taak uit je lijst",
			EstimatedMinutes: 5,
			IsDefaultAction:  true,
		}
	}

	sortTasks(candidates, func(a, b *models.Task) int {
		if c := cmpInt(int(a.Priority), int(b.Priority)); c != 0 {
			return c
		}
		return cmpInt(a.Effort.SortRank(), b.Effort.SortRank())
	})

	best := candidates[0]
	return Suggestion{
		Task:             best,
		Category:         best.Category,
		MicroStep:        best.DisplayMicroStep(),
		EstimatedMinutes: best.Effort.Minutes(),
		IsDefaultAction:  false,
	}
}

// GenerateSuggestions produces one best suggestion per priority
// category, backfills with canned defaults up to three entries, and
// separately computes the quick win.
func (r *Ranker) GenerateSuggestions(tasks []*models.Task) DailySuggestions {
	var daily []Suggestion
	for _, category := range priorityCategories {
		daily = append(daily, r.BestSuggestion(category, tasks))
	}

	if len(daily) < 3 {
		for _, fb := range backfill {
			if len(daily) >= 3 {
				break
			}
			if hasCategory(daily, fb.category) {
				continue
			}
			daily = append(daily, Suggestion{
				Category:         fb.category,
				MicroStep:        fb.action,
				EstimatedMinutes: fb.minutes,
				IsDefaultAction:  true,
			})
		}
	}

	quickWin := r.FindQuickWin(tasks)
	return DailySuggestions{Suggestions: daily, QuickWin: &quickWin}
}

// TodaysFocus returns at most three active tasks for today. Urgent P1
// tasks are an absolute override; then priority, effort, due date
// presence and value, creation time.
func (r *Ranker) TodaysFocus(tasks []*models.Task) []*models.Task {
	active := filter(tasks, func(t *models.Task) bool {
		return t.Status == models.StatusActive
	})

	sortTasks(active, func(a, b *models.Task) int {
		aHot := a.IsUrgent && a.Priority == models.PriorityP1
		bHot := b.IsUrgent && b.Priority == models.PriorityP1
		if aHot != bHot {
			if aHot {
				return -1
			}
			return 1
		}
		if c := cmpInt(int(a.Priority), int(b.Priority)); c != 0 {
			return c
		}
		if c := cmpInt(a.Effort.SortRank(), b.Effort.SortRank()); c != 0 {
			return c
		}
		if c := cmpDueDate(a.DueDate, b.DueDate); c != 0 {
			return c
		}
		return 0
	})

	if len(active) > 3 {
		active = active[:3]
	}
	return active
}

// TomorrowTopPick returns the single most impactful task for tomorrow,
// or nil when no active task exists. Priority wins; among equals a due
// date within three days ranks first.
func (r *Ranker) TomorrowTopPick(tasks []*models.Task) *models.Task {
	active := filter(tasks, func(t *models.Task) bool {
		return t.Status == models.StatusActive
	})
	if len(active) == 0 {
		return nil
	}

	horizon := r.now().AddDate(0, 0, 3)
	sortTasks(active, func(a, b *models.Task) int {
		if c := cmpInt(int(a.Priority), int(b.Priority)); c != 0 {
			return c
		}
		aSoon := a.DueDate != nil && !a.DueDate.After(horizon)
		bSoon := b.DueDate != nil && !b.DueDate.After(horizon)
		if aSoon != bSoon {
			if aSoon {
				return -1
			}
			return 1
		}
		return 0
	})

	return active[0]
}

// sortTasks runs a stable sort with cmp as the leading keys and the
// creation time then task ID as the universal final tiebreak, keeping
// every ordering total and deterministic.
func sortTasks(tasks []*models.Task, cmp func(a, b *models.Task) int) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if c := cmp(a, b); c != 0 {
			return c < 0
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

func filter(tasks []*models.Task, keep func(*models.Task) bool) []*models.Task {
	var out []*models.Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func hasCategory(suggestions []Suggestion, category models.TaskCategory) bool {
	for _, s := range suggestions {
		if s.Category == category {
			return true
		}
	}
	return false
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpDueDate orders tasks with a due date ahead of tasks without one,
// and earlier due dates first.
func cmpDueDate(a, b *time.Time) int {
	switch {
	case a != nil && b != nil:
		if a.Before(*b) {
			return -1
		}
		if b.Before(*a) {
			return 1
		}
		return 0
	case a != nil:
		return -1
	case b != nil:
		return 1
	default:
		return 0
	}
}
