package models

import (
	"testing"
)

func TestFormatDateLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		iso  string
		want string
	}{
		{"monday", "2025-02-03", "Ma 3 feb"},
		{"tuesday", "2026-02-03", "Di 3 feb"},
		{"thursday", "2026-02-05", "Do 5 feb"},
		{"friday in march", "2026-03-13", "Vr 13 mrt"},
		{"sunday", "2026-01-04", "Zo 4 jan"},
		{"unparseable passes through", "niet-een-datum", "niet-een-datum"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatDateLabel(tt.iso); got != tt.want {
				t.Errorf("FormatDateLabel(%q) = %q, want %q", tt.iso, got, tt.want)
			}
		})
	}
}

func TestNewPlannerDocument_Seed(t *testing.T) {
	t.Parallel()

	doc := NewPlannerDocument()
	if len(doc.Events) != 1 {
		t.Fatalf("expected 1 seeded event, got %d", len(doc.Events))
	}

	evt := doc.Events[0]
	if len(evt.Participants) != 6 {
		t.Errorf("expected 6 default participants, got %d", len(evt.Participants))
	}
	if len(evt.Dates) != 5 {
		t.Errorf("expected 5 candidate dates, got %d", len(evt.Dates))
	}
	if evt.Time != "19:45 - 21:15" {
		t.Errorf("unexpected time label %q", evt.Time)
	}
	if evt.Responses == nil {
		t.Error("responses map must be initialized")
	}
	for _, d := range evt.Dates {
		if got := FormatDateLabel(d.Date); got != d.Label {
			t.Errorf("seeded label for %s = %q, want %q", d.Date, d.Label, got)
		}
	}
}

func TestPlannerDocument_Event(t *testing.T) {
	t.Parallel()

	doc := NewPlannerDocument()
	id := doc.Events[0].ID

	if doc.Event(id) == nil {
		t.Error("expected to find seeded event by ID")
	}
	if doc.Event("evt_bestaat_niet") != nil {
		t.Error("unknown event ID should return nil")
	}
}

func TestValidVote(t *testing.T) {
	t.Parallel()

	for _, v := range []Vote{VoteJa, VoteMisschien, VoteNee} {
		if !ValidVote(v) {
			t.Errorf("expected %q to be valid", v)
		}
	}
	if ValidVote(Vote("wellicht")) {
		t.Error("unknown vote token must be invalid")
	}
}
