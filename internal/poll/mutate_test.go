package poll

import (
	"errors"
	"testing"
	"time"

	"github.com/werkgeheugen/backend/internal/models"
)

func TestDeleteDate_PurgesVotes(t *testing.T) {
	t.Parallel()

	evt := models.NewPollEvent("Vergadering", "19:45 - 21:15")
	d1 := AddDate(evt, "2026-02-03")
	d2 := AddDate(evt, "2026-02-05")

	for _, p := range evt.Participants {
		if err := SetVote(evt, p.ID, d1.ID, models.VoteJa); err != nil {
			t.Fatal(err)
		}
		if err := SetVote(evt, p.ID, d2.ID, models.VoteMisschien); err != nil {
			t.Fatal(err)
		}
	}

	DeleteDate(evt, d1.ID)

	if len(evt.Dates) != 1 || evt.Dates[0].ID != d2.ID {
		t.Fatalf("expected only %s to remain", d2.ID)
	}
	for pid, votes := range evt.Responses {
		if _, ok := votes[d1.ID]; ok {
			t.Errorf("participant %s still has an orphaned vote for deleted date", pid)
		}
		if _, ok := votes[d2.ID]; !ok {
			t.Errorf("participant %s lost their vote for the surviving date", pid)
		}
	}
}

func TestRemoveParticipant_PurgesVoteMap(t *testing.T) {
	t.Parallel()

	evt := models.NewPollEvent("Vergadering", "19:45 - 21:15")
	d := AddDate(evt, "2026-02-03")
	victim := evt.Participants[0]
	if err := SetVote(evt, victim.ID, d.ID, models.VoteJa); err != nil {
		t.Fatal(err)
	}

	RemoveParticipant(evt, victim.ID)

	if len(evt.Participants) != 5 {
		t.Errorf("participant count = %d, want 5", len(evt.Participants))
	}
	if _, ok := evt.Responses[victim.ID]; ok {
		t.Error("removed participant's vote map must be purged")
	}
}

func TestSetVote_RejectsUnknownToken(t *testing.T) {
	t.Parallel()

	evt := models.NewPollEvent("Vergadering", "19:45 - 21:15")
	d := AddDate(evt, "2026-02-03")

	err := SetVote(evt, evt.Participants[0].ID, d.ID, models.Vote("wellicht"))
	if !errors.Is(err, ErrInvalidVote) {
		t.Errorf("expected ErrInvalidVote, got %v", err)
	}
}

func TestToggleLocationVote(t *testing.T) {
	t.Parallel()

	evt := models.NewPollEvent("Vergadering", "19:45 - 21:15")
	loc := AddLocation(evt, "Buurthuis", "Dorpsstraat 1", "Stefan")
	pid := evt.Participants[0].ID

	ToggleLocationVote(evt, loc.ID, pid)
	if got := len(evt.Locations[0].Votes); got != 1 {
		t.Fatalf("votes after first toggle = %d, want 1", got)
	}

	// Toggling twice is not idempotent: the vote is withdrawn.
	ToggleLocationVote(evt, loc.ID, pid)
	if got := len(evt.Locations[0].Votes); got != 0 {
		t.Errorf("votes after second toggle = %d, want 0", got)
	}

	// A second participant's vote is independent.
	ToggleLocationVote(evt, loc.ID, pid)
	ToggleLocationVote(evt, loc.ID, evt.Participants[1].ID)
	if got := len(evt.Locations[0].Votes); got != 2 {
		t.Errorf("votes = %d, want 2", got)
	}
}

func TestDeleteEvent_KeepsAtLeastOne(t *testing.T) {
	t.Parallel()

	doc := models.NewPlannerDocument()
	if err := DeleteEvent(doc, doc.Events[0].ID); !errors.Is(err, ErrLastEvent) {
		t.Errorf("deleting the only event should fail, got %v", err)
	}

	second := AddEvent(doc, "Vergadering 2 - 2026", "20:00 - 21:30")
	if err := DeleteEvent(doc, second.ID); err != nil {
		t.Fatalf("deleting one of two events failed: %v", err)
	}
	if len(doc.Events) != 1 {
		t.Errorf("event count = %d, want 1", len(doc.Events))
	}

	if err := DeleteEvent(doc, "evt_onbekend"); !errors.Is(err, ErrLastEvent) {
		// One event left again, so the guard fires before lookup.
		t.Errorf("expected last-event guard, got %v", err)
	}
}

func TestAddDate_GeneratesDutchLabel(t *testing.T) {
	t.Parallel()

	evt := models.NewPollEvent("Vergadering", "19:45 - 21:15")
	d := AddDate(evt, "2026-02-03")
	if d.Label != "Di 3 feb" {
		t.Errorf("label = %q, want %q", d.Label, "Di 3 feb")
	}
}

func TestAddComment(t *testing.T) {
	t.Parallel()

	evt := models.NewPollEvent("Vergadering", "19:45 - 21:15")
	now := time.Date(2026, 2, 3, 19, 45, 0, 0, time.UTC)
	c := AddComment(evt, "Carien", "Ik ben er bij!", now)

	if c.Time != "3 feb 19:45" {
		t.Errorf("comment time = %q, want %q", c.Time, "3 feb 19:45")
	}
	if len(evt.Comments) != 1 {
		t.Errorf("comment count = %d, want 1", len(evt.Comments))
	}
}
