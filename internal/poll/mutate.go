package poll

import (
	"fmt"
	"time"

	"github.com/werkgeheugen/backend/internal/models"
)

// Mutations are plain structural edits on the nested planner document.
// Callers persist the whole document afterwards; concurrent writers
// follow last-write-wins semantics by design.

var (
	// ErrEventNotFound is returned when an event ID has no match.
	ErrEventNotFound = fmt.Errorf("event not found")
	// ErrLastEvent is returned when deleting the only remaining event.
	ErrLastEvent = fmt.Errorf("cannot delete the last event")
	// ErrInvalidVote is returned for a vote outside ja/misschien/nee.
	ErrInvalidVote = fmt.Errorf("invalid vote value")
)

func newID(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
}

// AddEvent appends a new event with the default participants.
func AddEvent(doc *models.PlannerDocument, title, timeLabel string) *models.PollEvent {
	evt := models.NewPollEvent(title, timeLabel)
	doc.Events = append(doc.Events, evt)
	return evt
}

// DeleteEvent removes an event. The document must always keep at least
// one event.
func DeleteEvent(doc *models.PlannerDocument, eventID string) error {
	if len(doc.Events) <= 1 {
		return ErrLastEvent
	}
	for i, e := range doc.Events {
		if e.ID == eventID {
			doc.Events = append(doc.Events[:i], doc.Events[i+1:]...)
			return nil
		}
	}
	return ErrEventNotFound
}

// AddDate appends a candidate date with a generated Dutch label.
func AddDate(event *models.PollEvent, isoDate string) models.PollDate {
	d := models.PollDate{
		ID:    newID("d"),
		Date:  isoDate,
		Label: models.FormatDateLabel(isoDate),
	}
	event.Dates = append(event.Dates, d)
	return d
}

// DeleteDate removes a candidate date and purges every participant's
// vote for it, so no orphaned keys remain in the responses map.
func DeleteDate(event *models.PollEvent, dateID string) {
	for i, d := range event.Dates {
		if d.ID == dateID {
			event.Dates = append(event.Dates[:i], event.Dates[i+1:]...)
			break
		}
	}
	for pid := range event.Responses {
		delete(event.Responses[pid], dateID)
	}
}

// AddParticipant appends a participant to the event.
func AddParticipant(event *models.PollEvent, name, email string) models.Participant {
	p := models.Participant{ID: newID("p"), Name: name, Email: email}
	event.Participants = append(event.Participants, p)
	return p
}

// RemoveParticipant removes a participant and their entire vote map.
func RemoveParticipant(event *models.PollEvent, participantID string) {
	for i, p := range event.Participants {
		if p.ID == participantID {
			event.Participants = append(event.Participants[:i], event.Participants[i+1:]...)
			break
		}
	}
	delete(event.Responses, participantID)
}

// SetVote records one participant's vote for one date. Only the three
// literal vote tokens are accepted.
func SetVote(event *models.PollEvent, participantID, dateID string, vote models.Vote) error {
	if !models.ValidVote(vote) {
		return fmt.Errorf("%w: %q", ErrInvalidVote, vote)
	}
	if event.Responses == nil {
		event.Responses = map[string]map[string]models.Vote{}
	}
	if event.Responses[participantID] == nil {
		event.Responses[participantID] = map[string]models.Vote{}
	}
	event.Responses[participantID][dateID] = vote
	return nil
}

// AddLocation appends a proposed meeting place.
func AddLocation(event *models.PollEvent, name, address, proposedBy string) models.Location {
	loc := models.Location{
		ID:         newID("loc"),
		Name:       name,
		Address:    address,
		ProposedBy: proposedBy,
		Votes:      []string{},
	}
	event.Locations = append(event.Locations, loc)
	return loc
}

// DeleteLocation removes a proposed location.
func DeleteLocation(event *models.PollEvent, locationID string) {
	for i, loc := range event.Locations {
		if loc.ID == locationID {
			event.Locations = append(event.Locations[:i], event.Locations[i+1:]...)
			return
		}
	}
}

// ToggleLocationVote flips a participant's backing of a location: a
// present vote is removed, an absent one added. Deliberately not
// idempotent, so it must never be auto-retried.
func ToggleLocationVote(event *models.PollEvent, locationID, participantID string) {
	for i := range event.Locations {
		loc := &event.Locations[i]
		if loc.ID != locationID {
			continue
		}
		for j, pid := range loc.Votes {
			if pid == participantID {
				loc.Votes = append(loc.Votes[:j], loc.Votes[j+1:]...)
				return
			}
		}
		loc.Votes = append(loc.Votes, participantID)
		return
	}
}

// AddComment appends a time-stamped remark.
func AddComment(event *models.PollEvent, author, text string, now time.Time) models.Comment {
	c := models.Comment{
		ID:     newID("c"),
		Author: author,
		Text:   text,
		Time:   formatCommentTime(now),
	}
	event.Comments = append(event.Comments, c)
	return c
}

var dutchMonthsShort = []string{"jan", "feb", "mrt", "apr", "mei", "jun", "jul", "aug", "sep", "okt", "nov", "dec"}

// formatCommentTime renders "3 feb 19:45" style Dutch timestamps.
func formatCommentTime(t time.Time) string {
	return fmt.Sprintf("%d %s %02d:%02d", t.Day(), dutchMonthsShort[int(t.Month())-1], t.Hour(), t.Minute())
}
