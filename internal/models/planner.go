package models

import (
	"fmt"
	"time"
)

// Vote is a participant's availability answer for one candidate date.
type Vote string

const (
	VoteJa        Vote = "ja"
	VoteMisschien Vote = "misschien"
	VoteNee       Vote = "nee"
)

// ValidVote reports whether v is one of the three literal vote tokens.
func ValidVote(v Vote) bool {
	return v == VoteJa || v == VoteMisschien || v == VoteNee
}

// PollDate is one candidate date/time slot in an availability poll.
type PollDate struct {
	ID    string `json:"id"`
	Date  string `json:"date"` // ISO date, yyyy-mm-dd
	Label string `json:"label"`
}

// Participant is one invited member of a poll event.
type Participant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Location is a proposed meeting place with its backing voters.
type Location struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address,omitempty"`
	ProposedBy string   `json:"proposedBy,omitempty"`
	Votes      []string `json:"votes"` // participant IDs
}

// Comment is a time-stamped remark on a poll event.
type Comment struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
	Time   string `json:"time"`
}

// PollEvent is one meeting poll: candidate dates, participants, and
// per-participant per-date votes in a nested responses map.
type PollEvent struct {
	ID           string                     `json:"id"`
	Title        string                     `json:"title"`
	Time         string                     `json:"time"`
	Dates        []PollDate                 `json:"dates"`
	Participants []Participant              `json:"participants"`
	Responses    map[string]map[string]Vote `json:"responses"`
	Locations    []Location                 `json:"locations"`
	Comments     []Comment                  `json:"comments"`
	Created      string                     `json:"created"`
}

// PlannerDocument is the whole synced document. It always holds at
// least one event.
type PlannerDocument struct {
	Events []*PollEvent `json:"events"`
}

// DefaultParticipants seeds new events with the standing group.
func DefaultParticipants() []Participant {
	return []Participant{
		{ID: "p1", Name: "Carien"},
		{ID: "p2", Name: "Kundike"},
		{ID: "p3", Name: "Bejanca"},
		{ID: "p4", Name: "Gerry"},
		{ID: "p5", Name: "Stefan"},
		{ID: "p6", Name: "Richard"},
	}
}

// NewPollEvent creates an empty event with the default participants.
func NewPollEvent(title, timeLabel string) *PollEvent {
	return &PollEvent{
		ID:           fmt.Sprintf("evt_%d", time.Now().UnixMilli()),
		Title:        title,
		Time:         timeLabel,
		Dates:        []PollDate{},
		Participants: DefaultParticipants(),
		Responses:    map[string]map[string]Vote{},
		Locations:    []Location{},
		Comments:     []Comment{},
		Created:      time.Now().Format(time.RFC3339),
	}
}

// NewPlannerDocument creates a document seeded with one default event
// so the invariant "at least one event" holds from the start.
func NewPlannerDocument() *PlannerDocument {
	evt := NewPollEvent("Vergadering 1 - 2026", "19:45 - 21:15")
	evt.Dates = []PollDate{
		{ID: "d1", Date: "2026-02-03", Label: "Di 3 feb"},
		{ID: "d2", Date: "2026-02-05", Label: "Do 5 feb"},
		{ID: "d3", Date: "2026-02-06", Label: "Vr 6 feb"},
		{ID: "d4", Date: "2026-02-10", Label: "Di 10 feb"},
		{ID: "d5", Date: "2026-02-12", Label: "Do 12 feb"},
	}
	return &PlannerDocument{Events: []*PollEvent{evt}}
}

// Event returns the event with the given ID, or nil.
func (d *PlannerDocument) Event(id string) *PollEvent {
	for _, e := range d.Events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

var (
	dutchDays   = []string{"Zo", "Ma", "Di", "Wo", "Do", "Vr", "Za"}
	dutchMonths = []string{"jan", "feb", "mrt", "apr", "mei", "jun", "jul", "aug", "sep", "okt", "nov", "dec"}
)

// FormatDateLabel renders an ISO date as a short Dutch label,
// e.g. "Di 3 feb". Unparseable input is returned as-is.
func FormatDateLabel(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return fmt.Sprintf("%s %d %s", dutchDays[int(t.Weekday())], t.Day(), dutchMonths[int(t.Month())-1])
}
