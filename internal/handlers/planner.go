package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/models"
	"github.com/werkgeheugen/backend/internal/poll"
	"github.com/werkgeheugen/backend/internal/validation"
)

// PlannerHandler handles the shared poll document and its mutations
type PlannerHandler struct {
	plannerRepo database.PlannerRepositoryInterface
	appURL      string
	logger      *zap.Logger
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(plannerRepo database.PlannerRepositoryInterface, appURL string, logger *zap.Logger) *PlannerHandler {
	return &PlannerHandler{plannerRepo: plannerRepo, appURL: appURL, logger: logger}
}

// RegisterRoutes registers planner routes on the given router
// The router should be the API root, not a /planner subrouter,
// because the document itself lives at /planner.json
func (h *PlannerHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/planner.json", h.GetDocument).Methods("GET")
	r.HandleFunc("/planner.json", h.PutDocument).Methods("PUT")

	ev := r.PathPrefix("/planner/events").Subrouter()
	ev.HandleFunc("", h.ListEvents).Methods("GET")
	ev.HandleFunc("", h.AddEvent).Methods("POST")
	ev.HandleFunc("/{eventID}", h.DeleteEvent).Methods("DELETE")
	ev.HandleFunc("/{eventID}/summary", h.Summary).Methods("GET")
	ev.HandleFunc("/{eventID}/dates", h.AddDate).Methods("POST")
	ev.HandleFunc("/{eventID}/dates/{dateID}", h.DeleteDate).Methods("DELETE")
	ev.HandleFunc("/{eventID}/participants", h.AddParticipant).Methods("POST")
	ev.HandleFunc("/{eventID}/participants/{participantID}", h.RemoveParticipant).Methods("DELETE")
	ev.HandleFunc("/{eventID}/votes", h.SetVote).Methods("PUT")
	ev.HandleFunc("/{eventID}/locations", h.AddLocation).Methods("POST")
	ev.HandleFunc("/{eventID}/locations/{locationID}", h.DeleteLocation).Methods("DELETE")
	ev.HandleFunc("/{eventID}/locations/{locationID}/vote", h.ToggleLocationVote).Methods("POST")
	ev.HandleFunc("/{eventID}/comments", h.AddComment).Methods("POST")
}

// AddEventRequest creates a new poll event
type AddEventRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
	Time  string `json:"time" validate:"max=100"`
}

// AddDateRequest proposes a candidate date
type AddDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// AddParticipantRequest adds a voter to the event
type AddParticipantRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

// SetVoteRequest records one participant's vote on one date
type SetVoteRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	DateID        string `json:"date_id" validate:"required"`
	Vote          string `json:"vote" validate:"required,poll_vote"`
}

// AddLocationRequest proposes a meeting location
type AddLocationRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Address    string `json:"address" validate:"max=300"`
	ProposedBy string `json:"proposed_by" validate:"max=100"`
}

// LocationVoteRequest toggles a participant's vote on a location
type LocationVoteRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
}

// AddCommentRequest appends a comment to the event
type AddCommentRequest struct {
	Author string `json:"author" validate:"required,min=1,max=100"`
	Text   string `json:"text" validate:"required,min=1,max=2000"`
}

// GetDocument returns the whole planner document
func (h *PlannerHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.plannerRepo.Get(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load planner")
		return
	}
	respondRawJSON(w, http.StatusOK, doc)
}

// PutDocument replaces the whole planner document
// Last write wins, matching how the clients sync.
func (h *PlannerHandler) PutDocument(w http.ResponseWriter, r *http.Request) {
	var doc models.PlannerDocument
	if !decodeRequest(w, r, &doc) {
		return
	}
	// The document always holds at least one event. Clients that sync
	// an empty snapshot get the seeded default back, same as a fresh load.
	if len(doc.Events) == 0 {
		doc = *models.NewPlannerDocument()
	}

	if err := h.plannerRepo.Replace(r.Context(), &doc); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save planner")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary renders the Dutch group-chat summary for one event
func (h *PlannerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	_, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	text := poll.GenerateSummary(event, h.appURL)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		h.logger.Warn("summary_write_failed", zap.Error(err))
	}
}

// ListEvents returns the poll events from the document
func (h *PlannerHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	doc, err := h.plannerRepo.Get(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load planner")
		return
	}
	respondJSON(w, http.StatusOK, doc.Events)
}

// AddEvent creates a new poll event in the document
func (h *PlannerHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var req AddEventRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	doc, err := h.plannerRepo.Get(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load planner")
		return
	}

	event := poll.AddEvent(doc, validation.SanitizeText(req.Title), validation.SanitizeText(req.Time))
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

// DeleteEvent removes a poll event; the last event cannot be removed
func (h *PlannerHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	doc, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	if err := poll.DeleteEvent(doc, event.ID); err != nil {
		respondJSONError(w, http.StatusConflict, "Conflict", err.Error())
		return
	}
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": event.ID})
}

// AddDate proposes a new candidate date on an event
func (h *PlannerHandler) AddDate(w http.ResponseWriter, r *http.Request) {
	var req AddDateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	doc, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	date := poll.AddDate(event, req.Date)
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusCreated, date)
}

// DeleteDate removes a candidate date and all votes on it
func (h *PlannerHandler) DeleteDate(w http.ResponseWriter, r *http.Request) {
	doc, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	dateID := mux.Vars(r)["dateID"]
	poll.DeleteDate(event, dateID)
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": dateID})
}

// AddParticipant adds a voter to an event
func (h *PlannerHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req AddParticipantRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	doc, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	participant := poll.AddParticipant(event, validation.SanitizeText(req.Name), req.Email)
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusCreated, participant)
}

// RemoveParticipant removes a voter and purges their votes
func (h *PlannerHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	doc, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	participantID := mux.Vars(r)["participantID"]
	poll.RemoveParticipant(event, participantID)
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": participantID})
}

// SetVote records a ja/misschien/nee vote
func (h *PlannerHandler) SetVote(w http.ResponseWriter, r *http.Request) {
	var req SetVoteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	doc, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	if err := poll.SetVote(event, req.ParticipantID, req.DateID, models.Vote(req.Vote)); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusOK, event.Responses[req.ParticipantID])
}

// AddLocation proposes a meeting location
func (h *PlannerHandler) AddLocation(w http.ResponseWriter, r *http.Request) {
	var req AddLocationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	doc, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	location := poll.AddLocation(event,
		validation.SanitizeText(req.Name),
		validation.SanitizeText(req.Address),
		validation.SanitizeText(req.ProposedBy))
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusCreated, location)
}

// DeleteLocation removes a proposed location
func (h *PlannerHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	doc, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	locationID := mux.Vars(r)["locationID"]
	poll.DeleteLocation(event, locationID)
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": locationID})
}

// ToggleLocationVote flips a participant's vote on a location
func (h *PlannerHandler) ToggleLocationVote(w http.ResponseWriter, r *http.Request) {
	var req LocationVoteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	doc, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	poll.ToggleLocationVote(event, mux.Vars(r)["locationID"], req.ParticipantID)
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusOK, event.Locations)
}

// AddComment appends a comment to an event
func (h *PlannerHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req AddCommentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	doc, event, ok := h.loadEvent(w, r)
	if !ok {
		return
	}

	comment := poll.AddComment(event,
		validation.SanitizeText(req.Author),
		validation.SanitizeText(req.Text),
		time.Now())
	if !h.save(w, r, doc) {
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

func (h *PlannerHandler) loadEvent(w http.ResponseWriter, r *http.Request) (*models.PlannerDocument, *models.PollEvent, bool) {
	doc, err := h.plannerRepo.Get(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load planner")
		return nil, nil, false
	}

	event := doc.Event(mux.Vars(r)["eventID"])
	if event == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Event not found")
		return nil, nil, false
	}
	return doc, event, true
}

func (h *PlannerHandler) save(w http.ResponseWriter, r *http.Request, doc *models.PlannerDocument) bool {
	if err := h.plannerRepo.Replace(r.Context(), doc); err != nil {
		h.logger.Error("planner_save_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save planner")
		return false
	}
	return true
}

func (h *PlannerHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !decodeRequest(w, r, dst) {
		return false
	}
	if err := validation.Validate.Struct(dst); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed: "+err.Error())
		return false
	}
	return true
}
