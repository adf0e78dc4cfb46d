package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/models"
)

// BadgeHandler handles badge requests
type BadgeHandler struct {
	badgeRepo database.BadgeRepositoryInterface
	logger    *zap.Logger
}

// NewBadgeHandler creates a new badge handler
func NewBadgeHandler(badgeRepo database.BadgeRepositoryInterface, logger *zap.Logger) *BadgeHandler {
	return &BadgeHandler{badgeRepo: badgeRepo, logger: logger}
}

// RegisterRoutes registers badge routes on the given router
// The router should already have the /badges prefix
func (h *BadgeHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListBadges).Methods("GET")
	r.HandleFunc("/{id}/seen", h.MarkSeen).Methods("POST")
}

// BadgeResponse is a badge enriched with its display metadata
type BadgeResponse struct {
	*models.Badge
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListBadges lists earned badges, newest first
func (h *BadgeHandler) ListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.badgeRepo.List(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve badges")
		return
	}

	out := make([]BadgeResponse, 0, len(badges))
	for _, b := range badges {
		out = append(out, BadgeResponse{
			Badge:       b,
			Title:       b.Kind.Title(),
			Description: b.Kind.Description(),
		})
	}

	respondJSON(w, http.StatusOK, out)
}

// MarkSeen clears the new flag on a badge
func (h *BadgeHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid badge ID")
		return
	}

	if err := h.badgeRepo.MarkSeen(r.Context(), id); err != nil {
		if err == database.ErrNotFound {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Badge not found")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update badge")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}
