package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/recshelf/internal/auth"
	"github.com/sakif/recshelf/internal/model"
	"github.com/sakif/recshelf/internal/repository"
	"github.com/sakif/recshelf/internal/service"
)

// RecommendationHandler exposes the recommendation store over HTTP.
//
// Routes:
//
//	GET    /api/recommendations/latest            → HandleLatest (public)
//	GET    /api/recommendations                   → HandleList (public)
//	GET    /api/users/{externalID}/recommendations → HandleListByOwner (public)
//	POST   /api/recommendations                   → HandleCreate (auth)
//	DELETE /api/recommendations/{id}              → HandleDelete (auth)
//	POST   /api/recommendations/{id}/staff-pick   → HandleToggleStaffPick (auth, admin)
type RecommendationHandler struct {
	recs   *service.RecommendationService
	logger *slog.Logger
}

// NewRecommendationHandler creates a RecommendationHandler.
func NewRecommendationHandler(recs *service.RecommendationService, logger *slog.Logger) *RecommendationHandler {
	return &RecommendationHandler{recs: recs, logger: logger}
}

// createRequest is the POST /api/recommendations body.
type createRequest struct {
	Title string `json:"title"`
	Genre string `json:"genre"`
	Link  string `json:"link"`
	Blurb string `json:"blurb"`
}

// toggleResponse is the staff-pick toggle result.
type toggleResponse struct {
	IsStaffPick bool `json:"isStaffPick"`
}

// HandleLatest returns the N most recent recommendations for the landing
// page. No auth. limit defaults to 5 and is clamped by the service.
//
// HTTP: GET /api/recommendations/latest?limit=5
func (h *RecommendationHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "limit must be an integer",
				Field:   "limit",
			})
			return
		}
		limit = n
	}

	recs, err := h.recs.LatestPublic(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}

// HandleList returns recommendations with optional filtering. Filters are
// mutually-favoring: staffPicksOnly wins over genre.
//
// HTTP: GET /api/recommendations?genre=horror&staffPicksOnly=true
func (h *RecommendationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := repository.ListFilter{
		Genre:          model.Genre(r.URL.Query().Get("genre")),
		StaffPicksOnly: r.URL.Query().Get("staffPicksOnly") == "true",
	}

	recs, err := h.recs.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}

// HandleListByOwner returns one owner's recommendations. Deliberately
// public: any caller may view any owner's list.
//
// HTTP: GET /api/users/{externalID}/recommendations
func (h *RecommendationHandler) HandleListByOwner(w http.ResponseWriter, r *http.Request) {
	ownerExternalID := r.PathValue("externalID")

	recs, err := h.recs.ListByOwner(r.Context(), ownerExternalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}

// HandleCreate stores a new recommendation owned by the caller.
//
// HTTP: POST /api/recommendations
// Body: {"title":"Alien","genre":"sci-fi","link":"https://...","blurb":"..."}
func (h *RecommendationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	externalID, ok := auth.ExternalIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid create recommendation JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	rec, err := h.recs.Create(r.Context(), externalID, req.Title, model.Genre(req.Genre), req.Link, req.Blurb)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// HandleDelete removes a recommendation. Owner or admin only; the service
// enforces the policy.
//
// HTTP: DELETE /api/recommendations/{id}
func (h *RecommendationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	externalID, ok := auth.ExternalIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	id := r.PathValue("id")
	if err := h.recs.Remove(r.Context(), externalID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleStaffPick flips the staff-pick flag. Admin only; the service
// enforces the policy and returns the new value.
//
// HTTP: POST /api/recommendations/{id}/staff-pick
func (h *RecommendationHandler) HandleToggleStaffPick(w http.ResponseWriter, r *http.Request) {
	externalID, ok := auth.ExternalIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	id := r.PathValue("id")
	newValue, err := h.recs.ToggleStaffPick(r.Context(), externalID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toggleResponse{IsStaffPick: newValue})
}
