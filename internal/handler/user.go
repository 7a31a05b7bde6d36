package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/recshelf/internal/auth"
	"github.com/sakif/recshelf/internal/model"
	"github.com/sakif/recshelf/internal/service"
)

// UserHandler exposes the user directory over HTTP.
//
// Routes:
//
//	GET /api/me              → HandleMe (auth)
//	PUT /api/users/{id}/role → HandleUpdateRole (auth, admin)
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// roleRequest is the PUT /api/users/{id}/role body.
type roleRequest struct {
	Role string `json:"role"`
}

// HandleMe returns the signed-in caller's directory record.
//
// HTTP: GET /api/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	externalID, ok := auth.ExternalIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.users.GetByExternalID(r.Context(), externalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUpdateRole changes a user's role. The {id} path segment is the
// target's internal record ID; the caller must be an admin.
//
// HTTP: PUT /api/users/{id}/role
// Body: {"role":"admin"}
func (h *UserHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	externalID, ok := auth.ExternalIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthenticated",
			Message: "valid authentication required",
		})
		return
	}

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid role update JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	targetUserID := r.PathValue("id")
	if err := h.users.SetRole(r.Context(), externalID, targetUserID, model.Role(req.Role)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
