package setting

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Shynif/nuit-de-linfo-2025/internal/session"
	"github.com/Shynif/nuit-de-linfo-2025/pkg/utilities"
)

// Handler contains dependencies for handling setting endpoints. Every route
// must be mounted behind session.RequireUser.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

// NewHandler constructs a new Handler.
func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Get returns the caller's settings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, _ := session.FromContext(r.Context())
	st, err := h.svc.Get(r.Context(), view.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		utilities.WriteError(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		h.logger.Errorw("load settings failed", "user_id", view.ID, "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "load settings failed")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, st)
}

type VisibilityRequest struct {
	IsPublic *bool `json:"isPublic"`
}

// Hide sets whether the caller appears on the leaderboard.
func (h *Handler) Hide(w http.ResponseWriter, r *http.Request) {
	view, _ := session.FromContext(r.Context())
	var req VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsPublic == nil {
		utilities.WriteError(w, http.StatusBadRequest, "Invalid visibility")
		return
	}
	err := h.svc.SetPublic(r.Context(), view.ID, *req.IsPublic)
	switch {
	case errors.Is(err, ErrNotFound):
		utilities.WriteError(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		h.logger.Errorw("update visibility failed", "user_id", view.ID, "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "update visibility failed")
		return
	}
	h.logger.Debugw("visibility updated", "user_id", view.ID, "public", *req.IsPublic)
	utilities.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
