package leaderboard

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Shynif/nuit-de-linfo-2025/pkg/utilities"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list leaderboard failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "leaderboard unavailable")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, entries)
}
