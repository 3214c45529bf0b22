package question

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Shynif/nuit-de-linfo-2025/pkg/utilities"
)

type Handler struct {
	bank   *Bank
	logger *zap.SugaredLogger
}

func NewHandler(bank *Bank, logger *zap.SugaredLogger) *Handler {
	return &Handler{bank: bank, logger: logger}
}

// Random serves a question to start a game with.
func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	q, ok := h.bank.Random()
	if !ok {
		utilities.WriteError(w, http.StatusNotFound, "No questions available")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, q)
}

// Get serves the question named by the {id} path value.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		utilities.WriteError(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	q, ok := h.bank.Get(id)
	if !ok {
		utilities.WriteError(w, http.StatusNotFound, "Question not found")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, q)
}

// Search filters the deck by the q query parameter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	utilities.WriteJSON(w, http.StatusOK, h.bank.Search(r.URL.Query().Get("q")))
}
