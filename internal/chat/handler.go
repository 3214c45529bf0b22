// Package chat proxies prompts to a deliberately unhelpful language model
// persona.
package chat

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Shynif/nuit-de-linfo-2025/pkg/utilities"
)

const (
	maxBodyBytes  = 64 << 10
	silentReply   = "*Solange vous méprise en silence*"
	refusedError  = "Solange refuse votre requête"
	upstreamError = "Solange a eu une migraine existentielle (Erreur Serveur)"
)

type Request struct {
	Prompt string `json:"prompt"`
}

type Response struct {
	SolangeResponse string `json:"solange_response"`
	Status          string `json:"status"`
}

type Handler struct {
	gen       Generator
	validator *Validator
	logger    *zap.SugaredLogger
}

func NewHandler(gen Generator, validator *Validator, logger *zap.SugaredLogger) *Handler {
	return &Handler{gen: gen, validator: validator, logger: logger}
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":   refusedError,
			"details": []Violation{{Field: "(root)", Message: "Requête trop volumineuse."}},
		})
		return
	}
	prompt, violations := h.validator.Validate(body)
	if violations != nil {
		utilities.WriteJSON(w, http.StatusBadRequest, map[string]any{"error": refusedError, "details": violations})
		return
	}
	text, err := h.gen.Generate(r.Context(), prompt)
	if err != nil {
		h.logger.Errorw("chat generation failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, upstreamError)
		return
	}
	if text == "" {
		text = silentReply
	}
	utilities.WriteJSON(w, http.StatusOK, Response{SolangeResponse: text, Status: "success_but_useless"})
}
