package user

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"go.uber.org/zap"

	"github.com/Shynif/nuit-de-linfo-2025/internal/session"
	"github.com/Shynif/nuit-de-linfo-2025/pkg/utilities"
)

// Handler exposes HTTP endpoints for account operations.
type Handler struct {
	svc      *UserService
	sessions *session.Manager
	logger   *zap.SugaredLogger
}

func NewHandler(svc *UserService, sessions *session.Manager, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, sessions: sessions, logger: logger}
}

// CredentialsRequest is accepted as JSON or as a urlencoded/multipart form.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AccountResponse identifies the account a session was opened for.
type AccountResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func readCredentials(r *http.Request) CredentialsRequest {
	var req CredentialsRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		_ = json.NewDecoder(r.Body).Decode(&req)
		return req
	}
	req.Username = r.FormValue("username")
	req.Password = r.FormValue("password")
	return req
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req := readCredentials(r)
	u, err := h.svc.Register(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, ErrMissingCredentials):
		utilities.WriteError(w, http.StatusBadRequest, "Missing username or password")
		return
	case errors.Is(err, ErrNameTaken):
		utilities.WriteError(w, http.StatusBadRequest, "Username already taken")
		return
	case err != nil:
		h.logger.Errorw("register failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "register failed")
		return
	}
	if err := h.sessions.Start(w, u.ID); err != nil {
		h.logger.Errorw("issue session failed", "user_id", u.ID, "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "register failed")
		return
	}
	h.logger.Infow("user registered", "user_id", u.ID)
	utilities.WriteJSON(w, http.StatusCreated, AccountResponse{ID: u.ID, Name: u.Name})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req := readCredentials(r)
	u, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, ErrMissingCredentials):
		utilities.WriteError(w, http.StatusBadRequest, "Missing username or password")
		return
	case errors.Is(err, ErrBadCredentials):
		h.logger.Debugw("login rejected")
		utilities.WriteError(w, http.StatusBadRequest, "Invalid username or password")
		return
	case err != nil:
		h.logger.Errorw("login failed", "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if err := h.sessions.Start(w, u.ID); err != nil {
		h.logger.Errorw("issue session failed", "user_id", u.ID, "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "login failed")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, AccountResponse{ID: u.ID, Name: u.Name})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the session view. Mount behind session.RequireUser.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	view, _ := session.FromContext(r.Context())
	utilities.WriteJSON(w, http.StatusOK, view)
}

type ScoreRequest struct {
	Score *float64 `json:"score"`
}

type ScoreResponse struct {
	Success      bool `json:"success"`
	NewHighscore bool `json:"newHighscore"`
}

// Score submits the result of a finished game. Mount behind session.RequireUser.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	view, _ := session.FromContext(r.Context())
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Score == nil {
		utilities.WriteError(w, http.StatusBadRequest, "Invalid score")
		return
	}
	score := *req.Score
	if score != math.Trunc(score) || score < math.MinInt32 || score > math.MaxInt32 {
		utilities.WriteError(w, http.StatusBadRequest, "Invalid score")
		return
	}
	raised, err := h.svc.SubmitScore(r.Context(), view.ID, int(score))
	switch {
	case errors.Is(err, ErrUserNotFound):
		utilities.WriteError(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		h.logger.Errorw("submit score failed", "user_id", view.ID, "err", err)
		utilities.WriteError(w, http.StatusInternalServerError, "submit score failed")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, ScoreResponse{Success: true, NewHighscore: raised})
}
