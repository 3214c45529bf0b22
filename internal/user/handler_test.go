package user

import (
	"context"
	"net/http"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shynif/nuit-de-linfo-2025/internal/auth"
	"github.com/Shynif/nuit-de-linfo-2025/internal/session"
	"github.com/Shynif/nuit-de-linfo-2025/internal/user/entity"
)

func newTestHandler(t *testing.T) (*Handler, *memStore) {
	t.Helper()
	svc, store := newTestService(t)
	codec, err := auth.NewCodec([]byte("test-secret-with-at-least-32-bytes!!"))
	require.NoError(t, err)
	sessions := session.NewManager(codec, store, session.CookieConfig{Name: "session"}, auth.DefaultTTL, zap.NewNop().Sugar())
	return NewHandler(svc, sessions, zap.NewNop().Sugar()), store
}

func asUser(view *entity.SessionView, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(session.WithView(r.Context(), view)))
	}
}

func TestRegisterHandler_JSON(t *testing.T) {
	h, _ := newTestHandler(t)

	apitest.New().
		HandlerFunc(h.Register).
		Post("/api/register").
		JSON(`{"username":"alice","password":"hunter2"}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.name`, "alice")).
		Assert(jsonpath.Present(`$.id`)).
		CookiePresent("session").
		End()
}

func TestRegisterHandler_Form(t *testing.T) {
	h, _ := newTestHandler(t)

	apitest.New().
		HandlerFunc(h.Register).
		Post("/api/register").
		FormData("username", "bob").
		FormData("password", "pw").
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal(`$.name`, "bob")).
		End()
}

func TestRegisterHandler_Rejections(t *testing.T) {
	h, _ := newTestHandler(t)
	_, err := h.svc.Register(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	apitest.New().
		HandlerFunc(h.Register).
		Post("/api/register").
		JSON(`{"username":"alice"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"error":"Missing username or password"}`).
		CookieNotPresent("session").
		End()

	apitest.New().
		HandlerFunc(h.Register).
		Post("/api/register").
		JSON(`{"username":"alice","password":"again"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"error":"Username already taken"}`).
		End()

	apitest.New().
		HandlerFunc(h.Register).
		Post("/api/register").
		JSON(`{not json`).
		Expect(t).
		Status(http.StatusBadRequest).
		Body(`{"error":"Missing username or password"}`).
		End()
}

func TestLoginHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	u, err := h.svc.Register(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	apitest.New().
		HandlerFunc(h.Login).
		Post("/api/login").
		JSON(`{"username":"alice","password":"hunter2"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.id`, u.ID)).
		CookiePresent("session").
		End()
}

func TestLoginHandler_SameAnswerForUnknownUserAndWrongPassword(t *testing.T) {
	h, _ := newTestHandler(t)
	_, err := h.svc.Register(context.Background(), "alice", "hunter2")
	require.NoError(t, err)

	for _, body := range []string{
		`{"username":"alice","password":"wrong"}`,
		`{"username":"nobody","password":"hunter2"}`,
	} {
		apitest.New().
			HandlerFunc(h.Login).
			Post("/api/login").
			JSON(body).
			Expect(t).
			Status(http.StatusBadRequest).
			Body(`{"error":"Invalid username or password"}`).
			CookieNotPresent("session").
			End()
	}
}

func TestLogoutHandler(t *testing.T) {
	h, _ := newTestHandler(t)

	apitest.New().
		HandlerFunc(h.Logout).
		Post("/api/logout").
		Expect(t).
		Status(http.StatusNoContent).
		CookiePresent("session").
		End()
}

func TestMeHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	view := &entity.SessionView{ID: "u1", Name: "alice", Public: true, Highscore: 3}

	apitest.New().
		HandlerFunc(asUser(view, h.Me)).
		Get("/api/me").
		Expect(t).
		Status(http.StatusOK).
		Body(`{"id":"u1","name":"alice","public":true,"highscore":3}`).
		End()
}

func TestScoreHandler(t *testing.T) {
	h, _ := newTestHandler(t)
	u, err := h.svc.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
	view := &entity.SessionView{ID: u.ID, Name: u.Name, Public: true}

	apitest.New().
		HandlerFunc(asUser(view, h.Score)).
		Post("/api/score").
		JSON(`{"score":42}`).
		Expect(t).
		Status(http.StatusOK).
		Body(`{"success":true,"newHighscore":true}`).
		End()

	apitest.New().
		HandlerFunc(asUser(view, h.Score)).
		Post("/api/score").
		JSON(`{"score":10}`).
		Expect(t).
		Status(http.StatusOK).
		Body(`{"success":true,"newHighscore":false}`).
		End()
}

func TestScoreHandler_InvalidScore(t *testing.T) {
	h, _ := newTestHandler(t)
	view := &entity.SessionView{ID: "u1", Name: "alice"}

	for _, body := range []string{`{}`, `{"score":"12"}`, `{"score":null}`, `{"score":1.5}`, `{"score":1e12}`, `nope`} {
		apitest.New().
			HandlerFunc(asUser(view, h.Score)).
			Post("/api/score").
			JSON(body).
			Expect(t).
			Status(http.StatusBadRequest).
			Body(`{"error":"Invalid score"}`).
			End()
	}
}

func TestScoreHandler_UserGone(t *testing.T) {
	h, _ := newTestHandler(t)
	view := &entity.SessionView{ID: "deleted", Name: "ghost"}

	apitest.New().
		HandlerFunc(asUser(view, h.Score)).
		Post("/api/score").
		JSON(`{"score":1}`).
		Expect(t).
		Status(http.StatusNotFound).
		Body(`{"error":"User not found"}`).
		End()
}
