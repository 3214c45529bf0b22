package setting

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Shynif/nuit-de-linfo-2025/internal/session"
	"github.com/Shynif/nuit-de-linfo-2025/internal/setting/entity"
	userentity "github.com/Shynif/nuit-de-linfo-2025/internal/user/entity"
)

type memStore struct {
	rows map[string]*entity.AccountSettings
	err  error
}

func (m *memStore) Get(_ context.Context, id string) (*entity.AccountSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	st, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *st
	return &cp, nil
}

func (m *memStore) SetPublic(_ context.Context, id string, public bool) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	st, ok := m.rows[id]
	if !ok {
		return 0, nil
	}
	st.Public = public
	return 1, nil
}

func newTestHandler() (*Handler, *Service, *memStore) {
	store := &memStore{rows: map[string]*entity.AccountSettings{"u1": {Name: "alice", Public: true}}}
	svc := NewService(store)
	return NewHandler(svc, zap.NewNop().Sugar()), svc, store
}

func asUser(id string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := &userentity.SessionView{ID: id, Name: "alice"}
		next(w, r.WithContext(session.WithView(r.Context(), view)))
	}
}

func TestGetSettings(t *testing.T) {
	h, _, _ := newTestHandler()

	apitest.New().
		HandlerFunc(asUser("u1", h.Get)).
		Get("/api/settings").
		Expect(t).
		Status(http.StatusOK).
		Body(`{"name":"alice","public":true}`).
		End()

	apitest.New().
		HandlerFunc(asUser("gone", h.Get)).
		Get("/api/settings").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestHide(t *testing.T) {
	h, svc, store := newTestHandler()
	changes := 0
	svc.OnVisibilityChange = func() { changes++ }

	apitest.New().
		HandlerFunc(asUser("u1", h.Hide)).
		Post("/api/hide").
		JSON(`{"isPublic":false}`).
		Expect(t).
		Status(http.StatusOK).
		Body(`{"success":true}`).
		End()

	assert.False(t, store.rows["u1"].Public)
	assert.Equal(t, 1, changes)
}

func TestHide_Rejections(t *testing.T) {
	h, _, store := newTestHandler()

	for _, body := range []string{`{}`, `{"isPublic":"yes"}`, `{"isPublic":null}`, `[]`} {
		apitest.New().
			HandlerFunc(asUser("u1", h.Hide)).
			Post("/api/hide").
			JSON(body).
			Expect(t).
			Status(http.StatusBadRequest).
			Body(`{"error":"Invalid visibility"}`).
			End()
	}

	apitest.New().
		HandlerFunc(asUser("gone", h.Hide)).
		Post("/api/hide").
		JSON(`{"isPublic":true}`).
		Expect(t).
		Status(http.StatusNotFound).
		End()

	store.err = errors.New("db down")
	apitest.New().
		HandlerFunc(asUser("u1", h.Hide)).
		Post("/api/hide").
		JSON(`{"isPublic":true}`).
		Expect(t).
		Status(http.StatusInternalServerError).
		End()
}
