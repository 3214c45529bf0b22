package repo

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewRepo(sqlx.NewDb(db, "postgres")), mock
}

func TestGet(t *testing.T) {
	r, mock := newRepoWithMock(t)
	q := `(?s)^SELECT\s+name,\s*public\s+FROM\s+users\s+WHERE\s+id=\$1$`

	mock.ExpectQuery(q).WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"name", "public"}).AddRow("alice", false))
	mock.ExpectQuery(q).WithArgs("gone").WillReturnError(sql.ErrNoRows)

	st, err := r.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", st.Name)
	assert.False(t, st.Public)

	_, err = r.Get(context.Background(), "gone")
	assert.True(t, IsNotFound(err))
}

func TestSetPublic(t *testing.T) {
	r, mock := newRepoWithMock(t)
	q := `(?s)^UPDATE\s+users\s+SET\s+public=\$2,\s*updated_at=NOW\(\)\s+WHERE\s+id=\$1$`

	mock.ExpectExec(q).WithArgs("u1", false).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("gone", true).WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := r.SetPublic(context.Background(), "u1", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.SetPublic(context.Background(), "gone", true)
	require.NoError(t, err)
	assert.Zero(t, n)
}
