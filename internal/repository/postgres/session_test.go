package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/tooodo-server/internal/model"
)

var sessionRows = []string{"id", "token", "expires_at", "user_id"}

func newSessionRepoWithMock(t *testing.T) (*SessionRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewSessionRepository(db), mock, db
}

func TestSessionRepository_Create(t *testing.T) {
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	userID := uuid.New()
	expiry := time.Now().Add(time.Hour)
	q := `(?s)INSERT INTO sessions \(id, token, expires_at, user_id\).*RETURNING`

	mock.ExpectQuery(q).
		WithArgs(id, "tok", expiry, userID).
		WillReturnRows(sqlmock.NewRows(sessionRows).AddRow(id, "tok", expiry, userID))

	session, err := repo.Create(context.Background(), model.Session{
		ID:        id,
		Token:     "tok",
		ExpiresAt: expiry,
		UserID:    userID,
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, userID, session.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByToken_NotFound(t *testing.T) {
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM sessions WHERE token = \$1`).
		WithArgs("absent").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByToken(context.Background(), "absent")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestSessionRepository_ListByUser(t *testing.T) {
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	userID := uuid.New()
	first := uuid.New()
	second := uuid.New()
	now := time.Now()
	q := `(?s)SELECT .* FROM sessions\s+WHERE user_id = \$1 ORDER BY expires_at, id`

	mock.ExpectQuery(q).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(sessionRows).
			AddRow(first, "t1", now.Add(time.Hour), userID).
			AddRow(second, "t2", now.Add(2*time.Hour), userID))

	sessions, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first, sessions[0].ID)
	assert.Equal(t, second, sessions[1].ID)
}

func TestSessionRepository_Rotate(t *testing.T) {
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	userID := uuid.New()
	newExpiry := time.Now().Add(time.Hour)
	q := `(?s)UPDATE sessions SET token = \$2, expires_at = \$3\s+WHERE token = \$1\s+RETURNING`

	mock.ExpectQuery(q).
		WithArgs("old", "new", newExpiry).
		WillReturnRows(sqlmock.NewRows(sessionRows).AddRow(id, "new", newExpiry, userID))

	session, err := repo.Rotate(context.Background(), "old", "new", newExpiry)
	require.NoError(t, err)
	assert.Equal(t, id, session.ID)
	assert.Equal(t, "new", session.Token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Rotate_NotFound(t *testing.T) {
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE sessions SET`).
		WithArgs("absent", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Rotate(context.Background(), "absent", "new", time.Now())
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}
