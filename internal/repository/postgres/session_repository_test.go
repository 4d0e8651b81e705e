package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"folio/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionRepositoryMocks(mock sqlmock.Sqlmock) {
	mock.ExpectPrepare(`INSERT INTO sessions`)
	mock.ExpectPrepare(`SELECT id, user_id, refresh_token, expires_at, created_at`)
	mock.ExpectPrepare(`UPDATE sessions SET refresh_token`)
	mock.ExpectPrepare(`DELETE FROM sessions WHERE refresh_token`)
	mock.ExpectPrepare(`DELETE FROM sessions WHERE expires_at`)
}

func TestNewSessionRepository(t *testing.T) {
	t.Run("successful_creation", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		setupSessionRepositoryMocks(mock)

		repo, err := NewSessionRepository(db)
		require.NoError(t, err)
		assert.NotNil(t, repo)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails_when_prepare_fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectPrepare(`INSERT INTO sessions`).
			WillReturnError(errors.New("prepare failed"))

		repo, err := NewSessionRepository(db)
		require.Error(t, err)
		assert.Nil(t, repo)
		assert.Contains(t, err.Error(), "failed to prepare create statement")
	})
}

func TestSessionRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	setupSessionRepositoryMocks(mock)
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs("user-1", "refresh-token", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("sess-1", now))

	repo, err := NewSessionRepository(db)
	require.NoError(t, err)

	record := &domain.SessionRecord{
		UserID:       "user-1",
		RefreshToken: "refresh-token",
		ExpiresAt:    now.Add(7 * 24 * time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), record))
	assert.Equal(t, "sess-1", record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByRefreshToken(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		setupSessionRepositoryMocks(mock)
		now := time.Now()
		mock.ExpectQuery(`SELECT id, user_id, refresh_token`).
			WithArgs("refresh-token", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "user_id", "refresh_token", "expires_at", "created_at"}).
				AddRow("sess-1", "user-1", "refresh-token", now.Add(time.Hour), now))

		repo, err := NewSessionRepository(db)
		require.NoError(t, err)

		record, err := repo.GetByRefreshToken(context.Background(), "refresh-token")
		require.NoError(t, err)
		assert.Equal(t, "user-1", record.UserID)
	})

	t.Run("expired_or_missing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		setupSessionRepositoryMocks(mock)
		mock.ExpectQuery(`SELECT id, user_id, refresh_token`).
			WithArgs("stale", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "user_id", "refresh_token", "expires_at", "created_at"}))

		repo, err := NewSessionRepository(db)
		require.NoError(t, err)

		_, err = repo.GetByRefreshToken(context.Background(), "stale")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSessionRepository_Rotate(t *testing.T) {
	t.Run("successful_rotation", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		setupSessionRepositoryMocks(mock)
		mock.ExpectExec(`UPDATE sessions SET refresh_token`).
			WithArgs("old-token", "new-token", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo, err := NewSessionRepository(db)
		require.NoError(t, err)

		err = repo.Rotate(context.Background(), "old-token", "new-token",
			time.Now().Add(7*24*time.Hour))
		assert.NoError(t, err)
	})

	t.Run("unknown_token", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		setupSessionRepositoryMocks(mock)
		mock.ExpectExec(`UPDATE sessions SET refresh_token`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo, err := NewSessionRepository(db)
		require.NoError(t, err)

		err = repo.Rotate(context.Background(), "gone", "new-token", time.Now())
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	setupSessionRepositoryMocks(mock)
	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo, err := NewSessionRepository(db)
	require.NoError(t, err)

	count, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
