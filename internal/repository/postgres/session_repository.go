package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"folio/internal/domain"
)

// SessionRepository persists refresh-token records with prepared statements.
type SessionRepository struct {
	db                *sql.DB
	createStmt        *sql.Stmt
	getByTokenStmt    *sql.Stmt
	rotateStmt        *sql.Stmt
	deleteStmt        *sql.Stmt
	deleteExpiredStmt *sql.Stmt
}

// NewSessionRepository creates a new SessionRepository with prepared statements.
// Returns an error if statement preparation fails.
func NewSessionRepository(db *sql.DB) (*SessionRepository, error) {
	repo := &SessionRepository{db: db}

	var err error
	repo.createStmt, err = db.Prepare(`
		INSERT INTO sessions (user_id, refresh_token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare create statement: %w", err)
	}

	repo.getByTokenStmt, err = db.Prepare(`
		SELECT id, user_id, refresh_token, expires_at, created_at
		FROM sessions
		WHERE refresh_token = $1 AND expires_at > $2
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare getByRefreshToken statement: %w", err)
	}

	repo.rotateStmt, err = db.Prepare(`
		UPDATE sessions SET refresh_token = $2, expires_at = $3
		WHERE refresh_token = $1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rotate statement: %w", err)
	}

	repo.deleteStmt, err = db.Prepare(`DELETE FROM sessions WHERE refresh_token = $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	repo.deleteExpiredStmt, err = db.Prepare(`DELETE FROM sessions WHERE expires_at <= $1`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare deleteExpired statement: %w", err)
	}

	return repo, nil
}

func (r *SessionRepository) Create(ctx context.Context, record *domain.SessionRecord) error {
	err := r.createStmt.QueryRowContext(ctx,
		record.UserID,
		record.RefreshToken,
		record.ExpiresAt,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByRefreshToken(ctx context.Context, token string) (*domain.SessionRecord, error) {
	record := &domain.SessionRecord{}
	err := r.getByTokenStmt.QueryRowContext(ctx, token, time.Now()).Scan(
		&record.ID,
		&record.UserID,
		&record.RefreshToken,
		&record.ExpiresAt,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by refresh token: %w", err)
	}
	return record, nil
}

// Rotate swaps the refresh token and extends the record's validity window.
// Rotation invalidates the old token in the same statement, so a stale
// cookie presented later simply derives no session.
func (r *SessionRepository) Rotate(ctx context.Context, oldToken, newToken string, expiresAt time.Time) error {
	result, err := r.rotateStmt.ExecContext(ctx, oldToken, newToken, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.deleteStmt.ExecContext(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.deleteExpiredStmt.ExecContext(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return count, nil
}

// Close releases the prepared statements.
func (r *SessionRepository) Close() error {
	stmts := []*sql.Stmt{
		r.createStmt,
		r.getByTokenStmt,
		r.rotateStmt,
		r.deleteStmt,
		r.deleteExpiredStmt,
	}
	var firstErr error
	for _, stmt := range stmts {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
