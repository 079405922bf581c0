package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/chirp-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

const insertSession = `
    INSERT INTO sessions (id, account_id, token, issued_at, expires_at)
    VALUES ($1, $2, $3, $4, $5)
`

func (r *SessionRepository) Create(ctx context.Context, session model.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, insertSession,
		session.ID, session.AccountID, session.Token, session.IssuedAt, session.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrConflict
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (model.Session, error) {
	const query = `
        SELECT id, account_id, token, issued_at, expires_at
        FROM sessions WHERE token = $1 AND expires_at > NOW()
    `
	var s model.Session
	err := r.db.QueryRow(ctx, query, token).Scan(&s.ID, &s.AccountID, &s.Token, &s.IssuedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session by token: %w", err)
	}
	return s, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	const query = `DELETE FROM sessions WHERE token = $1`
	if _, err := r.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Rotate deletes the old row and inserts next in one transaction. The
// DELETE takes the row lock, so a concurrent rotation of the same token sees
// zero rows and fails.
func (r *SessionRepository) Rotate(ctx context.Context, oldToken string, next model.Session) error {
	const deleteOld = `DELETE FROM sessions WHERE token = $1 AND expires_at > NOW() RETURNING id`

	if next.ID == uuid.Nil {
		next.ID = uuid.New()
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var id uuid.UUID
		if err := tx.QueryRow(ctx, deleteOld, oldToken).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrNotFound
			}
			return fmt.Errorf("failed to delete rotated session: %w", err)
		}

		_, err := tx.Exec(ctx, insertSession,
			next.ID, next.AccountID, next.Token, next.IssuedAt, next.ExpiresAt)
		if err != nil {
			if isUniqueViolation(err) {
				return model.ErrConflict
			}
			return fmt.Errorf("failed to insert rotated session: %w", err)
		}
		return nil
	})
}

func (r *SessionRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	const query = `DELETE FROM sessions WHERE account_id = $1`
	if _, err := r.db.Exec(ctx, query, accountID); err != nil {
		return fmt.Errorf("failed to delete account sessions: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at <= $1`
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
