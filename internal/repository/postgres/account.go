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

var _ model.AccountStore = (*AccountRepository)(nil)

type AccountRepository struct {
	db *Connection
}

func NewAccountRepository(db *Connection) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, email, password_hash, name, date_of_birth, bio, verify_status,
	COALESCE(email_verify_token, ''), COALESCE(forgot_verify_token, ''), created_at, updated_at`

func scanAccount(row pgx.Row) (model.Account, error) {
	var (
		a   model.Account
		dob *time.Time
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &dob, &a.Bio, &a.VerifyStatus,
		&a.EmailVerifyToken, &a.ForgotVerifyToken, &a.CreatedAt, &a.UpdatedAt,
	)
	if dob != nil {
		a.DateOfBirth = *dob
	}
	return a, err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	query := `INSERT INTO accounts (id, email, password_hash, name, date_of_birth, bio, verify_status,
				email_verify_token, forgot_verify_token, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			  RETURNING ` + accountColumns

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	created, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID, account.Email, account.PasswordHash, account.Name, nullableDate(account.DateOfBirth),
		account.Bio, account.VerifyStatus, nullable(account.EmailVerifyToken), nullable(account.ForgotVerifyToken),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Account{}, model.ErrConflict
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return created, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by id: %w", err)
	}
	return account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`

	account, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by email: %w", err)
	}
	return account, nil
}

// exec runs an UPDATE and maps zero affected rows to ErrNotFound.
func (r *AccountRepository) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) SetEmailVerifyToken(ctx context.Context, id uuid.UUID, token string) error {
	const query = `UPDATE accounts SET email_verify_token = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, "set email verify token", query, id, nullable(token))
}

func (r *AccountRepository) SetForgotPasswordToken(ctx context.Context, id uuid.UUID, token string) error {
	const query = `UPDATE accounts SET forgot_verify_token = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, "set forgot password token", query, id, nullable(token))
}

func (r *AccountRepository) MarkVerified(ctx context.Context, id uuid.UUID, token string) error {
	const query = `
        UPDATE accounts
        SET verify_status = $3, email_verify_token = NULL, updated_at = NOW()
        WHERE id = $1 AND email_verify_token = $2 AND verify_status = $4
    `
	return r.exec(ctx, "mark account verified", query,
		id, token, model.VerifyStatusVerified, model.VerifyStatusUnverified)
}

func (r *AccountRepository) ResetPassword(ctx context.Context, id uuid.UUID, token string, passwordHash string) error {
	const query = `
        UPDATE accounts
        SET password_hash = $3, forgot_verify_token = NULL, updated_at = NOW()
        WHERE id = $1 AND forgot_verify_token = $2
    `
	return r.exec(ctx, "reset password", query, id, token, passwordHash)
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.VerifyStatus) error {
	const query = `UPDATE accounts SET verify_status = $2, updated_at = NOW() WHERE id = $1`
	return r.exec(ctx, "update account status", query, id, status)
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.Account, error) {
	query := `UPDATE accounts
			  SET name = COALESCE($2, name),
			      bio = COALESCE($3, bio),
			      date_of_birth = COALESCE($4, date_of_birth),
			      updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRow(ctx, query, id, update.Name, update.Bio, update.DateOfBirth))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to update profile: %w", err)
	}
	return account, nil
}
