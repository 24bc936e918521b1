package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/maple-planner/internal/domain"
)

// AuthSessionRepo stores refresh-token sessions.
type AuthSessionRepo interface {
	Create(ctx context.Context, s domain.AuthSession) (domain.AuthSession, error)

	// GetByID is used to check that an access token's session is still live.
	GetByID(ctx context.Context, id uuid.UUID) (domain.AuthSession, error)

	// GetByTokenHash finds the session a refresh token belongs to.
	GetByTokenHash(ctx context.Context, hash string) (domain.AuthSession, error)

	// Revoke marks a session as revoked. Revoking an already revoked or
	// unknown session returns domain.ErrNotFound.
	Revoke(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes sessions that expired or were revoked before cutoff
	// and returns how many rows were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgAuthSessionRepo struct {
	db db
}

// NewAuthSessionRepo constructs an AuthSessionRepo backed by the provided db connection.
func NewAuthSessionRepo(db db) AuthSessionRepo {
	return &pgAuthSessionRepo{db: db}
}

const sessionColumns = `id, user_id, refresh_token_hash, expires_at, revoked_at, created_at`

func (r *pgAuthSessionRepo) Create(ctx context.Context, s domain.AuthSession) (domain.AuthSession, error) {
	q := `
		INSERT INTO auth_sessions (user_id, refresh_token_hash, expires_at)
		VALUES (@user_id, @refresh_token_hash, @expires_at)
		RETURNING ` + sessionColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"user_id":            s.UserID,
		"refresh_token_hash": s.RefreshTokenHash,
		"expires_at":         s.ExpiresAt,
	})
	result, err := scanAuthSession(row)
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("repo.AuthSessionRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgAuthSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.AuthSession, error) {
	q := `SELECT ` + sessionColumns + ` FROM auth_sessions WHERE id = @id`

	result, err := scanAuthSession(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("repo.AuthSessionRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgAuthSessionRepo) GetByTokenHash(ctx context.Context, hash string) (domain.AuthSession, error) {
	q := `SELECT ` + sessionColumns + ` FROM auth_sessions WHERE refresh_token_hash = @hash`

	result, err := scanAuthSession(r.db.QueryRow(ctx, q, pgx.NamedArgs{"hash": hash}))
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("repo.AuthSessionRepo.GetByTokenHash: %w", err)
	}
	return result, nil
}

func (r *pgAuthSessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE auth_sessions SET revoked_at = now() WHERE id = @id AND revoked_at IS NULL`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.AuthSessionRepo.Revoke: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AuthSessionRepo.Revoke: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgAuthSessionRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
		DELETE FROM auth_sessions
		WHERE expires_at < @cutoff
		   OR (revoked_at IS NOT NULL AND revoked_at < @cutoff)`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"cutoff": cutoff})
	if err != nil {
		return 0, fmt.Errorf("repo.AuthSessionRepo.DeleteExpired: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAuthSession(s scanner) (domain.AuthSession, error) {
	var (
		a         domain.AuthSession
		id        pgtype.UUID
		userID    pgtype.UUID
		revokedAt pgtype.Timestamptz
	)
	err := s.Scan(&id, &userID, &a.RefreshTokenHash, &a.ExpiresAt, &revokedAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AuthSession{}, domain.ErrNotFound
		}
		return domain.AuthSession{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.UserID = uuid.UUID(userID.Bytes)
	if revokedAt.Valid {
		t := revokedAt.Time
		a.RevokedAt = &t
	}
	return a, nil
}
