package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// TokenRepo persists and validates refresh tokens. Tokens are stored
// as SHA-256 hashes. Rotation never overwrites a row: the presented
// token is marked consumed and a new row is inserted in the same
// transaction, so every value a session ever used stays on record.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a refresh token hash row for an account.
func (r *TokenRepo) Store(ctx context.Context, accountID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (account_id, token_hash, expires_at) VALUES (?,?,?)",
		accountID, tokenHash, exp)
	return err
}

// Validate returns the owning account id if an unconsumed, unexpired
// token with the given hash exists. Consumed and expired tokens are
// indistinguishable from unknown ones to the caller.
func (r *TokenRepo) Validate(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		accountID  uint64
		expiresAt  time.Time
		consumedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT account_id, expires_at, consumed_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&accountID, &expiresAt, &consumedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if consumedAt.Valid {
		return 0, ErrNotFound
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, ErrNotFound
	}
	return accountID, nil
}

// Rotate atomically consumes the old token and inserts the new one.
// The old hash stops validating the instant the transaction commits;
// if the presented token was already consumed or expired the rotation
// fails with ErrNotFound and nothing changes.
func (r *TokenRepo) Rotate(ctx context.Context, oldHash, newHash string, accountID uint64, exp time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"UPDATE refresh_tokens SET consumed_at=NOW() WHERE token_hash=? AND consumed_at IS NULL AND expires_at > NOW()",
		oldHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (account_id, token_hash, expires_at) VALUES (?,?,?)",
		accountID, newHash, exp); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// RevokeAllForAccount consumes every active token of an account,
// logging it out of all sessions.
func (r *TokenRepo) RevokeAllForAccount(ctx context.Context, accountID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET consumed_at=NOW() WHERE account_id=? AND consumed_at IS NULL",
		accountID)
	return err
}
