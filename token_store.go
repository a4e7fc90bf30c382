package goVerify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goVerify/internal"
)

var errTokenNotFound = errors.New("verification token not found")

// tokenStore owns the verification_tokens table. One live code per
// (subject, purpose) pair: Issue replaces transactionally, a consumed or
// replaced code never verifies again.
//
// Expected schema:
//
//	CREATE TABLE verification_tokens (
//	    subject_id TEXT        NOT NULL,
//	    code       TEXT        NOT NULL,
//	    purpose    TEXT        NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    expires_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX verification_tokens_code_idx ON verification_tokens (code);
//	CREATE INDEX verification_tokens_subject_idx ON verification_tokens (subject_id, purpose);
type tokenStore struct {
	db     *sql.DB
	ttl    time.Duration
	digits int
}

func newTokenStore(db *sql.DB, cfg TokenConfig) *tokenStore {
	return &tokenStore{
		db:     db,
		ttl:    cfg.TTL,
		digits: cfg.Digits,
	}
}

// Issue mints a fresh code for (subjectID, purpose) and deletes any prior
// code for the same pair in the same transaction, so the latest code is the
// only valid one even when the old one has time left.
func (s *tokenStore) Issue(ctx context.Context, subjectID string, purpose Purpose) (string, error) {
	code, err := internal.NewCode(s.digits)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM verification_tokens WHERE subject_id = $1 AND purpose = $2`,
		subjectID, purpose.String(),
	); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO verification_tokens (subject_id, code, purpose, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		subjectID, code, purpose.String(), now, now.Add(s.ttl),
	); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}

	return code, nil
}

// ResolveValid finds an unexpired token by code. Lookup is by code alone,
// matching how submissions arrive; with one live code per pair and a 60s
// window, cross-subject collisions stay negligible. The newest match wins
// if one ever occurs.
func (s *tokenStore) ResolveValid(ctx context.Context, code string) (Token, error) {
	var (
		tok     Token
		purpose string
	)

	row := s.db.QueryRowContext(ctx,
		`SELECT subject_id, code, purpose, created_at, expires_at
		 FROM verification_tokens
		 WHERE code = $1 AND expires_at > $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		code, time.Now().UTC(),
	)
	if err := row.Scan(&tok.SubjectID, &tok.Code, &purpose, &tok.CreatedAt, &tok.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Token{}, errTokenNotFound
		}
		return Token{}, fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}

	p, ok := ParsePurpose(purpose)
	if !ok {
		return Token{}, errTokenNotFound
	}
	tok.Purpose = p

	return tok, nil
}

// IsExpired reports whether the code matches a row that has already lapsed.
// It distinguishes "expired" from "never existed" for caller messaging and
// grants no access either way.
func (s *tokenStore) IsExpired(ctx context.Context, code string) (bool, error) {
	var expired bool

	row := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM verification_tokens WHERE code = $1 AND expires_at <= $2
		 )`,
		code, time.Now().UTC(),
	)
	if err := row.Scan(&expired); err != nil {
		return false, fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}

	return expired, nil
}

// Consume deletes the row for a verified code. Idempotent: deleting an
// already-absent code is not an error.
func (s *tokenStore) Consume(ctx context.Context, code string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM verification_tokens WHERE code = $1`, code,
	); err != nil {
		return fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	return nil
}

// SweepExpired deletes every lapsed row. Run opportunistically on the
// verification path; there is no background job.
func (s *tokenStore) SweepExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM verification_tokens WHERE expires_at <= $1`, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}
