// Package tokenstore owns the persisted bearer token and its issuance
// timestamp. The token lives in a local SQLite database together with the
// moment it was issued; it is considered valid for 24 hours after issuance
// and is treated as absent everywhere once that window has passed.
//
// Expiry is checked lazily at read time only. There is no background timer:
// a caller holding an already-fetched token may keep using it past the mark
// until the next read.
package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/uncovr/uncovr/internal/client/migrations"
	"github.com/uncovr/uncovr/internal/dbx"
)

// TokenValidity is the window during which a stored token is usable.
const TokenValidity = 24 * time.Hour

const (
	keyToken         = "auth_token"
	keyTokenIssuedAt = "auth_token_timestamp"
)

// ErrStorage signals that the underlying credential storage is unavailable.
// It is returned from Set only; reads normalize storage failures to an
// absent token instead.
var ErrStorage = errors.New("credential storage unavailable")

// Store reads and writes the credential entries. All methods are safe to
// call with an empty store.
type Store struct {
	db *sql.DB

	// nowFn is a test seam for the clock.
	nowFn func() time.Time
}

// Open opens (creating if needed) the client database at path, applies
// schema migrations, and returns a Store bound to it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return New(db), nil
}

// New wraps an already-open database. Used by Open and by tests.
func New(db *sql.DB) *Store {
	return &Store{db: db, nowFn: time.Now}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Set persists the token value together with the current timestamp as one
// logical unit. A failure leaves no half-written session behind: either both
// entries land or the transaction rolls back and the session is later read
// as absent.
func (s *Store) Set(ctx context.Context, value string) error {
	issuedAt := strconv.FormatInt(s.nowFn().UnixMilli(), 10)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyToken, value); err != nil {
			return err
		}
		return set(ctx, tx, keyTokenIssuedAt, issuedAt)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// Get returns the stored token if both the value and the issuance timestamp
// are present and the token is still inside its validity window. Stale or
// partial entries are deleted on the way out (self-healing), and internal
// storage errors are reported as an absent token.
func (s *Store) Get(ctx context.Context) (string, bool) {
	token, ok, err := get(ctx, s.db, keyToken)
	if err != nil {
		log.Printf("error reading token: %v", err)
		return "", false
	}
	issuedAtRaw, tsOK, err := get(ctx, s.db, keyTokenIssuedAt)
	if err != nil {
		log.Printf("error reading token timestamp: %v", err)
		return "", false
	}

	if !ok || !tsOK {
		if ok || tsOK {
			// One entry without the other is useless; drop the leftovers.
			s.Clear(ctx)
		}
		return "", false
	}

	issuedAt, err := strconv.ParseInt(issuedAtRaw, 10, 64)
	if err != nil {
		s.Clear(ctx)
		return "", false
	}

	age := s.nowFn().Sub(time.UnixMilli(issuedAt))
	if age > TokenValidity {
		s.Clear(ctx)
		return "", false
	}

	return token, true
}

// Clear deletes the token and its timestamp. It is idempotent and never
// fails outward: the goal is "no token locally", which holds either way.
func (s *Store) Clear(ctx context.Context) {
	for _, key := range []string{keyToken, keyTokenIssuedAt} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key); err != nil {
			log.Printf("error clearing credentials[%s]: %v", key, err)
		}
	}
}

func get(ctx context.Context, db dbx.DBTX, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}
	return value, true, nil
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}
