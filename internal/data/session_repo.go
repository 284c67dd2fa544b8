package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/itimad/portal-api/internal/data/pgxutil"
	domainauth "github.com/itimad/portal-api/internal/domain/auth"
)

// SessionRepo is the relational session backend, the portal's default. The
// session body (including any pending CAPTCHA challenge) is stored as JSONB;
// id, user_id and expires_at are lifted into columns for lookups and reaping.
// Save is an upsert, so the last write wins.
type SessionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSessionRepo creates a new SessionRepo with real time provider.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewSessionRepoWithTimeProvider creates a new SessionRepo with a custom time provider (useful for tests).
func NewSessionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SessionRepo {
	return &SessionRepo{DB: db, timeProvider: tp}
}

func (r *SessionRepo) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if !sess.ExpiresAt.After(r.timeProvider.Now()) {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	var userID *string
	if sess.UserID != "" {
		userID = &sess.UserID
	}

	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO sessions (id, user_id, data, expires_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET user_id = EXCLUDED.user_id,
			    data = EXCLUDED.data,
			    expires_at = EXCLUDED.expires_at`,
			sess.ID, userID, data, sess.ExpiresAt.UTC(),
		)
		return err
	})
}

func (r *SessionRepo) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrSessionNotFound
	}

	var raw []byte
	var expiresAt time.Time
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT data, expires_at FROM sessions WHERE id = $1`, id,
		).Scan(&raw, &expiresAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domainauth.Session{}, ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}

	if r.timeProvider.Now().After(expiresAt) {
		if deleteErr := r.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ErrSessionNotFound
	}

	var sess domainauth.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
		return err
	})
}

// DeleteExpired removes sessions whose expiry has passed and reports how many
// rows went away. The reaper runs this on an interval.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx,
			`DELETE FROM sessions WHERE expires_at < $1`, r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		n = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return n, nil
}
