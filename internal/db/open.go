// Package db provides job, application, resume and user storage over PostgreSQL,
// SQLite or process memory.
package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Open returns a migrated Store for databaseURL. Supported schemes are
// postgres:// and postgresql:// (pgx), sqlite://<path> or sqlite://:memory:
// (modernc sqlite) and memory:// (process memory).
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		pg, err := ConnectPostgres(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		lite, err := OpenSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
		if err != nil {
			return nil, err
		}
		if err := lite.Migrate(ctx); err != nil {
			lite.Close()
			return nil, err
		}
		return lite, nil
	case databaseURL == "memory://":
		return NewMemoryDB(), nil
	default:
		return nil, fmt.Errorf("unsupported database url scheme: %q", redact(databaseURL))
	}
}

// redact hides everything after the scheme so credentials never reach logs.
func redact(databaseURL string) string {
	if i := strings.Index(databaseURL, "://"); i >= 0 {
		return databaseURL[:i+3] + "..."
	}
	return "..."
}

// timeLayout is a fixed-width UTC layout so text timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// likePattern wraps s for a substring LIKE match, escaping LIKE metacharacters with a backslash.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
