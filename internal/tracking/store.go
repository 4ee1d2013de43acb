// Package tracking is a privacy-conscious visit log: client IPs are stored
// only as salted, truncated hashes and old rows are purged.
package tracking

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Retention is how long visit rows are kept.
const Retention = 365 * 24 * time.Hour

// timeLayout matches SQLite's datetime() text so rows compare lexically.
const timeLayout = "2006-01-02 15:04:05"

// Store records visits in SQLite.
type Store struct {
	db     *sql.DB
	salt   string
	logger *slog.Logger
	now    func() time.Time
}

// Stats summarises the visit log.
type Stats struct {
	TotalVisitors    int64         `json:"total_visitors"`
	UniqueVisitors   int64         `json:"unique_visitors"`
	VisitorsToday    int64         `json:"visitors_today"`
	VisitorsThisWeek int64         `json:"visitors_this_week"`
	TopProjects      []ProjectStat `json:"top_projects"`
}

// ProjectStat counts detail-view opens for one project.
type ProjectStat struct {
	Slug    string `json:"slug"`
	Views   int64  `json:"views"`
	Uniques int64  `json:"uniques"`
}

// Open opens (or creates) the database at path and runs migrations. An
// empty salt gets a random one, so hashes are only stable per process.
func Open(path, salt string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open tracking db: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY under load.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if salt == "" {
		salt, err = RandomSecret()
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, salt: salt, logger: logger, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RandomSecret returns 32 random bytes, hex encoded.
func RandomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashIP hashes an address with the store's salt. The same IP always maps
// to the same value for a given salt.
func (s *Store) HashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(ip + s.salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (s *Store) stamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// RecordVisit stores one page view.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, s.HashIP(ip), userAgent, path, s.stamp(s.now()))
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordProjectView stores one opening of a project's detail view.
func (s *Store) RecordProjectView(ctx context.Context, ip, slug string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_views (hashed_ip, slug, timestamp)
		VALUES (?, ?, ?)
	`, s.HashIP(ip), slug, s.stamp(s.now()))
	if err != nil {
		return fmt.Errorf("record project view: %w", err)
	}
	return nil
}

// Cleanup deletes rows older than Retention and returns how many went.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	cutoff := s.stamp(s.now().Add(-Retention))

	var total int64
	for _, table := range []string{"visitors", "project_views"} {
		res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE timestamp < ?", cutoff)
		if err != nil {
			return total, fmt.Errorf("cleanup %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}

	if total > 0 {
		s.logger.Info("privacy cleanup removed old visit records", "rows", total)
	}
	return total, nil
}

// Stats computes the summary.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	now := s.now().UTC()
	today := s.stamp(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	weekAgo := s.stamp(now.Add(-7 * 24 * time.Hour))

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, "SELECT COUNT(*) FROM visitors", nil},
		{&stats.UniqueVisitors, "SELECT COUNT(DISTINCT hashed_ip) FROM visitors", nil},
		{&stats.VisitorsToday, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{today}},
		{&stats.VisitorsThisWeek, "SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{weekAgo}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, COUNT(*) AS views, COUNT(DISTINCT hashed_ip) AS uniques
		FROM project_views
		GROUP BY slug
		ORDER BY views DESC, slug ASC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p ProjectStat
		if err := rows.Scan(&p.Slug, &p.Views, &p.Uniques); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
		stats.TopProjects = append(stats.TopProjects, p)
	}
	return stats, rows.Err()
}
