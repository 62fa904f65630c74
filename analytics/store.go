package analytics

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout keeps timestamps lexically ordered in SQLite.
const timeLayout = "2006-01-02T15:04:05Z"

// Store provides database operations for analytics.
type Store struct {
	db   *sql.DB
	salt string
}

// NewStore opens the analytics database and loads (or creates) the
// per-installation salt used for IP hashing.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create analytics dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := s.initSalt(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			visitor_id TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			browser TEXT NOT NULL,
			os TEXT NOT NULL,
			device TEXT NOT NULL,
			path TEXT NOT NULL,
			referrer TEXT NOT NULL DEFAULT '',
			screen_size TEXT NOT NULL DEFAULT '',
			lang TEXT NOT NULL DEFAULT '',
			timestamp TEXT NOT NULL,
			duration_sec INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS bot_visits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bot_name TEXT NOT NULL,
			ip_hash TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			path TEXT NOT NULL,
			timestamp TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);
		CREATE INDEX IF NOT EXISTS idx_visits_visitor_path ON visits(visitor_id, path);
		CREATE INDEX IF NOT EXISTS idx_bot_visits_timestamp ON bot_visits(timestamp);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

func (s *Store) initSalt() error {
	salt, err := s.GetSetting("hash_salt")
	if err != nil {
		return fmt.Errorf("read hash salt: %w", err)
	}
	if salt == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
		salt = hex.EncodeToString(b)
		if err := s.SetSetting("hash_salt", salt); err != nil {
			return fmt.Errorf("store hash salt: %w", err)
		}
	}
	s.salt = salt
	return nil
}

// HashIP returns the salted hash stored instead of the raw IP.
func (s *Store) HashIP(ip string) string {
	return saltedHash(s.salt, ip)
}

// VisitorID derives an anonymous visitor id from IP and User-Agent.
func (s *Store) VisitorID(ip, userAgent string) string {
	return saltedHash(s.salt, ip, userAgent)
}

// GetSetting retrieves a setting value by key. Returns empty string if not found.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// SaveVisit stores a new visit.
func (s *Store) SaveVisit(ctx context.Context, v *Visit) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO visits (visitor_id, ip_hash, browser, os, device, path, referrer, screen_size, lang, timestamp, duration_sec) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VisitorID, v.IPHash, v.Browser, v.OS, v.Device, v.Path, v.Referrer, v.ScreenSize, v.Lang, v.Timestamp.UTC().Format(timeLayout), v.DurationSec)
	return err
}

// UpdateVisitDuration sets the duration of the most recent visit for a visitor+path.
func (s *Store) UpdateVisitDuration(ctx context.Context, visitorID, path string, durationSec int) error {
	_, err := s.db.ExecContext(ctx, `UPDATE visits SET duration_sec = ? WHERE id = (SELECT id FROM visits WHERE visitor_id = ? AND path = ? ORDER BY id DESC LIMIT 1)`,
		durationSec, visitorID, path)
	return err
}

// SaveBotVisit stores a new bot visit.
func (s *Store) SaveBotVisit(ctx context.Context, bv *BotVisit) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO bot_visits (bot_name, ip_hash, user_agent, path, timestamp) VALUES (?, ?, ?, ?, ?)`,
		bv.BotName, bv.IPHash, bv.UserAgent, bv.Path, bv.Timestamp.UTC().Format(timeLayout))
	return err
}

// Summary aggregates visits in [from, to).
func (s *Store) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	lo, hi := from.UTC().Format(timeLayout), to.UTC().Format(timeLayout)
	sum := &Summary{
		Period:       from.UTC().Format("2006-01-02") + " to " + to.UTC().Format("2006-01-02"),
		TopPages:     []PageStat{},
		TopReferrers: []DimensionStat{},
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(DISTINCT visitor_id) FROM visits WHERE timestamp >= ? AND timestamp < ?`, lo, hi).
		Scan(&sum.TotalViews, &sum.UniqueVisitors); err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bot_visits WHERE timestamp >= ? AND timestamp < ?`, lo, hi).
		Scan(&sum.BotVisits); err != nil {
		return nil, fmt.Errorf("count bot visits: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT path, COUNT(*) AS c FROM visits WHERE timestamp >= ? AND timestamp < ? GROUP BY path ORDER BY c DESC, path LIMIT 10`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}
	for rows.Next() {
		var ps PageStat
		if err := rows.Scan(&ps.Path, &ps.Views); err != nil {
			rows.Close()
			return nil, err
		}
		sum.TopPages = append(sum.TopPages, ps)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT referrer, COUNT(*) AS c FROM visits WHERE timestamp >= ? AND timestamp < ? GROUP BY referrer ORDER BY c DESC, referrer LIMIT 10`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("top referrers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ds DimensionStat
		if err := rows.Scan(&ds.Name, &ds.Count); err != nil {
			return nil, err
		}
		sum.TopReferrers = append(sum.TopReferrers, ds)
	}
	return sum, rows.Err()
}

// CleanupOldVisits removes visits and bot visits older than the retention period.
func (s *Store) CleanupOldVisits(ctx context.Context, retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(timeLayout)
	if _, err := s.db.ExecContext(ctx, `DELETE FROM visits WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup visits: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM bot_visits WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup bot_visits: %w", err)
	}
	return nil
}

// StartCleanupScheduler runs periodic cleanup of old data. Returns a stop function.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.CleanupOldVisits(context.Background(), retentionDays); err != nil {
					log.Printf("analytics: %v", err)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
