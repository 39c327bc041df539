// Package episodedb keeps a queryable index of finished episodes in a
// local SQLite file. Writes go through a single writer goroutine so the
// serving path never blocks on disk.
package episodedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type Episode struct {
	ID               int64     `json:"id"`
	SessionID        string    `json:"session_id"`
	Episode          uint64    `json:"episode"`
	Seed             int64     `json:"seed"`
	Steps            uint64    `json:"steps"`
	AveragePollution float64   `json:"average_pollution"`
	TotalMoney       float64   `json:"total_money"`
	FlowersHarvested int       `json:"flowers_harvested"`
	EndedAt          time.Time `json:"ended_at"`
}

type Store struct {
	db *sql.DB

	ch   chan Episode
	wg   sync.WaitGroup
	once sync.Once
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db: db,
		ch: make(chan Episode, 1024),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			episode INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			avg_pollution REAL NOT NULL,
			total_money REAL NOT NULL,
			flowers_harvested INTEGER NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_session ON episodes(session_id, episode);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loop() {
	for ep := range s.ch {
		_, _ = s.db.Exec(
			`INSERT INTO episodes
			 (session_id, episode, seed, steps, avg_pollution, total_money, flowers_harvested, ended_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ep.SessionID, ep.Episode, ep.Seed, ep.Steps,
			ep.AveragePollution, ep.TotalMoney, ep.FlowersHarvested,
			ep.EndedAt.UTC().Format(time.RFC3339),
		)
	}
}

// Record queues one episode for insertion. A full queue drops the record
// rather than stalling the session.
func (s *Store) Record(ep Episode) error {
	select {
	case s.ch <- ep:
		return nil
	default:
		return fmt.Errorf("episodedb: queue full")
	}
}

// Episodes returns the most recent episodes, newest first.
func (s *Store) Episodes(ctx context.Context, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, episode, seed, steps, avg_pollution, total_money, flowers_harvested, ended_at
		 FROM episodes ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Episode
	for rows.Next() {
		var ep Episode
		var endedAt string
		if err := rows.Scan(&ep.ID, &ep.SessionID, &ep.Episode, &ep.Seed, &ep.Steps,
			&ep.AveragePollution, &ep.TotalMoney, &ep.FlowersHarvested, &endedAt); err != nil {
			return nil, err
		}
		ep.EndedAt, _ = time.Parse(time.RFC3339, endedAt)
		out = append(out, ep)
	}
	return out, rows.Err()
}

// Close drains the queue and closes the database.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}
