package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sort_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			array_len INTEGER NOT NULL,
			comparisons INTEGER NOT NULL DEFAULT 0,
			swaps INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			quiz_asked INTEGER NOT NULL DEFAULT 0,
			quiz_correct INTEGER NOT NULL DEFAULT 0,
			start_ts TEXT NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS algorithm_stats (
			algorithm TEXT PRIMARY KEY,
			runs_started INTEGER NOT NULL DEFAULT 0,
			runs_finished INTEGER NOT NULL DEFAULT 0,
			best_time_ms INTEGER NOT NULL DEFAULT 0,
			last_played_ts TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run SortRun) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sort_runs(session_id, algorithm, array_len, comparisons, swaps, completed, quiz_asked, quiz_correct, start_ts, duration_ms)
		VALUES(?,?,?,?,?,?,?,?,?,?)
	`,
		run.SessionID,
		strings.TrimSpace(run.Algorithm),
		run.ArrayLen,
		run.Comparisons,
		run.Swaps,
		ifThen(run.Completed, 1, 0),
		run.QuizAsked,
		run.QuizCorrect,
		run.StartTS.UTC().Format(timeLayout),
		max64(0, run.DurationMS),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpsertAlgorithmStats(ctx context.Context, update AlgorithmStatsUpdate) error {
	algorithm := strings.TrimSpace(update.Algorithm)
	if algorithm == "" {
		return nil
	}
	playTS := update.LastPlayedTS
	if playTS.IsZero() {
		playTS = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO algorithm_stats(algorithm, runs_started, runs_finished, best_time_ms, last_played_ts)
		VALUES(?, 1, ?, ?, ?)
		ON CONFLICT(algorithm) DO UPDATE SET
			runs_started = algorithm_stats.runs_started + 1,
			runs_finished = algorithm_stats.runs_finished + excluded.runs_finished,
			best_time_ms = CASE
				WHEN excluded.best_time_ms > 0 AND (algorithm_stats.best_time_ms = 0 OR excluded.best_time_ms < algorithm_stats.best_time_ms) THEN excluded.best_time_ms
				ELSE algorithm_stats.best_time_ms
			END,
			last_played_ts = excluded.last_played_ts
	`,
		algorithm,
		ifThen(update.Finished, 1, 0),
		ifThen64(update.Finished, max64(0, update.DurationMS), 0),
		playTS.UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLiteStore) GetAlgorithmStatsMap(ctx context.Context) (map[string]AlgorithmStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT algorithm, runs_started, runs_finished, best_time_ms, last_played_ts
		FROM algorithm_stats
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]AlgorithmStats{}
	for rows.Next() {
		var (
			stats      AlgorithmStats
			lastPlayed string
		)
		if err := rows.Scan(&stats.Algorithm, &stats.RunsStarted, &stats.RunsFinished, &stats.BestTimeMS, &lastPlayed); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, lastPlayed); err == nil {
			stats.LastPlayedTS = t
		}
		out[stats.Algorithm] = stats
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) SaveSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for key, value := range values {
		k := strings.TrimSpace(key)
		if k == "" {
			continue
		}
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO app_settings(key, value) VALUES(?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, k, value); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) LoadSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM app_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var out Summary
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as runs,
			COALESCE(SUM(completed),0) as completed,
			COALESCE(SUM(comparisons),0) as comparisons,
			COALESCE(SUM(swaps),0) as swaps,
			COALESCE(SUM(quiz_asked),0) as quiz_asked,
			COALESCE(SUM(quiz_correct),0) as quiz_correct
		FROM sort_runs
	`)
	if err := row.Scan(&out.Runs, &out.Completed, &out.Comparisons, &out.Swaps, &out.QuizAsked, &out.QuizCorrect); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *SQLiteStore) GetLastRun(ctx context.Context) (*LastRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT algorithm, array_len, comparisons, swaps, completed, start_ts, duration_ms
		FROM sort_runs
		ORDER BY id DESC
		LIMIT 1
	`)
	var (
		out        LastRun
		completed  int
		startTSRaw string
	)
	if err := row.Scan(&out.Algorithm, &out.ArrayLen, &out.Comparisons, &out.Swaps, &completed, &startTSRaw, &out.DurationMS); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	out.Completed = completed == 1
	if t, err := time.Parse(timeLayout, startTSRaw); err == nil {
		out.StartTS = t
	}
	return &out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}

func ifThen64(cond bool, yes, no int64) int64 {
	if cond {
		return yes
	}
	return no
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
