package state

import (
	"context"
	"time"
)

type Store interface {
	EnsureSchema(ctx context.Context) error
	RecordRun(ctx context.Context, run SortRun) (int64, error)
	UpsertAlgorithmStats(ctx context.Context, update AlgorithmStatsUpdate) error
	GetAlgorithmStatsMap(ctx context.Context) (map[string]AlgorithmStats, error)
	SaveSettings(ctx context.Context, values map[string]string) error
	LoadSettings(ctx context.Context) (map[string]string, error)
	GetSummary(ctx context.Context) (Summary, error)
	GetLastRun(ctx context.Context) (*LastRun, error)
	Close() error
}

// Settings keys persisted through the app_settings table.
const (
	SettingStepDelayMS   = "step_delay_ms"
	SettingTeachingMode  = "teaching_mode"
	SettingLastAlgorithm = "last_algorithm"
)

// SortRun is one visualization session of a single algorithm, recorded when
// the run completes or is abandoned.
type SortRun struct {
	SessionID   string
	Algorithm   string
	ArrayLen    int
	Comparisons int
	Swaps       int
	Completed   bool
	QuizAsked   int
	QuizCorrect int
	StartTS     time.Time
	DurationMS  int64
}

type Summary struct {
	Runs        int
	Completed   int
	Comparisons int
	Swaps       int
	QuizAsked   int
	QuizCorrect int
}

type LastRun struct {
	Algorithm   string
	ArrayLen    int
	Comparisons int
	Swaps       int
	Completed   bool
	StartTS     time.Time
	DurationMS  int64
}

type AlgorithmStats struct {
	Algorithm    string
	RunsStarted  int
	RunsFinished int
	BestTimeMS   int64
	LastPlayedTS time.Time
}

type AlgorithmStatsUpdate struct {
	Algorithm    string
	Finished     bool
	DurationMS   int64
	LastPlayedTS time.Time
}
