package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func TestSettingsRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if err := store.SaveSettings(ctx, map[string]string{
		SettingStepDelayMS:   "250",
		SettingTeachingMode:  "true",
		SettingLastAlgorithm: "quick",
	}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	// Overwrite one key, leave the rest alone.
	if err := store.SaveSettings(ctx, map[string]string{SettingStepDelayMS: "125"}); err != nil {
		t.Fatalf("save settings overwrite: %v", err)
	}

	got, err := store.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if got[SettingStepDelayMS] != "125" {
		t.Fatalf("expected step_delay_ms=125, got %q", got[SettingStepDelayMS])
	}
	if got[SettingTeachingMode] != "true" || got[SettingLastAlgorithm] != "quick" {
		t.Fatalf("unexpected settings: %v", got)
	}
}

func TestRecordRunSummaryAndLastRun(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	start := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	runs := []SortRun{
		{SessionID: "s1", Algorithm: "bubble", ArrayLen: 20, Comparisons: 190, Swaps: 95, Completed: true, StartTS: start, DurationMS: 9_000},
		{SessionID: "s2", Algorithm: "quick", ArrayLen: 20, Comparisons: 70, Swaps: 30, Completed: false, QuizAsked: 2, QuizCorrect: 1, StartTS: start.Add(time.Hour), DurationMS: 4_000},
	}
	for _, run := range runs {
		if _, err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("record run %s: %v", run.Algorithm, err)
		}
	}

	summary, err := store.GetSummary(ctx)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if summary.Runs != 2 || summary.Completed != 1 {
		t.Fatalf("summary runs/completed: %+v", summary)
	}
	if summary.Comparisons != 260 || summary.Swaps != 125 {
		t.Fatalf("summary counters: %+v", summary)
	}
	if summary.QuizAsked != 2 || summary.QuizCorrect != 1 {
		t.Fatalf("summary quiz tallies: %+v", summary)
	}

	last, err := store.GetLastRun(ctx)
	if err != nil {
		t.Fatalf("get last run: %v", err)
	}
	if last == nil {
		t.Fatalf("expected a last run")
	}
	if last.Algorithm != "quick" || last.Completed || last.ArrayLen != 20 {
		t.Fatalf("unexpected last run: %+v", last)
	}
	if !last.StartTS.Equal(start.Add(time.Hour)) {
		t.Fatalf("last run start_ts: %v", last.StartTS)
	}
}

func TestGetLastRunEmpty(t *testing.T) {
	store := newStore(t)
	last, err := store.GetLastRun(context.Background())
	if err != nil {
		t.Fatalf("get last run: %v", err)
	}
	if last != nil {
		t.Fatalf("expected nil last run, got %+v", last)
	}
}

func TestAlgorithmStatsUpsert(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	at := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	updates := []AlgorithmStatsUpdate{
		{Algorithm: "merge", Finished: true, DurationMS: 8_000, LastPlayedTS: at},
		{Algorithm: "merge", Finished: false, LastPlayedTS: at.Add(time.Hour)},
		{Algorithm: "merge", Finished: true, DurationMS: 5_000, LastPlayedTS: at.Add(2 * time.Hour)},
		// A slower finish must not displace the best time.
		{Algorithm: "merge", Finished: true, DurationMS: 12_000, LastPlayedTS: at.Add(3 * time.Hour)},
	}
	for i, u := range updates {
		if err := store.UpsertAlgorithmStats(ctx, u); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	stats, err := store.GetAlgorithmStatsMap(ctx)
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	m, ok := stats["merge"]
	if !ok {
		t.Fatalf("missing merge stats: %v", stats)
	}
	if m.RunsStarted != 4 || m.RunsFinished != 3 {
		t.Fatalf("runs started/finished: %+v", m)
	}
	if m.BestTimeMS != 5_000 {
		t.Fatalf("best time: %+v", m)
	}
	if !m.LastPlayedTS.Equal(at.Add(3 * time.Hour)) {
		t.Fatalf("last played: %+v", m)
	}
}
