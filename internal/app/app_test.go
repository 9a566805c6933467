package app

import (
	"context"
	"testing"
	"time"

	"sortdojo/internal/engine"
	"sortdojo/internal/session"
	"sortdojo/internal/state"
)

func newAppForTest(t *testing.T, cfg Config) *App {
	t.Helper()
	cfg.DataDir = t.TempDir()
	if cfg.Count == 0 {
		cfg.Count = 4
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() {
		_ = a.store.Close()
		_ = a.logger.Close()
	})
	return a
}

// drain drives the loop body with a synthetic clock until the active run
// completes.
func drain(t *testing.T, a *App) {
	t.Helper()
	now := time.Now()
	for i := 0; i < 20000; i++ {
		now = now.Add(loopInterval)
		a.mu.Lock()
		a.tick(now)
		done := a.driver.Snapshot().Completed
		a.mu.Unlock()
		if done {
			return
		}
	}
	t.Fatalf("run did not complete")
}

func TestDatasetIsSeededPermutation(t *testing.T) {
	v1 := dataset(16, 7)
	v2 := dataset(16, 7)
	if len(v1) != 16 {
		t.Fatalf("expected 16 values, got %d", len(v1))
	}
	seen := map[uint]bool{}
	for i, v := range v1 {
		if v < 1 || v > 16 || seen[v] {
			t.Fatalf("value %d at %d is not part of a permutation of 1..16", v, i)
		}
		seen[v] = true
		if v2[i] != v {
			t.Fatalf("same seed produced different order at %d: %d vs %d", i, v, v2[i])
		}
	}
	if v3 := dataset(16, 8); v3[0] == v1[0] && v3[1] == v1[1] && v3[2] == v1[2] && v3[3] == v1[3] {
		t.Fatalf("different seeds should not share a prefix this long")
	}
}

func TestSettingsStoreRoundTrip(t *testing.T) {
	in := session.Settings{
		StepDelay: 275 * time.Millisecond,
		Teaching:  true,
		Algorithm: engine.MergeSort,
	}
	out := settingsFromStore(settingsToStore(in), session.Settings{StepDelay: defaultStepDelay})
	if out != in {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestSettingsFromStoreIgnoresGarbage(t *testing.T) {
	defaults := session.Settings{StepDelay: defaultStepDelay}
	out := settingsFromStore(map[string]string{
		state.SettingStepDelayMS:   "not-a-number",
		state.SettingTeachingMode:  "maybe",
		state.SettingLastAlgorithm: "bogo",
	}, defaults)
	if out != defaults {
		t.Fatalf("garbage values should leave defaults intact, got %+v", out)
	}
}

func TestRunRecordedOnCompletion(t *testing.T) {
	a := newAppForTest(t, DefaultConfig())

	a.OnSelectAlgorithm("bubble")
	a.mu.Lock()
	hasDriver := a.driver != nil
	a.mu.Unlock()
	if !hasDriver {
		t.Fatalf("expected an active driver after selecting an algorithm")
	}

	a.OnStartPause()
	drain(t, a)

	a.mu.Lock()
	recorded := a.recorded
	a.mu.Unlock()
	if !recorded {
		t.Fatalf("expected completed run to be recorded")
	}

	summary, err := a.store.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if summary.Runs != 1 || summary.Completed != 1 {
		t.Fatalf("expected 1 completed run, got %+v", summary)
	}
	if summary.Comparisons == 0 {
		t.Fatalf("expected comparisons to be recorded")
	}

	stats, err := a.store.GetAlgorithmStatsMap(context.Background())
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if st := stats["bubble"]; st.RunsFinished != 1 || st.BestTimeMS <= 0 {
		t.Fatalf("unexpected bubble stats: %+v", st)
	}
}

func TestBackToMenuRecordsAbandonedRun(t *testing.T) {
	a := newAppForTest(t, DefaultConfig())

	a.OnSelectAlgorithm("insertion")
	a.OnStartPause()
	a.OnBackToMenu()

	a.mu.Lock()
	cleared := a.driver == nil
	a.mu.Unlock()
	if !cleared {
		t.Fatalf("expected driver to be cleared after back-to-menu")
	}

	summary, err := a.store.GetSummary(context.Background())
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if summary.Runs != 1 || summary.Completed != 0 {
		t.Fatalf("expected 1 abandoned run, got %+v", summary)
	}
}

func TestSpeedChangePersistsSettings(t *testing.T) {
	a := newAppForTest(t, DefaultConfig())

	a.OnSelectAlgorithm("quick")
	a.OnSpeedDown()

	values, err := a.store.LoadSettings(context.Background())
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if values[state.SettingLastAlgorithm] != "quick" {
		t.Fatalf("expected last_algorithm=quick, got %q", values[state.SettingLastAlgorithm])
	}
	if got := values[state.SettingStepDelayMS]; got != "145" {
		t.Fatalf("expected step_delay_ms=145, got %q", got)
	}
}

func TestTeachingFlagOverridesStoredSetting(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Teaching = true
	a := newAppForTest(t, cfg)
	if !a.settings.Teaching {
		t.Fatalf("expected teaching mode on from config flag")
	}
}

func TestAlgorithmSummariesCoverEveryKind(t *testing.T) {
	for _, kind := range engine.Kinds() {
		if algorithmSummaryMD(kind) == "" {
			t.Fatalf("missing summary for %s", kind)
		}
	}
}

func TestBestTimeLabel(t *testing.T) {
	if got := bestTimeLabel(0); got != "--" {
		t.Fatalf("expected placeholder for zero, got %q", got)
	}
	if got := bestTimeLabel(4200); got != "4.2s" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := bestTimeLabel(83_000); got != "1m23s" {
		t.Fatalf("unexpected label: %q", got)
	}
}
