package app

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"sortdojo/internal/engine"
	"sortdojo/internal/quiz"
	"sortdojo/internal/session"
	"sortdojo/internal/state"
	"sortdojo/internal/telemetry"
	"sortdojo/internal/ui"

	"github.com/google/uuid"
)

const (
	defaultStepDelay = 120 * time.Millisecond
	loopInterval     = 25 * time.Millisecond
)

type App struct {
	cfg Config

	logger *telemetry.JSONLogger
	store  *state.SQLiteStore
	bank   *quiz.Bank
	view   *ui.Root

	sessionID string
	seed      int64

	mu        sync.Mutex
	driver    *session.Driver
	settings  session.Settings
	startTime time.Time
	arrayLen  int
	recorded  bool
	quizShown bool
	stop      chan struct{}
}

func New(cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	level := telemetry.LevelInfo
	if cfg.Debug {
		level = telemetry.LevelDebug
	}
	logger, err := telemetry.NewJSONLogger(cfg.LogPath, level)
	if err != nil {
		return nil, err
	}

	store, err := state.NewSQLite(filepath.Join(cfg.DataDir, "state.db"))
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	if err := store.EnsureSchema(context.Background()); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	bank := quiz.Default()
	if cfg.QuizFile != "" {
		bank, err = quiz.Load(cfg.QuizFile)
		if err != nil {
			_ = store.Close()
			_ = logger.Close()
			return nil, err
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	view := ui.New(ui.Options{
		ASCIIOnly:    cfg.ASCIIOnly,
		Debug:        cfg.Debug,
		StyleVariant: cfg.UI.StyleVariant,
		MotionLevel:  cfg.UI.MotionLevel,
	})

	a := &App{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		bank:      bank,
		view:      view,
		sessionID: uuid.NewString(),
		seed:      seed,
		stop:      make(chan struct{}),
	}
	a.settings = a.loadSettings()
	if cfg.Teaching {
		a.settings.Teaching = true
	}
	view.SetController(a)
	view.SetMenuState(a.menuState())
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start", map[string]any{"session": a.sessionID, "seed": a.seed})

	if a.cfg.Algorithm != "" {
		kind, err := engine.ParseKind(a.cfg.Algorithm)
		if err != nil {
			return err
		}
		a.mu.Lock()
		err = a.startRun(kind)
		a.mu.Unlock()
		if err != nil {
			return err
		}
	} else {
		a.view.SetScreen(ui.ScreenMenu)
	}

	go a.loop(ctx)

	err := a.view.Run()
	close(a.stop)
	return err
}

func (a *App) Close() {
	a.mu.Lock()
	a.finishRun(false)
	a.mu.Unlock()
	_ = a.store.Close()
	_ = a.logger.Close()
}

// loop drives the engine between key presses. All stepping happens here or
// in Controller callbacks, never concurrently, so the engines stay free of
// internal locking.
func (a *App) loop(ctx context.Context) {
	ticker := time.NewTicker(loopInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			a.view.Stop()
			return
		case <-a.stop:
			return
		case now := <-ticker.C:
			a.mu.Lock()
			a.tick(now)
			a.mu.Unlock()
		}
	}
}

func (a *App) tick(now time.Time) {
	if a.driver == nil || a.driver.Exiting() {
		return
	}
	stepped := a.driver.Tick(now)
	snap := a.driver.Snapshot()
	if snap.QuizPending && !a.quizShown {
		a.showQuiz()
	}
	if snap.Completed && !a.recorded {
		a.finishRun(true)
		a.view.FlashStatus("Sorted!")
	}
	if stepped || snap.Completed {
		a.pushFrame(snap)
	}
}

func (a *App) startRun(kind engine.Kind) error {
	a.finishRun(false)

	values := dataset(a.cfg.Count, a.seed)
	drv, err := session.New(session.Config{
		Kind:   kind,
		Values: values,
		Settings: session.Settings{
			StepDelay: a.settings.StepDelay,
			Teaching:  a.settings.Teaching,
			Algorithm: kind,
		},
		Bank:       a.bank,
		Seed:       a.seed,
		Shuffle:    true,
		OnSettings: a.persistSettings,
	})
	if err != nil {
		return err
	}

	a.driver = drv
	a.settings.Algorithm = kind
	a.startTime = time.Now()
	a.arrayLen = len(values)
	a.recorded = false
	a.quizShown = false

	a.logger.Info("run.start", map[string]any{"algorithm": string(kind), "n": len(values)})
	snap := drv.Snapshot()
	a.view.SetQuizState(ui.QuizState{})
	a.view.SetVisualizerState(a.frameState(snap))
	a.view.SetScreen(ui.ScreenVisualizer)
	a.view.FlashStatus(kind.Title() + " ready. Space to play, s to step.")
	return nil
}

// finishRun records the active run exactly once, whether it completed or
// was abandoned.
func (a *App) finishRun(completed bool) {
	if a.driver == nil || a.recorded {
		return
	}
	a.recorded = true
	snap := a.driver.Snapshot()
	if snap.Completed {
		completed = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	duration := time.Since(a.startTime).Milliseconds()
	_, err := a.store.RecordRun(ctx, state.SortRun{
		SessionID:   a.sessionID,
		Algorithm:   string(snap.Kind),
		ArrayLen:    a.arrayLen,
		Comparisons: snap.Comparisons,
		Swaps:       snap.Swaps,
		Completed:   completed,
		QuizAsked:   snap.QuizAsked,
		QuizCorrect: snap.QuizCorrect,
		StartTS:     a.startTime.UTC(),
		DurationMS:  duration,
	})
	if err != nil {
		a.logger.Error("run.record_failed", map[string]any{"error": err.Error()})
	}
	err = a.store.UpsertAlgorithmStats(ctx, state.AlgorithmStatsUpdate{
		Algorithm:    string(snap.Kind),
		Finished:     completed,
		DurationMS:   duration,
		LastPlayedTS: time.Now().UTC(),
	})
	if err != nil {
		a.logger.Error("run.stats_failed", map[string]any{"error": err.Error()})
	}
	a.logger.Info("run.recorded", map[string]any{
		"algorithm":   string(snap.Kind),
		"completed":   completed,
		"comparisons": snap.Comparisons,
		"swaps":       snap.Swaps,
	})
}

func (a *App) showQuiz() {
	q, ok := a.driver.Question()
	if !ok {
		return
	}
	a.quizShown = true
	a.view.SetQuizState(ui.QuizState{
		Open:    true,
		Prompt:  q.Prompt,
		Options: append([]string(nil), q.Options...),
	})
}

func (a *App) pushFrame(snap session.Snapshot) {
	a.view.SetVisualizerState(a.frameState(snap))
	a.view.RequestDraw()
}

func (a *App) frameState(snap session.Snapshot) ui.VisualizerState {
	return ui.VisualizerState{
		Algorithm:   string(snap.Kind),
		Title:       snap.Title,
		Values:      snap.Values,
		States:      snap.States,
		Phase:       snap.Phase,
		Progress:    snap.Progress,
		Comparisons: snap.Comparisons,
		Swaps:       snap.Swaps,
		Running:     snap.Running,
		Paused:      snap.Paused,
		Completed:   snap.Completed,
		Teaching:    snap.Teaching,
		StepDelay:   snap.StepDelay,
		QuizAsked:   snap.QuizAsked,
		QuizCorrect: snap.QuizCorrect,
		StartedAt:   a.startTime,
	}
}

func (a *App) applyIntent(in session.Intent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.driver == nil {
		return
	}
	a.driver.Apply(in)
	snap := a.driver.Snapshot()
	if snap.QuizPending && !a.quizShown {
		a.showQuiz()
	}
	if snap.Completed && !a.recorded {
		a.finishRun(true)
		a.view.FlashStatus("Sorted!")
	}
	a.settings.StepDelay = snap.StepDelay
	a.settings.Teaching = snap.Teaching
	a.pushFrame(snap)
}

func (a *App) OnSelectAlgorithm(kind string) {
	parsed, err := engine.ParseKind(kind)
	if err != nil {
		a.view.FlashStatus("unknown algorithm: " + kind)
		return
	}
	a.mu.Lock()
	err = a.startRun(parsed)
	a.mu.Unlock()
	if err != nil {
		a.view.FlashStatus("start failed: " + err.Error())
	}
}

func (a *App) OnStartPause() { a.applyIntent(session.Intent{Kind: session.IntentStartPause}) }

func (a *App) OnSingleStep() { a.applyIntent(session.Intent{Kind: session.IntentSingleStep}) }

func (a *App) OnReset() {
	a.applyIntent(session.Intent{Kind: session.IntentReset})
	a.mu.Lock()
	a.quizShown = false
	a.recorded = false
	a.mu.Unlock()
	a.view.SetQuizState(ui.QuizState{})
	a.view.FlashStatus("Reset")
}

func (a *App) OnSpeedUp() { a.applyIntent(session.Intent{Kind: session.IntentSpeedUp}) }

func (a *App) OnSpeedDown() { a.applyIntent(session.Intent{Kind: session.IntentSpeedDown}) }

func (a *App) OnToggleTeaching() {
	a.applyIntent(session.Intent{Kind: session.IntentToggleTeaching})
}

func (a *App) OnAnswerQuiz(option int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.driver == nil {
		return
	}
	q, ok := a.driver.Question()
	if !ok {
		return
	}
	a.driver.Apply(session.Intent{Kind: session.IntentAnswerQuiz, Option: option})
	ans := a.driver.LastAnswer()
	if ans == nil || ans.Question.Prompt != q.Prompt {
		return
	}
	a.logger.Info("quiz.answered", map[string]any{"correct": ans.Correct, "chosen": ans.Chosen})
	a.view.SetQuizState(ui.QuizState{
		Open:          true,
		Prompt:        q.Prompt,
		Options:       append([]string(nil), q.Options...),
		Answered:      true,
		Correct:       ans.Correct,
		CorrectOption: q.Answer,
		ExplanationMD: q.ExplanationMD,
	})
	a.pushFrame(a.driver.Snapshot())
}

func (a *App) OnQuizDismiss() {
	a.mu.Lock()
	a.quizShown = false
	a.mu.Unlock()
	a.view.SetQuizState(ui.QuizState{})
	a.view.RequestDraw()
}

func (a *App) OnBackToMenu() {
	a.mu.Lock()
	a.finishRun(false)
	a.driver = nil
	a.quizShown = false
	a.mu.Unlock()
	a.view.SetQuizState(ui.QuizState{})
	a.view.SetMenuState(a.menuState())
	a.view.SetScreen(ui.ScreenMenu)
}

func (a *App) OnOpenStats() {
	summary, err := a.store.GetSummary(context.Background())
	if err != nil {
		a.view.SetInfo("Stats", "Failed to load stats: "+err.Error(), true)
		return
	}
	stats, _ := a.store.GetAlgorithmStatsMap(context.Background())

	var b strings.Builder
	fmt.Fprintf(&b, "Runs: %d (completed %d)\n", summary.Runs, summary.Completed)
	fmt.Fprintf(&b, "Comparisons: %d\n", summary.Comparisons)
	fmt.Fprintf(&b, "Swaps: %d\n", summary.Swaps)
	if summary.QuizAsked > 0 {
		fmt.Fprintf(&b, "Quiz: %d/%d correct\n", summary.QuizCorrect, summary.QuizAsked)
	}
	b.WriteString("\n")
	for _, kind := range engine.Kinds() {
		st, ok := stats[string(kind)]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %d finished, best %s\n", kind.Title(), st.RunsFinished, bestTimeLabel(st.BestTimeMS))
	}
	a.view.SetInfo("Stats", strings.TrimRight(b.String(), "\n"), true)
}

func (a *App) OnQuit() {
	a.mu.Lock()
	a.finishRun(false)
	if a.driver != nil {
		a.driver.Apply(session.Intent{Kind: session.IntentExit})
	} else {
		a.persistSettings(a.settings)
	}
	a.mu.Unlock()
	a.logger.Info("app.quit", map[string]any{"session": a.sessionID})
	a.view.Stop()
}

func (a *App) OnResize(cols, rows int) {
	if ui.DetermineLayoutMode(cols, rows) == ui.LayoutTooSmall {
		a.view.SetTooSmall(cols, rows)
	}
}

// persistSettings is the driver's OnSettings sink. It runs under a.mu
// because Apply is only ever called with the lock held.
func (a *App) persistSettings(s session.Settings) {
	a.settings = s
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.SaveSettings(ctx, settingsToStore(s)); err != nil {
		a.logger.Error("settings.save_failed", map[string]any{"error": err.Error()})
	}
}

func (a *App) loadSettings() session.Settings {
	defaults := session.Settings{StepDelay: defaultStepDelay}
	values, err := a.store.LoadSettings(context.Background())
	if err != nil {
		a.logger.Error("settings.load_failed", map[string]any{"error": err.Error()})
		return defaults
	}
	return settingsFromStore(values, defaults)
}

func settingsToStore(s session.Settings) map[string]string {
	return map[string]string{
		state.SettingStepDelayMS:   strconv.FormatInt(s.StepDelay.Milliseconds(), 10),
		state.SettingTeachingMode:  strconv.FormatBool(s.Teaching),
		state.SettingLastAlgorithm: string(s.Algorithm),
	}
}

func settingsFromStore(values map[string]string, defaults session.Settings) session.Settings {
	s := defaults
	if raw, ok := values[state.SettingStepDelayMS]; ok {
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms > 0 {
			s.StepDelay = time.Duration(ms) * time.Millisecond
		}
	}
	if raw, ok := values[state.SettingTeachingMode]; ok {
		if teaching, err := strconv.ParseBool(raw); err == nil {
			s.Teaching = teaching
		}
	}
	if raw, ok := values[state.SettingLastAlgorithm]; ok {
		if kind, err := engine.ParseKind(raw); err == nil {
			s.Algorithm = kind
		}
	}
	return s
}

func (a *App) menuState() ui.MenuState {
	summary, _ := a.store.GetSummary(context.Background())
	stats, _ := a.store.GetAlgorithmStatsMap(context.Background())

	kinds := engine.Kinds()
	algorithms := make([]ui.AlgorithmSummary, 0, len(kinds))
	for _, kind := range kinds {
		entry := ui.AlgorithmSummary{
			Kind:      string(kind),
			Title:     kind.Title(),
			SummaryMD: algorithmSummaryMD(kind),
		}
		if st, ok := stats[string(kind)]; ok {
			entry.RunsFinished = st.RunsFinished
			entry.BestTimeLabel = bestTimeLabel(st.BestTimeMS)
		}
		algorithms = append(algorithms, entry)
	}

	return ui.MenuState{
		Algorithms:    algorithms,
		LastAlgorithm: string(a.settings.Algorithm),
		Runs:          summary.Runs,
		Completed:     summary.Completed,
		QuizAsked:     summary.QuizAsked,
		QuizCorrect:   summary.QuizCorrect,
		Tip:           "Turn on teaching mode (t) to get quizzed mid-sort.",
	}
}

func algorithmSummaryMD(kind engine.Kind) string {
	switch kind {
	case engine.BubbleSort:
		return "Adjacent swaps bubble the largest value to the end of each pass.\n\n*O(n²)* comparisons, stable."
	case engine.InsertionSort:
		return "Grows a sorted prefix by shifting each new value into place.\n\n*O(n²)* worst case, stable, fast on nearly sorted input."
	case engine.MergeSort:
		return "Merges sorted runs of doubling size through a scratch buffer.\n\n*O(n log n)* always, stable, needs extra memory."
	case engine.QuickSort:
		return "Partitions around a pivot, then sorts each side.\n\n*O(n log n)* average, in place, not stable."
	default:
		return ""
	}
}

func bestTimeLabel(ms int64) string {
	if ms <= 0 {
		return "--"
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// dataset builds a seeded shuffle of 1..count so a fixed seed replays the
// exact same run.
func dataset(count int, seed int64) []uint {
	values := make([]uint, count)
	for i := range values {
		values[i] = uint(i + 1)
	}
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return values
}

var _ ui.Controller = (*App)(nil)
