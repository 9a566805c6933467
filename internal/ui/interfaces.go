package ui

import (
	"time"

	"sortdojo/internal/engine"
)

type Controller interface {
	OnSelectAlgorithm(kind string)
	OnStartPause()
	OnSingleStep()
	OnReset()
	OnSpeedUp()
	OnSpeedDown()
	OnToggleTeaching()
	OnAnswerQuiz(option int)
	OnQuizDismiss()
	OnBackToMenu()
	OnOpenStats()
	OnQuit()
	OnResize(cols, rows int)
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetScreen(screen Screen)
	SetMenuState(state MenuState)
	SetVisualizerState(state VisualizerState)
	SetQuizState(state QuizState)
	SetInfo(title, text string, open bool)
	SetTooSmall(cols, rows int)
	FlashStatus(msg string)
}

type Screen int

const (
	ScreenMenu Screen = iota
	ScreenVisualizer
)

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutMedium
	LayoutTooSmall
)

// VisualizerState is the frame snapshot the renderer consumes. The view
// never mutates it; a fresh copy arrives after every engine step.
type VisualizerState struct {
	Algorithm string
	Title     string

	Values []uint
	States []engine.ElementState

	Phase    string
	Progress float64

	Comparisons int
	Swaps       int

	Running   bool
	Paused    bool
	Completed bool
	Teaching  bool
	StepDelay time.Duration

	QuizAsked   int
	QuizCorrect int

	StartedAt time.Time
	// ElapsedLabel overrides live timer rendering when set (used by deterministic demos).
	ElapsedLabel string
}

// QuizState drives the question overlay. Before an answer only Prompt and
// Options are set; after grading the explanation is shown until dismissed.
type QuizState struct {
	Open    bool
	Prompt  string
	Options []string

	Answered      bool
	Correct       bool
	CorrectOption int
	ExplanationMD string
}

type MenuState struct {
	Algorithms    []AlgorithmSummary
	LastAlgorithm string

	Runs        int
	Completed   int
	QuizAsked   int
	QuizCorrect int
	Tip         string
}

type AlgorithmSummary struct {
	Kind          string
	Title         string
	SummaryMD     string
	BestTimeLabel string
	RunsFinished  int
}
