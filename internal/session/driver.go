package session

import (
	"fmt"
	"time"

	"sortdojo/internal/engine"
	"sortdojo/internal/quiz"
)

// IntentKind enumerates the discrete inputs a driver accepts. Intents that
// do not apply in the current phase are silently ignored.
type IntentKind int

const (
	IntentStartPause IntentKind = iota
	IntentReset
	IntentSingleStep
	IntentSpeedUp
	IntentSpeedDown
	IntentToggleTeaching
	IntentAnswerQuiz
	IntentExit
)

type Intent struct {
	Kind IntentKind
	// Option is the selected answer for IntentAnswerQuiz.
	Option int
}

// Settings is the persisted slice of control state. The driver reads it at
// construction and emits a fresh copy on every change and on exit.
type Settings struct {
	StepDelay time.Duration
	Teaching  bool
	Algorithm engine.Kind
}

type Config struct {
	Kind   engine.Kind
	Values []uint

	Settings Settings

	// Bank defaults to the built-in quicksort bank when nil.
	Bank *quiz.Bank
	// Seed fixes the question order for the whole session.
	Seed    int64
	Shuffle bool

	// OnSettings receives the updated settings after speed changes,
	// teaching toggles, and exit. May be nil.
	OnSettings func(Settings)
}

// Answer records the outcome of the most recent quiz response so the view
// can show the explanation.
type Answer struct {
	Question quiz.Question
	Chosen   int
	Correct  bool
}

// Driver hosts one engine run: it owns the running/paused flags, decides
// when the engine may advance, and blocks progress while a question is on
// screen.
type Driver struct {
	kind engine.Kind
	ctrl *engine.Control
	eng  engine.Engine

	bank  *quiz.Bank
	order []int

	onSettings func(Settings)

	lastStep   time.Time
	quizAsked  int
	quizRight  int
	lastAnswer *Answer
	exiting    bool
}

const speedStep = 25 * time.Millisecond

func New(cfg Config) (*Driver, error) {
	bank := cfg.Bank
	if bank == nil {
		bank = quiz.Default()
	}

	ctrl := engine.NewControl(engine.ClampDelay(cfg.Kind, cfg.Settings.StepDelay))
	ctrl.Teaching = cfg.Settings.Teaching

	eng, err := engine.New(cfg.Kind, cfg.Values, ctrl, engine.Options{Questions: bank.Len()})
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	return &Driver{
		kind:       cfg.Kind,
		ctrl:       ctrl,
		eng:        eng,
		bank:       bank,
		order:      bank.Order(cfg.Seed, cfg.Shuffle),
		onSettings: cfg.OnSettings,
	}, nil
}

// Apply mutates control state for one intent. Invalid intents for the
// current phase are no-ops.
func (d *Driver) Apply(in Intent) {
	switch in.Kind {
	case IntentStartPause:
		if d.ctrl.Completed {
			return
		}
		if !d.ctrl.Running {
			d.ctrl.Running = true
			d.ctrl.Paused = false
			d.lastStep = time.Time{}
			return
		}
		d.ctrl.Paused = !d.ctrl.Paused

	case IntentReset:
		d.eng.Reset()
		d.ctrl.Running = false
		d.ctrl.Paused = false
		d.lastStep = time.Time{}
		d.quizAsked = 0
		d.quizRight = 0
		d.lastAnswer = nil

	case IntentSingleStep:
		if d.autoAdvancing() || d.ctrl.Completed || d.ctrl.QuizPending() {
			return
		}
		d.stepOnce()

	case IntentSpeedUp:
		d.setDelay(d.ctrl.StepDelay - speedStep)

	case IntentSpeedDown:
		d.setDelay(d.ctrl.StepDelay + speedStep)

	case IntentToggleTeaching:
		d.ctrl.Teaching = !d.ctrl.Teaching
		d.emitSettings()

	case IntentAnswerQuiz:
		if !d.ctrl.QuizPending() {
			return
		}
		q := d.bank.At(d.order[d.ctrl.PendingQuestion])
		if in.Option < 0 || in.Option >= len(q.Options) {
			return
		}
		d.quizAsked++
		correct := in.Option == q.Answer
		if correct {
			d.quizRight++
		}
		d.lastAnswer = &Answer{Question: q, Chosen: in.Option, Correct: correct}
		d.ctrl.PendingQuestion = -1
		d.lastStep = time.Time{}

	case IntentExit:
		d.exiting = true
		d.emitSettings()
	}
}

// Tick advances the engine by at most one step. It reports whether a step
// ran so the caller knows a fresh frame is worth drawing.
func (d *Driver) Tick(now time.Time) bool {
	if d.exiting || d.ctrl.Completed {
		return false
	}
	if d.ctrl.QuizPending() || !d.autoAdvancing() {
		// Hold the delay countdown so answering or resuming does not
		// fire an immediate catch-up step.
		d.lastStep = now
		return false
	}
	if !d.lastStep.IsZero() && now.Sub(d.lastStep) < d.ctrl.StepDelay {
		return false
	}
	d.lastStep = now
	d.stepOnce()
	return true
}

func (d *Driver) autoAdvancing() bool {
	return d.ctrl.Running && !d.ctrl.Paused
}

func (d *Driver) stepOnce() {
	d.eng.Step()
	if d.ctrl.Completed {
		d.ctrl.Running = false
		d.ctrl.Paused = false
	}
}

func (d *Driver) setDelay(want time.Duration) {
	clamped := engine.ClampDelay(d.kind, want)
	if clamped == d.ctrl.StepDelay {
		return
	}
	d.ctrl.StepDelay = clamped
	d.emitSettings()
}

func (d *Driver) emitSettings() {
	if d.onSettings == nil {
		return
	}
	d.onSettings(Settings{
		StepDelay: d.ctrl.StepDelay,
		Teaching:  d.ctrl.Teaching,
		Algorithm: d.kind,
	})
}

// Question returns the quiz question currently blocking the engine.
func (d *Driver) Question() (quiz.Question, bool) {
	if !d.ctrl.QuizPending() {
		return quiz.Question{}, false
	}
	return d.bank.At(d.order[d.ctrl.PendingQuestion]), true
}

// LastAnswer returns the most recent graded response, or nil before the
// first answer of the session.
func (d *Driver) LastAnswer() *Answer { return d.lastAnswer }

func (d *Driver) Exiting() bool { return d.exiting }

// Snapshot is the immutable view of one frame.
type Snapshot struct {
	Kind  engine.Kind
	Title string

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

	QuizPending bool
	QuizAsked   int
	QuizCorrect int
}

func (d *Driver) Snapshot() Snapshot {
	return Snapshot{
		Kind:        d.kind,
		Title:       d.kind.Title(),
		Values:      d.eng.Values(),
		States:      d.eng.States(),
		Phase:       d.eng.Describe(),
		Progress:    d.eng.Progress(),
		Comparisons: d.ctrl.Comparisons,
		Swaps:       d.ctrl.Swaps,
		Running:     d.ctrl.Running,
		Paused:      d.ctrl.Paused,
		Completed:   d.ctrl.Completed,
		Teaching:    d.ctrl.Teaching,
		StepDelay:   d.ctrl.StepDelay,
		QuizPending: d.ctrl.QuizPending(),
		QuizAsked:   d.quizAsked,
		QuizCorrect: d.quizRight,
	}
}
