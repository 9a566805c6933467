package ui

import (
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"sortdojo/internal/engine"
)

type mockController struct {
	mu sync.Mutex

	selected    []string
	startPause  int
	singleStep  int
	reset       int
	speedUp     int
	speedDown   int
	teaching    int
	answers     []int
	dismissals  int
	backToMenu  int
	statsOpened int
	quit        int
}

func (m *mockController) OnSelectAlgorithm(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = append(m.selected, kind)
}
func (m *mockController) OnStartPause() { m.mu.Lock(); m.startPause++; m.mu.Unlock() }
func (m *mockController) OnSingleStep() { m.mu.Lock(); m.singleStep++; m.mu.Unlock() }
func (m *mockController) OnReset()      { m.mu.Lock(); m.reset++; m.mu.Unlock() }
func (m *mockController) OnSpeedUp()    { m.mu.Lock(); m.speedUp++; m.mu.Unlock() }
func (m *mockController) OnSpeedDown()  { m.mu.Lock(); m.speedDown++; m.mu.Unlock() }
func (m *mockController) OnToggleTeaching() {
	m.mu.Lock()
	m.teaching++
	m.mu.Unlock()
}
func (m *mockController) OnAnswerQuiz(option int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers = append(m.answers, option)
}
func (m *mockController) OnQuizDismiss() { m.mu.Lock(); m.dismissals++; m.mu.Unlock() }
func (m *mockController) OnBackToMenu()  { m.mu.Lock(); m.backToMenu++; m.mu.Unlock() }
func (m *mockController) OnOpenStats()   { m.mu.Lock(); m.statsOpened++; m.mu.Unlock() }
func (m *mockController) OnQuit()        { m.mu.Lock(); m.quit++; m.mu.Unlock() }
func (m *mockController) OnResize(int, int) {}

func (m *mockController) wait(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		ok := cond()
		m.mu.Unlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("controller call never arrived")
}

func press(v *Root, code rune, mod tea.KeyMod, text string) {
	_, _ = v.Update(tea.KeyPressMsg{Code: code, Mod: mod, Text: text})
}

func newViewForTest() (*Root, *mockController) {
	v := New(Options{ASCIIOnly: true, MotionLevel: "off"})
	ctrl := &mockController{}
	v.SetController(ctrl)
	v.SetMenuState(MenuState{Algorithms: []AlgorithmSummary{
		{Kind: "bubble", Title: "Bubble Sort"},
		{Kind: "insertion", Title: "Insertion Sort"},
		{Kind: "merge", Title: "Merge Sort"},
		{Kind: "quick", Title: "Quick Sort"},
	}})
	return v, ctrl
}

func TestMenuEnterSelectsAlgorithm(t *testing.T) {
	v, ctrl := newViewForTest()
	press(v, tea.KeyDown, 0, "")
	press(v, tea.KeyEnter, 0, "")
	ctrl.wait(t, func() bool { return len(ctrl.selected) == 1 })
	if ctrl.selected[0] != "insertion" {
		t.Fatalf("expected insertion, got %q", ctrl.selected[0])
	}
}

func TestMenuDigitSelectsAlgorithmDirectly(t *testing.T) {
	v, ctrl := newViewForTest()
	press(v, '4', 0, "4")
	ctrl.wait(t, func() bool { return len(ctrl.selected) == 1 })
	if ctrl.selected[0] != "quick" {
		t.Fatalf("expected quick, got %q", ctrl.selected[0])
	}
}

func TestVisualizerKeysDispatchIntents(t *testing.T) {
	v, ctrl := newViewForTest()
	v.SetScreen(ScreenVisualizer)

	press(v, tea.KeySpace, 0, " ")
	ctrl.wait(t, func() bool { return ctrl.startPause == 1 })
	press(v, 's', 0, "s")
	ctrl.wait(t, func() bool { return ctrl.singleStep == 1 })
	press(v, 'r', 0, "r")
	ctrl.wait(t, func() bool { return ctrl.reset == 1 })
	press(v, '+', 0, "+")
	ctrl.wait(t, func() bool { return ctrl.speedUp == 1 })
	press(v, '-', 0, "-")
	ctrl.wait(t, func() bool { return ctrl.speedDown == 1 })
	press(v, 't', 0, "t")
	ctrl.wait(t, func() bool { return ctrl.teaching == 1 })
	press(v, tea.KeyEsc, 0, "")
	ctrl.wait(t, func() bool { return ctrl.backToMenu == 1 })
}

func TestQuizOverlaySwallowsVisualizerKeys(t *testing.T) {
	v, ctrl := newViewForTest()
	v.SetScreen(ScreenVisualizer)
	v.SetQuizState(QuizState{Open: true, Prompt: "p", Options: []string{"a", "b", "c"}})

	// Keys that would normally drive the run must not leak through.
	press(v, 's', 0, "s")
	press(v, 'r', 0, "r")
	time.Sleep(30 * time.Millisecond)
	ctrl.mu.Lock()
	leaked := ctrl.singleStep + ctrl.reset
	ctrl.mu.Unlock()
	if leaked != 0 {
		t.Fatalf("visualizer keys leaked through the quiz overlay")
	}

	press(v, '2', 0, "2")
	ctrl.wait(t, func() bool { return len(ctrl.answers) == 1 })
	if ctrl.answers[0] != 1 {
		t.Fatalf("expected option 1, got %d", ctrl.answers[0])
	}
}

func TestUnansweredQuizCannotBeDismissed(t *testing.T) {
	v, ctrl := newViewForTest()
	v.SetScreen(ScreenVisualizer)
	v.SetQuizState(QuizState{Open: true, Prompt: "p", Options: []string{"a", "b"}})

	press(v, tea.KeyEsc, 0, "")
	time.Sleep(30 * time.Millisecond)
	ctrl.mu.Lock()
	dismissed := ctrl.dismissals
	ctrl.mu.Unlock()
	if dismissed != 0 {
		t.Fatalf("escape dismissed an unanswered question")
	}

	v.SetQuizState(QuizState{Open: true, Prompt: "p", Options: []string{"a", "b"}, Answered: true, Correct: true})
	press(v, tea.KeyEnter, 0, "")
	ctrl.wait(t, func() bool { return ctrl.dismissals == 1 })
}

func TestCtrlQQuitsFromAnyScreen(t *testing.T) {
	v, ctrl := newViewForTest()
	v.SetScreen(ScreenVisualizer)
	press(v, 'q', tea.ModCtrl, "")
	ctrl.wait(t, func() bool { return ctrl.quit == 1 })
}

func TestViewRendersWithoutProgram(t *testing.T) {
	v, _ := newViewForTest()
	v.SetScreen(ScreenVisualizer)
	v.SetVisualizerState(VisualizerState{
		Title:  "Bubble Sort",
		Values: []uint{3, 1, 2},
		States: make([]engine.ElementState, 3),
	})
	_ = v.View()
}
