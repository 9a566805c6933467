package ui

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"
	clog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
)

type applyMsg struct {
	fn func(*Root)
}

type drawMsg struct{}
type clockMsg time.Time
type animateMsg time.Time

type vizKeyMap struct {
	StartPause key.Binding
	Step       key.Binding
	Reset      key.Binding
	Faster     key.Binding
	Slower     key.Binding
	Teaching   key.Binding
	Stats      key.Binding
	Menu       key.Binding
}

func (k vizKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartPause, k.Step, k.Reset, k.Faster, k.Slower, k.Teaching, k.Stats, k.Menu}
}

func (k vizKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.StartPause, k.Step, k.Reset, k.Faster}, {k.Slower, k.Teaching, k.Stats, k.Menu}}
}

type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	ctrl         Controller
	styleVariant string
	motionLevel  string

	mu      sync.Mutex
	program *tea.Program
	running bool

	screen Screen
	layout LayoutMode
	cols   int
	rows   int

	forceTooSmall bool
	tooSmallCols  int
	tooSmallRows  int

	menu        MenuState
	viz         VisualizerState
	quiz        QuizState
	infoTitle   string
	infoText    string
	infoOpen    bool
	statusFlash string

	menuIndex int
	quizIndex int

	help       help.Model
	keymap     vizKeyMap
	sortbar    progress.Model
	runSpin    spinner.Model
	markdown   *glamour.TermRenderer
	logger     *clog.Logger
	overlayPos float64
	overlayVel float64
	spring     harmonica.Spring

	drawPending atomic.Bool

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	MotionLevel  string
}

func New(opts Options) *Root {
	logger := clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "sortdojo-ui", Level: clog.WarnLevel})
	if opts.Debug {
		logger.SetLevel(clog.DebugLevel)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(64),
	)
	if err != nil {
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	motionLevel := normalizeMotionLevel(opts.MotionLevel)
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)
	spring := harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8)
	switch motionLevel {
	case "reduced":
		spring = harmonica.NewSpring(harmonica.FPS(30), 9.0, 0.92)
	case "off":
		spring = harmonica.NewSpring(harmonica.FPS(60), 1000.0, 1.0)
	}
	sortbar := progress.New(
		progress.WithWidth(24),
		progress.WithColors(lipgloss.Color("#5EC2FF"), lipgloss.Color("#79E6A6"), lipgloss.Color("#F2D16B")),
		progress.WithScaled(true),
	)
	if motionLevel == "off" {
		sortbar.SetSpringOptions(1000.0, 1.0)
	}
	runSpin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Accent),
	)

	r := &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		motionLevel:  motionLevel,
		screen:       ScreenMenu,
		layout:       LayoutWide,
		cols:         120,
		rows:         30,
		help:         h,
		sortbar:      sortbar,
		runSpin:      runSpin,
		markdown:     renderer,
		logger:       logger,
		spring:       spring,
	}
	r.keymap = vizKeyMap{
		StartPause: key.NewBinding(key.WithKeys("space"), key.WithHelp("Space", "Play/Pause")),
		Step:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Step")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Reset")),
		Faster:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "Faster")),
		Slower:     key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "Slower")),
		Teaching:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Teaching")),
		Stats:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "Stats")),
		Menu:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Menu")),
	}
	return r
}

func (r *Root) Init() tea.Cmd {
	return tea.Batch(clockTickCmd(), animateTickCmd(), spinnerTickCmd(r.runSpin))
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		if r.layout != LayoutTooSmall {
			r.forceTooSmall = false
		}
		r.dispatchController(func(c Controller) { c.OnResize(msg.Width, msg.Height) })
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.animateIfNeeded()
	case drawMsg:
		r.drawPending.Store(false)
		return r, nil
	case clockMsg:
		return r, clockTickCmd()
	case animateMsg:
		target := 0.0
		if r.quiz.Open {
			target = 1.0
		}
		r.overlayPos, r.overlayVel = r.spring.Update(r.overlayPos, r.overlayVel, target)
		if r.shouldAnimate(target) {
			return r, animateTickCmd()
		}
		r.overlayPos = target
		r.overlayVel = 0
		return r, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		r.runSpin, cmd = r.runSpin.Update(msg)
		return r, cmd
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			msg := "UI recovered from a rendering panic. Check logs."
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth(msg, max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}

	var base string
	switch r.screen {
	case ScreenMenu:
		base = r.renderMenu()
	default:
		base = r.renderVisualizer()
	}

	if overlay := r.renderOverlay(); overlay != "" {
		base = composeOverlay(base, overlay, r.cols, r.rows)
	}
	v := tea.NewView(base)
	v.AltScreen = true
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetScreen(screen Screen) {
	r.apply(func(m *Root) {
		m.screen = screen
		if screen == ScreenVisualizer {
			cols, rows := m.cols, m.rows
			m.dispatchController(func(c Controller) { c.OnResize(cols, rows) })
		}
	})
}

func (r *Root) SetMenuState(state MenuState) {
	r.apply(func(m *Root) {
		m.menu = state
		if m.menuIndex >= len(state.Algorithms) {
			m.menuIndex = 0
		}
		if state.LastAlgorithm != "" {
			for i, a := range state.Algorithms {
				if a.Kind == state.LastAlgorithm {
					m.menuIndex = i
					break
				}
			}
		}
	})
}

func (r *Root) SetVisualizerState(state VisualizerState) {
	r.apply(func(m *Root) {
		if state.StartedAt.IsZero() {
			state.StartedAt = m.viz.StartedAt
		}
		m.viz = state
	})
}

func (r *Root) SetQuizState(state QuizState) {
	r.apply(func(m *Root) {
		wasOpen := m.quiz.Open
		m.quiz = state
		if state.Open && !wasOpen {
			m.quizIndex = 0
			if m.motionLevel == "off" {
				m.overlayPos = 1
				m.overlayVel = 0
			}
		}
		if !state.Open && m.motionLevel == "off" {
			m.overlayPos = 0
			m.overlayVel = 0
		}
	})
}

func (r *Root) SetInfo(title, text string, open bool) {
	r.apply(func(m *Root) {
		m.infoTitle = title
		m.infoText = text
		m.infoOpen = open
	})
}

func (r *Root) SetTooSmall(cols, rows int) {
	r.apply(func(m *Root) {
		m.forceTooSmall = true
		m.tooSmallCols = cols
		m.tooSmallRows = rows
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) RequestDraw() {
	r.mu.Lock()
	p := r.program
	running := r.running
	r.mu.Unlock()
	if !running || p == nil {
		return
	}
	if !r.drawPending.CompareAndSwap(false, true) {
		return
	}
	time.AfterFunc(16*time.Millisecond, func() {
		r.mu.Lock()
		p := r.program
		running := r.running
		r.mu.Unlock()
		if !running || p == nil {
			r.drawPending.Store(false)
			return
		}
		p.Send(drawMsg{})
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent(fmt.Sprintf("key:%v mod:%v text:%q", msg.Code, msg.Mod, msg.Text))

	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"))) {
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}

	if r.overlayActive() {
		return r.handleOverlayKey(msg)
	}

	switch r.screen {
	case ScreenMenu:
		return r.handleMenuKey(msg)
	default:
		return r.handleVisualizerKey(msg)
	}
}

func (r *Root) handleMenuKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	n := len(r.menu.Algorithms)
	switch msg.Code {
	case tea.KeyUp:
		r.menuIndex = wrapIndex(r.menuIndex-1, n)
		return r, nil
	case tea.KeyDown, tea.KeyTab:
		r.menuIndex = wrapIndex(r.menuIndex+1, n)
		return r, nil
	case tea.KeyEnter:
		r.startSelectedAlgorithm()
		return r, nil
	case tea.KeyEsc:
		r.dispatchController(func(c Controller) { c.OnQuit() })
		return r, nil
	}
	if msg.Code >= '1' && msg.Code <= '9' {
		idx := int(msg.Code - '1')
		if idx < n {
			r.menuIndex = idx
			r.startSelectedAlgorithm()
		}
		return r, nil
	}
	switch msg.Code {
	case 'i', 'I':
		r.dispatchController(func(c Controller) { c.OnOpenStats() })
	case 'q', 'Q':
		r.dispatchController(func(c Controller) { c.OnQuit() })
	}
	return r, nil
}

func (r *Root) handleVisualizerKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.Code {
	case tea.KeySpace:
		r.dispatchController(func(c Controller) { c.OnStartPause() })
		return r, nil
	case tea.KeyEsc:
		r.dispatchController(func(c Controller) { c.OnBackToMenu() })
		return r, nil
	}
	switch msg.Code {
	case 's', 'S':
		r.dispatchController(func(c Controller) { c.OnSingleStep() })
	case 'r', 'R':
		r.dispatchController(func(c Controller) { c.OnReset() })
	case '+', '=':
		r.dispatchController(func(c Controller) { c.OnSpeedUp() })
	case '-', '_':
		r.dispatchController(func(c Controller) { c.OnSpeedDown() })
	case 't', 'T':
		r.dispatchController(func(c Controller) { c.OnToggleTeaching() })
	case 'i', 'I':
		r.dispatchController(func(c Controller) { c.OnOpenStats() })
	case 'q', 'Q':
		r.dispatchController(func(c Controller) { c.OnQuit() })
	}
	return r, nil
}

func (r *Root) handleOverlayKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if r.topOverlay() == "info" {
		switch msg.Code {
		case tea.KeyEsc, tea.KeyEnter:
			r.infoOpen = false
		}
		if msg.Mod == 0 && (msg.Code == 'q' || msg.Code == 'Q') {
			r.infoOpen = false
		}
		return r, nil
	}

	// Quiz overlay. An unanswered question cannot be dismissed.
	n := len(r.quiz.Options)
	if r.quiz.Answered {
		switch msg.Code {
		case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
			r.dispatchController(func(c Controller) { c.OnQuizDismiss() })
		}
		return r, nil
	}
	switch msg.Code {
	case tea.KeyUp:
		r.quizIndex = wrapIndex(r.quizIndex-1, n)
		return r, nil
	case tea.KeyDown, tea.KeyTab:
		r.quizIndex = wrapIndex(r.quizIndex+1, n)
		return r, nil
	case tea.KeyEnter:
		choice := r.quizIndex
		r.dispatchController(func(c Controller) { c.OnAnswerQuiz(choice) })
		return r, nil
	}
	if msg.Code >= '1' && msg.Code <= '9' {
		idx := int(msg.Code - '1')
		if idx < n {
			r.quizIndex = idx
			r.dispatchController(func(c Controller) { c.OnAnswerQuiz(idx) })
		}
	}
	return r, nil
}

func (r *Root) startSelectedAlgorithm() {
	if len(r.menu.Algorithms) == 0 {
		return
	}
	a := r.menu.Algorithms[wrapIndex(r.menuIndex, len(r.menu.Algorithms))]
	r.dispatchController(func(c Controller) { c.OnSelectAlgorithm(a.Kind) })
}

func (r *Root) renderMenu() string {
	w, h := r.cols, r.rows
	header := r.theme.Header.Width(max(1, w)).Render("Sort Dojo")

	lines := make([]string, 0, len(r.menu.Algorithms))
	for i, a := range r.menu.Algorithms {
		prefix := "  "
		if i == r.menuIndex {
			prefix = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%d. %s", prefix, i+1, a.Title))
	}
	if len(lines) == 0 {
		lines = []string{"No algorithms available."}
	}
	left := r.drawPanel("Algorithms", lines, min(32, max(22, w/3)), max(8, h-2))

	detail := r.menuDetailText()
	right := r.drawPanel("About", strings.Split(strings.TrimSuffix(detail, "\n"), "\n"), max(20, w-lipgloss.Width(left)), max(8, h-2))

	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (r *Root) menuDetailText() string {
	var b strings.Builder
	if len(r.menu.Algorithms) > 0 {
		a := r.menu.Algorithms[wrapIndex(r.menuIndex, len(r.menu.Algorithms))]
		b.WriteString(a.Title + "\n")
		summary := strings.TrimSpace(a.SummaryMD)
		if summary != "" {
			if r.markdown != nil {
				if rendered, err := r.markdown.Render(summary); err == nil {
					summary = strings.TrimSpace(rendered)
				}
			}
			b.WriteString("\n" + summary + "\n")
		}
		if a.RunsFinished > 0 {
			b.WriteString(fmt.Sprintf("\nFinished runs: %d", a.RunsFinished))
			if a.BestTimeLabel != "" {
				b.WriteString("  Best: " + a.BestTimeLabel)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString(fmt.Sprintf("\nTotal runs: %d  Completed: %d\n", r.menu.Runs, r.menu.Completed))
	if r.menu.QuizAsked > 0 {
		b.WriteString(fmt.Sprintf("Quiz score: %d/%d\n", r.menu.QuizCorrect, r.menu.QuizAsked))
	}
	if strings.TrimSpace(r.menu.Tip) != "" {
		b.WriteString("\nTip:\n" + r.menu.Tip + "\n")
	}
	b.WriteString("\nEnter/1-4: Start    i: Stats    q: Quit")
	return b.String()
}

func (r *Root) renderVisualizer() string {
	w, h := r.cols, r.rows
	mode := DetermineLayoutMode(w, h)
	if r.forceTooSmall {
		mode = LayoutTooSmall
	}
	r.layout = mode

	if mode == LayoutTooSmall {
		cols, rows := w, h
		if r.forceTooSmall {
			cols = r.tooSmallCols
			rows = r.tooSmallRows
		}
		msg := []string{
			"Terminal too small",
			fmt.Sprintf("Current: %dx%d", cols, rows),
			"Minimum: 60x20",
			"Resize the terminal to continue.",
		}
		panel := r.drawPanel("Resize Required", msg, min(50, w), min(10, h))
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, panel)
	}

	header := r.headerText()
	status := r.statusText()
	bodyH := max(3, h-2)

	var body string
	if mode == LayoutWide {
		hudW := min(36, max(28, w/4))
		barsW := max(20, w-hudW)
		barsPanel := r.renderBarsPanel(barsW, bodyH)
		hudPanel := r.drawPanel("Run", strings.Split(strings.TrimSuffix(r.hudText(), "\n"), "\n"), hudW, bodyH)
		body = lipgloss.JoinHorizontal(lipgloss.Top, barsPanel, hudPanel)
	} else {
		condensed := r.drawPanel("Run", strings.Split(r.condensedHud(), "\n"), w, 4)
		barsPanel := r.renderBarsPanel(w, max(3, bodyH-4))
		body = barsPanel + "\n" + condensed
	}

	return header + "\n" + body + "\n" + status
}

func (r *Root) renderBarsPanel(width, height int) string {
	innerW := max(1, width-2)
	innerH := max(1, height-2)
	lines := renderBars(r.viz.Values, r.viz.States, innerW, innerH, r.theme, r.ascii)
	return r.drawPanel(firstNonEmptyStr(r.viz.Title, "Array"), lines, width, height)
}

func (r *Root) headerText() string {
	elapsed := r.viz.ElapsedLabel
	if strings.TrimSpace(elapsed) == "" {
		d := time.Since(r.viz.StartedAt).Truncate(time.Second)
		if r.viz.StartedAt.IsZero() {
			d = 0
		}
		elapsed = d.String()
	}
	width := max(1, r.cols-1)
	parts := []string{"Sort Dojo", firstNonEmptyStr(r.viz.Title, "?"), r.runStateLabel(), elapsed}
	if r.viz.Teaching {
		parts = append(parts, "Teaching")
	}
	txt := trimForWidth(strings.Join(parts, " | "), width)
	if r.debug {
		txt = fmt.Sprintf("%s | %dx%d %v", txt, r.cols, r.rows, r.layout)
		txt = trimForWidth(txt, width)
	}
	return r.theme.Header.Width(max(1, r.cols)).Render(txt)
}

func (r *Root) runStateLabel() string {
	switch {
	case r.viz.Completed:
		return "Completed"
	case r.quiz.Open:
		return "Question"
	case r.viz.Running && r.viz.Paused:
		return "Paused"
	case r.viz.Running:
		return "Running"
	default:
		return "Ready"
	}
}

func (r *Root) statusText() string {
	keys := r.help.View(r.keymap)
	if keys == "" {
		keys = "Space Play/Pause  s Step  r Reset  +/- Speed  t Teaching  i Stats  Esc Menu"
	}
	if r.viz.Running && !r.viz.Paused && !r.viz.Completed {
		keys += " | " + r.theme.Accent.Render(strings.TrimSpace(r.runSpin.View())+" Sorting...")
	}
	if r.statusFlash != "" {
		keys += " | " + r.statusFlash
	}
	keys = trimForWidth(keys, max(1, r.cols-1))
	return r.theme.Status.Width(max(1, r.cols)).Render(keys)
}

func (r *Root) hudText() string {
	var b strings.Builder
	b.WriteString("Operation\n")
	b.WriteString(r.viz.Phase + "\n")
	b.WriteString("\nCounters\n")
	b.WriteString(fmt.Sprintf("Comparisons: %d\nSwaps: %d\n", r.viz.Comparisons, r.viz.Swaps))
	b.WriteString("\nProgress\n")
	b.WriteString(r.progressBar(22) + "\n")
	b.WriteString(fmt.Sprintf("%.0f%%\n", r.viz.Progress))
	b.WriteString("\nSpeed\n")
	b.WriteString(fmt.Sprintf("Step delay: %dms\n", r.viz.StepDelay.Milliseconds()))
	teaching := "off"
	if r.viz.Teaching {
		teaching = "on"
	}
	b.WriteString("Teaching: " + teaching + "\n")
	if r.viz.QuizAsked > 0 {
		b.WriteString(fmt.Sprintf("Quiz: %d/%d correct\n", r.viz.QuizCorrect, r.viz.QuizAsked))
	}
	b.WriteString("\nLegend\n")
	for _, line := range legendLines(r.theme, r.ascii) {
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (r *Root) condensedHud() string {
	teaching := "off"
	if r.viz.Teaching {
		teaching = "on"
	}
	return fmt.Sprintf("%s\nComparisons: %d  Swaps: %d  %.0f%%  Delay: %dms  Teaching: %s",
		r.viz.Phase, r.viz.Comparisons, r.viz.Swaps, r.viz.Progress, r.viz.StepDelay.Milliseconds(), teaching)
}

func (r *Root) progressBar(width int) string {
	m := r.sortbar
	m.SetWidth(max(8, width))
	return m.ViewAs(r.viz.Progress / 100)
}

func (r *Root) renderOverlay() string {
	spec, ok := r.overlaySpec(r.topOverlay())
	if !ok {
		return ""
	}
	return r.drawPanel(spec.title, spec.lines, spec.width, spec.height)
}

type overlaySpec struct {
	title    string
	lines    []string
	width    int
	height   int
	startRow int
	startCol int
}

func (r *Root) overlaySpec(top string) (overlaySpec, bool) {
	if top == "" {
		return overlaySpec{}, false
	}
	w := min(max(52, r.cols-16), r.cols)
	h := min(max(10, r.rows/2), max(8, r.rows-4))

	var title string
	var lines []string
	switch top {
	case "quiz":
		title = "Checkpoint Question"
		lines = r.quizLines()
		// Grow-in animation scales the panel width.
		if r.motionLevel != "off" {
			scaled := int(float64(w) * maxFloat(r.overlayPos, 0.3))
			if scaled < w {
				w = max(24, scaled)
			}
		}
	case "info":
		title = firstNonEmptyStr(r.infoTitle, "Info")
		lines = strings.Split(strings.TrimSuffix(r.infoText, "\n"), "\n")
		lines = append(lines, "", "Esc/q: Close")
	default:
		return overlaySpec{}, false
	}
	if len(lines) == 0 {
		lines = []string{"(empty)"}
	}
	needH := len(lines) + 2
	maxH := max(8, r.rows-4)
	if needH > h {
		h = min(needH, maxH)
	}
	return overlaySpec{
		title:    title,
		lines:    lines,
		width:    w,
		height:   h,
		startRow: (r.rows - h) / 2,
		startCol: (r.cols - w) / 2,
	}, true
}

func (r *Root) quizLines() []string {
	var lines []string
	lines = append(lines, r.quiz.Prompt, "")
	for i, opt := range r.quiz.Options {
		prefix := "  "
		if !r.quiz.Answered && i == r.quizIndex {
			prefix = "> "
		}
		mark := ""
		if r.quiz.Answered {
			switch {
			case i == r.quiz.CorrectOption:
				mark = " " + r.okMark()
			case i == r.quizIndex:
				mark = " " + r.badMark()
			}
		}
		lines = append(lines, fmt.Sprintf("%s%d. %s%s", prefix, i+1, opt, mark))
	}
	if r.quiz.Answered {
		verdict := r.theme.Fail.Render("Incorrect.")
		if r.quiz.Correct {
			verdict = r.theme.Pass.Render("Correct!")
		}
		lines = append(lines, "", verdict)
		explanation := strings.TrimSpace(r.quiz.ExplanationMD)
		if explanation != "" {
			if r.markdown != nil {
				if rendered, err := r.markdown.Render(explanation); err == nil {
					explanation = strings.TrimSpace(rendered)
				}
			}
			lines = append(lines, "")
			lines = append(lines, strings.Split(explanation, "\n")...)
		}
		lines = append(lines, "", "Enter: Continue")
	} else {
		lines = append(lines, "", "Up/Down or 1-9: Select    Enter: Answer")
	}
	return lines
}

func (r *Root) okMark() string {
	if r.ascii {
		return "v"
	}
	return "✓"
}

func (r *Root) badMark() string {
	if r.ascii {
		return "x"
	}
	return "✗"
}

func (r *Root) topOverlay() string {
	switch {
	case r.infoOpen:
		return "info"
	case r.quiz.Open:
		return "quiz"
	}
	return ""
}

func (r *Root) overlayActive() bool {
	return r.topOverlay() != ""
}

func (r *Root) drawPanel(title string, lines []string, width, height int) string {
	width = max(4, width)
	height = max(3, height)
	innerW := width - 2
	innerH := height - 2

	h := "─"
	v := "│"
	tl := "┌"
	tr := "┐"
	bl := "└"
	br := "┘"
	if r.ascii {
		h = "-"
		v = "|"
		tl, tr, bl, br = "+", "+", "+", "+"
	}

	top := tl + strings.Repeat(h, innerW) + tr
	if title != "" && innerW > 2 {
		t := " " + title + " "
		runes := []rune(top)
		start := 1
		for i, ch := range []rune(t) {
			pos := start + i
			if pos >= len(runes)-1 {
				break
			}
			runes[pos] = ch
		}
		top = string(runes)
	}

	out := make([]string, 0, height)
	out = append(out, r.theme.PanelBorder.Render(top))
	for row := 0; row < innerH; row++ {
		line := ""
		if row < len(lines) {
			line = lines[row]
		}
		line = padRune(line, innerW)
		out = append(out, r.theme.PanelBorder.Render(v)+r.theme.PanelBody.Render(line)+r.theme.PanelBorder.Render(v))
	}
	out = append(out, r.theme.PanelBorder.Render(bl+strings.Repeat(h, innerW)+br))
	return strings.Join(out, "\n")
}

func (r *Root) animateIfNeeded() tea.Cmd {
	target := 0.0
	if r.quiz.Open {
		target = 1.0
	}
	if r.shouldAnimate(target) {
		return animateTickCmd()
	}
	return nil
}

func (r *Root) shouldAnimate(target float64) bool {
	if r.motionLevel == "off" {
		return false
	}
	if target > 0 {
		return r.overlayPos < 0.999 || abs(r.overlayVel) > 0.001
	}
	return r.overlayPos > 0.001 || abs(r.overlayVel) > 0.001
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func animateTickCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return animateMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func firstNonEmptyStr(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	if i < 0 {
		i = n - 1
	}
	if i >= n {
		i = 0
	}
	return i
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func padRune(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\t", "    "))
	if len(r) > width {
		r = r[:width]
	}
	if len(r) < width {
		r = append(r, []rune(strings.Repeat(" ", width-len(r)))...)
	}
	return string(r)
}

func composeOverlay(base, overlay string, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return base
	}
	base = ansi.Strip(base)
	overlay = ansi.Strip(overlay)
	baseLines := strings.Split(base, "\n")
	if len(baseLines) < rows {
		pad := make([]string, rows-len(baseLines))
		baseLines = append(baseLines, pad...)
	}
	for i := 0; i < rows; i++ {
		baseLines[i] = padRune(baseLines[i], cols)
	}

	overlayLines := strings.Split(strings.TrimRight(overlay, "\n"), "\n")
	if len(overlayLines) == 0 {
		return strings.Join(baseLines[:rows], "\n")
	}
	ow := 1
	for _, line := range overlayLines {
		lw := len([]rune(line))
		if lw > ow {
			ow = lw
		}
	}
	if ow > cols {
		ow = cols
	}
	oh := len(overlayLines)
	if oh > rows {
		oh = rows
	}
	startRow := (rows - oh) / 2
	startCol := (cols - ow) / 2
	if startCol < 0 {
		startCol = 0
	}

	for i := 0; i < oh; i++ {
		row := startRow + i
		if row < 0 || row >= rows {
			continue
		}
		dst := []rune(baseLines[row])
		src := []rune(overlayLines[i])
		if len(src) > ow {
			src = src[:ow]
		}
		for j := 0; j < ow && startCol+j < len(dst); j++ {
			dst[startCol+j] = ' '
		}
		for j := 0; j < len(src) && startCol+j < len(dst); j++ {
			dst[startCol+j] = src[j]
		}
		baseLines[row] = string(dst)
	}
	return strings.Join(baseLines[:rows], "\n")
}

func trimForWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(ansi.Strip(s), "\n", " "))
	if len(r) <= width {
		return string(r)
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case "cozy_clean", "retro_terminal", "modern_arcade":
		return strings.TrimSpace(v)
	default:
		return "modern_arcade"
	}
}

func normalizeMotionLevel(v string) string {
	switch strings.TrimSpace(v) {
	case "off", "reduced", "full":
		return strings.TrimSpace(v)
	default:
		return "full"
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}

	message := fmt.Sprintf("%v", recovered)
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered", map[string]any{
		"where":      where,
		"panic":      message,
		"msg_type":   msgType,
		"screen":     r.screen,
		"layout":     r.layout,
		"cols":       r.cols,
		"rows":       r.rows,
		"overlay":    r.topOverlay(),
		"last_input": r.lastInputEvent,
		"stack":      string(debug.Stack()),
	})
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
