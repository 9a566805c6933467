package ui

import (
	"strings"
	"testing"

	"sortdojo/internal/engine"
)

// An empty Theme renders without color codes, so the chart geometry can be
// asserted on plain runes.
var plainTheme = Theme{}

func TestRenderBarsGeometry(t *testing.T) {
	values := []uint{1, 2, 4}
	states := make([]engine.ElementState, len(values))
	lines := renderBars(values, states, 6, 4, plainTheme, true)

	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if got := len([]rune(line)); got != 6 {
			t.Fatalf("row %d width %d, want 6", i, got)
		}
	}
	// Max value fills the full height; the smallest keeps one row.
	if lines[0] != "    ##" {
		t.Fatalf("top row %q", lines[0])
	}
	if lines[3] != "######" {
		t.Fatalf("bottom row %q", lines[3])
	}
}

func TestRenderBarsSamplesWideArrays(t *testing.T) {
	values := make([]uint, 100)
	states := make([]engine.ElementState, 100)
	for i := range values {
		values[i] = uint(i + 1)
	}
	lines := renderBars(values, states, 40, 10, plainTheme, true)
	for i, line := range lines {
		if got := len([]rune(line)); got != 40 {
			t.Fatalf("row %d width %d, want 40", i, got)
		}
	}
	// Ascending input must keep its staircase shape after sampling: the
	// bottom row is fully filled, the top row only at the right edge.
	bottom := lines[len(lines)-1]
	if strings.Contains(bottom, " ") {
		t.Fatalf("bottom row has gaps: %q", bottom)
	}
	top := []rune(lines[0])
	if top[0] != ' ' || top[len(top)-1] != '#' {
		t.Fatalf("top row lost the staircase: %q", lines[0])
	}
}

func TestRenderBarsEmptyInput(t *testing.T) {
	lines := renderBars(nil, nil, 10, 3, plainTheme, true)
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	found := false
	for _, line := range lines {
		if strings.Contains(line, "No data") {
			found = true
		}
	}
	if !found {
		t.Fatalf("placeholder missing: %q", lines)
	}
}

func TestBarHeightBounds(t *testing.T) {
	if got := barHeight(0, 10, 8); got != 0 {
		t.Fatalf("zero value should have no bar, got %d", got)
	}
	if got := barHeight(1, 1000, 8); got != 1 {
		t.Fatalf("tiny value should keep one row, got %d", got)
	}
	if got := barHeight(10, 10, 8); got != 8 {
		t.Fatalf("max value should fill the height, got %d", got)
	}
}

func TestLegendCoversEveryElementState(t *testing.T) {
	entries := legendEntries()
	seen := map[engine.ElementState]bool{}
	for _, e := range entries {
		seen[e.state] = true
	}
	all := []engine.ElementState{
		engine.StateNormal, engine.StateComparing, engine.StateSwapping,
		engine.StateCurrentMin, engine.StateSelected,
		engine.StatePartitionLeft, engine.StatePartitionRight, engine.StateSorted,
	}
	for _, s := range all {
		if !seen[s] {
			t.Fatalf("legend missing state %v", s)
		}
	}
}
