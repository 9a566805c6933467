package engine

import (
	"math/rand"
	"sort"
	"testing"
	"time"
)

func runToCompletion(t *testing.T, e Engine) int {
	t.Helper()
	steps := 0
	for e.Step() {
		steps++
		if steps > 1_000_000 {
			t.Fatalf("%s did not terminate", e.Kind())
		}
	}
	return steps
}

func newEngineForTest(t *testing.T, kind Kind, values []uint) (Engine, *Control) {
	t.Helper()
	ctrl := NewControl(50 * time.Millisecond)
	e, err := New(kind, values, ctrl, Options{})
	if err != nil {
		t.Fatalf("new %s: %v", kind, err)
	}
	return e, ctrl
}

func TestAllKindsSortRandomInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, kind := range Kinds() {
		for trial := 0; trial < 20; trial++ {
			n := rng.Intn(40) + 2
			values := make([]uint, n)
			for i := range values {
				values[i] = uint(rng.Intn(50))
			}
			want := append([]uint(nil), values...)
			sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

			e, ctrl := newEngineForTest(t, kind, values)
			runToCompletion(t, e)
			got := e.Values()
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("%s trial %d: got %v want %v", kind, trial, got, want)
				}
			}
			if !ctrl.Completed {
				t.Fatalf("%s: control not marked completed", kind)
			}
			for i, s := range e.States() {
				if s != StateSorted {
					t.Fatalf("%s: index %d state %v after completion", kind, i, s)
				}
			}
		}
	}
}

func TestCountersMonotonic(t *testing.T) {
	for _, kind := range Kinds() {
		e, ctrl := newEngineForTest(t, kind, []uint{9, 3, 7, 1, 8, 2, 6, 4, 5})
		lastC, lastS := 0, 0
		for e.Step() {
			if ctrl.Comparisons < lastC || ctrl.Swaps < lastS {
				t.Fatalf("%s: counters went backwards", kind)
			}
			lastC, lastS = ctrl.Comparisons, ctrl.Swaps
		}
		e.Reset()
		if ctrl.Comparisons != 0 || ctrl.Swaps != 0 {
			t.Fatalf("%s: reset did not zero counters", kind)
		}
	}
}

func TestIdempotentCompletion(t *testing.T) {
	for _, kind := range Kinds() {
		e, ctrl := newEngineForTest(t, kind, []uint{4, 1, 3, 2})
		runToCompletion(t, e)
		values := e.Values()
		states := e.States()
		c, s := ctrl.Comparisons, ctrl.Swaps
		for i := 0; i < 5; i++ {
			if e.Step() {
				t.Fatalf("%s: step returned true after completion", kind)
			}
		}
		got := e.Values()
		for i := range values {
			if got[i] != values[i] {
				t.Fatalf("%s: array mutated after completion", kind)
			}
		}
		for i := range states {
			if e.States()[i] != states[i] {
				t.Fatalf("%s: states mutated after completion", kind)
			}
		}
		if ctrl.Comparisons != c || ctrl.Swaps != s {
			t.Fatalf("%s: counters mutated after completion", kind)
		}
	}
}

type traceFrame struct {
	values []uint
	states []ElementState
	comps  int
	swaps  int
}

func captureTrace(e Engine, ctrl *Control) []traceFrame {
	var trace []traceFrame
	for {
		more := e.Step()
		trace = append(trace, traceFrame{e.Values(), e.States(), ctrl.Comparisons, ctrl.Swaps})
		if !more {
			return trace
		}
	}
}

func TestResetReplaysIdenticalTrace(t *testing.T) {
	for _, kind := range Kinds() {
		e, ctrl := newEngineForTest(t, kind, []uint{5, 8, 1, 9, 2, 7, 3})
		first := captureTrace(e, ctrl)
		e.Reset()
		second := captureTrace(e, ctrl)
		if len(first) != len(second) {
			t.Fatalf("%s: trace lengths differ: %d vs %d", kind, len(first), len(second))
		}
		for i := range first {
			a, b := first[i], second[i]
			if a.comps != b.comps || a.swaps != b.swaps {
				t.Fatalf("%s: counter divergence at step %d", kind, i)
			}
			for j := range a.values {
				if a.values[j] != b.values[j] || a.states[j] != b.states[j] {
					t.Fatalf("%s: snapshot divergence at step %d index %d", kind, i, j)
				}
			}
		}
	}
}

func TestDegenerateInputsCompleteImmediately(t *testing.T) {
	for _, kind := range Kinds() {
		for _, values := range [][]uint{nil, {7}} {
			e, ctrl := newEngineForTest(t, kind, values)
			if !ctrl.Completed {
				t.Fatalf("%s len=%d: expected completed at construction", kind, len(values))
			}
			if e.Step() {
				t.Fatalf("%s len=%d: expected step to return false", kind, len(values))
			}
			if ctrl.Comparisons != 0 || ctrl.Swaps != 0 {
				t.Fatalf("%s len=%d: expected zero counters", kind, len(values))
			}
			if e.Progress() != 100 {
				t.Fatalf("%s len=%d: expected progress 100, got %v", kind, len(values), e.Progress())
			}
			for _, s := range e.States() {
				if s != StateSorted {
					t.Fatalf("%s len=%d: expected sorted states", kind, len(values))
				}
			}
		}
	}
}

func TestProgressStaysInRange(t *testing.T) {
	for _, kind := range Kinds() {
		e, _ := newEngineForTest(t, kind, []uint{3, 9, 4, 1, 5, 9, 2, 6})
		for {
			p := e.Progress()
			if p < 0 || p > 100 {
				t.Fatalf("%s: progress %v out of range", kind, p)
			}
			if e.Describe() == "" {
				t.Fatalf("%s: empty description", kind)
			}
			if !e.Step() {
				break
			}
		}
		if e.Progress() != 100 {
			t.Fatalf("%s: expected progress 100 at completion, got %v", kind, e.Progress())
		}
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Quick "); err != nil || k != QuickSort {
		t.Fatalf("expected quick, got %v %v", k, err)
	}
	if _, err := ParseKind("shell"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestClampDelay(t *testing.T) {
	lo, hi := DelayBounds(BubbleSort)
	if got := ClampDelay(BubbleSort, lo-time.Millisecond); got != lo {
		t.Fatalf("expected clamp to %v, got %v", lo, got)
	}
	if got := ClampDelay(BubbleSort, hi+time.Second); got != hi {
		t.Fatalf("expected clamp to %v, got %v", hi, got)
	}
	if got := ClampDelay(BubbleSort, lo+time.Millisecond); got != lo+time.Millisecond {
		t.Fatalf("expected pass-through, got %v", got)
	}
}
