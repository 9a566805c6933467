package engine

import (
	"fmt"
	"strings"
)

// Kind identifies one of the steppable sorting algorithms.
type Kind string

const (
	BubbleSort    Kind = "bubble"
	InsertionSort Kind = "insertion"
	MergeSort     Kind = "merge"
	QuickSort     Kind = "quick"
)

// Kinds lists every algorithm in menu order.
func Kinds() []Kind {
	return []Kind{BubbleSort, InsertionSort, MergeSort, QuickSort}
}

func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case BubbleSort:
		return BubbleSort, nil
	case InsertionSort:
		return InsertionSort, nil
	case MergeSort:
		return MergeSort, nil
	case QuickSort:
		return QuickSort, nil
	}
	return "", fmt.Errorf("unknown algorithm %q", raw)
}

func (k Kind) Title() string {
	switch k {
	case BubbleSort:
		return "Bubble Sort"
	case InsertionSort:
		return "Insertion Sort"
	case MergeSort:
		return "Merge Sort"
	case QuickSort:
		return "Quick Sort"
	}
	return string(k)
}

// Engine is the uniform stepping contract every algorithm variant exposes.
//
// Step advances exactly one atomic sub-step (one comparison, one swap, one
// phase transition, or one cursor advance) and returns false once the array
// is fully sorted. After the first false, further calls return false without
// mutating anything. Reset restores the array captured at construction and
// zeroes the counters. Progress is a percentage in [0,100]. Describe reports
// what the next step will do, derived only from the current cursors/phase.
type Engine interface {
	Step() bool
	Reset()
	Progress() float64
	Describe() string
	Kind() Kind

	// Values and States return copies so the renderer never observes a
	// half-applied step.
	Values() []uint
	States() []ElementState
}

// Options carries per-engine construction knobs. Questions is the size of
// the session's quiz bank; only quicksort's teaching checkpoints use it.
type Options struct {
	Questions int
}

// New builds the engine for kind over its own copy of values. The control
// block is shared with the session driver and is mutated on every step.
func New(kind Kind, values []uint, ctrl *Control, opts Options) (Engine, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("engine: nil control")
	}
	switch kind {
	case BubbleSort:
		return newBubble(values, ctrl), nil
	case InsertionSort:
		return newInsertion(values, ctrl), nil
	case MergeSort:
		return newMerge(values, ctrl), nil
	case QuickSort:
		return newQuick(values, ctrl, opts.Questions), nil
	}
	return nil, fmt.Errorf("engine: unknown kind %q", kind)
}

// base holds the state every variant shares: working array, pristine
// original for reset, and the per-index highlight vector.
type base struct {
	ctrl   *Control
	a      []uint
	orig   []uint
	states []ElementState
	done   bool
}

func newBase(values []uint, ctrl *Control) base {
	a := append([]uint(nil), values...)
	return base{
		ctrl:   ctrl,
		a:      a,
		orig:   append([]uint(nil), values...),
		states: make([]ElementState, len(a)),
	}
}

// resetBase restores the constructed baseline. Arrays of length <= 1 are
// complete before the first step ever runs.
func (b *base) resetBase() {
	copy(b.a, b.orig)
	for i := range b.states {
		b.states[i] = StateNormal
	}
	b.ctrl.resetProgress()
	b.done = len(b.a) <= 1
	if b.done {
		b.markAllSorted()
		b.ctrl.Completed = true
	}
}

// clearTransient wipes everything except sticky Sorted tags; called at the
// top of every step.
func (b *base) clearTransient() {
	for i, s := range b.states {
		if s != StateSorted {
			b.states[i] = StateNormal
		}
	}
}

func (b *base) markAllSorted() {
	for i := range b.states {
		b.states[i] = StateSorted
	}
}

func (b *base) sortedCount() int {
	n := 0
	for _, s := range b.states {
		if s == StateSorted {
			n++
		}
	}
	return n
}

func (b *base) Values() []uint {
	return append([]uint(nil), b.a...)
}

func (b *base) States() []ElementState {
	return append([]ElementState(nil), b.states...)
}

func (b *base) finish() {
	b.markAllSorted()
	b.done = true
	b.ctrl.Completed = true
}
