package engine

import "fmt"

type insertionPhase int

const (
	selectingElement insertionPhase = iota
	searchingPosition
	insertingElement
	moveToNext
)

// insertion grows a sorted prefix one element at a time. Shifts are copies
// to the right, not swaps; the key is written back once its slot is found.
type insertion struct {
	base
	phase insertionPhase
	i     int // index of the element being inserted
	j     int // comparison/shift cursor; insert slot once searching ends
	key   uint
}

func newInsertion(values []uint, ctrl *Control) *insertion {
	e := &insertion{base: newBase(values, ctrl)}
	e.Reset()
	return e
}

func (e *insertion) Kind() Kind { return InsertionSort }

func (e *insertion) Reset() {
	e.resetBase()
	e.phase = selectingElement
	e.i = 1
	e.j = 0
	e.key = 0
	// Index 0 is a trivially sorted prefix of one.
	if len(e.a) > 0 && !e.done {
		e.states[0] = StateSorted
	}
}

func (e *insertion) Step() bool {
	if e.done {
		return false
	}
	e.clearTransient()

	switch e.phase {
	case selectingElement:
		e.key = e.a[e.i]
		e.states[e.i] = StateCurrentMin
		e.j = e.i - 1
		e.phase = searchingPosition

	case searchingPosition:
		e.ctrl.Comparisons++
		if e.a[e.j] > e.key {
			e.states[e.j] = StateSwapping
			e.a[e.j+1] = e.a[e.j]
			e.ctrl.Swaps++
			e.j--
			if e.j < 0 {
				e.j = 0
				e.phase = insertingElement
			}
		} else {
			e.j++
			e.phase = insertingElement
		}

	case insertingElement:
		e.a[e.j] = e.key
		e.states[e.j] = StateSelected
		e.phase = moveToNext

	case moveToNext:
		e.i++
		for k := 0; k < e.i && k < len(e.a); k++ {
			e.states[k] = StateSorted
		}
		if e.i >= len(e.a) {
			e.finish()
		}
		e.phase = selectingElement
	}
	return true
}

func (e *insertion) Progress() float64 {
	n := len(e.a)
	if n <= 1 || e.done {
		return 100
	}
	return float64(e.i) / float64(n) * 100
}

func (e *insertion) Describe() string {
	if e.done {
		return "Array sorted"
	}
	switch e.phase {
	case selectingElement:
		return fmt.Sprintf("Selecting element at position %d", e.i)
	case searchingPosition:
		return fmt.Sprintf("Searching insert position for %d (checking %d)", e.key, e.j)
	case insertingElement:
		return fmt.Sprintf("Inserting %d at position %d", e.key, e.j)
	default:
		return "Moving to the next element"
	}
}
