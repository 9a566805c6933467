package engine

import "fmt"

type quickPhase int

const (
	choosingPivot quickPhase = iota
	partitioningLeft
	partitioningRight
	swappingElements
	swappingWithPivot
)

// span is one pending partition range, the explicit substitute for the
// recursive call stack.
type span struct {
	lo, hi int
}

// quick partitions around the last element of each popped range. Degenerate
// spans are never pushed; a single step call drains any that would appear by
// resolving them inline before doing real work.
type quick struct {
	base
	phase quickPhase
	stack []span

	lo, hi      int  // bounds of the active partition
	pivot       uint // value of a[hi] for the active partition
	left, right int

	partitions int // completed partitions, drives quiz selection
	questions  int // session quiz bank size; 0 disables checkpoints
}

func newQuick(values []uint, ctrl *Control, questions int) *quick {
	q := &quick{base: newBase(values, ctrl), questions: questions}
	q.Reset()
	return q
}

func (q *quick) Kind() Kind { return QuickSort }

func (q *quick) Reset() {
	q.resetBase()
	q.phase = choosingPivot
	q.stack = q.stack[:0]
	q.lo, q.hi = 0, 0
	q.pivot = 0
	q.left, q.right = 0, 0
	q.partitions = 0
	if n := len(q.a); n > 1 {
		q.stack = append(q.stack, span{0, n - 1})
	}
}

func (q *quick) Step() bool {
	if q.done {
		return false
	}
	// A pending comprehension question blocks all progress until answered.
	if q.ctrl.QuizPending() {
		return true
	}
	q.clearTransient()

	switch q.phase {
	case choosingPivot:
		for {
			if len(q.stack) == 0 {
				q.finish()
				return false
			}
			top := q.stack[len(q.stack)-1]
			q.stack = q.stack[:len(q.stack)-1]
			if top.lo >= top.hi {
				if top.lo == top.hi && top.lo < len(q.a) {
					q.states[top.lo] = StateSorted
				}
				continue
			}
			q.lo, q.hi = top.lo, top.hi
			break
		}
		q.pivot = q.a[q.hi]
		q.states[q.hi] = StateCurrentMin
		q.left = q.lo
		q.right = q.hi - 1
		q.phase = partitioningLeft

	case partitioningLeft:
		if q.left > q.right {
			q.phase = swappingWithPivot
			break
		}
		q.states[q.left] = StatePartitionLeft
		q.states[q.hi] = StateCurrentMin
		q.ctrl.Comparisons++
		if q.a[q.left] <= q.pivot {
			q.left++
		} else {
			q.phase = partitioningRight
		}

	case partitioningRight:
		if q.left > q.right {
			q.phase = swappingWithPivot
			break
		}
		q.states[q.right] = StatePartitionRight
		q.states[q.hi] = StateCurrentMin
		q.ctrl.Comparisons++
		if q.a[q.right] > q.pivot {
			q.right--
			if q.right < q.left {
				q.phase = swappingWithPivot
			}
		} else {
			q.phase = swappingElements
		}

	case swappingElements:
		q.a[q.left], q.a[q.right] = q.a[q.right], q.a[q.left]
		q.states[q.left] = StateSwapping
		q.states[q.right] = StateSwapping
		q.states[q.hi] = StateCurrentMin
		q.ctrl.Swaps++
		q.left++
		q.right--
		q.phase = partitioningLeft

	case swappingWithPivot:
		if q.left != q.hi {
			q.a[q.left], q.a[q.hi] = q.a[q.hi], q.a[q.left]
			q.ctrl.Swaps++
		}
		q.states[q.left] = StateSorted
		p := q.left
		// Push right before left so the left partition is refined first;
		// single-element remainders resolve immediately.
		switch {
		case p+1 < q.hi:
			q.stack = append(q.stack, span{p + 1, q.hi})
		case p+1 == q.hi:
			q.states[q.hi] = StateSorted
		}
		switch {
		case q.lo < p-1:
			q.stack = append(q.stack, span{q.lo, p - 1})
		case q.lo == p-1:
			q.states[q.lo] = StateSorted
		}
		q.phase = choosingPivot
		if q.ctrl.Teaching && q.questions > 0 {
			q.ctrl.PendingQuestion = q.partitions % q.questions
		}
		q.partitions++
	}
	return true
}

func (q *quick) Progress() float64 {
	n := len(q.a)
	if n <= 1 || q.done {
		return 100
	}
	return float64(q.sortedCount()) / float64(n) * 100
}

func (q *quick) Describe() string {
	if q.done {
		return "Array sorted"
	}
	switch q.phase {
	case choosingPivot:
		if len(q.stack) == 0 {
			return "No partitions left"
		}
		top := q.stack[len(q.stack)-1]
		return fmt.Sprintf("Choosing pivot for range [%d,%d]", top.lo, top.hi)
	case partitioningLeft:
		return fmt.Sprintf("Scanning left cursor at %d against pivot %d", q.left, q.pivot)
	case partitioningRight:
		return fmt.Sprintf("Scanning right cursor at %d against pivot %d", q.right, q.pivot)
	case swappingElements:
		return fmt.Sprintf("Swapping positions %d and %d", q.left, q.right)
	default:
		return fmt.Sprintf("Placing pivot %d at position %d", q.pivot, q.left)
	}
}
