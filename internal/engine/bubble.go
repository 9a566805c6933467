package engine

import "fmt"

// bubble walks adjacent pairs; after every pass the largest remaining
// element has settled at the end, so the last i positions are final.
type bubble struct {
	base
	i int // completed-pass count
	j int // comparison index within the pass
}

func newBubble(values []uint, ctrl *Control) *bubble {
	b := &bubble{base: newBase(values, ctrl)}
	b.Reset()
	return b
}

func (b *bubble) Kind() Kind { return BubbleSort }

func (b *bubble) Reset() {
	b.resetBase()
	b.i = 0
	b.j = 0
}

func (b *bubble) Step() bool {
	if b.done {
		return false
	}
	b.clearTransient()

	n := len(b.a)
	j := b.j
	b.states[j] = StateComparing
	b.states[j+1] = StateComparing
	b.ctrl.Comparisons++
	// Strictly-greater only: equal neighbours never swap, keeping the sort
	// stable.
	if b.a[j] > b.a[j+1] {
		b.a[j], b.a[j+1] = b.a[j+1], b.a[j]
		b.states[j] = StateSwapping
		b.states[j+1] = StateSwapping
		b.ctrl.Swaps++
	}

	b.j++
	if b.j >= n-1-b.i {
		b.states[n-1-b.i] = StateSorted
		b.i++
		b.j = 0
		if b.i >= n-1 {
			b.finish()
		}
	}
	return true
}

func (b *bubble) Progress() float64 {
	n := len(b.a)
	if n <= 1 || b.done {
		return 100
	}
	total := n * (n - 1) / 2
	p := float64(b.ctrl.Comparisons) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

func (b *bubble) Describe() string {
	if b.done {
		return "Array sorted"
	}
	return fmt.Sprintf("Comparing positions %d and %d (pass %d)", b.j, b.j+1, b.i+1)
}
