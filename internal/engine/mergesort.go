package engine

import "fmt"

type mergePhase int

const (
	mergePairs mergePhase = iota
	mergingInit
	mergingStep
	doneMerge
)

// mergeEngine is the bottom-up, iterative rendition: runs of width size are
// merged pairwise, size doubles each pass, and a full-length scratch buffer
// holds the pair being merged so writeback is a simple scan.
type mergeEngine struct {
	base
	phase   mergePhase
	size    int // current run width, a power of two starting at 1
	pair    int // offset of the next pair within the pass
	scratch []uint

	low, mid, high int // bounds of the pair being merged
	li, ri, wi     int // left scan, right scan, writeback cursor
}

func newMerge(values []uint, ctrl *Control) *mergeEngine {
	m := &mergeEngine{
		base:    newBase(values, ctrl),
		scratch: make([]uint, len(values)),
	}
	m.Reset()
	return m
}

func (m *mergeEngine) Kind() Kind { return MergeSort }

func (m *mergeEngine) Reset() {
	m.resetBase()
	m.phase = mergePairs
	m.size = 1
	m.pair = 0
	m.low, m.mid, m.high = 0, 0, 0
	m.li, m.ri, m.wi = 0, 0, 0
}

func (m *mergeEngine) Step() bool {
	if m.done {
		return false
	}
	m.clearTransient()

	n := len(m.a)
	switch m.phase {
	case mergePairs:
		// Skip exhausted passes until a mergeable pair is found; the whole
		// scan is one atomic step.
		for {
			if m.size > n {
				m.finish()
				return false
			}
			if m.pair+m.size >= n {
				m.size *= 2
				m.pair = 0
				continue
			}
			break
		}
		m.low = m.pair
		m.mid = m.low + m.size
		m.high = m.low + 2*m.size
		if m.high > n {
			m.high = n
		}
		copy(m.scratch[m.low:m.high], m.a[m.low:m.high])
		m.li, m.ri, m.wi = m.low, m.mid, m.low
		m.phase = mergingInit

	case mergingInit:
		m.markScan()
		m.phase = mergingStep

	case mergingStep:
		m.markScan()
		switch {
		case m.li >= m.mid:
			m.a[m.wi] = m.scratch[m.ri]
			m.ri++
			m.ctrl.Swaps++
		case m.ri >= m.high:
			m.a[m.wi] = m.scratch[m.li]
			m.li++
			m.ctrl.Swaps++
		default:
			m.ctrl.Comparisons++
			// Ties take the left run, preserving the input order of equal
			// elements.
			if m.scratch[m.li] <= m.scratch[m.ri] {
				m.a[m.wi] = m.scratch[m.li]
				m.li++
			} else {
				m.a[m.wi] = m.scratch[m.ri]
				m.ri++
			}
			m.ctrl.Swaps++
		}
		m.states[m.wi] = StateSelected
		m.wi++
		if m.wi >= m.high {
			m.phase = doneMerge
		}

	case doneMerge:
		for m.wi < m.high {
			if m.li < m.mid {
				m.a[m.wi] = m.scratch[m.li]
				m.li++
			} else {
				m.a[m.wi] = m.scratch[m.ri]
				m.ri++
			}
			m.ctrl.Swaps++
			m.wi++
		}
		for k := m.low; k < m.high; k++ {
			m.states[k] = StateSorted
		}
		m.pair += 2 * m.size
		m.phase = mergePairs
	}
	return true
}

// markScan highlights the two scan pointers so the renderer can show which
// halves are feeding the merge.
func (m *mergeEngine) markScan() {
	if m.li < m.mid {
		m.states[m.li] = StatePartitionLeft
	}
	if m.ri < m.high {
		m.states[m.ri] = StatePartitionRight
	}
}

func (m *mergeEngine) Progress() float64 {
	n := len(m.a)
	if n <= 1 || m.done {
		return 100
	}
	return float64(m.sortedCount()) / float64(n) * 100
}

func (m *mergeEngine) Describe() string {
	if m.done {
		return "Array sorted"
	}
	switch m.phase {
	case mergePairs:
		return fmt.Sprintf("Scanning for the next pair of runs (width %d)", m.size)
	case mergingInit:
		return fmt.Sprintf("Preparing to merge [%d,%d) and [%d,%d)", m.low, m.mid, m.mid, m.high)
	case mergingStep:
		return fmt.Sprintf("Merging [%d,%d) and [%d,%d) into position %d", m.low, m.mid, m.mid, m.high, m.wi)
	default:
		return fmt.Sprintf("Finished merging [%d,%d)", m.low, m.high)
	}
}
