package engine

// ElementState tags one array index with the reason it is currently
// highlighted. Transient states are wiped back to StateNormal at the start
// of every step; StateSorted is sticky.
type ElementState uint8

const (
	StateNormal ElementState = iota
	StateComparing
	StateSwapping
	// StateCurrentMin marks the active pivot (quicksort) or the key being
	// inserted (insertion sort).
	StateCurrentMin
	// StateSelected marks the position an element was just written into.
	StateSelected
	StatePartitionLeft
	StatePartitionRight
	StateSorted
)

func (s ElementState) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateComparing:
		return "comparing"
	case StateSwapping:
		return "swapping"
	case StateCurrentMin:
		return "current"
	case StateSelected:
		return "selected"
	case StatePartitionLeft:
		return "partition_left"
	case StatePartitionRight:
		return "partition_right"
	case StateSorted:
		return "sorted"
	}
	return "unknown"
}
