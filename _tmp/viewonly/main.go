// View-only harness: renders the visualizer with a canned frame and no
// controller, for eyeballing layout changes.
package main

import (
	"sortdojo/internal/engine"
	"sortdojo/internal/ui"
)

func main() {
	v := ui.New(ui.Options{})
	v.SetVisualizerState(ui.VisualizerState{
		Algorithm: "quick",
		Title:     "Quick Sort",
		Values:    []uint{5, 2, 7, 1, 6, 3, 8, 4},
		States: []engine.ElementState{
			engine.StatePartitionLeft, engine.StateComparing, engine.StateSelected, engine.StateSorted,
			engine.StateNormal, engine.StateNormal, engine.StateNormal, engine.StateNormal,
		},
		Phase:       "partitioning [0..7] around pivot 4",
		Progress:    12.5,
		Comparisons: 9,
		Swaps:       3,
		Running:     true,
	})
	v.SetScreen(ui.ScreenVisualizer)
	_ = v.Run()
}
