package ui

import (
	"strings"

	"sortdojo/internal/engine"
)

// renderBars draws the array as a column chart filling width x height. Each
// element is one column; when the array is wider than the panel, elements
// are sampled by stride so the overall shape stays recognizable.
func renderBars(values []uint, states []engine.ElementState, width, height int, theme Theme, ascii bool) []string {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if len(values) == 0 {
		lines := make([]string, height)
		for i := range lines {
			lines[i] = strings.Repeat(" ", width)
		}
		lines[height/2] = padRune("No data", width)
		return lines
	}

	cols, colW := sampleColumns(len(values), width)
	heights := make([]int, len(cols))
	colStates := make([]engine.ElementState, len(cols))
	var maxVal uint
	for _, idx := range cols {
		if values[idx] > maxVal {
			maxVal = values[idx]
		}
	}
	for i, idx := range cols {
		heights[i] = barHeight(values[idx], maxVal, height)
		if idx < len(states) {
			colStates[i] = states[idx]
		}
	}

	fill := "█"
	if ascii {
		fill = "#"
	}

	lines := make([]string, height)
	for row := 0; row < height; row++ {
		threshold := height - row
		var b strings.Builder
		used := 0
		for i := range cols {
			cell := strings.Repeat(" ", colW)
			if heights[i] >= threshold {
				cell = theme.BarStyle(colStates[i]).Render(strings.Repeat(fill, colW))
			}
			b.WriteString(cell)
			used += colW
		}
		if used < width {
			b.WriteString(strings.Repeat(" ", width-used))
		}
		lines[row] = b.String()
	}
	return lines
}

// sampleColumns picks which element indices to draw and how many cells wide
// each column is.
func sampleColumns(n, width int) (indices []int, colW int) {
	colW = 1
	if n*2 <= width {
		colW = 2
	}
	fit := width / colW
	if fit < 1 {
		fit = 1
	}
	if n <= fit {
		indices = make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices, colW
	}
	indices = make([]int, fit)
	for i := range indices {
		indices[i] = i * n / fit
	}
	return indices, colW
}

// barHeight scales a value to row units; non-zero values always get at
// least one row so tiny bars stay visible.
func barHeight(v, maxVal uint, height int) int {
	if maxVal == 0 || v == 0 {
		return 0
	}
	h := int(uint64(v) * uint64(height) / uint64(maxVal))
	if h < 1 {
		h = 1
	}
	if h > height {
		h = height
	}
	return h
}

type legendEntry struct {
	state engine.ElementState
	label string
}

func legendEntries() []legendEntry {
	return []legendEntry{
		{engine.StateNormal, "unsorted"},
		{engine.StateComparing, "comparing"},
		{engine.StateSwapping, "swapping"},
		{engine.StateCurrentMin, "pivot / key"},
		{engine.StateSelected, "placing"},
		{engine.StatePartitionLeft, "left scan"},
		{engine.StatePartitionRight, "right scan"},
		{engine.StateSorted, "sorted"},
	}
}

func legendLines(theme Theme, ascii bool) []string {
	swatch := "██"
	if ascii {
		swatch = "##"
	}
	entries := legendEntries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = theme.BarStyle(e.state).Render(swatch) + " " + e.label
	}
	return lines
}
