package extract

import (
	"math"
	"sort"

	"github.com/ledongthuc/pdf"
)

const (
	// minRuledRects is the number of drawn rectangles above which a page
	// is assumed to carry a ruled table grid.
	minRuledRects = 8

	// minTableColumns and minTableRows bound the aligned-column
	// heuristic: at least this many rows sharing this many column
	// positions reads as a table.
	minTableColumns = 3
	minTableRows    = 2

	rowTolerance    = 2.0 // points of Y separating distinct rows
	columnTolerance = 3.0 // points of X separating distinct columns
)

// hasAlignedColumns detects tables drawn without rules: several text rows
// whose fragments start at the same set of X positions.
func hasAlignedColumns(texts []pdf.Text) bool {
	if len(texts) < minTableColumns*minTableRows {
		return false
	}

	// Group fragments into rows by Y, then collapse each row into its
	// distinct column start positions.
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // PDF Y grows upward
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]float64
	var current []float64
	currentY := math.Inf(1)
	for _, t := range sorted {
		if math.Abs(t.Y-currentY) > rowTolerance {
			if len(current) >= minTableColumns {
				rows = append(rows, current)
			}
			current = nil
			currentY = t.Y
		}
		if len(current) == 0 || t.X-current[len(current)-1] > columnTolerance {
			current = append(current, t.X)
		}
	}
	if len(current) >= minTableColumns {
		rows = append(rows, current)
	}
	if len(rows) < minTableRows {
		return false
	}

	// Count rows sharing the same column signature.
	matches := 1
	for i := 1; i < len(rows); i++ {
		if sameColumns(rows[i-1], rows[i]) {
			matches++
			if matches >= minTableRows {
				return true
			}
		} else {
			matches = 1
		}
	}
	return false
}

func sameColumns(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > columnTolerance {
			return false
		}
	}
	return true
}
