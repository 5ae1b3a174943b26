// Package spatial bins floor-plan positions and tests them against area polygons.
package spatial

import "github.com/PratikDhanave/venue-analytics-service/internal/models"

// DefaultCellSize is the heatmap grid resolution in floor-plan pixels.
const DefaultCellSize = 50

// CellKey identifies a grid cell by its integer coordinates.
type CellKey struct {
	X, Y int
}

// PointInArea reports whether (x, y) lies inside or on the boundary of polygon,
// using the crossing-number test. Polygons with fewer than 3 vertices contain nothing.
func PointInArea(x, y int, polygon models.Polygon) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := polygon[i].X(), polygon[i].Y()
		xj, yj := polygon[j].X(), polygon[j].Y()

		if onSegment(x, y, xi, yi, xj, yj) {
			return true
		}

		if (yi > y) != (yj > y) {
			// x coordinate of the edge at height y, compared without division.
			lhs := (x - xi) * (yj - yi)
			rhs := (xj - xi) * (y - yi)
			if yj-yi > 0 {
				if lhs < rhs {
					inside = !inside
				}
			} else if lhs > rhs {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(px, py, ax, ay, bx, by int) bool {
	cross := (bx-ax)*(py-ay) - (by-ay)*(px-ax)
	if cross != 0 {
		return false
	}
	return px >= min(ax, bx) && px <= max(ax, bx) && py >= min(ay, by) && py <= max(ay, by)
}

// Cell returns the grid cell containing (x, y). Negative coordinates floor towards -inf.
func Cell(x, y, cellSize int) CellKey {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return CellKey{X: floorDiv(x, cellSize), Y: floorDiv(y, cellSize)}
}

// SnapToGrid buckets (x, y) into square cells of cellSize and returns the cell midpoint.
func SnapToGrid(x, y, cellSize int) (int, int) {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	c := Cell(x, y, cellSize)
	half := cellSize / 2
	return c.X*cellSize + half, c.Y*cellSize + half
}

// ContainingArea returns the index of the first area whose polygon contains
// (x, y), or -1.
func ContainingArea(x, y int, areas []models.Area) int {
	for i, a := range areas {
		if PointInArea(x, y, a.Polygon) {
			return i
		}
	}
	return -1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
