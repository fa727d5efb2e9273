// Package core provides fundamental types and utilities for the game platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect is an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
// If min > max the range collapses onto its midpoint.
func ClampF(val, min, max float64) float64 {
	if min > max {
		return (min + max) / 2
	}
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Viewport maps a continuous play field onto a grid of screen cells.
type Viewport struct {
	FieldW, FieldH float64 // play field size in world units
	Cells          Rect    // target area on screen
}

// CellX converts a world x coordinate to a screen column.
func (v Viewport) CellX(x float64) int {
	if v.FieldW <= 0 {
		return v.Cells.X
	}
	return v.Cells.X + int(math.Floor(x/v.FieldW*float64(v.Cells.W)))
}

// CellY converts a world y coordinate to a screen row.
func (v Viewport) CellY(y float64) int {
	if v.FieldH <= 0 {
		return v.Cells.Y
	}
	return v.Cells.Y + int(math.Floor(y/v.FieldH*float64(v.Cells.H)))
}

// CellW converts a world width to a number of columns, at least one.
func (v Viewport) CellW(w float64) int {
	if v.FieldW <= 0 {
		return 1
	}
	return max(1, int(math.Round(w/v.FieldW*float64(v.Cells.W))))
}

// CellH converts a world height to a number of rows, at least one.
func (v Viewport) CellH(h float64) int {
	if v.FieldH <= 0 {
		return 1
	}
	return max(1, int(math.Round(h/v.FieldH*float64(v.Cells.H))))
}

// FieldX converts a screen column back to the world x at the column center.
func (v Viewport) FieldX(col int) float64 {
	if v.Cells.W <= 0 {
		return 0
	}
	return (float64(col-v.Cells.X) + 0.5) / float64(v.Cells.W) * v.FieldW
}
