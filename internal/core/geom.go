// Package core provides fundamental types and utilities shared by the game
// and the terminal platform. It contains no Bubble Tea dependencies to keep
// game logic pure and testable.
package core

import "math"

// Rect represents an axis-aligned rectangle of screen cells.
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

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Viewport maps world coordinates (y up, in world units) onto screen cells
// (y down). Terminal cells are about twice as tall as wide, so a world unit
// usually spans two columns and one row.
type Viewport struct {
	Width, Height int     // Size in cells
	ScaleX        float64 // Columns per world unit
	ScaleY        float64 // Rows per world unit
	CenterX       float64 // World x shown in the middle column
	Bottom        float64 // World y shown at the bottom edge
}

// NewViewport creates a viewport of the given size with the default cell
// aspect, centred on x = 0.
func NewViewport(width, height int) Viewport {
	return Viewport{Width: width, Height: height, ScaleX: 2, ScaleY: 1}
}

// VisibleHeight returns how many world units fit vertically.
func (v Viewport) VisibleHeight() float64 {
	if v.ScaleY <= 0 {
		return 0
	}
	return float64(v.Height) / v.ScaleY
}

// ToScreen converts a world point to a cell.
func (v Viewport) ToScreen(x, y float64) (int, int) {
	col := int(math.Floor(float64(v.Width)/2 + (x-v.CenterX)*v.ScaleX))
	row := v.Height - 1 - int(math.Floor((y-v.Bottom)*v.ScaleY))
	return col, row
}

// Project converts a world box given by its min and max corners to the
// cells it covers. Boxes smaller than a cell still cover one cell.
func (v Viewport) Project(minX, minY, maxX, maxY float64) Rect {
	x0 := int(math.Round(float64(v.Width)/2 + (minX-v.CenterX)*v.ScaleX))
	x1 := int(math.Round(float64(v.Width)/2 + (maxX-v.CenterX)*v.ScaleX))
	top := v.Height - int(math.Round((maxY-v.Bottom)*v.ScaleY))
	bottom := v.Height - int(math.Round((minY-v.Bottom)*v.ScaleY))
	return Rect{X: x0, Y: top, W: max(1, x1-x0), H: max(1, bottom-top)}
}

// Follow scrolls so that focus sits at most lead units below the top edge,
// never showing anything below floor.
func (v *Viewport) Follow(focus, lead, floor float64) {
	v.Bottom = math.Max(floor, focus+lead-v.VisibleHeight())
}
