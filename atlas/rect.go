package atlas

import (
	"fmt"
	"image"
)

// Rect is a rectangle in canvas pixel coordinates.
// The covered pixels are [X, X+Width) × [Y, Y+Height).
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// IsValid reports whether r has a positive area.
func (r Rect) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// Area returns Width*Height.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Contains reports whether the pixel (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Overlaps reports whether r and o share at least one pixel.
// Rects that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	if !r.IsValid() || !o.IsValid() {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Within reports whether r lies entirely inside a width×height canvas.
func (r Rect) Within(width, height int) bool {
	return r.X >= 0 && r.Y >= 0 && r.X+r.Width <= width && r.Y+r.Height <= height
}

// Inset shrinks r by n pixels on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, Width: r.Width - 2*n, Height: r.Height - 2*n}
}

// Outset grows r by n pixels on every side.
func (r Rect) Outset(n int) Rect {
	return r.Inset(-n)
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}
