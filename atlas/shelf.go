package atlas

// Shelf is a horizontal strip of the canvas.
// Its height is fixed by the first rectangle placed on it.
type Shelf struct {
	Y      int // top edge
	Height int
	NextX  int // first free column
}

// ShelfAllocator packs rectangles into a fixed canvas using shelves.
//
// Rectangles go on the first shelf, in creation order, that is tall
// enough and has enough width left. When none qualifies a new shelf is
// opened directly below the last one, with exactly the requested height.
// Placements never move; only Reset reclaims space.
//
// ShelfAllocator is not safe for concurrent use.
type ShelfAllocator struct {
	width   int
	height  int
	shelves []Shelf

	usedHeight int // sum of shelf heights
	usedArea   int
}

// NewShelfAllocator creates an allocator for a width×height canvas.
func NewShelfAllocator(width, height int) *ShelfAllocator {
	return &ShelfAllocator{
		width:   width,
		height:  height,
		shelves: make([]Shelf, 0, 16),
	}
}

// Allocate reserves a width×height rectangle.
// It returns false, leaving the allocator untouched, when the request
// cannot be placed. Requests larger than the canvas never fit.
func (a *ShelfAllocator) Allocate(width, height int) (Rect, bool) {
	if width <= 0 || height <= 0 || width > a.width || height > a.height {
		return Rect{}, false
	}

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.Height < height || a.width-s.NextX < width {
			continue
		}
		r := Rect{X: s.NextX, Y: s.Y, Width: width, Height: height}
		s.NextX += width
		a.usedArea += width * height
		return r, true
	}

	if a.height-a.usedHeight < height {
		return Rect{}, false
	}
	s := Shelf{Y: a.usedHeight, Height: height, NextX: width}
	a.shelves = append(a.shelves, s)
	a.usedHeight += height
	a.usedArea += width * height
	return Rect{X: 0, Y: s.Y, Width: width, Height: height}, true
}

// CanFit reports whether Allocate(width, height) would succeed.
func (a *ShelfAllocator) CanFit(width, height int) bool {
	if width <= 0 || height <= 0 || width > a.width || height > a.height {
		return false
	}
	for _, s := range a.shelves {
		if s.Height >= height && a.width-s.NextX >= width {
			return true
		}
	}
	return a.height-a.usedHeight >= height
}

// Reset discards every shelf. The backing storage is kept.
func (a *ShelfAllocator) Reset() {
	a.shelves = a.shelves[:0]
	a.usedHeight = 0
	a.usedArea = 0
}

// Width returns the canvas width.
func (a *ShelfAllocator) Width() int { return a.width }

// Height returns the canvas height.
func (a *ShelfAllocator) Height() int { return a.height }

// Shelves returns a copy of the shelves in creation order.
func (a *ShelfAllocator) Shelves() []Shelf {
	out := make([]Shelf, len(a.shelves))
	copy(out, a.shelves)
	return out
}

// ShelfCount returns the number of open shelves.
func (a *ShelfAllocator) ShelfCount() int {
	return len(a.shelves)
}

// UsedHeight returns the total height claimed by shelves.
func (a *ShelfAllocator) UsedHeight() int {
	return a.usedHeight
}

// RemainingHeight returns the height still available for new shelves.
func (a *ShelfAllocator) RemainingHeight() int {
	return a.height - a.usedHeight
}

// UsedArea returns the summed area of all allocated rectangles.
func (a *ShelfAllocator) UsedArea() int {
	return a.usedArea
}

// TotalArea returns the canvas area.
func (a *ShelfAllocator) TotalArea() int {
	return a.width * a.height
}

// Utilization returns UsedArea/TotalArea in [0, 1].
func (a *ShelfAllocator) Utilization() float64 {
	total := a.TotalArea()
	if total <= 0 {
		return 0
	}
	return float64(a.usedArea) / float64(total)
}
