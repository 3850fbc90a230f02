package atlas

import "testing"

func TestShelfAllocator_FirstRow(t *testing.T) {
	a := NewShelfAllocator(100, 100)

	r, ok := a.Allocate(20, 10)
	if !ok {
		t.Fatal("failed to allocate first rect")
	}
	if r != (Rect{X: 0, Y: 0, Width: 20, Height: 10}) {
		t.Errorf("first rect = %v, want (0,0 20x10)", r)
	}

	r, ok = a.Allocate(30, 10)
	if !ok {
		t.Fatal("failed to allocate second rect")
	}
	if r.X != 20 || r.Y != 0 {
		t.Errorf("second rect at (%d,%d), want (20,0)", r.X, r.Y)
	}
	if a.ShelfCount() != 1 {
		t.Errorf("ShelfCount = %d, want 1", a.ShelfCount())
	}
}

func TestShelfAllocator_NewShelfBelow(t *testing.T) {
	a := NewShelfAllocator(50, 100)

	a.Allocate(30, 12)
	r, ok := a.Allocate(30, 12) // 30+30 > 50
	if !ok {
		t.Fatal("failed to allocate on a new shelf")
	}
	if r.X != 0 || r.Y != 12 {
		t.Errorf("rect at (%d,%d), want (0,12)", r.X, r.Y)
	}
	if a.UsedHeight() != 24 {
		t.Errorf("UsedHeight = %d, want 24", a.UsedHeight())
	}
	if a.RemainingHeight() != 76 {
		t.Errorf("RemainingHeight = %d, want 76", a.RemainingHeight())
	}
}

func TestShelfAllocator_ShelfHeightIsFirstRect(t *testing.T) {
	a := NewShelfAllocator(100, 100)

	a.Allocate(10, 8)
	// Taller than the shelf: must open a new shelf even though
	// the first one has width left.
	r, ok := a.Allocate(10, 9)
	if !ok {
		t.Fatal("allocation failed")
	}
	if r.Y != 8 || r.X != 0 {
		t.Errorf("taller rect at (%d,%d), want (0,8)", r.X, r.Y)
	}

	shelves := a.Shelves()
	if len(shelves) != 2 {
		t.Fatalf("len(shelves) = %d, want 2", len(shelves))
	}
	if shelves[0].Height != 8 || shelves[1].Height != 9 {
		t.Errorf("shelf heights = %d,%d, want 8,9", shelves[0].Height, shelves[1].Height)
	}
}

func TestShelfAllocator_FirstFitNotBestFit(t *testing.T) {
	a := NewShelfAllocator(100, 100)

	a.Allocate(10, 30) // shelf 0: height 30
	a.Allocate(10, 5)  // fits shelf 0 (first fit)
	shelves := a.Shelves()
	if len(shelves) != 1 {
		t.Fatalf("len(shelves) = %d, want 1", len(shelves))
	}
	if shelves[0].NextX != 20 {
		t.Errorf("NextX = %d, want 20", shelves[0].NextX)
	}

	// Shelf 0 is now out of width, so short rects open shelf 1 and
	// then keep using it.
	a.Allocate(80, 30)
	r, _ := a.Allocate(10, 5)
	if r.Y != 30 {
		t.Errorf("short rect Y = %d, want 30", r.Y)
	}
	r, _ = a.Allocate(10, 4)
	if r.Y != 30 || r.X != 10 {
		t.Errorf("second short rect at (%d,%d), want (10,30)", r.X, r.Y)
	}
}

func TestShelfAllocator_EarlierShelfReused(t *testing.T) {
	a := NewShelfAllocator(40, 100)

	a.Allocate(30, 10) // shelf 0, 10 px left
	a.Allocate(30, 10) // shelf 1
	r, ok := a.Allocate(10, 10)
	if !ok {
		t.Fatal("allocation failed")
	}
	if r.X != 30 || r.Y != 0 {
		t.Errorf("rect at (%d,%d), want the gap on shelf 0 at (30,0)", r.X, r.Y)
	}
}

func TestShelfAllocator_Full(t *testing.T) {
	a := NewShelfAllocator(50, 50)

	count := 0
	for {
		if _, ok := a.Allocate(20, 20); !ok {
			break
		}
		count++
		if count > 100 {
			t.Fatal("allocator never filled up")
		}
	}
	if count != 4 {
		t.Errorf("allocations = %d, want 4", count)
	}
}

func TestShelfAllocator_ExactFit(t *testing.T) {
	a := NewShelfAllocator(32, 32)

	if _, ok := a.Allocate(32, 32); !ok {
		t.Fatal("canvas-sized rect should fit an empty allocator")
	}
	if _, ok := a.Allocate(1, 1); ok {
		t.Error("allocation after exact fill should fail")
	}
	if a.Utilization() != 1 {
		t.Errorf("Utilization = %f, want 1", a.Utilization())
	}
}

func TestShelfAllocator_OversizedDoesNotMutate(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"too wide", 65, 1},
		{"too tall", 1, 65},
		{"both", 100, 100},
		{"zero width", 0, 4},
		{"negative height", 4, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewShelfAllocator(64, 64)
			a.Allocate(10, 10)
			before := a.Shelves()

			if _, ok := a.Allocate(tt.w, tt.h); ok {
				t.Fatalf("Allocate(%d, %d) succeeded, want Full", tt.w, tt.h)
			}
			after := a.Shelves()
			if len(after) != len(before) || after[0] != before[0] {
				t.Errorf("shelves changed: before %v, after %v", before, after)
			}
			if a.UsedArea() != 100 {
				t.Errorf("UsedArea = %d, want 100", a.UsedArea())
			}
		})
	}
}

func TestShelfAllocator_CanFit(t *testing.T) {
	a := NewShelfAllocator(20, 20)

	if !a.CanFit(20, 20) {
		t.Error("CanFit(20,20) on empty allocator = false")
	}
	if a.CanFit(21, 1) {
		t.Error("CanFit(21,1) = true for a 20-wide canvas")
	}
	a.Allocate(15, 15)
	if !a.CanFit(5, 5) {
		t.Error("CanFit(5,5) = false, room remains on shelf 0")
	}
	if a.CanFit(6, 6) {
		t.Error("CanFit(6,6) = true, but neither shelf 0 nor new shelf has room")
	}
	if a.ShelfCount() != 1 || a.UsedArea() != 225 {
		t.Error("CanFit must not mutate the allocator")
	}
}

func TestShelfAllocator_Reset(t *testing.T) {
	a := NewShelfAllocator(64, 64)
	a.Allocate(10, 10)
	a.Allocate(64, 20)

	a.Reset()

	if a.ShelfCount() != 0 {
		t.Errorf("ShelfCount after Reset = %d, want 0", a.ShelfCount())
	}
	if a.UsedHeight() != 0 || a.UsedArea() != 0 {
		t.Errorf("UsedHeight=%d UsedArea=%d after Reset, want 0", a.UsedHeight(), a.UsedArea())
	}
	r, ok := a.Allocate(64, 64)
	if !ok || r != (Rect{Width: 64, Height: 64}) {
		t.Errorf("Allocate after Reset = %v, %v; want whole canvas", r, ok)
	}
}

func TestShelfAllocator_ShelvesIsCopy(t *testing.T) {
	a := NewShelfAllocator(64, 64)
	a.Allocate(10, 10)

	s := a.Shelves()
	s[0].NextX = 999

	if a.Shelves()[0].NextX != 10 {
		t.Error("mutating Shelves() result changed allocator state")
	}
}

func BenchmarkShelfAllocator_Allocate(b *testing.B) {
	a := NewShelfAllocator(2048, 2048)
	b.ReportAllocs()
	for b.Loop() {
		if _, ok := a.Allocate(12, 18); !ok {
			a.Reset()
		}
	}
}
