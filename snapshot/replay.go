package snapshot

import (
	"fmt"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/atlas"
)

// Mismatch is one entry whose placement differs between two layouts.
// A zero Want or Got means the entry is missing on that side.
type Mismatch struct {
	Index int
	Key   atlas.GlyphKey
	Want  atlas.Rect
	Got   atlas.Rect
}

func (m Mismatch) String() string {
	return fmt.Sprintf("#%d %v: want %v, got %v", m.Index, m.Key, m.Want, m.Got)
}

// Compare lists the positions, in insertion order, where got differs
// from want: a different footprint, a different key, or an entry present
// on one side only.
func Compare(want, got *Snapshot) []Mismatch {
	var out []Mismatch
	for i := range max(len(want.Entries), len(got.Entries)) {
		m := Mismatch{Index: i}
		inWant, inGot := i < len(want.Entries), i < len(got.Entries)
		if inGot {
			m.Key = got.Entries[i].Key()
			m.Got = got.Entries[i].Footprint()
		}
		if inWant {
			m.Key = want.Entries[i].Key()
			m.Want = want.Entries[i].Footprint()
		}
		if !inWant || !inGot || m.Want != m.Got || want.Entries[i].Key() != got.Entries[i].Key() {
			out = append(out, m)
		}
	}
	return out
}

// Replay allocates the recorded footprints, in order, with a fresh shelf
// allocator of the recorded size and returns every placement that came
// out differently. A corrupt snapshot is an error.
func Replay(s *Snapshot) ([]Mismatch, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	alloc := atlas.NewShelfAllocator(s.Width, s.Height)
	var out []Mismatch
	for i, e := range s.Entries {
		want := e.Footprint()
		got, _ := alloc.Allocate(want.Width, want.Height)
		if got != want {
			out = append(out, Mismatch{Index: i, Key: e.Key(), Want: want, Got: got})
		}
	}
	if len(out) > 0 {
		glyphatlas.Logger().Debug("snapshot: replay differs",
			"entries", len(s.Entries), "mismatches", len(out))
	}
	return out, nil
}

// Restore rebuilds an atlas holding the recorded glyphs. Footprints are
// restored as recorded, so lookups pass the edge the glyphs were first
// inserted with. The generation starts over at 0.
func Restore(s *Snapshot) (*atlas.Atlas, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	a, err := atlas.New(s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	for i, e := range s.Entries {
		want := e.Footprint()
		got, err := a.InsertKey(e.Key(), want.Width, want.Height, 0)
		if err != nil {
			return nil, fmt.Errorf("snapshot: restore entry %d: %w", i, err)
		}
		if got != want {
			return nil, fmt.Errorf("%w: entry %d restored at %v, recorded at %v", ErrCorrupt, i, got, want)
		}
	}
	a.MarkClean()
	return a, nil
}
