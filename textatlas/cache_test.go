package textatlas

import (
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/glyphatlas/atlas"
	"github.com/gogpu/glyphatlas/raster"
)

// fakeFace draws every known rune as a solid box. ' ' is blank and runes
// outside glyphs are missing.
type fakeFace struct {
	glyphs     map[rune]raster.Metrics
	fill       byte
	measured   int
	rasterized int
}

func newFakeFace(runes string, w, h int) *fakeFace {
	f := &fakeFace{glyphs: make(map[rune]raster.Metrics), fill: 0xff}
	for _, r := range runes {
		f.glyphs[r] = raster.Metrics{Width: w, Height: h, Ascent: h - 2, Advance: w + 1}
	}
	f.glyphs[' '] = raster.Metrics{Width: w, Height: h, Ascent: h - 2, Advance: w}
	return f
}

func (f *fakeFace) Measure(r rune) (raster.Metrics, error) {
	f.measured++
	m, ok := f.glyphs[r]
	if !ok {
		return raster.Metrics{}, raster.ErrNoGlyph
	}
	return m, nil
}

func (f *fakeFace) Rasterize(r rune, dst []byte) error {
	f.rasterized++
	m, ok := f.glyphs[r]
	if !ok {
		return raster.ErrNoGlyph
	}
	if len(dst) != m.BufferSize() {
		return raster.ErrBufferSize
	}
	var v byte
	if r != ' ' {
		v = f.fill
	}
	for i := range dst {
		dst[i] = v
	}
	return nil
}

type upload struct {
	rect image.Rectangle
	rows [][]byte
}

type fakeUploader struct {
	uploads []upload
	err     error
}

func (u *fakeUploader) UploadAtlas(pix []byte, stride int, r image.Rectangle) error {
	if u.err != nil {
		return u.err
	}
	up := upload{rect: r}
	for y := range r.Dy() {
		row := make([]byte, r.Dx())
		copy(row, pix[y*stride:])
		up.rows = append(up.rows, row)
	}
	u.uploads = append(u.uploads, up)
	return nil
}

// smallCache returns a 20x20 cache with edge 1 and 8x8 glyphs, which
// holds exactly four glyphs.
func smallCache(t *testing.T, policy FullPolicy) (*Cache, *fakeFace) {
	t.Helper()
	cfg := Config{Width: 20, Height: 20, Edge: 1, MaskCacheSize: 16, OnFull: policy}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New = %v", err)
	}
	f := newFakeFace("abcdefgh", 8, 8)
	c.SetFont(0, f)
	return c, f
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"default", func(*Config) {}, ""},
		{"zero edge", func(c *Config) { c.Edge = 0 }, ""},
		{"no mask cache", func(c *Config) { c.MaskCacheSize = 0 }, ""},
		{"zero width", func(c *Config) { c.Width = 0 }, "Width"},
		{"huge height", func(c *Config) { c.Height = MaxCanvasSize + 1 }, "Height"},
		{"negative edge", func(c *Config) { c.Edge = -1 }, "Edge"},
		{"edge eats canvas", func(c *Config) { c.Width, c.Edge = 8, 4 }, "Edge"},
		{"negative mask cache", func(c *Config) { c.MaskCacheSize = -1 }, "MaskCacheSize"},
		{"bad policy", func(c *Config) { c.OnFull = 7 }, "OnFull"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate = %v", err)
				}
				return
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Width: -1, Height: 10}); err == nil {
		t.Fatal("New accepted a negative width")
	}
}

func TestFullPolicy_String(t *testing.T) {
	if FlushAndRetry.String() != "FlushAndRetry" || SkipOnFull.String() != "SkipOnFull" {
		t.Error("policy names")
	}
	if FullPolicy(9).String() != "FullPolicy(9)" {
		t.Errorf("unknown policy = %q", FullPolicy(9).String())
	}
}

func TestGlyph_MissThenHit(t *testing.T) {
	c, f := smallCache(t, FlushAndRetry)

	g, err := c.Glyph('a', 0)
	if err != nil {
		t.Fatalf("Glyph = %v", err)
	}
	want := atlas.Rect{X: 1, Y: 1, Width: 8, Height: 8}
	if g.Rect != want {
		t.Errorf("Rect = %v, want %v", g.Rect, want)
	}
	if g.Blank() || g.Metrics.Advance != 9 || g.Generation != 0 {
		t.Errorf("Glyph = %+v", g)
	}

	again, err := c.Glyph('a', 0)
	if err != nil || again != g {
		t.Fatalf("second Glyph = %+v, %v", again, err)
	}
	if f.rasterized != 1 {
		t.Errorf("rasterized %d times, want 1", f.rasterized)
	}

	// Glyph box is filled, the edge around it untouched.
	px := c.Canvas()
	if v := px.AlphaAt(1, 1).A; v != 0xff {
		t.Errorf("glyph pixel = %#x", v)
	}
	if v := px.AlphaAt(8, 8).A; v != 0xff {
		t.Errorf("glyph corner = %#x", v)
	}
	for _, p := range []image.Point{{0, 0}, {9, 1}, {1, 9}, {9, 9}} {
		if v := px.AlphaAt(p.X, p.Y).A; v != 0 {
			t.Errorf("edge pixel %v = %#x", p, v)
		}
	}
}

func TestGlyph_Blank(t *testing.T) {
	c, f := smallCache(t, FlushAndRetry)

	g, err := c.Glyph(' ', 0)
	if err != nil {
		t.Fatalf("Glyph(' ') = %v", err)
	}
	if !g.Blank() || g.Metrics.Advance != 8 {
		t.Errorf("Glyph(' ') = %+v", g)
	}
	if c.Atlas().Len() != 0 {
		t.Error("blank glyph took atlas space")
	}
	if _, err := c.Glyph(' ', 0); err != nil {
		t.Fatal(err)
	}
	if f.measured != 1 {
		t.Errorf("blank glyph measured %d times, want 1", f.measured)
	}
	if c.Stats().Blank != 1 {
		t.Errorf("Stats.Blank = %d", c.Stats().Blank)
	}
}

func TestGlyph_Errors(t *testing.T) {
	c, _ := smallCache(t, FlushAndRetry)

	if _, err := c.Glyph('z', 0); !errors.Is(err, raster.ErrNoGlyph) {
		t.Errorf("missing glyph error = %v, want ErrNoGlyph", err)
	}
	if _, err := c.Glyph('a', 3); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("unknown font error = %v, want ErrUnknownFont", err)
	}
	if c.Atlas().Len() != 0 {
		t.Error("failed lookups inserted glyphs")
	}
}

func TestGlyph_FlushAndRetry(t *testing.T) {
	c, _ := smallCache(t, FlushAndRetry)
	for _, r := range "abcd" {
		if _, err := c.Glyph(r, 0); err != nil {
			t.Fatalf("Glyph(%q) = %v", r, err)
		}
	}

	g, err := c.Glyph('e', 0)
	if err != nil {
		t.Fatalf("Glyph('e') = %v", err)
	}
	if g.Generation != 1 || c.Generation() != 1 {
		t.Errorf("generation = %d/%d, want 1", g.Generation, c.Generation())
	}
	if g.Rect != (atlas.Rect{X: 1, Y: 1, Width: 8, Height: 8}) {
		t.Errorf("Rect after flush = %v", g.Rect)
	}
	if _, ok := c.Atlas().Lookup('a', 0, 1); ok {
		t.Error("'a' survived the flush")
	}
	if s := c.Stats(); s.AutoFlushes != 1 || s.Atlas.Flushes != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestGlyph_SkipOnFull(t *testing.T) {
	c, _ := smallCache(t, SkipOnFull)
	for _, r := range "abcd" {
		if _, err := c.Glyph(r, 0); err != nil {
			t.Fatalf("Glyph(%q) = %v", r, err)
		}
	}

	g, err := c.Glyph('e', 0)
	if !errors.Is(err, atlas.ErrAtlasFull) {
		t.Fatalf("Glyph('e') error = %v, want ErrAtlasFull", err)
	}
	if g.Metrics.Advance != 9 {
		t.Errorf("Full glyph lost its metrics: %+v", g)
	}
	if c.Generation() != 0 || c.Atlas().Len() != 4 {
		t.Error("SkipOnFull changed the atlas")
	}
}

func TestGlyph_OversizedNeverFlushes(t *testing.T) {
	c, _ := smallCache(t, FlushAndRetry)
	big := newFakeFace("W", 30, 12)
	c.SetFont(1, big)
	if _, err := c.Glyph('a', 0); err != nil {
		t.Fatal(err)
	}

	_, err := c.Glyph('W', 1)
	if !errors.Is(err, atlas.ErrOversized) || !errors.Is(err, atlas.ErrAtlasFull) {
		t.Fatalf("oversized error = %v", err)
	}
	if c.Generation() != 0 || c.Atlas().Len() != 1 {
		t.Error("oversized request flushed the atlas")
	}
}

func TestGlyph_MaskCache(t *testing.T) {
	for _, size := range []int{0, 16} {
		cfg := Config{Width: 20, Height: 20, Edge: 1, MaskCacheSize: size}
		c, err := New(cfg)
		if err != nil {
			t.Fatal(err)
		}
		f := newFakeFace("ab", 8, 8)
		c.SetFont(0, f)

		c.Glyph('a', 0)
		c.Flush()
		g, err := c.Glyph('a', 0)
		if err != nil {
			t.Fatal(err)
		}
		if c.Canvas().AlphaAt(g.Rect.X, g.Rect.Y).A != 0xff {
			t.Errorf("size %d: glyph not redrawn after flush", size)
		}

		want := 2
		if size > 0 {
			want = 1
		}
		if f.rasterized != want {
			t.Errorf("size %d: rasterized %d times, want %d", size, f.rasterized, want)
		}
	}
}

func TestSetFont_ReplaceFlushes(t *testing.T) {
	c, _ := smallCache(t, FlushAndRetry)
	c.Glyph('a', 0)

	dim := newFakeFace("a", 8, 8)
	dim.fill = 0x40
	c.SetFont(0, dim)
	if c.Generation() != 1 || c.Atlas().Len() != 0 {
		t.Fatal("replacing a font did not flush")
	}

	g, err := c.Glyph('a', 0)
	if err != nil {
		t.Fatal(err)
	}
	if dim.rasterized != 1 {
		t.Error("old mask reused after font replacement")
	}
	if v := c.Canvas().AlphaAt(g.Rect.X, g.Rect.Y).A; v != 0x40 {
		t.Errorf("pixel = %#x, want the new face", v)
	}

	// Adding a new id does not flush.
	c.SetFont(5, newFakeFace("a", 8, 8))
	if c.Generation() != 1 {
		t.Error("adding a font flushed")
	}

	c.SetFont(5, nil)
	if _, err := c.Glyph('a', 5); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("removed font error = %v", err)
	}
}

func TestRemoveFont(t *testing.T) {
	c, f := smallCache(t, FlushAndRetry)
	c.SetFont(1, newFakeFace("a", 8, 8))
	if _, err := c.Glyph('a', 0); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Glyph(' ', 0); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Glyph('a', 1); err != nil {
		t.Fatal(err)
	}

	c.RemoveFont(0)

	// Both the placed glyph and the remembered blank are refused.
	for _, r := range "a " {
		g, err := c.Glyph(r, 0)
		if !errors.Is(err, ErrUnknownFont) {
			t.Errorf("Glyph(%q) after RemoveFont error = %v, want ErrUnknownFont", r, err)
		}
		if g.Rect.IsValid() {
			t.Errorf("Glyph(%q) after RemoveFont returned rect %v", r, g.Rect)
		}
	}
	if c.Generation() != 0 || c.Atlas().Len() != 2 {
		t.Errorf("RemoveFont changed the atlas: generation %d, %d glyphs", c.Generation(), c.Atlas().Len())
	}

	// Other fonts are untouched.
	g, err := c.Glyph('a', 1)
	if err != nil || g.Metrics.Advance != 9 {
		t.Errorf("Glyph('a', 1) = %+v, %v", g, err)
	}

	// Registering the id again drops the stale placements and
	// rasterizes afresh with full metrics.
	c.SetFont(0, f)
	if c.Generation() != 1 {
		t.Errorf("re-registering a removed font did not flush")
	}
	g, err = c.Glyph('a', 0)
	if err != nil {
		t.Fatal(err)
	}
	if g.Metrics != (raster.Metrics{Width: 8, Height: 8, Ascent: 6, Advance: 9}) {
		t.Errorf("Metrics after re-register = %+v", g.Metrics)
	}
	if f.rasterized != 2 {
		t.Errorf("rasterized %d times, want 2", f.rasterized)
	}

	// After a flush, registering a removed id does not flush again.
	c.RemoveFont(1)
	c.Flush()
	c.SetFont(1, newFakeFace("a", 8, 8))
	if c.Generation() != 2 {
		t.Errorf("generation = %d, want 2", c.Generation())
	}
}

func TestAppendText_RemovedFont(t *testing.T) {
	c, _ := smallCache(t, FlushAndRetry)
	c.Glyph('a', 0)
	c.RemoveFont(0)
	if _, _, err := c.AppendText(nil, "a", 0, mgl32.Vec2{}); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("AppendText after RemoveFont error = %v, want ErrUnknownFont", err)
	}
}

func TestSync(t *testing.T) {
	c, _ := smallCache(t, FlushAndRetry)
	u := &fakeUploader{}

	// The first upload covers the whole canvas.
	if r, ok := c.Dirty(); !ok || r != image.Rect(0, 0, 20, 20) {
		t.Fatalf("initial Dirty = %v, %v", r, ok)
	}
	if err := c.Sync(u); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Dirty(); ok || c.Atlas().Dirty() {
		t.Fatal("still dirty after Sync")
	}

	c.Glyph('a', 0)
	if err := c.Sync(u); err != nil {
		t.Fatal(err)
	}
	if len(u.uploads) != 2 {
		t.Fatalf("%d uploads, want 2", len(u.uploads))
	}
	up := u.uploads[1]
	if up.rect != image.Rect(0, 0, 10, 10) {
		t.Errorf("upload rect = %v, want the footprint", up.rect)
	}
	if up.rows[0][0] != 0 || up.rows[1][0] != 0 || up.rows[1][1] != 0xff || up.rows[8][8] != 0xff || up.rows[9][9] != 0 {
		t.Errorf("upload rows = %v", up.rows)
	}

	// Nothing changed, nothing sent.
	if err := c.Sync(u); err != nil || len(u.uploads) != 2 {
		t.Errorf("clean Sync uploaded: %d, %v", len(u.uploads), err)
	}

	c.Glyph('b', 0)
	if r, _ := c.Dirty(); r != image.Rect(10, 0, 20, 10) {
		t.Errorf("Dirty after 'b' = %v", r)
	}

	fail := &fakeUploader{err: errors.New("device lost")}
	if err := c.Sync(fail); err == nil {
		t.Fatal("Sync ignored the upload error")
	}
	if _, ok := c.Dirty(); !ok {
		t.Error("failed Sync cleared the dirty region")
	}

	c.Flush()
	if r, _ := c.Dirty(); r != c.Canvas().Bounds() {
		t.Errorf("Dirty after flush = %v", r)
	}
	for _, v := range c.Canvas().Pix {
		if v != 0 {
			t.Fatal("flush left pixels on the canvas")
		}
	}
	if s := c.Stats(); s.Uploads != 2 {
		t.Errorf("Stats.Uploads = %d", s.Uploads)
	}
}

func BenchmarkGlyph_Hit(b *testing.B) {
	c, err := New(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	c.SetFont(0, newFakeFace("a", 12, 16))
	c.Glyph('a', 0)
	b.ReportAllocs()
	for b.Loop() {
		_, _ = c.Glyph('a', 0)
	}
}
