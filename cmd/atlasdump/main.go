// Command atlasdump rasterizes a set of glyphs into an atlas and writes
// the coverage canvas, a layout picture, and optionally a snapshot.
//
// Usage:
//
//	atlasdump -size 24 -range 0x20-0x7e -out atlas.png -layout layout.png
//	atlasdump -text "Hello" -snapshot hello.snap
//	atlasdump -verify hello.snap
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/unicode/runenames"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/atlas"
	"github.com/gogpu/glyphatlas/raster"
	"github.com/gogpu/glyphatlas/snapshot"
	"github.com/gogpu/glyphatlas/textatlas"
)

func main() {
	var (
		width    = flag.Int("width", 512, "atlas width")
		height   = flag.Int("height", 512, "atlas height")
		size     = flag.Float64("size", 16, "font size in pixels")
		edge     = flag.Int("edge", 1, "border around each glyph")
		fontFile = flag.String("font", "", "TrueType/OpenType font file (default Go Regular)")
		engine   = flag.String("engine", "opentype", "rasterizer: opentype or outline")
		text     = flag.String("text", "", "text whose glyphs are added")
		ranges   = flag.String("range", "0x20-0x7e", "codepoint ranges, e.g. 0x20-0x7e,0x391-0x3a9")
		out      = flag.String("out", "atlas.png", "coverage canvas PNG (empty to skip)")
		layout   = flag.String("layout", "", "layout PNG (empty to skip)")
		scale    = flag.Int("scale", 1, "layout PNG magnification")
		snapFile = flag.String("snapshot", "", "write a layout snapshot")
		verify   = flag.String("verify", "", "check a snapshot against the allocator and this run")
		names    = flag.Bool("names", false, "list placed glyphs with their Unicode names")
		logLevel = flag.String("log-level", "warn", "debug, info, warn or error")
		logFile  = flag.String("log-file", "", "write JSON logs to a rotated file instead of stderr")
	)
	flag.Parse()

	if err := setupLogging(*logLevel, *logFile); err != nil {
		log.Fatalf("atlasdump: %v", err)
	}

	runes, err := parseRanges(*ranges)
	if err != nil {
		log.Fatalf("atlasdump: -range: %v", err)
	}
	runes = appendText(runes, *text)

	face, err := loadFace(*fontFile, *engine, *size)
	if err != nil {
		log.Fatalf("atlasdump: %v", err)
	}

	cfg := textatlas.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Edge = *width, *height, *edge
	cfg.OnFull = textatlas.SkipOnFull
	cache, err := textatlas.New(cfg)
	if err != nil {
		log.Fatalf("atlasdump: %v", err)
	}
	cache.SetFont(0, face)

	var missing, full int
	for _, r := range runes {
		_, err := cache.Glyph(r, 0)
		switch {
		case err == nil:
		case errors.Is(err, raster.ErrNoGlyph):
			missing++
		case errors.Is(err, atlas.ErrAtlasFull):
			full++
		default:
			log.Fatalf("atlasdump: glyph %U: %v", r, err)
		}
	}

	a := cache.Atlas()
	log.Printf("%d glyphs placed, %d missing, %d did not fit, %d shelves, %.1f%% used",
		a.Len(), missing, full, len(a.Shelves()), 100*a.Utilization())

	if *out != "" {
		if err := writePNG(*out, cache.Canvas()); err != nil {
			log.Fatalf("atlasdump: %v", err)
		}
	}
	if *layout != "" {
		if err := writePNG(*layout, magnify(atlas.Visualize(a), *scale)); err != nil {
			log.Fatalf("atlasdump: %v", err)
		}
	}

	snap := snapshot.Take(a)
	if *snapFile != "" {
		if err := snap.WriteFile(*snapFile); err != nil {
			log.Fatalf("atlasdump: %v", err)
		}
	}
	if *names {
		listEntries(os.Stdout, a.Entries())
	}
	if *verify != "" {
		if !verifySnapshot(os.Stdout, *verify, snap) {
			os.Exit(1)
		}
	}
}

func setupLogging(level, file string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("-log-level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if file != "" {
		w := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    16, // MB
			MaxBackups: 2,
		}
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	glyphatlas.SetLogger(slog.New(h))
	return nil
}

func loadFace(file, engine string, size float64) (raster.Rasterizer, error) {
	ttf := goregular.TTF
	if file != "" {
		var err error
		if ttf, err = os.ReadFile(file); err != nil {
			return nil, err
		}
	}
	switch engine {
	case "opentype":
		return raster.NewFace(ttf, size)
	case "outline":
		return raster.NewOutlineFace(ttf, size)
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}

func writePNG(name string, img image.Image) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// magnify scales img by an integer factor without smoothing, so pixel
// boundaries stay visible.
func magnify(img image.Image, scale int) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func listEntries(w io.Writer, entries []atlas.Entry) {
	for _, e := range entries {
		name := runenames.Name(e.Key.Codepoint)
		if name == "" {
			name = "<unnamed>"
		}
		fmt.Fprintf(w, "%-8U %-40s font %d %v\n", e.Key.Codepoint, name, e.Key.Font, e.Footprint)
	}
}

// verifySnapshot replays the snapshot in file and compares it with the
// layout of this run. It reports whether both checks passed.
func verifySnapshot(w io.Writer, file string, current *snapshot.Snapshot) bool {
	want, err := snapshot.ReadFile(file)
	if err != nil {
		log.Fatalf("atlasdump: %v", err)
	}
	ok := true
	replayed, err := snapshot.Replay(want)
	if err != nil {
		log.Fatalf("atlasdump: %s: %v", file, err)
	}
	for _, m := range replayed {
		fmt.Fprintf(w, "replay: %v\n", m)
		ok = false
	}
	for _, m := range snapshot.Compare(want, current) {
		fmt.Fprintf(w, "this run: %v\n", m)
		ok = false
	}
	if ok {
		fmt.Fprintf(w, "%s: %d entries verified\n", file, len(want.Entries))
	}
	return ok
}
