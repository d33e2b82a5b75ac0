package spritefont

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/mochifont/spritefont/internal/rasterimg"
)

// fakeFace is a synthetic faceSource fixture standing in for a real
// parsed font: BuildSimple/BuildContour/BuildOutlined's orchestration is
// exercised by driving buildFromFace directly rather than parsing a
// real font file.
type fakeFace struct {
	runes    []rune
	glyphIdx map[rune]sfnt.GlyphIndex
	outlines map[sfnt.GlyphIndex]sfnt.Segments
	advances map[sfnt.GlyphIndex]fixed.Int26_6

	ascender   fixed.Int26_6
	lineHeight fixed.Int26_6
}

func (f *fakeFace) NumGlyphs() int                     { return len(f.runes) }
func (f *fakeFace) Ascender() (fixed.Int26_6, error)    { return f.ascender, nil }
func (f *fakeFace) LineHeight() (fixed.Int26_6, error)  { return f.lineHeight, nil }
func (f *fakeFace) FirstRune() (rune, bool)             { return f.NextRune(-1) }

func (f *fakeFace) NextRune(prev rune) (rune, bool) {
	best := rune(-1)
	found := false
	for _, r := range f.runes {
		if r > prev && (!found || r < best) {
			best, found = r, true
		}
	}
	return best, found
}

func (f *fakeFace) GlyphIndex(r rune) (sfnt.GlyphIndex, error) {
	return f.glyphIdx[r], nil // zero value (not present) is a valid "no glyph" result
}

func (f *fakeFace) LoadOutline(gi sfnt.GlyphIndex) (sfnt.Segments, error) {
	segs, ok := f.outlines[gi]
	if !ok {
		return nil, fmt.Errorf("fakeFace: no outline for glyph %d", gi)
	}
	return segs, nil
}

func (f *fakeFace) Advance(gi sfnt.GlyphIndex) (fixed.Int26_6, error) {
	adv, ok := f.advances[gi]
	if !ok {
		return 0, fmt.Errorf("fakeFace: no advance for glyph %d", gi)
	}
	return adv, nil
}

func squareOutline(size int) sfnt.Segments {
	s := fixed.I(size)
	return sfnt.Segments{
		{Op: sfnt.SegmentOpMoveTo, Args: [3]fixed.Point26_6{{X: 0, Y: 0}}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{{X: s, Y: 0}}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{{X: s, Y: s}}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{{X: 0, Y: s}}},
		{Op: sfnt.SegmentOpLineTo, Args: [3]fixed.Point26_6{{X: 0, Y: 0}}},
	}
}

// newFakeFace exposes three code points: 'A' and 'B' both render
// cleanly; 'C' maps to a valid glyph index but has no registered
// outline, so its render fails and it must be skipped without aborting
// the rest of the build.
func newFakeFace() *fakeFace {
	outline := squareOutline(10)
	return &fakeFace{
		runes:    []rune{'A', 'B', 'C'},
		glyphIdx: map[rune]sfnt.GlyphIndex{'A': 1, 'B': 2, 'C': 3},
		outlines: map[sfnt.GlyphIndex]sfnt.Segments{1: outline, 2: outline},
		advances: map[sfnt.GlyphIndex]fixed.Int26_6{1: fixed.I(12), 2: fixed.I(12), 3: fixed.I(12)},
		ascender: fixed.I(16), lineHeight: fixed.I(20),
	}
}

func simpleRender(face faceSource, r rune, gi sfnt.GlyphIndex, ascenderPx int) (*renderedGlyph, error) {
	return renderSimple(face, r, gi, true, 0, ascenderPx)
}

func whiteColorize(img *rasterimg.Image) *rasterimg.Image { return img.ToRGBA(0xFFFFFFFF) }

func TestBuildFromFacePacksRenderableGlyphsAndSkipsBad(t *testing.T) {
	face := newFakeFace()
	base := BaseSettings{SrcPath: "fake.ttf", Height: 10, AntiAliasing: true, TextureSize: Size{Width: 64, Height: 64}}

	font, err := buildFromFace(face, "fake.ttf", base, 0, 1, simpleRender, whiteColorize, nil)
	if err != nil {
		t.Fatalf("buildFromFace: %v", err)
	}

	if _, ok := font.Glyph('C'); ok {
		t.Fatalf("glyph C has no outline and must be skipped")
	}
	for _, r := range []rune{'A', 'B'} {
		g, ok := font.Glyph(r)
		if !ok {
			t.Fatalf("missing glyph %q", r)
		}
		if g.Rect.W == 0 || g.Rect.H == 0 {
			t.Fatalf("glyph %q has zero-size rect", r)
		}
		if int(g.Page) < 0 || int(g.Page) >= len(font.Textures()) {
			t.Fatalf("glyph %q page %d out of range (%d textures)", r, g.Page, len(font.Textures()))
		}
	}

	a, _ := font.Glyph('A')
	b, _ := font.Glyph('B')
	if a.Page == b.Page {
		ar := a.Rect
		br := b.Rect
		overlap := ar.X < br.X+br.W && br.X < ar.X+ar.W && ar.Y < br.Y+br.H && br.Y < ar.Y+ar.H
		if overlap {
			t.Fatalf("glyph rects overlap: %+v vs %+v", ar, br)
		}
	}
}

func TestBuildFromFaceLineHeightAtLeastOne(t *testing.T) {
	face := newFakeFace()
	face.lineHeight = 0
	base := BaseSettings{SrcPath: "fake.ttf", Height: 10, AntiAliasing: true, TextureSize: Size{Width: 64, Height: 64}}
	font, err := buildFromFace(face, "fake.ttf", base, 0, 1, simpleRender, whiteColorize, nil)
	if err != nil {
		t.Fatalf("buildFromFace: %v", err)
	}
	if font.LineHeight() < 1 {
		t.Fatalf("LineHeight() = %d, want >= 1", font.LineHeight())
	}
}

func TestBuildFromFaceNoRenderableGlyphsReturnsErrNoGlyphs(t *testing.T) {
	face := &fakeFace{ascender: fixed.I(16), lineHeight: fixed.I(20)}
	base := BaseSettings{SrcPath: "empty.ttf", Height: 10, TextureSize: Size{Width: 64, Height: 64}}
	font, err := buildFromFace(face, "empty.ttf", base, 0, 1, simpleRender, whiteColorize, nil)
	if !errors.Is(err, ErrNoGlyphs) {
		t.Fatalf("err = %v, want ErrNoGlyphs", err)
	}
	if font == nil {
		t.Fatalf("expected a non-nil, empty SpriteFont alongside ErrNoGlyphs")
	}
	if len(font.Glyphs()) != 0 || len(font.Textures()) != 0 {
		t.Fatalf("expected an empty font, got %d glyphs, %d textures", len(font.Glyphs()), len(font.Textures()))
	}
}

func TestBuildFromFaceRecordsElapsed(t *testing.T) {
	face := newFakeFace()
	base := BaseSettings{SrcPath: "fake.ttf", Height: 10, AntiAliasing: true, TextureSize: Size{Width: 64, Height: 64}}
	var elapsed time.Duration
	if _, err := buildFromFace(face, "fake.ttf", base, 0, 1, simpleRender, whiteColorize, &elapsed); err != nil {
		t.Fatalf("buildFromFace: %v", err)
	}
	if elapsed < 0 {
		t.Fatalf("elapsed = %v, want >= 0", elapsed)
	}
}

func TestBuildContourWidensLineHeightAndAdvance(t *testing.T) {
	face := newFakeFace()
	base := BaseSettings{SrcPath: "fake.ttf", Height: 10, AntiAliasing: true, TextureSize: Size{Width: 64, Height: 64}}

	simple, err := buildFromFace(face, "fake.ttf", base, 0, 1, simpleRender, whiteColorize, nil)
	if err != nil {
		t.Fatalf("simple build: %v", err)
	}

	contourRender := func(face faceSource, r rune, gi sfnt.GlyphIndex, ascenderPx int) (*renderedGlyph, error) {
		return renderContour(face, r, gi, true, 2, 0, ascenderPx)
	}
	contour, err := buildFromFace(face, "fake.ttf", base, 2, 1, contourRender, whiteColorize, nil)
	if err != nil {
		t.Fatalf("contour build: %v", err)
	}

	if contour.LineHeight() != simple.LineHeight()+2 {
		t.Fatalf("contour line height = %d, want simple + 2 = %d", contour.LineHeight(), simple.LineHeight()+2)
	}
	sa, _ := simple.Glyph('A')
	ca, _ := contour.Glyph('A')
	if ca.AdvanceX != sa.AdvanceX+2 {
		t.Fatalf("contour advance_x = %d, want simple + 2 = %d", ca.AdvanceX, sa.AdvanceX+2)
	}
}

func TestBuildFromFaceOutlinedWidensLineHeightAndProducesRGBAPages(t *testing.T) {
	face := newFakeFace()
	base := BaseSettings{SrcPath: "fake.ttf", Height: 10, AntiAliasing: true, TextureSize: Size{Width: 64, Height: 64}}

	simple, err := buildFromFace(face, "fake.ttf", base, 0, 1, simpleRender, whiteColorize, nil)
	if err != nil {
		t.Fatalf("simple build: %v", err)
	}

	outlinedRender := func(face faceSource, r rune, gi sfnt.GlyphIndex, ascenderPx int) (*renderedGlyph, error) {
		return renderOutlined(face, r, gi, 0xFFFFFFFF, 0xFF000000, 2, 0, ascenderPx, true)
	}
	outlined, err := buildFromFace(face, "fake.ttf", base, 4, 4, outlinedRender, nil, nil)
	if err != nil {
		t.Fatalf("outlined build: %v", err)
	}

	if outlined.LineHeight() != simple.LineHeight()+4 {
		t.Fatalf("outlined line height = %d, want simple + 4 = %d", outlined.LineHeight(), simple.LineHeight()+4)
	}
	sa, _ := simple.Glyph('A')
	oa, _ := outlined.Glyph('A')
	if oa.AdvanceX != sa.AdvanceX+4 {
		t.Fatalf("outlined advance_x = %d, want simple + 4 = %d", oa.AdvanceX, sa.AdvanceX+4)
	}
	for _, tex := range outlined.Textures() {
		if tex.Image.Components != 4 {
			t.Fatalf("outlined page has %d components, want 4 (already-composited RGBA, no colorize step)", tex.Image.Components)
		}
	}
}
