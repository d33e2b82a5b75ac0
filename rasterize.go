package spritefont

import (
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/mochifont/spritefont/internal/glyphface"
	"github.com/mochifont/spritefont/internal/glyphraster"
	"github.com/mochifont/spritefont/internal/path"
	"github.com/mochifont/spritefont/internal/rasterimg"
	"github.com/mochifont/spritefont/internal/stroke"
)

// faceSource is the subset of *glyphface.Face the rasterizer and build
// pipeline depend on. It exists so tests can exercise BuildSimple/
// BuildContour/BuildOutlined's orchestration logic against a synthetic
// face fixture instead of parsing a real font file end to end;
// *glyphface.Face satisfies it without any adapter.
type faceSource interface {
	NumGlyphs() int
	Ascender() (fixed.Int26_6, error)
	LineHeight() (fixed.Int26_6, error)
	FirstRune() (rune, bool)
	NextRune(prev rune) (rune, bool)
	GlyphIndex(r rune) (sfnt.GlyphIndex, error)
	LoadOutline(gi sfnt.GlyphIndex) (sfnt.Segments, error)
	Advance(gi sfnt.GlyphIndex) (fixed.Int26_6, error)
}

// segmentsToPath converts a glyph's sfnt outline (already scaled to
// pixels at the face's ppem) into internal/path's curve representation.
// sfnt.Segments use a Y-axis that increases downward with the origin at
// the glyph's pen position (the "dot"), the same convention internal/path
// and internal/glyphraster operate in, so no axis flip is needed.
func segmentsToPath(segs sfnt.Segments) []path.PathElement {
	elems := make([]path.PathElement, 0, len(segs))
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			elems = append(elems, path.MoveTo{Point: fixedToPoint(s.Args[0])})
		case sfnt.SegmentOpLineTo:
			elems = append(elems, path.LineTo{Point: fixedToPoint(s.Args[0])})
		case sfnt.SegmentOpQuadTo:
			elems = append(elems, path.QuadTo{
				Control: fixedToPoint(s.Args[0]),
				Point:   fixedToPoint(s.Args[1]),
			})
		case sfnt.SegmentOpCubeTo:
			elems = append(elems, path.CubicTo{
				Control1: fixedToPoint(s.Args[0]),
				Control2: fixedToPoint(s.Args[1]),
				Point:    fixedToPoint(s.Args[2]),
			})
		}
	}
	return elems
}

func fixedToPoint(p fixed.Point26_6) path.Point {
	return path.Point{X: float64(p.X) / 64, Y: float64(p.Y) / 64}
}

// toStrokePath and fromStrokePath translate between internal/path's and
// internal/stroke's identically-shaped-but-separately-declared element
// types (each package keeps its own copy to avoid an import cycle
// between the rasterizer and the stroker). Point conversions are plain
// Go struct conversions since both Point types share the same
// underlying struct{ X, Y float64 }.
func toStrokePath(elems []path.PathElement) []stroke.PathElement {
	out := make([]stroke.PathElement, 0, len(elems))
	for _, e := range elems {
		switch v := e.(type) {
		case path.MoveTo:
			out = append(out, stroke.MoveTo{Point: stroke.Point(v.Point)})
		case path.LineTo:
			out = append(out, stroke.LineTo{Point: stroke.Point(v.Point)})
		case path.QuadTo:
			out = append(out, stroke.QuadTo{Control: stroke.Point(v.Control), Point: stroke.Point(v.Point)})
		case path.CubicTo:
			out = append(out, stroke.CubicTo{
				Control1: stroke.Point(v.Control1),
				Control2: stroke.Point(v.Control2),
				Point:    stroke.Point(v.Point),
			})
		case path.Close:
			out = append(out, stroke.Close{})
		}
	}
	return out
}

func fromStrokePath(elems []stroke.PathElement) []path.PathElement {
	out := make([]path.PathElement, 0, len(elems))
	for _, e := range elems {
		switch v := e.(type) {
		case stroke.MoveTo:
			out = append(out, path.MoveTo{Point: path.Point(v.Point)})
		case stroke.LineTo:
			out = append(out, path.LineTo{Point: path.Point(v.Point)})
		case stroke.QuadTo:
			out = append(out, path.QuadTo{Control: path.Point(v.Control), Point: path.Point(v.Point)})
		case stroke.CubicTo:
			out = append(out, path.CubicTo{
				Control1: path.Point(v.Control1),
				Control2: path.Point(v.Control2),
				Point:    path.Point(v.Point),
			})
		case stroke.Close:
			out = append(out, path.Close{})
		}
	}
	return out
}

// glyphMetrics computes the common metric fields shared by all three
// rasterization recipes: pen-to-top-left offset and horizontal advance,
// derived from a glyph's bounding box (in baseline-relative, Y-down
// pixels) plus the face's ascender and the glyph's raw advance width.
func glyphMetrics(ascenderPx int, boxOriginX, boxOriginY float64, advance fixed.Int26_6) (offsetX, offsetY, advanceX int32) {
	offsetX = int32(math.Round(boxOriginX))
	offsetY = int32(math.Round(float64(ascenderPx) + boxOriginY))
	advanceX = int32(glyphface.RoundPixels(advance))
	return
}

// renderSimple rasterizes the glyph's filled outline directly, applying
// an optional triangular blur.
func renderSimple(face faceSource, r rune, gi sfnt.GlyphIndex, aa bool, blurRadius int, ascenderPx int) (*renderedGlyph, error) {
	segs, err := face.LoadOutline(gi)
	if err != nil {
		return nil, err
	}
	advance, err := face.Advance(gi)
	if err != nil {
		return nil, err
	}

	elems := segmentsToPath(segs)
	w, h, ox, oy := glyphraster.Bounds(elems)
	img := glyphraster.Fill(elems, w, h, ox, oy, aa)

	offsetX, offsetY, advanceX := glyphMetrics(ascenderPx, ox, oy, advance)
	if blurRadius > 0 {
		img = img.BlurTriangle(blurRadius)
		offsetX -= int32(blurRadius)
		offsetY -= int32(blurRadius)
	}

	return &renderedGlyph{image: img, codePoint: r, offsetX: offsetX, offsetY: offsetY, advanceX: advanceX}, nil
}

// renderContour rasterizes only the glyph's stroked outline: a round
// cap/join stroke of the given pixel thickness, then an optional
// triangular blur. advance_x is widened by thickness to leave room for
// the stroke either side of the glyph's natural advance.
func renderContour(face faceSource, r rune, gi sfnt.GlyphIndex, aa bool, thickness float32, blurRadius int, ascenderPx int) (*renderedGlyph, error) {
	segs, err := face.LoadOutline(gi)
	if err != nil {
		return nil, err
	}
	advance, err := face.Advance(gi)
	if err != nil {
		return nil, err
	}

	elems := segmentsToPath(segs)
	expander := stroke.NewStrokeExpander(stroke.Stroke{
		Width:      float64(thickness),
		Cap:        stroke.LineCapRound,
		Join:       stroke.LineJoinRound,
		MiterLimit: 4,
	})
	band := fromStrokePath(expander.Expand(toStrokePath(elems)))

	w, h, ox, oy := glyphraster.Bounds(band)
	img := glyphraster.Fill(band, w, h, ox, oy, aa)

	offsetX, offsetY, advanceX := glyphMetrics(ascenderPx, ox, oy, advance)
	advanceX += int32(math.Round(float64(thickness)))
	if blurRadius > 0 {
		img = img.BlurTriangle(blurRadius)
		offsetX -= int32(blurRadius)
		offsetY -= int32(blurRadius)
	}

	return &renderedGlyph{image: img, codePoint: r, offsetX: offsetX, offsetY: offsetY, advanceX: advanceX}, nil
}

// renderOutlined rasterizes the glyph body and a colored outline and
// composites them into one RGBA image.
//
// The outer silhouette is the glyph's outward round border: a stroke of
// the glyph's own outline at width 2*outlineThickness with round caps
// and joins (the same stroke.LineCapRound/LineJoinRound expander Contour
// uses for its band) unioned with the glyph's own fill. The stroke band
// already covers the inward half of that width, which the glyph fill
// re-covers harmlessly, and its round joins sweep a radius-outlineThickness
// disk around every corner of the outline — together giving the same
// shape a true outward offset-and-reclose of the contour would, without
// the mitered corners a max-filter dilation would leave behind.
func renderOutlined(
	face faceSource, r rune, gi sfnt.GlyphIndex,
	mainColor, outlineColor uint32, outlineThickness float32, outlineBlurRadius int,
	ascenderPx int, aa bool,
) (*renderedGlyph, error) {
	segs, err := face.LoadOutline(gi)
	if err != nil {
		return nil, err
	}
	advance, err := face.Advance(gi)
	if err != nil {
		return nil, err
	}

	elems := segmentsToPath(segs)
	innerW, innerH, innerOX, innerOY := glyphraster.Bounds(elems)
	inner := glyphraster.Fill(elems, innerW, innerH, innerOX, innerOY, aa)

	radius := float64(outlineThickness)
	var outer *rasterimg.Image
	var outerOX, outerOY float64
	if radius > 0 {
		expander := stroke.NewStrokeExpander(stroke.Stroke{
			Width:      2 * radius,
			Cap:        stroke.LineCapRound,
			Join:       stroke.LineJoinRound,
			MiterLimit: 4,
		})
		band := fromStrokePath(expander.Expand(toStrokePath(elems)))
		var outerW, outerH int
		outerW, outerH, outerOX, outerOY = glyphraster.Bounds(band)
		outer = glyphraster.Fill(band, outerW, outerH, outerOX, outerOY, aa)
		dx := int(math.Round(innerOX - outerOX))
		dy := int(math.Round(innerOY - outerOY))
		outer.PasteMax(inner, dx, dy)
	} else {
		outer = inner.Clone()
		outerOX, outerOY = innerOX, innerOY
	}

	if outlineBlurRadius > 0 {
		outer = outer.BlurTriangle(outlineBlurRadius)
		outerOX -= float64(outlineBlurRadius)
		outerOY -= float64(outlineBlurRadius)
	}

	composed := outer.ToRGBA(outlineColor)
	if mainColor != outlineColor {
		dx := int(math.Round(innerOX - outerOX))
		dy := int(math.Round(innerOY - outerOY))
		compositeInner(composed, inner, dx, dy, mainColor)
	}

	offsetX, offsetY, advanceX := glyphMetrics(ascenderPx, outerOX, outerOY, advance)
	widen := int32(math.Round(2 * float64(outlineThickness)))
	advanceX += widen

	return &renderedGlyph{
		image: composed, codePoint: r,
		offsetX: offsetX, offsetY: offsetY, advanceX: advanceX,
	}, nil
}

// compositeInner overwrites composed's pixels under inner's coverage
// mask with a mask-weighted blend of mainColor and composed's own
// existing pixel with a soft outline edge: not alpha blending, a
// per-channel overwrite weighted by coverage.
func compositeInner(composed, inner *rasterimg.Image, dx, dy int, mainColor uint32) {
	mr := byte(mainColor)
	mg := byte(mainColor >> 8)
	mb := byte(mainColor >> 16)
	ma := byte(mainColor >> 24)

	for y := 0; y < inner.Height; y++ {
		for x := 0; x < inner.Width; x++ {
			m := inner.At(x, y)[0]
			if m == 0 {
				continue
			}
			px, py := x+dx, y+dy
			if !composed.InBounds(px, py) {
				continue
			}
			back := composed.At(px, py)
			composed.Set(px, py, []byte{
				blendChannel(m, mr, back[0]),
				blendChannel(m, mg, back[1]),
				blendChannel(m, mb, back[2]),
				blendChannel(m, ma, back[3]),
			})
		}
	}
}

func blendChannel(mask, fg, bg byte) byte {
	return byte((int(mask)*int(fg) + int(255-mask)*int(bg)) / 255)
}
