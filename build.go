package spritefont

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"golang.org/x/image/font/sfnt"

	"github.com/mochifont/spritefont/internal/glyphface"
	"github.com/mochifont/spritefont/internal/packer"
	"github.com/mochifont/spritefont/internal/rasterimg"
	"github.com/mochifont/spritefont/internal/texcache"
)

// glyphPadding is the gap, in pixels, the packer reserves around every
// glyph rect on every side, keeping neighboring glyphs from bleeding
// into each other under bilinear sampling at render time.
const glyphPadding = 2

// renderFunc rasterizes one code point into a renderedGlyph. The three
// Build* entry points each close over their recipe's settings and pass
// one of these to buildFont.
type renderFunc func(face faceSource, r rune, gi sfnt.GlyphIndex, ascenderPx int) (*renderedGlyph, error)

// BuildSimple opens settings.Base.SrcPath and rasterizes every glyph the
// font provides directly into the atlas, with an optional triangular
// blur, tinted by settings.Color. elapsed, if non-nil, receives the
// total build duration.
func BuildSimple(settings SimpleSettings, elapsed *time.Duration) (*SpriteFont, error) {
	render := func(face faceSource, r rune, gi sfnt.GlyphIndex, ascenderPx int) (*renderedGlyph, error) {
		return renderSimple(face, r, gi, settings.Base.AntiAliasing, settings.BlurRadius, ascenderPx)
	}
	colorize := func(img *rasterimg.Image) *rasterimg.Image { return img.ToRGBA(settings.Color) }
	return buildFont(settings.Base, 0, 1, render, colorize, elapsed)
}

// BuildContour rasterizes only the stroked outline of every glyph, a
// round cap/join stroke of settings.Thickness pixels, tinted by
// settings.Color. Every glyph's advance and the font's line height are
// widened by Thickness to leave room for the stroke.
func BuildContour(settings ContourSettings, elapsed *time.Duration) (*SpriteFont, error) {
	render := func(face faceSource, r rune, gi sfnt.GlyphIndex, ascenderPx int) (*renderedGlyph, error) {
		return renderContour(face, r, gi, settings.Base.AntiAliasing, settings.Thickness, settings.BlurRadius, ascenderPx)
	}
	colorize := func(img *rasterimg.Image) *rasterimg.Image { return img.ToRGBA(settings.Color) }
	lineHeightExtra := int32(math.Round(float64(settings.Thickness)))
	return buildFont(settings.Base, lineHeightExtra, 1, render, colorize, elapsed)
}

// BuildOutlined rasterizes each glyph's filled body in settings.MainColor
// plus a settings.OutlineColor border settings.OutlineThickness pixels
// wide, composited into one RGBA image per glyph. Every glyph's advance
// and the font's line height are widened by 2*OutlineThickness.
func BuildOutlined(settings OutlinedSettings, elapsed *time.Duration) (*SpriteFont, error) {
	render := func(face faceSource, r rune, gi sfnt.GlyphIndex, ascenderPx int) (*renderedGlyph, error) {
		return renderOutlined(face, r, gi, settings.MainColor, settings.OutlineColor,
			settings.OutlineThickness, settings.OutlineBlurRadius, ascenderPx, settings.Base.AntiAliasing)
	}
	lineHeightExtra := int32(math.Round(2 * float64(settings.OutlineThickness)))
	return buildFont(settings.Base, lineHeightExtra, 4, render, nil, elapsed)
}

// buildFont is the shared build pipeline behind BuildSimple/BuildContour/
// BuildOutlined: open the face and hand off to buildFromFace. Split out
// so tests can drive buildFromFace directly against a synthetic
// faceSource instead of parsing a real font file end to end.
func buildFont(
	base BaseSettings, lineHeightExtra int32, pageComponents int,
	render renderFunc, colorize func(*rasterimg.Image) *rasterimg.Image,
	elapsed *time.Duration,
) (*SpriteFont, error) {
	face, err := glyphface.Open(base.SrcPath, base.Height, base.AntiAliasing)
	if err != nil {
		Logger().Error("build failed to open face", "path", base.SrcPath, "error", err)
		empty := &SpriteFont{faceName: filepath.Base(base.SrcPath), sourceSize: base.Height, glyphs: map[rune]Glyph{}}
		return empty, fmt.Errorf("spritefont: build: %w", err)
	}
	defer face.Close()

	for _, w := range face.Warnings() {
		Logger().Warn(w, "path", base.SrcPath)
	}

	return buildFromFace(face, filepath.Base(base.SrcPath), base, lineHeightExtra, pageComponents, render, colorize, elapsed)
}

// buildFromFace runs the rasterize/pack/assemble pipeline against an
// already-open face. pageComponents is 1 for the grayscale recipes
// (colorize tints the assembled page afterward) and 4 for Outlined,
// whose glyphs are already composited RGBA and whose colorize is nil.
func buildFromFace(
	face faceSource, faceName string, base BaseSettings, lineHeightExtra int32, pageComponents int,
	render renderFunc, colorize func(*rasterimg.Image) *rasterimg.Image,
	elapsed *time.Duration,
) (*SpriteFont, error) {
	start := time.Now()

	ascender, err := face.Ascender()
	if err != nil {
		return &SpriteFont{faceName: faceName, sourceSize: base.Height, glyphs: map[rune]Glyph{}}, fmt.Errorf("spritefont: build: %w", err)
	}
	ascenderPx := glyphface.RoundPixels(ascender)

	lh, err := face.LineHeight()
	if err != nil {
		return &SpriteFont{faceName: faceName, sourceSize: base.Height, glyphs: map[rune]Glyph{}}, fmt.Errorf("spritefont: build: %w", err)
	}
	lineHeight := glyphface.RoundPixels(lh) + int(lineHeightExtra)
	if lineHeight < 1 {
		lineHeight = 1
	}

	pk := packer.New(face.NumGlyphs())
	var rendered []*renderedGlyph

	for r, ok := face.FirstRune(); ok; r, ok = face.NextRune(r) {
		gi, err := face.GlyphIndex(r)
		if err != nil || gi == 0 {
			continue
		}
		rg, err := render(face, r, gi, ascenderPx)
		if err != nil {
			Logger().Warn("skipping glyph", "code_point", r, "error", err)
			continue
		}
		pk.Add(rg.image.Width+2*glyphPadding, rg.image.Height+2*glyphPadding)
		rendered = append(rendered, rg)
	}

	if len(rendered) == 0 {
		Logger().Error("build produced no glyphs", "path", base.SrcPath)
		return &SpriteFont{faceName: faceName, sourceSize: base.Height, glyphs: map[rune]Glyph{}}, ErrNoGlyphs
	}

	placements, numPages, err := pk.Pack(base.TextureSize.Width, base.TextureSize.Height)
	if err != nil {
		return &SpriteFont{faceName: faceName, sourceSize: base.Height, glyphs: map[rune]Glyph{}}, fmt.Errorf("spritefont: build: %w", err)
	}

	pages := make([]*rasterimg.Image, numPages)
	for i := range pages {
		pages[i] = rasterimg.New(base.TextureSize.Width, base.TextureSize.Height, pageComponents)
	}

	glyphs := make(map[rune]Glyph, len(rendered))
	for i, rg := range rendered {
		pl := placements[i]
		x := pl.X + glyphPadding
		y := pl.Y + glyphPadding
		pages[pl.Page].Paste(rg.image, x, y)
		glyphs[rg.codePoint] = Glyph{
			Rect:     Rect{X: x, Y: y, W: rg.image.Width, H: rg.image.Height},
			OffsetX:  rg.offsetX,
			OffsetY:  rg.offsetY,
			AdvanceX: rg.advanceX,
			Page:     int32(pl.Page),
		}
	}

	textures := make([]*texcache.Texture, numPages)
	for i, page := range pages {
		img := page
		if colorize != nil {
			img = colorize(page)
		}
		textures[i] = &texcache.Texture{Image: img}
	}

	if elapsed != nil {
		*elapsed = time.Since(start)
	}
	Logger().Debug("built sprite font",
		"path", base.SrcPath, "glyphs", len(glyphs), "pages", numPages, "elapsed", time.Since(start))

	return &SpriteFont{
		faceName:   faceName,
		sourceSize: base.Height,
		lineHeight: lineHeight,
		textures:   textures,
		glyphs:     glyphs,
	}, nil
}
