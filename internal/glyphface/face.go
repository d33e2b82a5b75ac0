// Package glyphface opens a vector font file and exposes the pieces a
// rasterizer needs: a scoped handle to the parsed font, the fixed-point
// pixel-rounding helper, and code-point iteration restricted to runes
// the font actually maps to a glyph.
package glyphface

import (
	"errors"
	"fmt"
	"os"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/rangetable"
)

// ErrEmptyFontFile is returned by Open when the font file exists but
// contains no data.
var ErrEmptyFontFile = errors.New("glyphface: font file is empty")

// Face is a scoped handle on a parsed font: it owns the font file bytes
// and the parsed *sfnt.Font, and is sized to one pixel height. There is
// no native resource to release (the Go GC reclaims the buffer), but
// Close is kept so callers can use the same open/defer Close() shape as
// any other scoped resource.
type Face struct {
	font     *sfnt.Font
	buf      sfnt.Buffer
	data     []byte
	ppem     fixed.Int26_6
	hinting  font.Hinting
	assigned *unicode.RangeTable
	warnings []string
}

// Warnings returns non-fatal notices collected while opening the face
// (for example, a multi-face collection that silently uses only its
// first face). Callers with a logger should emit these at warn level.
func (f *Face) Warnings() []string {
	return f.warnings
}

// Open reads the font file at path and binds a face scaled to heightPx
// pixels. antiAliased selects grid-fitting suited to antialiased versus
// monochrome rendering.
//
// If the file is a TrueType collection, only the first face is bound;
// a collection with more than one face adds a notice to Warnings. Open
// itself does not log.
func Open(path string, heightPx int, antiAliased bool) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("glyphface: open %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("glyphface: %s: %w", path, ErrEmptyFontFile)
	}

	var warnings []string
	sf, err := sfnt.Parse(data)
	if err != nil {
		col, colErr := sfnt.ParseCollection(data)
		if colErr != nil {
			return nil, fmt.Errorf("glyphface: parse %s: %w", path, err)
		}
		if col.NumFonts() > 1 {
			warnings = append(warnings, fmt.Sprintf(
				"font file bundles %d faces, using the first", col.NumFonts()))
		}
		sf, err = col.Font(0)
		if err != nil {
			return nil, fmt.Errorf("glyphface: parse %s: %w", path, err)
		}
	}

	hinting := font.HintingNone
	if antiAliased {
		hinting = font.HintingFull
	}

	f := &Face{
		font:     sf,
		data:     data,
		ppem:     fixed.I(heightPx),
		hinting:  hinting,
		assigned: rangetable.Assigned(unicode.Version),
		warnings: warnings,
	}
	return f, nil
}

// Close releases the face. Safe to call more than once.
func (f *Face) Close() error {
	f.data = nil
	return nil
}

// NumGlyphs returns the number of glyphs the font defines, used as a
// capacity hint when sizing the packer.
func (f *Face) NumGlyphs() int {
	return f.font.NumGlyphs()
}

// Ascender returns the face's ascender in 26.6 fixed point, pixels
// above the baseline.
func (f *Face) Ascender() (fixed.Int26_6, error) {
	m, err := f.font.Metrics(&f.buf, f.ppem, f.hinting)
	if err != nil {
		return 0, err
	}
	return m.Ascent, nil
}

// LineHeight returns the face's recommended line height in 26.6 fixed
// point.
func (f *Face) LineHeight() (fixed.Int26_6, error) {
	m, err := f.font.Metrics(&f.buf, f.ppem, f.hinting)
	if err != nil {
		return 0, err
	}
	return m.Height, nil
}

// GlyphIndex resolves a rune to a glyph index via the font's cmap. A
// zero result means the font has no glyph for r.
func (f *Face) GlyphIndex(r rune) (sfnt.GlyphIndex, error) {
	return f.font.GlyphIndex(&f.buf, r)
}

// LoadOutline returns the glyph's outline as a sequence of move/line/
// quad/cube segments in font units, scaled to the face's pixel size.
func (f *Face) LoadOutline(gi sfnt.GlyphIndex) (sfnt.Segments, error) {
	return f.font.LoadGlyph(&f.buf, gi, f.ppem, &sfnt.LoadGlyphOptions{})
}

// Advance returns the glyph's advance width in 26.6 fixed point.
func (f *Face) Advance(gi sfnt.GlyphIndex) (fixed.Int26_6, error) {
	return f.font.GlyphAdvance(&f.buf, gi, f.ppem, f.hinting)
}

// FirstRune returns the lowest code point the font maps to a nonzero
// glyph index, mirroring FT_Get_First_Char.
func (f *Face) FirstRune() (rune, bool) {
	return f.NextRune(-1)
}

// NextRune returns the lowest code point greater than prev that the
// font maps to a nonzero glyph index, mirroring FT_Get_Next_Char.
// Candidates are drawn from the set of Unicode-assigned code points
// rather than a linear 0..0x10FFFF scan.
func (f *Face) NextRune(prev rune) (rune, bool) {
	r := prev
	for {
		c, ok := nextAssigned(f.assigned, r)
		if !ok {
			return 0, false
		}
		gi, err := f.font.GlyphIndex(&f.buf, c)
		if err == nil && gi != 0 {
			return c, true
		}
		r = c
	}
}

// nextAssigned returns the smallest rune greater than after that t
// contains.
func nextAssigned(t *unicode.RangeTable, after rune) (rune, bool) {
	for _, rg := range t.R16 {
		lo, hi, stride := rune(rg.Lo), rune(rg.Hi), rune(rg.Stride)
		if hi <= after {
			continue
		}
		c := lo
		if c <= after {
			steps := (after - lo + rune(stride)) / rune(stride)
			c = lo + steps*stride
		}
		if c <= hi {
			return c, true
		}
	}
	for _, rg := range t.R32 {
		lo, hi, stride := rune(rg.Lo), rune(rg.Hi), rune(rg.Stride)
		if hi <= after {
			continue
		}
		c := lo
		if c <= after {
			steps := (after - lo + rune(stride)) / rune(stride)
			c = lo + steps*stride
		}
		if c <= hi {
			return c, true
		}
	}
	return 0, false
}

// RoundPixels converts a 26.6 fixed-point value to an integer pixel
// count using round-half-up-toward-positive-infinity on the fractional
// part, with the whole part floored toward negative infinity:
//
//	round(v) = floor(v/64) + (1 if v&63 >= 32 else 0)
//
// The naive (v+32)>>6 is not used: it overflows for v close to the
// int32 range limit, which floor-then-adjust does not.
func RoundPixels(v fixed.Int26_6) int {
	iv := int32(v)
	whole := iv >> 6
	frac := iv & 63
	if frac >= 32 {
		whole++
	}
	return int(whole)
}
