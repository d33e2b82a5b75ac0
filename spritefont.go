package spritefont

import "github.com/mochifont/spritefont/internal/texcache"

// SpriteFont is a built or loaded bitmap font: an ordered sequence of
// atlas page textures plus a code-point-to-Glyph index and the line
// height to advance between baselines. The zero value is not usable;
// construct one via BuildSimple/BuildContour/BuildOutlined or Load.
type SpriteFont struct {
	faceName   string
	sourceSize int
	lineHeight int
	textures   []*texcache.Texture
	glyphs     map[rune]Glyph
}

// FaceName returns the source font's file name (or face name recorded
// in a loaded index), kept only for provenance/debugging.
func (f *SpriteFont) FaceName() string { return f.faceName }

// SourcePixelSize returns the pixel height the font was rendered at.
func (f *SpriteFont) SourcePixelSize() int { return f.sourceSize }

// LineHeight returns the baseline-to-baseline distance in pixels.
// Always >= 1 for a font with at least one glyph.
func (f *SpriteFont) LineHeight() int { return f.lineHeight }

// Textures returns the font's atlas pages, in page-index order.
func (f *SpriteFont) Textures() []*texcache.Texture { return f.textures }

// Glyphs returns the code-point-to-Glyph index. Callers must not mutate
// the returned map.
func (f *SpriteFont) Glyphs() map[rune]Glyph { return f.glyphs }

// Glyph looks up the index entry for a code point.
func (f *SpriteFont) Glyph(r rune) (Glyph, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}
