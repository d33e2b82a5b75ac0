package spritefont

import "errors"

// Errors returned by the build, save, and load paths. Per-glyph native
// rasterization failures are not represented here: they are logged at
// warn level and the glyph is skipped so a single bad glyph never
// aborts a build.
var (
	// ErrNoGlyphs is returned by a Build* function when the font exposes
	// no renderable code points at all (every glyph failed to rasterize,
	// or the font is empty). The returned *SpriteFont is still valid:
	// empty textures and glyph map, line height 0.
	ErrNoGlyphs = errors.New("spritefont: font produced no glyphs")

	// ErrBadExtension is returned by Save when path's extension is
	// neither empty nor "fnt".
	ErrBadExtension = errors.New("spritefont: save path must use the .fnt extension")

	// ErrMissingPageImage is returned by Save when a page texture has no
	// CPU-side image to encode (for example, a loaded font whose pages
	// were evicted from the cache without the image ever being fetched
	// back).
	ErrMissingPageImage = errors.New("spritefont: page texture has no image data")

	// ErrInvalidIndex is returned by Load when the index file cannot be
	// parsed as the expected XML schema: the XML is malformed, the root
	// element is not "font", or the pages node lists no page. Missing
	// info or common nodes are not detected; their fields load as zero.
	ErrInvalidIndex = errors.New("spritefont: invalid index file")
)
