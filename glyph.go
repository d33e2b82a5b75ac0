package spritefont

import "github.com/mochifont/spritefont/internal/rasterimg"

// Rect is an axis-aligned pixel rectangle, position plus size.
type Rect struct {
	X, Y int
	W, H int
}

// Glyph is one entry of a SpriteFont's code-point index: the rectangle
// within Page that holds the glyph's image, the pen-to-top-left offset
// to apply at render time, and the horizontal advance to the next pen
// position. Rect.W/H equal the glyph's rendered image size exactly;
// the 2-pixel padding the packer reserves around every rect never
// intrudes into these fields.
type Glyph struct {
	Rect     Rect
	OffsetX  int32
	OffsetY  int32
	AdvanceX int32
	Page     int32
}

// renderedGlyph is the transient result of rasterizing one code point,
// before packing. It is appended into a slice and never aliased or
// copied after being handed to the packer and, later, pasted onto a
// page image.
type renderedGlyph struct {
	image     *rasterimg.Image // 1 component (Simple/Contour) or 4 (Outlined)
	codePoint rune
	offsetX   int32
	offsetY   int32
	advanceX  int32
	page      int
	rect      Rect
}
