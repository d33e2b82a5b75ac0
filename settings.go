package spritefont

// Size is a width/height pair in pixels, used for atlas page dimensions.
type Size struct {
	Width  int
	Height int
}

// BaseSettings is shared by every recipe: the font file to rasterize,
// the target pixel height, whether to request antialiased or monochrome
// hinting, and the size of each atlas page the builder packs glyphs
// into.
type BaseSettings struct {
	SrcPath      string
	Height       int
	AntiAliasing bool
	TextureSize  Size
}

// SimpleSettings renders each glyph directly, with an optional
// triangular blur.
type SimpleSettings struct {
	Base BaseSettings

	// BlurRadius is the triangular blur radius in pixels; 0 disables it.
	BlurRadius int
	// Color is the page tint, packed 0xAABBGGRR.
	Color uint32
}

// ContourSettings renders each glyph's stroked outline only (no filled
// body), with a round cap/join stroke of the given thickness.
type ContourSettings struct {
	Base BaseSettings

	// Thickness is the stroke width in pixels.
	Thickness float32
	// BlurRadius is the triangular blur radius in pixels; 0 disables it.
	BlurRadius int
	// Color is the page tint, packed 0xAABBGGRR.
	Color uint32
}

// OutlinedSettings renders each glyph's filled body in MainColor plus a
// colored outline in OutlineColor, composited from an inflated stroke
// border and the filled interior.
type OutlinedSettings struct {
	Base BaseSettings

	MainColor         uint32
	OutlineColor      uint32
	OutlineThickness  float32
	OutlineBlurRadius int
}
