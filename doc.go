// Package spritefont builds bitmap sprite fonts from scalable vector
// fonts.
//
// # Overview
//
// spritefont rasterizes every glyph a TrueType/OpenType font provides,
// packs the glyphs into one or more fixed-size texture atlases, and
// produces an index mapping each Unicode code point to a rectangle
// within an atlas plus layout metrics (offset, advance, line height).
// It also saves and loads that result to and from disk.
//
// # Quick Start
//
//	settings := spritefont.SimpleSettings{
//		Base: spritefont.BaseSettings{
//			SrcPath:      "NotoSans-Regular.ttf",
//			Height:       24,
//			AntiAliasing: true,
//			TextureSize:  spritefont.Size{Width: 512, Height: 512},
//		},
//		Color: 0xFFFFFFFF,
//	}
//	font, err := spritefont.BuildSimple(settings, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := font.Save("notosans.fnt"); err != nil {
//		log.Fatal(err)
//	}
//
// # Recipes
//
// Three rasterization recipes share packing and indexing but differ in
// how a glyph becomes an image:
//
//   - Simple: the glyph shape filled directly, with an optional
//     triangular blur.
//   - Contour: the glyph's stroked outline only (round cap/join), useful
//     for a hollow or decorative look.
//   - Outlined: the glyph body plus a colored outline, composited from
//     an inflated stroke border and the filled interior.
//
// # Architecture
//
// The public API (BuildSimple/BuildContour/BuildOutlined, Save, Load) is
// backed by internal packages that each own one piece of the pipeline:
// internal/glyphface (font loading and code-point iteration),
// internal/path and internal/stroke (outline flattening and stroke
// expansion), internal/glyphraster (outline-to-coverage-bitmap filling),
// internal/rasterimg (the pixel buffer: paste, blur, colorize),
// internal/packer (the multi-page skyline rectangle packer), and
// internal/texcache (the process-wide texture cache pages are
// registered into and loaded back from).
package spritefont
