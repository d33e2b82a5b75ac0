// Package stroke expands a stroked outline into a filled outline.
//
// Font glyph contours extracted from a vector font are always closed, so
// the Contour and Outlined rasterization recipes both stroke a glyph
// outline rather than filling it directly: a round-cap/round-join stroke
// of constant width for Contour, and a "stroke the border, outside,
// closed" inflate of the outline for Outlined's outer silhouette. Both
// reduce to the same expansion: build two offset copies of every closed
// subpath (pushed out and pulled in by half the stroke width), connected
// with joins at corners, producing two nested closed contours per input
// contour. Filling the result with the non-zero winding rule yields the
// stroked band.
//
// # Algorithm Overview
//
// Stroke expansion works by building two parallel offset paths:
//   - Forward path: Offset by +width/2 perpendicular to the tangent
//   - Backward path: Offset by -width/2 perpendicular to the tangent
//
// For a closed subpath (the common case for glyph outlines) the forward
// path closes into its own outer contour and the backward path closes
// into its own inner contour; for an open subpath the two paths are
// joined into one contour via end caps.
//
// # Line Caps
//
// Line caps define the shape of stroke endpoints on an open subpath:
//   - LineCapButt: Flat cap ending exactly at the endpoint
//   - LineCapRound: Semicircular cap with radius = width/2
//   - LineCapSquare: Square cap extending width/2 beyond the endpoint
//
// # Line Joins
//
// Line joins define how stroke segments connect:
//   - LineJoinMiter: Sharp corner (limited by miter limit)
//   - LineJoinRound: Circular arc at corners
//   - LineJoinBevel: Straight line across the corner
//
// # Usage
//
//	style := stroke.Stroke{
//	    Width:      2.0,
//	    Cap:        stroke.LineCapRound,
//	    Join:       stroke.LineJoinRound,
//	    MiterLimit: 4.0,
//	}
//
//	expander := stroke.NewStrokeExpander(style)
//	outline := []stroke.PathElement{
//	    stroke.MoveTo{Point: stroke.Point{X: 0, Y: 0}},
//	    stroke.LineTo{Point: stroke.Point{X: 100, Y: 0}},
//	    stroke.LineTo{Point: stroke.Point{X: 100, Y: 100}},
//	    stroke.Close{},
//	}
//
//	band := expander.Expand(outline)
//
// # References
//
// The algorithm is based on:
//   - tiny-skia (Rust): path/src/stroker.rs
//   - kurbo (Rust): src/stroke.rs
package stroke
