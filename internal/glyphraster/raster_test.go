package glyphraster

import (
	"testing"

	"github.com/mochifont/spritefont/internal/path"
)

func square(x0, y0, x1, y1 float64) []path.PathElement {
	return []path.PathElement{
		path.MoveTo{Point: path.Point{X: x0, Y: y0}},
		path.LineTo{Point: path.Point{X: x1, Y: y0}},
		path.LineTo{Point: path.Point{X: x1, Y: y1}},
		path.LineTo{Point: path.Point{X: x0, Y: y1}},
		path.Close{},
	}
}

func TestBoundsTightlyEnclosesSquare(t *testing.T) {
	w, h, ox, oy := Bounds(square(2, 3, 10, 9))
	if w != 8 || h != 6 {
		t.Fatalf("Bounds size = (%d,%d), want (8,6)", w, h)
	}
	if ox != 2 || oy != 3 {
		t.Fatalf("Bounds origin = (%v,%v), want (2,3)", ox, oy)
	}
}

func TestBoundsEmptyPath(t *testing.T) {
	w, h, _, _ := Bounds(nil)
	if w != 0 || h != 0 {
		t.Fatalf("Bounds(nil) = (%d,%d), want (0,0)", w, h)
	}
}

func TestFillMonoInteriorOpaque(t *testing.T) {
	elems := square(0, 0, 10, 10)
	img := Fill(elems, 10, 10, 0, 0, false)
	if img.At(5, 5)[0] != 255 {
		t.Errorf("center pixel = %d, want 255", img.At(5, 5)[0])
	}
}

func TestFillMonoExteriorTransparent(t *testing.T) {
	elems := square(2, 2, 8, 8)
	img := Fill(elems, 10, 10, 0, 0, false)
	if img.At(0, 0)[0] != 0 {
		t.Errorf("corner pixel = %d, want 0", img.At(0, 0)[0])
	}
}

func TestFillAntialiasedEdgeIsPartial(t *testing.T) {
	// A square whose right edge sits mid-pixel should leave that column
	// partially covered, unlike the mono fill which is all-or-nothing.
	elems := square(0, 0, 4.5, 10)
	img := Fill(elems, 10, 10, 0, 0, true)
	edgeCol := img.At(4, 5)[0]
	if edgeCol == 0 || edgeCol == 255 {
		t.Errorf("antialiased edge column = %d, want a value strictly between 0 and 255", edgeCol)
	}
	if img.At(0, 5)[0] != 255 {
		t.Errorf("interior column = %d, want 255", img.At(0, 5)[0])
	}
	if img.At(9, 5)[0] != 0 {
		t.Errorf("exterior column = %d, want 0", img.At(9, 5)[0])
	}
}

func TestFillZeroSizeReturnsEmptyImage(t *testing.T) {
	img := Fill(square(0, 0, 1, 1), 0, 0, 0, 0, true)
	if img.Width != 0 || img.Height != 0 {
		t.Fatalf("Fill with zero size returned %dx%d image", img.Width, img.Height)
	}
}

func TestFillNonZeroWindingSameDirectionStaysSolid(t *testing.T) {
	// Outer square wound clockwise, inner square wound counter-clockwise
	// cancels winding in the middle, leaving a hole -- but same-direction
	// contours (both here) should instead double the coverage, staying solid.
	outer := square(0, 0, 10, 10)
	inner := square(3, 3, 7, 7)
	elems := append(append([]path.PathElement{}, outer...), inner...)
	img := Fill(elems, 10, 10, 0, 0, false)
	if img.At(5, 5)[0] != 255 {
		t.Errorf("nested same-winding square center = %d, want 255 (solid)", img.At(5, 5)[0])
	}
}
