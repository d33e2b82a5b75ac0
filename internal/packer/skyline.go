// Package packer packs a set of rectangles into one or more fixed-size
// pages using a skyline bin-packing strategy: it tracks, per page, the
// current "skyline" of occupied column heights and places each new
// rectangle at the lowest position it fits, left-to-right among ties.
// A rectangle that does not fit the current page is left for a later
// page; once none of the remaining rectangles fits, the page is closed
// and a new one started. A Packer is one-shot:
// Pack must be called exactly once.
package packer

import "errors"

// ErrRectTooLarge is returned by Pack when an added rectangle exceeds
// the page dimensions on either axis; such a rectangle could never be
// placed and would otherwise make the packer loop forever opening empty
// pages.
var ErrRectTooLarge = errors.New("packer: rectangle exceeds page size")

// errAlreadyPacked guards the one-shot contract: Pack must run at most
// once per Packer.
var errAlreadyPacked = errors.New("packer: Pack called more than once")

// Placement is the page and position a rectangle was packed to.
type Placement struct {
	Page int
	X    int
	Y    int
}

type rect struct {
	w, h   int
	handle int
}

// Packer collects rectangles to be packed and, once, packs them.
type Packer struct {
	items  []rect
	packed bool
}

// New returns a Packer with capacity hinted by the expected rectangle
// count (typically a face's glyph count).
func New(capacityHint int) *Packer {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Packer{items: make([]rect, 0, capacityHint)}
}

// Add registers a rectangle of size w x h and returns a handle used to
// look up its placement after Pack runs. Handles are assigned in Add
// order starting at 0.
func (p *Packer) Add(w, h int) int {
	handle := len(p.items)
	p.items = append(p.items, rect{w: w, h: h, handle: handle})
	return handle
}

// Pack places every added rectangle into one or more pages no larger
// than pageW x pageH, opening a new page once none of the remaining
// rectangles fits the current one, and returns each rectangle's placement indexed
// by its Add handle plus the number of pages opened. Pack panics if
// called more than once on the same Packer. It returns ErrRectTooLarge
// if any rectangle exceeds the page dimensions on either axis, rather
// than looping forever trying to place a rectangle that can never fit.
func (p *Packer) Pack(pageW, pageH int) ([]Placement, int, error) {
	if p.packed {
		panic(errAlreadyPacked)
	}
	p.packed = true

	placements := make([]Placement, len(p.items))
	remaining := make([]rect, len(p.items))
	copy(remaining, p.items)

	for _, r := range remaining {
		if r.w > pageW || r.h > pageH {
			return nil, 0, ErrRectTooLarge
		}
	}

	page := 0
	for len(remaining) > 0 {
		sky := newSkyline(pageW)
		i := 0
		for i < len(remaining) {
			r := remaining[i]
			x, y, ok := sky.place(r.w, r.h, pageH)
			if !ok {
				i++
				continue
			}
			placements[r.handle] = Placement{Page: page, X: x, Y: y}
			sky.occupy(x, r.w, y+r.h)
			remaining[i] = remaining[len(remaining)-1]
			remaining = remaining[:len(remaining)-1]
			// Don't advance i: the swapped-in element takes this slot.
		}
		page++
	}

	return placements, page, nil
}

// skyline tracks, for each column in [0,width), the y coordinate below
// which the column is free.
type skyline struct {
	height []int
}

func newSkyline(width int) *skyline {
	return &skyline{height: make([]int, width)}
}

// place finds the lowest, then leftmost, x position where a w x h
// rectangle fits without exceeding pageH, scanning every candidate
// column start left to right.
func (s *skyline) place(w, h, pageH int) (x, y int, ok bool) {
	bestY := -1
	bestX := 0
	for cx := 0; cx+w <= len(s.height); cx++ {
		y := maxInRange(s.height, cx, cx+w)
		if y+h > pageH {
			continue
		}
		if bestY == -1 || y < bestY {
			bestY = y
			bestX = cx
		}
	}
	if bestY == -1 {
		return 0, 0, false
	}
	return bestX, bestY, true
}

// occupy raises the skyline across [x, x+w) to newHeight after a
// rectangle has been placed there.
func (s *skyline) occupy(x, w, newHeight int) {
	for c := x; c < x+w; c++ {
		s.height[c] = newHeight
	}
}

func maxInRange(h []int, lo, hi int) int {
	m := h[lo]
	for i := lo + 1; i < hi; i++ {
		if h[i] > m {
			m = h[i]
		}
	}
	return m
}
