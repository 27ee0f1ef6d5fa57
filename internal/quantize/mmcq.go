package quantize

import (
	"slices"

	"github.com/jmylchreest/colorthief/internal/colour"
)

const (
	sigBits  = 5
	rShift   = 8 - sigBits
	sideSize = 1 << sigBits

	maxIterations      = 1000
	fractByPopulations = 0.75
)

// MMCQ is a modified median cut quantizer. Samples are binned into a 5-bit per
// channel histogram; the colour space box holding them is repeatedly cut at the
// population median of its widest axis. The first cuts favour the most populous
// boxes, the remainder favour population x volume, and the palette is ordered by
// population x volume so the most prominent colour comes first.
type MMCQ struct{}

// NewMMCQ creates a new MMCQ quantizer.
func NewMMCQ() *MMCQ {
	return &MMCQ{}
}

type bin struct {
	count      int
	r, g, b    int
	rSum, gSum int
	bSum       int
}

type histogram struct {
	cells []bin
	total int
}

func cellIndex(r, g, b int) int {
	return r<<(2*sigBits) | g<<sigBits | b
}

func newHistogram(samples []colour.RGB) *histogram {
	h := &histogram{cells: make([]bin, sideSize*sideSize*sideSize)}
	for _, s := range samples {
		r, g, b := int(s.R>>rShift), int(s.G>>rShift), int(s.B>>rShift)
		c := &h.cells[cellIndex(r, g, b)]
		c.count++
		c.r, c.g, c.b = r, g, b
		c.rSum += int(s.R)
		c.gSum += int(s.G)
		c.bSum += int(s.B)
	}
	h.total = len(samples)
	return h
}

// vbox is an axis aligned box in histogram coordinates, bounds inclusive.
type vbox struct {
	lo, hi [3]int
	count  int
}

func (v *vbox) volume() int {
	return (v.hi[0] - v.lo[0] + 1) * (v.hi[1] - v.lo[1] + 1) * (v.hi[2] - v.lo[2] + 1)
}

func (v *vbox) each(h *histogram, fn func(c *bin)) {
	for r := v.lo[0]; r <= v.hi[0]; r++ {
		for g := v.lo[1]; g <= v.hi[1]; g++ {
			for b := v.lo[2]; b <= v.hi[2]; b++ {
				if c := &h.cells[cellIndex(r, g, b)]; c.count > 0 {
					fn(c)
				}
			}
		}
	}
}

// fit recounts the box and shrinks its bounds to the occupied cells.
func (v *vbox) fit(h *histogram) {
	lo := [3]int{sideSize, sideSize, sideSize}
	hi := [3]int{-1, -1, -1}
	count := 0
	v.each(h, func(c *bin) {
		count += c.count
		for axis, x := range [3]int{c.r, c.g, c.b} {
			lo[axis] = min(lo[axis], x)
			hi[axis] = max(hi[axis], x)
		}
	})
	v.count = count
	if count > 0 {
		v.lo, v.hi = lo, hi
	}
}

func (v *vbox) splittable() bool {
	return v.count > 1 && v.volume() > 1
}

func (v *vbox) average(h *histogram) colour.RGB {
	var n, r, g, b int
	v.each(h, func(c *bin) {
		n += c.count
		r += c.rSum
		g += c.gSum
		b += c.bSum
	})
	if n == 0 {
		mult := 1 << rShift
		return colour.RGB{
			R: uint8(min(255, mult*(v.lo[0]+v.hi[0]+1)/2)),
			G: uint8(min(255, mult*(v.lo[1]+v.hi[1]+1)/2)),
			B: uint8(min(255, mult*(v.lo[2]+v.hi[2]+1)/2)),
		}
	}
	return colour.RGB{
		R: uint8((r + n/2) / n),
		G: uint8((g + n/2) / n),
		B: uint8((b + n/2) / n),
	}
}

// cut splits the box at the population median of its widest axis.
func (v *vbox) cut(h *histogram) (*vbox, *vbox) {
	axis := 0
	for a := 1; a < 3; a++ {
		if v.hi[a]-v.lo[a] > v.hi[axis]-v.lo[axis] {
			axis = a
		}
	}

	lo, hi := v.lo[axis], v.hi[axis]
	var partial [sideSize]int
	total := 0
	for i := lo; i <= hi; i++ {
		plane := *v
		plane.lo[axis], plane.hi[axis] = i, i
		plane.each(h, func(c *bin) { total += c.count })
		partial[i] = total
	}

	for i := lo; i <= hi; i++ {
		if 2*partial[i] <= total {
			continue
		}
		left, right := i-lo, hi-i
		var d2 int
		if left <= right {
			d2 = min(hi-1, i+right/2)
		} else {
			d2 = max(lo, i-1-left/2)
		}
		for partial[d2] == 0 {
			d2++
		}
		for d2 == hi || (total-partial[d2] == 0 && d2 > lo && partial[d2-1] != 0) {
			d2--
		}

		first, second := *v, *v
		first.hi[axis] = d2
		second.lo[axis] = d2 + 1
		first.fit(h)
		second.fit(h)
		return &first, &second
	}
	return nil, nil
}

// iterate cuts boxes, highest priority first, until there are target of them
// or nothing more can be cut.
func iterate(h *histogram, boxes []*vbox, target int, priority func(*vbox) int) []*vbox {
	for range maxIterations {
		if len(boxes) >= target {
			break
		}
		best := -1
		for i, b := range boxes {
			if b.splittable() && (best < 0 || priority(b) > priority(boxes[best])) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		first, second := boxes[best].cut(h)
		if first == nil || second == nil || first.count == 0 || second.count == 0 {
			break
		}
		boxes[best] = first
		boxes = append(boxes, second)
	}
	return boxes
}

func byCount(v *vbox) int { return v.count }

func byCountVolume(v *vbox) int { return v.count * v.volume() }

// Quantize implements Quantizer.
func (q *MMCQ) Quantize(samples []colour.RGB, count int) []Swatch {
	if len(samples) == 0 || count < 1 {
		return nil
	}

	h := newHistogram(samples)
	root := &vbox{hi: [3]int{sideSize - 1, sideSize - 1, sideSize - 1}}
	root.fit(h)

	boxes := iterate(h, []*vbox{root}, int(fractByPopulations*float64(count)), byCount)
	boxes = iterate(h, boxes, count, byCountVolume)

	slices.SortStableFunc(boxes, func(a, b *vbox) int {
		if d := byCountVolume(b) - byCountVolume(a); d != 0 {
			return d
		}
		return b.count - a.count
	})

	palette := make([]Swatch, 0, len(boxes))
	for _, b := range boxes {
		if b.count == 0 {
			continue
		}
		palette = append(palette, Swatch{
			RGB:    b.average(h),
			Weight: float64(b.count) / float64(h.total),
		})
	}
	return palette
}
