package tabulate

import (
	"math"
	"runtime"
	"sync"

	"github.com/rmera/gomolden/grid"
	"gonum.org/v1/gonum/mat"
)

//box is an axis-aligned Cartesian bounding box. Containment is inclusive
//on every face.
type box struct {
	min, max [3]float64
}

func (b box) contains(x, y, z float64) bool {
	return x >= b.min[0] && x <= b.max[0] &&
		y >= b.min[1] && y <= b.max[1] &&
		z >= b.min[2] && z <= b.max[2]
}

// Block couples a Field with the subset of its points retained by a
// merge. A nil Keep retains every point; an empty, non-nil Keep retains
// none. Keep holds indices into the block's own grid, in increasing order.
type Block struct {
	Field *Field
	Keep  []int
}

//Len returns the number of points retained in the block.
func (B Block) Len() int {
	if B.Keep == nil {
		return B.Field.Grid().Len()
	}
	return len(B.Keep)
}

// PiecewiseField is a scalar field sampled at mixed resolutions: block 0
// is the coarse field minus the points inside any refined box, and each
// further block is the fine re-tabulation of one lobe. Blocks never
// cover the same coordinates twice, so the whole set can be handed to a
// renderer as is.
type PiecewiseField struct {
	blocks []Block
}

//NBlocks returns the number of blocks.
func (P *PiecewiseField) NBlocks() int {
	return len(P.blocks)
}

//Block returns the i-th block. Block 0 is always the coarse remainder.
func (P *PiecewiseField) Block(i int) Block {
	return P.blocks[i]
}

//TotalPoints returns the number of retained points over all blocks.
func (P *PiecewiseField) TotalPoints() int {
	n := 0
	for _, b := range P.blocks {
		n += b.Len()
	}
	return n
}

//Flatten concatenates the retained points of every block, in block
//order, into one coordinate matrix and one value slice (the first
//tabulated column of each block).
func (P *PiecewiseField) Flatten() (*mat.Dense, []float64) {
	n := P.TotalPoints()
	pts := mat.NewDense(n, 3, nil)
	vals := make([]float64, 0, n)
	row := 0
	put := func(f *Field, p int) {
		x, y, z := f.Grid().At(p)
		pts.Set(row, 0, x)
		pts.Set(row, 1, y)
		pts.Set(row, 2, z)
		vals = append(vals, f.Values().At(p, 0))
		row++
	}
	for _, bl := range P.blocks {
		if bl.Keep == nil {
			for p := 0; p < bl.Field.Grid().Len(); p++ {
				put(bl.Field, p)
			}
			continue
		}
		for _, p := range bl.Keep {
			put(bl.Field, p)
		}
	}
	return pts, vals
}

// Refine tabulates the MO with index mo on the coarse grid, finds the
// connected regions ("lobes") whose absolute amplitude exceeds the
// threshold fraction of the field's maximum, and re-tabulates each lobe
// on a finer Cartesian grid confined to its margin-expanded bounding
// box. The coarse grid replaces whatever grid tab held. Lobes run
// concurrently, each on its own Tabulator over the shared molecule.
//
// The merge drops every coarse point inside an expanded box. Where boxes
// overlap, the lobe discovered first (lobes are numbered by the first
// cell the point-order scan touches) keeps the overlap, and later lobes
// drop their fine points inside it, so no coordinate is covered twice.
//
// A field with no lobe above threshold, or none larger than the minimum
// cell count, returns the coarse field unchanged as a single block; that
// is not an error. Fine grids are capped at MaxPoints points per axis.
func Refine(tab *Tabulator, coarse *grid.Grid, mo int, options ...*Options) (*PiecewiseField, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if coarse == nil {
		return nil, StateError{NoGridSet, []string{"Refine"}}
	}
	tab.SetGrid(coarse)
	cf, err := tab.Tabulate(mo)
	if err != nil {
		return nil, errDecorate(err, "Refine")
	}
	coarseOnly := &PiecewiseField{[]Block{{cf, nil}}}
	maxabs := cf.MaxAbs(0)
	if maxabs == 0 {
		return coarseOnly, nil
	}
	thr := o.threshold * maxabs
	vals := cf.Column(0)
	mask := make([]bool, len(vals))
	for i, v := range vals {
		mask[i] = math.Abs(v) >= thr
	}
	na, nb, nc := coarse.Shape()
	labels, nlobes := label(mask, na, nb, nc)
	counts := make([]int, nlobes)
	boxes := make([]box, nlobes)
	for i := range boxes {
		for k := 0; k < 3; k++ {
			boxes[i].min[k] = math.Inf(1)
			boxes[i].max[k] = math.Inf(-1)
		}
	}
	for f, lb := range labels {
		if lb == 0 {
			continue
		}
		counts[lb-1]++
		x, y, z := coarse.At(f)
		grow(&boxes[lb-1], x, y, z)
	}
	kept := make([]box, 0, nlobes)
	for i, b := range boxes {
		if counts[i] >= o.minCells {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return coarseOnly, nil
	}
	gmin, gmax := coarse.Bounds()
	for i := range kept {
		expand(&kept[i], o.margin, gmin, gmax)
	}
	fields := make([]*Field, len(kept))
	errs := make([]error, len(kept))
	var wg sync.WaitGroup
	cpus := o.cpus
	if cpus < 1 {
		cpus = runtime.NumCPU()
	}
	sem := make(chan struct{}, cpus)
	for i := range kept {
		wg.Add(1)
		go func(i int, b box) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			fg, err := fineGrid(coarse, b, o)
			if err != nil {
				errs[i] = err
				return
			}
			ft, err := New(tab.mol, o)
			if err != nil {
				errs[i] = err
				return
			}
			ft.SetGrid(fg)
			fields[i], errs[i] = ft.Tabulate(mo)
		}(i, kept[i])
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return nil, errDecorate(e, "Refine")
		}
	}
	blocks := make([]Block, 0, len(kept)+1)
	ckeep := make([]int, 0, coarse.Len())
	for f := 0; f < coarse.Len(); f++ {
		x, y, z := coarse.At(f)
		if !anyContains(kept, len(kept), x, y, z) {
			ckeep = append(ckeep, f)
		}
	}
	blocks = append(blocks, Block{cf, ckeep})
	for i, f := range fields {
		if i == 0 {
			blocks = append(blocks, Block{f, nil})
			continue
		}
		g := f.Grid()
		keep := make([]int, 0, g.Len())
		for p := 0; p < g.Len(); p++ {
			x, y, z := g.At(p)
			if !anyContains(kept, i, x, y, z) {
				keep = append(keep, p)
			}
		}
		blocks = append(blocks, Block{f, keep})
	}
	return &PiecewiseField{blocks}, nil
}

func grow(b *box, x, y, z float64) {
	for k, v := range [3]float64{x, y, z} {
		if v < b.min[k] {
			b.min[k] = v
		}
		if v > b.max[k] {
			b.max[k] = v
		}
	}
}

//anyContains reports whether any of the first n boxes contains the point.
func anyContains(boxes []box, n int, x, y, z float64) bool {
	for i := 0; i < n; i++ {
		if boxes[i].contains(x, y, z) {
			return true
		}
	}
	return false
}

// expand pads each side of the box by the margin fraction of its extent
// along that axis, clamped to the coarse grid bounds. A box a single
// cell thick gets a small absolute pad instead, so its fine grid is not
// degenerate.
func expand(b *box, margin float64, gmin, gmax [3]float64) {
	for k := 0; k < 3; k++ {
		pad := margin * (b.max[k] - b.min[k])
		if pad == 0 {
			pad = 0.01 * (gmax[k] - gmin[k])
		}
		b.min[k] -= pad
		b.max[k] += pad
		if b.min[k] < gmin[k] {
			b.min[k] = gmin[k]
		}
		if b.max[k] > gmax[k] {
			b.max[k] = gmax[k]
		}
	}
}

// fineGrid builds the Cartesian grid refining one lobe box: per axis,
// the number of coarse planes the box spans times the fine factor,
// clamped to the cap. An axis the box does not extend along keeps a
// single plane.
func fineGrid(coarse *grid.Grid, b box, o *Options) (*grid.Grid, error) {
	var n [3]int
	for k := 0; k < 3; k++ {
		if b.max[k] == b.min[k] {
			n[k] = 1
			continue
		}
		n[k] = coarseSpan(coarse, k, b) * o.fineFactor
		if n[k] > o.maxPoints {
			n[k] = o.maxPoints
		}
		if n[k] < 2 {
			n[k] = 2
		}
	}
	x, y, z := grid.CubeAxes(b.min, b.max, n)
	return grid.NewCartesian(x, y, z)
}

// coarseSpan counts the coarse planes the box spans along axis k. For a
// spherical coarse grid the lattice has no Cartesian planes, so the
// count is estimated from the box's share of the grid extent.
func coarseSpan(g *grid.Grid, k int, b box) int {
	if g.Kind() == grid.Cartesian {
		n := 0
		for _, v := range g.Axis(k) {
			if v >= b.min[k] && v <= b.max[k] {
				n++
			}
		}
		if n < 2 {
			n = 2
		}
		return n
	}
	gmin, gmax := g.Bounds()
	ext := gmax[k] - gmin[k]
	if ext <= 0 {
		return 2
	}
	na, nb, nc := g.Shape()
	n := [3]int{na, nb, nc}[k]
	est := int(float64(n)*(b.max[k]-b.min[k])/ext + 0.5)
	if est < 2 {
		est = 2
	}
	return est
}

// label assigns 1-based ids to the connected components of the set cells
// of mask over an na x nb x nc lattice, using 6-connectivity. Components
// are numbered in the order the flat-index scan first touches them,
// which is what fixes the overlap tie-break in Refine.
func label(mask []bool, na, nb, nc int) ([]int, int) {
	lab := make([]int, len(mask))
	var stack []int
	id := 0
	for f := range mask {
		if !mask[f] || lab[f] != 0 {
			continue
		}
		id++
		lab[f] = id
		stack = append(stack[:0], f)
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i := p / (nb * nc)
			rest := p % (nb * nc)
			j, k := rest/nc, rest%nc
			for _, d := range neighbors {
				ni, nj, nk := i+d[0], j+d[1], k+d[2]
				if ni < 0 || ni >= na || nj < 0 || nj >= nb || nk < 0 || nk >= nc {
					continue
				}
				nf := (ni*nb+nj)*nc + nk
				if mask[nf] && lab[nf] == 0 {
					lab[nf] = id
					stack = append(stack, nf)
				}
			}
		}
	}
	return lab, id
}

var neighbors = [6][3]int{{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}, {0, 0, -1}, {0, 0, 1}}
