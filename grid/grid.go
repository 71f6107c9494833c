/*
 * grid.go, part of gomolden.
 *
 * Copyright 2021 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package grid builds Cartesian and spherical point grids as the outer
//product of three axes, and converts between the two coordinate systems.
//Grids are immutable: a different sampling is a new Grid, so consumers can
//detect a change by comparing pointers.
package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Kind tags the coordinate system the axes of a Grid live in.
type Kind int

const (
	Cartesian Kind = iota
	Spherical
)

func (k Kind) String() string {
	if k == Spherical {
		return "spherical"
	}
	return "cartesian"
}

// Grid is an immutable outer product of three axes. The materialized
// points are always Cartesian, whatever the axes' coordinate system, so
// they can be fed to basis evaluation directly. The original axes are
// kept for export and for recovering the lattice structure.
type Grid struct {
	kind   Kind
	axes   [3][]float64
	points *mat.Dense //Len() x 3
}

// NewCartesian builds a grid over the outer product of the x, y and z
// axes. Points are ordered x-major, z fastest: point (i,j,k) sits at the
// flat index i*len(y)*len(z) + j*len(z) + k. Axes must be non-empty and
// strictly increasing.
func NewCartesian(x, y, z []float64) (*Grid, error) {
	for i, ax := range [3][]float64{x, y, z} {
		if err := checkAxis(ax, axisNames[i]); err != nil {
			return nil, err
		}
	}
	nx, ny, nz := len(x), len(y), len(z)
	pts := mat.NewDense(nx*ny*nz, 3, nil)
	row := 0
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				pts.Set(row, 0, x[i])
				pts.Set(row, 1, y[j])
				pts.Set(row, 2, z[k])
				row++
			}
		}
	}
	return &Grid{kind: Cartesian, axes: copyAxes(x, y, z), points: pts}, nil
}

// NewSpherical builds a grid over the outer product of the r, theta and
// phi axes, with every point converted to Cartesian. Points are ordered
// r-major, phi fastest, mirroring the Cartesian layout. r must be
// non-negative, theta within [0,pi], phi within [0,2pi), all three
// strictly increasing.
func NewSpherical(r, theta, phi []float64) (*Grid, error) {
	for i, ax := range [3][]float64{r, theta, phi} {
		if err := checkAxis(ax, axisNames[3+i]); err != nil {
			return nil, err
		}
	}
	if r[0] < 0 {
		return nil, Error{fmt.Sprintf("negative radius %v", r[0]), nil}
	}
	if theta[0] < 0 || theta[len(theta)-1] > math.Pi {
		return nil, Error{"theta outside [0,pi]", nil}
	}
	if phi[0] < 0 || phi[len(phi)-1] >= 2*math.Pi {
		return nil, Error{"phi outside [0,2pi)", nil}
	}
	nr, nt, np := len(r), len(theta), len(phi)
	pts := mat.NewDense(nr*nt*np, 3, nil)
	row := 0
	for i := 0; i < nr; i++ {
		for j := 0; j < nt; j++ {
			st, ct := math.Sincos(theta[j])
			for k := 0; k < np; k++ {
				sp, cp := math.Sincos(phi[k])
				pts.Set(row, 0, r[i]*st*cp)
				pts.Set(row, 1, r[i]*st*sp)
				pts.Set(row, 2, r[i]*ct)
				row++
			}
		}
	}
	return &Grid{kind: Spherical, axes: copyAxes(r, theta, phi), points: pts}, nil
}

var axisNames = [6]string{"x", "y", "z", "r", "theta", "phi"}

func checkAxis(ax []float64, name string) error {
	if len(ax) == 0 {
		return Error{"empty " + name + " axis", nil}
	}
	for i := 1; i < len(ax); i++ {
		if ax[i] <= ax[i-1] {
			return Error{name + " axis not strictly increasing", nil}
		}
	}
	return nil
}

func copyAxes(a, b, c []float64) [3][]float64 {
	return [3][]float64{
		append([]float64{}, a...),
		append([]float64{}, b...),
		append([]float64{}, c...),
	}
}

//Kind returns the coordinate system of the grid axes.
func (g *Grid) Kind() Kind {
	return g.kind
}

//Len returns the number of points in the grid.
func (g *Grid) Len() int {
	r, _ := g.points.Dims()
	return r
}

//Shape returns the length of each axis.
func (g *Grid) Shape() (int, int, int) {
	return len(g.axes[0]), len(g.axes[1]), len(g.axes[2])
}

//Axis returns a copy of the i-th axis (0,1,2; x,y,z or r,theta,phi
//depending on the grid kind).
func (g *Grid) Axis(i int) []float64 {
	return append([]float64{}, g.axes[i]...)
}

//Points returns the Cartesian points, one per row. The matrix belongs to
//the grid and must be treated as read-only.
func (g *Grid) Points() *mat.Dense {
	return g.points
}

//At returns the Cartesian coordinates of the i-th point.
func (g *Grid) At(i int) (x, y, z float64) {
	return g.points.At(i, 0), g.points.At(i, 1), g.points.At(i, 2)
}

//FlatIndex maps axis indices to the flat point index, last axis fastest.
func (g *Grid) FlatIndex(i, j, k int) int {
	_, nb, nc := g.Shape()
	return i*nb*nc + j*nc + k
}

//AxisIndices is the inverse of FlatIndex.
func (g *Grid) AxisIndices(flat int) (i, j, k int) {
	_, nb, nc := g.Shape()
	i = flat / (nb * nc)
	rest := flat % (nb * nc)
	return i, rest / nc, rest % nc
}

//Bounds returns the axis-aligned Cartesian bounding box of the points.
func (g *Grid) Bounds() (min, max [3]float64) {
	if g.kind == Cartesian {
		for k := 0; k < 3; k++ {
			min[k] = g.axes[k][0]
			max[k] = g.axes[k][len(g.axes[k])-1]
		}
		return min, max
	}
	n := g.Len()
	for k := 0; k < 3; k++ {
		min[k] = math.Inf(1)
		max[k] = math.Inf(-1)
	}
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			v := g.points.At(i, k)
			if v < min[k] {
				min[k] = v
			}
			if v > max[k] {
				max[k] = v
			}
		}
	}
	return min, max
}

// ToSpherical converts one Cartesian point to spherical coordinates.
// At the exact origin both angles are 0 by convention, and the cosine
// fed to Acos is clamped to [-1,1], so the result is never NaN.
func ToSpherical(x, y, z float64) (r, theta, phi float64) {
	r = math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return 0, 0, 0
	}
	ct := z / r
	if ct > 1 {
		ct = 1
	} else if ct < -1 {
		ct = -1
	}
	theta = math.Acos(ct)
	phi = math.Atan2(y, x)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return r, theta, phi
}

//FromSpherical converts one spherical point to Cartesian coordinates.
func FromSpherical(r, theta, phi float64) (x, y, z float64) {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	return r * st * cp, r * st * sp, r * ct
}

//Default grid sizes. They follow the usual visualization practice of
//sampling the whole molecule plus the tails of its orbitals.
const (
	defRadiusFloor = 5.0
	defCartPoints  = 100
	defRPoints     = 100
	defThetaPoints = 60
	defPhiPoints   = 120
)

func defaultRadius(maxRadius float64) float64 {
	return math.Max(2*maxRadius, defRadiusFloor)
}

// CubeAxes builds the three axes of a Cartesian grid with n[k] evenly
// spaced points over [min[k], max[k]] along each axis. An axis asked for
// fewer than 2 points, or with no extent, collapses to the single value
// min[k].
func CubeAxes(min, max [3]float64, n [3]int) (x, y, z []float64) {
	var axes [3][]float64
	for k := 0; k < 3; k++ {
		if n[k] < 2 || min[k] == max[k] {
			axes[k] = []float64{min[k]}
			continue
		}
		axes[k] = floats.Span(make([]float64, n[k]), min[k], max[k])
	}
	return axes[0], axes[1], axes[2]
}

//DefaultCartesian builds the default cube grid for a molecule whose
//farthest atom sits maxRadius Bohr from the origin: 100 points per axis
//over [-R,R] with R = max(2*maxRadius, 5). An optional argument replaces
//the per-axis point count.
func DefaultCartesian(maxRadius float64, points ...int) (*Grid, error) {
	n := defCartPoints
	if len(points) > 0 && points[0] > 1 {
		n = points[0]
	}
	r := defaultRadius(maxRadius)
	x, y, z := CubeAxes([3]float64{-r, -r, -r}, [3]float64{r, r, r}, [3]int{n, n, n})
	return NewCartesian(x, y, z)
}

//DefaultSpherical builds the default spherical grid, 100x60x120 in
//(r,theta,phi), with the same radius rule as DefaultCartesian. Up to
//three optional arguments replace the r, theta and phi point counts.
func DefaultSpherical(maxRadius float64, points ...int) (*Grid, error) {
	n := [3]int{defRPoints, defThetaPoints, defPhiPoints}
	for i, p := range points {
		if i > 2 {
			break
		}
		if p > 1 {
			n[i] = p
		}
	}
	rmax := defaultRadius(maxRadius)
	r := floats.Span(make([]float64, n[0]), 0, rmax)
	theta := floats.Span(make([]float64, n[1]), 0, math.Pi)
	last := 2 * math.Pi * float64(n[2]-1) / float64(n[2])
	phi := floats.Span(make([]float64, n[2]), 0, last)
	return NewSpherical(r, theta, phi)
}

//Error is the error type for grid construction problems.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string {
	return "gomolden/grid: " + err.message
}

//Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}
