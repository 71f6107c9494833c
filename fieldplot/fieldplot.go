/*
 * fieldplot.go, part of gomolden.
 *
 * Copyright 2022 Raul Mera A. (raulpuntomeraatusachpuntocl)
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

//Package fieldplot renders planar slices of tabulated orbital fields as
//static images: heat maps on a diverging palette centered at zero, and
//contour plots at chosen isovalues. It only writes image files; anything
//interactive belongs to an external viewer.
package fieldplot

import (
	"fmt"
	"math"

	"github.com/rmera/gomolden/grid"
	"github.com/rmera/gomolden/tabulate"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Options holds the tunables for the image output.
type Options struct {
	width  vg.Length
	height vg.Length
	colors int
}

//DefaultOptions returns an Options with the default values.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.width = 14 * vg.Centimeter
	ret.height = 12 * vg.Centimeter
	ret.colors = 255
	return ret
}

//Width returns the width of the saved image and sets it, if a positive
//value is given.
func (o *Options) Width(w ...vg.Length) vg.Length {
	ret := o.width
	if len(w) > 0 && w[0] > 0 {
		o.width = w[0]
	}
	return ret
}

//Height returns the height of the saved image and sets it, if a positive
//value is given.
func (o *Options) Height(h ...vg.Length) vg.Length {
	ret := o.height
	if len(h) > 0 && h[0] > 0 {
		o.height = h[0]
	}
	return ret
}

//Colors returns the number of steps the color map is discretized into
//and sets it, if a value > 1 is given.
func (o *Options) Colors(n ...int) int {
	ret := o.colors
	if len(n) > 0 && n[0] > 1 {
		o.colors = n[0]
	}
	return ret
}

var axisNames = [3]string{"x", "y", "z"}

// SliceData is one axis-aligned plane extracted from a Cartesian Field.
// It implements the plotter.GridXYZ interface, with the lower-numbered
// in-plane axis as X, so it can be fed to heat-map and contour plotters
// directly. Min and Max are symmetric around zero, which centers any
// diverging palette on the sign change of the orbital.
type SliceData struct {
	axis   int     //the axis normal to the plane, 0..2
	at     float64 //the coordinate of the plane actually used
	xax    int     //in-plane axes, indices into the grid axes
	yax    int
	xs, ys []float64
	vals   []float64 //len(xs)*len(ys), x-major
	maxabs float64
}

//Dims returns the number of columns and rows of the slice.
func (sd *SliceData) Dims() (c, r int) {
	return len(sd.xs), len(sd.ys)
}

//X returns the coordinate of the c-th column.
func (sd *SliceData) X(c int) float64 {
	return sd.xs[c]
}

//Y returns the coordinate of the r-th row.
func (sd *SliceData) Y(r int) float64 {
	return sd.ys[r]
}

//Z returns the field value at column c, row r of the slice.
func (sd *SliceData) Z(c, r int) float64 {
	return sd.vals[c*len(sd.ys)+r]
}

//Min returns the lower end of the value range used for coloring,
//-MaxAbs, so zero always sits at the middle of a diverging palette.
func (sd *SliceData) Min() float64 {
	return -sd.maxabs
}

//Max returns the upper end of the value range used for coloring.
func (sd *SliceData) Max() float64 {
	return sd.maxabs
}

//MaxAbs returns the largest absolute value on the slice.
func (sd *SliceData) MaxAbs() float64 {
	return sd.maxabs
}

//Axis returns the index of the axis normal to the slice and the
//coordinate of the grid plane that was actually used.
func (sd *SliceData) Axis() (int, float64) {
	return sd.axis, sd.at
}

// Slice extracts from f the grid plane normal to the given axis (0, 1 or
// 2 for x, y, z) that lies nearest to the coordinate at, for the moCol-th
// tabulated column. Only Cartesian grids have such planes; slicing a
// field on a spherical grid fails.
func Slice(f *tabulate.Field, moCol, axis int, at float64) (*SliceData, error) {
	g := f.Grid()
	if g.Kind() != grid.Cartesian {
		return nil, Error{NotCartesian, []string{"Slice"}}
	}
	if axis < 0 || axis > 2 {
		return nil, Error{fmt.Sprintf("no axis %d in a 3D grid", axis), []string{"Slice"}}
	}
	_, cols := f.Values().Dims()
	if moCol < 0 || moCol >= cols {
		return nil, Error{fmt.Sprintf("no column %d in a field with %d tabulated MOs", moCol, cols), []string{"Slice"}}
	}
	plane := nearest(g.Axis(axis), at)
	var xax, yax int
	switch axis {
	case 0:
		xax, yax = 1, 2
	case 1:
		xax, yax = 0, 2
	default:
		xax, yax = 0, 1
	}
	sd := &SliceData{
		axis: axis,
		at:   g.Axis(axis)[plane],
		xax:  xax,
		yax:  yax,
		xs:   g.Axis(xax),
		ys:   g.Axis(yax),
	}
	sd.vals = make([]float64, len(sd.xs)*len(sd.ys))
	V := f.Values()
	n := 0
	for ci := range sd.xs {
		for ri := range sd.ys {
			ijk := [3]int{}
			ijk[axis] = plane
			ijk[xax] = ci
			ijk[yax] = ri
			v := V.At(g.FlatIndex(ijk[0], ijk[1], ijk[2]), moCol)
			sd.vals[n] = v
			n++
			if a := math.Abs(v); a > sd.maxabs {
				sd.maxabs = a
			}
		}
	}
	if sd.maxabs == 0 {
		sd.maxabs = 1 //keeps the color range of an all-zero slice well defined
	}
	return sd, nil
}

//nearest returns the index of the axis value closest to at.
func nearest(axis []float64, at float64) int {
	best := 0
	for i, v := range axis {
		if math.Abs(v-at) < math.Abs(axis[best]-at) {
			best = i
		}
	}
	return best
}

// Heat renders sd as a heat map on the Moreland smooth blue-red palette,
// centered at zero, and saves it to path. The format is taken from the
// extension (.png, .svg, .pdf and the other formats gonum/plot writes).
func Heat(sd *SliceData, title, path string, options ...*Options) error {
	o := plotOptions(options)
	p := basicPlot(sd, title)
	cm := moreland.SmoothBlueRed()
	cm.SetMin(sd.Min())
	cm.SetMax(sd.Max())
	h := plotter.NewHeatMap(sd, cm.Palette(o.colors))
	h.Min = sd.Min()
	h.Max = sd.Max()
	p.Add(h)
	p.Add(plotter.NewGrid())
	if err := p.Save(o.width, o.height, path); err != nil {
		return Error{"Can't save the heat map: " + err.Error(), []string{"Heat"}}
	}
	return nil
}

// Contours renders sd as a contour plot at the given levels and saves it
// to path. With no levels, the usual pair of isovalues at one tenth of
// the slice's largest absolute value, one per sign, is used.
func Contours(sd *SliceData, levels []float64, title, path string, options ...*Options) error {
	o := plotOptions(options)
	if len(levels) == 0 {
		iso := 0.1 * sd.MaxAbs()
		levels = []float64{-iso, iso}
	}
	p := basicPlot(sd, title)
	cm := moreland.SmoothBlueRed()
	cm.SetMin(sd.Min())
	cm.SetMax(sd.Max())
	c := plotter.NewContour(sd, levels, cm.Palette(o.colors))
	p.Add(c)
	p.Add(plotter.NewGrid())
	if err := p.Save(o.width, o.height, path); err != nil {
		return Error{"Can't save the contour plot: " + err.Error(), []string{"Contours"}}
	}
	return nil
}

func plotOptions(options []*Options) *Options {
	if len(options) > 0 {
		return options[0]
	}
	return DefaultOptions()
}

func basicPlot(sd *SliceData, title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 3 * vg.Millimeter
	p.X.Label.Text = axisNames[sd.xax] + " (Bohr)"
	p.Y.Label.Text = axisNames[sd.yax] + " (Bohr)"
	return p
}

//Error is the error type for slicing and plotting problems.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string {
	return "gomolden/fieldplot: " + err.message
}

//Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

const (
	NotCartesian = "only fields on Cartesian grids can be sliced"
)
