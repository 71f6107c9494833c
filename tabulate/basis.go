/*
 * basis.go, part of gomolden.
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

//Package tabulate evaluates Gaussian basis functions and molecular
//orbitals over point grids. A Tabulator owns one grid at a time, keeps
//the basis matrix for it, and contracts that matrix with MO coefficient
//vectors into scalar fields; Refine resamples a field adaptively where
//its amplitude is significant.
package tabulate

import (
	"math"
	"runtime"
	"sync"

	molden "github.com/rmera/gomolden"
	"github.com/rmera/gomolden/grid"
	"gonum.org/v1/gonum/mat"
)

//Options holds the tunables for tabulation and refinement.
type Options struct {
	cpus       int
	threshold  float64
	minCells   int
	margin     float64
	fineFactor int
	maxPoints  int
}

//DefaultOptions returns an Options with the default values.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.cpus = runtime.NumCPU()
	ret.threshold = 0.1
	ret.minCells = 8
	ret.margin = 0.25
	ret.fineFactor = 2
	ret.maxPoints = 256
	return ret
}

//Cpus returns the number of goroutines used for the concurrent parts
//and sets it, if a valid value is given.
func (o *Options) Cpus(cpus ...int) int {
	ret := o.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		o.cpus = cpus[0]
	}
	return ret
}

//Threshold returns the lobe-detection threshold, as a fraction of the
//largest absolute value of the coarse field, and sets it, if a value in
//(0,1] is given.
func (o *Options) Threshold(t ...float64) float64 {
	ret := o.threshold
	if len(t) > 0 && t[0] > 0 && t[0] <= 1 {
		o.threshold = t[0]
	}
	return ret
}

//MinCells returns the smallest number of connected cells a lobe needs
//in order not to be discarded as noise, and sets it, if a positive
//value is given.
func (o *Options) MinCells(n ...int) int {
	ret := o.minCells
	if len(n) > 0 && n[0] > 0 {
		o.minCells = n[0]
	}
	return ret
}

//Margin returns the fraction by which each lobe bounding box is expanded
//per side before refinement, and sets it, if a non-negative value is given.
func (o *Options) Margin(m ...float64) float64 {
	ret := o.margin
	if len(m) > 0 && m[0] >= 0 {
		o.margin = m[0]
	}
	return ret
}

//FineFactor returns the per-axis multiplier applied to the coarse point
//count when building a lobe's fine grid, and sets it, if a value > 1 is given.
func (o *Options) FineFactor(f ...int) int {
	ret := o.fineFactor
	if len(f) > 0 && f[0] > 1 {
		o.fineFactor = f[0]
	}
	return ret
}

//MaxPoints returns the cap on fine-grid points per axis, and sets it,
//if a value > 1 is given. The cap keeps a large expanded box from
//refining without bound.
func (o *Options) MaxPoints(n ...int) int {
	ret := o.maxPoints
	if len(n) > 0 && n[0] > 1 {
		o.maxPoints = n[0]
	}
	return ret
}

// BasisMatrix evaluates every basis function of mol at every point of g.
// Row i holds point i, columns follow the canonical ordering: atoms in
// file order, shells in file order, m=-l..l within a shell, matching the
// coefficient layout of the parsed MOs. Atoms write disjoint column
// blocks, so they are processed concurrently.
func BasisMatrix(mol *molden.Molecule, g *grid.Grid, options ...*Options) (*mat.Dense, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if g == nil {
		return nil, StateError{NoGridSet, nil}
	}
	nb := mol.NBasis()
	if nb == 0 {
		return nil, StateError{NoBasisSet, nil}
	}
	offs := make([]int, len(mol.Atoms)+1)
	for i, at := range mol.Atoms {
		n := 0
		for _, sh := range at.Shells {
			n += sh.NFuncs()
		}
		offs[i+1] = offs[i] + n
	}
	M := mat.NewDense(g.Len(), nb, nil)
	pts := g.Points()
	natoms := len(mol.Atoms)
	cpus := o.cpus
	if cpus < 1 {
		cpus = runtime.NumCPU()
	}
	chunk := (natoms + cpus - 1) / cpus
	var wg sync.WaitGroup
	for lo := 0; lo < natoms; lo += chunk {
		hi := lo + chunk
		if hi > natoms {
			hi = natoms
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for a := lo; a < hi; a++ {
				atomBlock(M, offs[a], mol.Atoms[a], pts)
			}
		}(lo, hi)
	}
	wg.Wait()
	return M, nil
}

// atomBlock fills the columns of one atom. The offset and squared
// distance from each point to the atom are computed once and shared by
// all the atom's shells.
func atomBlock(M *mat.Dense, col0 int, at *molden.Atom, pts *mat.Dense) {
	if len(at.Shells) == 0 {
		return
	}
	n, _ := pts.Dims()
	for i := 0; i < n; i++ {
		dx := pts.At(i, 0) - at.Position[0]
		dy := pts.At(i, 1) - at.Position[1]
		dz := pts.At(i, 2) - at.Position[2]
		r2 := dx*dx + dy*dy + dz*dz
		col := col0
		for _, sh := range at.Shells {
			radial := 0.0
			for k, p := range sh.Primitives {
				radial += sh.Prefactor[k] * math.Exp(-p.Exponent*r2)
			}
			for m := -sh.L; m <= sh.L; m++ {
				M.Set(i, col, radial*xlm(sh.L, m, dx, dy, dz, r2))
				col++
			}
		}
	}
}
