/*
 * tabulator.go, part of gomolden.
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

package tabulate

import (
	"fmt"
	"math"

	molden "github.com/rmera/gomolden"
	"github.com/rmera/gomolden/grid"
	"gonum.org/v1/gonum/mat"
)

// Tabulator evaluates molecular orbitals of one Molecule over one grid
// at a time. The basis matrix for the current grid is computed on the
// first tabulation and reused until the grid is replaced. A Tabulator is
// not safe for concurrent use; concurrent callers should each build
// their own over the shared, read-only Molecule.
type Tabulator struct {
	mol   *molden.Molecule
	grid  *grid.Grid
	basis *mat.Dense
	opts  *Options
}

//New builds a Tabulator for mol. It fails with a StateError if mol
//carries no basis functions, i.e. if it was parsed in atoms-only mode:
//there is nothing to contract MO coefficients against.
func New(mol *molden.Molecule, options ...*Options) (*Tabulator, error) {
	var o *Options
	if len(options) > 0 {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if mol == nil || mol.AtomsOnly() {
		return nil, StateError{NoBasisSet, []string{"New"}}
	}
	return &Tabulator{mol: mol, opts: o}, nil
}

//SetGrid replaces the grid. The cached basis matrix is dropped and will
//be recomputed lazily on the next tabulation. Setting the same grid
//(pointer identity) keeps the cache.
func (T *Tabulator) SetGrid(g *grid.Grid) {
	if g == T.grid {
		return
	}
	T.grid = g
	T.basis = nil
}

//Grid returns the current grid, or nil if none was set.
func (T *Tabulator) Grid() *grid.Grid {
	return T.grid
}

//Molecule returns the molecule this Tabulator evaluates.
func (T *Tabulator) Molecule() *molden.Molecule {
	return T.mol
}

// Tabulate evaluates the MOs with the given indices at every point of
// the current grid and returns them as a Field, one column per MO, in
// the order requested. With no indices, all MOs are tabulated. It fails
// with a RangeError on any index outside [0, NMOs) and with a StateError
// if no grid has been set.
func (T *Tabulator) Tabulate(mos ...int) (*Field, error) {
	if T.grid == nil {
		return nil, StateError{NoGridSet, []string{"Tabulate"}}
	}
	nmos := T.mol.NMOs()
	if nmos == 0 {
		return nil, StateError{NoOrbitals, []string{"Tabulate"}}
	}
	if len(mos) == 0 {
		mos = make([]int, nmos)
		for i := range mos {
			mos[i] = i
		}
	}
	for _, m := range mos {
		if m < 0 || m >= nmos {
			return nil, RangeError{m, nmos, []string{"Tabulate"}}
		}
	}
	if T.basis == nil {
		var err error
		T.basis, err = BasisMatrix(T.mol, T.grid, T.opts)
		if err != nil {
			return nil, errDecorate(err, "Tabulate")
		}
	}
	nb := T.mol.NBasis()
	C := mat.NewDense(nb, len(mos), nil)
	for j, mi := range mos {
		for i := 0; i < nb; i++ {
			C.Set(i, j, T.mol.MOs[mi].Coefficients[i])
		}
	}
	V := mat.NewDense(T.grid.Len(), len(mos), nil)
	V.Mul(T.basis, C)
	return &Field{grid: T.grid, mos: append([]int{}, mos...), values: V}, nil
}

// Field is a set of scalar values sampled over one grid: one column per
// tabulated MO, one row per grid point, in the grid's point order. It is
// not mutated after creation.
type Field struct {
	grid   *grid.Grid
	mos    []int
	values *mat.Dense
}

//Grid returns the grid the field was sampled on.
func (F *Field) Grid() *grid.Grid {
	return F.grid
}

//MOs returns the indices of the tabulated MOs, one per column.
func (F *Field) MOs() []int {
	return append([]int{}, F.mos...)
}

//Values returns the sampled values. The matrix belongs to the field and
//must be treated as read-only.
func (F *Field) Values() *mat.Dense {
	return F.values
}

//Column returns a copy of the values of the j-th tabulated MO.
func (F *Field) Column(j int) []float64 {
	return mat.Col(nil, j, F.values)
}

//MaxAbs returns the largest absolute value in the j-th column.
func (F *Field) MaxAbs(j int) float64 {
	n, _ := F.values.Dims()
	max := 0.0
	for i := 0; i < n; i++ {
		if v := math.Abs(F.values.At(i, j)); v > max {
			max = v
		}
	}
	return max
}

//Errors

//errDecorate asserts that err implements molden.Error and decorates it
//with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2 := err.(molden.Error)
	err2.Decorate(caller)
	return err2
}

//RangeError reports an MO index outside the valid range.
type RangeError struct {
	index int
	nmos  int
	deco  []string
}

func (err RangeError) Error() string {
	return fmt.Sprintf("gomolden/tabulate: MO index %d out of range, %d MOs available", err.index, err.nmos)
}

//Decorate adds new information to the error
func (err RangeError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//Index returns the offending MO index
func (err RangeError) Index() int { return err.index }

//StateError reports an operation that is invalid in the current state
//of the object, like tabulating before a grid is set.
type StateError struct {
	message string
	deco    []string
}

func (err StateError) Error() string {
	return "gomolden/tabulate: " + err.message
}

//Decorate adds new information to the error
func (err StateError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

const (
	NoGridSet  = "no grid set"
	NoBasisSet = "molecule carries no basis functions (atoms-only parse)"
	NoOrbitals = "molecule carries no molecular orbitals"
)
