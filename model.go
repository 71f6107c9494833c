/*
 * model.go, part of gomolden.
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

package molden

import (
	"fmt"
	"math"
	"sort"
)

//Bohr is the Bohr radius in Angstrom. Coordinates read in Angstrom
//are divided by it; everything downstream works in Bohr.
const Bohr = 0.52917720859

//MaxL is the highest angular momentum supported, l=4 (g shells).
const MaxL = 4

//Spin is the spin channel of a molecular orbital.
type Spin int

const (
	Alpha Spin = iota
	Beta
)

func (s Spin) String() string {
	if s == Beta {
		return "Beta"
	}
	return "Alpha"
}

//PrimitiveGTO is one primitive Gaussian in a contracted shell: a bare
//exponent and its contraction coefficient, as read from the file.
type PrimitiveGTO struct {
	Exponent    float64
	Coefficient float64
}

// Shell is a contracted set of primitive Gaussians sharing one angular
// momentum l. Prefactor holds, per primitive, the product of the shell
// normalization, the contraction coefficient and the primitive
// normalization. It is fixed at construction so evaluation only sums
// Prefactor[i]*exp(-Exponent[i]*r2) and scales by r^l.
type Shell struct {
	L          int
	Primitives []PrimitiveGTO
	Prefactor  []float64
}

//NFuncs returns the number of basis functions the shell contributes,
//2l+1 in the spherical-harmonic convention.
func (S *Shell) NFuncs() int {
	return 2*S.L + 1
}

//gtoNorm is the norm of a primitive Gaussian of angular momentum l.
//Kuang and Lin, J. Phys. B 30 (1997) 2529, eq. 14.
func gtoNorm(l int, alpha float64) float64 {
	return math.Sqrt(2 * math.Pow(2*alpha, float64(l)+1.5) / math.Gamma(float64(l)+1.5))
}

//primOverlap is the overlap of two normalized primitives of the same l
//on the same center.
func primOverlap(l int, a, b float64) float64 {
	return math.Pow(2*math.Sqrt(a*b)/(a+b), float64(l)+1.5)
}

//NewShell builds a Shell of angular momentum l from its primitives and
//precomputes the per-primitive prefactors.
func NewShell(l int, prims []PrimitiveGTO) (*Shell, error) {
	if l < 0 || l > MaxL {
		return nil, fmt.Errorf("gomolden.NewShell: angular momentum %d out of the supported 0-%d", l, MaxL)
	}
	if len(prims) == 0 {
		return nil, fmt.Errorf("gomolden.NewShell: shell without primitives")
	}
	norms := make([]float64, len(prims))
	for i, p := range prims {
		if p.Exponent <= 0 {
			return nil, fmt.Errorf("gomolden.NewShell: non-positive exponent %v", p.Exponent)
		}
		norms[i] = gtoNorm(l, p.Exponent)
	}
	var over float64
	for _, pi := range prims {
		for _, pj := range prims {
			over += pi.Coefficient * pj.Coefficient * primOverlap(l, pi.Exponent, pj.Exponent)
		}
	}
	if over <= 0 {
		return nil, fmt.Errorf("gomolden.NewShell: shell does not normalize, self-overlap %v", over)
	}
	snorm := 1 / math.Sqrt(over)
	pre := make([]float64, len(prims))
	for i, p := range prims {
		pre[i] = snorm * p.Coefficient * norms[i]
	}
	return &Shell{L: l, Primitives: prims, Prefactor: pre}, nil
}

//Atom is one atom of the parsed system: the element label as read,
//the atomic number, the position in Bohr, and the contracted shells
//centered on it (nil when the file was parsed in atoms-only mode).
type Atom struct {
	Label    string
	Z        int
	Position [3]float64
	Shells   []*Shell
}

// MolecularOrbital is one MO block of the file. Coefficients follow the
// canonical basis ordering: atoms in file order, shells in file order
// within each atom, and within a shell the 2l+1 components ordered by
// m=-l..l. The parser reorders from the Molden layout on the fly.
type MolecularOrbital struct {
	Symmetry     string
	Energy       float64
	Spin         Spin
	Occupation   float64
	Coefficients []float64
}

// Molecule is the result of parsing one Molden file: atoms, their shells
// and the MOs. It is read-only after the parse; any number of concurrent
// tabulations may share one Molecule.
type Molecule struct {
	Atoms []*Atom
	MOs   []*MolecularOrbital
}

//Len returns the number of atoms.
func (M *Molecule) Len() int {
	return len(M.Atoms)
}

//Atom returns the i-th atom. It panics if i is out of range, as this
//is considered a logic error in the caller.
func (M *Molecule) Atom(i int) *Atom {
	return M.Atoms[i]
}

//NBasis returns the total number of basis functions, summing 2l+1 over
//every shell of every atom. Zero for atoms-only parses.
func (M *Molecule) NBasis() int {
	n := 0
	for _, at := range M.Atoms {
		for _, sh := range at.Shells {
			n += sh.NFuncs()
		}
	}
	return n
}

//NMOs returns the number of molecular orbitals read.
func (M *Molecule) NMOs() int {
	return len(M.MOs)
}

//AtomsOnly returns true if the Molecule carries no basis (it was read
//in atoms-only mode, or the file had no [GTO] section to read).
func (M *Molecule) AtomsOnly() bool {
	for _, at := range M.Atoms {
		if len(at.Shells) > 0 {
			return false
		}
	}
	return true
}

//MaxRadius returns the largest distance, in Bohr, from the origin to
//an atom. Used to size default grids around the molecule.
func (M *Molecule) MaxRadius() float64 {
	max := 0.0
	for _, at := range M.Atoms {
		r := math.Sqrt(at.Position[0]*at.Position[0] + at.Position[1]*at.Position[1] + at.Position[2]*at.Position[2])
		if r > max {
			max = r
		}
	}
	return max
}

//HOMO returns the index of the highest MO with non-negligible occupation,
//or -1 if no MO is occupied (or no MOs were read).
func (M *Molecule) HOMO() int {
	ret := -1
	for i, mo := range M.MOs {
		if mo.Occupation > 1e-10 {
			ret = i
		}
	}
	return ret
}

//LUMO returns the index of the lowest MO with negligible occupation,
//or -1 if all MOs read are occupied (or no MOs were read).
func (M *Molecule) LUMO() int {
	for i, mo := range M.MOs {
		if mo.Occupation <= 1e-10 {
			return i
		}
	}
	return -1
}

//element returns the canonical symbol for the atom: from its atomic
//number when the tables know it, from its (case-normalized) label
//otherwise. Empty if neither works.
func (at *Atom) element() string {
	if s := SymbolFromZ(at.Z); s != "" {
		return s
	}
	return canonicalSymbol(at.Label)
}

//Bond criterion constants, in Angstrom, from DOI:10.1186/1758-2946-3-33.
const (
	bondtol  = 0.45
	tooclose = 0.63 //under this, atoms overlap rather than bond.
)

type bond struct {
	i, j int
	d    float64
}

// Bonds infers the molecular skeleton: two atoms bond when their distance
// is under the sum of their covalent radii plus a tolerance, yet over an
// overlap floor, and in any case closer than maxLength (in Bohr; 4.0 if
// not given). Atoms exceeding their maximum bond count drop their longest
// bonds. Elements resolve from the atomic number first and the label
// second, so an Atom built by hand needs only one of the two; an element
// with no radius in the atomicdata.go tables is an ElementError. Pairs
// are returned with i<j, sorted by (i,j). Only a drawing aid, no
// chemistry is claimed.
func (M *Molecule) Bonds(maxLength ...float64) ([][2]int, error) {
	cutoff := 4.0
	if len(maxLength) > 0 && maxLength[0] > 0 {
		cutoff = maxLength[0]
	}
	els := make([]string, len(M.Atoms))
	rads := make([]float64, len(M.Atoms))
	for i, at := range M.Atoms {
		els[i] = at.element()
		rads[i] = symbolCovrad[els[i]]
		if rads[i] == 0 {
			lab := els[i]
			if lab == "" {
				lab = at.Label
			}
			return nil, ElementError{lab, i, []string{"Bonds"}}
		}
	}
	var bonds []*bond
	for i := 0; i < len(M.Atoms); i++ {
		for j := i + 1; j < len(M.Atoms); j++ {
			a, b := M.Atoms[i].Position, M.Atoms[j].Position
			dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
			d := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if d >= cutoff {
				continue
			}
			//The radii and the tolerances are in Angstrom.
			if da := d * Bohr; da < rads[i]+rads[j]+bondtol && da > tooclose {
				bonds = append(bonds, &bond{i, j, d})
			}
		}
	}
	counts := make([]int, len(M.Atoms))
	for _, b := range bonds {
		counts[b.i]++
		counts[b.j]++
	}
	//Longest bonds go first so the trim below drops them first.
	sort.Slice(bonds, func(a, b int) bool { return bonds[a].d > bonds[b].d })
	kept := make([]*bond, 0, len(bonds))
	for _, b := range bonds {
		if overBonded(els[b.i], counts[b.i]) || overBonded(els[b.j], counts[b.j]) {
			counts[b.i]--
			counts[b.j]--
			continue
		}
		kept = append(kept, b)
	}
	sort.Slice(kept, func(a, b int) bool {
		if kept[a].i != kept[b].i {
			return kept[a].i < kept[b].i
		}
		return kept[a].j < kept[b].j
	})
	ret := make([][2]int, len(kept))
	for i, b := range kept {
		ret[i] = [2]int{b.i, b.j}
	}
	return ret, nil
}

//overBonded says whether an atom of element el, with n bonds, exceeds
//the maximum for that element. Elements without a tabulated maximum
//never do.
func overBonded(el string, n int) bool {
	max := symbolMaxBonds[el]
	return max > 0 && n > max
}
