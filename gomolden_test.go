/*
 * gomolden_test.go, part of gomolden.
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

package molden

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func closeTo(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

//TestReadH2 reads the 2-atom test file and checks every parsed quantity
//against values obtained by hand.
func TestReadH2(Te *testing.T) {
	mol, err := Read("test/h2.molden", false)
	if err != nil {
		fmt.Println("There was an error!", err.Error())
		Te.Error(err)
		return
	}
	if mol.Len() != 2 {
		Te.Error(fmt.Errorf("read %d atoms, wanted 2", mol.Len()))
	}
	//the file is in AU, so no unit conversion applies
	if !closeTo(mol.Atom(0).Position[2], 0.7, 1e-12) || !closeTo(mol.Atom(1).Position[2], -0.7, 1e-12) {
		Te.Error(fmt.Errorf("wrong z coordinates: %v %v", mol.Atom(0).Position, mol.Atom(1).Position))
	}
	if mol.NBasis() != 2 || mol.NMOs() != 2 {
		Te.Error(fmt.Errorf("wrong basis/MO counts: %d %d", mol.NBasis(), mol.NMOs()))
	}
	sh := mol.Atom(0).Shells[0]
	if sh.L != 0 || len(sh.Primitives) != 1 || sh.NFuncs() != 1 {
		Te.Error(fmt.Errorf("wrong shell: %+v", sh))
	}
	//a single s primitive with alpha=1 and coefficient 1 normalizes to
	//sqrt(2*2^1.5/Gamma(1.5))
	if !closeTo(sh.Prefactor[0], 2.5264751, 1e-6) {
		Te.Error(fmt.Errorf("wrong prefactor %v, wanted 2.5264751", sh.Prefactor[0]))
	}
	if mol.HOMO() != 0 || mol.LUMO() != 1 {
		Te.Error(fmt.Errorf("HOMO %d, LUMO %d, wanted 0 and 1", mol.HOMO(), mol.LUMO()))
	}
	anti := mol.MOs[1]
	if anti.Symmetry != "2sigma" || anti.Spin != Alpha {
		Te.Error(fmt.Errorf("wrong MO header data: %+v", anti))
	}
	if !closeTo(anti.Energy, 0.3, 1e-12) || !closeTo(anti.Occupation, 0, 1e-12) {
		Te.Error(fmt.Errorf("wrong MO energy/occupation: %v %v", anti.Energy, anti.Occupation))
	}
	if !closeTo(anti.Coefficients[0], 0.7071067812, 1e-12) || !closeTo(anti.Coefficients[1], -0.7071067812, 1e-12) {
		Te.Error(fmt.Errorf("wrong MO coefficients: %v", anti.Coefficients))
	}
	if !closeTo(mol.MaxRadius(), 0.7, 1e-12) {
		Te.Error(fmt.Errorf("wrong MaxRadius %v", mol.MaxRadius()))
	}
	fmt.Println("h2.molden read!")
}

//TestAtomsOnly reads only the geometry and checks that no basis or MOs
//come along.
func TestAtomsOnly(Te *testing.T) {
	mol, err := Read("test/h2.molden", true)
	if err != nil {
		Te.Error(err)
		return
	}
	if !mol.AtomsOnly() {
		Te.Error(fmt.Errorf("atoms-only read came with a basis"))
	}
	if mol.NBasis() != 0 || mol.NMOs() != 0 {
		Te.Error(fmt.Errorf("atoms-only read has %d basis functions and %d MOs", mol.NBasis(), mol.NMOs()))
	}
	if mol.Len() != 2 {
		Te.Error(fmt.Errorf("read %d atoms, wanted 2", mol.Len()))
	}
	if mol.HOMO() != -1 || mol.LUMO() != -1 {
		Te.Error(fmt.Errorf("HOMO/LUMO should be -1 with no MOs read"))
	}
}

//TestMissingFile checks that a missing file surfaces as the fs sentinel,
//not buried in a decorated error.
func TestMissingFile(Te *testing.T) {
	_, err := Read("test/nothing_here.molden", false)
	if err == nil {
		Te.Error(fmt.Errorf("reading a missing file succeeded"))
		return
	}
	if !errors.Is(err, fs.ErrNotExist) {
		Te.Error(fmt.Errorf("missing file error not recognizable: %v", err))
	}
}

//TestCompressed writes gzip and zstd copies of the test file and reads
//them back through the suffix dispatch.
func TestCompressed(Te *testing.T) {
	plain, err := os.ReadFile("test/h2.molden")
	if err != nil {
		Te.Error(err)
		return
	}
	gf, err := os.Create("test/h2w.molden.gz")
	if err != nil {
		Te.Error(err)
		return
	}
	gw := gzip.NewWriter(gf)
	gw.Write(plain)
	gw.Close()
	gf.Close()
	zf, err := os.Create("test/h2w.molden.zst")
	if err != nil {
		Te.Error(err)
		return
	}
	zw, err := zstd.NewWriter(zf)
	if err != nil {
		Te.Error(err)
		return
	}
	zw.Write(plain)
	zw.Close()
	zf.Close()
	for _, name := range []string{"test/h2w.molden.gz", "test/h2w.molden.zst"} {
		mol, err := Read(name, false)
		if err != nil {
			fmt.Println("There was an error!", err.Error())
			Te.Error(err)
			continue
		}
		if mol.NMOs() != 2 || !closeTo(mol.MOs[0].Coefficients[0], 0.7071067812, 1e-12) {
			Te.Error(fmt.Errorf("compressed copy %s read back wrong", name))
		}
	}
	fmt.Println("compressed round trip done!")
}

//TestBonds checks the covalent-radius skeleton guess: element resolution
//from the atomic number or from oddly-cased labels, and the trim of
//bonds on atoms that exceed their maximum.
func TestBonds(Te *testing.T) {
	mol := &Molecule{Atoms: []*Atom{
		{Label: "h", Position: [3]float64{0, 0, 0}},
		{Label: "X8", Z: 8, Position: [3]float64{0, 0, 1.8}},
		{Label: "o", Position: [3]float64{0, 0, -1.9}},
	}}
	//both O-H pairs are within reach (0.95 and 1.01 A against a 1.51 A
	//limit), the O-O pair is not (1.96 A against 1.77 A). The hydrogen
	//takes one bond only, so the longer of its two must go.
	bonds, err := mol.Bonds()
	if err != nil {
		Te.Error(err)
		return
	}
	if len(bonds) != 1 || bonds[0] != [2]int{0, 1} {
		Te.Error(fmt.Errorf("wrong bonds: %v", bonds))
	}
	bad := &Molecule{Atoms: []*Atom{
		{Label: "Xx", Position: [3]float64{0, 0, 0}},
		{Label: "H", Z: 1, Position: [3]float64{0, 0, 1.5}},
	}}
	_, err = bad.Bonds()
	if err == nil {
		Te.Error(fmt.Errorf("an element with no tabulated radius was accepted"))
		return
	}
	if _, ok := err.(ElementError); !ok {
		Te.Error(fmt.Errorf("wrong error type for an unknown element: %v", err))
	}
}

//TestBondCriterion checks the distance windows of the bond guess: pairs
//beyond the covalent-radius sum, or at and beyond the cap, don't bond,
//and neither do overlapping atoms.
func TestBondCriterion(Te *testing.T) {
	pair := func(d float64) *Molecule {
		return &Molecule{Atoms: []*Atom{
			{Label: "H", Z: 1, Position: [3]float64{0, 0, 0}},
			{Label: "H", Z: 1, Position: [3]float64{0, 0, d}},
		}}
	}
	//the H2 bond distance, 0.74 A
	b, err := pair(1.4).Bonds()
	if err != nil {
		Te.Error(err)
		return
	}
	if len(b) != 1 {
		Te.Error(fmt.Errorf("H2 at bond distance has no bond"))
	}
	//3.9 Bohr is about 2.1 A, far past the 1.25 A two hydrogens reach
	b, err = pair(3.9).Bonds()
	if err != nil {
		Te.Error(err)
		return
	}
	if len(b) != 0 {
		Te.Error(fmt.Errorf("H atoms 3.9 Bohr apart counted as bonded: %v", b))
	}
	//1 Bohr is 0.53 A: overlap, not a bond
	b, err = pair(1.0).Bonds()
	if err != nil {
		Te.Error(err)
		return
	}
	if len(b) != 0 {
		Te.Error(fmt.Errorf("overlapping atoms counted as bonded: %v", b))
	}
	//the cap is strict, a pair exactly at maxLength is not bonded
	b, err = pair(1.5).Bonds(1.5)
	if err != nil {
		Te.Error(err)
		return
	}
	if len(b) != 0 {
		Te.Error(fmt.Errorf("pair at the cap distance counted as bonded: %v", b))
	}
	b, err = pair(1.5).Bonds(1.6)
	if err != nil {
		Te.Error(err)
		return
	}
	if len(b) != 1 {
		Te.Error(fmt.Errorf("cap 1.6 should keep the 1.5 Bohr bond"))
	}
}

//TestElementData checks the element table lookups and their case handling.
func TestElementData(Te *testing.T) {
	if z := ZFromSymbol("cl"); z != 17 {
		Te.Error(fmt.Errorf("ZFromSymbol(cl) = %d, wanted 17", z))
	}
	if z := ZFromSymbol("CL"); z != 17 {
		Te.Error(fmt.Errorf("ZFromSymbol(CL) = %d, wanted 17", z))
	}
	if s := SymbolFromZ(26); s != "Fe" {
		Te.Error(fmt.Errorf("SymbolFromZ(26) = %q, wanted Fe", s))
	}
	if s := SymbolFromZ(113); s != "" {
		Te.Error(fmt.Errorf("SymbolFromZ(113) = %q, wanted an empty string", s))
	}
	if r := CovalentRadius("fe"); !closeTo(r, 1.52, 1e-12) {
		Te.Error(fmt.Errorf("CovalentRadius(fe) = %v, wanted 1.52", r))
	}
	if r := CovalentRadius("Xx"); r != 0 {
		Te.Error(fmt.Errorf("CovalentRadius(Xx) = %v, wanted 0", r))
	}
	if z := ZFromSymbol(""); z != 0 {
		Te.Error(fmt.Errorf("ZFromSymbol of an empty string = %d, wanted 0", z))
	}
}

//TestErrorFileName checks that errors coming out of Read name the file.
func TestErrorFileName(Te *testing.T) {
	badAtom := "[Atoms] AU\nH 1 one 0.0 0.0 0.0\n"
	if err := os.WriteFile("test/bad_atom.molden", []byte(badAtom), 0644); err != nil {
		Te.Error(err)
		return
	}
	_, err := Read("test/bad_atom.molden", false)
	fe, ok := err.(FormatError)
	if !ok {
		Te.Error(fmt.Errorf("wanted a FormatError, got %v", err))
		return
	}
	if fe.FileName() != "test/bad_atom.molden" {
		Te.Error(fmt.Errorf("error names the file %q", fe.FileName()))
	}
	cartesian := "[Atoms] AU\nSc 1 21 0.0 0.0 0.0\n[GTO]\n  1 0\n d    1 1.00\n      1.0 1.0\n\n[MO]\nSym= 1a\nEne= -1.0\nSpin= Alpha\nOccup= 1.0\n  1 1.0\n"
	if err := os.WriteFile("test/bad_cart.molden", []byte(cartesian), 0644); err != nil {
		Te.Error(err)
		return
	}
	_, err = Read("test/bad_cart.molden", false)
	ub, ok := err.(UnsupportedBasisError)
	if !ok {
		Te.Error(fmt.Errorf("wanted an UnsupportedBasisError, got %v", err))
		return
	}
	if ub.FileName() != "test/bad_cart.molden" {
		Te.Error(fmt.Errorf("error names the file %q", ub.FileName()))
	}
}
