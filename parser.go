/*
 * parser.go, part of gomolden.
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
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

type distanceUnit int

const (
	unitAngs distanceUnit = iota
	unitBohr
)

//zstdql adapts the zstd decoder, whose Close returns nothing, to io.ReadCloser.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

//Close closes the decoder. It can not be used after this call.
func (z zstdql) Close() error {
	z.closeql()
	return nil
}

// Read opens and parses a Molden file. Files ending in .zst/.zstd or
// .gz/.gzip are decompressed transparently. Geometries are converted to
// Bohr; an [Atoms] header without a unit marker is read as Angstrom. If
// atomsOnly is true, only the geometry is read and the returned Molecule
// carries no shells and no MOs.
// A missing file returns the underlying *os.PathError unwrapped, so the
// caller can test it with errors.Is(err, fs.ErrNotExist).
func Read(path string, atomsOnly bool) (*Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var in io.Reader = bufio.NewReader(f)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		d, err := zstd.NewReader(in)
		if err != nil {
			return nil, FormatError{UnableToOpen + ": " + err.Error(), path, 0, "", []string{"Read"}}
		}
		ql := zstdql{d.Close, d}
		defer ql.Close()
		in = ql
	case ".gz", ".gzip":
		g, err := gzip.NewReader(in)
		if err != nil {
			return nil, FormatError{UnableToOpen + ": " + err.Error(), path, 0, "", []string{"Read"}}
		}
		defer g.Close()
		in = g
	}
	mol, err := parse(in, path, atomsOnly)
	if err != nil {
		return nil, errDecorate(err, "Read")
	}
	return mol, nil
}

//Parse parses Molden-format text from r. It behaves exactly as Read on an
//already-open plain-text source. Errors carry no file name.
func Parse(r io.Reader, atomsOnly bool) (*Molecule, error) {
	return parse(r, "", atomsOnly)
}

func readLines(rd io.Reader) ([]string, error) {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}

// parse locates the bracketed sections first and then reads each one. The
// spherical-harmonic markers ([5D] and friends) may sit anywhere in the
// file, which is why they are collected before any shell is built.
func parse(rd io.Reader, filename string, atomsOnly bool) (*Molecule, error) {
	lines, err := readLines(rd)
	if err != nil {
		return nil, FormatError{"Can't read input: " + err.Error(), filename, 0, "", []string{"parse"}}
	}
	atomsIdx, gtoIdx, moIdx := -1, -1, -1
	unit := unitAngs
	var sphD, sphF, sphG, cartF bool
	for i, l := range lines {
		t := strings.TrimSpace(l)
		if !strings.HasPrefix(t, "[") {
			continue
		}
		switch {
		case strings.HasPrefix(t, "[Atoms]"):
			if atomsIdx >= 0 {
				return nil, FormatError{DupSection + " [Atoms]", filename, i + 1, l, nil}
			}
			atomsIdx = i
			//a missing unit marker means Angstrom
			switch marker := strings.TrimSpace(strings.TrimPrefix(t, "[Atoms]")); marker {
			case "AU", "(AU)":
				unit = unitBohr
			case "Angs", "(Angs)", "":
				unit = unitAngs
			default:
				return nil, FormatError{"Unknown distance unit " + marker, filename, i + 1, l, nil}
			}
		case t == "[GTO]":
			if gtoIdx >= 0 {
				return nil, FormatError{DupSection + " [GTO]", filename, i + 1, l, nil}
			}
			gtoIdx = i
		case t == "[MO]":
			if moIdx >= 0 {
				return nil, FormatError{DupSection + " [MO]", filename, i + 1, l, nil}
			}
			moIdx = i
		case t == "[5D]", t == "[5D7F]": //[5D] implies spherical f as well
			sphD, sphF = true, true
		case t == "[5D10F]":
			sphD, cartF = true, true
		case t == "[7F]":
			sphF = true
		case t == "[9G]":
			sphG = true
		}
	}
	if atomsIdx < 0 {
		return nil, FormatError{NoAtomsSection, filename, 0, "", nil}
	}
	if gtoIdx >= 0 && gtoIdx < atomsIdx {
		return nil, FormatError{"[GTO] section before [Atoms]", filename, gtoIdx + 1, lines[gtoIdx], nil}
	}
	if moIdx >= 0 && moIdx < gtoIdx {
		return nil, FormatError{"[MO] section before [GTO]", filename, moIdx + 1, lines[moIdx], nil}
	}
	atoms, err := parseAtoms(lines, atomsIdx, unit, filename)
	if err != nil {
		return nil, err
	}
	mol := &Molecule{Atoms: atoms}
	if atomsOnly {
		return mol, nil
	}
	if gtoIdx < 0 {
		return nil, FormatError{NoGTOSection, filename, 0, "", nil}
	}
	if moIdx < 0 {
		return nil, FormatError{NoMOSection, filename, 0, "", nil}
	}
	if err := parseGTO(lines, gtoIdx, mol, filename); err != nil {
		return nil, err
	}
	if err := checkSpherical(mol, sphD, sphF, sphG, cartF, filename); err != nil {
		return nil, err
	}
	if err := parseMOs(lines, moIdx, mol, filename); err != nil {
		return nil, err
	}
	return mol, nil
}

// checkSpherical rejects files whose d/f/g shells are in the Cartesian
// convention, i.e. files that carry such shells without the corresponding
// [5D]/[7F]/[9G] marker. The label in the error names the Cartesian
// component count the file implies.
func checkSpherical(mol *Molecule, sphD, sphF, sphG, cartF bool, filename string) error {
	maxl := 0
	for _, at := range mol.Atoms {
		for _, sh := range at.Shells {
			if sh.L > maxl {
				maxl = sh.L
			}
		}
	}
	if maxl >= 2 && !sphD {
		return UnsupportedBasisError{CartesianShells, "6d", -1, filename, []string{"parse"}}
	}
	if maxl >= 3 && (!sphF || cartF) {
		return UnsupportedBasisError{CartesianShells, "10f", -1, filename, []string{"parse"}}
	}
	if maxl >= 4 && !sphG {
		return UnsupportedBasisError{CartesianShells, "15g", -1, filename, []string{"parse"}}
	}
	return nil
}

func parseAtoms(lines []string, start int, unit distanceUnit, filename string) ([]*Atom, error) {
	var atoms []*Atom
	for i := start + 1; i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "[") {
			break
		}
		f := strings.Fields(t)
		if len(f) < 6 {
			return nil, FormatError{WrongAtomLine, filename, i + 1, lines[i], nil}
		}
		if _, err := strconv.Atoi(f[1]); err != nil {
			return nil, FormatError{WrongAtomLine + ": bad atom index", filename, i + 1, lines[i], nil}
		}
		z, err := strconv.Atoi(f[2])
		if err != nil || z <= 0 {
			return nil, FormatError{WrongAtomLine + ": bad atomic number", filename, i + 1, lines[i], nil}
		}
		var pos [3]float64
		for k := 0; k < 3; k++ {
			v, err := parseFloat(f[3+k])
			if err != nil {
				return nil, FormatError{WrongAtomLine + ": bad coordinate", filename, i + 1, lines[i], nil}
			}
			pos[k] = v
		}
		if unit == unitAngs {
			for k := range pos {
				pos[k] /= Bohr
			}
		}
		atoms = append(atoms, &Atom{Label: f[0], Z: z, Position: pos})
	}
	if len(atoms) == 0 {
		return nil, FormatError{"Empty [Atoms] section", filename, start + 1, lines[start], nil}
	}
	return atoms, nil
}

// parseGTO reads the per-atom shell blocks. Each block is an atom index
// line, then one or more shells (label and primitive count, followed by
// that many exponent/coefficient lines), and ends on a blank line.
func parseGTO(lines []string, start int, mol *Molecule, filename string) error {
	n := len(lines)
	seen := make([]bool, len(mol.Atoms))
	i := start + 1
	for {
		for i < n && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if i >= n || strings.HasPrefix(strings.TrimSpace(lines[i]), "[") {
			break
		}
		f := strings.Fields(lines[i])
		ati, err := strconv.Atoi(f[0])
		if err != nil || ati < 1 || ati > len(mol.Atoms) {
			return FormatError{"Malformed atom index line in [GTO]", filename, i + 1, lines[i], nil}
		}
		if seen[ati-1] {
			return FormatError{"Repeated atom block in [GTO]", filename, i + 1, lines[i], nil}
		}
		seen[ati-1] = true
		at := mol.Atoms[ati-1]
		i++
		for i < n {
			t := strings.TrimSpace(lines[i])
			if t == "" {
				i++
				break //atom block over
			}
			if strings.HasPrefix(t, "[") {
				break
			}
			sf := strings.Fields(t)
			if len(sf) < 2 {
				return FormatError{WrongShellLine, filename, i + 1, lines[i], nil}
			}
			l, ok := lFromLabel(sf[0])
			if !ok {
				return UnsupportedBasisError{UnknownShellLabel, sf[0], ati - 1, filename, []string{"parseGTO"}}
			}
			nprim, err := strconv.Atoi(sf[1])
			if err != nil || nprim < 1 {
				return FormatError{WrongShellLine, filename, i + 1, lines[i], nil}
			}
			prims := make([]PrimitiveGTO, 0, nprim)
			for p := 0; p < nprim; p++ {
				i++
				if i >= n {
					return FormatError{"Truncated shell block", filename, i, "", nil}
				}
				pf := strings.Fields(lines[i])
				if len(pf) < 2 {
					return FormatError{WrongPrimLine, filename, i + 1, lines[i], nil}
				}
				exp, err1 := parseFloat(pf[0])
				c, err2 := parseFloat(pf[1])
				if err1 != nil || err2 != nil {
					return FormatError{WrongPrimLine, filename, i + 1, lines[i], nil}
				}
				prims = append(prims, PrimitiveGTO{exp, c})
			}
			sh, err := NewShell(l, prims)
			if err != nil {
				return FormatError{err.Error(), filename, i + 1, lines[i], nil}
			}
			at.Shells = append(at.Shells, sh)
			i++
		}
	}
	return nil
}

// parseMOs reads the MO blocks. Every block carries Sym=, Ene=, Spin= and
// Occup= lines followed by exactly NBasis coefficient lines; coefficients
// are reordered into the canonical m=-l..l layout as each block closes.
func parseMOs(lines []string, start int, mol *Molecule, filename string) error {
	nbasis := mol.NBasis()
	var cur *MolecularOrbital
	var raw []float64
	closeMO := func(endline int) error {
		if cur == nil {
			return nil
		}
		if len(raw) != nbasis {
			msg := fmt.Sprintf("%s: MO %d has %d coefficients, basis has %d", ShortMO, len(mol.MOs), len(raw), nbasis)
			return FormatError{msg, filename, endline, "", nil}
		}
		cur.Coefficients = canonicalOrder(raw, mol)
		mol.MOs = append(mol.MOs, cur)
		cur = nil
		raw = nil
		return nil
	}
	for i := start + 1; i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "[") {
			break
		}
		if strings.Contains(t, "=") {
			kv := strings.SplitN(t, "=", 2)
			key := strings.ToLower(strings.TrimSpace(kv[0]))
			val := strings.TrimSpace(kv[1])
			//Sym= opens a block, so it closes the previous one; so does any
			//header key on a block that already has coefficients.
			if key == "sym" || len(raw) > 0 {
				if err := closeMO(i); err != nil {
					return err
				}
			}
			if cur == nil {
				cur = new(MolecularOrbital)
			}
			switch key {
			case "sym":
				cur.Symmetry = val
			case "ene":
				e, err := parseFloat(val)
				if err != nil {
					return FormatError{WrongMOHeader, filename, i + 1, lines[i], nil}
				}
				cur.Energy = e
			case "spin":
				switch strings.ToLower(val) {
				case "alpha":
					cur.Spin = Alpha
				case "beta":
					cur.Spin = Beta
				default:
					return FormatError{WrongMOHeader + ": unknown spin " + val, filename, i + 1, lines[i], nil}
				}
			case "occup":
				o, err := parseFloat(val)
				if err != nil {
					return FormatError{WrongMOHeader, filename, i + 1, lines[i], nil}
				}
				cur.Occupation = o
			default:
				return FormatError{WrongMOHeader + ": unknown key " + key, filename, i + 1, lines[i], nil}
			}
			continue
		}
		if cur == nil {
			return FormatError{"Coefficient line outside an MO block", filename, i + 1, lines[i], nil}
		}
		f := strings.Fields(t)
		if len(f) < 2 {
			return FormatError{WrongMOLine, filename, i + 1, lines[i], nil}
		}
		if _, err := strconv.Atoi(f[0]); err != nil {
			return FormatError{WrongMOLine, filename, i + 1, lines[i], nil}
		}
		v, err := parseFloat(f[1])
		if err != nil {
			return FormatError{WrongMOLine, filename, i + 1, lines[i], nil}
		}
		if len(raw) >= nbasis {
			msg := fmt.Sprintf("MO %d has more coefficients than the %d basis functions", len(mol.MOs), nbasis)
			return FormatError{msg, filename, i + 1, lines[i], nil}
		}
		raw = append(raw, v)
	}
	if err := closeMO(len(lines)); err != nil {
		return err
	}
	if len(mol.MOs) == 0 {
		return FormatError{"Empty [MO] section", filename, start + 1, lines[start], nil}
	}
	return nil
}

var shellL = map[string]int{"s": 0, "p": 1, "d": 2, "f": 3, "g": 4}

func lFromLabel(label string) (int, bool) {
	l, ok := shellL[strings.ToLower(label)]
	return l, ok
}

// moldenOrder returns, for each canonical component m=-l..l of a shell,
// the position of its coefficient within the shell in the file. Molden
// writes m = 0, +1, -1, +2, -2, ..., except for p shells, which are
// written as px, py, pz, i.e. +1, -1, 0.
func moldenOrder(l int) []int {
	if l == 1 {
		return []int{1, 2, 0}
	}
	perm := make([]int, 0, 2*l+1)
	for f := 2 * l; f >= 0; f -= 2 {
		perm = append(perm, f)
	}
	for f := 1; f < 2*l; f += 2 {
		perm = append(perm, f)
	}
	return perm
}

func canonicalOrder(raw []float64, mol *Molecule) []float64 {
	out := make([]float64, len(raw))
	off := 0
	for _, at := range mol.Atoms {
		for _, sh := range at.Shells {
			for k, p := range moldenOrder(sh.L) {
				out[off+k] = raw[off+p]
			}
			off += sh.NFuncs()
		}
	}
	return out
}

//parseFloat reads a float that may use the Fortran D exponent marker.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return v, nil
	}
	r := strings.NewReplacer("D", "E", "d", "e")
	return strconv.ParseFloat(r.Replace(s), 64)
}
