/*
 * atomicdata.go, part of gomolden.
 *
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

import "strings"

//A map from element symbols to atomic numbers. The first rows are
//complete; of the heavier elements, only those common in quantum
//chemistry calculations are present.
var symbolZ = map[string]int{
	"H": 1, "He": 2,
	"Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8, "F": 9, "Ne": 10,
	"Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15, "S": 16, "Cl": 17, "Ar": 18,
	"K": 19, "Ca": 20, "Sc": 21, "Ti": 22, "V": 23, "Cr": 24, "Mn": 25,
	"Fe": 26, "Co": 27, "Ni": 28, "Cu": 29, "Zn": 30, "Ga": 31, "Ge": 32,
	"As": 33, "Se": 34, "Br": 35, "Kr": 36,
	"Mo": 42, "Ru": 44, "Rh": 45, "Pd": 46, "Ag": 47, "Cd": 48,
	"Sn": 50, "I": 53, "Xe": 54,
	"W": 74, "Re": 75, "Os": 76, "Ir": 77, "Pt": 78, "Au": 79, "Hg": 80, "Pb": 82,
}

var zSymbol = map[int]string{}

func init() {
	for k, v := range symbolZ {
		zSymbol[v] = k
	}
}

//A map for assigning covalent radii to elements, in Angstrom.
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
var symbolCovrad = map[string]float64{
	"H":  0.4, // 0.31 lengthened, as H can only have one bond anyway; extra ones get trimmed.
	"C":  0.76, //the sp3 radius
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Co": 1.5,  // hs
	"Fe": 1.52, //hs
	"Mn": 1.61, //hs
	"Cr": 1.39,
	"Si": 1.11,
	"Be": 0.96,
	"B":  0.84,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}

//A map for checking that atoms don't have too many bonds.
//A value of 0 means undefined, i.e. that the atom shouldn't
//be checked for max bonds.
var symbolMaxBonds = map[string]int{
	"H":  1, //this is the only one truly important.
	"C":  4,
	"O":  2,
	"N":  0, //undefined
	"P":  0,
	"S":  0,
	"Se": 0,
	"Be": 0,
	"F":  1,
	"Br": 1,
	"I":  1,
}

//SymbolFromZ returns the element symbol for the atomic number z,
//or an empty string if z is not in the tables.
func SymbolFromZ(z int) string {
	return zSymbol[z]
}

//canonicalSymbol returns symbol with its case normalized to match the
//tables ("cl" and "CL" both become "Cl"), or an empty string if the
//element is not in the tables at all.
func canonicalSymbol(symbol string) string {
	if _, ok := symbolZ[symbol]; ok {
		return symbol
	}
	if len(symbol) == 0 {
		return ""
	}
	s := strings.ToUpper(symbol[:1]) + strings.ToLower(symbol[1:])
	if _, ok := symbolZ[s]; ok {
		return s
	}
	return ""
}

//ZFromSymbol returns the atomic number for an element symbol, or 0
//if the symbol is not in the tables. The match is case-insensitive,
//as some programs write "CL" or "cl".
func ZFromSymbol(symbol string) int {
	return symbolZ[canonicalSymbol(symbol)]
}

//CovalentRadius returns the covalent radius of the element, in Angstrom,
//or 0 if the element is not in the tables. Case-insensitive, like
//ZFromSymbol.
func CovalentRadius(symbol string) float64 {
	return symbolCovrad[canonicalSymbol(symbol)]
}
