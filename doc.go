/*
 * doc.go, part of gomolden.
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

/*Package molden is the main package of the goMolden library. It reads Molden-format
quantum chemistry output into a typed molecular model (atoms, contracted Gaussian
basis shells, molecular-orbital coefficients), on top of which the subpackages
sample molecular orbitals over 3D grids.


	**goMolden capabilities**

    Reads Molden files, plain or zstd/gzip compressed.

    Validates geometry, basis and MO sections, with errors that carry the
	offending line and its number.

    Supports spherical-harmonic basis sets with shells up to l=4 (s,p,d,f,g).
	Cartesian-convention shells (6D/10F-style) are rejected at parse time,
	never reinterpreted.

    Normalizes contracted shells at parse time, so evaluation needs no
	further bookkeeping.

    Reorders MO coefficients from the Molden m-ordering to the canonical
	m=-l..l ordering used throughout the library.

    Converts geometries given in Angstrom to Bohr.

    Infers bonds from covalent radii and interatomic distances, for
	callers that draw the molecular skeleton next to an orbital.

    Subpackage grid builds Cartesian and spherical point grids and converts
	between the two coordinate systems.

    Subpackage tabulate evaluates the basis over a grid, contracts it with
	MO coefficients into scalar fields, and refines fields adaptively
	around the significant lobes.

    Subpackage fieldplot renders planar slices of tabulated fields to
	static images.

A minimal session, from file to a tabulated orbital:

	mol, err := molden.Read("benzene.molden", false)
	if err != nil {
		...
	}
	g, err := grid.DefaultCartesian(mol.MaxRadius())
	tab, err := tabulate.New(mol)
	tab.SetGrid(g)
	field, err := tab.Tabulate(mol.HOMO())

The library uses the gonum suite for all linear algebra.
*/
package molden
