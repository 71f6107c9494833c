/*
 * errors.go, part of gomolden.
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
)

// Error is the interface for errors that all packages in this library implement.
// The Decorate method allows to add and retrieve info from the error, without
// changing its type or wrapping it around something else. Each call returns the
// current "decoration" slice; passing an empty string only retrieves it.
// The slice should contain a list of the functions in the calling stack,
// each optionally followed by extra information, as in "FunctionName: info".
type Error interface {
	Error() string
	Decorate(string) []string
}

//errDecorate asserts that err implements Error and decorates it with
//the caller's name before returning it. Used with anything else, it panics.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

// FormatError reports a malformed line or section in a Molden file. It carries
// the file name, the number of the offending line and its text, when known.
type FormatError struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	line     int    //1-based line number, or 0 if not applicable.
	text     string //the offending line.
	deco     []string
}

func (err FormatError) Error() string {
	if err.line <= 0 {
		return fmt.Sprintf("molden file %s error: %s", err.filename, err.message)
	}
	return fmt.Sprintf("molden file %s error: %s, line %d: %q", err.filename, err.message, err.line, err.text)
}

//Decorate adds new information to the error
func (err FormatError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error
func (err FormatError) FileName() string { return err.filename }

//Line returns the number of the offending line, 1-based, or 0 if the
//error is not tied to one line.
func (err FormatError) Line() int { return err.line }

//Text returns the offending line itself
func (err FormatError) Text() string { return err.text }

// UnsupportedBasisError reports a shell whose angular part is not in the real
// spherical-harmonic convention this library supports: a Cartesian-convention
// shell, an l>4 label, or a file lacking the [5D]/[7F]/[9G] markers while
// carrying d or higher shells. Such input is rejected outright.
type UnsupportedBasisError struct {
	message  string //one of the constants below, saying what is unsupported.
	label    string //the offending shell label, as read.
	atom     int    //0-based index of the atom carrying the shell, or -1.
	filename string
	deco     []string
}

func (err UnsupportedBasisError) Error() string {
	if err.atom < 0 {
		return fmt.Sprintf("molden file %s error: %s: %s", err.filename, err.message, err.label)
	}
	return fmt.Sprintf("molden file %s error: %s: shell %q on atom %d", err.filename, err.message, err.label, err.atom)
}

//Decorate adds new information to the error
func (err UnsupportedBasisError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error
func (err UnsupportedBasisError) FileName() string { return err.filename }

//Label returns the shell label that was rejected
func (err UnsupportedBasisError) Label() string { return err.label }

// ElementError reports an atom whose element is missing from the tables in
// atomicdata.go, so no covalent radius could be found for it.
type ElementError struct {
	label string //the element, as the atom carries it.
	atom  int    //0-based index of the atom.
	deco  []string
}

func (err ElementError) Error() string {
	return fmt.Sprintf("gomolden: %s: %q (atom %d)", NoCovalentRadius, err.label, err.atom)
}

//Decorate adds new information to the error
func (err ElementError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

const (
	UnableToOpen      = "Unable to open file"
	NoAtomsSection    = "No [Atoms] section found"
	NoGTOSection      = "No [GTO] section found before [MO]"
	NoMOSection       = "No [MO] section found"
	DupSection        = "Duplicated section"
	WrongAtomLine     = "Malformed atom line"
	WrongShellLine    = "Malformed shell line"
	WrongPrimLine     = "Malformed primitive line"
	WrongMOLine       = "Malformed MO coefficient line"
	WrongMOHeader     = "Malformed MO header line"
	ShortMO           = "MO coefficient list shorter than the basis"
	CartesianShells   = "File declares Cartesian d/f/g shells"
	UnknownShellLabel = "Unknown shell label"
	NoCovalentRadius  = "No covalent radius for element"
)
