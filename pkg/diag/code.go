// Copyright the shdl authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package diag

// Code is one row of the error taxonomy table.
type Code string

// Fatal diagnostic codes.  None of these are recoverable; a compile with
// any of these present never reaches the simulator.  The one exception is
// MissingDriver, which is not in fatalCodes: it is a warning unless a Bag
// promotes it (see Bag.SetMissingDriverFatal).
const (
	LexSyntax            Code = "LexSyntax"
	ParseSyntax          Code = "ParseSyntax"
	DuplicateName        Code = "DuplicateName"
	UnknownComponent     Code = "UnknownComponent"
	ComponentNotInModule Code = "ComponentNotInModule"
	ModuleNotFound       Code = "ModuleNotFound"
	ImportCycle          Code = "ImportCycle"
	RecursiveComponent   Code = "RecursiveComponent"
	SliceOutOfRange      Code = "SliceOutOfRange"
	WidthMismatch        Code = "WidthMismatch"
	MultiDriver          Code = "MultiDriver"
	MissingDriver        Code = "MissingDriver"
	EmptyGeneratorRange  Code = "EmptyGeneratorRange"
	ShadowingGenerator   Code = "ShadowingGenerator"
)

// Recoverable diagnostic codes.  These are warnings by default; a caller may
// choose to treat MissingDriver as fatal at code-generation time, since a
// simulator cannot be built over a gate with no driver.
const (
	UnusedPort        Code = "UnusedPort"
	UnusedConstant    Code = "UnusedConstant"
	UnconnectedOutput Code = "UnconnectedOutput"
	UnknownSignal     Code = "UnknownSignal"
	// CombinationalCycle is reported only by the opt-in
	// flatten.DetectCombinationalCycles pass. A combinational cycle is
	// legal (it oscillates/settles under the simulator's two-phase
	// update), so this is informational, never fatal.
	CombinationalCycle Code = "CombinationalCycle"
)

// fatalCodes lists every code that is never recoverable.
var fatalCodes = map[Code]bool{
	LexSyntax:            true,
	ParseSyntax:          true,
	DuplicateName:        true,
	UnknownComponent:     true,
	ComponentNotInModule: true,
	ModuleNotFound:       true,
	ImportCycle:          true,
	RecursiveComponent:   true,
	SliceOutOfRange:      true,
	WidthMismatch:        true,
	MultiDriver:          true,
	EmptyGeneratorRange:  true,
	ShadowingGenerator:   true,
}

// IsFatal reports whether a diagnostic of this code blocks compilation.
// MissingDriver is handled specially by callers (see diag.Bag.Fatal): it is
// a warning during analysis and only promoted to fatal by callers that are
// about to generate a simulator.
func (c Code) IsFatal() bool {
	return fatalCodes[c]
}
