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

// Bag accumulates diagnostics across an entire compile so a stage can
// report more than one problem instead of bailing at the first error.
type Bag struct {
	diagnostics []Diagnostic
	// treatMissingDriverAsFatal lets code-generation callers upgrade
	// MissingDriver from a warning to a fatal condition: a dangling input
	// is tolerable mid-compile but must block actually generating a
	// simulator.
	treatMissingDriverAsFatal bool
}

// NewBag constructs an empty diagnostics bag.
func NewBag() *Bag {
	return &Bag{}
}

// SetMissingDriverFatal toggles whether MissingDriver blocks Fatal().
func (b *Bag) SetMissingDriverFatal(fatal bool) {
	b.treatMissingDriverAsFatal = fatal
}

// Add appends one diagnostic.
func (b *Bag) Add(d Diagnostic) {
	b.diagnostics = append(b.diagnostics, d)
}

// Addf is a convenience wrapper around New + Add.
func (b *Bag) Addf(code Code, span Span, message string, args ...any) {
	b.Add(New(code, span, message, args...))
}

// All returns every accumulated diagnostic, in the order added.
func (b *Bag) All() []Diagnostic {
	return b.diagnostics
}

// Empty reports whether no diagnostics at all were recorded.
func (b *Bag) Empty() bool {
	return len(b.diagnostics) == 0
}

// Fatal reports whether any accumulated diagnostic blocks compilation.
func (b *Bag) Fatal() bool {
	for _, d := range b.diagnostics {
		if d.Code.IsFatal() {
			return true
		}

		if d.Code == MissingDriver && b.treatMissingDriverAsFatal {
			return true
		}
	}

	return false
}

// Merge appends every diagnostic from another bag into this one.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}

	b.diagnostics = append(b.diagnostics, other.diagnostics...)
}
