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

import "fmt"

// Diagnostic is a single structured problem report: a code, a primary span
// and message, plus optional secondary spans (e.g. the second and later
// drivers of a MultiDriver error) and did-you-mean style suggestions.
type Diagnostic struct {
	Code       Code
	Span       Span
	Message    string
	Secondary  []Span
	Suggestions []string
}

// Error lets Diagnostic satisfy the error interface so callers can use it
// anywhere a plain error is expected.
func (d Diagnostic) Error() string {
	if d.Span == NoSpan {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}

	return fmt.Sprintf("%s: %s: %s", d.Span, d.Code, d.Message)
}

// New constructs a fatal-or-warning diagnostic; fatality is determined by
// the code, not by the call site.
func New(code Code, span Span, message string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Span: span, Message: fmt.Sprintf(message, args...)}
}

// WithSuggestions attaches did-you-mean candidates to a diagnostic.
func (d Diagnostic) WithSuggestions(names ...string) Diagnostic {
	d.Suggestions = names
	return d
}

// WithSecondary attaches secondary spans (e.g. additional drivers).
func (d Diagnostic) WithSecondary(spans ...Span) Diagnostic {
	d.Secondary = append(d.Secondary, spans...)
	return d
}
