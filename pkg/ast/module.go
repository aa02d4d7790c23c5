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

package ast

import "github.com/hdlforge/shdl/pkg/diag"

// Import is a `use module_name :: {Name1, ...}` statement.
type Import struct {
	Module     string
	Components []string
	Span       diag.Span
}

// Module is one parsed `.shdl` source file: zero or more imports followed
// by zero or more component declarations.
type Module struct {
	Filename   string
	Imports    []Import
	Components []*Component
}
