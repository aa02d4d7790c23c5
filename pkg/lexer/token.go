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

// Package lexer tokenises ".shdl" source text. Diagnostics presentation is
// out of scope here; this package only ever returns a diag.Diagnostic with
// a LexSyntax code and a span, never a formatted message meant for a
// terminal.
package lexer

import "github.com/hdlforge/shdl/pkg/diag"

// Kind identifies the lexical class of a Token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	Ident
	Number
	// Punctuation and operators.
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Arrow     // ->
	Colon     // :
	DoubleColon // ::
	Comma     // ,
	Semi      // ;
	Equals    // =
	Dot       // .
	Gt        // >
	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	// Keyword.
	KwUse       // use
	KwComponent // component
	KwConnect   // connect
)

// Token is one lexical unit.
type Token struct {
	Kind Kind
	Text string
	// Value holds the parsed integer for Number tokens.
	Value uint64
	Span  diag.Span
}

var keywords = map[string]Kind{
	"use":       KwUse,
	"component": KwComponent,
	"connect":   KwConnect,
}
