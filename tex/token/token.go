// token.go -
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package token

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Catcode is the category code of a character, or the kind of a token.
type Catcode uint8

// The sixteen TeX category codes, followed by the token kinds which do not
// correspond to a category of input characters.
const (
	Escape Catcode = iota
	BeginGroup
	EndGroup
	MathShift
	AlignTab
	EndOfLine
	Parameter
	Superscript
	Subscript
	Ignored
	Space
	Letter
	Other
	Active
	Comment
	Invalid

	// ControlSequence is the kind of tokens which name a command.
	ControlSequence

	// OutParam marks a parameter placeholder #n inside a stored macro
	// pattern or body.  Text holds the digit.
	OutParam
)

var catcodeNames = []string{
	"escape", "begin-group", "end-group", "math shift", "alignment tab",
	"end of line", "macro parameter", "superscript", "subscript", "ignored",
	"blank space", "letter", "other", "active", "comment", "invalid",
	"control sequence", "out param",
}

func (c Catcode) String() string {
	if int(c) < len(catcodeNames) {
		return catcodeNames[c]
	}
	return "catcode" + strconv.Itoa(int(c))
}

// Token is a single syntactic unit of the input.  Tokens are compared by
// value: two control sequences are equal iff they have the same name.
type Token struct {
	// Cat is the category code for character tokens, or ControlSequence.
	Cat Catcode

	// Text holds the character for character tokens and the name
	// (without the escape character) for control sequences.
	Text string
}

// CS returns the control-sequence token with the given name.
func CS(name string) Token {
	return Token{Cat: ControlSequence, Text: name}
}

// Char returns a character token.
func Char(cat Catcode, r rune) Token {
	return Token{Cat: cat, Text: string(r)}
}

// Param returns the placeholder token for macro parameter n.
func Param(n int) Token {
	return Token{Cat: OutParam, Text: strconv.Itoa(n)}
}

// IsCS reports whether the token is a control sequence.
func (t Token) IsCS() bool {
	return t.Cat == ControlSequence
}

// IsActive reports whether the token is an active character.
func (t Token) IsActive() bool {
	return t.Cat == Active
}

// Resolvable reports whether the token can have a meaning attached.
func (t Token) Resolvable() bool {
	return t.Cat == ControlSequence || t.Cat == Active
}

// Rune returns the character of a character token.  For control
// sequences with a single-character name this is the character of the
// name, as used by the `\X notation.
func (t Token) Rune() rune {
	r, _ := utf8.DecodeRuneInString(t.Text)
	return r
}

// ParamNumber returns n for an OutParam token.
func (t Token) ParamNumber() int {
	if t.Cat != OutParam || t.Text == "" {
		return 0
	}
	return int(t.Text[0] - '0')
}

// Key returns the name used to look up the meaning of a resolvable token.
// Active characters live in a separate name space from control sequences.
func (t Token) Key() string {
	if t.Cat == Active {
		return "\x00active:" + t.Text
	}
	return t.Text
}

// isWordName reports whether a space is needed after the control
// sequence when printing.
func isWordName(name string) bool {
	if name == "" {
		return false
	}
	if utf8.RuneCountInString(name) > 1 {
		return true
	}
	r := []rune(name)[0]
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// String renders the token the way \show and \meaning print it.
func (t Token) String() string {
	switch t.Cat {
	case ControlSequence:
		if isWordName(t.Text) {
			return "\\" + t.Text + " "
		}
		if t.Text == "" {
			return "\\csname\\endcsname "
		}
		return "\\" + t.Text
	case Parameter:
		return t.Text + t.Text
	case OutParam:
		return "#" + t.Text
	}
	return t.Text
}

// List is a sequence of tokens.
type List []Token

// Copy returns an independent copy of the list.
func (l List) Copy() List {
	if l == nil {
		return nil
	}
	res := make(List, len(l))
	copy(res, l)
	return res
}

// Equal reports whether two lists contain the same tokens.
func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

func (l List) String() string {
	var res []string
	for _, t := range l {
		res = append(res, t.String())
	}
	return strings.Join(res, "")
}

// Chars converts a string into character tokens, using catcode Space for
// blanks and Other for everything else.  This is the form in which \the,
// \number and friends return their results.
func Chars(s string) List {
	res := make(List, 0, len(s))
	for _, r := range s {
		if r == ' ' {
			res = append(res, Token{Cat: Space, Text: " "})
		} else {
			res = append(res, Char(Other, r))
		}
	}
	return res
}
