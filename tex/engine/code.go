// code.go -
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

package engine

import (
	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/token"
)

// Kind describes how the dispatcher treats a Code.
type Kind int

// The kinds of Code.
const (
	// Expandable codes are replaced by other tokens during expansion.
	Expandable Kind = iota

	// Assignment codes change the Context.
	Assignment

	// Typesetting codes add material to the current list.
	Typesetting

	// Command codes are all other commands.
	Command

	// Prefix codes modify the following assignment.
	Prefix

	// Relax codes do nothing.
	Relax
)

// Flags are the prefixes \global, \long, \outer and \protected, plus
// the \immediate marker for file operations.
type Flags uint8

// The prefix flags.
const (
	Global Flags = 1 << iota
	Long
	Outer
	Protected
	Immediate
)

// DefinitionFlags are the prefixes accepted by macro definitions.
const DefinitionFlags = Global | Long | Outer | Protected

func (f Flags) String() string {
	var res string
	for _, x := range []struct {
		flag Flags
		name string
	}{
		{Protected, "\\protected"}, {Global, "\\global"},
		{Long, "\\long"}, {Outer, "\\outer"}, {Immediate, "\\immediate"},
	} {
		if f&x.flag != 0 {
			res += x.name
		}
	}
	return res
}

// Capability is an optional feature of a Code.
type Capability uint8

// The capabilities a Code may have.
const (
	// NumericConvertible codes yield a value when an integer,
	// dimension or glue is expected.
	NumericConvertible Capability = 1 << iota

	// Theable codes can follow \the.
	Theable

	// Showable codes have a custom rendering for \meaning and \show.
	Showable

	// BoxProducing codes can follow \setbox, \shipout and friends.
	BoxProducing
)

// CondRole marks the codes which take part in conditional skipping.
type CondRole int

// The conditional roles.
const (
	NotCond CondRole = iota
	CondIf
	CondFi
	CondElse
	CondOr
)

// ValueKind says which kind of quantity a Value holds.
type ValueKind int

// The kinds of internal quantities, in the order TeX coerces them.
const (
	IntValue ValueKind = iota
	DimenValue
	GlueValue
	MuGlueValue
	TokensValue
)

// Value is an internal quantity, for example the contents of a register.
type Value struct {
	Kind   ValueKind
	Int    int64
	Dimen  dimen.Scaled
	Glue   dimen.Glue
	Tokens token.List
}

// Register identifies a parameter or register entry.  An empty Key
// marks a register family like \count, which reads the register number
// when used.
type Register struct {
	Family ValueKind
	Key    string
}

// Deliver receives a finished box.
type Deliver func(box *node.Box) error

// Code is the meaning of a control sequence or active character.
type Code struct {
	// Name is the name under which the code was defined originally.
	Name string

	Kind Kind

	// Expand replaces tok (already read) by its expansion.  Used for
	// Expandable codes.
	Expand func(e *Engine, tok token.Token) error

	// Execute carries out the command.  Used for all other kinds.
	Execute func(e *Engine, tok token.Token, flags Flags) error

	// Value reads the internal quantity of a NumericConvertible code.
	Value func(e *Engine) (Value, error)

	// Verbatim returns the tokens an expandable code inserts, for codes
	// like \the whose result must not be expanded further inside \edef.
	Verbatim func(e *Engine) (token.List, error)

	// Show renders the meaning of a Showable code.
	Show func(e *Engine) string

	// Box builds a box and passes it to deliver.
	Box func(e *Engine, tok token.Token, deliver Deliver) error

	// Prefixes lists the prefix flags accepted by Execute.
	Prefixes Flags

	// PrefixFlag is the flag set by a Prefix code.
	PrefixFlag Flags

	Cond CondRole

	// Register is set for codes which name a register.
	Register *Register

	// Macro is set for user-defined macros.
	Macro *Macro

	// Char is set for codes defined by \let to a character token.
	Char *token.Token

	// CharValue is set by \chardef and \mathchardef.
	CharValue int64
}

// Has reports whether c has the given capability.
func (c *Code) Has(cap Capability) bool {
	switch cap {
	case NumericConvertible:
		return c.Value != nil
	case Theable:
		return c.Value != nil
	case Showable:
		return c.Show != nil || c.Macro != nil || c.Char != nil
	case BoxProducing:
		return c.Box != nil
	}
	return false
}

// Equal reports whether c and other have the same meaning, in the sense
// of \ifx.
func (c *Code) Equal(other *Code) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	switch {
	case c.Macro != nil && other.Macro != nil:
		return c.Macro.Equal(other.Macro)
	case c.Char != nil && other.Char != nil:
		return *c.Char == *other.Char
	case c.Register != nil && other.Register != nil:
		return *c.Register == *other.Register
	case c.CharValue != 0 || other.CharValue != 0:
		return c.CharValue == other.CharValue
	}
	return false
}

// CharCode returns a Code which behaves like the character token tok,
// as created by \let\x=a.
func CharCode(tok token.Token) *Code {
	return &Code{
		Name: tok.Text,
		Kind: Typesetting,
		Char: &tok,
	}
}
