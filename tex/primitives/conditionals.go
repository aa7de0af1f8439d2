// conditionals.go -
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

package primitives

import (
	"github.com/seehuhn/gotex/tex/engine"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
	"github.com/seehuhn/gotex/tex/typeset"
)

func loadConditionals(e *engine.Engine) {
	e.Define("if", engine.Conditional(func(e *engine.Engine) (bool, error) {
		a, b, err := twoCharTokens(e, "\\if")
		return a.Text == b.Text, err
	}))
	e.Define("ifcat", engine.Conditional(func(e *engine.Engine) (bool, error) {
		a, b, err := twoCharTokens(e, "\\ifcat")
		return a.Cat == b.Cat, err
	}))
	e.Define("ifx", engine.Conditional(ifx))
	e.Define("ifnum", engine.Conditional(func(e *engine.Engine) (bool, error) {
		return compare(e, "\\ifnum", func() (int64, error) {
			return e.ScanInt()
		})
	}))
	e.Define("ifdim", engine.Conditional(func(e *engine.Engine) (bool, error) {
		return compare(e, "\\ifdim", func() (int64, error) {
			d, err := e.ScanDimen()
			return int64(d), err
		})
	}))
	e.Define("ifodd", engine.Conditional(func(e *engine.Engine) (bool, error) {
		n, err := e.ScanInt()
		return n%2 != 0, err
	}))

	e.Define("ifvmode", modeTest(typeset.Mode.IsVertical))
	e.Define("ifhmode", modeTest(typeset.Mode.IsHorizontal))
	e.Define("ifmmode", modeTest(typeset.Mode.IsMath))
	e.Define("ifinner", modeTest(typeset.Mode.IsInner))

	e.Define("iftrue", engine.Conditional(func(e *engine.Engine) (bool, error) {
		return true, nil
	}))
	e.Define("iffalse", engine.Conditional(func(e *engine.Engine) (bool, error) {
		return false, nil
	}))
	e.Define("ifcase", engine.IfCase())

	e.Define("ifdefined", engine.Conditional(func(e *engine.Engine) (bool, error) {
		t, err := e.NextRaw("\\ifdefined")
		if err != nil {
			return false, err
		}
		return !t.Resolvable() || e.Lookup(t) != nil, nil
	}))
	e.Define("ifeof", engine.Conditional(func(e *engine.Engine) (bool, error) {
		n, err := e.ScanInt()
		return e.InEOF(n), err
	}))

	e.Define("ifvoid", boxTest(func(b *node.Box) bool {
		return b == nil
	}))
	e.Define("ifhbox", boxTest(func(b *node.Box) bool {
		return b != nil && b.Kind == node.HBox
	}))
	e.Define("ifvbox", boxTest(func(b *node.Box) bool {
		return b != nil && b.Kind == node.VBox
	}))

	e.Define("else", engine.CondEnd(engine.CondElse))
	e.Define("or", engine.CondEnd(engine.CondOr))
	e.Define("fi", engine.CondEnd(engine.CondFi))
}

// charToken returns the character and category \if and \ifcat compare.
// Control sequences which are not \let to a character compare as
// equal to each other and unequal to all characters.
func charToken(e *engine.Engine, what string) (token.Token, error) {
	tok, err := e.NextExpanded(what)
	if err != nil || !tok.Resolvable() {
		return tok, err
	}
	if code := e.Lookup(tok); code != nil && code.Char != nil {
		return *code.Char, nil
	}
	return token.Token{Cat: token.ControlSequence}, nil
}

func twoCharTokens(e *engine.Engine, what string) (a, b token.Token, err error) {
	a, err = charToken(e, what)
	if err != nil {
		return a, b, err
	}
	b, err = charToken(e, what)
	return a, b, err
}

func ifx(e *engine.Engine) (bool, error) {
	a, err := e.NextRaw("\\ifx")
	if err != nil {
		return false, err
	}
	b, err := e.NextRaw("\\ifx")
	if err != nil {
		return false, err
	}
	if !a.Resolvable() && !b.Resolvable() {
		return a == b, nil
	}
	ca, cb := meaningOf(e, a), meaningOf(e, b)
	if ca == nil || cb == nil {
		return ca == nil && cb == nil, nil
	}
	return ca.Equal(cb), nil
}

// compare reads "<value> <relation> <value>" for \ifnum and \ifdim.
func compare(e *engine.Engine, what string, scan func() (int64, error)) (bool, error) {
	a, err := scan()
	if err != nil {
		return false, err
	}
	rel, err := e.NextNonBlank(what)
	if err != nil {
		return false, err
	}
	if rel.Cat != token.Other || (rel.Text != "<" && rel.Text != "=" && rel.Text != ">") {
		e.Back(rel)
		e.Report(texerr.New(texerr.MissingExpectedKeyword,
			"Missing = inserted for %s", what).
			WithHelp("I was expecting to see `<', `=', or `>'. Didn't."))
		rel = token.Char(token.Other, '=')
	}
	b, err := scan()
	if err != nil {
		return false, err
	}
	switch rel.Text {
	case "<":
		return a < b, nil
	case ">":
		return a > b, nil
	}
	return a == b, nil
}

func modeTest(test func(typeset.Mode) bool) *engine.Code {
	return engine.Conditional(func(e *engine.Engine) (bool, error) {
		return test(e.TS.Mode()), nil
	})
}

func boxTest(test func(*node.Box) bool) *engine.Code {
	return engine.Conditional(func(e *engine.Engine) (bool, error) {
		key, err := e.ScanRegisterRef("box")
		if err != nil {
			return false, err
		}
		return test(e.Ctx.Box.Get(key)), nil
	})
}
