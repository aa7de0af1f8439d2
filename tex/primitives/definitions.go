// definitions.go -
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
	"fmt"

	"github.com/seehuhn/gotex/tex/engine"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

func loadDefinitions(e *engine.Engine) {
	e.Define("global", prefix(engine.Global))
	e.Define("long", prefix(engine.Long))
	e.Define("outer", prefix(engine.Outer))
	e.Define("protected", prefix(engine.Protected))

	e.Define("def", definition(false, false))
	e.Define("gdef", definition(true, false))
	e.Define("edef", definition(false, true))
	e.Define("xdef", definition(true, true))

	e.Define("let", &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Execute:  let,
	})
	e.Define("futurelet", &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Execute:  futureLet,
	})
	e.Define("chardef", &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Execute:  charDef,
	})
	e.Define("read", &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Execute:  read,
	})

	e.Define("begingroup", &engine.Code{
		Kind: engine.Command,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			e.Ctx.OpenGroup(state.SemiSimpleGroup, nil)
			return nil
		},
	})
	e.Define("endgroup", &engine.Code{
		Kind: engine.Command,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			return e.CloseGroup(state.SemiSimpleGroup)
		},
	})
	e.Define("aftergroup", &engine.Code{
		Kind: engine.Command,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			t, err := e.NextRaw("\\aftergroup")
			if err != nil {
				return err
			}
			e.Ctx.AfterGroup(t)
			return nil
		},
	})
	e.Define("afterassignment", &engine.Code{
		Kind: engine.Command,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			t, err := e.NextRaw("\\afterassignment")
			if err != nil {
				return err
			}
			e.SetAfterAssignment(t)
			return nil
		},
	})
}

func prefix(flag engine.Flags) *engine.Code {
	return &engine.Code{
		Kind:       engine.Prefix,
		PrefixFlag: flag,
	}
}

// definition implements \def, \gdef, \edef and \xdef.
func definition(alwaysGlobal, expand bool) *engine.Code {
	return &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.DefinitionFlags,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			if alwaysGlobal {
				flags |= engine.Global
			}
			cs, err := e.ScanCS()
			if err != nil {
				return err
			}
			m, err := e.ScanMacro(cs.Text, flags, expand)
			if err != nil {
				return err
			}
			e.SetMeaning(cs, &engine.Code{
				Name:  cs.Text,
				Kind:  engine.Expandable,
				Macro: m,
			}, global(flags))
			return nil
		},
	}
}

// meaningOf returns the code a token would have after \let.
func meaningOf(e *engine.Engine, tok token.Token) *engine.Code {
	if tok.Resolvable() {
		return e.Lookup(tok)
	}
	return engine.CharCode(tok)
}

func let(e *engine.Engine, tok token.Token, flags engine.Flags) error {
	cs, err := e.ScanCS()
	if err != nil {
		return err
	}
	t, err := e.NextRaw("\\let")
	if err != nil {
		return err
	}
	for t.Cat == token.Space {
		t, err = e.NextRaw("\\let")
		if err != nil {
			return err
		}
	}
	if t.Cat == token.Other && t.Text == "=" {
		t, err = e.NextRaw("\\let")
		if err != nil {
			return err
		}
		if t.Cat == token.Space {
			t, err = e.NextRaw("\\let")
			if err != nil {
				return err
			}
		}
	}
	e.SetMeaning(cs, meaningOf(e, t), global(flags))
	return nil
}

func futureLet(e *engine.Engine, tok token.Token, flags engine.Flags) error {
	cs, err := e.ScanCS()
	if err != nil {
		return err
	}
	t1, err := e.NextRaw("\\futurelet")
	if err != nil {
		return err
	}
	t2, err := e.NextRaw("\\futurelet")
	if err != nil {
		return err
	}
	e.SetMeaning(cs, meaningOf(e, t2), global(flags))
	e.Back(t2)
	e.Back(t1)
	return nil
}

func charDef(e *engine.Engine, tok token.Token, flags engine.Flags) error {
	cs, err := e.ScanCS()
	if err != nil {
		return err
	}
	// the old meaning must not be used while the number is scanned
	e.SetMeaning(cs, relax, global(flags))
	if err := e.ScanOptionalEquals(); err != nil {
		return err
	}
	r, err := e.ScanCharCode()
	if err != nil {
		return err
	}
	e.SetMeaning(cs, &engine.Code{
		Name:      cs.Text,
		Kind:      engine.Typesetting,
		CharValue: int64(r),
		Value: func(e *engine.Engine) (engine.Value, error) {
			return engine.Value{Kind: engine.IntValue, Int: int64(r)}, nil
		},
		Show: func(e *engine.Engine) string {
			return fmt.Sprintf("%schar\"%X", e.Escape(), r)
		},
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			if e.TS.Mode().IsVertical() {
				e.Back(tok)
				return e.BeginParagraph(true)
			}
			return e.AppendChar(r)
		},
	}, global(flags))
	return nil
}

func read(e *engine.Engine, tok token.Token, flags engine.Flags) error {
	n, err := e.ScanInt()
	if err != nil {
		return err
	}
	ok, err := e.ScanKeyword("to")
	if err != nil {
		return err
	}
	if !ok {
		e.Report(texerr.New(texerr.MissingExpectedKeyword, "Missing `to' inserted").
			WithHelp("You should have said `\\read<number> to \\cs'.\n" +
				"I'm going to look for the \\cs now."))
	}
	cs, err := e.ScanCS()
	if err != nil {
		return err
	}
	body, err := e.ReadTokens(n, cs.Text)
	if err != nil {
		return err
	}
	e.SetMeaning(cs, &engine.Code{
		Name:  cs.Text,
		Kind:  engine.Expandable,
		Macro: &engine.Macro{Body: body},
	}, global(flags))
	return nil
}
