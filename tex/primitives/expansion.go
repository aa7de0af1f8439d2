// expansion.go -
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
	"strconv"
	"strings"

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/engine"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

var relax = &engine.Code{Name: "relax", Kind: engine.Relax}

var endCSName = &engine.Code{
	Name: "endcsname",
	Kind: engine.Command,
	Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
		return texerr.New(texerr.UnexpectedToken, "Extra %s", e.String(tok)).
			WithHelp("I'm ignoring this, since I wasn't doing a \\csname.")
	},
}

func expandable(fn func(e *engine.Engine, tok token.Token) error) *engine.Code {
	return &engine.Code{
		Kind:   engine.Expandable,
		Expand: fn,
	}
}

// inserting returns an expandable code which inserts the result of fn.
// Inside \edef and \write the result is not expanded again.
func inserting(fn func(e *engine.Engine) (token.List, error)) *engine.Code {
	return &engine.Code{
		Kind:     engine.Expandable,
		Verbatim: fn,
		Expand: func(e *engine.Engine, tok token.Token) error {
			list, err := fn(e)
			if err != nil {
				return err
			}
			return e.Push(list)
		},
	}
}

func loadExpansion(e *engine.Engine) {
	e.Define("relax", relax)
	e.Define("endcsname", endCSName)

	e.Define("expandafter", expandable(func(e *engine.Engine, tok token.Token) error {
		first, err := e.NextRaw("\\expandafter")
		if err != nil {
			return err
		}
		second, err := e.NextRaw("\\expandafter")
		if err != nil {
			return err
		}
		if err := e.ExpandOnce(second); err != nil {
			return err
		}
		e.Back(first)
		return nil
	}))

	e.Define("noexpand", expandable(func(e *engine.Engine, tok token.Token) error {
		t, err := e.NextRaw("\\noexpand")
		if err != nil {
			return err
		}
		if !t.Resolvable() {
			e.Back(t)
		} else if code := e.Lookup(t); code == nil || code.Kind == engine.Expandable {
			// undefined tokens pass through like expandable ones
			e.In.BackNoExpand(t)
		} else {
			e.Back(t)
		}
		return nil
	}))

	e.Define("csname", expandable(csName))

	e.Define("the", inserting(theTokens))
	e.Define("unexpanded", inserting(func(e *engine.Engine) (token.List, error) {
		return e.ScanBalanced(false)
	}))

	e.Define("number", expandable(func(e *engine.Engine, tok token.Token) error {
		n, err := e.ScanInt()
		if err != nil {
			return err
		}
		return e.Push(token.Chars(strconv.FormatInt(n, 10)))
	}))
	e.Define("romannumeral", expandable(func(e *engine.Engine, tok token.Token) error {
		n, err := e.ScanInt()
		if err != nil {
			return err
		}
		return e.Push(token.Chars(Roman(n)))
	}))
	e.Define("string", expandable(func(e *engine.Engine, tok token.Token) error {
		t, err := e.NextRaw("\\string")
		if err != nil {
			return err
		}
		return e.Push(token.Chars(e.String(t)))
	}))
	e.Define("meaning", expandable(func(e *engine.Engine, tok token.Token) error {
		t, err := e.NextRaw("\\meaning")
		if err != nil {
			return err
		}
		return e.Push(token.Chars(e.Meaning(t)))
	}))
	e.Define("jobname", expandable(func(e *engine.Engine, tok token.Token) error {
		return e.Push(token.Chars(e.Config.JobName))
	}))

	e.Define("uppercase", changeCase(func(e *engine.Engine, r rune) int64 {
		return e.Ctx.Uccodes.Get(r)
	}))
	e.Define("lowercase", changeCase(func(e *engine.Engine, r rune) int64 {
		return e.Ctx.Lccodes.Get(r)
	}))

	e.Define("input", expandable(func(e *engine.Engine, tok token.Token) error {
		name, err := e.ScanFileName()
		if err != nil {
			return err
		}
		return e.PushFile(name)
	}))
	e.Define("endinput", expandable(func(e *engine.Engine, tok token.Token) error {
		e.In.EndInput()
		return nil
	}))
}

func csName(e *engine.Engine, tok token.Token) error {
	var b strings.Builder
	for {
		t, err := e.NextExpanded("\\csname")
		if err != nil {
			return err
		}
		if !t.Resolvable() {
			b.WriteString(t.Text)
			continue
		}
		if e.Lookup(t) != endCSName {
			e.Back(t)
			e.Report(texerr.New(texerr.UnexpectedToken, "Missing %sendcsname inserted", e.Escape()).
				WithHelp("The control sequence marked <to be read again> should\n" +
					"not appear between \\csname and \\endcsname."))
		}
		break
	}
	cs := token.CS(b.String())
	if e.Lookup(cs) == nil {
		e.SetMeaning(cs, relax, false)
	}
	e.Back(cs)
	return nil
}

func theTokens(e *engine.Engine) (token.List, error) {
	tok, err := e.NextExpanded("\\the")
	if err != nil {
		return nil, err
	}
	var code *engine.Code
	if tok.Resolvable() {
		code = e.Lookup(tok)
	}
	if code == nil || !code.Has(engine.Theable) {
		e.Report(texerr.New(texerr.CantUseAfter,
			"You can't use `%s' after %sthe", e.Meaning(tok), e.Escape()).
			WithHelp("I'm forgetting what you said and using zero instead."))
		return token.Chars("0"), nil
	}
	v, err := code.Value(e)
	if err != nil {
		return nil, err
	}
	return valueTokens(v), nil
}

func valueTokens(v engine.Value) token.List {
	switch v.Kind {
	case engine.IntValue:
		return token.Chars(strconv.FormatInt(v.Int, 10))
	case engine.DimenValue:
		return token.Chars(v.Dimen.String())
	case engine.GlueValue:
		return token.Chars(v.Glue.String())
	case engine.MuGlueValue:
		return token.Chars(dimen.MuGlue(v.Glue).String())
	default:
		return v.Tokens.Copy()
	}
}

// changeCase implements \uppercase and \lowercase.
func changeCase(mapping func(e *engine.Engine, r rune) int64) *engine.Code {
	return &engine.Code{
		Kind: engine.Command,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			list, err := e.ScanBalanced(false)
			if err != nil {
				return err
			}
			res := make(token.List, len(list))
			for i, t := range list {
				res[i] = t
				if t.IsCS() || t.Cat == token.OutParam {
					continue
				}
				if c := mapping(e, t.Rune()); c != 0 {
					res[i].Text = string(rune(c))
				}
			}
			return e.Push(res)
		},
	}
}

// Roman returns the lower case roman numeral for n, or the empty string
// if n is not positive.
func Roman(n int64) string {
	const digits = "m2d5c2l5x2v5i"
	var b strings.Builder
	j, v := 0, int64(1000)
	for {
		for n >= v {
			b.WriteByte(digits[j])
			n -= v
		}
		if n <= 0 {
			return b.String()
		}
		k := j + 2
		u := v / int64(digits[k-1]-'0')
		if digits[k-1] == '2' {
			k += 2
			u /= int64(digits[k-1] - '0')
		}
		if n+u >= v {
			b.WriteByte(digits[k])
			n += u
		} else {
			j += 2
			v /= int64(digits[j-1] - '0')
		}
	}
}
