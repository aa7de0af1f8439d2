// typesetting.go -
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

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/engine"
	"github.com/seehuhn/gotex/tex/font"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
	"github.com/seehuhn/gotex/tex/typeset"
)

func typesetting(fn func(e *engine.Engine, tok token.Token) error) *engine.Code {
	return &engine.Code{
		Kind: engine.Typesetting,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			return fn(e, tok)
		},
	}
}

func command(fn func(e *engine.Engine, tok token.Token) error) *engine.Code {
	return &engine.Code{
		Kind: engine.Command,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			return fn(e, tok)
		},
	}
}

// horizontal starts a paragraph if tok is used in vertical mode.  In
// this case tok is read again once the paragraph has started, and again
// is true.
func horizontal(e *engine.Engine, tok token.Token) (again bool, err error) {
	if e.TS.Mode().IsVertical() {
		e.Back(tok)
		return true, e.BeginParagraph(true)
	}
	return false, nil
}

// vertical checks that tok is used in a vertical mode.  Vertical
// commands in horizontal or math mode are a mode mismatch; the current
// list is left alone.
func vertical(e *engine.Engine, tok token.Token) (again bool, err error) {
	if mode := e.TS.Mode(); !mode.IsVertical() {
		return true, e.TS.Require(e.String(tok),
			typeset.Vertical, typeset.InternalVertical)
	}
	return false, nil
}

var (
	fil     = dimen.Glue{Stretch: dimen.Unity, StretchOrder: dimen.Fil}
	fill    = dimen.Glue{Stretch: dimen.Unity, StretchOrder: dimen.Fill}
	stretch = dimen.Glue{
		Stretch: dimen.Unity, StretchOrder: dimen.Fil,
		Shrink: dimen.Unity, ShrinkOrder: dimen.Fil,
	}
)

func glue(isVertical bool, fixed *dimen.Glue) *engine.Code {
	return typesetting(func(e *engine.Engine, tok token.Token) error {
		var again bool
		var err error
		if isVertical {
			again, err = vertical(e, tok)
		} else {
			again, err = horizontal(e, tok)
		}
		if again || err != nil {
			return err
		}
		var g dimen.Glue
		if fixed != nil {
			g = *fixed
		} else if g, err = e.ScanGlue(); err != nil {
			return err
		}
		e.TS.Add(&node.Glue{Spec: g})
		return nil
	})
}

func loadTypesetting(e *engine.Engine) {
	e.Define("char", typesetting(func(e *engine.Engine, tok token.Token) error {
		r, err := e.ScanCharCode()
		if err != nil {
			return err
		}
		if e.TS.Mode().IsVertical() {
			list := append(token.List{tok}, token.Chars(fmt.Sprintf("%d ", r))...)
			if err := e.Push(list); err != nil {
				return err
			}
			return e.BeginParagraph(true)
		}
		return e.AppendChar(r)
	}))

	e.Define("hskip", glue(false, nil))
	e.Define("hfil", glue(false, &fil))
	e.Define("hfill", glue(false, &fill))
	e.Define("hss", glue(false, &stretch))
	e.Define("vskip", glue(true, nil))
	e.Define("vfil", glue(true, &fil))
	e.Define("vfill", glue(true, &fill))
	e.Define("vss", glue(true, &stretch))

	e.Define("kern", typesetting(func(e *engine.Engine, tok token.Token) error {
		d, err := e.ScanDimen()
		if err != nil {
			return err
		}
		e.TS.Add(&node.Kern{Width: d, Explicit: true})
		return nil
	}))
	e.Define("penalty", typesetting(func(e *engine.Engine, tok token.Token) error {
		n, err := e.ScanInt()
		if err != nil {
			return err
		}
		e.TS.Add(&node.Penalty{Value: n})
		return nil
	}))

	e.Define("hrule", typesetting(func(e *engine.Engine, tok token.Token) error {
		if again, err := vertical(e, tok); again || err != nil {
			return err
		}
		r := &node.Rule{Width: node.Running, Height: dimen.Pt(0.4)}
		if err := scanRule(e, r); err != nil {
			return err
		}
		e.TS.Add(r)
		return nil
	}))
	e.Define("vrule", typesetting(func(e *engine.Engine, tok token.Token) error {
		if again, err := horizontal(e, tok); again || err != nil {
			return err
		}
		r := &node.Rule{Width: dimen.Pt(0.4), Height: node.Running, Depth: node.Running}
		if err := scanRule(e, r); err != nil {
			return err
		}
		e.TS.Add(r)
		e.TS.Current().SpaceFactor = 1000
		return nil
	}))

	e.Define("par", typesetting(func(e *engine.Engine, tok token.Token) error {
		return e.EndParagraph()
	}))
	e.Define("indent", typesetting(func(e *engine.Engine, tok token.Token) error {
		if e.TS.Mode().IsVertical() {
			return e.BeginParagraph(true)
		}
		e.TS.Add(&node.Box{Kind: node.HBox, Width: e.Ctx.Dimen.Get("parindent")})
		return nil
	}))
	e.Define("noindent", typesetting(func(e *engine.Engine, tok token.Token) error {
		return e.BeginParagraph(false)
	}))

	e.Define("unskip", removeLast(func(n node.Node) bool {
		_, ok := n.(*node.Glue)
		return ok
	}))
	e.Define("unkern", removeLast(func(n node.Node) bool {
		_, ok := n.(*node.Kern)
		return ok
	}))
	e.Define("unpenalty", removeLast(func(n node.Node) bool {
		_, ok := n.(*node.Penalty)
		return ok
	}))

	e.Define("lastskip", lastItem(engine.GlueValue, func(n node.Node, v *engine.Value) {
		if g, ok := n.(*node.Glue); ok {
			v.Glue = g.Spec
		}
	}))
	e.Define("lastkern", lastItem(engine.DimenValue, func(n node.Node, v *engine.Value) {
		if k, ok := n.(*node.Kern); ok {
			v.Dimen = k.Width
		}
	}))
	e.Define("lastpenalty", lastItem(engine.IntValue, func(n node.Node, v *engine.Value) {
		if p, ok := n.(*node.Penalty); ok {
			v.Int = p.Value
		}
	}))

	e.Define("mark", typesetting(func(e *engine.Engine, tok token.Token) error {
		list, err := e.ScanBalanced(true)
		if err != nil {
			return err
		}
		e.TS.Add(&node.Mark{Tokens: list})
		return nil
	}))
	e.Define("special", typesetting(func(e *engine.Engine, tok token.Token) error {
		list, err := e.ScanBalanced(true)
		if err != nil {
			return err
		}
		e.TS.Add(&node.Whatsit{Kind: node.WhatsitSpecial, Tokens: list})
		return nil
	}))

	e.Define("font", &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Execute:  fontDef,
	})
	e.Define("nullfont", fontSelector("nullfont", font.Null))

	e.Define("end", command(func(e *engine.Engine, tok token.Token) error {
		if e.TS.Depth() > 1 || !(e.TS.Mode() == typeset.Vertical || e.TS.Mode() == typeset.Horizontal) {
			return e.TS.Require(e.String(tok), typeset.Vertical)
		}
		if err := e.EndParagraph(); err != nil {
			return err
		}
		return engine.ErrEnd
	}))

	for _, m := range []state.Interaction{state.Batch, state.Nonstop, state.Scroll, state.ErrorStop} {
		mode := m
		e.Define(mode.String(), command(func(e *engine.Engine, tok token.Token) error {
			e.Ctx.SetInteraction(mode)
			return nil
		}))
	}
}

func scanRule(e *engine.Engine, r *node.Rule) error {
	for {
		found := false
		for _, kw := range []string{"width", "height", "depth"} {
			ok, err := e.ScanKeyword(kw)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			d, err := e.ScanDimen()
			if err != nil {
				return err
			}
			switch kw {
			case "width":
				r.Width = d
			case "height":
				r.Height = d
			default:
				r.Depth = d
			}
			found = true
			break
		}
		if !found {
			return nil
		}
	}
}

func removeLast(match func(node.Node) bool) *engine.Code {
	return typesetting(func(e *engine.Engine, tok token.Token) error {
		if n := e.TS.LastNode(); n != nil && match(n) {
			e.TS.RemoveLastNode()
		}
		return nil
	})
}

func lastItem(kind engine.ValueKind, get func(node.Node, *engine.Value)) *engine.Code {
	return &engine.Code{
		Kind: engine.Command,
		Value: func(e *engine.Engine) (engine.Value, error) {
			v := engine.Value{Kind: kind}
			if n := e.TS.LastNode(); n != nil {
				get(n, &v)
			}
			return v, nil
		},
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			return texerr.New(texerr.ModeMismatch, "You can't use `%s' in %s",
				e.String(tok), e.TS.Mode()).
				WithHelp("Sorry, but I'm not programmed to handle this case;\n" +
					"I'll just pretend that you didn't ask for it.")
		},
	}
}

func fontSelector(name string, f *font.Font) *engine.Code {
	return &engine.Code{
		Name:     name,
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			e.Ctx.Font.Set(engine.CurrentFontKey, f, global(flags))
			return nil
		},
		Show: func(e *engine.Engine) string {
			return "select font " + f.String()
		},
	}
}

func fontDef(e *engine.Engine, tok token.Token, flags engine.Flags) error {
	cs, err := e.ScanCS()
	if err != nil {
		return err
	}
	e.SetMeaning(cs, relax, global(flags))
	if err := e.ScanOptionalEquals(); err != nil {
		return err
	}
	name, err := e.ScanFileName()
	if err != nil {
		return err
	}

	var size dimen.Scaled
	scaled := int64(1000)
	if ok, err := e.ScanKeyword("at"); err != nil {
		return err
	} else if ok {
		size, err = e.ScanDimen()
		if err != nil {
			return err
		}
		if size <= 0 || size >= 2048*dimen.Unity {
			e.Report(texerr.New(texerr.UnexpectedToken,
				"Improper `at' size (%s), replaced by 10pt", size).
				WithHelp("I can only handle fonts at positive sizes that are\n" +
					"less than 2048pt, so I've changed what you said to 10pt."))
			size = 10 * dimen.Unity
		}
	} else if ok, err := e.ScanKeyword("scaled"); err != nil {
		return err
	} else if ok {
		scaled, err = e.ScanInt()
		if err != nil {
			return err
		}
		if scaled <= 0 || scaled > 32768 {
			e.Report(texerr.New(texerr.UnexpectedToken,
				"Illegal magnification has been changed to 1000").
				WithHelp("The magnification ratio must be between 1 and 32768."))
			scaled = 1000
		}
	}

	f, err := e.Config.Fonts.Load(name, size)
	if err == nil && scaled != 1000 {
		var s dimen.Scaled
		s, err = dimen.Multiply(f.DesignSize, scaled)
		if err == nil {
			f, err = e.Config.Fonts.Load(name, s/1000)
		}
	}
	if err != nil {
		e.Report(texerr.New(texerr.ConfigurationFailure,
			"Font %s=%s not loadable: %v", e.String(cs), name, err))
		f = font.Null
	}
	e.SetMeaning(cs, fontSelector(cs.Text, f), global(flags))
	return nil
}
