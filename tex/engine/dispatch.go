// dispatch.go -
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
	"io"

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/font"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
	"github.com/seehuhn/gotex/tex/typeset"
)

// CommandEvent is published for every command the dispatcher executes.
type CommandEvent struct {
	Token token.Token
	Mode  typeset.Mode
}

// Run executes commands until \end is reached, the input is exhausted or
// the reporter gives up.  The remaining material on the main vertical
// list is handed to the output.  The result is the error which stopped
// the job, or nil.
func (e *Engine) Run() error {
	defer e.In.Close()

	for e.halted == nil {
		err := e.Step()
		if err == io.EOF || err == ErrEnd {
			break
		} else if err != nil {
			e.Report(err)
		}
	}

	err := e.finish()
	if e.halted != nil {
		return e.halted
	}
	return err
}

// Step reads and executes a single command.
func (e *Engine) Step() error {
	tok, err := e.Pop(true)
	if err != nil {
		return err
	}
	if !tok.Resolvable() {
		return e.character(tok)
	}
	if e.lastNoExpand {
		// \noexpand'ed tokens act as \relax in command position
		return nil
	}
	code := e.Lookup(tok)
	if code == nil {
		return undefined(tok)
	}
	if code.Char != nil {
		return e.character(*code.Char)
	}
	return e.execute(tok, code)
}

func (e *Engine) execute(tok token.Token, code *Code) error {
	var flags Flags
	for code.Kind == Prefix {
		flags |= code.PrefixFlag
		next, err := e.NextNonBlank("prefixed command")
		if err != nil {
			return err
		}
		var nextCode *Code
		if next.Resolvable() && !e.lastNoExpand {
			nextCode = e.Lookup(next)
		}
		if nextCode == nil || nextCode.Char != nil {
			e.Back(next)
			return texerr.New(texerr.CantUseAfter,
				"You can't use a prefix with `%s'", e.commandName(next)).
				WithHelp("I'll pretend you didn't say \\long or \\outer or \\global.")
		}
		tok, code = next, nextCode
	}

	if flags == Immediate && code.Prefixes&Immediate == 0 {
		// \immediate before other commands has no effect
		flags = 0
	}
	if flags != 0 && code.Kind != Prefix {
		if code.Prefixes == 0 {
			e.Back(tok)
			return texerr.New(texerr.CantUseAfter,
				"You can't use a prefix with `%s'", e.commandName(tok)).
				WithHelp("I'll pretend you didn't say \\long or \\outer or \\global.")
		}
		if bad := flags &^ code.Prefixes; bad != 0 {
			e.Report(texerr.New(texerr.CantUseAfter,
				"You can't use `%s' with `%s'", bad, e.commandName(tok)).
				WithHelp("I'll pretend you didn't say that."))
			flags &= code.Prefixes
		}
	}
	if code.Kind == Assignment {
		if gd := e.Ctx.Count.Get("globaldefs"); gd > 0 {
			flags |= Global
		} else if gd < 0 {
			flags &^= Global
		}
	}

	e.Commands.Publish(CommandEvent{Token: tok, Mode: e.TS.Mode()})
	if code.Execute == nil {
		return nil
	}
	err := code.Execute(e, tok, flags)
	if code.Kind == Assignment && e.afterAssignment != nil {
		after := *e.afterAssignment
		e.afterAssignment = nil
		e.Back(after)
	}
	return err
}

// SetAfterAssignment arranges for tok to be inserted after the next
// assignment.
func (e *Engine) SetAfterAssignment(tok token.Token) {
	e.afterAssignment = &tok
}

// character executes an explicit or implicit character token.
func (e *Engine) character(tok token.Token) error {
	mode := e.TS.Mode()
	e.Commands.Publish(CommandEvent{Token: tok, Mode: mode})

	switch tok.Cat {
	case token.BeginGroup:
		e.Ctx.OpenGroup(state.SimpleGroup, nil)
	case token.EndGroup:
		return e.EndGroup()
	case token.MathShift:
		return e.mathShift(tok)
	case token.AlignTab:
		return texerr.New(texerr.UnexpectedToken,
			"Misplaced alignment tab character %s", tok.Text).
			WithHelp("I can't figure out why you would want to use a tab mark\n" +
				"here. I'm going to ignore it.")
	case token.Parameter:
		return texerr.New(texerr.ModeMismatch,
			"You can't use `macro parameter character %s' in %s", tok.Text, mode).
			WithHelp("Sorry, but I'm not programmed to handle this case;\n" +
				"I'll just pretend that you didn't ask for it.")
	case token.Superscript, token.Subscript:
		if !mode.IsMath() {
			return texerr.New(texerr.ModeMismatch, "Missing $ inserted").
				WithHelp("I've ignored a character which can only be used in math mode.")
		}
	case token.Space:
		if mode.IsHorizontal() {
			return e.AppendSpace()
		}
	case token.Letter, token.Other:
		if mode.IsVertical() {
			e.Back(tok)
			return e.BeginParagraph(true)
		}
		return e.AppendChar(tok.Rune())
	}
	return nil
}

// EndGroup handles a right brace.
func (e *Engine) EndGroup() error {
	switch e.Ctx.Top().Type {
	case state.HBoxGroup, state.VBoxGroup:
		return e.finishBox()
	}
	return e.CloseGroup(state.SimpleGroup)
}

// CloseGroup closes the innermost group, which must be of type tp, and
// inserts the tokens saved by \aftergroup.
func (e *Engine) CloseGroup(tp state.GroupType) error {
	g, err := e.Ctx.CloseGroup(tp)
	if err != nil {
		return err
	}
	return e.In.Push(g.AfterGroup)
}

func (e *Engine) mathShift(tok token.Token) error {
	switch mode := e.TS.Mode(); {
	case mode == typeset.InlineMath:
		return e.finishMath()
	case mode == typeset.DisplayMath:
		next, err := e.Pop(false)
		if err != nil && err != io.EOF {
			return err
		}
		if err == nil && next.Cat != token.MathShift {
			e.Back(next)
			e.Report(texerr.New(texerr.UnexpectedToken,
				"Display math should end with $$").
				WithHelp("The `$' that I just saw supposedly matches a previous `$$'.\n" +
					"So I shall assume that you typed `$$' both times."))
		}
		return e.finishMath()
	case mode.IsVertical():
		e.Back(tok)
		return e.BeginParagraph(true)
	default:
		newMode, every := typeset.InlineMath, "everymath"
		if mode == typeset.Horizontal {
			next, err := e.Pop(false)
			if err != nil && err != io.EOF {
				return err
			}
			if err == nil {
				if next.Cat == token.MathShift {
					newMode, every = typeset.DisplayMath, "everydisplay"
				} else {
					e.Back(next)
				}
			}
		}
		e.Ctx.OpenGroup(state.MathGroup, nil)
		e.TS.PushMode(newMode)
		return e.In.Push(e.Ctx.Toks.Get(every))
	}
}

func (e *Engine) finishMath() error {
	err := e.CloseGroup(state.MathGroup)
	if err != nil {
		return err
	}
	list, err := e.TS.PopMode()
	if err != nil {
		return err
	}
	box := node.HPack(list, node.Spec{})
	if e.TS.Mode().IsVertical() {
		return e.AppendBox(box)
	}
	if s := e.Ctx.Dimen.Get("mathsurround"); s != 0 {
		e.TS.Add(&node.Kern{Width: s}, box, &node.Kern{Width: s})
	} else {
		e.TS.Add(box)
	}
	e.TS.Current().SpaceFactor = 1000
	return nil
}

// BeginParagraph switches from vertical to horizontal mode.
func (e *Engine) BeginParagraph(indent bool) error {
	if !e.TS.Mode().IsVertical() {
		return nil
	}
	e.TS.PushMode(typeset.Horizontal)
	if indent {
		e.TS.Add(&node.Box{
			Kind:  node.HBox,
			Width: e.Ctx.Dimen.Get("parindent"),
		})
	}
	return e.In.Push(e.Ctx.Toks.Get("everypar"))
}

// EndParagraph finishes the current paragraph, if any.  Paragraphs are
// not broken into lines: the horizontal list is packed into a single
// box of width \hsize, or of its natural width if \hsize is not positive.
func (e *Engine) EndParagraph() error {
	if e.TS.Mode() != typeset.Horizontal {
		return nil
	}
	list, err := e.TS.PopMode()
	if err != nil {
		return err
	}
	if n := len(list); n > 0 {
		if _, isGlue := list[n-1].(*node.Glue); isGlue {
			list = list[:n-1]
		}
	}
	list = append(list,
		&node.Penalty{Value: 10000},
		&node.Glue{Spec: e.Ctx.Skip.Get("parfillskip"), Param: "parfillskip"})

	var spec node.Spec
	if hsize := e.Ctx.Dimen.Get("hsize"); hsize > 0 {
		spec = node.Spec{Exactly: true, Amount: hsize}
	}
	return e.AppendBox(node.HPack(list, spec))
}

// AppendBox adds a box to the current list.  In vertical mode, the
// interline glue is inserted first.
func (e *Engine) AppendBox(box *node.Box) error {
	if box == nil {
		return nil
	}
	lm := e.TS.Current()
	switch {
	case lm.Mode.IsVertical():
		if lm.PrevDepth > typeset.IgnoreDepth {
			bs := e.Ctx.Skip.Get("baselineskip")
			d := bs.Width - lm.PrevDepth - box.Height
			if d < e.Ctx.Dimen.Get("lineskiplimit") {
				e.TS.Add(&node.Glue{Spec: e.Ctx.Skip.Get("lineskip"), Param: "lineskip"})
			} else {
				bs.Width = d
				e.TS.Add(&node.Glue{Spec: bs, Param: "baselineskip"})
			}
		}
	case lm.Mode.IsHorizontal():
		lm.SpaceFactor = 1000
	}
	e.TS.Add(box)
	return nil
}

// AppendChar adds a character in the current font to the current list.
func (e *Engine) AppendChar(r rune) error {
	f := e.CurrentFont()
	wd, ht, dp, ok := f.Metrics.Char(r)
	if !ok {
		if e.Ctx.Count.Get("tracinglostchars") > 0 {
			e.warn("Missing character: There is no %c in font %s!", r, f.Name)
		}
		return nil
	}
	e.TS.Add(&node.Char{Font: f, Code: r, Width: wd, Height: ht, Depth: dp})

	lm := e.TS.Current()
	switch sf := e.Ctx.Sfcodes.Get(r); {
	case sf == 1000:
		lm.SpaceFactor = 1000
	case sf < 1000:
		if sf > 0 {
			lm.SpaceFactor = sf
		}
	case lm.SpaceFactor < 1000:
		lm.SpaceFactor = 1000
	default:
		lm.SpaceFactor = sf
	}
	return nil
}

// AppendSpace adds interword glue, taking the space factor into
// account.
func (e *Engine) AppendSpace() error {
	lm := e.TS.Current()
	sf := lm.SpaceFactor
	if sf <= 0 {
		sf = 1000
	}

	if xs := e.Ctx.Skip.Get("xspaceskip"); sf >= 2000 && xs != (dimen.Glue{}) {
		e.TS.Add(&node.Glue{Spec: xs, Param: "xspaceskip"})
		return nil
	}

	g := e.Ctx.Skip.Get("spaceskip")
	param := "spaceskip"
	if g == (dimen.Glue{}) {
		m := e.CurrentFont().Metrics
		g = dimen.Glue{
			Width:   m.Param(font.ParamSpace),
			Stretch: m.Param(font.ParamSpaceStretch),
			Shrink:  m.Param(font.ParamSpaceShrink),
		}
		param = ""
		if sf >= 2000 {
			g.Width += m.Param(font.ParamExtraSpace)
		}
	}
	if sf != 1000 {
		g.Stretch = dimen.Scaled(int64(g.Stretch) * sf / 1000)
		g.Shrink = dimen.Scaled(int64(g.Shrink) * 1000 / sf)
		param = ""
	}
	e.TS.Add(&node.Glue{Spec: g, Param: param})
	return nil
}

// finish ends the job after \end or at the end of input.
func (e *Engine) finish() error {
	if e.TS.Depth() == 1 && e.TS.Mode() == typeset.Horizontal {
		e.Report(e.EndParagraph())
	}
	if level := e.Ctx.Level(); level > 0 {
		e.warn("(\\end occurred inside a group at level %d)", level)
	}
	for i := len(e.conds) - 1; i >= 0; i-- {
		c := e.conds[i]
		e.warn("(\\end occurred when \\%s on line %d was incomplete)", c.name, c.line)
	}
	list := e.TS.Finish()
	e.Report(e.runWhatsits(list))
	e.closeStreams()

	if e.Config.Output == nil {
		return nil
	}
	if err := e.Config.Output.Close(list); err != nil {
		return texerr.Wrap(texerr.ConfigurationFailure, err)
	}
	return nil
}
