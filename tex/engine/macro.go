// macro.go -
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
	"strconv"

	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

// Macro is a user-defined macro.
type Macro struct {
	// Pattern is the parameter text.  Parameters are represented by
	// OutParam tokens.  If the parameter text ends with #{, the final
	// brace is part of the pattern and BraceEnd is set.
	Pattern token.List

	// Body is the replacement text, with OutParam tokens for the
	// parameters.
	Body token.List

	Long      bool
	Outer     bool
	Protected bool
	BraceEnd  bool
}

// Equal reports whether two macros have the same flags and text.
func (m *Macro) Equal(other *Macro) bool {
	return m.Long == other.Long && m.Outer == other.Outer &&
		m.Protected == other.Protected && m.BraceEnd == other.BraceEnd &&
		m.Pattern.Equal(other.Pattern) && m.Body.Equal(other.Body)
}

// NumParams returns the number of parameters of the macro.
func (m *Macro) NumParams() int {
	n := 0
	for _, tok := range m.Pattern {
		if tok.Cat == token.OutParam {
			n++
		}
	}
	return n
}

// MacroCall is published whenever a macro is expanded.
type MacroCall struct {
	Name  string
	Macro *Macro
	Args  []token.List
}

// ScanMacro reads the parameter text and body of a macro definition.
// The body is expanded as for \edef if expand is set.
func (e *Engine) ScanMacro(name string, flags Flags, expand bool) (*Macro, error) {
	m := &Macro{
		Long:      flags&Long != 0,
		Outer:     flags&Outer != 0,
		Protected: flags&Protected != 0,
	}

	n := 0
patternLoop:
	for {
		tok, err := e.NextRaw("definition of \\" + name)
		if err != nil {
			return nil, err
		}
		switch tok.Cat {
		case token.BeginGroup:
			break patternLoop
		case token.EndGroup:
			e.In.Back(tok)
			return nil, texerr.New(texerr.UnexpectedToken, "Missing { inserted").
				WithHelp("Where was the left brace? You said something like `\\def\\a}',\n" +
					"which I'm going to interpret as `\\def\\a{}'.")
		case token.Parameter:
			next, err := e.NextRaw("definition of \\" + name)
			if err != nil {
				return nil, err
			}
			if next.Cat == token.BeginGroup {
				m.Pattern = append(m.Pattern, next)
				m.BraceEnd = true
				break patternLoop
			}
			if n >= 9 {
				return nil, texerr.New(texerr.UnexpectedToken,
					"You already have nine parameters")
			}
			if next.Cat == token.ControlSequence || next.Text != strconv.Itoa(n+1) {
				e.In.Back(next)
				return nil, texerr.New(texerr.UnexpectedToken,
					"Parameters must be numbered consecutively")
			}
			n++
			m.Pattern = append(m.Pattern, token.Param(n))
		default:
			m.Pattern = append(m.Pattern, tok)
		}
	}

	body, err := e.scanText(expand, n, nil)
	if err != nil {
		return nil, err
	}
	if m.BraceEnd {
		body = append(body, token.Char(token.BeginGroup, '{'))
	}
	m.Body = body
	return m, nil
}

// scanText reads tokens up to the matching right brace; the left brace
// has already been read.  If params >= 0, parameter references are
// converted into OutParam tokens and ## is reduced to #.  If stop is
// not nil, the text ends at this token instead and braces need not be
// balanced.
func (e *Engine) scanText(expand bool, params int, stop *token.Token) (token.List, error) {
	var res token.List
	depth := 0
	for {
		tok, noExpand, err := e.In.Next()
		if err == io.EOF {
			return res, texerr.New(texerr.EndOfInputUnexpected,
				"File ended while scanning text")
		} else if err != nil {
			return res, err
		}
		if stop != nil && tok == *stop {
			return res, nil
		}

		if expand && !noExpand && tok.Resolvable() {
			code := e.Lookup(tok)
			if code == nil {
				e.Report(undefined(tok))
				continue
			}
			if code.Kind == Expandable &&
				(code.Macro == nil || !code.Macro.Protected) {
				if code.Verbatim != nil {
					list, err := code.Verbatim(e)
					if err != nil {
						return res, err
					}
					res = append(res, list...)
					continue
				}
				err = e.expand(tok, code)
				if err != nil {
					return res, err
				}
				continue
			}
		}

		switch tok.Cat {
		case token.BeginGroup:
			depth++
		case token.EndGroup:
			if depth == 0 && stop == nil {
				return res, nil
			}
			depth--
		case token.Parameter:
			if params < 0 {
				break
			}
			next, _, err := e.In.Next()
			if err != nil {
				return res, texerr.New(texerr.EndOfInputUnexpected,
					"File ended while scanning text")
			}
			if next.Cat == token.Parameter {
				res = append(res, next)
				continue
			}
			k := int(next.Rune() - '0')
			if next.IsCS() || len(next.Text) != 1 || k < 1 || k > params {
				e.In.Back(next)
				e.Report(texerr.New(texerr.UnexpectedToken,
					"Illegal parameter number in definition").
					WithHelp("You meant to type ## instead of #, right?"))
				res = append(res, tok)
				continue
			}
			res = append(res, token.Param(k))
			continue
		}
		res = append(res, tok)
	}
}

// callMacro reads the arguments of a macro and pushes the instantiated
// body.
func (e *Engine) callMacro(tok token.Token, m *Macro) error {
	name := tok.Text
	var args []token.List

	i := 0
	for i < len(m.Pattern) && m.Pattern[i].Cat != token.OutParam {
		// the parameter text starts with tokens which must match exactly
		next, err := e.macroToken(name, m)
		if err != nil {
			return err
		}
		if next != m.Pattern[i] {
			if err := e.checkPar(name, m, next); err != nil {
				return err
			}
			e.In.Back(next)
			return doesNotMatch(name)
		}
		i++
	}

	for i < len(m.Pattern) {
		// m.Pattern[i] is a parameter, collect its delimiter
		i++
		j := i
		for j < len(m.Pattern) && m.Pattern[j].Cat != token.OutParam {
			j++
		}
		delim := m.Pattern[i:j]
		i = j

		var arg token.List
		var err error
		if len(delim) == 0 {
			arg, err = e.undelimitedArg(name, m)
		} else {
			arg, err = e.delimitedArg(name, m, delim)
		}
		if err != nil {
			return err
		}
		args = append(args, arg)
	}

	e.MacroCalls.Publish(MacroCall{Name: name, Macro: m, Args: args})

	var body token.List
	for _, t := range m.Body {
		if t.Cat == token.OutParam {
			body = append(body, args[t.ParamNumber()-1]...)
		} else {
			body = append(body, t)
		}
	}
	return e.In.pushNamed(body, name)
}

// macroToken reads a raw token which is part of a macro call.  Outer
// macros are not allowed here.
func (e *Engine) macroToken(name string, m *Macro) (token.Token, error) {
	tok, _, err := e.In.Next()
	if err == io.EOF {
		return tok, texerr.New(texerr.EndOfInputUnexpected,
			"File ended while scanning use of \\%s", name)
	} else if err != nil {
		return tok, err
	}
	if tok.Resolvable() {
		if code := e.Lookup(tok); code != nil && code.Macro != nil && code.Macro.Outer {
			e.In.Back(tok)
			return tok, texerr.New(texerr.UnexpectedToken,
				"Forbidden control sequence found while scanning use of \\%s", name)
		}
	}
	return tok, nil
}

// checkPar fails if tok is \par and the macro is not long.  Callers skip
// the check for delimiter tokens at brace depth zero.
func (e *Engine) checkPar(name string, m *Macro, tok token.Token) error {
	if m.Long || !tok.IsCS() || tok.Text != "par" {
		return nil
	}
	e.In.Back(tok)
	return texerr.New(texerr.UnexpectedToken,
		"Paragraph ended before \\%s was complete", name).
		WithHelp("I suspect you've forgotten a `}', causing me to apply this\n" +
			"control sequence to too much text.")
}

func (e *Engine) undelimitedArg(name string, m *Macro) (token.List, error) {
	for {
		tok, err := e.macroToken(name, m)
		if err != nil {
			return nil, err
		}
		if err := e.checkPar(name, m, tok); err != nil {
			return nil, err
		}
		switch tok.Cat {
		case token.Space:
			continue
		case token.EndGroup:
			e.In.Back(tok)
			return nil, extraBrace(name)
		case token.BeginGroup:
			arg, err := e.groupArg(name, m, tok)
			if err != nil {
				return nil, err
			}
			return arg[1 : len(arg)-1], nil
		}
		return token.List{tok}, nil
	}
}

// groupArg reads a balanced group, after its left brace open has been
// read.  The result includes both braces.
func (e *Engine) groupArg(name string, m *Macro, open token.Token) (token.List, error) {
	res := token.List{open}
	depth := 1
	for depth > 0 {
		tok, err := e.macroToken(name, m)
		if err != nil {
			return nil, err
		}
		if err := e.checkPar(name, m, tok); err != nil {
			return nil, err
		}
		switch tok.Cat {
		case token.BeginGroup:
			depth++
		case token.EndGroup:
			depth--
		}
		res = append(res, tok)
	}
	return res, nil
}

func (e *Engine) delimitedArg(name string, m *Macro, delim token.List) (token.List, error) {
	var arg token.List
	var top []bool
	depth := 0
	for {
		tok, err := e.macroToken(name, m)
		if err != nil {
			return nil, err
		}

		if depth == 0 && tok == delim[len(delim)-1] && endsWith(arg, top, delim[:len(delim)-1]) {
			arg = arg[:len(arg)-len(delim)+1]
			break
		}
		if depth > 0 || !contains(delim, tok) {
			if err := e.checkPar(name, m, tok); err != nil {
				return nil, err
			}
		}

		switch tok.Cat {
		case token.BeginGroup:
			depth++
		case token.EndGroup:
			if depth == 0 {
				e.In.Back(tok)
				return nil, extraBrace(name)
			}
			depth--
		}
		top = append(top, depth == 0 && tok.Cat != token.EndGroup)
		arg = append(arg, tok)
	}

	if len(arg) >= 2 && arg[0].Cat == token.BeginGroup && arg[len(arg)-1].Cat == token.EndGroup {
		// strip the braces if the argument is a single group
		d := 0
		single := true
		for k, tok := range arg[:len(arg)-1] {
			switch tok.Cat {
			case token.BeginGroup:
				d++
			case token.EndGroup:
				d--
			}
			if d == 0 && k < len(arg)-1 {
				single = false
				break
			}
		}
		if single {
			arg = arg[1 : len(arg)-1]
		}
	}
	return arg, nil
}

// endsWith reports whether list ends with suffix, using only tokens
// at brace depth zero.
func endsWith(list token.List, top []bool, suffix token.List) bool {
	n := len(list) - len(suffix)
	if n < 0 {
		return false
	}
	for k, tok := range suffix {
		if !top[n+k] || list[n+k] != tok {
			return false
		}
	}
	return true
}

func contains(list token.List, tok token.Token) bool {
	for _, t := range list {
		if t == tok {
			return true
		}
	}
	return false
}

func doesNotMatch(name string) error {
	return texerr.New(texerr.UnexpectedToken,
		"Use of \\%s doesn't match its definition", name).
		WithHelp("If you say, e.g., `\\def\\a1{...}', then you must always\n" +
			"put `1' after `\\a', since control sequence names are\n" +
			"made up of letters only.")
}

func extraBrace(name string) error {
	return texerr.New(texerr.UnexpectedToken,
		"Argument of \\%s has an extra }", name).
		WithHelp("I've run across a `}' that doesn't seem to match anything.")
}
