// show.go -
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
	"fmt"
	"strings"
	"unicode"

	"github.com/seehuhn/gotex/tex/token"
)

// Escape returns the current escape character as a string.
func (e *Engine) Escape() string {
	c := e.Ctx.Count.Get("escapechar")
	if c < 0 || c > unicode.MaxRune {
		return ""
	}
	return string(rune(c))
}

// csString renders a control sequence, using the current escape
// character.  Word-like names are followed by a space.
func (e *Engine) csString(tok token.Token) string {
	if tok.Cat == token.Active {
		return tok.Text
	}
	esc := e.Escape()
	switch name := tok.Text; {
	case name == frozenRelax.Text:
		return esc + "relax "
	case name == endWrite.Text:
		return esc + "endwrite "
	case name == "":
		return esc + "csname" + esc + "endcsname "
	case len([]rune(name)) > 1:
		return esc + name + " "
	case e.Ctx.Catcode(tok.Rune()) == token.Letter:
		return esc + name + " "
	default:
		return esc + name
	}
}

// TokensString renders a token list the way \message, \write and
// \show print it.
func (e *Engine) TokensString(list token.List) string {
	var b strings.Builder
	for _, tok := range list {
		if tok.IsCS() {
			b.WriteString(e.csString(tok))
		} else {
			b.WriteString(tok.String())
		}
	}
	s := b.String()
	if nl := e.Ctx.Count.Get("newlinechar"); nl >= 0 && nl <= unicode.MaxRune {
		s = strings.ReplaceAll(s, string(rune(nl)), "\n")
	}
	return s
}

// print writes to the terminal without a trailing newline.
func (e *Engine) print(s string) {
	fmt.Fprint(e.Config.Terminal, s)
}

// Message writes a message to the terminal and to the log.
func (e *Engine) Message(s string) {
	fmt.Fprintln(e.Config.Terminal, s)
	e.Log.Println(s)
}

func catDescription(tok token.Token) string {
	switch tok.Cat {
	case token.BeginGroup:
		return "begin-group character " + tok.Text
	case token.EndGroup:
		return "end-group character " + tok.Text
	case token.MathShift:
		return "math shift character " + tok.Text
	case token.AlignTab:
		return "alignment tab character " + tok.Text
	case token.Parameter:
		return "macro parameter character " + tok.Text
	case token.Superscript:
		return "superscript character " + tok.Text
	case token.Subscript:
		return "subscript character " + tok.Text
	case token.Space:
		return "blank space " + tok.Text
	case token.Letter:
		return "the letter " + tok.Text
	default:
		return "the character " + tok.Text
	}
}

// String renders tok as \string does: control sequences are shown
// with the current escape character, characters stand for themselves.
func (e *Engine) String(tok token.Token) string {
	if tok.IsCS() {
		return strings.TrimSuffix(e.csString(tok), " ")
	}
	return tok.Text
}

// commandName describes tok for error messages and tracing.
func (e *Engine) commandName(tok token.Token) string {
	if tok.Resolvable() {
		return strings.TrimSuffix(e.csString(tok), " ")
	}
	return catDescription(tok)
}

// macroText renders the parameter text and body of a macro.
func (e *Engine) macroText(m *Macro) string {
	return e.TokensString(m.Pattern) + "->" + e.TokensString(m.Body)
}

// Meaning describes the current meaning of tok, as printed by \meaning.
func (e *Engine) Meaning(tok token.Token) string {
	if !tok.Resolvable() {
		return catDescription(tok)
	}
	code := e.Lookup(tok)
	switch {
	case code == nil:
		return "undefined"
	case code.Macro != nil:
		m := code.Macro
		var prefix string
		if m.Protected {
			prefix += e.Escape() + "protected"
		}
		if m.Long {
			prefix += e.Escape() + "long"
		}
		if m.Outer {
			prefix += e.Escape() + "outer"
		}
		if prefix != "" {
			prefix += " "
		}
		return prefix + "macro:" + e.macroText(m)
	case code.Char != nil:
		return catDescription(*code.Char)
	case code.Show != nil:
		return code.Show(e)
	case code.Register != nil && code.Register.Key != "":
		return e.Escape() + code.Register.Key
	}
	return strings.TrimSuffix(e.csString(token.CS(code.Name)), " ")
}
