// messages.go -
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
	"strings"

	"github.com/seehuhn/gotex/tex/engine"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

// show writes the result of \show and friends to the log, and also to
// the terminal if terminal is set.
func show(e *engine.Engine, s string, terminal bool) {
	if terminal {
		e.Message(s)
	} else {
		e.Log.Println(s)
	}
}

func loadMessages(e *engine.Engine) {
	e.Define("message", command(func(e *engine.Engine, tok token.Token) error {
		list, err := e.ScanBalanced(false)
		if err != nil {
			return err
		}
		text, err := e.ExpandText(list)
		if err != nil {
			return err
		}
		e.Message(e.TokensString(text))
		return nil
	}))

	e.Define("errmessage", command(func(e *engine.Engine, tok token.Token) error {
		list, err := e.ScanBalanced(false)
		if err != nil {
			return err
		}
		text, err := e.ExpandText(list)
		if err != nil {
			return err
		}
		help := e.TokensString(e.Ctx.Toks.Get("errhelp"))
		if help == "" {
			help = "This error message was generated by an \\errmessage\n" +
				"command, so I can't give any explicit help.\n" +
				"Pretend that you're Hercule Poirot: Examine all clues,\n" +
				"and deduce the truth by order and method."
		}
		return texerr.New(texerr.UserError, "%s", e.TokensString(text)).WithHelp(help)
	}))

	e.Define("show", command(func(e *engine.Engine, tok token.Token) error {
		t, err := e.NextRaw("\\show")
		if err != nil {
			return err
		}
		show(e, "> "+showMeaning(e, t)+".", true)
		return nil
	}))

	e.Define("showthe", command(func(e *engine.Engine, tok token.Token) error {
		list, err := theTokens(e)
		if err != nil {
			return err
		}
		show(e, "> "+e.TokensString(list)+".", true)
		return nil
	}))

	e.Define("openin", command(func(e *engine.Engine, tok token.Token) error {
		n, err := scanStream(e)
		if err != nil {
			return err
		}
		if err := e.ScanOptionalEquals(); err != nil {
			return err
		}
		name, err := e.ScanFileName()
		if err != nil {
			return err
		}
		e.OpenIn(n, name)
		return nil
	}))
	e.Define("closein", command(func(e *engine.Engine, tok token.Token) error {
		n, err := scanStream(e)
		if err != nil {
			return err
		}
		e.CloseIn(n)
		return nil
	}))

	e.Define("openout", fileCommand(func(e *engine.Engine) (*node.Whatsit, error) {
		n, err := scanStream(e)
		if err != nil {
			return nil, err
		}
		if err := e.ScanOptionalEquals(); err != nil {
			return nil, err
		}
		name, err := e.ScanFileName()
		if err != nil {
			return nil, err
		}
		return &node.Whatsit{Kind: node.WhatsitOpen, Stream: n, Name: name}, nil
	}))
	e.Define("write", fileCommand(func(e *engine.Engine) (*node.Whatsit, error) {
		n, err := e.ScanInt()
		if err != nil {
			return nil, err
		}
		list, err := e.ScanBalanced(false)
		if err != nil {
			return nil, err
		}
		return &node.Whatsit{Kind: node.WhatsitWrite, Stream: n, Tokens: list}, nil
	}))
	e.Define("closeout", fileCommand(func(e *engine.Engine) (*node.Whatsit, error) {
		n, err := scanStream(e)
		if err != nil {
			return nil, err
		}
		return &node.Whatsit{Kind: node.WhatsitClose, Stream: n}, nil
	}))
	e.Define("immediate", prefix(engine.Immediate))
}

// scanStream reads the number of a \read or \write stream.
func scanStream(e *engine.Engine) (int64, error) {
	n, err := e.ScanInt()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 15 {
		e.Report(texerr.New(texerr.UnexpectedToken, "Bad number (%d)", n).
			WithHelp("Since I expected to read a number between 0 and 15,\n" +
				"I changed this one to zero."))
		return 0, nil
	}
	return n, nil
}

// fileCommand makes a code for \openout, \write and \closeout.  The
// operation is deferred to shipout time, unless the command is prefixed
// by \immediate.
func fileCommand(scan func(e *engine.Engine) (*node.Whatsit, error)) *engine.Code {
	return &engine.Code{
		Kind:     engine.Command,
		Prefixes: engine.Immediate,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			w, err := scan(e)
			if err != nil {
				return err
			}
			if flags&engine.Immediate != 0 {
				return e.DoWhatsit(w)
			}
			e.TS.Add(w)
			return nil
		},
	}
}

// showMeaning renders tok the way \show prints it.  The replacement
// text of a macro starts on a new line.
func showMeaning(e *engine.Engine, tok token.Token) string {
	m := e.Meaning(tok)
	if !tok.Resolvable() {
		return m
	}
	if code := e.Lookup(tok); code != nil && code.Macro != nil {
		m = strings.Replace(m, "macro:", "macro:\n", 1)
	}
	return fmt.Sprintf("%s=%s", e.String(tok), m)
}
