// files.go -
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
	"io"

	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/scanner"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

// endWrite terminates the text of a \write while it is expanded.
var endWrite = token.CS("\x00endwrite")

func validStream(n int64) bool {
	return n >= 0 && n < 16
}

// OpenIn opens a file for \read.  If the file cannot be found, the
// stream stays closed.
func (e *Engine) OpenIn(n int64, name string) {
	e.CloseIn(n)
	if !validStream(n) {
		return
	}
	r, fileName, err := e.Config.Files.Open(name)
	if err != nil {
		return
	}
	e.readers[n] = scanner.New(scanner.NewSource(fileName, r), e.Ctx)
}

// CloseIn closes a \read stream.
func (e *Engine) CloseIn(n int64) {
	if !validStream(n) || e.readers[n] == nil {
		return
	}
	e.readers[n].Close()
	e.readers[n] = nil
}

// InEOF reports whether a \read stream is closed, as tested by \ifeof.
func (e *Engine) InEOF(n int64) bool {
	return !validStream(n) || e.readers[n] == nil
}

// ReadTokens reads one line from a \read stream, or more lines if
// needed to balance braces.  If the stream is closed, the line is read
// from the terminal; name is the control sequence being defined and is
// used in the prompt.
func (e *Engine) ReadTokens(n int64, name string) (token.List, error) {
	var s *scanner.Scanner
	terminal := false
	if validStream(n) {
		s = e.readers[n]
	}
	if s == nil {
		if e.Config.ReadLine == nil || e.Ctx.Interaction() != state.ErrorStop {
			return nil, texerr.New(texerr.InputFailure,
				"*** (cannot \\read from terminal in nonstop modes)")
		}
		prompt := ""
		if n >= 0 {
			prompt = fmt.Sprintf("%s=", e.csString(token.CS(name)))
		}
		src := scanner.NewLineSource("<read>", func() (string, error) {
			line, err := e.Config.ReadLine(prompt)
			prompt = ""
			return line, err
		})
		s = scanner.New(src, e.Ctx)
		terminal = true
	}

	var res token.List
	depth := 0
	first := true
	for {
		line, err := s.NextLine()
		if err == io.EOF {
			if terminal {
				return nil, texerr.New(texerr.InputFailure,
					"*** (job aborted, no legal \\end found)")
			}
			e.CloseIn(n)
			if depth > 0 {
				e.Report(texerr.New(texerr.EndOfInputUnexpected,
					"File ended within \\read"))
				return res, nil
			}
			if first && e.Ctx.EndLineChar() >= 0 {
				// past the last line TeX sees an empty line
				res = token.List{token.CS(scanner.ParName)}
			}
			return res, nil
		} else if err != nil {
			e.Report(err)
		}
		first = false
		for _, tok := range line {
			switch tok.Cat {
			case token.BeginGroup:
				depth++
			case token.EndGroup:
				depth--
			}
		}
		res = append(res, line...)
		if depth <= 0 {
			return res, nil
		}
	}
}

// OpenOut opens a file for \write.
func (e *Engine) OpenOut(n int64, name string) error {
	if err := e.CloseOut(n); err != nil {
		return err
	}
	if !validStream(n) {
		return nil
	}
	w, err := e.Config.Files.Create(name)
	if err != nil {
		return texerr.Wrap(texerr.ConfigurationFailure, err)
	}
	e.writers[n] = w
	return nil
}

// CloseOut closes a \write stream.
func (e *Engine) CloseOut(n int64) error {
	if !validStream(n) || e.writers[n] == nil {
		return nil
	}
	err := e.writers[n].Close()
	e.writers[n] = nil
	if err != nil {
		return texerr.Wrap(texerr.ConfigurationFailure, err)
	}
	return nil
}

// WriteOut expands text and writes it to a stream.  Negative stream
// numbers write to the log only; closed or out of range streams write
// to the log and the terminal.
func (e *Engine) WriteOut(n int64, text token.List) error {
	list, err := e.ExpandText(text)
	if err != nil {
		return err
	}
	s := e.TokensString(list)

	if validStream(n) && e.writers[n] != nil {
		_, err := io.WriteString(e.writers[n], s+"\n")
		if err != nil {
			return texerr.Wrap(texerr.ConfigurationFailure, err)
		}
		return nil
	}
	e.Log.Println(s)
	if n >= 0 {
		fmt.Fprintln(e.Config.Terminal, s)
	}
	return nil
}

// ExpandText fully expands a token list, as for \write and \message.
// Protected macros and the results of \the and \unexpanded stay
// unexpanded.
func (e *Engine) ExpandText(text token.List) (token.List, error) {
	if e.Meanings.Get(endWrite.Text) == nil {
		e.Define(endWrite.Text, &Code{
			Name:  "endwrite",
			Kind:  Relax,
			Macro: &Macro{Outer: true},
		})
	}
	list := make(token.List, 0, len(text)+1)
	list = append(list, text...)
	list = append(list, endWrite)
	if err := e.In.Push(list); err != nil {
		return nil, err
	}
	return e.scanText(true, -1, &endWrite)
}

// DoWhatsit carries out a deferred file operation.
func (e *Engine) DoWhatsit(w *node.Whatsit) error {
	switch w.Kind {
	case node.WhatsitOpen:
		return e.OpenOut(w.Stream, w.Name)
	case node.WhatsitWrite:
		return e.WriteOut(w.Stream, w.Tokens)
	case node.WhatsitClose:
		return e.CloseOut(w.Stream)
	}
	return nil
}

func (e *Engine) closeStreams() {
	for i := range e.readers {
		e.CloseIn(int64(i))
	}
	for i := range e.writers {
		e.Report(e.CloseOut(int64(i)))
	}
}
