// input.go -
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

	"github.com/seehuhn/gotex/tex/event"
	"github.com/seehuhn/gotex/tex/scanner"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

// InputEvent reports that an input file was closed.
type InputEvent struct {
	Name  string
	Lines int
}

type layer struct {
	// exactly one of scanner and tokens is used
	scanner *scanner.Scanner
	tokens  token.List
	pos     int

	// name is the macro whose body this layer holds, if any
	name     string
	noExpand bool
}

func (l *layer) exhausted() bool {
	return l.scanner == nil && l.pos >= len(l.tokens)
}

// Input is the stack of input layers.  Tokens are read from the topmost
// layer; exhausted layers are removed.
type Input struct {
	// Closed receives an event whenever a file layer is closed.
	Closed event.Bus[InputEvent]

	layers   []*layer
	maxDepth int
}

func newInput(maxDepth int) *Input {
	return &Input{maxDepth: maxDepth}
}

// Next returns the next unexpanded token.  If the token was marked by
// \noexpand, noExpand is true.  At the end of all input io.EOF is
// returned.
func (in *Input) Next() (tok token.Token, noExpand bool, err error) {
	for len(in.layers) > 0 {
		l := in.layers[len(in.layers)-1]
		if l.scanner != nil {
			tok, err = l.scanner.Next()
			if err == io.EOF {
				in.pop()
				continue
			}
			return tok, false, err
		}
		if l.pos < len(l.tokens) {
			tok = l.tokens[l.pos]
			l.pos++
			return tok, l.noExpand, nil
		}
		in.pop()
	}
	return token.Token{}, false, io.EOF
}

// Push inserts tokens in front of the remaining input.
func (in *Input) Push(tokens token.List) error {
	return in.pushNamed(tokens, "")
}

func (in *Input) pushNamed(tokens token.List, name string) error {
	if len(tokens) == 0 {
		return nil
	}
	return in.push(&layer{tokens: tokens, name: name})
}

// Back puts tok back, so that it is returned by the next call to Next.
func (in *Input) Back(tok token.Token) {
	if n := len(in.layers); n > 0 {
		l := in.layers[n-1]
		if l.scanner == nil && !l.noExpand && l.pos > 0 && l.tokens[l.pos-1] == tok {
			l.pos--
			return
		}
	}
	in.layers = append(in.layers, &layer{tokens: token.List{tok}})
}

// BackNoExpand puts tok back, marked as exempt from expansion.
func (in *Input) BackNoExpand(tok token.Token) {
	in.layers = append(in.layers, &layer{tokens: token.List{tok}, noExpand: true})
}

// PushSource starts reading from a new file.
func (in *Input) PushSource(s *scanner.Scanner) error {
	return in.push(&layer{scanner: s})
}

func (in *Input) push(l *layer) error {
	for n := len(in.layers); n > 0 && in.layers[n-1].exhausted(); n-- {
		in.layers = in.layers[:n-1]
	}
	if in.maxDepth > 0 && len(in.layers) >= in.maxDepth {
		if l.scanner != nil {
			l.scanner.Close()
		}
		return texerr.New(texerr.StackExhausted,
			"TeX capacity exceeded, sorry [input stack size=%d]", in.maxDepth).
			WithHelp("If you really absolutely need more capacity,\n" +
				"you can ask a wizard to enlarge me.")
	}
	in.layers = append(in.layers, l)
	return nil
}

func (in *Input) pop() {
	n := len(in.layers) - 1
	l := in.layers[n]
	in.layers = in.layers[:n]
	if l.scanner != nil {
		src := l.scanner.Source()
		l.scanner.Close()
		in.Closed.Publish(InputEvent{Name: src.Name, Lines: src.Line})
	}
}

// EndInput makes the innermost file end after the current line.
func (in *Input) EndInput() {
	for i := len(in.layers) - 1; i >= 0; i-- {
		if s := in.layers[i].scanner; s != nil {
			s.EndInput()
			return
		}
	}
}

// Depth returns the number of input layers.
func (in *Input) Depth() int {
	return len(in.layers)
}

// FileDepth returns the number of open files.
func (in *Input) FileDepth() int {
	n := 0
	for _, l := range in.layers {
		if l.scanner != nil {
			n++
		}
	}
	return n
}

// Frames describes the input stack, innermost first, for error messages.
func (in *Input) Frames() []texerr.Frame {
	var res []texerr.Frame
	for i := len(in.layers) - 1; i >= 0; i-- {
		l := in.layers[i]
		switch {
		case l.scanner != nil:
			res = append(res, l.scanner.Location())
		case l.name != "":
			rest := l.tokens[l.pos:]
			if len(rest) > 8 {
				rest = rest[:8]
			}
			res = append(res, texerr.Frame{
				Name:    "<macro \\" + l.name + ">",
				Context: rest.String(),
			})
		}
	}
	return res
}

// Close closes all layers.  Every open file causes an event on Closed.
func (in *Input) Close() {
	for len(in.layers) > 0 {
		in.pop()
	}
}
