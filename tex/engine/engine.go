// engine.go -
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

// Package engine implements the TeX interpreter: expansion of macros and
// conditionals, the input stack, and the dispatcher which executes
// commands.
//
// The engine knows no primitives by itself.  A catalog of primitives is
// installed with Engine.Define before the job is run.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/seehuhn/gotex/tex/event"
	"github.com/seehuhn/gotex/tex/scanner"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
	"github.com/seehuhn/gotex/tex/typeset"
)

// Engine is a single TeX job.
type Engine struct {
	Config *Config
	Ctx    *state.Context
	TS     *typeset.Typesetter
	In     *Input
	Log    *log.Logger

	// Meanings maps control sequence names to codes.
	Meanings *state.Table[string, *Code]

	// MacroCalls receives an event for every macro expansion.
	MacroCalls event.Bus[MacroCall]

	// Commands receives an event for every command executed.
	Commands event.Bus[CommandEvent]

	conds           []*condFrame
	afterAssignment *token.Token
	lastNoExpand    bool
	readers         [16]*scanner.Scanner
	writers         [16]io.WriteCloser
	pages           int
	expandDepth     int
	halted          error
}

// frozenRelax is inserted where TeX inserts its frozen \relax.  It
// cannot be redefined.
var frozenRelax = token.CS("\x00relax")

// ErrEnd is returned by the \end command to stop the main loop.
var ErrEnd = errors.New("end of job")

// New creates an engine for a single job.
func New(conf *Config) *Engine {
	if conf == nil {
		conf = &Config{}
	}
	conf.setDefaults()

	ctx := state.New()
	ctx.SetInteraction(conf.Interaction)
	e := &Engine{
		Config: conf,
		Ctx:    ctx,
		TS:     typeset.New(),
		In:     newInput(conf.MaxInputDepth),
		Log:    conf.Log,
	}
	e.Meanings = state.NewTable[string, *Code](ctx, "meaning", nil)
	e.Define(frozenRelax.Text, &Code{Name: "relax", Kind: Relax})
	e.installTracing()
	return e
}

// Define installs a primitive.  Primitives are defined globally.
func (e *Engine) Define(name string, code *Code) {
	if code.Name == "" {
		code.Name = name
	}
	e.Meanings.Set(name, code, true)
}

// Lookup returns the meaning of a control sequence or active character,
// or nil if tok is undefined.
func (e *Engine) Lookup(tok token.Token) *Code {
	if !tok.Resolvable() {
		return nil
	}
	return e.Meanings.Get(tok.Key())
}

// SetMeaning changes the meaning of tok.  A nil code makes tok
// undefined.
func (e *Engine) SetMeaning(tok token.Token, code *Code, global bool) {
	e.Meanings.Set(tok.Key(), code, global)
}

// Pop returns the next token.  If expand is set, expandable codes are
// expanded until a non-expandable token is found.  At the end of input,
// io.EOF is returned.
func (e *Engine) Pop(expand bool) (token.Token, error) {
	for {
		tok, noExpand, err := e.In.Next()
		e.lastNoExpand = noExpand
		if err != nil || !expand || noExpand || !tok.Resolvable() {
			return tok, err
		}
		code := e.Lookup(tok)
		if code == nil || code.Kind != Expandable {
			return tok, nil
		}
		err = e.expand(tok, code)
		if err != nil {
			return tok, err
		}
	}
}

// Back puts tok back into the input.
func (e *Engine) Back(tok token.Token) {
	e.In.Back(tok)
}

// Push inserts tokens in front of the remaining input.
func (e *Engine) Push(tokens token.List) error {
	return e.In.Push(tokens)
}

func (e *Engine) expand(tok token.Token, code *Code) error {
	if e.expandDepth >= e.Config.MaxExpandDepth {
		return capacityExceeded("expansion depth", e.Config.MaxExpandDepth)
	}
	e.expandDepth++
	defer func() { e.expandDepth-- }()

	if code.Macro != nil {
		return e.callMacro(tok, code.Macro)
	}
	if code.Expand == nil {
		return nil
	}
	return code.Expand(e, tok)
}

// ExpandOnce expands tok a single level, as \expandafter does.  Tokens
// which are not expandable are put back unchanged.
func (e *Engine) ExpandOnce(tok token.Token) error {
	code := e.Lookup(tok)
	if code == nil || code.Kind != Expandable {
		e.Back(tok)
		return nil
	}
	return e.expand(tok, code)
}

// NextRaw returns the next unexpanded token, turning the end of input
// into an error.  The argument describes what is being read.
func (e *Engine) NextRaw(what string) (token.Token, error) {
	tok, err := e.Pop(false)
	if err == io.EOF {
		return tok, texerr.New(texerr.EndOfInputUnexpected,
			"File ended while scanning %s", what)
	}
	return tok, err
}

// NextExpanded returns the next expanded token, turning the end of
// input into an error.
func (e *Engine) NextExpanded(what string) (token.Token, error) {
	tok, err := e.Pop(true)
	if err == io.EOF {
		return tok, texerr.New(texerr.EndOfInputUnexpected,
			"File ended while scanning %s", what)
	}
	return tok, err
}

// NextNonBlank returns the next expanded token which is neither a space
// nor \relax.
func (e *Engine) NextNonBlank(what string) (token.Token, error) {
	for {
		tok, err := e.NextExpanded(what)
		if err != nil {
			return tok, err
		}
		if tok.Cat == token.Space {
			continue
		}
		if code := e.Lookup(tok); code != nil && code.Kind == Relax {
			continue
		}
		return tok, nil
	}
}

// PushFile starts reading input from the named file.
func (e *Engine) PushFile(name string) error {
	r, fileName, err := e.Config.Files.Open(name)
	if err != nil {
		return texerr.Wrap(texerr.ConfigurationFailure, err)
	}
	return e.PushSource(scanner.NewSource(fileName, r))
}

// PushSource starts reading input from src.
func (e *Engine) PushSource(src *scanner.Source) error {
	if !strings.HasPrefix(src.Name, "<") {
		e.print("(" + src.Name)
	}
	return e.In.PushSource(scanner.New(src, e.Ctx))
}

// Report sends an error to the reporter and continues.  If the reporter
// decides to stop, the main loop ends after the current command.  Errors
// found after that are dropped.
func (e *Engine) Report(err error) {
	if err == nil || e.halted != nil {
		return
	}
	var te *texerr.Error
	if !errors.As(err, &te) {
		te = texerr.Wrap(texerr.InputFailure, err)
	}
	te.Locate(e.frames())
	if e.Config.Reporter.Report(te, e.Ctx.Interaction()) || te.Kind.Fatal() {
		if e.halted == nil {
			e.halted = te
		}
	}
}

// Halted returns the error which stopped the job, or nil if the job is
// still running.
func (e *Engine) Halted() error {
	return e.halted
}

// warn passes a warning to the reporter, if it wants to see warnings.
func (e *Engine) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if w, ok := e.Config.Reporter.(Warner); ok {
		w.Warn(msg)
	} else {
		e.Log.Println(msg)
	}
}

func (e *Engine) frames() []texerr.Frame {
	frames := e.In.Frames()
	width := e.Config.ContextWidth
	if width <= 0 {
		return frames
	}
	for i := range frames {
		if ctx := []rune(frames[i].Context); len(ctx) > width {
			frames[i].Context = string(ctx[:width])
		}
	}
	return frames
}

func capacityExceeded(what string, size int) *texerr.Error {
	return texerr.New(texerr.StackExhausted,
		"TeX capacity exceeded, sorry [%s=%d]", what, size).
		WithHelp("If you really absolutely need more capacity,\n" +
			"you can ask a wizard to enlarge me.")
}

func undefined(tok token.Token) error {
	return texerr.New(texerr.UndefinedControlSequence,
		"Undefined control sequence %s", strings.TrimSuffix(tok.String(), " ")).
		WithHelp("The control sequence at the end of the top line\n" +
			"of your error message was never \\def'ed.")
}

// Pages returns the number of pages shipped out so far.
func (e *Engine) Pages() int {
	return e.pages
}
