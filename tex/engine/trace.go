// trace.go -
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
	"github.com/michaelmacinnis/adapted"

	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/token"
)

// installTracing connects the \tracing... parameters to the event buses.
func (e *Engine) installTracing() {
	e.MacroCalls.Subscribe(func(ev MacroCall) {
		if e.Ctx.Count.Get("tracingmacros") <= 0 || !e.traced(ev.Name) {
			return
		}
		e.Log.Println(e.csString(token.CS(ev.Name)) + e.macroText(ev.Macro))
		for i, arg := range ev.Args {
			e.Log.Printf("#%d<-%s", i+1, e.TokensString(arg))
		}
	})

	e.Commands.Subscribe(func(ev CommandEvent) {
		if e.Ctx.Count.Get("tracingcommands") <= 0 || !e.traced(ev.Token.Text) {
			return
		}
		e.Log.Printf("{%s: %s}", ev.Mode, e.commandName(ev.Token))
	})

	e.Ctx.Groups.Subscribe(func(ev state.GroupEvent) {
		if e.Ctx.Count.Get("tracinggroups") <= 0 {
			return
		}
		verb := "entering"
		if !ev.Open {
			verb = "leaving"
		}
		e.Log.Printf("{%s %s group (level %d)}", verb, ev.Type, ev.Level)
	})

	e.In.Closed.Subscribe(func(ev InputEvent) {
		if ev.Name != "" && ev.Name[0] != '<' {
			e.print(")")
		}
	})
}

// traced reports whether tracing output for the named control sequence
// is wanted.  An empty pattern selects everything.
func (e *Engine) traced(name string) bool {
	pattern := e.Config.TracePattern
	if pattern == "" {
		return true
	}
	ok, err := adapted.Match(pattern, name)
	return err == nil && ok
}
