// context.go -
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

// Package state implements the scoped storage of a TeX job: the register
// families, the code tables and the group stack which undoes local
// assignments.
package state

import (
	"strconv"
	"unicode"

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/event"
	"github.com/seehuhn/gotex/tex/font"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

// Interaction is the error-handling policy of a job.
type Interaction int

// The interaction modes, from least to most interactive.
const (
	Batch Interaction = iota
	Nonstop
	Scroll
	ErrorStop
)

var interactionNames = []string{"batchmode", "nonstopmode", "scrollmode", "errorstopmode"}

func (m Interaction) String() string {
	if m >= 0 && int(m) < len(interactionNames) {
		return interactionNames[m]
	}
	return "interaction" + strconv.Itoa(int(m))
}

// ParseInteraction converts a mode name like "nonstopmode" or "nonstop"
// into an Interaction value.
func ParseInteraction(name string) (Interaction, bool) {
	for i, full := range interactionNames {
		if name == full || name+"mode" == full {
			return Interaction(i), true
		}
	}
	return 0, false
}

// Context holds all grouped state of a job.
type Context struct {
	Count  *Table[string, int64]
	Dimen  *Table[string, dimen.Scaled]
	Skip   *Table[string, dimen.Glue]
	MuSkip *Table[string, dimen.MuGlue]
	Toks   *Table[string, token.List]
	Box    *Table[string, *node.Box]
	Font   *Table[string, *font.Font]

	Catcodes  *Table[rune, token.Catcode]
	Mathcodes *Table[rune, int64]
	Sfcodes   *Table[rune, int64]
	Lccodes   *Table[rune, int64]
	Uccodes   *Table[rune, int64]

	// Groups receives an event whenever a group is opened or closed.
	Groups event.Bus[GroupEvent]

	groups      []*Group
	nTables     int
	interaction Interaction
}

// New returns a Context at group level 0.  Integer parameters start with
// the values IniTeX gives them, all other entries are zero.  Character
// tables default to the IniTeX assignments, extended to all Unicode
// letters.
func New() *Context {
	ctx := &Context{
		groups:      []*Group{{Type: BottomGroup}},
		interaction: ErrorStop,
	}
	ctx.Count = NewTable[string, int64](ctx, "count", nil)
	ctx.Dimen = NewTable[string, dimen.Scaled](ctx, "dimen", nil)
	ctx.Skip = NewTable[string, dimen.Glue](ctx, "skip", nil)
	ctx.MuSkip = NewTable[string, dimen.MuGlue](ctx, "muskip", nil)
	ctx.Toks = NewTable[string, token.List](ctx, "toks", nil)
	ctx.Box = NewTable[string, *node.Box](ctx, "box", nil)
	ctx.Font = NewTable(ctx, "font", func(string) *font.Font { return font.Null })

	ctx.Catcodes = NewTable(ctx, "catcode", initialCatcode)
	ctx.Mathcodes = NewTable(ctx, "mathcode", initialMathcode)
	ctx.Sfcodes = NewTable(ctx, "sfcode", initialSfcode)
	ctx.Lccodes = NewTable(ctx, "lccode", func(r rune) int64 {
		if unicode.IsLetter(r) {
			return int64(unicode.ToLower(r))
		}
		return 0
	})
	ctx.Uccodes = NewTable(ctx, "uccode", func(r rune) int64 {
		if unicode.IsLetter(r) {
			return int64(unicode.ToUpper(r))
		}
		return 0
	})

	for name, val := range initialIntegers {
		ctx.Count.Set(name, val, true)
	}
	return ctx
}

var initialIntegers = map[string]int64{
	"mag":           1000,
	"tolerance":     10000,
	"hangafter":     1,
	"maxdeadcycles": 25,
	"escapechar":    '\\',
	"endlinechar":   '\r',
}

func initialCatcode(r rune) token.Catcode {
	switch {
	case r == '\\':
		return token.Escape
	case r == '%':
		return token.Comment
	case r == ' ':
		return token.Space
	case r == '\r':
		return token.EndOfLine
	case r == 0:
		return token.Ignored
	case r == 0x7f:
		return token.Invalid
	case unicode.IsLetter(r):
		return token.Letter
	}
	return token.Other
}

func initialMathcode(r rune) int64 {
	switch {
	case r >= '0' && r <= '9':
		return 0x7000 + int64(r)
	case r < 0x8000 && unicode.IsLetter(r):
		return 0x7100 + int64(r)
	}
	return int64(r)
}

func initialSfcode(r rune) int64 {
	if unicode.IsUpper(r) {
		return 999
	}
	return 1000
}

// Catcode returns the current category code of r.
func (ctx *Context) Catcode(r rune) token.Catcode {
	return ctx.Catcodes.Get(r)
}

// EndLineChar returns the value of \endlinechar.
func (ctx *Context) EndLineChar() int64 {
	return ctx.Count.Get("endlinechar")
}

// Interaction returns the current interaction mode.
func (ctx *Context) Interaction() Interaction {
	return ctx.interaction
}

// SetInteraction changes the interaction mode.  The mode is not subject
// to grouping.
func (ctx *Context) SetInteraction(m Interaction) {
	ctx.interaction = m
}

// Level returns the number of open groups.
func (ctx *Context) Level() int {
	return len(ctx.groups) - 1
}

// Top returns the innermost open group.  At level 0 this is the bottom
// group.
func (ctx *Context) Top() *Group {
	return ctx.groups[len(ctx.groups)-1]
}

// OpenGroup starts a new group.  The payload is returned unchanged by
// the matching CloseGroup call.
func (ctx *Context) OpenGroup(tp GroupType, payload any) {
	ctx.groups = append(ctx.groups, &Group{Type: tp, Payload: payload})
	ctx.Groups.Publish(GroupEvent{Type: tp, Level: ctx.Level(), Open: true})
}

// CloseGroup ends the innermost group and undoes all local assignments
// made inside it.  If the innermost group is not of type tp, or if no
// group is open, a GroupMismatch error is returned and nothing is
// changed.
func (ctx *Context) CloseGroup(tp GroupType) (*Group, error) {
	g := ctx.Top()
	if g.Type == BottomGroup {
		return nil, texerr.New(texerr.GroupMismatch, "Too many }'s").
			WithHelp("You've closed more groups than you opened.")
	}
	if g.Type != tp {
		return nil, texerr.New(texerr.GroupMismatch,
			"Extra %s, or forgotten %s", tp.closer(), g.Type.closer())
	}

	level := ctx.Level()
	ctx.groups = ctx.groups[:len(ctx.groups)-1]
	g.restore()
	ctx.Groups.Publish(GroupEvent{Type: tp, Level: level, Open: false})
	return g, nil
}

// AfterGroup adds tokens to be inserted after the current group ends.
// At level 0 the tokens are discarded.
func (ctx *Context) AfterGroup(tokens ...token.Token) {
	g := ctx.Top()
	if g.Type == BottomGroup {
		return
	}
	g.AfterGroup = append(g.AfterGroup, tokens...)
}

// RegisterKey returns the table key for register n of the given family,
// for example "count12".
func RegisterKey(family string, n int64) string {
	return family + strconv.FormatInt(n, 10)
}
