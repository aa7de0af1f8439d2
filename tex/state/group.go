// group.go -
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

package state

import "github.com/seehuhn/gotex/tex/token"

// GroupType says which construct opened a group.  A group must be closed
// by a construct of the same type.
type GroupType int

// The group types.
const (
	BottomGroup GroupType = iota
	SimpleGroup
	SemiSimpleGroup
	HBoxGroup
	VBoxGroup
	MathGroup
	AlignGroup
	NoAlignGroup
	OutputGroup
)

var groupNames = []string{
	"bottom level", "simple", "semi simple", "hbox", "vbox",
	"math shift", "align", "no align", "output",
}

func (tp GroupType) String() string {
	if tp >= 0 && int(tp) < len(groupNames) {
		return groupNames[tp]
	}
	return "unknown"
}

func (tp GroupType) closer() string {
	switch tp {
	case SemiSimpleGroup:
		return "\\endgroup"
	case MathGroup:
		return "$"
	case AlignGroup:
		return "\\cr"
	}
	return "}"
}

// GroupEvent reports the opening or closing of a group.  Level is the
// level inside the group.
type GroupEvent struct {
	Type  GroupType
	Level int
	Open  bool
}

// Group is an open group.
type Group struct {
	Type GroupType

	// Payload is attached by the code which opened the group, for
	// example the box specification of an \hbox group.
	Payload any

	// AfterGroup holds the tokens registered by \aftergroup.
	AfterGroup token.List

	saved map[slot]func()
	order []slot
}

// slot identifies an entry of one table.
type slot struct {
	table int
	key   any
}

func (g *Group) captured(s slot) bool {
	_, ok := g.saved[s]
	return ok
}

func (g *Group) capture(s slot, undo func()) {
	if g.saved == nil {
		g.saved = make(map[slot]func())
	}
	g.saved[s] = undo
	g.order = append(g.order, s)
}

func (g *Group) forget(s slot) {
	delete(g.saved, s)
}

// restore undoes all captured assignments, latest first.
func (g *Group) restore() {
	for i := len(g.order) - 1; i >= 0; i-- {
		s := g.order[i]
		if undo, ok := g.saved[s]; ok {
			delete(g.saved, s)
			undo()
		}
	}
	g.order = nil
}
