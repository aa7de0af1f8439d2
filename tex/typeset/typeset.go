// typeset.go -
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

// Package typeset keeps track of the lists of material under
// construction, one for every mode which is currently open.
package typeset

import (
	"strings"

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/texerr"
)

// Mode is a typesetting mode.
type Mode int

// The typesetting modes.
const (
	Vertical Mode = iota
	InternalVertical
	Horizontal
	RestrictedHorizontal
	DisplayMath
	InlineMath
)

var modeNames = []string{
	"vertical mode", "internal vertical mode", "horizontal mode",
	"restricted horizontal mode", "display math mode", "math mode",
}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "no mode"
}

// IsVertical reports whether m is one of the vertical modes.
func (m Mode) IsVertical() bool {
	return m == Vertical || m == InternalVertical
}

// IsHorizontal reports whether m is one of the horizontal modes.
func (m Mode) IsHorizontal() bool {
	return m == Horizontal || m == RestrictedHorizontal
}

// IsMath reports whether m is one of the math modes.
func (m Mode) IsMath() bool {
	return m == DisplayMath || m == InlineMath
}

// IsInner reports whether m is internal vertical, restricted horizontal
// or inline math mode.
func (m Mode) IsInner() bool {
	return m == InternalVertical || m == RestrictedHorizontal || m == InlineMath
}

// IgnoreDepth is the value of PrevDepth which suppresses interline glue.
const IgnoreDepth dimen.Scaled = -1000 * dimen.Unity

// ListMaker is the list under construction for one mode.
type ListMaker struct {
	Mode Mode
	List node.List

	// PrevDepth is the depth of the last box in a vertical list.
	PrevDepth dimen.Scaled

	// SpaceFactor is used in horizontal lists.
	SpaceFactor int64
}

// Output receives the material produced by a job.
type Output interface {
	// ShipOut receives a completed page.
	ShipOut(page *node.Box) error

	// Close receives whatever is left on the main vertical list at the
	// end of the job.
	Close(final node.List) error
}

// Typesetter holds the stack of open lists.  The bottom of the stack is
// always the main vertical list.
type Typesetter struct {
	stack []*ListMaker
}

// New returns a typesetter in vertical mode.
func New() *Typesetter {
	return &Typesetter{
		stack: []*ListMaker{{Mode: Vertical, PrevDepth: IgnoreDepth}},
	}
}

// Current returns the innermost list.
func (ts *Typesetter) Current() *ListMaker {
	return ts.stack[len(ts.stack)-1]
}

// Mode returns the current mode.
func (ts *Typesetter) Mode() Mode {
	return ts.Current().Mode
}

// Depth returns the number of open lists, not counting the main
// vertical list.
func (ts *Typesetter) Depth() int {
	return len(ts.stack) - 1
}

// Add appends nodes to the current list.
func (ts *Typesetter) Add(nodes ...node.Node) {
	lm := ts.Current()
	for _, n := range nodes {
		lm.List = append(lm.List, n)
		if box, ok := n.(*node.Box); ok && lm.Mode.IsVertical() {
			lm.PrevDepth = box.Depth
		} else if _, ok := n.(*node.Rule); ok && lm.Mode.IsVertical() {
			lm.PrevDepth = IgnoreDepth
		}
	}
}

// LastNode returns the last node of the current list, or nil if the list
// is empty.
func (ts *Typesetter) LastNode() node.Node {
	list := ts.Current().List
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

// RemoveLastNode removes and returns the last node of the current list.
func (ts *Typesetter) RemoveLastNode() node.Node {
	lm := ts.Current()
	if len(lm.List) == 0 {
		return nil
	}
	n := lm.List[len(lm.List)-1]
	lm.List = lm.List[:len(lm.List)-1]
	return n
}

// PushMode opens a new list in the given mode.
func (ts *Typesetter) PushMode(m Mode) *ListMaker {
	lm := &ListMaker{Mode: m, SpaceFactor: 1000}
	if m.IsVertical() {
		lm.PrevDepth = IgnoreDepth
	}
	ts.stack = append(ts.stack, lm)
	return lm
}

// PopMode closes the current list and returns its contents.  The main
// vertical list cannot be popped; use Finish instead.
func (ts *Typesetter) PopMode() (node.List, error) {
	if len(ts.stack) == 1 {
		return nil, texerr.New(texerr.ModeMismatch,
			"You can't close the main vertical list")
	}
	lm := ts.Current()
	ts.stack = ts.stack[:len(ts.stack)-1]
	return lm.List, nil
}

// Require checks that the current mode is one of the given modes.  The
// lists are not changed.
func (ts *Typesetter) Require(what string, modes ...Mode) error {
	cur := ts.Mode()
	for _, m := range modes {
		if m == cur {
			return nil
		}
	}
	var names []string
	for _, m := range modes {
		names = append(names, m.String())
	}
	return texerr.New(texerr.ModeMismatch, "You can't use `%s' in %s", what, cur).
		WithHelp("This command is allowed in " + strings.Join(names, ", ") + " only.")
}

// Finish returns the main vertical list and clears it.  Lists which are
// still open are discarded.
func (ts *Typesetter) Finish() node.List {
	main := ts.stack[0]
	list := main.List
	main.List = nil
	main.PrevDepth = IgnoreDepth
	ts.stack = ts.stack[:1]
	return list
}
