// node.go -
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

// Package node defines the items of typeset material.
package node

import (
	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/font"
	"github.com/seehuhn/gotex/tex/token"
)

// Running marks a rule dimension which adapts to the enclosing box.
const Running dimen.Scaled = -1 << 30

// Node is an element of a horizontal or vertical list.
type Node interface {
	// Size returns width, height and depth of the node.  Nodes which
	// take no space return zeros.
	Size() (wd, ht, dp dimen.Scaled)
}

// List is an ordered sequence of nodes.
type List []Node

// Char is a typeset character.
type Char struct {
	Font   *font.Font
	Code   rune
	Width  dimen.Scaled
	Height dimen.Scaled
	Depth  dimen.Scaled
}

// Size implements the Node interface.
func (n *Char) Size() (wd, ht, dp dimen.Scaled) {
	return n.Width, n.Height, n.Depth
}

// Rule is a filled rectangle.
type Rule struct {
	Width  dimen.Scaled
	Height dimen.Scaled
	Depth  dimen.Scaled
}

// Size implements the Node interface.
func (n *Rule) Size() (wd, ht, dp dimen.Scaled) {
	return n.Width, n.Height, n.Depth
}

// Glue is stretchable space.
type Glue struct {
	Spec dimen.Glue

	// Param names the glue parameter the glue came from, if any.
	Param string
}

// Size implements the Node interface.
func (n *Glue) Size() (wd, ht, dp dimen.Scaled) {
	return n.Spec.Width, 0, 0
}

// Kern is fixed space.
type Kern struct {
	Width    dimen.Scaled
	Explicit bool
}

// Size implements the Node interface.
func (n *Kern) Size() (wd, ht, dp dimen.Scaled) {
	return n.Width, 0, 0
}

// Penalty is a breakpoint with an associated cost.
type Penalty struct {
	Value int64
}

// Size implements the Node interface.
func (n *Penalty) Size() (wd, ht, dp dimen.Scaled) {
	return 0, 0, 0
}

// Mark carries a token list to the output routine.
type Mark struct {
	Tokens token.List
}

// Size implements the Node interface.
func (n *Mark) Size() (wd, ht, dp dimen.Scaled) {
	return 0, 0, 0
}

// WhatsitKind enumerates the extension nodes.
type WhatsitKind int

// The kinds of whatsit nodes.
const (
	WhatsitWrite WhatsitKind = iota
	WhatsitOpen
	WhatsitClose
	WhatsitSpecial
)

// Whatsit is an extension node.  File operations are deferred to the
// time the enclosing box is shipped out.
type Whatsit struct {
	Kind   WhatsitKind
	Stream int64
	Name   string
	Tokens token.List
}

// Size implements the Node interface.
func (n *Whatsit) Size() (wd, ht, dp dimen.Scaled) {
	return 0, 0, 0
}

// BoxKind distinguishes horizontal and vertical boxes.
type BoxKind int

// The kinds of boxes.
const (
	HBox BoxKind = iota
	VBox
)

// Box is a horizontal or vertical box.
type Box struct {
	Kind   BoxKind
	Width  dimen.Scaled
	Height dimen.Scaled
	Depth  dimen.Scaled
	Shift  dimen.Scaled

	List List

	// GlueSet is the ratio by which the glue in the list is stretched
	// (GlueSign > 0) or shrunk (GlueSign < 0).
	GlueSet   float64
	GlueSign  int
	GlueOrder dimen.Order

	// Overfull is the amount by which the contents exceed the box
	// after all shrinkability is used up.
	Overfull dimen.Scaled
}

// Size implements the Node interface.
func (n *Box) Size() (wd, ht, dp dimen.Scaled) {
	return n.Width, n.Height, n.Depth
}

// Copy returns a deep copy of the box.
func (n *Box) Copy() *Box {
	if n == nil {
		return nil
	}
	res := *n
	res.List = n.List.Copy()
	return &res
}

// Copy returns a deep copy of the list.  Boxes are copied recursively,
// all other nodes are immutable once built and are shared.
func (l List) Copy() List {
	if l == nil {
		return nil
	}
	res := make(List, len(l))
	for i, n := range l {
		if box, ok := n.(*Box); ok {
			res[i] = box.Copy()
		} else {
			res[i] = n
		}
	}
	return res
}
