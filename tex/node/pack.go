// pack.go -
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

package node

import "github.com/seehuhn/gotex/tex/dimen"

// Spec describes the size requested for a box: "to" a given size, or
// "spread" by a given amount.  The zero value requests the natural size.
type Spec struct {
	Exactly bool
	Amount  dimen.Scaled
}

type glueTotals struct {
	stretch [4]dimen.Scaled
	shrink  [4]dimen.Scaled
}

func (t *glueTotals) add(g dimen.Glue) {
	t.stretch[g.StretchOrder] += g.Stretch
	t.shrink[g.ShrinkOrder] += g.Shrink
}

// HPack packs a horizontal list into a box.
func HPack(list List, spec Spec) *Box {
	box := &Box{Kind: HBox, List: list}

	var w dimen.Scaled
	var totals glueTotals
	for _, n := range list {
		switch n := n.(type) {
		case *Box:
			w += n.Width
			box.Height = max(box.Height, n.Height-n.Shift)
			box.Depth = max(box.Depth, n.Depth+n.Shift)
		case *Rule:
			w += n.Width
			if n.Height != Running {
				box.Height = max(box.Height, n.Height)
			}
			if n.Depth != Running {
				box.Depth = max(box.Depth, n.Depth)
			}
		case *Glue:
			w += n.Spec.Width
			totals.add(n.Spec)
		default:
			wd, ht, dp := n.Size()
			w += wd
			box.Height = max(box.Height, ht)
			box.Depth = max(box.Depth, dp)
		}
	}

	box.Width = target(w, spec)
	box.setGlue(box.Width-w, &totals)
	return box
}

// VPack packs a vertical list into a box.  The depth of the box is
// limited to maxDepth; any excess is moved into the height.
func VPack(list List, spec Spec, maxDepth dimen.Scaled) *Box {
	box := &Box{Kind: VBox, List: list}

	var h, d dimen.Scaled
	var totals glueTotals
	for _, n := range list {
		switch n := n.(type) {
		case *Box:
			h += d + n.Height
			d = n.Depth
			box.Width = max(box.Width, n.Width+n.Shift)
		case *Rule:
			h += d + n.Height
			d = n.Depth
			if n.Width != Running {
				box.Width = max(box.Width, n.Width)
			}
		case *Glue:
			h += d + n.Spec.Width
			d = 0
			totals.add(n.Spec)
		case *Kern:
			h += d + n.Width
			d = 0
		}
	}
	if d > maxDepth {
		h += d - maxDepth
		d = maxDepth
	}
	box.Depth = d

	box.Height = target(h, spec)
	box.setGlue(box.Height-h, &totals)
	return box
}

func target(natural dimen.Scaled, spec Spec) dimen.Scaled {
	if spec.Exactly {
		return spec.Amount
	}
	return natural + spec.Amount
}

func (box *Box) setGlue(x dimen.Scaled, totals *glueTotals) {
	var amounts *[4]dimen.Scaled
	switch {
	case x > 0:
		amounts = &totals.stretch
		box.GlueSign = 1
	case x < 0:
		amounts = &totals.shrink
		box.GlueSign = -1
	default:
		return
	}

	order := dimen.Filll
	for order > dimen.Normal && amounts[order] == 0 {
		order--
	}
	box.GlueOrder = order
	if amounts[order] == 0 {
		box.GlueSign = 0
		if x < 0 {
			box.Overfull = -x
		}
		return
	}
	box.GlueSet = float64(x) / float64(amounts[order])
	if box.GlueSet < 0 {
		box.GlueSet = -box.GlueSet
	}
	if box.GlueSign < 0 && order == dimen.Normal && box.GlueSet > 1 {
		// finite shrinkability cannot be exceeded
		box.Overfull = -x - amounts[order]
		box.GlueSet = 1
	}
}
