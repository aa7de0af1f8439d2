// node_test.go -
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

import (
	"testing"

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/font"
)

func TestHPackNatural(t *testing.T) {
	list := List{
		&Rule{Width: dimen.Unity, Height: 5 * dimen.Unity, Depth: dimen.Unity},
		&Glue{Spec: dimen.Glue{Width: 2 * dimen.Unity, Stretch: dimen.Unity}},
		&Kern{Width: 3 * dimen.Unity},
		&Box{Width: 4 * dimen.Unity, Height: 2 * dimen.Unity, Depth: 3 * dimen.Unity},
	}
	box := HPack(list, Spec{})
	if box.Width != 10*dimen.Unity {
		t.Errorf("wrong width %s", box.Width)
	}
	if box.Height != 5*dimen.Unity || box.Depth != 3*dimen.Unity {
		t.Errorf("wrong height/depth %s/%s", box.Height, box.Depth)
	}
	if box.GlueSign != 0 {
		t.Errorf("natural box has glue set")
	}
}

func TestHPackTo(t *testing.T) {
	list := List{
		&Glue{Spec: dimen.Glue{Stretch: 3 * dimen.Unity}},
		&Glue{Spec: dimen.Glue{Stretch: dimen.Unity, StretchOrder: dimen.Fil}},
	}
	box := HPack(list, Spec{Exactly: true, Amount: 20 * dimen.Unity})
	if box.Width != 20*dimen.Unity {
		t.Errorf("wrong width %s", box.Width)
	}
	if box.GlueSign != 1 || box.GlueOrder != dimen.Fil || box.GlueSet != 20 {
		t.Errorf("wrong glue set %d %s %g", box.GlueSign, box.GlueOrder, box.GlueSet)
	}
}

func TestHPackOverfull(t *testing.T) {
	cases := []struct {
		list     List
		overfull dimen.Scaled
	}{
		{List{&Kern{Width: 5 * dimen.Unity}}, 4 * dimen.Unity},
		{List{&Glue{Spec: dimen.Glue{Width: 3 * dimen.Unity, Shrink: dimen.Unity}}}, dimen.Unity},
		{List{&Glue{Spec: dimen.Glue{Width: 3 * dimen.Unity, Shrink: 5 * dimen.Unity}}}, 0},
	}
	for i, c := range cases {
		box := HPack(c.list, Spec{Exactly: true, Amount: dimen.Unity})
		if box.Width != dimen.Unity {
			t.Errorf("%d: wrong width %s", i, box.Width)
		}
		if box.Overfull != c.overfull {
			t.Errorf("%d: overfull by %s, expected %s", i, box.Overfull, c.overfull)
		}
	}
}

func TestVPack(t *testing.T) {
	list := List{
		&Box{Width: 4 * dimen.Unity, Height: 2 * dimen.Unity, Depth: 3 * dimen.Unity},
		&Glue{Spec: dimen.Glue{Width: dimen.Unity}},
		&Box{Width: 6 * dimen.Unity, Height: 2 * dimen.Unity, Depth: 5 * dimen.Unity},
	}
	box := VPack(list, Spec{}, 2*dimen.Unity)
	// 2 + 3 + 1 + 2, plus 3 of excess depth
	if box.Height != 11*dimen.Unity || box.Depth != 2*dimen.Unity {
		t.Errorf("wrong height/depth %s/%s", box.Height, box.Depth)
	}
	if box.Width != 6*dimen.Unity {
		t.Errorf("wrong width %s", box.Width)
	}
}

func TestShow(t *testing.T) {
	f := &font.Font{Name: "cmr10"}
	box := &Box{
		Kind:   HBox,
		Width:  10 * dimen.Unity,
		Height: 7 * dimen.Unity,
		List: List{
			&Char{Font: f, Code: 'A'},
			&Glue{Spec: dimen.Glue{Width: 3 * dimen.Unity, Stretch: dimen.Unity, StretchOrder: dimen.Fil}},
			&Kern{Width: dimen.Unity, Explicit: true},
			&Penalty{Value: 100},
			&Rule{Width: Running, Height: dimen.Unity, Depth: Running},
		},
	}
	expected := "\\hbox(7.0+0.0)x10.0\n" +
		".\\cmr10 A\n" +
		".\\glue 3.0 plus 1.0fil\n" +
		".\\kern 1.0\n" +
		".\\penalty 100\n" +
		".\\rule(1.0+*)x*"
	if got := Show(box, 10, 10); got != expected {
		t.Errorf("wrong rendering:\n%s\nexpected:\n%s", got, expected)
	}

	expected = "\\hbox(7.0+0.0)x10.0\n" +
		".\\cmr10 A\n" +
		".etc."
	if got := Show(box, 10, 1); got != expected {
		t.Errorf("wrong rendering:\n%s\nexpected:\n%s", got, expected)
	}

	if got := Show(box, 0, 10); got != "\\hbox(7.0+0.0)x10.0 []" {
		t.Errorf("wrong rendering %q", got)
	}
}

func TestCopy(t *testing.T) {
	inner := &Box{Width: dimen.Unity}
	outer := &Box{List: List{inner}}
	c := outer.Copy()
	c.List[0].(*Box).Width = 0
	if inner.Width != dimen.Unity {
		t.Error("copy shares inner box")
	}
}
