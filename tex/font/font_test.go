// font_test.go -
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

package font

import (
	"testing"

	"github.com/seehuhn/gotex/tex/dimen"
)

func TestFixedLoader(t *testing.T) {
	f, err := FixedLoader{}.Load("cmr10", 0)
	if err != nil {
		t.Fatal(err)
	}
	if f.Size != DesignSize {
		t.Errorf("size %s, expected the design size", f.Size)
	}
	if s := f.String(); s != "cmr10" {
		t.Errorf("got %q", s)
	}

	f, err = FixedLoader{}.Load("cmr10", dimen.Pt(20))
	if err != nil {
		t.Fatal(err)
	}
	if s := f.String(); s != "cmr10 at 20.0pt" {
		t.Errorf("got %q", s)
	}
	wd, ht, dp, ok := f.Metrics.Char('g')
	if !ok || wd != dimen.Pt(10) || ht != dimen.Pt(14) || dp != dimen.Pt(4) {
		t.Errorf("wrong metrics %s %s %s", wd, ht, dp)
	}
	if q := f.Metrics.Param(ParamQuad); q != dimen.Pt(20) {
		t.Errorf("quad %s", q)
	}

	if _, err := (FixedLoader{}).Load("", 0); err != ErrNotFound {
		t.Errorf("empty name gave %v", err)
	}
}

func TestNull(t *testing.T) {
	if _, _, _, ok := Null.Metrics.Char('a'); ok {
		t.Error("the null font has characters")
	}
	var f *Font
	if f.String() != "nullfont" {
		t.Error("nil font is not shown as nullfont")
	}
}
