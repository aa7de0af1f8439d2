// token_test.go -
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

package token

import "testing"

func TestListString(t *testing.T) {
	cases := []struct {
		in  List
		out string
	}{
		{List{CS("relax")}, "\\relax "},
		{List{CS("%"), Char(Letter, 'a')}, "\\%a"},
		{List{CS("")}, "\\csname\\endcsname "},
		{List{Char(Parameter, '#'), Param(2)}, "###2"},
		{Chars("a b"), "a b"},
	}
	for _, c := range cases {
		if s := c.in.String(); s != c.out {
			t.Errorf("got %q, expected %q", s, c.out)
		}
	}
}

func TestEqual(t *testing.T) {
	a := List{CS("x"), Char(Letter, 'y')}
	b := a.Copy()
	if !a.Equal(b) {
		t.Error("copy differs from original")
	}
	b[1] = Char(Other, 'y')
	if a.Equal(b) {
		t.Error("tokens with different catcodes compare equal")
	}
	if a[1].Cat != Letter {
		t.Error("Copy shares storage with the original")
	}
}

func TestKey(t *testing.T) {
	if Char(Active, '~').Key() == CS("~").Key() {
		t.Error("active characters share names with control sequences")
	}
	if !Char(Active, '~').Resolvable() || Char(Letter, 'a').Resolvable() {
		t.Error("wrong Resolvable result")
	}
	if n := Param(7).ParamNumber(); n != 7 {
		t.Errorf("ParamNumber = %d", n)
	}
}
