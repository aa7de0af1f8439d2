// dimen_test.go -
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

package dimen

import (
	"testing"

	"github.com/seehuhn/gotex/tex/texerr"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		in  Scaled
		out string
	}{
		{0, "0.0"},
		{Unity, "1.0"},
		{Unity / 2, "0.5"},
		{-3 * Unity / 2, "-1.5"},
		{Unity / 3, "0.33333"},
		{1, "0.00002"},
		{MaxDimen, "16383.99998"},
	}
	for i, testCase := range testCases {
		got := testCase.in.Format()
		if got != testCase.out {
			t.Errorf("%d: expected %q, got %q", i, testCase.out, got)
		}
	}
}

func TestRoundDecimals(t *testing.T) {
	testCases := []struct {
		digits []byte
		out    Scaled
	}{
		{nil, 0},
		{[]byte{5}, 32768},
		{[]byte{2, 5}, 16384},
		{[]byte{9, 9, 9, 9, 9, 9}, Unity},
	}
	for i, testCase := range testCases {
		got := RoundDecimals(testCase.digits)
		if got != testCase.out {
			t.Errorf("%d: expected %d, got %d", i, testCase.out, got)
		}
	}
}

func TestFromUnit(t *testing.T) {
	testCases := []struct {
		i    int64
		f    Scaled
		unit string
		out  Scaled
	}{
		{1, 0, "pt", Unity},
		{1, 0, "in", 4736286},
		{1, 0, "pc", 12 * Unity},
		{7, 0, "sp", 7},
		{2, Unity / 2, "pt", 5 * Unity / 2},
	}
	for i, testCase := range testCases {
		got, err := FromUnit(testCase.i, testCase.f, testCase.unit)
		if err != nil {
			t.Errorf("%d: unexpected error %s", i, err)
		} else if got != testCase.out {
			t.Errorf("%d: expected %d, got %d", i, testCase.out, got)
		}
	}

	_, err := FromUnit(20000, 0, "pt")
	if texerr.KindOf(err) != texerr.ArithmeticOverflow {
		t.Errorf("expected overflow, got %v", err)
	}
}

func TestGlueOrderDominance(t *testing.T) {
	finite := Glue{Width: Unity, Stretch: 2 * Unity, Shrink: Unity}
	fil := Glue{Stretch: 3 * Unity, StretchOrder: Fil}

	sum, err := finite.Add(fil)
	if err != nil {
		t.Fatal(err)
	}
	if sum.StretchOrder != Fil || sum.Stretch != 3*Unity {
		t.Errorf("wrong stretch %s", sum)
	}
	if sum.Width != Unity || sum.Shrink != Unity || sum.ShrinkOrder != Normal {
		t.Errorf("wrong width or shrink %s", sum)
	}

	// the same, with the operands swapped
	sum, err = fil.Add(finite)
	if err != nil {
		t.Fatal(err)
	}
	if sum.StretchOrder != Fil || sum.Stretch != 3*Unity {
		t.Errorf("wrong stretch %s", sum)
	}

	// components of equal order add up, and cancel to finite zero
	neg := fil.Negate()
	sum, err = fil.Add(neg)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Stretch != 0 || sum.StretchOrder != Normal {
		t.Errorf("wrong cancellation %s", sum)
	}
}

func TestGlueString(t *testing.T) {
	g := Glue{
		Width:        3 * Unity,
		Stretch:      Unity,
		StretchOrder: Fil,
		Shrink:       2 * Unity,
	}
	if s := g.String(); s != "3.0pt plus 1.0fil minus 2.0pt" {
		t.Errorf("wrong glue rendering %q", s)
	}
	if s := MuGlue(g).String(); s != "3.0mu plus 1.0fil minus 2.0mu" {
		t.Errorf("wrong muglue rendering %q", s)
	}
}

func TestIntArithmetic(t *testing.T) {
	if _, err := AddInt(MaxInt, 1); texerr.KindOf(err) != texerr.ArithmeticOverflow {
		t.Error("missing overflow in AddInt")
	}
	if _, err := MulInt(MaxInt/2+1, 2); texerr.KindOf(err) != texerr.ArithmeticOverflow {
		t.Error("missing overflow in MulInt")
	}
	if _, err := DivInt(7, 0); texerr.KindOf(err) != texerr.ArithmeticOverflow {
		t.Error("missing error for division by zero")
	}
	if q, _ := DivInt(-7, 2); q != -3 {
		t.Errorf("wrong quotient %d", q)
	}
}
