// scanner_test.go -
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

package scanner

import (
	"io"
	"testing"

	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

type testCatcodes map[rune]token.Catcode

func (tc testCatcodes) Catcode(r rune) token.Catcode {
	if cat, ok := tc[r]; ok {
		return cat
	}
	if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
		return token.Letter
	}
	return token.Other
}

func (tc testCatcodes) EndLineChar() int64 {
	return '\r'
}

func plainCatcodes() testCatcodes {
	return testCatcodes{
		'\\': token.Escape,
		'{':  token.BeginGroup,
		'}':  token.EndGroup,
		'$':  token.MathShift,
		'#':  token.Parameter,
		'^':  token.Superscript,
		'%':  token.Comment,
		' ':  token.Space,
		'\r': token.EndOfLine,
		'~':  token.Active,
		0x7f: token.Invalid,
	}
}

func scanAll(t *testing.T, s *Scanner) token.List {
	t.Helper()
	var res token.List
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return res
		} else if err != nil {
			t.Fatal(err)
		}
		res = append(res, tok)
	}
}

var (
	space = token.Token{Cat: token.Space, Text: " "}
	par   = token.CS("par")
)

func letters(s string) token.List {
	var res token.List
	for _, r := range s {
		res = append(res, token.Char(token.Letter, r))
	}
	return res
}

func join(parts ...interface{}) token.List {
	var res token.List
	for _, part := range parts {
		switch part := part.(type) {
		case token.Token:
			res = append(res, part)
		case token.List:
			res = append(res, part...)
		}
	}
	return res
}

func TestScanner(t *testing.T) {
	testCases := []struct {
		in  string
		out token.List
	}{
		{"\\foo  bar", join(token.CS("foo"), letters("bar"), space)},
		{"  ab  c  ", join(letters("ab"), space, letters("c"), space)},
		{"\\,x", join(token.CS(","), letters("x"), space)},
		{"\\ x", join(token.CS(" "), letters("x"), space)},
		{"a%comment\nb", join(letters("a"), letters("b"), space)},
		{"a\n\nb", join(letters("a"), space, par, letters("b"), space)},
		{"{$#~}", token.List{
			token.Char(token.BeginGroup, '{'),
			token.Char(token.MathShift, '$'),
			token.Char(token.Parameter, '#'),
			token.Char(token.Active, '~'),
			token.Char(token.EndGroup, '}'),
			space,
		}},
		{"^^41^^5cx", join(letters("A"), token.CS("x"))},
		{"\\a^^62c d", join(token.CS("abc"), letters("d"), space)},
	}
	for i, testCase := range testCases {
		s := New(NewStringSource("test", testCase.in), plainCatcodes())
		got := scanAll(t, s)
		if !got.Equal(testCase.out) {
			t.Errorf("%d: expected %q, got %q", i, testCase.out, got)
		}
	}
}

func TestScannerCatcodeChange(t *testing.T) {
	cats := plainCatcodes()
	s := New(NewStringSource("test", "\\a@b\\a@b"), cats)

	tok, err := s.Next()
	if err != nil || tok != token.CS("a") {
		t.Fatalf("wrong token %q (%v)", tok, err)
	}
	cats['@'] = token.Letter
	// "@b" was not read yet, so the new catcode applies
	rest := scanAll(t, s)
	expected := join(letters("@b"), token.CS("a@b"))
	if !rest.Equal(expected) {
		t.Errorf("expected %q, got %q", expected, rest)
	}
}

func TestScannerInvalid(t *testing.T) {
	s := New(NewStringSource("test", "a\x7fb"), plainCatcodes())
	_, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Next()
	if texerr.KindOf(err) != texerr.UnexpectedToken {
		t.Fatalf("expected invalid character error, got %v", err)
	}
	tok, err := s.Next()
	if err != nil || tok != token.Char(token.Letter, 'b') {
		t.Errorf("scanning did not resume: %q %v", tok, err)
	}
}

type noEndLine struct{ testCatcodes }

func (noEndLine) EndLineChar() int64 { return -1 }

func TestScannerUnterminatedControlSequence(t *testing.T) {
	s := New(NewStringSource("test", "a\\"), noEndLine{plainCatcodes()})
	_, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Next()
	if texerr.KindOf(err) != texerr.EndOfInputUnexpected {
		t.Errorf("expected end of file error, got %v", err)
	}
}

func TestNextLine(t *testing.T) {
	s := New(NewStringSource("test", "a b\n\nc"), plainCatcodes())
	expected := []token.List{
		join(letters("a"), space, letters("b"), space),
		{par},
		join(letters("c"), space),
	}
	for i, exp := range expected {
		got, err := s.NextLine()
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(exp) {
			t.Errorf("%d: expected %q, got %q", i, exp, got)
		}
	}
	_, err := s.NextLine()
	if err != io.EOF {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestLocation(t *testing.T) {
	s := New(NewStringSource("story.tex", "one\ntwo three four five six seven"), plainCatcodes())
	for i := 0; i < 5; i++ {
		_, err := s.Next()
		if err != nil {
			t.Fatal(err)
		}
	}
	loc := s.Location()
	if loc.Name != "story.tex" || loc.Line != 2 {
		t.Errorf("wrong location %v", loc)
	}
	if loc.Context != "wo three four fiv..." {
		t.Errorf("wrong context %q", loc.Context)
	}
}
