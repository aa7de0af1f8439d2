// texerr_test.go -
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

package texerr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(UndefinedControlSequence, "Undefined control sequence %s", "\\x")
	err.Locate([]Frame{
		{Name: "macro \\y", Context: "\\x z"},
		{Name: "test.tex", Line: 3},
	})
	expected := "! Undefined control sequence \\x\n    macro \\y, before \"\\\\x z\"" +
		", included from\n    test.tex, line 3"
	if s := err.Error(); s != expected {
		t.Errorf("got %q, expected %q", s, expected)
	}

	err.Locate([]Frame{{Name: "other"}})
	if len(err.Stack()) != 2 {
		t.Error("location was overwritten")
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(InputFailure, io.ErrUnexpectedEOF)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause is lost")
	}
	if KindOf(err) != InputFailure || !IsFatal(err) {
		t.Error("wrong kind")
	}

	inner := New(ModeMismatch, "bad")
	wrapped := fmt.Errorf("context: %w", inner)
	if Wrap(ConfigurationFailure, wrapped) != inner {
		t.Error("Wrap did not return the existing *Error")
	}
	if IsFatal(inner) {
		t.Error("mode mismatch is fatal")
	}
	if !IsFatal(io.EOF) {
		t.Error("foreign errors are not fatal")
	}
}
