// texerr.go -
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

// Package texerr defines the kinds of errors reported by the TeX engine.
package texerr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies an error.
type Kind int

// The error kinds.  StackExhausted and InputFailure are fatal: they end
// the current job.  All other kinds are reported and processing resumes
// with the next token.
const (
	UndefinedControlSequence Kind = iota + 1
	UnexpectedToken
	CantUseAfter
	EndOfInputUnexpected
	MissingExpectedKeyword
	GroupMismatch
	ModeMismatch
	ArithmeticOverflow
	ConfigurationFailure
	UserError
	StackExhausted
	InputFailure
)

var kindNames = map[Kind]string{
	UndefinedControlSequence: "undefined control sequence",
	UnexpectedToken:          "unexpected token",
	CantUseAfter:             "can't use",
	EndOfInputUnexpected:     "unexpected end of input",
	MissingExpectedKeyword:   "missing keyword",
	GroupMismatch:            "group mismatch",
	ModeMismatch:             "mode mismatch",
	ArithmeticOverflow:       "arithmetic overflow",
	ConfigurationFailure:     "configuration failure",
	UserError:                "user error",
	StackExhausted:           "capacity exceeded",
	InputFailure:             "input failure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "error kind " + strconv.Itoa(int(k))
}

// Fatal reports whether errors of this kind end the job.
func (k Kind) Fatal() bool {
	return k == StackExhausted || k == InputFailure
}

// Frame describes one level of the input stack at the time an error
// was found.
type Frame struct {
	Name    string
	Line    int
	Context string
}

// Error is an error found while processing TeX input.
type Error struct {
	Kind    Kind
	Message string
	Help    string

	stack []Frame
	cause error
}

// New returns an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap turns an error of an external collaborator into an *Error of the
// given kind.  If err already is an *Error, it is returned unchanged.
func Wrap(kind Kind, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{
		Kind:    kind,
		Message: err.Error(),
		cause:   err,
	}
}

// WithHelp attaches a help text to the error.
func (err *Error) WithHelp(help string) *Error {
	err.Help = help
	return err
}

// Locate records the input location at which the error was found.
// Frames are given innermost first.  An error which is already located
// keeps its original location.
func (err *Error) Locate(frames []Frame) *Error {
	if err.stack == nil {
		err.stack = frames
	}
	return err
}

// Stack returns the recorded input location, innermost first.
func (err *Error) Stack() []Frame {
	return err.stack
}

func (err *Error) Unwrap() error {
	return err.cause
}

func (err *Error) Error() string {
	res := []string{"! ", err.Message}
	for i, frame := range err.stack {
		if i > 0 {
			res = append(res, ", included from")
		}
		res = append(res, "\n    ", frame.Name)
		if frame.Line > 0 {
			res = append(res, ", line ", strconv.Itoa(frame.Line))
		}
		if frame.Context != "" {
			res = append(res, fmt.Sprintf(", before %q", frame.Context))
		}
	}
	return strings.Join(res, "")
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsFatal reports whether err should end the current job.  Errors which
// are not *Error values come from collaborators and are always fatal.
func IsFatal(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Fatal()
	}
	return err != nil
}
