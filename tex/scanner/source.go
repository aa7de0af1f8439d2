// source.go -
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
	"bufio"
	"io"
	"strings"
)

// Source is a line-oriented character source, for example a file or a
// terminal.  Lines are returned without their line terminator and with
// trailing spaces removed.
type Source struct {
	// Name is used to identify the source in error messages.
	Name string

	// Line is the number of the line most recently read.
	Line int

	r      *bufio.Reader
	next   func() (string, error)
	closer io.Closer
	err    error
}

// NewSource returns a source which reads from r.  If r is an io.Closer,
// it is closed when the source is closed.
func NewSource(name string, r io.Reader) *Source {
	src := &Source{
		Name: name,
		r:    bufio.NewReader(r),
	}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// NewStringSource returns a source which reads the given text.
func NewStringSource(name, text string) *Source {
	return NewSource(name, strings.NewReader(text))
}

// NewLineSource returns a source which obtains its lines by calling
// next, until next returns an error.  This is used for terminal input.
func NewLineSource(name string, next func() (string, error)) *Source {
	return &Source{
		Name: name,
		next: next,
	}
}

// ReadLine returns the next line of input.  At the end of input, io.EOF
// is returned.
func (src *Source) ReadLine() (string, error) {
	if src.err != nil {
		return "", src.err
	}

	var line string
	if src.next != nil {
		line, src.err = src.next()
		if src.err != nil {
			return "", src.err
		}
	} else {
		line, src.err = src.r.ReadString('\n')
		if src.err == io.EOF && line != "" {
			src.err = nil
		}
		if src.err != nil {
			return "", src.err
		}
	}
	src.Line++

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	line = strings.TrimRight(line, " ")
	return line, nil
}

// AtEOF reports whether the source is known to have no more lines.
func (src *Source) AtEOF() bool {
	if src.err != nil {
		return true
	}
	if src.r == nil {
		return false
	}
	_, err := src.r.Peek(1)
	return err != nil
}

// Close releases the resources held by the source.
func (src *Source) Close() error {
	if src.err == nil {
		src.err = io.EOF
	}
	if src.closer == nil {
		return nil
	}
	err := src.closer.Close()
	src.closer = nil
	return err
}
