// scanner.go -
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

// Package scanner converts characters into tokens, using a category
// code table which can change while the input is read.
package scanner

import (
	"io"

	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

// Catcodes gives access to the live category code table.
type Catcodes interface {
	Catcode(r rune) token.Catcode

	// EndLineChar returns the character appended to every input line.
	// Values outside 0...255 mean that nothing is appended.
	EndLineChar() int64
}

type lineState int

const (
	newLine lineState = iota
	midLine
	skipBlanks
)

// ParName is the name of the control sequence produced by empty lines.
const ParName = "par"

// Scanner reads tokens from a single Source.
type Scanner struct {
	src  *Source
	cats Catcodes

	line     []rune
	pos      int
	haveLine bool
	state    lineState
	endInput bool
}

// New creates a scanner which reads from src.
func New(src *Source, cats Catcodes) *Scanner {
	return &Scanner{
		src:  src,
		cats: cats,
	}
}

// Source returns the character source of the scanner.
func (s *Scanner) Source() *Source {
	return s.src
}

// Next returns the next token.  At the end of input, io.EOF is returned.
func (s *Scanner) Next() (token.Token, error) {
	for {
		if !s.haveLine || s.pos > len(s.line) {
			err := s.nextLine()
			if err != nil {
				return token.Token{}, err
			}
		}
		tok, ok, err := s.scanLine()
		if ok || err != nil {
			return tok, err
		}
		s.haveLine = false
	}
}

// NextLine reads one line of input and returns its tokens.  This is used
// by \read.  At the end of input, io.EOF is returned.
func (s *Scanner) NextLine() (token.List, error) {
	err := s.nextLine()
	if err != nil {
		return nil, err
	}
	var res token.List
	for {
		tok, ok, err := s.scanLine()
		if err != nil {
			return res, err
		}
		if !ok {
			s.haveLine = false
			return res, nil
		}
		res = append(res, tok)
	}
}

// EndInput arranges for the scanner to stop at the end of the current
// line.
func (s *Scanner) EndInput() {
	s.endInput = true
}

// Close closes the underlying source.
func (s *Scanner) Close() error {
	return s.src.Close()
}

// Context returns a short excerpt of the input which has not been read
// yet, for use in error messages.
func (s *Scanner) Context() string {
	if !s.haveLine || s.pos >= len(s.line) {
		return ""
	}
	rest := s.line[s.pos:]
	if len(rest) > 20 {
		return string(rest[:17]) + "..."
	}
	return string(rest)
}

// Location describes the current position of the scanner.
func (s *Scanner) Location() texerr.Frame {
	return texerr.Frame{
		Name:    s.src.Name,
		Line:    s.src.Line,
		Context: s.Context(),
	}
}

func (s *Scanner) nextLine() error {
	if s.endInput {
		return io.EOF
	}
	line, err := s.src.ReadLine()
	if err != nil {
		return err
	}
	s.line = []rune(line)
	if c := s.cats.EndLineChar(); c >= 0 && c <= 255 {
		s.line = append(s.line, rune(c))
	}
	s.pos = 0
	s.haveLine = true
	s.state = newLine
	return nil
}

// scanLine returns the next token from the current line.  If the line is
// exhausted, ok is false.
func (s *Scanner) scanLine() (tok token.Token, ok bool, err error) {
	for s.pos < len(s.line) {
		if s.reduceCaret() {
			continue
		}
		c := s.line[s.pos]
		cat := s.cats.Catcode(c)
		s.pos++

		switch cat {
		case token.Escape:
			tok, err = s.controlSequence()
			return tok, err == nil, err
		case token.EndOfLine:
			s.pos = len(s.line)
			switch s.state {
			case newLine:
				return token.CS(ParName), true, nil
			case midLine:
				return token.Token{Cat: token.Space, Text: " "}, true, nil
			}
		case token.Space:
			if s.state == midLine {
				s.state = skipBlanks
				return token.Token{Cat: token.Space, Text: " "}, true, nil
			}
		case token.Ignored:
			// pass
		case token.Comment:
			s.pos = len(s.line)
		case token.Invalid:
			s.state = midLine
			return tok, false, texerr.New(texerr.UnexpectedToken,
				"Text line contains an invalid character").
				WithHelp("A funny symbol that I can't read has just been input.")
		default:
			s.state = midLine
			return token.Char(cat, c), true, nil
		}
	}
	s.pos = len(s.line) + 1
	return tok, false, nil
}

func (s *Scanner) controlSequence() (token.Token, error) {
	if s.pos >= len(s.line) {
		s.state = skipBlanks
		if s.src.AtEOF() {
			return token.Token{}, texerr.New(texerr.EndOfInputUnexpected,
				"File ended within a control sequence name")
		}
		return token.CS(""), nil
	}

	for s.reduceCaret() {
	}
	c := s.line[s.pos]
	cat := s.cats.Catcode(c)
	if cat != token.Letter {
		s.pos++
		if cat == token.Space {
			s.state = skipBlanks
		} else {
			s.state = midLine
		}
		return token.CS(string(c)), nil
	}

	start := s.pos
	for s.pos < len(s.line) {
		if s.reduceCaret() {
			continue
		}
		if s.cats.Catcode(s.line[s.pos]) != token.Letter {
			break
		}
		s.pos++
	}
	s.state = skipBlanks
	return token.CS(string(s.line[start:s.pos])), nil
}

// reduceCaret replaces a ^^ sequence at the current position by the
// character it denotes.  It returns true if the line was changed.
func (s *Scanner) reduceCaret() bool {
	pos := s.pos
	if pos+2 >= len(s.line) {
		return false
	}
	c := s.line[pos]
	if s.line[pos+1] != c || s.cats.Catcode(c) != token.Superscript {
		return false
	}

	c2 := s.line[pos+2]
	if c2 >= 128 {
		return false
	}
	if pos+3 < len(s.line) && isHex(c2) && isHex(s.line[pos+3]) {
		s.line[pos+3] = hexValue(c2)<<4 | hexValue(s.line[pos+3])
		s.line = append(s.line[:pos], s.line[pos+3:]...)
		return true
	}
	if c2 < 64 {
		c2 += 64
	} else {
		c2 -= 64
	}
	s.line[pos+2] = c2
	s.line = append(s.line[:pos], s.line[pos+2:]...)
	return true
}

func isHex(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f'
}

func hexValue(r rune) rune {
	if r <= '9' {
		return r - '0'
	}
	return r - 'a' + 10
}
