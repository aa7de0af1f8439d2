// cond.go -
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

package engine

import (
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

// condLimit is the construct which may legally end the current part of
// a conditional.  The order matters: a \fi, \else or \or is allowed if
// its value is at most the current limit.
type condLimit int

const (
	limitNone condLimit = iota
	limitIf             // the condition is still being evaluated
	limitFi
	limitElse
	limitOr
)

type condFrame struct {
	limit condLimit
	name  string
	line  int
}

func (e *Engine) condLimit() condLimit {
	if len(e.conds) == 0 {
		return limitNone
	}
	return e.conds[len(e.conds)-1].limit
}

func (e *Engine) popCond() {
	e.conds = e.conds[:len(e.conds)-1]
}

// Conditional returns an \if... code which evaluates test.
func Conditional(test func(e *Engine) (bool, error)) *Code {
	code := &Code{
		Kind: Expandable,
		Cond: CondIf,
	}
	code.Expand = func(e *Engine, tok token.Token) error {
		if len(e.conds) >= e.Config.MaxExpandDepth {
			return capacityExceeded("open conditionals", e.Config.MaxExpandDepth)
		}
		frame := &condFrame{limit: limitIf, name: tok.Text, line: e.line()}
		e.conds = append(e.conds, frame)
		depth := len(e.conds)

		ok, testErr := test(e)
		if texerr.IsFatal(testErr) {
			return testErr
		} else if testErr != nil {
			e.Report(testErr)
			ok = false
		}
		if ok {
			frame.limit = limitElse
			return nil
		}

		for {
			role, err := e.passText()
			if err != nil {
				return err
			}
			if len(e.conds) == depth {
				if role != CondOr {
					if role == CondFi {
						e.popCond()
					} else {
						frame.limit = limitFi
					}
					return nil
				}
				e.Report(extraCond("or"))
			} else if role == CondFi {
				e.popCond()
			}
		}
	}
	return code
}

// IfCase returns the \ifcase code.
func IfCase() *Code {
	code := &Code{
		Kind: Expandable,
		Cond: CondIf,
	}
	code.Expand = func(e *Engine, tok token.Token) error {
		if len(e.conds) >= e.Config.MaxExpandDepth {
			return capacityExceeded("open conditionals", e.Config.MaxExpandDepth)
		}
		frame := &condFrame{limit: limitIf, name: tok.Text, line: e.line()}
		e.conds = append(e.conds, frame)
		depth := len(e.conds)

		n, err := e.ScanInt()
		if texerr.IsFatal(err) {
			return err
		} else if err != nil {
			e.Report(err)
			n = -1
		}
		for n != 0 {
			role, err := e.passText()
			if err != nil {
				return err
			}
			if len(e.conds) == depth {
				if role == CondOr {
					n--
					continue
				}
				if role == CondFi {
					e.popCond()
				} else {
					frame.limit = limitFi
				}
				return nil
			} else if role == CondFi {
				e.popCond()
			}
		}
		frame.limit = limitOr
		return nil
	}
	return code
}

// CondEnd returns the code for \fi, \else or \or.
func CondEnd(role CondRole) *Code {
	var own condLimit
	switch role {
	case CondFi:
		own = limitFi
	case CondElse:
		own = limitElse
	case CondOr:
		own = limitOr
	}
	return &Code{
		Kind: Expandable,
		Cond: role,
		Expand: func(e *Engine, tok token.Token) error {
			limit := e.condLimit()
			if own > limit {
				if limit == limitIf {
					// the condition is not finished yet
					e.Back(tok)
					e.Back(frozenRelax)
					return nil
				}
				return extraCond(tok.Text)
			}
			r := role
			for r != CondFi {
				var err error
				r, err = e.skipToFi()
				if err != nil {
					return err
				}
			}
			e.popCond()
			return nil
		},
	}
}

// skipToFi skips the rest of the current conditional.
func (e *Engine) skipToFi() (CondRole, error) {
	depth := len(e.conds)
	for {
		role, err := e.passText()
		if err != nil {
			return role, err
		}
		if len(e.conds) == depth {
			return role, nil
		}
		if role == CondFi {
			e.popCond()
		}
	}
}

// passText skips tokens up to the next \fi, \else or \or which is not
// part of a nested conditional in the skipped text.
func (e *Engine) passText() (CondRole, error) {
	level := 0
	for {
		tok, _, err := e.In.Next()
		if err != nil {
			name, line := "if", 0
			if len(e.conds) > 0 {
				top := e.conds[len(e.conds)-1]
				name, line = top.name, top.line
			}
			return NotCond, texerr.New(texerr.EndOfInputUnexpected,
				"Incomplete \\%s; all text was ignored after line %d", name, line).
				WithHelp("A forbidden control sequence occurred in skipped text.")
		}
		code := e.Lookup(tok)
		if code == nil || code.Cond == NotCond {
			continue
		}
		switch code.Cond {
		case CondIf:
			level++
		case CondFi:
			if level == 0 {
				return CondFi, nil
			}
			level--
		default:
			if level == 0 {
				return code.Cond, nil
			}
		}
	}
}

// line returns the current line number of the innermost file.
func (e *Engine) line() int {
	for i := len(e.In.layers) - 1; i >= 0; i-- {
		if s := e.In.layers[i].scanner; s != nil {
			return s.Source().Line
		}
	}
	return 0
}

func extraCond(name string) error {
	return texerr.New(texerr.UnexpectedToken, "Extra \\%s", name).
		WithHelp("I'm ignoring this; it doesn't match any \\if.")
}
