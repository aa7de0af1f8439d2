// scan.go -
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
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/font"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

// MaxRegister is the largest register number.
const MaxRegister = 32767

// ScanKeyword tries to read the given keyword, ignoring case.  Leading
// spaces are skipped.  If the keyword is not found, all tokens read are
// put back.
func (e *Engine) ScanKeyword(kw string) (bool, error) {
	var matched token.List
	want := []rune(kw)
	for len(matched) < len(want) {
		tok, err := e.Pop(true)
		if err == io.EOF {
			break
		} else if err != nil {
			return false, err
		}
		if !tok.Resolvable() && utf8.RuneCountInString(tok.Text) == 1 {
			r, w := tok.Rune(), want[len(matched)]
			if r == w || r == unicode.ToUpper(w) {
				matched = append(matched, tok)
				continue
			}
		}
		if tok.Cat == token.Space && len(matched) == 0 {
			continue
		}
		return false, e.Push(append(matched, tok))
	}
	if len(matched) < len(want) {
		return false, e.Push(matched)
	}
	return true, nil
}

// ScanOptionalEquals skips spaces and an optional "=".
func (e *Engine) ScanOptionalEquals() error {
	for {
		tok, err := e.Pop(true)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if tok.Cat == token.Space {
			continue
		}
		if tok.Cat != token.Other || tok.Text != "=" {
			e.Back(tok)
		}
		return nil
	}
}

// ScanOptionalSpace skips one space token, if present.
func (e *Engine) ScanOptionalSpace() error {
	tok, err := e.Pop(true)
	if err == io.EOF {
		return nil
	} else if err != nil {
		return err
	}
	if tok.Cat != token.Space {
		e.Back(tok)
	}
	return nil
}

func (e *Engine) scanSigns() (negative bool, tok token.Token, err error) {
	for {
		tok, err = e.NextExpanded("number")
		if err != nil {
			return false, tok, err
		}
		switch {
		case tok.Cat == token.Space:
		case tok.Cat == token.Other && tok.Text == "-":
			negative = !negative
		case tok.Cat == token.Other && tok.Text == "+":
		default:
			return negative, tok, nil
		}
	}
}

// internalCode returns the code of tok if it yields an internal
// quantity.
func (e *Engine) internalCode(tok token.Token) *Code {
	if e.lastNoExpand || !tok.Resolvable() {
		return nil
	}
	code := e.Lookup(tok)
	if code == nil || code.Value == nil {
		return nil
	}
	return code
}

func missingNumber() error {
	return texerr.New(texerr.UnexpectedToken,
		"Missing number, treated as zero").
		WithHelp("A number should have been here; I inserted `0'.")
}

// ScanInt reads an integer.
func (e *Engine) ScanInt() (int64, error) {
	neg, tok, err := e.scanSigns()
	if err != nil {
		return 0, err
	}
	val, err := e.unsignedInt(tok)
	if neg {
		val = -val
	}
	return val, err
}

func (e *Engine) unsignedInt(tok token.Token) (int64, error) {
	if code := e.internalCode(tok); code != nil {
		v, err := code.Value(e)
		if err != nil {
			return 0, err
		}
		switch v.Kind {
		case IntValue:
			return v.Int, nil
		case DimenValue:
			return int64(v.Dimen), nil
		case GlueValue, MuGlueValue:
			return int64(v.Glue.Width), nil
		}
		e.Report(missingNumber())
		return 0, nil
	}

	if tok.Cat == token.Other && tok.Text == "`" {
		c, err := e.NextRaw("alphabetic constant")
		if err != nil {
			return 0, err
		}
		if c.IsCS() && utf8.RuneCountInString(c.Text) != 1 {
			e.Back(c)
			e.Report(texerr.New(texerr.UnexpectedToken, "Improper alphabetic constant").
				WithHelp("A one-character control sequence belongs after a ` mark."))
			return '0', nil
		}
		return int64(c.Rune()), e.ScanOptionalSpace()
	}

	radix := int64(10)
	if tok.Cat == token.Other {
		switch tok.Text {
		case "'":
			radix = 8
		case "\"":
			radix = 16
		}
	}
	if radix != 10 {
		var err error
		tok, err = e.NextExpanded("number")
		if err != nil {
			return 0, err
		}
	}

	var val int64
	found := false
	overflow := false
	for {
		d := digitValue(tok, radix)
		if d < 0 {
			break
		}
		found = true
		if val > (dimen.MaxInt-d)/radix {
			overflow = true
		} else {
			val = val*radix + d
		}
		var err error
		tok, err = e.Pop(true)
		if err == io.EOF {
			tok = token.Token{}
			break
		} else if err != nil {
			return 0, err
		}
	}
	if !found {
		e.Back(tok)
		e.Report(missingNumber())
		return 0, nil
	}
	if tok.Cat != token.Space && tok.Text != "" {
		e.Back(tok)
	}
	if overflow {
		e.Report(texerr.New(texerr.ArithmeticOverflow, "Number too big").
			WithHelp("I can only go up to 9223372036854775807, so I'm using that\n" +
				"number instead of yours."))
		return dimen.MaxInt, nil
	}
	return val, nil
}

func digitValue(tok token.Token, radix int64) int64 {
	if tok.Resolvable() || len(tok.Text) != 1 {
		return -1
	}
	c := tok.Text[0]
	var d int64
	switch {
	case c >= '0' && c <= '9' && tok.Cat == token.Other:
		d = int64(c - '0')
	case c >= 'A' && c <= 'F' && radix == 16 &&
		(tok.Cat == token.Other || tok.Cat == token.Letter):
		d = int64(c-'A') + 10
	default:
		return -1
	}
	if d >= radix {
		return -1
	}
	return d
}

// ScanDimen reads a dimension.
func (e *Engine) ScanDimen() (dimen.Scaled, error) {
	neg, tok, err := e.scanSigns()
	if err != nil {
		return 0, err
	}
	val, _, err := e.dimenAfterSigns(neg, tok, false, false)
	return val, err
}

func (e *Engine) dimenAfterSigns(neg bool, tok token.Token, mu, inf bool) (dimen.Scaled, dimen.Order, error) {
	var val dimen.Scaled
	order := dimen.Normal
	var i int64
	var f dimen.Scaled
	var err error

	if code := e.internalCode(tok); code != nil {
		v, err := code.Value(e)
		if err != nil {
			return 0, order, err
		}
		switch {
		case v.Kind == DimenValue && !mu:
			val = v.Dimen
		case v.Kind == GlueValue && !mu, v.Kind == MuGlueValue && mu:
			val = v.Glue.Width
		case v.Kind == IntValue:
			i = v.Int
			if i < 0 {
				i, neg = -i, !neg
			}
			val, order, err = e.dimenUnits(i, 0, mu, inf)
		default:
			e.Report(texerr.New(texerr.UnexpectedToken, "Incompatible glue units").
				WithHelp("I'm going to assume that 1mu=1pt when they're mixed."))
			val = v.Dimen + v.Glue.Width
		}
		if neg {
			val = -val
		}
		return val, order, err
	}

	if tok.Cat == token.Other && (tok.Text == "." || tok.Text == "," ||
		tok.Text[0] >= '0' && tok.Text[0] <= '9') {
		if tok.Text != "." && tok.Text != "," {
			for {
				d := digitValue(tok, 10)
				if d < 0 {
					break
				}
				if i < int64(dimen.MaxDimen) {
					i = i*10 + d
				}
				tok, err = e.Pop(true)
				if err == io.EOF {
					tok = token.Token{}
					break
				} else if err != nil {
					return 0, order, err
				}
			}
		}
		if tok.Cat == token.Other && (tok.Text == "." || tok.Text == ",") {
			var digits []byte
			for {
				tok, err = e.Pop(true)
				if err == io.EOF {
					tok = token.Token{}
					break
				} else if err != nil {
					return 0, order, err
				}
				d := digitValue(tok, 10)
				if d < 0 {
					break
				}
				digits = append(digits, byte(d))
			}
			f = dimen.RoundDecimals(digits)
		}
		if tok.Cat != token.Space && tok.Text != "" {
			e.Back(tok)
		}
	} else {
		i, err = e.unsignedInt(tok)
		if err != nil {
			return 0, order, err
		}
		if i < 0 {
			i, neg = -i, !neg
		}
	}

	val, order, err = e.dimenUnits(i, f, mu, inf)
	if neg {
		val = -val
	}
	return val, order, err
}

// dimenUnits reads the unit of a dimension with integer part i and
// fractional part f.
func (e *Engine) dimenUnits(i int64, f dimen.Scaled, mu, inf bool) (dimen.Scaled, dimen.Order, error) {
	if inf {
		ok, err := e.ScanKeyword("fil")
		if err != nil {
			return 0, 0, err
		}
		if ok {
			order := dimen.Fil
			for {
				ok, err = e.ScanKeyword("l")
				if err != nil {
					return 0, 0, err
				}
				if !ok {
					break
				}
				if order == dimen.Filll {
					e.Report(texerr.New(texerr.MissingExpectedKeyword,
						"Illegal unit of measure (replaced by filll)").
						WithHelp("I dddon't go any higher than filll."))
					continue
				}
				order++
			}
			val, err := e.checked(dimen.FromUnit(i, f, "pt"))
			if err != nil {
				return 0, 0, err
			}
			return val, order, e.ScanOptionalSpace()
		}
	}

	// internal quantities as units
	tok, err := e.Pop(true)
	for err == nil && tok.Cat == token.Space {
		tok, err = e.Pop(true)
	}
	if err != nil && err != io.EOF {
		return 0, 0, err
	}
	if err == nil {
		if code := e.internalCode(tok); code != nil {
			v, err := code.Value(e)
			if err != nil {
				return 0, 0, err
			}
			var unit dimen.Scaled
			switch v.Kind {
			case IntValue:
				unit = dimen.Scaled(v.Int)
			case DimenValue:
				unit = v.Dimen
			default:
				unit = v.Glue.Width
			}
			val, err := e.checked(dimen.FromFontUnit(i, f, unit))
			return val, dimen.Normal, err
		}
		e.Back(tok)
	}

	if mu {
		ok, err := e.ScanKeyword("mu")
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			e.Report(texerr.New(texerr.MissingExpectedKeyword,
				"Illegal unit of measure (mu inserted)").
				WithHelp("The unit of measurement in math glue must be mu."))
		}
		val, err := e.checked(dimen.FromUnit(i, f, "pt"))
		if err != nil {
			return 0, 0, err
		}
		return val, dimen.Normal, e.ScanOptionalSpace()
	}

	for _, kw := range []struct {
		name  string
		param int
	}{{"em", font.ParamQuad}, {"ex", font.ParamXHeight}} {
		ok, err := e.ScanKeyword(kw.name)
		if err != nil {
			return 0, 0, err
		}
		if ok {
			v := e.CurrentFont().Metrics.Param(kw.param)
			val, err := e.checked(dimen.FromFontUnit(i, f, v))
			if err != nil {
				return 0, 0, err
			}
			return val, dimen.Normal, e.ScanOptionalSpace()
		}
	}

	isTrue, err := e.ScanKeyword("true")
	if err != nil {
		return 0, 0, err
	}
	if mag := e.Ctx.Count.Get("mag"); isTrue && mag != 1000 && mag > 0 {
		q, rem := i*1000/mag, i*1000%mag
		ff := (1000*int64(f) + int64(dimen.Unity)*rem) / mag
		i = q + ff/int64(dimen.Unity)
		f = dimen.Scaled(ff % int64(dimen.Unity))
	}

	for _, unit := range dimen.UnitNames {
		ok, err := e.ScanKeyword(unit)
		if err != nil {
			return 0, 0, err
		}
		if ok {
			val, err := e.checked(dimen.FromUnit(i, f, unit))
			if err != nil {
				return 0, 0, err
			}
			return val, dimen.Normal, e.ScanOptionalSpace()
		}
	}
	e.Report(texerr.New(texerr.MissingExpectedKeyword,
		"Illegal unit of measure (pt inserted)").
		WithHelp("Dimensions can be in units of em, ex, in, pt, pc,\n" +
			"cm, mm, dd, cc, bp, or sp; but yours is a new one!"))
	val, err := e.checked(dimen.FromUnit(i, f, "pt"))
	return val, dimen.Normal, err
}

// checked reports arithmetic errors and continues with the clamped
// value.
func (e *Engine) checked(val dimen.Scaled, err error) (dimen.Scaled, error) {
	if texerr.KindOf(err) == texerr.ArithmeticOverflow {
		e.Report(err)
		return val, nil
	}
	return val, err
}

// ScanGlue reads a glue specification.
func (e *Engine) ScanGlue() (dimen.Glue, error) {
	return e.scanGlue(false)
}

// ScanMuGlue reads a math glue specification.
func (e *Engine) ScanMuGlue() (dimen.MuGlue, error) {
	g, err := e.scanGlue(true)
	return dimen.MuGlue(g), err
}

func (e *Engine) scanGlue(mu bool) (dimen.Glue, error) {
	var g dimen.Glue
	neg, tok, err := e.scanSigns()
	if err != nil {
		return g, err
	}
	if code := e.internalCode(tok); code != nil {
		v, err := code.Value(e)
		if err != nil {
			return g, err
		}
		if v.Kind == GlueValue && !mu || v.Kind == MuGlueValue && mu {
			g = v.Glue
			if neg {
				g = g.Negate()
			}
			return g, nil
		}
	}
	g.Width, _, err = e.dimenAfterSigns(neg, tok, mu, false)
	if err != nil {
		return g, err
	}

	ok, err := e.ScanKeyword("plus")
	if err != nil {
		return g, err
	}
	if ok {
		g.Stretch, g.StretchOrder, err = e.scanStretch(mu)
		if err != nil {
			return g, err
		}
	}
	ok, err = e.ScanKeyword("minus")
	if err != nil {
		return g, err
	}
	if ok {
		g.Shrink, g.ShrinkOrder, err = e.scanStretch(mu)
	}
	return g, err
}

func (e *Engine) scanStretch(mu bool) (dimen.Scaled, dimen.Order, error) {
	neg, tok, err := e.scanSigns()
	if err != nil {
		return 0, 0, err
	}
	return e.dimenAfterSigns(neg, tok, mu, true)
}

// ScanLeftBrace reads an explicit or implicit left brace.
func (e *Engine) ScanLeftBrace() error {
	tok, err := e.NextNonBlank("left brace")
	if err != nil {
		return err
	}
	if tok.Cat == token.BeginGroup {
		return nil
	}
	if code := e.Lookup(tok); code != nil && code.Char != nil && code.Char.Cat == token.BeginGroup {
		return nil
	}
	e.Back(tok)
	return texerr.New(texerr.UnexpectedToken, "Missing { inserted").
		WithHelp("A left brace was mandatory here.")
}

// ScanBalanced reads a left brace and the balanced text up to the
// matching right brace.  If expand is set, the text is expanded as in
// \edef.
func (e *Engine) ScanBalanced(expand bool) (token.List, error) {
	err := e.ScanLeftBrace()
	if err != nil {
		return nil, err
	}
	return e.scanText(expand, -1, nil)
}

// ScanToksAssignment reads the right-hand side of a token list
// assignment: an optional equals sign, followed by a balanced text or a
// token list register.
func (e *Engine) ScanToksAssignment() (token.List, error) {
	err := e.ScanOptionalEquals()
	if err != nil {
		return nil, err
	}
	tok, err := e.NextNonBlank("token list")
	if err != nil {
		return nil, err
	}
	if code := e.internalCode(tok); code != nil {
		v, err := code.Value(e)
		if err != nil {
			return nil, err
		}
		if v.Kind == TokensValue {
			return v.Tokens.Copy(), nil
		}
	}
	e.Back(tok)
	return e.ScanBalanced(false)
}

// ScanCS reads an unexpanded control sequence or active character.
func (e *Engine) ScanCS() (token.Token, error) {
	for {
		tok, err := e.NextRaw("control sequence")
		if err != nil {
			return tok, err
		}
		if tok.Cat == token.Space {
			continue
		}
		if !tok.Resolvable() {
			e.Back(tok)
			return tok, texerr.New(texerr.UnexpectedToken,
				"Missing control sequence inserted").
				WithHelp("Please don't say `\\def cs{...}', say `\\def\\cs{...}'.")
		}
		return tok, nil
	}
}

// ScanRegisterNumber reads a register number.
func (e *Engine) ScanRegisterNumber() (int64, error) {
	n, err := e.ScanInt()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > MaxRegister {
		e.Report(texerr.New(texerr.UnexpectedToken, "Bad register code (%d)", n).
			WithHelp("A register number must be between 0 and 32767.\n" +
				"I changed this one to zero."))
		return 0, nil
	}
	return n, nil
}

// ScanRegisterRef reads a register number and returns the table key of
// the register in the given family, for example "count12".
func (e *Engine) ScanRegisterRef(family string) (string, error) {
	n, err := e.ScanRegisterNumber()
	if err != nil {
		return "", err
	}
	return state.RegisterKey(family, n), nil
}

// ScanCharCode reads a character code.
func (e *Engine) ScanCharCode() (rune, error) {
	n, err := e.ScanInt()
	if err != nil {
		return 0, err
	}
	if n < 0 || n > unicode.MaxRune {
		e.Report(texerr.New(texerr.UnexpectedToken, "Bad character code (%d)", n).
			WithHelp("A character number must be between 0 and 1114111.\n" +
				"I changed this one to zero."))
		return 0, nil
	}
	return rune(n), nil
}

// ScanFileName reads a file name: either a braced text, or a sequence of
// characters ended by a space or a non-character token.
func (e *Engine) ScanFileName() (string, error) {
	tok, err := e.NextNonBlank("file name")
	if err != nil {
		return "", err
	}
	if tok.Cat == token.BeginGroup {
		list, err := e.scanText(true, -1, nil)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(e.TokensString(list)), nil
	}

	var b strings.Builder
	for !tok.Resolvable() && tok.Cat != token.Space &&
		tok.Cat != token.BeginGroup && tok.Cat != token.EndGroup {
		b.WriteString(tok.Text)
		tok, err = e.Pop(true)
		if err == io.EOF {
			tok = token.Token{Cat: token.Space, Text: " "}
			break
		} else if err != nil {
			return "", err
		}
	}
	if tok.Cat != token.Space {
		e.Back(tok)
	}
	if b.Len() == 0 {
		return "", texerr.New(texerr.UnexpectedToken, "Missing file name")
	}
	return b.String(), nil
}

// ScanBoxSpec reads "to <dimen>" or "spread <dimen>" and the left brace
// which starts the box contents.
func (e *Engine) ScanBoxSpec() (node.Spec, error) {
	var spec node.Spec
	ok, err := e.ScanKeyword("to")
	if err != nil {
		return spec, err
	}
	if ok {
		spec.Exactly = true
		spec.Amount, err = e.ScanDimen()
	} else {
		ok, err = e.ScanKeyword("spread")
		if err == nil && ok {
			spec.Amount, err = e.ScanDimen()
		}
	}
	if err != nil {
		return spec, err
	}
	return spec, e.ScanLeftBrace()
}
