// dimen.go -
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

// Package dimen implements TeX's fixed-point arithmetic for dimensions
// and glue.
package dimen

import (
	"math"
	"strconv"
	"strings"

	"github.com/seehuhn/gotex/tex/texerr"
)

// Scaled is a dimension in scaled points.  One point is 65536sp.
type Scaled int64

// Unity is one point.
const Unity Scaled = 65536

// MaxDimen is the largest legal dimension, 16383.99999pt.
const MaxDimen Scaled = 1<<30 - 1

// MaxInt is the largest value of an integer register.
const MaxInt = math.MaxInt64

// Pt converts a number of points into scaled points.
func Pt(x float64) Scaled {
	return Scaled(math.Round(x * float64(Unity)))
}

func (s Scaled) String() string {
	return s.Format() + "pt"
}

// Format prints s the way TeX's print_scaled does, without a unit.  The
// result has at least one digit after the decimal point and as many as
// are needed to make the conversion back to scaled points exact.
func (s Scaled) Format() string {
	var b strings.Builder
	if s < 0 {
		b.WriteByte('-')
		s = -s
	}
	b.WriteString(strconv.FormatInt(int64(s/Unity), 10))
	b.WriteByte('.')
	s = 10*(s%Unity) + 5
	delta := Scaled(10)
	for {
		if delta > Unity {
			s = s + 0x8000 - 50000 // round the last digit
		}
		b.WriteByte(byte('0' + s/Unity))
		s = 10 * (s % Unity)
		delta *= 10
		if s <= delta {
			break
		}
	}
	return b.String()
}

// RoundDecimals converts the decimal digits of a fraction 0.d1d2d3...
// into scaled points, rounding the way TeX does.  At most 17 digits are
// significant.
func RoundDecimals(digits []byte) Scaled {
	if len(digits) > 17 {
		digits = digits[:17]
	}
	var a int64
	for k := len(digits) - 1; k >= 0; k-- {
		a = (a + int64(digits[k])*(2*int64(Unity))) / 10
	}
	return Scaled((a + 1) / 2)
}

// unit conversion factors relative to pt, as numerator and denominator.
var units = map[string][2]int64{
	"pt": {1, 1},
	"in": {7227, 100},
	"pc": {12, 1},
	"cm": {7227, 254},
	"mm": {7227, 2540},
	"bp": {7227, 7200},
	"dd": {1238, 1157},
	"cc": {14856, 1157},
}

// UnitNames lists the physical units, in the order in which TeX tries to
// recognise them.
var UnitNames = []string{"pt", "in", "pc", "cm", "mm", "bp", "dd", "cc", "sp"}

// FromUnit converts a decimal number with integer part i and fraction f
// (in units of 2^-16) given in the physical unit u into scaled points.
// The result is clamped to MaxDimen and an ArithmeticOverflow error is
// returned if it does not fit.
func FromUnit(i int64, f Scaled, u string) (Scaled, error) {
	if u == "sp" {
		return checkDimen(Scaled(i))
	}
	if i > int64(MaxDimen) {
		return MaxDimen, dimenTooLarge()
	}
	nd, ok := units[u]
	if !ok {
		return 0, texerr.New(texerr.MissingExpectedKeyword,
			"Illegal unit of measure (%s)", u)
	}
	num, denom := nd[0], nd[1]
	if num != 1 || denom != 1 {
		q, r := xnOverD(i, num, denom)
		ff := (num*int64(f) + int64(Unity)*r) / denom
		i = q + ff/int64(Unity)
		f = Scaled(ff % int64(Unity))
	}
	if i >= 16384 {
		return MaxDimen, dimenTooLarge()
	}
	return Scaled(i)*Unity + f, nil
}

// FromFontUnit converts i+f/65536 times the font-dependent unit v into
// scaled points.  This handles the em and ex units.
func FromFontUnit(i int64, f Scaled, v Scaled) (Scaled, error) {
	if i > int64(MaxDimen) {
		return MaxDimen, dimenTooLarge()
	}
	q, _ := xnOverD(int64(v), int64(f), int64(Unity))
	return checkDimen(Scaled(i*int64(v) + q))
}

func xnOverD(x, n, d int64) (int64, int64) {
	if x >= 0 {
		return x * n / d, x * n % d
	}
	return -((-x) * n / d), -((-x) * n % d)
}

func dimenTooLarge() error {
	return texerr.New(texerr.ArithmeticOverflow, "Dimension too large").
		WithHelp("I can't work with sizes bigger than about 19 feet.")
}

func checkDimen(s Scaled) (Scaled, error) {
	if s > MaxDimen {
		return MaxDimen, dimenTooLarge()
	}
	if s < -MaxDimen {
		return -MaxDimen, dimenTooLarge()
	}
	return s, nil
}

// Add returns a+b, checking for overflow.
func Add(a, b Scaled) (Scaled, error) {
	return checkDimen(a + b)
}

// Multiply returns n*a, checking for overflow.
func Multiply(a Scaled, n int64) (Scaled, error) {
	if a == 0 || n == 0 {
		return 0, nil
	}
	res := int64(a) * n
	if res/n != int64(a) {
		return 0, arithmetic()
	}
	s, err := checkDimen(Scaled(res))
	if err != nil {
		return 0, arithmetic()
	}
	return s, nil
}

// Divide returns a/n, truncated towards zero.
func Divide(a Scaled, n int64) (Scaled, error) {
	if n == 0 {
		return 0, arithmetic()
	}
	return a / Scaled(n), nil
}

func arithmetic() error {
	return texerr.New(texerr.ArithmeticOverflow, "Arithmetic overflow").
		WithHelp("I can't carry out that multiplication or division,\n" +
			"since the result is out of range.")
}

// AddInt returns a+b, checking for overflow.
func AddInt(a, b int64) (int64, error) {
	r := a + b
	if (a > 0 && b > 0 && r < 0) || (a < 0 && b < 0 && r >= 0) {
		return 0, arithmetic()
	}
	return r, nil
}

// MulInt returns a*b, checking for overflow.
func MulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, arithmetic()
	}
	return r, nil
}

// DivInt returns a/b, truncated towards zero.
func DivInt(a, b int64) (int64, error) {
	if b == 0 || (a == math.MinInt64 && b == -1) {
		return 0, arithmetic()
	}
	return a / b, nil
}
