// glue.go -
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

import "strings"

// Order is the order of infinity of a stretch or shrink component.
type Order uint8

// The glue orders, from finite to the strongest infinity.
const (
	Normal Order = iota
	Fil
	Fill
	Filll
)

func (o Order) String() string {
	switch o {
	case Fil:
		return "fil"
	case Fill:
		return "fill"
	case Filll:
		return "filll"
	}
	return ""
}

// Glue describes a stretchable and shrinkable space.
type Glue struct {
	Width        Scaled
	Stretch      Scaled
	StretchOrder Order
	Shrink       Scaled
	ShrinkOrder  Order
}

// Fixed returns glue with natural width w and no stretch or shrink.
func Fixed(w Scaled) Glue {
	return Glue{Width: w}
}

// Add returns g+h.  Within each of stretch and shrink, only components of
// the same order are summed; if the orders differ, the result has the
// higher order and the lower-order component is dropped.
func (g Glue) Add(h Glue) (Glue, error) {
	w, err := Add(g.Width, h.Width)
	if err != nil {
		return g, err
	}
	st, sto, err := addComponent(g.Stretch, g.StretchOrder, h.Stretch, h.StretchOrder)
	if err != nil {
		return g, err
	}
	sh, sho, err := addComponent(g.Shrink, g.ShrinkOrder, h.Shrink, h.ShrinkOrder)
	if err != nil {
		return g, err
	}
	return Glue{
		Width:        w,
		Stretch:      st,
		StretchOrder: sto,
		Shrink:       sh,
		ShrinkOrder:  sho,
	}, nil
}

func addComponent(a Scaled, ao Order, b Scaled, bo Order) (Scaled, Order, error) {
	switch {
	case b == 0:
		return normalise(a, ao)
	case a == 0:
		return normalise(b, bo)
	case ao == bo:
		s, err := Add(a, b)
		if err != nil {
			return 0, Normal, err
		}
		return normalise(s, ao)
	case ao < bo:
		return b, bo, nil
	default:
		return a, ao, nil
	}
}

func normalise(s Scaled, o Order) (Scaled, Order, error) {
	if s == 0 {
		return 0, Normal, nil
	}
	return s, o, nil
}

// Negate returns -g.
func (g Glue) Negate() Glue {
	g.Width = -g.Width
	g.Stretch = -g.Stretch
	g.Shrink = -g.Shrink
	return g
}

// Multiply scales all components of g by n.
func (g Glue) Multiply(n int64) (Glue, error) {
	var err error
	res := g
	if res.Width, err = Multiply(g.Width, n); err != nil {
		return g, err
	}
	if res.Stretch, err = Multiply(g.Stretch, n); err != nil {
		return g, err
	}
	if res.Shrink, err = Multiply(g.Shrink, n); err != nil {
		return g, err
	}
	if res.Stretch == 0 {
		res.StretchOrder = Normal
	}
	if res.Shrink == 0 {
		res.ShrinkOrder = Normal
	}
	return res, nil
}

// Divide divides all components of g by n.
func (g Glue) Divide(n int64) (Glue, error) {
	if n == 0 {
		return g, arithmetic()
	}
	res := g
	res.Width /= Scaled(n)
	res.Stretch /= Scaled(n)
	res.Shrink /= Scaled(n)
	if res.Stretch == 0 {
		res.StretchOrder = Normal
	}
	if res.Shrink == 0 {
		res.ShrinkOrder = Normal
	}
	return res, nil
}

// Equal reports whether g and h are the same glue.  Components of
// different orders are never equal.
func (g Glue) Equal(h Glue) bool {
	return g == h
}

func (g Glue) String() string {
	return g.format("pt")
}

func (g Glue) format(unit string) string {
	var b strings.Builder
	b.WriteString(g.Width.Format())
	b.WriteString(unit)
	if g.Stretch != 0 {
		b.WriteString(" plus ")
		b.WriteString(formatComponent(g.Stretch, g.StretchOrder, unit))
	}
	if g.Shrink != 0 {
		b.WriteString(" minus ")
		b.WriteString(formatComponent(g.Shrink, g.ShrinkOrder, unit))
	}
	return b.String()
}

func formatComponent(s Scaled, o Order, unit string) string {
	if o == Normal {
		return s.Format() + unit
	}
	return s.Format() + o.String()
}

// MuGlue is glue measured in math units, 18mu to the em.
type MuGlue Glue

func (g MuGlue) String() string {
	return Glue(g).format("mu")
}

// Add returns g+h, following the same order rules as for Glue.
func (g MuGlue) Add(h MuGlue) (MuGlue, error) {
	res, err := Glue(g).Add(Glue(h))
	return MuGlue(res), err
}
