// font.go -
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

// Package font defines how the engine talks to font metric readers.
//
// Reading metric files is the job of external collaborators; this package
// only fixes the contract and provides a simple built-in metric which is
// used when no reader is configured.
package font

import (
	"errors"

	"github.com/seehuhn/gotex/tex/dimen"
)

// Indices for Metrics.Param, following the numbering of \fontdimen.
const (
	ParamSlant = iota + 1
	ParamSpace
	ParamSpaceStretch
	ParamSpaceShrink
	ParamXHeight
	ParamQuad
	ParamExtraSpace
)

// Metrics gives the dimensions of characters in a font at a given size.
type Metrics interface {
	// Char returns the width, height and depth of character r.  If the
	// font has no such character, ok is false.
	Char(r rune) (wd, ht, dp dimen.Scaled, ok bool)

	// Param returns font parameter n.
	Param(n int) dimen.Scaled
}

// Font is a font loaded at a specific size.
type Font struct {
	// Name is the external name used in \font\x=name.
	Name string

	// Size is the size at which the font was loaded.
	Size dimen.Scaled

	// DesignSize is the size the font was designed for.  \font ... scaled
	// is relative to this size.
	DesignSize dimen.Scaled

	Metrics Metrics
}

func (f *Font) String() string {
	if f == nil {
		return "nullfont"
	}
	if f.Size == 0 || f.Size == f.DesignSize {
		return f.Name
	}
	return f.Name + " at " + f.Size.String()
}

// Loader loads fonts by name.  A zero size requests the design size.
type Loader interface {
	Load(name string, size dimen.Scaled) (*Font, error)
}

// ErrNotFound is returned by loaders which cannot find a font.
var ErrNotFound = errors.New("font not found")

// Null is the font which has no characters.
var Null = &Font{Name: "nullfont", Metrics: nullMetrics{}}

type nullMetrics struct{}

func (nullMetrics) Char(r rune) (wd, ht, dp dimen.Scaled, ok bool) {
	return 0, 0, 0, false
}

func (nullMetrics) Param(n int) dimen.Scaled {
	return 0
}
