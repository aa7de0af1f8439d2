// fixed.go -
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

package font

import "github.com/seehuhn/gotex/tex/dimen"

// DesignSize is the design size of fonts loaded by FixedLoader.
const DesignSize = 10 * dimen.Unity

// Fixed is a monospaced metric where every printable character is half
// an em wide.  Letters below the baseline get a descender.
type Fixed struct {
	Em dimen.Scaled
}

// Char implements the Metrics interface.
func (m Fixed) Char(r rune) (wd, ht, dp dimen.Scaled, ok bool) {
	if r < ' ' {
		return 0, 0, 0, false
	}
	wd = m.Em / 2
	ht = m.Em * 7 / 10
	switch r {
	case 'g', 'j', 'p', 'q', 'y', ',', ';':
		dp = m.Em / 5
	}
	return wd, ht, dp, true
}

// Param implements the Metrics interface.
func (m Fixed) Param(n int) dimen.Scaled {
	switch n {
	case ParamSpace:
		return m.Em / 3
	case ParamSpaceStretch:
		return m.Em / 6
	case ParamSpaceShrink:
		return m.Em / 9
	case ParamXHeight:
		return m.Em * 43 / 100
	case ParamQuad:
		return m.Em
	case ParamExtraSpace:
		return m.Em / 9
	}
	return 0
}

// FixedLoader loads every font name as a Fixed metric.
type FixedLoader struct{}

// Load implements the Loader interface.
func (FixedLoader) Load(name string, size dimen.Scaled) (*Font, error) {
	if name == "" {
		return nil, ErrNotFound
	}
	em := size
	if em <= 0 {
		em = DesignSize
	}
	return &Font{
		Name:       name,
		Size:       em,
		DesignSize: DesignSize,
		Metrics:    Fixed{Em: em},
	}, nil
}
