// boxes.go -
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

package primitives

import (
	"fmt"

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/engine"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
	"github.com/seehuhn/gotex/tex/typeset"
)

// boxCommand makes a box-producing code.  Used on its own, the box is
// appended to the current list.
func boxCommand(build func(e *engine.Engine, tok token.Token, deliver engine.Deliver) error) *engine.Code {
	return &engine.Code{
		Kind: engine.Typesetting,
		Box:  build,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			return build(e, tok, func(box *node.Box) error {
				if box == nil {
					return nil
				}
				return e.AppendBox(box)
			})
		},
	}
}

func packed(kind node.BoxKind) *engine.Code {
	return boxCommand(func(e *engine.Engine, tok token.Token, deliver engine.Deliver) error {
		spec, err := e.ScanBoxSpec()
		if err != nil {
			return err
		}
		return e.BeginBox(kind, spec, deliver)
	})
}

// fetch returns the contents of a box register.  If take is set, the
// register is made void.
func fetch(take bool) *engine.Code {
	return boxCommand(func(e *engine.Engine, tok token.Token, deliver engine.Deliver) error {
		key, err := e.ScanRegisterRef("box")
		if err != nil {
			return err
		}
		box := e.Ctx.Box.Get(key)
		if take {
			e.Ctx.Box.Replace(key, nil)
		} else {
			box = box.Copy()
		}
		return deliver(box)
	})
}

func loadBoxes(e *engine.Engine) {
	e.Define("hbox", packed(node.HBox))
	e.Define("vbox", packed(node.VBox))
	e.Define("box", fetch(true))
	e.Define("copy", fetch(false))

	e.Define("lastbox", boxCommand(func(e *engine.Engine, tok token.Token, deliver engine.Deliver) error {
		if e.TS.Mode() == typeset.Vertical && e.TS.Depth() == 0 {
			e.Report(texerr.New(texerr.ModeMismatch,
				"You can't use `%s' in vertical mode", e.String(tok)).
				WithHelp("Sorry...I usually can't take things from the current page.\n" +
					"This \\lastbox will therefore be void."))
			return deliver(nil)
		}
		if e.TS.Mode().IsMath() {
			return e.TS.Require(e.String(tok),
				typeset.Vertical, typeset.InternalVertical,
				typeset.Horizontal, typeset.RestrictedHorizontal)
		}
		var box *node.Box
		if b, ok := e.TS.LastNode().(*node.Box); ok {
			e.TS.RemoveLastNode()
			box = b
		}
		return deliver(box)
	}))

	e.Define("setbox", &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			key, err := e.ScanRegisterRef("box")
			if err != nil {
				return err
			}
			if err := e.ScanOptionalEquals(); err != nil {
				return err
			}
			isGlobal := global(flags)
			return e.ScanBox(func(box *node.Box) error {
				e.Ctx.Box.Set(key, box, isGlobal)
				return nil
			})
		},
	})

	e.Define("unhbox", unpack(node.HBox, false))
	e.Define("unhcopy", unpack(node.HBox, true))
	e.Define("unvbox", unpack(node.VBox, false))
	e.Define("unvcopy", unpack(node.VBox, true))

	e.Define("wd", boxDimension(func(b *node.Box) *dimen.Scaled { return &b.Width }))
	e.Define("ht", boxDimension(func(b *node.Box) *dimen.Scaled { return &b.Height }))
	e.Define("dp", boxDimension(func(b *node.Box) *dimen.Scaled { return &b.Depth }))

	e.Define("shipout", command(func(e *engine.Engine, tok token.Token) error {
		return e.ScanBox(e.ShipOut)
	}))

	e.Define("showbox", command(func(e *engine.Engine, tok token.Token) error {
		n, err := e.ScanRegisterNumber()
		if err != nil {
			return err
		}
		box := e.Ctx.Box.Get(state.RegisterKey("box", n))
		depth := int(e.Ctx.Count.Get("showboxdepth"))
		breadth := int(e.Ctx.Count.Get("showboxbreadth"))
		var s string
		if box == nil {
			s = "void"
		} else {
			s = node.Show(box, depth, breadth)
		}
		show(e, fmt.Sprintf("> %sbox%d=%s", e.Escape(), n, s),
			e.Ctx.Count.Get("tracingonline") > 0)
		return nil
	}))
}

// unpack implements \unhbox, \unhcopy, \unvbox and \unvcopy.
func unpack(kind node.BoxKind, keep bool) *engine.Code {
	return typesetting(func(e *engine.Engine, tok token.Token) error {
		var again bool
		var err error
		if kind == node.VBox {
			again, err = vertical(e, tok)
		} else {
			again, err = horizontal(e, tok)
		}
		if again || err != nil {
			return err
		}
		key, err := e.ScanRegisterRef("box")
		if err != nil {
			return err
		}
		box := e.Ctx.Box.Get(key)
		if box == nil {
			return nil
		}
		if box.Kind != kind {
			return texerr.New(texerr.ModeMismatch, "Incompatible list can't be unboxed").
				WithHelp("Sorry, Pandora. (You sneaky devil.)\n" +
					"I refuse to unbox an \\hbox in vertical mode or vice versa.\n" +
					"And I can't open any boxes in math mode.")
		}
		list := box.List
		if keep {
			list = list.Copy()
		} else {
			e.Ctx.Box.Replace(key, nil)
		}
		e.TS.Add(list...)
		return nil
	})
}

// boxDimension implements \wd, \ht and \dp.  The box is changed in
// place.  Assignments to the dimensions of a void box are ignored.
func boxDimension(field func(*node.Box) *dimen.Scaled) *engine.Code {
	return &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Value: func(e *engine.Engine) (engine.Value, error) {
			key, err := e.ScanRegisterRef("box")
			v := engine.Value{Kind: engine.DimenValue}
			if err != nil {
				return v, err
			}
			if box := e.Ctx.Box.Get(key); box != nil {
				v.Dimen = *field(box)
			}
			return v, nil
		},
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			key, err := e.ScanRegisterRef("box")
			if err != nil {
				return err
			}
			if err := e.ScanOptionalEquals(); err != nil {
				return err
			}
			d, err := e.ScanDimen()
			if err != nil {
				return err
			}
			if box := e.Ctx.Box.Get(key); box != nil {
				*field(box) = d
			}
			return nil
		},
	}
}
