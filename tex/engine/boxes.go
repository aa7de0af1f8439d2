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

package engine

import (
	"github.com/seehuhn/gotex/tex/font"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/typeset"
)

// CurrentFontKey is the key of the current font in the Font table.
const CurrentFontKey = "font"

// CurrentFont returns the font selected for typesetting.
func (e *Engine) CurrentFont() *font.Font {
	return e.Ctx.Font.Get(CurrentFontKey)
}

type boxGroup struct {
	kind    node.BoxKind
	spec    node.Spec
	deliver Deliver
}

// BeginBox starts collecting the material for a box.  The size
// specification and the left brace have been read already.  When the
// matching right brace is found, the box is packed and passed to
// deliver.
func (e *Engine) BeginBox(kind node.BoxKind, spec node.Spec, deliver Deliver) error {
	tp, mode, every := state.HBoxGroup, typeset.RestrictedHorizontal, "everyhbox"
	if kind == node.VBox {
		tp, mode, every = state.VBoxGroup, typeset.InternalVertical, "everyvbox"
	}
	e.Ctx.OpenGroup(tp, &boxGroup{kind: kind, spec: spec, deliver: deliver})
	e.TS.PushMode(mode)
	return e.In.Push(e.Ctx.Toks.Get(every))
}

func (e *Engine) finishBox() error {
	g := e.Ctx.Top()
	bg, ok := g.Payload.(*boxGroup)
	if !ok {
		return e.CloseGroup(state.SimpleGroup)
	}
	if bg.kind == node.VBox {
		if err := e.EndParagraph(); err != nil {
			return err
		}
	}
	// read before the group's assignments are undone
	maxDepth := e.Ctx.Dimen.Get("boxmaxdepth")

	list, err := e.TS.PopMode()
	if err != nil {
		return err
	}
	if err := e.CloseGroup(g.Type); err != nil {
		return err
	}

	var box *node.Box
	if bg.kind == node.HBox {
		box = node.HPack(list, bg.spec)
	} else {
		box = node.VPack(list, bg.spec, maxDepth)
	}
	e.checkBox(box)
	if bg.deliver == nil {
		return nil
	}
	return bg.deliver(box)
}

// checkBox warns about overfull boxes.
func (e *Engine) checkBox(box *node.Box) {
	if box.Overfull <= 0 {
		return
	}
	if box.Kind == node.HBox {
		if box.Overfull > e.Ctx.Dimen.Get("hfuzz") {
			e.warn("Overfull \\hbox (%s too wide)", box.Overfull)
		}
	} else if box.Overfull > e.Ctx.Dimen.Get("vfuzz") {
		e.warn("Overfull \\vbox (%s too high)", box.Overfull)
	}
}

// ScanBox reads a box-producing command and makes it deliver its box.
func (e *Engine) ScanBox(deliver Deliver) error {
	tok, err := e.NextNonBlank("box")
	if err != nil {
		return err
	}
	if code := e.Lookup(tok); code != nil && !e.lastNoExpand && code.Has(BoxProducing) {
		return code.Box(e, tok, deliver)
	}
	e.Back(tok)
	return texerr.New(texerr.UnexpectedToken, "A <box> was supposed to be here").
		WithHelp("I was expecting to see \\hbox or \\vbox or \\copy or \\box or\n" +
			"something like that. So you might find something missing in\n" +
			"your output. But keep trying; you can fix this later.")
}

// ShipOut sends a page to the output.  Deferred file operations in the
// page are carried out first.
func (e *Engine) ShipOut(box *node.Box) error {
	if box == nil {
		return nil
	}
	e.pages++
	if err := e.runWhatsits(box.List); err != nil {
		return err
	}
	if e.Config.Output == nil {
		return nil
	}
	if err := e.Config.Output.ShipOut(box); err != nil {
		return texerr.Wrap(texerr.ConfigurationFailure, err)
	}
	return nil
}

// PageNumbers returns the values of \count0 to \count9, which TeX
// uses to identify a page.
func (e *Engine) PageNumbers() []int64 {
	res := make([]int64, 10)
	for i := range res {
		res[i] = e.Ctx.Count.Get(state.RegisterKey("count", int64(i)))
	}
	return res
}

func (e *Engine) runWhatsits(list node.List) error {
	for _, n := range list {
		switch n := n.(type) {
		case *node.Box:
			if err := e.runWhatsits(n.List); err != nil {
				return err
			}
		case *node.Whatsit:
			if err := e.DoWhatsit(n); err != nil {
				e.Report(err)
			}
		}
	}
	return nil
}
