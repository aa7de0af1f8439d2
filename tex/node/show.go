// show.go -
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

package node

import (
	"strconv"
	"strings"

	"github.com/seehuhn/gotex/tex/dimen"
)

// Show renders a box in the format of TeX's \showbox.  Nesting beyond
// depth levels is abbreviated as " []", lists longer than breadth
// items are cut off with "etc.".
func Show(box *Box, depth, breadth int) string {
	var b strings.Builder
	if box == nil {
		b.WriteString("void")
		return b.String()
	}
	showNode(&b, box, "", depth, breadth)
	return b.String()
}

// ShowList renders a list with the given line prefix.
func ShowList(list List, depth, breadth int) string {
	var b strings.Builder
	showList(&b, list, ".", depth, breadth)
	return strings.TrimPrefix(b.String(), "\n")
}

func showList(b *strings.Builder, list List, prefix string, depth, breadth int) {
	for i, n := range list {
		if i >= breadth {
			b.WriteString("\n" + prefix + "etc.")
			return
		}
		b.WriteString("\n")
		showNode(b, n, prefix, depth, breadth)
	}
}

func showNode(b *strings.Builder, n Node, prefix string, depth, breadth int) {
	b.WriteString(prefix)
	switch n := n.(type) {
	case *Char:
		name := "nullfont"
		if n.Font != nil {
			name = n.Font.Name
		}
		b.WriteString("\\" + name + " " + string(n.Code))
	case *Box:
		if n.Kind == HBox {
			b.WriteString("\\hbox(")
		} else {
			b.WriteString("\\vbox(")
		}
		b.WriteString(n.Height.Format() + "+" + n.Depth.Format() + ")x" +
			n.Width.Format())
		if n.GlueSign != 0 && n.GlueSet != 0 {
			b.WriteString(", glue set ")
			if n.GlueSign < 0 {
				b.WriteString("- ")
			}
			b.WriteString(strconv.FormatFloat(n.GlueSet, 'f', -1, 64))
			b.WriteString(n.GlueOrder.String())
		}
		if n.Shift != 0 {
			b.WriteString(", shifted " + n.Shift.Format())
		}
		if depth <= 0 {
			if len(n.List) > 0 {
				b.WriteString(" []")
			}
			return
		}
		showList(b, n.List, prefix+".", depth-1, breadth)
	case *Rule:
		b.WriteString("\\rule(" + ruleDimen(n.Height) + "+" +
			ruleDimen(n.Depth) + ")x" + ruleDimen(n.Width))
	case *Glue:
		b.WriteString("\\glue")
		if n.Param != "" {
			b.WriteString("(\\" + n.Param + ")")
		}
		b.WriteString(" " + strings.ReplaceAll(n.Spec.String(), "pt", ""))
	case *Kern:
		if n.Explicit {
			b.WriteString("\\kern " + n.Width.Format())
		} else {
			b.WriteString("\\kern" + n.Width.Format())
		}
	case *Penalty:
		b.WriteString("\\penalty " + strconv.FormatInt(n.Value, 10))
	case *Mark:
		b.WriteString("\\mark{" + n.Tokens.String() + "}")
	case *Whatsit:
		switch n.Kind {
		case WhatsitWrite:
			b.WriteString("\\write" + streamName(n.Stream) + "{" +
				n.Tokens.String() + "}")
		case WhatsitOpen:
			b.WriteString("\\openout" + streamName(n.Stream) + "=" + n.Name)
		case WhatsitClose:
			b.WriteString("\\closeout" + streamName(n.Stream))
		case WhatsitSpecial:
			b.WriteString("\\special{" + n.Tokens.String() + "}")
		}
	}
}

func ruleDimen(s dimen.Scaled) string {
	if s == Running {
		return "*"
	}
	return s.Format()
}

func streamName(n int64) string {
	switch {
	case n < 0:
		return "-"
	case n > 15:
		return "*"
	}
	return strconv.FormatInt(n, 10)
}
