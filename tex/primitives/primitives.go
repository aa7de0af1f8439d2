// primitives.go -
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

// Package primitives installs the TeX primitives into an engine.
//
// The engine itself knows no control sequences.  Load defines the
// catalog implemented here: assignments, expansion, conditionals,
// typesetting, messages and file access.
package primitives

import (
	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/engine"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

// Load defines all primitives in e.
func Load(e *engine.Engine) {
	loadParameters(e)
	loadRegisters(e)
	loadDefinitions(e)
	loadExpansion(e)
	loadConditionals(e)
	loadTypesetting(e)
	loadBoxes(e)
	loadMessages(e)

	// plain TeX sets this first thing, and nobody wants the IniTeX value
	e.Ctx.Dimen.Set("boxmaxdepth", dimen.MaxDimen, true)
}

var intParams = []string{
	"pretolerance", "tolerance", "linepenalty", "hyphenpenalty",
	"exhyphenpenalty", "clubpenalty", "widowpenalty", "displaywidowpenalty",
	"brokenpenalty", "binoppenalty", "relpenalty", "predisplaypenalty",
	"postdisplaypenalty", "interlinepenalty", "doublehyphendemerits",
	"finalhyphendemerits", "adjdemerits", "mag", "delimiterfactor",
	"looseness", "time", "day", "month", "year", "showboxbreadth",
	"showboxdepth", "hbadness", "vbadness", "pausing", "tracingonline",
	"tracingmacros", "tracingstats", "tracingparagraphs", "tracingpages",
	"tracingoutput", "tracinglostchars", "tracingcommands",
	"tracingrestores", "tracinggroups", "uchyph", "outputpenalty",
	"maxdeadcycles", "hangafter", "floatingpenalty", "globaldefs", "fam",
	"escapechar", "defaulthyphenchar", "defaultskewchar", "endlinechar",
	"newlinechar", "language", "lefthyphenmin", "righthyphenmin",
	"holdinginserts", "errorcontextlines",
}

var dimenParams = []string{
	"parindent", "mathsurround", "lineskiplimit", "hsize", "vsize",
	"maxdepth", "splitmaxdepth", "boxmaxdepth", "hfuzz", "vfuzz",
	"delimitershortfall", "nulldelimiterspace", "scriptspace",
	"predisplaysize", "displaywidth", "displayindent", "overfullrule",
	"hangindent", "hoffset", "voffset", "emergencystretch",
}

var glueParams = []string{
	"lineskip", "baselineskip", "parskip", "abovedisplayskip",
	"belowdisplayskip", "abovedisplayshortskip", "belowdisplayshortskip",
	"leftskip", "rightskip", "topskip", "splittopskip", "tabskip",
	"spaceskip", "xspaceskip", "parfillskip",
}

var muGlueParams = []string{"thinmuskip", "medmuskip", "thickmuskip"}

var toksParams = []string{
	"output", "everypar", "everymath", "everydisplay", "everyhbox",
	"everyvbox", "everyjob", "everycr", "errhelp",
}

func loadParameters(e *engine.Engine) {
	for _, group := range []struct {
		kind  engine.ValueKind
		names []string
	}{
		{engine.IntValue, intParams},
		{engine.DimenValue, dimenParams},
		{engine.GlueValue, glueParams},
		{engine.MuGlueValue, muGlueParams},
		{engine.TokensValue, toksParams},
	} {
		for _, name := range group.names {
			e.Define(name, variable(engine.Register{Family: group.kind, Key: name}))
		}
	}
}

// familyNames gives the register family prefix used in table keys.
var familyNames = map[engine.ValueKind]string{
	engine.IntValue:    "count",
	engine.DimenValue:  "dimen",
	engine.GlueValue:   "skip",
	engine.MuGlueValue: "muskip",
	engine.TokensValue: "toks",
}

func global(flags engine.Flags) bool {
	return flags&engine.Global != 0
}

// resolve turns a register family into a concrete register by reading
// the register number.
func resolve(e *engine.Engine, r engine.Register) (engine.Register, error) {
	if r.Key != "" {
		return r, nil
	}
	key, err := e.ScanRegisterRef(familyNames[r.Family])
	r.Key = key
	return r, err
}

func getValue(e *engine.Engine, r engine.Register) engine.Value {
	v := engine.Value{Kind: r.Family}
	switch r.Family {
	case engine.IntValue:
		v.Int = e.Ctx.Count.Get(r.Key)
	case engine.DimenValue:
		v.Dimen = e.Ctx.Dimen.Get(r.Key)
	case engine.GlueValue:
		v.Glue = e.Ctx.Skip.Get(r.Key)
	case engine.MuGlueValue:
		v.Glue = dimen.Glue(e.Ctx.MuSkip.Get(r.Key))
	case engine.TokensValue:
		v.Tokens = e.Ctx.Toks.Get(r.Key)
	}
	return v
}

func setValue(e *engine.Engine, r engine.Register, v engine.Value, global bool) {
	switch r.Family {
	case engine.IntValue:
		e.Ctx.Count.Set(r.Key, v.Int, global)
	case engine.DimenValue:
		e.Ctx.Dimen.Set(r.Key, v.Dimen, global)
	case engine.GlueValue:
		e.Ctx.Skip.Set(r.Key, v.Glue, global)
	case engine.MuGlueValue:
		e.Ctx.MuSkip.Set(r.Key, dimen.MuGlue(v.Glue), global)
	case engine.TokensValue:
		e.Ctx.Toks.Set(r.Key, v.Tokens, global)
	}
}

func scanValue(e *engine.Engine, kind engine.ValueKind) (engine.Value, error) {
	v := engine.Value{Kind: kind}
	var err error
	switch kind {
	case engine.IntValue:
		v.Int, err = e.ScanInt()
	case engine.DimenValue:
		v.Dimen, err = e.ScanDimen()
	case engine.GlueValue:
		v.Glue, err = e.ScanGlue()
	case engine.MuGlueValue:
		var g dimen.MuGlue
		g, err = e.ScanMuGlue()
		v.Glue = dimen.Glue(g)
	case engine.TokensValue:
		v.Tokens, err = e.ScanToksAssignment()
	}
	return v, err
}

// variable returns the code of a parameter, a register, or a register
// family.
func variable(r engine.Register) *engine.Code {
	return &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Register: &r,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			reg, err := resolve(e, r)
			if err != nil {
				return err
			}
			if reg.Family != engine.TokensValue {
				if err := e.ScanOptionalEquals(); err != nil {
					return err
				}
			}
			v, err := scanValue(e, reg.Family)
			if err != nil {
				return err
			}
			setValue(e, reg, v, global(flags))
			return nil
		},
		Value: func(e *engine.Engine) (engine.Value, error) {
			reg, err := resolve(e, r)
			if err != nil {
				return engine.Value{}, err
			}
			return getValue(e, reg), nil
		},
	}
}

func loadRegisters(e *engine.Engine) {
	for kind, name := range familyNames {
		e.Define(name, variable(engine.Register{Family: kind}))
		e.Define(name+"def", registerDef(kind))
	}
	e.Define("advance", arithmetic(opAdvance))
	e.Define("multiply", arithmetic(opMultiply))
	e.Define("divide", arithmetic(opDivide))

	e.Define("catcode", codeTable(func(ctx *state.Context) *state.Table[rune, token.Catcode] { return ctx.Catcodes }, 15))
	e.Define("mathcode", codeTable(func(ctx *state.Context) *state.Table[rune, int64] { return ctx.Mathcodes }, 0x8000))
	e.Define("sfcode", codeTable(func(ctx *state.Context) *state.Table[rune, int64] { return ctx.Sfcodes }, 0x7FFF))
	e.Define("lccode", codeTable(func(ctx *state.Context) *state.Table[rune, int64] { return ctx.Lccodes }, 0x10FFFF))
	e.Define("uccode", codeTable(func(ctx *state.Context) *state.Table[rune, int64] { return ctx.Uccodes }, 0x10FFFF))
}

// registerDef implements \countdef and friends.
func registerDef(kind engine.ValueKind) *engine.Code {
	return &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			cs, err := e.ScanCS()
			if err != nil {
				return err
			}
			if err := e.ScanOptionalEquals(); err != nil {
				return err
			}
			key, err := e.ScanRegisterRef(familyNames[kind])
			if err != nil {
				return err
			}
			code := variable(engine.Register{Family: kind, Key: key})
			code.Name = cs.Text
			e.SetMeaning(cs, code, global(flags))
			return nil
		},
	}
}

type arithOp int

const (
	opAdvance arithOp = iota
	opMultiply
	opDivide
)

var arithNames = []string{"advance", "multiply", "divide"}

func arithmetic(op arithOp) *engine.Code {
	return &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			next, err := e.NextNonBlank("variable")
			if err != nil {
				return err
			}
			code := e.Lookup(next)
			if code == nil || code.Register == nil || code.Register.Family == engine.TokensValue {
				e.Back(next)
				return texerr.New(texerr.CantUseAfter,
					"You can't use `%s' after \\%s", e.Meaning(next), arithNames[op]).
					WithHelp("I'm forgetting what you said and not changing anything.")
			}
			r, err := resolve(e, *code.Register)
			if err != nil {
				return err
			}
			if _, err := e.ScanKeyword("by"); err != nil {
				return err
			}

			cur := getValue(e, r)
			var res engine.Value
			if op == opAdvance {
				v, err := scanValue(e, r.Family)
				if err != nil {
					return err
				}
				res, err = advance(cur, v)
				if err != nil {
					return err
				}
			} else {
				n, err := e.ScanInt()
				if err != nil {
					return err
				}
				res, err = scale(cur, n, op == opDivide)
				if err != nil {
					return err
				}
			}
			setValue(e, r, res, global(flags))
			return nil
		},
	}
}

func advance(cur, v engine.Value) (engine.Value, error) {
	var err error
	switch cur.Kind {
	case engine.IntValue:
		cur.Int, err = dimen.AddInt(cur.Int, v.Int)
	case engine.DimenValue:
		cur.Dimen, err = dimen.Add(cur.Dimen, v.Dimen)
	default:
		cur.Glue, err = cur.Glue.Add(v.Glue)
	}
	return cur, err
}

func scale(cur engine.Value, n int64, divide bool) (engine.Value, error) {
	var err error
	switch {
	case cur.Kind == engine.IntValue && divide:
		cur.Int, err = dimen.DivInt(cur.Int, n)
	case cur.Kind == engine.IntValue:
		cur.Int, err = dimen.MulInt(cur.Int, n)
	case cur.Kind == engine.DimenValue && divide:
		cur.Dimen, err = dimen.Divide(cur.Dimen, n)
	case cur.Kind == engine.DimenValue:
		cur.Dimen, err = dimen.Multiply(cur.Dimen, n)
	case divide:
		cur.Glue, err = cur.Glue.Divide(n)
	default:
		cur.Glue, err = cur.Glue.Multiply(n)
	}
	return cur, err
}

// codeTable implements \catcode and the other character tables.
func codeTable[V ~uint8 | ~int64](table func(*state.Context) *state.Table[rune, V], limit int64) *engine.Code {
	return &engine.Code{
		Kind:     engine.Assignment,
		Prefixes: engine.Global,
		Execute: func(e *engine.Engine, tok token.Token, flags engine.Flags) error {
			r, err := e.ScanCharCode()
			if err != nil {
				return err
			}
			if err := e.ScanOptionalEquals(); err != nil {
				return err
			}
			n, err := e.ScanInt()
			if err != nil {
				return err
			}
			if n < 0 || n > limit {
				e.Report(texerr.New(texerr.UnexpectedToken,
					"Invalid code (%d), should be in the range 0..%d", n, limit).
					WithHelp("I'm going to use 0 instead of that illegal code value."))
				n = 0
			}
			table(e.Ctx).Set(r, V(n), global(flags))
			return nil
		},
		Value: func(e *engine.Engine) (engine.Value, error) {
			r, err := e.ScanCharCode()
			if err != nil {
				return engine.Value{}, err
			}
			return engine.Value{Kind: engine.IntValue, Int: int64(table(e.Ctx).Get(r))}, nil
		},
	}
}
