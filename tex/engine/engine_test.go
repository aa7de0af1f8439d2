// engine_test.go -
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

package engine_test

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/seehuhn/gotex/tex/engine"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/primitives"
	"github.com/seehuhn/gotex/tex/scanner"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
	"github.com/seehuhn/gotex/tex/typeset"
)

// preamble gives the special characters their plain TeX categories.
const preamble = "\\catcode`\\{=1 \\catcode`\\}=2 \\catcode`\\#=6 " +
	"\\catcode`\\$=3 \\catcode`\\&=4 \\catcode`\\^=7 \\catcode`\\_=8 "

type recorder struct {
	errors []*texerr.Error
}

func (r *recorder) Report(err *texerr.Error, mode state.Interaction) bool {
	r.errors = append(r.errors, err)
	return err.Kind.Fatal()
}

type output struct {
	pages []*node.Box
	final node.List
}

func (o *output) ShipOut(page *node.Box) error {
	o.pages = append(o.pages, page)
	return nil
}

func (o *output) Close(final node.List) error {
	o.final = final
	return nil
}

type job struct {
	e        *engine.Engine
	errors   *recorder
	out      *output
	log      *bytes.Buffer
	terminal *bytes.Buffer
}

func newJob(input string) *job {
	j := &job{
		errors:   &recorder{},
		out:      &output{},
		log:      &bytes.Buffer{},
		terminal: &bytes.Buffer{},
	}
	j.e = engine.New(&engine.Config{
		Log:         log.New(j.log, "", 0),
		Terminal:    j.terminal,
		Reporter:    j.errors,
		Output:      j.out,
		Interaction: state.Nonstop,
	})
	primitives.Load(j.e)
	err := j.e.PushSource(scanner.NewStringSource("<test>", preamble+input))
	if err != nil {
		panic(err)
	}
	return j
}

func run(t *testing.T, input string) *job {
	t.Helper()
	j := newJob(input)
	if err := j.e.Run(); err != nil {
		t.Fatalf("job failed: %v", err)
	}
	return j
}

func TestMacroRoundTrip(t *testing.T) {
	j := newJob("\\def\\m#1,#2.{[#2#1]}\\m A,B.")

	// execute the definition
	for j.e.Lookup(token.CS("m")) == nil || j.e.Lookup(token.CS("m")).Macro == nil {
		if err := j.e.Step(); err != nil {
			t.Fatal(err)
		}
	}

	var got token.List
	for {
		tok, err := j.e.Pop(true)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		got = append(got, tok)
	}
	// the end of the line contributes a space
	if s := strings.TrimSuffix(j.e.TokensString(got), " "); s != "[BA]" {
		t.Errorf("expansion = %q, expected \"[BA]\"", s)
	}
}

func TestEdef(t *testing.T) {
	j := run(t, "\\def\\a{x}\\def\\b{\\a\\a}\\edef\\c{\\b y}")
	if m := j.e.Meaning(token.CS("c")); m != "macro:->xxy" {
		t.Errorf("meaning = %q", m)
	}
}

func TestUndefinedControlSequence(t *testing.T) {
	j := run(t, "\\count1=1 \\undefined \\count2=2 ")
	if len(j.errors.errors) != 1 {
		t.Fatalf("got %d errors, expected 1", len(j.errors.errors))
	}
	if k := j.errors.errors[0].Kind; k != texerr.UndefinedControlSequence {
		t.Errorf("wrong error kind %s", k)
	}
	if !strings.Contains(j.errors.errors[0].Message, "\\undefined") {
		t.Errorf("message %q does not name the control sequence", j.errors.errors[0].Message)
	}
	if n := j.e.Ctx.Count.Get("count2"); n != 2 {
		t.Errorf("\\count2 = %d, processing did not continue", n)
	}
}

func TestGroupingWithRegisters(t *testing.T) {
	j := run(t, "\\count1=5 {\\count1=7 \\global\\count2=3 \\dimen0=2pt}")
	if n := j.e.Ctx.Count.Get("count1"); n != 5 {
		t.Errorf("\\count1 = %d, expected 5", n)
	}
	if n := j.e.Ctx.Count.Get("count2"); n != 3 {
		t.Errorf("\\count2 = %d, expected 3", n)
	}
	if d := j.e.Ctx.Dimen.Get("dimen0"); d != 0 {
		t.Errorf("\\dimen0 = %s, expected 0pt", d)
	}
}

func TestGlobalDefs(t *testing.T) {
	j := run(t, "{\\globaldefs=1 \\count1=5 \\def\\x{y}}")
	if n := j.e.Ctx.Count.Get("count1"); n != 5 {
		t.Errorf("\\count1 = %d, expected 5", n)
	}
	if j.e.Lookup(token.CS("x")) == nil {
		t.Error("\\x was not defined globally")
	}
}

func TestAfterGroup(t *testing.T) {
	j := run(t, "\\def\\x{\\count1=9 }{\\aftergroup\\x \\count1=3 }")
	if n := j.e.Ctx.Count.Get("count1"); n != 9 {
		t.Errorf("\\count1 = %d, expected 9", n)
	}
}

func TestAfterAssignment(t *testing.T) {
	j := run(t, "\\def\\x{\\advance\\count1 by 1 }\\afterassignment\\x \\count1=4 ")
	if n := j.e.Ctx.Count.Get("count1"); n != 5 {
		t.Errorf("\\count1 = %d, expected 5", n)
	}
}

func TestModeMismatch(t *testing.T) {
	j := newJob("\\hbox{\\kern2pt\\vskip1pt}\\end")
	if err := j.e.Run(); err != nil {
		t.Fatal(err)
	}
	if len(j.errors.errors) != 1 {
		t.Fatalf("got %d errors, expected 1", len(j.errors.errors))
	}
	if k := j.errors.errors[0].Kind; k != texerr.ModeMismatch {
		t.Errorf("wrong error kind %s", k)
	}

	var box *node.Box
	for _, n := range j.out.final {
		if b, ok := n.(*node.Box); ok {
			box = b
		}
	}
	if box == nil {
		t.Fatal("box is missing from the main list")
	}
	if len(box.List) != 1 {
		t.Fatalf("box contains %d nodes, expected 1", len(box.List))
	}
	if k, ok := box.List[0].(*node.Kern); !ok || k.Width != 2*65536 {
		t.Errorf("box contains %v, expected the kern", box.List[0])
	}
}

func TestConditionals(t *testing.T) {
	cases := []struct {
		setup string
		in    string
		out   string
	}{
		{"", "\\ifnum 1<2 a\\else b\\fi", "a"},
		{"", "\\ifnum 2<1 a\\else b\\fi", "b"},
		{"", "\\ifdim 1pt=1.0pt a\\fi", "a"},
		{"", "\\ifodd 3 a\\else b\\fi", "a"},
		{"", "\\ifcase 2 a\\or b\\or c\\else d\\fi", "c"},
		{"", "\\ifcase 7 a\\or b\\else d\\fi", "d"},
		{"", "\\iftrue\\iffalse a\\else b\\fi\\fi", "b"},
		{"", "\\iffalse\\iftrue a\\else b\\fi\\else c\\fi", "c"},
		{"", "\\if aay\\else n\\fi", "y"},
		{"", "\\ifcat a1y\\else n\\fi", "n"},
		{"\\def\\p{q}\\def\\r{q}", "\\ifx\\p\\r y\\else n\\fi", "y"},
		{"", "\\ifx\\undefined\\alsoundefined y\\else n\\fi", "y"},
		{"", "\\ifdefined\\relax y\\else n\\fi", "y"},
		{"", "\\ifvmode v\\fi", "v"},
	}
	for _, c := range cases {
		j := run(t, c.setup+"\\edef\\result{"+c.in+"}")
		got := strings.TrimPrefix(j.e.Meaning(token.CS("result")), "macro:->")
		if got != c.out {
			t.Errorf("%s: got %q, expected %q", c.in, got, c.out)
		}
	}
}

func TestExtraFi(t *testing.T) {
	j := run(t, "\\fi")
	if len(j.errors.errors) != 1 {
		t.Fatalf("got %d errors, expected 1", len(j.errors.errors))
	}
}

func TestStackExhausted(t *testing.T) {
	j := newJob("\\def\\a{\\a x}\\a")
	err := j.e.Run()
	if err == nil {
		t.Fatal("infinite recursion was not stopped")
	}
	if te, ok := err.(*texerr.Error); !ok || te.Kind != texerr.StackExhausted {
		t.Errorf("wrong error %v", err)
	}
}

func TestParagraph(t *testing.T) {
	j := run(t, "\\hsize=100pt \\parindent=5pt ab\\par")
	if len(j.out.final) != 1 {
		t.Fatalf("main list has %d items, expected 1", len(j.out.final))
	}
	box, ok := j.out.final[0].(*node.Box)
	if !ok {
		t.Fatalf("main list contains %T", j.out.final[0])
	}
	if box.Width != 100*65536 {
		t.Errorf("box width %s, expected 100pt", box.Width)
	}
	if j.e.TS.Mode() != typeset.Vertical {
		t.Errorf("mode %s after \\par", j.e.TS.Mode())
	}
}

func TestWriteImmediate(t *testing.T) {
	j := run(t, "\\def\\x{hello}\\immediate\\write-1{\\x}")
	if !strings.Contains(j.log.String(), "hello") {
		t.Errorf("log %q does not contain the written text", j.log.String())
	}
}

func TestDeferredWrite(t *testing.T) {
	j := run(t, "\\def\\x{early}\\write16{\\x}\\def\\x{late}\\end")
	term := j.terminal.String()
	if !strings.Contains(term, "late") || strings.Contains(term, "early") {
		t.Errorf("terminal output %q, expected the late expansion", term)
	}
}

func TestTracingCommands(t *testing.T) {
	j := run(t, "\\tracingcommands=1 \\relax")
	if !strings.Contains(j.log.String(), "{vertical mode: \\relax}") {
		t.Errorf("trace missing from log %q", j.log.String())
	}
}

func TestVerticalCommandInParagraph(t *testing.T) {
	j := newJob("\\hsize=100pt a\\vskip1pt\\par\\end")
	if err := j.e.Run(); err != nil {
		t.Fatal(err)
	}
	if len(j.errors.errors) != 1 {
		t.Fatalf("got %d errors, expected 1", len(j.errors.errors))
	}
	if k := j.errors.errors[0].Kind; k != texerr.ModeMismatch {
		t.Errorf("wrong error kind %s", k)
	}
	if len(j.out.final) != 1 {
		t.Fatalf("main list has %d items, expected the paragraph only", len(j.out.final))
	}
	if _, ok := j.out.final[0].(*node.Box); !ok {
		t.Errorf("main list contains %T", j.out.final[0])
	}
}

func TestExpansionDepth(t *testing.T) {
	cases := []string{
		"\\def\\a{\\ifnum\\a}\\a",
		"\\def\\a{\\ifcase\\a}\\a",
		"\\def\\a{\\iftrue\\a}\\a",
		"\\def\\a{\\number\\a}\\a",
	}
	for _, in := range cases {
		j := newJob(in)
		j.e.Config.MaxExpandDepth = 100
		err := j.e.Run()
		if te, ok := err.(*texerr.Error); !ok || te.Kind != texerr.StackExhausted {
			t.Errorf("%s: wrong error %v", in, err)
		}
		if len(j.errors.errors) != 1 {
			t.Errorf("%s: got %d errors, expected 1", in, len(j.errors.errors))
		}
	}
}

func TestPrefixErrors(t *testing.T) {
	cases := []struct {
		in    string
		count int64
	}{
		{"\\global\\begingroup\\endgroup\\count1=5 ", 5},
		{"\\long\\count1=5 ", 5},
	}
	for _, c := range cases {
		j := run(t, c.in)
		if len(j.errors.errors) != 1 {
			t.Errorf("%s: got %d errors, expected 1", c.in, len(j.errors.errors))
			continue
		}
		if k := j.errors.errors[0].Kind; k != texerr.CantUseAfter {
			t.Errorf("%s: wrong error kind %s", c.in, k)
		}
		if n := j.e.Ctx.Count.Get("count1"); n != c.count {
			t.Errorf("%s: \\count1 = %d, expected %d", c.in, n, c.count)
		}
	}
}

func TestMacroArguments(t *testing.T) {
	cases := []struct {
		setup string
		in    string
		out   string
	}{
		{"\\def\\m#1.{[#1]}", "\\m{a}{b}.", "[{a}{b}]"},
		{"\\def\\m#1.{[#1]}", "\\m{a.b}.", "[a.b]"},
		{"\\def\\m#1.{[#1]}", "\\m{a}.", "[a]"},
		{"\\def\\m#1#2{[#2#1]}", "\\m a{bc}", "[bca]"},
		{"\\def\\m#1#{[#1]}", "\\m ab{c}", "[ab]{c}"},
		{"\\def\\m#1\\par{[#1]}", "\\m Intro\\par", "[Intro]"},
		{"\\long\\def\\m#1{[#1]}", "\\m\\par", "[\\par ]"},
	}
	for _, c := range cases {
		j := run(t, c.setup+"\\edef\\result{"+c.in+"}")
		if len(j.errors.errors) > 0 {
			t.Errorf("%s: %v", c.in, j.errors.errors[0])
		}
		got := strings.TrimPrefix(j.e.Meaning(token.CS("result")), "macro:->")
		if got != c.out {
			t.Errorf("%s: got %q, expected %q", c.in, got, c.out)
		}
	}
}

func TestRunawayArgument(t *testing.T) {
	cases := []string{
		"\\def\\m#1{}\\m\\par",
		"\\def\\m#1.{}\\m a\\par.",
		"\\def\\m#1\\par{}\\m{\\par}\\par",
	}
	for _, in := range cases {
		j := run(t, in)
		if len(j.errors.errors) == 0 {
			t.Errorf("%s: \\par in an argument was accepted", in)
		}
	}
}

func TestOverfullBox(t *testing.T) {
	j := run(t, "\\setbox1=\\hbox to1pt{\\kern5pt}")
	if !strings.Contains(j.log.String(), "Overfull \\hbox (4.0pt too wide)") {
		t.Errorf("log %q does not report the overfull box", j.log.String())
	}
}
