// primitives_test.go -
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

package primitives_test

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/engine"
	"github.com/seehuhn/gotex/tex/node"
	"github.com/seehuhn/gotex/tex/primitives"
	"github.com/seehuhn/gotex/tex/scanner"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
	"github.com/seehuhn/gotex/tex/token"
)

const preamble = "\\catcode`\\{=1 \\catcode`\\}=2 \\catcode`\\#=6 "

type recorder []*texerr.Error

func (r *recorder) Report(err *texerr.Error, mode state.Interaction) bool {
	*r = append(*r, err)
	return err.Kind.Fatal()
}

type pages struct {
	shipped []*node.Box
	final   node.List
}

func (p *pages) ShipOut(page *node.Box) error {
	p.shipped = append(p.shipped, page)
	return nil
}

func (p *pages) Close(final node.List) error {
	p.final = final
	return nil
}

type result struct {
	e        *engine.Engine
	errors   recorder
	pages    pages
	log      bytes.Buffer
	terminal bytes.Buffer
}

// runIn runs input in a job whose files live in dir.
func runIn(t *testing.T, dir, input string) *result {
	t.Helper()
	res := &result{}
	conf := &engine.Config{
		Log:         log.New(&res.log, "", 0),
		Terminal:    &res.terminal,
		Reporter:    &res.errors,
		Output:      &res.pages,
		Interaction: state.Nonstop,
	}
	if dir != "" {
		conf.Files = engine.DirFS(dir)
	}
	res.e = engine.New(conf)
	primitives.Load(res.e)
	err := res.e.PushSource(scanner.NewStringSource("<test>", preamble+input))
	if err != nil {
		t.Fatal(err)
	}
	if err := res.e.Run(); err != nil {
		t.Fatalf("job failed: %v", err)
	}
	return res
}

func run(t *testing.T, input string) *result {
	t.Helper()
	return runIn(t, "", input)
}

// macro returns the replacement text of a macro.
func (res *result) macro(name string) string {
	return strings.TrimPrefix(res.e.Meaning(token.CS(name)), "macro:->")
}

func TestRoman(t *testing.T) {
	cases := []struct {
		n   int64
		out string
	}{
		{1984, "mcmlxxxiv"},
		{4, "iv"},
		{9, "ix"},
		{14, "xiv"},
		{40, "xl"},
		{90, "xc"},
		{400, "cd"},
		{3999, "mmmcmxcix"},
		{0, ""},
		{-5, ""},
	}
	for _, c := range cases {
		if got := primitives.Roman(c.n); got != c.out {
			t.Errorf("Roman(%d) = %q, expected %q", c.n, got, c.out)
		}
	}
}

func TestExpansionPrimitives(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"\\romannumeral 1984", "mcmlxxxiv"},
		{"\\number 007", "7"},
		{"\\number -\"1F", "-31"},
		{"\\string\\relax", "\\relax"},
		{"\\meaning\\relax", "\\relax"},
		{"\\meaning a", "the letter a"},
		{"\\count3=42 \\the\\count3", "42"},
		{"\\dimen0=1.5pt \\the\\dimen0", "1.5pt"},
		{"\\skip0=1pt plus 2fil minus 3pt \\the\\skip0", "1.0pt plus 2.0fil minus 3.0pt"},
		{"\\expandafter\\string\\csname foo\\endcsname", "\\foo"},
		{"\\jobname", "texput"},
		{"\\noexpand\\relax", "\\relax "},
		{"\\noexpand\\undefined", "\\undefined "},
	}
	for _, c := range cases {
		// assignments are not expandable, so do them before \edef
		setup, text := "", c.in
		if i := strings.LastIndex(c.in, " \\the"); i >= 0 {
			setup, text = c.in[:i+1], c.in[i+1:]
		}
		res := run(t, setup+"\\edef\\x{"+text+"}")
		if len(res.errors) > 0 {
			t.Errorf("%s: %v", c.in, res.errors[0])
		}
		if got := res.macro("x"); got != c.out {
			t.Errorf("%s: got %q, expected %q", c.in, got, c.out)
		}
	}
}

func TestArithmetic(t *testing.T) {
	res := run(t, "\\count1=7 \\advance\\count1 by 5 \\multiply\\count1 3 "+
		"\\divide\\count1 by 4 "+
		"\\dimen2=3pt \\advance\\dimen2 by 1.5pt \\multiply\\dimen2 by 2 ")
	if n := res.e.Ctx.Count.Get("count1"); n != 9 {
		t.Errorf("\\count1 = %d, expected 9", n)
	}
	if d := res.e.Ctx.Dimen.Get("dimen2"); d != 9*dimen.Unity {
		t.Errorf("\\dimen2 = %s, expected 9.0pt", d)
	}

	res = run(t, "\\count1=1 \\divide\\count1 by 0 ")
	if len(res.errors) != 1 || res.errors[0].Kind != texerr.ArithmeticOverflow {
		t.Errorf("division by zero: got errors %v", res.errors)
	}
	if n := res.e.Ctx.Count.Get("count1"); n != 1 {
		t.Errorf("\\count1 = %d after failed division", n)
	}
}

func TestRegisterDefs(t *testing.T) {
	res := run(t, "\\countdef\\n=5 \\n=17 \\chardef\\c=65 \\count6=\\c "+
		"\\toks0={ab}\\edef\\x{\\the\\toks0}")
	if n := res.e.Ctx.Count.Get("count5"); n != 17 {
		t.Errorf("\\count5 = %d, expected 17", n)
	}
	if n := res.e.Ctx.Count.Get("count6"); n != 65 {
		t.Errorf("\\count6 = %d, expected 65", n)
	}
	if m := res.e.Meaning(token.CS("c")); m != "\\char\"41" {
		t.Errorf("meaning of \\c is %q", m)
	}
	if m := res.e.Meaning(token.CS("n")); m != "\\count5" {
		t.Errorf("meaning of \\n is %q", m)
	}
	if got := res.macro("x"); got != "ab" {
		t.Errorf("\\x = %q, expected \"ab\"", got)
	}
}

func TestChangeCase(t *testing.T) {
	res := run(t, "\\uppercase{\\def\\x{abc}}\\lowercase{\\def\\y{XyZ}}")
	if got := res.macro("x"); got != "ABC" {
		t.Errorf("\\uppercase: got %q", got)
	}
	if got := res.macro("y"); got != "xyz" {
		t.Errorf("\\lowercase: got %q", got)
	}
}

func TestLetAndFuturelet(t *testing.T) {
	res := run(t, "\\let\\a=\\relax \\def\\b{\\futurelet\\c\\relax}\\b x")
	if m := res.e.Meaning(token.CS("a")); m != "\\relax" {
		t.Errorf("meaning of \\a is %q", m)
	}
	if m := res.e.Meaning(token.CS("c")); m != "the letter x" {
		t.Errorf("meaning of \\c is %q", m)
	}
}

func TestBoxes(t *testing.T) {
	res := run(t, "\\setbox1=\\hbox to 20pt{\\kern5pt\\hfil}"+
		"\\dimen0=\\wd1 \\ht1=3pt "+
		"\\setbox2=\\copy1 \\setbox3=\\box1 "+
		"\\setbox4=\\vbox{\\hrule height 2pt depth 0pt\\kern1pt}")
	ctx := res.e.Ctx
	if d := ctx.Dimen.Get("dimen0"); d != 20*dimen.Unity {
		t.Errorf("\\wd1 = %s, expected 20pt", d)
	}
	if ctx.Box.Get("box1") != nil {
		t.Error("\\box1 did not void the register")
	}
	b2, b3 := ctx.Box.Get("box2"), ctx.Box.Get("box3")
	if b2 == nil || b3 == nil {
		t.Fatal("box registers are void")
	}
	if b2 == b3 {
		t.Error("\\copy did not copy the box")
	}
	if b3.Height != 3*dimen.Unity {
		t.Errorf("height %s, expected 3pt", b3.Height)
	}
	if b3.GlueOrder != dimen.Fil {
		t.Errorf("glue order %s, expected fil", b3.GlueOrder)
	}
	b4 := ctx.Box.Get("box4")
	if b4 == nil || b4.Kind != node.VBox || b4.Height != 3*dimen.Unity {
		t.Errorf("wrong vbox %v", b4)
	}
}

func TestBoxVoidingIsNotUndone(t *testing.T) {
	res := run(t, "\\setbox1=\\hbox{}{\\setbox2=\\box1}")
	if res.e.Ctx.Box.Get("box1") != nil {
		t.Error("\\box1 was restored at the end of the group")
	}
}

func TestUnbox(t *testing.T) {
	res := run(t, "\\setbox1=\\hbox{\\kern1pt\\kern2pt}"+
		"\\setbox2=\\hbox{\\unhcopy1\\unhbox1}")
	b2 := res.e.Ctx.Box.Get("box2")
	if b2 == nil || len(b2.List) != 4 || b2.Width != 6*dimen.Unity {
		t.Errorf("wrong box %v", b2)
	}
	if res.e.Ctx.Box.Get("box1") != nil {
		t.Error("\\unhbox did not void the register")
	}

	res = run(t, "\\setbox1=\\vbox{}\\setbox2=\\hbox{\\unhbox1}")
	if len(res.errors) != 1 || res.errors[0].Kind != texerr.ModeMismatch {
		t.Errorf("got errors %v", res.errors)
	}
}

func TestLastItems(t *testing.T) {
	res := run(t, "\\setbox1=\\hbox{\\kern3pt\\global\\dimen0=\\lastkern"+
		"\\hskip 2pt plus 1fil\\global\\skip0=\\lastskip"+
		"\\unskip\\global\\dimen1=\\lastkern"+
		"\\penalty 50 \\global\\count1=\\lastpenalty\\unpenalty}")
	ctx := res.e.Ctx
	if d := ctx.Dimen.Get("dimen0"); d != 3*dimen.Unity {
		t.Errorf("\\lastkern = %s", d)
	}
	if d := ctx.Dimen.Get("dimen1"); d != 3*dimen.Unity {
		t.Errorf("\\lastkern after \\unskip = %s", d)
	}
	if g := ctx.Skip.Get("skip0"); g.String() != "2.0pt plus 1.0fil" {
		t.Errorf("\\lastskip = %s", g)
	}
	if n := ctx.Count.Get("count1"); n != 50 {
		t.Errorf("\\lastpenalty = %d", n)
	}
	if b := ctx.Box.Get("box1"); b == nil || len(b.List) != 1 {
		t.Errorf("wrong box %v", b)
	}
}

func TestShipOut(t *testing.T) {
	res := run(t, "\\shipout\\hbox{\\kern1pt}\\shipout\\vbox{}\\end")
	if len(res.pages.shipped) != 2 {
		t.Fatalf("%d pages shipped, expected 2", len(res.pages.shipped))
	}
	if res.e.Pages() != 2 {
		t.Errorf("page count %d", res.e.Pages())
	}
}

func TestFonts(t *testing.T) {
	res := run(t, "\\font\\big=cmr10 at 20pt \\font\\half=cmr10 scaled 500 "+
		"\\big")
	big := res.e.CurrentFont()
	if big.Size != 20*dimen.Unity {
		t.Errorf("font size %s, expected 20pt", big.Size)
	}
	if m := res.e.Meaning(token.CS("half")); m != "select font cmr10 at 5.0pt" {
		t.Errorf("meaning of \\half is %q", m)
	}
}

func TestCharacters(t *testing.T) {
	res := run(t, "\\font\\f=cmr10 \\f \\setbox1=\\hbox{ab\\char`c}")
	b := res.e.Ctx.Box.Get("box1")
	if b == nil || len(b.List) != 3 {
		t.Fatalf("wrong box %v", b)
	}
	if c, ok := b.List[2].(*node.Char); !ok || c.Code != 'c' {
		t.Errorf("last node is %v", b.List[2])
	}
	if b.Width != 15*dimen.Unity {
		t.Errorf("box width %s, expected 15pt", b.Width)
	}
}

func TestMessages(t *testing.T) {
	res := run(t, "\\def\\x{world}\\message{hello \\x}"+
		"\\show\\x \\count1=5 \\showthe\\count1 ")
	term := res.terminal.String()
	for _, want := range []string{"hello world", "> \\x=macro:\n->world.", "> 5."} {
		if !strings.Contains(term, want) {
			t.Errorf("terminal output %q does not contain %q", term, want)
		}
	}
}

func TestErrMessage(t *testing.T) {
	res := run(t, "\\errhelp{try harder}\\errmessage{oops}")
	if len(res.errors) != 1 {
		t.Fatalf("got %d errors, expected 1", len(res.errors))
	}
	err := res.errors[0]
	if err.Kind != texerr.UserError || err.Message != "oops" || err.Help != "try harder" {
		t.Errorf("wrong error %+v", err)
	}
}

func TestShowBox(t *testing.T) {
	res := run(t, "\\showboxdepth=10 \\showboxbreadth=10 "+
		"\\setbox3=\\hbox{\\kern1pt}\\showbox3 \\showbox4 ")
	l := res.log.String()
	if !strings.Contains(l, "> \\box3=\\hbox(0.0+0.0)x1.0\n.\\kern 1.0") {
		t.Errorf("log %q lacks box 3", l)
	}
	if !strings.Contains(l, "> \\box4=void") {
		t.Errorf("log %q lacks box 4", l)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "in.tex"), []byte("{a\nb}\nc\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(dir, "sub.tex"), []byte("\\count7=3\n\\endinput\n\\count7=4\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	res := runIn(t, dir, "\\openin3=in \\read3 to\\x \\read3 to\\y "+
		"\\ifeof3 \\def\\z{closed}\\else\\def\\z{open}\\fi"+
		"\\immediate\\openout5=out \\immediate\\write5{\\z}"+
		"\\openout6=late \\write6{deferred}\\closeout6 "+
		"\\immediate\\closeout5 \\input sub ")
	if len(res.errors) > 0 {
		t.Fatal(res.errors[0])
	}
	if got := res.macro("x"); got != "{a b} " {
		t.Errorf("\\x = %q", got)
	}
	if got := res.macro("y"); got != "c " {
		t.Errorf("\\y = %q", got)
	}
	if got := res.macro("z"); got != "open" {
		t.Errorf("\\z = %q", got)
	}
	if n := res.e.Ctx.Count.Get("count7"); n != 3 {
		t.Errorf("\\count7 = %d, \\endinput did not stop reading", n)
	}

	out, err := os.ReadFile(filepath.Join(dir, "out.tex"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "open\n" {
		t.Errorf("out.tex contains %q", out)
	}
	late, err := os.ReadFile(filepath.Join(dir, "late.tex"))
	if err != nil {
		t.Fatal(err)
	}
	if string(late) != "deferred\n" {
		t.Errorf("late.tex contains %q", late)
	}
}

func TestInteractionModes(t *testing.T) {
	res := run(t, "\\batchmode")
	if m := res.e.Ctx.Interaction(); m != state.Batch {
		t.Errorf("interaction %s", m)
	}
}
