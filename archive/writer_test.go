// writer_test.go -
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

package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/node"
)

func testPage(width dimen.Scaled) *node.Box {
	return &node.Box{
		Kind:   node.VBox,
		Width:  width,
		Height: dimen.Pt(10),
		List:   node.List{&node.Kern{Width: dimen.Pt(3)}},
	}
}

func TestZipWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w, err := NewZipWriter(buf, "ziptest")
	if err != nil {
		t.Fatal(err)
	}
	for _, width := range []dimen.Scaled{dimen.Pt(1), dimen.Pt(2), dimen.Pt(1)} {
		err = w.ShipOut(testPage(width))
		if err != nil {
			t.Fatal(err)
		}
	}
	err = w.Close(node.List{&node.Kern{Width: dimen.Pt(5), Explicit: true}})
	if err != nil {
		t.Fatal(err)
	}

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.File) == 0 || r.File[0].Name != "mimetype" {
		t.Fatal("mimetype is not the first file")
	}
	if r.File[0].Method != zip.Store {
		t.Error("mimetype is compressed")
	}

	files := map[string]string{}
	for _, f := range r.File {
		in, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		body, err := io.ReadAll(in)
		in.Close()
		if err != nil {
			t.Fatal(err)
		}
		files[f.Name] = string(body)
	}

	// identical pages share a file
	var pages int
	for name := range files {
		if strings.HasPrefix(name, pageDir) {
			pages++
		}
	}
	if pages != 2 {
		t.Errorf("found %d page files, expected 2", pages)
	}
	if w.Pages[0].Path != w.Pages[2].Path {
		t.Errorf("identical pages stored as %s and %s",
			w.Pages[0].Path, w.Pages[2].Path)
	}

	manifest := files[manifestName]
	if !strings.Contains(manifest, "uuid urn:uuid:"+w.UUID.String()) {
		t.Errorf("manifest does not name the job UUID:\n%s", manifest)
	}
	if !strings.Contains(manifest, "pages 1, 2 and 3") {
		t.Errorf("manifest summary missing:\n%s", manifest)
	}
	if !strings.Contains(manifest, "final "+finalName) {
		t.Errorf("manifest does not list the final material:\n%s", manifest)
	}
	if !strings.Contains(files[finalName], "\\kern 5.0") {
		t.Errorf("final list %q", files[finalName])
	}
}

func TestDirWriter(t *testing.T) {
	dir := t.TempDir()
	w, err := NewDirWriter(dir, "dirtest")
	if err != nil {
		t.Fatal(err)
	}
	w.Numbering = func() PageNo { return PageNo{7, 2, 0, 0} }
	err = w.ShipOut(testPage(dimen.Pt(4)))
	if err != nil {
		t.Fatal(err)
	}
	err = w.Close(nil)
	if err != nil {
		t.Fatal(err)
	}

	body, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(w.Pages[0].Path)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(body), "\\vbox(10.0+0.0)x4.0") {
		t.Errorf("page contents %q", body)
	}

	manifest, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(manifest), "[7.2] "+w.Pages[0].Path) {
		t.Errorf("wrong manifest:\n%s", manifest)
	}
	if strings.Contains(string(manifest), "final") {
		t.Errorf("manifest mentions an empty final list:\n%s", manifest)
	}
	if _, err := os.Stat(filepath.Join(dir, finalName)); err == nil {
		t.Error("final list written for an empty list")
	}

	if err := w.ShipOut(testPage(dimen.Pt(1))); err != ErrClosed {
		t.Errorf("ShipOut after Close returned %v", err)
	}
}

func TestUUIDStable(t *testing.T) {
	w1 := newWriter(&dirDriver{}, "job")
	w2 := newWriter(&dirDriver{}, "job")
	w3 := newWriter(&dirDriver{}, "other")
	if w1.UUID != w2.UUID {
		t.Error("UUID depends on more than the identifier")
	}
	if w1.UUID == w3.UUID {
		t.Error("different jobs share a UUID")
	}
}

func TestPageNo(t *testing.T) {
	cases := []struct {
		in  PageNo
		out string
	}{
		{PageNo{1}, "1"},
		{PageNo{1, 0, 0}, "1"},
		{PageNo{0, 0}, "0"},
		{PageNo{3, 0, 2}, "3.0.2"},
		{PageNo{-1, 4}, "-1.4"},
	}
	for _, c := range cases {
		if s := c.in.String(); s != c.out {
			t.Errorf("%v: got %q, expected %q", []int64(c.in), s, c.out)
		}
	}
}

func TestFormatList(t *testing.T) {
	cases := []struct {
		in  []string
		out string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a and b"},
		{[]string{"a", "b", "c"}, "a, b and c"},
	}
	for _, c := range cases {
		if s := templateFormatList(c.in); s != c.out {
			t.Errorf("%v: got %q, expected %q", c.in, s, c.out)
		}
	}
}
