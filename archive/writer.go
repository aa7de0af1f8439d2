// writer.go -
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

// Package archive stores the pages produced by a typesetting job.
// Every page is rendered in the format of \showbox and written to a
// file whose name is derived from the page contents.  When the job
// ends, a manifest lists the pages in the order they were shipped out.
package archive

import (
	"archive/zip"
	"encoding/base64"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/flate"
	"golang.org/x/crypto/sha3"

	"github.com/seehuhn/gotex/tex/dimen"
	"github.com/seehuhn/gotex/tex/node"
)

const (
	baseNameSpaceURL = "http://gotex.seehuhn.de/"

	manifestName = "manifest.txt"
	finalName    = "final.txt"
)

var (
	ErrClosed   = errors.New("attempt to write to a closed archive")
	ErrVoidPage = errors.New("attempt to ship out a void box")
)

// PageNo is the number of a page, taken from \count0 to \count9.
type PageNo []int64

// String formats a page number the way TeX shows it at shipout time,
// e.g. "1.2".  Trailing zero counters are omitted.
func (p PageNo) String() string {
	n := len(p)
	for n > 1 && p[n-1] == 0 {
		n--
	}
	var parts []string
	for _, k := range p[:n] {
		parts = append(parts, strconv.FormatInt(k, 10))
	}
	return strings.Join(parts, ".")
}

// Page describes one shipped-out page.
type Page struct {
	Number int
	Label  string
	Path   string

	Width, Height, Depth dimen.Scaled
}

// Writer collects the pages of a job.  It implements typeset.Output.
type Writer struct {
	UUID         uuid.UUID
	LastModified string
	JobName      string

	Pages []*Page
	Files map[string]bool
	Final string

	// Numbering, if set, is called at every shipout to find the label
	// of the page.  Otherwise pages are numbered consecutively.
	Numbering func() PageNo

	// ShowDepth and ShowBreadth limit the rendering of pages.
	ShowDepth, ShowBreadth int

	open   bool
	driver driver
}

// NewZipWriter returns a Writer which stores the pages in a zip file.
func NewZipWriter(out io.Writer, identifier string) (*Writer, error) {
	zipFile := zip.NewWriter(out)
	zipFile.RegisterCompressor(zip.Deflate,
		func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, flate.BestCompression)
		})

	// The "mimetype" file must be the first file, and must be
	// uncompressed.
	header := &zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	}
	part, err := zipFile.CreateHeader(header)
	if err != nil {
		return nil, err
	}
	_, err = part.Write([]byte(zipMimeType))
	if err != nil {
		return nil, err
	}

	driver := &zipDriver{
		ZipFile: zipFile,
	}
	return newWriter(driver, identifier), nil
}

// NewDirWriter returns a Writer which stores the pages as files below
// baseDir.
func NewDirWriter(baseDir string, identifier string) (*Writer, error) {
	driver := &dirDriver{
		BaseDir: baseDir,
	}
	return newWriter(driver, identifier), nil
}

func newWriter(driver driver, identifier string) *Writer {
	nameSpace := uuid.NewSHA1(uuid.NameSpaceURL, []byte(baseNameSpaceURL))
	return &Writer{
		UUID:         uuid.NewSHA1(nameSpace, []byte(identifier)),
		LastModified: time.Now().UTC().Format(time.RFC3339),
		JobName:      identifier,

		Files: make(map[string]bool),

		ShowDepth:   math.MaxInt32,
		ShowBreadth: math.MaxInt32,

		open:   true,
		driver: driver,
	}
}

// Labels returns the labels of all pages shipped out so far.
func (w *Writer) Labels() []string {
	var res []string
	for _, p := range w.Pages {
		res = append(res, p.Label)
	}
	return res
}

// ShipOut stores a page.  Pages with identical contents share a file.
func (w *Writer) ShipOut(box *node.Box) error {
	if !w.open {
		return ErrClosed
	}
	if box == nil {
		return ErrVoidPage
	}

	body := node.Show(box, w.ShowDepth, w.ShowBreadth) + "\n"
	path := pageDir + pageName(body) + ".txt"
	if !w.Files[path] {
		err := w.writeFile(path, body)
		if err != nil {
			return err
		}
		w.Files[path] = true
	}

	page := &Page{
		Number: len(w.Pages) + 1,
		Path:   path,
		Width:  box.Width,
		Height: box.Height,
		Depth:  box.Depth,
	}
	if w.Numbering != nil {
		page.Label = w.Numbering().String()
	} else {
		page.Label = strconv.Itoa(page.Number)
	}
	w.Pages = append(w.Pages, page)
	return nil
}

// Close writes the material left on the main vertical list and the
// manifest.  After Close has been called, no more pages can be added.
func (w *Writer) Close(final node.List) error {
	if !w.open {
		return nil
	}
	w.open = false

	if len(final) > 0 {
		body := node.ShowList(final, w.ShowDepth, w.ShowBreadth) + "\n"
		err := w.writeFile(finalName, body)
		if err != nil {
			return err
		}
		w.Final = finalName
	}

	err := w.addFileFromTemplate(manifestName, []string{manifestName}, nil)
	if err != nil {
		return err
	}
	return w.driver.Close()
}

func (w *Writer) writeFile(path, body string) error {
	out, err := w.driver.Create(path)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, body)
	if err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// pageName derives a file name from the contents of a page.
func pageName(body string) string {
	h := sha3.NewShake128()
	h.Write([]byte(body))
	buf := make([]byte, 15)
	h.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
