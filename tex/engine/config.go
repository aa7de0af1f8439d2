// config.go -
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
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/seehuhn/gotex/tex/font"
	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/typeset"
)

// FileSystem gives access to input files and auxiliary output files.
type FileSystem interface {
	// Open opens an input file.
	Open(name string) (io.ReadCloser, string, error)

	// Create creates an output file for \openout.
	Create(name string) (io.WriteCloser, error)
}

// Config holds everything a job needs from the outside world.  A Config
// is set up once per job and must not be shared between jobs.
type Config struct {
	// Log receives the transcript of the job.
	Log *log.Logger

	// Terminal receives the output of \message and friends.
	Terminal io.Writer

	// ReadLine reads a line from the terminal, for \read from a closed
	// stream.  If ReadLine is nil, terminal input is not available.
	ReadLine func(prompt string) (string, error)

	Files FileSystem
	Fonts font.Loader

	// Output receives pages from \shipout and the final vertical list.
	Output typeset.Output

	// Reporter decides what happens after an error.
	Reporter Reporter

	JobName string

	// MaxInputDepth limits the number of nested input layers.
	MaxInputDepth int

	// MaxExpandDepth limits the nesting of expansions which have not
	// finished yet, and the number of open conditionals.
	MaxExpandDepth int

	// TracePattern restricts tracing output to control sequence names
	// which match this glob pattern.
	TracePattern string

	Interaction state.Interaction

	// ContextWidth is the number of characters of input shown in error
	// messages.
	ContextWidth int
}

// DefaultMaxInputDepth is used if Config.MaxInputDepth is zero.
const DefaultMaxInputDepth = 5000

// DefaultMaxExpandDepth is used if Config.MaxExpandDepth is zero.
const DefaultMaxExpandDepth = 5000

func (conf *Config) setDefaults() {
	if conf.Log == nil {
		conf.Log = log.New(io.Discard, "", 0)
	}
	if conf.Terminal == nil {
		conf.Terminal = io.Discard
	}
	if conf.Files == nil {
		conf.Files = DirFS(".")
	}
	if conf.Fonts == nil {
		conf.Fonts = font.FixedLoader{}
	}
	if conf.Reporter == nil {
		conf.Reporter = NewReporter(conf.Log, conf.Terminal, conf.ReadLine != nil)
	}
	if conf.JobName == "" {
		conf.JobName = "texput"
	}
	if conf.MaxInputDepth == 0 {
		conf.MaxInputDepth = DefaultMaxInputDepth
	}
	if conf.MaxExpandDepth == 0 {
		conf.MaxExpandDepth = DefaultMaxExpandDepth
	}
}

// DirFS returns a FileSystem which reads and writes files in dir.
func DirFS(dir string) FileSystem {
	return dirFS(dir)
}

type dirFS string

func (dir dirFS) Open(name string) (io.ReadCloser, string, error) {
	fileName := filepath.Join(string(dir), filepath.FromSlash(name))
	fd, err := os.Open(fileName)
	if os.IsNotExist(err) && filepath.Ext(fileName) == "" {
		fd, err = os.Open(fileName + ".tex")
	}
	if err != nil {
		return nil, "", err
	}
	return fd, filepath.Base(fd.Name()), nil
}

func (dir dirFS) Create(name string) (io.WriteCloser, error) {
	if filepath.Ext(name) == "" {
		name += ".tex"
	}
	return os.Create(filepath.Join(string(dir), filepath.FromSlash(name)))
}
