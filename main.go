// main.go -
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

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/seehuhn/gotex/archive"
	"github.com/seehuhn/gotex/tex/engine"
	"github.com/seehuhn/gotex/tex/primitives"
	"github.com/seehuhn/gotex/tex/scanner"
	"github.com/seehuhn/gotex/tex/state"
)

const usage = `gotex

Usage:
  gotex [options] [INPUT]
  gotex -h

Arguments:
  INPUT  The input file.  Without INPUT, lines are read from the terminal.

Options:
  -o, --output=FILE        Write the pages to a zip file.
  -d, --dir=DIR            Write the pages as files below DIR.
  -i, --interaction=MODE   One of batch, nonstop, scroll or errorstop.
  -j, --jobname=NAME       The name of the job.
  -t, --trace=PATTERN      Only trace control sequences matching PATTERN.
  --max-depth=N            Maximal number of nested input levels.
  -h, --help               Display this help.

Unless --output or --dir is given, the pages are written to JOBNAME.zip.
Output files are placed in the directory given by GOTEX_OUTPUT_DIR, or
in the current directory if this is not set.
`

var interactionNames = map[string]state.Interaction{
	"batch":     state.Batch,
	"nonstop":   state.Nonstop,
	"scroll":    state.Scroll,
	"errorstop": state.ErrorStop,
}

// jobFS reads input files relative to the input file and creates
// output files in the output directory.
type jobFS struct {
	in, out engine.FileSystem
}

func (fs jobFS) Open(name string) (io.ReadCloser, string, error) {
	return fs.in.Open(name)
}

func (fs jobFS) Create(name string) (io.WriteCloser, error) {
	return fs.out.Create(name)
}

// pageWriter is an archive which must be closed after the job.
type pageWriter struct {
	*archive.Writer
	file *os.File
}

func main() {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(run(opts))
}

// run executes the job and returns the exit status.
func run(opts docopt.Opts) int {
	var err error

	inputName, _ := opts.String("INPUT")
	jobName, _ := opts.String("--jobname")
	if jobName == "" && inputName != "" {
		jobName = strings.TrimSuffix(filepath.Base(inputName), ".tex")
	}
	if jobName == "" {
		jobName = "texput"
	}

	outDir := os.Getenv("GOTEX_OUTPUT_DIR")
	if outDir == "" {
		outDir = "."
	}
	err = os.MkdirAll(outDir, 0755)
	if err != nil {
		log.Fatal(err)
	}

	interaction := state.ErrorStop
	if name, _ := opts.String("--interaction"); name != "" {
		mode, ok := interactionNames[name]
		if !ok {
			log.Fatal("unknown interaction mode ", name)
		}
		interaction = mode
	}

	maxDepth := 0
	if s, _ := opts.String("--max-depth"); s != "" {
		maxDepth, err = strconv.Atoi(s)
		if err != nil || maxDepth <= 0 {
			log.Fatal("invalid --max-depth ", s)
		}
	}

	logFile, err := os.Create(filepath.Join(outDir, jobName+".log"))
	if err != nil {
		log.Fatal(err)
	}
	defer logFile.Close()
	transcript := log.New(logFile, "", 0)

	out, err := openOutput(opts, outDir, jobName)
	if err != nil {
		log.Fatal(err)
	}
	if out.file != nil {
		defer out.file.Close()
	}

	inDir := "."
	if inputName != "" {
		inDir = filepath.Dir(inputName)
	}
	conf := &engine.Config{
		Log:      transcript,
		Terminal: os.Stdout,
		Files: jobFS{
			in:  engine.DirFS(inDir),
			out: engine.DirFS(outDir),
		},
		Output:        out,
		JobName:       jobName,
		MaxInputDepth: maxDepth,
		Interaction:   interaction,
	}
	conf.TracePattern, _ = opts.String("--trace")

	stdin := os.Stdin.Fd()
	interactive := isatty.IsTerminal(stdin) || isatty.IsCygwinTerminal(stdin)
	var line *liner.State
	if interactive {
		line = liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)
		conf.ReadLine = line.Prompt
		if width, _, err := term.GetSize(int(stdin)); err == nil && width > 0 {
			conf.ContextWidth = width / 2
		}
	}
	reporter := engine.NewReporter(transcript, os.Stdout, interactive)
	conf.Reporter = reporter

	e := engine.New(conf)
	primitives.Load(e)
	out.Numbering = func() archive.PageNo { return e.PageNumbers() }

	switch {
	case inputName != "":
		err = e.PushFile(filepath.Base(inputName))
	case interactive:
		prompt := "**"
		err = e.PushSource(scanner.NewLineSource("<terminal>", func() (string, error) {
			s, err := line.Prompt(prompt)
			prompt = "*"
			if err == liner.ErrPromptAborted {
				return "", io.EOF
			}
			return s, err
		}))
	default:
		err = e.PushSource(scanner.NewSource("<stdin>", os.Stdin))
	}
	if err != nil {
		log.Fatal(err)
	}

	err = e.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if n := len(out.Pages); n > 0 {
		fmt.Printf("Output written (%d page%s).\n", n, plural(n))
	} else {
		fmt.Println("No pages of output.")
	}
	fmt.Printf("Transcript written on %s.\n", logFile.Name())

	switch reporter.History {
	case engine.Spotless, engine.WarningIssued:
		return 0
	case engine.ErrorMessageIssued:
		return 1
	default:
		return 2
	}
}

func openOutput(opts docopt.Opts, outDir, jobName string) (*pageWriter, error) {
	if dir, _ := opts.String("--dir"); dir != "" {
		w, err := archive.NewDirWriter(dir, jobName)
		if err != nil {
			return nil, err
		}
		return &pageWriter{Writer: w}, nil
	}

	name, _ := opts.String("--output")
	if name == "" {
		name = filepath.Join(outDir, jobName+".zip")
	}
	fd, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	w, err := archive.NewZipWriter(fd, jobName)
	if err != nil {
		fd.Close()
		return nil, err
	}
	return &pageWriter{Writer: w, file: fd}, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
