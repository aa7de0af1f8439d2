// report.go -
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
	"fmt"
	"io"
	"log"

	"github.com/seehuhn/gotex/tex/state"
	"github.com/seehuhn/gotex/tex/texerr"
)

// Reporter is told about every error found during a job.
type Reporter interface {
	// Report handles err.  If the result is true, the job stops.
	Report(err *texerr.Error, mode state.Interaction) (halt bool)
}

// Warner is implemented by reporters which want to see warnings.
type Warner interface {
	Warn(msg string)
}

// History summarises how well a job went.
type History int

// The possible values of History, from best to worst.
const (
	Spotless History = iota
	WarningIssued
	ErrorMessageIssued
	FatalErrorStop
)

func (h History) String() string {
	switch h {
	case Spotless:
		return "spotless"
	case WarningIssued:
		return "warning issued"
	case ErrorMessageIssued:
		return "error message issued"
	default:
		return "fatal error"
	}
}

// MaxErrors is the number of errors after which a job gives up.
const MaxErrors = 100

// DefaultReporter writes errors to the log and to the terminal.
type DefaultReporter struct {
	Log      *log.Logger
	Terminal io.Writer

	// Interactive is set if a user could answer questions.  Without a
	// user, errorstop mode stops at the first error.
	Interactive bool

	History History
	Count   int
}

// NewReporter returns a reporter which writes to the given log and
// terminal.
func NewReporter(l *log.Logger, terminal io.Writer, interactive bool) *DefaultReporter {
	return &DefaultReporter{
		Log:         l,
		Terminal:    terminal,
		Interactive: interactive,
	}
}

// Report implements the Reporter interface.
func (r *DefaultReporter) Report(err *texerr.Error, mode state.Interaction) bool {
	msg := err.Error()
	if err.Help != "" && mode != state.ErrorStop {
		msg += "\n" + err.Help
	}
	r.Log.Println(msg)
	if mode != state.Batch {
		fmt.Fprintln(r.Terminal, err.Error())
	}

	if err.Kind.Fatal() {
		r.History = FatalErrorStop
		return true
	}
	r.History = max(r.History, ErrorMessageIssued)
	r.Count++
	if r.Count >= MaxErrors {
		r.Log.Println("(That makes 100 errors; please try again.)")
		r.History = FatalErrorStop
		return true
	}
	if mode == state.ErrorStop && !r.Interactive {
		r.Log.Println("*** (job aborted, no legal \\end found)")
		r.History = FatalErrorStop
		return true
	}
	return false
}

// Warn implements the Warner interface.
func (r *DefaultReporter) Warn(msg string) {
	r.Log.Println(msg)
	r.History = max(r.History, WarningIssued)
}
