// Package print provides the message output functions used across the app.
package print

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	isVerbose  = false
	isColoured = false
	output     = io.Writer(os.Stdout)
	infoStyle  = color.New(color.FgBlack).Add(color.BgYellow)
	warnStyle  = color.New(color.FgBlack).Add(color.BgHiRed)
	erroStyle  = color.New(color.FgRed).Add(color.BgBlack)
)

// SetVerbose activates all the Verb calls
func SetVerbose() {
	isVerbose = true
}

// SetColoured activates ANSI colour codes
func SetColoured() {
	isColoured = true
}

// SetOutput redirects all messages to w, used by command tests to capture
// what would otherwise go to stdout.
func SetOutput(w io.Writer) {
	output = w
}

// Verb prints a message only if verbose mode is set - controlled via the --verbose flag
func Verb(a ...interface{}) {
	if isVerbose {
		Info(a...)
	}
}

// Info is for general purpose messages that are always shown
func Info(a ...interface{}) {
	if isColoured {
		fmt.Fprint(output, infoStyle.Sprint("INFO:"), " ", color.WhiteString(fmt.Sprintln(a...)))
	} else {
		fmt.Fprint(output, "INFO: ", fmt.Sprintln(a...))
	}
}

// Warn is for warnings that do not prevent the operation from finishing
func Warn(a ...interface{}) {
	if isColoured {
		fmt.Fprint(output, warnStyle.Sprint("WARN:"), " ", color.YellowString(fmt.Sprintln(a...)))
	} else {
		fmt.Fprint(output, "WARN: ", fmt.Sprintln(a...))
	}
}

// Erro is for failures that abort the operation
func Erro(a ...interface{}) {
	if isColoured {
		fmt.Fprint(output, erroStyle.Sprint("ERROR:"), " ", color.RedString(fmt.Sprintln(a...)))
	} else {
		fmt.Fprint(output, "ERROR: ", fmt.Sprintln(a...))
	}
}
