// Package kitelog provides the logger carried by kitectx.Context.
package kitelog

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
)

var flags = log.LstdFlags | log.Lshortfile | log.Lmicroseconds

// Interface is satisfied by *Logger and *log.Logger
type Interface interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// Logger wraps a standard logger so that library code can log through a context
// without choosing a destination.
type Logger struct {
	Default *log.Logger
	// Verbose enables Debugf output
	Verbose bool
}

// Basic logs to stderr
var Basic = New(os.Stderr, "")

// Discard drops everything
var Discard = New(ioutil.Discard, "")

// New creates a logger writing to w with the given prefix
func New(w io.Writer, prefix string) *Logger {
	return &Logger{
		Default: log.New(w, prefix, flags),
	}
}

// Printf logs a formatted line
func (l *Logger) Printf(format string, v ...interface{}) {
	if l == nil || l.Default == nil {
		return
	}
	l.Default.Output(2, fmt.Sprintf(format, v...))
}

// Println logs its arguments
func (l *Logger) Println(v ...interface{}) {
	if l == nil || l.Default == nil {
		return
	}
	l.Default.Output(2, fmt.Sprintln(v...))
}

// Debugf logs only when the logger is verbose
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l == nil || l.Default == nil || !l.Verbose {
		return
	}
	l.Default.Output(2, fmt.Sprintf(format, v...))
}

// WithVerbose returns a copy of l with verbosity set
func (l *Logger) WithVerbose(verbose bool) *Logger {
	out := *l
	out.Verbose = verbose
	return &out
}
