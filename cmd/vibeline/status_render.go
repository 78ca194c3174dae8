package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"vibeline/internal/preflight"
)

// level drives both the bracketed tag and the terminal colour of a line.
type level uint8

const (
	levelInfo level = iota
	levelOK
	levelWarn
	levelError
)

var levelTags = map[level]string{
	levelInfo:  "INFO",
	levelOK:    "OK",
	levelWarn:  "WARN",
	levelError: "ERROR",
}

var levelColors = map[level]string{
	levelInfo:  "\x1b[34m",
	levelOK:    "\x1b[32m",
	levelWarn:  "\x1b[33m",
	levelError: "\x1b[31m",
}

const colorReset = "\x1b[0m"

const labelColumn = 16

// statusWriter prints the sectioned "label: [TAG] detail" report used by
// status and check. Colour is only applied when out is a terminal.
type statusWriter struct {
	out   io.Writer
	color bool
}

func newStatusWriter(out io.Writer) *statusWriter {
	return &statusWriter{out: out, color: isTerminal(out)}
}

func (w *statusWriter) section(title string) {
	heading := "== " + strings.TrimSpace(title) + " =="
	underline := strings.Repeat("-", len(heading))
	fmt.Fprintln(w.out, w.paint(levelInfo, heading))
	fmt.Fprintln(w.out, w.paint(levelInfo, underline))
}

func (w *statusWriter) line(label string, lvl level, detail string) {
	fmt.Fprintln(w.out, w.paint(lvl, formatStatusLine(label, lvl, detail)))
}

// check prints a preflight result; a failing result is shown at onFail.
func (w *statusWriter) check(result preflight.Result, onFail level) {
	lvl := levelOK
	if !result.Passed {
		lvl = onFail
	}
	w.line(result.Name, lvl, result.Detail)
}

func (w *statusWriter) text(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// block writes pre-rendered output such as a table unchanged.
func (w *statusWriter) block(s string) {
	fmt.Fprint(w.out, s)
}

func (w *statusWriter) blank() {
	fmt.Fprintln(w.out)
}

func (w *statusWriter) paint(lvl level, s string) string {
	if !w.color {
		return s
	}
	return levelColors[lvl] + s + colorReset
}

func formatStatusLine(label string, lvl level, detail string) string {
	tag := "[" + levelTags[lvl] + "]"
	if detail != "" {
		tag += " " + detail
	}
	return fmt.Sprintf("  %-*s %s", labelColumn, label+":", tag)
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
