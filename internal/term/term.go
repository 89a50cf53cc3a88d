// Package term renders user-facing command output.
package term

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Printer writes styled messages. Regular output goes to out, failures to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

// New creates a Printer.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

// Out returns the writer for regular output.
func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", success.Render(SymbolSuccess), bold.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Work(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", muted.Render(SymbolWork), fmt.Sprintf(format, args...))
}

func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", accent.Render(SymbolInfo), fmt.Sprintf(format, args...))
}

func (p *Printer) Hint(format string, args ...any) {
	fmt.Fprintln(p.out, muted.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", warning.Render(SymbolWarning), fmt.Sprintf(format, args...))
}

// Fatal reports a failure on the error writer.
func (p *Printer) Fatal(format string, args ...any) {
	fmt.Fprintf(p.errOut, "%s %s\n", failure.Render(SymbolError), fmt.Sprintf(format, args...))
}

func (p *Printer) Title(format string, args ...any) {
	fmt.Fprintln(p.out, bold.Render(fmt.Sprintf(format, args...)))
}

// ListItem prints a note name with its optional description.
func (p *Printer) ListItem(name, description string) {
	if description == "" {
		fmt.Fprintf(p.out, "  %s %s\n", muted.Render(SymbolItem), accent.Render(name))
		return
	}
	fmt.Fprintf(p.out, "  %s %s %s\n", muted.Render(SymbolItem), accent.Render(name), muted.Render(description))
}

// Match prints name with every occurrence of pattern underlined.
func (p *Printer) Match(name, pattern string) {
	highlighted := name
	if pattern != "" {
		highlighted = strings.ReplaceAll(name, pattern, under.Render(pattern))
	}
	fmt.Fprintf(p.out, "  %s %s\n", muted.Render(SymbolItem), highlighted)
}

// Data prints a key/value line.
func (p *Printer) Data(key, value string) {
	fmt.Fprintf(p.out, "  %s %s\n", bold.Render(key+":"), value)
}

// Plain prints text as is, followed by a newline.
func (p *Printer) Plain(text string) {
	fmt.Fprintln(p.out, text)
}

// Prompter asks yes/no questions.
type Prompter interface {
	AskYesNo(question string, def bool) bool
}

// LinePrompter reads answers line by line. When not interactive it answers
// every question with the default without reading.
type LinePrompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewLinePrompter creates a prompter on in/out.
func NewLinePrompter(in io.Reader, out io.Writer, interactive bool) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

// NewStdPrompter prompts on the process terminal, if there is one.
func NewStdPrompter() *LinePrompter {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	return NewLinePrompter(os.Stdin, os.Stdout, interactive)
}

// AskYesNo implements Prompter. An empty answer selects def.
func (lp *LinePrompter) AskYesNo(question string, def bool) bool {
	if !lp.interactive {
		return def
	}
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	fmt.Fprintf(lp.out, "%s %s ", question, muted.Render(hint))
	line, err := lp.in.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}
