// Package clipboard reads and writes the system clipboard through a native
// binding or the platform's command-line tools.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/starford/kamiya/internal/apperr"
	"github.com/starford/kamiya/internal/platform"
)

// Provider kinds accepted in configuration.
const (
	KindAuto    = "auto"
	KindNative  = "native"
	KindXClip   = "xclip"
	KindWayland = "wl-clipboard"
	KindPbcopy  = "pbcopy"
	KindWindows = "windows"
)

// Kinds lists every accepted provider kind.
var Kinds = []string{KindAuto, KindNative, KindXClip, KindWayland, KindPbcopy, KindWindows}

// Provider sets and gets the clipboard text.
type Provider interface {
	Set(ctx context.Context, text string) error
	Get(ctx context.Context) (string, error)
	Name() string
}

// New returns the provider for kind. KindAuto picks one from info.
func New(kind string, info platform.Info) (Provider, error) {
	if kind == "" || kind == KindAuto {
		kind = detect(info)
	}
	switch kind {
	case KindNative:
		return Native{}, nil
	case KindXClip:
		return XClip(), nil
	case KindWayland:
		return WlClipboard(), nil
	case KindPbcopy:
		return Pbcopy(), nil
	case KindWindows:
		return WindowsClip(), nil
	default:
		return nil, fmt.Errorf("clipboard: unknown provider %q: %w", kind, apperr.ErrInvalidInput)
	}
}

func detect(info platform.Info) string {
	switch info.OS {
	case platform.Linux:
		switch info.Session {
		case platform.SessionWayland:
			return KindWayland
		case platform.SessionX11:
			return KindXClip
		}
	case platform.Mac:
		return KindPbcopy
	case platform.Windows:
		return KindWindows
	}
	return KindNative
}

// writeAll and readAll are package-level variables to allow mocking in tests.
var (
	writeAll = clipboard.WriteAll
	readAll  = clipboard.ReadAll
)

// Native uses the atotto/clipboard binding, which itself shells out on Unix.
type Native struct{}

// Name implements Provider.
func (Native) Name() string { return KindNative }

// Set implements Provider.
func (Native) Set(_ context.Context, text string) error {
	if err := writeAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w: %w", apperr.ErrExternalProcess, err)
	}
	return nil
}

// Get implements Provider.
func (Native) Get(_ context.Context) (string, error) {
	text, err := readAll()
	if err != nil {
		return "", fmt.Errorf("clipboard: read: %w: %w", apperr.ErrExternalProcess, err)
	}
	return text, nil
}

// Command drives a pair of clipboard executables. Text is passed on stdin and
// read from stdout; it is never interpolated into a shell command line.
type Command struct {
	name        string
	setArgv     []string
	getArgv     []string
	trimNewline bool
}

// NewCommand builds a provider from explicit set and get command lines.
func NewCommand(name string, setArgv, getArgv []string) *Command {
	return &Command{name: name, setArgv: setArgv, getArgv: getArgv}
}

// XClip uses xclip on X11 sessions.
func XClip() *Command {
	return NewCommand(KindXClip,
		[]string{"xclip", "-i", "-selection", "clipboard"},
		[]string{"xclip", "-o", "-selection", "clipboard"})
}

// WlClipboard uses wl-copy and wl-paste on Wayland sessions.
func WlClipboard() *Command {
	return NewCommand(KindWayland,
		[]string{"wl-copy"},
		[]string{"wl-paste", "--no-newline"})
}

// Pbcopy uses pbcopy and pbpaste on macOS.
func Pbcopy() *Command {
	return NewCommand(KindPbcopy, []string{"pbcopy"}, []string{"pbpaste"})
}

// WindowsClip uses clip.exe to set and PowerShell to get.
func WindowsClip() *Command {
	c := NewCommand(KindWindows,
		[]string{"clip"},
		[]string{"powershell.exe", "-NoProfile", "-Command", "Get-Clipboard"})
	c.trimNewline = true
	return c
}

// Name implements Provider.
func (c *Command) Name() string { return c.name }

// Set implements Provider.
func (c *Command) Set(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, c.setArgv[0], c.setArgv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return c.wrap("set", err, stderr.String())
	}
	return nil
}

// Get implements Provider.
func (c *Command) Get(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.getArgv[0], c.getArgv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", c.wrap("get", err, stderr.String())
	}
	out := stdout.String()
	if c.trimNewline {
		out = strings.TrimSuffix(out, "\r\n")
	}
	return out, nil
}

func (c *Command) wrap(op string, err error, stderr string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("clipboard: %s: %s is not installed: %w", op, c.name, apperr.ErrExternalProcess)
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("clipboard: %s via %s: %w: %v: %s", op, c.name, apperr.ErrExternalProcess, err, msg)
	}
	return fmt.Errorf("clipboard: %s via %s: %w: %v", op, c.name, apperr.ErrExternalProcess, err)
}
