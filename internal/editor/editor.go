// Package editor round-trips text through an external editor process.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/gosimple/slug"

	"github.com/starford/kamiya/internal/apperr"
)

// Runner launches an editor on a file and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, editor, path string) error
}

// ExecRunner runs the editor as a child process with the given stdio.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's own terminal.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run implements Runner.
//
// An editor value containing spaces (for example "code --wait") is run
// through the shell so its arguments are honoured.
func (r *ExecRunner) Run(ctx context.Context, editor, path string) error {
	var cmd *exec.Cmd
	if strings.Contains(editor, " ") && runtime.GOOS != "windows" {
		cmd = exec.CommandContext(ctx, "sh", "-c", editor+" "+shellQuote(path))
	} else {
		cmd = exec.CommandContext(ctx, editor, path)
	}
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(err, exec.ErrNotFound):
			return fmt.Errorf("editor %q not found: %w", editor, apperr.ErrExternalProcess)
		case errors.As(err, &exitErr):
			return fmt.Errorf("editor %q exited with status %d: %w", editor, exitErr.ExitCode(), apperr.ErrExternalProcess)
		default:
			return fmt.Errorf("launch editor %q: %w: %v", editor, apperr.ErrExternalProcess, err)
		}
	}
	return nil
}

// shellQuote quotes a string for safe use in shell commands.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\"'\"'") + "'"
}

// Edit writes content to a temporary file in dir, runs editor on it and
// returns the file's content after the editor exits successfully. The
// temporary file is removed whether or not the edit succeeds.
func Edit(ctx context.Context, runner Runner, editor, dir, name, content string) (string, error) {
	if editor == "" {
		return "", fmt.Errorf("editor is not set: %w", apperr.ErrInvalidInput)
	}
	if dir == "" {
		dir = os.TempDir()
	}

	pattern := "kamiya-*.txt"
	if s := slug.Make(name); s != "" {
		pattern = "kamiya-*-" + s + ".txt"
	}
	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w: %w", apperr.ErrStorageIO, err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	_, werr := tmp.WriteString(content)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return "", fmt.Errorf("write temp file: %w: %w", apperr.ErrStorageIO, err)
	}

	if err := runner.Run(ctx, editor, path); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read temp file: %w: %w", apperr.ErrStorageIO, err)
	}
	return string(edited), nil
}
