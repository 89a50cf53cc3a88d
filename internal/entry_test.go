package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/starford/kamiya/internal/commands"
	"github.com/starford/kamiya/internal/testutil"
)

func runApp(t *testing.T, args []string, opts ...Option) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := &cli.Command{
		Name: "kamiya",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config"},
			&cli.BoolFlag{Name: "verbose"},
		},
		Commands:       Commands(opts...),
		Writer:         &stdout,
		ErrWriter:      &stderr,
		ExitErrHandler: commands.ReportError,
	}
	err := root.Run(context.Background(), append([]string{"kamiya"}, args...))
	return stdout.String(), stderr.String(), err
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv(HomeEnv, t.TempDir())
	return NewDefaultConfig()
}

func TestCommands_FirstRunCreatesDatabase(t *testing.T) {
	cfg := testConfig(t)
	clip := &testutil.FakeClipboard{}

	if _, _, err := runApp(t, []string{"take", "hello"}, WithConfig(cfg), WithClipboard(clip)); err != nil {
		t.Fatalf("take: %v", err)
	}
	data, err := os.ReadFile(cfg.Storage.Path())
	if err != nil {
		t.Fatalf("database not created: %v", err)
	}
	if !strings.Contains(string(data), "Note1") {
		t.Errorf("database does not contain Note1:\n%s", data)
	}

	stdout, _, err := runApp(t, []string{"get", "Note1"}, WithConfig(cfg), WithClipboard(clip))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stdout != "hello\n" {
		t.Errorf("stdout = %q, want %q", stdout, "hello\n")
	}
}

func TestCommands_ErrorIsReported(t *testing.T) {
	cfg := testConfig(t)
	_, stderr, err := runApp(t, []string{"rm", "missing"}, WithConfig(cfg), WithClipboard(&testutil.FakeClipboard{}))
	if err == nil {
		t.Fatal("expected error for missing note")
	}
	if !strings.Contains(stderr, "not found") {
		t.Errorf("stderr = %q, want it to mention not found", stderr)
	}
}

func TestCommands_VerboseLogsToStderr(t *testing.T) {
	cfg := testConfig(t)
	stdout, stderr, err := runApp(t, []string{"--verbose", "take", "x"}, WithConfig(cfg), WithClipboard(&testutil.FakeClipboard{}))
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if !strings.Contains(stderr, "level=DEBUG") {
		t.Errorf("stderr has no debug logs: %q", stderr)
	}
	if strings.Contains(stdout, "level=") {
		t.Errorf("logs leaked to stdout: %q", stdout)
	}
}

func TestCommands_ConfigFlag(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())
	dataDir := t.TempDir()
	path := filepath.Join(t.TempDir(), "app.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  dir: "+dataDir+"\n  file: notes.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runApp(t, []string{"--config", path, "take", "x"}, WithClipboard(&testutil.FakeClipboard{})); err != nil {
		t.Fatalf("take: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "notes.json")); err != nil {
		t.Errorf("database not written to configured path: %v", err)
	}

	_, _, err := runApp(t, []string{"--config", filepath.Join(dataDir, "missing.yaml"), "list"})
	if err == nil {
		t.Fatal("explicit missing config should fail")
	}
}

func TestCommands_MigratesLegacyDatabase(t *testing.T) {
	cfg := testConfig(t)
	legacy := filepath.Join(t.TempDir(), "kamiya.yaml")
	if err := os.WriteFile(legacy, []byte("notes: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Storage.LegacyFile = legacy

	stdout, _, err := runApp(t, []string{"editor"}, WithConfig(cfg), WithClipboard(&testutil.FakeClipboard{}))
	if err != nil {
		t.Fatalf("editor: %v", err)
	}
	if !strings.Contains(stdout, legacy+".bak") {
		t.Errorf("stdout = %q, want migration warning", stdout)
	}
	if _, err := os.Stat(legacy); !os.IsNotExist(err) {
		t.Errorf("legacy file still present: %v", err)
	}
}

func TestCommands_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Clipboard.Provider = "telepathy"
	if _, _, err := runApp(t, []string{"list"}, WithConfig(cfg)); err == nil {
		t.Fatal("expected validation error")
	}
}
