package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "kamiya")
	path := writeFile(t, "name: ${SAMPLE_NAME}\ncount: 3\n")

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Name != "kamiya" || s.Count != 3 {
		t.Errorf("got %+v, want {kamiya 3}", s)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeFile(t, "count: 1\n")
	var s sample
	err := Load(path, &s)
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("err = %v, want validation failure", err)
	}
}

func TestLoadOptional_MissingKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Count: 7}
	found, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &s)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Error("found = true, want false")
	}
	if s.Name != "default" || s.Count != 7 {
		t.Errorf("got %+v, want defaults", s)
	}
}

func TestLoadOptional_OverridesDefaults(t *testing.T) {
	path := writeFile(t, "count: 9\n")
	s := sample{Name: "default", Count: 7}
	found, err := LoadOptional(path, &s)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Error("found = false, want true")
	}
	if s.Name != "default" || s.Count != 9 {
		t.Errorf("got %+v, want {default 9}", s)
	}
}

func TestLoadOptional_Malformed(t *testing.T) {
	path := writeFile(t, "name: [unterminated\n")
	var s sample
	if _, err := LoadOptional(path, &s); err == nil {
		t.Fatal("expected parse error")
	}
}
