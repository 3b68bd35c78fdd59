package config

import (
	"path/filepath"
	"testing"
)

func TestLanguagesMatch(t *testing.T) {
	cfg := DefaultLanguages()

	cases := []struct {
		path string
		want string
	}{
		{"hello.py", "python"},
		{"/tmp/dir/TOOL.PYW", "python"},
		{"build.sh", "bash"},
		{"main.go", "go"},
		{"notes.txt", ""},
	}
	for _, tt := range cases {
		got := cfg.Match(tt.path)
		name := ""
		if got != nil {
			name = got.Name
		}
		if name != tt.want {
			t.Fatalf("Match(%q) = %q, want %q", tt.path, name, tt.want)
		}
	}
}

func TestLanguageExtension(t *testing.T) {
	if got := (Language{FileTypes: []string{"py", "pyw"}}).Extension(); got != ".py" {
		t.Fatalf("Extension = %q, want .py", got)
	}
	if got := (Language{FileTypes: []string{"go.mod", ".go"}}).Extension(); got != ".go" {
		t.Fatalf("Extension = %q, want .go", got)
	}
	if got := (Language{}).Extension(); got != "" {
		t.Fatalf("Extension = %q, want empty", got)
	}
}

func TestDefaultPythonKeywords(t *testing.T) {
	py := DefaultLanguages().ByName("python")
	if py == nil {
		t.Fatalf("python language missing")
	}
	if len(py.Keywords) != 35 {
		t.Fatalf("python keywords = %d, want 35", len(py.Keywords))
	}
	if py.Interpreter != "python3" {
		t.Fatalf("python interpreter = %q, want python3", py.Interpreter)
	}
}

func TestLoadLanguagesOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CNVCODE_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "languages.toml"), `
[[language]]
name = "python"
interpreter = "pypy3"

[[language]]
name = "lua"
file-types = ["lua"]
interpreter = "lua"
keywords = ["local", "function", "end"]
`)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	py := cfg.ByName("python")
	if py == nil || py.Interpreter != "pypy3" {
		t.Fatalf("python = %#v, want interpreter pypy3", py)
	}
	if len(py.Keywords) != 35 {
		t.Fatalf("python keywords = %d, want built-in 35", len(py.Keywords))
	}
	if got := cfg.Match("init.lua"); got == nil || got.Name != "lua" {
		t.Fatalf("Match init.lua = %#v, want lua", got)
	}
}

func TestLoadLanguagesMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CNVCODE_CONFIG_HOME", dir)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if len(cfg.Languages) != 3 {
		t.Fatalf("Languages len = %d, want 3", len(cfg.Languages))
	}
}
