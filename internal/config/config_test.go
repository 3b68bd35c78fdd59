package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("CNVCODE_CONFIG_HOME", "/tmp/cnvcode-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/cnvcode-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/cnvcode-config")
	}

	t.Setenv("CNVCODE_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/cnvcode" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/cnvcode")
	}
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	t.Setenv("CNVCODE_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.DefaultLanguage != "python" {
		t.Fatalf("DefaultLanguage = %q, want python", cfg.Editor.DefaultLanguage)
	}
	if cfg.Editor.Highlighter != "keywords" {
		t.Fatalf("Highlighter = %q, want keywords", cfg.Editor.Highlighter)
	}
	if !cfg.Editor.AutoCloseEnabled() {
		t.Fatalf("AutoCloseEnabled = false, want true")
	}
	if d, err := cfg.Run.TimeoutDuration(); err != nil || d != 0 {
		t.Fatalf("TimeoutDuration = %v, %v; want 0, nil", d, err)
	}
	if cfg.Keymap["f5"] != "run" {
		t.Fatalf("keymap f5 = %q, want run", cfg.Keymap["f5"])
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CNVCODE_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
foreground = "#111111"
background = "#222222"
statusline-foreground = "#333333"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
tab-width = 8
line-numbers = "relative"
highlighter = "syntax"
output-height = 6
auto-close = false

[run]
interpreter = "python3.12"
timeout = "30s"

[theme]
theme = "test"
syntax-keyword = "#123456"

[keymap]
f9 = "run"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Fatalf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.LineNumbers != "relative" {
		t.Fatalf("LineNumbers = %q, want %q", cfg.Editor.LineNumbers, "relative")
	}
	if cfg.Editor.Highlighter != "syntax" {
		t.Fatalf("Highlighter = %q, want syntax", cfg.Editor.Highlighter)
	}
	if cfg.Editor.OutputHeight != 6 {
		t.Fatalf("OutputHeight = %d, want 6", cfg.Editor.OutputHeight)
	}
	if cfg.Editor.AutoCloseEnabled() {
		t.Fatalf("AutoCloseEnabled = true, want false")
	}
	if cfg.Run.Interpreter != "python3.12" {
		t.Fatalf("Interpreter = %q, want python3.12", cfg.Run.Interpreter)
	}
	if d, _ := cfg.Run.TimeoutDuration(); d != 30*time.Second {
		t.Fatalf("TimeoutDuration = %v, want 30s", d)
	}
	if cfg.Theme.Foreground != "#111111" {
		t.Fatalf("Foreground = %q, want %q", cfg.Theme.Foreground, "#111111")
	}
	if cfg.Theme.StatuslineForeground != "#333333" {
		t.Fatalf("StatuslineForeground = %q, want %q", cfg.Theme.StatuslineForeground, "#333333")
	}
	if cfg.Theme.SyntaxKeyword != "#123456" {
		t.Fatalf("SyntaxKeyword = %q, want %q", cfg.Theme.SyntaxKeyword, "#123456")
	}
	if cfg.Keymap["f9"] != "run" {
		t.Fatalf("keymap f9 = %q, want run", cfg.Keymap["f9"])
	}
	if cfg.Keymap["ctrl+s"] != "save" {
		t.Fatalf("keymap ctrl+s = %q, want save", cfg.Keymap["ctrl+s"])
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CNVCODE_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), `
[run]
timeout = "soon"
`)
	if _, err := Load(); err == nil {
		t.Fatalf("Load error = nil, want timeout parse error")
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CNVCODE_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
background = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.Background != "#bbbbbb" {
		t.Fatalf("Background = %q, want %q", theme.Background, "#bbbbbb")
	}
}
