package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	TabWidth        int    `toml:"tab-width"`
	LineNumbers     string `toml:"line-numbers"`
	DefaultLanguage string `toml:"default-language"`
	Highlighter     string `toml:"highlighter"`
	OutputHeight    int    `toml:"output-height"`
	AutoClose       *bool  `toml:"auto-close"`
	Debug           bool   `toml:"debug"`
}

// AutoCloseEnabled reports whether typed openers get their closer inserted.
// Unset means enabled.
func (o EditorOptions) AutoCloseEnabled() bool {
	return o.AutoClose == nil || *o.AutoClose
}

type RunOptions struct {
	Interpreter string `toml:"interpreter"`
	Timeout     string `toml:"timeout"`
	TempDir     string `toml:"temp-dir"`
}

// TimeoutDuration parses Timeout. An empty value means no timeout.
func (o RunOptions) TimeoutDuration() (time.Duration, error) {
	if o.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(o.Timeout)
	if err != nil {
		return 0, fmt.Errorf("run timeout %q: %w", o.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("run timeout %q: negative duration", o.Timeout)
	}
	return d, nil
}

type Theme struct {
	Theme                      string `toml:"theme"`
	Foreground                 string `toml:"foreground"`
	Background                 string `toml:"background"`
	StatuslineForeground       string `toml:"statusline-foreground"`
	StatuslineBackground       string `toml:"statusline-background"`
	CommandlineForeground      string `toml:"commandline-foreground"`
	CommandlineBackground      string `toml:"commandline-background"`
	MenuForeground             string `toml:"menu-foreground"`
	MenuBackground             string `toml:"menu-background"`
	MenuSelectedForeground     string `toml:"menu-selected-foreground"`
	MenuSelectedBackground     string `toml:"menu-selected-background"`
	OutputForeground           string `toml:"output-foreground"`
	OutputBackground           string `toml:"output-background"`
	OutputTitleForeground      string `toml:"output-title-foreground"`
	DialogForeground           string `toml:"dialog-foreground"`
	DialogBackground           string `toml:"dialog-background"`
	DialogBorderForeground     string `toml:"dialog-border-foreground"`
	LineNumberForeground       string `toml:"line-number-foreground"`
	LineNumberActiveForeground string `toml:"line-number-active-foreground"`
	SyntaxKeyword              string `toml:"syntax-keyword"`
	SyntaxString               string `toml:"syntax-string"`
	SyntaxComment              string `toml:"syntax-comment"`
	SyntaxType                 string `toml:"syntax-type"`
	SyntaxFunction             string `toml:"syntax-function"`
	SyntaxNumber               string `toml:"syntax-number"`
	SyntaxConstant             string `toml:"syntax-constant"`
	SyntaxBuiltin              string `toml:"syntax-builtin"`
}

type Config struct {
	Editor EditorOptions     `toml:"editor"`
	Run    RunOptions        `toml:"run"`
	Theme  Theme             `toml:"theme"`
	Keymap map[string]string `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:        4,
			LineNumbers:     "absolute",
			DefaultLanguage: "python",
			Highlighter:     "keywords",
			OutputHeight:    10,
		},
		Theme: Theme{
			Foreground:                 "#FFFFFF",
			Background:                 "#1E1E1E",
			StatuslineForeground:       "#B3B1AD",
			StatuslineBackground:       "#0F1419",
			CommandlineForeground:      "#B3B1AD",
			CommandlineBackground:      "#0F1419",
			MenuForeground:             "#B3B1AD",
			MenuBackground:             "#2D2D2D",
			MenuSelectedForeground:     "#0A0E14",
			MenuSelectedBackground:     "#E6B450",
			OutputForeground:           "#FFFFFF",
			OutputBackground:           "#1E1E1E",
			OutputTitleForeground:      "#59C2FF",
			DialogForeground:           "#B3B1AD",
			DialogBackground:           "#0F1419",
			DialogBorderForeground:     "#E6B450",
			LineNumberForeground:       "#3E4B59",
			LineNumberActiveForeground: "#B3B1AD",
			SyntaxKeyword:              "#00FFFF",
			SyntaxString:               "#BAE67E",
			SyntaxComment:              "#5C6773",
			SyntaxType:                 "#5CCFE6",
			SyntaxFunction:             "#FFD173",
			SyntaxNumber:               "#D4BFFF",
			SyntaxConstant:             "#FFDD8E",
			SyntaxBuiltin:              "#73D0FF",
		},
		Keymap: map[string]string{
			"ctrl+n":    "new",
			"ctrl+o":    "open",
			"ctrl+s":    "save",
			"alt+s":     "save_as",
			"ctrl+q":    "exit",
			"f5":        "run",
			"ctrl+r":    "run",
			"f10":       "menu",
			"alt+f":     "menu_file",
			"alt+r":     "menu_run",
			"f6":        "toggle_focus",
			"left":      "move_left",
			"right":     "move_right",
			"up":        "move_up",
			"down":      "move_down",
			"home":      "line_start",
			"end":       "line_end",
			"ctrl+home": "file_start",
			"ctrl+end":  "file_end",
			"pgup":      "page_up",
			"pgdn":      "page_down",
			"backspace": "backspace",
			"del":       "delete_char",
			"enter":     "newline",
			"tab":       "insert_tab",
			"ctrl+l":    "toggle_line_numbers",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.LineNumbers != "" {
		cfg.Editor.LineNumbers = userCfg.Editor.LineNumbers
	}
	if userCfg.Editor.DefaultLanguage != "" {
		cfg.Editor.DefaultLanguage = userCfg.Editor.DefaultLanguage
	}
	if userCfg.Editor.Highlighter != "" {
		cfg.Editor.Highlighter = userCfg.Editor.Highlighter
	}
	if userCfg.Editor.OutputHeight > 0 {
		cfg.Editor.OutputHeight = userCfg.Editor.OutputHeight
	}
	if userCfg.Editor.AutoClose != nil {
		cfg.Editor.AutoClose = userCfg.Editor.AutoClose
	}
	if userCfg.Editor.Debug {
		cfg.Editor.Debug = true
	}
	if userCfg.Run.Interpreter != "" {
		cfg.Run.Interpreter = userCfg.Run.Interpreter
	}
	if userCfg.Run.Timeout != "" {
		if _, err := userCfg.Run.TimeoutDuration(); err != nil {
			return cfg, err
		}
		cfg.Run.Timeout = userCfg.Run.Timeout
	}
	if userCfg.Run.TempDir != "" {
		cfg.Run.TempDir = userCfg.Run.TempDir
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}

	return cfg, nil
}

// mergeTheme copies every non-empty color of src over dst.
func mergeTheme(dst *Theme, src Theme) {
	fields := []struct {
		dst *string
		src string
	}{
		{&dst.Foreground, src.Foreground},
		{&dst.Background, src.Background},
		{&dst.StatuslineForeground, src.StatuslineForeground},
		{&dst.StatuslineBackground, src.StatuslineBackground},
		{&dst.CommandlineForeground, src.CommandlineForeground},
		{&dst.CommandlineBackground, src.CommandlineBackground},
		{&dst.MenuForeground, src.MenuForeground},
		{&dst.MenuBackground, src.MenuBackground},
		{&dst.MenuSelectedForeground, src.MenuSelectedForeground},
		{&dst.MenuSelectedBackground, src.MenuSelectedBackground},
		{&dst.OutputForeground, src.OutputForeground},
		{&dst.OutputBackground, src.OutputBackground},
		{&dst.OutputTitleForeground, src.OutputTitleForeground},
		{&dst.DialogForeground, src.DialogForeground},
		{&dst.DialogBackground, src.DialogBackground},
		{&dst.DialogBorderForeground, src.DialogBorderForeground},
		{&dst.LineNumberForeground, src.LineNumberForeground},
		{&dst.LineNumberActiveForeground, src.LineNumberActiveForeground},
		{&dst.SyntaxKeyword, src.SyntaxKeyword},
		{&dst.SyntaxString, src.SyntaxString},
		{&dst.SyntaxComment, src.SyntaxComment},
		{&dst.SyntaxType, src.SyntaxType},
		{&dst.SyntaxFunction, src.SyntaxFunction},
		{&dst.SyntaxNumber, src.SyntaxNumber},
		{&dst.SyntaxConstant, src.SyntaxConstant},
		{&dst.SyntaxBuiltin, src.SyntaxBuiltin},
	}
	for _, f := range fields {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil && t != (Theme{}) {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, fmt.Errorf("parse theme %s: %w", path, err)
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("CNVCODE_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "cnvcode"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cnvcode"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
