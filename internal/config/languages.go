package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Language describes how scripts of one kind are highlighted and run.
type Language struct {
	Name        string   `toml:"name"`
	FileTypes   []string `toml:"file-types"`
	Interpreter string   `toml:"interpreter"`
	Args        []string `toml:"args"`
	Keywords    []string `toml:"keywords"`
}

// Extension returns the file extension used for temporary scripts, with the
// leading dot.
func (l Language) Extension() string {
	for _, ft := range l.FileTypes {
		ft = strings.TrimPrefix(ft, ".")
		if ft != "" && !strings.Contains(ft, ".") {
			return "." + ft
		}
	}
	return ""
}

type Languages struct {
	Languages []Language `toml:"language"`
}

var pythonKeywords = []string{
	"False", "None", "True", "and", "as", "assert", "async", "await",
	"break", "class", "continue", "def", "del", "elif", "else", "except",
	"finally", "for", "from", "global", "if", "import", "in", "is",
	"lambda", "nonlocal", "not", "or", "pass", "raise", "return", "try",
	"while", "with", "yield",
}

var bashKeywords = []string{
	"if", "then", "else", "elif", "fi", "case", "esac", "for", "while", "until",
	"do", "done", "in", "function", "select", "return", "exit", "break", "continue",
	"local", "export", "readonly", "declare", "typeset", "unset",
}

var goKeywords = []string{
	"break", "case", "chan", "const", "continue", "default", "defer", "else",
	"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
	"map", "package", "range", "return", "select", "struct", "switch",
	"type", "var",
}

func DefaultLanguages() Languages {
	return Languages{
		Languages: []Language{
			{Name: "python", FileTypes: []string{"py", "pyw"}, Interpreter: "python3", Keywords: pythonKeywords},
			{Name: "bash", FileTypes: []string{"sh", "bash"}, Interpreter: "bash", Keywords: bashKeywords},
			{Name: "go", FileTypes: []string{"go"}, Interpreter: "go", Args: []string{"run"}, Keywords: goKeywords},
		},
	}
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

func (l Languages) ByName(name string) *Language {
	for i := range l.Languages {
		if l.Languages[i].Name == name {
			return &l.Languages[i]
		}
	}
	return nil
}

// merge overlays user entries onto the built-in set. Entries with a known name
// replace the non-empty fields of the built-in one; unknown names are appended.
func (l *Languages) merge(user Languages) {
	for _, u := range user.Languages {
		if u.Name == "" {
			continue
		}
		lang := l.ByName(u.Name)
		if lang == nil {
			l.Languages = append(l.Languages, u)
			continue
		}
		if len(u.FileTypes) > 0 {
			lang.FileTypes = u.FileTypes
		}
		if u.Interpreter != "" {
			lang.Interpreter = u.Interpreter
		}
		if u.Args != nil {
			lang.Args = u.Args
		}
		if len(u.Keywords) > 0 {
			lang.Keywords = u.Keywords
		}
	}
}

func LoadLanguages() (Languages, error) {
	cfg := DefaultLanguages()
	path, err := LanguagesPath()
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

	var user Languages
	if _, err := toml.Decode(string(data), &user); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.merge(user)
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
