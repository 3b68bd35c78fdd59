// Package session holds the state of one editing session: the document being
// edited, the path backing it and the output of the last run.
package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/kobzarvs/cnvcode/internal/config"
	"github.com/kobzarvs/cnvcode/internal/logger"
	"github.com/kobzarvs/cnvcode/internal/runner"
)

const titlePrefix = "cnvcode v1"

var (
	// ErrNoCode is returned by Run when the document is blank.
	ErrNoCode = errors.New("no code to run")
	// ErrNoPath is returned by Save when the document has never been saved.
	ErrNoPath = errors.New("no file name")
)

// Buffer is the editable text a session operates on.
type Buffer interface {
	Content() string
	SetContent(text string)
}

// Runner executes a script; *runner.Runner satisfies it.
type Runner interface {
	Run(ctx context.Context, cmd runner.Command, code string) (runner.Result, error)
}

type Options struct {
	Languages       config.Languages
	DefaultLanguage string
	// Interpreter overrides the language interpreter when set.
	Interpreter string
	Runner      Runner
}

type Session struct {
	buf         Buffer
	path        string
	saved       string
	output      string
	langs       config.Languages
	defaultLang string
	interpreter string
	runner      Runner
}

func New(buf Buffer, opts Options) *Session {
	r := opts.Runner
	if r == nil {
		r = runner.New("")
	}
	return &Session{
		buf:         buf,
		langs:       opts.Languages,
		defaultLang: opts.DefaultLanguage,
		interpreter: opts.Interpreter,
		runner:      r,
	}
}

// Path returns the backing file, or "" when untitled.
func (s *Session) Path() string {
	return s.path
}

func (s *Session) Untitled() bool {
	return s.path == ""
}

func (s *Session) Title() string {
	if s.path == "" {
		return titlePrefix + " - Untitled"
	}
	return titlePrefix + " - " + s.path
}

// Output returns the output log of the last run.
func (s *Session) Output() string {
	return s.output
}

// Dirty reports whether the document is non-empty and differs from what was
// last opened or saved.
func (s *Session) Dirty() bool {
	content := s.buf.Content()
	return content != "" && content != s.saved
}

// NeedsConfirmNew reports whether New would discard text.
func (s *Session) NeedsConfirmNew() bool {
	return strings.TrimSpace(s.buf.Content()) != ""
}

// New clears the document and makes it untitled. Callers gate it on
// NeedsConfirmNew.
func (s *Session) New() {
	s.buf.SetContent("")
	s.path = ""
	s.saved = ""
	logger.Debug("new document")
}

// Open replaces the document with the file at path. On error the session is
// left unchanged.
func (s *Session) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("open failed", "path", path, "error", err)
		return err
	}
	text := string(data)
	s.buf.SetContent(text)
	s.path = path
	s.saved = text
	logger.Info("opened", "path", path, "bytes", len(data))
	return nil
}

// Save writes the document to its path verbatim. It returns ErrNoPath for an
// untitled document; callers then ask for a path and use SaveAs.
func (s *Session) Save() error {
	if s.path == "" {
		return ErrNoPath
	}
	return s.write(s.path)
}

// SaveAs writes the document to path and adopts it. An empty path means the
// user cancelled and is a no-op.
func (s *Session) SaveAs(path string) error {
	if path == "" {
		return nil
	}
	if err := s.write(path); err != nil {
		return err
	}
	s.path = path
	return nil
}

func (s *Session) write(path string) error {
	content := s.buf.Content()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		logger.Error("save failed", "path", path, "error", err)
		return err
	}
	s.saved = content
	logger.Info("saved", "path", path, "bytes", len(content))
	return nil
}

// Language returns the language of the backing file, falling back to the
// configured default for untitled or unknown files. It may return nil.
func (s *Session) Language() *config.Language {
	if s.path != "" {
		if lang := s.langs.Match(s.path); lang != nil {
			return lang
		}
	}
	return s.langs.ByName(s.defaultLang)
}

func (s *Session) command() runner.Command {
	var cmd runner.Command
	if lang := s.Language(); lang != nil {
		cmd.Interpreter = lang.Interpreter
		cmd.Args = lang.Args
		cmd.Extension = lang.Extension()
	}
	if s.interpreter != "" {
		cmd.Interpreter = s.interpreter
	}
	if s.path != "" {
		cmd.Dir = filepath.Dir(s.path)
	}
	return cmd
}

// Run executes the document and replaces the output log with stdout followed
// by stderr. A blank document returns ErrNoCode and leaves the log untouched.
// Any other failure is written to the log as "Error: <message>" and is not
// returned.
func (s *Session) Run(ctx context.Context) (runner.Result, error) {
	code := s.buf.Content()
	if strings.TrimSpace(code) == "" {
		return runner.Result{ExitCode: -1}, ErrNoCode
	}
	cmd := s.command()
	logger.Info("run started", "interpreter", cmd.Interpreter, "args", cmd.Args, "dir", cmd.Dir)

	res, err := s.runner.Run(ctx, cmd, code)
	out := res.Output()
	if err != nil {
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += "Error: " + err.Error()
		logger.Error("run failed", "interpreter", cmd.Interpreter, "error", err)
	} else {
		logger.Info("run finished", "exit", res.ExitCode, "duration", res.Duration, "stdout", len(res.Stdout), "stderr", len(res.Stderr))
	}
	s.output = out
	return res, nil
}
