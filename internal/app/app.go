package app

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/cnvcode/internal/config"
	"github.com/kobzarvs/cnvcode/internal/editor"
	"github.com/kobzarvs/cnvcode/internal/logger"
	"github.com/kobzarvs/cnvcode/internal/runner"
	"github.com/kobzarvs/cnvcode/internal/session"
	"github.com/kobzarvs/cnvcode/internal/treesitter"
)

// App is the top-level runtime for cnvcode.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}
	timeout, err := cfg.Run.TimeoutDuration()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Editor.Debug); err != nil {
		return err
	}
	defer logger.Close()
	logger.Info("starting", "args", a.args, "highlighter", cfg.Editor.Highlighter, "interpreter", cfg.Run.Interpreter)

	ed := editor.New(cfg)
	sess := session.New(ed, session.Options{
		Languages:       langs,
		DefaultLanguage: cfg.Editor.DefaultLanguage,
		Interpreter:     cfg.Run.Interpreter,
		Runner:          runner.New(cfg.Run.TempDir),
	})
	ed.Attach(sess)
	if cfg.Editor.Highlighter == "syntax" {
		ed.SetSyntaxEngine(treesitter.New())
	}
	if len(a.args) > 0 {
		if err := ed.OpenFile(a.args[0]); err != nil {
			return err
		}
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	ed.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				logger.Info("exiting")
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		case nil:
			return nil
		}
		ed.Render(s)
		if ed.ConsumeRunRequest() {
			runCode(ed, timeout)
			ed.Render(s)
		}
	}
}

func runCode(ed *editor.Editor, timeout time.Duration) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ed.RunCode(ctx)
}
