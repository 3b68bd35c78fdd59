// Package runner executes a script through an interpreter and captures its
// output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"go.uber.org/multierr"
)

// waitDelay bounds how long Run keeps reading output after a cancelled ctx
// kills the interpreter. Children it started may still hold the pipes open.
// When ctx can never be cancelled Run waits for the pipes to close.
const waitDelay = 2 * time.Second

// Command describes how to invoke the interpreter.
type Command struct {
	Interpreter string
	Args        []string
	// Extension of the temporary script file, with the leading dot.
	Extension string
	// Dir is the working directory; empty means the current one.
	Dir string
}

type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Output returns stdout followed by stderr.
func (r Result) Output() string {
	return r.Stdout + r.Stderr
}

type Runner struct {
	tempDir string
}

// New returns a Runner that materializes scripts under tempDir, or the system
// temp directory when tempDir is empty.
func New(tempDir string) *Runner {
	return &Runner{tempDir: tempDir}
}

// Run writes code to a temporary file, executes "<interpreter> [args...] <file>"
// and waits for it. A non-zero exit status is not an error: the script's own
// stderr is part of the result. Errors are reserved for failures to materialize
// the script, spawn the interpreter, or a cancelled ctx. The temporary file is
// removed on every path.
func (r *Runner) Run(ctx context.Context, cmd Command, code string) (res Result, err error) {
	res.ExitCode = -1
	if cmd.Interpreter == "" {
		return res, errors.New("no interpreter configured")
	}

	tmp, err := os.CreateTemp(r.tempDir, "cnvcode-*"+cmd.Extension)
	if err != nil {
		return res, fmt.Errorf("create temp script: %w", err)
	}
	path := tmp.Name()
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = multierr.Append(err, fmt.Errorf("remove temp script: %w", rmErr))
		}
	}()

	if _, err := tmp.WriteString(code); err != nil {
		_ = tmp.Close()
		return res, fmt.Errorf("write temp script: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return res, fmt.Errorf("close temp script: %w", err)
	}

	args := make([]string, 0, len(cmd.Args)+1)
	args = append(args, cmd.Args...)
	args = append(args, path)
	c := exec.CommandContext(ctx, cmd.Interpreter, args...)
	c.Dir = cmd.Dir
	if ctx.Done() != nil {
		c.WaitDelay = waitDelay
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	runErr := c.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	if c.ProcessState != nil {
		res.ExitCode = c.ProcessState.ExitCode()
	}
	if runErr == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return res, nil
	}
	return res, runErr
}
