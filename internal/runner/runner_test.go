package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func requireInterpreter(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Fatalf("temp dir not empty: %v", names)
	}
}

func TestRunStdoutThenStderr(t *testing.T) {
	requireInterpreter(t, "sh")
	dir := t.TempDir()
	r := New(dir)

	res, err := r.Run(context.Background(), Command{Interpreter: "sh", Extension: ".sh"}, "echo err 1>&2\necho out\n")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Stdout != "out\n" || res.Stderr != "err\n" {
		t.Fatalf("stdout=%q stderr=%q", res.Stdout, res.Stderr)
	}
	if got := res.Output(); got != "out\nerr\n" {
		t.Fatalf("Output = %q, want %q", got, "out\nerr\n")
	}
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", res.ExitCode)
	}
	assertEmptyDir(t, dir)
}

func TestRunNonZeroExitIsNotError(t *testing.T) {
	requireInterpreter(t, "sh")
	dir := t.TempDir()
	res, err := New(dir).Run(context.Background(), Command{Interpreter: "sh"}, "echo boom 1>&2\nexit 3\n")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Output() != "boom\n" {
		t.Fatalf("Output = %q, want %q", res.Output(), "boom\n")
	}
	assertEmptyDir(t, dir)
}

func TestRunScriptPathAndArgs(t *testing.T) {
	requireInterpreter(t, "sh")
	dir := t.TempDir()
	cmd := Command{Interpreter: "sh", Args: []string{"-e"}, Extension: ".sh"}
	res, err := New(dir).Run(context.Background(), cmd, `echo "$0"`)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	script := strings.TrimSpace(res.Stdout)
	if filepath.Dir(script) != dir {
		t.Fatalf("script dir = %q, want %q", filepath.Dir(script), dir)
	}
	if !strings.HasPrefix(filepath.Base(script), "cnvcode-") || filepath.Ext(script) != ".sh" {
		t.Fatalf("script name = %q, want cnvcode-*.sh", filepath.Base(script))
	}
	if _, err := os.Stat(script); !os.IsNotExist(err) {
		t.Fatalf("script still exists after run: %v", err)
	}
}

func TestRunWorkingDir(t *testing.T) {
	requireInterpreter(t, "sh")
	work := t.TempDir()
	res, err := New(t.TempDir()).Run(context.Background(), Command{Interpreter: "sh", Dir: work}, "pwd")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	want, _ := filepath.EvalSymlinks(work)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(res.Stdout))
	if got != want {
		t.Fatalf("pwd = %q, want %q", got, want)
	}
}

func TestRunMissingInterpreter(t *testing.T) {
	dir := t.TempDir()
	res, err := New(dir).Run(context.Background(), Command{Interpreter: filepath.Join(dir, "no-such-interpreter")}, "print(1)")
	if err == nil {
		t.Fatalf("Run error = nil, want spawn error")
	}
	if res.ExitCode != -1 {
		t.Fatalf("ExitCode = %d, want -1", res.ExitCode)
	}
	assertEmptyDir(t, dir)
}

func TestRunNoInterpreter(t *testing.T) {
	dir := t.TempDir()
	if _, err := New(dir).Run(context.Background(), Command{}, "x"); err == nil {
		t.Fatalf("Run error = nil, want error")
	}
	assertEmptyDir(t, dir)
}

func TestRunTimeout(t *testing.T) {
	requireInterpreter(t, "sh")
	requireInterpreter(t, "sleep")
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := New(dir).Run(ctx, Command{Interpreter: "sh"}, "exec sleep 10")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run error = %v, want deadline exceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Run took %v after timeout", elapsed)
	}
	assertEmptyDir(t, dir)
}

func TestRunWaitsForBackgroundOutput(t *testing.T) {
	requireInterpreter(t, "sh")
	requireInterpreter(t, "sleep")
	dir := t.TempDir()

	res, err := New(dir).Run(context.Background(), Command{Interpreter: "sh"}, "(sleep 3; echo late) &\necho done\n")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Stdout != "done\nlate\n" {
		t.Fatalf("stdout = %q, want %q", res.Stdout, "done\nlate\n")
	}
	if res.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", res.ExitCode)
	}
	assertEmptyDir(t, dir)
}

func TestRunPython(t *testing.T) {
	requireInterpreter(t, "python3")
	dir := t.TempDir()
	r := New(dir)

	res, err := r.Run(context.Background(), Command{Interpreter: "python3", Extension: ".py"}, "print('hi')")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Output() != "hi\n" {
		t.Fatalf("Output = %q, want %q", res.Output(), "hi\n")
	}

	res, err = r.Run(context.Background(), Command{Interpreter: "python3", Extension: ".py"}, "raise Exception('x')")
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if res.Stdout != "" {
		t.Fatalf("Stdout = %q, want empty", res.Stdout)
	}
	if !strings.Contains(res.Stderr, "Exception: x") {
		t.Fatalf("Stderr = %q, want traceback", res.Stderr)
	}
	assertEmptyDir(t, dir)
}
