package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vk/mcuscaffold/internal/ctxlog"
)

// Command is one external program invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes commands. Implementations return a non-nil error only when
// the command could not be run at all; a non-zero exit is reported in Result.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// ExecRunner runs commands as child processes.
type ExecRunner struct{}

// Run starts cmd, waits for it and captures its output.
func (ExecRunner) Run(ctx context.Context, c Command) (*Result, error) {
	path, err := exec.LookPath(c.Name)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	res := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", c.Name, err)
	}
	return res, nil
}

// run executes cmd and turns every failure into a *CollaboratorError.
func run(ctx context.Context, r Runner, cmd Command) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	line := cmd.String()
	logger.Debug("Running external command.", "command", line, "dir", cmd.Dir)

	res, err := r.Run(ctx, cmd)
	if err != nil {
		ce := &CollaboratorError{Command: line, ExitCode: -1, Err: err}
		if res != nil {
			ce.Stderr = string(res.Stderr)
		}
		return res, ce
	}
	if len(res.Stdout) > 0 {
		logger.Debug("External command output.", "command", line, "stdout", strings.TrimSpace(string(res.Stdout)))
	}
	if res.ExitCode != 0 {
		return res, &CollaboratorError{Command: line, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return res, nil
}
