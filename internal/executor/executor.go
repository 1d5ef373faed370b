// Package executor runs external programs for the shell engine.
// It captures stdout as raw bytes so binary blob content survives and keeps
// stderr for error classification. Every command runs exactly once.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Result holds the output and exit status of a command execution.
type Result struct {
	Stdout   []byte
	Stderr   string
	ExitCode int
	Err      error
}

// Executor defines the interface for command execution.
type Executor interface {
	// Execute runs the program with args and the given options.
	Execute(ctx context.Context, args []string, opts ...Option) (*Result, error)
}

// Options configures command execution behavior.
type Options struct {
	// Working directory
	WorkingDir string

	// Environment variables (appended to current env)
	Env map[string]string
}

// Option is a function that modifies Options.
type Option func(*Options)

// DefaultOptions returns default execution options.
func DefaultOptions() *Options {
	return &Options{
		Env: make(map[string]string),
	}
}

// ProgramExecutor runs a single program with varying arguments.
type ProgramExecutor struct {
	program string
	options *Options
	logger  *slog.Logger
}

var _ Executor = (*ProgramExecutor)(nil)

// New creates an executor for program. Options given here apply to every
// execution and may be overridden per call.
func New(program string, logger *slog.Logger, opts ...Option) *ProgramExecutor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &ProgramExecutor{
		program: program,
		options: options,
		logger:  logger,
	}
}

// Execute implements the Executor interface.
// A non-zero exit is reported as an error together with the populated Result.
func (p *ProgramExecutor) Execute(ctx context.Context, args []string, opts ...Option) (*Result, error) {
	return p.run(ctx, args, p.mergeOptions(opts...))
}

func (p *ProgramExecutor) run(ctx context.Context, args []string, options *Options) (*Result, error) {
	cmd := exec.CommandContext(ctx, p.program, args...)

	// Set working directory
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	// Set environment
	if len(options.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range options.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	p.logger.Debug("executing command", "program", p.program, "args", args, "dir", options.WorkingDir)
	err := cmd.Run()

	result := &Result{
		Stdout: stdoutBuf.Bytes(),
		Stderr: strings.TrimSpace(stderrBuf.String()),
		Err:    err,
	}

	// Get exit code
	var exitErr *exec.ExitError
	switch {
	case err != nil && errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case err == nil:
		result.ExitCode = 0
	default:
		result.ExitCode = -1
	}

	if err != nil {
		return result, fmt.Errorf("command execution failed: %w", err)
	}
	return result, nil
}

func (p *ProgramExecutor) mergeOptions(opts ...Option) *Options {
	// Copy base options
	merged := *p.options
	merged.Env = make(map[string]string, len(p.options.Env))
	for k, v := range p.options.Env {
		merged.Env[k] = v
	}

	// Apply option functions
	for _, opt := range opts {
		opt(&merged)
	}

	return &merged
}

// WithWorkingDir sets the working directory.
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnv adds environment variables.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}
