package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"rats/internal/logging"
)

// Executor abstracts render command execution for testability. Run executes
// command inside dir and returns the combined stdout/stderr output.
type Executor interface {
	Run(ctx context.Context, dir string, command []string) ([]byte, error)
}

// CandidateError reports a failed candidate render with its captured output.
type CandidateError struct {
	Index  int
	Output []byte
	Err    error
}

func (e *CandidateError) Error() string {
	msg := fmt.Sprintf("render candidate %d: %v", e.Index, e.Err)
	if out := strings.TrimSpace(string(e.Output)); out != "" {
		msg += "\nrenderer output:\n" + out
	}
	return msg
}

func (e *CandidateError) Unwrap() error { return e.Err }

// Option configures the producer.
type Option func(*Producer)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(p *Producer) {
		if exec != nil {
			p.exec = exec
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Producer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithConcurrency selects parallel execution with the given worker bound.
// workers == 0 means available parallelism.
func WithConcurrency(concurrent bool, workers int) Option {
	return func(p *Producer) {
		p.concurrent = concurrent
		p.workers = workers
	}
}

// Producer runs the render command once per candidate index.
type Producer struct {
	command    []string
	scratch    string
	concurrent bool
	workers    int
	logger     *slog.Logger
	exec       Executor
}

// NewProducer constructs a producer for the given command and scratch root.
func NewProducer(command []string, scratchDir string, opts ...Option) (*Producer, error) {
	if len(command) == 0 {
		return nil, errors.New("render command required")
	}
	if strings.TrimSpace(scratchDir) == "" {
		return nil, errors.New("scratch directory required")
	}
	p := &Producer{
		command: append([]string(nil), command...),
		scratch: scratchDir,
		logger:  logging.NewNop(),
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// CandidateDir returns the working directory owned by the given candidate.
func (p *Producer) CandidateDir(index int) string {
	return filepath.Join(p.scratch, strconv.Itoa(index))
}

// Produce renders n candidates. Each invocation runs with its own freshly
// created working directory as the current directory and no injected
// arguments. The first failure cancels outstanding work and is returned;
// results of in-flight siblings are discarded.
func (p *Producer) Produce(ctx context.Context, n int) error {
	if n < 1 {
		return fmt.Errorf("candidate count must be at least 1, got %d", n)
	}

	limit := 1
	if p.concurrent {
		limit = p.workers
		if limit <= 0 {
			limit = runtime.NumCPU()
		}
	}

	p.logger.Info("rendering candidate sets",
		logging.Int("candidates", n),
		logging.Bool("concurrent", p.concurrent),
		logging.Int("workers", limit),
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	var completed atomic.Int64
	for index := 0; index < n; index++ {
		index := index
		group.Go(func() error {
			dir := p.CandidateDir(index)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return &CandidateError{Index: index, Err: fmt.Errorf("create working directory: %w", err)}
			}
			output, err := p.exec.Run(groupCtx, dir, p.command)
			if err != nil {
				return &CandidateError{Index: index, Output: output, Err: err}
			}
			p.logger.Info("finished candidate render",
				logging.Int(logging.FieldCandidate, index),
				logging.Int("completed", int(completed.Add(1))),
				logging.Int("total", n),
			)
			return nil
		})
	}

	return group.Wait()
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, dir string, command []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command[0], command[1:]...) //nolint:gosec
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
