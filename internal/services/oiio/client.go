package oiio

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps oiiotool invocations.
type Client struct {
	binary string
	exec   Executor
}

// New constructs an oiiotool client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("oiiotool binary required")
	}
	client := &Client{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Stats computes per-channel statistics for image.
func (c *Client) Stats(ctx context.Context, image string) (Stats, error) {
	stats, err := c.run(ctx, []string{image, "--stats"})
	if err != nil {
		return Stats{}, fmt.Errorf("compute stats for %s: %w", image, err)
	}
	return stats, nil
}

// DiffStats computes per-channel statistics of abs(imageA - imageB).
func (c *Client) DiffStats(ctx context.Context, imageA, imageB string) (Stats, error) {
	stats, err := c.run(ctx, []string{imageA, imageB, "--sub", "--abs", "--stats"})
	if err != nil {
		return Stats{}, fmt.Errorf("diff %s vs %s: %w", imageA, imageB, err)
	}
	return stats, nil
}

func (c *Client) run(ctx context.Context, args []string) (Stats, error) {
	var lines []string
	if err := c.exec.Run(ctx, c.binary, args, func(line string) {
		lines = append(lines, line)
	}); err != nil {
		return Stats{}, err
	}
	return parseStats(lines)
}

func parseStats(lines []string) (Stats, error) {
	var stats Stats
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Stats Min:"):
			stats.Min = parseFloats(trimmed[len("Stats Min:"):])
		case strings.HasPrefix(trimmed, "Stats Max:"):
			stats.Max = parseFloats(trimmed[len("Stats Max:"):])
		case strings.HasPrefix(trimmed, "Stats Avg:"):
			stats.Avg = parseFloats(trimmed[len("Stats Avg:"):])
		case strings.HasPrefix(trimmed, "Stats StdDev:"):
			stats.StdDev = parseFloats(trimmed[len("Stats StdDev:"):])
		case strings.HasPrefix(trimmed, "Stats NanCount:"):
			stats.NaNCount = parseInts(trimmed[len("Stats NanCount:"):])
		case strings.HasPrefix(trimmed, "Stats InfCount:"):
			stats.InfCount = parseInts(trimmed[len("Stats InfCount:"):])
		case strings.HasPrefix(trimmed, "Stats FiniteCount:"):
			stats.FiniteCount = parseInts(trimmed[len("Stats FiniteCount:"):])
		}
	}

	if len(stats.Avg) == 0 {
		return Stats{}, errors.New("no pixel statistics in oiiotool output")
	}
	if len(stats.StdDev) != len(stats.Avg) || len(stats.Max) != len(stats.Avg) {
		return Stats{}, fmt.Errorf(
			"inconsistent channel counts in oiiotool output: avg=%d stddev=%d max=%d",
			len(stats.Avg), len(stats.StdDev), len(stats.Max),
		)
	}
	return stats, nil
}

// parseFloats extracts numeric tokens, skipping annotations like "(float)".
func parseFloats(s string) []float64 {
	fields := strings.Fields(s)
	values := make([]float64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			continue
		}
		values = append(values, value)
	}
	return values
}

func parseInts(s string) []int64 {
	fields := strings.Fields(s)
	values := make([]int64, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		values = append(values, value)
	}
	return values
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if onStdout != nil {
				onStdout(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
