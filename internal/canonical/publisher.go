package canonical

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"rats/internal/analysis"
	"rats/internal/fileutil"
	"rats/internal/logging"
)

// Publisher copies winning candidates into the reference store for one
// {test, execution-mode} slot.
type Publisher struct {
	root        string
	testRelPath string
	execMode    string
	logger      *slog.Logger
}

// Option configures the publisher.
type Option func(*Publisher)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher constructs a publisher rooted at the reference store.
func NewPublisher(root, testRelPath, execMode string, opts ...Option) (*Publisher, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("canonical root required")
	}
	if strings.TrimSpace(testRelPath) == "" {
		return nil, errors.New("test relative path required")
	}
	if strings.TrimSpace(execMode) == "" {
		return nil, errors.New("execution mode required")
	}
	p := &Publisher{
		root:        root,
		testRelPath: testRelPath,
		execMode:    execMode,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Dir returns the reference directory for this test and execution mode.
func (p *Publisher) Dir() string {
	return filepath.Join(p.root, p.testRelPath, p.execMode)
}

// PublishImages copies each winning candidate artifact into the reference
// store, overwriting any prior reference atomically. winners maps image name
// to the source path of the chosen candidate's artifact.
func (p *Publisher) PublishImages(winners map[string]string) error {
	dir := p.Dir()
	if err := ensureDir(dir); err != nil {
		return err
	}
	for image, source := range winners {
		dest := filepath.Join(dir, image)
		if err := fileutil.CopyFileAtomic(source, dest); err != nil {
			return fmt.Errorf("publish %s from %s: %w", image, source, err)
		}
		p.logger.Info("published canonical",
			logging.String(logging.FieldImage, image),
			logging.String("source", source),
			logging.String("dest", dest),
		)
	}
	return nil
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create reference directory %q: %w", dir, err)
	}
	return nil
}

// MergeTolerances merges tolerance records into the document at docRelPath
// under the canonical root, keyed by this publisher's execution mode.
func (p *Publisher) MergeTolerances(docRelPath string, updates map[string]analysis.Tolerance) error {
	path := filepath.Join(p.root, docRelPath)
	if err := MergeTolerances(path, p.execMode, updates); err != nil {
		return err
	}
	for image := range updates {
		p.logger.Info("updated tolerance record",
			logging.String(logging.FieldImage, image),
			logging.String("exec_mode", p.execMode),
			logging.String("document", path),
		)
	}
	return nil
}
