package updater

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"rats/internal/analysis"
	"rats/internal/canonical"
	"rats/internal/config"
	"rats/internal/logging"
	"rats/internal/render"
	"rats/internal/runlog"
	"rats/internal/services"
	"rats/internal/services/oiio"
)

// ExecModes is the closed set of execution-mode labels accepted by the
// pipeline. The labels are storage keys only; the core never interprets them.
var ExecModes = []string{"scalar", "vector", "xpu", "auto", "default"}

// Options configures an update run.
type Options struct {
	Config        *config.Config
	TestRelPath   string
	Canonicals    []string
	RenderCommand string
	ExecMode      string
	DiffJSONPath  string
	NumRenders    int
	RunConcurrent bool
	MaxWorkers    int
	Generate      bool
	Logger        *slog.Logger

	// Provider and RenderExecutor override the external collaborators,
	// primarily for tests.
	Provider       oiio.StatsProvider
	RenderExecutor render.Executor
	RunLog         *runlog.Store
}

// Result summarizes a completed update run.
type Result struct {
	RunID              string
	BestCandidates     map[string]int
	Tolerances         map[string]analysis.Tolerance
	ImageSummaries     map[string]analysis.ImageSummary
	CandidateSummaries map[string][]analysis.CandidateSummary
	Elapsed            time.Duration
}

// Updater executes the canonical update pipeline.
type Updater struct {
	cfg          *config.Config
	testRelPath  string
	canonicals   []string
	command      []string
	execMode     string
	diffJSONPath string
	numRenders   int
	concurrent   bool
	workers      int
	generate     bool
	logger       *slog.Logger
	provider     oiio.StatsProvider
	renderExec   render.Executor
	runLog       *runlog.Store
	runID        string
}

// New validates options and constructs an updater. Configuration problems
// surface here, before any work begins.
func New(opts Options) (*Updater, error) {
	if opts.Config == nil {
		return nil, services.Wrap(services.ErrConfiguration, "update", "", "configuration required", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	root := strings.TrimSpace(opts.Config.Paths.CanonicalDir)
	if root == "" {
		return nil, services.Wrap(services.ErrConfiguration, "update", "",
			fmt.Sprintf("canonical directory not configured (set paths.canonical_dir or %s)", config.EnvCanonicalDir), nil)
	}
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, "update", "",
				fmt.Sprintf("canonical directory %s does not exist", root), nil)
		}
		return nil, services.Wrap(services.ErrConfiguration, "update", "", "stat canonical directory", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "update", "",
			fmt.Sprintf("canonical directory %s is not a directory", root), nil)
	}

	if strings.TrimSpace(opts.TestRelPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "update", "", "test relative path required", nil)
	}
	if len(opts.Canonicals) == 0 {
		return nil, services.Wrap(services.ErrValidation, "update", "", "at least one canonical image required", nil)
	}
	if strings.TrimSpace(opts.DiffJSONPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "update", "", "tolerance document path required", nil)
	}

	execMode, err := normalizeExecMode(opts.ExecMode)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "update", "", "", err)
	}

	command, err := render.SplitCommand(opts.RenderCommand)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "update", "", "parse render command", err)
	}

	threads, threadsErr := config.ResolveRenderThreads(opts.Config.Update.RenderThreads)
	if threadsErr != nil {
		logger.Warn("ignoring invalid render thread override", logging.Error(threadsErr))
	}
	command = render.InjectThreads(command, threads)

	numRenders := opts.NumRenders
	if numRenders <= 0 {
		numRenders = opts.Config.Update.NumRenders
	}
	if numRenders < 1 {
		return nil, services.Wrap(services.ErrValidation, "update", "",
			fmt.Sprintf("candidate count must be at least 1, got %d", numRenders), nil)
	}

	concurrent, workers := config.ResolveConcurrency(opts.RunConcurrent, opts.MaxWorkers)

	provider := opts.Provider
	if provider == nil {
		client, err := oiio.New(opts.Config.Update.Oiiotool)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "update", "", "construct oiiotool client", err)
		}
		provider = client
	}

	return &Updater{
		cfg:          opts.Config,
		testRelPath:  strings.TrimSpace(opts.TestRelPath),
		canonicals:   append([]string(nil), opts.Canonicals...),
		command:      command,
		execMode:     execMode,
		diffJSONPath: strings.TrimSpace(opts.DiffJSONPath),
		numRenders:   numRenders,
		concurrent:   concurrent,
		workers:      workers,
		generate:     opts.Generate,
		logger:       logger,
		provider:     provider,
		renderExec:   opts.RenderExecutor,
		runLog:       opts.RunLog,
		runID:        uuid.NewString(),
	}, nil
}

// RunID returns this run's correlation identifier.
func (u *Updater) RunID() string {
	return u.runID
}

// Run executes the pipeline. On success the scratch workspace is removed;
// on failure it is left behind to aid debugging.
func (u *Updater) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	ctx = services.WithRunID(ctx, u.runID)
	logger := logging.WithContext(ctx, u.logger)

	result := &Result{
		RunID:              u.runID,
		BestCandidates:     make(map[string]int, len(u.canonicals)),
		Tolerances:         make(map[string]analysis.Tolerance, len(u.canonicals)),
		ImageSummaries:     make(map[string]analysis.ImageSummary, len(u.canonicals)),
		CandidateSummaries: make(map[string][]analysis.CandidateSummary, len(u.canonicals)),
	}

	if !u.generate {
		logger.Info("generation disabled, no operations performed")
		result.Elapsed = time.Since(start)
		return result, nil
	}

	if err := u.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "update", "", "prepare directories", err)
	}

	scratch := filepath.Join(u.cfg.Paths.StagingDir, "candidates-"+shortID(u.runID))
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "update", "", "create scratch workspace", err)
	}

	producer, err := u.renderCandidates(ctx, scratch)
	if err != nil {
		return nil, err
	}

	if err := u.analyzeCandidates(ctx, scratch, result); err != nil {
		return nil, err
	}

	if err := u.publish(ctx, producer, result); err != nil {
		return nil, err
	}

	u.recordRun(ctx, result, time.Since(start))

	if err := os.RemoveAll(scratch); err != nil {
		logger.Warn("failed to clean scratch workspace", logging.Error(err), logging.String("dir", scratch))
	}

	result.Elapsed = time.Since(start)
	logger.Info("canonical update completed",
		logging.Duration("elapsed", result.Elapsed),
		logging.Int("images", len(result.BestCandidates)),
	)
	return result, nil
}

func (u *Updater) renderCandidates(ctx context.Context, scratch string) (*render.Producer, error) {
	stageCtx := services.WithStage(ctx, "render")
	stageLogger := logging.WithContext(stageCtx, u.logger)

	producer, err := render.NewProducer(
		u.command,
		scratch,
		render.WithExecutor(u.renderExec),
		render.WithLogger(stageLogger),
		render.WithConcurrency(u.concurrent, u.workers),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "render", "", "", err)
	}

	started := time.Now()
	if err := producer.Produce(stageCtx, u.numRenders); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "render", "", "candidate rendering failed", err)
	}
	stageLogger.Info("rendering completed",
		logging.String(logging.FieldEventType, "phase_complete"),
		logging.Int("candidates", u.numRenders),
		logging.Duration("elapsed", time.Since(started)),
	)
	return producer, nil
}

func (u *Updater) analyzeCandidates(ctx context.Context, scratch string, result *Result) error {
	stageCtx := services.WithStage(ctx, "analyze")

	analyzer, err := analysis.NewAnalyzer(
		u.provider,
		analysis.WithLogger(logging.WithContext(stageCtx, u.logger)),
		analysis.WithConcurrency(u.concurrent, u.workers),
	)
	if err != nil {
		return services.Wrap(services.ErrValidation, "analyze", "", "", err)
	}

	started := time.Now()
	for _, image := range u.canonicals {
		imageCtx := services.WithImage(stageCtx, image)
		imageLogger := logging.WithContext(imageCtx, u.logger)

		set, err := analyzer.AnalyzeImage(imageCtx, scratch, image, u.numRenders)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, "analyze", image, "pairwise comparison failed", err)
		}

		summaries, imageSummary := analysis.Aggregate(set)
		best := analysis.ChooseBest(summaries)

		result.BestCandidates[image] = best
		result.Tolerances[image] = analysis.DeriveTolerance(imageSummary)
		result.ImageSummaries[image] = imageSummary
		result.CandidateSummaries[image] = summaries

		imageLogger.Info("best candidate chosen",
			logging.Int(logging.FieldCandidate, best),
			logging.Int("comparisons", set.Len()),
			logging.Float64("total_rms_error", summaries[best].TotalRMSError),
		)
	}

	logging.WithContext(stageCtx, u.logger).Info("analysis completed",
		logging.String(logging.FieldEventType, "phase_complete"),
		logging.Int("images", len(u.canonicals)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func (u *Updater) publish(ctx context.Context, producer *render.Producer, result *Result) error {
	stageCtx := services.WithStage(ctx, "publish")
	stageLogger := logging.WithContext(stageCtx, u.logger)

	publisher, err := canonical.NewPublisher(
		u.cfg.Paths.CanonicalDir,
		u.testRelPath,
		u.execMode,
		canonical.WithLogger(stageLogger),
	)
	if err != nil {
		return services.Wrap(services.ErrValidation, "publish", "", "", err)
	}

	winners := make(map[string]string, len(result.BestCandidates))
	for image, best := range result.BestCandidates {
		winners[image] = filepath.Join(producer.CandidateDir(best), image)
	}

	if err := publisher.PublishImages(winners); err != nil {
		return services.Wrap(services.ErrExternalTool, "publish", "", "copy canonical images", err)
	}
	if err := publisher.MergeTolerances(u.diffJSONPath, result.Tolerances); err != nil {
		return services.Wrap(services.ErrExternalTool, "publish", "", "merge tolerance document", err)
	}
	return nil
}

// recordRun persists run history on a best-effort basis; a failure here
// never fails the update.
func (u *Updater) recordRun(ctx context.Context, result *Result, elapsed time.Duration) {
	if u.runLog == nil {
		return
	}
	for image, best := range result.BestCandidates {
		tolerance := result.Tolerances[image]
		err := u.runLog.Record(ctx, runlog.Entry{
			RunID:         u.runID,
			TestPath:      u.testRelPath,
			ExecMode:      u.execMode,
			Image:         image,
			BestCandidate: best,
			NumRenders:    u.numRenders,
			Warn:          tolerance.Warn,
			Fail:          tolerance.Fail,
			HardFail:      tolerance.HardFail,
			Duration:      elapsed,
		})
		if err != nil {
			u.logger.Warn("failed to record run history", logging.Error(err))
		}
	}
}

func normalizeExecMode(mode string) (string, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	for _, known := range ExecModes {
		if mode == known {
			// "default" resolves to the renderer's auto mode for storage keys.
			if mode == "default" {
				return "auto", nil
			}
			return mode, nil
		}
	}
	return "", fmt.Errorf("execution mode must be one of %s, got %q", strings.Join(ExecModes, ", "), mode)
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
