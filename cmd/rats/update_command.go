package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rats/internal/runlog"
	"rats/internal/updater"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		testRelPath   string
		canonicals    []string
		renderCmd     string
		execMode      string
		diffJSON      string
		numRenders    int
		runConcurrent bool
		maxWorkers    int
		noGenerate    bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Regenerate canonical images and tolerances for one test",
		Long: strings.TrimSpace(`
Renders the test multiple times, compares every pair of results, publishes
the most representative render as the new canonical image set, and derives
per-image difference tolerances from the observed render-to-render noise.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			docPath := strings.TrimSpace(diffJSON)
			if docPath == "" {
				docPath = filepath.Join(testRelPath, "diff.json")
			}

			var store *runlog.Store
			if cfg.RunLog.Enabled && cfg.RunLog.Path != "" {
				store, err = runlog.Open(cfg.RunLog.Path)
				if err != nil {
					logger.Warn("run history unavailable", "error", err)
					store = nil
				} else {
					defer store.Close()
				}
			}

			u, err := updater.New(updater.Options{
				Config:        cfg,
				TestRelPath:   testRelPath,
				Canonicals:    canonicals,
				RenderCommand: renderCmd,
				ExecMode:      execMode,
				DiffJSONPath:  docPath,
				NumRenders:    numRenders,
				RunConcurrent: runConcurrent,
				MaxWorkers:    maxWorkers,
				Generate:      !noGenerate,
				Logger:        logger,
				RunLog:        store,
			})
			if err != nil {
				return err
			}

			result, err := u.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if noGenerate {
				fmt.Fprintln(out, "Generation disabled; no canonicals were updated")
				return nil
			}

			images := make([]string, 0, len(result.BestCandidates))
			for image := range result.BestCandidates {
				images = append(images, image)
			}
			sort.Strings(images)

			rows := make([][]string, 0, len(images))
			for _, image := range images {
				tolerance := result.Tolerances[image]
				rows = append(rows, []string{
					image,
					strconv.Itoa(result.BestCandidates[image]),
					formatFloat(tolerance.Warn),
					formatFloat(tolerance.Fail),
					formatFloat(tolerance.HardFail),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Image", "Best", "Warn", "Fail", "Hardfail"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			fmt.Fprintln(out, statusLine(fmt.Sprintf(
				"Updated %d canonical image(s) in %s (run %s)",
				len(images), result.Elapsed.Round(time.Millisecond), shortRunID(result.RunID),
			), out))
			return nil
		},
	}

	cmd.Flags().StringVar(&testRelPath, "test-rel-path", "", "Test path relative to the canonical root")
	cmd.Flags().StringArrayVar(&canonicals, "canonical", nil, "Tracked output image name (repeatable)")
	cmd.Flags().StringVar(&renderCmd, "render-cmd", "", "Render command producing the tracked images")
	cmd.Flags().StringVar(&execMode, "exec-mode", "auto", "Execution mode (scalar, vector, xpu, auto, default)")
	cmd.Flags().StringVar(&diffJSON, "diff-json", "", "Tolerance document path relative to the canonical root (default <test-rel-path>/diff.json)")
	cmd.Flags().IntVar(&numRenders, "num-renders", 0, "Candidate renders per update (0 uses the configured count)")
	cmd.Flags().BoolVar(&runConcurrent, "run-concurrent", false, "Render and compare candidates in parallel")
	cmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Worker bound for concurrent execution (0 uses available CPUs)")
	cmd.Flags().BoolVar(&noGenerate, "no-generate", false, "Validate configuration and exit without rendering")

	_ = cmd.MarkFlagRequired("test-rel-path")
	_ = cmd.MarkFlagRequired("canonical")
	_ = cmd.MarkFlagRequired("render-cmd")

	return cmd
}

func shortRunID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
