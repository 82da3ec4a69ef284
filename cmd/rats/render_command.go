package main

import (
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"rats/internal/config"
	"rats/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render -- <command> [args...]",
		Short: "Run a render command with configured thread injection",
		Long: strings.TrimSpace(`
Executes the given render command in the current directory, appending
"-threads <n>" when a thread count is configured or set through the
environment. Exit status is passed through unchanged so wrappers in CI
scripts behave exactly like the bare renderer.
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			threads, threadsErr := config.ResolveRenderThreads(cfg.Update.RenderThreads)
			if threadsErr != nil {
				logger.Warn("ignoring invalid render thread override", "error", threadsErr)
			}
			command := render.InjectThreads(args, threads)

			child := exec.CommandContext(cmd.Context(), command[0], command[1:]...) //nolint:gosec
			child.Stdout = cmd.OutOrStdout()
			child.Stderr = cmd.ErrOrStderr()
			child.Stdin = os.Stdin

			if err := child.Run(); err != nil {
				var exitErr *exec.ExitError
				if errors.As(err, &exitErr) {
					os.Exit(exitErr.ExitCode())
				}
				return err
			}
			return nil
		},
	}
	return cmd
}
