package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"rats/internal/runlog"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent canonical update history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.RunLog.Enabled || cfg.RunLog.Path == "" {
				return errors.New("run history is disabled (enable run_log in the configuration)")
			}

			store, err := runlog.Open(cfg.RunLog.Path)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No canonical updates recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.CreatedAt.Local().Format(time.DateTime),
					shortRunID(entry.RunID),
					entry.TestPath,
					entry.ExecMode,
					entry.Image,
					strconv.Itoa(entry.BestCandidate),
					formatFloat(entry.Warn),
					formatFloat(entry.Fail),
					formatFloat(entry.HardFail),
					entry.Duration.Round(time.Second).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Run", "Test", "Mode", "Image", "Best", "Warn", "Fail", "Hardfail", "Took"},
				rows,
				[]columnAlignment{
					alignLeft, alignLeft, alignLeft, alignLeft, alignLeft,
					alignRight, alignRight, alignRight, alignRight, alignRight,
				},
			))
			fmt.Fprintln(out, statusLine(fmt.Sprintf("%d update(s) shown", len(entries)), out))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show")
	return cmd
}
