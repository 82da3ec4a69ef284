package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rats/internal/services/oiio"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <image> [image...]",
		Short: "Print full-precision pixel statistics for images",
		Long: strings.TrimSpace(`
Prints per-channel Min/Max/Avg/StdDev at full float64 precision, unlike
oiiotool's rounded --stats output. Useful when diagnosing why a tolerance
was derived the way it was.
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := oiio.New(cfg.Update.Oiiotool)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, image := range args {
				stats, err := client.Stats(cmd.Context(), image)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (%d channels)\n", image, stats.Channels())
				printChannelRow(out, "Min", stats.Min)
				printChannelRow(out, "Max", stats.Max)
				printChannelRow(out, "Avg", stats.Avg)
				printChannelRow(out, "StdDev", stats.StdDev)
				printCountRow(out, "NaN", stats.NaNCount)
				printCountRow(out, "Inf", stats.InfCount)
				printCountRow(out, "Finite", stats.FiniteCount)
			}
			return nil
		},
	}
	return cmd
}

func printChannelRow(out io.Writer, label string, values []float64) {
	if len(values) == 0 {
		return
	}
	formatted := make([]string, len(values))
	for i, value := range values {
		formatted[i] = formatFloat(value)
	}
	fmt.Fprintf(out, "  %-7s %s\n", label+":", strings.Join(formatted, " "))
}

func printCountRow(out io.Writer, label string, values []int64) {
	if len(values) == 0 {
		return
	}
	formatted := make([]string, len(values))
	for i, value := range values {
		formatted[i] = strconv.FormatInt(value, 10)
	}
	fmt.Fprintf(out, "  %-7s %s\n", label+":", strings.Join(formatted, " "))
}
