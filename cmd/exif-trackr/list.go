package main

import (
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/quidome/exif-trackr-go/pkg/output"
	"github.com/quidome/exif-trackr-go/pkg/track"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:          "list [input dir]",
		Short:        "Print the track points as a table",
		Long:         "List reads the directory exactly like the root command and prints the ordered points as a table instead of a track document.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRun(cmd, opts, args[0])
			if err != nil {
				return err
			}

			t, err := r.track()
			if err != nil {
				return err
			}

			return output.Write(cmd.OutOrStdout(), r.cfg.Output, []byte(renderTable(t)+"\n"))
		},
	}
}

func renderTable(t track.Track) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Time", "Latitude", "Longitude", "Altitude", "File"})

	for _, r := range t {
		alt := "-"
		if r.Altitude != nil {
			alt = formatFloat(*r.Altitude)
		}
		tw.AppendRow(table.Row{
			r.CapturedAt.UTC().Format(time.RFC3339),
			formatFloat(*r.Latitude),
			formatFloat(*r.Longitude),
			alt,
			r.Path,
		})
	}
	tw.AppendFooter(table.Row{"", "", "", "Points", strconv.Itoa(len(t))})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
