package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/praveen44/portfolio/internal/tracking"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show visitor statistics",
		Long: `Print visitor counts and the most viewed projects from the tracking
database. Addresses are stored only as salted hashes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context())
			if cfg.Tracking.DB == "" {
				return errors.New("no tracking database configured (set --tracking-db or tracking.db)")
			}

			store, err := tracking.Open(cfg.Tracking.DB, cfg.Tracking.Salt, getLogger(cmd.Context()))
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return renderStats(cmd.OutOrStdout(), stats, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table|json)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func renderStats(w io.Writer, stats *tracking.Stats, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	case "table", "":
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRow(table.Row{"Total visits", stats.TotalVisitors})
	t.AppendRow(table.Row{"Unique visitors", stats.UniqueVisitors})
	t.AppendRow(table.Row{"Visits today", stats.VisitorsToday})
	t.AppendRow(table.Row{"Visits this week", stats.VisitorsThisWeek})
	t.Render()

	if len(stats.TopProjects) == 0 {
		_, _ = fmt.Fprintln(w, "No project views recorded.")
		return nil
	}

	p := table.NewWriter()
	p.SetOutputMirror(w)
	p.SetStyle(table.StyleLight)
	p.AppendHeader(table.Row{"Project", "Views", "Unique"})
	for _, ps := range stats.TopProjects {
		p.AppendRow(table.Row{ps.Slug, ps.Views, ps.Uniques})
	}
	p.Render()
	return nil
}
