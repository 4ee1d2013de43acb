package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/praveen44/portfolio/internal/content"
	"github.com/praveen44/portfolio/internal/view"
)

// NewContentCommand creates the content command group.
func NewContentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect portfolio content",
	}
	cmd.AddCommand(newContentCheckCommand())
	return cmd
}

func newContentCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the content file and list its projects",
		Long: `Load and validate the content file (or the built-in default), then list
each project with its links and whether its image resolves. Projects whose
image is missing render with the fallback image.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context())

			site, err := content.Load(cfg.Content.Path)
			if err != nil {
				return err
			}
			return renderContentCheck(cmd.OutOrStdout(), site, view.LocalProbe(cfg.Assets.ImagesDir))
		},
	}
}

func renderContentCheck(w io.Writer, site *content.Site, probe view.Probe) error {
	_, _ = fmt.Fprintf(w, "%s: %d projects, %d skill groups, %d certifications\n",
		site.Profile.Name, len(site.Projects), len(site.Skills), len(site.Certifications))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Slug", "Title", "Live", "Code", "Image"})

	missing := 0
	for _, p := range site.Projects {
		image := "ok"
		if p.Image == "" || !probe(p.Image) {
			image = "fallback"
			missing++
		}
		t.AppendRow(table.Row{p.Slug, p.Title, yesNo(p.HasLive()), yesNo(p.HasRepo()), image})
	}
	t.Render()

	if missing > 0 {
		_, _ = fmt.Fprintf(w, "%d project image(s) will use the fallback\n", missing)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
