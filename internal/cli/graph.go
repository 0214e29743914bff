package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sciviz/figlint/pkg/export"
	"github.com/sciviz/figlint/pkg/pipeline"
)

// graphCommand creates the graph command for rendering audit diagrams.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		applyFixes bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "graph [scene.json]",
		Short: "Render the audit result as a diagram",
		Long: `Render the audit result as a diagram.

The graph command audits the scene dump and renders the figure
structure (figure, panels, elements) as a Graphviz diagram with nodes
colored by the worst issue severity found at each location.

Available formats: json, dot, svg, png. With --fix the diagram shows
the figure after automated repairs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			opts.ApplyFixes = applyFixes
			return c.runGraph(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.Journal, "journal", "j", "", "journal standard (default: balanced defaults)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path base (default: derived from input)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "dot", "output formats (comma-separated): json, dot, svg, png")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached results exist")
	cmd.Flags().BoolVar(&applyFixes, "fix", false, "render the figure after automated fixes")

	return cmd
}

// runGraph audits the scene and writes the rendered artifacts.
func (c *CLI) runGraph(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	fig, err := export.ImportScene(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, fig, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	printInfo("Audited against %s", StyleHighlight.Render(result.Report.Journal))
	printStats(len(fig.Panels), len(result.Report.Issues), result.CacheInfo.RenderHit)
	printNewline()

	base := basePath(output, input)
	for _, format := range opts.Formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if path == input {
			// Never overwrite the input scene with a report artifact.
			path = base + "_audit." + format
		}
		if err := writeArtifact(path, data); err != nil {
			return err
		}
	}
	return nil
}
