package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sciviz/figlint/pkg/export"
	"github.com/sciviz/figlint/pkg/fix"
	"github.com/sciviz/figlint/pkg/pipeline"
	"github.com/sciviz/figlint/pkg/standards"
)

// fixCommand creates the fix command for applying automated repairs.
func (c *CLI) fixCommand() *cobra.Command {
	var (
		output        string
		reportOut     string
		noCache       bool
		kindsStr      string
		dryRun        bool
		standardsFile string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "fix [scene.json]",
		Short: "Audit a figure and apply automated fixes",
		Long: `Audit a figure and apply automated fixes.

The fix command audits the scene dump, applies every automated repair
the report allows (shared legends, font harmonization, resizing,
resolution bumps, colorblind-safe recoloring), and writes the repaired
scene dump. Issues that need judgment, like missing axis labels, are
reported but left alone.

The repaired dump can be re-imported by the plotting-tool bridge that
produced the original.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kindsStr != "" {
				opts.FixKinds = strings.Split(kindsStr, ",")
			}
			if standardsFile != "" {
				if _, err := standards.LoadFile(standardsFile); err != nil {
					return err
				}
			}
			if dryRun {
				return c.runFixDryRun(cmd.Context(), args[0], opts, noCache)
			}
			return c.runFix(cmd.Context(), args[0], opts, output, reportOut, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.Journal, "journal", "j", "", "journal standard (default: balanced defaults)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path for the fixed scene dump (default: <input>_fixed.json)")
	cmd.Flags().StringVar(&reportOut, "report", "", "also write the JSON report to a file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached results exist")
	cmd.Flags().StringVar(&kindsStr, "only", "", "restrict fixes to these issue kinds (comma-separated)")
	cmd.Flags().StringVar(&standardsFile, "standards", "", "merge user-defined standards from a TOML file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "describe the fixes without applying them")

	return cmd
}

// runFixDryRun audits the scene and prints what each fix would do.
func (c *CLI) runFixDryRun(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
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

	report, err := runner.Audit(ctx, fig, opts)
	if err != nil {
		return err
	}

	fixable := opts.FixableIssues(report)
	if len(fixable) == 0 {
		printWarning("No fixable issues; nothing to do")
		return nil
	}

	printInfo("Would apply %d fixes:", len(fixable))
	for _, issue := range fixable {
		desc, err := fix.Describe(issue)
		if err != nil {
			continue
		}
		printDetail("%s: %s", desc.Kind, desc.Summary)
	}
	return nil
}

// runFix audits the scene, applies fixes, and writes the repaired dump.
func (c *CLI) runFix(ctx context.Context, input string, opts pipeline.Options, output, reportOut string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fixing %s...", input))
	spinner.Start()

	report, err := runner.Audit(ctx, fig, opts)
	if err != nil {
		spinner.StopWithError("Audit failed")
		return err
	}

	fixed, applied, err := runner.Fix(ctx, fig, report, opts)
	if err != nil {
		spinner.StopWithError("Fix failed")
		return err
	}
	spinner.Stop()

	printInfo("Audited against %s", StyleHighlight.Render(report.Journal))
	printStats(len(fig.Panels), len(report.Issues), false)
	printNewline()

	if len(applied) == 0 {
		printWarning("No fixable issues; nothing to do")
	} else {
		for _, issue := range applied {
			printSuccess("fixed %s", issue.Kind)
		}
	}

	if output == "" {
		output = basePath("", input) + "_fixed.json"
	}
	if err := export.ExportScene(fixed, output); err != nil {
		return err
	}
	printFile(output)

	if reportOut != "" {
		if err := export.ExportReport(report, reportOut); err != nil {
			return err
		}
		printFile(reportOut)
	}

	if remaining := len(report.Issues) - len(applied); remaining > 0 {
		printNewline()
		printDetail("%d issues remain and need manual attention", remaining)
	}
	return nil
}
