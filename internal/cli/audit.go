package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sciviz/figlint/pkg/audit"
	"github.com/sciviz/figlint/pkg/export"
	"github.com/sciviz/figlint/pkg/pipeline"
	"github.com/sciviz/figlint/pkg/standards"
)

// auditCommand creates the audit command for checking scene dumps.
func (c *CLI) auditCommand() *cobra.Command {
	var (
		output        string
		noCache       bool
		failOn        string
		interactive   bool
		format        string
		standardsFile string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "audit [scene.json]",
		Short: "Check a figure against a journal standard",
		Long: `Check a figure against a journal standard.

The audit command takes a scene dump (produced by a plotting-tool
bridge) and checks it against the requested journal's figure
requirements: legend redundancy, data occlusion, font consistency,
size and resolution limits, and colorblind safety.

Results are cached locally for faster subsequent runs.

Use 'fix' to additionally apply automated repairs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if failOn != "" {
				if _, ok := audit.ParseSeverity(failOn); !ok {
					return fmt.Errorf("invalid severity %q (must be info, warning, or error)", failOn)
				}
			}
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid format %q (must be text or json)", format)
			}
			if standardsFile != "" {
				if _, err := standards.LoadFile(standardsFile); err != nil {
					return err
				}
			}
			return c.runAudit(cmd.Context(), args[0], opts, output, noCache, failOn, interactive, format)
		},
	}

	cmd.Flags().StringVarP(&opts.Journal, "journal", "j", "", "journal standard (default: balanced defaults)")
	cmd.Flags().StringVar(&standardsFile, "standards", "", "merge user-defined standards from a TOML file")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "report output: text or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON report to a file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached report exists")
	cmd.Flags().StringVar(&failOn, "fail-on", "", "exit non-zero when issues at or above this severity exist: info, warning, error")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the report in an interactive viewer")
	cmd.Flags().Float64Var(&opts.OcclusionWarn, "occlusion-warn", 0, "occlusion warning threshold (fraction, default 0.05)")
	cmd.Flags().Float64Var(&opts.OcclusionError, "occlusion-error", 0, "occlusion error threshold (fraction, default 0.20)")
	cmd.Flags().Float64Var(&opts.SizeTolerance, "size-tolerance", 0, "width deviation tolerance (fraction, default 0.02)")

	return cmd
}

// runAudit imports the scene, audits it, and presents the report.
func (c *CLI) runAudit(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool, failOn string, interactive bool, format string) error {
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

	// No spinner in json mode: keep output clean for piping.
	var spinner *Spinner
	if format != "json" {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Auditing %s...", input))
		spinner.Start()
	}

	report, cacheHit, err := runner.AuditWithCacheInfo(ctx, fig, opts)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Audit failed")
		}
		return err
	}
	if spinner != nil {
		spinner.Stop()
	}

	if format == "json" {
		if err := export.WriteReport(report, os.Stdout); err != nil {
			return err
		}
	} else {
		printInfo("Audited against %s", StyleHighlight.Render(report.Journal))
		printStats(len(fig.Panels), len(report.Issues), cacheHit)
		printNewline()

		if interactive {
			if err := browseReport(report); err != nil {
				return err
			}
		} else {
			printReport(report)
		}
	}

	if output != "" {
		if err := export.ExportReport(report, output); err != nil {
			return err
		}
		printFile(output)
	}

	if fixable := report.AutoFixable(); len(fixable) > 0 && format != "json" {
		printNewline()
		printNextStep("Apply automated fixes", fmt.Sprintf("figlint fix %s --journal %s", input, report.Journal))
	}

	if failOn != "" {
		min, _ := audit.ParseSeverity(failOn)
		if report.HasSeverity(min) {
			return fmt.Errorf("issues at or above %s severity found", failOn)
		}
	}
	return nil
}
