package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sciviz/figlint/pkg/standards"
)

// standardsCommand creates the standards listing command.
func (c *CLI) standardsCommand() *cobra.Command {
	var load string

	cmd := &cobra.Command{
		Use:   "standards [name]",
		Short: "List the registered journal standards",
		Long: `List the registered journal standards.

Each standard describes a venue's accepted column widths, maximum
height, minimum export resolution, and font size range. With a name
argument, only that standard is shown. User-defined standards can be
merged from a TOML file with --load; they shadow builtin entries of
the same name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if load != "" {
				n, err := standards.LoadFile(load)
				if err != nil {
					return err
				}
				printInfo("Loaded %d user standards from %s", n, load)
				printNewline()
			}

			names := standards.List()
			if len(args) == 1 {
				names = args
			}
			for _, name := range names {
				std, err := standards.Lookup(name)
				if err != nil {
					if len(args) == 1 {
						return err
					}
					continue
				}
				fmt.Println(StyleTitle.Render(std.Name))
				printKeyValue("widths", fmt.Sprintf("%.2f / %.2f / %.2f in", std.WidthSingle, std.WidthOneHalf, std.WidthDouble))
				printKeyValue("max height", fmt.Sprintf("%.2f in", std.MaxHeight))
				printKeyValue("resolution", fmt.Sprintf("%d dpi minimum", std.DPIMin))
				printKeyValue("fonts", fmt.Sprintf("%g-%g pt", std.FontMin, std.FontMax))
				if std.Notes != "" {
					printDetail("%s", std.Notes)
				}
				printNewline()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&load, "load", "", "merge user-defined standards from a TOML file")
	return cmd
}
