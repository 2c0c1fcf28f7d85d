package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tessera/pkg/errors"
	"github.com/matzehuels/tessera/pkg/render/svg"
	"github.com/matzehuels/tessera/pkg/shapes"
)

// presetsCommand creates the presets command.
func (c *CLI) presetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in base shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), presetTable(shapes.Presets(), nil, nil).Render())
			printNextStep("Render one", "tessera render --preset star")
			return nil
		},
	}

	cmd.AddCommand(c.presetsShowCommand())
	cmd.AddCommand(c.presetsPickCommand())

	return cmd
}

// presetsShowCommand creates the "presets show" subcommand.
func (c *CLI) presetsShowCommand() *cobra.Command {
	var (
		size   float64
		fill   string
		center bool
	)

	cmd := &cobra.Command{
		Use:       "show [name]",
		Short:     "Print the polygon markup of a preset",
		Args:      cobra.ExactArgs(1),
		ValidArgs: shapes.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := shapes.Lookup(args[0], size, fill)
			if err != nil {
				return err
			}
			if center {
				g = shapes.Center(g)
			}
			fmt.Fprint(cmd.OutOrStdout(), svg.GroupMarkup(g))
			return nil
		},
	}

	cmd.Flags().Float64Var(&size, "size", shapes.DefaultSize, "preset size")
	cmd.Flags().StringVar(&fill, "fill", shapes.DefaultFill, "fill color")
	cmd.Flags().BoolVar(&center, "center", false, "center the group on the origin")

	return cmd
}

// presetsPickCommand creates the "presets pick" subcommand. The menu is drawn
// on stderr so that the chosen name can be captured from stdout.
func (c *CLI) presetsPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose a preset interactively and print its name",
		Example: `  tessera render --preset "$(tessera presets pick)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(
				NewPresetListModel(shapes.Presets()),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(os.Stderr),
			)
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("preset picker: %w", err)
			}
			m, ok := final.(PresetListModel)
			if !ok || m.Selected == nil {
				return errors.New(errors.ErrCodeInvalidInput, "no preset selected")
			}
			fmt.Fprintln(cmd.OutOrStdout(), m.Selected.Name)
			return nil
		},
	}
}
