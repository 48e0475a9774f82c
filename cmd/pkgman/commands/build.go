package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pkgman/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build",
		Aliases: []string{"b"},
		Short:   "Generate the Makefile and build every target",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			emitOnly, _ := cmd.Flags().GetBool("emit-only")
			return c.app.Build(cmd.Context(), app.BuildOptions{EmitOnly: emitOnly})
		},
	}
	cmd.Flags().Bool("emit-only", false, "Only write the Makefile, do not compile")
	return cmd
}

func (c *CLI) newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Write the Makefile without building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Generate(cmd.Context())
		},
	}
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clean",
		Aliases: []string{"c"},
		Short:   "Remove the build directory",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context())
		},
	}
}

func (c *CLI) newRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rebuild",
		Aliases: []string{"rb"},
		Short:   "Clean and build from scratch",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Rebuild(cmd.Context())
		},
	}
}
