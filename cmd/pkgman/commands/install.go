package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/pkgman/internal/app"
	"go.trai.ch/pkgman/internal/core/domain"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "install <name>",
		Aliases: []string{"i"},
		Short:   "Install a package from the registry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, _ := cmd.Flags().GetString("version")
			force, _ := cmd.Flags().GetBool("force")
			return c.app.Install(cmd.Context(), app.InstallOptions{
				Name:    args[0],
				Version: version,
				Force:   force,
			})
		},
	}
	cmd.Flags().String("version", domain.LatestVersion, "Package version")
	cmd.Flags().BoolP("force", "f", false, "Reinstall even if the version is already installed")
	return cmd
}

func (c *CLI) newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new C project in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			return c.app.Init(cmd.Context(), app.InitOptions{Name: name})
		},
	}
	cmd.Flags().String("name", "", "Project name (default: directory name)")
	return cmd
}
