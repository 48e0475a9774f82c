// Package commands implements the CLI commands for the pkgman build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/pkgman/internal/app"
	"go.trai.ch/pkgman/internal/build"
)

// CLI represents the command line interface for pkgman.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Configure(opts app.GlobalOptions)
	Build(ctx context.Context, opts app.BuildOptions) error
	Generate(ctx context.Context) error
	Clean(ctx context.Context) error
	Rebuild(ctx context.Context) error
	Install(ctx context.Context, opts app.InstallOptions) error
	Init(ctx context.Context, opts app.InitOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "pkgman",
		Short:         "A build graph generator and package manager for C projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the settings file (default pkgman.yaml)")
	rootCmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		settingsPath, _ := cmd.Flags().GetString("config")
		jsonLogs, _ := cmd.Flags().GetBool("json")
		a.Configure(app.GlobalOptions{SettingsPath: settingsPath, JSON: jsonLogs})
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newGenerateCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newRebuildCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
