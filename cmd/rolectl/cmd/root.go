package cmd

import (
	"context"
	"fmt"

	"github.com/philly/rolekeeper/internal/server"
	"github.com/spf13/cobra"
)

var (
	version string

	// Global flags
	flagOutput string
)

// newTooling builds the services behind every command. Tests replace it.
var newTooling = server.InitializeTooling

var rootCmd = &cobra.Command{
	Use:   "rolectl",
	Short: "rolekeeper administration CLI",
	Long: `rolectl talks to the rolekeeper database directly.

It bootstraps the first owner, prints role counts and lists the audit trail.
Configuration is read from the same environment as the API (DATABASE_URL,
REDIS_ADDR, AUDIT_DELIVERY, ...).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the CLI version from build flags.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", outputTable, "Output format: table, json")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(countsCmd)
	rootCmd.AddCommand(auditCmd)
}

// withTooling runs fn against freshly wired services and waits for their
// event handlers before releasing them.
func withTooling(ctx context.Context, fn func(t *server.Tooling) error) error {
	tooling, cleanup, err := newTooling(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := fn(tooling); err != nil {
		return err
	}
	return tooling.Close(ctx)
}
