package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/philly/rolekeeper/internal/server"
	"github.com/spf13/cobra"
)

var flagSeedOwner string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bootstrap the first owner",
	Long: `Grant the owner role to --owner when no owner exists yet.
Running it again once an owner exists changes nothing.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&flagSeedOwner, "owner", "", "Internal user id to bootstrap as owner (required)")
	_ = seedCmd.MarkFlagRequired("owner")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ownerID, err := uuid.Parse(flagSeedOwner)
	if err != nil {
		return fmt.Errorf("--owner: invalid user id %q", flagSeedOwner)
	}

	return withTooling(cmd.Context(), func(t *server.Tooling) error {
		if err := t.Seed(cmd.Context(), ownerID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Owner bootstrap complete for %s.\n", ownerID)
		return nil
	})
}
