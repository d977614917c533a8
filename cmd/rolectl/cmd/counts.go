package cmd

import (
	"strconv"

	"github.com/philly/rolekeeper/internal/roles/domain"
	"github.com/philly/rolekeeper/internal/server"
	"github.com/spf13/cobra"
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Show how many users hold each role",
	RunE:  runCounts,
}

func runCounts(cmd *cobra.Command, args []string) error {
	return withTooling(cmd.Context(), func(t *server.Tooling) error {
		counts, err := t.Queries.CountsByRole(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagOutput == outputJSON {
			byName := make(map[string]int, len(counts))
			for role, n := range counts {
				byName[role.String()] = n
			}
			return printJSON(out, byName)
		}

		table := newTable(out, "ROLE", "USERS")
		for _, role := range domain.AllRoles() {
			table.AddRow(role.String(), strconv.Itoa(counts[role]))
		}
		return table.Flush()
	})
}
