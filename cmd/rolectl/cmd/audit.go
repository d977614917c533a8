package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	auditdomain "github.com/philly/rolekeeper/internal/audit/domain"
	"github.com/philly/rolekeeper/internal/platform/pagination"
	"github.com/philly/rolekeeper/internal/server"
	"github.com/spf13/cobra"
)

var (
	flagAuditEntityType string
	flagAuditAction     string
	flagAuditActor      string
	flagAuditSince      string
	flagAuditUntil      string
	flagAuditPage       int
	flagAuditPerPage    int
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List audit entries, newest first",
	Example: `  rolectl audit --since 2025-01-01 --until 2025-01-31
  rolectl audit --entity-type role_assignment --action role_removed -o json`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&flagAuditEntityType, "entity-type", "", "Only entries for this entity type")
	auditCmd.Flags().StringVar(&flagAuditAction, "action", "", "Only entries with this action")
	auditCmd.Flags().StringVar(&flagAuditActor, "actor", "", "Only entries by this actor id")
	auditCmd.Flags().StringVar(&flagAuditSince, "since", "", "Start of the range (RFC3339 or YYYY-MM-DD), inclusive")
	auditCmd.Flags().StringVar(&flagAuditUntil, "until", "", "End of the range (RFC3339 or YYYY-MM-DD), inclusive")
	auditCmd.Flags().IntVar(&flagAuditPage, "page", 1, "Page number")
	auditCmd.Flags().IntVar(&flagAuditPerPage, "per-page", pagination.DefaultPerPage, "Entries per page")
}

func runAudit(cmd *cobra.Command, args []string) error {
	filter, err := buildAuditFilter(flagAuditEntityType, flagAuditAction, flagAuditActor, flagAuditSince, flagAuditUntil)
	if err != nil {
		return err
	}

	return withTooling(cmd.Context(), func(t *server.Tooling) error {
		page, err := t.Queries.QueryAudit(cmd.Context(), filter, pagination.New(flagAuditPage, flagAuditPerPage))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagOutput == outputJSON {
			return printJSON(out, page)
		}

		table := newTable(out, "TIMESTAMP", "ACTION", "ENTITY", "ACTOR", "FROM", "TO")
		for _, e := range page.Data {
			actor := "system"
			if e.ActorUserID != nil {
				actor = e.ActorUserID.String()
			}
			table.AddRow(
				e.Timestamp.Format(time.RFC3339),
				string(e.Action),
				e.EntityType+"/"+e.EntityID,
				actor,
				metaString(e.Metadata, auditdomain.MetaFrom),
				metaString(e.Metadata, auditdomain.MetaTo),
			)
		}
		if err := table.Flush(); err != nil {
			return err
		}
		printPagination(out, page.Total, page.Page, page.PerPage, page.TotalPages)
		return nil
	})
}

// buildAuditFilter turns the raw flag values into a filter. A bare date for
// --until covers the whole day.
func buildAuditFilter(entityType, action, actor, since, until string) (auditdomain.Filter, error) {
	filter := auditdomain.Filter{
		EntityType: entityType,
		Action:     auditdomain.Action(action),
	}

	if actor != "" {
		id, err := uuid.Parse(actor)
		if err != nil {
			return auditdomain.Filter{}, fmt.Errorf("--actor: invalid user id %q", actor)
		}
		filter.ActorID = &id
	}
	if since != "" {
		from, _, err := parseTimeFlag(since)
		if err != nil {
			return auditdomain.Filter{}, fmt.Errorf("--since: %w", err)
		}
		filter.From = &from
	}
	if until != "" {
		to, dateOnly, err := parseTimeFlag(until)
		if err != nil {
			return auditdomain.Filter{}, fmt.Errorf("--until: %w", err)
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filter.To = &to
	}
	if err := filter.Validate(); err != nil {
		return auditdomain.Filter{}, err
	}
	return filter, nil
}

func parseTimeFlag(value string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%q is neither RFC3339 nor YYYY-MM-DD", value)
	}
	return t, true, nil
}

func metaString(meta map[string]any, key string) string {
	if v, ok := meta[key]; ok {
		return fmt.Sprint(v)
	}
	return "-"
}
