package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"spellbook/internal/migration"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Backfill canonical data and content hashes for spells without one",
		Long: "Backs up the store, then parses, canonicalizes, and hashes every spell\n" +
			"missing a content_hash in a single transaction. Any hash collision rolls\n" +
			"the whole run back.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(s *session) error {
				run, err := migration.NewManager(s.cfg, s.store, s.logger).Run(cmd.Context())
				report := run.Report()
				if ctx.JSONMode() {
					if werr := writeJSON(cmd, report); werr != nil && err == nil {
						err = werr
					}
					return err
				}
				if err != nil {
					return err
				}
				renderMigrationReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

func renderMigrationReport(out io.Writer, rep migration.Report) {
	colorize := shouldColorize(out)
	if rep.Total == 0 {
		fmt.Fprintln(out, "Every spell already has a content hash; nothing to migrate.")
		return
	}
	fmt.Fprintln(out, metricTable([][2]string{
		{"Run", rep.RunID},
		{"State", string(rep.State)},
		{"Pending", strconv.Itoa(rep.Total)},
		{"Processed", strconv.Itoa(rep.Processed)},
		{"Updated", fmt.Sprintf("%d (%d%%)", rep.Updated, rep.UpdatedPercent)},
		{"With fallbacks", fmt.Sprintf("%d (%d%%)", rep.Fallbacks, rep.FallbackPercent)},
		{"Hash failures", strconv.Itoa(rep.HashFailures)},
		{"Duration", rep.Duration.Round(time.Millisecond).String()},
	}, colorize))

	if len(rep.FieldFallbacks) > 0 {
		fields := rep.FallbackFields()
		rows := make([][]string, 0, len(fields))
		for _, f := range fields {
			rows = append(rows, []string{f, strconv.Itoa(rep.FieldFallbacks[f])})
		}
		fmt.Fprintln(out, renderTable([]string{"Field", "Fallbacks"}, rows,
			[]columnAlignment{alignLeft, alignRight}, colorize))
	}
	if rep.BackupPath != "" {
		fmt.Fprintf(out, "Backup: %s\n", rep.BackupPath)
	}
	if rep.HashFailures > 0 {
		fmt.Fprintln(out, "Spells that failed validation still have no hash; fix them and run spellbook --recompute-hashes.")
	}
}
