package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"spellbook/internal/importer"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var updateExisting bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import legacy spell records from a .jsonl or .yaml file",
		Long: "Each record is stored with its legacy columns and, when it validates,\n" +
			"its canonical data and content hash. Records that fail validation are\n" +
			"kept with no hash for a later backfill. When migration.run_on_start is\n" +
			"set, pending spells are backfilled before the import begins. With\n" +
			"--update-existing, a record named like exactly one stored spell\n" +
			"rewrites that spell.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(func(s *session) error {
				if err := s.backfillOnStart(cmd.Context()); err != nil {
					return err
				}
				var opts []importer.Option
				if updateExisting {
					opts = append(opts, importer.UpdateExisting())
				}
				res, err := importer.New(s.store, s.logger, opts...).ImportFile(cmd.Context(), args[0])
				if err != nil {
					return withHint("check the file path and format (.jsonl, .yaml or .yml)", "import %s: %v", args[0], err)
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, res)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, metricTable([][2]string{
					{"Read", strconv.Itoa(res.Read)},
					{"Imported", strconv.Itoa(res.Imported)},
					{"Updated", strconv.Itoa(res.Updated)},
					{"Pending hash", strconv.Itoa(res.Pending)},
					{"Duplicates skipped", strconv.Itoa(res.Duplicates)},
					{"Malformed lines", strconv.Itoa(res.Malformed)},
					{"Rejected (no name)", strconv.Itoa(res.Rejected)},
					{"Sync mismatches", strconv.Itoa(res.SyncMismatches)},
				}, shouldColorize(out)))
				if res.Duplicates > 0 {
					fmt.Fprintln(out, "Duplicates matched spells already stored; run spellbook --detect-collisions to review them.")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Rewrite the stored spell whose name matches a record")
	return cmd
}
