package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"spellbook/internal/admin"
	"spellbook/internal/store"
)

func runAdmin(cmd *cobra.Command, ctx *commandContext, flags *adminFlags) error {
	return ctx.withSession(func(s *session) error {
		tk := s.toolkit()
		switch {
		case flags.recompute:
			return recomputeHashes(cmd, ctx, tk)
		case flags.checkIntegrity:
			return checkIntegrity(cmd, ctx, tk)
		case flags.detectCollisions:
			return detectCollisions(cmd, ctx, tk)
		case flags.restoreBackup != "":
			return restoreBackup(cmd, ctx, tk, flags.restoreBackup)
		case flags.listBackups:
			return listBackups(cmd, ctx, tk)
		case flags.rollback:
			return rollbackMigration(cmd, ctx, tk)
		case flags.exportReport:
			return exportReport(cmd, ctx, tk)
		}
		return nil
	})
}

func recomputeHashes(cmd *cobra.Command, ctx *commandContext, tk *admin.Toolkit) error {
	rep, err := tk.RecomputeHashes(cmd.Context())
	if err != nil {
		return err
	}
	if ctx.JSONMode() {
		return writeJSON(cmd, rep)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, metricTable([][2]string{
		{"Spells", strconv.Itoa(rep.Total)},
		{"Hash changed", strconv.Itoa(rep.Changed)},
		{"Data refreshed", strconv.Itoa(rep.Refreshed)},
		{"Unchanged", strconv.Itoa(rep.Unchanged)},
		{"Failed validation", strconv.Itoa(rep.Failed)},
		{"Class refs updated", strconv.FormatInt(rep.ClassRefsUpdated, 10)},
		{"Sync mismatches", strconv.Itoa(rep.SyncMismatches)},
	}, shouldColorize(out)))
	if rep.Failed > 0 {
		fmt.Fprintln(out, "Spells that failed validation kept their previous hash; see migration.log for the problems.")
	}
	return nil
}

func checkIntegrity(cmd *cobra.Command, ctx *commandContext, tk *admin.Toolkit) error {
	rep, err := tk.CheckIntegrity(cmd.Context())
	if err != nil {
		return err
	}
	if ctx.JSONMode() {
		if err := writeJSON(cmd, rep); err != nil {
			return err
		}
	} else {
		renderIntegrity(cmd.OutOrStdout(), rep)
	}
	if !rep.Clean() {
		return withHint("run spellbook --detect-collisions for duplicate hashes, spellbook --recompute-hashes for mismatches, or restore a backup",
			"integrity check found problems: %s", strings.Join(rep.Issues(), "; "))
	}
	return nil
}

func renderIntegrity(out io.Writer, rep admin.IntegrityReport) {
	colorize := shouldColorize(out)
	sqliteKind := statusOK
	if !strings.EqualFold(rep.SQLiteCheck, "ok") {
		sqliteKind = statusError
	}
	fmt.Fprintln(out, renderSectionHeader("Integrity", colorize))
	fmt.Fprintln(out, renderStatusLine("SQLite check", sqliteKind, rep.SQLiteCheck, colorize))
	fmt.Fprintln(out, renderStatusLine("Spells", statusInfo, strconv.Itoa(rep.TotalSpells), colorize))
	fmt.Fprintln(out, renderStatusLine("Pending hashes", countStatus(rep.NullHashes, statusWarn), strconv.Itoa(rep.NullHashes), colorize))
	fmt.Fprintln(out, renderStatusLine("Hash mismatches", countStatus(rep.HashMismatchesTotal, statusError), strconv.Itoa(rep.HashMismatchesTotal), colorize))
	fmt.Fprintln(out, renderStatusLine("Orphan references", countStatus(len(rep.OrphanReferences), statusError), strconv.Itoa(len(rep.OrphanReferences)), colorize))
	fmt.Fprintln(out, renderStatusLine("Duplicate hashes", countStatus(len(rep.DuplicateHashes), statusError), strconv.Itoa(len(rep.DuplicateHashes)), colorize))

	if len(rep.HashMismatches) > 0 {
		rows := make([][]string, 0, len(rep.HashMismatches))
		for _, m := range rep.HashMismatches {
			detail := shortHash(m.Recomputed)
			if m.Problem != "" {
				detail = m.Problem
			}
			rows = append(rows, []string{strconv.FormatInt(m.SpellID, 10), m.Name, shortHash(m.StoredHash), detail})
		}
		fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Stored", "Recomputed"}, rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}, colorize))
	}
	if len(rep.OrphanReferences) > 0 {
		rows := make([][]string, 0, len(rep.OrphanReferences))
		for _, o := range rep.OrphanReferences {
			rows = append(rows, []string{
				strconv.FormatInt(o.ID, 10),
				strconv.FormatInt(o.CharacterClassID, 10),
				strconv.FormatInt(o.SpellID, 10),
				shortHash(o.SpellContentHash),
				o.Reason,
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Ref", "Class", "Spell", "Hash", "Reason"}, rows,
			[]columnAlignment{alignRight, alignRight, alignRight, alignLeft, alignLeft}, colorize))
	}
}

func detectCollisions(cmd *cobra.Command, ctx *commandContext, tk *admin.Toolkit) error {
	rep, err := tk.DetectCollisions(cmd.Context())
	if err != nil {
		return err
	}
	if ctx.JSONMode() {
		return writeJSON(cmd, rep)
	}
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if len(rep.Groups) == 0 {
		fmt.Fprintln(out, "No spells share a content hash.")
	} else {
		rows := make([][]string, 0, len(rep.Groups))
		for _, g := range rep.Groups {
			rows = append(rows, []string{shortHash(g.Hash), string(g.Verdict), formatRefs(g.Spells)})
		}
		fmt.Fprintln(out, renderTable([]string{"Hash", "Verdict", "Spells"}, rows, nil, colorize))
		if n := rep.TrueCollisions(); n > 0 {
			fmt.Fprintf(out, "%d group(s) hold different content under one hash and need manual resolution.\n", n)
		}
	}
	if len(rep.NearDuplicates) > 0 {
		rows := make([][]string, 0, len(rep.NearDuplicates))
		for _, nd := range rep.NearDuplicates {
			rows = append(rows, []string{nd.Name, formatRefs(nd.Spells), fmt.Sprintf("%.2f", nd.Similarity)})
		}
		fmt.Fprintln(out, renderSectionHeader("Near duplicates", colorize))
		fmt.Fprintln(out, renderTable([]string{"Name", "Spells", "Similarity"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight}, colorize))
	}
	return nil
}

func restoreBackup(cmd *cobra.Command, ctx *commandContext, tk *admin.Toolkit, path string) error {
	res, err := tk.RestoreBackup(cmd.Context(), path)
	if err != nil {
		return err
	}
	return renderRestore(cmd, ctx, res)
}

func rollbackMigration(cmd *cobra.Command, ctx *commandContext, tk *admin.Toolkit) error {
	res, err := tk.RollbackMigration(cmd.Context())
	if err != nil {
		return err
	}
	return renderRestore(cmd, ctx, res)
}

func renderRestore(cmd *cobra.Command, ctx *commandContext, res admin.RestoreResult) error {
	if ctx.JSONMode() {
		return writeJSON(cmd, res)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Restored %s\n", res.BackupPath)
	if res.PreservedPath != "" {
		fmt.Fprintf(out, "Previous store kept at %s\n", res.PreservedPath)
	}
	fmt.Fprintf(out, "Integrity check: ok (%d spells, %d pending hashes)\n", res.Report.TotalSpells, res.Report.NullHashes)
	return nil
}

func listBackups(cmd *cobra.Command, ctx *commandContext, tk *admin.Toolkit) error {
	entries, err := tk.ListBackups()
	if err != nil {
		return err
	}
	if ctx.JSONMode() {
		return writeJSON(cmd, entries)
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No backups found.")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name,
			e.Label,
			e.CreatedAt.Local().Format(time.DateTime),
			humanize.Time(e.CreatedAt),
			humanize.IBytes(uint64(e.SizeBytes)),
			e.Path,
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Backup", "Label", "Created", "Age", "Size", "Path"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}, shouldColorize(out)))
	return nil
}

func exportReport(cmd *cobra.Command, ctx *commandContext, tk *admin.Toolkit) error {
	path, rep, err := tk.ExportMigrationReport(cmd.Context())
	if err != nil {
		return err
	}
	if ctx.JSONMode() {
		return writeJSON(cmd, struct {
			Path   string                `json:"path"`
			Report admin.MigrationReport `json:"report"`
		}{path, rep})
	}
	out := cmd.OutOrStdout()
	fields := make([]string, 0, len(rep.ParseFailures))
	for field := range rep.ParseFailures {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	rows := make([][]string, 0, len(fields)+1)
	for _, field := range fields {
		rows = append(rows, []string{field, strconv.Itoa(rep.ParseFailures[field])})
	}
	rows = append(rows, []string{"hash failures", strconv.Itoa(rep.HashFailures)})
	fmt.Fprintln(out, renderTable([]string{"Field", "Fallbacks"}, rows,
		[]columnAlignment{alignLeft, alignRight}, shouldColorize(out)))
	fmt.Fprintf(out, "Spells: %d\n", rep.SpellCount)
	fmt.Fprintf(out, "Report written to %s\n", path)
	return nil
}

func formatRefs(refs []store.SpellRef) string {
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		parts = append(parts, fmt.Sprintf("#%d %s", r.ID, r.Name))
	}
	return strings.Join(parts, ", ")
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
