package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"spellbook/internal/preflight"
	"spellbook/internal/store"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check spell database health (schema, integrity, pending hashes)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withSession(func(s *session) error {
				health, err := s.store.CheckHealth(cmd.Context())
				if ctx.JSONMode() {
					if werr := writeJSON(cmd, health); werr != nil {
						return werr
					}
					return err
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				lines := healthLines(health, colorize)
				lines = append(lines, renderSectionHeader("Backup preflight", colorize))
				for _, r := range preflight.ForBackup(s.cfg, preflight.StoreSize(health.DBPath)) {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
				fmt.Fprintln(out, strings.Join(lines, "\n"))
				if health.PendingHashes > 0 {
					fmt.Fprintln(out, "Run spellbook migrate to backfill pending hashes.")
				}
				return err
			})
		},
	}
}

func healthLines(h store.DatabaseHealth, colorize bool) []string {
	flag := func(ok bool) statusKind {
		if ok {
			return statusOK
		}
		return statusError
	}
	missing := "none"
	if len(h.MissingColumns) > 0 {
		missing = strings.Join(h.MissingColumns, ", ")
	}
	lines := []string{
		renderSectionHeader("Database", colorize),
		renderStatusLine("Path", statusInfo, h.DBPath, colorize),
		renderStatusLine("Exists", flag(h.DatabaseExists), yesNo(h.DatabaseExists), colorize),
		renderStatusLine("Readable", flag(h.DatabaseReadable), yesNo(h.DatabaseReadable), colorize),
		renderStatusLine("Schema migrations", statusInfo, strings.Join(h.AppliedMigrations, ", "), colorize),
		renderStatusLine("Spell table", flag(h.TableExists), yesNo(h.TableExists), colorize),
		renderStatusLine("Missing columns", countStatus(len(h.MissingColumns), statusError), missing, colorize),
		renderStatusLine("Integrity check", flag(h.IntegrityCheck), yesNo(h.IntegrityCheck), colorize),
		renderSectionHeader("Spells", colorize),
		renderStatusLine("Total spells", statusInfo, strconv.Itoa(h.TotalSpells), colorize),
		renderStatusLine("Pending hashes", countStatus(h.PendingHashes, statusWarn), strconv.Itoa(h.PendingHashes), colorize),
	}
	if h.Error != "" {
		lines = append(lines, renderStatusLine("Error", statusError, h.Error, colorize))
	}
	return lines
}
