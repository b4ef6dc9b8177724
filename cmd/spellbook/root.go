package main

import (
	"github.com/spf13/cobra"
)

type adminFlags struct {
	recompute        bool
	checkIntegrity   bool
	detectCollisions bool
	restoreBackup    string
	listBackups      bool
	rollback         bool
	exportReport     bool
}

func (f *adminFlags) selected() []string {
	var names []string
	if f.recompute {
		names = append(names, "--recompute-hashes")
	}
	if f.checkIntegrity {
		names = append(names, "--check-integrity")
	}
	if f.detectCollisions {
		names = append(names, "--detect-collisions")
	}
	if f.restoreBackup != "" {
		names = append(names, "--restore-backup")
	}
	if f.listBackups {
		names = append(names, "--list-backups")
	}
	if f.rollback {
		names = append(names, "--rollback-migration")
	}
	if f.exportReport {
		names = append(names, "--export-migration-report")
	}
	return names
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var jsonFlag bool
	var flags adminFlags

	ctx := newCommandContext(&configFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:           "spellbook",
		Short:         "Spell store canonical identity and migration tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			if err != nil {
				return withHint("run spellbook config init, or fix the file named above", "load config: %v", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := flags.selected()
			switch len(selected) {
			case 0:
				return cmd.Help()
			case 1:
				return runAdmin(cmd, ctx, &flags)
			default:
				return withHint("pass a single administrative flag per invocation",
					"conflicting flags: %v", selected)
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	pf.BoolVar(&jsonFlag, "json", false, "Print machine-readable JSON instead of tables")

	f := rootCmd.Flags()
	f.BoolVar(&flags.recompute, "recompute-hashes", false, "Re-derive canonical data and content hashes for every spell")
	f.BoolVar(&flags.checkIntegrity, "check-integrity", false, "Check the store for corruption, hash mismatches, and orphaned references")
	f.BoolVar(&flags.detectCollisions, "detect-collisions", false, "List spells that share a content hash and classify each group")
	f.StringVar(&flags.restoreBackup, "restore-backup", "", "Restore the store from the given backup file")
	f.BoolVar(&flags.listBackups, "list-backups", false, "List available backups, newest first")
	f.BoolVar(&flags.rollback, "rollback-migration", false, "Restore the most recent backup")
	f.BoolVar(&flags.exportReport, "export-migration-report", false, "Summarize migration.log into a JSON report in the data directory")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newHealthCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
