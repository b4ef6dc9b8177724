// Package main hosts the spellbook CLI.
//
// The root command carries the administrative flags (recompute, integrity,
// collisions, backups, report export); subcommands cover the hash backfill,
// legacy imports, configuration scaffolding, and store health. Commands open
// the store through a shared session so every run tees its log into
// migration.log under the same rotation policy.
package main
