// Package config loads, normalizes, and validates Spellbook configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SPELLBOOK_DATA_DIR
// environment override. The Config type centralizes every knob the migration
// engine, admin commands, and CLI need, so the database, backup, and log
// locations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
