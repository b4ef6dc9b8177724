package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"spellbook/internal/admin"
	"spellbook/internal/config"
	"spellbook/internal/logging"
	"spellbook/internal/migration"
	"spellbook/internal/store"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// JSONMode reports whether --json was given.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// session is an open store plus a logger teed into migration.log.
type session struct {
	cfg     *config.Config
	store   *store.Store
	logger  *slog.Logger
	logFile *logging.RotatingFile
	tk      *admin.Toolkit
}

// toolkit returns the session's admin toolkit. A restore swaps the store
// underneath it, so Close always closes the toolkit's current store.
func (s *session) toolkit() *admin.Toolkit {
	if s.tk == nil {
		s.tk = admin.New(s.cfg, s.store, s.logger)
	}
	return s.tk
}

func (s *session) Close() error {
	var errs []error
	st := s.store
	if s.tk != nil {
		st = s.tk.Store()
	}
	if st != nil {
		errs = append(errs, st.Close())
	}
	if s.logFile != nil {
		errs = append(errs, s.logFile.Close())
	}
	return errors.Join(errs...)
}

func (c *commandContext) openSession() (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	base, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	logger, logFile, err := logging.OpenMigrationLog(base, cfg)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}
	return &session{cfg: cfg, store: st, logger: logger, logFile: logFile}, nil
}

// withSession opens a session for the duration of fn.
func (c *commandContext) withSession(fn func(*session) error) error {
	s, err := c.openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

// backfillOnStart runs the hash backfill when migration.run_on_start is set.
// A failed backfill stops the command that asked for it.
func (s *session) backfillOnStart(ctx context.Context) error {
	if !s.cfg.Migration.RunOnStart {
		return nil
	}
	_, err := migration.NewManager(s.cfg, s.store, s.logger).Run(ctx)
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
