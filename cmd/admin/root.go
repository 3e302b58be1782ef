package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smtm/internal/domain/store"
	"smtm/internal/infrastructure/firebase"
	"smtm/internal/infrastructure/storage"
	"smtm/internal/shared/config"
	"smtm/internal/shared/logger"
)

// app carries what the subcommands share. Config and the store are opened
// lazily so that commands which don't need them never touch the database.
type app struct {
	out   io.Writer
	cfg   *config.Config
	log   *zap.Logger
	store store.Store
	close func() error
}

func newApp(out io.Writer) *app {
	return &app{out: out}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "Management commands for the smtm API",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd.Context())
		},
	}
	rootCmd.SetOut(a.out)

	rootCmd.AddCommand(newMigrateCmd(a))
	rootCmd.AddCommand(newTokenCmd(a))
	rootCmd.AddCommand(newCategoryCmd(a))

	return rootCmd
}

func (a *app) loadConfig(ctx context.Context) error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(cfg.Debug)
	return nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if a.cfg.Store.Driver == config.StoreMemory {
		return nil, errors.New("STORE_DRIVER=memory has nothing to administer; use postgres or firestore")
	}

	var fb *firebase.App
	if a.cfg.NeedsFirebase() {
		app, err := firebase.NewApp(ctx, a.cfg.Firebase.ProjectID, a.cfg.Firebase.CredentialsFile)
		if err != nil {
			return nil, err
		}
		fb = app
	}

	backend, err := storage.Open(ctx, a.cfg, fb, a.log)
	if err != nil {
		return nil, err
	}
	a.store = backend.Store
	a.close = backend.Close
	return a.store, nil
}

func (a *app) shutdown() error {
	if a.log != nil {
		a.log.Sync()
	}
	if a.close == nil {
		return nil
	}
	err := a.close()
	a.close = nil
	return err
}
