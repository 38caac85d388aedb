package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"svw.info/cardle/internal/config"
	"svw.info/cardle/internal/domain"
	catalogsrc "svw.info/cardle/internal/infrastructure/catalog"
	"svw.info/cardle/internal/infrastructure/storage"
	"svw.info/cardle/internal/observability"
	"svw.info/cardle/internal/platform/logger"
	"svw.info/cardle/internal/ports"
	"svw.info/cardle/internal/progress"
	"svw.info/cardle/internal/selector"
	"svw.info/cardle/internal/usecase"
	"svw.info/cardle/internal/validator"
)

// app holds the flags and the wired dependencies shared by all commands.
type app struct {
	cfgPath  string
	modeName string
	dayStr   string
	verbose  bool

	cfg     *config.Config
	log     *logger.Logger
	prefs   *config.Preferences
	metrics *observability.Metrics
	uc      *usecase.Service
	mode    progress.Mode
	closers []func() error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "cardle",
		Short: "Daily card guessing game",
		Long: `cardle picks one card per day from the catalog and lets you guess it.

Every guess is scored field by field (name, cost, type, faction, year,
resources, packs, traits). Progress is kept per day and per mode.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgPath, "config", "c", "cardle.yaml", "config file")
	pf.StringVarP(&a.modeName, "mode", "m", progress.Classic.Name, "game mode: classic|expert")
	pf.StringVarP(&a.dayStr, "day", "d", "", "day to play (YYYY-MM-DD, default today UTC)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newServeCmd(a),
		newStatusCmd(a),
		newGuessCmd(a),
		newSearchCmd(a),
		newFiltersCmd(a),
		newShareCmd(a),
		newViewCmd(a),
		newResetCmd(a),
		newFindDayCmd(a),
		newCardsCmd(a),
		newDaysCmd(a),
		newPrefsCmd(a),
		newModesCmd(a),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.mode, err = progress.ParseMode(a.modeName); err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
	if err != nil {
		return err
	}
	a.log = log
	a.closers = append(a.closers, func() error { log.Sync(); return nil })

	if a.prefs, err = config.LoadPreferences(cfg.Preferences.Path, log); err != nil {
		return err
	}

	cards, err := catalogsrc.NewFileSource(cfg.Catalog.Path).Load(ctx)
	if err != nil {
		return err
	}
	cat, err := validator.New().Catalog(cards)
	if err != nil {
		return fmt.Errorf("catalog %s: %w", cfg.Catalog.Path, err)
	}
	log.Debug("catalog loaded", "path", cfg.Catalog.Path, "cards", cat.Len())

	blobs, err := a.openBlobStore()
	if err != nil {
		return err
	}

	a.metrics = observability.NewMetrics()
	a.uc = usecase.NewService(cat, selector.New(), blobs, a.prefs, usecase.Options{
		Title:         cfg.Title,
		ShareBaseURL:  cfg.Game.ShareBaseURL,
		SearchLimit:   cfg.Game.SearchLimit,
		MinSearch:     cfg.Game.MinSearchLength,
		FindDayWindow: cfg.Game.FindDayWindow,
	}, log, a.metrics)

	reports, err := a.uc.LoadAll(ctx)
	if err != nil {
		return err
	}
	for mode, rep := range reports {
		if rep.Corrupt || rep.Migrated || len(rep.UnknownCodes) > 0 {
			log.Info("progress loaded", "mode", mode, "from", rep.FromVersion, "migrated", rep.Migrated,
				"corrupt", rep.Corrupt, "days", rep.Days, "unknown_codes", rep.UnknownCodes)
		}
	}
	return nil
}

func (a *app) openBlobStore() (ports.BlobStore, error) {
	switch a.cfg.Storage.Backend {
	case "memory":
		return storage.NewMemory(), nil
	case "badger":
		cfg := storage.DefaultBadgerConfig(a.cfg.Storage.Dir)
		cfg.Logger = a.log
		db, err := storage.OpenBadger(cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		return db, nil
	default:
		return storage.NewFS(a.cfg.Storage.Dir), nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

func (a *app) day() (domain.Day, error) {
	if a.dayStr == "" || strings.EqualFold(a.dayStr, "today") {
		return domain.Today(), nil
	}
	return domain.ParseDay(a.dayStr)
}

func (a *app) german() bool { return a.prefs != nil && a.prefs.German() }

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
