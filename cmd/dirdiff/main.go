// cmd/dirdiff/main.go
package main

import (
	"fmt"
	"os"

	"dirdiff/internal/cache"
	"dirdiff/internal/catalog"
	"dirdiff/internal/config"
	"dirdiff/internal/fingerprint"
	"dirdiff/internal/logging"
	"dirdiff/internal/producer"
	"dirdiff/internal/storage"
	"dirdiff/internal/walk"

	"github.com/dgraph-io/badger/v4"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFlag string
	logLevel   string
	dbPath     string
	workers    int
	useCache   bool
	quiet      bool
	noColor    bool
)

// app holds what the commands share. The database is opened on first use
// since only the cache and the catalog need it.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	reporter *logging.Proxy
	db       *badger.DB
}

var state *app

var rootCmd = &cobra.Command{
	Use:   "dirdiff",
	Short: "dirdiff compares folders by content",
	Long: `dirdiff fingerprints every file of two folders, or of saved snapshots of them,
and reports which files are identical, modified, unique to one side, or renamed
and duplicated.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		state = a
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", "", "config file (default $"+config.EnvConfig+" or the user config dir)")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&dbPath, "db", "", "database directory for the hash cache and the catalog")
	flags.IntVarP(&workers, "workers", "j", 0, "hashing workers (default one per CPU)")
	flags.BoolVar(&useCache, "cache", false, "reuse hashes of files unchanged since the last secure scan")
	flags.BoolVarP(&quiet, "quiet", "q", false, "only report errors")
	flags.BoolVar(&noColor, "no-color", false, "disable coloured output")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(catalogCmd)
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(config.Path(configFlag), configFlag != "")
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("db") {
		cfg.Database.Path = dbPath
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("cache") {
		cfg.Cache.Enabled = useCache
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if noColor {
		color.NoColor = true
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	var console logging.Reporter = newConsoleReporter(os.Stderr)
	if quiet {
		console = errorsOnly{console}
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		reporter: logging.NewProxy(console, 64),
	}, nil
}

func (a *app) database() (*badger.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	a.logger.Debug("opening database", zap.String("path", a.cfg.Database.Path))
	db, err := storage.Open(a.cfg.Database.Path, a.logger.Logger)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

func (a *app) catalog() (*catalog.Catalog, error) {
	db, err := a.database()
	if err != nil {
		return nil, err
	}
	return catalog.New(db), nil
}

func (a *app) producer(algorithm fingerprint.Algorithm) (producer.Producer, error) {
	opts := []producer.Option{
		producer.WithReporter(a.reporter),
		producer.WithWorkers(a.cfg.Workers),
	}
	if a.cfg.Cache.Enabled && algorithm == fingerprint.Secure {
		db, err := a.database()
		if err != nil {
			return nil, err
		}
		hc, err := cache.New(db, a.cfg.Cache.Size)
		if err != nil {
			return nil, err
		}
		opts = append(opts, producer.WithCache(hc))
	}
	return producer.New(algorithm, opts...)
}

func (a *app) source(dir string) (*walk.Source, error) {
	return walk.NewOS(dir, walk.WithIgnore(a.cfg.Ignore...))
}

func (a *app) close() {
	if a.reporter != nil {
		a.reporter.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("closing database", zap.Error(err))
		}
	}
	a.logger.Sync()
}

func main() {
	err := rootCmd.Execute()
	if state != nil {
		state.close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
