package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/learnloop/internal/catalog"
	"github.com/abhisek/learnloop/internal/config"
	"github.com/abhisek/learnloop/internal/engine"
	"github.com/abhisek/learnloop/internal/logging"
	"github.com/abhisek/learnloop/internal/monitoring"
	"github.com/abhisek/learnloop/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "learnloop",
	Short: "Spaced repetition and progression engine",
	Long: "learnloop records learner interactions and derives review schedules, " +
		"experience, levels, badges, quests and player types from them.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./learnloop.yaml or ~/.config/learnloop/learnloop.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides database.path)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to catalog file (overrides catalog.path)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(scoreboardCmd)
	rootCmd.AddCommand(playertypeCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtime bundles everything a command needs to talk to the engine.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	metrics *monitoring.Metrics
	engine  *engine.Engine
}

func (r *runtime) Close() {
	_ = r.store.Close()
	_ = r.logger.Sync()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.Catalog.Path = p
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = cfg.Database.Path
	}
	if p == "" {
		var err error
		if p, err = config.DefaultDBPath(); err != nil {
			return "", err
		}
	}
	return p, store.EnsureDir(p)
}

// openRuntime loads config and catalog, opens the database and builds the engine.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	metrics := monitoring.New()
	opts := engine.OptionsFromConfig(cfg)
	opts.Metrics = metrics
	opts.Logger = logger

	eng, err := engine.New(cat, st, opts)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init engine: %w", err)
	}

	logger.Debug("runtime ready",
		zap.String("db", dbPath),
		zap.String("catalog", cfg.Catalog.Path),
		zap.Int("courses", len(cat.Courses())))

	return &runtime{cfg: cfg, logger: logger, store: st, metrics: metrics, engine: eng}, nil
}
