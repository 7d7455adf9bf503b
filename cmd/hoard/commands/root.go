package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FranksOps/hoard/internal/config"
	"github.com/FranksOps/hoard/internal/manager"
	"github.com/FranksOps/hoard/internal/storage"
	"github.com/FranksOps/hoard/internal/storage/postgres"
	"github.com/FranksOps/hoard/internal/storage/redisbackend"
	"github.com/FranksOps/hoard/internal/storage/sqlite"
	"github.com/FranksOps/hoard/pkg/ratelimit"
)

var (
	cfgPath     string
	project     string
	backendName string
	verbose     bool
	paceRPS     float64

	backend storage.Backend
	limiter *ratelimit.Limiter
	mgr     *manager.Manager
)

func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:           "hoard",
		Short:         "Manage deduplicated recon target domain lists",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if backendName != "" {
				cfg.Backend = config.BackendKind(backendName)
			}

			setupLogging(cfg.Logging.Level)

			backend, err = openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if paceRPS > 0 {
				limiter = ratelimit.NewLimiter(paceRPS)
			}

			mgr = manager.New(backend, manager.Config{
				Project: project,
				Limiter: limiter,
				Logger:  slog.Default(),
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if limiter != nil {
				limiter.Stop()
			}
			if backend != nil {
				backend.Close()
			}
		},
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file path")
	root.PersistentFlags().StringVarP(&project, "project", "p", "", "project collection to operate on")
	root.PersistentFlags().StringVar(&backendName, "backend", "", "storage backend override (redis, sqlite, postgres, memory)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().Float64Var(&paceRPS, "rps", 0, "pace writes to at most this many per second (0 = unlimited)")

	root.AddCommand(addCmd(), removeCmd(), printCmd(), countCmd(), exportCmd(), projectsCmd(), deleteAllCmd())
	return root.ExecuteContext(ctx)
}

func setupLogging(level string) {
	lvl := slog.LevelInfo
	if verbose || level == "debug" {
		lvl = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

func openBackend(ctx context.Context, cfg config.Config) (storage.Backend, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return redisbackend.New(ctx, redisbackend.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.MaxConnections,
		})
	case config.BackendSQLite:
		return sqlite.New(cfg.SQLite.Path)
	case config.BackendPostgres:
		return postgres.New(ctx, cfg.Postgres.DSN)
	case config.BackendMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
