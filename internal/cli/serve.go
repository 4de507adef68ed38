package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tasktrackr/internal/api"
	"github.com/Makepad-fr/tasktrackr/internal/config"
	"github.com/Makepad-fr/tasktrackr/internal/logging"
	"github.com/Makepad-fr/tasktrackr/internal/service"
	"github.com/Makepad-fr/tasktrackr/internal/store/backend"
)

func newServeCmd() *cobra.Command {
	var envDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the task API",
		Long: `Run the task API.

Reads STORE_URI (or MONGO_URI), PORT, STORE_DATABASE, LOG_LEVEL and LOG_FORMAT
from the environment and from an optional .env file. The process exits if the
store cannot be reached at startup.`,
		Args: usageArgs(cobra.NoArgs, "tasktrackr serve [--env-dir dir]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadServer(envDir)
			if err != nil {
				return err
			}

			opts := logging.DefaultOptions()
			opts.Level, opts.Format = cfg.LogLevel, cfg.LogFormat
			logger := logging.New(cmd.ErrOrStderr(), opts)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := backend.Open(ctx, cfg.StoreURI, cfg.StoreDatabase)
			if err != nil {
				logger.Error("store connection failed", "store", backend.Redact(cfg.StoreURI), "err", err)
				return fmt.Errorf("connect store: %w", err)
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := st.Close(closeCtx); err != nil {
					logger.Warn("store close failed", "err", err)
				}
			}()
			logger.Info("connected to store", "store", backend.Redact(cfg.StoreURI))

			svc, err := service.New(st)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			return api.NewServer(svc, logger).Run(ctx, cfg.Addr(), cfg.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&envDir, "env-dir", ".", "directory holding an optional .env file")
	return cmd
}
