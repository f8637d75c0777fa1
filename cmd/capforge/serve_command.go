package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"capforge/internal/api"
	"capforge/internal/ipc"
	"capforge/internal/library"
	"capforge/internal/logging"
	"capforge/internal/storage"
)

func newServeCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the captioning service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			logger, err := logging.NewTee(cfg.Logging.Level, cfg.Logging.Format, cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			lockPath := filepath.Join(cfg.Paths.LogDir, "capforge.lock")
			lock := flock.New(lockPath)
			held, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !held {
				return errors.New("another capforge serve instance is already running")
			}
			defer lock.Unlock()

			store, err := library.Open(cfg)
			if err != nil {
				return fmt.Errorf("open library: %w", err)
			}
			defer store.Close()

			objects := storage.NewDisk(cfg.Paths.UploadDir)
			service := api.NewService(cfg, store, objects, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server, err := ipc.NewServer(ctx, cmdCtx.socketPath(), service, logger)
			if err != nil {
				return fmt.Errorf("start ipc server: %w", err)
			}
			server.Serve()
			defer server.Close()

			logger.Info("capforge serving",
				logging.String("socket", cmdCtx.socketPath()),
				logging.String("library", store.Path()),
				logging.String("environment", cfg.Render.Environment))

			<-ctx.Done()
			logger.Info("capforge shutting down")
			return nil
		},
	}
}
