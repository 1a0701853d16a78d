package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/abhisek/dyscreen/internal/config"
	"github.com/abhisek/dyscreen/internal/devapi"
	"github.com/abhisek/dyscreen/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the in-memory development backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.DevAddr = addr
		}
		log := logging.NewWriter(os.Stderr, cfg.LogLevel, cfg.LogJSON)

		srv, err := devapi.New(devapi.Options{
			Secret:     cfg.DevSecret,
			Users:      cfg.DevUsers,
			RequestLog: true,
			Logger:     log,
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hs := &http.Server{
			Addr:              cfg.DevAddr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		errc := make(chan error, 1)
		go func() { errc <- hs.ListenAndServe() }()

		fmt.Fprintln(cmd.OutOrStdout(), figure.NewFigure("dyscreen", "small", true).String())
		fmt.Fprintf(cmd.OutOrStdout(), "dev backend listening on %s (%d seeded accounts)\n", cfg.DevAddr, len(cfg.DevUsers))

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides DYSCREEN_DEV_ADDR)")
}
