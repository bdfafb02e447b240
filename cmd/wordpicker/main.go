package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jakecoffman/bingo"
	"github.com/jakecoffman/bingo/chips"
	"github.com/jakecoffman/bingo/config"
	"github.com/jakecoffman/bingo/picker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	verbose    bool
	addr       string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wordpicker",
	Short: "Pick the words that go on bingo boards",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.Addr = addr
		}
		logger, err = newLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the word picker page and its websocket",
	RunE:  serve,
}

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Print the preset words new rooms start with",
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := picker.LoadPresets(cfg.Words)
		if err != nil {
			return err
		}
		// the same selector a new room builds, so the counts agree
		words := chips.NewSelector(presets)
		out := cmd.OutOrStdout()
		for _, c := range words.Chips() {
			fmt.Fprintf(out, "%-20s %3d %s\n", c.Word, c.Count, c.State)
		}
		fmt.Fprintln(out, words.Status().Message)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "wordpicker.yaml", "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wordsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(c config.LoggingConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	presets, err := picker.LoadPresets(cfg.Words)
	if err != nil {
		return err
	}

	rooms := bingo.NewRooms[*picker.Picker]()
	go rooms.Janitor(ctx, cfg.Rooms.SweepEvery.Duration, cfg.Rooms.MaxAge.Duration)

	receive := func(roomId, playerId string, sub chips.Submission) {
		logger.Info("Words submitted",
			zap.String("room", roomId),
			zap.String("player", playerId),
			zap.String("selected", sub.SelectedWords),
			zap.String("custom", sub.CustomWords))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           picker.Router(rooms, picker.Factory(presets, receive)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Serving", zap.String("addr", "http://"+cfg.Addr), zap.Int("presets", len(presets)))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
