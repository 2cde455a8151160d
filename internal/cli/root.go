package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/crate/internal/config"
	crerrors "github.com/tessro/crate/internal/errors"
	"github.com/tessro/crate/internal/logging"
	"github.com/tessro/crate/internal/metrics"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg      *config.Config
	log      = zap.NewNop()
	recorder = metrics.New()
)

var rootCmd = &cobra.Command{
	Use:   "crate",
	Short: "Organize a local music library into playlists",
	Long: `Crate scans directories for audio files and keeps them in ordered,
navigable playlists with shuffle and repeat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return initLogger()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.craterc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", crerrors.ErrInvalidConfig, err)
	}

	return nil
}

func initLogger() error {
	logCfg := cfg.Log
	if verbose {
		logCfg.Level = "debug"
	}
	l, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("%w: %w", crerrors.ErrInvalidConfig, err)
	}
	log = l
	return nil
}

// shutdown flushes the logger and writes the metrics textfile, if one is
// configured.
func shutdown() {
	if cfg != nil {
		if err := recorder.WriteTextfile(config.ExpandPath(cfg.Metrics.Textfile)); err != nil {
			log.Warn("failed to write metrics", zap.Error(err))
		}
	}
	_ = log.Sync()
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	shutdown()

	if err != nil {
		fmt.Fprintln(os.Stderr, crerrors.Format(err))
		os.Exit(1)
	}
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
