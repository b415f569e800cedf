package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/homelibrary/internal/config"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	cfgFile   string
	logLevel  string
	logFormat string
	cfg       *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "homelibrary",
		Short: "Personal library catalog with photo-based book identification",
		Long: `Homelibrary catalogs the books in your home: rooms, bookshelves laid out
on a floor plan, and the books on each shelf.

Books are added by photographing a shelf (a vision model reads the spines and
Google Books resolves each one) or by pasting a Google Books or Amazon URL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.load(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "Config file (default ./homelibrary.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json (overrides config)")

	cmd.AddCommand(
		newServeCmd(a),
		newIdentifyCmd(a),
		newResolveURLCmd(a),
		newBooksCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

func (a *app) load(logOut io.Writer) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	handler, err := newLogHandler(logOut, cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))

	a.cfg = cfg
	return nil
}

func newLogHandler(w io.Writer, cfg config.Log) (slog.Handler, error) {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %q", cfg.Format)
	}
}
