// harpcalc matches HARP parking systems to a customer's space.
//
// Usage:
//
//	harpcalc scan --height 3200 --width 2400 --length 5300 [--pit-depth 0]
//	harpcalc lookup --series boltSeries --model BS-32 [--car-length 5000]
//	harpcalc models [--series pitPro111]
//	harpcalc quote --model BS-32
//	harpcalc serve [--config harpcalc.yaml]
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/HerbHall/harpcalc/internal/compat"
	"github.com/HerbHall/harpcalc/internal/config"
	"github.com/HerbHall/harpcalc/internal/version"
	pkgcatalog "github.com/HerbHall/harpcalc/pkg/catalog"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "harpcalc",
		Usage:   "HARP parking system fit calculator",
		Version: version.Short(),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to configuration file",
				EnvVars: []string{"HARP_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug, info, warn, error); overrides log.level",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (json, console); overrides log.format",
			},
		},

		Commands: []*cli.Command{
			scanCommand(),
			lookupCommand(),
			modelsCommand(),
			quoteCommand(),
			serveCommand(),
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, version.Info())
					return nil
				},
			},
		},
	}
}

// env is what every subcommand needs after configuration is resolved.
type env struct {
	settings config.Settings
	logger   *zap.Logger
	catalog  *pkgcatalog.Catalog
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		settings.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		settings.Log.Format = c.String("log-format")
	}

	logger, err := newLogger(settings.Log)
	if err != nil {
		return nil, err
	}

	cat, err := openCatalog(settings.Catalog.File)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("catalogue loaded",
		zap.String("file", settings.Catalog.File),
		zap.Int("models", cat.Len()),
	)

	return &env{settings: settings, logger: logger, catalog: cat}, nil
}

func newLogger(s config.LogSettings) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(s.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	var zc zap.Config
	switch s.Format {
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		zc = zap.NewProductionConfig()
	}
	zc.Level = level
	return zc.Build()
}

func openCatalog(path string) (*pkgcatalog.Catalog, error) {
	if path != "" {
		return pkgcatalog.LoadFile(path)
	}
	cat := pkgcatalog.NewCatalog()
	if err := cat.Load(); err != nil {
		return nil, err
	}
	return cat, nil
}

// Exit codes.
const (
	exitFailure = 1
	exitInvalid = 2
)

func exitCode(err error) int {
	if errors.Is(err, compat.ErrValidation) {
		return exitInvalid
	}
	return exitFailure
}
