package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cube2222/octotype/config"
	"github.com/cube2222/octotype/dtype"
	"github.com/cube2222/octotype/extensions"
	"github.com/cube2222/octotype/logs"
	"github.com/cube2222/octotype/typespec"
)

var configPath string
var logFile string
var verbose bool

// Set up by the root command before any subcommand runs.
var (
	cfg      *config.Config
	registry *extensions.Registry
	logger   *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "octotype",
	Short: "Encode, decode and inspect logical column types.",
	Example: `octotype encode schema.yml
octotype decode --view 060102696404...
octotype describe schema.yml
octotype arrow schema.yml`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if logger, err = logs.Initialize(logFile, verbose); err != nil {
			return errors.Wrap(err, "couldn't initialize logger")
		}

		path := configPath
		if path == "" {
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}
		if cfg, err = config.Read(path); err != nil {
			return errors.Wrapf(err, "couldn't read config %s", path)
		}
		if registry, err = cfg.Registry(); err != nil {
			return errors.Wrap(err, "couldn't create extension registry")
		}
		logger.Debug("loaded configuration", "path", path, "extensions", len(cfg.Extensions))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logs.Close()
	},
}

func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file, ~/.octotype/config.yml by default.")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug messages.")
}

// readType builds and validates the type described by the YAML file at path, or stdin if path is "-".
func readType(cmd *cobra.Command, path string) (dtype.DType, error) {
	var spec typespec.Spec
	var err error
	if path == "-" {
		var data []byte
		if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
			return dtype.DType{}, errors.Wrap(err, "couldn't read stdin")
		}
		spec, err = typespec.Parse(data)
	} else {
		spec, err = typespec.ReadFile(path)
	}
	if err != nil {
		return dtype.DType{}, err
	}

	t, err := spec.Build()
	if err != nil {
		return dtype.DType{}, errors.Wrap(err, "couldn't build type")
	}
	if err := registry.Validate(t); err != nil {
		return dtype.DType{}, err
	}
	logger.Debug("read type", "path", path, "type", t.String())
	return t, nil
}
