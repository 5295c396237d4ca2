// Package bootstrap wires configuration, logging and metrics around an
// app.Runner and exposes it as the process entry point.
//
// A modular input's main function is a single call:
//
//	func main() {
//		bootstrap.Execute("random_numbers", &RandomNumbers{})
//	}
package bootstrap

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/artpar/modinput/adapters/hostlog"
	"github.com/artpar/modinput/adapters/idgen"
	"github.com/artpar/modinput/adapters/metrics"
	"github.com/artpar/modinput/app"
	"github.com/artpar/modinput/config"
	"github.com/artpar/modinput/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Streams are the process's standard streams.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns os.Stdin, os.Stdout and os.Stderr.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Option configures Run and NewCommand.
type Option func(*options)

type options struct {
	ids ports.IDGenerator
}

// WithIDGenerator sets the source of the run_id attached to every log line.
func WithIDGenerator(g ports.IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// Execute runs input with the process arguments and exits with its status.
func Execute(name string, input app.Input) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := Run(ctx, name, input, os.Args[1:], StdStreams())
	stop()
	os.Exit(status)
}

// Run builds the root command for input, executes it with args and
// returns the exit status.
func Run(ctx context.Context, name string, input app.Input, args []string, streams Streams, opts ...Option) int {
	status := app.StatusError
	cmd := NewCommand(name, input, streams, &status, opts...)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger := hostlog.New(streams.Err, name, zerolog.InfoLevel)
		logger.Error().Err(err).Msg("command failed")
		return app.StatusError
	}
	return status
}

// NewCommand creates the root command. The host invokes the input with
// --scheme, --validate-arguments or no arguments; anything else it passes
// is tolerated. The run's exit status is stored in status.
func NewCommand(name string, input app.Input, streams Streams, status *int, opts ...Option) *cobra.Command {
	o := options{ids: idgen.UUID{}}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		schemeFlag   bool
		validateFlag bool
		configPath   string
	)

	cmd := &cobra.Command{
		Use:           name,
		Short:         "Modular input " + name,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{
			UnknownFlags: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := app.ModeFromArgs(args)
			switch {
			case schemeFlag:
				mode = app.ModeScheme
			case validateFlag:
				mode = app.ModeValidate
			}

			*status = run(cmd.Context(), name, input, mode, configPath, streams, o)
			return nil
		},
	}

	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	// Flag names match case-insensitively: --SCHEME selects scheme mode.
	cmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ToLower(name))
	})
	cmd.Flags().BoolVar(&schemeFlag, "scheme", false, "print the input scheme and exit")
	cmd.Flags().BoolVar(&validateFlag, "validate-arguments", false, "validate the configuration read from stdin")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file path (default $"+config.EnvConfigPath+")")

	return cmd
}

func run(ctx context.Context, name string, input app.Input, mode app.Mode, configPath string, streams Streams, opts options) int {
	// Used until the configured level is known.
	early := hostlog.New(streams.Err, name, zerolog.InfoLevel)

	if exe, err := os.Executable(); err == nil {
		if err := config.LoadDotEnv(filepath.Dir(exe)); err != nil {
			early.Warn().Err(err).Msg("ignoring .env")
		}
	}

	cfg, err := config.LoadWithFallback(configPath)
	if err != nil {
		early.Error().Err(err).Msg("load config failed")
		return app.StatusError
	}

	level, err := hostlog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := hostlog.New(streams.Err, name, level).With().
		Str("run_id", opts.ids.New()).
		Logger()

	collector := metrics.New(name)

	if cfg.Logging.Watch && mode == app.ModeStream {
		holder, err := watchConfig(configPath, logger, collector)
		if err != nil {
			logger.Warn().Err(err).Msg("config watch disabled")
		} else {
			defer holder.Stop()
			prev := zerolog.GlobalLevel()
			logger = logger.Level(zerolog.TraceLevel)
			zerolog.SetGlobalLevel(level)
			defer zerolog.SetGlobalLevel(prev)
		}
	}

	runner := app.NewRunner(input, app.RunnerDeps{
		Stdout:  streams.Out,
		Stderr:  streams.Err,
		Logger:  logger,
		Streams: collector,
		Hooks:   collector,
	}, app.RunnerConfig{
		Name: name,
		Session: app.SessionConfig{
			Checkpoint: cfg.Checkpoint,
			Splunkd:    cfg.Splunkd,
		},
	})

	status := runner.Run(ctx, []string{modeFlag(mode)}, streams.In)

	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn().Err(err).Msg("metrics not written")
		}
	}
	return status
}

// watchConfig follows the config file so a long-running input picks up
// a new log level. The level is applied process-wide.
func watchConfig(path string, logger zerolog.Logger, collector *metrics.Collector) (*config.Holder, error) {
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}
	holder, err := config.NewHolder(path, logger)
	if err != nil {
		return nil, err
	}

	holder.OnChange(func(c *config.Config) {
		collector.ConfigReloads.Inc()
		if level, err := hostlog.ParseLevel(c.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	})
	holder.OnError(func(error) {
		collector.ConfigReloadErrors.Inc()
	})

	if err := holder.WatchFile(); err != nil {
		return nil, err
	}
	return holder, nil
}

func modeFlag(mode app.Mode) string {
	switch mode {
	case app.ModeScheme:
		return app.FlagScheme
	case app.ModeValidate:
		return app.FlagValidate
	default:
		return ""
	}
}
