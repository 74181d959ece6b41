// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package cli wires command line flags, configuration and logging into a migration run
package cli

import (
	"csv2ddi/pkg/builder"
	"csv2ddi/pkg/config"
	"csv2ddi/pkg/ddi"
	"csv2ddi/pkg/log"
	"csv2ddi/pkg/migrate"
	"csv2ddi/pkg/version"

	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Options holds all command line options
type Options struct {
	ConfigFile    string
	IPSpace       string
	Tags          string
	EnvFile       string
	LogLevel      string
	LogTimestamps bool
	DryRun        bool
	Strict        bool
	ShowVersion   bool

	inputs map[string]*string
}

// Inputs returns the supplied CSV files keyed by builder kind
func (o *Options) Inputs() map[string]string {
	inputs := make(map[string]string)
	for kind, path := range o.inputs {
		if *path != "" {
			inputs[kind] = *path
		}
	}
	return inputs
}

// NewRootCommand builds the csv2ddi command. Progress lines go to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &Options{inputs: make(map[string]*string)}

	cmd := &cobra.Command{
		Use:           "csv2ddi",
		Short:         "Migrate DNS, DHCP and IPAM data from CSV exports into a cloud DDI platform",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, out)
		},
	}
	cmd.SetOut(out)

	registerFlags(cmd.Flags(), opts)
	return cmd
}

// registerFlags binds one file flag per builder, then the run options
func registerFlags(flags *pflag.FlagSet, opts *Options) {
	for _, b := range builder.All() {
		opts.inputs[b.Kind] = flags.StringP(b.Flag, b.Short, "", b.Usage)
	}
	flags.StringVar(&opts.Tags, "tags", "", `Tags for every created object, as JSON or YAML (e.g. '{"source":"nios"}')`)
	flags.StringVarP(&opts.IPSpace, "ipspace", "i", "", "Name of the IP space to import into (required)")
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "Credentials file, INI or YAML (required)")
	flags.StringVar(&opts.EnvFile, "env-file", "", "Load environment variables from a dotenv file first")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (trace, debug, verbose, info, warn, error)")
	flags.BoolVar(&opts.LogTimestamps, "log-timestamps", false, "Show timestamps in logs")
	flags.BoolVar(&opts.DryRun, "dry-run", false, "Print payloads instead of creating objects")
	flags.BoolVar(&opts.Strict, "strict", false, "Fail rows whose references cannot be resolved")
	flags.BoolVarP(&opts.ShowVersion, "version", "v", false, "Show version information")
	flags.SortFlags = false
}

// Execute runs the root command against os.Args and returns the process exit code
func Execute() int {
	log.Initialize(config.EnvToString("LOG_LEVEL", log.LevelInfo), config.EnvToBool("LOG_TIMESTAMPS", false))
	cmd := NewRootCommand(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hints)
		}
		return 1
	}
	return 0
}

func run(ctx context.Context, opts *Options, out io.Writer) error {
	if opts.ShowVersion {
		fmt.Fprintln(out, version.String())
		return nil
	}

	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return err
	}
	if err := checkRequired(opts); err != nil {
		return err
	}

	cfg, err := config.LoadConfigFile(opts.ConfigFile)
	if err != nil {
		return err
	}
	configureLogger(opts, cfg)

	log.Info("Starting csv2ddi version: %s", version.Short())
	log.Trace("Built: %s", version.BuildTime)
	log.Debug("[config] %s", cfg)
	if opts.DryRun {
		log.Info("Dry run: payloads are printed, nothing is created")
	}

	tags, err := builder.ParseTags(opts.Tags)
	if err != nil {
		return err
	}

	client, err := ddi.NewClient(cfg)
	if err != nil {
		return err
	}

	_, err = migrate.New(client, out).Run(ctx, migrate.Options{
		Inputs: opts.Inputs(),
		Space:  opts.IPSpace,
		Tags:   tags,
		DryRun: opts.DryRun,
		Strict: opts.Strict,
	})
	return err
}

func checkRequired(opts *Options) error {
	var missing []string
	if opts.ConfigFile == "" {
		missing = append(missing, "--config")
	}
	if opts.IPSpace == "" {
		missing = append(missing, "--ipspace")
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.WithHint(
		errors.Newf("required flags not set: %s", strings.Join(missing, ", ")),
		"run csv2ddi --help for usage")
}

// configureLogger applies flag, then environment, then config file settings
func configureLogger(opts *Options, cfg *config.Config) {
	level := opts.LogLevel
	if level == "" {
		level = config.EnvToString("LOG_LEVEL", cfg.LogLevel)
	}
	if level != "" && !log.ValidLevel(level) {
		log.Warn("Unknown log level %q, using %s", level, log.LevelInfo)
	}
	timestamps := opts.LogTimestamps || config.EnvToBool("LOG_TIMESTAMPS", false)

	logger := log.GetLogger()
	logger.SetLevel(level)
	logger.SetShowTimestamps(timestamps)
	log.Debug("Logger configured with level: %s, timestamps: %t", logger.GetLevel(), log.GetTimestampsEnabled())
}
