// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the search-trends CLI.
//
//	search-trends <operation> [keyword] [flags]
//
// Each operation is a subcommand. Results go to stdout as one line of JSON;
// failures are reported on stderr as ["Error: <message>"].
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/search-trends/internal/logging"
	"github.com/pdiddy/search-trends/internal/operation"
	"github.com/pdiddy/search-trends/internal/output"
	"github.com/pdiddy/search-trends/internal/trends"
	"github.com/pdiddy/search-trends/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errMissingOperation = errors.New("operation argument is required")

// exitError carries a non-usage exit status. Errors without one exit with
// exitUsage.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}

// newProvider builds the trends data source. Tests replace it.
var newProvider = func(cfg types.TrendsConfig, log zerolog.Logger) (operation.Provider, error) {
	c, err := trends.New(cfg, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// app is the state of one invocation, filled in before any subcommand runs.
type app struct {
	v        *viper.Viper
	cfg      types.Config
	log      zerolog.Logger
	closeLog func() error
}

func newApp() *app {
	return &app{
		v:        viper.New(),
		log:      zerolog.Nop(),
		closeLog: func() error { return nil },
	}
}

// registeredCmds holds commands that do not depend on invocation state.
// Each registers itself from init() in its own file.
var registeredCmds []*cobra.Command

// configFlags maps viper keys to the persistent flags bound to them.
var configFlags = map[string]string{
	"hl":         "hl",
	"tz":         "tz",
	"region":     "region",
	"base_url":   "base-url",
	"timeout":    "timeout",
	"user_agent": "user-agent",
	"output":     "output",
	"log.level":  "log-level",
	"log.format": "log-format",
	"log.output": "log-output",
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "search-trends <operation> [keyword]",
		Short: "Query search-trend data for a keyword or region",
		Long: `search-trends fetches search-trend data from the Google Trends web API and
prints it as a single line of JSON on stdout.

Operations: trending_searches, related_queries, related_topics, suggestions.
A provider failure prints ["Error: <message>"] on stderr and the operation's
empty result on stdout, so stdout always parses.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: one of %s", errMissingOperation, strings.Join(operationNames(), ", "))
			}
			_, err := operation.Lookup(args[0])
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default: ./search-trends.yaml or ~/.config/search-trends/search-trends.yaml)")
	flags.String("hl", trends.DefaultHL, "provider locale; its region subtag selects the session geo")
	flags.Int("tz", trends.DefaultTZ, "timezone offset in minutes")
	flags.String("region", trends.DefaultRegion, "trending_searches region key")
	flags.String("base-url", trends.DefaultBaseURL, "provider base URL")
	flags.Duration("timeout", trends.DefaultTimeout, "HTTP request timeout")
	flags.String("user-agent", trends.DefaultUserAgent, "User-Agent header")
	flags.StringP("output", "o", string(types.OutputJSON), "result format: json or yaml")
	flags.String("log-level", logging.DefaultLevel, "log level: debug, info, warn, error, disabled")
	flags.String("log-format", logging.DefaultFormat, "log format: json or console")
	flags.String("log-output", logging.DefaultOutput, "log destination: stderr or a file path")

	for key, name := range configFlags {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	// Only the operations and registered commands are valid names; "help"
	// and "completion" fall through to the unknown-operation check.
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpCommand(&cobra.Command{Hidden: true})

	for _, h := range operation.Operations() {
		root.AddCommand(newOperationCmd(a, h))
	}
	root.AddCommand(registeredCmds...)
	return root
}

// setup reads configuration and builds the invocation logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.readConfig(cmd); err != nil {
		return err
	}
	cfg, err := loadConfig(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, closeLog, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = log.With().Str("invocation", uuid.NewString()).Logger()
	a.closeLog = closeLog

	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug().Str("file", used).Msg("using config file")
	}
	return nil
}

func (a *app) readConfig(cmd *cobra.Command) error {
	v := a.v
	cfgFile, _ := cmd.Flags().GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("search-trends")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "search-trends"))
		}
	}

	v.SetEnvPrefix("SEARCH_TRENDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("hl", trends.DefaultHL)
	v.SetDefault("tz", trends.DefaultTZ)
	v.SetDefault("region", trends.DefaultRegion)
	v.SetDefault("base_url", trends.DefaultBaseURL)
	v.SetDefault("timeout", trends.DefaultTimeout)
	v.SetDefault("user_agent", trends.DefaultUserAgent)
	v.SetDefault("output", string(types.OutputJSON))
	v.SetDefault("log.level", logging.DefaultLevel)
	v.SetDefault("log.format", logging.DefaultFormat)
	v.SetDefault("log.output", logging.DefaultOutput)
}

// loadConfig converts the merged flag, env, and file settings into a
// types.Config, rejecting values that do not parse.
func loadConfig(v *viper.Viper) (types.Config, error) {
	format, err := output.ParseFormat(v.GetString("output"))
	if err != nil {
		return types.Config{}, err
	}
	tz, err := cast.ToIntE(v.Get("tz"))
	if err != nil {
		return types.Config{}, fmt.Errorf("invalid tz: %w", err)
	}
	timeout, err := cast.ToDurationE(v.Get("timeout"))
	if err != nil {
		return types.Config{}, fmt.Errorf("invalid timeout: %w", err)
	}
	if timeout <= 0 {
		return types.Config{}, fmt.Errorf("invalid timeout %s: must be positive", timeout)
	}

	return types.Config{
		Trends: types.TrendsConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: v.GetString("user_agent"),
			},
			HL:      v.GetString("hl"),
			TZ:      tz,
			Region:  v.GetString("region"),
			BaseURL: v.GetString("base_url"),
		},
		Output: format,
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}, nil
}

// execute runs one invocation and returns its exit status. Any error that
// reaches here is reported on stderr as a diagnostic.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp()
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		a.log.Debug().Err(err).Msg("invocation failed")
		_ = output.WriteDiagnostic(stderr, err)
	}
	if cerr := a.closeLog(); cerr != nil && err == nil {
		_ = output.WriteDiagnostic(stderr, fmt.Errorf("closing log file: %w", cerr))
	}
	return exitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
