// Package cli implements the fraudlabs command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"fraudlabs-cli/internal/config"
	"fraudlabs-cli/internal/fraudlabs"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Version is reported by --version and the version command.
const Version = "1.0.0"

// EnvLogLevel sets the default for --log-level.
const EnvLogLevel = "FRAUDLABS_LOG_LEVEL"

// ErrNotConfigured is returned by every data command when no API key is set.
var ErrNotConfigured = errors.New("FraudLabs Pro API key not configured")

// App wires the command tree to its collaborators. The zero value is not
// usable; fill the IO fields or call Run.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	LookupEnv config.LookupEnvFunc

	// HTTPClient replaces the API client's transport when set.
	HTTPClient *http.Client

	// NewProgress builds the indicator shown while a request is in flight.
	NewProgress func(w io.Writer, message string) Progress

	// per-run state, set by the root pre-run hook
	store settings
	out   *printer
	log   zerolog.Logger
}

// settings is the configuration the commands read and write.
type settings interface {
	config.Store
	FromEnv(name string) bool
	Path() string
}

type globalFlags struct {
	configPath string
	logLevel   string
	noColor    bool
}

// Run executes one command line against the process environment and returns
// the exit code.
func Run(ctx context.Context, args []string) int {
	app := &App{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Stdin:     os.Stdin,
		LookupEnv: os.LookupEnv,
	}
	return app.Run(ctx, args)
}

func (a *App) Run(ctx context.Context, args []string) int {
	if a.LookupEnv == nil {
		a.LookupEnv = os.LookupEnv
	}
	if a.NewProgress == nil {
		a.NewProgress = newSpinner
	}
	a.out = newPrinter(a.Stdout, a.Stderr, !color.NoColor)
	a.log = zerolog.Nop()

	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func (a *App) newRootCommand() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "fraudlabs",
		Short:         "FraudLabs Pro CLI - fraud detection from your terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, g)
		},
	}

	defaultLevel := "warn"
	if v, ok := a.LookupEnv(EnvLogLevel); ok && v != "" {
		defaultLevel = v
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "config file (default $FRAUDLABS_CONFIG or <user config dir>/fraudlabs/config.yaml)")
	pf.StringVar(&g.logLevel, "log-level", defaultLevel, "log level: debug, info, warn, error")
	pf.BoolVar(&g.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.newConfigCommand(),
		a.newOrderCommand(),
		a.newSMSCommand(),
		a.newHistoryCommand(),
		a.newVersionCommand(),
	)
	return root
}

// setup loads configuration and the logger for the command about to run.
func (a *App) setup(cmd *cobra.Command, g globalFlags) error {
	colorOn := !g.noColor && !color.NoColor
	a.out = newPrinter(a.Stdout, a.Stderr, colorOn)

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(g.logLevel)))
	if err != nil {
		return fmt.Errorf("invalid --log-level %q", g.logLevel)
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: a.Stderr, NoColor: !colorOn}).
		Level(level).
		With().Timestamp().Str("cmd", cmd.CommandPath()).
		Logger()
	cmd.SetContext(a.log.WithContext(cmd.Context()))

	path := g.configPath
	if path == "" {
		path, err = config.DefaultPath(a.LookupEnv)
		if err != nil {
			return err
		}
	}
	store, err := config.Load(path, a.LookupEnv)
	if err != nil {
		return err
	}
	a.store = store
	a.log.Debug().Str("config", path).Bool("api_key_set", store.IsConfigured()).Msg("configuration loaded")
	return nil
}

// requireAuth stops a data command before any network call when no key is set.
func (a *App) requireAuth() error {
	if a.store == nil || !a.store.IsConfigured() {
		return ErrNotConfigured
	}
	return nil
}

func (a *App) client() *fraudlabs.Client {
	c := fraudlabs.NewClient(a.store.Get(config.KeyBaseURL), a.store.Get(config.KeyAPIKey))
	c.UserAgent = "fraudlabs-cli/" + Version
	if a.HTTPClient != nil {
		c.HTTP = a.HTTPClient
	}
	return c
}

// call runs fn behind the progress indicator. The indicator is stopped before
// the caller prints anything.
func (a *App) call(message string, fn func() (*fraudlabs.Response, error)) (*fraudlabs.Response, error) {
	p := a.NewProgress(a.Stderr, message)
	p.Start()
	resp, err := fn()
	p.Stop()
	return resp, err
}

func (a *App) report(err error) {
	if a.out == nil {
		a.out = newPrinter(a.Stdout, a.Stderr, false)
	}
	a.out.Error(err.Error())
	if errors.Is(err, ErrNotConfigured) {
		fmt.Fprintln(a.Stderr)
		fmt.Fprintln(a.Stderr, "Run the following to configure:")
		fmt.Fprintln(a.Stderr, a.out.cyan.Sprint("  fraudlabs config set --api-key <key>"))
	}
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.Stdout, "fraudlabs %s\n", Version)
		},
	}
}
