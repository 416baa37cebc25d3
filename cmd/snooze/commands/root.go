package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"hackorsnooze/internal/app"
	"hackorsnooze/internal/config"
	"hackorsnooze/internal/domain"
	"hackorsnooze/internal/logger"
)

// options holds persistent flags and the wiring built from them.
type options struct {
	configPath  string
	apiURL      string
	home        string
	passphrase  string
	logLevel    string
	metricsFile string

	wire *app.Wire
}

// Execute runs the CLI with ctx, printing a readable error on failure.
func Execute(ctx context.Context) error {
	root, o := newRootCommand()
	err := root.ExecuteContext(ctx)
	if err != nil {
		// PersistentPostRunE is skipped when a command fails.
		if terr := o.teardown(); terr != nil {
			fmt.Fprintln(root.ErrOrStderr(), "warning:", terr)
		}
		fmt.Fprintln(root.ErrOrStderr(), "error:", describe(err))
	}
	return err
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root, _ := newRootCommand()
	return root
}

func newRootCommand() (*cobra.Command, *options) {
	o := &options{}
	root := &cobra.Command{
		Use:           "snooze",
		Short:         "Hack or Snooze story bookmarking from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return o.teardown()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "config file (default <home>/config.yaml if present)")
	f.StringVar(&o.apiURL, "api", "", "API base URL (default "+config.Default().API.BaseURL+")")
	f.StringVar(&o.home, "home", "", "directory for stored credentials (default ~/.hackorsnooze)")
	f.StringVarP(&o.passphrase, "passphrase", "p", "", "encrypt stored credentials with this passphrase")
	f.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&o.metricsFile, "metrics-file", "", "write API call metrics to this file in Prometheus text format on exit")

	root.AddCommand(
		storiesCmd(o), mineCmd(o), favoritesCmd(o),
		signupCmd(o), loginCmd(o), logoutCmd(o), whoamiCmd(o), profileCmd(o),
		submitCmd(o), editCmd(o), deleteCmd(o),
		favoriteCmd(o), unfavoriteCmd(o), starCmd(o),
	)
	return root, o
}

func (o *options) setup(ctx context.Context) error {
	path := o.configPath
	if path == "" && o.home != "" {
		if candidate := filepath.Join(o.home, "config.yaml"); fileExists(candidate) {
			path = candidate
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = o.apiURL
	}
	if o.home != "" {
		cfg.Credentials.Dir = o.home
	}
	if o.passphrase != "" {
		cfg.Credentials.Passphrase = o.passphrase
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return err
	}
	w, err := app.NewWire(ctx, cfg, log, app.Options{})
	if err != nil {
		return err
	}
	o.wire = w
	return nil
}

// teardown flushes metrics and logs and closes the wiring. It runs once.
func (o *options) teardown() error {
	w := o.wire
	if w == nil {
		return nil
	}
	o.wire = nil

	var err error
	if o.metricsFile != "" {
		if err = prometheus.WriteToTextfile(o.metricsFile, w.Metrics); err != nil {
			err = fmt.Errorf("write metrics: %w", err)
		}
	}
	_ = w.Log.Sync()
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return err
}

func (o *options) state() *app.State { return o.wire.State }

// session restores the stored session and fails when there is none.
func (o *options) session(ctx context.Context) (*app.State, error) {
	st := o.state()
	if err := st.Restore(ctx); err != nil {
		return nil, err
	}
	if !st.Authenticated() {
		return nil, fmt.Errorf("not logged in, run `snooze login` first: %w", domain.ErrUnauthenticated)
	}
	return st, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// describe turns err into a message naming what went wrong and what to do.
func describe(err error) string {
	switch {
	case domain.IsTryLater(err):
		return "the story service is unavailable, try again later (" + err.Error() + ")"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid username or password"
	case errors.Is(err, domain.ErrUsernameTaken):
		return "that username is already taken"
	case errors.Is(err, domain.ErrInvalidSession):
		return "your session has expired, please log in again"
	case errors.Is(err, domain.ErrUnauthenticated):
		return err.Error()
	case errors.Is(err, domain.ErrValidationRejected):
		return "rejected: " + err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return "no such story or user: " + err.Error()
	default:
		return err.Error()
	}
}
