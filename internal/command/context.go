package command

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamavenir/noci/internal/client"
	"github.com/adamavenir/noci/internal/config"
	"github.com/adamavenir/noci/internal/session"
	"github.com/adamavenir/noci/internal/state"
)

// Options carries process-level collaborators into a run.
type Options struct {
	Version    string
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	Getenv     func(string) string
	HTTPClient *http.Client
	// Location is used to display log timestamps. Defaults to time.Local.
	Location *time.Location
	// ReadPassword prompts for a password when --password-stdin is not set.
	ReadPassword func() (string, error)
}

// App is the state threaded through a single run. The state is loaded by the
// root command before any subcommand runs and saved by Run only on success.
type App struct {
	opts     Options
	Config   config.Config
	State    *state.State
	Resolver *session.Resolver
	Client   *client.Client
	Logger   *slog.Logger
	Styles   *Styles
	loaded   bool
}

func newApp(opts Options) *App {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ReadPassword == nil {
		opts.ReadPassword = promptPassword
	}
	if opts.Version == "" {
		opts.Version = Version
	}
	return &App{opts: opts}
}

// setup resolves configuration from environment and global flags, then
// loads the persisted state.
func (a *App) setup(cmd *cobra.Command) error {
	cfg, err := config.FromEnv(a.opts.Getenv)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("state-file") {
		cfg.StatePath, _ = flags.GetString("state-file")
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		cfg.NoColor = true
	}
	cfg.Verbose, _ = flags.GetBool("verbose")
	a.Config = cfg

	a.Logger = newCommandLogger(cmd.ErrOrStderr(), cfg.Verbose)
	a.Styles = NewStyles(cmd.OutOrStdout(), cfg.NoColor, a.opts.Location)

	st, err := state.Load(cfg.StatePath)
	if err != nil {
		return err
	}
	a.State = st
	a.Resolver = session.NewResolver(st)

	clientOpts := []client.Option{
		client.WithLogger(a.Logger),
		client.WithUserAgent(AppName + "/" + a.opts.Version),
	}
	if a.opts.HTTPClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(a.opts.HTTPClient))
	}
	if cfg.HTTPTimeout > 0 {
		clientOpts = append(clientOpts, client.WithTimeout(cfg.HTTPTimeout))
	}
	a.Client = client.New(clientOpts...)
	a.loaded = true

	a.Logger.Debug("state loaded", "path", cfg.StatePath, "instances", len(st.Instances))
	return nil
}

// save persists the state if it was loaded during this run.
func (a *App) save() error {
	if !a.loaded {
		return nil
	}
	if err := state.Save(a.Config.StatePath, a.State); err != nil {
		return err
	}
	a.Logger.Debug("state saved", "path", a.Config.StatePath)
	return nil
}

// instance resolves --instance (or the default instance) to a registered instance.
func (a *App) instance(cmd *cobra.Command) (*state.Instance, error) {
	explicit, _ := cmd.Flags().GetString("instance")
	name, err := a.Resolver.RequireInstance(explicit)
	if err != nil {
		return nil, err
	}
	return a.State.Instance(name)
}

func (a *App) readPasswordLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", malformedf("", "empty password on stdin")
	}
	return password, nil
}

func optionalArg(args []string, idx int) string {
	if idx < len(args) {
		return args[idx]
	}
	return ""
}
