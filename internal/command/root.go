package command

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const AppName = "noci"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "noci - CLI for a remote job orchestration service",
		Long:          "noci registers servers, starts and follows jobs, manages triggers and unseals secrets.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return usageErrorf("no command given")
		},
	}

	cmd.Version = app.opts.Version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetFlagErrorFunc(flagUsageError)

	addGlobalFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		NewServersCmd(app),
		NewJobsCmd(app),
		NewTriggersCmd(app),
		NewSecretsCmd(app),
	)

	return cmd
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.String("instance", "", "instance to use (defaults to the selected instance)")
	flags.String("state-file", "", "path of the state file (default ~/.bust.json)")
	flags.Bool("no-color", false, "disable colored output")
	flags.BoolP("verbose", "v", false, "log requests to stderr")
}

// newGroupCmd creates a command that only groups subcommands.
func newGroupCmd(use, short string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
}

// Execute runs the CLI against the process arguments and returns the exit code.
func Execute(ctx context.Context) int {
	return Run(ctx, os.Args[1:], Options{Version: Version})
}

// Run executes one invocation. The state is saved only when the command
// succeeds and the context was not cancelled.
func Run(ctx context.Context, args []string, opts Options) int {
	app := newApp(opts)
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetIn(app.opts.Stdin)
	root.SetOut(app.opts.Stdout)
	root.SetErr(app.opts.Stderr)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = app.save()
	}
	return writeCommandError(app.opts.Stderr, cmd, err)
}
