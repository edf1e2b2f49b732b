package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewServersCmd creates the servers command group.
func NewServersCmd(app *App) *cobra.Command {
	cmd := newGroupCmd("servers", "Manage registered server instances", "s")
	cmd.AddCommand(
		newServersListCmd(app),
		newServersRegisterCmd(app),
		newServersUnregisterCmd(app),
		newServersLoginCmd(app),
		newServersSelectCmd(app),
	)
	return cmd
}

func newServersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered instances",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, inst := range app.State.ListInstances() {
				var marks []string
				if inst.Name == app.State.DefaultInstance {
					marks = append(marks, "default")
				}
				if inst.Token != "" {
					marks = append(marks, "logged in")
				}
				line := inst.Name + " " + inst.URL
				if len(marks) > 0 {
					line += " (" + strings.Join(marks, ", ") + ")"
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func newServersRegisterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <url> <name>",
		Short: "Register an instance under a name",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, name := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			if err := validateRegistration(name, url); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registering %s as %q\n", url, name)
			app.State.AddInstance(name, url)

			makeDefault, _ := cmd.Flags().GetBool("make-default")
			if makeDefault {
				fmt.Fprintf(out, "Setting default instance to %s\n", name)
				app.State.SetDefaultInstance(name)
			}
			return nil
		},
	}
	cmd.Flags().Bool("make-default", false, "also select the instance as default")
	return cmd
}

func newServersUnregisterCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unregister <name>",
		Short: "Forget a registered instance",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Unregistering %q\n", args[0])
			return app.State.RemoveInstance(args[0])
		},
	}
}

func newServersLoginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in to an instance and store its token",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}
			username := args[0]

			var password string
			if fromStdin, _ := cmd.Flags().GetBool("password-stdin"); fromStdin {
				password, err = app.readPasswordLine(cmd.InOrStdin())
			} else {
				password, err = app.opts.ReadPassword()
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logging in to %s as %s\n", inst.Name, username)
			token, err := app.Client.Login(cmd.Context(), inst, username, password)
			if err != nil {
				return err
			}
			return app.State.SetToken(inst.Name, token)
		},
	}
	cmd.Flags().Bool("password-stdin", false, "read the password from stdin")
	return cmd
}

func newServersSelectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <instance>",
		Short: "Select the default instance",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Setting default instance to %s\n", args[0])
			app.State.SetDefaultInstance(args[0])
			return nil
		},
	}
}
