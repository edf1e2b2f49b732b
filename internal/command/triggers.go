package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTriggersCmd creates the triggers command group.
func NewTriggersCmd(app *App) *cobra.Command {
	cmd := newGroupCmd("triggers", "Manage job triggers", "t")
	cmd.AddCommand(
		newTriggersListCmd(app),
		newTriggersInfoCmd(app),
		newTriggersCreateCmd(app),
		newTriggersDeleteCmd(app),
		newTriggersTriggerCmd(app),
	)
	return cmd
}

func newTriggersListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List triggers",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, _ := cmd.Flags().GetString("filter")
			ongoing, _ := cmd.Flags().GetBool("ongoing")
			// Compile the filter before any request is made.
			if _, err := filterTriggers(nil, pattern); err != nil {
				return err
			}
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}

			triggers, err := app.Client.ListTriggers(cmd.Context(), inst, ongoing)
			if err != nil {
				return err
			}
			triggers, err = filterTriggers(triggers, pattern)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, trigger := range triggers {
				fmt.Fprintln(out, app.Styles.TruncateLine(app.Styles.FormatTrigger(trigger)))
			}
			return nil
		},
	}
	cmd.Flags().Bool("ongoing", false, "only triggers with ongoing jobs")
	cmd.Flags().String("filter", "", "glob applied to trigger names")
	return cmd
}

func newTriggersInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info [name]",
		Short: "Describe a trigger (defaults to the last trigger)",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}
			name, err := app.Resolver.RequireTrigger(optionalArg(args, 0))
			if err != nil {
				return err
			}
			trigger, err := app.Client.GetTrigger(cmd.Context(), inst, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Styles.FormatTrigger(trigger))
			return nil
		},
	}
}

func newTriggersCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <payload>",
		Short: "Create a trigger from a JSON payload",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			payload, err := parsePayload(args[1])
			if err != nil {
				return err
			}
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, string(payload))

			trigger, err := app.Client.CreateTrigger(cmd.Context(), inst, name, payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, app.Styles.FormatTrigger(trigger))
			app.State.SetLastTrigger(name)
			return nil
		},
	}
}

func newTriggersDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a trigger (defaults to the last trigger)",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}
			name, err := app.Resolver.RequireTrigger(optionalArg(args, 0))
			if err != nil {
				return err
			}
			if err := app.Client.DeleteTrigger(cmd.Context(), inst, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted trigger %s\n", name)
			return app.State.ClearLastTrigger()
		},
	}
}

func newTriggersTriggerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trigger [name]",
		Short: "Start a job from a trigger (defaults to the last trigger)",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, _ := cmd.Flags().GetStringSlice("params")
			params, err := parseParams(pairs)
			if err != nil {
				return err
			}
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}
			name, err := app.Resolver.RequireTrigger(optionalArg(args, 0))
			if err != nil {
				return err
			}

			job, err := app.Client.RunTrigger(cmd.Context(), inst, name, params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Styles.FormatJob(job, false))
			if job.Key != "" {
				app.State.SetLastJob(job.Key)
			}
			return nil
		},
	}
	cmd.Flags().StringSlice("params", nil, "query params as key=value (repeatable or comma separated)")
	return cmd
}
