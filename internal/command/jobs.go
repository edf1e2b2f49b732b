package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamavenir/noci/internal/tail"
	"github.com/adamavenir/noci/internal/types"
)

const defaultJobListLimit = 15

// NewJobsCmd creates the jobs command group.
func NewJobsCmd(app *App) *cobra.Command {
	cmd := newGroupCmd("jobs", "Start, inspect and act on jobs", "j")
	cmd.AddCommand(
		newJobsListCmd(app),
		newJobsStatusCmd(app),
		newJobsLogCmd(app),
		newJobsStartCmd(app),
		newJobsActionCmd(app),
	)
	return cmd
}

func newJobsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent jobs",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}
			full, _ := cmd.Flags().GetBool("full")
			limit, _ := cmd.Flags().GetInt("limit")
			if limit < 0 {
				return usageErrorf("--limit must be >= 0")
			}

			jobs, err := app.Client.ListJobs(cmd.Context(), inst, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, job := range jobs {
				if full {
					fmt.Fprintln(out, app.Styles.FormatJob(job, true))
					continue
				}
				fmt.Fprintln(out, app.Styles.TruncateLine(app.Styles.FormatJob(job, false)))
			}
			return nil
		},
	}
	cmd.Flags().Bool("full", false, "include job params")
	cmd.Flags().Int("limit", defaultJobListLimit, "maximum number of jobs to list")
	return cmd
}

func newJobsStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status [job]",
		Short: "Show a job (defaults to the last job)",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}
			key, err := app.Resolver.RequireJob(optionalArg(args, 0))
			if err != nil {
				return err
			}
			job, err := app.Client.GetJob(cmd.Context(), inst, key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Styles.FormatJob(job, true))
			return nil
		},
	}
}

func newJobsLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log [job]",
		Short: "Show the log of a job (defaults to the last job)",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}
			key, err := app.Resolver.RequireJob(optionalArg(args, 0))
			if err != nil {
				return err
			}
			start, _ := cmd.Flags().GetInt("start")
			follow, _ := cmd.Flags().GetBool("follow")
			if start < 0 {
				return usageErrorf("--start must be >= 0")
			}

			app.State.SetLastJob(key)

			out := cmd.OutOrStdout()
			if follow {
				fmt.Fprintf(out, "--- following %s on %s (Ctrl+C to stop) ---\n", key, inst.Name)
			}

			fetch := tail.FetcherFunc(func(ctx context.Context, key string, start int) (types.Job, error) {
				return app.Client.JobLog(ctx, inst, key, start)
			})
			tailer := tail.New(fetch, app.Config.PollInterval)
			res, err := tailer.Run(cmd.Context(), tail.Options{Key: key, Start: start, Follow: follow}, func(line types.LogLine) error {
				_, err := fmt.Fprintln(out, app.Styles.FormatLogLine(line))
				return err
			})
			if err != nil {
				if res.Cursor > start {
					fmt.Fprintf(cmd.ErrOrStderr(), "log stopped after line %d (resume with --start %d)\n", res.Cursor, res.Cursor)
				}
				return err
			}
			app.Logger.Debug("log tail finished", "job", key, "cursor", res.Cursor, "ticks", res.Ticks)

			fmt.Fprintln(out, app.Styles.FormatJob(res.Job, false))
			return nil
		},
	}
	cmd.Flags().Int("start", 0, "log line offset to start from")
	cmd.Flags().BoolP("follow", "f", false, "keep polling until the job is dead")
	return cmd
}

func newJobsStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start <payload>",
		Short: "Start a job from a JSON payload",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := parsePayload(args[0])
			if err != nil {
				return err
			}
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, string(payload))

			job, err := app.Client.StartJob(cmd.Context(), inst, payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, app.Styles.FormatJob(job, false))
			if job.Key != "" {
				app.State.SetLastJob(job.Key)
			}
			return nil
		},
	}
}

func newJobsActionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action [job] <action>",
		Short: "Perform an action on a job (defaults to the last job)",
		Args:  usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := app.instance(cmd)
			if err != nil {
				return err
			}
			explicitJob, action := "", args[0]
			if len(args) == 2 {
				explicitJob, action = args[0], args[1]
			}
			key, err := app.Resolver.RequireJob(explicitJob)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			value, _ := flags.GetString("value")
			comment, _ := flags.GetString("comment")
			req := types.ActionRequest{
				Value:   optionalString(value, flags.Changed("value")),
				Comment: optionalString(comment, flags.Changed("comment")),
			}

			job, err := app.Client.JobAction(cmd.Context(), inst, key, action, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Styles.FormatJob(job, false))
			app.State.SetLastJob(key)
			return nil
		},
	}
	cmd.Flags().String("value", "", "value passed to the action")
	cmd.Flags().String("comment", "", "comment recorded with the action")
	return cmd
}
