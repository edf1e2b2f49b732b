package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSecretsCmd creates the secrets command group.
func NewSecretsCmd(app *App) *cobra.Command {
	cmd := newGroupCmd("secrets", "Check and unseal the secrets store")
	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show whether secrets are unsealed",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, args []string) error {
				inst, err := app.instance(cmd)
				if err != nil {
					return err
				}
				unsealed, err := app.Client.SealStatus(cmd.Context(), inst)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), describeBool(unsealed, "unsealed", "sealed"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "unseal <secret>",
			Short: "Unseal the secrets store",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				inst, err := app.instance(cmd)
				if err != nil {
					return err
				}
				unsealed, err := app.Client.Unseal(cmd.Context(), inst, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), describeBool(unsealed, "unsealed", "unsealing failed"))
				return nil
			},
		},
	)
	return cmd
}
