package overview

import (
	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/cao"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "overview",
	Short: "Show reserve tokens, funds, employees and unredeemed ex-employees",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer, err := output.New(cmd.OutOrStdout(), configs.Values.Output)
		if err != nil {
			return err
		}
		gateway, closeFn, err := cao.Open(cmd.Context(), configs.Values)
		if err != nil {
			return err
		}
		defer closeFn()

		return NewService(gateway, printer).Show(cmd.Context())
	},
}
