package delegation

import (
	"fmt"
	"strings"

	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/cao"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "delegation",
	Short: "Show and change CAO token vote delegation",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the delegatee and voting power of an account",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var delegateCmd = &cobra.Command{
	Use:   "delegate <address|self>",
	Short: "Delegate the sender's votes",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelegate,
}

var flagAccount string

func init() {
	showCmd.Flags().StringVar(&flagAccount, "account", "", "Account to show (defaults to the sender)")

	CMD.AddCommand(showCmd, delegateCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	account, err := optionalAddress("--account", flagAccount)
	if err != nil {
		return err
	}

	service, closeFn, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return service.Show(cmd.Context(), account)
}

func runDelegate(cmd *cobra.Command, args []string) error {
	var delegatee *common.Address
	if !strings.EqualFold(args[0], "self") {
		var err error
		if delegatee, err = optionalAddress("delegatee", args[0]); err != nil {
			return err
		}
	}

	service, closeFn, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return service.Delegate(cmd.Context(), delegatee)
}

func optionalAddress(name, value string) (*common.Address, error) {
	if value == "" {
		return nil, nil
	}
	if !common.IsHexAddress(value) {
		return nil, fmt.Errorf("%s %q is not an address", name, value)
	}
	address := common.HexToAddress(value)
	return &address, nil
}

func newService(cmd *cobra.Command) (*Service, func(), error) {
	printer, err := output.New(cmd.OutOrStdout(), configs.Values.Output)
	if err != nil {
		return nil, nil, err
	}
	gateway, closeFn, err := cao.Open(cmd.Context(), configs.Values)
	if err != nil {
		return nil, nil, err
	}
	return NewService(gateway, printer), closeFn, nil
}
