package proposals

import (
	"fmt"
	"math/big"
	"os"

	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/cao"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "proposals",
	Short: "List, inspect, create, vote on and execute proposals",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active proposals, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a proposal with its decoded calls and votes",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a proposal",
	Long: `Create submits a proposal. Calls come from a YAML file, from the call flags,
or both; flags override the file's description, delay and duration.

Examples:
  caoctl proposals create --file hire.yaml
  caoctl proposals create --description "Hire Alice" \
    --contract HR --function addEmployee --arg 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 --arg 1000
`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

var voteCmd = &cobra.Command{
	Use:   "vote <id>",
	Short: "Vote for or against a proposal",
	Args:  cobra.ExactArgs(1),
	RunE:  runVote,
}

var executeCmd = &cobra.Command{
	Use:   "execute <id>",
	Short: "Execute an approved proposal",
	Args:  cobra.ExactArgs(1),
	RunE:  runExecute,
}

var (
	flagFile        string
	flagDescription string
	flagDelay       uint64
	flagDuration    uint64
	flagContract    string
	flagTarget      string
	flagFunction    string
	flagArgs        []string
	flagCallValue   string

	flagDirection string
	flagReason    string

	flagExecuteValue string
)

func init() {
	createCmd.Flags().StringVar(&flagFile, "file", "", "YAML file describing the proposal")
	createCmd.Flags().StringVar(&flagDescription, "description", "", "Proposal description")
	createCmd.Flags().Uint64Var(&flagDelay, "delay", 0, fmt.Sprintf("Blocks before voting opens (at most %d)", cao.MaxBlocksDelay))
	createCmd.Flags().Uint64Var(&flagDuration, "duration", cao.MinBlocksDuration, fmt.Sprintf("Blocks voting stays open (at least %d)", cao.MinBlocksDuration))
	createCmd.Flags().StringVar(&flagContract, "contract", "", "Contract label of a call to add")
	createCmd.Flags().StringVar(&flagTarget, "target", "", "Target address, required for fund and token contracts")
	createCmd.Flags().StringVar(&flagFunction, "function", "", "Function name or full signature")
	createCmd.Flags().StringArrayVar(&flagArgs, "arg", nil, "Function argument, repeated in declaration order")
	createCmd.Flags().StringVar(&flagCallValue, "value", "", "Wei forwarded with the call")

	voteCmd.Flags().StringVar(&flagDirection, "direction", "", "for or against")
	voteCmd.Flags().StringVar(&flagReason, "reason", "", "Reason recorded with the vote")
	_ = voteCmd.MarkFlagRequired("direction")

	executeCmd.Flags().StringVar(&flagExecuteValue, "value", "0", "Wei sent with the execution")

	CMD.AddCommand(listCmd, showCmd, createCmd, voteCmd, executeCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	service, closeFn, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return service.List(cmd.Context())
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := cao.ParseProposalID(args[0])
	if err != nil {
		return err
	}

	service, closeFn, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return service.Show(cmd.Context(), id)
}

func runCreate(cmd *cobra.Command, args []string) error {
	var file proposalFile
	if flagFile != "" {
		data, err := os.ReadFile(flagFile)
		if err != nil {
			return fmt.Errorf("failed to read proposal file: %w", err)
		}
		if file, err = parseProposalFile(data); err != nil {
			return err
		}
	}

	flags := draftFlags{
		Description: flagDescription,
		Call: callFile{
			Contract: flagContract,
			Target:   flagTarget,
			Function: flagFunction,
			Args:     flagArgs,
			Value:    flagCallValue,
		},
	}
	if cmd.Flags().Changed("delay") {
		flags.Delay = &flagDelay
	}
	if cmd.Flags().Changed("duration") {
		flags.Duration = &flagDuration
	}

	draft, err := buildDraft(file, flags)
	if err != nil {
		return err
	}

	service, closeFn, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return service.Create(cmd.Context(), draft)
}

func runVote(cmd *cobra.Command, args []string) error {
	id, err := cao.ParseProposalID(args[0])
	if err != nil {
		return err
	}
	direction, err := cao.ParseDirection(flagDirection)
	if err != nil {
		return err
	}

	service, closeFn, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return service.Vote(cmd.Context(), id, direction, flagReason)
}

func runExecute(cmd *cobra.Command, args []string) error {
	id, err := cao.ParseProposalID(args[0])
	if err != nil {
		return err
	}
	value, ok := new(big.Int).SetString(flagExecuteValue, 0)
	if !ok || value.Sign() < 0 {
		return fmt.Errorf("--value %q is not a wei amount", flagExecuteValue)
	}

	service, closeFn, err := newService(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return service.Execute(cmd.Context(), id, value)
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
