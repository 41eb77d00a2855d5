package delegation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/compose-network/cao-console/internal/cao"
	"github.com/compose-network/cao-console/internal/logger"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/ethereum/go-ethereum/common"
)

// Gateway is the part of *cao.Gateway the delegation commands use.
type Gateway interface {
	Account(ctx context.Context) (common.Address, error)
	Delegatee(ctx context.Context, account common.Address) (common.Address, error)
	VotingPower(ctx context.Context, account common.Address) (*cao.VotingPower, error)
	Delegate(ctx context.Context, delegatee common.Address) (common.Hash, error)
}

type Service struct {
	gateway Gateway
	printer *output.Printer
	logger  *slog.Logger
}

func NewService(gateway Gateway, printer *output.Printer) *Service {
	return &Service{
		gateway: gateway,
		printer: printer,
		logger:  logger.Named("delegation"),
	}
}

type statusView struct {
	Account     output.Quoted `yaml:"account"`
	Delegatee   output.Quoted `yaml:"delegatee,omitempty"`
	Votes       string        `yaml:"votes"`
	TotalSupply string        `yaml:"total-supply"`
}

func (v statusView) Tables() []output.Table {
	delegatee := string(v.Delegatee)
	if delegatee == "" {
		delegatee = "not delegated"
	}
	return []output.Table{{Rows: [][]string{
		{"Account", string(v.Account)},
		{"Delegates to", delegatee},
		{"Voting power", v.Votes + " / " + v.TotalSupply},
	}}}
}

// Show prints who account delegates to and the votes it holds. A nil
// account means the gateway's own.
func (s *Service) Show(ctx context.Context, account *common.Address) error {
	resolved, err := s.account(ctx, account)
	if err != nil {
		return err
	}

	delegatee, err := s.gateway.Delegatee(ctx, resolved)
	if err != nil {
		return err
	}
	power, err := s.gateway.VotingPower(ctx, resolved)
	if err != nil {
		return err
	}

	view := statusView{
		Account:     output.Quoted(resolved.Hex()),
		Votes:       output.Int(power.Votes),
		TotalSupply: output.Int(power.Total),
	}
	if delegatee != (common.Address{}) {
		view.Delegatee = output.Quoted(delegatee.Hex())
	}
	return s.printer.Print(view)
}

// Delegate moves the sender's votes to delegatee, or to the sender itself
// when delegatee is nil.
func (s *Service) Delegate(ctx context.Context, delegatee *common.Address) error {
	to, err := s.account(ctx, delegatee)
	if err != nil {
		return err
	}

	hash, err := s.gateway.Delegate(ctx, to)
	if err != nil {
		return fmt.Errorf("failed to delegate to %s: %w", to.Hex(), err)
	}
	s.logger.With("delegatee", to.Hex()).With("tx", hash.Hex()).Info("delegation submitted")

	return s.printer.Print(output.NewTransaction("delegate to "+to.Hex(), hash))
}

func (s *Service) account(ctx context.Context, account *common.Address) (common.Address, error) {
	if account != nil {
		return *account, nil
	}
	resolved, err := s.gateway.Account(ctx)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to resolve account: %w", err)
	}
	return resolved, nil
}
