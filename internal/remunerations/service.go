package remunerations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/compose-network/cao-console/internal/cao"
	"github.com/compose-network/cao-console/internal/logger"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/ethereum/go-ethereum/common"
)

// Gateway is the part of *cao.Gateway the remuneration commands use.
type Gateway interface {
	Account(ctx context.Context) (common.Address, error)
	Employee(ctx context.Context, account common.Address) (*cao.Employee, error)
	ClaimableTokens(ctx context.Context) ([]cao.ClaimableToken, error)
	Claim(ctx context.Context, token common.Address) (common.Hash, error)
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
		logger:  logger.Named("remunerations"),
	}
}

type employeeView struct {
	Address              output.Quoted `yaml:"address"`
	RemunerationPerBlock string        `yaml:"remuneration-per-block"`
	RemunerationAccrued  string        `yaml:"remuneration-accrued"`
	LastAccruedBlock     string        `yaml:"last-accrued-block"`
	CurrentRemuneration  string        `yaml:"current-remuneration"`
}

func newEmployeeView(e cao.Employee) employeeView {
	return employeeView{
		Address:              output.Quoted(e.Address.Hex()),
		RemunerationPerBlock: output.Int(e.RemunerationPerBlock),
		RemunerationAccrued:  output.Int(e.RemunerationAccrued),
		LastAccruedBlock:     output.Int(e.LastAccruedBlock),
		CurrentRemuneration:  output.Int(e.CurrentRemuneration),
	}
}

type claimableView struct {
	Address      output.Quoted `yaml:"address"`
	Name         string        `yaml:"name"`
	Symbol       string        `yaml:"symbol"`
	RedeemAmount string        `yaml:"redeem-amount"`
}

type remunerationView struct {
	Employee  employeeView    `yaml:"employee"`
	Claimable []claimableView `yaml:"claimable,omitempty"`
	own       bool
}

func (v remunerationView) Tables() []output.Table {
	tables := []output.Table{{
		Title: "Remuneration",
		Rows: [][]string{
			{"Account", string(v.Employee.Address)},
			{"Per block", v.Employee.RemunerationPerBlock},
			{"Accrued", v.Employee.RemunerationAccrued},
			{"Last accrued block", v.Employee.LastAccruedBlock},
			{"Current", v.Employee.CurrentRemuneration},
		},
	}}
	if !v.own {
		return tables
	}

	claimable := output.Table{
		Title:  "Claimable in",
		Header: []string{"Token", "Symbol", "Address", "Amount"},
	}
	for _, token := range v.Claimable {
		claimable.Rows = append(claimable.Rows, []string{token.Name, token.Symbol, string(token.Address), token.RedeemAmount})
	}
	return append(tables, claimable)
}

// Show prints the remuneration of account. For the sender's own account it
// also lists the tokens the remuneration can be claimed in.
func (s *Service) Show(ctx context.Context, account *common.Address) error {
	view := remunerationView{own: account == nil}

	var resolved common.Address
	if account != nil {
		resolved = *account
	} else {
		sender, err := s.gateway.Account(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve account: %w", err)
		}
		resolved = sender
	}

	employee, err := s.gateway.Employee(ctx, resolved)
	if err != nil {
		return err
	}
	view.Employee = newEmployeeView(*employee)

	if view.own && employee.CurrentRemuneration != nil && employee.CurrentRemuneration.Sign() > 0 {
		tokens, err := s.gateway.ClaimableTokens(ctx)
		if err != nil {
			return fmt.Errorf("failed to list claimable tokens: %w", err)
		}
		for _, token := range tokens {
			view.Claimable = append(view.Claimable, claimableView{
				Address:      output.Quoted(token.Address.Hex()),
				Name:         token.Name,
				Symbol:       token.Symbol,
				RedeemAmount: output.Int(token.RedeemAmount),
			})
		}
	}

	return s.printer.Print(view)
}

// Claim redeems the sender's remuneration in token.
func (s *Service) Claim(ctx context.Context, token common.Address) error {
	hash, err := s.gateway.Claim(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to claim remuneration in %s: %w", token.Hex(), err)
	}
	s.logger.With("token", token.Hex()).With("tx", hash.Hex()).Info("claim submitted")

	return s.printer.Print(output.NewTransaction("claim remuneration in "+token.Hex(), hash))
}
