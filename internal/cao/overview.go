package cao

import (
	"context"
	"fmt"
	"math/big"

	"github.com/compose-network/cao-console/internal/contracts"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

type ReserveToken struct {
	Address    common.Address
	Symbol     string
	Oracle     common.Address
	CAOBalance *big.Int
}

// AccountingState mirrors the outputs of Accounting.getState.
type AccountingState struct {
	AumValue              *big.Int
	PeriodBeginningBlock  *big.Int
	PeriodBeginningAum    *big.Int
	PeriodBeginningSupply *big.Int
	TheoreticalSupply     *big.Int
}

type Accounting struct {
	Address                common.Address
	FundTokenBalance       *big.Int
	FundTokenPrice         *big.Int
	State                  AccountingState
	ManagementFee          *big.Int
	EvaluationPeriodBlocks uint32
}

type AllowedToken struct {
	Address            common.Address
	Symbol             string
	Oracle             common.Address
	FrontOfficeBalance *big.Int
}

type FrontOffice struct {
	Address             common.Address
	Parameters          common.Address
	FundTokenBalance    *big.Int
	AllowedTokens       []AllowedToken
	MaxSingleWithdrawal *big.Int
}

type Incentive struct {
	Address          common.Address
	Name             string
	FundTokenBalance *big.Int
}

// Fund is one main fund reached through its fund token.
type Fund struct {
	Name              string
	MainFund          common.Address
	MainFundToken     common.Address
	IncentivesManager common.Address
	CAOBalance        *big.Int
	Accounting        Accounting
	FrontOffice       FrontOffice
	Incentives        []Incentive
}

// Overview is a snapshot of the organization's treasury and staff.
type Overview struct {
	ReserveTokens         []ReserveToken
	Funds                 []Fund
	Employees             []Employee
	UnredeemedExEmployees []Employee
}

// indexedEmployee mirrors the outputs of HR.getEmployeeByIndex.
type indexedEmployee struct {
	EmployeeAddress common.Address
	Details         employeeRecord
}

// exEmployees mirrors the outputs of HR.getUnredeemedExEmployees.
type exEmployees struct {
	Addresses []common.Address
	Details   []employeeRecord
}

// Overview reads reserve tokens, funds and staff concurrently.
func (g *Gateway) Overview(ctx context.Context) (*Overview, error) {
	overview := &Overview{}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		tokens, err := g.ReserveTokens(groupCtx)
		overview.ReserveTokens = tokens
		return err
	})
	group.Go(func() error {
		funds, err := g.Funds(groupCtx)
		overview.Funds = funds
		return err
	})
	group.Go(func() error {
		employees, err := g.Employees(groupCtx)
		overview.Employees = employees
		return err
	})
	group.Go(func() error {
		exEmployees, err := g.UnredeemedExEmployees(groupCtx)
		overview.UnredeemedExEmployees = exEmployees
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	g.logger.With("funds", len(overview.Funds)).With("employees", len(overview.Employees)).Debug("overview read")

	return overview, nil
}

func (g *Gateway) ReserveTokens(ctx context.Context) ([]ReserveToken, error) {
	parameters := g.address(contracts.NameCAOParameters)

	addresses, err := readValue[[]common.Address](ctx, g, contracts.NameCAOParameters, parameters, "getReserveTokens")
	if err != nil {
		return nil, fmt.Errorf("failed to list reserve tokens: %w", err)
	}

	return collect(ctx, addresses, func(ctx context.Context, address common.Address) (ReserveToken, error) {
		symbol, err := g.symbol(ctx, address)
		if err != nil {
			return ReserveToken{}, err
		}
		oracle, err := readValue[common.Address](ctx, g, contracts.NameCAOParameters, parameters, "getReserveTokenOracle", address)
		if err != nil {
			return ReserveToken{}, err
		}
		balance, err := g.balanceOf(ctx, address, g.address(contracts.NameCAO))
		if err != nil {
			return ReserveToken{}, err
		}
		return ReserveToken{Address: address, Symbol: symbol, Oracle: oracle, CAOBalance: balance}, nil
	})
}

// Funds reads every fund listed in the CAO parameters.
func (g *Gateway) Funds(ctx context.Context) ([]Fund, error) {
	tokens, err := readValue[[]common.Address](ctx, g, contracts.NameCAOParameters, g.address(contracts.NameCAOParameters), "getFundTokens")
	if err != nil {
		return nil, fmt.Errorf("failed to list fund tokens: %w", err)
	}
	return collect(ctx, tokens, g.fund)
}

func (g *Gateway) fund(ctx context.Context, token common.Address) (Fund, error) {
	name, err := readValue[string](ctx, g, contracts.NameMainFundToken, token, "name")
	if err != nil {
		return Fund{}, err
	}
	mainFund, err := readValue[common.Address](ctx, g, contracts.NameMainFundToken, token, "getFundAddress")
	if err != nil {
		return Fund{}, err
	}

	fund := Fund{Name: name, MainFund: mainFund, MainFundToken: token}

	var accounting, frontOffice common.Address
	for method, target := range map[string]*common.Address{
		"getAccounting":        &accounting,
		"getFrontOffice":       &frontOffice,
		"getIncentivesManager": &fund.IncentivesManager,
	} {
		if *target, err = readValue[common.Address](ctx, g, contracts.NameMainFund, mainFund, method); err != nil {
			return Fund{}, err
		}
	}

	if fund.CAOBalance, err = g.balanceOf(ctx, token, g.address(contracts.NameCAO)); err != nil {
		return Fund{}, err
	}
	if fund.Accounting, err = g.accounting(ctx, token, accounting); err != nil {
		return Fund{}, err
	}
	if fund.FrontOffice, err = g.frontOffice(ctx, token, frontOffice); err != nil {
		return Fund{}, err
	}
	if fund.Incentives, err = g.incentives(ctx, token, fund.IncentivesManager); err != nil {
		return Fund{}, err
	}

	return fund, nil
}

func (g *Gateway) accounting(ctx context.Context, token, address common.Address) (Accounting, error) {
	accounting := Accounting{Address: address}

	var err error
	if accounting.FundTokenBalance, err = g.balanceOf(ctx, token, address); err != nil {
		return Accounting{}, err
	}
	if accounting.FundTokenPrice, err = readValue[*big.Int](ctx, g, contracts.NameAccounting, address, "getFundTokenPrice"); err != nil {
		return Accounting{}, err
	}
	if err = g.readInto(ctx, &accounting.State, contracts.NameAccounting, address, "getState"); err != nil {
		return Accounting{}, err
	}
	if accounting.ManagementFee, err = readValue[*big.Int](ctx, g, contracts.NameAccounting, address, "getManagementFee"); err != nil {
		return Accounting{}, err
	}
	if accounting.EvaluationPeriodBlocks, err = readValue[uint32](ctx, g, contracts.NameAccounting, address, "getEvaluationPeriodBlocks"); err != nil {
		return Accounting{}, err
	}
	return accounting, nil
}

func (g *Gateway) frontOffice(ctx context.Context, token, address common.Address) (FrontOffice, error) {
	frontOffice := FrontOffice{Address: address}

	var err error
	if frontOffice.Parameters, err = readValue[common.Address](ctx, g, contracts.NameFrontOffice, address, "getParametersAddress"); err != nil {
		return FrontOffice{}, err
	}
	if frontOffice.FundTokenBalance, err = g.balanceOf(ctx, token, address); err != nil {
		return FrontOffice{}, err
	}
	parameters := frontOffice.Parameters
	if frontOffice.MaxSingleWithdrawal, err = readValue[*big.Int](ctx, g, contracts.NameFrontOfficeParameters, parameters, "getMaxSingleWithdrawalFundTokenAmount"); err != nil {
		return FrontOffice{}, err
	}

	allowed, err := readValue[[]common.Address](ctx, g, contracts.NameFrontOfficeParameters, parameters, "getAllowedTokens")
	if err != nil {
		return FrontOffice{}, err
	}
	frontOffice.AllowedTokens, err = collect(ctx, allowed, func(ctx context.Context, allowedToken common.Address) (AllowedToken, error) {
		symbol, err := g.symbol(ctx, allowedToken)
		if err != nil {
			return AllowedToken{}, err
		}
		oracle, err := readValue[common.Address](ctx, g, contracts.NameFrontOfficeParameters, parameters, "getAllowedTokenOracle", allowedToken)
		if err != nil {
			return AllowedToken{}, err
		}
		balance, err := g.balanceOf(ctx, allowedToken, address)
		if err != nil {
			return AllowedToken{}, err
		}
		return AllowedToken{Address: allowedToken, Symbol: symbol, Oracle: oracle, FrontOfficeBalance: balance}, nil
	})
	if err != nil {
		return FrontOffice{}, err
	}
	return frontOffice, nil
}

func (g *Gateway) incentives(ctx context.Context, token, manager common.Address) ([]Incentive, error) {
	addresses, err := readValue[[]common.Address](ctx, g, contracts.NameIncentivesManager, manager, "getIncentives")
	if err != nil {
		return nil, err
	}
	return collect(ctx, addresses, func(ctx context.Context, address common.Address) (Incentive, error) {
		name, err := readValue[string](ctx, g, contracts.NameIncentive, address, "getName")
		if err != nil {
			return Incentive{}, err
		}
		balance, err := g.balanceOf(ctx, token, address)
		if err != nil {
			return Incentive{}, err
		}
		return Incentive{Address: address, Name: name, FundTokenBalance: balance}, nil
	})
}

// Employees reads every current employee with their accrued remuneration.
func (g *Gateway) Employees(ctx context.Context) ([]Employee, error) {
	hr := g.address(contracts.NameHR)

	count, err := readValue[*big.Int](ctx, g, contracts.NameHR, hr, "getEmployeeCount")
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}
	if !count.IsInt64() {
		return nil, fmt.Errorf("employee count %s out of range", count)
	}

	indexes := make([]int64, count.Int64())
	for i := range indexes {
		indexes[i] = int64(i)
	}
	return collect(ctx, indexes, func(ctx context.Context, index int64) (Employee, error) {
		var record indexedEmployee
		if err := g.readInto(ctx, &record, contracts.NameHR, hr, "getEmployeeByIndex", big.NewInt(index)); err != nil {
			return Employee{}, err
		}
		return g.withCurrentRemuneration(ctx, record.EmployeeAddress, record.Details)
	})
}

// UnredeemedExEmployees reads former employees with remuneration left to
// redeem.
func (g *Gateway) UnredeemedExEmployees(ctx context.Context) ([]Employee, error) {
	var record exEmployees
	if err := g.readInto(ctx, &record, contracts.NameHR, g.address(contracts.NameHR), "getUnredeemedExEmployees"); err != nil {
		return nil, fmt.Errorf("failed to list former employees: %w", err)
	}
	if len(record.Addresses) != len(record.Details) {
		return nil, fmt.Errorf("got %d former employees but %d details", len(record.Addresses), len(record.Details))
	}

	indexes := make([]int, len(record.Addresses))
	for i := range indexes {
		indexes[i] = i
	}
	return collect(ctx, indexes, func(ctx context.Context, i int) (Employee, error) {
		return g.withCurrentRemuneration(ctx, record.Addresses[i], record.Details[i])
	})
}

func (g *Gateway) withCurrentRemuneration(ctx context.Context, address common.Address, details employeeRecord) (Employee, error) {
	current, err := readValue[*big.Int](ctx, g, contracts.NameHR, g.address(contracts.NameHR), "getEmployeeCurrentRemuneration", address)
	if err != nil {
		return Employee{}, err
	}
	return Employee{
		Address:              address,
		RemunerationPerBlock: details.RemunerationPerBlock,
		RemunerationAccrued:  details.RemunerationAccrued,
		LastAccruedBlock:     details.LastAccruedBlock,
		CurrentRemuneration:  current,
	}, nil
}

// maxConcurrentReads bounds the calls collect keeps in flight.
const maxConcurrentReads = 8

// collect runs fetch for every item concurrently and keeps the input order.
func collect[In, Out any](ctx context.Context, items []In, fetch func(context.Context, In) (Out, error)) ([]Out, error) {
	results := make([]Out, len(items))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentReads)
	for i, item := range items {
		group.Go(func() error {
			result, err := fetch(groupCtx, item)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
