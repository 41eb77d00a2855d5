package overview

import (
	"strconv"

	"github.com/compose-network/cao-console/internal/cao"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/ethereum/go-ethereum/common"
)

type reserveTokenView struct {
	Address    output.Quoted `yaml:"address"`
	Symbol     string        `yaml:"symbol"`
	Oracle     output.Quoted `yaml:"oracle"`
	CAOBalance string        `yaml:"cao-balance"`
}

type accountingView struct {
	Address                output.Quoted `yaml:"address"`
	FundTokenBalance       string        `yaml:"fund-token-balance"`
	FundTokenPrice         string        `yaml:"fund-token-price"`
	AumValue               string        `yaml:"aum-value"`
	PeriodBeginningBlock   string        `yaml:"period-beginning-block"`
	PeriodBeginningAum     string        `yaml:"period-beginning-aum"`
	PeriodBeginningSupply  string        `yaml:"period-beginning-supply"`
	TheoreticalSupply      string        `yaml:"theoretical-supply"`
	ManagementFee          string        `yaml:"management-fee"`
	EvaluationPeriodBlocks uint32        `yaml:"evaluation-period-blocks"`
}

type allowedTokenView struct {
	Address            output.Quoted `yaml:"address"`
	Symbol             string        `yaml:"symbol"`
	Oracle             output.Quoted `yaml:"oracle"`
	FrontOfficeBalance string        `yaml:"front-office-balance"`
}

type frontOfficeView struct {
	Address             output.Quoted      `yaml:"address"`
	Parameters          output.Quoted      `yaml:"parameters"`
	FundTokenBalance    string             `yaml:"fund-token-balance"`
	MaxSingleWithdrawal string             `yaml:"max-single-withdrawal"`
	AllowedTokens       []allowedTokenView `yaml:"allowed-tokens"`
}

type incentiveView struct {
	Address          output.Quoted `yaml:"address"`
	Name             string        `yaml:"name"`
	FundTokenBalance string        `yaml:"fund-token-balance"`
}

type fundView struct {
	Name              string          `yaml:"name"`
	MainFund          output.Quoted   `yaml:"main-fund"`
	MainFundToken     output.Quoted   `yaml:"main-fund-token"`
	IncentivesManager output.Quoted   `yaml:"incentives-manager"`
	CAOBalance        string          `yaml:"cao-balance"`
	Accounting        accountingView  `yaml:"accounting"`
	FrontOffice       frontOfficeView `yaml:"front-office"`
	Incentives        []incentiveView `yaml:"incentives"`
}

type employeeView struct {
	Address              output.Quoted `yaml:"address"`
	RemunerationPerBlock string        `yaml:"remuneration-per-block"`
	RemunerationAccrued  string        `yaml:"remuneration-accrued"`
	LastAccruedBlock     string        `yaml:"last-accrued-block"`
	CurrentRemuneration  string        `yaml:"current-remuneration"`
}

type overviewView struct {
	ReserveTokens         []reserveTokenView `yaml:"reserve-tokens"`
	Funds                 []fundView         `yaml:"funds"`
	Employees             []employeeView     `yaml:"employees"`
	UnredeemedExEmployees []employeeView     `yaml:"unredeemed-ex-employees"`
}

func quoted(address common.Address) output.Quoted {
	return output.Quoted(address.Hex())
}

func newOverviewView(o *cao.Overview) overviewView {
	var view overviewView
	for _, token := range o.ReserveTokens {
		view.ReserveTokens = append(view.ReserveTokens, reserveTokenView{
			Address:    quoted(token.Address),
			Symbol:     token.Symbol,
			Oracle:     quoted(token.Oracle),
			CAOBalance: output.Int(token.CAOBalance),
		})
	}
	for _, fund := range o.Funds {
		view.Funds = append(view.Funds, newFundView(fund))
	}
	view.Employees = newEmployeeViews(o.Employees)
	view.UnredeemedExEmployees = newEmployeeViews(o.UnredeemedExEmployees)
	return view
}

func newFundView(fund cao.Fund) fundView {
	accounting := fund.Accounting
	frontOffice := fund.FrontOffice

	view := fundView{
		Name:              fund.Name,
		MainFund:          quoted(fund.MainFund),
		MainFundToken:     quoted(fund.MainFundToken),
		IncentivesManager: quoted(fund.IncentivesManager),
		CAOBalance:        output.Int(fund.CAOBalance),
		Accounting: accountingView{
			Address:                quoted(accounting.Address),
			FundTokenBalance:       output.Int(accounting.FundTokenBalance),
			FundTokenPrice:         output.Int(accounting.FundTokenPrice),
			AumValue:               output.Int(accounting.State.AumValue),
			PeriodBeginningBlock:   output.Int(accounting.State.PeriodBeginningBlock),
			PeriodBeginningAum:     output.Int(accounting.State.PeriodBeginningAum),
			PeriodBeginningSupply:  output.Int(accounting.State.PeriodBeginningSupply),
			TheoreticalSupply:      output.Int(accounting.State.TheoreticalSupply),
			ManagementFee:          output.Int(accounting.ManagementFee),
			EvaluationPeriodBlocks: accounting.EvaluationPeriodBlocks,
		},
		FrontOffice: frontOfficeView{
			Address:             quoted(frontOffice.Address),
			Parameters:          quoted(frontOffice.Parameters),
			FundTokenBalance:    output.Int(frontOffice.FundTokenBalance),
			MaxSingleWithdrawal: output.Int(frontOffice.MaxSingleWithdrawal),
		},
	}
	for _, token := range frontOffice.AllowedTokens {
		view.FrontOffice.AllowedTokens = append(view.FrontOffice.AllowedTokens, allowedTokenView{
			Address:            quoted(token.Address),
			Symbol:             token.Symbol,
			Oracle:             quoted(token.Oracle),
			FrontOfficeBalance: output.Int(token.FrontOfficeBalance),
		})
	}
	for _, incentive := range fund.Incentives {
		view.Incentives = append(view.Incentives, incentiveView{
			Address:          quoted(incentive.Address),
			Name:             incentive.Name,
			FundTokenBalance: output.Int(incentive.FundTokenBalance),
		})
	}
	return view
}

func newEmployeeViews(employees []cao.Employee) []employeeView {
	views := make([]employeeView, 0, len(employees))
	for _, e := range employees {
		views = append(views, employeeView{
			Address:              quoted(e.Address),
			RemunerationPerBlock: output.Int(e.RemunerationPerBlock),
			RemunerationAccrued:  output.Int(e.RemunerationAccrued),
			LastAccruedBlock:     output.Int(e.LastAccruedBlock),
			CurrentRemuneration:  output.Int(e.CurrentRemuneration),
		})
	}
	return views
}

func (v overviewView) Tables() []output.Table {
	reserves := output.Table{
		Title:  "Reserve tokens",
		Header: []string{"Symbol", "Address", "Oracle", "CAO balance"},
	}
	for _, token := range v.ReserveTokens {
		reserves.Rows = append(reserves.Rows, []string{token.Symbol, string(token.Address), string(token.Oracle), token.CAOBalance})
	}

	tables := []output.Table{reserves}
	for _, fund := range v.Funds {
		tables = append(tables, fund.tables()...)
	}

	return append(tables,
		employeeTable("Employees", v.Employees),
		employeeTable("Unredeemed ex-employees", v.UnredeemedExEmployees),
	)
}

func (f fundView) tables() []output.Table {
	summary := output.Table{
		Title: "Fund " + f.Name,
		Rows: [][]string{
			{"Main fund", string(f.MainFund)},
			{"Fund token", string(f.MainFundToken)},
			{"CAO balance", f.CAOBalance},
			{"Incentives manager", string(f.IncentivesManager)},
		},
	}

	a := f.Accounting
	accounting := output.Table{
		Title: f.Name + " accounting",
		Rows: [][]string{
			{"Address", string(a.Address)},
			{"Fund token balance", a.FundTokenBalance},
			{"Fund token price", a.FundTokenPrice},
			{"AUM", a.AumValue},
			{"Period beginning block", a.PeriodBeginningBlock},
			{"Period beginning AUM", a.PeriodBeginningAum},
			{"Period beginning supply", a.PeriodBeginningSupply},
			{"Theoretical supply", a.TheoreticalSupply},
			{"Management fee", a.ManagementFee},
			{"Evaluation period", strconv.FormatUint(uint64(a.EvaluationPeriodBlocks), 10) + " blocks"},
		},
	}

	fo := f.FrontOffice
	frontOffice := output.Table{
		Title: f.Name + " front office",
		Rows: [][]string{
			{"Address", string(fo.Address)},
			{"Parameters", string(fo.Parameters)},
			{"Fund token balance", fo.FundTokenBalance},
			{"Max single withdrawal", fo.MaxSingleWithdrawal},
		},
	}
	allowed := output.Table{
		Title:  f.Name + " allowed tokens",
		Header: []string{"Symbol", "Address", "Oracle", "Front office balance"},
	}
	for _, token := range fo.AllowedTokens {
		allowed.Rows = append(allowed.Rows, []string{token.Symbol, string(token.Address), string(token.Oracle), token.FrontOfficeBalance})
	}

	incentives := output.Table{
		Title:  f.Name + " incentives",
		Header: []string{"Name", "Address", "Fund token balance"},
	}
	for _, incentive := range f.Incentives {
		incentives.Rows = append(incentives.Rows, []string{incentive.Name, string(incentive.Address), incentive.FundTokenBalance})
	}

	return []output.Table{summary, accounting, frontOffice, allowed, incentives}
}

func employeeTable(title string, employees []employeeView) output.Table {
	table := output.Table{
		Title:  title,
		Header: []string{"Address", "Per block", "Accrued", "Last accrued block", "Current"},
	}
	for _, e := range employees {
		table.Rows = append(table.Rows, []string{
			string(e.Address),
			e.RemunerationPerBlock,
			e.RemunerationAccrued,
			e.LastAccruedBlock,
			e.CurrentRemuneration,
		})
	}
	return table
}
