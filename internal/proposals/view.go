package proposals

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/compose-network/cao-console/internal/cao"
	"github.com/compose-network/cao-console/internal/output"
)

type proposalView struct {
	ID            string        `yaml:"id"`
	Proposer      output.Quoted `yaml:"proposer"`
	Description   string        `yaml:"description"`
	StartBlock    string        `yaml:"start-block"`
	EndBlock      string        `yaml:"end-block"`
	VotesFor      string        `yaml:"votes-for"`
	VotesAgainst  string        `yaml:"votes-against"`
	Status        string        `yaml:"status"`
	BlockExecuted string        `yaml:"block-executed,omitempty"`
	Calls         []output.Call `yaml:"calls"`
}

func newProposalView(p *cao.Proposal) proposalView {
	view := proposalView{
		ID:           output.Int(p.ID),
		Proposer:     output.Quoted(p.Proposer.Hex()),
		Description:  p.Description,
		StartBlock:   output.Int(p.StartBlock),
		EndBlock:     output.Int(p.EndBlock),
		VotesFor:     output.Int(p.VotesFor),
		VotesAgainst: output.Int(p.VotesAgainst),
		Status:       p.Status.String(),
	}
	if p.Status == cao.StatusExecuted {
		view.BlockExecuted = output.Int(p.BlockExecuted)
	}
	for _, call := range p.Calls {
		rendered := output.NewCall(call.Target, call.DecodedCall)
		if call.Value != nil && call.Value.Sign() > 0 {
			rendered.Value = call.Value.String()
		}
		view.Calls = append(view.Calls, rendered)
	}
	return view
}

func (v proposalView) rows() [][]string {
	rows := [][]string{
		{"ID", v.ID},
		{"Proposer", string(v.Proposer)},
		{"Description", v.Description},
		{"Voting", v.StartBlock + " - " + v.EndBlock},
		{"Votes for", v.VotesFor},
		{"Votes against", v.VotesAgainst},
		{"Status", v.Status},
	}
	if v.BlockExecuted != "" {
		rows = append(rows, []string{"Executed at", v.BlockExecuted})
	}
	return rows
}

func (v proposalView) callTables() []output.Table {
	tables := make([]output.Table, 0, len(v.Calls))
	for i, call := range v.Calls {
		tables = append(tables, output.Table{
			Title: fmt.Sprintf("Call #%d", i),
			Rows:  call.Rows(),
		})
	}
	return tables
}

type listView struct {
	Proposals []proposalView `yaml:"proposals"`
}

func newListView(proposals []*cao.Proposal) listView {
	view := listView{Proposals: make([]proposalView, 0, len(proposals))}
	for _, p := range proposals {
		view.Proposals = append(view.Proposals, newProposalView(p))
	}
	return view
}

func (v listView) Tables() []output.Table {
	table := output.Table{
		Title:  "Active proposals",
		Header: []string{"ID", "Description", "Proposer", "Start", "End", "For", "Against", "Calls"},
	}
	for _, p := range v.Proposals {
		calls := make([]string, 0, len(p.Calls))
		for _, call := range p.Calls {
			calls = append(calls, call.Contract+"."+call.Function)
		}
		table.Rows = append(table.Rows, []string{
			p.ID,
			p.Description,
			string(p.Proposer),
			p.StartBlock,
			p.EndBlock,
			p.VotesFor,
			p.VotesAgainst,
			strings.Join(calls, "\n"),
		})
	}
	return []output.Table{table}
}

type voteView struct {
	Voter       output.Quoted `yaml:"voter"`
	Direction   string        `yaml:"direction"`
	VotingPower string        `yaml:"voting-power"`
	Reason      string        `yaml:"reason,omitempty"`
	Block       uint64        `yaml:"block"`
	Transaction output.Quoted `yaml:"transaction"`
}

type accountView struct {
	Address          output.Quoted `yaml:"address"`
	VotingPower      string        `yaml:"voting-power,omitempty"`
	TotalVotingPower string        `yaml:"total-voting-power,omitempty"`
	HasVoted         bool          `yaml:"has-voted"`
}

type detailsView struct {
	Proposal     proposalView `yaml:"proposal"`
	CurrentBlock uint64       `yaml:"current-block"`
	Started      bool         `yaml:"started"`
	Executable   bool         `yaml:"executable"`
	Account      *accountView `yaml:"account,omitempty"`
	Votes        []voteView   `yaml:"votes"`
}

func newDetailsView(d *cao.ProposalDetails) detailsView {
	view := detailsView{
		Proposal:     newProposalView(&d.Proposal),
		CurrentBlock: d.CurrentBlock,
		Started:      d.Started,
		Executable:   d.Executable,
	}
	if d.Account != nil {
		account := &accountView{
			Address:  output.Quoted(d.Account.Hex()),
			HasVoted: d.HasVoted,
		}
		if d.Started {
			account.VotingPower = output.Int(d.VotingPower)
			account.TotalVotingPower = output.Int(d.TotalVotingPower)
		}
		view.Account = account
	}
	for _, vote := range d.Votes {
		view.Votes = append(view.Votes, voteView{
			Voter:       output.Quoted(vote.Voter.Hex()),
			Direction:   vote.Direction.String(),
			VotingPower: output.Int(vote.VotingPower),
			Reason:      vote.Reason,
			Block:       vote.Block,
			Transaction: output.Quoted(vote.TxHash.Hex()),
		})
	}
	return view
}

func (v detailsView) Tables() []output.Table {
	summary := v.Proposal.rows()
	summary = append(summary,
		[]string{"Current block", strconv.FormatUint(v.CurrentBlock, 10)},
		[]string{"Voting open", yesNo(v.Started)},
	)
	if v.Started {
		summary = append(summary, []string{"Executable", yesNo(v.Executable)})
	}
	if v.Account != nil {
		summary = append(summary, []string{"Account", string(v.Account.Address)})
		if v.Started {
			summary = append(summary, []string{"Voting power", v.Account.VotingPower + " / " + v.Account.TotalVotingPower})
		}
		summary = append(summary, []string{"Voted", yesNo(v.Account.HasVoted)})
	}

	tables := []output.Table{{Title: "Proposal", Rows: summary}}
	tables = append(tables, v.Proposal.callTables()...)

	votes := output.Table{
		Title:  "Votes",
		Header: []string{"Voter", "Direction", "Voting power", "Reason", "Block"},
	}
	for _, vote := range v.Votes {
		votes.Rows = append(votes.Rows, []string{
			string(vote.Voter),
			vote.Direction,
			vote.VotingPower,
			vote.Reason,
			strconv.FormatUint(vote.Block, 10),
		})
	}
	return append(tables, votes)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
