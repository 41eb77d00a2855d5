package cao

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/compose-network/cao-console/internal/abis"
	"github.com/compose-network/cao-console/internal/chain"
	"github.com/compose-network/cao-console/internal/contracts"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

const (
	// MaxBlocksDelay is the longest wait before voting opens, about three days of blocks.
	MaxBlocksDelay = 3 * 28800
	// MinBlocksDuration is the shortest voting window.
	MinBlocksDuration = 1200
)

// Status is the lifecycle state of a proposal.
type Status uint8

const (
	StatusActive Status = iota
	StatusExecuted
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusExecuted:
		return "executed"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Direction is the side of a vote.
type Direction uint8

const (
	DirectionFor Direction = iota
	DirectionAgainst
)

func (d Direction) String() string {
	switch d {
	case DirectionFor:
		return "for"
	case DirectionAgainst:
		return "against"
	default:
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
}

// ParseDirection accepts for/against, yes/no or the numeric value.
func ParseDirection(text string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "for", "yes", "0":
		return DirectionFor, nil
	case "against", "no", "1":
		return DirectionAgainst, nil
	default:
		return 0, fmt.Errorf("unknown vote direction %q, expected for or against", text)
	}
}

// ProposalCall is one call a proposal executes, decoded for display.
type ProposalCall struct {
	Target common.Address
	Value  *big.Int
	abis.DecodedCall
}

type Proposal struct {
	ID            *big.Int
	Proposer      common.Address
	Description   string
	StartBlock    *big.Int
	EndBlock      *big.Int
	Calls         []ProposalCall
	VotesFor      *big.Int
	VotesAgainst  *big.Int
	Status        Status
	BlockExecuted *big.Int
}

// Vote is a vote cast on a proposal, read from the Vote event.
type Vote struct {
	Voter       common.Address
	Direction   Direction
	VotingPower *big.Int
	Reason      string
	Block       uint64
	TxHash      common.Hash
}

// ProposalDetails is a proposal with its votes and the caller's standing.
// Voting power and executability are only known once voting has opened.
type ProposalDetails struct {
	Proposal
	Votes            []Vote
	CurrentBlock     uint64
	Started          bool
	Executable       bool
	Account          *common.Address
	VotingPower      *big.Int
	TotalVotingPower *big.Int
	HasVoted         bool
}

// proposalRecord mirrors the outputs of CAO.getProposal.
type proposalRecord struct {
	Proposer      common.Address
	Description   string
	StartBlock    *big.Int
	EndBlock      *big.Int
	CallAddresses []common.Address
	CallDatas     [][]byte
	CallValues    []*big.Int
	VotesFor      *big.Int
	VotesAgainst  *big.Int
	Status        uint8
	BlockExecuted *big.Int
	ReturnDatas   [][]byte
}

// Proposal reads one proposal and decodes its calls. Return data is only
// present once the proposal has been executed.
func (g *Gateway) Proposal(ctx context.Context, id *big.Int) (*Proposal, error) {
	var record proposalRecord
	if err := g.readInto(ctx, &record, contracts.NameCAO, g.address(contracts.NameCAO), "getProposal", id); err != nil {
		return nil, fmt.Errorf("failed to read proposal %s: %w", id, err)
	}

	proposal := &Proposal{
		ID:            new(big.Int).Set(id),
		Proposer:      record.Proposer,
		Description:   record.Description,
		StartBlock:    record.StartBlock,
		EndBlock:      record.EndBlock,
		VotesFor:      record.VotesFor,
		VotesAgainst:  record.VotesAgainst,
		Status:        Status(record.Status),
		BlockExecuted: record.BlockExecuted,
		Calls:         make([]ProposalCall, len(record.CallAddresses)),
	}
	for i, target := range record.CallAddresses {
		var calldata, returnData []byte
		if i < len(record.CallDatas) {
			calldata = record.CallDatas[i]
		}
		if i < len(record.ReturnDatas) {
			returnData = record.ReturnDatas[i]
		}
		value := new(big.Int)
		if i < len(record.CallValues) && record.CallValues[i] != nil {
			value = record.CallValues[i]
		}

		proposal.Calls[i] = ProposalCall{
			Target:      target,
			Value:       value,
			DecodedCall: g.decoder.DecodeCall(target, calldata, returnData),
		}
	}

	return proposal, nil
}

// ActiveProposals reads every active proposal, newest first.
func (g *Gateway) ActiveProposals(ctx context.Context) ([]*Proposal, error) {
	ids, err := readValue[[]*big.Int](ctx, g, contracts.NameCAO, g.address(contracts.NameCAO), "getActiveProposalsIds")
	if err != nil {
		return nil, fmt.Errorf("failed to list active proposals: %w", err)
	}

	proposals, err := collect(ctx, ids, g.Proposal)
	if err != nil {
		return nil, err
	}

	slices.Reverse(proposals)
	return proposals, nil
}

// ProposalDetails reads a proposal together with its votes, the current
// block and, when a sender is available, the sender's voting power at the
// proposal start.
func (g *Gateway) ProposalDetails(ctx context.Context, id *big.Int) (*ProposalDetails, error) {
	currentBlock, err := g.backend.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}

	proposal, err := g.Proposal(ctx, id)
	if err != nil {
		return nil, err
	}

	votes, err := g.Votes(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &ProposalDetails{
		Proposal:     *proposal,
		Votes:        votes,
		CurrentBlock: currentBlock,
		Started:      proposal.StartBlock.Cmp(new(big.Int).SetUint64(currentBlock)) < 0,
	}

	account, err := g.backend.Sender(ctx)
	switch {
	case errors.Is(err, chain.ErrNoAccount):
		g.logger.Debug("no sender account, skipping voting power")
	case err != nil:
		return nil, err
	default:
		details.Account = &account
		details.HasVoted = slices.ContainsFunc(votes, func(vote Vote) bool {
			return vote.Voter == account
		})
	}

	if !details.Started {
		return details, nil
	}

	token := g.address(contracts.NameCAOToken)
	if details.Account != nil {
		details.VotingPower, err = readValue[*big.Int](ctx, g, contracts.NameCAOToken, token, "getPastVotes", account, proposal.StartBlock)
		if err != nil {
			return nil, err
		}
	}
	details.TotalVotingPower, err = readValue[*big.Int](ctx, g, contracts.NameCAOToken, token, "getPastTotalSupply", proposal.StartBlock)
	if err != nil {
		return nil, err
	}
	details.Executable, err = readValue[bool](ctx, g, contracts.NameCAO, g.address(contracts.NameCAO), "getIsProposalExecutable", id)
	if err != nil {
		return nil, err
	}

	return details, nil
}

// Votes reads every Vote event emitted for a proposal.
func (g *Gateway) Votes(ctx context.Context, id *big.Int) ([]Vote, error) {
	codec, err := g.codec(contracts.NameCAO)
	if err != nil {
		return nil, err
	}
	event, ok := codec.Events["Vote"]
	if !ok {
		return nil, errors.New("CAO abi has no Vote event")
	}

	logs, err := g.backend.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int),
		Addresses: []common.Address{g.address(contracts.NameCAO)},
		Topics:    [][]common.Hash{{event.ID}, {common.BigToHash(id)}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read votes for proposal %s: %w", id, err)
	}

	votes := make([]Vote, 0, len(logs))
	for _, log := range logs {
		if len(log.Topics) < 3 {
			return nil, fmt.Errorf("vote log in tx %s has %d topics", log.TxHash.Hex(), len(log.Topics))
		}
		values, err := event.Inputs.NonIndexed().Unpack(log.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode vote in tx %s: %w", log.TxHash.Hex(), err)
		}
		direction, err := valueAt[uint8](values, 0)
		if err != nil {
			return nil, err
		}
		power, err := valueAt[*big.Int](values, 1)
		if err != nil {
			return nil, err
		}
		reason, err := valueAt[string](values, 2)
		if err != nil {
			return nil, err
		}

		votes = append(votes, Vote{
			Voter:       common.BytesToAddress(log.Topics[2].Bytes()),
			Direction:   Direction(direction),
			VotingPower: power,
			Reason:      reason,
			Block:       log.BlockNumber,
			TxHash:      log.TxHash,
		})
	}
	return votes, nil
}

// CallDraft is one call of a proposal being created. Contract is a label
// from the call catalog. Target may be omitted for contracts bound to a
// configured address and is required for every other contract.
type CallDraft struct {
	Contract string
	Target   *common.Address
	Function string
	Args     []string
	Value    *big.Int
}

// ProposalDraft is a proposal before submission.
type ProposalDraft struct {
	Description    string
	BlocksDelay    uint64
	BlocksDuration uint64
	Calls          []CallDraft
}

// Validate checks the draft against the limits the console enforces.
func (d ProposalDraft) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Description) == "" {
		errs = append(errs, errors.New("description is required"))
	}
	if d.BlocksDelay > MaxBlocksDelay {
		errs = append(errs, fmt.Errorf("blocks delay %d exceeds the maximum of %d", d.BlocksDelay, MaxBlocksDelay))
	}
	if d.BlocksDuration < MinBlocksDuration {
		errs = append(errs, fmt.Errorf("blocks duration %d is below the minimum of %d", d.BlocksDuration, MinBlocksDuration))
	}
	if len(d.Calls) == 0 {
		errs = append(errs, errors.New("a proposal needs at least one call"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("proposal validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// EncodedCall is a call ready to be put into a proposal.
type EncodedCall struct {
	Target   common.Address
	Calldata []byte
	Value    *big.Int
}

// EncodeCall resolves the draft's contract and function in the catalog and
// encodes its text arguments.
func EncodeCall(bundle *contracts.Bundle, draft CallDraft) (EncodedCall, error) {
	name, ok := contracts.ByLabel(draft.Contract)
	if !ok {
		return EncodedCall{}, fmt.Errorf("unknown contract %q", draft.Contract)
	}
	registry, ok := bundle.Catalog.Contract(name.Label())
	if !ok {
		return EncodedCall{}, fmt.Errorf("%s cannot be called by a proposal", name.Label())
	}
	descriptor, ok := registry.Function(draft.Function)
	if !ok {
		return EncodedCall{}, fmt.Errorf("%s has no state-changing function %q", name.Label(), draft.Function)
	}

	target, err := callTarget(bundle, name, draft.Target)
	if err != nil {
		return EncodedCall{}, err
	}

	calldata, err := descriptor.EncodeText(draft.Args)
	if err != nil {
		return EncodedCall{}, err
	}

	value := new(big.Int)
	if draft.Value != nil {
		if draft.Value.Sign() < 0 {
			return EncodedCall{}, fmt.Errorf("call value %s is negative", draft.Value)
		}
		value.Set(draft.Value)
	}

	return EncodedCall{Target: target, Calldata: calldata, Value: value}, nil
}

func callTarget(bundle *contracts.Bundle, name contracts.Name, target *common.Address) (common.Address, error) {
	bound, isBound := bundle.Addresses[name]
	switch {
	case isBound && target == nil:
		return bound, nil
	case isBound && *target != bound:
		return common.Address{}, fmt.Errorf("%s is deployed at %s, not %s", name.Label(), bound.Hex(), target.Hex())
	case target == nil:
		return common.Address{}, fmt.Errorf("a target address is required for %s", name.Label())
	case *target == (common.Address{}):
		return common.Address{}, fmt.Errorf("target address for %s is the zero address", name.Label())
	default:
		return *target, nil
	}
}

// CreateProposal encodes the draft's calls and submits the proposal.
func (g *Gateway) CreateProposal(ctx context.Context, draft ProposalDraft) (common.Hash, error) {
	if err := draft.Validate(); err != nil {
		return common.Hash{}, err
	}

	targets := make([]common.Address, len(draft.Calls))
	calldatas := make([][]byte, len(draft.Calls))
	values := make([]*big.Int, len(draft.Calls))
	for i, call := range draft.Calls {
		encoded, err := EncodeCall(g.bundle, call)
		if err != nil {
			return common.Hash{}, fmt.Errorf("call #%d: %w", i, err)
		}
		targets[i] = encoded.Target
		calldatas[i] = encoded.Calldata
		values[i] = encoded.Value
	}

	return g.Transact(ctx, contracts.NameCAO, g.address(contracts.NameCAO), "createProposal", nil,
		draft.Description,
		new(big.Int).SetUint64(draft.BlocksDelay),
		new(big.Int).SetUint64(draft.BlocksDuration),
		targets,
		calldatas,
		values,
	)
}

// CastVote votes on a proposal.
func (g *Gateway) CastVote(ctx context.Context, id *big.Int, direction Direction, reason string) (common.Hash, error) {
	return g.Transact(ctx, contracts.NameCAO, g.address(contracts.NameCAO), "vote", nil, id, uint8(direction), reason)
}

// Execute submits the execution of a proposal, attaching value if its calls
// forward ether.
func (g *Gateway) Execute(ctx context.Context, id *big.Int, value *big.Int) (common.Hash, error) {
	return g.Transact(ctx, contracts.NameCAO, g.address(contracts.NameCAO), "executeProposal", value, id)
}

// ParseProposalID parses a decimal or 0x-hex proposal id.
func ParseProposalID(text string) (*big.Int, error) {
	text = strings.TrimSpace(text)
	id, ok := new(big.Int).SetString(text, 0)
	if !ok || id.Sign() < 0 {
		return nil, fmt.Errorf("invalid proposal id %q", text)
	}
	return id, nil
}
