package cao

import (
	"context"
	"fmt"
	"math/big"

	"github.com/compose-network/cao-console/internal/contracts"
	"github.com/ethereum/go-ethereum/common"
)

// VotingPower is an account's current votes against the token supply.
type VotingPower struct {
	Account common.Address
	Votes   *big.Int
	Total   *big.Int
}

// Account resolves the account the gateway acts for: the configured sender,
// or else the node's first account.
func (g *Gateway) Account(ctx context.Context) (common.Address, error) {
	return g.backend.Sender(ctx)
}

// Delegatee returns who account delegates its votes to. The zero address
// means the account has not delegated.
func (g *Gateway) Delegatee(ctx context.Context, account common.Address) (common.Address, error) {
	delegatee, err := readValue[common.Address](ctx, g, contracts.NameCAOToken, g.address(contracts.NameCAOToken), "delegates", account)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to read delegatee of %s: %w", account.Hex(), err)
	}
	return delegatee, nil
}

// Delegate moves the sender's votes to delegatee.
func (g *Gateway) Delegate(ctx context.Context, delegatee common.Address) (common.Hash, error) {
	return g.Transact(ctx, contracts.NameCAOToken, g.address(contracts.NameCAOToken), "delegate", nil, delegatee)
}

func (g *Gateway) VotingPower(ctx context.Context, account common.Address) (*VotingPower, error) {
	token := g.address(contracts.NameCAOToken)

	votes, err := readValue[*big.Int](ctx, g, contracts.NameCAOToken, token, "getVotes", account)
	if err != nil {
		return nil, fmt.Errorf("failed to read votes of %s: %w", account.Hex(), err)
	}
	total, err := readValue[*big.Int](ctx, g, contracts.NameCAOToken, token, "totalSupply")
	if err != nil {
		return nil, fmt.Errorf("failed to read total supply: %w", err)
	}

	return &VotingPower{Account: account, Votes: votes, Total: total}, nil
}
