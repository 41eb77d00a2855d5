package cao

import (
	"context"
	"fmt"
	"math/big"
	"slices"

	"github.com/compose-network/cao-console/internal/contracts"
	"github.com/ethereum/go-ethereum/common"
)

// Employee is the remuneration state of one HR account.
type Employee struct {
	Address              common.Address
	RemunerationPerBlock *big.Int
	RemunerationAccrued  *big.Int
	LastAccruedBlock     *big.Int
	CurrentRemuneration  *big.Int
}

// employeeRecord mirrors the employee details returned by HR.
type employeeRecord struct {
	RemunerationPerBlock *big.Int
	RemunerationAccrued  *big.Int
	LastAccruedBlock     *big.Int
}

// ClaimableToken is a token the CAO holds enough of to pay the caller's
// remuneration in full.
type ClaimableToken struct {
	Address      common.Address
	Name         string
	Symbol       string
	RedeemAmount *big.Int
}

// Employee reads the remuneration state of account. Accounts that are not
// employees come back with zero values.
func (g *Gateway) Employee(ctx context.Context, account common.Address) (*Employee, error) {
	hr := g.address(contracts.NameHR)

	var record employeeRecord
	if err := g.readInto(ctx, &record, contracts.NameHR, hr, "getEmployeeByAddress", account); err != nil {
		return nil, fmt.Errorf("failed to read employee %s: %w", account.Hex(), err)
	}
	current, err := readValue[*big.Int](ctx, g, contracts.NameHR, hr, "getEmployeeCurrentRemuneration", account)
	if err != nil {
		return nil, fmt.Errorf("failed to read remuneration of %s: %w", account.Hex(), err)
	}

	return &Employee{
		Address:              account,
		RemunerationPerBlock: record.RemunerationPerBlock,
		RemunerationAccrued:  record.RemunerationAccrued,
		LastAccruedBlock:     record.LastAccruedBlock,
		CurrentRemuneration:  current,
	}, nil
}

// ClaimableTokens lists the fund and reserve tokens the caller can redeem
// their remuneration in, in that order.
func (g *Gateway) ClaimableTokens(ctx context.Context) ([]ClaimableToken, error) {
	// The redeem amount depends on the caller, so reads must carry the sender.
	if _, err := g.backend.Sender(ctx); err != nil {
		return nil, err
	}

	parameters := g.address(contracts.NameCAOParameters)

	fundTokens, err := readValue[[]common.Address](ctx, g, contracts.NameCAOParameters, parameters, "getFundTokens")
	if err != nil {
		return nil, err
	}
	reserveTokens, err := readValue[[]common.Address](ctx, g, contracts.NameCAOParameters, parameters, "getReserveTokens")
	if err != nil {
		return nil, err
	}
	tokens := slices.Concat(fundTokens, reserveTokens)

	claimable, err := collect(ctx, tokens, g.claimable)
	if err != nil {
		return nil, err
	}

	result := make([]ClaimableToken, 0, len(claimable))
	for _, claim := range claimable {
		if claim != nil {
			result = append(result, *claim)
		}
	}
	return result, nil
}

// claimable returns nil when the CAO balance of token does not cover the
// redeem amount.
func (g *Gateway) claimable(ctx context.Context, token common.Address) (*ClaimableToken, error) {
	cao := g.address(contracts.NameCAO)

	amount, err := readValue[*big.Int](ctx, g, contracts.NameCAO, cao, "computeTokenRedeemAmount", token)
	if err != nil {
		return nil, fmt.Errorf("failed to compute redeem amount in %s: %w", token.Hex(), err)
	}
	balance, err := g.balanceOf(ctx, token, cao)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(amount) < 0 {
		return nil, nil
	}

	name, symbol, err := g.tokenNames(ctx, token)
	if err != nil {
		return nil, err
	}
	return &ClaimableToken{Address: token, Name: name, Symbol: symbol, RedeemAmount: amount}, nil
}

// Claim redeems the caller's remuneration in token.
func (g *Gateway) Claim(ctx context.Context, token common.Address) (common.Hash, error) {
	return g.Transact(ctx, contracts.NameCAO, g.address(contracts.NameCAO), "redeemRemuneration", nil, token)
}

func (g *Gateway) balanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	balance, err := readValue[*big.Int](ctx, g, contracts.NameERC20, token, "balanceOf", holder)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s balance of %s: %w", token.Hex(), holder.Hex(), err)
	}
	return balance, nil
}

func (g *Gateway) tokenNames(ctx context.Context, token common.Address) (string, string, error) {
	name, err := readValue[string](ctx, g, contracts.NameERC20, token, "name")
	if err != nil {
		return "", "", err
	}
	symbol, err := g.symbol(ctx, token)
	if err != nil {
		return "", "", err
	}
	return name, symbol, nil
}

func (g *Gateway) symbol(ctx context.Context, token common.Address) (string, error) {
	return readValue[string](ctx, g, contracts.NameERC20, token, "symbol")
}
