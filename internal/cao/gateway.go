package cao

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/abis"
	"github.com/compose-network/cao-console/internal/chain"
	"github.com/compose-network/cao-console/internal/contracts"
	"github.com/compose-network/cao-console/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the node access the gateway needs. *chain.Client implements it.
type Backend interface {
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	Send(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error)
	Sender(ctx context.Context) (common.Address, error)
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Gateway reads organization state and submits governance transactions.
type Gateway struct {
	backend Backend
	bundle  *contracts.Bundle
	decoder *abis.Decoder
	logger  *slog.Logger
}

func NewGateway(backend Backend, bundle *contracts.Bundle) *Gateway {
	return &Gateway{
		backend: backend,
		bundle:  bundle,
		decoder: abis.NewDecoder(bundle.Catalog),
		logger:  logger.Named("cao_gateway"),
	}
}

// Open builds the contract bundle from cfg and connects to the configured
// node. The returned function closes the connection.
func Open(ctx context.Context, cfg configs.Config) (*Gateway, func(), error) {
	if err := cfg.RPC.Validate(); err != nil {
		return nil, nil, err
	}

	bundle, err := contracts.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []chain.Option{
		chain.WithRetry(cfg.RPC.RetryAttempts, cfg.RPC.RetryDelay),
		chain.WithTimeout(cfg.RPC.Timeout),
	}
	if cfg.RPC.From != "" {
		opts = append(opts, chain.WithSender(common.HexToAddress(cfg.RPC.From)))
	}

	client, err := chain.Dial(ctx, cfg.RPC.URL, opts...)
	if err != nil {
		return nil, nil, err
	}

	return NewGateway(client, bundle), client.Close, nil
}

// Bundle exposes the contract set the gateway works with.
func (g *Gateway) Bundle() *contracts.Bundle {
	return g.bundle
}

// Decoder exposes the call decoder built over the gateway's catalog.
func (g *Gateway) Decoder() *abis.Decoder {
	return g.decoder
}

// Read calls a view function of contract deployed at address and returns
// its unpacked outputs.
func (g *Gateway) Read(ctx context.Context, contract contracts.Name, address common.Address, method string, args ...any) ([]any, error) {
	codec, result, err := g.call(ctx, contract, address, method, args...)
	if err != nil {
		return nil, err
	}

	values, err := codec.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s.%s result: %w", contract, method, err)
	}
	return values, nil
}

// readInto unpacks a multi-output view function into out, matching outputs
// to fields by name.
func (g *Gateway) readInto(ctx context.Context, out any, contract contracts.Name, address common.Address, method string, args ...any) error {
	codec, result, err := g.call(ctx, contract, address, method, args...)
	if err != nil {
		return err
	}

	if err := codec.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("failed to decode %s.%s result: %w", contract, method, err)
	}
	return nil
}

func (g *Gateway) call(ctx context.Context, contract contracts.Name, address common.Address, method string, args ...any) (*abi.ABI, []byte, error) {
	codec, err := g.codec(contract)
	if err != nil {
		return nil, nil, err
	}

	data, err := codec.Pack(method, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode %s.%s: %w", contract, method, err)
	}

	result, err := g.backend.Call(ctx, address, data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to call %s.%s: %w", contract, method, err)
	}
	return codec, result, nil
}

func (g *Gateway) codec(contract contracts.Name) (*abi.ABI, error) {
	parsed := g.bundle.Set.ABI(contract)
	if parsed == nil {
		return nil, fmt.Errorf("no abi loaded for %s", contract)
	}
	return parsed.Codec(), nil
}

// Transact encodes a call to a state-changing function of contract through
// its registry descriptor and submits it to address.
func (g *Gateway) Transact(ctx context.Context, contract contracts.Name, address common.Address, function string, value *big.Int, args ...any) (common.Hash, error) {
	registry, ok := g.bundle.Catalog.Contract(contract.Label())
	if !ok {
		return common.Hash{}, fmt.Errorf("%s is not a callable contract", contract.Label())
	}
	descriptor, ok := registry.Function(function)
	if !ok {
		return common.Hash{}, fmt.Errorf("%s has no state-changing function %q", contract.Label(), function)
	}

	data, err := descriptor.Encode(args)
	if err != nil {
		return common.Hash{}, err
	}

	hash, err := g.backend.Send(ctx, address, data, value)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to send %s.%s: %w", contract.Label(), descriptor.FunctionName(), err)
	}

	g.logger.With("contract", contract.Label()).With("function", descriptor.Signature()).With("tx", hash.Hex()).Info("transaction sent")

	return hash, nil
}

func (g *Gateway) address(contract contracts.Name) common.Address {
	return g.bundle.Addresses[contract]
}

// valueAt returns the i-th output of a read as T.
func valueAt[T any](values []any, i int) (T, error) {
	var zero T
	if i >= len(values) {
		return zero, fmt.Errorf("expected at least %d outputs, got %d", i+1, len(values))
	}
	value, ok := values[i].(T)
	if !ok {
		return zero, fmt.Errorf("output %d is %T, expected %T", i, values[i], zero)
	}
	return value, nil
}

// readValue reads a single-output view function.
func readValue[T any](ctx context.Context, g *Gateway, contract contracts.Name, address common.Address, method string, args ...any) (T, error) {
	values, err := g.Read(ctx, contract, address, method, args...)
	if err != nil {
		var zero T
		return zero, err
	}

	value, err := valueAt[T](values, 0)
	if err != nil {
		return value, fmt.Errorf("unexpected %s.%s result: %w", contract, method, err)
	}
	return value, nil
}
