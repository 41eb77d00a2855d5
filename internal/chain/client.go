package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/compose-network/cao-console/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = 500 * time.Millisecond
	defaultTimeout       = 30 * time.Second
)

// ErrNoAccount is returned when no sender is configured and the node
// manages no accounts.
var ErrNoAccount = errors.New("no sender account available")

// RevertError is a call that the EVM reverted. Data holds the raw revert
// payload, if the node returned one.
type RevertError struct {
	Message string
	Data    []byte
}

func (e *RevertError) Error() string {
	if len(e.Data) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, hexutil.Encode(e.Data))
}

// Client talks JSON-RPC to an Ethereum node. Reads are retried on transient
// failures; transactions are submitted once and signed by the node.
type Client struct {
	rpc      *rpc.Client
	eth      *ethclient.Client
	mu       sync.Mutex
	from     *common.Address
	attempts uint
	delay    time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

type Option func(*Client)

// WithRetry sets how many times a read is attempted and the pause between
// attempts.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.attempts = uint(attempts)
		}
		if delay >= 0 {
			c.delay = delay
		}
	}
}

// WithSender fixes the account transactions are sent from.
func WithSender(from common.Address) Option {
	return func(c *Client) {
		c.from = &from
	}
}

// WithTimeout bounds every single request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Dial connects to the node at url.
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RPC: %w", err)
	}
	return NewClient(rpcClient, opts...), nil
}

// NewClient wraps an established RPC connection.
func NewClient(rpcClient *rpc.Client, opts ...Option) *Client {
	c := &Client{
		rpc:      rpcClient,
		eth:      ethclient.NewClient(rpcClient),
		attempts: defaultRetryAttempts,
		delay:    defaultRetryDelay,
		timeout:  defaultTimeout,
		logger:   logger.Named("chain_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call executes a read-only call against the latest block. A revert comes
// back as *RevertError and is not retried.
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}
	if from, ok := c.knownSender(); ok {
		msg.From = from
	}

	result, err := withRetry(ctx, c, "eth_call", func(ctx context.Context) ([]byte, error) {
		return c.eth.CallContract(ctx, msg, nil)
	})
	if err != nil {
		if revert, ok := asRevert(err); ok {
			return nil, revert
		}
		return nil, fmt.Errorf("failed to call contract %s: %w", to.Hex(), err)
	}
	return result, nil
}

// BlockNumber returns the latest block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	number, err := withRetry(ctx, c, "eth_blockNumber", c.eth.BlockNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return number, nil
}

// FilterLogs returns the logs matching q.
func (c *Client) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	logs, err := withRetry(ctx, c, "eth_getLogs", func(ctx context.Context) ([]types.Log, error) {
		return c.eth.FilterLogs(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to filter logs: %w", err)
	}
	return logs, nil
}

// Sender returns the configured account, or else the node's first account.
// Once known, the sender is also used as the caller of read-only calls.
func (c *Client) Sender(ctx context.Context) (common.Address, error) {
	if from, ok := c.knownSender(); ok {
		return from, nil
	}

	accounts, err := withRetry(ctx, c, "eth_accounts", func(ctx context.Context) ([]common.Address, error) {
		var accounts []common.Address
		err := c.rpc.CallContext(ctx, &accounts, "eth_accounts")
		return accounts, err
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return common.Address{}, ErrNoAccount
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.from = &accounts[0]

	return accounts[0], nil
}

func (c *Client) knownSender() (common.Address, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.from == nil {
		return common.Address{}, false
	}
	return *c.from, true
}

type sendArgs struct {
	From  common.Address `json:"from"`
	To    common.Address `json:"to"`
	Data  hexutil.Bytes  `json:"data"`
	Value *hexutil.Big   `json:"value,omitempty"`
}

// Send submits a transaction through eth_sendTransaction, leaving signing to
// the node. It is never retried.
func (c *Client) Send(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	from, err := c.Sender(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	args := sendArgs{From: from, To: to, Data: data}
	if value != nil && value.Sign() > 0 {
		args.Value = (*hexutil.Big)(value)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		if revert, ok := asRevert(err); ok {
			return common.Hash{}, revert
		}
		return common.Hash{}, fmt.Errorf("failed to send transaction to %s: %w", to.Hex(), err)
	}

	c.logger.With("from", from.Hex()).With("to", to.Hex()).With("tx", hash.Hex()).Info("transaction submitted")

	return hash, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}

func withRetry[T any](ctx context.Context, c *Client, method string, fn func(context.Context) (T, error)) (T, error) {
	return retry.DoWithData(
		func() (T, error) {
			ctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return fn(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			_, reverted := asRevert(err)
			return !reverted
		}),
		retry.OnRetry(func(attempt uint, err error) {
			c.logger.With("method", method).With("attempt", attempt+1).With("err", err).Warn("rpc request failed, retrying")
		}),
	)
}

// asRevert recognises node errors carrying revert data.
func asRevert(err error) (*RevertError, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return nil, false
	}
	encoded, ok := dataErr.ErrorData().(string)
	if !ok {
		return nil, false
	}
	data, decodeErr := hexutil.Decode(encoded)
	if decodeErr != nil {
		return nil, false
	}
	return &RevertError{Message: dataErr.Error(), Data: data}, true
}
