package chain

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contractAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	senderAddress   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	nodeAccount     = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
)

type callArgs struct {
	From  *common.Address `json:"from"`
	To    *common.Address `json:"to"`
	Data  *hexutil.Bytes  `json:"data"`
	Input *hexutil.Bytes  `json:"input"`
}

func (a callArgs) payload() []byte {
	if a.Input != nil {
		return *a.Input
	}
	if a.Data != nil {
		return *a.Data
	}
	return nil
}

type revertError struct{ data string }

func (e *revertError) Error() string          { return "execution reverted" }
func (e *revertError) ErrorCode() int         { return 3 }
func (e *revertError) ErrorData() interface{} { return e.data }

// fakeEth serves the eth namespace methods the client uses.
type fakeEth struct {
	mu       sync.Mutex
	failures int
	calls    int
	lastCall callArgs
	result   hexutil.Bytes
	revert   string
	accounts []common.Address
	sent     []sendArgs
	logs     []types.Log
}

func (f *fakeEth) Call(args callArgs, block string) (hexutil.Bytes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.lastCall = args
	if f.calls <= f.failures {
		return nil, errors.New("temporarily unavailable")
	}
	if f.revert != "" {
		return nil, &revertError{data: f.revert}
	}
	return f.result, nil
}

func (f *fakeEth) BlockNumber() hexutil.Uint64 {
	return 42
}

func (f *fakeEth) Accounts() []common.Address {
	return f.accounts
}

func (f *fakeEth) SendTransaction(args sendArgs) common.Hash {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, args)
	return common.HexToHash("0xabc")
}

func (f *fakeEth) GetLogs(filter map[string]interface{}) []types.Log {
	return f.logs
}

func newTestClient(t *testing.T, fake *fakeEth, opts ...Option) *Client {
	t.Helper()

	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", fake))
	t.Cleanup(server.Stop)

	opts = append([]Option{WithRetry(3, 0), WithTimeout(5 * time.Second)}, opts...)
	client := NewClient(rpc.DialInProc(server), opts...)
	t.Cleanup(client.Close)
	return client
}

func TestCallRetriesTransientFailures(t *testing.T) {
	fake := &fakeEth{failures: 2, result: hexutil.Bytes{0x01, 0x02}}
	client := newTestClient(t, fake, WithSender(senderAddress))

	result, err := client.Call(context.Background(), contractAddress, []byte{0xa9, 0x05, 0x9c, 0xbb})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x01, 0x02}, result)
	assert.Equal(t, 3, fake.calls)
	require.NotNil(t, fake.lastCall.To)
	assert.Equal(t, contractAddress, *fake.lastCall.To)
	require.NotNil(t, fake.lastCall.From)
	assert.Equal(t, senderAddress, *fake.lastCall.From)
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, fake.lastCall.payload())
}

func TestCallGivesUpAfterAttempts(t *testing.T) {
	fake := &fakeEth{failures: 10}
	client := newTestClient(t, fake, WithRetry(2, 0))

	_, err := client.Call(context.Background(), contractAddress, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temporarily unavailable")
	assert.Equal(t, 2, fake.calls)
}

func TestCallRevertIsNotRetried(t *testing.T) {
	fake := &fakeEth{revert: "0x08c379a0"}
	client := newTestClient(t, fake)

	_, err := client.Call(context.Background(), contractAddress, nil)

	var revert *RevertError
	require.ErrorAs(t, err, &revert)
	assert.Equal(t, []byte{0x08, 0xc3, 0x79, 0xa0}, revert.Data)
	assert.Equal(t, "execution reverted", revert.Message)
	assert.Equal(t, 1, fake.calls)
}

func TestSendWithConfiguredSender(t *testing.T) {
	fake := &fakeEth{}
	client := newTestClient(t, fake, WithSender(senderAddress))

	hash, err := client.Send(context.Background(), contractAddress, []byte{0x01}, big.NewInt(7))
	require.NoError(t, err)

	assert.Equal(t, common.HexToHash("0xabc"), hash)
	require.Len(t, fake.sent, 1)
	assert.Equal(t, senderAddress, fake.sent[0].From)
	assert.Equal(t, contractAddress, fake.sent[0].To)
	assert.Equal(t, hexutil.Bytes{0x01}, fake.sent[0].Data)
	require.NotNil(t, fake.sent[0].Value)
	assert.Equal(t, int64(7), fake.sent[0].Value.ToInt().Int64())
}

func TestSendFallsBackToNodeAccount(t *testing.T) {
	fake := &fakeEth{accounts: []common.Address{nodeAccount, senderAddress}}
	client := newTestClient(t, fake)

	_, err := client.Send(context.Background(), contractAddress, nil, nil)
	require.NoError(t, err)

	require.Len(t, fake.sent, 1)
	assert.Equal(t, nodeAccount, fake.sent[0].From)
	assert.Nil(t, fake.sent[0].Value)
}

func TestSendWithoutAccounts(t *testing.T) {
	client := newTestClient(t, &fakeEth{})

	_, err := client.Send(context.Background(), contractAddress, nil, nil)
	assert.ErrorIs(t, err, ErrNoAccount)
}

func TestBlockNumberAndLogs(t *testing.T) {
	fake := &fakeEth{logs: []types.Log{{
		Address:     contractAddress,
		Topics:      []common.Hash{common.HexToHash("0x01")},
		Data:        []byte{0x02},
		BlockNumber: 40,
		TxHash:      common.HexToHash("0x03"),
	}}}
	client := newTestClient(t, fake)

	number, err := client.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), number)

	logs, err := client.FilterLogs(context.Background(), ethereum.FilterQuery{
		Addresses: []common.Address{contractAddress},
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, contractAddress, logs[0].Address)
	assert.Equal(t, uint64(40), logs[0].BlockNumber)
	assert.Equal(t, []byte{0x02}, logs[0].Data)
}

func TestSenderIsRememberedForCalls(t *testing.T) {
	fake := &fakeEth{accounts: []common.Address{nodeAccount}, result: hexutil.Bytes{0x01}}
	client := newTestClient(t, fake)

	sender, err := client.Sender(context.Background())
	require.NoError(t, err)
	assert.Equal(t, nodeAccount, sender)

	_, err = client.Call(context.Background(), contractAddress, nil)
	require.NoError(t, err)
	require.NotNil(t, fake.lastCall.From)
	assert.Equal(t, nodeAccount, *fake.lastCall.From)
}
