package cao

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/chain"
	"github.com/compose-network/cao-console/internal/contracts"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

type sentTx struct {
	To    common.Address
	Data  []byte
	Value *big.Int
}

// fakeBackend answers eth_call from stubbed results keyed by target and
// calldata. Any call that was not stubbed fails.
type fakeBackend struct {
	t   *testing.T
	set *contracts.Set

	mu      sync.Mutex
	results map[string][]byte
	sender  *common.Address
	block   uint64
	logs    []types.Log
	queries []ethereum.FilterQuery
	sent    []sentTx
}

func callKey(to common.Address, data []byte) string {
	return to.Hex() + ":" + hexutil.Encode(data)
}

// stub registers the outputs method of contract returns at to for args.
func (f *fakeBackend) stub(contract contracts.Name, to common.Address, method string, args []any, outputs ...any) {
	f.t.Helper()

	codec := f.set.ABI(contract).Codec()
	data, err := codec.Pack(method, args...)
	require.NoError(f.t, err)
	result, err := codec.Methods[method].Outputs.Pack(outputs...)
	require.NoError(f.t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[callKey(to, data)] = result
}

func (f *fakeBackend) Call(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	result, ok := f.results[callKey(to, data)]
	if !ok {
		return nil, fmt.Errorf("unexpected call to %s with %s", to.Hex(), hexutil.Encode(data))
	}
	return result, nil
}

func (f *fakeBackend) Send(_ context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, sentTx{To: to, Data: data, Value: value})
	return common.BigToHash(big.NewInt(int64(len(f.sent)))), nil
}

func (f *fakeBackend) Sender(context.Context) (common.Address, error) {
	if f.sender == nil {
		return common.Address{}, chain.ErrNoAccount
	}
	return *f.sender, nil
}

func (f *fakeBackend) BlockNumber(context.Context) (uint64, error) {
	return f.block, nil
}

func (f *fakeBackend) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, q)
	return f.logs, nil
}

var (
	caoAddress           = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	caoTokenAddress      = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	caoParametersAddress = common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0")
	hrAddress            = common.HexToAddress("0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9")

	alice = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob   = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

func newTestGateway(t *testing.T) (*Gateway, *fakeBackend) {
	t.Helper()

	bundle, err := contracts.FromConfig(configs.MustDefaultConfig())
	require.NoError(t, err)

	backend := &fakeBackend{t: t, set: bundle.Set, results: make(map[string][]byte)}
	return NewGateway(backend, bundle), backend
}

func calldata(t *testing.T, backend *fakeBackend, contract contracts.Name, method string, args ...any) []byte {
	t.Helper()
	data, err := backend.set.ABI(contract).Codec().Pack(method, args...)
	require.NoError(t, err)
	return data
}
