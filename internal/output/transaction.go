package output

import "github.com/ethereum/go-ethereum/common"

// Transaction reports a submitted transaction.
type Transaction struct {
	Action string `yaml:"action"`
	Hash   Quoted `yaml:"hash"`
}

func NewTransaction(action string, hash common.Hash) Transaction {
	return Transaction{Action: action, Hash: Quoted(hash.Hex())}
}

func (t Transaction) Tables() []Table {
	return []Table{{Rows: [][]string{
		{"Action", t.Action},
		{"Transaction", string(t.Hash)},
	}}}
}
