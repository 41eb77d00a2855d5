package proposals

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"slices"
	"strings"

	"github.com/compose-network/cao-console/internal/cao"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// proposalFile is the YAML layout accepted by "proposals create --file".
//
//	description: Hire Alice
//	delay: 0
//	duration: 1200
//	calls:
//	  - contract: HR
//	    function: addEmployee
//	    args: ["0x70997970C51812dc3A010C7d01b50e0d17dc79C8", "1000"]
type proposalFile struct {
	Description string     `yaml:"description"`
	Delay       *uint64    `yaml:"delay"`
	Duration    *uint64    `yaml:"duration"`
	Calls       []callFile `yaml:"calls"`
}

type callFile struct {
	Contract string   `yaml:"contract"`
	Target   string   `yaml:"target"`
	Function string   `yaml:"function"`
	Args     []string `yaml:"args"`
	Value    string   `yaml:"value"`
}

// draftFlags are the command-line parts of a draft. Set fields override the
// file; the single call, when Contract is set, is appended to the file's calls.
type draftFlags struct {
	Description string
	Delay       *uint64
	Duration    *uint64
	Call        callFile
}

func parseProposalFile(data []byte) (proposalFile, error) {
	var file proposalFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return proposalFile{}, fmt.Errorf("failed to parse proposal file: %w", err)
	}
	return file, nil
}

func buildDraft(file proposalFile, flags draftFlags) (cao.ProposalDraft, error) {
	draft := cao.ProposalDraft{
		Description:    file.Description,
		BlocksDuration: cao.MinBlocksDuration,
	}
	if file.Delay != nil {
		draft.BlocksDelay = *file.Delay
	}
	if file.Duration != nil {
		draft.BlocksDuration = *file.Duration
	}

	if flags.Description != "" {
		draft.Description = flags.Description
	}
	if flags.Delay != nil {
		draft.BlocksDelay = *flags.Delay
	}
	if flags.Duration != nil {
		draft.BlocksDuration = *flags.Duration
	}

	calls := slices.Clone(file.Calls)
	if flags.Call.Contract != "" {
		calls = append(calls, flags.Call)
	}
	for i, call := range calls {
		converted, err := call.draft()
		if err != nil {
			return cao.ProposalDraft{}, fmt.Errorf("call #%d: %w", i, err)
		}
		draft.Calls = append(draft.Calls, converted)
	}

	return draft, nil
}

func (c callFile) draft() (cao.CallDraft, error) {
	draft := cao.CallDraft{
		Contract: c.Contract,
		Function: c.Function,
		Args:     c.Args,
	}

	if target := strings.TrimSpace(c.Target); target != "" {
		if !common.IsHexAddress(target) {
			return cao.CallDraft{}, fmt.Errorf("target %q is not an address", target)
		}
		address := common.HexToAddress(target)
		draft.Target = &address
	}

	if value := strings.TrimSpace(c.Value); value != "" {
		parsed, ok := new(big.Int).SetString(value, 0)
		if !ok {
			return cao.CallDraft{}, fmt.Errorf("value %q is not an integer", value)
		}
		draft.Value = parsed
	}

	return draft, nil
}
