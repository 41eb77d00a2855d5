package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/compose-network/cao-console/internal/abis"
)

//go:embed abis/*.json
var embeddedABIs embed.FS

// hardhatArtifact is the part of a Hardhat compilation artifact we read.
type hardhatArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
}

// Set holds the parsed ABI of every known contract.
type Set struct {
	abis map[Name]*abis.ContractABI
}

// Load parses the built-in ABIs. When overrideDir is set, a file there named
// after a contract replaces the built-in ABI.
func Load(overrideDir string) (*Set, error) {
	set := &Set{abis: make(map[Name]*abis.ContractABI)}

	for _, name := range All() {
		data, err := readABI(overrideDir, name)
		if err != nil {
			return nil, err
		}

		raw, err := extractABI(data)
		if err != nil {
			return nil, fmt.Errorf("failed to read abi for %s: %w", name, err)
		}

		contract, err := abis.ParseABI(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse abi for %s: %w", name, err)
		}
		set.abis[name] = contract
	}

	return set, nil
}

func readABI(overrideDir string, name Name) ([]byte, error) {
	fileName := string(name) + ".json"

	if overrideDir != "" {
		data, err := os.ReadFile(filepath.Join(overrideDir, fileName))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read abi override for %s: %w", name, err)
		}
	}

	data, err := embeddedABIs.ReadFile("abis/" + fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded abi for %s: %w", name, err)
	}
	return data, nil
}

// extractABI accepts either a plain ABI array or a Hardhat artifact.
func extractABI(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("{")) {
		return trimmed, nil
	}

	var artifact hardhatArtifact
	if err := json.Unmarshal(trimmed, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact JSON: %w", err)
	}
	if len(artifact.ABI) == 0 {
		return nil, errors.New("ABI is empty in artifact file")
	}
	return artifact.ABI, nil
}

// ABI returns the parsed ABI of a contract; nil for unknown names.
func (s *Set) ABI(name Name) *abis.ContractABI {
	return s.abis[name]
}
