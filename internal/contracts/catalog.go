package contracts

import (
	"fmt"

	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/abis"
	"github.com/ethereum/go-ethereum/common"
)

// Addresses maps the address-specific contracts to their deployments.
type Addresses map[Name]common.Address

// AddressesFromConfig validates and converts the configured addresses.
func AddressesFromConfig(cfg configs.Addresses) (Addresses, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return Addresses{
		NameCAO:           common.HexToAddress(cfg.CAO),
		NameCAOToken:      common.HexToAddress(cfg.CAOToken),
		NameCAOParameters: common.HexToAddress(cfg.CAOParameters),
		NameHR:            common.HexToAddress(cfg.HR),
	}, nil
}

// NewCatalog builds the call catalog: the organization contracts bound to
// their addresses, and the fund and token contracts available everywhere.
func NewCatalog(set *Set, addresses Addresses) (*abis.Catalog, error) {
	specific := make(map[common.Address]*abis.ContractRegistry, len(specificContracts))
	for _, name := range specificContracts {
		address, ok := addresses[name]
		if !ok {
			return nil, fmt.Errorf("no address configured for %s", name.Label())
		}
		if _, taken := specific[address]; taken {
			return nil, fmt.Errorf("address %s configured for more than one contract", address.Hex())
		}
		registry, err := abis.Build(name.Label(), set.ABI(name))
		if err != nil {
			return nil, fmt.Errorf("failed to build registry for %s: %w", name.Label(), err)
		}
		specific[address] = registry
	}

	generic := make([]*abis.ContractRegistry, 0, len(genericContracts))
	for _, name := range genericContracts {
		registry, err := abis.Build(name.Label(), set.ABI(name))
		if err != nil {
			return nil, fmt.Errorf("failed to build registry for %s: %w", name.Label(), err)
		}
		generic = append(generic, registry)
	}

	return abis.NewCatalog(specific, generic...), nil
}
