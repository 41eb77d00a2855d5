package contracts

import (
	"fmt"

	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/abis"
	"github.com/compose-network/cao-console/internal/logger"
)

// Bundle is everything needed to encode and decode organization calls.
type Bundle struct {
	Set       *Set
	Addresses Addresses
	Catalog   *abis.Catalog
}

// FromConfig loads the ABIs and builds the call catalog for cfg.
func FromConfig(cfg configs.Config) (*Bundle, error) {
	log := logger.Named("contracts")

	addresses, err := AddressesFromConfig(cfg.Addresses)
	if err != nil {
		return nil, err
	}

	set, err := Load(cfg.ABIDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract abis: %w", err)
	}

	catalog, err := NewCatalog(set, addresses)
	if err != nil {
		return nil, fmt.Errorf("failed to build call catalog: %w", err)
	}

	for _, collision := range catalog.Collisions() {
		log.With("selector", collision.Selector.String()).
			With("kept", collision.Kept.ContractLabel()+"."+collision.Kept.FunctionName()).
			With("shadowed", collision.Shadowed.ContractLabel()+"."+collision.Shadowed.FunctionName()).
			Warn("generic selector collision, keeping the first registered function")
	}

	log.With("abi_dir", cfg.ABIDir).With("contracts", len(All())).Debug("call catalog built")

	return &Bundle{Set: set, Addresses: addresses, Catalog: catalog}, nil
}
