package abis

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Collision records a generic selector claimed by more than one contract.
// The first registered descriptor is the one kept.
type Collision struct {
	Selector Selector
	Kept     *FunctionDescriptor
	Shadowed *FunctionDescriptor
}

// Catalog combines address-specific registries with generic registries that
// apply to any address. It is immutable and safe for concurrent use.
type Catalog struct {
	specific   map[common.Address]*ContractRegistry
	generic    []*ContractRegistry
	combined   map[Selector]*FunctionDescriptor
	collisions []Collision
}

// NewCatalog merges the generic registries in the given order; on a selector
// collision the earlier registry wins and the collision is recorded.
func NewCatalog(specific map[common.Address]*ContractRegistry, generic ...*ContractRegistry) *Catalog {
	catalog := &Catalog{
		specific: make(map[common.Address]*ContractRegistry, len(specific)),
		generic:  append([]*ContractRegistry(nil), generic...),
		combined: make(map[Selector]*FunctionDescriptor),
	}
	for address, registry := range specific {
		catalog.specific[address] = registry
	}

	for _, registry := range catalog.generic {
		for _, descriptor := range registry.Descriptors() {
			selector := descriptor.Selector()
			if kept, exists := catalog.combined[selector]; exists {
				catalog.collisions = append(catalog.collisions, Collision{
					Selector: selector,
					Kept:     kept,
					Shadowed: descriptor,
				})
				continue
			}
			catalog.combined[selector] = descriptor
		}
	}

	return catalog
}

// Resolve finds the descriptor for a call. A registry bound to the target
// address takes precedence over the generic lookup. The boolean is false when
// nothing matches, including calldata shorter than a selector.
func (c *Catalog) Resolve(address common.Address, calldata []byte) (*FunctionDescriptor, bool) {
	selector, ok := SelectorFromCalldata(calldata)
	if !ok {
		return nil, false
	}

	if registry, ok := c.specific[address]; ok {
		if descriptor, ok := registry.Lookup(selector); ok {
			return descriptor, true
		}
	}

	descriptor, ok := c.combined[selector]
	return descriptor, ok
}

// Specific returns the registry bound to an address.
func (c *Catalog) Specific(address common.Address) (*ContractRegistry, bool) {
	registry, ok := c.specific[address]
	return registry, ok
}

// AddressOf returns the address a specific registry is bound to.
func (c *Catalog) AddressOf(label string) (common.Address, bool) {
	for address, registry := range c.specific {
		if registry.Label() == label {
			return address, true
		}
	}
	return common.Address{}, false
}

// Addresses lists the bound addresses in ascending order.
func (c *Catalog) Addresses() []common.Address {
	addresses := make([]common.Address, 0, len(c.specific))
	for address := range c.specific {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i][:], addresses[j][:]) < 0
	})
	return addresses
}

// Generic returns the generic registries in registration order.
func (c *Catalog) Generic() []*ContractRegistry {
	return append([]*ContractRegistry(nil), c.generic...)
}

// Contract finds a registry by label, specific registries first.
func (c *Catalog) Contract(label string) (*ContractRegistry, bool) {
	for _, address := range c.Addresses() {
		if registry := c.specific[address]; registry.Label() == label {
			return registry, true
		}
	}
	for _, registry := range c.generic {
		if registry.Label() == label {
			return registry, true
		}
	}
	return nil, false
}

// Collisions lists generic selector collisions in registration order.
func (c *Catalog) Collisions() []Collision {
	return append([]Collision(nil), c.collisions...)
}
