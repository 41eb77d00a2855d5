package inspect

import (
	"fmt"
	"log/slog"

	"github.com/compose-network/cao-console/internal/abis"
	"github.com/compose-network/cao-console/internal/contracts"
	"github.com/compose-network/cao-console/internal/logger"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Service decodes and encodes calls offline, from the configured ABIs and
// addresses alone.
type Service struct {
	bundle  *contracts.Bundle
	decoder *abis.Decoder
	printer *output.Printer
	logger  *slog.Logger
}

func NewService(bundle *contracts.Bundle, printer *output.Printer) *Service {
	return &Service{
		bundle:  bundle,
		decoder: abis.NewDecoder(bundle.Catalog),
		printer: printer,
		logger:  logger.Named("inspect"),
	}
}

type decodeResult struct {
	Call output.Call `yaml:"call"`
}

func (r decodeResult) Tables() []output.Table {
	return []output.Table{{Rows: r.Call.Rows()}}
}

// Decode resolves a call made to target and prints its arguments and, when
// given, its return data.
func (s *Service) Decode(target common.Address, calldata, returnData []byte) error {
	call := s.decoder.DecodeCall(target, calldata, returnData)

	s.logger.With("target", target.Hex()).
		With("contract", call.ContractName).
		With("function", call.FunctionName).
		With("return", call.Return.Kind.String()).
		Debug("call decoded")

	return s.printer.Print(decodeResult{Call: output.NewCall(target, call)})
}

type encodeResult struct {
	Contract  string        `yaml:"contract"`
	Signature string        `yaml:"signature"`
	Selector  output.Quoted `yaml:"selector"`
	Calldata  output.Quoted `yaml:"calldata"`
}

func (r encodeResult) Tables() []output.Table {
	return []output.Table{{Rows: [][]string{
		{"Contract", r.Contract},
		{"Signature", r.Signature},
		{"Selector", string(r.Selector)},
		{"Calldata", string(r.Calldata)},
	}}}
}

// Encode builds the calldata of a state-changing function from text
// arguments.
func (s *Service) Encode(contract, function string, args []string) error {
	registry, err := s.registry(contract)
	if err != nil {
		return err
	}
	descriptor, ok := registry.Function(function)
	if !ok {
		return fmt.Errorf("%s has no state-changing function %q", registry.Label(), function)
	}

	calldata, err := descriptor.EncodeText(args)
	if err != nil {
		return err
	}

	return s.printer.Print(encodeResult{
		Contract:  registry.Label(),
		Signature: descriptor.Signature(),
		Selector:  output.Quoted(descriptor.Selector().String()),
		Calldata:  output.Quoted(hexutil.Encode(calldata)),
	})
}

type selectorEntry struct {
	Contract   string        `yaml:"contract"`
	Address    output.Quoted `yaml:"address,omitempty"`
	Selector   output.Quoted `yaml:"selector"`
	Signature  string        `yaml:"signature"`
	Mutability string        `yaml:"mutability"`
}

type collisionEntry struct {
	Selector output.Quoted `yaml:"selector"`
	Kept     string        `yaml:"kept"`
	Shadowed string        `yaml:"shadowed"`
}

type selectorsResult struct {
	Selectors  []selectorEntry  `yaml:"selectors"`
	Collisions []collisionEntry `yaml:"collisions"`
}

func (r selectorsResult) Tables() []output.Table {
	selectors := output.Table{
		Title:  "Selectors",
		Header: []string{"Contract", "Address", "Selector", "Signature", "Mutability"},
	}
	for _, entry := range r.Selectors {
		address := string(entry.Address)
		if address == "" {
			address = "any"
		}
		selectors.Rows = append(selectors.Rows, []string{entry.Contract, address, string(entry.Selector), entry.Signature, entry.Mutability})
	}

	collisions := output.Table{
		Title:  "Generic selector collisions",
		Header: []string{"Selector", "Kept", "Shadowed"},
	}
	for _, entry := range r.Collisions {
		collisions.Rows = append(collisions.Rows, []string{string(entry.Selector), entry.Kept, entry.Shadowed})
	}

	return []output.Table{selectors, collisions}
}

// Selectors lists the resolvable functions, of one contract when contract is
// set, together with the generic selector collisions.
func (s *Service) Selectors(contract string) error {
	catalog := s.bundle.Catalog

	var registries []*abis.ContractRegistry
	if contract != "" {
		registry, err := s.registry(contract)
		if err != nil {
			return err
		}
		registries = append(registries, registry)
	} else {
		for _, address := range catalog.Addresses() {
			registry, _ := catalog.Specific(address)
			registries = append(registries, registry)
		}
		registries = append(registries, catalog.Generic()...)
	}

	var result selectorsResult
	for _, registry := range registries {
		var address output.Quoted
		if bound, ok := catalog.AddressOf(registry.Label()); ok {
			address = output.Quoted(bound.Hex())
		}
		for _, descriptor := range registry.Descriptors() {
			result.Selectors = append(result.Selectors, selectorEntry{
				Contract:   registry.Label(),
				Address:    address,
				Selector:   output.Quoted(descriptor.Selector().String()),
				Signature:  descriptor.Signature(),
				Mutability: descriptor.Mutability().String(),
			})
		}
	}
	for _, collision := range catalog.Collisions() {
		result.Collisions = append(result.Collisions, collisionEntry{
			Selector: output.Quoted(collision.Selector.String()),
			Kept:     collision.Kept.ContractLabel() + "." + collision.Kept.Signature(),
			Shadowed: collision.Shadowed.ContractLabel() + "." + collision.Shadowed.Signature(),
		})
	}

	return s.printer.Print(result)
}

func (s *Service) registry(contract string) (*abis.ContractRegistry, error) {
	name, ok := contracts.ByLabel(contract)
	if !ok {
		return nil, fmt.Errorf("unknown contract %q", contract)
	}
	registry, ok := s.bundle.Catalog.Contract(name.Label())
	if !ok {
		return nil, fmt.Errorf("%s has no resolvable functions", name.Label())
	}
	return registry, nil
}
