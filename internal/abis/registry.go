package abis

import "fmt"

// ContractRegistry maps the selectors of one contract's state-changing
// functions to their descriptors. It is read-only after Build.
//
// Build assumes the ABI has no two functions with the same selector, which
// the Solidity compiler guarantees; the result is undefined otherwise.
type ContractRegistry struct {
	label string
	calls map[Selector]*FunctionDescriptor
	order []Selector
}

// Build derives the registry for a parsed contract ABI, leaving out view and
// pure functions.
func Build(label string, contract *ContractABI) (*ContractRegistry, error) {
	overloads := make(map[string]int, len(contract.Functions))
	for _, function := range contract.Functions {
		overloads[function.Name]++
	}

	registry := &ContractRegistry{
		label: label,
		calls: make(map[Selector]*FunctionDescriptor),
	}
	for _, function := range contract.Functions {
		if function.Mutability.ReadOnly() {
			continue
		}

		signature := function.Signature()
		selector := SelectorOf(signature)
		method, err := contract.codec.MethodById(selector[:])
		if err != nil {
			return nil, &ParseError{Function: signature, Reason: "codec has no method for selector " + selector.String(), Err: err}
		}

		name := function.Name
		if overloads[function.Name] > 1 {
			name = signature
		}

		if _, exists := registry.calls[selector]; !exists {
			registry.order = append(registry.order, selector)
		}
		registry.calls[selector] = &FunctionDescriptor{
			contractLabel: label,
			functionName:  name,
			signature:     signature,
			selector:      selector,
			mutability:    function.Mutability,
			inputs:        cloneParameters(function.Inputs),
			outputs:       cloneParameters(function.Outputs),
			method:        *method,
		}
	}

	return registry, nil
}

// BuildJSON parses a JSON ABI and builds its registry.
func BuildJSON(label string, data []byte) (*ContractRegistry, error) {
	contract, err := ParseABI(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi for %s: %w", label, err)
	}
	return Build(label, contract)
}

func (r *ContractRegistry) Label() string { return r.label }

func (r *ContractRegistry) Len() int { return len(r.order) }

// Lookup returns the descriptor registered for a selector.
func (r *ContractRegistry) Lookup(selector Selector) (*FunctionDescriptor, bool) {
	descriptor, ok := r.calls[selector]
	return descriptor, ok
}

// Function finds a descriptor by function name or full signature.
func (r *ContractRegistry) Function(name string) (*FunctionDescriptor, bool) {
	for _, selector := range r.order {
		descriptor := r.calls[selector]
		if descriptor.functionName == name || descriptor.signature == name {
			return descriptor, true
		}
	}
	return nil, false
}

// Descriptors lists the descriptors in ABI declaration order.
func (r *ContractRegistry) Descriptors() []*FunctionDescriptor {
	descriptors := make([]*FunctionDescriptor, len(r.order))
	for i, selector := range r.order {
		descriptors[i] = r.calls[selector]
	}
	return descriptors
}
