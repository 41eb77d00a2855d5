package abis

import "fmt"

// ParseError reports a structurally invalid ABI definition.
type ParseError struct {
	Function string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	msg := "invalid abi"
	if e.Function != "" {
		msg += fmt.Sprintf(": function %q", e.Function)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// EncodingError reports arguments that do not match a function's inputs.
type EncodingError struct {
	Function string
	Argument string
	Reason   string
	Err      error
}

func (e *EncodingError) Error() string {
	msg := fmt.Sprintf("failed to encode %s", e.Function)
	if e.Argument != "" {
		msg += fmt.Sprintf(" argument %q", e.Argument)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DecodingError reports malformed or truncated call or return data.
type DecodingError struct {
	Function string
	Reason   string
	Err      error
}

func (e *DecodingError) Error() string {
	msg := fmt.Sprintf("failed to decode %s: %s", e.Function, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodingError) Unwrap() error { return e.Err }
