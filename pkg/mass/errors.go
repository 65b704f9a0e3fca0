package mass

import "fmt"

// UnknownSymbolError reports a monomer symbol absent from the active
// alphabet. Position is the 0-based index within the offending sequence.
type UnknownSymbolError struct {
	Symbol   byte
	Position int
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol %q at position %d", string(e.Symbol), e.Position)
}

// InvalidToleranceError reports a negative or non-finite tolerance value,
// rejected before any alignment or generation work begins.
type InvalidToleranceError struct {
	Value float64
}

func (e *InvalidToleranceError) Error() string {
	return fmt.Sprintf("invalid tolerance %v: must be finite and non-negative", e.Value)
}
