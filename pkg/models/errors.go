package models

import "fmt"

// UnsupportedCellError is fatal: the AIG builder or simulator
// encountered a cell type it cannot evaluate.
type UnsupportedCellError struct {
	CellType string
	CellName string
}

func (e *UnsupportedCellError) Error() string {
	return fmt.Sprintf("unsupported cell type %q on cell %q", e.CellType, e.CellName)
}

// MalformedNetlistError is fatal: a combinational cycle, a missing
// port, or a cell output with no driver.
type MalformedNetlistError struct {
	Entity string
	Reason string
}

func (e *MalformedNetlistError) Error() string {
	return fmt.Sprintf("malformed netlist at %q: %s", e.Entity, e.Reason)
}

// InvalidConfigurationError is fatal: an out-of-range or contradictory
// Config value.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

// InvalidKeyError is fatal: the explicit -key value is not valid hex,
// or decodes to fewer bits than the resolved key-bit budget or the
// selection's key slots.
type InvalidKeyError struct {
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key: %s", e.Reason)
}

// SelectionImpossibleError is fatal: an explicit -lock-gate or
// -mix-gate name is not present in the module.
type SelectionImpossibleError struct {
	Name   string
	Reason string
}

func (e *SelectionImpossibleError) Error() string {
	return fmt.Sprintf("selection impossible for %q: %s", e.Name, e.Reason)
}
