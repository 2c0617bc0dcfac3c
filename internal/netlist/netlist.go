// Package netlist defines the read-only contract the logic-locking
// core consumes from its host: an iterator over one module's
// primitive cells, its combinational input/output boundary, and a
// primitive for allocating a fresh key-input port. Parsing any real
// netlist file format (Verilog, BLIF, AIGER, ...) is explicitly out of
// scope (spec.md §1) — this package only states the interface and
// ships a minimal in-memory implementation for tests and the
// reference CLI entrypoint.
package netlist

import "github.com/rawblock/logiclock/pkg/models"

// CellType is the closed enumeration of primitive gate types the AIG
// builder (component A) knows how to lower. Encountering any other
// type is a fatal UnsupportedCellError.
type CellType string

const (
	CellNot  CellType = "NOT"
	CellBuf  CellType = "BUF"
	CellAnd  CellType = "AND"
	CellNand CellType = "NAND"
	CellOr   CellType = "OR"
	CellNor  CellType = "NOR"
	CellXor  CellType = "XOR"
	CellXnor CellType = "XNOR"
	CellMux  CellType = "MUX"
)

// Cell is one primitive combinational gate. Inputs are ordered pins;
// for CellMux the order is (a, b, select) per spec.md §4.1's
// MUX(a,b,s) = (s∧b) ∨ (¬s∧a). NOT and BUF take exactly one input;
// AND/NAND/OR/NOR/XOR/XNOR take two or more and reduce their Inputs
// left-to-right.
type Cell interface {
	Name() string
	Type() CellType
	Inputs() []models.SignalID
	Output() models.SignalID
}

// Module is the read-only view the Driver consumes for exactly one
// selected module.
type Module interface {
	// Name identifies the module, for error messages and provenance.
	Name() string

	// Cells iterates every combinational cell in the module.
	Cells() []Cell

	// CombinationalInputs are module primary inputs plus the outputs
	// of sequential cells (clock-boundary pins treated as sources).
	CombinationalInputs() []models.SignalID

	// CombinationalOutputs are module primary outputs plus the inputs
	// of sequential cells (clock-boundary pins treated as sinks).
	CombinationalOutputs() []models.SignalID

	// AllocateInputPort reserves a fresh primary input of the given
	// bit width and returns its signal handles, one per bit. This is
	// consumed by the gate-insertion collaborator (spec.md §6), not
	// by the core itself — the core never mutates the netlist.
	AllocateInputPort(width int) []models.SignalID
}
