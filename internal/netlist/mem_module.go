package netlist

import "github.com/rawblock/logiclock/pkg/models"

// memCell is the trivial in-memory Cell implementation.
type memCell struct {
	name   string
	typ    CellType
	inputs []models.SignalID
	output models.SignalID
}

func (c memCell) Name() string               { return c.name }
func (c memCell) Type() CellType              { return c.typ }
func (c memCell) Inputs() []models.SignalID   { return c.inputs }
func (c memCell) Output() models.SignalID     { return c.output }

// MemModule is a minimal in-memory Module, built with MemModule's
// Add* helpers. It exists for tests and for the reference cmd/enginecli
// entrypoint — not as a netlist file format reader.
type MemModule struct {
	name       string
	cells      []Cell
	combIns    []models.SignalID
	combOuts   []models.SignalID
	nextPortID int
}

// NewMemModule creates an empty module with the given combinational
// input and output signal names.
func NewMemModule(name string, combIns, combOuts []models.SignalID) *MemModule {
	return &MemModule{
		name:     name,
		combIns:  append([]models.SignalID{}, combIns...),
		combOuts: append([]models.SignalID{}, combOuts...),
	}
}

func (m *MemModule) Name() string                         { return m.name }
func (m *MemModule) Cells() []Cell                         { return m.cells }
func (m *MemModule) CombinationalInputs() []models.SignalID  { return m.combIns }
func (m *MemModule) CombinationalOutputs() []models.SignalID { return m.combOuts }

// AllocateInputPort reserves width fresh key-input signals, named
// deterministically so provenance records are reproducible.
func (m *MemModule) AllocateInputPort(width int) []models.SignalID {
	out := make([]models.SignalID, width)
	for i := range out {
		out[i] = models.SignalID(nextPortName(m.nextPortID))
		m.nextPortID++
	}
	return out
}

func nextPortName(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	suffix := string(letters[n%26])
	if n >= 26 {
		suffix = suffix + itoa(n/26)
	}
	return "keyin_" + suffix
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// AddCell appends one primitive cell to the module. It is the only
// mutation MemModule allows; real hosts mutate their own netlist
// representation through their own APIs, not through this package.
func (m *MemModule) AddCell(name string, typ CellType, inputs []models.SignalID, output models.SignalID) {
	m.cells = append(m.cells, memCell{name: name, typ: typ, inputs: inputs, output: output})
}
