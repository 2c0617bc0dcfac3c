// Package aig builds an And-Inverter Graph (component A) from a
// netlist.Module: a flat, append-only node array where AND fan-ins
// always reference lower-indexed nodes, enabling the single forward
// sweep the simulator (component B) relies on.
package aig

import (
	"github.com/rawblock/logiclock/internal/netlist"
	"github.com/rawblock/logiclock/pkg/models"
)

// NodeKind is the closed set of AIG node shapes (spec.md §3).
type NodeKind int

const (
	NodeConst NodeKind = iota
	NodeInput
	NodeAnd
)

// Node is one entry in the flat AIG node array.
type Node struct {
	Kind   NodeKind
	Signal models.SignalID // set for NodeInput
	Fanin0 models.Literal  // set for NodeAnd
	Fanin1 models.Literal  // set for NodeAnd
}

// AIG is the built graph: the node array plus the boundary signal
// lists and the complete signal→literal map (every combinational
// input and every cell output resolves to exactly one literal,
// memoized — spec.md §4.1's "same literal" guarantee).
type AIG struct {
	Nodes         []Node
	Inputs        []models.SignalID
	Outputs       []models.SignalID
	SignalLiteral map[models.SignalID]models.Literal
}

// NodeFor returns the AIG node index that computes sig, which must be
// a signal this AIG was built over (a combinational input or a cell
// output).
func (a *AIG) NodeFor(sig models.SignalID) (models.NodeIndex, bool) {
	lit, ok := a.SignalLiteral[sig]
	if !ok {
		return 0, false
	}
	return lit.Node(), true
}

type builder struct {
	aig      *AIG
	driverOf map[models.SignalID]netlist.Cell
	combIn   map[models.SignalID]bool
	visiting map[models.SignalID]bool
}

// Build converts module's supported cells into an AIG. Encountering a
// cell type outside the closed enumeration in package netlist is
// fatal (*models.UnsupportedCellError); a combinational cycle or a
// signal with no driver and no combinational-input status is fatal
// (*models.MalformedNetlistError).
func Build(module netlist.Module) (*AIG, error) {
	a := &AIG{
		Nodes:         []Node{{Kind: NodeConst}},
		Inputs:        append([]models.SignalID{}, module.CombinationalInputs()...),
		Outputs:       append([]models.SignalID{}, module.CombinationalOutputs()...),
		SignalLiteral: make(map[models.SignalID]models.Literal),
	}
	b := &builder{
		aig:      a,
		driverOf: make(map[models.SignalID]netlist.Cell),
		combIn:   make(map[models.SignalID]bool),
		visiting: make(map[models.SignalID]bool),
	}
	for _, s := range a.Inputs {
		b.combIn[s] = true
	}
	for _, cell := range module.Cells() {
		out := cell.Output()
		if _, dup := b.driverOf[out]; dup {
			return nil, &models.MalformedNetlistError{Entity: string(out), Reason: "driven by more than one cell"}
		}
		b.driverOf[out] = cell
	}

	// Resolve inputs first so their literal order matches Inputs.
	for _, s := range a.Inputs {
		if _, err := b.resolve(s); err != nil {
			return nil, err
		}
	}
	// Resolve every cell output, not just those reachable from a
	// combinational output — candidates are any supported cell's
	// output (spec.md §4.6 step 1), whether or not it fans out to a
	// module output.
	for _, cell := range module.Cells() {
		if _, err := b.resolve(cell.Output()); err != nil {
			return nil, err
		}
	}
	for _, s := range a.Outputs {
		if _, err := b.resolve(s); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (b *builder) resolve(sig models.SignalID) (models.Literal, error) {
	if lit, ok := b.aig.SignalLiteral[sig]; ok {
		return lit, nil
	}
	if b.combIn[sig] {
		idx := models.NodeIndex(len(b.aig.Nodes))
		b.aig.Nodes = append(b.aig.Nodes, Node{Kind: NodeInput, Signal: sig})
		lit := models.NewLiteral(idx, false)
		b.aig.SignalLiteral[sig] = lit
		return lit, nil
	}
	cell, ok := b.driverOf[sig]
	if !ok {
		return 0, &models.MalformedNetlistError{Entity: string(sig), Reason: "no driving cell and not a combinational input"}
	}
	if b.visiting[sig] {
		return 0, &models.MalformedNetlistError{Entity: string(sig), Reason: "combinational cycle detected"}
	}
	b.visiting[sig] = true
	lit, err := b.lowerCell(cell)
	delete(b.visiting, sig)
	if err != nil {
		return 0, err
	}
	b.aig.SignalLiteral[sig] = lit
	return lit, nil
}

func (b *builder) lowerCell(cell netlist.Cell) (models.Literal, error) {
	ins := cell.Inputs()
	switch cell.Type() {
	case netlist.CellNot:
		if len(ins) != 1 {
			return 0, &models.MalformedNetlistError{Entity: cell.Name(), Reason: "NOT requires exactly one input"}
		}
		lit, err := b.resolve(ins[0])
		return lit.Negate(), err

	case netlist.CellBuf:
		if len(ins) != 1 {
			return 0, &models.MalformedNetlistError{Entity: cell.Name(), Reason: "BUF requires exactly one input"}
		}
		return b.resolve(ins[0])

	case netlist.CellAnd:
		return b.reduce(ins, cell, b.and)

	case netlist.CellNand:
		lit, err := b.reduce(ins, cell, b.and)
		return lit.Negate(), err

	case netlist.CellOr:
		return b.reduce(ins, cell, b.or)

	case netlist.CellNor:
		lit, err := b.reduce(ins, cell, b.or)
		return lit.Negate(), err

	case netlist.CellXor:
		return b.reduce(ins, cell, b.xor)

	case netlist.CellXnor:
		lit, err := b.reduce(ins, cell, b.xor)
		return lit.Negate(), err

	case netlist.CellMux:
		if len(ins) != 3 {
			return 0, &models.MalformedNetlistError{Entity: cell.Name(), Reason: "MUX requires exactly three inputs (a, b, select)"}
		}
		la, err := b.resolve(ins[0])
		if err != nil {
			return 0, err
		}
		lb, err := b.resolve(ins[1])
		if err != nil {
			return 0, err
		}
		ls, err := b.resolve(ins[2])
		if err != nil {
			return 0, err
		}
		return b.mux(la, lb, ls), nil

	default:
		return 0, &models.UnsupportedCellError{CellType: string(cell.Type()), CellName: cell.Name()}
	}
}

// reduce left-folds a commutative two-input lowering op over a
// multi-input gate's fan-ins.
func (b *builder) reduce(ins []models.SignalID, cell netlist.Cell, op func(a, bLit models.Literal) models.Literal) (models.Literal, error) {
	if len(ins) < 2 {
		return 0, &models.MalformedNetlistError{Entity: cell.Name(), Reason: "gate requires at least two inputs"}
	}
	acc, err := b.resolve(ins[0])
	if err != nil {
		return 0, err
	}
	for _, s := range ins[1:] {
		next, err := b.resolve(s)
		if err != nil {
			return 0, err
		}
		acc = op(acc, next)
	}
	return acc, nil
}

func (b *builder) newAnd(a, bLit models.Literal) models.Literal {
	idx := models.NodeIndex(len(b.aig.Nodes))
	b.aig.Nodes = append(b.aig.Nodes, Node{Kind: NodeAnd, Fanin0: a, Fanin1: bLit})
	return models.NewLiteral(idx, false)
}

func (b *builder) and(a, bLit models.Literal) models.Literal {
	return b.newAnd(a, bLit)
}

func (b *builder) or(a, bLit models.Literal) models.Literal {
	return b.newAnd(a.Negate(), bLit.Negate()).Negate()
}

func (b *builder) xor(a, bLit models.Literal) models.Literal {
	t1 := b.newAnd(a, bLit.Negate())
	t2 := b.newAnd(a.Negate(), bLit)
	return b.or(t1, t2)
}

func (b *builder) mux(a, bLit, s models.Literal) models.Literal {
	t1 := b.newAnd(s, bLit)
	t2 := b.newAnd(s.Negate(), a)
	return b.or(t1, t2)
}
