package aig

import (
	"errors"
	"testing"

	"github.com/rawblock/logiclock/internal/netlist"
	"github.com/rawblock/logiclock/pkg/models"
)

func TestBuild_SimpleAnd(t *testing.T) {
	m := netlist.NewMemModule("m", []models.SignalID{"a", "b"}, []models.SignalID{"o"})
	m.AddCell("u1", netlist.CellAnd, []models.SignalID{"a", "b"}, "o")

	a, err := Build(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Outputs) != 1 || a.Outputs[0] != "o" {
		t.Fatalf("unexpected outputs: %v", a.Outputs)
	}
	oLit, ok := a.SignalLiteral["o"]
	if !ok {
		t.Fatal("signal o did not resolve to a literal")
	}
	node := a.Nodes[oLit.Node()]
	if node.Kind != NodeAnd {
		t.Fatalf("expected AND node, got %v", node.Kind)
	}
}

func TestBuild_BufferChainCollapsesToSameNode(t *testing.T) {
	// spec.md §8 scenario 2: a chain of three buffers all resolve to
	// the same underlying node — no new AIG node is allocated for
	// BUF/NOT, so every candidate in the chain is trivially redundant.
	m := netlist.NewMemModule("m", []models.SignalID{"a"}, []models.SignalID{"o"})
	m.AddCell("b1", netlist.CellBuf, []models.SignalID{"a"}, "n1")
	m.AddCell("b2", netlist.CellBuf, []models.SignalID{"n1"}, "n2")
	m.AddCell("b3", netlist.CellBuf, []models.SignalID{"n2"}, "o")

	a, err := Build(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n1, _ := a.NodeFor("n1")
	n2, _ := a.NodeFor("n2")
	n3, _ := a.NodeFor("o")
	if n1 != n2 || n2 != n3 {
		t.Fatalf("expected all buffer outputs to share one node, got %d %d %d", n1, n2, n3)
	}
	// The input node itself, since BUF never allocates.
	inNode, _ := a.NodeFor("a")
	if inNode != n1 {
		t.Fatalf("expected buffer chain to resolve to the input node, got %d vs %d", inNode, n1)
	}
}

func TestBuild_NotNegatesWithoutNewNode(t *testing.T) {
	m := netlist.NewMemModule("m", []models.SignalID{"a"}, []models.SignalID{"o"})
	m.AddCell("u1", netlist.CellNot, []models.SignalID{"a"}, "o")

	a, err := Build(m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inLit := a.SignalLiteral["a"]
	outLit := a.SignalLiteral["o"]
	if outLit.Node() != inLit.Node() {
		t.Fatalf("NOT should not allocate a new node")
	}
	if outLit.Inverted() == inLit.Inverted() {
		t.Fatalf("NOT should flip the inversion bit")
	}
}

func TestBuild_UnsupportedCellType(t *testing.T) {
	m := netlist.NewMemModule("m", []models.SignalID{"a"}, []models.SignalID{"o"})
	m.AddCell("u1", netlist.CellType("DFF"), []models.SignalID{"a"}, "o")

	_, err := Build(m)
	var uerr *models.UnsupportedCellError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *models.UnsupportedCellError, got %T: %v", err, err)
	}
}

func TestBuild_CombinationalCycleIsMalformed(t *testing.T) {
	m := netlist.NewMemModule("m", []models.SignalID{}, []models.SignalID{"o"})
	m.AddCell("u1", netlist.CellBuf, []models.SignalID{"o"}, "o")

	_, err := Build(m)
	var merr *models.MalformedNetlistError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *models.MalformedNetlistError, got %T: %v", err, err)
	}
}
