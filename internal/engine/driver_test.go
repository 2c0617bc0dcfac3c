package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/rawblock/logiclock/internal/netlist"
	"github.com/rawblock/logiclock/pkg/models"
)

// fullAdderModule mirrors spec.md §8 scenario 5's fixture: a one-bit
// full adder with five combinational cells (two XORs, two ANDs, one
// OR), giving the key-bit budget resolver something nontrivial to
// round against.
func fullAdderModule() *netlist.MemModule {
	m := netlist.NewMemModule("full_adder",
		[]models.SignalID{"a", "b", "cin"},
		[]models.SignalID{"sum", "cout"},
	)
	m.AddCell("u_xor1", netlist.CellXor, []models.SignalID{"a", "b"}, "x1")
	m.AddCell("u_xor2", netlist.CellXor, []models.SignalID{"x1", "cin"}, "sum")
	m.AddCell("u_and1", netlist.CellAnd, []models.SignalID{"a", "b"}, "and1")
	m.AddCell("u_and2", netlist.CellAnd, []models.SignalID{"x1", "cin"}, "and2")
	m.AddCell("u_or1", netlist.CellOr, []models.SignalID{"and1", "and2"}, "cout")
	return m
}

func TestDriver_PairwiseTargetProducesBudgetedSelection(t *testing.T) {
	d := &Driver{
		Module: fullAdderModule(),
		Config: models.Config{
			Target:         models.TargetPairwise,
			KeyBits:        2,
			NumTestVectors: 64,
		},
	}
	run, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Selections) != 2 {
		t.Fatalf("expected 2 selections under KeyBits=2, got %d", len(run.Selections))
	}
	if run.KeyBitBudget != 2 {
		t.Fatalf("expected budget 2, got %d", run.KeyBitBudget)
	}
	if run.NumTestVectors != 64 {
		t.Fatalf("expected 64 test vectors (already a multiple of 64), got %d", run.NumTestVectors)
	}
}

func TestDriver_CorruptionTargetWithReport(t *testing.T) {
	d := &Driver{
		Module: fullAdderModule(),
		Config: models.Config{
			Target:         models.TargetCorruption,
			KeyBits:        3,
			NumTestVectors: 10, // rounds up to 64
			Report:         true,
		},
	}
	run, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.NumTestVectors != 64 {
		t.Fatalf("expected NumTestVectors rounded up to 64, got %d", run.NumTestVectors)
	}
	if len(run.Coverage) != len(run.Selections) {
		t.Fatalf("expected one coverage row per locked cell, got %d rows for %d selections", len(run.Coverage), len(run.Selections))
	}
	for i := 1; i < len(run.Coverage); i++ {
		if run.Coverage[i].Cover+1e-9 < run.Coverage[i-1].Cover {
			t.Fatalf("coverage regressed at row %d: %v -> %v", i, run.Coverage[i-1].Cover, run.Coverage[i].Cover)
		}
	}
}

func TestDriver_HybridTargetSeedsFromLargestClique(t *testing.T) {
	d := &Driver{
		Module: fullAdderModule(),
		Config: models.Config{
			Target:         models.TargetHybrid,
			KeyBits:        4,
			NumTestVectors: 64,
		},
	}
	run, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Selections) == 0 {
		t.Fatal("expected at least one selection")
	}
}

func TestDriver_ExplicitLockGateBypassesOptimizer(t *testing.T) {
	d := &Driver{
		Module: fullAdderModule(),
		Config: models.Config{
			NumTestVectors: 64,
			LockGates:      []models.SignalID{"and1"},
			Key:            "1",
		},
	}
	run, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Selections) != 1 || run.Selections[0].Signal != "and1" {
		t.Fatalf("expected single explicit selection of and1, got %v", run.Selections)
	}
	if run.Selections[0].KeyBit != 1 {
		t.Fatalf("expected key bit 1 from explicit key \"1\", got %d", run.Selections[0].KeyBit)
	}
}

func TestDriver_ExplicitMixGateSharesOneKeyBitAcrossBothSignals(t *testing.T) {
	d := &Driver{
		Module: fullAdderModule(),
		Config: models.Config{
			NumTestVectors: 64,
			MixGates:       []models.MixPair{{A: "and1", B: "and2"}},
			Key:            "1",
		},
	}
	run, err := d.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Selections) != 2 {
		t.Fatalf("expected 2 selections for one mix pair, got %d", len(run.Selections))
	}
	if run.Selections[0].KeyBit != run.Selections[1].KeyBit {
		t.Fatalf("expected a mix pair to share one key bit, got %d vs %d", run.Selections[0].KeyBit, run.Selections[1].KeyBit)
	}
}

func TestDriver_ExplicitLockGateUnknownSignalIsSelectionImpossible(t *testing.T) {
	d := &Driver{
		Module: fullAdderModule(),
		Config: models.Config{
			NumTestVectors: 64,
			LockGates:      []models.SignalID{"nonexistent"},
		},
	}
	_, err := d.Run(context.Background())
	var serr *models.SelectionImpossibleError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *models.SelectionImpossibleError, got %T: %v", err, err)
	}
}

func TestDriver_RejectsTooFewTestVectors(t *testing.T) {
	d := &Driver{
		Module: fullAdderModule(),
		Config: models.Config{NumTestVectors: 3},
	}
	_, err := d.Run(context.Background())
	var cerr *models.InvalidConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *models.InvalidConfigurationError, got %T: %v", err, err)
	}
}

func TestDriver_RejectsOutOfRangeKeyPercent(t *testing.T) {
	d := &Driver{
		Module: fullAdderModule(),
		Config: models.Config{NumTestVectors: 64, KeyPercent: 150},
	}
	_, err := d.Run(context.Background())
	var cerr *models.InvalidConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *models.InvalidConfigurationError, got %T: %v", err, err)
	}
}

func TestDriver_RejectsReportCombinedWithExplicitGates(t *testing.T) {
	d := &Driver{
		Module: fullAdderModule(),
		Config: models.Config{
			NumTestVectors: 64,
			LockGates:      []models.SignalID{"and1"},
			Report:         true,
		},
	}
	_, err := d.Run(context.Background())
	var cerr *models.InvalidConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *models.InvalidConfigurationError, got %T: %v", err, err)
	}
}

func TestDriver_ExplicitKeyShorterThanSelectionIsInvalidKey(t *testing.T) {
	d := &Driver{
		Module: fullAdderModule(),
		Config: models.Config{
			NumTestVectors: 64,
			LockGates:      []models.SignalID{"x1", "sum", "and1", "and2", "cout"},
			Key:            "1", // one hex digit decodes to 4 bits, but 5 selections need 5
		},
	}
	_, err := d.Run(context.Background())
	var kerr *models.InvalidKeyError
	if !errors.As(err, &kerr) {
		t.Fatalf("expected *models.InvalidKeyError, got %T: %v", err, err)
	}
}
