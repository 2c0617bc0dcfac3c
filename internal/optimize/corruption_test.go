package optimize

import (
	"testing"

	"github.com/rawblock/logiclock/pkg/models"
)

// buildMatrix allocates a single-output, single-batch matrix and sets
// candidate c's covered-bit word directly.
func buildMatrix(rows ...uint64) *models.CorruptionMatrix {
	m := models.NewCorruptionMatrix(len(rows), []models.SignalID{"o"}, 1)
	for c, word := range rows {
		m.Row(c)[0][0] = word
	}
	return m
}

func TestCorruptionOptimizer_GreedyPicksDisjointCoverage(t *testing.T) {
	// c0 covers bits 0-1, c1 covers bits 2-3, c2 covers bits 4-5: equal,
	// disjoint gain every round, so all three get picked, lowest index
	// first on ties.
	m := buildMatrix(0b000011, 0b001100, 0b110000)

	selected := Corruption(m, 3, nil, 6)
	if len(selected) != 3 {
		t.Fatalf("expected all 3 candidates selected, got %v", selected)
	}
	for i, c := range selected {
		if c != i {
			t.Fatalf("expected ascending tie-break order [0 1 2], got %v", selected)
		}
	}
	covered, total := m.CoverCount(selected, 6)
	if covered != total {
		t.Fatalf("expected full coverage %d, got %d", total, covered)
	}
}

func TestCorruptionOptimizer_StopsAtZeroGain(t *testing.T) {
	// c1 is a strict superset of c0 and c2's bits: once c1 is chosen,
	// neither contributes anything further.
	m := buildMatrix(0b0011, 0b1111, 0b1100)

	selected := Corruption(m, 3, nil, 4)
	if len(selected) != 1 || selected[0] != 1 {
		t.Fatalf("expected to stop after the single superset candidate, got %v", selected)
	}
}

func TestCorruptionOptimizer_SkipsBitIdenticalDuplicates(t *testing.T) {
	// c0 and c1 have bit-identical rows: after c0 is picked, c1 must be
	// skipped by the duplicate-row check even though budget has room.
	m := buildMatrix(0b11, 0b11)

	selected := Corruption(m, 2, nil, 2)
	if len(selected) != 1 || selected[0] != 0 {
		t.Fatalf("expected duplicate row to be skipped, got %v", selected)
	}
}

func TestCorruptionOptimizer_PrefixIsMandatory(t *testing.T) {
	// c0 (index 0) is forced in via prefix even though it covers
	// nothing useful; the remaining budget goes to best marginal gain.
	m := buildMatrix(0b00, 0b11)

	selected := Corruption(m, 2, []int{0}, 2)
	if len(selected) != 2 || selected[0] != 0 || selected[1] != 1 {
		t.Fatalf("expected prefix [0] followed by best candidate [1], got %v", selected)
	}
}

func TestCorruptionOptimizer_PrefixTruncatedToBudget(t *testing.T) {
	m := buildMatrix(0b01, 0b10, 0b11)
	selected := Corruption(m, 1, []int{0, 1}, 2)
	if len(selected) != 1 || selected[0] != 0 {
		t.Fatalf("expected prefix truncated to budget 1, got %v", selected)
	}
}
