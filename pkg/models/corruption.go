package models

import "math/bits"

// CorruptionMatrix holds, for each candidate signal, a dense bitmap
// indexed by (output signal, test-vector batch) whose bit k is 1 iff
// toggling that candidate flips that output on test vector k of that
// batch. Rows are addressed by candidate index, in the same order as
// the candidate array the analyzer was given.
type CorruptionMatrix struct {
	Outputs    []SignalID
	NumBatches int
	// Rows[candidate][output][batch] is one packed 64-bit word.
	Rows [][][]uint64
}

// NewCorruptionMatrix allocates a zeroed matrix for nCandidates
// candidates over the given outputs and batch count.
func NewCorruptionMatrix(nCandidates int, outputs []SignalID, numBatches int) *CorruptionMatrix {
	rows := make([][][]uint64, nCandidates)
	for c := range rows {
		rows[c] = make([][]uint64, len(outputs))
		for o := range rows[c] {
			rows[c][o] = make([]uint64, numBatches)
		}
	}
	return &CorruptionMatrix{Outputs: outputs, NumBatches: numBatches, Rows: rows}
}

// NumCandidates returns the number of candidate rows.
func (m *CorruptionMatrix) NumCandidates() int { return len(m.Rows) }

// Row returns the raw bitmap for candidate c: one slice per output,
// one packed word per batch.
func (m *CorruptionMatrix) Row(c int) [][]uint64 { return m.Rows[c] }

// unionRow ORs together the rows of the given candidate indices into a
// freshly allocated [output][batch] bitmap.
func (m *CorruptionMatrix) unionRow(selected []int) [][]uint64 {
	out := make([][]uint64, len(m.Outputs))
	for o := range out {
		out[o] = make([]uint64, m.NumBatches)
	}
	for _, c := range selected {
		row := m.Rows[c]
		for o := range row {
			for k := range row[o] {
				out[o][k] |= row[o][k]
			}
		}
	}
	return out
}

// CoverCount returns the number of (output, test-vector) bit positions
// for which at least one candidate in selected has a 1 bit, and the
// total number of bit positions (|outputs| * numVectors), so that
// cover = CoverCount / total. numVectors is the exact vector count
// (the last batch may be partially populated by the caller and should
// not be double-counted beyond numVectors).
func (m *CorruptionMatrix) CoverCount(selected []int, numVectors int) (covered int, total int) {
	total = len(m.Outputs) * numVectors
	if len(selected) == 0 {
		return 0, total
	}
	union := m.unionRow(selected)
	for o := range union {
		remaining := numVectors
		for k := 0; k < m.NumBatches && remaining > 0; k++ {
			word := union[o][k]
			width := WordBits
			if remaining < width {
				word &= (uint64(1) << uint(remaining)) - 1
				width = remaining
			}
			covered += bits.OnesCount64(word)
			remaining -= width
		}
	}
	return covered, total
}

// MarginalGain returns how many additional (output, vector) bit
// positions candidate c would cover on top of the bits already covered
// by selected.
func (m *CorruptionMatrix) MarginalGain(selected []int, c int, numVectors int) int {
	base, _ := m.CoverCount(selected, numVectors)
	withC, _ := m.CoverCount(append(append([]int{}, selected...), c), numVectors)
	return withC - base
}

// SameRow reports whether candidates a and b have bit-identical
// corruption rows (used by the corruption optimizer's duplicate-row
// check).
func (m *CorruptionMatrix) SameRow(a, b int) bool {
	ra, rb := m.Rows[a], m.Rows[b]
	for o := range ra {
		for k := range ra[o] {
			if ra[o][k] != rb[o][k] {
				return false
			}
		}
	}
	return true
}
