package models

import "time"

// Selection is one locked signal in the Driver's final answer: the
// candidate array index, the external signal handle, and the key-bit
// value (0/1) the gate-insertion collaborator should wire to it.
// KeySlot identifies which physical key-bit this selection draws from;
// it equals the selection's own position for an ordinary XOR lock, but
// two Selections from the same -mix-gate pair share one KeySlot, since
// a MUX lock is driven by a single shared key bit (spec.md §4.6 step
// 4, §6).
type Selection struct {
	CandidateIndex int
	Signal         SignalID
	KeySlot        int
	KeyBit         uint8
}

// CoverageRow is one line of the -report coverage-vs-locked-cells
// table: at this many locked signals, this much output corruption
// cover is achieved.
type CoverageRow struct {
	LockedCells int
	Cover       float64
}

// EngineRun is a provenance record for one Driver invocation: enough
// to reproduce and audit the run later. The Driver writes it once,
// through the optional Run Store the host attaches (SPEC_FULL.md §4.8);
// the core never reads it back.
type EngineRun struct {
	RunID          string
	Module         string
	Target         Target
	KeyBitBudget   int
	NumTestVectors int
	Seed           int64
	StartedAt      time.Time
	Duration       time.Duration
	Selections     []Selection
	Coverage       []CoverageRow
}
