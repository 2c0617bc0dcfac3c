package models

// Target selects the Driver's optimization objective (spec §4.6).
type Target string

const (
	TargetPairwise   Target = "pairwise"
	TargetCorruption Target = "corruption"
	TargetHybrid     Target = "hybrid"
)

// MixPair is an explicit per-pair MUX lock (-mix-gate n1 n2): two
// signals whose drivers are mixed through a select gate under one key
// bit, bypassing the optimizer.
type MixPair struct {
	A SignalID
	B SignalID
}

// Config mirrors the CLI surface of spec.md §6. The engine core does
// not parse command-line flags (only the reference cmd/enginecli
// wiring does); Config is the in-process value the host builds from
// whatever it parsed and hands to the Driver.
type Config struct {
	// Module is the name of the single module to operate on. Selecting
	// more than one module is an InvalidConfigurationError at the host
	// layer, before the Driver ever runs.
	Module string

	// Target is the optimization objective. Defaults to TargetPairwise.
	Target Target

	// KeyPercent is the key-bit budget expressed as a percentage of
	// combinational cells in [0, 100]. Ignored when KeyBits is set.
	KeyPercent float64

	// KeyBits is the key-bit budget as an absolute count. Zero means
	// "use KeyPercent instead".
	KeyBits int

	// NumTestVectors is N, must be >= 4. Rounded up to a multiple of
	// 64 internally.
	NumTestVectors int

	// Key is an optional explicit hex key (little-endian nibble
	// order, spec.md §6). When set, the Driver rejects it if it decodes
	// to fewer bits than the resolved budget or than the selection's
	// key slots, and otherwise takes the selection's key-bit values
	// from it instead of from a random source. The selection itself is
	// made as usual.
	Key string

	// Report requests analyze-only mode: emit the coverage table, do
	// not rewrite.
	Report bool

	// LockGates are explicit per-gate XOR locks (-lock-gate), which
	// skip the optimizer entirely.
	LockGates []SignalID

	// MixGates are explicit per-pair MUX locks (-mix-gate), which
	// skip the optimizer entirely.
	MixGates []MixPair
}

// ResolveKeyBitBudget computes the absolute key-bit budget K from a
// Config and the number of combinational cells in the target module.
func (c Config) ResolveKeyBitBudget(numCombinationalCells int) int {
	if c.KeyBits > 0 {
		return c.KeyBits
	}
	pct := c.KeyPercent
	if pct == 0 {
		pct = 5
	}
	k := int(pct * float64(numCombinationalCells) / 100.0)
	if k < 1 && numCombinationalCells > 0 {
		k = 1
	}
	return k
}
