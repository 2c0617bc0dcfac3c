package models

// WordBits is the native simulator word width: 64 test vectors packed
// per word.
const WordBits = 64

// TestVectorBatch packs 64 test vectors' worth of values for every
// combinational input signal into one 64-bit word per signal.
type TestVectorBatch struct {
	Words map[SignalID]uint64
}

// NewTestVectorBatch allocates an empty batch over the given input
// signals, all bits zero.
func NewTestVectorBatch(inputs []SignalID) TestVectorBatch {
	words := make(map[SignalID]uint64, len(inputs))
	for _, s := range inputs {
		words[s] = 0
	}
	return TestVectorBatch{Words: words}
}

// SetBit sets the value of input signal s on test vector t (0..63)
// within this batch.
func (b TestVectorBatch) SetBit(s SignalID, t int, v bool) {
	if !v {
		b.Words[s] &^= 1 << uint(t)
		return
	}
	b.Words[s] |= 1 << uint(t)
}
