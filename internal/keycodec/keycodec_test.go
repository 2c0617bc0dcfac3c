package keycodec

import (
	"errors"
	"testing"

	"github.com/rawblock/logiclock/pkg/models"
)

func TestParse_LittleEndianNibbleOrder(t *testing.T) {
	// "a1": leftmost nibble 'a' (1010) encodes bits 4-7, rightmost
	// nibble '1' (0001) encodes bits 0-3.
	k, err := Parse("a1", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := KeyVector{true, false, false, false, false, true, false, true}
	if len(k) != len(want) {
		t.Fatalf("expected %d bits, got %d", len(want), len(k))
	}
	for i := range want {
		if k[i] != want[i] {
			t.Errorf("bit %d: want %v got %v", i, want[i], k[i])
		}
	}
}

func TestRoundTrip_ParseThenSerialize(t *testing.T) {
	for _, s := range []string{"0", "f", "a1", "00ff", "DEAD", "1234abcd"} {
		nbits := len(s) * 4
		k, err := Parse(s, nbits)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", s, err)
		}
		got := Serialize(k)
		want := lower(s)
		if got != want {
			t.Errorf("round trip %q: want %q, got %q", s, want, got)
		}
	}
}

func TestRoundTrip_SerializeThenParse(t *testing.T) {
	k := KeyVector{true, false, true, true, false, false, true, false}
	s := Serialize(k)
	back, err := Parse(s, len(k))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range k {
		if k[i] != back[i] {
			t.Errorf("bit %d lost in round trip through %q: want %v got %v", i, s, k[i], back[i])
		}
	}
}

func TestParse_CaseInsensitive(t *testing.T) {
	lowerK, err := Parse("dead", 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	upperK, err := Parse("DEAD", 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range lowerK {
		if lowerK[i] != upperK[i] {
			t.Errorf("bit %d differs between case variants", i)
		}
	}
}

func TestParse_RejectsNonHexCharacter(t *testing.T) {
	_, err := Parse("12g4", 16)
	var kerr *models.InvalidKeyError
	if !errors.As(err, &kerr) {
		t.Fatalf("expected *models.InvalidKeyError, got %T: %v", err, err)
	}
}

func TestParse_RejectsShorterThanBudget(t *testing.T) {
	_, err := Parse("a", 8)
	var kerr *models.InvalidKeyError
	if !errors.As(err, &kerr) {
		t.Fatalf("expected *models.InvalidKeyError, got %T: %v", err, err)
	}
}

func TestParse_TruncatesToRequestedWidth(t *testing.T) {
	k, err := Parse("a1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(k) != 5 {
		t.Fatalf("expected 5 bits, got %d", len(k))
	}
}

func lower(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'A' && c <= 'F' {
			out[i] = c - 'A' + 'a'
		}
	}
	return string(out)
}
