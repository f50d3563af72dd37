package ft8

import "testing"

func TestHashTableSaveAndLookup(t *testing.T) {
	ht := NewHashTable()
	n22 := ht.Save("K1ABC")

	call, ok := ht.LookupWidth(22, n22)
	if !ok {
		t.Fatalf("expected to find K1ABC by its 22-bit hash")
	}
	if call != "K1ABC" {
		t.Errorf("got %q, want K1ABC", call)
	}

	if ht.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", ht.Len())
	}
}

func TestHashTableTruncatedLookup(t *testing.T) {
	ht := NewHashTable()
	n22 := ht.Save("N0CALL")

	n12 := n12FromN22(n22)
	call, ok := ht.LookupWidth(12, n12)
	if !ok || call != "N0CALL" {
		t.Fatalf("12-bit truncated lookup failed: call=%q ok=%v", call, ok)
	}

	n10 := n10FromN22(n22)
	call, ok = ht.LookupWidth(10, n10)
	if !ok || call != "N0CALL" {
		t.Fatalf("10-bit truncated lookup failed: call=%q ok=%v", call, ok)
	}
}

func TestHashTableMissReturnsFalse(t *testing.T) {
	ht := NewHashTable()
	if _, ok := ht.LookupWidth(22, 0xDEADBE&0x3FFFFF); ok {
		t.Fatalf("expected a miss on an empty table")
	}
}

func TestN22FromCallsignDeterministic(t *testing.T) {
	a := n22FromCallsign("W1AW")
	b := n22FromCallsign("w1aw")
	if a != b {
		t.Errorf("hash should be case-insensitive: %d vs %d", a, b)
	}
	if a >= 1<<22 {
		t.Errorf("n22 out of 22-bit range: %d", a)
	}
}
