package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestHexToAddressRoundTrip(t *testing.T) {
	const s = "0xf81c536380b2dd5ef5c4ae95e1fae9b4fab2f5726677ecfa912d96b0b683e6a9"
	if !IsHexAddress(s) {
		t.Fatalf("expected %s to be a valid address", s)
	}
	a := HexToAddress(s)
	if a.Hex() != s {
		t.Fatalf("hex mismatch: have %s want %s", a.Hex(), s)
	}
	if IsHexAddress("0x1234") {
		t.Fatalf("short address accepted")
	}
}

func TestClusterIDJSON(t *testing.T) {
	id := BytesToClusterID([]byte{1, 2, 3})
	enc, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var dec ClusterID
	if err := json.Unmarshal(enc, &dec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if dec != id {
		t.Fatalf("cluster id mismatch: have %x want %x", dec, id)
	}
	if err := json.Unmarshal([]byte(`"0x01"`), &dec); err == nil {
		t.Fatalf("expected short cluster id to be rejected")
	}
}

func TestBytesToHashCropsFromLeft(t *testing.T) {
	b := make([]byte, 40)
	b[39] = 7
	h := BytesToHash(b)
	if h[31] != 7 {
		t.Fatalf("unexpected word %x", h)
	}
}

func TestErrorKinds(t *testing.T) {
	errMissing := NewError(ErrNotFound, "pkg: thing does not exist")
	wrapped := fmt.Errorf("op: %w", errMissing)

	if !errors.Is(wrapped, errMissing) {
		t.Fatalf("sentinel lost through wrapping")
	}
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("category lost through wrapping")
	}
	if Kind(wrapped) != ErrNotFound {
		t.Fatalf("Kind: have %v want %v", Kind(wrapped), ErrNotFound)
	}
	if Kind(errors.New("plain")) != nil {
		t.Fatalf("plain error must not carry a category")
	}
}
