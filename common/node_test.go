package common

import (
	"encoding/json"
	"testing"
)

func TestNodePubKeyJSON(t *testing.T) {
	k := NodePubKey{Type: CDNNode, Key: BytesToHash([]byte{0xde, 0xad})}
	enc, err := json.Marshal(k)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"cdn","key":"0x000000000000000000000000000000000000000000000000000000000000dead"}`
	if string(enc) != want {
		t.Fatalf("encoding mismatch:\nhave %s\nwant %s", enc, want)
	}
	var dec NodePubKey
	if err := json.Unmarshal(enc, &dec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if dec != k {
		t.Fatalf("round trip mismatch: %v", dec)
	}
	if err := json.Unmarshal([]byte(`{"type":"validator","key":"0x00"}`), &dec); err == nil {
		t.Fatalf("unknown kind accepted")
	}
}

func TestParseNodePubKey(t *testing.T) {
	k := NodePubKey{Type: StorageNode, Key: BytesToHash([]byte{1})}
	parsed, err := ParseNodePubKey(k.String())
	if err != nil {
		t.Fatalf("parse %s: %v", k, err)
	}
	if parsed != k {
		t.Fatalf("parsed %v, want %v", parsed, k)
	}
	if _, err := ParseNodePubKey(k.Key.Hex()); err == nil {
		t.Fatalf("missing kind accepted")
	}
}

func TestNodePubKeyBytesDistinguishKinds(t *testing.T) {
	a := NodePubKey{Type: StorageNode}
	b := NodePubKey{Type: CDNNode}
	if string(a.Bytes()) == string(b.Bytes()) {
		t.Fatalf("kinds share an encoding")
	}
}
