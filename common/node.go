package common

import (
	"errors"
	"fmt"
	"strings"
)

// NodeType enumerates the node kinds a provider can run.
type NodeType uint8

const (
	StorageNode NodeType = 1
	CDNNode     NodeType = 2
)

var errUnknownNodeType = errors.New("unknown node type")

// Valid reports whether t names a known node kind.
func (t NodeType) Valid() bool {
	return t == StorageNode || t == CDNNode
}

func (t NodeType) String() string {
	switch t {
	case StorageNode:
		return "storage"
	case CDNNode:
		return "cdn"
	}
	return fmt.Sprintf("NodeType(%d)", uint8(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, errUnknownNodeType
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *NodeType) UnmarshalText(input []byte) error {
	switch strings.ToLower(string(input)) {
	case "storage":
		*t = StorageNode
	case "cdn":
		*t = CDNNode
	default:
		return fmt.Errorf("%w: %q", errUnknownNodeType, input)
	}
	return nil
}

// NodePubKey identifies a node globally. The key bytes are tagged with the
// node kind they belong to.
type NodePubKey struct {
	Type NodeType `json:"type"`
	Key  Hash     `json:"key"`
}

// Bytes returns the kind tag followed by the key.
func (k NodePubKey) Bytes() []byte {
	out := make([]byte, 1+HashLength)
	out[0] = byte(k.Type)
	copy(out[1:], k.Key[:])
	return out
}

// String renders the key as "kind:0xkey".
func (k NodePubKey) String() string {
	return k.Type.String() + ":" + k.Key.Hex()
}

// ParseNodePubKey parses the "kind:0xkey" form produced by String.
func ParseNodePubKey(s string) (NodePubKey, error) {
	kind, key, ok := strings.Cut(s, ":")
	if !ok {
		return NodePubKey{}, fmt.Errorf("node key %q: missing kind prefix", s)
	}
	var k NodePubKey
	if err := k.Type.UnmarshalText([]byte(kind)); err != nil {
		return NodePubKey{}, err
	}
	if err := k.Key.UnmarshalText([]byte(key)); err != nil {
		return NodePubKey{}, err
	}
	return k, nil
}
