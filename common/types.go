// Copyright 2024 The ddc Authors
// This file is part of the ddc library.
//
// The ddc library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ddc library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ddc library. If not, see <http://www.gnu.org/licenses/>.

package common

import (
	"bytes"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// HashLength is the expected length of a storage word.
	HashLength = 32
	// AddressLength is the expected length of an account identifier.
	AddressLength = 32
	// ClusterIDLength is the expected length of a cluster identifier (H160).
	ClusterIDLength = 20
)

// Hash represents one 32-byte storage word.
type Hash [HashLength]byte

// BytesToHash sets b to hash. If b is larger than len(h), b will be cropped
// from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// SetBytes sets the hash to the value of b, right-aligned.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes gets the byte representation of the underlying hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex converts a hash to a hex string.
func (h Hash) Hex() string { return hexutil.Encode(h[:]) }

// IsZero reports whether every byte of the word is zero.
func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) String() string { return h.Hex() }

// MarshalText returns the hex representation of h.
func (h Hash) MarshalText() ([]byte, error) {
	return hexutil.Bytes(h[:]).MarshalText()
}

// UnmarshalText parses a hash in hex syntax.
func (h *Hash) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Hash", input, h[:])
}

// Address is the 32-byte identifier of an account (stash, controller, provider).
type Address [AddressLength]byte

// BytesToAddress returns Address with value b, right-aligned.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HexToAddress returns Address with byte values of s. Invalid hex yields the
// zero address; use IsHexAddress to validate first.
func HexToAddress(s string) Address { return BytesToAddress(fromHex(s)) }

// IsHexAddress verifies whether a string can represent a valid hex-encoded
// account identifier.
func IsHexAddress(s string) bool {
	if has0xPrefix(s) {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}

func (a Address) Bytes() []byte  { return a[:] }
func (a Address) Hex() string    { return hexutil.Encode(a[:]) }
func (a Address) String() string { return a.Hex() }

// IsZero reports whether a is the zero account.
func (a Address) IsZero() bool { return a == Address{} }

// Cmp orders addresses bytewise.
func (a Address) Cmp(other Address) int { return bytes.Compare(a[:], other[:]) }

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

// UnmarshalText parses an account identifier in hex syntax.
func (a *Address) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Address", input, a[:])
}

// ClusterID identifies a cluster. Nodes and stakes refer to clusters only by id.
type ClusterID [ClusterIDLength]byte

// BytesToClusterID returns ClusterID with value b, right-aligned.
func BytesToClusterID(b []byte) ClusterID {
	var c ClusterID
	if len(b) > len(c) {
		b = b[len(b)-ClusterIDLength:]
	}
	copy(c[ClusterIDLength-len(b):], b)
	return c
}

// HexToClusterID returns ClusterID with byte values of s.
func HexToClusterID(s string) ClusterID { return BytesToClusterID(fromHex(s)) }

// IsHexClusterID verifies whether a string can represent a cluster id.
func IsHexClusterID(s string) bool {
	if has0xPrefix(s) {
		s = s[2:]
	}
	return len(s) == 2*ClusterIDLength && isHex(s)
}

func (c ClusterID) Bytes() []byte  { return c[:] }
func (c ClusterID) Hex() string    { return hexutil.Encode(c[:]) }
func (c ClusterID) String() string { return c.Hex() }

// MarshalText returns the hex representation of c.
func (c ClusterID) MarshalText() ([]byte, error) {
	return hexutil.Bytes(c[:]).MarshalText()
}

// UnmarshalText parses a cluster id in hex syntax.
func (c *ClusterID) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("ClusterID", input, c[:])
}

func fromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	h, _ := hex.DecodeString(s)
	return h
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isHex(s string) bool {
	for _, c := range []byte(s) {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)
	return
}
