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

// Package rawdb contains the low level database accessors and key layout.
package rawdb

import "github.com/tos-network/ddc/common"

// The fields below define the low level database schema prefixing.
var (
	// lastEraKey tracks the highest era any committed action ran at.
	lastEraKey = []byte("LastEra")

	// storagePrefix + address + slot -> storage word
	storagePrefix = []byte("s")
)

// storageKey = storagePrefix + address + slot
func storageKey(addr common.Address, slot common.Hash) []byte {
	buf := make([]byte, len(storagePrefix)+common.AddressLength+common.HashLength)
	n := copy(buf, storagePrefix)
	n += copy(buf[n:], addr[:])
	copy(buf[n:], slot[:])
	return buf
}
