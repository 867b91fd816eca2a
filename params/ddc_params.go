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

package params

import "github.com/tos-network/ddc/common"

// DDC system addresses. Each subsystem keeps its records in the storage of
// one fixed address.
var (
	// NodesAddress stores the node registry and cluster/node assignments.
	NodesAddress = common.HexToAddress("0x0000000000000000000000000000000000000000000000000000000044444331") // "DDC1"

	// StakingAddress stores bonds, ledgers, cluster membership and the
	// cluster manager allow-list.
	StakingAddress = common.HexToAddress("0x0000000000000000000000000000000000000000000000000000000044444332") // "DDC2"
)

// Node registry bounds.
const (
	// MaxStorageNodeParamsLen caps the props buffer of a storage node.
	MaxStorageNodeParamsLen = 2048

	// MaxCDNNodeParamsLen caps the props buffer of a CDN node.
	MaxCDNNodeParamsLen = 2048
)

// Staking bounds.
const (
	// MaxUnlockingChunks is the maximum number of distinct unlocking eras a
	// ledger may queue at once.
	MaxUnlockingChunks = 32

	// MaxClusterManagers caps the cluster manager allow-list.
	MaxClusterManagers = 100
)
