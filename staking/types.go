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

// Package staking implements bonding of provider collateral, the unbonding
// ledger, cluster participation with its delayed chill exit, and the cluster
// manager allow-list.
package staking

import (
	"fmt"

	"github.com/tos-network/ddc/common"
)

// Role is the part a stash plays in a cluster.
type Role uint8

const (
	RoleNone    Role = 0
	RoleStorage Role = 1
	RoleEdge    Role = 2
)

// NodeType returns the node kind that fills the role.
func (r Role) NodeType() common.NodeType {
	switch r {
	case RoleStorage:
		return common.StorageNode
	case RoleEdge:
		return common.CDNNode
	}
	return 0
}

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleStorage:
		return "storage"
	case RoleEdge:
		return "edge"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

var (
	ErrAlreadyBonded          = common.NewError(common.ErrAlreadyExists, "staking: stash is already bonded")
	ErrControllerInUse        = common.NewError(common.ErrAlreadyExists, "staking: controller is already paired")
	ErrNodeAlreadyBonded      = common.NewError(common.ErrAlreadyExists, "staking: node is already bonded to a stash")
	ErrNotController          = common.NewError(common.ErrNotFound, "staking: not a controller account")
	ErrNotStash               = common.NewError(common.ErrNotFound, "staking: not a stash account")
	ErrInsufficientBond       = common.NewError(common.ErrInvalidState, "staking: active bond is below the cluster bond size")
	ErrInvalidAccount         = common.NewError(common.ErrInvalidState, "staking: stash and controller must be non-zero accounts")
	ErrNotActive              = common.NewError(common.ErrInvalidState, "staking: stash is not serving a cluster")
	ErrAlreadyInRole          = common.NewError(common.ErrInvalidState, "staking: stash already serves a cluster, chill first")
	ErrNodeKindMismatch       = common.NewError(common.ErrInvalidState, "staking: bonded node kind does not fit the role")
	ErrNoMoreChunks           = common.NewError(common.ErrLimitExceeded, "staking: too many unlocking chunks")
	ErrTooManyClusterManagers = common.NewError(common.ErrLimitExceeded, "staking: cluster manager allow-list is full")
	ErrUnauthorized           = common.NewError(common.ErrUnauthorized, "staking: caller is not authorized")
)
