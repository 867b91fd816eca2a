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

// Package cluster defines the read-only view of cluster governance that the
// node registry and staking consume, and the cluster membership contract.
package cluster

import (
	"github.com/holiman/uint256"

	"github.com/tos-network/ddc/common"
)

var (
	ErrClusterDoesNotExist = common.NewError(common.ErrUpstreamConfig, "cluster: cluster does not exist")
	ErrGovParamsNotSet     = common.NewError(common.ErrUpstreamConfig, "cluster: governance params not set")
)

// Perbill is a fraction expressed in parts per billion.
type Perbill uint32

// OnePerbill is the Perbill value of one whole.
const OnePerbill Perbill = 1_000_000_000

// PricingParams are the per-unit prices a cluster charges.
type PricingParams struct {
	UnitPerMBStored   uint64
	UnitPerMBStreamed uint64
	UnitPerPutRequest uint64
	UnitPerGetRequest uint64
}

// FeesParams are the shares of cluster revenue routed away from providers.
type FeesParams struct {
	TreasuryShare       Perbill
	ValidatorsShare     Perbill
	ClusterReserveShare Perbill
}

// BondingParams are the collateral rules of a cluster per node kind.
type BondingParams struct {
	StorageBondSize       *uint256.Int
	StorageChillDelay     uint64
	StorageUnbondingDelay uint64
	CDNBondSize           *uint256.Int
	CDNChillDelay         uint64
	CDNUnbondingDelay     uint64
}

// GovParams is the complete governance parameter set of a cluster.
type GovParams struct {
	FeesParams
	BondingParams
	PricingParams
}

// Visitor is the read-only query surface over cluster governance. Every
// query fails with ErrClusterDoesNotExist for an unknown cluster and, apart
// from EnsureCluster and GetReserveAccountID, with ErrGovParamsNotSet when
// the cluster has no parameters yet.
type Visitor interface {
	EnsureCluster(id common.ClusterID) error
	GetReserveAccountID(id common.ClusterID) (common.Address, error)
	GetBondSize(id common.ClusterID, nodeType common.NodeType) (*uint256.Int, error)
	GetChillDelay(id common.ClusterID, nodeType common.NodeType) (uint64, error)
	GetUnbondingDelay(id common.ClusterID, nodeType common.NodeType) (uint64, error)
	GetPricingParams(id common.ClusterID) (*PricingParams, error)
	GetFeesParams(id common.ClusterID) (*FeesParams, error)
	GetBondingParams(id common.ClusterID) (*BondingParams, error)
}

// Manager maintains which nodes are assigned to which cluster.
type Manager interface {
	ContainsNode(id common.ClusterID, key common.NodePubKey) bool
	AddNode(id common.ClusterID, key common.NodePubKey) error
	RemoveNode(id common.ClusterID, key common.NodePubKey) error
}
