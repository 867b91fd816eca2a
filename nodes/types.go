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

// Package nodes implements the registry of storage and CDN nodes.
package nodes

import (
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/params"
)

// maxParamsLen is the props bound of each node kind.
var maxParamsLen = map[common.NodeType]int{
	common.StorageNode: params.MaxStorageNodeParamsLen,
	common.CDNNode:     params.MaxCDNNodeParamsLen,
}

// NodeParams is the kind-tagged input from which node props are built.
type NodeParams struct {
	Type   common.NodeType
	Params []byte
}

// Node is the capability set shared by every node kind. The set of
// implementations is closed: *StorageNode and *CDNNode.
type Node interface {
	PubKey() common.NodePubKey
	ProviderID() common.Address
	Props() []byte
	SetParams(p NodeParams) error
	// ClusterID returns the cluster the node is assigned to, or nil.
	ClusterID() *common.ClusterID
	SetClusterID(id *common.ClusterID)
	Type() common.NodeType

	base() *nodeBase
}

// nodeBase carries the fields every node kind has.
type nodeBase struct {
	pubKey     common.Hash
	providerID common.Address
	clusterID  *common.ClusterID
	props      []byte
}

func (n *nodeBase) base() *nodeBase            { return n }
func (n *nodeBase) ProviderID() common.Address { return n.providerID }

func (n *nodeBase) Props() []byte {
	return common.CopyBytes(n.props)
}

func (n *nodeBase) ClusterID() *common.ClusterID {
	if n.clusterID == nil {
		return nil
	}
	id := *n.clusterID
	return &id
}

func (n *nodeBase) SetClusterID(id *common.ClusterID) {
	if id == nil {
		n.clusterID = nil
		return
	}
	c := *id
	n.clusterID = &c
}

func (n *nodeBase) setParams(kind common.NodeType, p NodeParams) error {
	if p.Type != kind {
		return ErrInvalidNodeParams
	}
	if len(p.Params) > maxParamsLen[kind] {
		return ErrNodeParamsExceedsLimit
	}
	n.props = common.CopyBytes(p.Params)
	return nil
}

// StorageNode is a node of a cluster's storage network.
type StorageNode struct{ nodeBase }

func (n *StorageNode) Type() common.NodeType { return common.StorageNode }

func (n *StorageNode) PubKey() common.NodePubKey {
	return common.NodePubKey{Type: common.StorageNode, Key: n.pubKey}
}

func (n *StorageNode) SetParams(p NodeParams) error {
	return n.setParams(common.StorageNode, p)
}

// CDNNode is a node of a cluster's content delivery network.
type CDNNode struct{ nodeBase }

func (n *CDNNode) Type() common.NodeType { return common.CDNNode }

func (n *CDNNode) PubKey() common.NodePubKey {
	return common.NodePubKey{Type: common.CDNNode, Key: n.pubKey}
}

func (n *CDNNode) SetParams(p NodeParams) error {
	return n.setParams(common.CDNNode, p)
}

// New constructs an unassigned node of the kind named by key. The params
// must be of the same kind and within its props bound.
func New(key common.NodePubKey, provider common.Address, p NodeParams) (Node, error) {
	var n Node
	switch key.Type {
	case common.StorageNode:
		n = &StorageNode{nodeBase{pubKey: key.Key, providerID: provider}}
	case common.CDNNode:
		n = &CDNNode{nodeBase{pubKey: key.Key, providerID: provider}}
	default:
		return nil, ErrInvalidNodeParams
	}
	if err := n.SetParams(p); err != nil {
		return nil, err
	}
	return n, nil
}
