package nodes

import (
	"fmt"

	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/vm"
	"github.com/tos-network/ddc/internal/slotdb"
	"github.com/tos-network/ddc/params"
)

// nodeRecord is the persisted form of a node. The kind and key are part of
// the slot, so they are not repeated here.
type nodeRecord struct {
	Provider common.Address
	Cluster  []byte // empty while unassigned
	Props    []byte
}

func nodeSlot(key common.NodePubKey) common.Hash {
	return slotdb.Slot("node", key.Bytes())
}

// Exists reports whether a node is registered under key.
func Exists(db vm.StateDB, key common.NodePubKey) bool {
	return slotdb.ReadUint64(db, params.NodesAddress, nodeSlot(key)) != 0
}

// Get loads the node registered under key.
func Get(db vm.StateDB, key common.NodePubKey) (Node, error) {
	var rec nodeRecord
	ok, err := slotdb.ReadRLP(db, params.NodesAddress, nodeSlot(key), &rec)
	if err != nil {
		return nil, fmt.Errorf("nodes: corrupt record %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNodeDoesNotExist
	}
	var b nodeBase
	b.pubKey = key.Key
	b.providerID = rec.Provider
	b.props = rec.Props
	switch len(rec.Cluster) {
	case 0:
	case common.ClusterIDLength:
		id := common.BytesToClusterID(rec.Cluster)
		b.clusterID = &id
	default:
		return nil, fmt.Errorf("nodes: corrupt record %s: cluster id of %d bytes", key, len(rec.Cluster))
	}
	switch key.Type {
	case common.StorageNode:
		return &StorageNode{b}, nil
	case common.CDNNode:
		return &CDNNode{b}, nil
	}
	return nil, ErrNodeDoesNotExist
}

func write(db vm.StateDB, n Node) error {
	b := n.base()
	rec := nodeRecord{Provider: b.providerID, Props: b.props}
	if b.clusterID != nil {
		rec.Cluster = b.clusterID.Bytes()
	}
	return slotdb.WriteRLP(db, params.NodesAddress, nodeSlot(n.PubKey()), &rec)
}

// Create registers a new node.
func Create(db vm.StateDB, n Node) error {
	if Exists(db, n.PubKey()) {
		return ErrNodeAlreadyExists
	}
	return write(db, n)
}

// Update persists changes to an existing node.
func Update(db vm.StateDB, n Node) error {
	if !Exists(db, n.PubKey()) {
		return ErrNodeDoesNotExist
	}
	return write(db, n)
}

// Remove deletes the node record. Callers check authorization and cluster
// assignment first.
func Remove(db vm.StateDB, key common.NodePubKey) {
	slotdb.DeleteBytes(db, params.NodesAddress, nodeSlot(key))
}
