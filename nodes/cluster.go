package nodes

import (
	"github.com/tos-network/ddc/cluster"
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/vm"
	"github.com/tos-network/ddc/internal/slotdb"
	"github.com/tos-network/ddc/params"
)

var _ cluster.Manager = (*ClusterManager)(nil)

// ClusterManager keeps the cluster/node assignment index in sync with the
// cluster id recorded on each node.
type ClusterManager struct {
	db vm.StateDB
}

// NewClusterManager returns a manager operating on db.
func NewClusterManager(db vm.StateDB) *ClusterManager {
	return &ClusterManager{db: db}
}

func clusterNodeSlot(id common.ClusterID, key common.NodePubKey) common.Hash {
	return slotdb.Slot("clusterNode", id[:], key.Bytes())
}

func clusterCountSlot(id common.ClusterID) common.Hash {
	return slotdb.Slot("clusterNodes", id[:])
}

// ContainsNode reports whether key is assigned to cluster id.
func (m *ClusterManager) ContainsNode(id common.ClusterID, key common.NodePubKey) bool {
	return slotdb.ReadBool(m.db, params.NodesAddress, clusterNodeSlot(id, key))
}

// NodeCount returns the number of nodes assigned to cluster id.
func (m *ClusterManager) NodeCount(id common.ClusterID) uint64 {
	return slotdb.ReadUint64(m.db, params.NodesAddress, clusterCountSlot(id))
}

// AddNode assigns an unassigned node to cluster id.
func (m *ClusterManager) AddNode(id common.ClusterID, key common.NodePubKey) error {
	n, err := Get(m.db, key)
	if err == ErrNodeDoesNotExist {
		return ErrAttemptToAddNonExistentNode
	}
	if err != nil {
		return err
	}
	if n.ClusterID() != nil {
		return ErrAttemptToAddAlreadyAssignedNode
	}
	n.SetClusterID(&id)
	if err := Update(m.db, n); err != nil {
		return err
	}
	slotdb.WriteBool(m.db, params.NodesAddress, clusterNodeSlot(id, key), true)
	slotdb.WriteUint64(m.db, params.NodesAddress, clusterCountSlot(id), m.NodeCount(id)+1)
	return nil
}

// RemoveNode clears the assignment of key to cluster id.
func (m *ClusterManager) RemoveNode(id common.ClusterID, key common.NodePubKey) error {
	n, err := Get(m.db, key)
	if err == ErrNodeDoesNotExist {
		return ErrAttemptToRemoveNonExistentNode
	}
	if err != nil {
		return err
	}
	if cur := n.ClusterID(); cur == nil || *cur != id {
		return ErrAttemptToRemoveNotAssignedNode
	}
	n.SetClusterID(nil)
	if err := Update(m.db, n); err != nil {
		return err
	}
	slotdb.WriteBool(m.db, params.NodesAddress, clusterNodeSlot(id, key), false)
	slotdb.WriteUint64(m.db, params.NodesAddress, clusterCountSlot(id), m.NodeCount(id)-1)
	return nil
}
