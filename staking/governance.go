package staking

import (
	"github.com/tos-network/ddc/cluster"
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/vm"
	"github.com/tos-network/ddc/log"
	"github.com/tos-network/ddc/nodes"
	"github.com/tos-network/ddc/params"
)

// AllowClusterManager adds account to the cluster manager allow-list.
// Only the privileged origin may call it; re-adding is a no-op.
func AllowClusterManager(db vm.StateDB, privileged bool, account common.Address) error {
	if !privileged {
		return ErrUnauthorized
	}
	set := managersSet()
	if set.Contains(db, account) {
		return nil
	}
	if set.Len(db) >= params.MaxClusterManagers {
		return ErrTooManyClusterManagers
	}
	set.Add(db, account)
	log.Trace("Cluster manager allowed", "account", account)
	return nil
}

// DisallowClusterManager removes account from the allow-list, keeping the
// order of the remaining entries. Removing an absent account is a no-op.
func DisallowClusterManager(db vm.StateDB, privileged bool, account common.Address) error {
	if !privileged {
		return ErrUnauthorized
	}
	if managersSet().Remove(db, account) {
		log.Trace("Cluster manager disallowed", "account", account)
	}
	return nil
}

// AddNodeToCluster assigns a node to a cluster on behalf of an allowed
// cluster manager.
func AddNodeToCluster(db vm.StateDB, clusters cluster.Visitor, caller common.Address, id common.ClusterID, key common.NodePubKey) error {
	if !IsClusterManager(db, caller) {
		return ErrUnauthorized
	}
	if err := clusters.EnsureCluster(id); err != nil {
		return err
	}
	return nodes.NewClusterManager(db).AddNode(id, key)
}

// RemoveNodeFromCluster unassigns a node on behalf of an allowed cluster
// manager. The node of a serving stash stays until the stash has chilled.
func RemoveNodeFromCluster(db vm.StateDB, clusters cluster.Visitor, caller common.Address, id common.ClusterID, key common.NodePubKey) error {
	if !IsClusterManager(db, caller) {
		return ErrUnauthorized
	}
	if err := clusters.EnsureCluster(id); err != nil {
		return err
	}
	if stash, ok := NodeStash(db, key); ok {
		if _, memberOf, ok := Membership(db, stash); ok && memberOf == id {
			return ErrAlreadyInRole
		}
	}
	return nodes.NewClusterManager(db).RemoveNode(id, key)
}
