package staking

import (
	"github.com/tos-network/ddc/cluster"
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/vm"
	"github.com/tos-network/ddc/log"
	"github.com/tos-network/ddc/nodes"
)

// Store declares the intention of the controller's stash to run a storage
// node of cluster id.
func Store(db vm.StateDB, clusters cluster.Visitor, controller common.Address, id common.ClusterID) error {
	return participate(db, clusters, controller, id, RoleStorage)
}

// Serve declares the intention of the controller's stash to run a CDN node
// of cluster id.
func Serve(db vm.StateDB, clusters cluster.Visitor, controller common.Address, id common.ClusterID) error {
	return participate(db, clusters, controller, id, RoleEdge)
}

func participate(db vm.StateDB, clusters cluster.Visitor, controller common.Address, id common.ClusterID, role Role) error {
	// ── Validation phase ─────────────────────────────────────────────────────
	l, err := Ledger(db, controller)
	if err != nil {
		return err
	}
	bond, err := clusters.GetBondSize(id, role.NodeType())
	if err != nil {
		return err
	}
	if l.Active.Lt(bond) {
		return ErrInsufficientBond
	}
	stash := l.Stash
	if cur, curID, ok := Membership(db, stash); ok {
		// Switching cluster or role requires chilling first. Repeating the
		// current one cancels a pending chill.
		if cur != role || curID != id {
			return ErrAlreadyInRole
		}
		if _, pending := ChillRequestedAt(db, stash); pending {
			clearChill(db, stash)
			log.Trace("Chill cancelled", "stash", stash, "cluster", id)
		}
		return nil
	}
	key, ok := StashNode(db, stash)
	if !ok {
		return nodes.ErrNodeDoesNotExist
	}
	n, err := nodes.Get(db, key)
	if err != nil {
		return err
	}
	if n.Type() != role.NodeType() {
		return ErrNodeKindMismatch
	}
	assigned := n.ClusterID()
	if assigned != nil && *assigned != id {
		return nodes.ErrNodeIsAssignedToCluster
	}

	// ── Mutation phase ───────────────────────────────────────────────────────
	if assigned == nil {
		if err := nodes.NewClusterManager(db).AddNode(id, key); err != nil {
			return err
		}
	}
	addMember(db, stash, id, role)
	log.Trace("Stash joined cluster", "stash", stash, "cluster", id, "role", role)
	return nil
}

// Chill takes the controller's stash out of its cluster in two steps. The
// first call records the era; a call at least chill-delay eras later
// removes the membership. Calls in between change nothing.
func Chill(db vm.StateDB, clusters cluster.Visitor, controller common.Address, era uint64) error {
	l, err := Ledger(db, controller)
	if err != nil {
		return err
	}
	role, id, ok := Membership(db, l.Stash)
	if !ok {
		return ErrNotActive
	}
	requested, pending := ChillRequestedAt(db, l.Stash)
	if !pending {
		writeChill(db, l.Stash, era)
		log.Trace("Chill requested", "stash", l.Stash, "cluster", id, "era", era)
		return nil
	}
	delay, err := clusters.GetChillDelay(id, role.NodeType())
	if err != nil {
		return err
	}
	if era < saturatingAdd(requested, delay) {
		return nil
	}
	if err := leaveCluster(db, l.Stash, role, id); err != nil {
		return err
	}
	log.Trace("Stash chilled", "stash", l.Stash, "cluster", id, "era", era)
	return nil
}

// leaveCluster drops the membership of stash and unassigns its node.
func leaveCluster(db vm.StateDB, stash common.Address, role Role, id common.ClusterID) error {
	if key, ok := StashNode(db, stash); ok {
		m := nodes.NewClusterManager(db)
		if m.ContainsNode(id, key) {
			if err := m.RemoveNode(id, key); err != nil {
				return err
			}
		}
	}
	removeMember(db, stash, id, role)
	clearChill(db, stash)
	return nil
}
