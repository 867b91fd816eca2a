package staking

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/tos-network/ddc/cluster"
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/vm"
	"github.com/tos-network/ddc/log"
	"github.com/tos-network/ddc/nodes"
)

// Bond locks amount of stash's collateral under controller and binds the
// stash to a node.
func Bond(db vm.StateDB, stash, controller common.Address, key common.NodePubKey, amount *uint256.Int) error {
	// ── Validation phase ─────────────────────────────────────────────────────
	// The zero account marks an absent bond, so it can be neither side of one.
	if stash.IsZero() || controller.IsZero() {
		return ErrInvalidAccount
	}
	if _, ok := Bonded(db, stash); ok {
		return ErrAlreadyBonded
	}
	if hasLedger(db, controller) {
		return ErrControllerInUse
	}
	if _, ok := NodeStash(db, key); ok {
		return ErrNodeAlreadyBonded
	}
	if amount.IsZero() {
		return ErrInsufficientBond
	}

	// ── Mutation phase ───────────────────────────────────────────────────────
	writeBonded(db, stash, controller)
	writeNodeBond(db, stash, key)
	if err := writeLedger(db, controller, newLedger(stash, amount)); err != nil {
		return err
	}
	log.Trace("Stash bonded", "stash", stash, "controller", controller, "node", key, "amount", amount.ToBig())
	return nil
}

// unbondingDelay returns how many eras stake of stash stays locked after
// unbonding: the delay of the cluster the stash serves, else of the cluster
// its node is assigned to, else none.
func unbondingDelay(db vm.StateDB, clusters cluster.Visitor, stash common.Address) (uint64, error) {
	if role, id, ok := Membership(db, stash); ok {
		return clusters.GetUnbondingDelay(id, role.NodeType())
	}
	key, ok := StashNode(db, stash)
	if !ok {
		return 0, nil
	}
	n, err := nodes.Get(db, key)
	if err == nodes.ErrNodeDoesNotExist {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if id := n.ClusterID(); id != nil {
		return clusters.GetUnbondingDelay(*id, n.Type())
	}
	return 0, nil
}

// saturatingAdd returns a+b, capped at math.MaxUint64.
func saturatingAdd(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return math.MaxUint64
}

// Unbond schedules up to value of the active stake for withdrawal once the
// unbonding delay has passed.
func Unbond(db vm.StateDB, clusters cluster.Visitor, controller common.Address, value *uint256.Int, era uint64) error {
	l, err := Ledger(db, controller)
	if err != nil {
		return err
	}
	move := l.unbondable(value)
	if move.IsZero() {
		return nil
	}
	// A serving stash must keep the cluster bond size active.
	if role, id, ok := Membership(db, l.Stash); ok {
		bond, err := clusters.GetBondSize(id, role.NodeType())
		if err != nil {
			return err
		}
		if new(uint256.Int).Sub(l.Active, move).Lt(bond) {
			return ErrInsufficientBond
		}
	}
	delay, err := unbondingDelay(db, clusters, l.Stash)
	if err != nil {
		return err
	}
	unlockEra := saturatingAdd(era, delay)
	if err := l.unlock(move, unlockEra); err != nil {
		return err
	}
	log.Trace("Stake unbonded", "controller", controller, "value", move.ToBig(), "unlockEra", unlockEra)
	return writeLedger(db, controller, l)
}

// WithdrawUnbonded releases every unlocking chunk matured at era. A ledger
// left empty is torn down together with its bonds.
func WithdrawUnbonded(db vm.StateDB, controller common.Address, era uint64) error {
	l, err := Ledger(db, controller)
	if err != nil {
		return err
	}
	withdrawn := l.consolidateUnlocked(era)
	if withdrawn.IsZero() {
		return nil
	}
	if !l.Total.IsZero() {
		log.Trace("Unbonded stake withdrawn", "controller", controller, "value", withdrawn.ToBig())
		return writeLedger(db, controller, l)
	}
	if err := killStash(db, controller, l.Stash); err != nil {
		return err
	}
	log.Trace("Stash fully withdrawn", "stash", l.Stash, "controller", controller, "value", withdrawn.ToBig())
	return nil
}

// killStash removes every record of stash.
func killStash(db vm.StateDB, controller, stash common.Address) error {
	if role, id, ok := Membership(db, stash); ok {
		if err := leaveCluster(db, stash, role, id); err != nil {
			return err
		}
	}
	clearChill(db, stash)
	if key, ok := StashNode(db, stash); ok {
		deleteNodeBond(db, stash, key)
	}
	writeBonded(db, stash, common.Address{})
	deleteLedger(db, controller)
	return nil
}

// SetController re-keys the ledger of stash to a new controller.
func SetController(db vm.StateDB, stash, controller common.Address) error {
	if controller.IsZero() {
		return ErrInvalidAccount
	}
	old, ok := Bonded(db, stash)
	if !ok {
		return ErrNotStash
	}
	if hasLedger(db, controller) {
		return ErrControllerInUse
	}
	l, err := Ledger(db, old)
	if err != nil {
		return err
	}
	deleteLedger(db, old)
	if err := writeLedger(db, controller, l); err != nil {
		return err
	}
	writeBonded(db, stash, controller)
	return nil
}

// SetNode binds stash to a different node. A serving stash must chill first.
func SetNode(db vm.StateDB, stash common.Address, key common.NodePubKey) error {
	if _, ok := Bonded(db, stash); !ok {
		return ErrNotStash
	}
	if other, ok := NodeStash(db, key); ok && other != stash {
		return ErrNodeAlreadyBonded
	}
	if _, _, ok := Membership(db, stash); ok {
		return ErrAlreadyInRole
	}
	old, ok := StashNode(db, stash)
	if ok && old == key {
		return nil
	}
	if ok {
		deleteNodeBond(db, stash, old)
	}
	writeNodeBond(db, stash, key)
	return nil
}
