package staking

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/vm"
	"github.com/tos-network/ddc/internal/slotdb"
	"github.com/tos-network/ddc/params"
)

// --- slot derivation ---

func stakingSlot(tag string, key []byte) common.Hash {
	return slotdb.Slot(tag, key)
}

func bondedSlot(stash common.Address) common.Hash      { return stakingSlot("bonded", stash[:]) }
func ledgerSlot(controller common.Address) common.Hash { return stakingSlot("ledger", controller[:]) }
func nodesSlot(key common.NodePubKey) common.Hash      { return stakingSlot("nodes", key.Bytes()) }
func providersSlot(stash common.Address) common.Hash   { return stakingSlot("providers", stash[:]) }
func membershipSlot(stash common.Address) common.Hash  { return stakingSlot("membership", stash[:]) }
func chillSlot(stash common.Address) common.Hash       { return stakingSlot("chill", stash[:]) }
func clusterManagersSlot() common.Hash                 { return stakingSlot("clusterManagers", nil) }

func membersSet(id common.ClusterID, role Role) slotdb.AddressSet {
	return slotdb.AddressSet{
		Owner: params.StakingAddress,
		Base:  slotdb.Slot("members", id[:], []byte{byte(role)}),
	}
}

func managersSet() slotdb.AddressSet {
	return slotdb.AddressSet{Owner: params.StakingAddress, Base: clusterManagersSlot()}
}

// --- stash -> controller ---

// Bonded returns the controller of stash.
func Bonded(db vm.StateDB, stash common.Address) (common.Address, bool) {
	c := slotdb.ReadAddress(db, params.StakingAddress, bondedSlot(stash))
	return c, !c.IsZero()
}

func writeBonded(db vm.StateDB, stash, controller common.Address) {
	slotdb.WriteAddress(db, params.StakingAddress, bondedSlot(stash), controller)
}

// --- controller -> ledger ---

type unlockChunkRLP struct {
	Value *big.Int
	Era   uint64
}

type ledgerRLP struct {
	Stash     common.Address
	Total     *big.Int
	Active    *big.Int
	Unlocking []unlockChunkRLP
}

// Ledger loads the ledger kept for controller.
func Ledger(db vm.StateDB, controller common.Address) (*StakingLedger, error) {
	var enc ledgerRLP
	ok, err := slotdb.ReadRLP(db, params.StakingAddress, ledgerSlot(controller), &enc)
	if err != nil {
		return nil, fmt.Errorf("staking: corrupt ledger %s: %w", controller, err)
	}
	if !ok {
		return nil, ErrNotController
	}
	l := &StakingLedger{
		Stash:  enc.Stash,
		Total:  new(uint256.Int),
		Active: new(uint256.Int),
	}
	l.Total.SetFromBig(enc.Total)
	l.Active.SetFromBig(enc.Active)
	for _, c := range enc.Unlocking {
		v := new(uint256.Int)
		v.SetFromBig(c.Value)
		l.Unlocking = append(l.Unlocking, UnlockChunk{Value: v, Era: c.Era})
	}
	return l, nil
}

func hasLedger(db vm.StateDB, controller common.Address) bool {
	return slotdb.ReadUint64(db, params.StakingAddress, ledgerSlot(controller)) != 0
}

func writeLedger(db vm.StateDB, controller common.Address, l *StakingLedger) error {
	enc := ledgerRLP{
		Stash:  l.Stash,
		Total:  l.Total.ToBig(),
		Active: l.Active.ToBig(),
	}
	for _, c := range l.Unlocking {
		enc.Unlocking = append(enc.Unlocking, unlockChunkRLP{Value: c.Value.ToBig(), Era: c.Era})
	}
	return slotdb.WriteRLP(db, params.StakingAddress, ledgerSlot(controller), &enc)
}

func deleteLedger(db vm.StateDB, controller common.Address) {
	slotdb.DeleteBytes(db, params.StakingAddress, ledgerSlot(controller))
}

// --- node <-> stash ---

// NodeStash returns the stash a node is bonded to.
func NodeStash(db vm.StateDB, key common.NodePubKey) (common.Address, bool) {
	s := slotdb.ReadAddress(db, params.StakingAddress, nodesSlot(key))
	return s, !s.IsZero()
}

// StashNode returns the node a stash is bonded with.
func StashNode(db vm.StateDB, stash common.Address) (common.NodePubKey, bool) {
	base := providersSlot(stash)
	kind := common.NodeType(slotdb.ReadUint64(db, params.StakingAddress, slotdb.Field(base, "type")))
	if kind == 0 {
		return common.NodePubKey{}, false
	}
	return common.NodePubKey{Type: kind, Key: db.GetState(params.StakingAddress, base)}, true
}

func writeNodeBond(db vm.StateDB, stash common.Address, key common.NodePubKey) {
	slotdb.WriteAddress(db, params.StakingAddress, nodesSlot(key), stash)
	base := providersSlot(stash)
	db.SetState(params.StakingAddress, base, key.Key)
	slotdb.WriteUint64(db, params.StakingAddress, slotdb.Field(base, "type"), uint64(key.Type))
}

func deleteNodeBond(db vm.StateDB, stash common.Address, key common.NodePubKey) {
	db.SetState(params.StakingAddress, nodesSlot(key), common.Hash{})
	base := providersSlot(stash)
	db.SetState(params.StakingAddress, base, common.Hash{})
	db.SetState(params.StakingAddress, slotdb.Field(base, "type"), common.Hash{})
}

// --- cluster membership ---

// Membership returns the role and cluster a stash currently serves.
func Membership(db vm.StateDB, stash common.Address) (Role, common.ClusterID, bool) {
	word := db.GetState(params.StakingAddress, membershipSlot(stash))
	role := Role(word[0])
	if role == RoleNone {
		return RoleNone, common.ClusterID{}, false
	}
	return role, common.BytesToClusterID(word[common.HashLength-common.ClusterIDLength:]), true
}

// Members returns the stashes serving cluster id in role.
func Members(db vm.StateDB, id common.ClusterID, role Role) []common.Address {
	return membersSet(id, role).Members(db)
}

func addMember(db vm.StateDB, stash common.Address, id common.ClusterID, role Role) {
	var word common.Hash
	word[0] = byte(role)
	copy(word[common.HashLength-common.ClusterIDLength:], id[:])
	db.SetState(params.StakingAddress, membershipSlot(stash), word)
	membersSet(id, role).Add(db, stash)
}

func removeMember(db vm.StateDB, stash common.Address, id common.ClusterID, role Role) {
	db.SetState(params.StakingAddress, membershipSlot(stash), common.Hash{})
	membersSet(id, role).SwapRemove(db, stash)
}

// --- chill markers ---

// ChillRequestedAt returns the era a pending chill was announced at.
func ChillRequestedAt(db vm.StateDB, stash common.Address) (uint64, bool) {
	word := db.GetState(params.StakingAddress, chillSlot(stash))
	if word[0] == 0 {
		return 0, false
	}
	return binary.BigEndian.Uint64(word[common.HashLength-8:]), true
}

func writeChill(db vm.StateDB, stash common.Address, era uint64) {
	var word common.Hash
	word[0] = 1
	binary.BigEndian.PutUint64(word[common.HashLength-8:], era)
	db.SetState(params.StakingAddress, chillSlot(stash), word)
}

func clearChill(db vm.StateDB, stash common.Address) {
	db.SetState(params.StakingAddress, chillSlot(stash), common.Hash{})
}

// --- cluster manager allow-list ---

// ClusterManagers returns the allow-list in insertion order.
func ClusterManagers(db vm.StateDB) []common.Address {
	return managersSet().Members(db)
}

// IsClusterManager reports whether account may administer cluster nodes.
func IsClusterManager(db vm.StateDB, account common.Address) bool {
	return managersSet().Contains(db, account)
}
