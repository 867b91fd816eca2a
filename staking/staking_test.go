package staking

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/tos-network/ddc/cluster"
	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/rawdb"
	"github.com/tos-network/ddc/core/state"
	"github.com/tos-network/ddc/nodes"
	"github.com/tos-network/ddc/sysaction"
)

var (
	stashA   = common.Address{0xa1}
	ctrlB    = common.Address{0xb1}
	stashC   = common.Address{0xa2}
	ctrlD    = common.Address{0xb2}
	provider = common.Address{0xf0}
	manager  = common.Address{0xe0}

	cdnK  = common.NodePubKey{Type: common.CDNNode, Key: common.Hash{0x01}}
	cdnL  = common.NodePubKey{Type: common.CDNNode, Key: common.Hash{0x02}}
	storS = common.NodePubKey{Type: common.StorageNode, Key: common.Hash{0x03}}

	clusterC    = common.ClusterID{0xcc}
	clusterE    = common.ClusterID{0xee}
	freeCluster = common.ClusterID{0xf1} // bond size zero
	bareCluster = common.ClusterID{0xba} // no governance params
	noCluster   = common.ClusterID{0x99} // not registered
)

// newTestState creates a fresh in-memory StateDB for tests.
func newTestState() *state.StateDB {
	s, _ := state.New(state.NewDatabase(rawdb.NewMemoryDatabase()))
	return s
}

func govParams(bond uint64) *cluster.GovParams {
	return &cluster.GovParams{
		BondingParams: cluster.BondingParams{
			StorageBondSize:       uint256.NewInt(bond),
			StorageChillDelay:     50,
			StorageUnbondingDelay: 10,
			CDNBondSize:           uint256.NewInt(bond),
			CDNChillDelay:         50,
			CDNUnbondingDelay:     10,
		},
	}
}

func newVisitor() *cluster.StaticVisitor {
	v := cluster.NewStaticVisitor()
	v.AddCluster(clusterC, common.Address{}, govParams(200))
	v.AddCluster(clusterE, common.Address{}, govParams(200))
	v.AddCluster(freeCluster, common.Address{}, govParams(0))
	v.AddCluster(bareCluster, common.Address{}, nil)
	return v
}

var visitor = newVisitor()

// newCtx creates a sysaction.Context for from at era.
func newCtx(st *state.StateDB, from common.Address, era uint64) *sysaction.Context {
	return &sysaction.Context{From: from, Era: era, StateDB: st, Clusters: visitor}
}

func exec(t *testing.T, ctx *sysaction.Context, kind sysaction.ActionKind, payload interface{}) error {
	t.Helper()
	data, err := sysaction.MakeSysAction(kind, payload)
	if err != nil {
		t.Fatalf("encode %s: %v", kind, err)
	}
	return sysaction.Execute(ctx, data)
}

func mustCreateNode(t *testing.T, st *state.StateDB, key common.NodePubKey) {
	t.Helper()
	n, err := nodes.New(key, provider, nodes.NodeParams{Type: key.Type})
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	if err := nodes.Create(st, n); err != nil {
		t.Fatalf("create node: %v", err)
	}
}

func mustBond(t *testing.T, st *state.StateDB, stash, controller common.Address, key common.NodePubKey, amount string) {
	t.Helper()
	err := exec(t, newCtx(st, stash, 0), sysaction.ActionStakeBond, sysaction.BondPayload{
		Controller: controller, NodePubKey: key, Amount: amount,
	})
	if err != nil {
		t.Fatalf("bond: %v", err)
	}
}

func mustLedger(t *testing.T, st *state.StateDB, controller common.Address) *StakingLedger {
	t.Helper()
	l, err := Ledger(st, controller)
	if err != nil {
		t.Fatalf("ledger of %v: %v", controller, err)
	}
	if err := l.Check(); err != nil {
		t.Fatalf("ledger invariant: %v", err)
	}
	return l
}

type chunk struct{ value, era uint64 }

func checkLedger(t *testing.T, l *StakingLedger, total, active uint64, unlocking ...chunk) {
	t.Helper()
	if l.Total.Uint64() != total || l.Active.Uint64() != active {
		t.Fatalf("ledger total/active: have %d/%d want %d/%d", l.Total.Uint64(), l.Active.Uint64(), total, active)
	}
	if len(l.Unlocking) != len(unlocking) {
		t.Fatalf("unlocking: have %d chunks want %d", len(l.Unlocking), len(unlocking))
	}
	for i, c := range unlocking {
		if l.Unlocking[i].Value.Uint64() != c.value || l.Unlocking[i].Era != c.era {
			t.Fatalf("chunk %d: have {%d, %d} want {%d, %d}", i,
				l.Unlocking[i].Value.Uint64(), l.Unlocking[i].Era, c.value, c.era)
		}
	}
}

func unbond(t *testing.T, st *state.StateDB, controller common.Address, amount string, era uint64) error {
	return exec(t, newCtx(st, controller, era), sysaction.ActionStakeUnbond, sysaction.AmountPayload{Amount: amount})
}

func withdraw(t *testing.T, st *state.StateDB, controller common.Address, era uint64) error {
	return exec(t, newCtx(st, controller, era), sysaction.ActionStakeWithdrawUnbonded, nil)
}

func serve(t *testing.T, st *state.StateDB, controller common.Address, id common.ClusterID, era uint64) error {
	return exec(t, newCtx(st, controller, era), sysaction.ActionStakeServe, sysaction.ClusterPayload{ClusterID: id})
}

func store(t *testing.T, st *state.StateDB, controller common.Address, id common.ClusterID, era uint64) error {
	return exec(t, newCtx(st, controller, era), sysaction.ActionStakeStore, sysaction.ClusterPayload{ClusterID: id})
}

func chill(t *testing.T, st *state.StateDB, controller common.Address, era uint64) error {
	return exec(t, newCtx(st, controller, era), sysaction.ActionStakeChill, nil)
}

// TestBondUnbondWithdraw walks a ledger through bond, unbond and withdrawal
// with a ten era unbonding delay.
func TestBondUnbondWithdraw(t *testing.T) {
	st := newTestState()
	mustCreateNode(t, st, cdnK)
	if err := nodes.NewClusterManager(st).AddNode(clusterC, cdnK); err != nil {
		t.Fatalf("assign node: %v", err)
	}
	mustBond(t, st, stashA, ctrlB, cdnK, "100")
	checkLedger(t, mustLedger(t, st, ctrlB), 100, 100)

	if err := unbond(t, st, ctrlB, "50", 5); err != nil {
		t.Fatalf("unbond: %v", err)
	}
	checkLedger(t, mustLedger(t, st, ctrlB), 100, 50, chunk{50, 15})

	if err := withdraw(t, st, ctrlB, 14); err != nil {
		t.Fatalf("withdraw at 14: %v", err)
	}
	checkLedger(t, mustLedger(t, st, ctrlB), 100, 50, chunk{50, 15})

	if err := withdraw(t, st, ctrlB, 15); err != nil {
		t.Fatalf("withdraw at 15: %v", err)
	}
	checkLedger(t, mustLedger(t, st, ctrlB), 50, 50)
}

func TestBondRecords(t *testing.T) {
	st := newTestState()
	mustBond(t, st, stashA, ctrlB, cdnK, "100")

	if c, ok := Bonded(st, stashA); !ok || c != ctrlB {
		t.Fatalf("Bonded: have %v, %v", c, ok)
	}
	if s, ok := NodeStash(st, cdnK); !ok || s != stashA {
		t.Fatalf("NodeStash: have %v, %v", s, ok)
	}
	if k, ok := StashNode(st, stashA); !ok || k != cdnK {
		t.Fatalf("StashNode: have %v, %v", k, ok)
	}
	if l := mustLedger(t, st, ctrlB); l.Stash != stashA {
		t.Fatalf("ledger stash: have %v", l.Stash)
	}
}

func TestBondErrors(t *testing.T) {
	st := newTestState()
	mustBond(t, st, stashA, ctrlB, cdnK, "100")

	tests := []struct {
		name    string
		stash   common.Address
		payload sysaction.BondPayload
		want    error
	}{
		{"stash bonded", stashA, sysaction.BondPayload{Controller: ctrlD, NodePubKey: cdnL, Amount: "1"}, ErrAlreadyBonded},
		{"controller paired", stashC, sysaction.BondPayload{Controller: ctrlB, NodePubKey: cdnL, Amount: "1"}, ErrControllerInUse},
		{"node bonded", stashC, sysaction.BondPayload{Controller: ctrlD, NodePubKey: cdnK, Amount: "1"}, ErrNodeAlreadyBonded},
		{"zero amount", stashC, sysaction.BondPayload{Controller: ctrlD, NodePubKey: cdnL, Amount: "0"}, ErrInsufficientBond},
	}
	for _, tt := range tests {
		err := exec(t, newCtx(st, tt.stash, 0), sysaction.ActionStakeBond, tt.payload)
		if err != tt.want {
			t.Errorf("%s: want %v, got %v", tt.name, tt.want, err)
		}
	}
	if !errors.Is(ErrAlreadyBonded, common.ErrAlreadyExists) {
		t.Errorf("ErrAlreadyBonded has the wrong category")
	}
	if _, ok := Bonded(st, stashC); ok {
		t.Fatalf("failed bonds left a record")
	}
	err := exec(t, newCtx(st, stashC, 0), sysaction.ActionStakeBond, sysaction.BondPayload{Controller: ctrlD, NodePubKey: cdnL, Amount: "ten"})
	if !errors.Is(err, sysaction.ErrInvalidSysAction) {
		t.Fatalf("malformed amount: got %v", err)
	}
}

func TestBondRejectsZeroAccounts(t *testing.T) {
	st := newTestState()

	// A payload without a controller decodes to the zero account.
	err := exec(t, newCtx(st, stashA, 0), sysaction.ActionStakeBond, map[string]interface{}{
		"node_pub_key": cdnK,
		"amount":       "100",
	})
	if err != ErrInvalidAccount || !errors.Is(err, common.ErrInvalidState) {
		t.Fatalf("omitted controller: want ErrInvalidAccount, got %v", err)
	}
	if _, err := Ledger(st, common.Address{}); err != ErrNotController {
		t.Fatalf("zero controller got a ledger: %v", err)
	}
	if _, ok := NodeStash(st, cdnK); ok {
		t.Fatalf("rejected bond left a node binding")
	}
	if err := Bond(st, common.Address{}, ctrlD, cdnL, uint256.NewInt(1)); err != ErrInvalidAccount {
		t.Fatalf("zero stash: want ErrInvalidAccount, got %v", err)
	}

	mustBond(t, st, stashA, ctrlB, cdnK, "100")

	// Moving the ledger to the zero account would make the stash look unbonded.
	err = exec(t, newCtx(st, stashA, 0), sysaction.ActionStakeSetController, sysaction.ControllerPayload{})
	if err != ErrInvalidAccount {
		t.Fatalf("zero controller: want ErrInvalidAccount, got %v", err)
	}
	if c, ok := Bonded(st, stashA); !ok || c != ctrlB {
		t.Fatalf("bonded controller: have %v, %v", c, ok)
	}
	checkLedger(t, mustLedger(t, st, ctrlB), 100, 100)

	err = exec(t, newCtx(st, stashA, 0), sysaction.ActionStakeBond, sysaction.BondPayload{Controller: ctrlD, NodePubKey: cdnL, Amount: "100"})
	if err != ErrAlreadyBonded {
		t.Fatalf("second bond: want ErrAlreadyBonded, got %v", err)
	}
	if _, err := Ledger(st, ctrlD); err != ErrNotController {
		t.Fatalf("second bond created a ledger: %v", err)
	}
}

func TestUnbondRules(t *testing.T) {
	st := newTestState()
	mustBond(t, st, stashA, ctrlB, cdnK, "100")

	if err := unbond(t, st, stashA, "10", 1); err != ErrNotController {
		t.Fatalf("unbond from stash: want ErrNotController, got %v", err)
	}
	// Unassigned node: no delay, chunks mature in the current era.
	if err := unbond(t, st, ctrlB, "10", 3); err != nil {
		t.Fatalf("unbond: %v", err)
	}
	if err := unbond(t, st, ctrlB, "5", 3); err != nil {
		t.Fatalf("unbond: %v", err)
	}
	if err := unbond(t, st, ctrlB, "5", 2); err != nil {
		t.Fatalf("unbond: %v", err)
	}
	checkLedger(t, mustLedger(t, st, ctrlB), 100, 80, chunk{5, 2}, chunk{15, 3})

	// Asking for more than is active moves what is left.
	if err := unbond(t, st, ctrlB, "1000", 4); err != nil {
		t.Fatalf("unbond all: %v", err)
	}
	checkLedger(t, mustLedger(t, st, ctrlB), 100, 0, chunk{5, 2}, chunk{15, 3}, chunk{80, 4})

	// Nothing active: a no-op.
	if err := unbond(t, st, ctrlB, "1", 9); err != nil {
		t.Fatalf("unbond nothing: %v", err)
	}
	checkLedger(t, mustLedger(t, st, ctrlB), 100, 0, chunk{5, 2}, chunk{15, 3}, chunk{80, 4})
}

func TestUnbondChunkLimit(t *testing.T) {
	st := newTestState()
	mustBond(t, st, stashA, ctrlB, cdnK, "1000")

	for era := uint64(1); era <= 32; era++ {
		if err := unbond(t, st, ctrlB, "1", era); err != nil {
			t.Fatalf("unbond at era %d: %v", era, err)
		}
	}
	err := unbond(t, st, ctrlB, "1", 33)
	if err != ErrNoMoreChunks || !errors.Is(err, common.ErrLimitExceeded) {
		t.Fatalf("33rd chunk: want ErrNoMoreChunks, got %v", err)
	}
	// Merging into an existing era is still possible.
	if err := unbond(t, st, ctrlB, "1", 32); err != nil {
		t.Fatalf("merge into era 32: %v", err)
	}
	l := mustLedger(t, st, ctrlB)
	if len(l.Unlocking) != 32 || l.Active.Uint64() != 967 {
		t.Fatalf("unexpected ledger: %d chunks, active %d", len(l.Unlocking), l.Active.Uint64())
	}
}

func TestWithdrawFullExit(t *testing.T) {
	st := newTestState()
	mustBond(t, st, stashA, ctrlB, cdnK, "100")

	if err := withdraw(t, st, stashA, 0); err != ErrNotController {
		t.Fatalf("withdraw from stash: want ErrNotController, got %v", err)
	}
	if err := unbond(t, st, ctrlB, "100", 7); err != nil {
		t.Fatalf("unbond: %v", err)
	}
	if err := withdraw(t, st, ctrlB, 7); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := Ledger(st, ctrlB); err != ErrNotController {
		t.Fatalf("ledger survived full exit: %v", err)
	}
	if _, ok := Bonded(st, stashA); ok {
		t.Fatalf("bond survived full exit")
	}
	if _, ok := NodeStash(st, cdnK); ok {
		t.Fatalf("node bond survived full exit")
	}
	if _, ok := StashNode(st, stashA); ok {
		t.Fatalf("provider record survived full exit")
	}
	// Everything can be reused.
	mustBond(t, st, stashA, ctrlB, cdnK, "1")
}

func TestWithdrawFullExitWhileServing(t *testing.T) {
	st := newTestState()
	mustCreateNode(t, st, cdnK)
	mustBond(t, st, stashA, ctrlB, cdnK, "100")
	if err := serve(t, st, ctrlB, freeCluster, 1); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if err := unbond(t, st, ctrlB, "100", 1); err != nil {
		t.Fatalf("unbond: %v", err)
	}
	if err := withdraw(t, st, ctrlB, 11); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, _, ok := Membership(st, stashA); ok {
		t.Fatalf("membership survived full exit")
	}
	if len(Members(st, freeCluster, RoleEdge)) != 0 {
		t.Fatalf("member set not cleared")
	}
	n, _ := nodes.Get(st, cdnK)
	if n.ClusterID() != nil {
		t.Fatalf("node still assigned after full exit")
	}
}

func TestSetController(t *testing.T) {
	st := newTestState()
	mustBond(t, st, stashA, ctrlB, cdnK, "100")
	mustBond(t, st, stashC, ctrlD, cdnL, "5")

	set := func(from, controller common.Address) error {
		return exec(t, newCtx(st, from, 0), sysaction.ActionStakeSetController, sysaction.ControllerPayload{Controller: controller})
	}
	if err := set(ctrlB, common.Address{0x42}); err != ErrNotStash {
		t.Fatalf("from controller: want ErrNotStash, got %v", err)
	}
	if err := set(stashA, ctrlD); err != ErrControllerInUse {
		t.Fatalf("taken controller: want ErrControllerInUse, got %v", err)
	}
	if err := set(stashA, ctrlB); err != ErrControllerInUse {
		t.Fatalf("same controller: want ErrControllerInUse, got %v", err)
	}
	newCtrl := common.Address{0x42}
	if err := set(stashA, newCtrl); err != nil {
		t.Fatalf("set controller: %v", err)
	}
	if _, err := Ledger(st, ctrlB); err != ErrNotController {
		t.Fatalf("old controller still has a ledger")
	}
	checkLedger(t, mustLedger(t, st, newCtrl), 100, 100)
	if c, _ := Bonded(st, stashA); c != newCtrl {
		t.Fatalf("bonded controller: have %v", c)
	}
}

func TestSetNode(t *testing.T) {
	st := newTestState()
	mustCreateNode(t, st, cdnK)
	mustBond(t, st, stashA, ctrlB, cdnK, "300")
	mustBond(t, st, stashC, ctrlD, cdnL, "5")

	set := func(from common.Address, key common.NodePubKey) error {
		return exec(t, newCtx(st, from, 0), sysaction.ActionStakeSetNode, sysaction.NodeKeyPayload{PubKey: key})
	}
	newKey := common.NodePubKey{Type: common.CDNNode, Key: common.Hash{0x77}}

	if err := set(ctrlB, newKey); err != ErrNotStash {
		t.Fatalf("from controller: want ErrNotStash, got %v", err)
	}
	if err := set(stashA, cdnL); err != ErrNodeAlreadyBonded {
		t.Fatalf("taken node: want ErrNodeAlreadyBonded, got %v", err)
	}
	if err := set(stashA, cdnK); err != nil {
		t.Fatalf("own node: %v", err)
	}
	if err := serve(t, st, ctrlB, clusterC, 1); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if err := set(stashA, newKey); err != ErrAlreadyInRole {
		t.Fatalf("while serving: want ErrAlreadyInRole, got %v", err)
	}

	if err := set(stashC, newKey); err != nil {
		t.Fatalf("set node: %v", err)
	}
	if _, ok := NodeStash(st, cdnL); ok {
		t.Fatalf("old node still bonded")
	}
	if s, _ := NodeStash(st, newKey); s != stashC {
		t.Fatalf("new node bonded to %v", s)
	}
	if k, _ := StashNode(st, stashC); k != newKey {
		t.Fatalf("stash node: have %v", k)
	}
}
