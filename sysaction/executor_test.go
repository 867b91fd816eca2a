package sysaction

import (
	"errors"
	"testing"

	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/core/rawdb"
	"github.com/tos-network/ddc/core/state"
)

var (
	testOwner = common.HexToAddress("0x77")
	testSlot  = common.BytesToHash([]byte("slot"))
	errHalf   = errors.New("failed after first write")
)

// halfWriter writes one word and then fails, to exercise the revert path.
type halfWriter struct{}

func (halfWriter) CanHandle(kind ActionKind) bool { return kind == "TEST_HALF" || kind == "TEST_OK" }

func (halfWriter) Handle(ctx *Context, sa *SysAction) error {
	ctx.StateDB.SetState(testOwner, testSlot, common.BytesToHash([]byte{1}))
	if sa.Action == "TEST_HALF" {
		return errHalf
	}
	return nil
}

func newTestContext() *Context {
	st, _ := state.New(state.NewDatabase(rawdb.NewMemoryDatabase()))
	return &Context{From: common.HexToAddress("0x01"), Era: 1, StateDB: st}
}

func TestApplyRevertsOnError(t *testing.T) {
	r := &Registry{}
	r.Register(halfWriter{})
	ctx := newTestContext()

	if err := r.Apply(ctx, &SysAction{Action: "TEST_HALF"}); !errors.Is(err, errHalf) {
		t.Fatalf("want errHalf, got %v", err)
	}
	if w := ctx.StateDB.GetState(testOwner, testSlot); !w.IsZero() {
		t.Fatalf("failed action left state behind: %x", w)
	}
	if err := r.Apply(ctx, &SysAction{Action: "TEST_OK"}); err != nil {
		t.Fatalf("ok action: %v", err)
	}
	if w := ctx.StateDB.GetState(testOwner, testSlot); w.IsZero() {
		t.Fatalf("successful action lost its write")
	}
}

func TestApplyUnknownAction(t *testing.T) {
	r := &Registry{}
	if err := r.Apply(newTestContext(), &SysAction{Action: "NOPE"}); err == nil {
		t.Fatalf("unknown action accepted")
	}
}
