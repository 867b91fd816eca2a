package staking

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/holiman/uint256"
	"pgregory.net/rapid"

	"github.com/tos-network/ddc/common"
)

var dump = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}

// TestLedgerInvariantProperty drives a ledger through random unbond and
// withdraw steps with non-decreasing eras and checks that the balance
// identity and chunk ordering always hold.
func TestLedgerInvariantProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Uint64Range(1, 1_000_000).Draw(t, "initial")
		l := newLedger(common.Address{1}, uint256.NewInt(initial))
		era := uint64(0)

		steps := rapid.IntRange(1, 80).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			era += rapid.Uint64Range(0, 3).Draw(t, "advance")
			before := l.Copy()

			if rapid.Bool().Draw(t, "unbond") {
				value := uint256.NewInt(rapid.Uint64Range(0, initial).Draw(t, "value"))
				delay := rapid.Uint64Range(0, 20).Draw(t, "delay")
				move := l.unbondable(value)
				if move.IsZero() {
					continue
				}
				if err := l.unlock(move, era+delay); err != nil {
					if err != ErrNoMoreChunks {
						t.Fatalf("unexpected error %v", err)
					}
					if dump.Sdump(l) != dump.Sdump(before) {
						t.Fatalf("failed unlock changed the ledger:\n%s", dump.Sdump(l))
					}
					continue
				}
				if !l.Total.Eq(before.Total) {
					t.Fatalf("unbond changed total: %s -> %s", before.Total.ToBig(), l.Total.ToBig())
				}
			} else {
				withdrawn := l.consolidateUnlocked(era)
				for _, c := range l.Unlocking {
					if c.Era <= era {
						t.Fatalf("matured chunk survived withdrawal at era %d:\n%s", era, dump.Sdump(l))
					}
				}
				expect := new(uint256.Int).Sub(before.Total, withdrawn)
				if !l.Total.Eq(expect) {
					t.Fatalf("total %s, want %s", l.Total.ToBig(), expect.ToBig())
				}
			}
			if err := l.Check(); err != nil {
				t.Fatalf("invariant broken after step %d: %v\n%s", i, err, dump.Sdump(l))
			}
		}
	})
}

func TestLedgerCheckDetectsDrift(t *testing.T) {
	l := newLedger(common.Address{1}, uint256.NewInt(10))
	if err := l.unlock(uint256.NewInt(4), 3); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if err := l.Check(); err != nil {
		t.Fatalf("healthy ledger: %v", err)
	}
	bad := l.Copy()
	bad.Active.AddUint64(bad.Active, 1)
	if bad.Check() == nil {
		t.Fatalf("total drift not detected")
	}
	bad = l.Copy()
	bad.Unlocking = append(bad.Unlocking, UnlockChunk{Value: uint256.NewInt(1), Era: 3})
	bad.Total.AddUint64(bad.Total, 1)
	if bad.Check() == nil {
		t.Fatalf("duplicate era not detected")
	}
	// Copies are deep.
	cpy := l.Copy()
	cpy.Unlocking[0].Value.SetUint64(99)
	if l.Unlocking[0].Value.Uint64() != 4 {
		t.Fatalf("copy shares chunk values")
	}
}
