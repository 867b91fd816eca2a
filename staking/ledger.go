package staking

import (
	"fmt"
	"sort"

	"github.com/holiman/uint256"

	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/params"
)

// UnlockChunk is stake that left the active balance and becomes withdrawable
// at Era.
type UnlockChunk struct {
	Value *uint256.Int
	Era   uint64
}

// StakingLedger is the balance record kept per controller. Total always
// equals Active plus the unlocking values, and Unlocking is sorted by
// strictly increasing era.
type StakingLedger struct {
	Stash     common.Address
	Total     *uint256.Int
	Active    *uint256.Int
	Unlocking []UnlockChunk
}

func newLedger(stash common.Address, amount *uint256.Int) *StakingLedger {
	return &StakingLedger{
		Stash:  stash,
		Total:  new(uint256.Int).Set(amount),
		Active: new(uint256.Int).Set(amount),
	}
}

// Copy returns a deep copy of the ledger.
func (l *StakingLedger) Copy() *StakingLedger {
	cpy := &StakingLedger{
		Stash:  l.Stash,
		Total:  new(uint256.Int).Set(l.Total),
		Active: new(uint256.Int).Set(l.Active),
	}
	for _, c := range l.Unlocking {
		cpy.Unlocking = append(cpy.Unlocking, UnlockChunk{Value: new(uint256.Int).Set(c.Value), Era: c.Era})
	}
	return cpy
}

// unbondable returns how much of value can leave the active balance.
func (l *StakingLedger) unbondable(value *uint256.Int) *uint256.Int {
	if value.Gt(l.Active) {
		return new(uint256.Int).Set(l.Active)
	}
	return new(uint256.Int).Set(value)
}

// unlock moves value from Active into a chunk maturing at era, merging with
// an existing chunk of the same era. The ledger is untouched on error.
func (l *StakingLedger) unlock(value *uint256.Int, era uint64) error {
	i := sort.Search(len(l.Unlocking), func(i int) bool { return l.Unlocking[i].Era >= era })
	if i < len(l.Unlocking) && l.Unlocking[i].Era == era {
		l.Unlocking[i].Value = new(uint256.Int).Add(l.Unlocking[i].Value, value)
	} else {
		if len(l.Unlocking) >= params.MaxUnlockingChunks {
			return ErrNoMoreChunks
		}
		l.Unlocking = append(l.Unlocking, UnlockChunk{})
		copy(l.Unlocking[i+1:], l.Unlocking[i:])
		l.Unlocking[i] = UnlockChunk{Value: new(uint256.Int).Set(value), Era: era}
	}
	l.Active = new(uint256.Int).Sub(l.Active, value)
	return nil
}

// consolidateUnlocked drops every chunk matured at era and returns their sum.
func (l *StakingLedger) consolidateUnlocked(era uint64) *uint256.Int {
	withdrawn := new(uint256.Int)
	n := 0
	for n < len(l.Unlocking) && l.Unlocking[n].Era <= era {
		withdrawn.Add(withdrawn, l.Unlocking[n].Value)
		n++
	}
	if n == 0 {
		return withdrawn
	}
	l.Unlocking = append([]UnlockChunk(nil), l.Unlocking[n:]...)
	l.Total = new(uint256.Int).Sub(l.Total, withdrawn)
	return withdrawn
}

// Check verifies the ledger invariants.
func (l *StakingLedger) Check() error {
	sum := new(uint256.Int).Set(l.Active)
	for i, c := range l.Unlocking {
		if c.Value.IsZero() {
			return fmt.Errorf("chunk %d is empty", i)
		}
		if i > 0 && c.Era <= l.Unlocking[i-1].Era {
			return fmt.Errorf("chunk %d era %d not after era %d", i, c.Era, l.Unlocking[i-1].Era)
		}
		sum.Add(sum, c.Value)
	}
	if !sum.Eq(l.Total) {
		return fmt.Errorf("total %s != active plus unlocking %s", l.Total.ToBig(), sum.ToBig())
	}
	return nil
}
