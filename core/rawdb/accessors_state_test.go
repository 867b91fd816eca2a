package rawdb

import (
	"testing"

	"github.com/tos-network/ddc/common"
	"github.com/tos-network/ddc/ddcdb/memorydb"
)

func TestStorageWordRoundTrip(t *testing.T) {
	db := memorydb.New()
	addr := common.HexToAddress("0x01")
	slot := common.BytesToHash([]byte("slot"))

	if got, err := ReadStorage(db, addr, slot); err != nil || !got.IsZero() {
		t.Fatalf("missing word = %x, %v; want zero", got, err)
	}
	val := common.BytesToHash([]byte{0xaa})
	WriteStorage(db, addr, slot, val)
	if got, _ := ReadStorage(db, addr, slot); got != val {
		t.Fatalf("word mismatch: have %x want %x", got, val)
	}
	WriteStorage(db, addr, slot, common.Hash{})
	if db.Len() != 0 {
		t.Fatalf("zero word left %d entries on disk", db.Len())
	}
}

func TestLastEra(t *testing.T) {
	db := memorydb.New()
	if _, ok := ReadLastEra(db); ok {
		t.Fatalf("fresh database reports an era")
	}
	WriteLastEra(db, 42)
	if era, ok := ReadLastEra(db); !ok || era != 42 {
		t.Fatalf("ReadLastEra = %d, %v; want 42, true", era, ok)
	}
}
