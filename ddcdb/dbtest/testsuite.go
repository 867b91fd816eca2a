// Package dbtest holds the behavioural suite every ddcdb.KeyValueStore
// implementation must pass.
package dbtest

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tos-network/ddc/ddcdb"
)

// TestDatabaseSuite runs a suite of tests against a KeyValueStore database
// implementation.
func TestDatabaseSuite(t *testing.T, New func() ddcdb.KeyValueStore) {
	t.Run("KeyValueOperations", func(t *testing.T) {
		db := New()
		defer db.Close()

		key := []byte("foo")
		if got, err := db.Has(key); err != nil || got {
			t.Fatalf("Has(%q) = %v, %v; want false", key, got, err)
		}
		if _, err := db.Get(key); !errors.Is(err, ddcdb.ErrNotFound) {
			t.Fatalf("Get(%q) error = %v; want ErrNotFound", key, err)
		}
		value := []byte("hello world")
		if err := db.Put(key, value); err != nil {
			t.Fatalf("Put: %v", err)
		}
		if got, err := db.Has(key); err != nil || !got {
			t.Fatalf("Has(%q) = %v, %v; want true", key, got, err)
		}
		got, err := db.Get(key)
		if err != nil || !bytes.Equal(got, value) {
			t.Fatalf("Get(%q) = %q, %v; want %q", key, got, err, value)
		}
		if err := db.Delete(key); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if got, err := db.Has(key); err != nil || got {
			t.Fatalf("Has(%q) after delete = %v, %v; want false", key, got, err)
		}
		if err := db.Delete([]byte("missing")); err != nil {
			t.Fatalf("deleting a missing key must succeed: %v", err)
		}
	})

	t.Run("Batch", func(t *testing.T) {
		db := New()
		defer db.Close()

		b := db.NewBatch()
		for _, k := range []string{"1", "2", "3", "4"} {
			if err := b.Put([]byte(k), []byte("v"+k)); err != nil {
				t.Fatal(err)
			}
		}
		if err := b.Delete([]byte("2")); err != nil {
			t.Fatal(err)
		}
		if has, _ := db.Has([]byte("1")); has {
			t.Fatalf("batch writes visible before Write")
		}
		if b.ValueSize() == 0 {
			t.Fatalf("batch size not tracked")
		}
		if err := b.Write(); err != nil {
			t.Fatalf("Write: %v", err)
		}
		for k, want := range map[string]bool{"1": true, "2": false, "3": true, "4": true} {
			if has, _ := db.Has([]byte(k)); has != want {
				t.Errorf("Has(%q) = %v; want %v", k, has, want)
			}
		}
		b.Reset()
		if b.ValueSize() != 0 {
			t.Fatalf("Reset kept size %d", b.ValueSize())
		}
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		db := New()
		defer db.Close()

		if err := db.Put([]byte("k"), []byte("value")); err != nil {
			t.Fatal(err)
		}
		got, _ := db.Get([]byte("k"))
		got[0] = 'X'
		again, _ := db.Get([]byte("k"))
		if !bytes.Equal(again, []byte("value")) {
			t.Fatalf("stored value mutated through returned slice: %q", again)
		}
	})
}
