package sysaction

import (
	"errors"
	"testing"

	"github.com/tos-network/ddc/common"
)

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		[]byte("not json"),
		[]byte(`{"payload":{}}`),
	} {
		if _, err := Decode(data); !errors.Is(err, ErrInvalidSysAction) {
			t.Errorf("Decode(%q): want ErrInvalidSysAction, got %v", data, err)
		}
	}
}

func TestMakeSysActionRoundTrip(t *testing.T) {
	in := BondPayload{
		Controller: common.HexToAddress("0x02"),
		NodePubKey: common.NodePubKey{Type: common.CDNNode, Key: common.BytesToHash([]byte{3})},
		Amount:     "100",
	}
	data, err := MakeSysAction(ActionStakeBond, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	sa, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sa.Action != ActionStakeBond {
		t.Fatalf("action: have %s want %s", sa.Action, ActionStakeBond)
	}
	var out BondPayload
	if err := DecodePayload(sa, &out); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if out != in {
		t.Fatalf("payload mismatch: have %+v want %+v", out, in)
	}
}

func TestDecodePayloadMissing(t *testing.T) {
	var p AmountPayload
	err := DecodePayload(&SysAction{Action: ActionStakeUnbond}, &p)
	if !errors.Is(err, ErrInvalidSysAction) {
		t.Fatalf("want ErrInvalidSysAction, got %v", err)
	}
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount("340282366920938463463374607431768211456")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v.BitLen() != 129 {
		t.Fatalf("bit length: have %d want 129", v.BitLen())
	}
	for _, bad := range []string{"", "-1", "1e3", "0x10"} {
		if _, err := ParseAmount(bad); !errors.Is(err, ErrInvalidSysAction) {
			t.Errorf("ParseAmount(%q): want ErrInvalidSysAction, got %v", bad, err)
		}
	}
}
