// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbt

import (
	"reflect"
	"strings"
	"testing"
)

func TestRDHRoundTrip(t *testing.T) {
	want := RDH{
		Version:       RDHVersion,
		HeaderSize:    RDHSize,
		FeeID:         0x1234,
		Priority:      1,
		SourceID:      32,
		OffsetToNext:  0x200,
		MemorySize:    0x1f0,
		LinkID:        3,
		PacketCounter: 42,
		CRUID:         0x0abc,
		Endpoint:      1,
		BC:            0x0123,
		Orbit:         0xdeadbeef,
		TriggerType:   0x00000800,
		PageCount:     7,
		Stop:          true,
	}

	p := make([]byte, RDHSize)
	if err := want.MarshalTo(p); err != nil {
		t.Fatalf("could not marshal RDH: %+v", err)
	}

	got, err := RDHFrom(p)
	if err != nil {
		t.Fatalf("could not unmarshal RDH: %+v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid RDH round trip:\ngot= %#v\nwant=%#v", got, want)
	}

	if got, want := got.HeartBeatIR(), (InteractionRecord{BC: 0x0123, Orbit: 0xdeadbeef}); got != want {
		t.Fatalf("invalid HBF IR: got=%#v, want=%#v", got, want)
	}
}

func TestRDHFromShortPage(t *testing.T) {
	_, err := RDHFrom(make([]byte, RDHSize-1))
	if err == nil {
		t.Fatalf("expected an error for a short page")
	}
	if got, want := err.Error(), "gbt: too short a page for an RDH (got=63 bytes, want=64)"; got != want {
		t.Fatalf("invalid error:\ngot= %q\nwant=%q", got, want)
	}
}

func TestRDHMarshalToShortBuffer(t *testing.T) {
	var rdh RDH
	err := rdh.MarshalTo(make([]byte, RDHSize-1))
	if err == nil {
		t.Fatalf("expected an error for a short buffer")
	}
	if !strings.Contains(err.Error(), "too short a buffer") {
		t.Fatalf("invalid error: %q", err.Error())
	}
}
