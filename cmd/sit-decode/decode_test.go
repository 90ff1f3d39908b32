// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"compress/flate"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-lpc/sit/conddb"
	"github.com/go-lpc/sit/gbt"
	"github.com/go-lpc/sit/gbt/gbtlink"
	"go-hep.org/x/hep/lcio"
)

const ibLanes = uint32(1)<<9 - 1

func buildPage(packet uint8, cnt uint16, stop bool, orbit uint32, ws ...func(*gbt.PageBuilder)) []byte {
	bld := gbt.NewPageBuilder(gbt.RDH{
		FeeID:         0x1,
		PacketCounter: packet,
		PageCount:     cnt,
		Stop:          stop,
		Orbit:         orbit,
	}, false)
	for _, w := range ws {
		w(bld)
	}
	return bld.Bytes()
}

func TestProcessFile(t *testing.T) {
	tmp, err := os.MkdirTemp("", "sit-decode-")
	if err != nil {
		t.Fatalf("could not create tmp dir: %+v", err)
	}
	defer os.RemoveAll(tmp)

	ir := gbt.InteractionRecord{BC: 0x123, Orbit: 1}
	var raw []byte
	// a frame with no payload for this link
	raw = append(raw, buildPage(0, 0, false, 1, func(bld *gbt.PageBuilder) {
		bld.AddHeader(0, ibLanes)
		bld.AddTrigger(0x800, true, true, false, gbt.InteractionRecord{BC: 3, Orbit: 1})
	})...)
	raw = append(raw, buildPage(1, 1, true, 1, func(bld *gbt.PageBuilder) {
		bld.AddDiagnostic(uint64(ibLanes))
	})...)
	// a regular data frame
	raw = append(raw, buildPage(2, 0, false, 1, func(bld *gbt.PageBuilder) {
		bld.AddHeader(0, ibLanes)
		bld.AddTrigger(0x800, true, false, false, ir)
		for cab := 0; cab < 9; cab++ {
			var p [9]byte
			for i := range p {
				p[i] = byte(cab + i)
			}
			bld.AddData(uint8(cab), p)
		}
		bld.AddTrailer(ibLanes, 0, 0x1)
	})...)
	raw = append(raw, buildPage(3, 1, true, 1, func(bld *gbt.PageBuilder) {
		bld.AddDiagnostic(uint64(ibLanes))
	})...)

	fname := filepath.Join(tmp, "run63.gbt.raw")
	err = os.WriteFile(fname, raw, 0644)
	if err != nil {
		t.Fatalf("could not write raw file: %+v", err)
	}

	oname := filepath.Join(tmp, "run63.lcio")
	dec := newDecoder(1, conddb.IB, conddb.NewCableMap(), gbtlink.Config{})
	err = dec.process(fname, oname, 63, flate.DefaultCompression)
	if err != nil {
		t.Fatalf("could not process raw file: %+v", err)
	}

	r, err := lcio.Open(oname)
	if err != nil {
		t.Fatalf("could not open LCIO file: %+v", err)
	}
	defer r.Close()

	var evts []lcio.Event
	for r.Next() {
		evts = append(evts, r.Event())
	}
	// the no-payload frame does not yield an event
	if got, want := len(evts), 1; got != want {
		t.Fatalf("invalid number of events: got=%d, want=%d", got, want)
	}
	evt := evts[0]
	if got, want := evt.EventNumber, int32(0); got != want {
		t.Fatalf("invalid event number: got=%d, want=%d", got, want)
	}
	if got, want := evt.RunNumber, int32(63); got != want {
		t.Fatalf("invalid run number: got=%d, want=%d", got, want)
	}

	i32s := evt.Get("SIT_RAW").(*lcio.GenericObject).Data[0].I32s
	if got, want := len(i32s), 4+9*5; got != want {
		t.Fatalf("invalid i32s stream length: got=%d, want=%d", got, want)
	}
	hdr := []int32{1, 0x800, int32(ir.BC), int32(ir.Orbit)}
	if got, want := i32s[:4], hdr; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid i32s stream header:\ngot= %v\nwant=%v", got, want)
	}
	cab0 := []int32{0, 9, 0x03020100, 0x07060504, 0x00000008}
	if got, want := i32s[4:9], cab0; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid cable 0 record:\ngot= %v\nwant=%v", got, want)
	}
}

func TestI32sFrom(t *testing.T) {
	p := make([]byte, 6, 8)
	for i := range p {
		p[i] = byte(i + 1)
	}
	spare := p[:cap(p)]
	spare[6] = 0xde
	spare[7] = 0xad

	got := i32sFrom(p)
	want := []int32{0x04030201, 0x0605}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid i32s:\ngot= %v\nwant=%v", got, want)
	}
	if spare[6] != 0xde || spare[7] != 0xad {
		t.Fatalf("input buffer was modified: %x", spare)
	}
}
