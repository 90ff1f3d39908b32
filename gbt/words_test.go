// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbt

import (
	"bytes"
	"testing"
)

func buildPage(t *testing.T, padded bool, build func(bld *PageBuilder)) []byte {
	t.Helper()
	bld := NewPageBuilder(RDH{FeeID: 0x1, Orbit: 1}, padded)
	build(bld)
	return bld.Bytes()
}

func wordsOf(t *testing.T, page []byte, padded bool) []Word {
	t.Helper()
	rdh, err := RDHFrom(page)
	if err != nil {
		t.Fatalf("could not decode RDH: %+v", err)
	}
	wl := WordLength
	if padded {
		wl = PaddedWordLength
	}
	var words []Word
	for offs := RDHSize; offs+wl <= int(rdh.MemorySize); offs += wl {
		w := Word(page[offs : offs+wl])
		if w.ID() == 0xff && !padded {
			break // page alignment filler
		}
		words = append(words, w)
	}
	return words
}

func TestWordClassifier(t *testing.T) {
	page := buildPage(t, false, func(bld *PageBuilder) {
		bld.AddHeader(3, 0x1ff)
		bld.AddTrigger(0x800, true, false, false, InteractionRecord{BC: 0x123, Orbit: 42})
		bld.AddCalibration(7, 0xcafe)
		bld.AddData(4, [9]byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
		bld.AddTrailer(0x1ff, 0x003, 0x1)
		bld.AddDiagnostic(0x00beefcafe)
	})

	words := wordsOf(t, page, false)
	if got, want := len(words), 6; got != want {
		t.Fatalf("invalid number of words: got=%d, want=%d", got, want)
	}

	for i, tc := range []struct {
		name string
		ok   func(w Word) bool
	}{
		{"header", Word.IsDataHeader},
		{"trigger", Word.IsTrigger},
		{"calibration", Word.IsCalibration},
		{"data", Word.IsData},
		{"trailer", Word.IsDataTrailer},
		{"diagnostic", Word.IsDiagnostic},
	} {
		if !tc.ok(words[i]) {
			t.Fatalf("word %d is not a %s word (id=0x%02x)", i, tc.name, words[i].ID())
		}
	}
}

func TestHeaderWord(t *testing.T) {
	page := buildPage(t, false, func(bld *PageBuilder) {
		bld.AddHeader(3, 0x1ff)
	})
	hdr := Header(wordsOf(t, page, false)[0])
	if got, want := hdr.PacketIdx(), uint16(3); got != want {
		t.Fatalf("invalid packet index: got=%d, want=%d", got, want)
	}
	if got, want := hdr.ActiveLanes(), uint32(0x1ff); got != want {
		t.Fatalf("invalid active lanes: got=0x%x, want=0x%x", got, want)
	}
}

func TestTriggerWord(t *testing.T) {
	for _, tc := range []struct {
		name         string
		typ          uint16
		internal     bool
		noData       bool
		continuation bool
	}{
		{name: "internal", typ: 0x800, internal: true},
		{name: "no-data", typ: 0x800, internal: true, noData: true},
		{name: "continuation", typ: 0x800, internal: true, continuation: true},
		{name: "physics", typ: 0x013},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ir := InteractionRecord{BC: 0x0123, Orbit: 0xdeadbeef}
			page := buildPage(t, false, func(bld *PageBuilder) {
				bld.AddTrigger(tc.typ, tc.internal, tc.noData, tc.continuation, ir)
			})
			trg := Trigger(wordsOf(t, page, false)[0])
			if got, want := trg.TriggerType(), tc.typ; got != want {
				t.Fatalf("invalid trigger type: got=0x%03x, want=0x%03x", got, want)
			}
			if got, want := trg.Internal(), tc.internal; got != want {
				t.Fatalf("invalid internal flag: got=%v, want=%v", got, want)
			}
			if got, want := trg.NoData(), tc.noData; got != want {
				t.Fatalf("invalid no-data flag: got=%v, want=%v", got, want)
			}
			if got, want := trg.Continuation(), tc.continuation; got != want {
				t.Fatalf("invalid continuation flag: got=%v, want=%v", got, want)
			}
			if got, want := trg.IR(), ir; got != want {
				t.Fatalf("invalid IR: got=%#v, want=%#v", got, want)
			}
		})
	}
}

func TestCalibrationWord(t *testing.T) {
	page := buildPage(t, false, func(bld *PageBuilder) {
		bld.AddCalibration(0x123456, 0xcafebabe1234)
	})
	cal := Calibration(wordsOf(t, page, false)[0])
	if got, want := cal.Counter(), uint32(0x123456); got != want {
		t.Fatalf("invalid counter: got=0x%x, want=0x%x", got, want)
	}
	if got, want := cal.UserField(), uint64(0xcafebabe1234); got != want {
		t.Fatalf("invalid user field: got=0x%x, want=0x%x", got, want)
	}
}

func TestDataWord(t *testing.T) {
	payload := [9]byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	page := buildPage(t, false, func(bld *PageBuilder) {
		bld.AddData(0x1c, payload)
	})
	d := Data(wordsOf(t, page, false)[0])
	if got, want := d.CableID(), uint8(0x1c); got != want {
		t.Fatalf("invalid cable id: got=0x%02x, want=0x%02x", got, want)
	}
	if got, want := d.Lane(), uint8(0x1c); got != want {
		t.Fatalf("invalid lane: got=%d, want=%d", got, want)
	}
	if got, want := d.Payload(), payload[:]; !bytes.Equal(got, want) {
		t.Fatalf("invalid payload: got=%x, want=%x", got, want)
	}
}

func TestTrailerWord(t *testing.T) {
	page := buildPage(t, false, func(bld *PageBuilder) {
		bld.AddTrailer(0x1ff, 0x003, 0xf)
	})
	trl := Trailer(wordsOf(t, page, false)[0])
	if got, want := trl.LanesStop(), uint32(0x1ff); got != want {
		t.Fatalf("invalid lanes stop: got=0x%x, want=0x%x", got, want)
	}
	if got, want := trl.LanesTimeout(), uint32(0x003); got != want {
		t.Fatalf("invalid lanes timeout: got=0x%x, want=0x%x", got, want)
	}
	if !trl.PacketDone() {
		t.Fatalf("trailer should report packet done")
	}
	if !trl.TransmissionTimeout() || !trl.PacketOverflow() || !trl.LaneStartsViolation() {
		t.Fatalf("trailer should report all state flags")
	}
	if got, want := trl.PacketState(), 0xf; got != want {
		t.Fatalf("invalid packet state: got=%d, want=%d", got, want)
	}
}

func TestDiagnosticWord(t *testing.T) {
	page := buildPage(t, false, func(bld *PageBuilder) {
		bld.AddDiagnostic(0x00beefcafe)
	})
	dia := Diagnostic(wordsOf(t, page, false)[0])
	if got, want := dia.LaneStatus(), uint64(0x00beefcafe); got != want {
		t.Fatalf("invalid lane status: got=0x%x, want=0x%x", got, want)
	}
}

func TestPaddedPage(t *testing.T) {
	page := buildPage(t, true, func(bld *PageBuilder) {
		bld.AddHeader(0, 0x1ff)
		bld.AddTrailer(0, 0, 0x1)
	})
	rdh, err := RDHFrom(page)
	if err != nil {
		t.Fatalf("could not decode RDH: %+v", err)
	}
	if got, want := int(rdh.MemorySize), RDHSize+2*PaddedWordLength; got != want {
		t.Fatalf("invalid memory size: got=%d, want=%d", got, want)
	}
	words := wordsOf(t, page, true)
	if got, want := len(words), 2; got != want {
		t.Fatalf("invalid number of words: got=%d, want=%d", got, want)
	}
	if !words[0].IsDataHeader() || !words[1].IsDataTrailer() {
		t.Fatalf("invalid word ids: got=0x%02x, 0x%02x", words[0].ID(), words[1].ID())
	}
}

func TestPageAlignment(t *testing.T) {
	page := buildPage(t, false, func(bld *PageBuilder) {
		bld.AddHeader(0, 0x1ff)
	})
	if got := len(page) % CRUPageAlignment; got != 0 {
		t.Fatalf("page is not aligned: len=%d", len(page))
	}
	rdh, err := RDHFrom(page)
	if err != nil {
		t.Fatalf("could not decode RDH: %+v", err)
	}
	if got, want := int(rdh.OffsetToNext), len(page); got != want {
		t.Fatalf("invalid offset to next: got=%d, want=%d", got, want)
	}
	// the filler following the last word is 0xff
	if got := page[RDHSize+WordLength]; got != 0xff {
		t.Fatalf("invalid filler byte: got=0x%02x", got)
	}
}

func TestInteractionRecord(t *testing.T) {
	var ir InteractionRecord
	ir.Clear()
	if !ir.IsDummy() {
		t.Fatalf("cleared IR should be dummy")
	}
	a := InteractionRecord{BC: 10, Orbit: 1}
	b := InteractionRecord{BC: 2, Orbit: 2}
	c := InteractionRecord{BC: 11, Orbit: 1}
	if !a.Less(b) || b.Less(a) {
		t.Fatalf("invalid orbit ordering")
	}
	if !a.Less(c) || c.Less(a) {
		t.Fatalf("invalid BC ordering")
	}
	if a.Less(a) {
		t.Fatalf("IR should not be less than itself")
	}
}
