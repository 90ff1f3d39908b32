// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbt

import (
	"encoding/binary"
)

// PageBuilder assembles one CRU page: an RDH followed by GBT words,
// in either padded (16 bytes) or plain (10 bytes) word format.
// The zero value is not usable, use NewPageBuilder.
type PageBuilder struct {
	rdh RDH
	buf []byte
	wl  int // word length, WordLength or PaddedWordLength
}

// NewPageBuilder returns a page builder for the given RDH fields.
// Version, HeaderSize, MemorySize and OffsetToNext are set by the
// builder.
func NewPageBuilder(rdh RDH, padded bool) *PageBuilder {
	wl := WordLength
	if padded {
		wl = PaddedWordLength
	}
	rdh.Version = RDHVersion
	rdh.HeaderSize = RDHSize
	return &PageBuilder{
		rdh: rdh,
		buf: make([]byte, RDHSize, 512),
		wl:  wl,
	}
}

func (bld *PageBuilder) word(p [WordLength]byte) {
	bld.buf = append(bld.buf, p[:]...)
	for i := WordLength; i < bld.wl; i++ {
		bld.buf = append(bld.buf, 0)
	}
}

// AddHeader appends a GBT data-header word.
func (bld *PageBuilder) AddHeader(packetIdx uint16, activeLanes uint32) {
	var p [WordLength]byte
	binary.LittleEndian.PutUint16(p[0:2], packetIdx)
	binary.LittleEndian.PutUint32(p[2:6], activeLanes&0x0fffffff)
	p[9] = flagDataHeader
	bld.word(p)
}

// AddTrigger appends a GBT trigger word.
func (bld *PageBuilder) AddTrigger(typ uint16, internal, noData, continuation bool, ir InteractionRecord) {
	var p [WordLength]byte
	binary.LittleEndian.PutUint16(p[0:2], typ&0x0fff)
	if internal {
		p[1] |= 0x10
	}
	if noData {
		p[1] |= 0x20
	}
	if continuation {
		p[1] |= 0x40
	}
	binary.LittleEndian.PutUint16(p[2:4], ir.BC&0x0fff)
	binary.LittleEndian.PutUint32(p[4:8], ir.Orbit)
	p[9] = flagTrigger
	bld.word(p)
}

// AddCalibration appends a GBT calibration word.
func (bld *PageBuilder) AddCalibration(cnt uint32, user uint64) {
	var p [WordLength]byte
	for i := 0; i < 6; i++ {
		p[i] = byte(user >> (8 * i))
	}
	p[6] = byte(cnt)
	p[7] = byte(cnt >> 8)
	p[8] = byte(cnt >> 16)
	p[9] = flagCalibration
	bld.word(p)
}

// AddData appends a GBT data word carrying 9 payload bytes for the
// given hardware cable.
func (bld *PageBuilder) AddData(cableHW uint8, payload [9]byte) {
	var p [WordLength]byte
	copy(p[0:9], payload[:])
	p[9] = cableHW & 0x1f
	bld.word(p)
}

// AddTrailer appends a GBT data-trailer word.
func (bld *PageBuilder) AddTrailer(lanesStop, lanesTimeout uint32, state uint8) {
	var p [WordLength]byte
	binary.LittleEndian.PutUint32(p[0:4], lanesStop&0x0fffffff)
	binary.LittleEndian.PutUint32(p[4:8], lanesTimeout&0x0fffffff)
	p[8] = state & 0x0f
	p[9] = flagDataTrailer
	bld.word(p)
}

// AddDiagnostic appends a GBT diagnostic word.
func (bld *PageBuilder) AddDiagnostic(laneStatus uint64) {
	var p [WordLength]byte
	for i := 0; i < 7; i++ {
		p[i] = byte(laneStatus >> (8 * i))
	}
	p[9] = flagDiagnostic
	bld.word(p)
}

// Bytes finalizes and returns the page: the RDH memory size and
// offset-to-next fields are filled in and the page is aligned to
// CRUPageAlignment with 0xff filler bytes.
func (bld *PageBuilder) Bytes() []byte {
	bld.rdh.MemorySize = uint16(len(bld.buf))
	for len(bld.buf)%CRUPageAlignment != 0 {
		bld.buf = append(bld.buf, 0xff)
		bld.rdh.MemorySize++
	}
	bld.rdh.OffsetToNext = uint16(len(bld.buf))
	_ = bld.rdh.MarshalTo(bld.buf[:RDHSize])
	return bld.buf
}
