// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbt

import (
	"encoding/binary"

	"golang.org/x/xerrors"
)

const (
	// RDHSize is the size (in bytes) of the raw-data header opening
	// every CRU page.
	RDHSize = 64

	// RDHVersion is the raw-data-header version handled by this
	// package.
	RDHVersion = 7
)

// RDH is the raw-data header prefixed to every CRU page.
type RDH struct {
	Version       uint8
	HeaderSize    uint8
	FeeID         uint16
	Priority      uint8
	SourceID      uint8
	OffsetToNext  uint16 // offset (in bytes) to the next page
	MemorySize    uint16 // size (in bytes) of the meaningful payload, RDH included
	LinkID        uint8
	PacketCounter uint8
	CRUID         uint16 // 12 bits
	Endpoint      uint8
	BC            uint16 // 12 bits, heartbeat bunch crossing
	Orbit         uint32 // heartbeat orbit
	TriggerType   uint32
	PageCount     uint16
	Stop          bool
}

// HeartBeatIR returns the heartbeat-frame interaction record of the
// page.
func (rdh RDH) HeartBeatIR() InteractionRecord {
	return InteractionRecord{BC: rdh.BC, Orbit: rdh.Orbit}
}

// RDHFrom decodes the raw-data header at the beginning of p.
func RDHFrom(p []byte) (RDH, error) {
	var rdh RDH
	if len(p) < RDHSize {
		return rdh, xerrors.Errorf("gbt: too short a page for an RDH (got=%d bytes, want=%d)", len(p), RDHSize)
	}
	rdh.Version = p[0]
	rdh.HeaderSize = p[1]
	rdh.FeeID = binary.LittleEndian.Uint16(p[2:4])
	rdh.Priority = p[4]
	rdh.SourceID = p[5]
	rdh.OffsetToNext = binary.LittleEndian.Uint16(p[8:10])
	rdh.MemorySize = binary.LittleEndian.Uint16(p[10:12])
	rdh.LinkID = p[12]
	rdh.PacketCounter = p[13]
	v := binary.LittleEndian.Uint16(p[14:16])
	rdh.CRUID = v & 0x0fff
	rdh.Endpoint = uint8(v >> 12)
	rdh.BC = binary.LittleEndian.Uint16(p[16:18]) & 0x0fff
	rdh.Orbit = binary.LittleEndian.Uint32(p[20:24])
	rdh.TriggerType = binary.LittleEndian.Uint32(p[32:36])
	rdh.PageCount = binary.LittleEndian.Uint16(p[36:38])
	rdh.Stop = p[38]&0x01 != 0
	return rdh, nil
}

// MarshalTo encodes rdh into the first RDHSize bytes of p.
func (rdh RDH) MarshalTo(p []byte) error {
	if len(p) < RDHSize {
		return xerrors.Errorf("gbt: too short a buffer for an RDH (got=%d bytes, want=%d)", len(p), RDHSize)
	}
	for i := 0; i < RDHSize; i++ {
		p[i] = 0
	}
	p[0] = rdh.Version
	p[1] = rdh.HeaderSize
	binary.LittleEndian.PutUint16(p[2:4], rdh.FeeID)
	p[4] = rdh.Priority
	p[5] = rdh.SourceID
	binary.LittleEndian.PutUint16(p[8:10], rdh.OffsetToNext)
	binary.LittleEndian.PutUint16(p[10:12], rdh.MemorySize)
	p[12] = rdh.LinkID
	p[13] = rdh.PacketCounter
	binary.LittleEndian.PutUint16(p[14:16], rdh.CRUID&0x0fff|uint16(rdh.Endpoint)<<12)
	binary.LittleEndian.PutUint16(p[16:18], rdh.BC&0x0fff)
	binary.LittleEndian.PutUint32(p[20:24], rdh.Orbit)
	binary.LittleEndian.PutUint32(p[32:36], rdh.TriggerType)
	binary.LittleEndian.PutUint16(p[36:38], rdh.PageCount)
	if rdh.Stop {
		p[38] = 0x01
	}
	return nil
}
