// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbtlink

import (
	"github.com/go-lpc/sit/conddb"
	"github.com/go-lpc/sit/gbt"
)

// PayloadBuffer is an append-only byte sink for the payload of one
// cable.
type PayloadBuffer struct {
	p []byte
}

// Add appends p to the buffer.
func (buf *PayloadBuffer) Add(p []byte) {
	buf.p = append(buf.p, p...)
}

// Bytes returns the accumulated payload.
func (buf *PayloadBuffer) Bytes() []byte { return buf.p }

// Len returns the number of accumulated bytes.
func (buf *PayloadBuffer) Len() int { return len(buf.p) }

// Clear drops the accumulated payload, keeping the storage.
func (buf *PayloadBuffer) Clear() { buf.p = buf.p[:0] }

// CalibData is the calibration state extracted from GBT calibration
// words.
type CalibData struct {
	Counter   uint32
	UserField uint64
}

// PhysTrigger is an external physics trigger collected from the
// link data stream.
type PhysTrigger struct {
	IR   gbt.InteractionRecord
	Mask uint64
}

// RUContext holds the per-readout-unit destination of the decoded
// link data: one payload buffer per software cable index. It is
// owned by the caller and shared by the links feeding the same
// readout unit.
type RUContext struct {
	Type      conddb.RUType
	CalibData CalibData

	CableData   []PayloadBuffer
	CableHWID   []uint8 // hardware cable id as last seen per sink
	CableLinkID []uint8 // in-RU link id as last seen per sink
}

// NewRUContext returns a context for a readout unit of the given
// type, sized according to chmap.
func NewRUContext(typ conddb.RUType, chmap ChannelMap) *RUContext {
	n := chmap.CablesOnRUType(typ)
	return &RUContext{
		Type:        typ,
		CableData:   make([]PayloadBuffer, n),
		CableHWID:   make([]uint8, n),
		CableLinkID: make([]uint8, n),
	}
}

// Clear drops all accumulated cable payloads.
func (ru *RUContext) Clear() {
	for i := range ru.CableData {
		ru.CableData[i].Clear()
	}
	ru.CalibData = CalibData{}
}
