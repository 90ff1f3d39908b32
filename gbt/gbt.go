// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gbt describes and handles raw data words from the SIT GBT links.
package gbt // import "github.com/go-lpc/sit/gbt"

const (
	// WordLength is the size (in bytes) of a GBT word as emitted by
	// the front-end electronics: an 80-bit record.
	WordLength = 10
	// PaddedWordLength is the size (in bytes) of a GBT word padded
	// by the CRU to 128 bits.
	PaddedWordLength = 16

	// CRUPageAlignment is the alignment (in bytes) of CRU pages.
	CRUPageAlignment = 16
)

const (
	flagDataHeader      = 0xe0 // GBT data header marker
	flagDataTrailer     = 0xf0 // GBT data trailer marker
	flagTrigger         = 0xe8 // GBT trigger marker
	flagDiagnostic      = 0xe4 // GBT diagnostic marker
	flagCalibration     = 0x48 // GBT calibration marker
	flagCableDiagnostic = 0xc4 // GBT cable diagnostic marker
	flagCableStatus     = 0x78 // GBT cable status marker
)

// Word is a read-only view over the bytes of a single GBT word.
// The view must hold at least WordLength bytes; byte 9 carries the
// word identifier.
type Word []byte

// ID returns the identifier byte of the GBT word.
func (w Word) ID() uint8 { return w[9] }

func (w Word) IsDataHeader() bool      { return w.ID() == flagDataHeader }
func (w Word) IsDataTrailer() bool     { return w.ID() == flagDataTrailer }
func (w Word) IsTrigger() bool         { return w.ID() == flagTrigger }
func (w Word) IsDiagnostic() bool      { return w.ID() == flagDiagnostic }
func (w Word) IsCalibration() bool     { return w.ID() == flagCalibration }
func (w Word) IsCableDiagnostic() bool { return w.ID() == flagCableDiagnostic }
func (w Word) IsCableStatus() bool     { return w.ID() == flagCableStatus }

// IsData reports whether the word carries lane payload. Data words
// have the 3 most significant bits of the identifier set to 000 or
// 001, the 5 least significant ones holding the cable identifier.
func (w Word) IsData() bool {
	id := w.ID()
	return id&0xe0 == 0x00 || id&0xe0 == 0x20
}

// InteractionRecord identifies one readout frame: a bunch crossing
// within an LHC orbit.
type InteractionRecord struct {
	BC    uint16 // bunch-crossing number (12 bits)
	Orbit uint32
}

// Clear resets ir to the dummy (unset) value.
func (ir *InteractionRecord) Clear() {
	ir.BC = 0xffff
	ir.Orbit = 0xffffffff
}

// IsDummy reports whether ir holds the unset value.
func (ir InteractionRecord) IsDummy() bool {
	return ir.BC == 0xffff && ir.Orbit == 0xffffffff
}

// Less reports whether ir comes before oth in time.
func (ir InteractionRecord) Less(oth InteractionRecord) bool {
	if ir.Orbit != oth.Orbit {
		return ir.Orbit < oth.Orbit
	}
	return ir.BC < oth.BC
}
