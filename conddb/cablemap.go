// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conddb

import (
	"errors"
	"fmt"
)

// RUType identifies the kind of readout unit feeding a GBT link.
type RUType int8

const (
	IB RUType = iota // inner-barrel readout unit
	ML               // middle-layer readout unit
	OL               // outer-layer readout unit

	numRUTypes
)

func (typ RUType) String() string {
	switch typ {
	case IB:
		return "IB"
	case ML:
		return "ML"
	case OL:
		return "OL"
	}
	return fmt.Sprintf("RUType(%d)", int8(typ))
}

// MaxCables is the largest number of cables multiplexed onto one
// link, all readout-unit types included.
const MaxCables = 28

var numCables = [numRUTypes]int{
	IB: 9,
	ML: 16,
	OL: 28,
}

// ErrUnknownCable is returned when a hardware cable identifier has
// no software counterpart for the given readout-unit type.
var ErrUnknownCable = errors.New("conddb: unknown cable")

// CableMap maps hardware cable identifiers to dense software cable
// indices, per readout-unit type. The zero map is not usable, use
// NewCableMap or DB.CableMap.
//
// CableMap is read-only after construction and safe for concurrent
// lookups.
type CableMap struct {
	hw2sw [numRUTypes][32]int8 // -1 when the hw id is not mapped
}

// NewCableMap returns the nominal cable map: for each readout-unit
// type the hardware ids 0..N-1 map onto themselves.
func NewCableMap() *CableMap {
	cmap := newEmptyCableMap()
	for typ := IB; typ < numRUTypes; typ++ {
		for i := 0; i < numCables[typ]; i++ {
			cmap.hw2sw[typ][i] = int8(i)
		}
	}
	return cmap
}

func newEmptyCableMap() *CableMap {
	var cmap CableMap
	for typ := range cmap.hw2sw {
		for hw := range cmap.hw2sw[typ] {
			cmap.hw2sw[typ][hw] = -1
		}
	}
	return &cmap
}

func (cmap *CableMap) set(typ RUType, hw, sw uint8) error {
	if typ < 0 || typ >= numRUTypes {
		return fmt.Errorf("conddb: invalid RU type %d", int8(typ))
	}
	if int(hw) >= len(cmap.hw2sw[typ]) || int(sw) >= numCables[typ] {
		return fmt.Errorf("conddb: invalid cable ids hw=%d sw=%d for RU type %v", hw, sw, typ)
	}
	cmap.hw2sw[typ][hw] = int8(sw)
	return nil
}

// CablesOnRUType returns the number of cables read out by a unit of
// the given type.
func (cmap *CableMap) CablesOnRUType(typ RUType) int {
	if typ < 0 || typ >= numRUTypes {
		return 0
	}
	return numCables[typ]
}

// CableHW2SW maps a hardware cable identifier to its software cable
// index for the given readout-unit type.
func (cmap *CableMap) CableHW2SW(typ RUType, hw uint8) (uint8, error) {
	if typ < 0 || typ >= numRUTypes || int(hw) >= len(cmap.hw2sw[typ]) {
		return 0, ErrUnknownCable
	}
	sw := cmap.hw2sw[typ][hw]
	if sw < 0 {
		return 0, ErrUnknownCable
	}
	return uint8(sw), nil
}

// CableHW2Pos maps a hardware cable identifier to the physical
// position of the cable on the readout unit.
func (cmap *CableMap) CableHW2Pos(typ RUType, hw uint8) (uint8, error) {
	if _, err := cmap.CableHW2SW(typ, hw); err != nil {
		return 0, err
	}
	return hw, nil
}
