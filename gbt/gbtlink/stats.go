// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbtlink

import (
	"fmt"
	"strings"

	"github.com/go-lpc/sit/conddb"
	"github.com/go-lpc/sit/gbt"
)

// ErrorID enumerates the decoding errors accounted by a link.
type ErrorID int

const (
	ErrNoRDHAtStart ErrorID = iota
	ErrPageCounterDiscontinuity
	ErrRDHStopMissing
	ErrStopPageNotEmpty
	ErrMissingGBTHeader
	ErrInvalidActiveLanes
	ErrMissingGBTTrigger
	ErrPacketDoneMissing
	ErrDataForStoppedLane
	ErrDataForInactiveLane
	ErrUnknownWord
	ErrWrongCableID
	ErrWrongAlignmentWord
	ErrMissingDiagnosticWord

	NumErrorsDefined
)

var errNames = [NumErrorsDefined]string{
	ErrNoRDHAtStart:             "page does not start with a valid RDH",
	ErrPageCounterDiscontinuity: "RDH packet counter jump",
	ErrRDHStopMissing:           "new HBF starts w/o stop on previous RDH",
	ErrStopPageNotEmpty:         "RDH stop page carries payload",
	ErrMissingGBTHeader:         "GBT payload header was expected but not found",
	ErrInvalidActiveLanes:       "active lanes do not match expected cables",
	ErrMissingGBTTrigger:        "GBT trigger was expected but not found",
	ErrPacketDoneMissing:        "packet done is missing in the trailer",
	ErrDataForStoppedLane:       "data was received for stopped lane",
	ErrDataForInactiveLane:      "data was received for inactive lane",
	ErrUnknownWord:              "GBT word is not recognized",
	ErrWrongCableID:             "invalid cable ID",
	ErrWrongAlignmentWord:       "unexpected alignment padding word",
	ErrMissingDiagnosticWord:    "diagnostic word is missing after RDH stop",
}

func (id ErrorID) String() string {
	if id < 0 || id >= NumErrorsDefined {
		return fmt.Sprintf("ErrorID(%d)", int(id))
	}
	return errNames[id]
}

// Stat accumulates the decoding statistics of one link.
type Stat struct {
	NPackets     uint64
	NTriggers    uint64
	ROFJumps     uint32 // frames seen ahead of the expected one
	Recoveries   uint32 // acknowledged ROF jumps
	ErrorCounts  [NumErrorsDefined]uint32
	PacketStates [gbt.PacketStates]uint32
}

// AddError accounts one occurrence of err and returns the updated
// count.
func (st *Stat) AddError(err ErrorID) uint32 {
	st.ErrorCounts[err]++
	return st.ErrorCounts[err]
}

// NErrors returns the total number of errors accounted.
func (st *Stat) NErrors() uint64 {
	var n uint64
	for _, cnt := range st.ErrorCounts {
		n += uint64(cnt)
	}
	return n
}

// Clear resets all counters.
func (st *Stat) Clear() {
	*st = Stat{}
}

// Describe returns a human-readable summary of the statistics.
func (st *Stat) Describe() string {
	o := new(strings.Builder)
	fmt.Fprintf(o, "packets: %d, triggers: %d, errors: %d, rof-jumps: %d",
		st.NPackets, st.NTriggers, st.NErrors(), st.ROFJumps,
	)
	for id, cnt := range st.ErrorCounts {
		if cnt == 0 {
			continue
		}
		fmt.Fprintf(o, "\n  %s: %d", ErrorID(id), cnt)
	}
	return o.String()
}

// ChipStat accumulates per-lane diagnostics for the chips fed
// through one link.
type ChipStat struct {
	FeeID        uint16
	LaneData     [conddb.MaxCables]uint64 // data words per lane
	LaneStops    [conddb.MaxCables]uint32
	LaneTimeouts [conddb.MaxCables]uint32
}

// Clear resets all counters.
func (st *ChipStat) Clear() {
	fee := st.FeeID
	*st = ChipStat{FeeID: fee}
}

func (st *ChipStat) addTrailer(t gbt.Trailer) {
	for lane := 0; lane < conddb.MaxCables; lane++ {
		if t.LanesStop()&(1<<lane) != 0 {
			st.LaneStops[lane]++
		}
		if t.LanesTimeout()&(1<<lane) != 0 {
			st.LaneTimeouts[lane]++
		}
	}
}
