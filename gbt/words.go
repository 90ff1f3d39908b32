// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbt

import "encoding/binary"

// Header is a view over a GBT data-header word. It opens the list of
// lane payloads of one packet and declares the lanes taking part.
type Header Word

// PacketIdx returns the index of the packet within the heartbeat frame.
func (w Header) PacketIdx() uint16 {
	return binary.LittleEndian.Uint16(w[0:2])
}

// ActiveLanes returns the 28-bit bitmap of lanes declared active.
func (w Header) ActiveLanes() uint32 {
	return binary.LittleEndian.Uint32(w[2:6]) & 0x0fffffff
}

// Trigger is a view over a GBT trigger word.
type Trigger Word

// TriggerType returns the 12-bit trigger-type bitmask.
func (w Trigger) TriggerType() uint16 {
	return binary.LittleEndian.Uint16(w[0:2]) & 0x0fff
}

// Internal reports whether the trigger was generated internally by
// the readout unit.
func (w Trigger) Internal() bool { return w[1]&0x10 != 0 }

// NoData reports whether no payload follows for this frame.
func (w Trigger) NoData() bool { return w[1]&0x20 != 0 }

// Continuation reports whether this trigger continues the frame
// opened on a previous CRU page.
func (w Trigger) Continuation() bool { return w[1]&0x40 != 0 }

// BC returns the bunch crossing of the trigger.
func (w Trigger) BC() uint16 {
	return binary.LittleEndian.Uint16(w[2:4]) & 0x0fff
}

// Orbit returns the LHC orbit of the trigger.
func (w Trigger) Orbit() uint32 {
	return binary.LittleEndian.Uint32(w[4:8])
}

// IR returns the interaction record of the trigger.
func (w Trigger) IR() InteractionRecord {
	return InteractionRecord{BC: w.BC(), Orbit: w.Orbit()}
}

// Calibration is a view over a GBT calibration word.
type Calibration Word

// UserField returns the 48-bit user field of the calibration word.
func (w Calibration) UserField() uint64 {
	return uint64(w[0]) | uint64(w[1])<<8 | uint64(w[2])<<16 |
		uint64(w[3])<<24 | uint64(w[4])<<32 | uint64(w[5])<<40
}

// Counter returns the 24-bit calibration counter.
func (w Calibration) Counter() uint32 {
	return uint32(w[6]) | uint32(w[7])<<8 | uint32(w[8])<<16
}

// Data is a view over a GBT data word: 9 bytes of lane payload
// tagged with the hardware cable identifier.
type Data Word

// CableID returns the hardware cable identifier of the data word.
func (w Data) CableID() uint8 { return Word(w).ID() & 0x1f }

// Lane returns the lane fed by the data word.
func (w Data) Lane() uint8 { return w.CableID() }

// Payload returns the 9 payload bytes of the data word.
func (w Data) Payload() []byte { return w[0:9] }

// Trailer is a view over a GBT data-trailer word, closing the lane
// payloads of one packet.
type Trailer Word

// LanesStop returns the 28-bit bitmap of lanes having sent a stop.
func (w Trailer) LanesStop() uint32 {
	return binary.LittleEndian.Uint32(w[0:4]) & 0x0fffffff
}

// LanesTimeout returns the 28-bit bitmap of lanes having timed out.
func (w Trailer) LanesTimeout() uint32 {
	return binary.LittleEndian.Uint32(w[4:8]) & 0x0fffffff
}

// PacketDone reports whether the packet ends with this trailer or
// continues on the next CRU page.
func (w Trailer) PacketDone() bool { return w[8]&0x01 != 0 }

// TransmissionTimeout reports whether the readout unit timed out
// while transmitting the packet.
func (w Trailer) TransmissionTimeout() bool { return w[8]&0x02 != 0 }

// PacketOverflow reports whether the packet overflowed the readout
// unit internal buffers.
func (w Trailer) PacketOverflow() bool { return w[8]&0x04 != 0 }

// LaneStartsViolation reports whether some lanes started sending
// data before the header was transmitted.
func (w Trailer) LaneStartsViolation() bool { return w[8]&0x08 != 0 }

// PacketState returns the packed state flags of the trailer, used
// to histogram the states of decoded packets.
func (w Trailer) PacketState() int { return int(w[8] & 0x0f) }

// PacketStates is the number of distinct trailer packet states.
const PacketStates = 16

// Diagnostic is a view over a GBT diagnostic word, the only word
// allowed on a page after the RDH stop.
type Diagnostic Word

// LaneStatus returns the 56-bit lane status field of the
// diagnostic word.
func (w Diagnostic) LaneStatus() uint64 {
	return uint64(w[0]) | uint64(w[1])<<8 | uint64(w[2])<<16 |
		uint64(w[3])<<24 | uint64(w[4])<<32 | uint64(w[5])<<40 |
		uint64(w[6])<<48
}
