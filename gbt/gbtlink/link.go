// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gbtlink decodes the raw data stream of a single GBT link
// into per-cable payloads.
package gbtlink // import "github.com/go-lpc/sit/gbt/gbtlink"

import (
	"fmt"
	"log"
	"math/bits"
	"os"

	"github.com/go-lpc/sit/conddb"
	"github.com/go-lpc/sit/gbt"
)

// ChannelMap resolves hardware cable identifiers to software cable
// indices. Implementations must be safe for concurrent lookups.
type ChannelMap interface {
	CablesOnRUType(typ conddb.RUType) int
	CableHW2SW(typ conddb.RUType, hw uint8) (uint8, error)
}

// Status describes how a call to CollectROFCableData ended.
type Status int8

const (
	None Status = iota
	AbortedOnError
	StoppedOnEndOfData
	DataSeen
	Recovery
	CachedDataExist
)

func (st Status) String() string {
	switch st {
	case None:
		return "None"
	case AbortedOnError:
		return "AbortedOnError"
	case StoppedOnEndOfData:
		return "StoppedOnEndOfData"
	case DataSeen:
		return "DataSeen"
	case Recovery:
		return "Recovery"
	case CachedDataExist:
		return "CachedDataExist"
	}
	return fmt.Sprintf("Status(%d)", int8(st))
}

// ErrorAction is the bitmask steering the handling of a decoding
// error.
type ErrorAction uint8

const (
	ActNone    ErrorAction = 0x0
	ActWarning ErrorAction = 0x1 // log and continue
	ActSkip    ErrorAction = 0x2 // drop the effect of the current word
	ActAbort   ErrorAction = 0x4 // discard the link buffer, abort the call
)

// Verbosity steers the amount of diagnostics printed by a link.
type Verbosity int8

const (
	Silent        Verbosity = -1
	VerboseErrors Verbosity = iota - 1
	VerboseHeaders
	VerboseData
	VerboseRawDump
)

// DumpPolicy selects what to dump when a decoding error is seen.
type DumpPolicy int8

const (
	DumpNone DumpPolicy = iota // no raw data dumps on error
	DumpHBF                    // record the HBF of the failing FEE id
	DumpTF                     // record the whole TF at error
)

// Config gathers the decoding policy of one link.
type Config struct {
	Padded             bool // GBT words padded to 16 bytes by the CRU
	AlwaysParseTrigger bool // parse trigger words also on mid-page continuations
	StrictPadding      bool // abort on alignment padding in the payload stream
	CheckStopPageEmpty bool // flag RDH stop pages carrying payload

	Verbosity Verbosity
	Dump      DumpPolicy
	Msg       *log.Logger // destination of diagnostics, os.Stderr if nil
}

// Link decodes the raw data of one physical GBT link. A Link is
// exclusively owned by a single worker: no method may be called
// concurrently.
type Link struct {
	CRUID    uint16
	FeeID    uint16
	Endpoint uint8
	LinkID   uint8 // link id within the CRU
	IDInRU   uint8 // link id within the readout unit
	SubSpec  uint32

	// PhysTriggers, when non-nil, collects the external physics
	// triggers seen on this link.
	PhysTriggers *[]PhysTrigger

	cfg Config
	msg *log.Logger
	wl  int // GBT word length in bytes

	ru    *RUContext
	stats Stat
	chip  ChipStat

	data         PagedBuffer
	dataOffset   int
	lastPageSize int
	lastRDH      gbt.RDH
	haveRDH      bool
	hbfEntry     int
	hbfToDump    map[uint64]uint32

	status     Status
	statusInTF Status

	ir      gbt.InteractionRecord // interaction record of the current ROF
	irHBF   gbt.InteractionRecord // interaction record of the current HBF
	trigger uint32                // trigger-type bitmask of the current ROF

	lanesActive   uint32
	lanesStop     uint32
	lanesTimeOut  uint32
	lanesWithData uint32

	expectedIR     gbt.InteractionRecord
	haveExpectedIR bool
	rofJumpWasSeen bool
	jumpIR         gbt.InteractionRecord
}

// New returns a link decoder feeding the given readout-unit context.
func New(cruID, feeID uint16, ep, linkID uint8, ru *RUContext, cfg Config) *Link {
	msg := cfg.Msg
	if msg == nil {
		msg = log.New(os.Stderr, "gbtlink: ", 0)
	}
	wl := gbt.WordLength
	if cfg.Padded {
		wl = gbt.PaddedWordLength
	}
	lnk := &Link{
		CRUID:    cruID,
		FeeID:    feeID,
		Endpoint: ep,
		LinkID:   linkID,
		SubSpec:  uint32(cruID)<<16 | uint32(linkID+1)<<8 | uint32(ep),
		cfg:      cfg,
		msg:      msg,
		wl:       wl,
		ru:       ru,
		chip:     ChipStat{FeeID: feeID},
	}
	lnk.ir.Clear()
	lnk.irHBF.Clear()
	if cfg.Dump != DumpNone {
		lnk.hbfToDump = make(map[uint64]uint32)
	}
	return lnk
}

// Describe returns a short description of the link.
func (lnk *Link) Describe() string {
	return fmt.Sprintf("link cru=0x%03x lnk=%d ep=%d fee=0x%04x ru=%v",
		lnk.CRUID, lnk.LinkID, lnk.Endpoint, lnk.FeeID, lnk.ru.Type,
	)
}

// Stats returns the decoding statistics of the link.
func (lnk *Link) Stats() *Stat { return &lnk.stats }

// Chip returns the per-lane chip diagnostics of the link.
func (lnk *Link) Chip() *ChipStat { return &lnk.chip }

// Status returns the status of the last CollectROFCableData call.
func (lnk *Link) Status() Status { return lnk.status }

// StatusInTF reports whether this link was seen, or its data
// exhausted, within the current time frame.
func (lnk *Link) StatusInTF() Status { return lnk.statusInTF }

// IR returns the interaction record of the frame being decoded.
func (lnk *Link) IR() gbt.InteractionRecord { return lnk.ir }

// IRHBF returns the interaction record of the current heartbeat frame.
func (lnk *Link) IRHBF() gbt.InteractionRecord { return lnk.irHBF }

// TriggerType returns the trigger-type bitmask of the current frame.
func (lnk *Link) TriggerType() uint32 { return lnk.trigger }

// ROFJumpWasSeen reports whether the link holds cached data from a
// frame ahead of the expected one.
func (lnk *Link) ROFJumpWasSeen() bool { return lnk.rofJumpWasSeen }

// JumpIR returns the interaction record that triggered the last
// frame jump.
func (lnk *Link) JumpIR() gbt.InteractionRecord { return lnk.jumpIR }

// HBFToDump returns the heartbeat frames recorded for dump-on-error,
// keyed by subspec<<32|hbf-entry. Nil unless a dump policy is set.
func (lnk *Link) HBFToDump() map[uint64]uint32 { return lnk.hbfToDump }

// SetExpectedIR declares the frame the caller is currently
// assembling, enabling frame-jump detection.
func (lnk *Link) SetExpectedIR(ir gbt.InteractionRecord) {
	lnk.expectedIR = ir
	lnk.haveExpectedIR = true
}

// AccountLinkRecovery acknowledges a frame jump: the caller has
// advanced its frame cursor to ir and the cached data may now be
// decoded.
func (lnk *Link) AccountLinkRecovery(ir gbt.InteractionRecord) {
	lnk.SetExpectedIR(ir)
	lnk.rofJumpWasSeen = false
	lnk.stats.Recoveries++
}

// CacheData appends one CRU page to the link buffer. The bytes are
// copied in.
func (lnk *Link) CacheData(p []byte) {
	lnk.data.Add(p)
	if lnk.cfg.Verbosity >= VerboseRawDump {
		lnk.dumpPage(p)
	}
}

// Clear resets the decoding state of the link between independent
// data segments. Statistics are reset when resetStat is true; the
// cached raw pages and cursor when resetTFRaw is true.
func (lnk *Link) Clear(resetStat, resetTFRaw bool) {
	lnk.lastPageSize = 0
	lnk.haveRDH = false
	lnk.lanesActive = 0
	lnk.lanesStop = 0
	lnk.lanesTimeOut = 0
	lnk.lanesWithData = 0
	lnk.ir.Clear()
	lnk.irHBF.Clear()
	lnk.trigger = 0
	lnk.rofJumpWasSeen = false
	lnk.haveExpectedIR = false
	if resetTFRaw {
		lnk.data.Clear()
		lnk.dataOffset = 0
		lnk.statusInTF = None
	}
	if resetStat {
		lnk.stats.Clear()
		lnk.chip.Clear()
	}
	lnk.status = None
}

// CollectROFCableData advances the decoding of the cached pages by
// one readout frame, appending decoded payloads to the cable buffers
// of the readout-unit context.
func (lnk *Link) CollectROFCableData(chmap ChannelMap) Status {
	lnk.status = None
	if lnk.rofJumpWasSeen {
		// unused data from a future frame is still cached: the
		// caller must advance its frame cursor first.
		lnk.status = CachedDataExist
		return lnk.status
	}
	piece := lnk.data.CurrentPiece()
	expectPacketDone := false
	lnk.ir.Clear()
	for piece != nil { // we may loop over multiple CRU pages
		if lnk.dataOffset >= len(piece) {
			lnk.dataOffset = 0
			if piece = lnk.data.NextPiece(); piece == nil {
				break // data chunk is done
			}
		}
		if lnk.dataOffset == 0 {
			// every page starts with an RDH
			if st := lnk.readRDH(piece, chmap); st == AbortedOnError {
				return st
			}
			continue
		}

		// then we expect GBT trigger and calibration words
		trg, hasTrig, st := lnk.scanTriggers(piece)
		if st == Recovery || st == AbortedOnError {
			return st
		}
		if hasTrig {
			if !trg.Continuation() || lnk.cfg.AlwaysParseTrigger {
				if !trg.Continuation() {
					lnk.stats.NTriggers++
				}
				lnk.ir = trg.IR()
				lnk.trigger = uint32(trg.TriggerType())
				lnk.lanesStop = 0
				lnk.lanesWithData = 0
			}
			if trg.NoData() {
				if lnk.cfg.Verbosity >= VerboseHeaders {
					lnk.msg.Printf("offs %d returning with status %v for %s", lnk.dataOffset, lnk.status, lnk.Describe())
				}
				return lnk.status // the frame has no payload for this link
			}
		}
		if lnk.dataOffset+lnk.wl > lnk.lastPageSize || lnk.isAlignmentPadding(piece) {
			// end of CRU page reached while scanning triggers:
			// structural filler, not a protocol violation
			lnk.dataOffset = len(piece)
			continue
		}
		if lnk.ir.IsDummy() {
			if act := lnk.account(ErrMissingGBTTrigger, ActWarning, "payload w/o trigger"); act&ActAbort != 0 {
				return lnk.abort()
			}
		}

		expectPacketDone = true
		if st := lnk.readLanes(piece, chmap); st == DataSeen || st == AbortedOnError {
			return st
		}
	}

	if expectPacketDone {
		// no trailer with packet-done was seen: register the error,
		// keep the partial data already written to the cable buffers.
		if act := lnk.account(ErrPacketDoneMissing, ActWarning, "end of input"); act&ActAbort != 0 {
			return lnk.abort()
		}
		lnk.status = DataSeen
		lnk.statusInTF = DataSeen
		return lnk.status
	}
	lnk.status = StoppedOnEndOfData
	lnk.statusInTF = StoppedOnEndOfData
	return lnk.status
}

// readRDH validates the RDH opening the current page and positions
// the cursor on the first GBT word. It returns AbortedOnError when
// decoding may not proceed.
func (lnk *Link) readRDH(piece []byte, chmap ChannelMap) Status {
	rdh, err := gbt.RDHFrom(piece)
	if err != nil || !rdhSane(rdh, len(piece)) {
		if act := lnk.account(ErrNoRDHAtStart, ActAbort, "corrupted page header"); act&ActAbort != 0 {
			return lnk.abort()
		}
	}
	if lnk.cfg.Verbosity >= VerboseHeaders {
		lnk.printRDH(rdh)
	}
	if lnk.haveRDH && rdh.PacketCounter != lnk.lastRDH.PacketCounter+1 {
		if act := lnk.account(ErrPageCounterDiscontinuity, ActWarning,
			fmt.Sprintf("got=%d, want=%d", rdh.PacketCounter, lnk.lastRDH.PacketCounter+1)); act&ActAbort != 0 {
			return lnk.abort()
		}
	}
	if rdh.PageCount == 0 && lnk.haveRDH && !lnk.lastRDH.Stop {
		if act := lnk.account(ErrRDHStopMissing, ActWarning, "new HBF w/o stop"); act&ActAbort != 0 {
			return lnk.abort()
		}
	}
	if rdh.PageCount == 0 || lnk.irHBF.IsDummy() {
		lnk.irHBF = rdh.HeartBeatIR()
		lnk.hbfEntry = lnk.data.CurrentPieceID()
	}
	lnk.lastRDH = rdh
	lnk.haveRDH = true
	lnk.stats.NPackets++
	lnk.dataOffset = gbt.RDHSize
	lnk.lastPageSize = int(rdh.MemorySize)

	if lnk.lastPageSize == gbt.RDHSize {
		lnk.dataOffset = len(piece) // filter out empty page
		return lnk.status
	}
	if rdh.Stop {
		// only a diagnostic word may be present after the stop
		if lnk.cfg.CheckStopPageEmpty {
			if act := lnk.account(ErrStopPageNotEmpty, ActWarning, "payload on stop page"); act&ActAbort != 0 {
				return lnk.abort()
			}
		}
		switch {
		case lnk.dataOffset+lnk.wl > lnk.lastPageSize:
			if act := lnk.account(ErrMissingDiagnosticWord, ActWarning, "stop page"); act&ActAbort != 0 {
				return lnk.abort()
			}
		default:
			w := gbt.Word(piece[lnk.dataOffset:])
			if !w.IsDiagnostic() {
				if act := lnk.account(ErrMissingDiagnosticWord, ActWarning, "stop page"); act&ActAbort != 0 {
					return lnk.abort()
				}
			} else if lnk.cfg.Verbosity >= VerboseHeaders {
				lnk.printDiagnostic(gbt.Diagnostic(w))
			}
		}
		lnk.dataOffset = len(piece) // skip to the next page
		return lnk.status
	}

	// data must start with the GBT header
	if lnk.dataOffset+lnk.wl > lnk.lastPageSize {
		if act := lnk.account(ErrMissingGBTHeader, ActAbort, "page too short"); act&ActAbort != 0 {
			return lnk.abort()
		}
		lnk.dataOffset = len(piece)
		return lnk.status
	}
	w := gbt.Word(piece[lnk.dataOffset:])
	if !w.IsDataHeader() {
		if act := lnk.account(ErrMissingGBTHeader, ActAbort, fmt.Sprintf("got id=0x%02x", w.ID())); act&ActAbort != 0 {
			return lnk.abort()
		}
	}
	hdr := gbt.Header(w)
	if lnk.cfg.Verbosity >= VerboseHeaders {
		lnk.printHeader(hdr)
	}
	lnk.dataOffset += lnk.wl
	lnk.lanesActive = hdr.ActiveLanes()
	if n, want := bits.OnesCount32(lnk.lanesActive), chmap.CablesOnRUType(lnk.ru.Type); n != want {
		if act := lnk.account(ErrInvalidActiveLanes, ActWarning, fmt.Sprintf("got=%d, want=%d", n, want)); act&ActAbort != 0 {
			return lnk.abort()
		}
	}
	return lnk.status
}

// scanTriggers consumes the trigger and calibration words at the
// cursor. It returns the trigger describing the following payload,
// if any, and a non-None status when the call must terminate.
func (lnk *Link) scanTriggers(piece []byte) (gbt.Trigger, bool, Status) {
	var (
		trg     gbt.Trigger
		hasTrig bool
	)
	for lnk.dataOffset+lnk.wl <= lnk.lastPageSize {
		if w := gbt.Word(piece[lnk.dataOffset:]); w.IsTrigger() {
			t := gbt.Trigger(w)
			if lnk.cfg.Verbosity >= VerboseHeaders {
				lnk.printTrigger(t)
			}
			if !t.NoData() || t.Internal() {
				// this trigger describes the following data: check
				// for a frame jump before consuming it
				if !t.Continuation() && lnk.haveExpectedIR && lnk.expectedIR.Less(t.IR()) {
					lnk.rofJumpWasSeen = true
					lnk.jumpIR = t.IR()
					lnk.stats.ROFJumps++
					lnk.status = Recovery
					return trg, false, lnk.status
				}
				trg, hasTrig = t, true
			} else if lnk.PhysTriggers != nil {
				*lnk.PhysTriggers = append(*lnk.PhysTriggers, PhysTrigger{IR: t.IR(), Mask: uint64(t.TriggerType())})
			}
			lnk.dataOffset += lnk.wl
			if !t.Internal() {
				continue // external trigger, there may be others
			}
			if lnk.dataOffset+lnk.wl > lnk.lastPageSize {
				break
			}
		}
		w := gbt.Word(piece[lnk.dataOffset:])
		if !w.IsCalibration() {
			break
		}
		cal := gbt.Calibration(w)
		if lnk.cfg.Verbosity >= VerboseHeaders {
			lnk.printCalibration(cal)
		}
		lnk.dataOffset += lnk.wl
		lnk.ru.CalibData = CalibData{
			Counter:   cal.Counter(),
			UserField: cal.UserField(),
		}
	}
	return trg, hasTrig, None
}

// readLanes consumes the data words of the current packet up to its
// trailer or the end of the page. It returns DataSeen when the
// packet is done, AbortedOnError on fatal errors, and None when the
// packet continues on the next page.
func (lnk *Link) readLanes(piece []byte, chmap ChannelMap) Status {
	var (
		trailerSeen bool
		padSeen     bool
	)
	for lnk.dataOffset+lnk.wl <= lnk.lastPageSize {
		if lnk.isAlignmentPadding(piece) {
			padSeen = true
			break
		}
		w := gbt.Word(piece[lnk.dataOffset:])
		if w.IsDataTrailer() {
			trailerSeen = true
			break
		}
		if !w.IsData() {
			// stray word: skip it, keep decoding
			if act := lnk.account(ErrUnknownWord, ActWarning|ActSkip, fmt.Sprintf("id=0x%02x", w.ID())); act&ActAbort != 0 {
				return lnk.abort()
			}
			lnk.dataOffset += lnk.wl
			continue
		}
		d := gbt.Data(w)
		if lnk.cfg.Verbosity >= VerboseData {
			lnk.dumpWord(w)
		}
		lane := uint32(1) << d.Lane()
		if lnk.lanesActive&lane == 0 {
			if act := lnk.account(ErrDataForInactiveLane, ActWarning, fmt.Sprintf("lane=%d", d.Lane())); act&ActAbort != 0 {
				return lnk.abort()
			}
		}
		if (lnk.lanesStop|lnk.lanesTimeOut)&lane != 0 {
			if act := lnk.account(ErrDataForStoppedLane, ActWarning, fmt.Sprintf("lane=%d", d.Lane())); act&ActAbort != 0 {
				return lnk.abort()
			}
		}
		lnk.lanesWithData |= lane
		if int(d.Lane()) < conddb.MaxCables {
			lnk.chip.LaneData[d.Lane()]++
		}
		cableSW, err := chmap.CableHW2SW(lnk.ru.Type, d.CableID())
		switch {
		case err != nil:
			// unknown cable: skip the word, keep decoding
			if act := lnk.account(ErrWrongCableID, ActWarning|ActSkip, fmt.Sprintf("hw=0x%02x", d.CableID())); act&ActAbort != 0 {
				return lnk.abort()
			}
		default:
			lnk.ru.CableData[cableSW].Add(d.Payload())
			lnk.ru.CableHWID[cableSW] = d.CableID()
			lnk.ru.CableLinkID[cableSW] = lnk.IDInRU
		}
		lnk.dataOffset += lnk.wl
	}

	switch {
	case padSeen:
		if lnk.cfg.StrictPadding {
			if act := lnk.account(ErrWrongAlignmentWord, ActAbort, "padding in payload"); act&ActAbort != 0 {
				return lnk.abort()
			}
		}
		lnk.dataOffset = len(piece)
		return None // packet continues on the next CRU page

	case trailerSeen:
		t := gbt.Trailer(piece[lnk.dataOffset:])
		if lnk.cfg.Verbosity >= VerboseHeaders {
			lnk.printTrailer(t)
		}
		lnk.dataOffset += lnk.wl
		lnk.lanesStop |= t.LanesStop()
		lnk.lanesTimeOut |= t.LanesTimeout()
		lnk.chip.addTrailer(t)
		if !t.PacketDone() {
			notEnd := lnk.dataOffset+lnk.wl <= lnk.lastPageSize && !lnk.isAlignmentPadding(piece)
			if notEnd {
				if act := lnk.account(ErrPacketDoneMissing, ActWarning, "continuation mid-page"); act&ActAbort != 0 {
					return lnk.abort()
				}
			}
			return None // keep reading the next CRU page
		}
		lnk.stats.PacketStates[t.PacketState()]++
		if lnk.cfg.Verbosity >= VerboseHeaders {
			lnk.msg.Printf("offs %d leaving collect for %s with DataSeen", lnk.dataOffset, lnk.Describe())
		}
		lnk.status = DataSeen
		lnk.statusInTF = DataSeen
		return lnk.status

	default: // page exhausted before the trailer
		lnk.dataOffset = len(piece)
		return None
	}
}

func (lnk *Link) isAlignmentPadding(piece []byte) bool {
	// page alignment padding is expected only for GBT words w/o padding
	if lnk.cfg.Padded {
		return false
	}
	off := lnk.dataOffset
	if off >= len(piece) || piece[off] != 0xff || off+gbt.CRUPageAlignment < lnk.lastPageSize {
		return false
	}
	if off+gbt.WordLength <= lnk.lastPageSize && piece[off+gbt.WordLength-1] != 0xff {
		return false
	}
	return true
}

func rdhSane(rdh gbt.RDH, pageLen int) bool {
	return rdh.Version == gbt.RDHVersion &&
		rdh.HeaderSize == gbt.RDHSize &&
		int(rdh.MemorySize) >= gbt.RDHSize &&
		int(rdh.MemorySize) <= pageLen
}

// account registers one occurrence of err, printing it the first
// time (or always, at high verbosity) and recording the HBF for
// dump-on-error policies.
func (lnk *Link) account(err ErrorID, act ErrorAction, detail string) ErrorAction {
	cnt := lnk.stats.AddError(err)
	if lnk.needToPrintError(cnt) {
		lnk.msg.Printf("%s: %s (%s)", lnk.Describe(), err, detail)
		if lnk.cfg.Dump != DumpNone {
			lnk.hbfToDump[uint64(lnk.SubSpec)<<32|uint64(uint32(lnk.hbfEntry))] = lnk.irHBF.Orbit
		}
	}
	return act
}

func (lnk *Link) needToPrintError(count uint32) bool {
	if lnk.cfg.Verbosity == Silent {
		return false
	}
	return lnk.cfg.Verbosity > VerboseErrors || count == 1
}

func (lnk *Link) abort() Status {
	lnk.data.SetDone() // discard everything cached for this link
	lnk.status = AbortedOnError
	return lnk.status
}

func (lnk *Link) printRDH(rdh gbt.RDH) {
	lnk.msg.Printf("RDH v%d fee=0x%04x mem=%d next=%d packet=%d page=%d stop=%v hbf=%d/%d",
		rdh.Version, rdh.FeeID, rdh.MemorySize, rdh.OffsetToNext,
		rdh.PacketCounter, rdh.PageCount, rdh.Stop, rdh.BC, rdh.Orbit,
	)
}

func (lnk *Link) printHeader(w gbt.Header) {
	lnk.msg.Printf("offs %d header packet=%d lanes=0x%07x", lnk.dataOffset, w.PacketIdx(), w.ActiveLanes())
}

func (lnk *Link) printTrigger(w gbt.Trigger) {
	lnk.msg.Printf("offs %d trigger type=0x%03x internal=%v noData=%v cont=%v ir=%d/%d",
		lnk.dataOffset, w.TriggerType(), w.Internal(), w.NoData(), w.Continuation(), w.BC(), w.Orbit(),
	)
}

func (lnk *Link) printTrailer(w gbt.Trailer) {
	lnk.msg.Printf("offs %d trailer done=%v stops=0x%07x timeouts=0x%07x state=%d",
		lnk.dataOffset, w.PacketDone(), w.LanesStop(), w.LanesTimeout(), w.PacketState(),
	)
}

func (lnk *Link) printCalibration(w gbt.Calibration) {
	lnk.msg.Printf("offs %d calibration #%d user=0x%012x", lnk.dataOffset, w.Counter(), w.UserField())
}

func (lnk *Link) printDiagnostic(w gbt.Diagnostic) {
	lnk.msg.Printf("offs %d diagnostic lanes=0x%014x", lnk.dataOffset, w.LaneStatus())
}

func (lnk *Link) dumpWord(w gbt.Word) {
	lnk.msg.Printf("offs %d %x", lnk.dataOffset, []byte(w[:gbt.WordLength]))
}

func (lnk *Link) dumpPage(p []byte) {
	lnk.msg.Printf("caching new page for %s", lnk.Describe())
	rdh, err := gbt.RDHFrom(p)
	if err != nil {
		return
	}
	lnk.printRDH(rdh)
	for offs := gbt.RDHSize; offs+lnk.wl <= int(rdh.MemorySize); offs += lnk.wl {
		w := gbt.Word(p[offs:])
		com := "unknown"
		switch {
		case w.IsData():
			com = "data word"
		case w.IsDataHeader():
			com = "data header"
		case w.IsDataTrailer():
			com = "data trailer"
		case w.IsTrigger():
			com = "trigger word"
		case w.IsDiagnostic():
			com = "diag word"
		case w.IsCalibration():
			com = fmt.Sprintf("calib word #%d", gbt.Calibration(w).Counter())
		case w.IsCableDiagnostic():
			com = "cable diag word"
		case w.IsCableStatus():
			com = "status word"
		}
		lnk.msg.Printf(" | fee=0x%04x offs %6d %x %s", lnk.FeeID, offs, []byte(w[:gbt.WordLength]), com)
	}
}
