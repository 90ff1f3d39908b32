// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sit-daq starts a TDAQ server publishing the CRU pages of
// one GBT link on its /gbt output end-point.
package main // import "github.com/go-lpc/sit/cmd/sit-daq"

import (
	"context"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
	"github.com/go-lpc/sit/gbt"
)

func main() {
	cmd := flags.New()

	dev := cru{
		name: cmd.Args[0],
		fee:  0x1,
		seed: 1234,
	}

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/gbt", dev.gbt)

	srv.RunHandle(dev.run)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

// cru emulates the GBT link end-point of a common readout unit: it
// publishes well-formed CRU pages carrying synthetic lane payloads.
type cru struct {
	name string
	fee  uint16

	seed int64
	rnd  *rand.Rand

	packet uint8
	orbit  uint32

	n    int
	data chan []byte
}

func (dev *cru) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	return nil
}

func (dev *cru) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	dev.reset()
	return nil
}

func (dev *cru) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	dev.reset()
	return nil
}

func (dev *cru) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	return nil
}

func (dev *cru) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	n := dev.n
	ctx.Msg.Debugf("received /stop command... -> n=%d", n)
	return nil
}

func (dev *cru) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	return nil
}

func (dev *cru) reset() {
	dev.rnd = rand.New(rand.NewSource(dev.seed))
	dev.data = make(chan []byte, 1024)
	dev.packet = 0
	dev.orbit = 0
	dev.n = 0
}

func (dev *cru) gbt(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case data := <-dev.data:
		dst.Body = data
	}
	return nil
}

func (dev *cru) run(ctx tdaq.Context) error {
	for {
		select {
		case <-ctx.Ctx.Done():
			return nil
		default:
			for _, page := range dev.hbf() {
				select {
				case dev.data <- page:
					dev.n++
				default:
				}
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// hbf generates the pages of one heartbeat frame: an open page with
// one readout frame for the 9 cables of an inner-barrel unit, and
// the closing stop page.
func (dev *cru) hbf() [][]byte {
	dev.orbit++
	ir := gbt.InteractionRecord{BC: uint16(dev.rnd.Intn(0xdec)), Orbit: dev.orbit}

	const ncables = 9
	lanes := uint32(1)<<ncables - 1

	bld := dev.page(0, false)
	bld.AddHeader(0, lanes)
	bld.AddTrigger(0x800, true, false, false, ir)
	for cab := 0; cab < ncables; cab++ {
		var payload [9]byte
		dev.rnd.Read(payload[:])
		bld.AddData(uint8(cab), payload)
	}
	bld.AddTrailer(lanes, 0, 0x1)
	open := bld.Bytes()

	bld = dev.page(1, true)
	bld.AddDiagnostic(uint64(lanes))
	stop := bld.Bytes()

	return [][]byte{open, stop}
}

func (dev *cru) page(cnt uint16, stop bool) *gbt.PageBuilder {
	rdh := gbt.RDH{
		FeeID:         dev.fee,
		PacketCounter: dev.packet,
		PageCount:     cnt,
		Stop:          stop,
		Orbit:         dev.orbit,
	}
	dev.packet++
	return gbt.NewPageBuilder(rdh, false)
}
