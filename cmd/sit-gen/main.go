// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// sit-gen generates synthetic raw GBT link data files, mainly to
// exercise sit-dump and sit-decode.
package main // import "github.com/go-lpc/sit/cmd/sit-gen"

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/go-lpc/sit/gbt"
)

var (
	msg = log.New(os.Stdout, "sit-gen: ", 0)
)

func main() {
	var (
		oname  = flag.String("o", "out.gbt.raw", "path to output raw file")
		nhbf   = flag.Int("hbf", 10, "number of heartbeat frames to generate")
		fee    = flag.Uint("fee", 0x1, "FEE identifier of the link")
		seed   = flag.Int64("seed", 1234, "seed of the payload generator")
		padded = flag.Bool("padded", false, "pad GBT words to 16 bytes")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: sit-gen [OPTIONS]

ex:
 $> sit-gen -o run42.gbt.raw -hbf 100 -fee 0x20

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	err := process(*oname, *nhbf, uint16(*fee), *seed, *padded)
	if err != nil {
		msg.Fatalf("could not generate raw file: %+v", err)
	}
}

func process(oname string, nhbf int, fee uint16, seed int64, padded bool) error {
	f, err := os.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	gen := &generator{
		fee:    fee,
		rnd:    rand.New(rand.NewSource(seed)),
		padded: padded,
	}
	for i := 0; i < nhbf; i++ {
		for _, page := range gen.hbf() {
			if _, err := w.Write(page); err != nil {
				return fmt.Errorf("could not write page: %w", err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("could not flush output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close output file: %w", err)
	}
	msg.Printf("generated %d HBFs for fee=0x%04x into %q", nhbf, fee, oname)
	return nil
}

type generator struct {
	fee    uint16
	rnd    *rand.Rand
	padded bool

	packet uint8 // RDH packet counter
	orbit  uint32
}

// hbf generates the CRU pages of one heartbeat frame: an open page
// carrying one readout frame of data for all the cables of an
// inner-barrel unit, and the closing stop page.
func (gen *generator) hbf() [][]byte {
	gen.orbit++
	ir := gbt.InteractionRecord{BC: uint16(gen.rnd.Intn(0xdec)), Orbit: gen.orbit}

	const ncables = 9 // inner-barrel readout unit
	lanes := uint32(1)<<ncables - 1

	bld := gen.page(0, false)
	bld.AddHeader(0, lanes)
	bld.AddTrigger(0x800, true, false, false, ir)
	for cab := 0; cab < ncables; cab++ {
		var payload [9]byte
		gen.rnd.Read(payload[:])
		bld.AddData(uint8(cab), payload)
	}
	bld.AddTrailer(lanes, 0, 0x1)
	open := bld.Bytes()

	bld = gen.page(1, true)
	bld.AddDiagnostic(uint64(lanes))
	stop := bld.Bytes()

	return [][]byte{open, stop}
}

func (gen *generator) page(cnt uint16, stop bool) *gbt.PageBuilder {
	rdh := gbt.RDH{
		FeeID:         gen.fee,
		PacketCounter: gen.packet,
		PageCount:     cnt,
		Stop:          stop,
		Orbit:         gen.orbit,
	}
	gen.packet++
	return gbt.NewPageBuilder(rdh, gen.padded)
}
