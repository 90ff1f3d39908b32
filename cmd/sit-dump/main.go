// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// sit-dump decodes and displays raw GBT link data files.
//
// Usage: sit-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> sit-dump ./testdata/run42.gbt.raw
//	=== RDH v7 fee=0x0001 mem=144 packet=0 page=0 stop=false hbf=0/1024 ===
//	  offs     64 0000000000ff010000e0 data header
//	  offs     74 0808680a0004000000e8 trigger word
//	  [...]
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/sit/gbt"
)

func main() {
	log.SetPrefix("sit-dump: ")
	log.SetFlags(0)

	padded := flag.Bool("padded", false, "GBT words are padded to 16 bytes")

	flag.Usage = func() {
		fmt.Printf(`sit-dump decodes and displays raw GBT link data files.

Usage: sit-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing path to input GBT raw file")
	}

	for _, fname := range flag.Args() {
		err := process(os.Stdout, fname, *padded)
		if err != nil {
			log.Fatalf("could not dump file %q: %+v", fname, err)
		}
	}
}

func process(w io.Writer, fname string, padded bool) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	f, err := os.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	wl := gbt.WordLength
	if padded {
		wl = gbt.PaddedWordLength
	}

	hdr := make([]byte, gbt.RDHSize)
loop:
	for {
		_, err := io.ReadFull(f, hdr)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break loop
			}
			return fmt.Errorf("could not read page header: %w", err)
		}
		rdh, err := gbt.RDHFrom(hdr)
		if err != nil {
			return fmt.Errorf("could not decode page header: %w", err)
		}
		if int(rdh.OffsetToNext) < gbt.RDHSize {
			return fmt.Errorf("invalid offset to next page (got=%d)", rdh.OffsetToNext)
		}
		fmt.Fprintf(wbuf, "=== RDH v%d fee=0x%04x mem=%d packet=%d page=%d stop=%v hbf=%d/%d ===\n",
			rdh.Version, rdh.FeeID, rdh.MemorySize,
			rdh.PacketCounter, rdh.PageCount, rdh.Stop,
			rdh.BC, rdh.Orbit,
		)

		page := make([]byte, int(rdh.OffsetToNext)-gbt.RDHSize)
		_, err = io.ReadFull(f, page)
		if err != nil {
			return fmt.Errorf("could not read page payload: %w", err)
		}
		for offs := 0; offs+wl <= int(rdh.MemorySize)-gbt.RDHSize; offs += wl {
			w := gbt.Word(page[offs:])
			fmt.Fprintf(wbuf, "  offs % 6d %x %s\n",
				offs+gbt.RDHSize, []byte(w[:gbt.WordLength]), wordKind(w),
			)
		}
	}

	return nil
}

func wordKind(w gbt.Word) string {
	switch {
	case w.IsData():
		return fmt.Sprintf("data word (cable=0x%02x)", gbt.Data(w).CableID())
	case w.IsDataHeader():
		return "data header"
	case w.IsDataTrailer():
		return "data trailer"
	case w.IsTrigger():
		return "trigger word"
	case w.IsDiagnostic():
		return "diag word"
	case w.IsCalibration():
		return fmt.Sprintf("calib word #%d", gbt.Calibration(w).Counter())
	case w.IsCableDiagnostic():
		return "cable diag word"
	case w.IsCableStatus():
		return "status word"
	}
	return "unknown"
}
