// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sit-decode decodes raw GBT link data files into LCIO files,
// one readout frame per event.
//
// Input files are decoded concurrently, one link decoder per file.
// The cable map is the nominal one unless a conditions database is
// given with -db.
package main // import "github.com/go-lpc/sit/cmd/sit-decode"

import (
	"compress/flate"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-lpc/sit/conddb"
	"github.com/go-lpc/sit/gbt/gbtlink"
	"golang.org/x/sync/errgroup"
)

var (
	msg = log.New(os.Stdout, "sit-decode: ", 0)
)

func main() {
	var (
		run    = flag.Int("run", 0, "run number of the input files")
		compr  = flag.Int("lvl", flate.DefaultCompression, "compression level for output LCIO files")
		ru     = flag.String("ru", "ib", "readout-unit type of the links (ib, ml or ol)")
		db     = flag.String("db", "", "address:port of the conditions database, nominal cable map if empty")
		padded = flag.Bool("padded", false, "GBT words are padded to 16 bytes")
		vlvl   = flag.Int("v", 0, "verbosity level of the link decoders")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: sit-decode [OPTIONS] file1.raw [file2.raw [...]]

ex:
 $> sit-decode -run 42 -lvl=9 ./run42.gbt.raw

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		msg.Fatalf("missing input raw file(s)")
	}

	rutyp, err := ruTypeFrom(*ru)
	if err != nil {
		msg.Fatalf("%+v", err)
	}

	chmap, err := cableMapFrom(*db)
	if err != nil {
		msg.Fatalf("could not load cable map: %+v", err)
	}

	cfg := gbtlink.Config{
		Padded:    *padded,
		Verbosity: gbtlink.Verbosity(*vlvl),
	}

	var grp errgroup.Group
	for i, fname := range flag.Args() {
		i, fname := i, fname
		grp.Go(func() error {
			dec := newDecoder(uint16(i), rutyp, chmap, cfg)
			return dec.process(fname, oname(fname), int32(*run), *compr)
		})
	}
	if err := grp.Wait(); err != nil {
		msg.Fatalf("could not decode raw files: %+v", err)
	}
}

func ruTypeFrom(name string) (conddb.RUType, error) {
	switch strings.ToLower(name) {
	case "ib":
		return conddb.IB, nil
	case "ml":
		return conddb.ML, nil
	case "ol":
		return conddb.OL, nil
	}
	return 0, fmt.Errorf("unknown readout-unit type %q", name)
}

func cableMapFrom(addr string) (*conddb.CableMap, error) {
	if addr == "" {
		return conddb.NewCableMap(), nil
	}
	db, err := conddb.Open(addr)
	if err != nil {
		return nil, fmt.Errorf("could not open conditions db: %w", err)
	}
	defer db.Close()

	chmap, err := db.CableMap(context.Background())
	if err != nil {
		return nil, fmt.Errorf("could not fetch cable map: %w", err)
	}
	return chmap, nil
}

func oname(fname string) string {
	if idx := strings.Index(fname, ".gbt.raw"); idx > 0 {
		return fname[:idx] + ".lcio"
	}
	return fname + ".lcio"
}
