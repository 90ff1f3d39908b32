// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-lpc/sit/conddb"
	"github.com/go-lpc/sit/gbt"
	"github.com/go-lpc/sit/gbt/gbtlink"
	"go-hep.org/x/hep/lcio"
)

// decoder drives one link decoder over one raw file and writes the
// decoded readout frames to an LCIO file.
type decoder struct {
	lnk   *gbtlink.Link
	ru    *gbtlink.RUContext
	chmap *conddb.CableMap
}

func newDecoder(id uint16, typ conddb.RUType, chmap *conddb.CableMap, cfg gbtlink.Config) *decoder {
	ru := gbtlink.NewRUContext(typ, chmap)
	return &decoder{
		lnk:   gbtlink.New(0, id, 0, uint8(id), ru, cfg),
		ru:    ru,
		chmap: chmap,
	}
}

func (dec *decoder) process(fname, oname string, run int32, lvl int) error {
	f, err := os.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open raw file: %w", err)
	}
	defer f.Close()

	err = dec.cachePages(f)
	if err != nil {
		return fmt.Errorf("could not read %q: %w", fname, err)
	}

	w, err := lcio.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create output LCIO file: %w", err)
	}
	defer w.Close()

	w.SetCompressionLevel(lvl)

	err = w.WriteRunHeader(&lcio.RunHeader{
		RunNumber: run,
		Detector:  "SIT",
		Params: lcio.Params{
			Ints: map[string][]int32{
				"RUType": {int32(dec.ru.Type)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("could not write run header: %w", err)
	}

	err = dec.loop(w, run)
	if err != nil {
		return fmt.Errorf("could not decode %q: %w", fname, err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("could not close output LCIO file: %w", err)
	}

	msg.Printf("%s: %s", dec.lnk.Describe(), dec.lnk.Stats().Describe())
	return nil
}

// cachePages reads the raw file page by page into the link buffer.
func (dec *decoder) cachePages(f io.Reader) error {
	hdr := make([]byte, gbt.RDHSize)
	for {
		_, err := io.ReadFull(f, hdr)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
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
		page := make([]byte, rdh.OffsetToNext)
		copy(page, hdr)
		_, err = io.ReadFull(f, page[gbt.RDHSize:])
		if err != nil {
			return fmt.Errorf("could not read page payload: %w", err)
		}
		dec.lnk.CacheData(page)
	}
}

func (dec *decoder) loop(w *lcio.Writer, run int32) error {
	raw := &lcio.GenericObject{
		Data: []lcio.GenericObjectData{
			{I32s: nil},
		},
	}
	for i := int32(0); ; {
		st := dec.lnk.CollectROFCableData(dec.chmap)
		switch st {
		case gbtlink.StoppedOnEndOfData:
			return nil
		case gbtlink.AbortedOnError:
			return fmt.Errorf("decoding aborted: %s", dec.lnk.Stats().Describe())
		case gbtlink.Recovery, gbtlink.CachedDataExist:
			dec.lnk.AccountLinkRecovery(dec.lnk.JumpIR())
			continue
		case gbtlink.None:
			// frame carried no payload for this link
			continue
		}

		ir := dec.lnk.IR()
		evt := lcio.Event{
			RunNumber:   run,
			EventNumber: i,
			TimeStamp:   int64(ir.Orbit)<<12 | int64(ir.BC),
			Detector:    "SIT",
		}
		raw.Data[0].I32s = dec.i32s()
		evt.Add("SIT_RAW", raw)

		if err := w.WriteEvent(&evt); err != nil {
			return fmt.Errorf("could not write event %d: %w", i, err)
		}
		dec.ru.Clear()
		i++
	}
}

// i32s packs the cable payloads of the current frame into the flat
// int32 stream stored in the LCIO generic object: a 4-word frame
// header, then per cable its id, payload length and payload bytes.
func (dec *decoder) i32s() []int32 {
	ir := dec.lnk.IR()
	data := []int32{
		int32(dec.lnk.FeeID),
		int32(dec.lnk.TriggerType()),
		int32(ir.BC),
		int32(ir.Orbit),
	}
	for cab := range dec.ru.CableData {
		buf := &dec.ru.CableData[cab]
		if buf.Len() == 0 {
			continue
		}
		data = append(data, int32(cab), int32(buf.Len()))
		data = append(data, i32sFrom(buf.Bytes())...)
	}
	return data
}

func i32sFrom(p []byte) []int32 {
	const i32sz = 4
	// pad into a fresh slice, p aliases a cable buffer
	raw := make([]byte, (len(p)+i32sz-1)/i32sz*i32sz)
	copy(raw, p)
	o := make([]int32, len(raw)/i32sz)
	for i := range o {
		o[i] = int32(binary.LittleEndian.Uint32(raw[i*i32sz:]))
	}
	return o
}
