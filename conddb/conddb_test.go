// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package conddb

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/go-lpc/sit/internal/fakedb"
)

func init() {
	drvName = "fakedb"
}

func TestOpen(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open conddb: %+v", err)
	}
	defer db.Close()
}

func TestCableMap(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open conddb: %+v", err)
	}
	defer db.Close()

	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"rutype", "hwid", "swid"},
		Values: [][]driver.Value{
			{uint8(IB), uint8(0), uint8(3)},
			{uint8(IB), uint8(1), uint8(0)},
			{uint8(ML), uint8(2), uint8(2)},
		},
	}, func(ctx context.Context) error {
		cmap, err := db.CableMap(ctx)
		if err != nil {
			t.Fatalf("could not retrieve cable map: %+v", err)
		}

		for _, tc := range []struct {
			typ  RUType
			hw   uint8
			want uint8
		}{
			{IB, 0, 3},
			{IB, 1, 0},
			{ML, 2, 2},
		} {
			sw, err := cmap.CableHW2SW(tc.typ, tc.hw)
			if err != nil {
				t.Fatalf("could not map cable %v/%d: %+v", tc.typ, tc.hw, err)
			}
			if got, want := sw, tc.want; got != want {
				t.Fatalf("invalid sw cable for %v/%d: got=%d, want=%d", tc.typ, tc.hw, got, want)
			}
		}

		if _, err := cmap.CableHW2SW(IB, 2); err == nil {
			t.Fatalf("expected an error for an unmapped cable")
		}
		return nil
	})
}

func TestCableMapInvalidRow(t *testing.T) {
	db, err := Open("fakedb")
	if err != nil {
		t.Fatalf("could not open conddb: %+v", err)
	}
	defer db.Close()

	_ = fakedb.Run(context.Background(), fakedb.Rows{
		Names: []string{"rutype", "hwid", "swid"},
		Values: [][]driver.Value{
			{uint8(IB), uint8(0), uint8(25)}, // sw out of range for IB
		},
	}, func(ctx context.Context) error {
		_, err := db.CableMap(ctx)
		if err == nil {
			t.Fatalf("expected an error for an invalid cable map row")
		}
		return nil
	})
}
