// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sit

import (
	"runtime/debug"
	"testing"
)

func TestVersionOf(t *testing.T) {
	const root = "github.com/go-lpc/sit"
	for _, tc := range []struct {
		name    string
		binfo   *debug.BuildInfo
		version string
		sum     string
	}{
		{name: "nil"},
		{name: "no-dep", binfo: &debug.BuildInfo{}},
		{
			name: "regular",
			binfo: &debug.BuildInfo{Deps: []*debug.Module{
				{Path: root, Version: "v0.1.0", Sum: "h1:deadbeef"},
			}},
			version: "v0.1.0",
			sum:     "h1:deadbeef",
		},
		{
			name: "replaced",
			binfo: &debug.BuildInfo{Deps: []*debug.Module{
				{Path: root, Version: "v0.1.0", Replace: &debug.Module{
					Path: "example.com/sit", Version: "v0.2.0", Sum: "h1:cafe",
				}},
			}},
			version: "example.com/sit v0.2.0",
			sum:     "h1:cafe",
		},
		{
			name: "replaced-version-only",
			binfo: &debug.BuildInfo{Deps: []*debug.Module{
				{Path: root, Version: "v0.1.0", Replace: &debug.Module{
					Version: "v0.3.0", Sum: "h1:f00d",
				}},
			}},
			version: "v0.3.0",
			sum:     "h1:f00d",
		},
		{
			name: "replaced-local",
			binfo: &debug.BuildInfo{Deps: []*debug.Module{
				{Path: root, Version: "v0.1.0", Replace: &debug.Module{}},
			}},
			version: "v0.1.0*",
			sum:     "",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			version, sum := versionOf(tc.binfo)
			if got, want := version, tc.version; got != want {
				t.Fatalf("invalid version: got=%q, want=%q", got, want)
			}
			if got, want := sum, tc.sum; got != want {
				t.Fatalf("invalid sum: got=%q, want=%q", got, want)
			}
		})
	}
}
