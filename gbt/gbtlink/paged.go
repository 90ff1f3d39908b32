// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gbtlink

// PagedBuffer is an append-only scatter-gather buffer of CRU pages.
// Pages are consumed front to back and released as soon as the
// cursor moves past them: callers must not retain a piece returned
// by CurrentPiece across a call to NextPiece.
type PagedBuffer struct {
	pieces [][]byte
	nadded int
	done   bool
}

// Add appends a copy of p as a new page.
func (bf *PagedBuffer) Add(p []byte) {
	page := make([]byte, len(p))
	copy(page, p)
	bf.pieces = append(bf.pieces, page)
	bf.nadded++
}

// CurrentPiece returns the page under the cursor, or nil if the
// buffer is exhausted.
func (bf *PagedBuffer) CurrentPiece() []byte {
	if bf.done || len(bf.pieces) == 0 {
		return nil
	}
	return bf.pieces[0]
}

// CurrentPieceID returns the sequential id of the page under the
// cursor, counted from the first page ever added.
func (bf *PagedBuffer) CurrentPieceID() int {
	return bf.nadded - len(bf.pieces)
}

// NextPiece releases the page under the cursor and returns the next
// one, or nil if the buffer is exhausted.
func (bf *PagedBuffer) NextPiece() []byte {
	if bf.done || len(bf.pieces) == 0 {
		return nil
	}
	bf.pieces[0] = nil
	bf.pieces = bf.pieces[1:]
	if len(bf.pieces) == 0 {
		return nil
	}
	return bf.pieces[0]
}

// SetDone marks the buffer closed, discarding every cached page.
func (bf *PagedBuffer) SetDone() {
	bf.pieces = nil
	bf.done = true
}

// Clear resets the buffer to its initial, empty state.
func (bf *PagedBuffer) Clear() {
	bf.pieces = nil
	bf.nadded = 0
	bf.done = false
}
