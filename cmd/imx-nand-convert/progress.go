// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
)

// textProgressBar renders a simple carriage-return-driven progress bar,
// fed by a Converter's ProgressFunc callback.
type textProgressBar struct {
	w     io.Writer
	width int
	shown bool
}

func newTextProgressBar(w io.Writer) *textProgressBar {
	return &textProgressBar{w: w, width: 40}
}

func (b *textProgressBar) update(done, total int) {
	if total == 0 {
		return
	}
	b.shown = true
	filled := b.width * done / total
	bar := make([]byte, b.width)
	for i := range bar {
		if i < filled {
			bar[i] = '='
		} else {
			bar[i] = ' '
		}
	}
	fmt.Fprintf(b.w, "\r[%s] %d/%d pages", bar, done, total)
}

func (b *textProgressBar) finish() {
	if b.shown {
		fmt.Fprintln(b.w)
	}
}
