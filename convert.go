// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nand

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ProgressFunc is invoked once per processed page with the number of pages
// done so far and the total page count for the run.
type ProgressFunc func(done, total int)

// Overrides carries the optional FCB field overrides a caller may supply
// before a conversion starts. A zero value for a given field leaves the
// parsed Geometry untouched for that field.
type Overrides struct {
	MetadataBytes  *uint32
	PageDataSize   *uint32
	EccSizeBits    *uint32
	BadBlockMarker *uint32
}

// Apply mutates geom according to whichever fields of o are non-nil, in the
// same order the original conversion entry points applied them: metadata,
// page size, ECC size, then bad-block marker.
func (o Overrides) Apply(geom *Geometry) {
	if o.MetadataBytes != nil {
		geom.SetMetadataBytes(*o.MetadataBytes)
	}
	if o.PageDataSize != nil {
		geom.SetPageDataSize(*o.PageDataSize)
	}
	if o.EccSizeBits != nil {
		geom.SetEccSizeBits(*o.EccSizeBits)
	}
	if o.BadBlockMarker != nil {
		geom.SetBadBlockMarker(*o.BadBlockMarker)
	}
}

// Converter drives the splitter across every page of a dump, or a
// firmware-restricted subrange of it, writing linearised output and
// aggregating ECC statistics for the run.
type Converter struct {
	geom       *Geometry
	log        *logrus.Logger
	correct    bool
	onProgress ProgressFunc

	splitter *Splitter
}

// NewConverter builds a Converter bound to geom. correct enables BCH
// correction during the page loop; onProgress may be nil. A nil logger is
// replaced with a discard logger.
func NewConverter(geom *Geometry, correct bool, onProgress ProgressFunc, log *logrus.Logger) *Converter {
	if log == nil {
		log = discardLogger()
	}
	return &Converter{
		geom:       geom,
		log:        log,
		correct:    correct,
		onProgress: onProgress,
		splitter:   NewSplitter(geom, log),
	}
}

// Stats returns the ECC statistics accumulated by this converter's current
// or most recent conversion.
func (c *Converter) Stats() Stats {
	return c.splitter.Stats
}

// ConvertAll runs a full-image conversion: every whole page in dump is
// split and written to w in ascending order. Any trailing bytes shorter
// than one page are ignored.
func (c *Converter) ConvertAll(ctx context.Context, dump []byte, w io.Writer) error {
	return c.run(ctx, dump, w)
}

// ConvertFirmware restricts dump to the firmware extent identified by id
// (1 or 2) before running the same page loop as ConvertAll.
func (c *Converter) ConvertFirmware(ctx context.Context, dump []byte, id int, w io.Writer) error {
	var start, pages uint32
	switch id {
	case 1:
		start, pages = c.geom.FW1Start, c.geom.PagesFW1
	case 2:
		start, pages = c.geom.FW2Start, c.geom.PagesFW2
	default:
		return ErrFirmwareIDInvalid
	}

	from := uint64(start) * uint64(c.geom.TotalPageSize)
	to := from + uint64(pages)*uint64(c.geom.TotalPageSize)
	if to > uint64(len(dump)) {
		to = uint64(len(dump))
	}
	if from > uint64(len(dump)) {
		from = uint64(len(dump))
	}

	return c.run(ctx, dump[from:to], w)
}

// run walks content page by page, writing each split result to w and
// invoking the progress callback after each page. It aborts only on
// geometry-level failures; per-page ECC outcomes are recovered locally by
// the splitter.
func (c *Converter) run(ctx context.Context, content []byte, w io.Writer) error {
	if err := c.geom.Validate(); err != nil {
		return err
	}

	// Each conversion starts with fresh ECC statistics and codec cache.
	c.splitter = NewSplitter(c.geom, c.log)

	pageSize := int(c.geom.TotalPageSize)
	total := len(content) / pageSize

	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		page := content[i*pageSize : (i+1)*pageSize]
		block, err := c.splitter.SplitPage(page, c.correct)
		if err != nil {
			return errors.Wrapf(err, "page %d", i)
		}
		if _, err := w.Write(block); err != nil {
			return errors.Wrapf(err, "writing page %d", i)
		}

		if c.onProgress != nil {
			c.onProgress(i+1, total)
		}
	}

	if c.correct {
		stats := c.Stats()
		c.log.WithFields(logrus.Fields{
			"clean":         stats.Clean,
			"corrected":     stats.Corrected,
			"uncorrectable": stats.Uncorrectable,
			"fatal":         stats.Fatal,
		}).Info("ECC statistics")
	}

	return nil
}
