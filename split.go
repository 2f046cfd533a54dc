// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nand

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// blockParams bundles the per-block sizing the splitter needs, for either
// Block0 or a BlockN region.
type blockParams struct {
	dataSize uint32
	t        uint32
}

// Splitter de-interleaves a single raw NAND page into its linear data
// blocks, optionally running each block through BCH correction. It owns the
// BCH codec cache and the run-wide ECC statistics, matching the way the
// i.MX conversion pipeline configures its BCH engine once and reuses it for
// every page.
type Splitter struct {
	geom *Geometry
	log  *logrus.Logger

	codecs map[uint32]*bchCodec // keyed by effective t (2 * stored strength)
	Stats  Stats
}

// Stats aggregates BCH decode outcomes across a run.
type Stats struct {
	Clean         int
	Corrected     int
	Uncorrectable int
	Fatal         int
}

func (s *Stats) record(outcome BCHOutcome) {
	switch outcome {
	case BCHClean:
		s.Clean++
	case BCHCorrected:
		s.Corrected++
	case BCHUncorrectable:
		s.Uncorrectable++
	case BCHFatal:
		s.Fatal++
	}
}

// NewSplitter builds a Splitter bound to geom. A nil logger is replaced
// with a discard logger so library consumers are never forced to see
// output.
func NewSplitter(geom *Geometry, log *logrus.Logger) *Splitter {
	if log == nil {
		log = discardLogger()
	}
	return &Splitter{
		geom:   geom,
		log:    log,
		codecs: make(map[uint32]*bchCodec),
	}
}

// codecFor returns the cached BCH codec for effective strength t,
// constructing and caching it on first use.
func (s *Splitter) codecFor(t uint32) (*bchCodec, error) {
	if c, ok := s.codecs[t]; ok {
		return c, nil
	}
	c, err := newBCHCodec(int(t))
	if err != nil {
		return nil, err
	}
	s.codecs[t] = c
	return c, nil
}

// SplitPage de-interleaves one raw page (exactly geom.TotalPageSize bytes)
// into the concatenation of its corrected (or raw, when correct is false)
// data blocks: Block0 followed by geom.NbEccBlocksPerPage BlockN regions.
func (s *Splitter) SplitPage(page []byte, correct bool) ([]byte, error) {
	if uint32(len(page)) != s.geom.TotalPageSize {
		return nil, errors.Wrapf(ErrPageTruncated, "page is %d bytes, want %d", len(page), s.geom.TotalPageSize)
	}

	page = relocateBadBlockMarker(page, s.geom.MarkerRawOffset)
	page = page[s.geom.MetadataBytes:]

	out := make([]byte, 0, s.geom.EccBlock0DataSize+s.geom.NbEccBlocksPerPage*s.geom.EccBlockNDataSize)

	nbBlocks := s.geom.NbEccBlocksPerPage + 1
	for i := uint32(0); i < nbBlocks; i++ {
		params := s.geom.blockNParams()
		if i == 0 {
			params = s.geom.block0Params()
		}

		eccBits := 26 * params.t
		eccBytes := ceilDiv(eccBits, 8)

		if uint32(len(page)) < params.dataSize+eccBytes {
			return nil, errors.Wrapf(ErrPageTruncated, "block %d needs %d bytes, have %d", i, params.dataSize+eccBytes, len(page))
		}

		block := page[:params.dataSize]
		ecc := page[params.dataSize : params.dataSize+eccBytes]

		if correct {
			codec, err := s.codecFor(2 * params.t)
			if err != nil {
				return nil, errors.Wrap(err, "building BCH codec")
			}
			result := codec.decode(block, ecc)
			s.Stats.record(result.Outcome)
			s.log.WithFields(logrus.Fields{
				"block":     i,
				"outcome":   result.Outcome.String(),
				"corrected": result.Corrected,
			}).Debug("bch decode")
			block = result.Data
		}

		out = append(out, block...)

		page = ShiftBits(page, int(params.dataSize*8+eccBits))
	}

	return out, nil
}

// block0Params returns the Block0 sizing parameters.
func (g *Geometry) block0Params() blockParams {
	return blockParams{dataSize: g.EccBlock0DataSize, t: g.EccBlock0T}
}

// blockNParams returns the BlockN sizing parameters.
func (g *Geometry) blockNParams() blockParams {
	return blockParams{dataSize: g.EccBlockNDataSize, t: g.EccBlockNT}
}

// relocateBadBlockMarker copies page's first byte (the relocated marker
// the NAND controller stores at page start) into markerRawOffset, losing
// whatever value was previously there. This matches i.MX hardware
// behaviour and is applied unconditionally, with no equality guard.
func relocateBadBlockMarker(page []byte, markerRawOffset uint32) []byte {
	out := make([]byte, len(page))
	copy(out, page)
	if int(markerRawOffset) < len(out) {
		out[markerRawOffset] = out[0]
	}
	return out
}
