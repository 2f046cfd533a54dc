// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nand

import (
	"io"

	"github.com/sirupsen/logrus"
)

// discardLogger returns a logrus.Logger that throws away everything it is
// given, so components that accept an optional *logrus.Logger never have to
// nil-check before logging.
func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
