/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package flogging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

// NewRotatingWriter returns a writer that appends log records to path and
// rolls the file once it grows past maxRollKB kilobytes. At most maxRolls old
// files are kept. The directory holding path is created when missing.
func NewRotatingWriter(path string, maxRollKB int64, maxRolls int) (io.WriteCloser, error) {
	logDir, _ := filepath.Split(path)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o700); err != nil {
			return nil, errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	r, err := rotator.New(path, maxRollKB, false, maxRolls)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file rotator")
	}
	return r, nil
}

// Tee fans log records out to every writer. Write errors from the secondary
// writers are ignored so that a broken log file never silences stderr.
func Tee(primary io.Writer, secondary ...io.Writer) io.Writer {
	return &teeWriter{primary: primary, secondary: secondary}
}

type teeWriter struct {
	primary   io.Writer
	secondary []io.Writer
}

func (t *teeWriter) Write(p []byte) (int, error) {
	for _, w := range t.secondary {
		w.Write(p)
	}
	return t.primary.Write(p)
}
