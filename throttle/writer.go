package throttle

import (
	"io"
	"time"

	"github.com/liflab/lif-fs/fs"
)

// Writer paces writes to an underlying sink and optionally enforces a hard
// ceiling on the number of bytes that may pass through it. A write fails
// with fs.ErrCapacityExceeded the instant it would push the total past the
// ceiling; bytes accepted by earlier calls are not rolled back, so callers
// must treat a capacity failure as "resource now exhausted", not "write
// ignored".
type Writer struct {
	dst            io.WriteCloser
	maxBytesPerSec int64
	maxBytes       int64
	capped         bool
	start          time.Time
	written        int64
	totalSleep     time.Duration
}

// NewWriter wraps a sink with a rate cap in bytes per second; a
// non-positive cap disables pacing.
func NewWriter(dst io.WriteCloser, maxBytesPerSec int64) *Writer {
	return &Writer{dst: dst, maxBytesPerSec: maxBytesPerSec, start: time.Now()}
}

// SetMaxBytes sets the ceiling on the total number of bytes the writer
// accepts; a negative value removes the ceiling.
func (w *Writer) SetMaxBytes(max int64) {
	w.maxBytes = max
	w.capped = max >= 0
}

// Write blocks for the pacing interval, checks the ceiling and writes to
// the sink.
func (w *Writer) Write(p []byte) (int, error) {
	sleep(sleepTime(w.written, w.maxBytesPerSec, time.Since(w.start)), &w.totalSleep)
	if w.capped && w.written+int64(len(p)) > w.maxBytes {
		return 0, fs.ErrCapacityExceeded
	}
	n, err := w.dst.Write(p)
	w.written += int64(n)
	return n, err
}

// Close closes the underlying sink.
func (w *Writer) Close() error {
	return w.dst.Close()
}

// TotalBytes returns the number of bytes written since creation.
func (w *Writer) TotalBytes() int64 {
	return w.written
}

// TotalSleep returns the cumulative time spent blocked by pacing.
func (w *Writer) TotalSleep() time.Duration {
	return w.totalSleep
}
