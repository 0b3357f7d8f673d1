// Package throttle provides bandwidth-limited and capacity-capped byte
// channels. Pacing follows the cumulative-average rule: before each I/O
// call the channel sleeps for
//
//	max(0, bytes/maxRate*1000 - elapsedMs)
//
// milliseconds, which converges the average transfer rate to the cap while
// tolerating short bursts. The pacing rule is adapted from the throttled
// streams of the Apache HBase project.
package throttle

import (
	"io"
	"time"
)

// Unlimited disables the rate cap of a channel.
const Unlimited int64 = 0

// Reader paces reads from an underlying source to a maximum number of
// bytes per second.
type Reader struct {
	src            io.ReadCloser
	maxBytesPerSec int64
	start          time.Time
	read           int64
	totalSleep     time.Duration
}

// NewReader wraps a source with a rate cap in bytes per second; a
// non-positive cap disables pacing.
func NewReader(src io.ReadCloser, maxBytesPerSec int64) *Reader {
	return &Reader{src: src, maxBytesPerSec: maxBytesPerSec, start: time.Now()}
}

// Read blocks for the pacing interval, then reads from the source.
func (r *Reader) Read(p []byte) (int, error) {
	sleep(sleepTime(r.read, r.maxBytesPerSec, time.Since(r.start)), &r.totalSleep)
	n, err := r.src.Read(p)
	r.read += int64(n)
	return n, err
}

// Close closes the underlying source.
func (r *Reader) Close() error {
	return r.src.Close()
}

// TotalBytes returns the number of bytes read since creation.
func (r *Reader) TotalBytes() int64 {
	return r.read
}

// TotalSleep returns the cumulative time spent blocked by pacing.
func (r *Reader) TotalSleep() time.Duration {
	return r.totalSleep
}

// sleepTime computes the pacing delay for a channel that has moved the
// given number of bytes over the elapsed wall-clock duration.
func sleepTime(bytes, maxBytesPerSec int64, elapsed time.Duration) time.Duration {
	if bytes <= 0 || maxBytesPerSec <= 0 {
		return 0
	}
	target := time.Duration(float64(bytes) / float64(maxBytesPerSec) * float64(time.Second))
	if target <= elapsed {
		return 0
	}
	return target - elapsed
}

func sleep(d time.Duration, total *time.Duration) {
	if d <= 0 {
		return
	}
	*total += d
	time.Sleep(d)
}
