package filters

import (
	"io"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/liflab/lif-fs/fs"
	"github.com/liflab/lif-fs/fsutil"
	"github.com/liflab/lif-fs/throttle"
)

// Throttled bounds the bandwidth and total capacity of an inner store. Read
// and write streams are paced to a byte rate, and writes are refused once
// the store's accounted size would exceed the configured ceiling.
// Overwriting an existing file only charges the difference against the
// ceiling. An optional operation gate additionally limits how many calls per
// second reach the inner store.
type Throttled struct {
	Filter

	mu             sync.Mutex
	maxBytesPerSec int64
	sizeLimit      int64
	used           int64
	opLimiter      *rate.Limiter
}

// NewThrottled wraps a store with a byte-rate cap. A non-positive rate
// leaves streams unpaced. The current size of the store is measured once at
// construction and maintained incrementally afterwards; measurement failures
// start the account at zero.
func NewThrottled(inner fs.FileSystem, maxBytesPerSec int64) *Throttled {
	t := &Throttled{
		Filter:         Filter{FileSystem: inner},
		maxBytesPerSec: maxBytesPerSec,
		sizeLimit:      -1,
	}
	if used, err := fsutil.TreeSize(inner, "/"); err == nil {
		t.used = used
	}
	return t
}

// SetSpeedLimit changes the byte rate for streams opened afterwards. A
// non-positive rate removes pacing.
func (t *Throttled) SetSpeedLimit(maxBytesPerSec int64) {
	t.mu.Lock()
	t.maxBytesPerSec = maxBytesPerSec
	t.mu.Unlock()
}

// SetSizeLimit caps the total number of bytes the store may hold. A
// negative limit removes the cap.
func (t *Throttled) SetSizeLimit(limit int64) {
	t.mu.Lock()
	t.sizeLimit = limit
	t.mu.Unlock()
}

// SetOpRate limits how many calls per second are forwarded to the inner
// store. A non-positive rate removes the gate.
func (t *Throttled) SetOpRate(opsPerSec float64) {
	t.mu.Lock()
	if opsPerSec <= 0 {
		t.opLimiter = nil
	} else {
		t.opLimiter = rate.NewLimiter(rate.Limit(opsPerSec), 1)
	}
	t.mu.Unlock()
}

// Used reports the number of bytes currently charged against the ceiling.
func (t *Throttled) Used() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.used
}

// gate blocks until the operation limiter admits one more call.
func (t *Throttled) gate() {
	t.mu.Lock()
	l := t.opLimiter
	t.mu.Unlock()
	if l == nil {
		return
	}
	r := l.Reserve()
	if d := r.Delay(); d > 0 {
		time.Sleep(d)
	}
}

func (t *Throttled) List(path string) ([]string, error) {
	t.gate()
	return t.Filter.List(path)
}

func (t *Throttled) IsDirectory(path string) (bool, error) {
	t.gate()
	return t.Filter.IsDirectory(path)
}

func (t *Throttled) IsFile(path string) (bool, error) {
	t.gate()
	return t.Filter.IsFile(path)
}

func (t *Throttled) Size(path string) (int64, error) {
	t.gate()
	return t.Filter.Size(path)
}

func (t *Throttled) OpenRead(path string) (io.ReadCloser, error) {
	t.gate()
	src, err := t.Filter.OpenRead(path)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	max := t.maxBytesPerSec
	t.mu.Unlock()
	if max <= 0 {
		return src, nil
	}
	return throttle.NewReader(src, max), nil
}

func (t *Throttled) OpenWrite(path string) (io.WriteCloser, error) {
	t.gate()

	// Overwriting nets out the bytes the file already holds.
	var existing int64
	if ok, err := t.Filter.IsFile(path); err == nil && ok {
		if n, err := t.Filter.Size(path); err == nil {
			existing = n
		}
	}

	dst, err := t.Filter.OpenWrite(path)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	max := t.maxBytesPerSec
	limit := t.sizeLimit
	used := t.used
	t.mu.Unlock()

	w := throttle.NewWriter(dst, max)
	if limit >= 0 {
		room := limit - used + existing
		if room < 0 {
			room = 0
		}
		w.SetMaxBytes(room)
	}
	return &cappedSink{w: w, owner: t, existing: existing}, nil
}

func (t *Throttled) Remove(path string) error {
	t.gate()
	var freed int64
	if n, err := t.Filter.Size(path); err == nil {
		freed = n
	}
	if err := t.Filter.Remove(path); err != nil {
		return err
	}
	t.credit(freed)
	return nil
}

func (t *Throttled) Rmdir(path string) error {
	t.gate()
	var freed int64
	if n, err := fsutil.TreeSize(t.Inner(), path); err == nil {
		freed = n
	}
	if err := t.Filter.Rmdir(path); err != nil {
		return err
	}
	t.credit(freed)
	return nil
}

func (t *Throttled) credit(n int64) {
	t.mu.Lock()
	t.used -= n
	if t.used < 0 {
		t.used = 0
	}
	t.mu.Unlock()
}

// cappedSink settles the capacity account when the stream is closed: the
// file's new size replaces whatever it held before.
type cappedSink struct {
	w        *throttle.Writer
	owner    *Throttled
	existing int64
	settled  bool
}

func (s *cappedSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *cappedSink) Close() error {
	if s.settled {
		return nil
	}
	s.settled = true
	err := s.w.Close()
	s.owner.mu.Lock()
	s.owner.used += s.w.TotalBytes() - s.existing
	if s.owner.used < 0 {
		s.owner.used = 0
	}
	s.owner.mu.Unlock()
	return err
}
