package filters

import (
	"bytes"
	"fmt"
	"io"
)

// TransformFunc rewrites a whole file payload. Transforms are applied to
// the complete buffered content because they are not chunkable without
// framing of their own.
type TransformFunc func([]byte) ([]byte, error)

// TransformReader returns a source that buffers the entire underlying
// source on first read, applies the transform, and serves the result.
func TransformReader(src io.ReadCloser, transform TransformFunc) io.ReadCloser {
	return &transformReader{src: src, transform: transform}
}

// TransformWriter returns a sink that buffers everything written to it,
// and on Close applies the transform and writes the result to the
// underlying sink before closing it.
func TransformWriter(dst io.WriteCloser, transform TransformFunc) io.WriteCloser {
	return &transformWriter{dst: dst, transform: transform}
}

type transformReader struct {
	src       io.ReadCloser
	transform TransformFunc
	buf       *bytes.Reader
}

func (r *transformReader) Read(p []byte) (int, error) {
	if r.buf == nil {
		raw, err := io.ReadAll(r.src)
		if err != nil {
			return 0, fmt.Errorf("failed to buffer source: %w", err)
		}
		out, err := r.transform(raw)
		if err != nil {
			return 0, err
		}
		r.buf = bytes.NewReader(out)
	}
	return r.buf.Read(p)
}

func (r *transformReader) Close() error {
	return r.src.Close()
}

type transformWriter struct {
	dst       io.WriteCloser
	transform TransformFunc
	buf       bytes.Buffer
}

func (w *transformWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *transformWriter) Close() error {
	out, err := w.transform(w.buf.Bytes())
	if err != nil {
		w.dst.Close()
		return err
	}
	if _, err := w.dst.Write(out); err != nil {
		w.dst.Close()
		return fmt.Errorf("failed to flush transformed content: %w", err)
	}
	return w.dst.Close()
}
