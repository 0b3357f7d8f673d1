package filters

import (
	"encoding/base64"
	"io"

	"github.com/liflab/lif-fs/fs"
)

// ContentTransform applies a reversible byte transform to file contents:
// written payloads go through encode before reaching the inner store, read
// payloads come back through decode. The transform operates on the whole
// payload, so streams are buffered in full; the encode step runs when a
// write stream is closed and the decode step on the first read. Size
// reports the stored, encoded length.
type ContentTransform struct {
	Filter
	encode TransformFunc
	decode TransformFunc
}

// NewContentTransform wraps a store with an encode/decode pair.
func NewContentTransform(inner fs.FileSystem, encode, decode TransformFunc) *ContentTransform {
	return &ContentTransform{
		Filter: Filter{FileSystem: inner},
		encode: encode,
		decode: decode,
	}
}

func (c *ContentTransform) OpenWrite(path string) (io.WriteCloser, error) {
	dst, err := c.Filter.OpenWrite(path)
	if err != nil {
		return nil, err
	}
	return TransformWriter(dst, c.encode), nil
}

func (c *ContentTransform) OpenRead(path string) (io.ReadCloser, error) {
	src, err := c.Filter.OpenRead(path)
	if err != nil {
		return nil, err
	}
	return TransformReader(src, c.decode), nil
}

// NewBase64 wraps a store so that file contents are kept base64-encoded in
// the inner store and decoded transparently on read.
func NewBase64(inner fs.FileSystem) *ContentTransform {
	return NewContentTransform(inner,
		func(p []byte) ([]byte, error) {
			out := make([]byte, base64.StdEncoding.EncodedLen(len(p)))
			base64.StdEncoding.Encode(out, p)
			return out, nil
		},
		func(p []byte) ([]byte, error) {
			out := make([]byte, base64.StdEncoding.DecodedLen(len(p)))
			n, err := base64.StdEncoding.Decode(out, p)
			if err != nil {
				return nil, err
			}
			return out[:n], nil
		})
}
