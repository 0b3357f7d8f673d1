package s3

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/liflab/lif-fs/fs"
)

// List enumerates the immediate children of a folder using a delimited
// listing. Subfolders come from the common prefixes, files from the object
// keys; marker objects for the folder itself are skipped.
func (s *S3FS) List(path string) ([]string, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	prefix := s.key(path)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.opts.Bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}

	var names []string
	found := prefix == ""
	for {
		result, err := s.client.ListObjectsV2(input)
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}
		for _, cp := range result.CommonPrefixes {
			if cp.Prefix == nil {
				continue
			}
			name := strings.TrimSuffix(strings.TrimPrefix(*cp.Prefix, prefix), "/")
			if name != "" {
				names = append(names, name)
			}
			found = true
		}
		for _, obj := range result.Contents {
			if obj.Key == nil {
				continue
			}
			found = true
			if strings.HasSuffix(*obj.Key, "/") {
				continue
			}
			name := strings.TrimPrefix(*obj.Key, prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			names = append(names, name)
		}
		if result.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = result.NextContinuationToken
	}

	if !found {
		return nil, fs.ErrNotFound
	}
	return names, nil
}

// IsDirectory reports whether path is a folder: the root, a marker object,
// or an implicit prefix with at least one object under it.
func (s *S3FS) IsDirectory(path string) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	prefix := s.key(path)
	if prefix == "" {
		return true, nil
	}
	prefix += "/"
	result, err := s.client.ListObjectsV2(&s3.ListObjectsV2Input{
		Bucket:  aws.String(s.opts.Bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int64(1),
	})
	if err != nil {
		return false, fmt.Errorf("listing objects: %w", err)
	}
	return len(result.Contents) > 0 || len(result.CommonPrefixes) > 0, nil
}

func (s *S3FS) IsFile(path string) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	key := s.key(path)
	if key == "" {
		return false, nil
	}
	_, err := s.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking object: %w", err)
	}
	return true, nil
}

func (s *S3FS) Size(path string) (int64, error) {
	if err := s.guard(); err != nil {
		return 0, err
	}
	key := s.key(path)
	result, err := s.client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, fs.ErrNotFound
		}
		return 0, fmt.Errorf("checking object: %w", err)
	}
	if result.ContentLength == nil {
		return 0, nil
	}
	return *result.ContentLength, nil
}

func (s *S3FS) OpenRead(path string) (io.ReadCloser, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	key := s.key(path)
	result, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fs.ErrNotFound
		}
		return nil, fmt.Errorf("getting object: %w", err)
	}
	s.logger.Debug("object opened",
		zap.String("bucket", s.opts.Bucket),
		zap.String("key", key))
	return result.Body, nil
}

// OpenWrite returns a sink that buffers the whole payload and uploads it in
// a single PutObject when closed, so a partially written stream never
// becomes visible in the bucket.
func (s *S3FS) OpenWrite(path string) (io.WriteCloser, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	key := s.key(path)
	if key == "" || strings.HasSuffix(key, "/") {
		return nil, fs.ErrWrongKind
	}
	return &objectWriter{owner: s, key: key}, nil
}

func (s *S3FS) Mkdir(path string) error {
	if err := s.guard(); err != nil {
		return err
	}
	key := s.key(path)
	if key == "" {
		return nil
	}
	key += "/"
	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return fmt.Errorf("creating folder marker: %w", err)
	}
	s.logger.Debug("folder created",
		zap.String("bucket", s.opts.Bucket),
		zap.String("key", key))
	return nil
}

// Rmdir deletes a folder and everything under it.
func (s *S3FS) Rmdir(path string) error {
	if err := s.guard(); err != nil {
		return err
	}
	ok, err := s.IsDirectory(path)
	if err != nil {
		return err
	}
	if !ok {
		return fs.ErrWrongKind
	}
	prefix := s.key(path)
	if prefix != "" {
		prefix += "/"
	}
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.opts.Bucket),
		Prefix: aws.String(prefix),
	}
	for {
		result, err := s.client.ListObjectsV2(input)
		if err != nil {
			return fmt.Errorf("listing objects: %w", err)
		}
		for _, obj := range result.Contents {
			if obj.Key == nil {
				continue
			}
			_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
				Bucket: aws.String(s.opts.Bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return fmt.Errorf("deleting object %s: %w", *obj.Key, err)
			}
		}
		if result.NextContinuationToken == nil {
			break
		}
		input.ContinuationToken = result.NextContinuationToken
	}
	return nil
}

func (s *S3FS) Remove(path string) error {
	if err := s.guard(); err != nil {
		return err
	}
	ok, err := s.IsFile(path)
	if err != nil {
		return err
	}
	if !ok {
		return fs.ErrNotFound
	}
	key := s.key(path)
	_, err = s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting object: %w", err)
	}
	s.logger.Debug("object deleted",
		zap.String("bucket", s.opts.Bucket),
		zap.String("key", key))
	return nil
}

// objectWriter accumulates the payload and uploads it on Close.
type objectWriter struct {
	owner *S3FS
	key   string
	buf   bytes.Buffer
}

func (w *objectWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *objectWriter) Close() error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(w.owner.opts.Bucket),
		Key:    aws.String(w.key),
		Body:   bytes.NewReader(w.buf.Bytes()),
	}
	if sse := w.owner.opts.ServerSideEncryption; sse != "" {
		input.ServerSideEncryption = aws.String(sse)
		if sse == "aws:kms" && w.owner.opts.KMSKeyID != "" {
			input.SSEKMSKeyId = aws.String(w.owner.opts.KMSKeyID)
		}
	}
	if w.owner.opts.ACL != "" {
		input.ACL = aws.String(w.owner.opts.ACL)
	}
	if _, err := w.owner.client.PutObject(input); err != nil {
		return fmt.Errorf("putting object: %w", err)
	}
	w.owner.logger.Debug("object written",
		zap.String("bucket", w.owner.opts.Bucket),
		zap.String("key", w.key),
		zap.Int("size", w.buf.Len()))
	return nil
}
