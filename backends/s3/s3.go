// Package s3 backs the file system contract with an S3 bucket. Folders are
// represented by zero-byte marker objects whose key ends with a slash, the
// convention most S3 browsers understand.
package s3

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/liflab/lif-fs/fs"
)

// Options configures access to a bucket.
type Options struct {
	Endpoint             string
	Region               string
	Bucket               string
	AccessKey            string
	SecretKey            string
	ServerSideEncryption string
	ACL                  string
	KMSKeyID             string
}

// S3FS is a file system stored in an S3 bucket.
type S3FS struct {
	cur    fs.Cursor
	lease  fs.Lease
	client *s3.S3
	opts   Options
	logger *zap.Logger
}

// New builds a bucket-backed store. The bucket is not contacted until Open.
func New(opts Options, logger *zap.Logger) (*S3FS, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	awsConfig := &aws.Config{
		Region: aws.String(opts.Region),
		Credentials: credentials.NewStaticCredentials(
			opts.AccessKey,
			opts.SecretKey,
			"",
		),
	}

	// Custom endpoints (MinIO and friends) need path-style addressing.
	if opts.Endpoint != "" {
		awsConfig.Endpoint = aws.String(opts.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		awsConfig.S3DisableContentMD5Validation = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}

	return &S3FS{client: s3.New(sess), opts: opts, logger: logger}, nil
}

// Lease returns the reification lease guarding this store.
func (s *S3FS) Lease() *fs.Lease {
	return &s.lease
}

func (s *S3FS) guard() error {
	if err := s.cur.Guard(); err != nil {
		return err
	}
	return s.lease.Check()
}

// Open verifies bucket access and starts the session.
func (s *S3FS) Open() error {
	if err := s.cur.MarkOpen(); err != nil {
		return err
	}
	_, err := s.client.HeadBucket(&s3.HeadBucketInput{
		Bucket: aws.String(s.opts.Bucket),
	})
	if err != nil {
		return fmt.Errorf("accessing S3 bucket %s: %w", s.opts.Bucket, err)
	}
	s.logger.Debug("bucket opened", zap.String("bucket", s.opts.Bucket))
	return nil
}

func (s *S3FS) Close() error {
	return s.cur.MarkClosed()
}

func (s *S3FS) Chdir(path string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.cur.PushDir(s.cur.Resolve(path))
	return nil
}

func (s *S3FS) Pushd(path string) error {
	return s.Chdir(path)
}

func (s *S3FS) Popd() error {
	if err := s.guard(); err != nil {
		return err
	}
	s.cur.PopDir()
	return nil
}

func (s *S3FS) Getwd() (string, error) {
	if err := s.guard(); err != nil {
		return "", err
	}
	return s.cur.WorkingDir().String(), nil
}

// key converts a resolved path into an object key, without leading slash.
func (s *S3FS) key(path string) string {
	return strings.TrimPrefix(s.cur.Resolve(path).String(), "/")
}

func isNotFound(err error) bool {
	return strings.Contains(err.Error(), "NoSuchKey") ||
		strings.Contains(err.Error(), "NotFound")
}
