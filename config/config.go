// Package config provides configuration management for the lif-fs command
// line tool. It handles loading and validating configuration from YAML
// files and environment variables.
package config

// AppConfig represents the complete tool configuration
type AppConfig struct {
	Log      LogConfig      `koanf:"log"`
	Backend  BackendConfig  `koanf:"backend"`
	Throttle ThrottleConfig `koanf:"throttle"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// BackendConfig selects and configures the storage backend and the
// wrappers layered on top of it
type BackendConfig struct {
	Type                   string `koanf:"type"` // "ram", "local" or "s3"
	LocalRootPath          string `koanf:"local_root_path"`
	ReadOnly               bool   `koanf:"read_only"`
	Chroot                 string `koanf:"chroot"` // confine to this subtree when non-empty
	S3AccessKey            string `koanf:"s3_access_key"`
	S3SecretKey            string `koanf:"s3_secret_key"`
	S3Region               string `koanf:"s3_region"`
	S3BucketName           string `koanf:"s3_bucket_name"`
	S3Endpoint             string `koanf:"s3_endpoint"`               // Custom S3 endpoint (e.g., for MinIO)
	S3ServerSideEncryption string `koanf:"s3_server_side_encryption"` // SSE algorithm (AES256, aws:kms)
	S3ACL                  string `koanf:"s3_acl"`                    // Object ACL (private, public-read, etc.)
	S3KMSKeyID             string `koanf:"s3_kms_key_id"`             // KMS key ID for SSE-KMS
}

// ThrottleConfig holds bandwidth and capacity limits; zero values disable
// the corresponding limit
type ThrottleConfig struct {
	MaxBytesPerSec int64   `koanf:"max_bytes_per_sec"`
	SizeLimit      int64   `koanf:"size_limit"`
	OpsPerSec      float64 `koanf:"ops_per_sec"`
}
