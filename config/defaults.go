package config

// DefaultAppConfig returns an AppConfig struct with sensible default values
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Backend: BackendConfig{
			Type:                   "ram",
			LocalRootPath:          ".",
			ReadOnly:               false,
			Chroot:                 "",
			S3AccessKey:            "",
			S3SecretKey:            "",
			S3Region:               "us-east-1",
			S3BucketName:           "",
			S3ServerSideEncryption: "",
			S3ACL:                  "private",
			S3KMSKeyID:             "",
		},
		Throttle: ThrottleConfig{
			MaxBytesPerSec: 0,
			SizeLimit:      0,
			OpsPerSec:      0,
		},
	}
}
