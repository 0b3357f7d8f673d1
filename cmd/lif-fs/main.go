package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liflab/lif-fs/backends/localfs"
	"github.com/liflab/lif-fs/backends/ramdisk"
	"github.com/liflab/lif-fs/backends/s3"
	"github.com/liflab/lif-fs/config"
	"github.com/liflab/lif-fs/filters"
	"github.com/liflab/lif-fs/fs"
	"github.com/liflab/lif-fs/fsutil"
	"github.com/liflab/lif-fs/internal/logging"
	"github.com/liflab/lif-fs/staging"
)

var rootCmd = &cobra.Command{
	Use:   "lif-fs",
	Short: "lif-fs - composable virtual filesystem tool",
	Long: `lif-fs operates on a virtual filesystem assembled from configuration:
an in-memory, local-disk or S3 backend, optionally confined to a subtree,
made read-only, or throttled.`,
}

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List the entries of a folder",
	RunE:  runLs,
}

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Write a file's content to standard output",
	Args:  cobra.ExactArgs(1),
	RunE:  runCat,
}

var putCmd = &cobra.Command{
	Use:   "put <path> [local-file]",
	Short: "Store standard input or a local file at path",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPut,
}

var cpCmd = &cobra.Command{
	Use:   "cp <src> <dst>",
	Short: "Copy a file inside the store",
	Args:  cobra.ExactArgs(2),
	RunE:  runCp,
}

var stageCmd = &cobra.Command{
	Use:   "stage <path> <command> [args...]",
	Short: "Materialize a path on disk, run a command on it and write changes back",
	Long: `stage reifies the store into a temporary directory, materializes the
given path, appends its real location to the command's arguments and runs
it. When the command succeeds, local changes are committed back into the
store; the staging directory is removed either way.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runStage,
}

var configFilePath string

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "Path to configuration file")
	rootCmd.AddCommand(lsCmd, catCmd, putCmd, cpCmd, stageCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// setup loads configuration, builds the logger and assembles the opened
// store. The returned backend is the unwrapped reifiable store; the
// returned FileSystem carries the configured wrappers.
func setup() (fs.FileSystem, fs.Reifiable, *zap.Logger, error) {
	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	backend, err := buildBackend(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := backend.Open(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open backend: %w", err)
	}

	var store fs.FileSystem = backend
	if cfg.Backend.Chroot != "" {
		store = filters.NewChroot(store, cfg.Backend.Chroot)
	}
	t := cfg.Throttle
	if t.MaxBytesPerSec > 0 || t.SizeLimit > 0 || t.OpsPerSec > 0 {
		th := filters.NewThrottled(store, t.MaxBytesPerSec)
		if t.SizeLimit > 0 {
			th.SetSizeLimit(t.SizeLimit)
		}
		if t.OpsPerSec > 0 {
			th.SetOpRate(t.OpsPerSec)
		}
		store = th
	}
	if cfg.Backend.ReadOnly {
		store = filters.NewReadOnly(store)
	}

	return store, backend, logger, nil
}

// buildBackend constructs the configured storage backend.
func buildBackend(cfg config.AppConfig, logger *zap.Logger) (fs.Reifiable, error) {
	switch cfg.Backend.Type {
	case "ram":
		return ramdisk.New(), nil
	case "local":
		return localfs.New(cfg.Backend.LocalRootPath)
	case "s3":
		return s3.New(s3.Options{
			Endpoint:             cfg.Backend.S3Endpoint,
			Region:               cfg.Backend.S3Region,
			Bucket:               cfg.Backend.S3BucketName,
			AccessKey:            cfg.Backend.S3AccessKey,
			SecretKey:            cfg.Backend.S3SecretKey,
			ServerSideEncryption: cfg.Backend.S3ServerSideEncryption,
			ACL:                  cfg.Backend.S3ACL,
			KMSKeyID:             cfg.Backend.S3KMSKeyID,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown backend type %q", cfg.Backend.Type)
	}
}

func runLs(cmd *cobra.Command, args []string) error {
	store, _, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer store.Close()

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	names, err := store.List(path)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runCat(cmd *cobra.Command, args []string) error {
	store, _, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer store.Close()

	src, err := store.OpenRead(args[0])
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(os.Stdout, src)
	return err
}

func runPut(cmd *cobra.Command, args []string) error {
	store, _, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer store.Close()

	var src io.Reader = os.Stdin
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	dst, err := store.OpenWrite(args[0])
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func runCp(cmd *cobra.Command, args []string) error {
	store, _, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer store.Close()

	data, err := fsutil.ReadFile(store, args[0])
	if err != nil {
		return err
	}
	return fsutil.WriteFile(store, args[1], data)
}

func runStage(cmd *cobra.Command, args []string) error {
	store, backend, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer store.Close()

	area, err := staging.Reify(backend, logger)
	if err != nil {
		return err
	}
	defer area.Release()

	localPath, err := area.LocalPath(args[0])
	if err != nil {
		return err
	}

	child := exec.Command(args[1], append(args[2:], localPath)...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	if err := child.Run(); err != nil {
		return fmt.Errorf("staged command failed, changes discarded: %w", err)
	}

	if err := area.Commit(); err != nil {
		return err
	}
	return area.Release()
}
