package minio

import (
	"context"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/KeyMark-Search/internal/config"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client the image store uses.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

var (
	ErrMinIOClientClosed = errors.New(errors.ErrCodeServiceUnavailable, "minio client is closed")
	ErrBucketNotFound    = errors.New(errors.ErrCodeNotFound, "bucket not found")
)

type MinIOClient struct {
	client MinIOAPI
	config config.MinIOConfig
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewMinIOClient connects to the endpoint in cfg and verifies the image
// bucket exists. The bucket is never created here.
func NewMinIOClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	applyDefaults(&cfg)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	if !exists {
		return nil, ErrBucketNotFound.WithDetail(cfg.Bucket)
	}

	log.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL),
	)
	return NewMinIOClientWithAPI(client, cfg, log), nil
}

// NewMinIOClientWithAPI wraps an existing API implementation (for testing).
func NewMinIOClientWithAPI(api MinIOAPI, cfg config.MinIOConfig, log logging.Logger) *MinIOClient {
	if log == nil {
		log = logging.NewNopLogger()
	}
	applyDefaults(&cfg)
	return &MinIOClient{client: api, config: cfg, logger: log}
}

func applyDefaults(cfg *config.MinIOConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = config.DefaultMinIOEndpoint
	}
	if cfg.Bucket == "" {
		cfg.Bucket = config.DefaultMinIOBucket
	}
}

func (c *MinIOClient) GetClient() MinIOAPI {
	return c.client
}

// Bucket returns the image bucket name.
func (c *MinIOClient) Bucket() string {
	return c.config.Bucket
}

// Prefix returns the object-name prefix for images.
func (c *MinIOClient) Prefix() string {
	return c.config.Prefix
}

func (c *MinIOClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *MinIOClient) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

type HealthStatus struct {
	Healthy bool
	Latency time.Duration
	Error   string
}

func (c *MinIOClient) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	if c.isClosed() {
		return &HealthStatus{Error: ErrMinIOClientClosed.Error()}, ErrMinIOClientClosed
	}

	start := time.Now()
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	status := &HealthStatus{Healthy: err == nil && exists, Latency: time.Since(start)}

	if err != nil {
		status.Error = err.Error()
		return status, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio health check failed")
	}
	if !exists {
		status.Error = "bucket " + c.config.Bucket + " missing"
		return status, ErrBucketNotFound.WithDetail(c.config.Bucket)
	}
	return status, nil
}

//Personal.AI order the ending
