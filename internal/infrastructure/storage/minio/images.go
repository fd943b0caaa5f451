package minio

import (
	"context"
	"sync"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/KeyMark-Search/internal/domain/trademark"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/KeyMark-Search/pkg/errors"
)

// ImageExtensions are checked in order for each application.
var ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp"}

// defaultConcurrency bounds concurrent StatObject calls.
const defaultConcurrency = 16

// ImageChecker reports mark images stored as <prefix><application number>.<ext>.
type ImageChecker struct {
	client      *MinIOClient
	logger      logging.Logger
	metrics     *prometheus.SearchMetrics
	concurrency int
}

var _ trademark.ImagePresence = (*ImageChecker)(nil)

type ImageCheckerOption func(*ImageChecker)

func WithConcurrency(n int) ImageCheckerOption {
	return func(c *ImageChecker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func WithMetrics(m *prometheus.SearchMetrics) ImageCheckerOption {
	return func(c *ImageChecker) { c.metrics = m }
}

func NewImageChecker(client *MinIOClient, log logging.Logger, opts ...ImageCheckerOption) *ImageChecker {
	if log == nil {
		log = logging.NewNopLogger()
	}
	c := &ImageChecker{client: client, logger: log.Named("minio.images"), concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasImages implements trademark.ImagePresence.
func (c *ImageChecker) HasImages(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	if c.client.isClosed() {
		return nil, ErrMinIOClientClosed
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			found, err := c.lookup(gctx, id)
			if err != nil {
				return err
			}
			prometheus.RecordImageLookup(c.metrics, "minio", found)
			if found {
				mu.Lock()
				out[id] = true
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Warn("Image lookup failed", logging.Int("ids", len(ids)), logging.Err(err))
		return nil, errors.BackendUnavailable(err, "image store lookup failed")
	}
	return out, nil
}

// ObjectName returns the object name checked for id and ext.
func (c *ImageChecker) ObjectName(id, ext string) string {
	return c.client.Prefix() + id + "." + ext
}

func (c *ImageChecker) lookup(ctx context.Context, id string) (bool, error) {
	for _, ext := range ImageExtensions {
		_, err := c.client.GetClient().StatObject(ctx, c.client.Bucket(), c.ObjectName(id, ext), minio.StatObjectOptions{})
		if err == nil {
			return true, nil
		}
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			continue
		}
		return false, err
	}
	return false, nil
}

//Personal.AI order the ending
