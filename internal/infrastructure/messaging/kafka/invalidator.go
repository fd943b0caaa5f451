package kafka

import (
	"context"

	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyMark-Search/internal/infrastructure/monitoring/prometheus"
)

// CacheInvalidator drops cached results affected by a registry update.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, applicationNumbers []string) error
}

// Invalidation statuses recorded per message.
const (
	InvalidationApplied   = "applied"
	InvalidationFailed    = "failed"
	InvalidationMalformed = "malformed"
	InvalidationIgnored   = "ignored"
)

// RegistryUpdateHandler returns a MessageHandler that turns registry-update
// events into cache invalidations. Undecodable messages are dropped; only
// invalidation failures are returned for retry.
func RegistryUpdateHandler(inv CacheInvalidator, metrics *prometheus.SearchMetrics, logger logging.Logger) MessageHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("invalidator")

	return func(ctx context.Context, msg *Message) error {
		env, err := MessageToEventEnvelope(msg)
		if err != nil {
			logger.Warn("Dropping undecodable registry update",
				logging.Int64("offset", msg.Offset), logging.Err(err))
			prometheus.RecordInvalidation(metrics, InvalidationMalformed)
			return nil
		}
		if env.EventType != EventRegistryUpdated {
			logger.Debug("Ignoring event", logging.String("event_type", env.EventType))
			prometheus.RecordInvalidation(metrics, InvalidationIgnored)
			return nil
		}

		var payload RegistryUpdatedPayload
		if err := env.DecodePayload(&payload); err != nil {
			logger.Warn("Dropping registry update with bad payload",
				logging.String("event_id", env.EventID), logging.Err(err))
			prometheus.RecordInvalidation(metrics, InvalidationMalformed)
			return nil
		}

		if err := inv.Invalidate(ctx, payload.ApplicationNumbers); err != nil {
			prometheus.RecordInvalidation(metrics, InvalidationFailed)
			return err
		}
		prometheus.RecordInvalidation(metrics, InvalidationApplied)
		logger.Info("Invalidated cached results",
			logging.String("event_id", env.EventID),
			logging.Int("applications", len(payload.ApplicationNumbers)))
		return nil
	}
}

//Personal.AI order the ending
