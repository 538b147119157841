package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"creatorhub/internal/config"
	"creatorhub/internal/listing"
	"creatorhub/internal/telemetry"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("creatorhub/messaging")

const (
	subjectPrefix   = "postings."
	eventTypeHeader = "Event-Type"
)

// Subject is the NATS subject a posting event is published on,
// e.g. postings.posting.created.
func Subject(t listing.EventType) string {
	return subjectPrefix + string(t)
}

type msgConn interface {
	PublishMsg(msg *nats.Msg) error
	Drain() error
}

// NATSPublisher publishes posting lifecycle events. It implements
// listing.Notifier.
type NATSPublisher struct {
	conn   msgConn
	logger *zap.Logger
}

var _ listing.Notifier = (*NATSPublisher)(nil)

func NewNATSPublisher(cfg config.NATSConfig, logger *zap.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []nats.Option{
		nats.Name("creatorhub"),
		nats.Timeout(cfg.ConnTimeout),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	logger.Info("nats connected", zap.String("url", conn.ConnectedUrl()))
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

func (p *NATSPublisher) Notify(ctx context.Context, evt listing.Event) error {
	_, span := tracer.Start(ctx, "messaging.PublishPostingEvent")
	defer span.End()

	data, err := json.Marshal(evt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshaling posting event: %w", err)
	}

	subject := Subject(evt.Type)
	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	msg := nats.NewMsg(subject)
	msg.Header.Set(eventTypeHeader, string(evt.Type))
	msg.Data = data

	if err := p.conn.PublishMsg(msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish")
		p.logger.Error("failed to publish posting event",
			zap.String("job_id", evt.JobID.String()),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("publishing to NATS: %w", err)
	}

	p.logger.Debug("published posting event",
		zap.String("job_id", evt.JobID.String()),
		zap.String("subject", subject))
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("nats drain failed", zap.Error(err))
	}
}
