// Package kafkaconsumer feeds location events from a Kafka topic into an
// ingest.Indexer. Offsets are marked only after the rows are written.
package kafkaconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	obs "github.com/mohammed-shakir/spatial-index/internal/core/observability"
	"github.com/mohammed-shakir/spatial-index/internal/ingest"
	mylog "github.com/mohammed-shakir/spatial-index/internal/logger"
)

// Applier is satisfied by *ingest.Indexer.
type Applier interface {
	Apply(ctx context.Context, ev ingest.LocationEvent) (int, error)
}

type Consumer struct {
	cfg    Config
	logger *slog.Logger
	ix     Applier
	zlog   *zerolog.Logger

	handler *groupHandler
	dedupe  *tsDedupe
}

func New(cfg Config, logger *slog.Logger, ix Applier, zl *zerolog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	base := mylog.WithComponent(context.Background(), "kafka_consumer")
	c := &Consumer{
		cfg:    cfg,
		logger: logger,
		ix:     ix,
		zlog:   mylog.FromContext(base, zl),
		dedupe: newTSDedupe(cfg.DedupeSize),
	}
	c.handler = &groupHandler{process: c.ProcessOne}
	return c
}

// Readiness reports ready once the group has assigned this member at least
// one partition.
func (c *Consumer) Readiness() (bool, []int32) {
	parts := c.handler.assigned()
	return len(parts) > 0, parts
}

func (c *Consumer) saramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_1_0_0
	cfg.ClientID = "geoindex-ingest"
	cfg.Consumer.Group.Session.Timeout = c.cfg.SessionTimeout
	cfg.Consumer.Group.Heartbeat.Interval = c.cfg.Heartbeat
	cfg.Consumer.Group.Rebalance.Timeout = c.cfg.RebalanceTimeout
	if c.cfg.InitialOffsetOldest {
		cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	cfg.Consumer.Offsets.AutoCommit.Enable = true
	return cfg
}

// Start consumes until ctx is done.
func (c *Consumer) Start(ctx context.Context) error {
	if c.ix == nil {
		return errors.New("kafkaconsumer: missing indexer")
	}

	group, err := sarama.NewConsumerGroup(c.cfg.Brokers, c.cfg.GroupID, c.saramaConfig())
	if err != nil {
		return fmt.Errorf("create consumer group: %w", err)
	}
	defer func() { _ = group.Close() }()

	c.logger.Info("kafka ingest consumer starting",
		"brokers", c.cfg.Brokers, "topic", c.cfg.Topic, "group", c.cfg.GroupID)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("kafka ingest consumer shutting down")
			return nil
		default:
			if err := group.Consume(ctx, []string{c.cfg.Topic}, c.handler); err != nil {
				if ctx.Err() != nil {
					continue
				}
				obs.IncKafkaConsumerError("consume")
				c.zlog.Error().Err(err).
					Strs("brokers", c.cfg.Brokers).
					Str("topic", c.cfg.Topic).
					Msg("kafka consumer error")
				select {
				case <-time.After(c.cfg.RetryBackoff):
				case <-ctx.Done():
				}
			}
		}
	}
}

// ProcessOne decodes and applies one message. Events that can never apply
// (bad JSON, failed validation) are logged and skipped so they do not block
// the partition; store failures are returned and the offset stays unmarked.
// An event no newer than the last one applied for its id is dropped.
func (c *Consumer) ProcessOne(ctx context.Context, msg *sarama.ConsumerMessage) error {
	start := time.Now()

	var ev ingest.LocationEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		c.skip(ctx, msg, "decode", err)
		return nil
	}
	if err := ev.Validate(); err != nil {
		c.skip(ctx, msg, "validate", err)
		return nil
	}

	ts := ev.TS.UnixNano()
	if c.dedupe.stale(ev.ID, ts) {
		c.logger.Debug("stale event skipped",
			"id", ev.ID, "ts", ev.TS, "partition", msg.Partition, "offset", msg.Offset)
		return nil
	}

	rows, err := c.ix.Apply(ctx, ev)
	if err != nil {
		obs.IncKafkaConsumerError("apply")
		mylog.FromContext(ctx, c.zlog).Error().Err(err).
			Str("kind", "apply").
			Str("topic", msg.Topic).
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Str("id", ev.ID).
			Msg("kafka error")
		return fmt.Errorf("apply %s %s: %w", ev.Op, ev.ID, err)
	}
	c.dedupe.record(ev.ID, ts)

	c.logger.Debug("applied event",
		"op", ev.Op, "id", ev.ID, "rows", rows, "dur", time.Since(start).String())
	return nil
}

func (c *Consumer) skip(ctx context.Context, msg *sarama.ConsumerMessage, kind string, err error) {
	obs.IncKafkaConsumerError(kind)
	mylog.FromContext(ctx, c.zlog).Error().Err(err).
		Str("kind", kind).
		Str("topic", msg.Topic).
		Int32("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Msg("kafka error, message skipped")
}
