package kafkaconsumer

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/IBM/sarama"
)

type messageProcessor func(context.Context, *sarama.ConsumerMessage) error

type groupHandler struct {
	process messageProcessor

	mu         sync.RWMutex
	partitions []int32
}

// Setup records the partitions claimed in this generation.
func (h *groupHandler) Setup(sess sarama.ConsumerGroupSession) error {
	var parts []int32
	for _, ps := range sess.Claims() {
		parts = append(parts, ps...)
	}
	slices.Sort(parts)
	h.mu.Lock()
	h.partitions = parts
	h.mu.Unlock()
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.mu.Lock()
	h.partitions = nil
	h.mu.Unlock()
	return nil
}

func (h *groupHandler) assigned() []int32 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.partitions)
}

// ConsumeClaim processes a partition in offset order and marks each message
// once it has been applied.
func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := sess.Context()
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("claim context done: %w", ctx.Err())
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.process(ctx, msg); err != nil {
				return fmt.Errorf("process failed (topic=%s, part=%d, off=%d): %w",
					msg.Topic, msg.Partition, msg.Offset, err)
			}
			sess.MarkMessage(msg, "")
		}
	}
}
