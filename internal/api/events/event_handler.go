package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/samandr77/microservices/condo/internal/entity"
)

type Service interface {
	OwnerReassigned(ctx context.Context, ev entity.OwnerReassignedEvent) error
	OwnerPartialFailure(ctx context.Context, ev entity.OwnerPartialFailureEvent) error
}

type EventHandler struct {
	s Service
}

func NewEventHandler(s Service) *EventHandler {
	return &EventHandler{s: s}
}

// OnCondoEvent routes a message of the events topic by its "type" field.
// Unknown types are skipped so that new producers do not break old consumers.
func (h *EventHandler) OnCondoEvent(ctx context.Context, msg kafka.Message) error {
	var envelope entity.EventEnvelope

	err := json.Unmarshal(msg.Value, &envelope)
	if err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	switch envelope.Type {
	case entity.EventOwnerReassigned:
		var event entity.OwnerReassignedEvent

		err = json.Unmarshal(msg.Value, &event)
		if err != nil {
			return fmt.Errorf("unmarshal %s: %w", envelope.Type, err)
		}

		err = h.s.OwnerReassigned(ctx, event)
		if err != nil {
			return fmt.Errorf("notify owner reassigned: %w", err)
		}
	case entity.EventOwnerPartialFailure:
		var event entity.OwnerPartialFailureEvent

		err = json.Unmarshal(msg.Value, &event)
		if err != nil {
			return fmt.Errorf("unmarshal %s: %w", envelope.Type, err)
		}

		err = h.s.OwnerPartialFailure(ctx, event)
		if err != nil {
			return fmt.Errorf("notify owner partial failure: %w", err)
		}
	default:
		slog.WarnContext(ctx, "skip unknown event", "type", envelope.Type, "offset", msg.Offset)
	}

	return nil
}
