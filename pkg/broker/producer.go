package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/samandr77/microservices/condo/internal/entity"
)

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes owner-change events. Writes are asynchronous and
// failures are only logged: the owner flow never waits for Kafka.
type Producer struct {
	l     *slog.Logger
	w     Writer
	topic string
	now   func() time.Time
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return NewProducerWithWriter(l, w, topic)
}

func NewProducerWithWriter(l *slog.Logger, w Writer, topic string) *Producer {
	return &Producer{
		l:     l,
		w:     w,
		topic: topic,
		now:   time.Now,
	}
}

func (p *Producer) OwnerReassigned(ctx context.Context, c entity.OwnerChange) {
	event := entity.OwnerReassignedEvent{
		Type:      entity.EventOwnerReassigned,
		NewOwner:  entity.NewEventUser(c.NewOwner),
		ChangedBy: c.ChangedBy,
		ChangedAt: c.ChangedAt,
	}

	if c.PreviousHolder != nil {
		prev := entity.NewEventUser(*c.PreviousHolder)
		event.PreviousHolder = &prev
	}

	p.publish(ctx, c.NewOwner.ID, event)
}

func (p *Producer) OwnerPartialFailure(ctx context.Context, a entity.OwnerAlert) {
	event := entity.OwnerPartialFailureEvent{
		Type:      entity.EventOwnerPartialFailure,
		TargetID:  a.TargetID,
		Reason:    a.Reason,
		ChangedBy: a.ChangedBy,
		At:        a.At,
	}

	if a.PreviousHolder != nil {
		prev := entity.NewEventUser(*a.PreviousHolder)
		event.PreviousHolder = &prev
	}

	p.publish(ctx, a.TargetID, event)
}

func (p *Producer) publish(ctx context.Context, key int64, event any) {
	b, err := json.Marshal(event)
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(key, 10)),
		Value: b,
		Topic: p.topic,
		Time:  p.now(),
	})
	if err != nil {
		p.l.ErrorContext(ctx, fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}

// NopProducer is used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) OwnerReassigned(context.Context, entity.OwnerChange)    {}
func (NopProducer) OwnerPartialFailure(context.Context, entity.OwnerAlert) {}
