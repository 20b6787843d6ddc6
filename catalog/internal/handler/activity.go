package handler

import (
	"encoding/json"
	"time"

	"github.com/Astemirdum/library-catalog/pkg/kafka"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// NewEnqueuer publishes through producer; a nil producer drops everything.
func NewEnqueuer(producer sarama.SyncProducer) Enqueuer {
	if producer == nil {
		return noopEnqueuer{}
	}
	return &enqueuerImpl{
		producer: producer,
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
}

func (q *enqueuerImpl) Enqueue(topic string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: topic, Value: sarama.ByteEncoder(data)}
	if _, _, err = q.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}

type noopEnqueuer struct{}

func (noopEnqueuer) Enqueue(string, any) error { return nil }

// track records a finished user action. Publishing is best effort and never
// fails the action itself.
func (h *Handler) track(kind kafka.ActivityKind, email string, bookID int) {
	ev := kafka.ActivityEvent{
		Kind:   kind,
		Email:  email,
		BookID: bookID,
		At:     time.Now().UTC(),
	}
	if ev.Email == "" {
		if u, ok := h.sess.User(); ok {
			ev.Email = u.Email
		}
	}
	if err := h.enqueuer.Enqueue(h.topic, ev); err != nil {
		h.log.Warn("activity enqueue", zap.String("kind", string(kind)), zap.Error(err))
	}
}
