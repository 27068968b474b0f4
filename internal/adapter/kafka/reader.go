package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

// Reader tails the view event topic, for operators following sessions live.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a group-less consumer starting at the newest offset.
func NewReader(brokers []string, topic string, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		StartOffset: kafkago.LastOffset,
		MinBytes:    1,
		MaxBytes:    1 << 20,
	})
	return &Reader{reader: r, logger: logger}
}

// ReadEvent blocks until the next event arrives or ctx is done. Messages
// that do not decode are logged and skipped.
func (r *Reader) ReadEvent(ctx context.Context) (domain.ViewEvent, error) {
	for {
		msg, err := r.reader.ReadMessage(ctx)
		if err != nil {
			return domain.ViewEvent{}, fmt.Errorf("read view event: %w", err)
		}
		event, err := deserializeMessage(msg)
		if err != nil {
			r.logger.Warn("skipping malformed view event", "partition", msg.Partition, "offset", msg.Offset, "error", err)
			continue
		}
		return event, nil
	}
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// deserializeMessage decodes a message written by serializeToMessage. The
// key wins over an empty session id in the body.
func deserializeMessage(msg kafkago.Message) (domain.ViewEvent, error) {
	var event domain.ViewEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return domain.ViewEvent{}, fmt.Errorf("deserialize view event: %w", err)
	}
	if event.SessionID == "" {
		event.SessionID = string(msg.Key)
	}
	return event, nil
}
