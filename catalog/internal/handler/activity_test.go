package handler_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Astemirdum/library-catalog/catalog/internal/handler"
	"github.com/Astemirdum/library-catalog/pkg/kafka"
	"github.com/IBM/sarama"
	saramamocks "github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"
)

func TestEnqueuer(t *testing.T) {
	t.Parallel()

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := saramamocks.NewSyncProducer(t, cfg)
	defer producer.Close()

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev kafka.ActivityEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		require.Equal(t, kafka.KindReturn, ev.Kind)
		require.Equal(t, 3, ev.BookID)
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	q := handler.NewEnqueuer(producer)
	ev := kafka.ActivityEvent{Kind: kafka.KindReturn, Email: "reader@ubrary.io", BookID: 3, At: time.Now()}
	require.NoError(t, q.Enqueue(kafka.DefaultActivityTopic, ev))
	require.ErrorIs(t, q.Enqueue(kafka.DefaultActivityTopic, ev), sarama.ErrOutOfBrokers)

	require.NoError(t, handler.NewEnqueuer(nil).Enqueue("any", ev))
}
