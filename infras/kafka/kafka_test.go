package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleWithRetry(t *testing.T) {
	t.Run("failed message is retried until it succeeds", func(t *testing.T) {
		var offsets []int64

		handler := func(_ context.Context, msg kafkaGo.Message) error {
			offsets = append(offsets, msg.Offset)
			if len(offsets) < 3 {
				return errors.New("db down")
			}

			return nil
		}

		ok := handleWithRetry(context.Background(), handler, kafkaGo.Message{Offset: 41}, time.Millisecond)
		assert.True(t, ok)
		assert.Equal(t, []int64{41, 41, 41}, offsets)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0

		handler := func(context.Context, kafkaGo.Message) error {
			calls++
			cancel()

			return errors.New("db down")
		}

		assert.False(t, handleWithRetry(ctx, handler, kafkaGo.Message{}, time.Hour))
		assert.Equal(t, 1, calls)
	})
}

func TestDecode(t *testing.T) {
	msg, err := (&Message{Key: "h1", Value: map[string]string{"type": "room.created"}}).ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("h1"), msg.Key)

	value, err := Decode[map[string]string](msg)
	require.NoError(t, err)
	assert.Equal(t, "room.created", value["type"])

	_, err = Decode[map[string]string](kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)
}
