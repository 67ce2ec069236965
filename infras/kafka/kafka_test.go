package kafka_test

import (
	"context"
	"testing"

	"vrent/config"
	"vrent/infras/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rentalEvent struct {
	Type     string `json:"type"`
	RentalID string `json:"rental_id"`
}

func TestMessage_ToKafkaMessage(t *testing.T) {
	message := kafka.Message{Key: "rental-1", Value: rentalEvent{Type: "rental.created", RentalID: "rental-1"}}

	msg, err := message.ToKafkaMessage("vrent.rental.events")
	require.NoError(t, err)
	assert.Equal(t, "vrent.rental.events", msg.Topic)
	assert.Equal(t, []byte("rental-1"), msg.Key)
	assert.JSONEq(t, `{"type":"rental.created","rental_id":"rental-1"}`, string(msg.Value))

	key, event, err := kafka.DecodeKafkaMessage[rentalEvent](msg)
	require.NoError(t, err)
	assert.Equal(t, "rental-1", key)
	assert.Equal(t, "rental.created", event.Type)
}

func TestMessage_ToKafkaMessageUnsupportedValue(t *testing.T) {
	message := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := message.ToKafkaMessage("topic")
	assert.Error(t, err)
}

func TestNew_Disabled(t *testing.T) {
	cfg := &config.Config{}

	client := kafka.New(cfg)

	assert.NoError(t, client.SendMessages(context.Background(), "topic", kafka.Message{Key: "k", Value: 1}))
	assert.NoError(t, client.Close())
}
