package messaging

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"

	"ride-service/src/internal/model"
	"ride-service/src/pkg/log"
)

type fakePublisher struct {
	published []*k.Message
	err       error
}

func (f *fakePublisher) Publish(message *k.Message) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, message)
	return nil
}

func (f *fakePublisher) Close() {}

func TestNotificationProducerSend(t *testing.T) {
	publisher := &fakePublisher{}
	producer := NewNotificationProducer(publisher, log.NewTestLogger())

	message := &model.NotificationMessage{
		ID:     "msg-1",
		UserID: "user-1",
		Kind:   model.NotificationKindRideFull,
		RideID: "ride-1",
		Title:  "Ride is full",
	}
	assert.NoError(t, producer.Send(message))
	assert.Len(t, publisher.published, 1)

	published := publisher.published[0]
	assert.Equal(t, "ride-notifications", *published.TopicPartition.Topic)
	assert.Equal(t, []byte("msg-1"), published.Key)

	var decoded model.NotificationMessage
	assert.NoError(t, json.Unmarshal(published.Value, &decoded))
	assert.Equal(t, "user-1", decoded.UserID)
}

func TestNotificationProducerPublishError(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker down")}
	producer := NewNotificationProducer(publisher, log.NewTestLogger())

	err := producer.Send(&model.NotificationMessage{ID: "msg-1"})
	assert.Error(t, err)
}

func TestProducerDisabled(t *testing.T) {
	producer := NewNotificationProducer(nil, log.NewTestLogger())
	assert.NoError(t, producer.Send(&model.NotificationMessage{ID: "msg-1"}))
}
