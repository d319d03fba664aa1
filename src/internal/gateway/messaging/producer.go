package messaging

import (
	"encoding/json"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"

	"ride-service/src/internal/model"
	kafka "ride-service/src/pkg/kafka/confluent"
	"ride-service/src/pkg/log"
)

type Producer[T model.Event] struct {
	Producer kafka.Producer
	Topic    string
	Log      log.Log
}

func (p *Producer[T]) GetTopic() *string {
	return &p.Topic
}

func (p *Producer[T]) Send(event T) error {
	if p.Producer == nil {
		p.Log.Warn("gateway/messaging/producer", "producer disabled, dropping event", "Send", p.Topic)
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.Log.Error("gateway/messaging/producer", "failed to marshal event", "Send", err.Error())
		return err
	}

	message := &k.Message{
		TopicPartition: k.TopicPartition{Topic: &p.Topic, Partition: k.PartitionAny},
		Key:            []byte(event.GetId()),
		Value:          value,
	}

	if err := p.Producer.Publish(message); err != nil {
		p.Log.Error("gateway/messaging/producer", "error publishing message", "Send", err.Error())
		return err
	}

	return nil
}
