package kafka

import (
	"fmt"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"

	"ride-service/src/pkg/log"
)

type producer struct {
	producer *k.Producer
	log      log.Log
}

func NewProducer(cfg *k.ConfigMap, logger log.Log) (Producer, error) {
	p, err := k.NewProducer(cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	pr := &producer{producer: p, log: logger}
	go pr.handleDeliveryReports()
	return pr, nil
}

func (p *producer) handleDeliveryReports() {
	for e := range p.producer.Events() {
		if m, ok := e.(*k.Message); ok && m.TopicPartition.Error != nil {
			p.log.Error("kafka-producer", m.TopicPartition.Error.Error(), "delivery", *m.TopicPartition.Topic)
		}
	}
}

func (p *producer) Publish(message *k.Message) error {
	return p.producer.Produce(message, nil)
}

func (p *producer) Close() {
	p.producer.Flush(5000)
	p.producer.Close()
}
