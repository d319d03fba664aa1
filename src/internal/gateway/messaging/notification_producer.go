package messaging

import (
	"ride-service/src/internal/model"
	kafka "ride-service/src/pkg/kafka/confluent"
	"ride-service/src/pkg/log"
)

// NotificationProducer publishes per-recipient notification messages for the
// downstream push/in-app delivery services.
type NotificationProducer struct {
	notificationProducer Producer[*model.NotificationMessage]
}

func NewNotificationProducer(producer kafka.Producer, log log.Log) *NotificationProducer {
	return &NotificationProducer{
		notificationProducer: Producer[*model.NotificationMessage]{
			Producer: producer,
			Topic:    "ride-notifications",
			Log:      log,
		},
	}
}

func (n *NotificationProducer) Send(message *model.NotificationMessage) error {
	return n.notificationProducer.Send(message)
}
