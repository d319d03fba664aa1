package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"ride-service/src/internal/model"
	"ride-service/src/pkg/log"
	"ride-service/src/pkg/utils"
)

// NotificationUseCase drains enqueued fan-out events and publishes one message
// per recipient. The whole path is best effort: delivery failures are logged
// and never bubble back into the booking flow.
type NotificationUseCase struct {
	Log      log.Log
	Producer NotificationSender
}

func NewNotificationUseCase(logger log.Log, producer NotificationSender) *NotificationUseCase {
	return &NotificationUseCase{
		Log:      logger,
		Producer: producer,
	}
}

// HandleDispatch is the asynq handler for notification:dispatch tasks.
func (c *NotificationUseCase) HandleDispatch(ctx context.Context, task *asynq.Task) error {
	var event model.NotificationEvent
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		c.Log.Error("notification-usecase", fmt.Sprintf("unreadable task payload: %v", err), "HandleDispatch", "")
		return nil
	}

	for _, userID := range event.Recipients {
		message := &model.NotificationMessage{
			ID:       uuid.NewString(),
			UserID:   userID,
			Kind:     event.Kind,
			RideID:   event.RideID,
			Title:    event.Title,
			Body:     event.Body,
			Metadata: event.Metadata,
		}
		if err := c.Producer.Send(message); err != nil {
			c.Log.Error("notification-usecase", fmt.Sprintf("failed to publish notification: %v", err), "HandleDispatch", utils.ConvertString(message))
		}
	}

	return nil
}

// enqueueNotification hands a fan-out event to asynq. Failures are logged
// only; notifications never fail the operation that triggered them.
func enqueueNotification(logger log.Log, enqueuer TaskEnqueuer, event *model.NotificationEvent) {
	if enqueuer == nil || len(event.Recipients) == 0 {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("notification-usecase", fmt.Sprintf("failed to marshal event: %v", err), "enqueueNotification", "")
		return
	}

	if _, err := enqueuer.Enqueue(asynq.NewTask(model.TaskNotificationDispatch, payload)); err != nil {
		logger.Error("notification-usecase", fmt.Sprintf("failed to enqueue fan-out: %v", err), "enqueueNotification", event.Kind)
	}
}
