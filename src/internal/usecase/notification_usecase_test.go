package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"ride-service/src/internal/model"
	"ride-service/src/pkg/log"
)

type fakeSender struct {
	sent []*model.NotificationMessage
	err  error
}

func (f *fakeSender) Send(message *model.NotificationMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message)
	return nil
}

func dispatchTask(t *testing.T, event *model.NotificationEvent) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(event)
	assert.NoError(t, err)
	return asynq.NewTask(model.TaskNotificationDispatch, payload)
}

func TestHandleDispatchFansOutPerRecipient(t *testing.T) {
	sender := &fakeSender{}
	uc := NewNotificationUseCase(log.NewTestLogger(), sender)

	task := dispatchTask(t, &model.NotificationEvent{
		ID:         "evt-1",
		Kind:       model.NotificationKindRideFull,
		RideID:     "ride-1",
		Title:      "Ride is full",
		Body:       "All seats are booked",
		Recipients: []string{"driver-1", "user-1", "user-2"},
	})

	assert.NoError(t, uc.HandleDispatch(context.Background(), task))
	assert.Len(t, sender.sent, 3)
	assert.Equal(t, "driver-1", sender.sent[0].UserID)
	assert.Equal(t, model.NotificationKindRideFull, sender.sent[0].Kind)
	assert.Equal(t, "ride-1", sender.sent[2].RideID)
}

func TestHandleDispatchSendFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("broker down")}
	uc := NewNotificationUseCase(log.NewTestLogger(), sender)

	task := dispatchTask(t, &model.NotificationEvent{
		ID:         "evt-1",
		Kind:       model.NotificationKindBookingCancelled,
		Recipients: []string{"driver-1"},
	})

	assert.NoError(t, uc.HandleDispatch(context.Background(), task))
	assert.Empty(t, sender.sent)
}

func TestHandleDispatchBadPayload(t *testing.T) {
	sender := &fakeSender{}
	uc := NewNotificationUseCase(log.NewTestLogger(), sender)

	task := asynq.NewTask(model.TaskNotificationDispatch, []byte("not json"))
	assert.NoError(t, uc.HandleDispatch(context.Background(), task))
	assert.Empty(t, sender.sent)
}

func TestEnqueueNotificationSkipsEmptyRecipients(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	enqueueNotification(log.NewTestLogger(), enqueuer, &model.NotificationEvent{
		ID:   "evt-1",
		Kind: model.NotificationKindRideFull,
	})
	assert.Empty(t, enqueuer.enqueued())
}

func TestEnqueueNotificationNilEnqueuer(t *testing.T) {
	assert.NotPanics(t, func() {
		enqueueNotification(log.NewTestLogger(), nil, &model.NotificationEvent{
			ID:         "evt-1",
			Recipients: []string{"user-1"},
		})
	})
}
