package model

// Event is the constraint shared by everything the messaging gateway sends.
type Event interface {
	GetId() string
}

// Asynq task type for the out-of-band notification fan-out.
const TaskNotificationDispatch = "notification:dispatch"

const (
	NotificationKindRideFull         = "ride_full"
	NotificationKindRideCancelled    = "ride_cancelled"
	NotificationKindBookingCancelled = "booking_cancelled"
)

// NotificationEvent is the enqueued fan-out job: one event, many recipients.
type NotificationEvent struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	RideID     string            `json:"ride_id"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Recipients []string          `json:"recipients"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

func (e *NotificationEvent) GetId() string {
	return e.ID
}

// NotificationMessage is the per-recipient message published to kafka.
type NotificationMessage struct {
	ID       string            `json:"id"`
	UserID   string            `json:"user_id"`
	Kind     string            `json:"kind"`
	RideID   string            `json:"ride_id"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (m *NotificationMessage) GetId() string {
	return m.ID
}
