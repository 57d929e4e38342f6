package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskExpireStaleBookings = "bookings.expire_stale"

// ExpireStaleBookingsPayload pins the cut-off date. An empty Before means
// "today" at the time the task runs.
type ExpireStaleBookingsPayload struct {
	Before string `json:"before,omitempty"`
}

func NewExpireStaleBookingsTask(payload ExpireStaleBookingsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpireStaleBookings, data), nil
}

func ParseExpireStaleBookingsPayload(task *asynq.Task) (ExpireStaleBookingsPayload, error) {
	var payload ExpireStaleBookingsPayload
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ExpireStaleBookingsPayload{}, err
	}
	return payload, nil
}
