package events

import (
	"time"
)

const (
	RunStartedEvent   = "run.started"
	RunCompletedEvent = "run.completed"
	RunFailedEvent    = "run.failed"

	TaskStartedEvent   = "task.started"
	TaskCompletedEvent = "task.completed"
	TaskFailedEvent    = "task.failed"
)

type RunStarted struct {
	CalculationDate time.Time `json:"calculation_date"`
}

type RunCompleted struct {
	CalculationDate time.Time     `json:"calculation_date"`
	OrdersGenerated int           `json:"orders_generated"`
	Duration        time.Duration `json:"duration"`
}

type RunFailed struct {
	FailedTask string `json:"failed_task"`
	Reason     string `json:"reason"`
}

type TaskStarted struct {
	TaskName string `json:"task_name"`
}

type TaskCompleted struct {
	TaskName string                 `json:"task_name"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

type TaskFailed struct {
	TaskName string `json:"task_name"`
	Reason   string `json:"reason"`
}

func NewRunStartedEvent(runID RunID, calculationDate time.Time) Event {
	return Event{
		Type:  RunStartedEvent,
		RunID: runID,
		Time:  time.Now(),
		Data:  RunStarted{CalculationDate: calculationDate},
	}
}

func NewRunCompletedEvent(runID RunID, calculationDate time.Time, ordersGenerated int, duration time.Duration) Event {
	return Event{
		Type:  RunCompletedEvent,
		RunID: runID,
		Time:  time.Now(),
		Data: RunCompleted{
			CalculationDate: calculationDate,
			OrdersGenerated: ordersGenerated,
			Duration:        duration,
		},
	}
}

func NewRunFailedEvent(runID RunID, failedTask, reason string) Event {
	return Event{
		Type:  RunFailedEvent,
		RunID: runID,
		Time:  time.Now(),
		Data: RunFailed{
			FailedTask: failedTask,
			Reason:     reason,
		},
	}
}

func NewTaskStartedEvent(runID RunID, taskName string) Event {
	return Event{
		Type:  TaskStartedEvent,
		RunID: runID,
		Time:  time.Now(),
		Data:  TaskStarted{TaskName: taskName},
	}
}

func NewTaskCompletedEvent(runID RunID, taskName string, details map[string]interface{}) Event {
	return Event{
		Type:  TaskCompletedEvent,
		RunID: runID,
		Time:  time.Now(),
		Data: TaskCompleted{
			TaskName: taskName,
			Details:  details,
		},
	}
}

func NewTaskFailedEvent(runID RunID, taskName, reason string) Event {
	return Event{
		Type:  TaskFailedEvent,
		RunID: runID,
		Time:  time.Now(),
		Data: TaskFailed{
			TaskName: taskName,
			Reason:   reason,
		},
	}
}
