package events

import (
	"time"
)

// RunID identifies one pipeline run's audit stream.
type RunID string

// Event is one entry in a run's audit trail. Sequence starts at 1 per run
// and is assigned by the journal on append.
type Event struct {
	Type     string
	RunID    RunID
	Sequence int
	Time     time.Time
	Data     interface{}
}

// Handler observes events as they are appended, e.g. to persist the trail
// to an external sink.
type Handler interface {
	Handle(event Event) error
}

// Journal records pipeline run events. The pipeline service only appends;
// inspection goes through the concrete store.
type Journal interface {
	Append(event Event) error
}
