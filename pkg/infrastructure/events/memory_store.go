package events

import (
	"fmt"
	"sync"
)

// InMemoryJournal keeps one event sequence per pipeline run. Handlers run
// synchronously on append so a run's audit trail stays ordered; a handler
// failure surfaces to the appender, but the event is recorded regardless.
type InMemoryJournal struct {
	mu       sync.RWMutex
	runs     map[RunID][]Event
	runOrder []RunID
	handlers []Handler
}

func NewInMemoryJournal() *InMemoryJournal {
	return &InMemoryJournal{
		runs: make(map[RunID][]Event),
	}
}

// Verify interface compliance
var _ Journal = (*InMemoryJournal)(nil)

// AddHandler registers a handler for all subsequently appended events
func (j *InMemoryJournal) AddHandler(handler Handler) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.handlers = append(j.handlers, handler)
}

// Append records the event under its run and dispatches it to the
// registered handlers
func (j *InMemoryJournal) Append(event Event) error {
	j.mu.Lock()
	if _, seen := j.runs[event.RunID]; !seen {
		j.runOrder = append(j.runOrder, event.RunID)
	}
	event.Sequence = len(j.runs[event.RunID]) + 1
	j.runs[event.RunID] = append(j.runs[event.RunID], event)

	handlers := make([]Handler, len(j.handlers))
	copy(handlers, j.handlers)
	j.mu.Unlock()

	for _, handler := range handlers {
		if err := handler.Handle(event); err != nil {
			return fmt.Errorf("handler failed for event %s: %w", event.Type, err)
		}
	}
	return nil
}

// RunEvents returns the audit trail of one run in append order
func (j *InMemoryJournal) RunEvents(runID RunID) []Event {
	j.mu.RLock()
	defer j.mu.RUnlock()

	trail := make([]Event, len(j.runs[runID]))
	copy(trail, j.runs[runID])
	return trail
}

// Runs returns the recorded run IDs in first-append order
func (j *InMemoryJournal) Runs() []RunID {
	j.mu.RLock()
	defer j.mu.RUnlock()

	runs := make([]RunID, len(j.runOrder))
	copy(runs, j.runOrder)
	return runs
}
