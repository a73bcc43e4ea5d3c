package copyengine_test

import (
	"github.com/joe/cpx/internal/copyengine"
)

type render struct {
	total  uint64
	copied uint64
}

// recordingReporter captures every progress call the engine makes.
type recordingReporter struct {
	renders       []render
	nothingToCopy int
	done          int
}

func (r *recordingReporter) Render(total, copied uint64) {
	r.renders = append(r.renders, render{total: total, copied: copied})
}

func (r *recordingReporter) NothingToCopy() { r.nothingToCopy++ }

func (r *recordingReporter) Done() { r.done++ }

// eventLog collects emitted events.
type eventLog struct {
	events []copyengine.Event
}

func (l *eventLog) Emit(event copyengine.Event) {
	l.events = append(l.events, event)
}

func (l *eventLog) failures() []copyengine.EntryFailed {
	var failed []copyengine.EntryFailed

	for _, event := range l.events {
		if f, ok := event.(copyengine.EntryFailed); ok {
			failed = append(failed, f)
		}
	}

	return failed
}
