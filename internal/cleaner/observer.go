package cleaner

import (
	"log/slog"
)

// Stage names a pipeline step.
type Stage int

const (
	StageNone Stage = iota
	StageHeaders
	StageSuffixFilter
	StageSort
	StageDeduplicate
)

func (s Stage) String() string {
	switch s {
	case StageHeaders:
		return "header resolution"
	case StageSuffixFilter:
		return "suffix filter"
	case StageSort:
		return "sort"
	case StageDeduplicate:
		return "deduplication"
	default:
		return "none"
	}
}

// EventKind tells a checkpoint apart.
type EventKind int

const (
	RunStarted EventKind = iota
	StageStarted
	StageCompleted
	RunFinished
)

func (k EventKind) String() string {
	switch k {
	case RunStarted:
		return "run started"
	case StageStarted:
		return "stage started"
	case StageCompleted:
		return "stage completed"
	case RunFinished:
		return "run finished"
	default:
		return "unknown"
	}
}

// Event is an advisory progress checkpoint. Percent is coarse and only moves
// at stage boundaries.
type Event struct {
	Kind    EventKind
	Stage   Stage
	Percent int
	Message string
}

// Observer receives events synchronously from the goroutine running the
// pipeline. A nil Observer is valid and ignores everything.
type Observer func(Event)

// Percent reached once each stage completes. Run start is 0 and finish 100.
var stagePercent = map[Stage]int{
	StageHeaders:      30,
	StageSuffixFilter: 50,
	StageSort:         70,
	StageDeduplicate:  90,
}

func (o Observer) emit(e Event) {
	if o != nil {
		o(e)
	}
}

// LogObserver writes every event as an info line on logger.
func LogObserver(logger *slog.Logger) Observer {
	return func(e Event) {
		logger.Info(e.Message,
			slog.String("event", e.Kind.String()),
			slog.String("stage", e.Stage.String()),
			slog.Int("progress", e.Percent))
	}
}

// Chain fans an event out to several observers in order.
func Chain(observers ...Observer) Observer {
	return func(e Event) {
		for _, o := range observers {
			o.emit(e)
		}
	}
}
