package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type jobKind string

type jobStatus string

const (
	jobKindRefine jobKind = "refine"
	jobKindPlan   jobKind = "plan"
	jobKindVideo  jobKind = "video"
	jobKindFrame  jobKind = "frame"
	jobKindEdit   jobKind = "edit"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
	ctx     context.Context
	log     zerolog.Logger
}

// newJobBus ties every job it starts to ctx, so canceling it (program
// shutdown) tears down in-flight work such as video polling loops.
func newJobBus(ctx context.Context, log zerolog.Logger) *jobBus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &jobBus{ctx: ctx, log: log}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start wraps a runner so the model sees a running signal first and a result
// envelope when the work concludes.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}
	runCmd := func() tea.Msg {
		return b.finish(id, kind, started, runner)
	}
	return tea.Sequence(startCmd, runCmd)
}

// finish executes the runner under the bus context and packages the outcome.
func (b *jobBus) finish(id string, kind jobKind, started time.Time, runner jobRunner) tea.Msg {
	payload, err := runner(b.ctx)
	snapshot := jobSnapshot{
		ID:          id,
		Kind:        kind,
		StartedAt:   started,
		CompletedAt: time.Now(),
	}
	if err != nil {
		snapshot.Status = jobStatusFailed
		snapshot.Err = err.Error()
	} else {
		snapshot.Status = jobStatusSucceeded
	}
	snapshot.Duration = snapshot.CompletedAt.Sub(started)
	b.log.Info().
		Str("job", id).
		Str("kind", string(kind)).
		Str("status", string(snapshot.Status)).
		Dur("duration", snapshot.Duration).
		Err(err).
		Msg("job finished")
	return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
}
