package pipeline

import (
	"context"
	"time"

	"github.com/sells-group/aeo-cli/internal/model"
)

// Observer receives progress from a run. Calls arrive synchronously on the
// run goroutine, in order.
type Observer interface {
	StageStart(info model.StageInfo, step, total int)
	StageThought(stageID, text string)
	StageComplete(stageID string, duration time.Duration)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnStart    func(info model.StageInfo, step, total int)
	OnThought  func(stageID, text string)
	OnComplete func(stageID string, duration time.Duration)
}

func (f ObserverFuncs) StageStart(info model.StageInfo, step, total int) {
	if f.OnStart != nil {
		f.OnStart(info, step, total)
	}
}

func (f ObserverFuncs) StageThought(stageID, text string) {
	if f.OnThought != nil {
		f.OnThought(stageID, text)
	}
}

func (f ObserverFuncs) StageComplete(stageID string, duration time.Duration) {
	if f.OnComplete != nil {
		f.OnComplete(stageID, duration)
	}
}

// NopObserver discards all progress.
type NopObserver struct{}

func (NopObserver) StageStart(model.StageInfo, int, int) {}
func (NopObserver) StageThought(string, string)          {}
func (NopObserver) StageComplete(string, time.Duration)  {}

// eventBuffer sizes the Stream channel so a slow reader does not stall the
// run on every thought.
const eventBuffer = 64

// Stream runs req on its own goroutine and delivers progress as events. The
// channel carries exactly one terminal event (complete or error) unless ctx
// ends first, and is closed afterwards.
func Stream(ctx context.Context, p *Pipeline, req model.AnalyzeRequest, runID string) <-chan model.Event {
	events := make(chan model.Event, eventBuffer)

	send := func(ev model.Event) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	obs := ObserverFuncs{
		OnStart: func(info model.StageInfo, step, total int) {
			send(model.Event{
				Type:    model.EventStageStart,
				StageID: info.ID,
				Name:    info.Name,
				Emoji:   info.Emoji,
				Role:    info.Role,
				Step:    step,
				Total:   total,
			})
		},
		OnThought: func(stageID, text string) {
			send(model.Event{Type: model.EventStageThought, StageID: stageID, Text: text})
		},
		OnComplete: func(stageID string, d time.Duration) {
			send(model.Event{Type: model.EventStageComplete, StageID: stageID, DurationMs: d.Milliseconds()})
		},
	}

	go func() {
		defer close(events)
		report, err := p.Run(ctx, req, runID, obs)
		if err != nil {
			send(model.Event{Type: model.EventError, Message: err.Error()})
			return
		}
		send(model.Event{Type: model.EventComplete, Report: report})
	}()

	return events
}
