package testutil

import (
	"context"
	"io"

	"momentlog/internal/journal"
	"momentlog/internal/model"
)

// ScriptedGenerator returns canned generation results. When Err is set every
// call fails with it. The last event and moments passed in are recorded so
// tests can assert what the generator was asked to summarize.
type ScriptedGenerator struct {
	Recap      model.DailyRecap
	Report     model.FinalReport
	Transcript string
	Err        error

	LastEvent   model.Event
	LastMoments []model.Moment
}

func (g *ScriptedGenerator) GenerateRecap(_ context.Context, event model.Event, moments []model.Moment) (*model.DailyRecap, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	g.LastEvent = event
	g.LastMoments = moments
	recap := g.Recap
	return &recap, nil
}

func (g *ScriptedGenerator) GenerateReport(_ context.Context, event model.Event, moments []model.Moment) (*model.FinalReport, error) {
	if g.Err != nil {
		return nil, g.Err
	}
	g.LastEvent = event
	g.LastMoments = moments
	report := g.Report
	return &report, nil
}

func (g *ScriptedGenerator) Transcribe(_ context.Context, audio io.Reader, _ string) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}
	io.Copy(io.Discard, audio)
	return g.Transcript, nil
}

var _ journal.Generator = (*ScriptedGenerator)(nil)
