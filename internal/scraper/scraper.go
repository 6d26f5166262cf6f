// Package scraper drives a single run: nonce -> stores -> schools -> export.
//
// Every step returns an explicit result, a failed step ends the run in a
// terminal state instead of propagating an error. Only a failed export is
// returned as an error since nothing sensible can be done about it.
package scraper

import (
	"context"
	"fmt"
	"schoolfinder/internal/components/assert"
	"schoolfinder/internal/components/telemetry"
	"schoolfinder/internal/schools"
)

const (
	report_run_export = "run.export"
)

type State int

const (
	StateStart State = iota
	StateTokenFetched
	StateTokenMissing
	StateDataFetched
	StateDataMissing
	StateNormalized
	StateExported
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateTokenFetched:
		return "token_fetched"
	case StateTokenMissing:
		return "token_missing"
	case StateDataFetched:
		return "data_fetched"
	case StateDataMissing:
		return "data_missing"
	case StateNormalized:
		return "normalized"
	case StateExported:
		return "exported"
	case StateEmpty:
		return "empty"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) Terminal() bool {
	switch s {
	case StateTokenMissing, StateDataMissing, StateExported, StateEmpty:
		return true
	}
	return false
}

// Source is where the stores come from, implemented by asl.Client.
type Source interface {
	GetNonce(ctx context.Context) (string, error)
	LoadStores(ctx context.Context, nonce string) (any, error)
}

// Exporter persists the normalized schools of a run.
type Exporter interface {
	Name() string
	Export(ctx context.Context, list []schools.School) error
}

type Result struct {
	State   State
	Schools []schools.School
	// Message is a human readable summary of the terminal state.
	Message string
}

// Run performs one scrape. Exporters are only called when at least one
// school was normalized, so a run without data never touches the disk.
func Run(ctx context.Context, src Source, exporters []Exporter, tel telemetry.API) (Result, error) {
	assert.NotNil(src)
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("scraper", tel)

	transition := func(state State) {
		tel.ReportDebug("transition", state.String())
	}
	transition(StateStart)

	nonce, err := src.GetNonce(ctx)
	if err != nil || nonce == "" {
		transition(StateTokenMissing)
		return Result{
			State:   StateTokenMissing,
			Message: "could not find asl nonce, no schools data found",
		}, nil
	}
	transition(StateTokenFetched)

	data, err := src.LoadStores(ctx, nonce)
	if err != nil || data == nil {
		transition(StateDataMissing)
		return Result{
			State:   StateDataMissing,
			Message: "no schools data found",
		}, nil
	}
	transition(StateDataFetched)

	list := schools.Normalize(data, tel)
	transition(StateNormalized)
	if len(list) == 0 {
		transition(StateEmpty)
		return Result{
			State:   StateEmpty,
			Schools: list,
			Message: "no schools could be processed from the data",
		}, nil
	}

	var saved []string
	for _, exporter := range exporters {
		err = exporter.Export(ctx, list)
		if err != nil {
			tel.ReportBroken(report_run_export, err, exporter.Name())
			return Result{State: StateNormalized, Schools: list}, err
		}
		saved = append(saved, exporter.Name())
	}
	transition(StateExported)

	message := fmt.Sprintf("processed %d schools", len(list))
	if len(saved) > 0 {
		message = fmt.Sprintf("%s, results saved to %v", message, saved)
	}
	return Result{
		State:   StateExported,
		Schools: list,
		Message: message,
	}, nil
}
