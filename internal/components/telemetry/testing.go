package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call recorded by TestAPI.
type Report struct {
	Id     string
	Params []any
}

// TestAPI records every report so tests can assert on them. Debug messages
// are dropped.
type TestAPI struct {
	lock     sync.Mutex
	Broken   []Report
	Warnings []Report
	Counts   map[string]int64
}

func NewTestAPI() *TestAPI {
	return &TestAPI{Counts: map[string]int64{}}
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.Broken = append(t.Broken, Report{Id: id, Params: params})
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.Warnings = append(t.Warnings, Report{Id: id, Params: params})
}

func (t *TestAPI) ReportDebug(string, ...any) {}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.Counts[id] = count
}

// HasBroken returns true if a broken report whose id ends with `suffix` was
// recorded.
func (t *TestAPI) HasBroken(suffix string) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	for _, r := range t.Broken {
		if strings.HasSuffix(r.Id, suffix) {
			return true
		}
	}
	return false
}
