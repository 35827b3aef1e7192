package telemetry

import (
	"fmt"
	"strings"
	"sync"
)

// Report is a single call recorded by Recorder.
type Report struct {
	Kind   string
	ID     string
	Params []any
	Count  int64
}

const (
	KindBroken  = "broken"
	KindWarning = "warning"
	KindDebug   = "debug"
	KindCount   = "count"
)

// Recorder is an API that keeps every report in memory, it is meant to be
// used in tests to assert on what a component reported.
type Recorder struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) push(report Report) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.push(Report{Kind: KindBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.push(Report{Kind: KindWarning, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.push(Report{Kind: KindDebug, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.push(Report{Kind: KindCount, ID: id, Count: count})
}

// Reports returns a copy of every report of the given kind.
func (r *Recorder) Reports(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// Has returns true if a report of the given kind has an id that contains `id`.
func (r *Recorder) Has(kind, id string) bool {
	for _, report := range r.Reports(kind) {
		if strings.Contains(report.ID, id) {
			return true
		}
	}
	return false
}

// LastCount returns the most recent count reported under an id containing `id`.
func (r *Recorder) LastCount(id string) (int64, bool) {
	counts := r.Reports(KindCount)
	for i := len(counts) - 1; i >= 0; i-- {
		if strings.Contains(counts[i].ID, id) {
			return counts[i].Count, true
		}
	}
	return 0, false
}

func (r *Recorder) String() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out strings.Builder
	for _, report := range r.reports {
		out.WriteString(fmt.Sprintf("[%s] %s %v\n", report.Kind, report.ID, report.Params))
	}
	return out.String()
}
