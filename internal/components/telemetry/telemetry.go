// Package telemetry carries the reports of every component to logs, metrics
// and, in tests, to an in-memory Recorder.
package telemetry

// API is implemented by SlogAPI in production and Recorder in tests, so that
// what a component reports can be asserted on.
type API interface {
	// ReportBroken reports a component that failed and needs attention.
	//
	// The id names the component and its operation, not the exact step that
	// failed, ex. a missing selector in the map stats extractor is reported
	// as `map.stats` with the wrapped error as a param. Ids are lowercase,
	// `<component>.<operation>` with dashes between words.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something unexpected that did not stop the
	// component, a value that had to be replaced by zero for example.
	ReportWarning(id string, params ...any)

	// ReportDebug is only visible when running verbose.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the current value of a running count, values are
	// samples over time and must not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, usually the package name.
// Scopes nest, ex. "match: crawler: store.insert-map".
type ScopedAPI struct {
	prefix string
	inner  API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{prefix: namespace + ": ", inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.prefix+id, params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.prefix+id, params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.prefix+msg, params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.prefix+id, count)
}
