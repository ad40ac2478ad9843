package metrics

import "time"

// NoopRecorder discards all metric events.
type NoopRecorder struct{}

// NewNoop returns a Recorder that does nothing.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (*NoopRecorder) IncOrgCacheHit()                     {}
func (*NoopRecorder) IncOrgCacheMiss()                    {}
func (*NoopRecorder) ObserveLookupDuration(time.Duration) {}
func (*NoopRecorder) IncBuildingCreated()                 {}
func (*NoopRecorder) IncActivityCreated()                 {}
func (*NoopRecorder) IncOrganizationCreated()             {}
func (*NoopRecorder) IncOrganizationUpdated()             {}
func (*NoopRecorder) IncOrganizationDeleted()             {}
func (*NoopRecorder) IncSearch(string)                    {}
func (*NoopRecorder) ObserveSearchDuration(time.Duration) {}
