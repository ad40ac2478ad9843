// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Organization lookup metrics
	IncOrgCacheHit()
	IncOrgCacheMiss()
	ObserveLookupDuration(duration time.Duration)

	// Catalog mutation metrics
	IncBuildingCreated()
	IncActivityCreated()
	IncOrganizationCreated()
	IncOrganizationUpdated()
	IncOrganizationDeleted()

	// Search metrics
	IncSearch(kind string) // kind: "building", "activity", "radius", "bbox", "name"
	ObserveSearchDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
