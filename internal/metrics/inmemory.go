package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	OrgCacheHits          uint64
	OrgCacheMisses        uint64
	LookupDurationCount   uint64
	LookupDurationTotalNs int64
	BuildingsCreated      uint64
	ActivitiesCreated     uint64
	OrganizationsCreated  uint64
	OrganizationsUpdated  uint64
	OrganizationsDeleted  uint64
	SearchesByKind        map[string]uint64
	SearchDurationCount   uint64
	SearchDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	orgCacheHits          uint64
	orgCacheMisses        uint64
	lookupDurationCount   uint64
	lookupDurationTotalNs int64
	buildingsCreated      uint64
	activitiesCreated     uint64
	organizationsCreated  uint64
	organizationsUpdated  uint64
	organizationsDeleted  uint64
	searchDurationCount   uint64
	searchDurationTotalNs int64

	mu             sync.Mutex
	searchesByKind map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		searchesByKind: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	searches := make(map[string]uint64, len(m.searchesByKind))
	for kind, count := range m.searchesByKind {
		searches[kind] = count
	}
	m.mu.Unlock()

	return Snapshot{
		OrgCacheHits:          atomic.LoadUint64(&m.orgCacheHits),
		OrgCacheMisses:        atomic.LoadUint64(&m.orgCacheMisses),
		LookupDurationCount:   atomic.LoadUint64(&m.lookupDurationCount),
		LookupDurationTotalNs: atomic.LoadInt64(&m.lookupDurationTotalNs),
		BuildingsCreated:      atomic.LoadUint64(&m.buildingsCreated),
		ActivitiesCreated:     atomic.LoadUint64(&m.activitiesCreated),
		OrganizationsCreated:  atomic.LoadUint64(&m.organizationsCreated),
		OrganizationsUpdated:  atomic.LoadUint64(&m.organizationsUpdated),
		OrganizationsDeleted:  atomic.LoadUint64(&m.organizationsDeleted),
		SearchesByKind:        searches,
		SearchDurationCount:   atomic.LoadUint64(&m.searchDurationCount),
		SearchDurationTotalNs: atomic.LoadInt64(&m.searchDurationTotalNs),
	}
}

// IncOrgCacheHit increments the organization cache hit counter.
func (m *InMemoryRecorder) IncOrgCacheHit() {
	atomic.AddUint64(&m.orgCacheHits, 1)
}

// IncOrgCacheMiss increments the organization cache miss counter.
func (m *InMemoryRecorder) IncOrgCacheMiss() {
	atomic.AddUint64(&m.orgCacheMisses, 1)
}

// ObserveLookupDuration records an organization lookup duration.
func (m *InMemoryRecorder) ObserveLookupDuration(duration time.Duration) {
	atomic.AddUint64(&m.lookupDurationCount, 1)
	atomic.AddInt64(&m.lookupDurationTotalNs, duration.Nanoseconds())
}

// IncBuildingCreated increments the building created counter.
func (m *InMemoryRecorder) IncBuildingCreated() {
	atomic.AddUint64(&m.buildingsCreated, 1)
}

// IncActivityCreated increments the activity created counter.
func (m *InMemoryRecorder) IncActivityCreated() {
	atomic.AddUint64(&m.activitiesCreated, 1)
}

// IncOrganizationCreated increments the organization created counter.
func (m *InMemoryRecorder) IncOrganizationCreated() {
	atomic.AddUint64(&m.organizationsCreated, 1)
}

// IncOrganizationUpdated increments the organization updated counter.
func (m *InMemoryRecorder) IncOrganizationUpdated() {
	atomic.AddUint64(&m.organizationsUpdated, 1)
}

// IncOrganizationDeleted increments the organization deleted counter.
func (m *InMemoryRecorder) IncOrganizationDeleted() {
	atomic.AddUint64(&m.organizationsDeleted, 1)
}

// IncSearch increments the search counter for a kind.
func (m *InMemoryRecorder) IncSearch(kind string) {
	m.mu.Lock()
	m.searchesByKind[kind]++
	m.mu.Unlock()
}

// ObserveSearchDuration records a search duration.
func (m *InMemoryRecorder) ObserveSearchDuration(duration time.Duration) {
	atomic.AddUint64(&m.searchDurationCount, 1)
	atomic.AddInt64(&m.searchDurationTotalNs, duration.Nanoseconds())
}
