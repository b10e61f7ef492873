package health

import (
	"sort"
	"sync"
	"time"
)

// Monitor holds the latest status reported by each component.
type Monitor struct {
	mu       sync.RWMutex
	statuses map[string]Status
}

// NewMonitor creates an empty monitor.
func NewMonitor() *Monitor {
	return &Monitor{statuses: make(map[string]Status)}
}

// Update records a component's status.
func (m *Monitor) Update(status Status) {
	if status.Component == "" {
		return
	}
	if status.Timestamp.IsZero() {
		status.Timestamp = time.Now().UTC()
	}

	m.mu.Lock()
	m.statuses[status.Component] = status
	m.mu.Unlock()
}

// UpdateHealthy marks a component healthy.
func (m *Monitor) UpdateHealthy(component, message string) {
	m.Update(NewHealthy(component, message))
}

// UpdateDegraded marks a component degraded.
func (m *Monitor) UpdateDegraded(component, message string) {
	m.Update(NewDegraded(component, message))
}

// UpdateUnhealthy marks a component unhealthy.
func (m *Monitor) UpdateUnhealthy(component, message string) {
	m.Update(NewUnhealthy(component, message))
}

// Get returns the last status reported for a component.
func (m *Monitor) Get(component string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, ok := m.statuses[component]
	return status, ok
}

// Remove drops a component from the monitor.
func (m *Monitor) Remove(component string) {
	m.mu.Lock()
	delete(m.statuses, component)
	m.mu.Unlock()
}

// Aggregate rolls every component status into one system status: any
// unhealthy component makes the system unhealthy, any degraded one
// makes it degraded, otherwise the system is healthy. Sub-statuses are
// sorted by component name.
func (m *Monitor) Aggregate(system string) Status {
	m.mu.RLock()
	subs := make([]Status, 0, len(m.statuses))
	for _, status := range m.statuses {
		subs = append(subs, status)
	}
	m.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].Component < subs[j].Component })

	overall := StatusHealthy
	for _, sub := range subs {
		switch sub.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}

	return Status{
		Component:   system,
		Healthy:     overall == StatusHealthy,
		Status:      overall,
		Timestamp:   time.Now().UTC(),
		SubStatuses: subs,
	}
}
