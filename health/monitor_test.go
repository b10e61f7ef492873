package health

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAndGet(t *testing.T) {
	m := NewMonitor()

	m.UpdateHealthy("store", "lake open")

	status, ok := m.Get("store")
	require.True(t, ok)
	assert.True(t, status.IsHealthy())
	assert.Equal(t, "lake open", status.Message)
	assert.False(t, status.Timestamp.IsZero())

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestUpdateIgnoresUnnamedComponent(t *testing.T) {
	m := NewMonitor()
	m.Update(Status{Message: "nameless"})
	assert.Empty(t, m.Aggregate("system").SubStatuses)
}

func TestAggregateAllHealthy(t *testing.T) {
	m := NewMonitor()
	m.UpdateHealthy("store", "")
	m.UpdateHealthy("gateway", "")

	status := m.Aggregate("conceptmri")
	assert.True(t, status.Healthy)
	assert.Equal(t, StatusHealthy, status.Status)
	require.Len(t, status.SubStatuses, 2)
	assert.Equal(t, "gateway", status.SubStatuses[0].Component)
	assert.Equal(t, "store", status.SubStatuses[1].Component)
}

func TestAggregateDegradedWins(t *testing.T) {
	m := NewMonitor()
	m.UpdateHealthy("store", "")
	m.UpdateDegraded("nats", "reconnecting")

	status := m.Aggregate("conceptmri")
	assert.False(t, status.Healthy)
	assert.Equal(t, StatusDegraded, status.Status)
}

func TestAggregateUnhealthyDominates(t *testing.T) {
	m := NewMonitor()
	m.UpdateDegraded("nats", "reconnecting")
	m.UpdateUnhealthy("store", "lake missing")

	status := m.Aggregate("conceptmri")
	assert.Equal(t, StatusUnhealthy, status.Status)
}

func TestRemove(t *testing.T) {
	m := NewMonitor()
	m.UpdateUnhealthy("nats", "down")
	m.Remove("nats")

	status := m.Aggregate("conceptmri")
	assert.True(t, status.Healthy)
}

func TestConcurrentUpdates(t *testing.T) {
	m := NewMonitor()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.UpdateHealthy("gateway", "")
				m.Aggregate("conceptmri")
			}
		}()
	}
	wg.Wait()

	_, ok := m.Get("gateway")
	assert.True(t, ok)
}
