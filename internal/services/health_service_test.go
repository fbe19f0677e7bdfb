package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter int

func (c fixedCounter) ClientCount() int { return int(c) }
func (c fixedCounter) Len() int         { return int(c) }

func TestHealthService(t *testing.T) {
	t.Run("Readiness_Without_Dataset", testReadinessWithoutDataset)
	t.Run("Readiness_With_Dataset", testReadinessWithDataset)
	t.Run("Liveness_Check", testLivenessCheck)
	t.Run("Version_Information", testVersionInformation)
	t.Run("System_Stats", testSystemStats)
}

func testReadinessWithoutDataset(t *testing.T) {
	f := newServiceFixture(t, false)
	hs := NewHealthService("1.0.0", "", f.svc, nil, nil, nil)

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)

	dataset, ok := status.Services["dataset"].(ServiceHealth)
	require.True(t, ok)
	assert.Equal(t, "not_ready", dataset.Status)
	assert.Equal(t, "booking dataset not loaded", dataset.Message)
}

func testReadinessWithDataset(t *testing.T) {
	f := newServiceFixture(t, true)
	hs := NewHealthService("1.0.0", "", f.svc, fixedCounter(0), f.store, nil)

	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status)
	assert.Equal(t, "1.0.0", status.Version)

	dataset := status.Services["dataset"].(ServiceHealth)
	assert.Contains(t, dataset.Message, "6 bookings")
}

func testLivenessCheck(t *testing.T) {
	f := newServiceFixture(t, false)
	hs := NewHealthService("1.0.0", "", f.svc, nil, nil, nil)

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Contains(t, status.Runtime, "goroutines")
	assert.Contains(t, status.Runtime, "go_version")

	assert.Equal(t, "ok", hs.HealthCheck(context.Background()).Status)
}

func testVersionInformation(t *testing.T) {
	f := newServiceFixture(t, false)

	hs := NewHealthService("2.1.0", "2026-01-02T03:04:05Z", f.svc, nil, nil, nil)
	info := hs.Version()
	assert.Equal(t, "2.1.0", info["version"])
	assert.Equal(t, "2026-01-02T03:04:05Z", info["build_time"])
	assert.Equal(t, "v1", info["api_version"])

	hs = NewHealthService("2.1.0", "", f.svc, nil, nil, nil)
	assert.NotContains(t, hs.Version(), "build_time")
}

func testSystemStats(t *testing.T) {
	f := newServiceFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	hs := NewHealthService("1.0.0", "", f.svc, fixedCounter(3), f.store, nil)
	stats := hs.SystemStats(ctx)
	assert.Equal(t, 6, stats.DatasetRows)
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, 3, stats.WebSocketClients)
	assert.NotEmpty(t, stats.GoVersion)

	detailed := hs.GetDetailedHealth(ctx)
	assert.Contains(t, detailed, "readiness")
	assert.Contains(t, detailed, "stats")
}
