package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"villfinder-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping() error { return p.err }

func TestCollect_NoDependencies(t *testing.T) {
	report := (&Checker{}).Collect(context.Background())
	assert.Equal(t, "issue", report.Status)
	assert.Equal(t, "disconnected", report.Dependencies["database"].Status)
	assert.Equal(t, "disconnected", report.Dependencies["redis"].Status)
	assert.Equal(t, 0, report.Traffic.TotalRequests)
	assert.NotEmpty(t, report.Runtime.GoVersion)
}

func TestCollect_WithRedisCounters(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	ctx := context.Background()
	c := &Checker{Rdb: rdb, DB: pinger{}}

	report := c.Collect(ctx)
	assert.Equal(t, "ok", report.Status)
	assert.Equal(t, "connected", report.Dependencies["redis"].Status)
	assert.Equal(t, "100", report.Traffic.SuccessRate)

	require.NoError(t, rdb.Set(ctx, KeyReqTotal, "10", 0).Err())
	require.NoError(t, rdb.Set(ctx, KeyReqErrors, "2", 0).Err())
	require.NoError(t, rdb.Set(ctx, KeyResTime, "150.5", 0).Err())
	require.NoError(t, rdb.Set(ctx, KeyResCount, "10", 0).Err())

	report = c.Collect(ctx)
	assert.Equal(t, 10, report.Traffic.TotalRequests)
	assert.Equal(t, 2, report.Traffic.FailedCount)
	assert.Equal(t, 8, report.Traffic.SuccessCount)
	assert.Equal(t, "80.0", report.Traffic.SuccessRate)
	assert.Equal(t, "15.05", report.Traffic.AvgResponseTime)
}

func TestCollect_DatabaseErrorAndProbes(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	c := &Checker{
		Rdb:     rdb,
		DB:      pinger{err: errors.New("down")},
		Probes:  []Probe{{Name: "storage", URL: srv.URL}, {Name: "frontend", URL: "http://127.0.0.1:1"}, {Name: "skipped"}},
		Timeout: time.Second,
	}
	report := c.Collect(context.Background())
	assert.Equal(t, "issue", report.Status)
	assert.Equal(t, "error", report.Dependencies["database"].Status)
	assert.Equal(t, "reachable", report.Dependencies["storage"].Status)
	assert.Equal(t, "unreachable", report.Dependencies["frontend"].Status)
	assert.NotContains(t, report.Dependencies, "skipped")
}

func TestMarkersAndErrorLog(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	ctx := context.Background()
	c := &Checker{Rdb: rdb}

	MarkRequest(ctx, rdb, RequestLog{Time: time.Now(), Method: "GET", Path: "/api/v1/places/search", IP: "1.2.3.4"})
	MarkResponse(ctx, rdb, 20*time.Millisecond, 500)
	for i := 0; i < errorLogSize+5; i++ {
		require.NoError(t, RecordError(ctx, rdb, ErrorLog{Time: time.Now(), Path: "/x", Status: 500, Message: "boom"}))
	}

	report := c.Collect(ctx)
	assert.Equal(t, 1, report.Traffic.TotalRequests)
	assert.Equal(t, 1, report.Traffic.FailedCount)
	require.NotNil(t, report.Traffic.LastRequest)
	assert.Equal(t, "/api/v1/places/search", report.Traffic.LastRequest.Path)

	errs, err := c.RecentErrors(ctx)
	require.NoError(t, err)
	assert.Len(t, errs, errorLogSize)
	assert.Equal(t, "boom", errs[0].Message)

	require.NoError(t, c.Reset(ctx))
	assert.False(t, mr.Exists(KeyReqTotal))
	assert.True(t, mr.Exists(KeyStartTime))
	errs, err = c.RecentErrors(ctx)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestRenderDashboardHTML(t *testing.T) {
	ms := int64(3)
	html, err := RenderDashboardHTML(Report{
		Status:       "ok",
		Dependencies: map[string]DepStatus{"database": {Status: "connected", PingMs: &ms}, "redis": {Status: "error"}},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "VillFinder · API Status")
	assert.Contains(t, html, "All Systems Operational")
	assert.Contains(t, html, "Database")
	assert.Contains(t, html, "3 ms")
	assert.Contains(t, html, "/health/json")

	html, err = RenderDashboardHTML(Report{Status: "issue"})
	require.NoError(t, err)
	assert.Contains(t, html, "System Issues Detected")
}
