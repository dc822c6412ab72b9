package health

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Redis keys shared by the request marker, the error log and the dashboard.
const (
	KeyReqTotal  = "health:global:req_total"
	KeyReqErrors = "health:global:req_errors"
	KeyResTime   = "health:global:res_time_total"
	KeyResCount  = "health:global:res_count"
	KeyStartTime = "health:global:start_time"
	KeyLastReq   = "health:global:last_request"
	KeyErrorLog  = "health:global:error_log"

	errorLogSize = 50
)

// DBPinger is the database dependency. A nil pinger reports the database as disconnected.
type DBPinger interface {
	Ping() error
}

// Probe is an HTTP dependency checked with a GET.
type Probe struct {
	Name string
	URL  string
}

type Report struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	HeapMB        int    `json:"heapMb"`
	AllocMB       int    `json:"allocMb"`
	Goroutines    int    `json:"goroutines"`
	Platform      string `json:"platform"`
	GoVersion     string `json:"goVersion"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime string      `json:"avgResponseTime"`
	LastRequest     *RequestLog `json:"lastRequest"`
}

type RequestLog struct {
	Time   time.Time `json:"time"`
	IP     string    `json:"ip"`
	Path   string    `json:"path"`
	Method string    `json:"method"`
}

type ErrorLog struct {
	Time    time.Time `json:"time"`
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
	TraceID string    `json:"traceId,omitempty"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Checker collects service health from redis counters and dependency pings.
type Checker struct {
	Rdb     *redis.Client
	DB      DBPinger
	Probes  []Probe
	Timeout time.Duration
	Client  *http.Client
}

func (c *Checker) Collect(ctx context.Context) Report {
	report := Report{Dependencies: make(map[string]DepStatus)}

	dbStatus := DepStatus{Status: "disconnected"}
	if c.DB != nil {
		start := time.Now()
		if err := c.DB.Ping(); err == nil {
			ms := time.Since(start).Milliseconds()
			dbStatus = DepStatus{Status: "connected", PingMs: &ms}
		} else {
			dbStatus.Status = "error"
		}
	}
	report.Dependencies["database"] = dbStatus

	stats := TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"}
	startMs := time.Now().UnixMilli()
	redisStatus := DepStatus{Status: "disconnected"}
	if c.Rdb != nil {
		start := time.Now()
		if err := c.Rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisStatus = DepStatus{Status: "connected", PingMs: &ms}
			startMs = c.readTraffic(ctx, &stats, startMs)
		} else {
			redisStatus.Status = "error"
		}
	}
	report.Dependencies["redis"] = redisStatus
	report.Traffic = stats

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (time.Now().UnixMilli() - startMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	report.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		HeapMB:        int(m.HeapInuse / 1024 / 1024),
		AllocMB:       int(m.Alloc / 1024 / 1024),
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	for _, p := range c.Probes {
		if p.URL == "" {
			continue
		}
		st := DepStatus{Status: "unreachable"}
		if ms := c.ping(ctx, p.URL); ms != nil {
			st = DepStatus{Status: "reachable", PingMs: ms}
		}
		report.Dependencies[p.Name] = st
	}

	if dbStatus.Status == "connected" && redisStatus.Status == "connected" {
		report.Status = "ok"
	} else {
		report.Status = "issue"
	}
	return report
}

func (c *Checker) readTraffic(ctx context.Context, stats *TrafficInfo, startMs int64) int64 {
	vals, err := c.Rdb.MGet(ctx, KeyReqTotal, KeyReqErrors, KeyResTime, KeyResCount, KeyStartTime, KeyLastReq).Result()
	if err != nil {
		return startMs
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}
	if v := str(4); v != "" {
		if t, err := strconv.ParseInt(v, 10, 64); err == nil {
			startMs = t
		}
	} else {
		c.Rdb.Set(ctx, KeyStartTime, startMs, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(str(0))
	stats.FailedCount, _ = strconv.Atoi(str(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	if count, _ := strconv.Atoi(str(3)); count > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(count), 'f', 2, 64)
	}
	if v := str(5); v != "" {
		var last RequestLog
		if json.Unmarshal([]byte(v), &last) == nil {
			stats.LastRequest = &last
		}
	}
	return startMs
}

func (c *Checker) ping(ctx context.Context, url string) *int64 {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil
	}
	resp.Body.Close()
	ms := time.Since(start).Milliseconds()
	return &ms
}

// Reset clears the counters and restarts the uptime clock.
func (c *Checker) Reset(ctx context.Context) error {
	if err := c.Rdb.Del(ctx, KeyReqTotal, KeyReqErrors, KeyResTime, KeyResCount, KeyStartTime, KeyLastReq, KeyErrorLog).Err(); err != nil {
		return err
	}
	return c.Rdb.Set(ctx, KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err()
}

// RecentErrors returns the newest entries of the error log.
func (c *Checker) RecentErrors(ctx context.Context) ([]ErrorLog, error) {
	entries, err := c.Rdb.LRange(ctx, KeyErrorLog, 0, errorLogSize-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]ErrorLog, 0, len(entries))
	for _, s := range entries {
		var e ErrorLog
		if json.Unmarshal([]byte(s), &e) == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// RecordError pushes e onto the capped error log.
func RecordError(ctx context.Context, rdb *redis.Client, e ErrorLog) error {
	if rdb == nil {
		return nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, KeyErrorLog, b)
	pipe.LTrim(ctx, KeyErrorLog, 0, errorLogSize-1)
	_, err = pipe.Exec(ctx)
	return err
}

// MarkRequest records an inbound request.
func MarkRequest(ctx context.Context, rdb *redis.Client, r RequestLog) {
	b, _ := json.Marshal(r)
	pipe := rdb.Pipeline()
	pipe.Set(ctx, KeyLastReq, b, 0)
	pipe.Incr(ctx, KeyReqTotal)
	_, _ = pipe.Exec(ctx)
}

// MarkResponse records the latency and outcome of a request.
func MarkResponse(ctx context.Context, rdb *redis.Client, elapsed time.Duration, status int) {
	pipe := rdb.Pipeline()
	pipe.Incr(ctx, KeyResCount)
	pipe.IncrByFloat(ctx, KeyResTime, float64(elapsed.Milliseconds()))
	if status >= 500 {
		pipe.Incr(ctx, KeyReqErrors)
	}
	_, _ = pipe.Exec(ctx)
}
