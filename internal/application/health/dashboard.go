package health

import (
	"bytes"
	"html/template"
	"sort"
	"strings"
)

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"ok": func(status string) bool { return status == "connected" || status == "reachable" },
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>VillFinder · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --green: #1f7a4d; --dark: #1c2b24; --bg: #f6f7f5; --muted: #6b7280; --red: #dc2626; }
    body { background: var(--bg); color: var(--dark); font-family: system-ui, sans-serif; margin: 0; padding: 40px 20px; }
    .wrap { max-width: 960px; margin: 0 auto; }
    h1 { font-size: 40px; margin: 0 0 6px; letter-spacing: -1px; }
    h1.issue { color: var(--red); }
    .sub { color: var(--muted); margin: 0 0 28px; font-weight: 600; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; }
    .card { background: #fff; border-radius: 16px; padding: 24px; box-shadow: 0 10px 40px -20px rgba(0,0,0,0.2); }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 800; letter-spacing: 2px; color: #9ca3af; margin-bottom: 16px; }
    .big { font-size: 32px; font-weight: 800; margin-bottom: 8px; }
    .row { display: flex; justify-content: space-between; padding: 6px 0; font-size: 14px; font-weight: 600; border-bottom: 1px solid #f1f1f1; }
    .row:last-child { border-bottom: none; }
    .pill { padding: 2px 10px; border-radius: 8px; font-size: 12px; font-weight: 800; }
    .pill.ok { background: rgba(31,122,77,0.1); color: var(--green); }
    .pill.err { background: rgba(220,38,38,0.1); color: var(--red); }
    .last { margin-top: 16px; font-family: monospace; font-size: 13px; color: var(--muted); }
    a { color: var(--green); font-weight: 700; }
    @media (max-width: 800px) { .grid { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  <div class="wrap">
    {{if eq .Status "ok"}}<h1>All Systems Operational</h1>{{else}}<h1 class="issue">System Issues Detected</h1>{{end}}
    <p class="sub">Real-time monitoring of API performance and dependencies.</p>
    <div class="grid">
      <div class="card">
        <div class="label">Traffic</div>
        <div class="big">{{.Traffic.TotalRequests}}</div>
        <div class="row"><span>Successful</span><span>{{.Traffic.SuccessCount}}</span></div>
        <div class="row"><span>Failed</span><span>{{.Traffic.FailedCount}}</span></div>
        <div class="row"><span>Success Rate</span><span>{{.Traffic.SuccessRate}}%</span></div>
        <div class="row"><span>Avg Latency</span><span>{{.Traffic.AvgResponseTime}}ms</span></div>
      </div>
      <div class="card">
        <div class="label">Runtime</div>
        <div class="big">{{.Runtime.UptimeSeconds}}s</div>
        <div class="row"><span>Heap In Use</span><span>{{.Runtime.HeapMB}} MB</span></div>
        <div class="row"><span>Allocated</span><span>{{.Runtime.AllocMB}} MB</span></div>
        <div class="row"><span>Goroutines</span><span>{{.Runtime.Goroutines}}</span></div>
        <div class="row"><span>Platform</span><span>{{.Runtime.Platform}} · {{.Runtime.GoVersion}}</span></div>
      </div>
      <div class="card">
        <div class="label">Dependencies</div>
        {{range .Deps}}<div class="row"><span>{{title .Name}}</span><span class="pill {{if ok .Status}}ok{{else}}err{{end}}">{{.Status}}{{if .PingMs}} · {{.PingMs}} ms{{end}}</span></div>
        {{end}}
      </div>
    </div>
    {{with .Traffic.LastRequest}}<div class="last">LAST INBOUND {{.Method}} {{.Path}} from {{.IP}}</div>{{end}}
    <p class="last"><a href="/health/json">/health/json</a> · <a href="/health/errors">/health/errors</a> · <a href="/metrics">/metrics</a></p>
  </div>
</body>
</html>`))

type depRow struct {
	Name   string
	Status string
	PingMs *int64
}

// RenderDashboardHTML renders the status page for report.
func RenderDashboardHTML(report Report) (string, error) {
	deps := make([]depRow, 0, len(report.Dependencies))
	for name, d := range report.Dependencies {
		deps = append(deps, depRow{Name: name, Status: d.Status, PingMs: d.PingMs})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })

	var buf bytes.Buffer
	err := dashboardTmpl.Execute(&buf, struct {
		Report
		Deps []depRow
	}{report, deps})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
