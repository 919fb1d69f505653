package health

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>RoomRento · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <meta http-equiv="refresh" content="10">
  <style>
    body { font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background: #F8F9FA; color: #1F2937; margin: 0; padding: 40px; }
    h1 { margin: 0 0 6px 0; font-size: 40px; letter-spacing: -1px; }
    .sub { color: #6B7280; font-weight: 600; margin-bottom: 28px; }
    .grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 20px; max-width: 1000px; }
    .card { background: #fff; border-radius: 16px; padding: 24px; box-shadow: 0 10px 40px -20px rgba(0,0,0,0.2); }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 800; letter-spacing: 2px; color: #94a3b8; margin-bottom: 14px; }
    .big { font-size: 32px; font-weight: 800; }
    .row { display: flex; justify-content: space-between; padding: 6px 0; font-size: 14px; }
    .ok { color: #0F766E; font-weight: 800; }
    .err { color: #EF4444; font-weight: 800; }
    @media (max-width: 800px) { .grid { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  <h1>{{if eq .Status "ok"}}All systems operational{{else}}Degraded service{{end}}</h1>
  <div class="sub">RoomRento listings API · up {{.Uptime}}</div>
  <div class="grid">
    <div class="card">
      <div class="label">Traffic</div>
      <div class="big">{{.Traffic.TotalRequests}}</div>
      <div class="row"><span>Success rate</span><span>{{.Traffic.SuccessRate}}%</span></div>
      <div class="row"><span>Failed</span><span>{{.Traffic.FailedCount}}</span></div>
      <div class="row"><span>Avg response</span><span>{{.AvgTime}} ms</span></div>
    </div>
    <div class="card">
      <div class="label">Dependencies</div>
      {{range .Deps}}<div class="row"><span>{{.Name}}</span><span class="{{if eq .Status "connected"}}ok{{else}}err{{end}}">{{.Status}}</span></div>{{end}}
    </div>
    <div class="card">
      <div class="label">Runtime</div>
      <div class="row"><span>Go</span><span>{{.Runtime.GoVersion}}</span></div>
      <div class="row"><span>Platform</span><span>{{.Runtime.Platform}}</span></div>
      <div class="row"><span>Goroutines</span><span>{{.Runtime.Goroutines}}</span></div>
      <div class="row"><span>Heap in use</span><span>{{.Runtime.Memory.HeapInMB}} MB</span></div>
    </div>
  </div>
</body>
</html>`))

type depRow struct {
	Name   string
	Status string
}

// RenderDashboardHTML returns the HTML status page served on GET /.
func RenderDashboardHTML(h CollectResult) string {
	deps := make([]depRow, 0, len(h.Dependencies))
	for name, d := range h.Dependencies {
		deps = append(deps, depRow{Name: name, Status: d.Status})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })

	data := struct {
		CollectResult
		Uptime  string
		AvgTime string
		Deps    []depRow
	}{
		CollectResult: h,
		Uptime:        formatUptime(h.Runtime.UptimeSeconds),
		AvgTime:       fmt.Sprint(h.Traffic.AvgResponseTime),
		Deps:          deps,
	}
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return "<h1>status unavailable</h1>"
	}
	return buf.String()
}

func formatUptime(sec int64) string {
	d, h, m := sec/86400, (sec%86400)/3600, (sec%3600)/60
	if d > 0 {
		return fmt.Sprintf("%dd %dh %dm", d, h, m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
