package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
	"github.com/konkalaitzidis/digital-health-app/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"seconds": func(snap status.Snapshot, name string) int {
		return snap.Summary.Seconds[activity.Class(name)]
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Activity Monitor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.class { font-size: 1.6em; font-weight: bold; }
.Sedentary { color: #888; }
.Light { color: #2a7; }
.Moderate { color: #d90; }
.Vigorous { color: #d33; }
.ok { color: green; }
.err { color: red; }
button { font-family: monospace; padding: 6px 14px; }
</style>
</head>
<body>
<h1>Activity Monitor</h1>

<p>Current class: <span id="class" class="class {{.Current}}">{{.Current}}</span></p>
<p>Backend: <span id="backend">{{.Backend}}</span>
 | Sensor: <span id="sensor">{{if .SensorConnected}}connected{{else}}disconnected{{end}}</span></p>

<table>
<tr><th>Sedentary</th><td><span id="sedentary">{{seconds . "Sedentary"}}</span> s</td></tr>
<tr><th>Light</th><td><span id="light">{{seconds . "Light"}}</span> s</td></tr>
<tr><th>Moderate</th><td><span id="moderate">{{seconds . "Moderate"}}</span> s</td></tr>
<tr><th>Vigorous</th><td><span id="vigorous">{{seconds . "Vigorous"}}</span> s</td></tr>
<tr><th>Total</th><td><span id="total">{{.Summary.Total}}</span> s</td></tr>
<tr><th>Active</th><td><span id="active">{{.Summary.Active}}</span> s (<span id="active_pct">{{.Summary.ActivePct}}</span>%)</td></tr>
<tr><th>MVPA</th><td><span id="mvpa">{{.Summary.MVPA}}</span> s (<span id="mvpa_pct">{{.Summary.MVPAPct}}</span>%)</td></tr>
</table>

<table>
<tr><th>Windows dispatched</th><td id="dispatched">{{.Counts.Dispatched}}</td></tr>
<tr><th>Completed</th><td id="completed">{{.Counts.Completed}}</td></tr>
<tr><th>Failed</th><td id="failed">{{.Counts.Failed}}</td></tr>
<tr><th>Uptime</th><td id="uptime">{{uptime .Uptime}}</td></tr>
</table>

<p><button id="reset">Reset session</button></p>

<script>
(function() {
  var set = function(id, v) { document.getElementById(id).textContent = v; };

  document.getElementById("reset").addEventListener("click", function() {
    fetch("/reset", {method: "POST"});
  });

  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function(ev) {
    var st = JSON.parse(ev.data).status;
    var cls = document.getElementById("class");
    cls.textContent = st.current_class;
    cls.className = "class " + st.current_class;
    set("backend", st.backend);
    set("sensor", st.sensor_connected ? "connected" : "disconnected");
    set("sedentary", st.session.sedentary_seconds);
    set("light", st.session.light_seconds);
    set("moderate", st.session.moderate_seconds);
    set("vigorous", st.session.vigorous_seconds);
    set("total", st.session.total_seconds);
    set("active", st.session.active_seconds);
    set("active_pct", st.session.active_pct);
    set("mvpa", st.session.mvpa_seconds);
    set("mvpa_pct", st.session.mvpa_pct);
    set("dispatched", st.requests.dispatched);
    set("completed", st.requests.completed);
    set("failed", st.requests.failed);
    set("uptime", st.uptime_seconds + "s");
  };
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("render status page: %v", err)
	}
}
