package web

import (
	"encoding/json"
	"time"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
	"github.com/konkalaitzidis/digital-health-app/internal/status"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	CurrentClass    string       `json:"current_class"`
	Backend         string       `json:"backend"`
	SensorConnected bool         `json:"sensor_connected"`
	UptimeSeconds   int64        `json:"uptime_seconds"`
	StartTime       string       `json:"start_time"`
	Timestamp       string       `json:"timestamp"`
	Session         SessionJSON  `json:"session"`
	Requests        RequestsJSON `json:"requests"`
	Config          ConfigJSON   `json:"config"`
}

// SessionJSON is the JSON representation of the session timers and their
// derived metrics, all in whole seconds and whole percent.
type SessionJSON struct {
	SedentarySeconds int `json:"sedentary_seconds"`
	LightSeconds     int `json:"light_seconds"`
	ModerateSeconds  int `json:"moderate_seconds"`
	VigorousSeconds  int `json:"vigorous_seconds"`
	TotalSeconds     int `json:"total_seconds"`
	ActiveSeconds    int `json:"active_seconds"`
	MVPASeconds      int `json:"mvpa_seconds"`
	ActivePct        int `json:"active_pct"`
	MVPAPct          int `json:"mvpa_pct"`
}

// RequestsJSON is the JSON representation of dispatch counters.
type RequestsJSON struct {
	Dispatched int `json:"dispatched"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SamplingRateHz      int     `json:"sampling_rate_hz"`
	WindowSeconds       int     `json:"window_seconds"`
	OverlapFraction     float64 `json:"overlap_fraction"`
	ThrottleMs          int     `json:"throttle_ms"`
	SmoothingWindowSize int     `json:"smoothing_window_size"`
	ResetGraceMs        int     `json:"reset_grace_ms"`
	APIBase             string  `json:"api_base"`
	Broker              string  `json:"broker,omitempty"`
	HTTPAddr            string  `json:"http_addr"`
	Simulated           bool    `json:"simulated"`
}

func formatJSON(snap status.Snapshot, indent bool) []byte {
	sj := StatusJSON{
		Status: StatusInner{
			CurrentClass:    string(snap.Current),
			Backend:         snap.Backend,
			SensorConnected: snap.SensorConnected,
			UptimeSeconds:   int64(snap.Uptime().Truncate(time.Second).Seconds()),
			StartTime:       snap.StartTime.UTC().Format(time.RFC3339),
			Timestamp:       snap.Now.UTC().Format(time.RFC3339),
			Session: SessionJSON{
				SedentarySeconds: snap.Summary.Seconds[activity.Sedentary],
				LightSeconds:     snap.Summary.Seconds[activity.Light],
				ModerateSeconds:  snap.Summary.Seconds[activity.Moderate],
				VigorousSeconds:  snap.Summary.Seconds[activity.Vigorous],
				TotalSeconds:     snap.Summary.Total,
				ActiveSeconds:    snap.Summary.Active,
				MVPASeconds:      snap.Summary.MVPA,
				ActivePct:        snap.Summary.ActivePct,
				MVPAPct:          snap.Summary.MVPAPct,
			},
			Requests: RequestsJSON{
				Dispatched: snap.Counts.Dispatched,
				Completed:  snap.Counts.Completed,
				Failed:     snap.Counts.Failed,
			},
			Config: ConfigJSON{
				SamplingRateHz:      snap.Config.SamplingRateHz,
				WindowSeconds:       snap.Config.WindowSeconds,
				OverlapFraction:     snap.Config.OverlapFraction,
				ThrottleMs:          snap.Config.ThrottleMs,
				SmoothingWindowSize: snap.Config.SmoothingWindowSize,
				ResetGraceMs:        snap.Config.ResetGraceMs,
				APIBase:             snap.Config.APIBase,
				Broker:              snap.Config.Broker,
				HTTPAddr:            snap.Config.HTTPAddr,
				Simulated:           snap.Config.Simulated,
			},
		},
	}

	if indent {
		data, _ := json.MarshalIndent(sj, "", "  ")
		return data
	}
	data, _ := json.Marshal(sj)
	return data
}
