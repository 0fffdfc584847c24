package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
	"github.com/konkalaitzidis/digital-health-app/internal/pipeline"
	"github.com/konkalaitzidis/digital-health-app/internal/status"
)

func testServer(t *testing.T, reset func()) (*httptest.Server, *status.Tracker) {
	t.Helper()
	tracker := status.NewTracker(time.Now(), status.Config{
		SamplingRateHz:      20,
		WindowSeconds:       5,
		OverlapFraction:     0.5,
		ThrottleMs:          1000,
		SmoothingWindowSize: 3,
		ResetGraceMs:        1500,
		APIBase:             "http://localhost:8000",
		HTTPAddr:            ":8081",
		Simulated:           true,
	})
	srv := New(":0", tracker, reset)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tracker
}

func TestIndexJSON(t *testing.T) {
	ts, tracker := testServer(t, nil)

	tracker.PipelineUpdate(pipeline.Update{
		Current: activity.Light,
		Summary: pipeline.Summary{
			Current: activity.Light,
			Seconds: map[activity.Class]int{
				activity.Sedentary: 30,
				activity.Light:     40,
				activity.Moderate:  20,
				activity.Vigorous:  10,
			},
			Total: 100, Active: 70, MVPA: 30,
			ActivePct: 70, MVPAPct: 30,
		},
		Backend: pipeline.StatusOK,
		Counts:  pipeline.Counts{Dispatched: 5, Completed: 5},
	})
	tracker.SetSensorConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q, want application/json", ct)
	}

	var body StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	st := body.Status
	if st.CurrentClass != "Light" {
		t.Errorf("current_class: got %q, want Light", st.CurrentClass)
	}
	if st.Backend != pipeline.StatusOK {
		t.Errorf("backend: got %q, want %q", st.Backend, pipeline.StatusOK)
	}
	if !st.SensorConnected {
		t.Error("sensor_connected: got false, want true")
	}
	if st.Session.LightSeconds != 40 || st.Session.TotalSeconds != 100 {
		t.Errorf("session: got %+v", st.Session)
	}
	if st.Session.ActivePct != 70 || st.Session.MVPAPct != 30 {
		t.Errorf("percentages: got active=%d mvpa=%d", st.Session.ActivePct, st.Session.MVPAPct)
	}
	if st.Requests.Dispatched != 5 {
		t.Errorf("dispatched: got %d, want 5", st.Requests.Dispatched)
	}
	if st.Config.SamplingRateHz != 20 || !st.Config.Simulated {
		t.Errorf("config: got %+v", st.Config)
	}
}

func TestIndexHTML(t *testing.T) {
	ts, _ := testServer(t, nil)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %q, want text/html", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	page := string(data)
	for _, want := range []string{"Sedentary", "Light", "Moderate", "Vigorous"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestIndexNotFound(t *testing.T) {
	ts, _ := testServer(t, nil)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestReset(t *testing.T) {
	called := false
	ts, _ := testServer(t, func() { called = true })

	resp, err := http.Post(ts.URL+"/reset", "", nil)
	if err != nil {
		t.Fatalf("POST /reset: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", resp.StatusCode)
	}
	if !called {
		t.Error("reset callback not invoked")
	}
}

func TestResetRejectsGet(t *testing.T) {
	called := false
	ts, _ := testServer(t, func() { called = true })

	resp, err := http.Get(ts.URL + "/reset")
	if err != nil {
		t.Fatalf("GET /reset: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", resp.StatusCode)
	}
	if called {
		t.Error("reset callback invoked on GET")
	}
}

func TestWebSocketPushesStatus(t *testing.T) {
	ts, tracker := testServer(t, nil)
	tracker.PipelineUpdate(pipeline.Update{
		Current: activity.Vigorous,
		Summary: pipeline.Summary{Current: activity.Vigorous},
		Backend: pipeline.StatusOK,
	})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}

	var body StatusJSON
	if err := json.Unmarshal(msg, &body); err != nil {
		t.Fatalf("decode push: %v", err)
	}
	if body.Status.CurrentClass != "Vigorous" {
		t.Errorf("pushed current_class: got %q, want Vigorous", body.Status.CurrentClass)
	}
}
