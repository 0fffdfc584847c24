// Command activity-monitor consumes accelerometer samples, classifies them
// through the inference API, and tracks per-class session time. It serves a
// local status page with a live feed and a session reset button.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/konkalaitzidis/digital-health-app/internal/client"
	"github.com/konkalaitzidis/digital-health-app/internal/config"
	"github.com/konkalaitzidis/digital-health-app/internal/pipeline"
	"github.com/konkalaitzidis/digital-health-app/internal/sensor"
	"github.com/konkalaitzidis/digital-health-app/internal/status"
	"github.com/konkalaitzidis/digital-health-app/internal/web"
)

func main() {
	def := config.Default()

	apiBase := flag.String("api", "http://localhost:8000", "Inference API base URL")
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker address")
	topic := flag.String("topic", sensor.DefaultTopic, "MQTT sample topic")
	simulate := flag.Bool("simulate", false, "Use the built-in simulated walker instead of MQTT")
	httpAddr := flag.String("http", ":8081", "HTTP status address (empty to disable)")
	hz := flag.Int("hz", def.SamplingRateHz, "Sampling rate in Hz")
	winSec := flag.Int("window", def.WindowSeconds, "Window length in seconds")
	overlap := flag.Float64("overlap", def.OverlapFraction, "Window overlap fraction")
	throttle := flag.Int("throttle", def.ThrottleMs, "Minimum interval between dispatches in ms")
	smoothing := flag.Int("smoothing", def.SmoothingWindowSize, "Majority-vote history depth")
	grace := flag.Int("grace", def.ResetGraceMs, "Post-reset dispatch blackout in ms")

	flag.Parse()

	cfg := config.Config{
		SamplingRateHz:      *hz,
		WindowSeconds:       *winSec,
		OverlapFraction:     *overlap,
		ThrottleMs:          *throttle,
		SmoothingWindowSize: *smoothing,
		ResetGraceMs:        *grace,
	}

	if err := run(cfg, *apiBase, *broker, *topic, *simulate, *httpAddr); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, apiBase, broker, topic string, simulate bool, httpAddr string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Sample source
	var (
		source sensor.Source
		conn   sensor.ConnectionStatus
	)
	if simulate {
		w := sensor.NewWalker(cfg.SamplingRateHz, 20*time.Second)
		source, conn = w, w
		broker = ""
	} else {
		m, err := sensor.NewMQTTSource(broker, topic)
		if err != nil {
			return fmt.Errorf("init sensor source: %w", err)
		}
		source, conn = m, m
	}
	defer source.Close()

	cli := client.New(apiBase)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := cli.Ping(pingCtx); err != nil {
		// Not fatal: the windowing cadence retries naturally.
		log.Printf("inference API not reachable yet: %v", err)
	}
	cancel()

	tracker := status.NewTracker(time.Now(), status.Config{
		SamplingRateHz:      cfg.SamplingRateHz,
		WindowSeconds:       cfg.WindowSeconds,
		OverlapFraction:     cfg.OverlapFraction,
		ThrottleMs:          cfg.ThrottleMs,
		SmoothingWindowSize: cfg.SmoothingWindowSize,
		ResetGraceMs:        cfg.ResetGraceMs,
		APIBase:             apiBase,
		Broker:              broker,
		HTTPAddr:            httpAddr,
		Simulated:           simulate,
	})

	driver := pipeline.NewDriver(cfg, cli, tracker)

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker, driver.RequestReset)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	// Keep the displayed sensor connection state fresh.
	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				tracker.SetSensorConnected(conn.IsConnected())
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	log.Printf("started: api=%s source=%s win=%d step=%d throttle=%v smoothing=%d",
		apiBase, sourceName(simulate, broker), cfg.Win(), cfg.Step(),
		cfg.Throttle(), cfg.SmoothingWindowSize)

	return driver.Run(ctx, source.Samples(), ticker.C)
}

func sourceName(simulate bool, broker string) string {
	if simulate {
		return "simulated"
	}
	return broker
}
