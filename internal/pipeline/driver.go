package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
	"github.com/konkalaitzidis/digital-health-app/internal/config"
)

// Backend status strings shown to the user.
const (
	StatusWaiting = "waiting"
	StatusOK      = "OK"
	StatusOffline = "offline"
)

// Classifier is the transport boundary the driver dispatches windows to.
// Implementations return the raw prediction for one window, or an error
// classified by the client package's taxonomy.
type Classifier interface {
	Classify(ctx context.Context, window []activity.Sample) (activity.Prediction, error)
}

// Counts tracks dispatch outcomes since startup.
type Counts struct {
	Dispatched int
	Completed  int
	Failed     int
}

// Update is a point-in-time view of pipeline state pushed to a Notifier
// after every event that changes it.
type Update struct {
	Current activity.Class
	Summary Summary
	Backend string
	Counts  Counts
}

// Notifier receives pipeline state updates. Implementations must not block.
type Notifier interface {
	PipelineUpdate(Update)
}

// classifyResult carries one classification outcome back into the loop.
type classifyResult struct {
	pred activity.Prediction
	err  error
}

// Driver owns all mutable pipeline state and runs the event loop. Sensor
// samples, the per-second timer, classification completions, and reset
// requests are discrete events handled by one sequential goroutine, so no
// state needs locking.
//
// The classification call is the sole suspending operation. While one is
// outstanding, samples keep accumulating but windowing is suppressed, so at
// most one request is in flight at any time. The in-flight flag is released
// on every outcome.
type Driver struct {
	cfg        config.Config
	extractor  *Extractor
	smoother   *Smoother
	session    *Session
	classifier Classifier
	notifier   Notifier
	now        func() time.Time

	inFlight bool
	backend  string
	counts   Counts

	results chan classifyResult
	resetCh chan struct{}
}

// NewDriver creates a driver for the given configuration. The notifier may
// be nil.
func NewDriver(cfg config.Config, classifier Classifier, notifier Notifier) *Driver {
	return &Driver{
		cfg:        cfg,
		extractor:  NewExtractor(cfg.Win(), cfg.Step(), cfg.Throttle()),
		smoother:   NewSmoother(cfg.SmoothingWindowSize),
		session:    NewSession(),
		classifier: classifier,
		notifier:   notifier,
		now:        time.Now,
		backend:    StatusWaiting,
		// Buffered so the single in-flight goroutine can always deliver
		// its result, even if the loop has already exited.
		results: make(chan classifyResult, 1),
		resetCh: make(chan struct{}, 1),
	}
}

// RequestReset asks the loop to perform a session reset. Safe to call from
// other goroutines; coalesces when a reset is already pending.
func (d *Driver) RequestReset() {
	select {
	case d.resetCh <- struct{}{}:
	default:
	}
}

// Run processes events until ctx is cancelled or the sample channel closes.
func (d *Driver) Run(ctx context.Context, samples <-chan activity.Sample, tick <-chan time.Time) error {
	d.notify()
	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-samples:
			if !ok {
				return nil
			}
			d.handleSample(ctx, s)
		case <-tick:
			d.session.Tick()
			d.notify()
		case r := <-d.results:
			d.handleResult(r)
		case <-d.resetCh:
			d.reset()
		}
	}
}

// handleSample appends unconditionally, then evaluates dispatch eligibility.
func (d *Driver) handleSample(ctx context.Context, s activity.Sample) {
	d.extractor.Append(s)

	if d.inFlight {
		return
	}
	window, ok := d.extractor.TryDispatch(d.now())
	if !ok {
		return
	}

	d.inFlight = true
	d.counts.Dispatched++
	go func() {
		pred, err := d.classifier.Classify(ctx, window)
		d.results <- classifyResult{pred: pred, err: err}
	}()
}

// handleResult releases the in-flight flag and applies the outcome. On any
// failure the stabilized class and timers are left untouched and the raw
// history is not appended; the next eligible window is the retry.
func (d *Driver) handleResult(r classifyResult) {
	d.inFlight = false

	if r.err != nil {
		d.counts.Failed++
		d.backend = failureStatus(r.err)
		log.Printf("classify failed: %v", r.err)
		d.notify()
		return
	}

	d.counts.Completed++
	d.backend = StatusOK

	// A window dispatched before a reset may complete during the grace
	// period; its pre-reset label must not seed the cleared history.
	if d.extractor.InGrace(d.now()) {
		log.Printf("dropping stale prediction %q during reset grace", r.pred.Label)
		d.notify()
		return
	}

	stabilized := d.smoother.Push(r.pred.Label)
	d.session.SetCurrent(stabilized)
	d.notify()
}

// reset zeroes the timers, clears the smoothing history and the sample
// buffer, sets the current class to Sedentary, and starts the dispatch
// grace period so stale pre-reset samples cannot produce an immediate
// post-reset classification.
func (d *Driver) reset() {
	d.session.Reset()
	d.smoother.Clear()
	d.extractor.Clear()
	d.extractor.StartGrace(d.now(), d.cfg.ResetGrace())
	log.Printf("session reset, dispatch grace %v", d.cfg.ResetGrace())
	d.notify()
}

func (d *Driver) notify() {
	if d.notifier == nil {
		return
	}
	d.notifier.PipelineUpdate(Update{
		Current: d.session.Current(),
		Summary: d.session.Summary(),
		Backend: d.backend,
		Counts:  d.counts,
	})
}

// failureStatus maps a classification error to its display status: server
// errors carry their own "API <code>" text, anything else is offline.
func failureStatus(err error) string {
	var se interface{ StatusText() string }
	if errors.As(err, &se) {
		return se.StatusText()
	}
	return StatusOffline
}
