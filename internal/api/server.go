// Package api exposes the inference HTTP API: a liveness probe and the
// window classification endpoint. Handlers are stateless per request; the
// model is loaded once and shared read-only.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
	"github.com/konkalaitzidis/digital-health-app/internal/features"
)

// Classifier maps a feature vector to a prediction. *model.Forest satisfies
// this; tests substitute stubs.
type Classifier interface {
	Classify(v features.Vector) (activity.Prediction, error)
}

// Server wires the routes for the inference API.
type Server struct {
	classifier Classifier
	win        int
	engine     *gin.Engine
}

type sampleJSON struct {
	AccelX float64 `json:"accel_x"`
	AccelY float64 `json:"accel_y"`
	AccelZ float64 `json:"accel_z"`
}

type predictRequest struct {
	Samples []sampleJSON `json:"samples"`
}

type predictResponse struct {
	MetClass      string             `json:"met_class"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// New creates a server classifying windows of win samples.
func New(classifier Classifier, win int) *Server {
	s := &Server{classifier: classifier, win: win}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.GET("/ping", s.handlePing)
	r.POST("/predict", s.handlePredict)
	s.engine = r
	return s
}

// Engine returns the underlying router, for tests and embedding.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts serving on addr. It blocks.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handlePredict classifies the last full window of the posted samples.
// Rolling client buffers may post more than win samples; fewer is an error.
func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": fmt.Sprintf("invalid body: %v", err)})
		return
	}
	if len(req.Samples) < s.win {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": fmt.Sprintf("not enough samples (%d), need at least %d", len(req.Samples), s.win),
		})
		return
	}

	window := make([]activity.Sample, s.win)
	for i, raw := range req.Samples[len(req.Samples)-s.win:] {
		window[i] = activity.Sample{X: raw.AccelX, Y: raw.AccelY, Z: raw.AccelZ}
	}

	vec, err := features.Extract(features.Calibrate(window), s.win)
	if err != nil {
		if errors.Is(err, features.ErrInvalidWindow) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	pred, err := s.classifier.Classify(vec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	resp := predictResponse{MetClass: string(pred.Label)}
	if len(pred.Probabilities) > 0 {
		resp.Probabilities = make(map[string]float64, len(pred.Probabilities))
		for class, p := range pred.Probabilities {
			resp.Probabilities[string(class)] = p
		}
	}
	c.JSON(http.StatusOK, resp)
}
