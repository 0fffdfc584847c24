// Command activity-server serves the activity inference API: it loads the
// exported model artifact and classifies accelerometer windows posted to
// /predict.
package main

import (
	"flag"
	"log"

	"github.com/konkalaitzidis/digital-health-app/internal/api"
	"github.com/konkalaitzidis/digital-health-app/internal/features"
	"github.com/konkalaitzidis/digital-health-app/internal/model"
)

func main() {
	addr := flag.String("addr", ":8000", "HTTP listen address")
	modelPath := flag.String("model", "model.json", "Path to the model artifact")
	flag.Parse()

	forest, err := model.Load(*modelPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if forest.NumFeatures() != len(features.Names) {
		log.Fatalf("fatal: model expects %d features, engine produces %d",
			forest.NumFeatures(), len(features.Names))
	}

	srv := api.New(forest, forest.Win())
	log.Printf("inference API listening on %s (win=%d samples)", *addr, forest.Win())
	if err := srv.Run(*addr); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
