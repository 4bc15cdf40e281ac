// Command gdl90-opensky-ingest polls the OpenSky Network's public REST
// API for state vectors within a bounding box and republishes them
// onto NATS for gdl90-broadcaster to pick up.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"gdl90/internal/ingest/opensky"
	"gdl90/internal/traffic"
)

const trafficSubject = "gdl90.traffic"

func main() {
	bboxFlag := flag.String("bbox", envOrDefault("OPENSKY_BBOX", "-90,-180,90,180"), "Bounding box as minLat,minLon,maxLat,maxLon")
	interval := flag.Duration("poll-interval", 60*time.Second, "How often to poll the OpenSky API")
	natsURL := flag.String("nats-url", envOrDefault("NATS_URL", nats.DefaultURL), "NATS server URL")

	flag.Parse()

	bbox, err := parseBBox(*bboxFlag)
	if err != nil {
		log.Fatalf("invalid -bbox: %v", err)
	}

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Fatalf("connecting to nats: %v", err)
	}
	defer nc.Close()

	poller := &opensky.Poller{
		BBox:     bbox,
		Interval: *interval,
		Publish: func(obs traffic.Observation) error {
			data, err := json.Marshal(obs)
			if err != nil {
				return err
			}
			return nc.Publish(trafficSubject, data)
		},
	}

	log.Printf("gdl90-opensky-ingest polling bbox %+v every %s", bbox, *interval)
	stop := make(chan struct{})
	poller.Run(stop)
}

func parseBBox(s string) (opensky.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return opensky.BoundingBox{}, fmt.Errorf("expected 4 comma-separated values, got %d", len(parts))
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return opensky.BoundingBox{}, fmt.Errorf("parse %q: %w", p, err)
		}
		vals[i] = v
	}
	return opensky.BoundingBox{MinLat: vals[0], MinLon: vals[1], MaxLat: vals[2], MaxLon: vals[3]}, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
