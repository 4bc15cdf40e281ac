// Command gdl90-ogn-ingest connects to the Open Glider Network's
// APRS-IS feed and republishes decoded position beacons onto NATS for
// gdl90-broadcaster to pick up.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"gdl90/internal/ingest/ogn"
	"gdl90/internal/traffic"
)

const trafficSubject = "gdl90.traffic"

func main() {
	host := flag.String("aprs-host", envOrDefault("OGN_APRS_HOST", "aprs.glidernet.org"), "APRS-IS server host")
	port := flag.Int("aprs-port", envOrDefaultInt("OGN_APRS_PORT", 14580), "APRS-IS server port")
	callsign := flag.String("aprs-callsign", envOrDefault("OGN_APRS_CALLSIGN", "N0CALL"), "APRS-IS login callsign")
	filter := flag.String("aprs-filter", envOrDefault("OGN_APRS_FILTER", "r/0/0/9999"), "APRS-IS server-side filter")
	natsURL := flag.String("nats-url", envOrDefault("NATS_URL", nats.DefaultURL), "NATS server URL")
	reconnect := flag.Duration("reconnect-backoff", 10*time.Second, "Delay before reconnecting after a dropped connection")

	flag.Parse()

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Fatalf("connecting to nats: %v", err)
	}
	defer nc.Close()

	client := &ogn.Client{
		Host:     *host,
		Port:     *port,
		Callsign: *callsign,
		Filter:   *filter,
		Publish: func(obs traffic.Observation) error {
			data, err := json.Marshal(obs)
			if err != nil {
				return err
			}
			return nc.Publish(trafficSubject, data)
		},
	}

	log.Printf("gdl90-ogn-ingest connecting to %s:%d as %s, filter %q", *host, *port, *callsign, *filter)
	stop := make(chan struct{})
	client.RunWithReconnect(*reconnect, stop)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
