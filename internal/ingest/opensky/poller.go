// Package opensky polls the OpenSky Network's public REST API for
// aircraft state vectors within a bounding box and republishes them as
// traffic observations.
package opensky

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gdl90"
	"gdl90/internal/traffic"
)

const statesEndpoint = "https://opensky-network.org/api/states/all"

// BoundingBox restricts the poll to a geographic region, matching the
// lamin/lomin/lamax/lomax query parameters OpenSky's REST API expects.
type BoundingBox struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// Poller periodically fetches OpenSky's state vectors and republishes
// them via Publish.
type Poller struct {
	BBox     BoundingBox
	Interval time.Duration

	// Publish is called once per decoded state vector. Required.
	Publish func(traffic.Observation) error

	Client *http.Client
}

// stateResponse mirrors the subset of OpenSky's /states/all response
// this ingester consumes. Each entry in States is itself a
// heterogeneously-typed array (the REST API's own encoding choice).
type stateResponse struct {
	Time   int64           `json:"time"`
	States [][]interface{} `json:"states"`
}

// Run polls once per Interval until stop is closed.
func (p *Poller) Run(stop <-chan struct{}) {
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	p.pollOnce(client)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.pollOnce(client)
		}
	}
}

func (p *Poller) pollOnce(client *http.Client) {
	obs, err := p.fetch(client)
	if err != nil {
		log.Printf("opensky: poll failed: %v", err)
		return
	}
	for _, o := range obs {
		if err := p.Publish(o); err != nil {
			log.Printf("opensky: publish failed: %v", err)
		}
	}
}

func (p *Poller) fetch(client *http.Client) ([]traffic.Observation, error) {
	u, err := url.Parse(statesEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("lamin", strconv.FormatFloat(p.BBox.MinLat, 'f', -1, 64))
	q.Set("lomin", strconv.FormatFloat(p.BBox.MinLon, 'f', -1, 64))
	q.Set("lamax", strconv.FormatFloat(p.BBox.MaxLat, 'f', -1, 64))
	q.Set("lomax", strconv.FormatFloat(p.BBox.MaxLon, 'f', -1, 64))
	u.RawQuery = q.Encode()

	resp, err := client.Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("get states: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get states: unexpected status %s", resp.Status)
	}

	var sr stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode states: %w", err)
	}

	now := time.Unix(sr.Time, 0).UTC()
	out := make([]traffic.Observation, 0, len(sr.States))
	for _, s := range sr.States {
		obs, ok := decodeStateVector(s, now)
		if ok {
			out = append(out, obs)
		}
	}
	return out, nil
}

// decodeStateVector converts one row of OpenSky's states array,
// indexed per https://openskynetwork.github.io/opensky-api/rest.html,
// into an Observation. Rows with no callsign are skipped, matching
// the original collector's behavior.
func decodeStateVector(s []interface{}, observedAt time.Time) (traffic.Observation, bool) {
	if len(s) < 17 {
		return traffic.Observation{}, false
	}

	icaoHex, _ := s[0].(string)
	callsign, _ := s[1].(string)
	if callsign == "" {
		return traffic.Observation{}, false
	}

	icao, err := strconv.ParseUint(icaoHex, 16, 32)
	if err != nil {
		return traffic.Observation{}, false
	}

	obs := traffic.Observation{
		ICAOAddress:     uint32(icao),
		Callsign:        callsign,
		Longitude:       numberOr(s[5], 0),
		Latitude:        numberOr(s[6], 0),
		TrackDeg:        numberOr(s[10], 0),
		GroundSpeedKt:   numberOr(s[9], 0) * 1.94384, // m/s -> knots
		EmitterCategory: gdl90.EmitterCategoryNoInfo,
		Source:          "OPENSKY",
		ObservedAt:      observedAt,
	}

	if altM, ok := s[7].(float64); ok {
		altFt := int32(math.Round(altM * 3.28084))
		obs.PressureAltitudeFt = &altFt
	}
	if rateMS, ok := s[11].(float64); ok {
		rateFPM := int32(rateMS * 196.850)
		obs.VerticalRateFPM = &rateFPM
	}

	return obs, true
}

func numberOr(v interface{}, def float64) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return def
}
