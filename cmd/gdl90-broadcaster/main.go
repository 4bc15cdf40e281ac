// Command gdl90-broadcaster accepts TCP client connections (ForeFlight
// and similar EFBs) and streams GDL-90 Heartbeat and Traffic Report
// frames for the aircraft currently held by the traffic tracker. It
// subscribes to NATS for live position updates and periodically
// archives the tracker's state to PostgreSQL and ClickHouse.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"gdl90"
	"gdl90/internal/broadcastapi"
	"gdl90/internal/storage"
	"gdl90/internal/traffic"
)

const trafficSubject = "gdl90.traffic"

func main() {
	listen := flag.String("listen", envOrDefault("GDL90_LISTEN", ":4000"), "TCP address to accept EFB connections on")
	apiListen := flag.String("api-listen", envOrDefault("GDL90_API_LISTEN", ":8080"), "HTTP address for the read API")
	natsURL := flag.String("nats-url", envOrDefault("NATS_URL", nats.DefaultURL), "NATS server URL")
	dbPath := flag.String("db-path", envOrDefault("GDL90_TRACKER_DB", "traffic.db"), "Tracker SQLite database path")

	defaultDB := storage.DefaultConfig()

	pgHost := flag.String("pg-host", envOrDefault("POSTGRES_HOST", ""), "PostgreSQL host (archival disabled if empty)")
	pgPort := flag.Int("pg-port", envOrDefaultInt("POSTGRES_PORT", defaultDB.Postgres.Port), "PostgreSQL port")
	pgUser := flag.String("pg-user", envOrDefault("POSTGRES_USER", defaultDB.Postgres.User), "PostgreSQL user")
	pgPassword := flag.String("pg-password", envOrDefault("POSTGRES_PASSWORD", defaultDB.Postgres.Password), "PostgreSQL password")
	pgDB := flag.String("pg-database", envOrDefault("POSTGRES_DATABASE", defaultDB.Postgres.Database), "PostgreSQL database")

	chHost := flag.String("ch-host", envOrDefault("CLICKHOUSE_HOST", ""), "ClickHouse host (archival disabled if empty)")
	chPort := flag.Int("ch-port", envOrDefaultInt("CLICKHOUSE_PORT", defaultDB.ClickHouse.Port), "ClickHouse port")
	chUser := flag.String("ch-user", envOrDefault("CLICKHOUSE_USER", defaultDB.ClickHouse.User), "ClickHouse user")
	chPassword := flag.String("ch-password", envOrDefault("CLICKHOUSE_PASSWORD", defaultDB.ClickHouse.Password), "ClickHouse password")
	chDB := flag.String("ch-database", envOrDefault("CLICKHOUSE_DATABASE", defaultDB.ClickHouse.Database), "ClickHouse database")

	archiveInterval := flag.Duration("archive-interval", 30*time.Second, "How often to archive tracker state")

	flag.Parse()

	ctx := context.Background()

	tracker, err := traffic.NewTracker(*dbPath)
	if err != nil {
		fatalf("opening tracker: %v", err)
	}
	defer tracker.Close()

	db := &storage.DB{}
	if *pgHost != "" {
		db.PG, err = storage.OpenPostgres(ctx, storage.PostgresConfig{
			Host: *pgHost, Port: *pgPort, User: *pgUser, Password: *pgPassword, Database: *pgDB,
		})
		if err != nil {
			fatalf("opening postgres: %v", err)
		}
		defer db.PG.Close()
	}

	if *chHost != "" {
		db.CH, err = storage.OpenClickHouse(ctx, storage.ClickHouseConfig{
			Host: *chHost, Port: *chPort, User: *chUser, Password: *chPassword, Database: *chDB,
		})
		if err != nil {
			fatalf("opening clickhouse: %v", err)
		}
		defer db.CH.Close()
	}

	if db.PG != nil || db.CH != nil {
		if err := db.CreateSchemas(ctx); err != nil {
			fatalf("creating archive schemas: %v", err)
		}
	}

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		fatalf("connecting to nats: %v", err)
	}
	defer nc.Close()

	if _, err := nc.Subscribe(trafficSubject, func(msg *nats.Msg) {
		var obs traffic.Observation
		if err := json.Unmarshal(msg.Data, &obs); err != nil {
			log.Printf("broadcaster: bad traffic message: %v", err)
			return
		}
		tracker.Upsert(obs)
	}); err != nil {
		fatalf("subscribing to %s: %v", trafficSubject, err)
	}

	if db.PG != nil || db.CH != nil {
		go runArchiver(ctx, tracker, db, *archiveInterval)
	}

	go runReadAPI(tracker, *apiListen)

	if err := runTCPServer(*listen, tracker); err != nil {
		fatalf("tcp server: %v", err)
	}
}

func runTCPServer(addr string, tracker *traffic.Tracker) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	log.Printf("gdl90-broadcaster listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Printf("accept error: %v", err)
			continue
		}
		go handleClient(conn, tracker)
	}
}

func handleClient(conn net.Conn, tracker *traffic.Tracker) {
	remote := conn.RemoteAddr().String()
	log.Printf("client connected: %s", remote)
	defer func() {
		conn.Close()
		log.Printf("client disconnected: %s", remote)
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		hb, err := heartbeatFrame()
		if err != nil {
			log.Printf("%s: encode heartbeat: %v", remote, err)
			return
		}
		if _, err := conn.Write(hb); err != nil {
			return
		}

		for _, obs := range tracker.Snapshot() {
			frame, err := gdl90.TrafficReport{TrafficRecord: obs.ToTrafficRecord()}.Serialize(false)
			if err != nil {
				log.Printf("%s: encode traffic report for %06X: %v", remote, obs.ICAOAddress, err)
				continue
			}
			if _, err := conn.Write(frame); err != nil {
				return
			}
		}
	}
}

func heartbeatFrame() ([]byte, error) {
	now := time.Now().UTC()
	hb := gdl90.Heartbeat{
		GPSPositionValid: true,
		UATInitialized:   true,
		Timestamp:        now,
	}
	return hb.Serialize(false)
}

func runArchiver(ctx context.Context, tracker *traffic.Tracker, db *storage.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := db.RecordObservations(ctx, tracker.Snapshot()); err != nil {
			log.Printf("archiver: %v", err)
		}
	}
}

func runReadAPI(tracker *traffic.Tracker, addr string) {
	server := broadcastapi.NewServer(tracker, broadcastapi.Config{})
	log.Printf("gdl90-broadcaster read API listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Printf("read API stopped: %v", err)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
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
