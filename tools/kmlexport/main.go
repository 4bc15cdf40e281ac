// Package main provides a tool to export the currently archived
// aircraft positions from PostgreSQL to KML format. KML (Keyhole
// Markup Language) files can be viewed in Google Earth, Google Maps,
// and other mapping applications.
package main

import (
	"context"
	"encoding/xml"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gdl90/internal/storage"
)

// KML structures for XML marshalling.
// These follow the KML 2.2 specification: https://developers.google.com/kml/documentation/kmlreference

// KML is the root element of a KML document.
type KML struct {
	XMLName   xml.Name `xml:"kml"`
	Namespace string   `xml:"xmlns,attr"`
	Document  Document `xml:"Document"`
}

// Document contains the document metadata and features.
type Document struct {
	Name        string      `xml:"name"`
	Description string      `xml:"description,omitempty"`
	Styles      []Style     `xml:"Style,omitempty"`
	Placemarks  []Placemark `xml:"Placemark"`
}

// Style defines the visual appearance of features.
type Style struct {
	ID        string    `xml:"id,attr"`
	IconStyle IconStyle `xml:"IconStyle"`
}

// IconStyle defines how icons are displayed.
type IconStyle struct {
	Scale float64 `xml:"scale,omitempty"`
	Icon  Icon    `xml:"Icon"`
}

// Icon specifies the icon image.
type Icon struct {
	Href string `xml:"href"`
}

// Placemark represents a geographic feature with geometry and metadata.
type Placemark struct {
	Name         string        `xml:"name"`
	Description  string        `xml:"description,omitempty"`
	StyleURL     string        `xml:"styleUrl,omitempty"`
	Point        Point         `xml:"Point"`
	ExtendedData *ExtendedData `xml:"ExtendedData,omitempty"`
}

// Point represents a geographic location.
type Point struct {
	Coordinates string `xml:"coordinates"` // Format: lon,lat,altitude
}

// ExtendedData holds custom data associated with a placemark.
type ExtendedData struct {
	Data []Data `xml:"Data"`
}

// Data represents a single piece of extended data.
type Data struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

func main() {
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "gdl90", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "", "PostgreSQL password")
	pgDB := flag.String("pg-db", "gdl90_broadcaster", "PostgreSQL database")

	output := flag.String("output", "", "Output KML file (default: stdout)")
	since := flag.Duration("since", time.Hour, "Include only positions observed within this duration of now")
	showStats := flag.Bool("stats", false, "Show statistics only, don't export")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Parse()

	ctx := context.Background()

	pg, err := storage.OpenPostgres(ctx, storage.PostgresConfig{
		Host:     *pgHost,
		Port:     *pgPort,
		Database: *pgDB,
		User:     *pgUser,
		Password: *pgPassword,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pg.Close()

	if *showStats {
		showPositionStats(ctx, pg)
		return
	}

	positions, err := pg.ListPositionsSince(ctx, time.Now().Add(-*since))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying positions: %v\n", err)
		os.Exit(1)
	}

	if len(positions) == 0 {
		fmt.Fprintf(os.Stderr, "No aircraft positions found matching criteria\n")
		os.Exit(0)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "Exporting %d aircraft positions to KML\n", len(positions))
	}

	kml := generateKML(positions)

	xmlData, err := xml.MarshalIndent(kml, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating KML: %v\n", err)
		os.Exit(1)
	}

	xmlOutput := xml.Header + string(xmlData)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(xmlOutput), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", *output)
		}
	} else {
		fmt.Println(xmlOutput)
	}
}

// generateKML creates a KML document from a set of archived positions.
func generateKML(positions []storage.AircraftPosition) KML {
	placemarks := make([]Placemark, len(positions))
	for i, p := range positions {
		// KML coordinates are in the format: longitude,latitude,altitude
		altitudeM := 0.0
		if p.PressureAltitudeFt != nil {
			altitudeM = float64(*p.PressureAltitudeFt) * 0.3048
		}
		coords := fmt.Sprintf("%.6f,%.6f,%.1f", p.Longitude, p.Latitude, altitudeM)

		name := strings.TrimSpace(p.Callsign)
		if name == "" {
			name = fmt.Sprintf("%06X", p.ICAOAddress)
		}

		description := fmt.Sprintf(
			"ICAO: %06X\nSource: %s\nTrack: %.0f deg\nSpeed: %.0f kt\nUpdates: %d\nObserved: %s",
			p.ICAOAddress, p.Source, p.TrackDeg, p.GroundSpeedKt, p.UpdateCount,
			p.ObservedAt.Format("2006-01-02 15:04:05 UTC"),
		)

		placemarks[i] = Placemark{
			Name:        name,
			Description: description,
			StyleURL:    "#aircraftStyle",
			Point: Point{
				Coordinates: coords,
			},
			ExtendedData: &ExtendedData{
				Data: []Data{
					{Name: "icao_address", Value: fmt.Sprintf("%06X", p.ICAOAddress)},
					{Name: "source", Value: p.Source},
					{Name: "update_count", Value: fmt.Sprintf("%d", p.UpdateCount)},
					{Name: "observed_at", Value: p.ObservedAt.Format(time.RFC3339)},
				},
			},
		}
	}

	return KML{
		Namespace: "http://www.opengis.net/kml/2.2",
		Document: Document{
			Name:        "Tracked Aircraft",
			Description: fmt.Sprintf("Aircraft positions archived by the GDL-90 broadcaster. Generated %s.", time.Now().Format("2006-01-02 15:04:05")),
			Styles: []Style{
				{
					ID: "aircraftStyle",
					IconStyle: IconStyle{
						Scale: 0.8,
						Icon: Icon{
							Href: "http://maps.google.com/mapfiles/kml/shapes/airports.png",
						},
					},
				},
			},
			Placemarks: placemarks,
		},
	}
}

// showPositionStats displays statistics about the archived positions.
func showPositionStats(ctx context.Context, pg *storage.PostgresDB) {
	pool := pg.Pool()

	var total int
	_ = pool.QueryRow(ctx, "SELECT COUNT(*) FROM aircraft_position").Scan(&total)

	var avgUpdates float64
	_ = pool.QueryRow(ctx, "SELECT COALESCE(AVG(update_count), 0) FROM aircraft_position").Scan(&avgUpdates)

	var maxUpdates int
	var maxCallsign string
	_ = pool.QueryRow(ctx, "SELECT COALESCE(callsign, ''), update_count FROM aircraft_position ORDER BY update_count DESC LIMIT 1").Scan(&maxCallsign, &maxUpdates)

	var oldestTime, newestTime *time.Time
	_ = pool.QueryRow(ctx, "SELECT MIN(first_seen), MAX(observed_at) FROM aircraft_position").Scan(&oldestTime, &newestTime)

	fmt.Println("Aircraft Position Statistics")
	fmt.Println("────────────────────────────")
	fmt.Printf("Total tracked:       %d\n", total)
	fmt.Printf("Average updates:     %.1f\n", avgUpdates)
	if maxCallsign != "" {
		fmt.Printf("Most updated:        %s (%d updates)\n", maxCallsign, maxUpdates)
	}
	if oldestTime != nil && newestTime != nil {
		fmt.Printf("Date range:          %s to %s\n", oldestTime.Format("2006-01-02"), newestTime.Format("2006-01-02"))
	}

	fmt.Println("\nSource Distribution:")
	rows, err := pool.Query(ctx, `
		SELECT source, COUNT(*) as cnt
		FROM aircraft_position
		GROUP BY source
		ORDER BY cnt DESC
	`)
	if err == nil {
		defer rows.Close()
		fmt.Printf("%-10s %10s\n", "Source", "Count")
		for rows.Next() {
			var source string
			var cnt int
			_ = rows.Scan(&source, &cnt)
			fmt.Printf("%-10s %10d\n", source, cnt)
		}
	}
}
