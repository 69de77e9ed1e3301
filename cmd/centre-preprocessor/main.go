package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"strings"

	_ "github.com/lib/pq"
	postal "github.com/openvenues/gopostal/parser"

	"github.com/centrematch/internal/config"
	"github.com/centrematch/internal/db"
)

const version = "1.0.0"

// ParsedComponents holds the libpostal output we care about
type ParsedComponents struct {
	Suburb   string
	City     string
	State    string
	Postcode string
}

func main() {
	var (
		command = flag.String("cmd", "", "Command: preprocess-centres, test-parse, stats")
		address = flag.String("address", "", "Single address to test parsing")
		limit   = flag.Int("limit", 0, "Number of records to process (0 = all)")
	)
	flag.Parse()

	if *command == "" {
		printUsage()
		return
	}

	fmt.Printf("Centre Address Pre-processor v%s\n", version)
	fmt.Println("Parses raw centre addresses into suburb/city/state/postcode columns")
	fmt.Println()

	config.LoadEnv()

	dbConn, err := db.NewConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	switch *command {
	case "preprocess-centres":
		err = preprocessCentres(dbConn.DB, *limit)
	case "test-parse":
		if *address == "" {
			log.Fatal("test-parse requires -address")
		}
		testParse(*address)
	case "stats":
		err = showStats(dbConn.DB)
	default:
		printUsage()
	}

	if err != nil {
		log.Fatalf("Command failed: %v", err)
	}
}

// preprocessCentres fills missing location columns from raw address text
func preprocessCentres(database *sql.DB, limit int) error {
	query := `
		SELECT centre_id, raw_address
		FROM centre
		WHERE raw_address IS NOT NULL
		  AND (suburb IS NULL OR state IS NULL OR postcode IS NULL)
		  AND deleted_at IS NULL
		ORDER BY centre_id
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := database.Query(query)
	if err != nil {
		return fmt.Errorf("failed to query centres: %w", err)
	}
	defer rows.Close()

	type row struct {
		id      int
		address string
	}
	var pending []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.address); err != nil {
			return fmt.Errorf("failed to scan centre: %w", err)
		}
		pending = append(pending, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	fmt.Printf("Processing %d centres...\n", len(pending))

	updated := 0
	for _, r := range pending {
		parsed := parseAddress(r.address)
		if parsed.Suburb == "" && parsed.City == "" && parsed.State == "" && parsed.Postcode == "" {
			continue
		}

		_, err := database.Exec(`
			UPDATE centre
			SET suburb   = COALESCE(suburb, NULLIF($1, '')),
			    city     = COALESCE(city, NULLIF($2, '')),
			    state    = COALESCE(state, NULLIF($3, '')),
			    postcode = COALESCE(postcode, NULLIF($4, ''))
			WHERE centre_id = $5
		`, parsed.Suburb, parsed.City, parsed.State, parsed.Postcode, r.id)
		if err != nil {
			return fmt.Errorf("failed to update centre %d: %w", r.id, err)
		}
		updated++
	}

	fmt.Printf("Updated %d of %d centres\n", updated, len(pending))
	return nil
}

// parseAddress extracts the location components libpostal recognizes
func parseAddress(address string) ParsedComponents {
	components := postal.ParseAddress(address)

	var parsed ParsedComponents
	for _, c := range components {
		value := strings.TrimSpace(c.Value)
		switch c.Label {
		case "suburb", "city_district":
			parsed.Suburb = value
		case "city":
			parsed.City = value
		case "state":
			parsed.State = strings.ToUpper(value)
		case "postcode":
			parsed.Postcode = value
		}
	}
	return parsed
}

func testParse(address string) {
	fmt.Printf("Input: %s\n\n", address)

	components := postal.ParseAddress(address)
	for _, c := range components {
		fmt.Printf("  %-16s %s\n", c.Label+":", c.Value)
	}

	parsed := parseAddress(address)
	fmt.Printf("\nExtracted: suburb=%q city=%q state=%q postcode=%q\n",
		parsed.Suburb, parsed.City, parsed.State, parsed.Postcode)
}

func showStats(database *sql.DB) error {
	var total, missing int
	if err := database.QueryRow(
		"SELECT COUNT(*) FROM centre WHERE deleted_at IS NULL").Scan(&total); err != nil {
		return err
	}
	if err := database.QueryRow(`
		SELECT COUNT(*) FROM centre
		WHERE deleted_at IS NULL
		  AND (suburb IS NULL OR state IS NULL OR postcode IS NULL)
	`).Scan(&missing); err != nil {
		return err
	}

	fmt.Printf("Centres:                  %d\n", total)
	fmt.Printf("Missing location columns: %d\n", missing)
	return nil
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  centre-preprocessor -cmd=preprocess-centres [-limit=100]")
	fmt.Println("  centre-preprocessor -cmd=test-parse -address=\"Eastgate, Bondi Junction NSW 2022\"")
	fmt.Println("  centre-preprocessor -cmd=stats")
}
