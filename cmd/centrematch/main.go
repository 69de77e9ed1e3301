package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/centrematch/internal/category"
	"github.com/centrematch/internal/config"
	"github.com/centrematch/internal/db"
	"github.com/centrematch/internal/locations"
	"github.com/centrematch/internal/resolve"
)

var (
	// Global database connection
	dbConn *db.Connection
)

func main() {
	config.LoadEnv()

	var err error
	dbConn, err = db.NewConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	rootCmd := &cobra.Command{
		Use:   "centrematch",
		Short: "Centre & category query resolution engine",
		Long:  `Resolves free-text leasing search phrases into shopping centres and product categories`,
	}

	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createResolveCmd())
	rootCmd.AddCommand(createNearbyCmd())
	rootCmd.AddCommand(createCategoriesCmd())
	rootCmd.AddCommand(createCodeCmd())
	rootCmd.AddCommand(createBulkCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// createPingCmd creates a command to test database connectivity
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Database connection successful!")

			var count int
			err := dbConn.DB.QueryRow("SELECT COUNT(*) FROM centre WHERE deleted_at IS NULL").Scan(&count)
			if err != nil {
				log.Printf("Error counting centre records: %v", err)
			} else {
				fmt.Printf("Centres loaded: %d\n", count)
			}

			err = dbConn.DB.QueryRow("SELECT COUNT(*) FROM product_category WHERE deleted_at IS NULL").Scan(&count)
			if err != nil {
				log.Printf("Error counting category records: %v", err)
			} else {
				fmt.Printf("Categories loaded: %d\n", count)
			}
		},
	}
}

// createResolveCmd creates the query resolution subcommand
func createResolveCmd() *cobra.Command {
	var debugFlag bool

	cmd := &cobra.Command{
		Use:   "resolve [query]",
		Short: "Resolve a free-text search phrase",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			query := strings.Join(args, " ")
			ctx := context.Background()

			resolver := newResolver(debugFlag)
			categories, err := fetchCategoryNames(ctx)
			if err != nil {
				log.Fatalf("Failed to load categories: %v", err)
			}

			result, err := resolver.Resolve(ctx, query, categories)
			if err != nil {
				log.Fatalf("Failed to resolve query: %v", err)
			}

			printResult(result)
		},
	}

	cmd.Flags().BoolVar(&debugFlag, "debug", false, "Enable debug tracing")
	return cmd
}

// createNearbyCmd creates the radius search subcommand
func createNearbyCmd() *cobra.Command {
	var radius float64

	cmd := &cobra.Command{
		Use:   "nearby [lat] [lng]",
		Short: "Find centres near a coordinate pair",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				log.Fatalf("Invalid latitude: %s", args[0])
			}
			lng, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				log.Fatalf("Invalid longitude: %s", args[1])
			}

			index := locations.NewIndex(locations.NewPostgresStore(dbConn.DB))
			results, err := index.FindNearCoordinates(context.Background(), lat, lng, radius)
			if err != nil {
				log.Fatalf("Failed to search: %v", err)
			}

			if len(results) == 0 {
				fmt.Println("No centres within radius")
				return
			}
			for _, r := range results {
				fmt.Printf("%6.1f km  [%s] %s\n", r.DistanceKm,
					locations.AbbreviatedCentreCode(r.Entry.CentreName), r.Entry.CentreName)
			}
		},
	}

	cmd.Flags().Float64Var(&radius, "radius", 10, "Search radius in km")
	return cmd
}

// createCategoriesCmd creates the category matching subcommand
func createCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories [keyword]",
		Short: "Show ranked category matches for a keyword",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			names, err := fetchCategoryNames(context.Background())
			if err != nil {
				log.Fatalf("Failed to load categories: %v", err)
			}

			matches := category.BestMatches(args[0], names,
				category.DefaultBestMatchLimit, category.DefaultBestMatchThreshold)
			if len(matches) == 0 {
				fmt.Println("No matching categories")
				return
			}
			for i, m := range matches {
				fmt.Printf("%d. %s\n", i+1, m)
			}
		},
	}
}

// createCodeCmd creates the centre code subcommand
func createCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "code [centre name]",
		Short: "Generate the 4-character abbreviated code for a centre name",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			name := strings.Join(args, " ")
			fmt.Println(locations.AbbreviatedCentreCode(name))
		},
	}
}

// createBulkCmd creates the batch resolution subcommand
func createBulkCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "bulk [file]",
		Short: "Resolve a file of queries, one per line",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			queries, err := readQueries(args[0])
			if err != nil {
				log.Fatalf("Failed to read queries: %v", err)
			}

			ctx := context.Background()
			categories, err := fetchCategoryNames(ctx)
			if err != nil {
				log.Fatalf("Failed to load categories: %v", err)
			}

			batch, err := resolve.NewBatchResolver(newResolver(false), workers)
			if err != nil {
				log.Fatalf("Failed to create batch resolver: %v", err)
			}
			defer batch.Close()

			results, stats, err := batch.ResolveAll(ctx, queries, categories)
			if err != nil {
				log.Fatalf("Batch resolution failed: %v", err)
			}

			for _, r := range results {
				switch {
				case r.Err != nil:
					fmt.Printf("ERROR      %q: %v\n", r.Query, r.Err)
				case r.Result.Collapsed:
					fmt.Printf("COLLAPSED  %q -> %s (%.2f)\n", r.Query,
						r.Result.Best.Entry.CentreName, r.Result.Best.Score)
				case len(r.Result.Candidates) > 0:
					fmt.Printf("RANKED     %q -> %d candidates\n", r.Query, len(r.Result.Candidates))
				default:
					fmt.Printf("NO MATCH   %q\n", r.Query)
				}
			}

			fmt.Printf("\nProcessed %d queries in %v: %d collapsed, %d ranked, %d no-match, %d errors\n",
				stats.TotalQueries, stats.ProcessingTime,
				stats.CollapsedCount, stats.RankedCount, stats.NoMatchCount, stats.ErrorCount)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 8, "Worker pool size")
	return cmd
}

func newResolver(debugFlag bool) *resolve.Resolver {
	index := locations.NewIndex(locations.NewPostgresStore(dbConn.DB))
	opts := resolve.OptionsFromEnv()
	if debugFlag {
		opts.Debug = true
	}
	return resolve.NewResolverWithOptions(index, opts)
}

func fetchCategoryNames(ctx context.Context) ([]string, error) {
	rows, err := dbConn.DB.QueryContext(ctx, `
		SELECT category_name
		FROM product_category
		WHERE deleted_at IS NULL
		ORDER BY category_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func printResult(result *resolve.Result) {
	if result.Category != "" {
		fmt.Printf("Category keyword: %s\n", result.Category)
	}
	if len(result.ResidualTokens) > 0 {
		fmt.Printf("Location tokens:  %s\n", strings.Join(result.ResidualTokens, " "))
	}

	switch {
	case result.Collapsed:
		e := result.Best.Entry
		fmt.Printf("\nSingle match: [%s] %s (score %.2f)\n",
			locations.AbbreviatedCentreCode(e.CentreName), e.CentreName, result.Best.Score)
	case len(result.Candidates) > 0:
		fmt.Printf("\n%d candidates:\n", len(result.Candidates))
		for i, c := range result.Candidates {
			fmt.Printf("%2d. %-40s score %.2f\n", i+1, c.Entry.CentreName, c.Score)
		}
	default:
		fmt.Println("\nNo matching centres")
	}
}

func readQueries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var queries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			queries = append(queries, line)
		}
	}
	return queries, scanner.Err()
}
