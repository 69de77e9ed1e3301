package main

import (
	"fmt"
	"log"

	"github.com/centrematch/internal/config"
	"github.com/centrematch/internal/web"
)

func main() {
	config.LoadEnv()

	fmt.Println("=== Centre Match Web API ===")

	port := config.GetEnvInt("WEB_PORT", 8080)
	host := config.GetEnv("WEB_HOST", "0.0.0.0")

	webConfig := &web.Config{
		Server: web.ServerConfig{
			Port: port,
			Host: host,
		},
		Database: web.DatabaseConfig{
			URL: fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
				config.GetEnv("PGUSER", "leasing"),
				config.GetEnv("PGPASSWORD", "leasing"),
				config.GetEnv("PGHOST", "localhost"),
				config.GetEnv("PGPORT", "5432"),
				config.GetEnv("PGDATABASE", "leasing")),
			MaxConnections: config.GetEnvInt("PGMAXCONNS", 10),
		},
		Features: web.FeatureConfig{
			RefreshEnabled: config.GetEnvBool("ENABLE_REFRESH", true),
		},
	}

	server, err := web.NewServer(webConfig)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	fmt.Printf("Server: http://%s:%d\n", host, port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
