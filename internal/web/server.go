package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/centrematch/internal/locations"
	"github.com/centrematch/internal/resolve"
	"github.com/centrematch/internal/web/handlers"
	"github.com/centrematch/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     *Config
	db         *sql.DB
	index      *locations.Index
	resolver   *resolve.Resolver
	httpServer *http.Server
	router     *mux.Router
}

// NewServer creates a new web server instance
func NewServer(config *Config) (*Server, error) {
	db, err := sql.Open("postgres", config.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(config.Database.MaxConnections)
	db.SetMaxIdleConns(config.Database.MaxConnections / 2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	index := locations.NewIndex(locations.NewPostgresStore(db))

	server := &Server{
		config:   config,
		db:       db,
		index:    index,
		resolver: resolve.NewResolverWithOptions(index, resolve.OptionsFromEnv()),
	}

	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      server.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	searchHandler := &handlers.SearchHandler{
		DB:       s.db,
		Index:    s.index,
		Resolver: s.resolver,
	}

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", searchHandler.Health).Methods("GET")
	api.HandleFunc("/search", searchHandler.Search).Methods("GET")
	api.HandleFunc("/nearby", searchHandler.Nearby).Methods("GET")
	api.HandleFunc("/centres/nearby", searchHandler.NearbyCentre).Methods("GET")
	api.HandleFunc("/categories/match", searchHandler.MatchCategories).Methods("GET")

	if s.config.Features.RefreshEnabled {
		api.HandleFunc("/refresh", searchHandler.Refresh).Methods("POST")
	}

	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestLogging())
}

// Start starts the web server and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		fmt.Printf("Starting server on http://%s\n", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Server error: %v\n", err)
		}
	}()

	<-stop
	fmt.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("Server shutdown error: %v\n", err)
	}

	if err := s.db.Close(); err != nil {
		fmt.Printf("Database close error: %v\n", err)
	}

	fmt.Println("Server stopped")
	return nil
}
