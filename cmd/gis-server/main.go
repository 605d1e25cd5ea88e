package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"gis-tools/pkg/api"
	"gis-tools/pkg/flight"
	"gis-tools/pkg/pipeline"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Pipeline setup
	pipe := pipeline.New(pipeline.Options{
		Workers:      envInt("GIS_WORKERS", 4),
		FetchTimeout: time.Duration(envInt("GIS_FETCH_TIMEOUT_SEC", 60)) * time.Second,
	})

	// Flight server publishes every loaded layer as Arrow streams
	layers := flight.NewLayerFlightServer()

	// Start REST API server in goroutine
	restPort := envInt("GIS_API_PORT", 8080)
	apiServer := api.NewAPIServer(pipe, layers.Publish, restPort)
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("REST API server error: %v", err)
		}
	}()

	// Start Flight server
	flightPort := envInt("GIS_FLIGHT_PORT", 50051)
	if err := flight.StartFlightServer(layers, flightPort); err != nil {
		log.Fatal("Flight server failed:", err)
	}
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}
