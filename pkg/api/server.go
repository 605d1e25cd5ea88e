package api

import (
	"fmt"
	"log"
	"net/http"

	"gis-tools/pkg/pipeline"
	"gis-tools/pkg/recordset"
)

// APIServer represents the REST API server
type APIServer struct {
	pipe    *pipeline.Pipeline
	publish func(string, *recordset.RecordSet)
	port    int
	server  *http.Server
}

// NewAPIServer creates a new API server instance
func NewAPIServer(pipe *pipeline.Pipeline, publish func(string, *recordset.RecordSet), port int) *APIServer {
	return &APIServer{
		pipe:    pipe,
		publish: publish,
		port:    port,
	}
}

// Start starts the REST API server
func (s *APIServer) Start() error {
	handler := NewAPIHandler(s.pipe, s.publish)

	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("/api/v1/load", handler.LoadHandler)
	mux.HandleFunc("/api/v1/export", handler.ExportHandler)
	mux.HandleFunc("/api/v1/query", handler.QueryHandler)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	log.Printf("Starting REST API server on port %d", s.port)
	return s.server.ListenAndServe()
}

// Stop stops the REST API server
func (s *APIServer) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
