package flight

import (
	"fmt"
	"log"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc"
)

func NewFlightServer(layers *LayerFlightServer) flight.Server {
	server := flight.NewServerWithMiddleware(nil)
	server.RegisterFlightService(layers)
	return server
}

// StartFlightServer serves published layers on the given port, blocking
// until the server stops.
func StartFlightServer(layers *LayerFlightServer, port int) error {
	addr := fmt.Sprintf(":%d", port)
	server := NewFlightServer(layers)
	log.Printf("Starting layer Flight server on %s...\n", addr)
	if err := server.Init(addr); err != nil {
		return err
	}
	return server.Serve()
}

// StartFlightServerWithGRPC allows passing custom gRPC options
func StartFlightServerWithGRPC(layers *LayerFlightServer, port int, opts ...grpc.ServerOption) error {
	addr := fmt.Sprintf(":%d", port)
	server := flight.NewServerWithMiddleware(nil, opts...)
	server.RegisterFlightService(layers)

	log.Printf("Starting layer Flight server on %s...\n", addr)
	if err := server.Init(addr); err != nil {
		return err
	}
	return server.Serve()
}
