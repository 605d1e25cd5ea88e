package flight

import (
	"fmt"
	"sync"

	"gis-tools/pkg/recordset"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
)

// LayerFlightServer streams loaded layers as Arrow record batches so
// rendering and analysis clients can pull normalized record sets without
// going through JSON.
type LayerFlightServer struct {
	flight.BaseFlightServer

	mu     sync.RWMutex
	layers map[string]*recordset.RecordSet
}

func NewLayerFlightServer() *LayerFlightServer {
	return &LayerFlightServer{
		layers: make(map[string]*recordset.RecordSet),
	}
}

// Publish makes a loaded record set available under its layer name.
// Re-publishing a name replaces the previous set.
func (s *LayerFlightServer) Publish(name string, rs *recordset.RecordSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers[name] = rs
}

// Layer returns the published record set for a name, if any.
func (s *LayerFlightServer) Layer(name string) (*recordset.RecordSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.layers[name]
	return rs, ok
}

// DoGet streams the layer named by the ticket.
func (s *LayerFlightServer) DoGet(ticket *flight.Ticket, stream flight.FlightService_DoGetServer) error {
	name := string(ticket.GetTicket())

	rs, ok := s.Layer(name)
	if !ok {
		return fmt.Errorf("unknown layer: %s", name)
	}

	rec, err := rs.ToArrow()
	if err != nil {
		return fmt.Errorf("failed to convert layer %s to arrow: %v", name, err)
	}
	defer rec.Release()

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(rec.Schema()))
	defer writer.Close()

	return writer.Write(rec)
}
