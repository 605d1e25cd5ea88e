package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"gis-tools/pkg/recordset"
)

// DefaultFetchTimeout bounds remote reads so a slow endpoint fails with a
// FetchError instead of hanging the pipeline.
const DefaultFetchTimeout = 60 * time.Second

// Reader turns a source descriptor into a record set. CSV and XLSX sources
// produce rows without geometry; GeoJSON and ArcGIS sources produce rows
// with geometry already attached.
type Reader struct {
	client *http.Client
}

// NewReader creates a Reader with the given remote fetch timeout. A zero
// timeout falls back to DefaultFetchTimeout.
func NewReader(timeout time.Duration) *Reader {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Reader{
		client: &http.Client{Timeout: timeout},
	}
}

// Read consumes the descriptor and produces a record set. It holds no open
// handles past the call and never touches shared state.
func (r *Reader) Read(ctx context.Context, d Descriptor) (*recordset.RecordSet, error) {
	data := d.Data
	if d.Origin == URL {
		fetched, err := r.fetch(ctx, d.Location)
		if err != nil {
			return nil, err
		}
		data = fetched
	}

	switch d.Format {
	case CSV:
		return decodeCSV(d.Name, data)
	case XLSX:
		return decodeXLSX(d.Name, data)
	case GeoJSON:
		return decodeGeoJSON(d.Name, data)
	case ArcGISJSON:
		return decodeArcGIS(d.Name, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, d.Format)
	}
}

func (r *Reader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}

	return body, nil
}
