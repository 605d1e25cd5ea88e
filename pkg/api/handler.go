package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"

	"gis-tools/pkg/filter"
	"gis-tools/pkg/geom"
	"gis-tools/pkg/pipeline"
	"gis-tools/pkg/query"
	"gis-tools/pkg/recordset"
	"gis-tools/pkg/source"
)

// APIHandler handles REST API requests for loading and filtering sources
type APIHandler struct {
	pipe    *pipeline.Pipeline
	publish func(name string, rs *recordset.RecordSet)
}

// NewAPIHandler creates a new APIHandler. The publish callback, when
// non-nil, receives every successfully loaded layer (used to feed the
// Flight server).
func NewAPIHandler(pipe *pipeline.Pipeline, publish func(string, *recordset.RecordSet)) *APIHandler {
	return &APIHandler{
		pipe:    pipe,
		publish: publish,
	}
}

// SourceRequest describes one input: either a remote URL or inline upload
// bytes with a filename.
type SourceRequest struct {
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// AttributeFilterRequest selects rows by a non-spatial column: membership
// for string columns, an inclusive [Min, Max] range for numeric ones.
type AttributeFilterRequest struct {
	Column string   `json:"column"`
	Values []string `json:"values,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// LoadRequest is the body of the load, export, and query endpoints.
// Format selects the export serialization: "csv" (default) or "parquet".
type LoadRequest struct {
	Sources   []SourceRequest         `json:"sources"`
	LatColumn string                  `json:"lat_column,omitempty"`
	LonColumn string                  `json:"lon_column,omitempty"`
	Viewport  *geom.BoundingBox       `json:"viewport,omitempty"`
	Filter    *AttributeFilterRequest `json:"filter,omitempty"`
	SQL       string                  `json:"sql,omitempty"`
	Format    string                  `json:"format,omitempty"`
}

// LayerResponse summarizes one loaded layer.
type LayerResponse struct {
	Name    string           `json:"name"`
	Records int              `json:"records"`
	Dropped int              `json:"dropped"`
	Bounds  geom.BoundingBox `json:"bounds"`
}

// FailureResponse reports one failed source.
type FailureResponse struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// LoadResponse aggregates the load outcome: per-layer summaries, the
// failures, combined bounds, and the filtered merged features as GeoJSON.
// Features is always present; a filter that excludes every record yields
// an empty FeatureCollection, not an absent field.
type LoadResponse struct {
	Layers   []LayerResponse   `json:"layers"`
	Failures []FailureResponse `json:"failures,omitempty"`
	Bounds   *geom.BoundingBox `json:"bounds,omitempty"`
	Features json.RawMessage   `json:"features"`
}

// emptyFeatureCollection is the features payload when nothing qualifies.
var emptyFeatureCollection = json.RawMessage(`{"type":"FeatureCollection","features":[]}`)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// LoadHandler handles POST requests that load one or more sources and
// return the merged, filtered feature collection.
func (h *APIHandler) LoadHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLoadRequest(w, r)
	if !ok {
		return
	}

	result, merged, ok := h.runPipeline(w, r, req)
	if !ok {
		return
	}

	resp := LoadResponse{}
	for _, layer := range result.Layers {
		resp.Layers = append(resp.Layers, LayerResponse{
			Name:    layer.Name,
			Records: layer.Set.Len(),
			Dropped: layer.Dropped,
			Bounds:  layer.Bounds,
		})
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, FailureResponse{
			Source: f.Source,
			Reason: f.Err.Error(),
		})
	}
	if !result.Bounds.IsEmpty() {
		b := result.Bounds
		resp.Bounds = &b
	}

	resp.Features = emptyFeatureCollection
	if merged != nil && merged.Len() > 0 {
		geojsonBytes, err := merged.ToGeoJSON()
		if err != nil {
			h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to serialize features: %v", err))
			return
		}
		resp.Features = geojsonBytes
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// ExportHandler handles POST requests that load, filter, and serialize the
// merged record set as CSV. The geometry column is excluded.
func (h *APIHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLoadRequest(w, r)
	if !ok {
		return
	}

	_, merged, ok := h.runPipeline(w, r, req)
	if !ok {
		return
	}
	if merged == nil {
		h.sendError(w, http.StatusUnprocessableEntity, "no sources loaded")
		return
	}

	if req.Format == "parquet" {
		h.exportParquet(w, merged)
		return
	}

	var buf bytes.Buffer
	if err := merged.WriteCSV(&buf); err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to serialize csv: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// exportParquet sinks the merged set to a temporary parquet file and
// streams it back. The temporary directory is removed once the response
// is written.
func (h *APIHandler) exportParquet(w http.ResponseWriter, merged *recordset.RecordSet) {
	path, err := merged.SinkParquet()
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to sink parquet: %v", err))
		return
	}
	defer merged.Release()

	data, err := os.ReadFile(path)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read parquet file: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="export.parquet"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// QueryHandler handles POST requests that run SQL over the merged record
// set and return the result rows.
func (h *APIHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeLoadRequest(w, r)
	if !ok {
		return
	}
	if req.SQL == "" {
		h.sendError(w, http.StatusBadRequest, "missing sql")
		return
	}

	_, merged, ok := h.runPipeline(w, r, req)
	if !ok {
		return
	}
	if merged == nil || merged.Len() == 0 {
		h.sendError(w, http.StatusUnprocessableEntity, "no sources loaded")
		return
	}

	out, err := query.Run(r.Context(), merged, req.SQL)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("query failed: %v", err))
		return
	}

	rows := make([]map[string]any, 0, out.Len())
	for _, rec := range out.Records() {
		rows = append(rows, rec.Attrs)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"columns": out.Schema().Columns(),
		"rows":    rows,
	})
}

func (h *APIHandler) decodeLoadRequest(w http.ResponseWriter, r *http.Request) (*LoadRequest, bool) {
	if r.Method != http.MethodPost {
		h.sendError(w, http.StatusMethodNotAllowed, "only POST method is allowed")
		return nil, false
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return nil, false
	}
	defer r.Body.Close()

	var req LoadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return nil, false
	}
	if len(req.Sources) == 0 {
		h.sendError(w, http.StatusBadRequest, "no sources given")
		return nil, false
	}

	return &req, true
}

// runPipeline loads the requested sources and derives the merged, filtered
// record set. A nil merged set means nothing loaded.
func (h *APIHandler) runPipeline(w http.ResponseWriter, r *http.Request, req *LoadRequest) (*pipeline.Result, *recordset.RecordSet, bool) {
	descs := make([]source.Descriptor, 0, len(req.Sources))
	for i, s := range req.Sources {
		var d source.Descriptor
		var err error
		switch {
		case s.URL != "":
			d, err = source.NewURL(s.URL)
		case s.Filename != "":
			d, err = source.NewUpload(s.Filename, s.Data)
		default:
			err = fmt.Errorf("source %d: neither url nor filename given", i)
		}
		if err != nil {
			h.sendError(w, http.StatusBadRequest, err.Error())
			return nil, nil, false
		}
		descs = append(descs, d)
	}

	result, err := h.pipe.Load(r.Context(), descs, pipeline.LoadOptions{
		LatColumn: req.LatColumn,
		LonColumn: req.LonColumn,
	})
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, fmt.Sprintf("load failed: %v", err))
		return nil, nil, false
	}

	if h.publish != nil {
		for _, layer := range result.Layers {
			h.publish(layer.Name, layer.Set)
		}
	}

	if len(result.Layers) == 0 {
		return result, nil, true
	}

	sets := make([]*recordset.RecordSet, 0, len(result.Layers))
	for _, layer := range result.Layers {
		sets = append(sets, layer.Set)
	}
	merged := recordset.Merge("merged", sets...)

	if req.Filter != nil {
		merged, err = h.applyAttributeFilter(merged, req.Filter)
		if err != nil {
			h.sendError(w, http.StatusBadRequest, err.Error())
			return nil, nil, false
		}
	}

	if req.Viewport != nil {
		merged = filter.ByBounds(merged, *req.Viewport)
	}

	return result, merged, true
}

func (h *APIHandler) applyAttributeFilter(rs *recordset.RecordSet, f *AttributeFilterRequest) (*recordset.RecordSet, error) {
	if f.Min != nil || f.Max != nil {
		// An absent bound leaves that side of the range open.
		lo, hi := math.Inf(-1), math.Inf(1)
		if f.Min != nil {
			lo = *f.Min
		}
		if f.Max != nil {
			hi = *f.Max
		}
		return filter.ByRange(rs, f.Column, lo, hi)
	}
	return filter.ByMembership(rs, f.Column, f.Values)
}

// sendError sends an error response as JSON
func (h *APIHandler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
