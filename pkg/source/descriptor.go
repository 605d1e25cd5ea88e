package source

import (
	"fmt"
	"path"
	"strings"
)

// Origin distinguishes a local upload from a remote URL.
type Origin string

const (
	Upload Origin = "upload"
	URL    Origin = "url"
)

// Format identifies the byte encoding of a source.
type Format string

const (
	CSV        Format = "csv"
	XLSX       Format = "xlsx"
	GeoJSON    Format = "geojson"
	ArcGISJSON Format = "arcgis-json"
)

// arcGISMarker identifies ArcGIS feature service URLs regardless of their
// extension.
const arcGISMarker = "arcgis/rest/services"

// Descriptor identifies one user-selected input. It is consumed exactly once
// by Reader.Read and discarded after the resulting record set is produced.
type Descriptor struct {
	Origin   Origin
	Format   Format
	Name     string
	Location string
	Data     []byte
}

// NewUpload builds a descriptor for raw uploaded bytes. The format is
// detected from the filename extension.
func NewUpload(filename string, data []byte) (Descriptor, error) {
	format, err := detectExtension(filename)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		Origin: Upload,
		Format: format,
		Name:   layerName(filename),
		Data:   data,
	}, nil
}

// NewURL builds a descriptor for a remote location. ArcGIS feature service
// URLs are identified by substring; anything else is detected by extension.
func NewURL(rawURL string) (Descriptor, error) {
	d := Descriptor{
		Origin:   URL,
		Name:     layerName(rawURL),
		Location: rawURL,
	}

	if strings.Contains(rawURL, arcGISMarker) {
		d.Format = ArcGISJSON
		return d, nil
	}

	format, err := detectExtension(rawURL)
	if err != nil {
		return Descriptor{}, err
	}
	d.Format = format
	return d, nil
}

func detectExtension(name string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	switch ext {
	case "csv":
		return CSV, nil
	case "xlsx":
		return XLSX, nil
	case "geojson":
		return GeoJSON, nil
	default:
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
}

// layerName derives a display name from the last path segment, extension
// stripped.
func layerName(location string) string {
	base := location
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.Index(base, "."); idx >= 0 {
		base = base[:idx]
	}
	if base == "" {
		base = "layer"
	}
	return base
}
