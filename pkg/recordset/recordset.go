package recordset

import (
	"errors"
	"os"

	"gis-tools/pkg/geom"

	"github.com/paulmach/orb"
)

// ErrEmptySet is returned when an operation needs at least one record with a
// valid geometry and none exists. Callers must treat it as a normal outcome,
// not an exceptional one.
var ErrEmptySet = errors.New("recordset: no records with geometry")

// Kind classifies an attribute column. It is declared once when the set is
// first loaded; downstream predicates dispatch on it rather than sampling
// values.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
)

// Field describes one attribute column.
type Field struct {
	Name string
	Kind Kind
}

// Schema is the ordered column set shared by every record in a set.
type Schema []Field

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Columns returns the column names in declared order.
func (s Schema) Columns() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}

// Record is one row: attribute values keyed by column name, plus an optional
// geometry. Attribute values are float64, string, bool, or nil.
type Record struct {
	Attrs    map[string]any
	Geometry orb.Geometry
}

// Point returns the record's geometry as a point, if it is one.
func (r Record) Point() (orb.Point, bool) {
	p, ok := r.Geometry.(orb.Point)
	return p, ok
}

// RecordSet is an ordered collection of records sharing a schema. Downstream
// stages receive it by reference and must not mutate it in place; filtering
// produces a new derived set over the same schema.
type RecordSet struct {
	name    string
	crs     string
	schema  Schema
	records []Record
	dropped int
	tempDir string
}

// New creates a record set from rows already conforming to the schema.
func New(name string, schema Schema, records []Record) *RecordSet {
	return &RecordSet{
		name:    name,
		crs:     geom.WGS84,
		schema:  schema,
		records: records,
	}
}

// Derive creates a new set over the same schema, name, and CRS. Used by
// filter stages so the original set is retained untouched.
func (s *RecordSet) Derive(records []Record) *RecordSet {
	return &RecordSet{
		name:    s.name,
		crs:     s.crs,
		schema:  s.schema,
		records: records,
	}
}

// Get layer name
func (s *RecordSet) Name() string {
	return s.name
}

// Get CRS
func (s *RecordSet) CRS() string {
	return s.crs
}

// Schema returns the declared column set.
func (s *RecordSet) Schema() Schema {
	return s.schema
}

// Records returns the backing rows. Callers must treat them as read-only.
func (s *RecordSet) Records() []Record {
	return s.records
}

func (s *RecordSet) Len() int {
	return len(s.records)
}

// DroppedRows reports how many input rows were silently dropped while
// building point geometries for this set.
func (s *RecordSet) DroppedRows() int {
	return s.dropped
}

// SetDroppedRows records the drop count surfaced alongside the set.
func (s *RecordSet) SetDroppedRows(n int) {
	s.dropped = n
}

// Bounds computes the minimal bounding box enclosing every geometry in the
// set. Non-point geometries contribute their full coordinate envelope.
// Returns ErrEmptySet when no record carries a geometry.
func (s *RecordSet) Bounds() (geom.BoundingBox, error) {
	box := geom.EmptyBox()
	for _, rec := range s.records {
		box = box.ExtendGeometry(rec.Geometry)
	}
	if box.IsEmpty() {
		return box, ErrEmptySet
	}
	return box, nil
}

// HasGeometry reports whether any record in the set carries a geometry.
// Tabular sets answer false until point geometries have been built.
func (s *RecordSet) HasGeometry() bool {
	for _, rec := range s.records {
		if rec.Geometry != nil {
			return true
		}
	}
	return false
}

// Release cleans up any temporary files created by SinkParquet.
func (s *RecordSet) Release() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
		s.tempDir = ""
	}
}
