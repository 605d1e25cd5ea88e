package recordset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ToArrow converts the set's attribute columns into a single Arrow record
// batch. Geometry is not carried over; callers that need it re-attach points
// from the coordinate columns.
func (s *RecordSet) ToArrow() (arrow.RecordBatch, error) {
	if len(s.schema) == 0 {
		return nil, fmt.Errorf("record set %q has no columns", s.name)
	}

	pool := memory.NewGoAllocator()

	fields := make([]arrow.Field, len(s.schema))
	for i, f := range s.schema {
		var dt arrow.DataType
		switch f.Kind {
		case KindNumber:
			dt = arrow.PrimitiveTypes.Float64
		case KindBool:
			dt = arrow.FixedWidthTypes.Boolean
		default:
			dt = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: f.Name, Type: dt, Nullable: true}
	}

	schema := arrow.NewSchema(fields, nil)
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	for _, rec := range s.records {
		for i, f := range s.schema {
			val, ok := rec.Attrs[f.Name]
			if !ok || val == nil {
				builder.Field(i).AppendNull()
				continue
			}

			switch b := builder.Field(i).(type) {
			case *array.Float64Builder:
				if fv, ok := val.(float64); ok {
					b.Append(fv)
				} else {
					b.AppendNull()
				}
			case *array.BooleanBuilder:
				if bv, ok := val.(bool); ok {
					b.Append(bv)
				} else {
					b.AppendNull()
				}
			case *array.StringBuilder:
				b.Append(fmt.Sprint(val))
			default:
				builder.Field(i).AppendNull()
			}
		}
	}

	return builder.NewRecordBatch(), nil
}

// FromArrow builds a record set from Arrow record batches. Columns map to
// attribute fields; no geometry is attached.
func FromArrow(name string, batches []arrow.RecordBatch) (*RecordSet, error) {
	if len(batches) == 0 {
		return New(name, Schema{}, nil), nil
	}

	schema := SchemaFromArrow(batches[0].Schema())

	var records []Record
	for _, batch := range batches {
		rows, err := BatchRecords(batch)
		if err != nil {
			return nil, err
		}
		records = append(records, rows...)
	}

	return New(name, schema, records), nil
}

// SchemaFromArrow maps an Arrow schema onto the declared column model.
func SchemaFromArrow(as *arrow.Schema) Schema {
	schema := make(Schema, 0, as.NumFields())
	for _, f := range as.Fields() {
		schema = append(schema, Field{Name: f.Name, Kind: kindOf(f.Type)})
	}
	return schema
}

// BatchRecords converts one Arrow record batch into rows. The batch's
// buffers are only read during the call, so a caller streaming from a
// reader that recycles buffers must convert each batch before advancing
// the reader.
func BatchRecords(batch arrow.RecordBatch) ([]Record, error) {
	as := batch.Schema()
	records := make([]Record, 0, batch.NumRows())
	for rowIdx := 0; rowIdx < int(batch.NumRows()); rowIdx++ {
		attrs := make(map[string]any, as.NumFields())
		for colIdx := 0; colIdx < int(batch.NumCols()); colIdx++ {
			val, err := columnValue(batch.Column(colIdx), rowIdx)
			if err != nil {
				return nil, fmt.Errorf("column %s row %d: %w",
					as.Field(colIdx).Name, rowIdx, err)
			}
			attrs[as.Field(colIdx).Name] = val
		}
		records = append(records, Record{Attrs: attrs})
	}
	return records, nil
}

func kindOf(dt arrow.DataType) Kind {
	switch dt.ID() {
	case arrow.FLOAT64, arrow.FLOAT32, arrow.INT64, arrow.INT32, arrow.INT16, arrow.INT8,
		arrow.UINT64, arrow.UINT32, arrow.UINT16, arrow.UINT8:
		return KindNumber
	case arrow.BOOL:
		return KindBool
	default:
		return KindString
	}
}

// columnValue extracts a scalar from an Arrow column at a given index.
// Numeric types widen to float64 so that attribute predicates stay uniform.
func columnValue(col arrow.Array, idx int) (any, error) {
	if col.IsNull(idx) {
		return nil, nil
	}

	switch c := col.(type) {
	case *array.Float64:
		return c.Value(idx), nil
	case *array.Float32:
		return float64(c.Value(idx)), nil
	case *array.Int64:
		return float64(c.Value(idx)), nil
	case *array.Int32:
		return float64(c.Value(idx)), nil
	case *array.Int16:
		return float64(c.Value(idx)), nil
	case *array.Int8:
		return float64(c.Value(idx)), nil
	case *array.Uint64:
		return float64(c.Value(idx)), nil
	case *array.Uint32:
		return float64(c.Value(idx)), nil
	case *array.String:
		return c.Value(idx), nil
	case *array.LargeString:
		return c.Value(idx), nil
	case *array.Boolean:
		return c.Value(idx), nil
	case *array.Binary:
		return string(c.Value(idx)), nil
	case *array.LargeBinary:
		return string(c.Value(idx)), nil
	default:
		return nil, fmt.Errorf("unsupported column type: %T", col)
	}
}

// SinkParquet materializes the attribute columns into a snappy-compressed
// parquet file under a temporary directory and returns its path. The file is
// removed by Release.
func (s *RecordSet) SinkParquet() (string, error) {
	rec, err := s.ToArrow()
	if err != nil {
		return "", err
	}
	defer rec.Release()

	tempDir, err := os.MkdirTemp("", "gis_layer_*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %v", err)
	}
	s.tempDir = tempDir

	filePath := filepath.Join(tempDir, fmt.Sprintf("%s.parquet", s.name))

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer f.Close()

	writer, err := pqarrow.NewFileWriter(
		rec.Schema(),
		f,
		parquet.NewWriterProperties(
			parquet.WithCompression(compress.Codecs.Snappy)),
		pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create parquet writer: %v", err)
	}
	defer writer.Close()

	if err := writer.WriteBuffered(rec); err != nil {
		return "", fmt.Errorf("failed to write record batch: %v", err)
	}

	return filePath, nil
}
