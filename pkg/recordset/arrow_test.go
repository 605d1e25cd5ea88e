package recordset

import (
	"os"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

func TestToArrow(t *testing.T) {
	rs := sampleSet()

	rec, err := rs.ToArrow()
	if err != nil {
		t.Fatalf("ToArrow failed: %v", err)
	}
	defer rec.Release()

	if rec.NumRows() != 3 {
		t.Errorf("expected 3 rows, got %d", rec.NumRows())
	}
	if rec.NumCols() != 2 {
		t.Errorf("expected 2 columns, got %d", rec.NumCols())
	}

	values := rec.Column(1).(*array.Float64)
	if values.Value(0) != 1.5 {
		t.Errorf("expected 1.5, got %v", values.Value(0))
	}
	if !values.IsNull(1) {
		t.Error("expected null at row 1")
	}
}

func TestFromArrow(t *testing.T) {
	pool := memory.NewGoAllocator()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "LAT", Type: arrow.PrimitiveTypes.Float64},
		{Name: "NAME", Type: arrow.BinaryTypes.String},
	}, nil)

	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	builder.Field(0).(*array.Float64Builder).Append(5.5072984)
	builder.Field(1).(*array.StringBuilder).Append("alpha")

	rec := builder.NewRecordBatch()
	defer rec.Release()

	rs, err := FromArrow("from_arrow", []arrow.RecordBatch{rec})
	if err != nil {
		t.Fatalf("FromArrow failed: %v", err)
	}

	if rs.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", rs.Len())
	}
	if rs.Schema()[0].Kind != KindNumber {
		t.Error("expected LAT column to be numeric")
	}
	if rs.Records()[0].Attrs["LAT"] != 5.5072984 {
		t.Errorf("unexpected LAT value: %v", rs.Records()[0].Attrs["LAT"])
	}
	if rs.Records()[0].Attrs["NAME"] != "alpha" {
		t.Errorf("unexpected NAME value: %v", rs.Records()[0].Attrs["NAME"])
	}
}

func TestSinkParquet(t *testing.T) {
	rs := sampleSet()
	defer rs.Release()

	path, err := rs.SinkParquet()
	if err != nil {
		t.Fatalf("SinkParquet failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("parquet file not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("parquet file is empty")
	}

	rs.Release()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Release did not remove the temporary file")
	}
}
