// Package query runs SQL over a loaded record set by registering its Arrow
// representation as a DuckDB view. The SQL surface operates on attribute
// columns only; point geometries can be re-attached downstream from the
// coordinate columns.
package query

import (
	"context"
	"fmt"

	"gis-tools/pkg/recordset"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/duckdb/duckdb-go/v2"
)

// ViewName is the table name the record set is visible under in the query.
const ViewName = "dataset"

// Run executes sqlText against the record set and returns the result as a
// new record set. The input set is never mutated.
func Run(ctx context.Context, rs *recordset.RecordSet, sqlText string) (*recordset.RecordSet, error) {
	if rs.Len() == 0 {
		return nil, fmt.Errorf("record set is empty")
	}

	rec, err := rs.ToArrow()
	if err != nil {
		return nil, fmt.Errorf("failed to convert record set to arrow: %v", err)
	}
	defer rec.Release()

	c, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	conn, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}

	ar, err := duckdb.NewArrowFromConn(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow from duckdb: %v", err)
	}

	reader, err := array.NewRecordReader(rec.Schema(), []arrow.RecordBatch{rec})
	if err != nil {
		return nil, fmt.Errorf("failed to create record reader: %v", err)
	}
	defer reader.Release()

	release, err := ar.RegisterView(reader, ViewName)
	if err != nil {
		return nil, fmt.Errorf("failed to register view: %v", err)
	}
	defer release()

	outReader, err := ar.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %v", err)
	}
	defer outReader.Release()

	// The reader reuses its result buffers between Next calls, so each
	// batch is converted to rows before the reader advances.
	var schema recordset.Schema
	var records []recordset.Record
	for outReader.Next() {
		out := outReader.RecordBatch()
		if schema == nil {
			schema = recordset.SchemaFromArrow(out.Schema())
		}
		rows, err := recordset.BatchRecords(out)
		if err != nil {
			return nil, fmt.Errorf("failed to read result batch: %v", err)
		}
		records = append(records, rows...)
	}
	if schema == nil {
		schema = recordset.Schema{}
	}

	return recordset.New(rs.Name(), schema, records), nil
}
