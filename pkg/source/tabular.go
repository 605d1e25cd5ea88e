package source

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"gis-tools/pkg/recordset"

	"github.com/xuri/excelize/v2"
)

func decodeCSV(name string, data []byte) (*recordset.RecordSet, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Format: CSV, Err: err}
	}

	rs, err := rowsToRecordSet(name, rows)
	if err != nil {
		return nil, &ParseError{Format: CSV, Err: err}
	}
	return rs, nil
}

func decodeXLSX(name string, data []byte) (*recordset.RecordSet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Format: XLSX, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Format: XLSX, Err: fmt.Errorf("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Format: XLSX, Err: err}
	}

	rs, err := rowsToRecordSet(name, rows)
	if err != nil {
		return nil, &ParseError{Format: XLSX, Err: err}
	}
	return rs, nil
}

// rowsToRecordSet turns header+body string rows into a record set. Column
// kinds come from the first non-empty cell per column: parseable as float64
// means numeric, anything else string. The schema is declared once here and
// drives every downstream predicate.
func rowsToRecordSet(name string, rows [][]string) (*recordset.RecordSet, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}

	header := rows[0]
	body := rows[1:]

	schema := make(recordset.Schema, len(header))
	for i, col := range header {
		schema[i] = recordset.Field{Name: strings.TrimSpace(col), Kind: inferKind(body, i)}
	}

	records := make([]recordset.Record, 0, len(body))
	for _, row := range body {
		attrs := make(map[string]any, len(schema))
		for i, f := range schema {
			if i >= len(row) {
				attrs[f.Name] = nil
				continue
			}
			attrs[f.Name] = parseCell(row[i], f.Kind)
		}
		records = append(records, recordset.Record{Attrs: attrs})
	}

	return recordset.New(name, schema, records), nil
}

func inferKind(body [][]string, col int) recordset.Kind {
	for _, row := range body {
		if col >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err == nil {
			return recordset.KindNumber
		}
		return recordset.KindString
	}
	return recordset.KindString
}

func parseCell(cell string, kind recordset.Kind) any {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	if kind == recordset.KindNumber {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil
		}
		return v
	}
	return cell
}
