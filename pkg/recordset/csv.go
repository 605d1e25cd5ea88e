package recordset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV serializes the attribute columns to comma-separated text with a
// header row. The geometry column is excluded.
func (s *RecordSet) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(s.schema.Columns()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	row := make([]string, len(s.schema))
	for _, rec := range s.records {
		for i, f := range s.schema {
			row[i] = formatValue(rec.Attrs[f.Name])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
