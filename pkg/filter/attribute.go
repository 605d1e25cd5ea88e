package filter

import (
	"fmt"

	"gis-tools/pkg/recordset"
)

// ByMembership derives the subset of records whose value in the named
// string-kind column is a member of the selected set. An empty selection
// yields an empty set. An empty column name is the identity transform.
func ByMembership(rs *recordset.RecordSet, column string, selected []string) (*recordset.RecordSet, error) {
	if column == "" {
		return rs, nil
	}

	kind, err := columnKind(rs, column)
	if err != nil {
		return nil, err
	}
	if kind == recordset.KindNumber {
		return nil, fmt.Errorf("column %q is numeric, use a range filter", column)
	}

	members := make(map[string]struct{}, len(selected))
	for _, v := range selected {
		members[v] = struct{}{}
	}

	var records []recordset.Record
	for _, rec := range rs.Records() {
		v, ok := rec.Attrs[column].(string)
		if !ok {
			continue
		}
		if _, ok := members[v]; ok {
			records = append(records, rec)
		}
	}

	return rs.Derive(records), nil
}

// ByRange derives the subset of records whose value in the named numeric
// column falls inside the inclusive closed range [lo, hi]. Null values are
// excluded. An empty column name is the identity transform.
func ByRange(rs *recordset.RecordSet, column string, lo, hi float64) (*recordset.RecordSet, error) {
	if column == "" {
		return rs, nil
	}

	kind, err := columnKind(rs, column)
	if err != nil {
		return nil, err
	}
	if kind != recordset.KindNumber {
		return nil, fmt.Errorf("column %q is not numeric", column)
	}

	var records []recordset.Record
	for _, rec := range rs.Records() {
		v, ok := rec.Attrs[column].(float64)
		if !ok {
			continue
		}
		if v >= lo && v <= hi {
			records = append(records, rec)
		}
	}

	return rs.Derive(records), nil
}

// columnKind reads the declared schema typing; predicates never sample
// values to decide the column kind.
func columnKind(rs *recordset.RecordSet, column string) (recordset.Kind, error) {
	schema := rs.Schema()
	idx := schema.Index(column)
	if idx < 0 {
		return 0, fmt.Errorf("column %q not in schema", column)
	}
	return schema[idx].Kind, nil
}
