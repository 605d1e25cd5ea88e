package recordset

// Merge concatenates record sets into one. The merged schema is the union
// of the input schemas in first-seen column order; a column missing from a
// record's source set reads as null. The inputs are not mutated.
func Merge(name string, sets ...*RecordSet) *RecordSet {
	var schema Schema
	seen := make(map[string]struct{})
	total := 0
	for _, s := range sets {
		total += s.Len()
		for _, f := range s.schema {
			if _, ok := seen[f.Name]; ok {
				continue
			}
			seen[f.Name] = struct{}{}
			schema = append(schema, f)
		}
	}

	records := make([]Record, 0, total)
	for _, s := range sets {
		records = append(records, s.records...)
	}

	return New(name, schema, records)
}
