package core

import (
	"encoding/json"
	"time"
)

// Hydrate converts serialized field values back into the types the
// validator produces. Stores keep records as JSON, so numbers come back as
// strings or float64 and dates as strings; sorting, filtering and export
// expect decimal.Decimal and time.Time.
//
// Values that cannot be converted are left untouched. The input is not modified.
func (s *Schema) Hydrate(rec Record) Record {
	out := rec.Clone()
	for _, f := range s.Fields {
		v, ok := out[f.Key]
		if !ok || v == nil {
			continue
		}

		switch f.Type {
		case FieldNumber:
			if n, ok := v.(json.Number); ok {
				v = n.String()
			}
			if d, ok := toDecimal(v); ok {
				out[f.Key] = d
			}
		case FieldDate:
			if t, ok := toTime(v); ok {
				out[f.Key] = truncateDay(t)
			}
		case FieldBoolean:
			if str, ok := v.(string); ok {
				if b, ok := ParseBool(str); ok {
					out[f.Key] = b
				}
			}
		}
	}

	for _, key := range []string{FieldCreatedAt, FieldUpdatedAt} {
		if str, ok := out[key].(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
				out[key] = t
			}
		}
	}
	if str, ok := out[FieldIsActive].(string); ok {
		if b, ok := ParseBool(str); ok {
			out[FieldIsActive] = b
		}
	}
	return out
}

// HydrateAll applies Hydrate to every record.
func (s *Schema) HydrateAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = s.Hydrate(rec)
	}
	return out
}
