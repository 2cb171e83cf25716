package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonMunkholm/LabMaster/internal/core"
)

// MarshalFields encodes the category fields of rec. System fields are
// dropped; stores keep those in their own columns.
func MarshalFields(rec core.Record) ([]byte, error) {
	fields, _ := SplitSystem(rec)
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return data, nil
}

// UnmarshalRecord decodes a fields document. Numbers decode as
// json.Number so no precision is lost before core.Schema.Hydrate.
func UnmarshalRecord(data []byte) (core.Record, error) {
	rec := core.Record{}
	if len(data) == 0 {
		return rec, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return rec, nil
}

// SetSystem writes the system fields into rec.
func SetSystem(rec core.Record, id string, active bool, created, updated time.Time) core.Record {
	rec[core.FieldID] = id
	rec[core.FieldIsActive] = active
	rec[core.FieldCreatedAt] = created.UTC()
	rec[core.FieldUpdatedAt] = updated.UTC()
	return rec
}

// Timestamp extracts a time system field, accepting time.Time or RFC3339.
func Timestamp(rec core.Record, key string) time.Time {
	switch v := rec[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
