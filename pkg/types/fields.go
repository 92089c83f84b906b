package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FormFields is the free-form key/value payload a token holder fills in over
// multiple autosave calls. Every key is optional while drafting; the
// kind-specific required set is checked only at finalization.
type FormFields map[string]string

func (f FormFields) Value() (driver.Value, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f)
}

func (f *FormFields) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	case nil:
		*f = FormFields{}
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to FormFields", src)
}

// Merge applies patch on top of f, field by field. Keys absent from patch
// stay untouched, which makes two saves with disjoint field sets commutative.
func (f FormFields) Merge(patch FormFields) FormFields {
	merged := FormFields{}
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

// MissingOf returns the required keys that are absent or blank, in the given
// order so callers always report the full list deterministically.
func (f FormFields) MissingOf(required []string) []string {
	var missing []string
	for _, key := range required {
		if f[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
